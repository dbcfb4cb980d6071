package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClient is an in-memory Client for gateway tests.
type fakeClient struct {
	mu        sync.Mutex
	uploadURL string
	uploadErr error
	panicMsg  string
	block     chan struct{} // when set, Upload waits until closed
	uploads   []string
	removed   []string
}

func (f *fakeClient) Upload(stream io.Reader, key string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, key)
	f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadURL, nil
}

func (f *fakeClient) Remove(key string) error {
	f.mu.Lock()
	f.removed = append(f.removed, key)
	f.mu.Unlock()
	return nil
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips last extension only", "photo.final.jpg", "photo.final"},
		{"single extension", "keyboard.png", "keyboard"},
		{"no extension", "keyboard", "keyboard"},
		{"blank name falls back", "", "uploaded_image"},
		{"leading dot kept", ".hidden", ".hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKey(tt.in))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://host/path", normalizeURL("http://host/path"))
	assert.Equal(t, "https://host/path", normalizeURL("https://host/path"))
	// Only a literal leading prefix is substituted.
	assert.Equal(t, "ftp://host/http://nested", normalizeURL("ftp://host/http://nested"))
}

func TestGatewayUploadNormalizesURL(t *testing.T) {
	client := &fakeClient{uploadURL: "http://cdn.example.com/img/keyboard"}
	gateway := NewGateway(client)
	defer gateway.Close()

	res := gateway.UploadAndWait(strings.NewReader("bytes"), "keyboard.png")

	assert.NoError(t, res.Err)
	assert.Equal(t, "https://cdn.example.com/img/keyboard", res.URL)
	assert.Equal(t, "keyboard", res.Key)
	assert.Equal(t, []string{"keyboard"}, client.uploads)
}

func TestGatewayUploadFailureCollapsesToError(t *testing.T) {
	client := &fakeClient{uploadErr: errors.New("network down")}
	gateway := NewGateway(client)
	defer gateway.Close()

	res := gateway.UploadAndWait(strings.NewReader("bytes"), "keyboard.png")

	assert.Error(t, res.Err)
	assert.Empty(t, res.URL)
}

func TestGatewayUploadPanicDoesNotEscape(t *testing.T) {
	client := &fakeClient{panicMsg: "boom"}
	gateway := NewGateway(client)
	defer gateway.Close()

	res := gateway.UploadAndWait(strings.NewReader("bytes"), "keyboard.png")

	assert.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "boom")
}

func TestGatewayCallbackInvokedExactlyOnce(t *testing.T) {
	client := &fakeClient{uploadURL: "https://cdn.example.com/img/a"}
	gateway := NewGateway(client)
	defer gateway.Close()

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})
	gateway.Upload(strings.NewReader("bytes"), "a.png", func(UploadResult) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(done)
	})

	<-done
	// Give a double invocation a chance to show up before asserting.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestGatewayUploadDoesNotBlockCaller(t *testing.T) {
	block := make(chan struct{})
	client := &fakeClient{uploadURL: "https://cdn.example.com/img/a", block: block}
	gateway := NewGateway(client)
	defer gateway.Close()

	done := make(chan UploadResult, 1)
	start := time.Now()
	gateway.Upload(strings.NewReader("bytes"), "a.png", func(res UploadResult) {
		done <- res
	})
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Upload must return before the work completes")

	close(block)
	res := <-done
	assert.NoError(t, res.Err)
}

func TestGatewayConcurrentUploads(t *testing.T) {
	client := &fakeClient{uploadURL: "http://cdn.example.com/img/x"}
	gateway := NewGateway(client)
	defer gateway.Close()

	const n = 8
	results := make(chan UploadResult, n)
	for i := 0; i < n; i++ {
		gateway.Upload(strings.NewReader("bytes"), fmt.Sprintf("img-%d.png", i), func(res UploadResult) {
			results <- res
		})
	}

	for i := 0; i < n; i++ {
		res := <-results
		assert.NoError(t, res.Err)
		assert.Equal(t, "https://cdn.example.com/img/x", res.URL)
	}
}
