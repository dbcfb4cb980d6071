package storage

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultKey is the storage key used when no display name is supplied.
const DefaultKey = "uploaded_image"

// DeriveKey turns a client-supplied display name into a storage object key.
// Only the last extension is stripped, so "photo.final.jpg" becomes
// "photo.final". A blank name falls back to DefaultKey.
func DeriveKey(displayName string) string {
	if displayName == "" {
		return DefaultKey
	}
	if i := strings.LastIndex(displayName, "."); i > 0 {
		return displayName[:i]
	}
	return displayName
}

// normalizeURL rewrites a plain-HTTP URL to HTTPS by substituting the
// literal scheme prefix. URLs without the prefix pass through untouched;
// this is intentionally not a general URL rewrite.
func normalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// UploadResult carries the outcome of one gateway upload.
type UploadResult struct {
	URL string // HTTPS URL of the stored object; empty on failure
	Key string // storage key the object was uploaded under
	Err error
}

// Gateway accepts binary streams and uploads them to object storage off the
// caller's goroutine. Each call's callback is invoked exactly once, from the
// gateway's dispatcher goroutine, never from the upload worker.
type Gateway struct {
	client  Client
	results chan delivery
	workers sync.WaitGroup
	stopped chan struct{}
}

type delivery struct {
	cb  func(UploadResult)
	res UploadResult
}

// NewGateway creates a Gateway and starts its dispatcher.
func NewGateway(client Client) *Gateway {
	g := &Gateway{
		client:  client,
		results: make(chan delivery),
		stopped: make(chan struct{}),
	}
	go g.dispatch()
	return g
}

func (g *Gateway) dispatch() {
	defer close(g.stopped)
	for d := range g.results {
		d.cb(d.res)
	}
}

// Upload reads the stream and uploads it under a key derived from
// displayName, reporting completion through cb. It returns immediately; the
// blocking work happens on a worker goroutine. Every failure, including a
// panicking client, collapses into a result with Err set.
func (g *Gateway) Upload(stream io.Reader, displayName string, cb func(UploadResult)) {
	key := DeriveKey(displayName)

	g.workers.Add(1)
	go func() {
		defer g.workers.Done()

		res := UploadResult{Key: key}
		func() {
			defer func() {
				if r := recover(); r != nil {
					res.Err = fmt.Errorf("upload panicked: %v", r)
				}
			}()
			url, err := g.client.Upload(stream, key)
			if err != nil {
				res.Err = fmt.Errorf("failed to upload %s: %w", key, err)
				return
			}
			res.URL = normalizeURL(url)
		}()

		g.results <- delivery{cb: cb, res: res}
	}()
}

// UploadAndWait is a blocking convenience wrapper around Upload.
func (g *Gateway) UploadAndWait(stream io.Reader, displayName string) UploadResult {
	done := make(chan UploadResult, 1)
	g.Upload(stream, displayName, func(res UploadResult) {
		done <- res
	})
	return <-done
}

// Remove deletes the object stored under key.
func (g *Gateway) Remove(key string) error {
	return g.client.Remove(key)
}

// Close waits for in-flight uploads to finish and stops the dispatcher.
func (g *Gateway) Close() {
	g.workers.Wait()
	close(g.results)
	<-g.stopped
}
