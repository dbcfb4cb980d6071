package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Client is the object storage capability contract: upload a binary stream
// under a key and get back the URL the object is served from, or remove a
// previously uploaded object.
type Client interface {
	Upload(stream io.Reader, key string) (string, error)
	Remove(key string) error
}

// Config holds the object storage endpoint details.
type Config struct {
	UploadURL  string // endpoint accepting multipart uploads
	DestroyURL string // endpoint accepting deletions by public id
	APIKey     string
}

// HTTPClient is a Client that talks to a hosted media service over its
// multipart upload API.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient creates a new HTTPClient.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// uploadResponse is the subset of the media service's response we consume.
type uploadResponse struct {
	URL string `json:"url"`
}

// Upload posts the stream as a multipart form with the given public id and
// returns the URL from the service's response.
func (c *HTTPClient) Upload(stream io.Reader, key string) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var werr error
		defer func() { pw.CloseWithError(werr) }()

		if werr = mw.WriteField("public_id", key); werr != nil {
			return
		}
		if werr = mw.WriteField("api_key", c.cfg.APIKey); werr != nil {
			return
		}
		part, err := mw.CreateFormFile("file", key)
		if err != nil {
			werr = err
			return
		}
		if _, werr = io.Copy(part, stream); werr != nil {
			return
		}
		werr = mw.Close()
	}()

	req, err := http.NewRequest(http.MethodPost, c.cfg.UploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, body)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response contained no URL")
	}
	return out.URL, nil
}

// Remove deletes the object stored under key. Used by the add-product flow
// to clean up an orphaned upload when the record write fails.
func (c *HTTPClient) Remove(key string) error {
	form := url.Values{}
	form.Set("public_id", key)
	form.Set("api_key", c.cfg.APIKey)

	resp, err := c.http.PostForm(c.cfg.DestroyURL, form)
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("destroy rejected with status %d", resp.StatusCode)
	}
	return nil
}
