package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Uploader talks to the external media endpoint. The endpoint is opaque:
// it takes a file plus declared media type and returns a durable URL and
// an identifier. Failures bubble up to the caller, who retries manually.
type Uploader struct {
	endpoint string
	maxSize  int64
	client   *http.Client
}

type UploadResult struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

func NewUploader(endpoint string, timeout time.Duration, maxSize int64) *Uploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{
		endpoint: endpoint,
		maxSize:  maxSize,
		client:   &http.Client{Timeout: timeout},
	}
}

func (u *Uploader) Upload(ctx context.Context, filename, mediaType string, file io.Reader) (*UploadResult, error) {
	if u.maxSize > 0 {
		file = io.LimitReader(file, u.maxSize)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("mediaType", mediaType); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pr)
	if err != nil {
		return nil, fmt.Errorf("media upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("media upload: endpoint returned %d: %s", resp.StatusCode, body)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("media upload: decoding response: %w", err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("media upload: endpoint returned no url")
	}

	return &result, nil
}
