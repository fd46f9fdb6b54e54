// Package upload sends documents to the import API.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/mmlt/ytt-import/pkg/document"
)

// Error means the import API returned a non-success response.
// Body is the full response body, the API puts its diagnostics there.
type Error struct {
	StatusCode int
	// Status is the status line, including the code.
	Status string
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload: %s: %s", e.Status, e.Body)
}

// Uploader POSTs documents to the import API.
type Uploader struct {
	Log    logr.Logger
	Client *http.Client
}

// New returns an Uploader.
func New(log logr.Logger) *Uploader {
	return &Uploader{Log: log, Client: cleanhttp.DefaultClient()}
}

// Upload sends doc as JSON to endpoint with bearer auth and returns the
// response body verbatim (possibly empty).
func (u *Uploader) Upload(doc *document.Document, token, endpoint string) (string, error) {
	b, err := doc.JSON()
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	u.Log.V(2).Info("upload", "endpoint", endpoint, "bytes", len(b))

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("upload: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	return string(body), nil
}
