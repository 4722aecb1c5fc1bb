// Package media uploads cover images to the remote asset host. Files are
// validated locally before any network I/O: wrong type or oversized input
// never leaves the process.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
)

// MaxFileSize is the upload limit for cover images.
const MaxFileSize = 2 << 20 // 2 MiB

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidationError is a client-side rejection, distinguishable from a
// transport failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type Uploader struct {
	client   *http.Client
	endpoint string
	preset   string
	log      logging.Logger
}

func NewUploader(endpoint, preset string, log logging.Logger) *Uploader {
	return &Uploader{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
		preset:   preset,
		log:      log,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload validates and uploads one image, returning its public HTTPS URL.
func (u *Uploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return "", &ValidationError{Reason: "a imagem deve ter no máximo 2MB"}
	}
	if len(data) == 0 {
		return "", &ValidationError{Reason: "arquivo vazio"}
	}

	// Sniff the real content type instead of trusting the file extension.
	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return "", &ValidationError{Reason: "apenas imagens são permitidas (JPG, PNG, GIF, WEBP)"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.log.Error(ctx, "image upload rejected by asset host", "status", resp.StatusCode)
		return "", fmt.Errorf("upload image: unexpected status %d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", errors.New("upload response missing secure_url")
	}

	u.log.Info(ctx, "image uploaded", "url", parsed.SecureURL, "bytes", len(data), "type", contentType)
	return parsed.SecureURL, nil
}
