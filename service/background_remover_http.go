package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"khichik-studio/models"
)

const maxMatteBytes = 32 << 20

// HTTPBackgroundRemover posts the image to a rembg-compatible service
// and reads the matted image from the response body
type HTTPBackgroundRemover struct {
	url    string
	client *http.Client
}

// NewHTTPBackgroundRemover creates a remover for the given endpoint
func NewHTTPBackgroundRemover(url string, timeout time.Duration) *HTTPBackgroundRemover {
	return &HTTPBackgroundRemover{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Ensure HTTPBackgroundRemover implements BackgroundRemover
var _ BackgroundRemover = (*HTTPBackgroundRemover)(nil)

// Remove sends the image as multipart field "file" with the model and output settings
func (r *HTTPBackgroundRemover) Remove(ctx context.Context, imageData []byte, cfg models.RemovalConfig) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "upload")
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write multipart file: %w", err)
	}
	fields := map[string]string{
		"model":   cfg.Model,
		"format":  cfg.OutputFormat,
		"quality": strconv.FormatFloat(cfg.Quality, 'f', -1, 64),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write multipart field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", cfg.OutputFormat)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call background removal service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("background removal service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMatteBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read background removal response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("background removal service returned an empty body")
	}
	return data, nil
}
