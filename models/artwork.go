package models

import "time"

// ArtworkStatus is the processing state of an uploaded artwork
type ArtworkStatus string

const (
	ArtworkPending ArtworkStatus = "pending"
	ArtworkReady   ArtworkStatus = "ready"
	ArtworkFailed  ArtworkStatus = "failed"
)

// ArtworkUpload is the raw payload handed over by the ingestion boundary
type ArtworkUpload struct {
	FileName string
	MimeType string
	Data     []byte
}

// ArtworkAsset represents the user-supplied design image and its background-removed derivative
type ArtworkAsset struct {
	RequestID    uint64        `json:"requestId"`
	FileName     string        `json:"fileName"`
	OriginalRef  ImageRef      `json:"originalRef"`
	ProcessedRef *ImageRef     `json:"processedRef,omitempty"` // nil until the removal stage resolves
	Status       ArtworkStatus `json:"status"`
	Degraded     bool          `json:"degraded"` // true when the processed ref is the un-matted original
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// DisplayRef returns the ref the preview should show: processed when available, otherwise original
func (a *ArtworkAsset) DisplayRef() ImageRef {
	if a.ProcessedRef != nil {
		return *a.ProcessedRef
	}
	return a.OriginalRef
}

// RemovalResult is what the background-removal stage resolves with
type RemovalResult struct {
	Original  ImageRef `json:"original"`
	Processed ImageRef `json:"processed"`
	Degraded  bool     `json:"degraded"`
}

// RemovalConfig is the fixed configuration sent to the background-removal engine
type RemovalConfig struct {
	OutputFormat string  `json:"outputFormat"` // e.g. "image/png"
	Quality      float64 `json:"quality"`      // 0-1
	Model        string  `json:"model"`        // segmentation model identifier
}
