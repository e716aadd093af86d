package models

import "time"

// DesignSessionState is the JSON view of a design session
type DesignSessionState struct {
	ID             string        `json:"id"`
	Artwork        *ArtworkAsset `json:"artwork,omitempty"`
	PendingUpload  *ArtworkAsset `json:"pendingUpload,omitempty"`
	FailedUpload   *ArtworkAsset `json:"failedUpload,omitempty"` // Last upload, when it failed with no artwork loaded
	Transform      Transform     `json:"transform"`
	FittedSize     FittedSize    `json:"fittedSize"`
	Surface        SurfaceSize   `json:"surface"`
	Color          string        `json:"color"`
	ColorName      string        `json:"colorName"`
	Size           string        `json:"size"`
	Price          int64         `json:"price"`
	FormattedPrice string        `json:"formattedPrice"`
	Dragging       bool          `json:"dragging"`
	Guidance       string        `json:"guidance,omitempty"`    // Inline hint shown next to the commit button
	UploadError    string        `json:"uploadError,omitempty"` // Set only when an upload failed and no artwork was loaded before
	LastAccessed   time.Time     `json:"lastAccessed"`
}

// UploadAccepted is returned when an upload has been queued
type UploadAccepted struct {
	SessionID string        `json:"sessionId"`
	RequestID uint64        `json:"requestId"`
	Status    ArtworkStatus `json:"status"`
	Artwork   *ArtworkAsset `json:"artwork,omitempty"` // set when the caller waited for completion
}

// ColorRequest is the body of PUT /designs/{id}/color
type ColorRequest struct {
	Color string `json:"color"`
}

// SizeRequest is the body of PUT /designs/{id}/size
type SizeRequest struct {
	Size string `json:"size"`
}

// AdjustRequest is the body of the scale and rotate endpoints.
// Either Delta or Direction ("up"/"down", "cw"/"ccw") is used.
type AdjustRequest struct {
	Delta     *float64 `json:"delta,omitempty"`
	Direction string   `json:"direction,omitempty"`
}

// LiveFrame is pushed over the live preview socket after each coalesced change
type LiveFrame struct {
	Transform  Transform     `msgpack:"transform" json:"transform"`
	FittedSize FittedSize    `msgpack:"fittedSize" json:"fittedSize"`
	Status     ArtworkStatus `msgpack:"status" json:"status"`
	PNG        []byte        `msgpack:"png" json:"-"`
}

// LiveInput is a client message on the live preview socket
type LiveInput struct {
	Type    string        `json:"type"` // pointer, scale, rotate, reset
	Pointer *PointerEvent `json:"pointer,omitempty"`
	Delta   float64       `json:"delta,omitempty"`
}
