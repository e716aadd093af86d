package models

// ImageRef is an opaque handle to image bytes held by the studio.
// URL is either an /images/{id} path served from the image store or an inline data URL.
type ImageRef struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"` // Raw encoded bytes, kept in memory for decoding and sinks
}

// IsZero reports whether the ref points at nothing
func (r ImageRef) IsZero() bool {
	return r.ID == "" && r.URL == ""
}
