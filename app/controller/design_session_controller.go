package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"khichik-studio/models"
	"khichik-studio/placement"
	"khichik-studio/service"
	"khichik-studio/utils"
)

const designsPrefix = "/designs/"

// DesignSessionController handles HTTP requests for design sessions
type DesignSessionController struct {
	sessions       service.SessionManagerInterface
	maxUploadBytes int64
}

// NewDesignSessionController creates a new DesignSessionController
func NewDesignSessionController(sessions service.SessionManagerInterface, maxUploadMB int) *DesignSessionController {
	return &DesignSessionController{
		sessions:       sessions,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// sessionIDFromPath extracts {id} from /designs/{id}/...
func sessionIDFromPath(path string) string {
	rest := strings.TrimPrefix(path, designsPrefix)
	id, _, _ := strings.Cut(rest, "/")
	return id
}

// lookup resolves the session named in the URL or writes a 404
func (c *DesignSessionController) lookup(w http.ResponseWriter, r *http.Request) (*service.DesignSession, bool) {
	id := sessionIDFromPath(r.URL.Path)
	if id == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return nil, false
	}
	session, err := c.sessions.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// Create handles POST /designs
func (c *DesignSessionController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.sessions.Create()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create design session: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, session.State())
}

// Session handles GET and DELETE /designs/{id}
func (c *DesignSessionController) Session(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		session, ok := c.lookup(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, session.State())
	case http.MethodDelete:
		if !c.sessions.Delete(sessionIDFromPath(r.URL.Path)) {
			http.Error(w, service.ErrSessionNotFound.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Upload handles POST /designs/{id}/upload (multipart field "file").
// The removal stage runs in the background; ?wait=true blocks until it settled.
func (c *DesignSessionController) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read upload: %v", err), http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "file is empty", http.StatusBadRequest)
		return
	}

	task := session.Upload(r.Context(), models.ArtworkUpload{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	})

	accepted := models.UploadAccepted{
		SessionID: session.ID(),
		RequestID: task.RequestID,
		Status:    models.ArtworkPending,
	}
	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, accepted)
		return
	}

	asset, err := task.Wait(r.Context())
	switch {
	case errors.Is(err, service.ErrUndecodableImage):
		http.Error(w, service.MessageUndecodable, http.StatusUnprocessableEntity)
		return
	case errors.Is(err, service.ErrUploadSuperseded):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("Upload failed: %v", err), http.StatusInternalServerError)
		return
	}

	accepted.Status = asset.Status
	accepted.Artwork = asset
	writeJSON(w, http.StatusOK, accepted)
}

// Color handles PUT /designs/{id}/color
func (c *DesignSessionController) Color(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var req models.ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := session.SetColor(req.Color); err != nil {
		writeJSON(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, session.State())
}

// Size handles PUT /designs/{id}/size
func (c *DesignSessionController) Size(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var req models.SizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := session.SetSize(req.Size); err != nil {
		writeJSON(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, session.State())
}

// Pointer handles POST /designs/{id}/pointer with a single PointerEvent
func (c *DesignSessionController) Pointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var ev models.PointerEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	switch ev.Kind {
	case models.PointerDown, models.PointerMove, models.PointerUp, models.PointerCancel:
	default:
		http.Error(w, fmt.Sprintf("Invalid pointer kind %q", ev.Kind), http.StatusBadRequest)
		return
	}

	session.HandlePointer(ev)
	writeJSON(w, http.StatusOK, session.State())
}

// Scale handles POST /designs/{id}/scale
// Body: {"direction":"up"|"down"} or {"delta":0.25}
func (c *DesignSessionController) Scale(w http.ResponseWriter, r *http.Request) {
	c.adjust(w, r, "up", "down", placement.ScaleStep, (*service.DesignSession).Scale)
}

// Rotate handles POST /designs/{id}/rotate
// Body: {"direction":"cw"|"ccw"} or {"delta":45}
func (c *DesignSessionController) Rotate(w http.ResponseWriter, r *http.Request) {
	c.adjust(w, r, "cw", "ccw", placement.RotationStep, (*service.DesignSession).Rotate)
}

func (c *DesignSessionController) adjust(w http.ResponseWriter, r *http.Request, up, down string, step float64, apply func(*service.DesignSession, float64) models.Transform) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var req models.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	var delta float64
	switch {
	case req.Delta != nil:
		delta = *req.Delta
	case req.Direction == up || req.Direction == "":
		delta = step
	case req.Direction == down:
		delta = -step
	default:
		http.Error(w, fmt.Sprintf("Invalid direction %q (use %s or %s)", req.Direction, up, down), http.StatusBadRequest)
		return
	}

	apply(session, delta)
	writeJSON(w, http.StatusOK, session.State())
}

// Reset handles POST /designs/{id}/reset
func (c *DesignSessionController) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	session.Reset()
	writeJSON(w, http.StatusOK, session.State())
}

// Preview handles GET /designs/{id}/preview.png
func (c *DesignSessionController) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	png, err := session.Render(r.Context())
	if err != nil {
		log.Printf("❌ Preview: render failed for %s: %v", session.ID(), err)
		http.Error(w, fmt.Sprintf("Failed to render preview: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("❌ Preview: error writing response: %v", err)
	}
}

// Commit handles POST /designs/{id}/commit
func (c *DesignSessionController) Commit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := c.lookup(w, r)
	if !ok {
		return
	}

	submission, err := session.Commit(r.Context())
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
		return
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status":  "error",
			"message": service.MessageSaveFailed,
		})
		return
	}

	writeJSON(w, http.StatusOK, models.CommitDesignResponse{
		Status:         "success",
		Message:        service.MessageSaved,
		Submission:     submission,
		FormattedPrice: utils.FormatINR(submission.Price),
	})
}
