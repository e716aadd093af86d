package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"khichik-studio/canvas"
	"khichik-studio/compositor"
	"khichik-studio/models"
	"khichik-studio/placement"
	"khichik-studio/repository"
	"khichik-studio/utils"
)

var (
	// ErrUploadSuperseded is returned by an upload task whose result arrived after a newer upload started
	ErrUploadSuperseded = errors.New("upload superseded by a newer upload")
	// ErrDesignSinkFailed wraps persistence failures on commit
	ErrDesignSinkFailed = errors.New("failed to save design")
)

// User-facing messages
const (
	GuidanceUploadDesign = "Upload a design to continue"
	GuidanceSelectSize   = "Select a size to continue"
	GuidanceSelectColor  = "Select a color to continue"

	MessageUndecodable = "We couldn't read that file. Please upload a PNG, JPEG or WebP image."
	MessageSaveFailed  = "Failed to save design. Please try again or contact support."
	MessageSaved       = "Design saved! We'll review it and get back to you."
)

// DesignSessionDeps are the collaborators a design session works with
type DesignSessionDeps struct {
	Stage         BackgroundRemovalStageInterface
	Sink          DesignSinkInterface
	Mockups       MockupLoaderInterface
	Store         repository.ImageStoreInterface // optional; used to persist inline images on commit
	Surface       models.SurfaceSize
	FallbackFill  string
	UploadTimeout time.Duration
}

// UploadTask is the handle of one asynchronous upload
type UploadTask struct {
	RequestID uint64
	done      chan struct{}
	asset     *models.ArtworkAsset
	err       error
}

// Done is closed once the upload settled
func (t *UploadTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the upload settled or ctx ends.
// A stale upload reports ErrUploadSuperseded.
func (t *UploadTask) Wait(ctx context.Context) (*models.ArtworkAsset, error) {
	select {
	case <-t.done:
		return t.asset, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *UploadTask) finish(asset *models.ArtworkAsset, err error) {
	t.asset = asset
	t.err = err
	close(t.done)
}

// DesignSession owns the state of one design page: the artwork, its placement,
// the garment selections and the rendered composite.
// Every mutation goes through mu; removal and decoding run outside it and
// re-enter tagged with their request id.
type DesignSession struct {
	id   string
	deps DesignSessionDeps

	mu        sync.Mutex
	engine    *placement.Engine
	renderer  *compositor.Renderer
	surface   *canvas.RasterSurface
	createdAt time.Time
	lastUsed  time.Time

	latestRequestID uint64
	artwork         *models.ArtworkAsset
	artworkImage    image.Image
	pending         *models.ArtworkAsset
	failed          *models.ArtworkAsset
	uploadError     string

	// while the latest upload's original is on screen, the artwork it replaced
	provisional     bool
	committedImage  image.Image
	committedFitted models.FittedSize

	color    string
	size     string
	guidance string

	mockupResource string
	mockupImage    image.Image
	mockupFailed   bool

	dirty   bool
	frame   []byte
	renders int

	subscribers map[uint64]chan struct{}
	nextSubID   uint64
	closed      bool
}

// NewDesignSession creates a session with the default colour and no artwork
func NewDesignSession(id string, deps DesignSessionDeps) *DesignSession {
	if deps.Surface.Width == 0 || deps.Surface.Height == 0 {
		deps.Surface = placement.DefaultSurface
	}
	if deps.UploadTimeout == 0 {
		deps.UploadTimeout = 60 * time.Second
	}
	now := time.Now()
	return &DesignSession{
		id:          id,
		deps:        deps,
		engine:      placement.NewEngine(deps.Surface),
		renderer:    compositor.NewRenderer(deps.FallbackFill),
		surface:     canvas.NewRasterSurface(deps.Surface.Width, deps.Surface.Height),
		createdAt:   now,
		lastUsed:    now,
		color:       utils.DefaultColor,
		dirty:       true,
		subscribers: make(map[uint64]chan struct{}),
	}
}

// ID returns the session id
func (s *DesignSession) ID() string {
	return s.id
}

// Touch marks the session as used now
func (s *DesignSession) Touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// LastUsed returns when the session was last used
func (s *DesignSession) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Upload starts processing a new artwork and returns immediately.
// A later upload supersedes this one; its result is then discarded.
func (s *DesignSession) Upload(ctx context.Context, upload models.ArtworkUpload) *UploadTask {
	s.mu.Lock()
	s.latestRequestID++
	reqID := s.latestRequestID
	s.dropProvisionalLocked()
	s.failed = nil
	s.pending = &models.ArtworkAsset{
		RequestID: reqID,
		FileName:  upload.FileName,
		Status:    models.ArtworkPending,
		CreatedAt: time.Now(),
	}
	s.lastUsed = time.Now()
	s.notifyLocked()
	s.mu.Unlock()

	log.Printf("🎨 [%s] Upload #%d started: %s (%d bytes)", s.shortID(), reqID, upload.FileName, len(upload.Data))

	task := &UploadTask{RequestID: reqID, done: make(chan struct{})}

	// the upload outlives the request that started it
	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.deps.UploadTimeout)
	go func() {
		defer cancel()
		asset, err := s.runUpload(uploadCtx, reqID, upload)
		task.finish(asset, err)
	}()

	return task
}

func (s *DesignSession) runUpload(ctx context.Context, reqID uint64, upload models.ArtworkUpload) (*models.ArtworkAsset, error) {
	result, err := s.deps.Stage.Process(ctx, upload, RemovalHooks{
		OnOriginal: func(ref models.ImageRef) { s.exposeOriginal(ctx, reqID, ref) },
	})
	if err != nil {
		return s.failUpload(reqID, upload.FileName, err)
	}

	img, err := s.decodeRef(ctx, result.Processed)
	if err != nil {
		failed, err := s.failUpload(reqID, upload.FileName, fmt.Errorf("%w: %v", ErrUndecodableImage, err))
		// no asset will point at the stored original
		s.discardStored(ctx, result.Original)
		return failed, err
	}

	// fitted size comes from the native dimensions, before any downscale
	fitted := placement.ComputeFittedSize(img.Bounds().Dx(), img.Bounds().Dy())
	asset, err := s.completeUpload(reqID, upload.FileName, result, PrepareArtwork(img), fitted)
	if errors.Is(err, ErrUploadSuperseded) {
		s.discardStored(ctx, result.Original)
	}
	return asset, err
}

// discardStored removes the stored original of an upload nobody will see
func (s *DesignSession) discardStored(ctx context.Context, ref models.ImageRef) {
	if s.deps.Store == nil || !strings.HasPrefix(ref.URL, "/images/") {
		return
	}
	if err := s.deps.Store.Delete(ctx, ref.ID); err != nil {
		log.Printf("⚠️  [%s] Could not delete superseded image %s: %v", s.shortID(), ref.ID, err)
	}
}

func (s *DesignSession) decodeRef(ctx context.Context, ref models.ImageRef) (image.Image, error) {
	data, err := s.refBytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

// refBytes returns the encoded bytes behind a ref
func (s *DesignSession) refBytes(ctx context.Context, ref models.ImageRef) ([]byte, error) {
	if len(ref.Data) > 0 {
		return ref.Data, nil
	}
	if strings.HasPrefix(ref.URL, "data:") {
		data, _, err := DecodeDataURL(ref.URL)
		return data, err
	}
	if s.deps.Store == nil {
		return nil, fmt.Errorf("no image store to read %s", ref.URL)
	}
	data, _, err := s.deps.Store.Get(ctx, ref.ID)
	return data, err
}

// exposeOriginal publishes the stored original of the latest upload and, when it decodes,
// puts it on the surface until the matte is ready
func (s *DesignSession) exposeOriginal(ctx context.Context, reqID uint64, ref models.ImageRef) {
	var preview image.Image
	var fitted models.FittedSize
	if img, err := s.decodeRef(ctx, ref); err == nil {
		preview = PrepareArtwork(img)
		fitted = placement.ComputeFittedSize(img.Bounds().Dx(), img.Bounds().Dy())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if reqID != s.latestRequestID || s.pending == nil {
		return
	}
	s.pending.OriginalRef = ref
	if preview == nil {
		s.notifyLocked()
		return
	}

	if !s.provisional {
		s.committedImage = s.artworkImage
		s.committedFitted = s.engine.FittedSize()
		s.provisional = true
	}
	s.artworkImage = preview
	if s.engine.FittedSize() != fitted {
		s.engine.SetFittedSize(fitted)
	}
	s.markDirtyLocked()
	log.Printf("🖼️  [%s] Upload #%d showing original while removal runs", s.shortID(), reqID)
}

// dropProvisionalLocked puts back the artwork an exposed original replaced
func (s *DesignSession) dropProvisionalLocked() {
	if !s.provisional {
		return
	}
	s.artworkImage = s.committedImage
	if s.engine.FittedSize() != s.committedFitted {
		s.engine.SetFittedSize(s.committedFitted)
	}
	s.committedImage = nil
	s.committedFitted = models.FittedSize{}
	s.provisional = false
	s.markDirtyLocked()
}

func (s *DesignSession) completeUpload(reqID uint64, fileName string, result *models.RemovalResult, img image.Image, fitted models.FittedSize) (*models.ArtworkAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reqID != s.latestRequestID {
		log.Printf("⏭️  [%s] Upload #%d finished after #%d started, discarding", s.shortID(), reqID, s.latestRequestID)
		return nil, ErrUploadSuperseded
	}

	processed := result.Processed
	asset := &models.ArtworkAsset{
		RequestID:    reqID,
		FileName:     fileName,
		OriginalRef:  result.Original,
		ProcessedRef: &processed,
		Status:       models.ArtworkReady,
		Degraded:     result.Degraded,
		CreatedAt:    time.Now(),
	}
	if s.pending != nil {
		asset.CreatedAt = s.pending.CreatedAt
	}

	s.artwork = asset
	s.artworkImage = img
	// a drag on the exposed original carries over when the sizes agree
	if !s.provisional || s.engine.FittedSize() != fitted {
		s.engine.SetFittedSize(fitted)
	}
	s.provisional = false
	s.committedImage = nil
	s.committedFitted = models.FittedSize{}
	s.pending = nil
	s.failed = nil
	s.uploadError = ""
	if s.guidance == GuidanceUploadDesign {
		s.guidance = ""
	}
	s.markDirtyLocked()

	log.Printf("✓ [%s] Upload #%d ready: fitted %dx%d, degraded=%v", s.shortID(), reqID, fitted.Width, fitted.Height, result.Degraded)
	return asset, nil
}

// failUpload clears the pending upload and keeps whatever was loaded before.
// The failed asset is returned to the caller and, with nothing loaded, kept in the session state.
func (s *DesignSession) failUpload(reqID uint64, fileName string, cause error) (*models.ArtworkAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reqID != s.latestRequestID {
		log.Printf("⏭️  [%s] Upload #%d failed after #%d started, ignoring: %v", s.shortID(), reqID, s.latestRequestID, cause)
		return nil, ErrUploadSuperseded
	}

	log.Printf("❌ [%s] Upload #%d failed: %v", s.shortID(), reqID, cause)
	failed := &models.ArtworkAsset{
		RequestID: reqID,
		FileName:  fileName,
		Status:    models.ArtworkFailed,
		Error:     cause.Error(),
		CreatedAt: time.Now(),
	}
	if errors.Is(cause, ErrUndecodableImage) {
		failed.Error = MessageUndecodable
	}
	if s.pending != nil {
		failed.CreatedAt = s.pending.CreatedAt
	}

	s.pending = nil
	s.dropProvisionalLocked()
	if s.artwork == nil {
		s.failed = failed
		if errors.Is(cause, ErrUndecodableImage) {
			s.uploadError = MessageUndecodable
		}
	}
	s.notifyLocked()

	asset := *failed
	return &asset, cause
}

// ApplyInputs runs a batch of live inputs as one change.
// It returns the resulting transform and whether anything changed.
func (s *DesignSession) ApplyInputs(inputs []models.LiveInput) (models.Transform, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.engine.Transform()
	for _, in := range inputs {
		switch in.Type {
		case "pointer":
			if in.Pointer != nil {
				s.engine.HandlePointer(*in.Pointer)
			}
		case "scale":
			s.engine.SetScale(in.Delta)
		case "rotate":
			s.engine.SetRotation(in.Delta)
		case "reset":
			s.engine.Reset()
		default:
			log.Printf("⚠️  [%s] Unknown input type %q", s.shortID(), in.Type)
		}
	}
	s.lastUsed = time.Now()

	after := s.engine.Transform()
	if after == before {
		return after, false
	}
	s.markDirtyLocked()
	return after, true
}

// HandlePointer feeds one mouse or touch event to the placement engine
func (s *DesignSession) HandlePointer(ev models.PointerEvent) models.Transform {
	t, _ := s.ApplyInputs([]models.LiveInput{{Type: "pointer", Pointer: &ev}})
	return t
}

// Scale changes the artwork scale by delta
func (s *DesignSession) Scale(delta float64) models.Transform {
	t, _ := s.ApplyInputs([]models.LiveInput{{Type: "scale", Delta: delta}})
	return t
}

// Rotate changes the artwork rotation by deltaDeg
func (s *DesignSession) Rotate(deltaDeg float64) models.Transform {
	t, _ := s.ApplyInputs([]models.LiveInput{{Type: "rotate", Delta: deltaDeg}})
	return t
}

// Reset restores the default placement
func (s *DesignSession) Reset() models.Transform {
	t, _ := s.ApplyInputs([]models.LiveInput{{Type: "reset"}})
	return t
}

// SetColor selects the garment colour
func (s *DesignSession) SetColor(color string) error {
	if !utils.IsValidColor(color) {
		return &models.ValidationError{Field: "color", Message: fmt.Sprintf("Unknown color %q", color)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	color = utils.NormalizeColor(color)
	if color == s.color {
		return nil
	}
	s.color = color
	if s.guidance == GuidanceSelectColor {
		s.guidance = ""
	}
	s.markDirtyLocked()
	return nil
}

// SetSize selects the garment size
func (s *DesignSession) SetSize(size string) error {
	if !utils.IsValidSize(size) {
		return &models.ValidationError{Field: "size", Message: fmt.Sprintf("Unknown size %q", size)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = utils.NormalizeSize(size)
	if s.guidance == GuidanceSelectSize {
		s.guidance = ""
	}
	s.lastUsed = time.Now()
	s.notifyLocked()
	return nil
}

// Render returns the current composite as PNG.
// Nothing is drawn until the mockup for the selected colour has settled,
// and a clean session returns the previous frame.
func (s *DesignSession) Render(ctx context.Context) ([]byte, error) {
	if err := s.settleMockup(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

func (s *DesignSession) renderLocked() ([]byte, error) {
	if !s.dirty && s.frame != nil {
		return s.frame, nil
	}

	s.renderer.Render(s.surface, s.mockupImage, s.artworkImage, s.engine.Transform(), s.engine.FittedSize())

	var buf bytes.Buffer
	if err := s.surface.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	s.frame = buf.Bytes()
	s.dirty = false
	s.renders++
	return s.frame, nil
}

// settleMockup loads the mockup for the current colour. A failed load renders the
// fallback fill and is tried again, once, on every later call.
func (s *DesignSession) settleMockup(ctx context.Context) error {
	attempted := false
	for {
		s.mu.Lock()
		resource := utils.ResolveMockup(s.color)
		settled := resource == s.mockupResource && (!s.mockupFailed || attempted)
		s.mu.Unlock()
		if settled {
			return nil
		}

		img, err := s.deps.Mockups.Load(ctx, resource)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		failed := err != nil
		if failed {
			log.Printf("⚠️  [%s] Mockup %s unavailable, using fallback fill: %v", s.shortID(), resource, err)
			img = nil
		}

		s.mu.Lock()
		// the colour may have changed while loading; go round again if so
		if utils.ResolveMockup(s.color) == resource {
			stillFailing := failed && s.mockupFailed && s.mockupResource == resource
			s.mockupResource = resource
			s.mockupImage = img
			s.mockupFailed = failed
			if !stillFailing {
				s.dirty = true
			}
			attempted = true
		}
		s.mu.Unlock()
	}
}

// Frame renders and packages the current state for the live preview
func (s *DesignSession) Frame(ctx context.Context) (*models.LiveFrame, error) {
	if err := s.settleMockup(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	png, err := s.renderLocked()
	if err != nil {
		return nil, err
	}
	return &models.LiveFrame{
		Transform:  s.engine.Transform(),
		FittedSize: s.engine.FittedSize(),
		Status:     s.statusLocked(),
		PNG:        png,
	}, nil
}

// RenderCount returns how many times the composite was actually drawn
func (s *DesignSession) RenderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Commit validates the selections and hands a submission to the sink.
// Local state is left untouched whether or not the sink succeeds.
func (s *DesignSession) Commit(ctx context.Context) (*models.DesignSubmission, error) {
	s.mu.Lock()
	var verr *models.ValidationError
	switch {
	case s.artwork == nil || s.artwork.Status != models.ArtworkReady:
		verr = &models.ValidationError{Field: "artwork", Message: GuidanceUploadDesign}
	case s.size == "":
		verr = &models.ValidationError{Field: "size", Message: GuidanceSelectSize}
	case s.color == "":
		verr = &models.ValidationError{Field: "color", Message: GuidanceSelectColor}
	}
	if verr != nil {
		s.guidance = verr.Message
		s.notifyLocked()
		s.mu.Unlock()
		return nil, verr
	}
	s.guidance = ""

	submission := &models.DesignSubmission{
		ID:             "custom-" + uuid.NewString(),
		OriginalImage:  s.artwork.OriginalRef,
		ProcessedImage: s.artwork.DisplayRef(),
		Color:          s.color,
		Size:           s.size,
		Price:          utils.CalculatePrice(s.size),
		CreatedAt:      time.Now(),
		Status:         models.SubmissionStatusPending,
	}
	s.lastUsed = time.Now()
	s.mu.Unlock()

	submission.OriginalImage = s.persistInline(ctx, submission.OriginalImage)
	submission.ProcessedImage = s.persistInline(ctx, submission.ProcessedImage)

	if err := s.deps.Sink.SaveDesign(ctx, submission); err != nil {
		log.Printf("❌ [%s] Failed to save design %s: %v", s.shortID(), submission.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrDesignSinkFailed, err)
	}

	log.Printf("🎉 [%s] Design %s committed (%s, %s, %s)", s.shortID(), submission.ID, utils.MapColorToName(submission.Color), submission.Size, utils.FormatINR(submission.Price))
	return submission, nil
}

// persistInline moves a data URL ref into the image store so sinks get a stable URL.
// On failure the inline ref is kept.
func (s *DesignSession) persistInline(ctx context.Context, ref models.ImageRef) models.ImageRef {
	if s.deps.Store == nil || !strings.HasPrefix(ref.URL, "data:") {
		return ref
	}
	data, err := s.refBytes(ctx, ref)
	if err != nil {
		log.Printf("⚠️  [%s] Could not read inline image %s: %v", s.shortID(), ref.ID, err)
		return ref
	}
	stored, err := s.deps.Store.Put(ctx, data, ref.MimeType)
	if err != nil {
		log.Printf("⚠️  [%s] Could not store inline image %s, keeping data URL: %v", s.shortID(), ref.ID, err)
		return ref
	}
	return stored
}

// State returns a snapshot of the session
func (s *DesignSession) State() models.DesignSessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := models.DesignSessionState{
		ID:           s.id,
		Transform:    s.engine.Transform(),
		FittedSize:   s.engine.FittedSize(),
		Surface:      s.engine.Surface(),
		Color:        s.color,
		ColorName:    utils.MapColorToName(s.color),
		Size:         s.size,
		Dragging:     s.engine.Dragging(),
		Guidance:     s.guidance,
		UploadError:  s.uploadError,
		LastAccessed: s.lastUsed,
	}
	if s.failed != nil {
		f := *s.failed
		state.FailedUpload = &f
	}
	if s.artwork != nil {
		a := *s.artwork
		state.Artwork = &a
	}
	if s.pending != nil {
		p := *s.pending
		state.PendingUpload = &p
	}
	if s.size != "" {
		state.Price = utils.CalculatePrice(s.size)
		state.FormattedPrice = utils.FormatINR(state.Price)
	}
	return state
}

// Subscribe returns a channel signalled after every change.
// Signals coalesce: a slow reader sees one pending signal, not one per change.
func (s *DesignSession) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

// Close ends the session and releases subscribers
func (s *DesignSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
}

func (s *DesignSession) statusLocked() models.ArtworkStatus {
	if s.pending != nil {
		return models.ArtworkPending
	}
	if s.artwork != nil {
		return s.artwork.Status
	}
	if s.failed != nil {
		return s.failed.Status
	}
	return ""
}

func (s *DesignSession) markDirtyLocked() {
	s.dirty = true
	s.lastUsed = time.Now()
	s.notifyLocked()
}

func (s *DesignSession) notifyLocked() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *DesignSession) shortID() string {
	if len(s.id) > 8 {
		return s.id[:8]
	}
	return s.id
}
