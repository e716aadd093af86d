package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khichik-studio/models"
)

var (
	navy   = color.NRGBA{R: 0x1e, G: 0x2a, B: 0x44, A: 0xff}
	red    = color.NRGBA{R: 0xff, A: 0xff}
	silver = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
)

type fakeMockups struct {
	mu       sync.Mutex
	img      image.Image
	err      error
	failures int // loads that fail before img is returned
	loads    []string
}

func (f *fakeMockups) Load(ctx context.Context, resource string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, resource)
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("mockup fetch failed")
	}
	return f.img, f.err
}

// failingStage runs the real stage, so the original is exposed, and then reports err
type failingStage struct {
	inner BackgroundRemovalStageInterface
	mu    sync.Mutex
	err   error
}

func (s *failingStage) Process(ctx context.Context, upload models.ArtworkUpload, hooks RemovalHooks) (*models.RemovalResult, error) {
	result, err := s.inner.Process(ctx, upload, hooks)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return result, err
}

func (s *failingStage) failWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type recordingSink struct {
	mu    sync.Mutex
	saved []*models.DesignSubmission
	err   error
}

func (r *recordingSink) SaveDesign(ctx context.Context, submission *models.DesignSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, submission)
	return nil
}

type sessionFixture struct {
	session *DesignSession
	store   *memoryImageStore
	sink    *recordingSink
	mockups *fakeMockups
}

func newSessionFixture(t *testing.T, remover BackgroundRemover) *sessionFixture {
	t.Helper()
	store := newMemoryImageStore()
	sink := &recordingSink{}
	mockups := &fakeMockups{img: solidImage(400, 500, navy)}

	session := NewDesignSession("test-session", DesignSessionDeps{
		Stage:   NewBackgroundRemovalStage(store, remover, DefaultRemovalConfig),
		Sink:    sink,
		Mockups: mockups,
		Store:   store,
	})
	t.Cleanup(session.Close)

	return &sessionFixture{session: session, store: store, sink: sink, mockups: mockups}
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func uploadAndWait(t *testing.T, s *DesignSession, name string, data []byte) *models.ArtworkAsset {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	asset, err := s.Upload(ctx, models.ArtworkUpload{FileName: name, Data: data}).Wait(ctx)
	require.NoError(t, err)
	return asset
}

func renderPixels(t *testing.T, s *DesignSession) image.Image {
	t.Helper()
	data, err := s.Render(context.Background())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func assertColorNear(t *testing.T, want color.NRGBA, got color.Color, msg string) {
	t.Helper()
	c := color.NRGBAModel.Convert(got).(color.NRGBA)
	assert.InDelta(t, want.R, c.R, 3, msg)
	assert.InDelta(t, want.G, c.G, 3, msg)
	assert.InDelta(t, want.B, c.B, 3, msg)
	assert.InDelta(t, want.A, c.A, 3, msg)
}

func TestDesignSession_UploadFitsAndDragClamps(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	asset := uploadAndWait(t, f.session, "wide.png", pngBytes(t, 600, 300, red))

	assert.Equal(t, models.ArtworkReady, asset.Status)
	state := f.session.State()
	assert.Equal(t, models.FittedSize{Width: 200, Height: 100}, state.FittedSize)
	assert.Nil(t, state.PendingUpload)

	// grab 5,10 inside the box at the default origin (125,200) and move to put the corner at (50,50)
	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerDown, X: 130, Y: 210, Source: "mouse"})
	tr := f.session.HandlePointer(models.PointerEvent{Kind: models.PointerMove, X: 55, Y: 60, Source: "mouse"})
	assert.Equal(t, 50.0, tr.PositionX)
	assert.Equal(t, 50.0, tr.PositionY)

	tr = f.session.HandlePointer(models.PointerEvent{Kind: models.PointerMove, X: 900, Y: 900, Source: "mouse"})
	assert.Equal(t, 200.0, tr.PositionX)
	assert.Equal(t, 400.0, tr.PositionY)

	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerUp, Source: "mouse"})
	assert.False(t, f.session.State().Dragging)
}

func TestDesignSession_CommitNeedsSelections(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	ctx := context.Background()

	_, err := f.session.Commit(ctx)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "artwork", verr.Field)
	assert.Equal(t, "Upload a design to continue", f.session.State().Guidance)

	uploadAndWait(t, f.session, "art.png", pngBytes(t, 50, 50, red))
	assert.Empty(t, f.session.State().Guidance, "guidance clears once artwork arrives")

	sub, err := f.session.Commit(ctx)
	assert.Nil(t, sub)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "size", verr.Field)
	assert.Equal(t, "Select a size to continue", verr.Message)
	assert.Equal(t, "Select a size to continue", f.session.State().Guidance)
	assert.Empty(t, f.sink.saved)

	require.NoError(t, f.session.SetSize("m"))
	assert.Empty(t, f.session.State().Guidance)
}

func TestDesignSession_RemovalFailureStillComposites(t *testing.T) {
	f := newSessionFixture(t, &scriptedRemover{err: errors.New("engine offline")})
	asset := uploadAndWait(t, f.session, "photo.png", pngBytes(t, 600, 300, red))

	require.NotNil(t, asset.ProcessedRef)
	assert.Equal(t, asset.OriginalRef.URL, asset.ProcessedRef.URL)
	assert.True(t, asset.Degraded)

	img := renderPixels(t, f.session)
	assert.Equal(t, image.Rect(0, 0, 400, 500), img.Bounds())
	assertColorNear(t, red, img.At(225, 250), "artwork centre")
	assertColorNear(t, navy, img.At(5, 5), "mockup corner")
	assertColorNear(t, navy, img.At(225, 400), "below the artwork")
}

func TestDesignSession_RotationKeepsUnrotatedHitBox(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	uploadAndWait(t, f.session, "art.png", pngBytes(t, 600, 300, red))

	var tr models.Transform
	for i := 0; i < 4; i++ {
		tr = f.session.Rotate(15)
	}
	assert.Equal(t, 60.0, tr.RotationDeg)

	// the top-left corner of the unrotated box still grabs the artwork
	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerDown, X: 125, Y: 200, Source: "touch", PointerID: 3})
	assert.True(t, f.session.State().Dragging)
	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerCancel, PointerID: 3})

	// a point inside the rotated footprint but outside the unrotated box does not
	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerDown, X: 225, Y: 330, Source: "touch", PointerID: 4})
	assert.False(t, f.session.State().Dragging)
}

func TestDesignSession_StaleUploadIsDiscarded(t *testing.T) {
	first := newRemoverGate(nil, errors.New("slow failure"))
	second := newRemoverGate(nil, errors.New("fast failure"))
	f := newSessionFixture(t, &gatedRemover{gates: []*removerGate{first, second}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	taskA := f.session.Upload(ctx, models.ArtworkUpload{FileName: "a.png", Data: pngBytes(t, 100, 100, red)})
	<-first.started
	taskB := f.session.Upload(ctx, models.ArtworkUpload{FileName: "b.png", Data: pngBytes(t, 300, 100, red)})
	<-second.started

	assert.Equal(t, uint64(1), taskA.RequestID)
	assert.Equal(t, uint64(2), taskB.RequestID)
	assert.Equal(t, "b.png", f.session.State().PendingUpload.FileName)

	// the older upload resolves first but must not apply
	close(first.release)
	_, err := taskA.Wait(ctx)
	assert.ErrorIs(t, err, ErrUploadSuperseded)
	assert.Nil(t, f.session.State().Artwork)

	close(second.release)
	asset, err := taskB.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.png", asset.FileName)

	state := f.session.State()
	require.NotNil(t, state.Artwork)
	assert.Equal(t, "b.png", state.Artwork.FileName)
	assert.Equal(t, models.FittedSize{Width: 200, Height: 67}, state.FittedSize)
	assert.Equal(t, 1, f.store.count(), "superseded original is dropped from the store")
}

func TestDesignSession_StaleUploadFinishingLast(t *testing.T) {
	first := newRemoverGate(nil, errors.New("failure"))
	second := newRemoverGate(nil, errors.New("failure"))
	f := newSessionFixture(t, &gatedRemover{gates: []*removerGate{first, second}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	taskA := f.session.Upload(ctx, models.ArtworkUpload{FileName: "a.png", Data: pngBytes(t, 100, 100, red)})
	<-first.started
	taskB := f.session.Upload(ctx, models.ArtworkUpload{FileName: "b.png", Data: pngBytes(t, 100, 100, red)})
	<-second.started

	close(second.release)
	_, err := taskB.Wait(ctx)
	require.NoError(t, err)

	close(first.release)
	_, err = taskA.Wait(ctx)
	assert.ErrorIs(t, err, ErrUploadSuperseded)
	assert.Equal(t, "b.png", f.session.State().Artwork.FileName)
}

func TestDesignSession_ManipulationDoesNotWaitForRemoval(t *testing.T) {
	gate := newRemoverGate(nil, errors.New("failure"))
	f := newSessionFixture(t, &gatedRemover{gates: []*removerGate{gate}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task := f.session.Upload(ctx, models.ArtworkUpload{FileName: "a.png", Data: pngBytes(t, 10, 10, red)})
	<-gate.started

	state := f.session.State()
	require.NotNil(t, state.PendingUpload)
	assert.NotEmpty(t, state.PendingUpload.OriginalRef.URL, "original is exposed while removal runs")

	tr := f.session.Scale(0.3)
	assert.InDelta(t, 1.3, tr.Scale, 1e-9)
	_, err := f.session.Render(ctx)
	require.NoError(t, err)

	close(gate.release)
	_, err = task.Wait(ctx)
	require.NoError(t, err)
}

func TestDesignSession_UndecodableUpload(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	failed, err := f.session.Upload(ctx, models.ArtworkUpload{FileName: "notes.txt", Data: []byte("plain text")}).Wait(ctx)
	assert.ErrorIs(t, err, ErrUndecodableImage)
	require.NotNil(t, failed)
	assert.Equal(t, models.ArtworkFailed, failed.Status)
	assert.Equal(t, MessageUndecodable, failed.Error)

	state := f.session.State()
	assert.Nil(t, state.Artwork)
	assert.Nil(t, state.PendingUpload)
	assert.Equal(t, MessageUndecodable, state.UploadError)
	require.NotNil(t, state.FailedUpload)
	assert.Equal(t, "notes.txt", state.FailedUpload.FileName)
	assert.Equal(t, models.ArtworkFailed, state.FailedUpload.Status)
	assert.Equal(t, 0, f.store.count(), "the unreadable original is not kept")

	frame, err := f.session.Frame(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ArtworkFailed, frame.Status)

	// with artwork loaded a bad upload leaves everything as it was, silently
	good := uploadAndWait(t, f.session, "good.png", pngBytes(t, 40, 20, red))
	f.session.Scale(0.5)
	before := f.session.State()
	assert.Empty(t, before.UploadError)
	assert.Nil(t, before.FailedUpload)

	failed, err = f.session.Upload(ctx, models.ArtworkUpload{FileName: "broken.jpg", Data: []byte{0xff, 0xd8, 0x00}}).Wait(ctx)
	assert.ErrorIs(t, err, ErrUndecodableImage)
	require.NotNil(t, failed)
	assert.Equal(t, models.ArtworkFailed, failed.Status)

	after := f.session.State()
	assert.Equal(t, good.FileName, after.Artwork.FileName)
	assert.Equal(t, before.Transform, after.Transform)
	assert.Equal(t, before.FittedSize, after.FittedSize)
	assert.Empty(t, after.UploadError)
	assert.Nil(t, after.FailedUpload)
}

func TestDesignSession_OriginalShownWhileRemovalRuns(t *testing.T) {
	gate := newRemoverGate(nil, errors.New("failure"))
	f := newSessionFixture(t, &gatedRemover{gates: []*removerGate{gate}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task := f.session.Upload(ctx, models.ArtworkUpload{FileName: "square.png", Data: pngBytes(t, 200, 200, red)})
	<-gate.started

	state := f.session.State()
	require.NotNil(t, state.PendingUpload)
	assert.Nil(t, state.Artwork)
	assert.Equal(t, models.FittedSize{Width: 200, Height: 200}, state.FittedSize)

	img := renderPixels(t, f.session)
	assertColorNear(t, red, img.At(225, 300), "original drawn before the matte arrives")
	assertColorNear(t, navy, img.At(5, 5), "mockup corner")

	// the original can be dragged while removal runs
	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerDown, X: 225, Y: 300, Source: "mouse"})
	assert.True(t, f.session.State().Dragging)
	f.session.HandlePointer(models.PointerEvent{Kind: models.PointerUp, Source: "mouse"})

	close(gate.release)
	asset, err := task.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ArtworkReady, asset.Status)
	assert.Equal(t, models.FittedSize{Width: 200, Height: 200}, f.session.State().FittedSize)
}

func TestDesignSession_FailedUploadRestoresPreviousArtwork(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	stage := &failingStage{inner: f.session.deps.Stage}
	f.session.deps.Stage = stage
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	uploadAndWait(t, f.session, "wide.png", pngBytes(t, 600, 300, red))
	stage.failWith(errors.New("matting crashed"))

	failed, err := f.session.Upload(ctx, models.ArtworkUpload{FileName: "square.png", Data: pngBytes(t, 200, 200, silver)}).Wait(ctx)
	assert.EqualError(t, err, "matting crashed")
	require.NotNil(t, failed)
	assert.Equal(t, models.ArtworkFailed, failed.Status)
	assert.Equal(t, "matting crashed", failed.Error)

	state := f.session.State()
	require.NotNil(t, state.Artwork)
	assert.Equal(t, "wide.png", state.Artwork.FileName)
	assert.Equal(t, models.FittedSize{Width: 200, Height: 100}, state.FittedSize)
	assert.Nil(t, state.FailedUpload, "a loaded artwork hides the failure")

	img := renderPixels(t, f.session)
	assertColorNear(t, red, img.At(225, 250), "previous artwork is back")
	assertColorNear(t, navy, img.At(225, 350), "the failed original is gone")
}

func TestDesignSession_FailedUploadWithNothingLoaded(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	stage := &failingStage{inner: f.session.deps.Stage, err: errors.New("matting crashed")}
	f.session.deps.Stage = stage
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := f.session.Upload(ctx, models.ArtworkUpload{FileName: "square.png", Data: pngBytes(t, 200, 200, red)}).Wait(ctx)
	require.Error(t, err)

	state := f.session.State()
	assert.True(t, state.FittedSize.IsZero())
	require.NotNil(t, state.FailedUpload)
	assert.Equal(t, "matting crashed", state.FailedUpload.Error)
	assert.Empty(t, state.UploadError, "only unreadable files get the upload message")

	img := renderPixels(t, f.session)
	assertColorNear(t, navy, img.At(225, 300), "nothing drawn over the mockup")
}

func TestDesignSession_StaleUnreadableUploadsLeaveNoImages(t *testing.T) {
	first := newRemoverGate(nil, errors.New("failure"))
	second := newRemoverGate(nil, errors.New("failure"))
	f := newSessionFixture(t, &gatedRemover{gates: []*removerGate{first, second}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	taskA := f.session.Upload(ctx, models.ArtworkUpload{FileName: "a.txt", Data: []byte("first text")})
	<-first.started
	taskB := f.session.Upload(ctx, models.ArtworkUpload{FileName: "b.txt", Data: []byte("second text")})
	<-second.started
	assert.Equal(t, 2, f.store.count())

	close(first.release)
	_, err := taskA.Wait(ctx)
	assert.ErrorIs(t, err, ErrUploadSuperseded)
	assert.Equal(t, 1, f.store.count(), "superseded original is dropped")

	close(second.release)
	_, err = taskB.Wait(ctx)
	assert.ErrorIs(t, err, ErrUndecodableImage)
	assert.Equal(t, 0, f.store.count())
	assert.Equal(t, "b.txt", f.session.State().FailedUpload.FileName)
}

func TestDesignSession_CommitSuccess(t *testing.T) {
	matte := pngBytes(t, 30, 30, color.NRGBA{G: 255, A: 200})
	f := newSessionFixture(t, &scriptedRemover{result: matte})
	ctx := context.Background()

	asset := uploadAndWait(t, f.session, "logo.png", pngBytes(t, 30, 30, red))
	require.False(t, asset.Degraded)
	assert.True(t, strings.HasPrefix(asset.ProcessedRef.URL, "data:image/png;base64,"))

	require.NoError(t, f.session.SetColor("#1E2A44"))
	require.NoError(t, f.session.SetSize("xl"))
	storedBefore := f.store.count()

	sub, err := f.session.Commit(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sub.ID, "custom-"))
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
	assert.Equal(t, "#1e2a44", sub.Color)
	assert.Equal(t, "XL", sub.Size)
	assert.Equal(t, int64(599), sub.Price)
	assert.Equal(t, asset.OriginalRef.URL, sub.OriginalImage.URL)
	assert.True(t, strings.HasPrefix(sub.ProcessedImage.URL, "/images/"), "inline matte is persisted before the sink sees it")
	assert.Equal(t, storedBefore+1, f.store.count())

	require.Len(t, f.sink.saved, 1)
	assert.Equal(t, sub, f.sink.saved[0])
}

func TestDesignSession_SinkFailureKeepsState(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	f.sink.err = errors.New("connection refused")
	uploadAndWait(t, f.session, "art.png", pngBytes(t, 80, 80, red))
	require.NoError(t, f.session.SetSize("L"))
	f.session.Rotate(30)
	before := f.session.State()

	sub, err := f.session.Commit(context.Background())
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, ErrDesignSinkFailed)

	after := f.session.State()
	assert.Equal(t, before.Artwork, after.Artwork)
	assert.Equal(t, before.Transform, after.Transform)
	assert.Equal(t, "L", after.Size)
	assert.Equal(t, "₹599", after.FormattedPrice)
}

func TestDesignSession_RendersOncePerBatch(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	uploadAndWait(t, f.session, "art.png", pngBytes(t, 80, 80, red))
	ctx := context.Background()

	_, err := f.session.Render(ctx)
	require.NoError(t, err)
	_, err = f.session.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.session.RenderCount(), "clean session reuses its frame")

	_, changed := f.session.ApplyInputs([]models.LiveInput{
		{Type: "scale", Delta: 0.1},
		{Type: "rotate", Delta: 15},
		{Type: "rotate", Delta: 15},
	})
	require.True(t, changed)
	_, err = f.session.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.session.RenderCount())

	for i := 0; i < 20; i++ {
		f.session.Scale(0.1)
	}
	_, changed = f.session.ApplyInputs([]models.LiveInput{{Type: "scale", Delta: 0.1}})
	assert.False(t, changed, "scale already saturated")
}

func TestDesignSession_MockupFailureUsesFallbackFill(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	f.mockups.img = nil
	f.mockups.err = errors.New("404")

	img := renderPixels(t, f.session)
	assertColorNear(t, silver, img.At(10, 10), "fallback fill")

	// still missing: tried again, nothing new to draw
	renderPixels(t, f.session)
	assert.Len(t, f.mockups.loads, 2)
	assert.Equal(t, 1, f.session.RenderCount())
}

func TestDesignSession_MockupLoadRetriedAfterFailure(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	f.mockups.failures = 1

	img := renderPixels(t, f.session)
	assertColorNear(t, silver, img.At(10, 10), "fallback fill while the mockup is missing")

	img = renderPixels(t, f.session)
	assertColorNear(t, navy, img.At(10, 10), "mockup once it loads")
	assert.Equal(t, []string{"/mockup-t.png", "/mockup-t.png"}, f.mockups.loads)

	renderPixels(t, f.session)
	assert.Len(t, f.mockups.loads, 2, "a loaded mockup is not fetched again")
}

func TestDesignSession_ColorChangeReloadsMockup(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	ctx := context.Background()

	_, err := f.session.Render(ctx)
	require.NoError(t, err)
	require.NoError(t, f.session.SetColor("#6d1b1b"))
	_, err = f.session.Render(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"/mockup-t.png", "/mock-tR.jpg"}, f.mockups.loads)
	assert.Equal(t, "Maroon", f.session.State().ColorName)

	var verr *models.ValidationError
	assert.ErrorAs(t, f.session.SetColor("#00ff00"), &verr)
	assert.ErrorAs(t, f.session.SetSize("XS"), &verr)
}

func TestDesignSession_SubscribeCoalesces(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	uploadAndWait(t, f.session, "art.png", pngBytes(t, 80, 80, red))

	ch, unsubscribe := f.session.Subscribe()
	f.session.Rotate(15)
	f.session.Rotate(15)
	f.session.Scale(0.2)

	assert.Len(t, ch, 1)
	<-ch

	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}

func TestDesignSession_FrameCarriesState(t *testing.T) {
	f := newSessionFixture(t, UnavailableRemover{})
	uploadAndWait(t, f.session, "art.png", pngBytes(t, 600, 300, red))

	frame, err := f.session.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ArtworkReady, frame.Status)
	assert.Equal(t, models.FittedSize{Width: 200, Height: 100}, frame.FittedSize)
	assert.Equal(t, 1.0, frame.Transform.Scale)
	assert.NotEmpty(t, frame.PNG)
}
