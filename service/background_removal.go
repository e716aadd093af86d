package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"khichik-studio/models"
	"khichik-studio/repository"
)

// ErrUndecodableImage is returned when an upload can neither be stored nor decoded
var ErrUndecodableImage = errors.New("uploaded file is not a decodable image")

// DefaultRemovalConfig is sent to every background-removal engine
var DefaultRemovalConfig = models.RemovalConfig{
	OutputFormat: "image/png",
	Quality:      1,
	Model:        "isnet_fp16",
}

// RemovalHooks lets the caller observe intermediate results
type RemovalHooks struct {
	// OnOriginal fires as soon as a stable reference to the original exists,
	// before background removal starts
	OnOriginal func(ref models.ImageRef)
}

// BackgroundRemovalStage turns a raw upload into an original ref and a matted ref.
// Remover failures degrade to the original instead of failing the upload.
// Implements BackgroundRemovalStageInterface
type BackgroundRemovalStage struct {
	store   repository.ImageStoreInterface
	remover BackgroundRemover
	config  models.RemovalConfig
}

// NewBackgroundRemovalStage creates a stage with the given store and remover
func NewBackgroundRemovalStage(store repository.ImageStoreInterface, remover BackgroundRemover, cfg models.RemovalConfig) *BackgroundRemovalStage {
	if cfg.OutputFormat == "" {
		cfg = DefaultRemovalConfig
	}
	return &BackgroundRemovalStage{
		store:   store,
		remover: remover,
		config:  cfg,
	}
}

// Ensure BackgroundRemovalStage implements BackgroundRemovalStageInterface
var _ BackgroundRemovalStageInterface = (*BackgroundRemovalStage)(nil)

// Process stores the original, runs background removal and returns both refs.
// ErrUndecodableImage is the only failure it reports; every other problem degrades.
func (s *BackgroundRemovalStage) Process(ctx context.Context, upload models.ArtworkUpload, hooks RemovalHooks) (*models.RemovalResult, error) {
	mimeType := DetectMimeType(upload.MimeType, upload.Data)

	original, err := s.store.Put(ctx, upload.Data, mimeType)
	if err != nil {
		log.Printf("⚠️  Could not store original %q, decoding locally: %v", upload.FileName, err)
		return s.localFallback(upload, hooks)
	}

	if hooks.OnOriginal != nil {
		hooks.OnOriginal(original)
	}

	degraded := &models.RemovalResult{
		Original:  original,
		Processed: original,
		Degraded:  true,
	}

	matte, err := s.remover.Remove(ctx, upload.Data, s.config)
	if err != nil {
		log.Printf("⚠️  Background removal failed for %q, using original: %v", upload.FileName, err)
		return degraded, nil
	}

	img, err := DecodeImage(matte)
	if err != nil {
		log.Printf("⚠️  Background remover returned an undecodable image for %q, using original: %v", upload.FileName, err)
		return degraded, nil
	}
	pngData, err := EncodePNG(img)
	if err != nil {
		log.Printf("⚠️  Could not re-encode matte for %q, using original: %v", upload.FileName, err)
		return degraded, nil
	}

	log.Printf("✓ Background removed for %q (%d bytes)", upload.FileName, len(pngData))
	return &models.RemovalResult{
		Original: original,
		Processed: models.ImageRef{
			ID:       uuid.NewString(),
			URL:      PNGDataURL(pngData),
			MimeType: "image/png",
			Data:     pngData,
		},
		Degraded: false,
	}, nil
}

// localFallback decodes the raw upload in-process and uses one PNG data URL for both refs
func (s *BackgroundRemovalStage) localFallback(upload models.ArtworkUpload, hooks RemovalHooks) (*models.RemovalResult, error) {
	img, err := DecodeImage(upload.Data)
	if err != nil {
		log.Printf("❌ Upload %q is not a decodable image: %v", upload.FileName, err)
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	pngData, err := EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	ref := models.ImageRef{
		ID:       uuid.NewString(),
		URL:      PNGDataURL(pngData),
		MimeType: "image/png",
		Data:     pngData,
	}
	if hooks.OnOriginal != nil {
		hooks.OnOriginal(ref)
	}

	return &models.RemovalResult{
		Original:  ref,
		Processed: ref,
		Degraded:  true,
	}, nil
}
