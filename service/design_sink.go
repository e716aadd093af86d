package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"khichik-studio/models"
	"khichik-studio/repository"
	"khichik-studio/utils"
)

// LogSink logs the submission and always succeeds
type LogSink struct{}

var _ DesignSinkInterface = LogSink{}

func (LogSink) SaveDesign(ctx context.Context, submission *models.DesignSubmission) error {
	log.Printf("💾 Design submission %s: color=%s size=%s price=%s original=%s processed=%s",
		submission.ID, submission.Color, submission.Size, utils.FormatINR(submission.Price),
		shortRef(submission.OriginalImage), shortRef(submission.ProcessedImage))
	return nil
}

// UploadsSink writes original-{id}.png, processed-{id}.png and design-{id}.json to a directory
type UploadsSink struct {
	dir string
}

// NewUploadsSink creates the uploads directory if needed
func NewUploadsSink(dir string) (*UploadsSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &UploadsSink{dir: dir}, nil
}

var _ DesignSinkInterface = (*UploadsSink)(nil)

func (s *UploadsSink) SaveDesign(ctx context.Context, submission *models.DesignSubmission) error {
	files, err := submissionFiles(submission)
	if err != nil {
		return err
	}
	for name, data := range files {
		path := filepath.Join(s.dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	log.Printf("💾 Design %s written to %s", submission.ID, s.dir)
	return nil
}

// DriveSink uploads the same three files to a Google Drive folder
type DriveSink struct {
	drive    DriveServiceInterface
	folderID string
}

// NewDriveSink creates a sink uploading into folderID
func NewDriveSink(drive DriveServiceInterface, folderID string) *DriveSink {
	return &DriveSink{drive: drive, folderID: folderID}
}

var _ DesignSinkInterface = (*DriveSink)(nil)

func (s *DriveSink) SaveDesign(ctx context.Context, submission *models.DesignSubmission) error {
	files, err := submissionFiles(submission)
	if err != nil {
		return err
	}
	for _, name := range submissionFileNames(submission.ID) {
		mimeType := "image/png"
		if strings.HasSuffix(name, ".json") {
			mimeType = "application/json"
		}
		if _, err := s.drive.UploadFile(ctx, s.folderID, name, mimeType, files[name]); err != nil {
			return err
		}
	}
	return nil
}

// PostgresSink stores the submission row
type PostgresSink struct {
	repo repository.DesignSubmissionRepositoryInterface
}

// NewPostgresSink creates a sink backed by the submission repository
func NewPostgresSink(repo repository.DesignSubmissionRepositoryInterface) *PostgresSink {
	return &PostgresSink{repo: repo}
}

var _ DesignSinkInterface = (*PostgresSink)(nil)

func (s *PostgresSink) SaveDesign(ctx context.Context, submission *models.DesignSubmission) error {
	return s.repo.Insert(ctx, submission)
}

// MultiSink runs sinks in order and stops at the first failure
type MultiSink []DesignSinkInterface

var _ DesignSinkInterface = MultiSink(nil)

func (m MultiSink) SaveDesign(ctx context.Context, submission *models.DesignSubmission) error {
	for _, sink := range m {
		if err := sink.SaveDesign(ctx, submission); err != nil {
			return fmt.Errorf("%T: %w", sink, err)
		}
	}
	return nil
}

func submissionFileNames(id string) []string {
	return []string{
		fmt.Sprintf("original-%s.png", id),
		fmt.Sprintf("processed-%s.png", id),
		fmt.Sprintf("design-%s.json", id),
	}
}

// submissionFiles converts both images to PNG and serialises the record
func submissionFiles(submission *models.DesignSubmission) (map[string][]byte, error) {
	names := submissionFileNames(submission.ID)

	original, err := refPNG(submission.OriginalImage)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare original image: %w", err)
	}
	processed, err := refPNG(submission.ProcessedImage)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare processed image: %w", err)
	}
	record, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode design record: %w", err)
	}

	return map[string][]byte{
		names[0]: original,
		names[1]: processed,
		names[2]: record,
	}, nil
}

func refPNG(ref models.ImageRef) ([]byte, error) {
	data := ref.Data
	if len(data) == 0 {
		var err error
		data, _, err = DecodeDataURL(ref.URL)
		if err != nil {
			return nil, fmt.Errorf("image %s has no bytes: %w", ref.ID, err)
		}
	}
	if ref.MimeType == "image/png" {
		return data, nil
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

func shortRef(ref models.ImageRef) string {
	if strings.HasPrefix(ref.URL, "data:") {
		return fmt.Sprintf("inline(%s)", ref.ID)
	}
	return ref.URL
}
