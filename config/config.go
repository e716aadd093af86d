package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the studio server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Surface  SurfaceConfig  `yaml:"surface"`
	Mockups  MockupsConfig  `yaml:"mockups"`
	Removal  RemovalConfig  `yaml:"removal"`
	Storage  StorageConfig  `yaml:"storage"`
	Sinks    []string       `yaml:"sinks"` // "log", "uploads", "drive", "postgres"
	Drive    DriveConfig    `yaml:"drive"`
	Sessions SessionsConfig `yaml:"sessions"`
}

type ServerConfig struct {
	BaseURL              string `yaml:"base_url"` // used by the proof renderer to reach this server
	MaxUploadMB          int    `yaml:"max_upload_mb"`
	UploadTimeoutSeconds int    `yaml:"upload_timeout_seconds"`
}

type SurfaceConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	FallbackFill string `yaml:"fallback_fill"`
}

type MockupsConfig struct {
	Dir string `yaml:"dir"` // resource paths like /mockup-t.png resolve under this directory
}

type RemovalConfig struct {
	Engine       string     `yaml:"engine"` // "onnx", "http" or "none"
	OutputFormat string     `yaml:"output_format"`
	Quality      float64    `yaml:"quality"`
	Model        string     `yaml:"model"`
	HTTP         HTTPEngine `yaml:"http"`
	ONNX         ONNXEngine `yaml:"onnx"`
}

type HTTPEngine struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ONNXEngine struct {
	LibraryPath string `yaml:"library_path"`
	ModelPath   string `yaml:"model_path"`
	InputSize   int    `yaml:"input_size"`
	InputName   string `yaml:"input_name"`
	OutputName  string `yaml:"output_name"`
}

type StorageConfig struct {
	ImagesDir  string `yaml:"images_dir"`
	UploadsDir string `yaml:"uploads_dir"`
}

type DriveConfig struct {
	FolderID string `yaml:"folder_id"`
}

type SessionsConfig struct {
	MaxSessions   int `yaml:"max_sessions"`
	MaxAgeMinutes int `yaml:"max_age_minutes"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.Server.UploadTimeoutSeconds == 0 {
		cfg.Server.UploadTimeoutSeconds = 60
	}
	if cfg.Surface.Width == 0 {
		cfg.Surface.Width = 400
	}
	if cfg.Surface.Height == 0 {
		cfg.Surface.Height = 500
	}
	if cfg.Surface.FallbackFill == "" {
		cfg.Surface.FallbackFill = "#f0f0f0"
	}
	if cfg.Mockups.Dir == "" {
		cfg.Mockups.Dir = "public"
	}
	if cfg.Removal.Engine == "" {
		cfg.Removal.Engine = "none"
	}
	if cfg.Removal.OutputFormat == "" {
		cfg.Removal.OutputFormat = "image/png"
	}
	if cfg.Removal.Quality == 0 {
		cfg.Removal.Quality = 1
	}
	if cfg.Removal.Model == "" {
		cfg.Removal.Model = "isnet_fp16"
	}
	if cfg.Removal.HTTP.TimeoutSeconds == 0 {
		cfg.Removal.HTTP.TimeoutSeconds = 30
	}
	if cfg.Removal.ONNX.InputSize == 0 {
		cfg.Removal.ONNX.InputSize = 1024
	}
	if cfg.Removal.ONNX.InputName == "" {
		cfg.Removal.ONNX.InputName = "input"
	}
	if cfg.Removal.ONNX.OutputName == "" {
		cfg.Removal.ONNX.OutputName = "output"
	}
	if cfg.Storage.ImagesDir == "" {
		cfg.Storage.ImagesDir = "data/images"
	}
	if cfg.Storage.UploadsDir == "" {
		cfg.Storage.UploadsDir = "uploads"
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []string{"log"}
	}
	if cfg.Sessions.MaxSessions == 0 {
		cfg.Sessions.MaxSessions = 100
	}
	if cfg.Sessions.MaxAgeMinutes == 0 {
		cfg.Sessions.MaxAgeMinutes = 60
	}
}
