package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment after an
// optional .env file has been applied
type Config struct {
	WindowTitle  string `env:"GAME_TITLE" envDefault:"Reel Frame"`
	ManifestPath string `env:"CAROUSEL_MANIFEST" envDefault:"assets/videos.yaml"`
	SettingsPath string `env:"CAROUSEL_SETTINGS" envDefault:"settings.json"`
	CacheDir     string `env:"CAROUSEL_CACHE_DIR" envDefault:"assets/videos"`

	// Remote library; leave Bucket empty to play local files only.
	Bucket string `env:"CAROUSEL_BUCKET"`
	Folder string `env:"CAROUSEL_FOLDER"`
	Region string `env:"AWS_DEFAULT_REGION"`

	ContentWidth  float64 `env:"CAROUSEL_CONTENT_WIDTH" envDefault:"800"`
	ContentHeight float64 `env:"CAROUSEL_CONTENT_HEIGHT" envDefault:"600"`
	InitialIndex  int     `env:"CAROUSEL_INITIAL_INDEX" envDefault:"0"`
	// Resume starts on the page that was showing when the frame last stopped.
	Resume bool `env:"CAROUSEL_RESUME" envDefault:"true"`

	// Windowed opens a resizable window instead of going fullscreen.
	Windowed bool `env:"CAROUSEL_WINDOWED"`

	TransitionTimeout time.Duration `env:"CAROUSEL_TRANSITION_TIMEOUT" envDefault:"0s"`
	Debug             bool          `env:"DEBUG_CAROUSEL"`
}

// Load applies envFile (when it exists) to the process environment and parses
// the result. A missing env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
			log.Printf("Warning: %s file not found", envFile)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed with env tags
func (c Config) Validate() error {
	if c.ContentWidth <= 0 || c.ContentHeight <= 0 {
		return fmt.Errorf("invalid content size %.0fx%.0f", c.ContentWidth, c.ContentHeight)
	}
	if c.InitialIndex < 0 {
		return fmt.Errorf("invalid initial index %d", c.InitialIndex)
	}
	if c.TransitionTimeout < 0 {
		return fmt.Errorf("invalid transition timeout %s", c.TransitionTimeout)
	}
	if c.Bucket != "" && c.Region == "" {
		return errors.New("CAROUSEL_BUCKET requires AWS_DEFAULT_REGION")
	}
	return nil
}

// HasRemoteLibrary reports whether videos may be fetched from S3
func (c Config) HasRemoteLibrary() bool {
	return c.Bucket != ""
}
