package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoManifest is returned when the manifest file does not exist
var ErrNoManifest = errors.New("manifest not found")

// Manifest is the static list of videos shown in the carousel, in order
type Manifest struct {
	Content *ContentSize `yaml:"content,omitempty"`
	Videos  []string     `yaml:"videos"`
}

// ContentSize overrides the configured slot size
type ContentSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LoadManifest reads the YAML manifest at path. Blank entries are dropped.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	ids := m.Videos[:0]
	for _, id := range m.Videos {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	m.Videos = ids

	if m.Content != nil && (m.Content.Width <= 0 || m.Content.Height <= 0) {
		return Manifest{}, fmt.Errorf("manifest %s: invalid content size %.0fx%.0f", path, m.Content.Width, m.Content.Height)
	}
	return m, nil
}

// Save writes the manifest as YAML, e.g. after listing a remote folder
func (m Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ContentSize returns the manifest size, or the configured one when unset
func (m Manifest) ContentSize(cfg Config) (width, height float64) {
	if m.Content != nil {
		return m.Content.Width, m.Content.Height
	}
	return cfg.ContentWidth, cfg.ContentHeight
}
