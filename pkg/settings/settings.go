package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings represents user-tunable configuration that should persist across
// application restarts.
type Settings struct {
	AutoAdvance   bool    `json:"autoAdvance"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
	// LastIndex is the page that was on screen when the frame last stopped.
	LastIndex int `json:"lastIndex"`
}

// Defaults returns the settings used when no file exists
func Defaults() Settings {
	return Settings{
		AutoAdvance:   false,
		PlaybackSpeed: 1.0,
		LastIndex:     0,
	}
}

// Load reads the settings file from disk. When the file is missing or cannot
// be parsed, sane defaults are returned instead so the application can
// continue running.
func Load(path string) Settings {
	f, err := os.Open(path)
	if err != nil {
		// No existing file – return defaults.
		return Defaults()
	}
	defer f.Close()

	s := Defaults()
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		// Malformed file – fall back to defaults.
		return Defaults()
	}

	// Replace values a partially written file may have left invalid.
	if s.PlaybackSpeed <= 0 {
		s.PlaybackSpeed = 1.0
	}
	if s.LastIndex < 0 {
		s.LastIndex = 0
	}

	return s
}

// Save writes the provided settings atomically to disk, creating the file when
// necessary. Any error is returned to the caller so it can be logged.
func Save(path string, s Settings) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ResumeIndex returns LastIndex when it addresses one of count pages, or
// fallback otherwise
func (s Settings) ResumeIndex(count, fallback int) int {
	if s.LastIndex >= 0 && s.LastIndex < count {
		return s.LastIndex
	}
	return fallback
}
