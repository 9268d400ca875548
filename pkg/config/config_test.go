package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ContentWidth != 800 || cfg.ContentHeight != 600 {
		t.Errorf("Expected 800x600, got %.0fx%.0f", cfg.ContentWidth, cfg.ContentHeight)
	}
	if cfg.ManifestPath != "assets/videos.yaml" {
		t.Errorf("Unexpected manifest path %s", cfg.ManifestPath)
	}
	if !cfg.Resume {
		t.Errorf("Expected resume enabled by default")
	}
	if cfg.HasRemoteLibrary() {
		t.Errorf("Expected no remote library by default")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "CAROUSEL_CONTENT_WIDTH=1920\nCAROUSEL_CONTENT_HEIGHT=1080\nCAROUSEL_TRANSITION_TIMEOUT=3s\nCAROUSEL_INITIAL_INDEX=2\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// godotenv does not override existing variables; t.Setenv restores them.
	for _, k := range []string{"CAROUSEL_CONTENT_WIDTH", "CAROUSEL_CONTENT_HEIGHT", "CAROUSEL_TRANSITION_TIMEOUT", "CAROUSEL_INITIAL_INDEX"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ContentWidth != 1920 || cfg.ContentHeight != 1080 {
		t.Errorf("Expected 1920x1080, got %.0fx%.0f", cfg.ContentWidth, cfg.ContentHeight)
	}
	if cfg.TransitionTimeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %s", cfg.TransitionTimeout)
	}
	if cfg.InitialIndex != 2 {
		t.Errorf("Expected initial index 2, got %d", cfg.InitialIndex)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Expected missing env file to be tolerated, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"CAROUSEL_CONTENT_WIDTH": "0",
		"CAROUSEL_INITIAL_INDEX": "-1",
		"CAROUSEL_BUCKET":        "videos",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			t.Setenv("AWS_DEFAULT_REGION", "")
			if _, err := Load(""); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.yaml")
	data := "content:\n  width: 640\n  height: 360\nvideos:\n  - intro.mpg\n  - \"  \"\n  - waves.mpg\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(m.Videos) != 2 || m.Videos[0] != "intro.mpg" || m.Videos[1] != "waves.mpg" {
		t.Errorf("Unexpected videos %v", m.Videos)
	}
	if w, h := m.ContentSize(Config{ContentWidth: 1, ContentHeight: 1}); w != 640 || h != 360 {
		t.Errorf("Expected 640x360, got %.0fx%.0f", w, h)
	}
}

func TestManifestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.yaml")
	m := Manifest{Videos: []string{"a.mpg", "b.mpg"}}
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(got.Videos) != 2 || got.Content != nil {
		t.Errorf("Unexpected manifest %+v", got)
	}
	if w, h := got.ContentSize(Config{ContentWidth: 800, ContentHeight: 600}); w != 800 || h != 600 {
		t.Errorf("Expected config size fallback, got %.0fx%.0f", w, h)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "none.yaml"))
	if !errors.Is(err, ErrNoManifest) {
		t.Errorf("Expected ErrNoManifest, got %v", err)
	}
}

func TestLoadManifestInvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.yaml")
	if err := os.WriteFile(path, []byte("content:\n  width: 0\n  height: 10\nvideos: [a.mpg]\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Errorf("Expected invalid size error")
	}
}
