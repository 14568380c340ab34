package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))

	w, h := cfg.WindowSize()
	if w != defaultWindowWidth || h != defaultWindowHeight {
		t.Errorf("WindowSize() = %v, %v, want defaults", w, h)
	}
}

func TestLoadFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFrom(path)
	w, h := cfg.WindowSize()
	if w != defaultWindowWidth || h != defaultWindowHeight {
		t.Errorf("WindowSize() = %v, %v, want defaults for corrupt file", w, h)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := LoadFrom(path)
	cfg.SetWindowSize(2560, 1440, 2)
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := LoadFrom(path)
	w, h := got.WindowSize()
	if w != 1280 || h != 720 {
		t.Errorf("WindowSize() = %v, %v, want 1280, 720 in logical points", w, h)
	}
}

func TestSetWindowSizeClamps(t *testing.T) {
	cfg := defaults("")

	cfg.SetWindowSize(100, 100000, 1)
	w, h := cfg.WindowSize()
	if w != minWindowSize {
		t.Errorf("width = %v, want clamped to %v", w, minWindowSize)
	}
	if h != maxWindowSize {
		t.Errorf("height = %v, want clamped to %v", h, maxWindowSize)
	}
}

func TestSetWindowSizeZeroScale(t *testing.T) {
	cfg := defaults("")

	cfg.SetWindowSize(800, 600, 0)
	w, h := cfg.WindowSize()
	if w != 800 || h != 600 {
		t.Errorf("WindowSize() = %v, %v, want pixel size at scale 1", w, h)
	}
}

func TestLoadClampsStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("window:\n  width: 1\n  height: 999999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFrom(path)
	w, h := cfg.WindowSize()
	if w != minWindowSize || h != maxWindowSize {
		t.Errorf("WindowSize() = %v, %v, want clamped", w, h)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	cfg := defaults("")
	if err := cfg.Save(); err == nil {
		t.Error("Save() with no path should fail")
	}
}
