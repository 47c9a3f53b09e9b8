package sapling

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"arm", "arm"},
		{"after-solve", "after-solve"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#", "special___"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	s := NewScene()
	if s.ScreenshotDir != DefaultScreenshotDir {
		t.Errorf("ScreenshotDir = %q, want %q", s.ScreenshotDir, DefaultScreenshotDir)
	}
	s.Screenshot("a")
	s.Screenshot("b")
	if s.PendingScreenshots() != 2 || s.screenshotQueue[1] != "b" {
		t.Errorf("queue = %v", s.screenshotQueue)
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	path := filepath.Join(t.TempDir(), "shot.png")

	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := decoded.At(1, 1).RGBA(); r>>8 != 200 {
		t.Errorf("pixel red = %d, want 200", r>>8)
	}

	if err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Error("expected error for a missing directory")
	}
}
