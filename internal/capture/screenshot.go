package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ScreenshotName builds a unique file name for a screenshot taken at t.
func ScreenshotName(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("screenshot-%d-%s.png", t.Unix(), id.String()[:8])
}

// WriteScreenshot encodes img as PNG into dir and returns the file path.
func WriteScreenshot(dir string, img image.Image, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	path := filepath.Join(dir, ScreenshotName(now, uuid.New()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close screenshot: %w", err)
	}
	return path, nil
}
