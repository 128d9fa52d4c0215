package cv

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "tpl.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestLoadTemplate(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 60), B: 10, A: 255})
		}
	}
	path := writeTestPNG(t, t.TempDir(), src)

	gray, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gray.Bounds().Dx() != 6 || gray.Bounds().Dy() != 4 {
		t.Errorf("unexpected dimensions %v", gray.Bounds())
	}

	// Spot-check one pixel against the fixed channel weighting.
	want := uint8((2*40*299 + 1*60*587 + 10*114) / 1000)
	if got := gray.Pix[1*gray.Stride+2]; got != want {
		t.Errorf("pixel (2,1): expected %d, got %d", want, got)
	}
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.png"))

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", loadErr.Err)
	}
}

func TestLoadTemplateGarbageData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image at all"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadTemplate(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestToGrayPassthrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	if got := ToGray(src); got != src {
		t.Error("expected gray input to pass through unchanged")
	}
}
