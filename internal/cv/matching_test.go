package cv

import (
	"errors"
	"image"
	"testing"
)

// patternFrame builds a gray frame with a deterministic non-uniform texture.
func patternFrame(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8((x*7 + y*13) % 251)
		}
	}
	return img
}

// crop copies a sub-rectangle of src into a fresh template image.
func crop(src *image.Gray, x, y, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		copy(out.Pix[row*out.Stride:row*out.Stride+w],
			src.Pix[(y+row)*src.Stride+x:(y+row)*src.Stride+x+w])
	}
	return out
}

func TestScoreExactMatch(t *testing.T) {
	frame := patternFrame(64, 48)
	tpl := crop(frame, 20, 10, 12, 9)

	result, err := Score(frame, tpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score < 0.999 {
		t.Errorf("expected near-perfect score for exact copy, got %v", result.Score)
	}
	if result.Location.X != 20 || result.Location.Y != 10 {
		t.Errorf("expected location (20, 10), got (%d, %d)", result.Location.X, result.Location.Y)
	}
	if result.Location.Width != 12 || result.Location.Height != 9 {
		t.Errorf("unexpected match size %dx%d", result.Location.Width, result.Location.Height)
	}
}

func TestScoreBrightnessInvariance(t *testing.T) {
	frame := patternFrame(40, 30)
	tpl := crop(frame, 8, 6, 10, 8)

	// Uniformly brighten the template; zero-mean normalization should keep
	// the match location and near-perfect score.
	for i := range tpl.Pix {
		v := int(tpl.Pix[i]) + 40
		if v > 255 {
			v = 255
		}
		tpl.Pix[i] = uint8(v)
	}

	result, err := Score(frame, tpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score < 0.99 {
		t.Errorf("expected brightness-shifted copy to still score high, got %v", result.Score)
	}
	if result.Location.X != 8 || result.Location.Y != 6 {
		t.Errorf("expected location (8, 6), got (%d, %d)", result.Location.X, result.Location.Y)
	}
}

func TestScoreTemplateLargerThanFrame(t *testing.T) {
	frame := patternFrame(10, 10)
	tpl := patternFrame(20, 5)

	_, err := Score(frame, tpl)
	var sizeErr *SizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected *SizeError, got %v", err)
	}
	if sizeErr.TemplateWidth != 20 || sizeErr.FrameWidth != 10 {
		t.Errorf("unexpected dimensions in error: %+v", sizeErr)
	}
}

func TestScoreEmptyTemplate(t *testing.T) {
	frame := patternFrame(10, 10)
	tpl := image.NewGray(image.Rect(0, 0, 0, 0))

	_, err := Score(frame, tpl)
	var sizeErr *SizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected *SizeError for empty template, got %v", err)
	}
}

func TestScoreFlatRegions(t *testing.T) {
	// A completely flat frame has zero variance everywhere; correlation is
	// undefined and must come back as 0, not NaN.
	frame := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range frame.Pix {
		frame.Pix[i] = 128
	}
	tpl := patternFrame(5, 5)

	result, err := Score(frame, tpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("expected score 0 on flat frame, got %v", result.Score)
	}
}

func TestScoreTemplateSameSizeAsFrame(t *testing.T) {
	frame := patternFrame(16, 12)
	tpl := crop(frame, 0, 0, 16, 12)

	result, err := Score(frame, tpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score < 0.999 {
		t.Errorf("expected perfect score, got %v", result.Score)
	}
	if result.Location.X != 0 || result.Location.Y != 0 {
		t.Errorf("expected (0, 0), got (%d, %d)", result.Location.X, result.Location.Y)
	}
}

func TestRectCenter(t *testing.T) {
	tests := []struct {
		rect         Rect
		wantX, wantY int
	}{
		{Rect{X: 10, Y: 20, Width: 4, Height: 6}, 12, 23},
		{Rect{X: 0, Y: 0, Width: 5, Height: 5}, 2, 2},
		{Rect{X: 7, Y: 3, Width: 1, Height: 1}, 7, 3},
	}

	for _, tt := range tests {
		x, y := tt.rect.Center()
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("Center of %+v: expected (%d, %d), got (%d, %d)", tt.rect, tt.wantX, tt.wantY, x, y)
		}
	}
}

func BenchmarkScore(b *testing.B) {
	frame := patternFrame(320, 240)
	tpl := crop(frame, 100, 80, 32, 32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Score(frame, tpl); err != nil {
			b.Fatal(err)
		}
	}
}
