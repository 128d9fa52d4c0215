package cv

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// LoadError reports a template file that could not be read or decoded as a
// grayscale image.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load template %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadTemplate decodes the reference image at path into a grayscale matrix.
// The result is logically immutable for the duration of a search.
func LoadTemplate(path string) (*image.Gray, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return ToGray(img), nil
}

// ToGray converts a decoded image into a grayscale matrix using the same
// fixed channel weighting Grayscale applies to captured frames, so template
// and frame pixels stay comparable. Already-gray images are passed through.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels; scale down before weighting.
			v := (int(r>>8)*299 + int(g>>8)*587 + int(b>>8)*114) / 1000
			gray.Pix[(y-bounds.Min.Y)*gray.Stride+(x-bounds.Min.X)] = uint8(v)
		}
	}
	return gray
}
