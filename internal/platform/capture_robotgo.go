//go:build !windows

package platform

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"screenbot/internal/cv"
)

// CaptureRaw grabs the window's screen region through robotgo and returns it
// as a raw RGBA frame.
func (d *Desktop) CaptureRaw(windowID int64) (*cv.RawFrame, error) {
	x, y, w, h := robotgo.GetBounds(int32(windowID))
	if w <= 0 || h <= 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("window %d reported empty bounds %dx%d", windowID, w, h)}
	}

	img, err := robotgo.CaptureImg(x, y, w, h)
	if err != nil {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("capture of window %d failed: %v", windowID, err)}
	}

	rgba := toRGBA(img)
	return &cv.RawFrame{
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
		Stride: rgba.Stride,
		Pix:    rgba.Pix,
	}, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return rgba
}
