package cv

import (
	"fmt"
	"image"
)

// BytesPerPixel is the fixed channel layout of a RawFrame: 4 bytes per pixel,
// RGBA order. Platform frame sources normalize whatever the display server
// delivers (commonly BGRA) into this layout before handing frames over.
const BytesPerPixel = 4

// RawFrame is one captured frame as delivered by a FrameSource: a row-major
// RGBA buffer whose rows may be padded beyond the logical pixel width.
// Frames are transient; a new one is produced each sampling tick and never
// reused across ticks.
type RawFrame struct {
	Width  int // logical pixel width reported by the source
	Height int
	Stride int // bytes per row, including any trailing padding
	Pix    []byte
}

// CaptureError reports a fatal capture failure: the display server refused to
// deliver a complete or well-formed frame. It is never retried.
type CaptureError struct {
	Reason string
}

func (e *CaptureError) Error() string {
	return "capture failed: " + e.Reason
}

// Grayscale normalizes a raw frame into a single-channel matrix.
//
// The effective width is derived from the stride (stride / bytes-per-pixel),
// never from the reported width, so padded rows stay column-aligned; the
// padding bytes at the end of each row are simply carried as extra columns,
// the same way the display server presents them. Channel weighting is the
// fixed BT.601 integer form (299r + 587g + 114b) / 1000 the matcher is
// calibrated against.
func Grayscale(raw *RawFrame) (*image.Gray, error) {
	if raw == nil || len(raw.Pix) == 0 {
		return nil, &CaptureError{Reason: "empty frame buffer"}
	}
	if raw.Stride%BytesPerPixel != 0 {
		return nil, &CaptureError{Reason: fmt.Sprintf("stride %d is not a multiple of %d bytes per pixel", raw.Stride, BytesPerPixel)}
	}
	if raw.Stride*raw.Height != len(raw.Pix) {
		return nil, &CaptureError{Reason: fmt.Sprintf("stride %d x height %d does not match buffer length %d", raw.Stride, raw.Height, len(raw.Pix))}
	}

	width := raw.Stride / BytesPerPixel
	gray := image.NewGray(image.Rect(0, 0, width, raw.Height))

	for y := 0; y < raw.Height; y++ {
		row := raw.Pix[y*raw.Stride : y*raw.Stride+raw.Stride]
		for x := 0; x < width; x++ {
			i := x * BytesPerPixel
			r := int(row[i])
			g := int(row[i+1])
			b := int(row[i+2])
			gray.Pix[y*gray.Stride+x] = uint8((r*299 + g*587 + b*114) / 1000)
		}
	}

	return gray, nil
}
