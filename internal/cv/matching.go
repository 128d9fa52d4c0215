package cv

import (
	"fmt"
	"image"
	"math"
)

// MatchThreshold is the minimum correlation score accepted as a true match.
// Scores below it mean "no match on this frame", not an error.
const MatchThreshold = 0.8

// Rect is a matched region in capture-pixel space.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Center returns the midpoint of the rectangle, floor-divided.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// MatchResult is the reduction of a full correlation field to its global
// maximum: the best-scoring template placement in a frame.
type MatchResult struct {
	Location Rect
	Score    float64
}

// SizeError reports a template that does not fit inside the frame it is being
// matched against. Matching is undefined in that case and fails fast.
type SizeError struct {
	TemplateWidth  int
	TemplateHeight int
	FrameWidth     int
	FrameHeight    int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("template %dx%d larger than frame %dx%d",
		e.TemplateWidth, e.TemplateHeight, e.FrameWidth, e.FrameHeight)
}

// Score slides tpl over every placement inside frame and computes the
// normalized cross-correlation coefficient at each offset, reducing the
// (W-w+1) x (H-h+1) score field to its maximum value and location.
//
// Each coefficient is zero-mean normalized, so scores live in [-1, 1] with
// 1.0 a perfect match, and are invariant to uniform brightness shifts and
// contrast scaling of either image.
func Score(frame, tpl *image.Gray) (MatchResult, error) {
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()

	if tw == 0 || th == 0 || tw > fw || th > fh {
		return MatchResult{}, &SizeError{
			TemplateWidth:  tw,
			TemplateHeight: th,
			FrameWidth:     fw,
			FrameHeight:    fh,
		}
	}

	n := float64(tw * th)

	// Template statistics do not change per placement; compute them once.
	var sumT, sumTT float64
	for y := 0; y < th; y++ {
		row := tpl.Pix[y*tpl.Stride : y*tpl.Stride+tw]
		for x := 0; x < tw; x++ {
			v := float64(row[x])
			sumT += v
			sumTT += v * v
		}
	}
	denT := math.Sqrt(sumTT - sumT*sumT/n)

	best := MatchResult{Score: math.Inf(-1)}

	for oy := 0; oy <= fh-th; oy++ {
		for ox := 0; ox <= fw-tw; ox++ {
			var sumF, sumFF, sumFT float64
			for y := 0; y < th; y++ {
				frow := frame.Pix[(oy+y)*frame.Stride+ox : (oy+y)*frame.Stride+ox+tw]
				trow := tpl.Pix[y*tpl.Stride : y*tpl.Stride+tw]
				for x := 0; x < tw; x++ {
					f := float64(frow[x])
					sumF += f
					sumFF += f * f
					sumFT += f * float64(trow[x])
				}
			}

			denF := math.Sqrt(sumFF - sumF*sumF/n)
			var score float64
			if denF == 0 || denT == 0 {
				// Flat region or flat template: correlation undefined.
				score = 0
			} else {
				score = (sumFT - sumF*sumT/n) / (denF * denT)
			}

			if score > best.Score {
				best.Score = score
				best.Location = Rect{X: ox, Y: oy, Width: tw, Height: th}
			}
		}
	}

	return best, nil
}
