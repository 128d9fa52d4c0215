package cv

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"screenbot/internal/logging"
)

// NoDeadline disables the search deadline: Find loops until a match appears.
// Callers that want a bounded wait must pass a positive timeout.
const NoDeadline time.Duration = 0

// NotFoundError reports a search that reached its deadline without any frame
// scoring at or above the threshold. It is the expected "not present yet"
// outcome, distinct from capture and decode failures.
type NotFoundError struct {
	TemplatePath string
	Elapsed      time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %s not found after %s", e.TemplatePath, e.Elapsed.Round(time.Millisecond))
}

// FrameSource obtains one raw frame for a window from the native display
// server. Implementations live in the platform package.
type FrameSource interface {
	CaptureRaw(windowID int64) (*RawFrame, error)
}

// Service runs the capture-search loop against a frame source. All operations
// are synchronous and blocking; the only suspension points are the sampling
// sleeps between ticks.
type Service struct {
	frames    FrameSource
	threshold float64
	log       *logging.Logger
}

// NewService creates a search service with the standard acceptance threshold.
func NewService(frames FrameSource) *Service {
	return &Service{
		frames:    frames,
		threshold: MatchThreshold,
		log:       logging.NewLogger("cv"),
	}
}

// WithLogger replaces the service logger.
func (s *Service) WithLogger(log *logging.Logger) *Service {
	s.log = log
	return s
}

// Capture grabs and normalizes one grayscale frame for the window.
func (s *Service) Capture(windowID int64) (*image.Gray, error) {
	raw, err := s.frames.CaptureRaw(windowID)
	if err != nil {
		return nil, err
	}
	return Grayscale(raw)
}

// SaveFrame captures the window and writes it to path as a grayscale PNG.
func (s *Service) SaveFrame(windowID int64, path string) error {
	gray, err := s.Capture(windowID)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, gray)
}

// Find samples the window at sampleRate captures per second until the
// template at templatePath matches with a score at or above the standard
// threshold, or timeout elapses. The template is decoded exactly once per
// call. A NoDeadline timeout waits forever; any other outcome than "no match
// on this tick" aborts the search immediately.
func (s *Service) Find(windowID int64, sampleRate float64, templatePath string, timeout time.Duration) (Rect, error) {
	tpl, err := LoadTemplate(templatePath)
	if err != nil {
		return Rect{}, err
	}
	return s.FindImage(windowID, sampleRate, tpl, templatePath, s.threshold, timeout)
}

// FindImage is Find for an already-decoded template, used by callers that
// cache template images. The label names the template in errors and logs.
func (s *Service) FindImage(windowID int64, sampleRate float64, tpl *image.Gray, label string, threshold float64, timeout time.Duration) (Rect, error) {
	if sampleRate <= 0 {
		return Rect{}, fmt.Errorf("invalid sample rate %v (must be > 0)", sampleRate)
	}
	if threshold == 0 {
		threshold = s.threshold
	}

	tick := time.Duration(float64(time.Second) / sampleRate)
	if timeout != NoDeadline && timeout < tick {
		// Best effort: the deadline is only checked after a full tick, so the
		// search may overshoot the requested timeout by up to one interval.
		s.log.WarnWithContext("timeout shorter than capture interval", map[string]interface{}{
			"timeout": timeout,
			"tick":    tick,
		})
	}

	start := time.Now()
	ticks := 0
	for {
		ticks++

		gray, err := s.Capture(windowID)
		if err != nil {
			return Rect{}, err
		}

		result, err := Score(gray, tpl)
		if err != nil {
			return Rect{}, err
		}

		if result.Score >= threshold {
			s.log.DebugWithContext("template matched", map[string]interface{}{
				"template": label,
				"score":    result.Score,
				"ticks":    ticks,
			})
			return result.Location, nil
		}

		time.Sleep(tick)

		if timeout != NoDeadline {
			if elapsed := time.Since(start); elapsed > timeout {
				return Rect{}, &NotFoundError{TemplatePath: label, Elapsed: elapsed}
			}
		}
	}
}
