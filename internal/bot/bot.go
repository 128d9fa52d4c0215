// Package bot is the high-level automation surface: it binds to one on-screen
// window and drives searches, clicks, and keyboard input against it.
package bot

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"screenbot/internal/cv"
	"screenbot/internal/journal"
	"screenbot/internal/logging"
	"screenbot/internal/window"
	"screenbot/pkg/templates"
)

// Precondition errors returned by operations invoked before the bot has what
// they need. They are sentinel values so callers can test with errors.Is.
var (
	// ErrNoWindow means no window has been bound yet.
	ErrNoWindow = errors.New("no window bound")

	// ErrNoBounds means the bound window reported no geometry, so screen
	// coordinates cannot be computed.
	ErrNoBounds = errors.New("bound window has no bounds")

	// ErrNoController means the bot was built without an input controller.
	ErrNoController = errors.New("no input controller available")

	// ErrWindowNotFound means no enumerated window satisfied the bind
	// criterion.
	ErrWindowNotFound = errors.New("window not found")
)

// Input injects synthetic pointer and keyboard events at the current system
// cursor and focus. Injection is fire and forget; the display server gives no
// per-event acknowledgement.
type Input interface {
	MoveMouse(x, y int)
	ToggleMouse(down bool)
	KeyDown(key string)
	KeyUp(key string)
	KeyTap(key string)
	TypeStr(s string)
}

// Bot automates one window. Bind a window first, then search for templates
// and inject input relative to it. A Bot is not safe for concurrent use.
type Bot struct {
	cfg      Config
	enum     window.Enumerator
	svc      *cv.Service
	input    Input
	mapper   Mapper
	win      *window.Descriptor
	log      *logging.Logger
	journal  *journal.Journal
	registry *templates.Registry
}

// NewBot assembles a bot from its collaborators. Pass a nil input to build a
// capture-only bot; input operations will return ErrNoController.
func NewBot(cfg Config, enum window.Enumerator, frames cv.FrameSource, input Input) (*Bot, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bot config: %w", err)
	}

	log := logging.NewLogger("bot").SetMinLevel(logging.ParseLevel(cfg.LogLevel))

	return &Bot{
		cfg:    cfg,
		enum:   enum,
		svc:    cv.NewService(frames),
		input:  input,
		mapper: NewMapper(cfg.DPIRatio),
		log:    log,
	}, nil
}

// WithJournal attaches a journal; searches and injected inputs are recorded.
func (b *Bot) WithJournal(j *journal.Journal) *Bot {
	b.journal = j
	return b
}

// WithRegistry attaches a template registry for FindNamed and ClickOnNamed.
func (b *Bot) WithRegistry(r *templates.Registry) *Bot {
	b.registry = r
	return b
}

// WithLogger replaces the bot logger.
func (b *Bot) WithLogger(log *logging.Logger) *Bot {
	b.log = log
	return b
}

// Window returns the currently bound window, nil when none is bound.
func (b *Bot) Window() *window.Descriptor {
	return b.win
}

// ListWindows enumerates the windows currently on screen.
func (b *Bot) ListWindows() (window.List, error) {
	return b.enum.Windows()
}

func (b *Bot) bind(d window.Descriptor) {
	bound := d.WithSampleRate(b.cfg.SampleRate)
	b.win = &bound
	b.log.InfoWithContext("window bound", map[string]interface{}{
		"id":    bound.ID,
		"name":  bound.Name,
		"owner": bound.OwnerName,
	})
}

// BindWindowByName binds the window whose name exactly equals name. When
// several windows share the name the one enumerated last wins.
func (b *Bot) BindWindowByName(name string) error {
	list, err := b.enum.Windows()
	if err != nil {
		return fmt.Errorf("failed to enumerate windows: %w", err)
	}

	d, ok := list.LastByName(name)
	if !ok {
		b.win = nil
		return fmt.Errorf("no window named %q: %w", name, ErrWindowNotFound)
	}

	b.bind(d)
	return nil
}

// BindWindowByRegex binds the window whose name matches pattern, the last
// enumeration match winning.
func (b *Bot) BindWindowByRegex(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid window name pattern: %w", err)
	}

	list, err := b.enum.Windows()
	if err != nil {
		return fmt.Errorf("failed to enumerate windows: %w", err)
	}

	d, ok := list.LastByRegex(re)
	if !ok {
		b.win = nil
		return fmt.Errorf("no window matching %q: %w", pattern, ErrWindowNotFound)
	}

	b.bind(d)
	return nil
}

// BindWindowByID binds the window with the given id.
func (b *Bot) BindWindowByID(id int64) error {
	list, err := b.enum.Windows()
	if err != nil {
		return fmt.Errorf("failed to enumerate windows: %w", err)
	}

	d, ok := list.ByID(id)
	if !ok {
		b.win = nil
		return fmt.Errorf("no window with id %d: %w", id, ErrWindowNotFound)
	}

	b.bind(d)
	return nil
}

// Find searches the bound window for the template image at templatePath,
// waiting indefinitely. The returned rectangle is in capture-pixel space.
func (b *Bot) Find(templatePath string) (cv.Rect, error) {
	return b.FindWithTimeout(templatePath, cv.NoDeadline)
}

// FindWithTimeout is Find with a deadline. A zero timeout waits forever; on
// expiry the error unwraps to *cv.NotFoundError.
func (b *Bot) FindWithTimeout(templatePath string, timeout time.Duration) (cv.Rect, error) {
	if b.win == nil {
		return cv.Rect{}, ErrNoWindow
	}

	start := time.Now()
	loc, err := b.svc.Find(b.win.ID, b.win.SampleRate, templatePath, timeout)
	b.recordSearch(templatePath, start, err)
	return loc, err
}

// FindNamed searches for a template registered in the attached registry,
// using its cached image and configured threshold.
func (b *Bot) FindNamed(name string, timeout time.Duration) (cv.Rect, error) {
	if b.win == nil {
		return cv.Rect{}, ErrNoWindow
	}
	if b.registry == nil {
		return cv.Rect{}, fmt.Errorf("no template registry attached")
	}

	img, def, err := b.registry.Cache().Get(name)
	if err != nil {
		return cv.Rect{}, err
	}

	start := time.Now()
	loc, err := b.svc.FindImage(b.win.ID, b.win.SampleRate, img, name, def.Threshold, timeout)
	b.recordSearch(name, start, err)
	return loc, err
}

// ClickOnImage finds the template in the bound window and clicks its center.
// The returned coordinates are the matched center in capture-pixel space,
// before any screen mapping, so callers can feed them back into further
// pixel-space math.
func (b *Bot) ClickOnImage(templatePath string, timeout time.Duration) (int, int, error) {
	loc, err := b.FindWithTimeout(templatePath, timeout)
	if err != nil {
		return 0, 0, err
	}

	cx, cy := loc.Center()
	if err := b.Click(cx, cy); err != nil {
		return 0, 0, err
	}
	return cx, cy, nil
}

// ClickOnNamed is ClickOnImage for a registry template.
func (b *Bot) ClickOnNamed(name string, timeout time.Duration) (int, int, error) {
	loc, err := b.FindNamed(name, timeout)
	if err != nil {
		return 0, 0, err
	}

	cx, cy := loc.Center()
	if err := b.Click(cx, cy); err != nil {
		return 0, 0, err
	}
	return cx, cy, nil
}

// Click presses and releases the left button at the window-relative
// capture-pixel coordinate (rx, ry).
func (b *Bot) Click(rx, ry int) error {
	if err := b.MouseDownOn(rx, ry); err != nil {
		return err
	}
	return b.MouseUpOn(rx, ry)
}

// MouseDownOn moves to the window-relative coordinate and presses the left
// button. The settle delay between move and press gives the window server
// time to deliver the motion first.
func (b *Bot) MouseDownOn(rx, ry int) error {
	return b.mouseToggleOn(rx, ry, true)
}

// MouseUpOn moves to the window-relative coordinate and releases the left
// button.
func (b *Bot) MouseUpOn(rx, ry int) error {
	return b.mouseToggleOn(rx, ry, false)
}

func (b *Bot) mouseToggleOn(rx, ry int, down bool) error {
	if b.input == nil {
		return ErrNoController
	}
	if b.win == nil {
		return ErrNoWindow
	}
	if b.win.Bounds == nil {
		return ErrNoBounds
	}

	x, y := b.mapper.ToScreen(*b.win.Bounds, rx, ry)
	b.input.MoveMouse(x, y)
	time.Sleep(b.cfg.WaitTime)
	b.input.ToggleMouse(down)
	time.Sleep(b.cfg.WaitTime)

	kind := "mouse_up"
	if down {
		kind = "mouse_down"
	}
	b.recordInput(kind, x, y, "")
	return nil
}

// ActivateWindow brings the bound window to the foreground by clicking its
// title bar area, just right of center top.
func (b *Bot) ActivateWindow() error {
	if b.win == nil {
		return ErrNoWindow
	}
	if b.win.Bounds == nil {
		return ErrNoBounds
	}
	return b.Click(int(b.win.Bounds.Width), 20)
}

// KeyDown presses and holds a key.
func (b *Bot) KeyDown(key string) error {
	if b.input == nil {
		return ErrNoController
	}
	b.input.KeyDown(key)
	b.recordInput("key_down", 0, 0, key)
	return nil
}

// KeyUp releases a held key.
func (b *Bot) KeyUp(key string) error {
	if b.input == nil {
		return ErrNoController
	}
	b.input.KeyUp(key)
	b.recordInput("key_up", 0, 0, key)
	return nil
}

// KeyClick taps a key once.
func (b *Bot) KeyClick(key string) error {
	if b.input == nil {
		return ErrNoController
	}
	b.input.KeyTap(key)
	b.recordInput("key_click", 0, 0, key)
	return nil
}

// TypeText types a string into the focused window.
func (b *Bot) TypeText(s string) error {
	if b.input == nil {
		return ErrNoController
	}
	b.input.TypeStr(s)
	b.recordInput("type", 0, 0, s)
	return nil
}

// Write is a short alias for TypeText.
func (b *Bot) Write(s string) error {
	return b.TypeText(s)
}

// Writeln types a string followed by the return key.
func (b *Bot) Writeln(s string) error {
	if err := b.TypeText(s); err != nil {
		return err
	}
	return b.KeyClick("enter")
}

// Sleep pauses the calling routine. Convenience for scripted sequences.
func (b *Bot) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Screenshot captures the bound window and writes it to path as a grayscale
// PNG.
func (b *Bot) Screenshot(path string) error {
	if b.win == nil {
		return ErrNoWindow
	}
	return b.svc.SaveFrame(b.win.ID, path)
}

func (b *Bot) recordSearch(template string, start time.Time, searchErr error) {
	if b.journal == nil {
		return
	}

	status := journal.StatusFound
	detail := ""
	if searchErr != nil {
		var notFound *cv.NotFoundError
		if errors.As(searchErr, &notFound) {
			status = journal.StatusTimeout
		} else {
			status = journal.StatusError
			detail = searchErr.Error()
		}
	}

	rec := journal.SearchRecord{
		WindowID:   b.win.ID,
		Template:   template,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		Detail:     detail,
		StartedAt:  start,
	}
	if err := b.journal.RecordSearch(rec); err != nil {
		b.log.Error("failed to record search", err)
	}
}

func (b *Bot) recordInput(kind string, x, y int, detail string) {
	if b.journal == nil {
		return
	}

	var windowID int64
	if b.win != nil {
		windowID = b.win.ID
	}

	rec := journal.InputRecord{
		WindowID: windowID,
		Kind:     kind,
		X:        x,
		Y:        y,
		Detail:   detail,
	}
	if err := b.journal.RecordInput(rec); err != nil {
		b.log.Error("failed to record input", err)
	}
}
