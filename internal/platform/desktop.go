// Package platform binds the window enumerator, frame source, and input
// controller interfaces to the native display server through robotgo.
package platform

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"screenbot/internal/window"
)

// Desktop talks to the local display server. It satisfies window.Enumerator,
// cv.FrameSource, and bot.Input, so one value wires a whole bot.
type Desktop struct{}

// NewDesktop creates the local desktop binding.
func NewDesktop() *Desktop {
	return &Desktop{}
}

// Windows enumerates the titled windows currently on screen. Window ids are
// the owning process ids, which is what the capture and activation calls key
// on.
func (d *Desktop) Windows() (window.List, error) {
	procs, err := robotgo.Process()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	var list window.List
	for _, p := range procs {
		title := robotgo.GetTitle(p.Pid)
		if title == "" {
			continue
		}

		props := map[string]window.PropValue{
			window.PropKeyID:    window.IntProp(int64(p.Pid)),
			window.PropKeyName:  window.StringProp(title),
			window.PropKeyOwner: window.StringProp(p.Name),
		}

		x, y, w, h := robotgo.GetBounds(p.Pid)
		if w > 0 && h > 0 {
			props[window.PropKeyBounds] = window.DictProp(map[string]window.PropValue{
				"x":      window.IntProp(int64(x)),
				"y":      window.IntProp(int64(y)),
				"width":  window.IntProp(int64(w)),
				"height": window.IntProp(int64(h)),
			})
		}

		desc, ok := window.DescriptorFromProps(props)
		if !ok {
			continue
		}
		list = append(list, desc)
	}

	return list, nil
}

// MoveMouse moves the pointer to an absolute screen point.
func (d *Desktop) MoveMouse(x, y int) {
	robotgo.Move(x, y)
}

// ToggleMouse presses or releases the left button at the current pointer
// position.
func (d *Desktop) ToggleMouse(down bool) {
	if down {
		robotgo.Toggle("left", "down")
	} else {
		robotgo.Toggle("left", "up")
	}
}

// KeyDown presses and holds a key.
func (d *Desktop) KeyDown(key string) {
	robotgo.KeyToggle(key, "down")
}

// KeyUp releases a held key.
func (d *Desktop) KeyUp(key string) {
	robotgo.KeyToggle(key, "up")
}

// KeyTap taps a key once.
func (d *Desktop) KeyTap(key string) {
	robotgo.KeyTap(key)
}

// TypeStr types a string at the current focus.
func (d *Desktop) TypeStr(s string) {
	robotgo.TypeStr(s)
}
