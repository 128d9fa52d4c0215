package window

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSampleRate is the number of captures per second a freshly
// enumerated window is configured with.
const DefaultSampleRate = 3.0

// Bounds holds the absolute screen-point geometry of a window.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Descriptor is an immutable snapshot of one on-screen window. Bounds may be
// nil when the window server did not report geometry for the window.
type Descriptor struct {
	ID         int64
	Name       string
	OwnerName  string
	Bounds     *Bounds
	SampleRate float64
}

// WithSampleRate returns a copy of the descriptor with the capture rate
// overridden. The enumerated original is never mutated.
func (d Descriptor) WithSampleRate(rate float64) Descriptor {
	d.SampleRate = rate
	return d
}

// Enumerator lists the windows currently known to the native window server.
type Enumerator interface {
	Windows() (List, error)
}

// List is a point-in-time enumeration of windows.
type List []Descriptor

// ByID returns the window with the given id.
func (l List) ByID(id int64) (Descriptor, bool) {
	for _, w := range l {
		if w.ID == id {
			return w, true
		}
	}
	return Descriptor{}, false
}

// LastByName returns the window whose name exactly equals name. When several
// windows share the name, the last one in enumeration order wins.
func (l List) LastByName(name string) (Descriptor, bool) {
	var match Descriptor
	found := false
	for _, w := range l {
		if w.Name == name {
			match = w
			found = true
		}
	}
	return match, found
}

// LastByRegex returns the window whose name matches re, last enumeration
// match winning as with LastByName.
func (l List) LastByRegex(re *regexp.Regexp) (Descriptor, bool) {
	var match Descriptor
	found := false
	for _, w := range l {
		if re.MatchString(w.Name) {
			match = w
			found = true
		}
	}
	return match, found
}

// Prettify renders the list as a fixed-width table for CLI display.
func (l List) Prettify() string {
	const maxWidth = 30

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-*s %-*s\n", "Id", maxWidth, "Window Name", maxWidth, "Window Owner Name")
	b.WriteString(strings.Repeat("-", 6+maxWidth*2))
	b.WriteString("\n")

	for _, w := range l {
		name := w.Name
		if len(name) > maxWidth {
			name = name[:maxWidth-3] + "..."
		}
		fmt.Fprintf(&b, "%-6d %-*s %-*s\n", w.ID, maxWidth, name, maxWidth, w.OwnerName)
	}

	return b.String()
}
