// Package calib models the plugin/chat/scroll calibration rectangles.
package calib

import (
	"errors"
	"strings"
)

// MinSize is the smallest width/height a calibration rectangle may have, in media pixels.
const MinSize = 12

// ErrUnknownStep is returned when a step name is not plugin, chat or scroll.
var ErrUnknownStep = errors.New("unknown calibration step")

// Rect describes a rectangle using top-left origin and size.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Calib is the calibration snapshot exchanged with the server: plugin absolute, chat/scroll relative.
type Calib struct {
	MonitorIndex int
	PluginAbs    Rect
	ChatRel      Rect
	ScrollRel    Rect
}

// Step names one of the three calibration slots.
type Step int

const (
	// StepPlugin is the outer plugin panel, stored in absolute media coordinates.
	StepPlugin Step = iota
	// StepChat is the chat input area inside the plugin.
	StepChat
	// StepScroll is the scrollable area inside the plugin.
	StepScroll
)

// Steps lists every step in hit-test order (inner regions first).
var Steps = [...]Step{StepChat, StepScroll, StepPlugin}

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepPlugin:
		return "plugin"
	case StepChat:
		return "chat"
	case StepScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three defined steps.
func (s Step) Valid() bool {
	return s >= StepPlugin && s <= StepScroll
}

// ParseStep converts a wire name into a Step.
func ParseStep(name string) (Step, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plugin":
		return StepPlugin, nil
	case "chat":
		return StepChat, nil
	case "scroll":
		return StepScroll, nil
	default:
		return 0, ErrUnknownStep
	}
}

// Normalize returns a rectangle with non-negative width/height.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
func Contains(r Rect, x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	maxX := r.X + r.W
	maxY := r.Y + r.H
	return x >= r.X && x <= maxX && y >= r.Y && y <= maxY
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// FromPoints returns the rectangle spanned by two corners.
func FromPoints(x0, y0, x1, y1 int) Rect {
	return Rect{
		X: min(x0, x1),
		Y: min(y0, y1),
		W: abs(x1 - x0),
		H: abs(y1 - y0),
	}
}

// abs returns the absolute value of an integer.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
