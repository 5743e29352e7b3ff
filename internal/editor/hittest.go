package editor

import (
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/viewport"
)

// HitTolerance is the grab distance around rect edges, in container pixels.
const HitTolerance = 16.0

// Handle is one of the nine drag zones of a rectangle.
type Handle int

const (
	// HandleNone means nothing was hit.
	HandleNone Handle = iota
	// HandleNW through HandleW are the corner and edge handles, named by compass direction.
	HandleNW
	HandleNE
	HandleSE
	HandleSW
	HandleN
	HandleE
	HandleS
	HandleW
	// HandleMove is the interior.
	HandleMove
)

// String returns the compass name of the handle.
func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleNE:
		return "ne"
	case HandleSE:
		return "se"
	case HandleSW:
		return "sw"
	case HandleN:
		return "n"
	case HandleE:
		return "e"
	case HandleS:
		return "s"
	case HandleW:
		return "w"
	case HandleMove:
		return "move"
	default:
		return "none"
	}
}

// west reports whether the handle moves the left edge.
func (h Handle) west() bool { return h == HandleNW || h == HandleSW || h == HandleW }

// east reports whether the handle moves the right edge.
func (h Handle) east() bool { return h == HandleNE || h == HandleSE || h == HandleE }

// north reports whether the handle moves the top edge.
func (h Handle) north() bool { return h == HandleNW || h == HandleNE || h == HandleN }

// south reports whether the handle moves the bottom edge.
func (h Handle) south() bool { return h == HandleSW || h == HandleSE || h == HandleS }

// HandleAt classifies a point against r with per-axis tolerances, all in media pixels.
// Corners win over edges and edges over the interior.
func HandleAt(r calib.Rect, x, y int, tolX, tolY float64) Handle {
	fx, fy := float64(x), float64(y)
	left, top := float64(r.X), float64(r.Y)
	right, bottom := float64(r.X+r.W), float64(r.Y+r.H)

	if fx < left-tolX || fx > right+tolX || fy < top-tolY || fy > bottom+tolY {
		return HandleNone
	}
	nearL := absf(fx-left) <= tolX
	nearR := absf(fx-right) <= tolX
	nearT := absf(fy-top) <= tolY
	nearB := absf(fy-bottom) <= tolY

	switch {
	case nearL && nearT:
		return HandleNW
	case nearR && nearT:
		return HandleNE
	case nearR && nearB:
		return HandleSE
	case nearL && nearB:
		return HandleSW
	case nearT:
		return HandleN
	case nearR:
		return HandleE
	case nearB:
		return HandleS
	case nearL:
		return HandleW
	}
	if fx >= left && fx <= right && fy >= top && fy <= bottom {
		return HandleMove
	}
	return HandleNone
}

// HitTest finds the first rect under a frame media point, checking chat, scroll and then plugin.
// The tolerance is HitTolerance converted to media pixels with m.
func HitTest(set *calib.Set, frame viewport.Frame, m viewport.Mapper, x, y int) (calib.Step, Handle, bool) {
	kx, ky := m.MediaPerPixel()
	tolX, tolY := HitTolerance*kx, HitTolerance*ky
	for _, step := range calib.Steps {
		r, ok := set.Get(step)
		if !ok {
			continue
		}
		if h := HandleAt(frame.Display(step, r), x, y, tolX, tolY); h != HandleNone {
			return step, h, true
		}
	}
	return 0, HandleNone, false
}

// absf returns |v|.
func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
