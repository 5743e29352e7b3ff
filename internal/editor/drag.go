package editor

import "github.com/frudas24/deskpad/internal/calib"

// Transform applies a cumulative drag delta to the handle's edges of start.
// A moving edge stops MinSize short of the opposite edge, which stays pinned, and never leaves
// bounds. Moves translate the whole rect and are clamped into bounds.
func Transform(start calib.Rect, h Handle, dx, dy int, bounds calib.Rect) calib.Rect {
	start = calib.Normalize(start)
	bounds = calib.Normalize(bounds)
	if h == HandleMove {
		return calib.ClampInto(start.Translate(dx, dy), bounds)
	}

	left, top := start.X, start.Y
	right, bottom := start.X+start.W, start.Y+start.H
	minL, minT, maxR, maxB := left+dx, top+dy, right+dx, bottom+dy
	if !bounds.Empty() {
		minL, minT = bounds.X, bounds.Y
		maxR, maxB = bounds.X+bounds.W, bounds.Y+bounds.H
	}

	if h.west() {
		left = min(max(left+dx, minL), right-calib.MinSize)
	}
	if h.east() {
		right = max(min(right+dx, maxR), left+calib.MinSize)
	}
	if h.north() {
		top = min(max(top+dy, minT), bottom-calib.MinSize)
	}
	if h.south() {
		bottom = max(min(bottom+dy, maxB), top+calib.MinSize)
	}
	return calib.ClampInto(calib.Rect{X: left, Y: top, W: right - left, H: bottom - top}, bounds)
}
