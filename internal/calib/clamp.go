package calib

// EnforceMinSize grows r to at least MinSize on each axis, keeping its origin.
func EnforceMinSize(r Rect) Rect {
	r = Normalize(r)
	if r.W < MinSize {
		r.W = MinSize
	}
	if r.H < MinSize {
		r.H = MinSize
	}
	return r
}

// ClampInto keeps r inside bounds: size within [MinSize, bounds size], origin within the
// positions that keep the far edge inside.
func ClampInto(r, bounds Rect) Rect {
	r = Normalize(r)
	bounds = Normalize(bounds)
	if bounds.Empty() {
		return EnforceMinSize(r)
	}
	r.W = clampInt(r.W, min(MinSize, bounds.W), bounds.W)
	r.H = clampInt(r.H, min(MinSize, bounds.H), bounds.H)
	r.X = clampInt(r.X, bounds.X, bounds.X+bounds.W-r.W)
	r.Y = clampInt(r.Y, bounds.Y, bounds.Y+bounds.H-r.H)
	return r
}

// Inside reports whether r lies fully within bounds.
func Inside(r, bounds Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.W <= bounds.X+bounds.W && r.Y+r.H <= bounds.Y+bounds.H
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
