package viewport

import "math"

const (
	// ScaleMin is the smallest manual fullscreen stretch factor.
	ScaleMin = 0.25
	// ScaleMax is the largest manual fullscreen stretch factor.
	ScaleMax = 4.0
	// ScaleStep is the increment used by the fullscreen tune buttons.
	ScaleStep = 0.05
)

// Scale is the operator-adjustable per-axis stretch applied to the fitted content in fullscreen.
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the neutral scale.
var Identity = Scale{X: 1, Y: 1}

// Clamp bounds both axes to [ScaleMin, ScaleMax]; non-finite values become 1.
func (s Scale) Clamp() Scale {
	return Scale{X: clampScale(s.X), Y: clampScale(s.Y)}
}

// Adjust returns the scale with delta added on one axis ("x" or "y"), snapped to ScaleStep.
func (s Scale) Adjust(axis string, delta float64) Scale {
	switch axis {
	case "x":
		s.X = snap(s.X + delta)
	case "y":
		s.Y = snap(s.Y + delta)
	}
	return s.Clamp()
}

// FitScale returns the scale that stretches the contain rect to fill the container.
func FitScale(container Box, media Size) Scale {
	if !media.Known() || container.W <= 0 || container.H <= 0 {
		return Identity
	}
	base := ContentRect(container, media, FitContain, 1, 1)
	s := Identity
	if base.W > 0 {
		s.X = snap(clampScale(container.W / base.W))
	}
	if base.H > 0 {
		s.Y = snap(clampScale(container.H / base.H))
	}
	return s
}

// clampScale bounds a scale value and maps non-finite input to 1.
func clampScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return clamp(v, ScaleMin, ScaleMax)
}

// snap rounds v to the nearest ScaleStep.
func snap(v float64) float64 {
	return math.Round(v/ScaleStep) * ScaleStep
}
