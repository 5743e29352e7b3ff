// Package viewport maps between container pixels, rendered content and remote media pixels.
package viewport

import "math"

// Point is a position in container (CSS) pixels or normalized units, depending on context.
type Point struct {
	X float64
	Y float64
}

// Box is a floating-point rectangle in container pixels.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Size is a pixel size of a media frame. A zero axis means unknown.
type Size struct {
	W int
	H int
}

// Known reports whether both axes are positive.
func (s Size) Known() bool {
	return s.W > 0 && s.H > 0
}

// FitMode selects how media is fitted into the container.
type FitMode int

const (
	// FitContain preserves aspect ratio and letterboxes inside the container.
	FitContain FitMode = iota
	// FitCover preserves aspect ratio and fills the container, cropping the overflow.
	FitCover
)

// ParseFitMode maps "cover" to FitCover and everything else to FitContain.
func ParseFitMode(name string) FitMode {
	if name == "cover" {
		return FitCover
	}
	return FitContain
}

// ContentRect returns the part of the container covered by media, relative to the container origin.
// A manual per-axis scale other than 1 stretches the fitted rect about its own center.
func ContentRect(container Box, media Size, fit FitMode, scaleX, scaleY float64) Box {
	if !media.Known() || container.W <= 0 || container.H <= 0 {
		return Box{W: container.W, H: container.H}
	}
	sx := container.W / float64(media.W)
	sy := container.H / float64(media.H)
	s := math.Min(sx, sy)
	if fit == FitCover {
		s = math.Max(sx, sy)
	}
	w := float64(media.W) * s
	h := float64(media.H) * s
	base := Box{X: (container.W - w) / 2, Y: (container.H - h) / 2, W: w, H: h}

	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	if scaleX == 1 && scaleY == 1 {
		return base
	}
	scaledW := base.W * scaleX
	scaledH := base.H * scaleY
	return Box{
		X: base.X + (base.W-scaledW)/2,
		Y: base.Y + (base.H-scaledH)/2,
		W: scaledW,
		H: scaledH,
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
