package viewport

import (
	"math"

	"github.com/frudas24/deskpad/internal/calib"
)

// Mapper converts between client points, normalized points and media pixels for one layout.
// Build a fresh Mapper whenever the container, media size, fit or manual scale changes.
type Mapper struct {
	// Container is the overlay box in client coordinates.
	Container Box
	// Content is the rendered media box relative to Container's origin.
	Content Box
	// Media is the native size of the displayed frame.
	Media Size
	// DevicePixelRatio scales canvas output; values <= 0 mean 1.
	DevicePixelRatio float64
}

// NewMapper computes the content rect for the layout and returns a ready Mapper.
// An unknown media size is replaced by the container size.
func NewMapper(container Box, media Size, fit FitMode, scaleX, scaleY, dpr float64) Mapper {
	if !media.Known() {
		media = Size{W: int(math.Round(container.W)), H: int(math.Round(container.H))}
	}
	return Mapper{
		Container:        container,
		Content:          ContentRect(container, media, fit, scaleX, scaleY),
		Media:            media,
		DevicePixelRatio: dpr,
	}
}

// Relative converts a client point into container-relative pixels.
func (m Mapper) Relative(p Point) Point {
	return Point{X: p.X - m.Container.X, Y: p.Y - m.Container.Y}
}

// Normalize maps a client point to [0,1] coordinates of the content rect, clamped.
func (m Mapper) Normalize(p Point) Point {
	rel := m.Relative(p)
	var out Point
	if m.Content.W > 0 {
		out.X = clamp01((rel.X - m.Content.X) / m.Content.W)
	}
	if m.Content.H > 0 {
		out.Y = clamp01((rel.Y - m.Content.Y) / m.Content.H)
	}
	return out
}

// PointToMedia maps a client point to the nearest media pixel.
func (m Mapper) PointToMedia(p Point) (int, int) {
	n := m.Normalize(p)
	return int(math.Round(n.X * float64(m.Media.W))), int(math.Round(n.Y * float64(m.Media.H)))
}

// MediaToCanvas maps a media rect into canvas device pixels (container origin, scaled by DPR).
func (m Mapper) MediaToCanvas(r calib.Rect) Box {
	if !m.Media.Known() {
		return Box{}
	}
	dpr := m.dpr()
	kx := m.Content.W / float64(m.Media.W)
	ky := m.Content.H / float64(m.Media.H)
	return Box{
		X: (m.Content.X + float64(r.X)*kx) * dpr,
		Y: (m.Content.Y + float64(r.Y)*ky) * dpr,
		W: float64(r.W) * kx * dpr,
		H: float64(r.H) * ky * dpr,
	}
}

// MediaPerPixel returns how many media pixels one container pixel spans on each axis.
func (m Mapper) MediaPerPixel() (float64, float64) {
	kx, ky := 1.0, 1.0
	if m.Content.W > 0 && m.Media.W > 0 {
		kx = float64(m.Media.W) / m.Content.W
	}
	if m.Content.H > 0 && m.Media.H > 0 {
		ky = float64(m.Media.H) / m.Content.H
	}
	return kx, ky
}

// dpr returns the effective device pixel ratio.
func (m Mapper) dpr() float64 {
	if m.DevicePixelRatio <= 0 {
		return 1
	}
	return m.DevicePixelRatio
}
