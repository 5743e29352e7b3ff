package viewport

import (
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/monitor"
	"github.com/frudas24/deskpad/internal/session"
)

// cropTolerance is how far the frame size may differ from plugin before it is not a crop.
const cropTolerance = 2

// Frame describes how media coordinates of the displayed frame relate to monitor coordinates.
// When the frame is a crop of the plugin area, Origin is plugin's monitor position.
type Frame struct {
	Size    Size
	OriginX int
	OriginY int
	Cropped bool
}

// FrameFor detects whether a frame of size media is the plugin crop.
func FrameFor(media Size, set *calib.Set) Frame {
	f := Frame{Size: media}
	if set == nil || !media.Known() {
		return f
	}
	plugin, ok := set.Plugin()
	if !ok {
		return f
	}
	if absInt(media.W-plugin.W) <= cropTolerance && absInt(media.H-plugin.H) <= cropTolerance {
		f.Cropped = true
		f.OriginX = plugin.X
		f.OriginY = plugin.Y
	}
	return f
}

// Display converts an absolute calibration rect to the frame's media coordinates.
// In a cropped frame plugin covers the whole frame and children are shown relative to plugin.
func (f Frame) Display(step calib.Step, r calib.Rect) calib.Rect {
	if !f.Cropped {
		return r
	}
	if step == calib.StepPlugin {
		return calib.Rect{W: f.Size.W, H: f.Size.H}
	}
	return r.Translate(-f.OriginX, -f.OriginY)
}

// Absolute converts a point in the frame's media coordinates to monitor media coordinates.
func (f Frame) Absolute(x, y int) (int, int) {
	return x + f.OriginX, y + f.OriginY
}

// Bounds returns the frame extent in monitor media coordinates.
func (f Frame) Bounds() calib.Rect {
	return calib.Rect{X: f.OriginX, Y: f.OriginY, W: f.Size.W, H: f.Size.H}
}

// ResolveMediaSize picks the best known native size: live media, still image, the size last
// reported out of band, and finally the container itself.
func ResolveMediaSize(live, still, reported Size, container Box) Size {
	for _, s := range [...]Size{live, still, reported} {
		if s.Known() {
			return s
		}
	}
	return Size{W: int(container.W + 0.5), H: int(container.H + 0.5)}
}

// ExpectedMediaSize predicts the stream size before the first frame arrives: the plugin size in
// run mode once calibrated, otherwise the selected monitor size.
func ExpectedMediaSize(mode string, monitorIndex int, c calib.Calib, monitors []monitor.Monitor) (Size, bool) {
	m, ok := monitor.GetMonitorByIndex(monitors, monitorIndex)
	if !ok {
		return Size{}, false
	}
	plugin := calib.Normalize(c.PluginAbs)
	if mode == session.ModeRun && !plugin.Empty() {
		return Size{W: plugin.W, H: plugin.H}, true
	}
	if m.W <= 0 || m.H <= 0 {
		return Size{}, false
	}
	return Size{W: m.W, H: m.H}, true
}

// absInt returns the absolute value of an integer.
func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
