package api

import (
	"github.com/tidwall/gjson"

	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/monitor"
	"github.com/frudas24/deskpad/internal/session"
)

// State is the session state reported by the server.
type State struct {
	Mode          string
	Monitor       int
	InputEnabled  bool
	VideoMode     string
	Authenticated bool
	// Calib is the server's calibration snapshot; HasCalib is false when it was absent or unusable.
	Calib    calib.Calib
	HasCalib bool
	// ScrollTickMs and ScrollMaxDelta are zero when the server does not report joystick tuning.
	ScrollTickMs   int
	ScrollMaxDelta int
}

// ParseState decodes a /api/state body. Missing fields keep their defaults; a calibData block
// without a positive plugin rect is reported as no calibration.
func ParseState(data []byte) State {
	doc := gjson.ParseBytes(data)
	st := State{
		Mode:          session.ModePresetup,
		Monitor:       1,
		InputEnabled:  true,
		VideoMode:     session.VideoMJPEG,
		Authenticated: doc.Get("authenticated").Bool(),
	}
	if v := doc.Get("mode"); v.Type == gjson.String && v.Str == session.ModeRun {
		st.Mode = session.ModeRun
	}
	if v := doc.Get("monitor"); v.Type == gjson.Number && v.Int() > 0 {
		st.Monitor = int(v.Int())
	}
	if v := doc.Get("inputEnabled"); v.IsBool() {
		st.InputEnabled = v.Bool()
	}
	if v := doc.Get("videoMode"); v.Type == gjson.String && v.Str == session.VideoWebRTC {
		st.VideoMode = session.VideoWebRTC
	}
	if v := doc.Get("scroll.tickMs"); v.Type == gjson.Number && v.Int() > 0 {
		st.ScrollTickMs = int(v.Int())
	}
	if v := doc.Get("scroll.maxDelta"); v.Type == gjson.Number && v.Int() > 0 {
		st.ScrollMaxDelta = int(v.Int())
	}
	if cd := doc.Get("calibData"); cd.IsObject() {
		c := calib.Calib{
			MonitorIndex: int(cd.Get("MonitorIndex").Int()),
			PluginAbs:    parseRect(cd.Get("PluginAbs")),
			ChatRel:      parseRect(cd.Get("ChatRel")),
			ScrollRel:    parseRect(cd.Get("ScrollRel")),
		}
		if p := c.PluginAbs; p.W > 0 && p.H > 0 {
			st.Calib = c
			st.HasCalib = true
		}
	}
	return st
}

// ParseMonitors decodes a /api/monitors body, skipping entries without a positive index.
func ParseMonitors(data []byte) []monitor.Monitor {
	var out []monitor.Monitor
	gjson.ParseBytes(data).ForEach(func(_, v gjson.Result) bool {
		idx := int(v.Get("Index").Int())
		if idx <= 0 {
			return true
		}
		out = append(out, monitor.Monitor{
			Index:   idx,
			X:       int(v.Get("X").Int()),
			Y:       int(v.Get("Y").Int()),
			W:       int(v.Get("W").Int()),
			H:       int(v.Get("H").Int()),
			Primary: v.Get("Primary").Bool(),
		})
		return true
	})
	return out
}

// parseRect reads an {X,Y,W,H} object; anything else is the zero rect.
func parseRect(v gjson.Result) calib.Rect {
	if !v.IsObject() {
		return calib.Rect{}
	}
	return calib.Rect{
		X: int(v.Get("X").Int()),
		Y: int(v.Get("Y").Int()),
		W: int(v.Get("W").Int()),
		H: int(v.Get("H").Int()),
	}
}
