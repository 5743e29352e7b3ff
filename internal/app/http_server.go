package app

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frudas24/deskpad/internal/calib"
)

type statusResponse struct {
	Mode           string      `json:"mode"`
	MonitorIndex   int         `json:"monitor"`
	InputEnabled   bool        `json:"inputEnabled"`
	VideoMode      string      `json:"videoMode"`
	MouseMode      bool        `json:"mouseMode"`
	ScrollMode     bool        `json:"scrollMode"`
	PointerEnabled bool        `json:"pointerEnabled"`
	Fullscreen     bool        `json:"fullscreen"`
	Media          sizeJSON    `json:"media"`
	Scale          scaleJSON   `json:"scale"`
	View           viewJSON    `json:"view"`
	Drawing        bool        `json:"drawing"`
	Editing        bool        `json:"editing"`
	Selected       string      `json:"selected,omitempty"`
	Pointers       int         `json:"pointers"`
	Calib          calibStatus `json:"calib"`
}

type sizeJSON struct {
	W int `json:"w"`
	H int `json:"h"`
}

type scaleJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type viewJSON struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

type calibStatus struct {
	Plugin bool `json:"plugin"`
	Chat   bool `json:"chat"`
	Scroll bool `json:"scroll"`
}

// Routes mounts the overlay diagnostics endpoints on r.
func (a *App) Routes(r chi.Router) {
	r.Get("/overlay/state", a.handleState)
	r.Get("/overlay/calib", a.handleCalib)
}

// handleState returns mode flags, geometry and editor state.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	st := a.Status()
	resp := statusResponse{
		Mode:           st.Session.Mode,
		MonitorIndex:   st.Session.MonitorIndex,
		InputEnabled:   st.Session.InputEnabled,
		VideoMode:      st.Session.VideoMode,
		MouseMode:      st.Session.MouseMode,
		ScrollMode:     st.Session.ScrollMode,
		PointerEnabled: st.Session.PointerEnabled,
		Fullscreen:     st.Session.Fullscreen,
		Media:          sizeJSON{W: st.Media.W, H: st.Media.H},
		Scale:          scaleJSON{X: st.Scale.X, Y: st.Scale.Y},
		View:           viewJSON{Scale: st.View.Scale, OffsetX: st.View.OffsetX, OffsetY: st.View.OffsetY},
		Drawing:        st.Drawing,
		Editing:        st.Editing,
		Pointers:       st.Pointers,
		Calib:          buildCalibStatus(st.Calib),
	}
	if st.HasSel {
		resp.Selected = st.Selected.String()
	}
	writeJSON(w, resp)
}

// handleCalib returns the calibration snapshot in the server's calibData format.
func (a *App) handleCalib(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.Status().Calib)
}

// buildCalibStatus summarizes whether calibration rectangles are present.
func buildCalibStatus(c calib.Calib) calibStatus {
	return calibStatus{
		Plugin: !calib.Normalize(c.PluginAbs).Empty(),
		Chat:   !calib.Normalize(c.ChatRel).Empty(),
		Scroll: !calib.Normalize(c.ScrollRel).Empty(),
	}
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
