package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/deskpad/internal/api"
	"github.com/frudas24/deskpad/internal/app"
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/control"
	"github.com/frudas24/deskpad/internal/metrics"
	"github.com/frudas24/deskpad/internal/monitor"
	"github.com/frudas24/deskpad/internal/panzoom"
	"github.com/frudas24/deskpad/internal/prefs"
	"github.com/frudas24/deskpad/internal/session"
	"github.com/frudas24/deskpad/internal/testutil"
	"github.com/frudas24/deskpad/internal/viewport"
)

// fakeRenderer records everything the overlay draws.
type fakeRenderer struct {
	testutil.FakeObserver
	Outlines  []app.Outline
	Draws     int
	Joysticks []control.JoystickView
	Cleared   int
	Views     []panzoom.State
	Taps      int
}

// Ensure fakeRenderer implements the interface.
var _ app.Renderer = (*fakeRenderer)(nil)

// DrawCalibration keeps the latest outlines.
func (f *fakeRenderer) DrawCalibration(outlines []app.Outline) {
	f.Draws++
	f.Outlines = append(f.Outlines[:0], outlines...)
}

// DrawJoystick records the view.
func (f *fakeRenderer) DrawJoystick(view control.JoystickView) {
	f.Joysticks = append(f.Joysticks, view)
}

// ClearJoystick counts a clear.
func (f *fakeRenderer) ClearJoystick() {
	f.Cleared++
}

// ViewChanged records the pan-zoom state.
func (f *fakeRenderer) ViewChanged(st panzoom.State) {
	f.Views = append(f.Views, st)
}

// Tap counts a single tap.
func (f *fakeRenderer) Tap() {
	f.Taps++
}

// Outline returns the drawn outline for step, skipping previews.
func (f *fakeRenderer) Outline(step calib.Step) (app.Outline, bool) {
	for _, o := range f.Outlines {
		if o.Step == step && !o.Preview {
			return o, true
		}
	}
	return app.Outline{}, false
}

type harness struct {
	app      *app.App
	sink     *testutil.FakeSink
	sched    *testutil.FakeScheduler
	renderer *fakeRenderer
	surface  *testutil.FakeSurface
	store    *prefs.MemoryStore
	metrics  *metrics.Metrics
}

// newHarness builds an overlay over an 800x450 container showing 1920x1080 media.
func newHarness(t *testing.T, store *prefs.MemoryStore) *harness {
	t.Helper()
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	h := &harness{
		sink:     &testutil.FakeSink{},
		sched:    &testutil.FakeScheduler{},
		renderer: &fakeRenderer{},
		surface:  &testutil.FakeSurface{},
		store:    store,
		metrics:  metrics.New(),
	}
	a, err := app.New(app.Options{
		Sink:      h.sink,
		Renderer:  h.renderer,
		Surface:   h.surface,
		Still:     &testutil.FakeMedia{Size: viewport.Size{W: 1920, H: 1080}},
		Prefs:     store,
		Host:      "desk.local:8080",
		Scheduler: h.sched,
		Metrics:   h.metrics,
	})
	require.NoError(t, err)
	a.SetLayout(viewport.Box{W: 800, H: 450}, 1)
	h.app = a
	return h
}

// run adopts a run-mode state with input enabled.
func (h *harness) run() {
	h.app.ApplyState(api.State{Mode: session.ModeRun, Monitor: 1, InputEnabled: true, VideoMode: session.VideoMJPEG}, nil)
}

// tap presses and releases id at p.
func (h *harness) tap(id int, p viewport.Point) {
	h.app.PointerDown(id, p)
	h.app.PointerUp(id, p)
}

// TestNew_RequiresSink verifies the only mandatory dependency.
func TestNew_RequiresSink(t *testing.T) {
	_, err := app.New(app.Options{})
	require.Error(t, err)
}

// TestTap_RunModeSendsDownUp verifies a tap in direct mode and pointer capture bookkeeping.
func TestTap_RunModeSendsDownUp(t *testing.T) {
	h := newHarness(t, nil)
	h.run()

	h.app.PointerDown(1, viewport.Point{X: 400, Y: 225})
	assert.True(t, h.surface.Captured[1])
	h.app.PointerUp(1, viewport.Point{X: 400, Y: 225})
	assert.Empty(t, h.surface.Captured)

	center := viewport.Point{X: 0.5, Y: 0.5}
	assert.Equal(t, []control.Command{control.Down(1, center), control.Up(1, center)}, h.sink.Take())
	assert.Equal(t, 0, h.app.Status().Pointers)

	want := `
# HELP deskpad_sessions_total Pointer sessions started, by owning component
# TYPE deskpad_sessions_total counter
deskpad_sessions_total{owner="gesture"} 1
`
	require.NoError(t, promtest.GatherAndCompare(h.metrics.Registry(), strings.NewReader(want), "deskpad_sessions_total"))
}

// TestPresetup_TapIsPassthrough verifies nothing is forwarded outside run mode.
func TestPresetup_TapIsPassthrough(t *testing.T) {
	h := newHarness(t, nil)
	h.tap(1, viewport.Point{X: 400, Y: 225})
	assert.Empty(t, h.sink.Commands)
}

// TestDuplicateDownIgnored verifies a second press for a live id keeps the first owner.
func TestDuplicateDownIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.run()
	h.app.PointerDown(1, viewport.Point{X: 100, Y: 100})
	h.app.PointerDown(1, viewport.Point{X: 700, Y: 400})
	h.app.PointerMove(9, viewport.Point{X: 10, Y: 10})
	h.app.PointerUp(9, viewport.Point{X: 10, Y: 10})
	assert.Equal(t, 1, h.app.Status().Pointers)
	assert.Empty(t, h.sink.Commands)
}

// TestDrawPlugin_CommitsAndRenders verifies the draw flow end to end.
func TestDrawPlugin_CommitsAndRenders(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.app.StartStep(calib.StepPlugin))

	h.app.PointerDown(1, viewport.Point{X: 100, Y: 75})
	h.app.PointerMove(1, viewport.Point{X: 300, Y: 200})
	require.Len(t, h.renderer.Outlines, 1)
	assert.True(t, h.renderer.Outlines[0].Preview)

	h.app.PointerUp(1, viewport.Point{X: 500, Y: 375})
	want := calib.Rect{X: 240, Y: 180, W: 960, H: 720}
	assert.Equal(t, []control.Command{control.CalibRect(calib.StepPlugin, want)}, h.sink.Take())
	assert.Equal(t, "Saved calibration", h.renderer.LastHint())

	o, ok := h.renderer.Outline(calib.StepPlugin)
	require.True(t, ok)
	assert.InDelta(t, 100, o.Box.X, 1e-6)
	assert.InDelta(t, 75, o.Box.Y, 1e-6)
	assert.InDelta(t, 400, o.Box.W, 1e-6)
	assert.InDelta(t, 300, o.Box.H, 1e-6)
	assert.Equal(t, want, h.app.Status().Calib.PluginAbs)
}

// TestDrawChat_ClampedInsidePlugin verifies a child drawn past the plugin edge is clamped.
func TestDrawChat_ClampedInsidePlugin(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.app.StartStep(calib.StepPlugin))
	h.app.PointerDown(1, viewport.Point{X: 100, Y: 75})
	h.app.PointerUp(1, viewport.Point{X: 500, Y: 375})
	h.sink.Take()

	require.NoError(t, h.app.StartStep(calib.StepChat))
	h.app.PointerDown(2, viewport.Point{X: 450, Y: 300})
	h.app.PointerUp(2, viewport.Point{X: 600, Y: 420})

	cmds := h.sink.Take()
	require.Len(t, cmds, 1)
	plugin := calib.Rect{X: 240, Y: 180, W: 960, H: 720}
	rel := cmds[0].Rect
	assert.Equal(t, calib.StepChat, cmds[0].Step)
	assert.True(t, calib.Inside(rel.Translate(plugin.X, plugin.Y), plugin), "chat %+v escapes plugin", rel)
}

// TestEditAndNudge verifies hit-test selection and keyboard nudges in edit mode.
func TestEditAndNudge(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.app.StartStep(calib.StepPlugin))
	h.tapDrag(1, viewport.Point{X: 100, Y: 75}, viewport.Point{X: 500, Y: 375})
	h.sink.Take()

	require.True(t, h.app.SetEditing(true))
	h.tap(2, viewport.Point{X: 300, Y: 225})
	require.NotEmpty(t, h.renderer.Selections)
	assert.Equal(t, testutil.Selection{Step: calib.StepPlugin, OK: true}, h.renderer.Selections[len(h.renderer.Selections)-1])
	assert.Empty(t, h.sink.Commands)

	require.True(t, h.app.Nudge(10, 0))
	assert.Equal(t, []control.Command{control.CalibRect(calib.StepPlugin, calib.Rect{X: 250, Y: 180, W: 960, H: 720})}, h.sink.Take())
}

// tapDrag presses id, moves it and releases it.
func (h *harness) tapDrag(id int, from, to viewport.Point) {
	h.app.PointerDown(id, from)
	h.app.PointerMove(id, to)
	h.app.PointerUp(id, to)
}

// TestEditing_RefusedInRun verifies edit mode needs presetup and run mode leaves it.
func TestEditing_RefusedInRun(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.app.SetEditing(true))
	h.app.SetMode(session.ModeRun)
	assert.False(t, h.app.Status().Editing)
	assert.Equal(t, []control.Command{control.SetMode(session.ModeRun)}, h.sink.Take())
	assert.False(t, h.app.SetEditing(true))
}

// TestModeChange_AbortsJoystick verifies toggles stop the ticker and release capture.
func TestModeChange_AbortsJoystick(t *testing.T) {
	h := newHarness(t, nil)
	h.run()
	h.app.SetScrollMode(true)

	h.app.PointerDown(1, viewport.Point{X: 400, Y: 225})
	require.Equal(t, 1, h.sched.Running())
	h.app.PointerMove(1, viewport.Point{X: 400, Y: 100})
	h.sched.Tick()
	cmds := h.sink.Take()
	require.Len(t, cmds, 1)
	assert.Equal(t, control.CmdWheel, cmds[0].Type)

	h.app.SetInputEnabled(false)
	assert.Equal(t, 0, h.sched.Running())
	assert.Equal(t, 1, h.renderer.Cleared)
	assert.Empty(t, h.surface.Captured)
	assert.Equal(t, []control.Command{control.InputEnabled(false)}, h.sink.Take())

	h.app.PointerUp(1, viewport.Point{X: 400, Y: 100})
	assert.Empty(t, h.sink.Commands)
}

// TestMouseAndScrollExclusive verifies enabling one relative mode turns the other off.
func TestMouseAndScrollExclusive(t *testing.T) {
	h := newHarness(t, nil)
	h.app.SetScrollMode(true)
	h.app.SetMouseMode(true)
	snap := h.app.Session().Snapshot()
	assert.True(t, snap.MouseMode)
	assert.False(t, snap.ScrollMode)
}

// TestFullscreenPinch_LocalOnly verifies pan-zoom owns touches with the pointer off and that
// later remote input maps through the zoomed view.
func TestFullscreenPinch_LocalOnly(t *testing.T) {
	h := newHarness(t, nil)
	h.run()
	h.app.SetFullscreen(true)
	h.app.SetPointerEnabled(false)
	h.sink.Take()

	h.app.PointerDown(1, viewport.Point{X: 300, Y: 225})
	h.app.PointerDown(2, viewport.Point{X: 500, Y: 225})
	h.app.PointerMove(1, viewport.Point{X: 200, Y: 225})
	h.app.PointerMove(2, viewport.Point{X: 600, Y: 225})
	h.app.PointerUp(1, viewport.Point{X: 200, Y: 225})
	h.app.PointerUp(2, viewport.Point{X: 600, Y: 225})

	assert.Empty(t, h.sink.Commands)
	assert.Zero(t, h.renderer.Taps)
	view := h.app.Status().View
	assert.InDelta(t, 2, view.Scale, 1e-9)
	assert.InDelta(t, 0, view.OffsetX, 1e-9)

	var pointer bool
	require.True(t, prefs.Load(h.store, prefs.PointerKey, &pointer))
	assert.False(t, pointer)

	h.app.SetPointerEnabled(true)
	h.tap(3, viewport.Point{X: 200, Y: 225})
	p := viewport.Point{X: 0.375, Y: 0.5}
	assert.Equal(t, []control.Command{control.Down(3, p), control.Up(3, p)}, h.sink.Take())

	h.app.SetFullscreen(false)
	assert.Equal(t, panzoom.Identity, h.app.Status().View)
}

// TestFullscreenScale_SavedPerHost verifies fit-on-first-entry, tuning and restore.
func TestFullscreenScale_SavedPerHost(t *testing.T) {
	store := prefs.NewMemoryStore()
	h := newHarness(t, store)
	h.app.SetLayout(viewport.Box{W: 800, H: 600}, 2)

	h.app.AdjustScale("x", viewport.ScaleStep)
	assert.Equal(t, viewport.Identity, h.app.Scale())

	h.app.SetFullscreen(true)
	s := h.app.Scale()
	assert.InDelta(t, 1, s.X, 1e-9)
	assert.InDelta(t, 1.35, s.Y, 1e-9)

	h.app.AdjustScale("x", viewport.ScaleStep)
	h.app.SetFullscreen(false)

	again := newHarness(t, store)
	again.app.SetFullscreen(true)
	s = again.app.Scale()
	assert.InDelta(t, 1.05, s.X, 1e-9)
	assert.InDelta(t, 1.35, s.Y, 1e-9)

	var saved viewport.Scale
	require.True(t, prefs.Load(store, prefs.ScaleKey("desk.local:8080"), &saved))
	assert.InDelta(t, 1.05, saved.X, 1e-9)
}

// TestPointerPreferenceRestored verifies the saved pointer toggle is applied at startup.
func TestPointerPreferenceRestored(t *testing.T) {
	store := prefs.NewMemoryStore()
	prefs.Save(store, prefs.PointerKey, false)
	h := newHarness(t, store)
	assert.False(t, h.app.Session().Snapshot().PointerEnabled)
}

// TestTypeText_GatedOnInput verifies text entry follows the input toggle.
func TestTypeText_GatedOnInput(t *testing.T) {
	h := newHarness(t, nil)
	assert.True(t, h.app.TypeText("hi"))
	assert.True(t, h.app.Enter())
	assert.False(t, h.app.TypeText(""))
	h.app.SetInputEnabled(false)
	h.sink.Take()
	assert.False(t, h.app.TypeText("hi"))
	assert.False(t, h.app.Enter())
	assert.Empty(t, h.sink.Commands)
}

// TestApplyState_LoadsCalibrationAndTuning verifies server state replaces the set and the
// reported media size follows the plugin in run mode.
func TestApplyState_LoadsCalibrationAndTuning(t *testing.T) {
	sink := &testutil.FakeSink{}
	sched := &testutil.FakeScheduler{}
	a, err := app.New(app.Options{Sink: sink, Scheduler: sched})
	require.NoError(t, err)
	a.SetLayout(viewport.Box{W: 640, H: 360}, 1)

	c := calib.Calib{MonitorIndex: 1, PluginAbs: calib.Rect{X: 100, Y: 50, W: 1280, H: 720}, ChatRel: calib.Rect{X: 10, Y: 600, W: 400, H: 80}}
	a.ApplyState(api.State{
		Mode: session.ModeRun, Monitor: 1, InputEnabled: true, VideoMode: session.VideoMJPEG,
		Calib: c, HasCalib: true, ScrollTickMs: 20, ScrollMaxDelta: 100,
	}, []monitor.Monitor{{Index: 1, W: 1920, H: 1080, Primary: true}})

	st := a.Status()
	assert.Equal(t, c, st.Calib)
	assert.Equal(t, viewport.Size{W: 1280, H: 720}, st.Media)

	a.SetScrollMode(true)
	a.PointerDown(1, viewport.Point{X: 320, Y: 180})
	require.Len(t, sched.Tickers, 1)
	assert.Equal(t, "20ms", sched.Tickers[0].Interval.String())
	a.PointerCancel(1)

	a.ApplyState(api.State{Mode: session.ModeRun, Monitor: 1, InputEnabled: true}, nil)
	assert.Equal(t, calib.Calib{MonitorIndex: 1}, a.Status().Calib)
}

// TestRoutes_OverlayState verifies the diagnostics endpoints.
func TestRoutes_OverlayState(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.app.StartStep(calib.StepPlugin))
	h.tapDrag(1, viewport.Point{X: 100, Y: 75}, viewport.Point{X: 500, Y: 375})

	r := chi.NewRouter()
	h.app.Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overlay/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "presetup", body["mode"])
	assert.Equal(t, map[string]any{"plugin": true, "chat": false, "scroll": false}, body["calib"])
	assert.Equal(t, map[string]any{"w": float64(1920), "h": float64(1080)}, body["media"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overlay/calib", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"PluginAbs":{"X":240,"Y":180,"W":960,"H":720}`)
}

// TestCancel_TapSendsNothing verifies a cancelled direct press releases capture without a tap.
func TestCancel_TapSendsNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.run()
	h.sink.Take()

	h.app.PointerDown(1, viewport.Point{X: 400, Y: 225})
	h.app.PointerMove(1, viewport.Point{X: 404, Y: 227})
	require.True(t, h.surface.Captured[1])
	h.app.PointerCancel(1)

	assert.Empty(t, h.surface.Captured)
	assert.Empty(t, h.sink.Commands)
	assert.Equal(t, 0, h.app.Status().Pointers)
}

// TestCancel_JoystickStopsTicker verifies cancel stops the wheel ticker and clears the stick.
func TestCancel_JoystickStopsTicker(t *testing.T) {
	h := newHarness(t, nil)
	h.run()
	h.app.SetScrollMode(true)
	h.sink.Take()

	h.app.PointerDown(1, viewport.Point{X: 400, Y: 225})
	h.app.PointerMove(1, viewport.Point{X: 400, Y: 150})
	require.Equal(t, 1, h.sched.Running())
	h.app.PointerCancel(1)

	assert.Equal(t, 0, h.sched.Running())
	assert.Equal(t, 1, h.renderer.Cleared)
	assert.Empty(t, h.surface.Captured)
	h.sched.Tick()
	assert.Empty(t, h.sink.Commands)
}

// TestCancel_DrawCommitsNothing verifies a cancelled draw sends no calibRect and stays in draw mode.
func TestCancel_DrawCommitsNothing(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.app.StartStep(calib.StepPlugin))

	h.app.PointerDown(1, viewport.Point{X: 100, Y: 75})
	h.app.PointerMove(1, viewport.Point{X: 500, Y: 375})
	require.True(t, h.surface.Captured[1])
	h.app.PointerCancel(1)

	assert.Empty(t, h.surface.Captured)
	assert.Empty(t, h.sink.Commands)
	st := h.app.Status()
	assert.True(t, st.Drawing)
	assert.True(t, st.Calib.PluginAbs.Empty())
	_, ok := h.renderer.Outline(calib.StepPlugin)
	assert.False(t, ok)
}

// TestCancel_PanZoomReleasesCapture verifies a cancelled local contact is not a tap.
func TestCancel_PanZoomReleasesCapture(t *testing.T) {
	h := newHarness(t, nil)
	h.run()
	h.app.SetFullscreen(true)
	h.app.SetPointerEnabled(false)
	h.sink.Take()

	h.app.PointerDown(1, viewport.Point{X: 300, Y: 225})
	require.True(t, h.surface.Captured[1])
	h.app.PointerCancel(1)

	assert.Empty(t, h.surface.Captured)
	assert.Zero(t, h.renderer.Taps)
	assert.Empty(t, h.sink.Commands)
}

// TestEdit_MissIsNotCaptured verifies a press on no rect deselects and leaves the pointer free.
func TestEdit_MissIsNotCaptured(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.app.StartStep(calib.StepPlugin))
	h.tapDrag(1, viewport.Point{X: 100, Y: 75}, viewport.Point{X: 500, Y: 375})
	require.True(t, h.app.SetEditing(true))
	h.tap(2, viewport.Point{X: 300, Y: 225})
	require.True(t, h.app.Status().HasSel)

	h.app.PointerDown(3, viewport.Point{X: 700, Y: 420})
	assert.Empty(t, h.surface.Captured)
	assert.Equal(t, 0, h.app.Status().Pointers)
	assert.False(t, h.app.Status().HasSel)
	assert.Equal(t, testutil.Selection{OK: false}, h.renderer.Selections[len(h.renderer.Selections)-1])
}

// hostHarness is in presetup on monitor 1 of two, showing webrtc with no live frame yet.
func hostHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, nil)
	h.app.ApplyState(api.State{Mode: session.ModePresetup, Monitor: 1, InputEnabled: true, VideoMode: session.VideoWebRTC}, []monitor.Monitor{
		{Index: 1, W: 2560, H: 1440, Primary: true},
		{Index: 2, X: 2560, W: 1280, H: 1024},
	})
	return h
}

// TestSetMonitor_SendsAndPredictsMedia verifies a monitor switch reaches the server and resizes.
func TestSetMonitor_SendsAndPredictsMedia(t *testing.T) {
	h := hostHarness(t)
	require.Equal(t, viewport.Size{W: 2560, H: 1440}, h.app.Status().Media)

	h.app.SetMonitor(2)
	assert.Equal(t, []control.Command{control.SetMonitor(2)}, h.sink.Take())
	st := h.app.Status()
	assert.Equal(t, 2, st.Session.MonitorIndex)
	assert.Equal(t, viewport.Size{W: 1280, H: 1024}, st.Media)

	h.app.SetMonitor(0)
	assert.Empty(t, h.sink.Commands)
	assert.Equal(t, 2, h.app.Status().Session.MonitorIndex)
}

// TestSetVideoMode_SwitchesMediaSource verifies the transport switch and its media source.
func TestSetVideoMode_SwitchesMediaSource(t *testing.T) {
	h := hostHarness(t)

	h.app.SetVideoMode(session.VideoWebRTC)
	assert.Empty(t, h.sink.Commands)

	h.app.SetVideoMode(session.VideoMJPEG)
	assert.Equal(t, []control.Command{control.SetVideo(session.VideoMJPEG)}, h.sink.Take())
	st := h.app.Status()
	assert.Equal(t, session.VideoMJPEG, st.Session.VideoMode)
	assert.Equal(t, viewport.Size{W: 1920, H: 1080}, st.Media)
}

// TestRestartPresetup_AbortsAndReturnsToMonitor verifies restart drops gestures and expects the
// full monitor again.
func TestRestartPresetup_AbortsAndReturnsToMonitor(t *testing.T) {
	h := newHarness(t, nil)
	monitors := []monitor.Monitor{{Index: 1, W: 2560, H: 1440, Primary: true}}
	h.app.ApplyState(api.State{
		Mode: session.ModeRun, Monitor: 1, InputEnabled: true, VideoMode: session.VideoWebRTC,
		Calib: calib.Calib{MonitorIndex: 1, PluginAbs: calib.Rect{X: 10, Y: 10, W: 1280, H: 720}}, HasCalib: true,
	}, monitors)
	require.Equal(t, viewport.Size{W: 1280, H: 720}, h.app.Status().Media)
	h.app.SetScrollMode(true)
	h.app.PointerDown(1, viewport.Point{X: 400, Y: 225})
	require.Equal(t, 1, h.sched.Running())

	h.app.RestartPresetup()
	assert.Equal(t, 0, h.sched.Running())
	assert.Empty(t, h.surface.Captured)
	assert.Equal(t, []control.Command{control.RestartPresetup()}, h.sink.Take())
	st := h.app.Status()
	assert.Equal(t, session.ModePresetup, st.Session.Mode)
	assert.Equal(t, viewport.Size{W: 2560, H: 1440}, st.Media)
	assert.Equal(t, 0, st.Pointers)
}

// TestClearChat_GatedOnInput verifies clear chat is only sent while input is enabled.
func TestClearChat_GatedOnInput(t *testing.T) {
	h := newHarness(t, nil)
	h.app.SetInputEnabled(false)
	h.sink.Take()
	assert.False(t, h.app.ClearChat())
	assert.Empty(t, h.sink.Commands)

	h.app.SetInputEnabled(true)
	h.sink.Take()
	assert.True(t, h.app.ClearChat())
	assert.Equal(t, []control.Command{control.ClearChat()}, h.sink.Take())
}
