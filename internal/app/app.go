// Package app routes overlay pointer events to the calibration editor, the gesture controller
// and the local pan-zoom view, and keeps the host mode flags in sync with the control channel.
package app

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/api"
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/control"
	"github.com/frudas24/deskpad/internal/editor"
	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/metrics"
	"github.com/frudas24/deskpad/internal/monitor"
	"github.com/frudas24/deskpad/internal/panzoom"
	"github.com/frudas24/deskpad/internal/prefs"
	"github.com/frudas24/deskpad/internal/session"
	"github.com/frudas24/deskpad/internal/viewport"
)

// Outline is one calibration rectangle in canvas device pixels.
type Outline struct {
	Step     calib.Step
	Box      viewport.Box
	Selected bool
	Preview  bool
}

// Renderer draws the overlay and shows operator feedback.
type Renderer interface {
	DrawCalibration(outlines []Outline)
	DrawJoystick(view control.JoystickView)
	ClearJoystick()
	SelectionChanged(step calib.Step, ok bool)
	Hint(text string)
	ViewChanged(state panzoom.State)
	Tap()
}

// Surface owns pointer capture for the overlay element.
type Surface interface {
	CapturePointer(id int)
	ReleasePointer(id int)
}

// MediaSource reports the intrinsic size of a displayed frame, zero when unknown.
type MediaSource interface {
	MediaSize() viewport.Size
}

// owner is the component a pointer session belongs to. It is fixed at pointer-down.
type owner int

const (
	ownerEditor owner = iota + 1
	ownerPanZoom
	ownerGesture
)

// String returns the owner label used in metrics.
func (o owner) String() string {
	switch o {
	case ownerEditor:
		return "editor"
	case ownerPanZoom:
		return "panzoom"
	case ownerGesture:
		return "gesture"
	default:
		return "none"
	}
}

// Options configures an App. Sink is required; everything else has a default.
type Options struct {
	Sink     control.Sink
	Session  *session.Session
	Set      *calib.Set
	Renderer Renderer
	Surface  Surface
	// Live is the video element, Still the MJPEG preview image.
	Live  MediaSource
	Still MediaSource
	Prefs prefs.Store
	// Host keys per-server preferences.
	Host string
	// Scheduler runs joystick ticks; the default serializes them with event handling.
	Scheduler     control.Scheduler
	FullscreenFit viewport.FitMode
	TickInterval  time.Duration
	MaxDelta      int
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// App is the overlay. All methods are safe for concurrent use; events are processed one at a
// time.
type App struct {
	mu       sync.Mutex
	sink     control.Sink
	session  *session.Session
	renderer Renderer
	surface  Surface
	live     MediaSource
	still    MediaSource
	prefs    prefs.Store
	host     string
	fsFit    viewport.FitMode
	logger   *zap.Logger
	metrics  *metrics.Metrics

	editor   *editor.Editor
	gestures *control.Controller
	panzoom  *panzoom.Controller

	owners    map[int]owner
	container viewport.Box
	dpr       float64
	reported  viewport.Size
	monitors  []monitor.Monitor
	scale     viewport.Scale
}

// New creates an overlay with its controllers wired.
func New(opts Options) (*App, error) {
	if opts.Sink == nil {
		return nil, errors.New("control sink is required")
	}
	a := &App{
		sink:     opts.Sink,
		session:  opts.Session,
		renderer: opts.Renderer,
		surface:  opts.Surface,
		live:     opts.Live,
		still:    opts.Still,
		prefs:    opts.Prefs,
		host:     opts.Host,
		fsFit:    opts.FullscreenFit,
		logger:   logging.OrNop(opts.Logger),
		metrics:  opts.Metrics,
		owners:   make(map[int]owner),
		dpr:      1,
		scale:    viewport.Identity,
	}
	if a.session == nil {
		a.session = session.New()
	}
	if a.renderer == nil {
		a.renderer = nopRenderer{}
	}
	if a.surface == nil {
		a.surface = nopSurface{}
	}
	set := opts.Set
	if set == nil {
		set = &calib.Set{}
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = control.TimeScheduler{Locker: &a.mu}
	}

	a.editor = editor.New(set, a.sink, editorView{a}, editor.Options{Logger: a.logger, Metrics: a.metrics})
	a.gestures = control.NewController(a.sink, sched, joystickView{a}, control.Options{
		TickInterval: opts.TickInterval,
		MaxDelta:     opts.MaxDelta,
		Logger:       a.logger,
	})
	a.panzoom = panzoom.New(zoomView{a})

	var pointer bool
	if prefs.Load(a.prefs, prefs.PointerKey, &pointer) {
		a.session.SetPointerEnabled(pointer)
	}
	return a, nil
}

// Session returns the shared mode flags.
func (a *App) Session() *session.Session {
	return a.session
}

// SetLayout records the overlay container in client pixels and the device pixel ratio.
func (a *App) SetLayout(container viewport.Box, dpr float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.container = container
	if dpr <= 0 {
		dpr = 1
	}
	a.dpr = dpr
	a.panzoom.SetBounds(viewport.Box{W: container.W, H: container.H})
	a.redraw()
}

// SetReportedMediaSize records a frame size learned out of band.
func (a *App) SetReportedMediaSize(size viewport.Size) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reported = size
	a.redraw()
}

// MediaChanged redraws after the live or still source changed size.
func (a *App) MediaChanged() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.redraw()
}

// ApplyState adopts the server's session state, calibration and joystick tuning.
func (a *App) ApplyState(st api.State, monitors []monitor.Monitor) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	a.session.SetMode(st.Mode)
	a.session.SetInputEnabled(st.InputEnabled)
	a.session.SetVideoMode(st.VideoMode)
	a.session.SetMonitor(st.Monitor)
	a.monitors = append(a.monitors[:0], monitors...)

	a.gestures.SetTuning(time.Duration(st.ScrollTickMs)*time.Millisecond, st.ScrollMaxDelta)
	a.release(ownerEditor)
	a.editor.LoadSnapshot(st.Calib)
	if a.editor.Editing() {
		a.editor.SetEditing(true, a.session.Snapshot())
	}
	if size, ok := viewport.ExpectedMediaSize(st.Mode, st.Monitor, st.Calib, monitors); ok {
		a.reported = size
	}
	a.redraw()
}

// SetMode switches the host phase and tells the server.
func (a *App) SetMode(mode string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	a.session.SetMode(mode)
	snap := a.session.Snapshot()
	if a.editor.Editing() && snap.Mode != session.ModePresetup {
		a.release(ownerEditor)
		a.editor.SetEditing(false, snap)
	}
	a.sink.Send(control.SetMode(snap.Mode))
	a.expectMedia(snap)
	a.redraw()
}

// SetVideoMode switches the stream transport and tells the server. Selecting the current mode
// does nothing.
func (a *App) SetVideoMode(mode string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.session.Snapshot().VideoMode
	a.session.SetVideoMode(mode)
	snap := a.session.Snapshot()
	if snap.VideoMode == prev {
		return
	}
	a.abortPointers()
	a.sink.Send(control.SetVideo(snap.VideoMode))
	a.expectMedia(snap)
	a.redraw()
}

// SetMonitor selects the captured monitor and tells the server. Indexes below 1 are ignored.
func (a *App) SetMonitor(idx int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx < 1 {
		return
	}
	a.abortPointers()
	a.session.SetMonitor(idx)
	snap := a.session.Snapshot()
	a.sink.Send(control.SetMonitor(idx))
	a.expectMedia(snap)
	a.redraw()
}

// RestartPresetup returns the server to the full-monitor calibration stream.
func (a *App) RestartPresetup() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortPointers()
	a.session.SetMode(session.ModePresetup)
	snap := a.session.Snapshot()
	a.sink.Send(control.RestartPresetup())
	a.expectMedia(snap)
	a.redraw()
}

// ClearChat empties the remote chat input. It reports false when input is disabled.
func (a *App) ClearChat() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.session.Snapshot().InputEnabled {
		return false
	}
	a.sink.Send(control.ClearChat())
	return true
}

// SetInputEnabled toggles remote input and tells the server.
func (a *App) SetInputEnabled(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	a.session.SetInputEnabled(on)
	a.sink.Send(control.InputEnabled(on))
}

// SetMouseMode toggles relative mouse input. It turns scroll mode off.
func (a *App) SetMouseMode(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	a.session.SetMouseMode(on)
	if on {
		a.session.SetScrollMode(false)
	}
}

// SetScrollMode toggles the scroll joystick. It turns mouse mode off.
func (a *App) SetScrollMode(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	a.session.SetScrollMode(on)
	if on {
		a.session.SetMouseMode(false)
	}
}

// SetPointerEnabled toggles remote pointer forwarding and remembers the choice.
func (a *App) SetPointerEnabled(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	for id, o := range a.owners {
		if o == ownerPanZoom {
			a.panzoom.Cancel(id)
		}
	}
	a.release(ownerPanZoom)
	a.session.SetPointerEnabled(on)
	prefs.Save(a.prefs, prefs.PointerKey, on)
}

// SetFullscreen enters or leaves the immersive presentation. Entering applies the saved manual
// scale for this server or fits the content to the container; leaving resets the local zoom.
func (a *App) SetFullscreen(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortGestures()
	a.session.SetFullscreen(on)
	if on {
		var saved viewport.Scale
		if prefs.Load(a.prefs, prefs.ScaleKey(a.host), &saved) {
			a.scale = saved.Clamp()
		} else {
			a.resetScale()
		}
	} else {
		for id, o := range a.owners {
			if o == ownerPanZoom {
				a.panzoom.Cancel(id)
			}
		}
		a.release(ownerPanZoom)
		a.panzoom.Reset()
	}
	a.redraw()
}

// AdjustScale nudges the fullscreen scale on axis "x" or "y" and persists it.
func (a *App) AdjustScale(axis string, delta float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.session.Snapshot().Fullscreen {
		return
	}
	a.scale = a.scale.Adjust(axis, delta)
	prefs.Save(a.prefs, prefs.ScaleKey(a.host), a.scale)
	a.redraw()
}

// ResetScale fits the fullscreen content to the container and persists it.
func (a *App) ResetScale() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetScale()
	a.redraw()
}

// Scale returns the manual fullscreen scale.
func (a *App) Scale() viewport.Scale {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scale
}

// StartStep enters draw mode for step.
func (a *App) StartStep(step calib.Step) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release(ownerEditor)
	return a.editor.StartStep(step)
}

// SetEditing toggles edit mode and reports the resulting state. Edit mode needs presetup.
func (a *App) SetEditing(on bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release(ownerEditor)
	return a.editor.SetEditing(on, a.session.Snapshot())
}

// Save re-sends the rectangle of the active draw step.
func (a *App) Save() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.editor.Save()
}

// Nudge moves the selected rectangle by (dx, dy) media pixels.
func (a *App) Nudge(dx, dy int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editor.NudgeSelected(dx, dy, viewport.FrameFor(a.mediaSize(), a.editor.Set()))
}

// TypeText sends text to the remote chat box. It reports false when input is disabled.
func (a *App) TypeText(text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if text == "" || !a.session.Snapshot().InputEnabled {
		return false
	}
	a.sink.Send(control.TypeText(text))
	return true
}

// Enter sends an enter key press. It reports false when input is disabled.
func (a *App) Enter() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.session.Snapshot().InputEnabled {
		return false
	}
	a.sink.Send(control.Enter())
	return true
}

// PointerDown starts a session for id and picks its owner.
func (a *App) PointerDown(id int, p viewport.Point) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.owners[id]; ok {
		a.logger.Debug("pointer already owned", zap.Int("id", id))
		return
	}
	snap := a.session.Snapshot()
	o, ok := a.route(id, p, snap)
	if !ok {
		a.logger.Debug("pointer ignored", zap.Int("id", id))
		return
	}
	a.owners[id] = o
	a.surface.CapturePointer(id)
	a.metrics.SessionStarted(o.String())
}

// PointerMove forwards a move to the session owner.
func (a *App) PointerMove(id int, p viewport.Point) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.owners[id] {
	case ownerEditor:
		a.editor.Move(id, p, a.view(a.session.Snapshot()))
	case ownerPanZoom:
		a.panzoom.Move(id, p)
	case ownerGesture:
		a.gestures.Move(id, p)
	}
}

// PointerUp ends the session for id and releases capture.
func (a *App) PointerUp(id int, p viewport.Point) {
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.owners[id]
	if !ok {
		return
	}
	switch o {
	case ownerEditor:
		a.editor.Up(id, p, a.view(a.session.Snapshot()))
	case ownerPanZoom:
		a.panzoom.Up(id, p)
	case ownerGesture:
		a.gestures.Up(id, p)
	}
	a.drop(id)
}

// PointerCancel ends the session for id without committing anything.
func (a *App) PointerCancel(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.owners[id]
	if !ok {
		return
	}
	switch o {
	case ownerEditor:
		a.editor.Cancel(id)
	case ownerPanZoom:
		a.panzoom.Cancel(id)
	case ownerGesture:
		a.gestures.Cancel(id)
	}
	a.drop(id)
}

// route hands a new pointer to its owner. Draw and edit modes take priority, then local pan-zoom
// when the remote pointer is off in fullscreen, then the gesture controller.
func (a *App) route(id int, p viewport.Point, snap session.Snapshot) (owner, bool) {
	switch {
	case a.editor.Drawing() || a.editor.Editing():
		return ownerEditor, a.editor.Down(id, p, a.view(snap))
	case snap.Fullscreen && !snap.PointerEnabled:
		return ownerPanZoom, a.panzoom.Down(id, p)
	default:
		a.gestures.Down(id, p, snap, a.inputMapper(snap))
		return ownerGesture, true
	}
}

// drop forgets id and releases its capture.
func (a *App) drop(id int) {
	delete(a.owners, id)
	a.surface.ReleasePointer(id)
}

// release forgets every pointer owned by o.
func (a *App) release(o owner) {
	for id, cur := range a.owners {
		if cur == o {
			a.drop(id)
		}
	}
}

// abortGestures cancels gesture sessions after a mode change.
func (a *App) abortGestures() {
	a.gestures.Abort()
	a.release(ownerGesture)
}

// abortPointers cancels every pointer session, whatever its owner.
func (a *App) abortPointers() {
	a.gestures.Abort()
	for id, o := range a.owners {
		switch o {
		case ownerEditor:
			a.editor.Cancel(id)
		case ownerPanZoom:
			a.panzoom.Cancel(id)
		}
		a.drop(id)
	}
}

// expectMedia predicts the stream size for snap until a frame reports it.
func (a *App) expectMedia(snap session.Snapshot) {
	c := a.editor.Set().Snapshot(snap.MonitorIndex)
	if size, ok := viewport.ExpectedMediaSize(snap.Mode, snap.MonitorIndex, c, a.monitors); ok {
		a.reported = size
	}
}

// resetScale sets the scale that fills the container with the contain rect.
func (a *App) resetScale() {
	a.scale = viewport.FitScale(a.container, a.mediaSize())
	prefs.Save(a.prefs, prefs.ScaleKey(a.host), a.scale)
}

// mediaSize resolves the native size of the displayed frame.
func (a *App) mediaSize() viewport.Size {
	var live, still viewport.Size
	switch a.session.Snapshot().VideoMode {
	case session.VideoWebRTC:
		if a.live != nil {
			live = a.live.MediaSize()
		}
	default:
		if a.still != nil {
			still = a.still.MediaSize()
		}
	}
	return viewport.ResolveMediaSize(live, still, a.reported, a.container)
}

// layout returns the fit and manual scale for snap. Manual scale applies only in fullscreen.
func (a *App) layout(snap session.Snapshot) (viewport.FitMode, viewport.Scale) {
	if snap.Fullscreen {
		return a.fsFit, a.scale
	}
	return viewport.FitContain, viewport.Identity
}

// drawMapper maps media into the untransformed overlay canvas.
func (a *App) drawMapper(snap session.Snapshot) viewport.Mapper {
	fit, s := a.layout(snap)
	return viewport.NewMapper(a.container, a.mediaSize(), fit, s.X, s.Y, a.dpr)
}

// inputMapper maps client points through the local pan-zoom transform.
func (a *App) inputMapper(snap session.Snapshot) viewport.Mapper {
	fit, s := a.layout(snap)
	return viewport.NewMapper(zoomed(a.container, a.panzoom.State()), a.mediaSize(), fit, s.X, s.Y, a.dpr)
}

// view is the editor geometry for an event.
func (a *App) view(snap session.Snapshot) editor.View {
	m := a.inputMapper(snap)
	return editor.View{Mapper: m, Frame: viewport.FrameFor(m.Media, a.editor.Set())}
}

// redraw pushes the calibration outlines to the renderer.
func (a *App) redraw() {
	m := a.drawMapper(a.session.Snapshot())
	if m.Content.W <= 0 || m.Content.H <= 0 {
		a.renderer.DrawCalibration(nil)
		return
	}
	frame := viewport.FrameFor(m.Media, a.editor.Set())
	outlines := a.editor.Outlines(frame)
	out := make([]Outline, 0, len(outlines))
	for _, o := range outlines {
		if o.Rect.Empty() {
			continue
		}
		out = append(out, Outline{Step: o.Step, Box: m.MediaToCanvas(o.Rect), Selected: o.Selected, Preview: o.Preview})
	}
	a.renderer.DrawCalibration(out)
}

// zoomed returns the on-screen box of container under the pan-zoom transform, which scales
// about the container center and then translates by the offset.
func zoomed(c viewport.Box, st panzoom.State) viewport.Box {
	w := c.W * st.Scale
	h := c.H * st.Scale
	return viewport.Box{
		X: c.X + (c.W-w)/2 + st.OffsetX,
		Y: c.Y + (c.H-h)/2 + st.OffsetY,
		W: w,
		H: h,
	}
}

// Status is a point-in-time view of the overlay for diagnostics.
type Status struct {
	Session  session.Snapshot
	Media    viewport.Size
	Scale    viewport.Scale
	View     panzoom.State
	Drawing  bool
	Editing  bool
	Selected calib.Step
	HasSel   bool
	Pointers int
	Calib    calib.Calib
}

// Status returns the current overlay state.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := a.session.Snapshot()
	sel, ok := a.editor.Selected()
	return Status{
		Session:  snap,
		Media:    a.mediaSize(),
		Scale:    a.scale,
		View:     a.panzoom.State(),
		Drawing:  a.editor.Drawing(),
		Editing:  a.editor.Editing(),
		Selected: sel,
		HasSel:   ok,
		Pointers: len(a.owners),
		Calib:    a.editor.Set().Snapshot(snap.MonitorIndex),
	}
}
