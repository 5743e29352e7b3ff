// Package editor implements interactive calibration authoring: drawing new rectangles and
// selecting, moving and resizing existing ones.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/control"
	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/metrics"
	"github.com/frudas24/deskpad/internal/session"
	"github.com/frudas24/deskpad/internal/viewport"
)

// Hints shown to the operator.
const (
	HintSaved     = "Saved calibration"
	HintSent      = "Calibration sent"
	HintDrawFirst = "Draw a rectangle first"
)

// Observer is notified when the editor's visible state changes.
type Observer interface {
	// Changed asks the host to redraw the outlines.
	Changed()
	SelectionChanged(step calib.Step, ok bool)
	Hint(text string)
}

// View is the geometry an event was captured in.
type View struct {
	Mapper viewport.Mapper
	Frame  viewport.Frame
}

// Outline is one rectangle to draw, in frame media coordinates.
type Outline struct {
	Step     calib.Step
	Rect     calib.Rect
	Selected bool
	// Preview marks the rubber band of an in-progress draw.
	Preview bool
}

// drawState is an in-progress rubber band.
type drawState struct {
	startX int
	startY int
	frame  viewport.Frame
	rect   calib.Rect
	live   bool
}

// dragState is an in-progress move or resize of a stored rect.
type dragState struct {
	step      calib.Step
	handle    Handle
	startRect calib.Rect
	startX    int
	startY    int
	bounds    calib.Rect
	saved     calib.Set
}

// Editor owns the draw and edit modes on top of a calibration set.
// It is not safe for concurrent use.
type Editor struct {
	set      *calib.Set
	sink     control.Sink
	observer Observer
	logger   *zap.Logger
	metrics  *metrics.Metrics

	drawing  bool
	step     calib.Step
	hasStep  bool
	lastRect [3]bool

	editing   bool
	selected  calib.Step
	hasSelect bool

	pointer int
	tracked bool
	draw    *drawState
	drag    *dragState
}

// Options configures an Editor.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns an editor over set that emits updates to sink. observer may be nil.
func New(set *calib.Set, sink control.Sink, observer Observer, opts Options) *Editor {
	return &Editor{
		set:      set,
		sink:     sink,
		observer: observer,
		logger:   logging.OrNop(opts.Logger),
		metrics:  opts.Metrics,
	}
}

// Set returns the underlying calibration set.
func (e *Editor) Set() *calib.Set {
	return e.set
}

// StartStep enters draw mode for step, leaving edit mode.
func (e *Editor) StartStep(step calib.Step) error {
	if !step.Valid() {
		return calib.ErrUnknownStep
	}
	e.abortPointer()
	e.setEditing(false)
	e.drawing = true
	e.step = step
	e.hasStep = true
	e.hint(fmt.Sprintf("Draw %s rectangle", step))
	e.changed()
	return nil
}

// Drawing reports whether draw mode is waiting for or tracking a rectangle.
func (e *Editor) Drawing() bool {
	return e.drawing
}

// Editing reports whether edit mode is on.
func (e *Editor) Editing() bool {
	return e.editing
}

// SetEditing toggles edit mode. It can only be turned on during presetup; the result is the
// resulting state.
func (e *Editor) SetEditing(on bool, snap session.Snapshot) bool {
	if on && snap.Mode != session.ModePresetup {
		on = false
	}
	if on {
		e.drawing = false
	}
	e.abortPointer()
	e.setEditing(on)
	e.changed()
	return e.editing
}

// Selected returns the selected step in edit mode.
func (e *Editor) Selected() (calib.Step, bool) {
	return e.selected, e.hasSelect
}

// Active reports whether id is the pointer the editor is tracking.
func (e *Editor) Active(id int) bool {
	return e.tracked && e.pointer == id
}

// Down starts a draw or edit session at client point p. It reports whether the editor took the
// pointer. An edit press that hits no rect clears the selection and leaves the pointer unclaimed.
func (e *Editor) Down(id int, p viewport.Point, view View) bool {
	if e.tracked {
		return false
	}
	x, y := view.Mapper.PointToMedia(p)
	switch {
	case e.drawing:
		e.draw = &drawState{startX: x, startY: y, frame: view.Frame}
	case e.editing:
		step, handle, ok := HitTest(e.set, view.Frame, view.Mapper, x, y)
		if !ok {
			e.selectStep(0, false)
			e.changed()
			return false
		}
		e.selectStep(step, true)
		start, _ := e.set.Get(step)
		e.drag = &dragState{
			step:      step,
			handle:    handle,
			startRect: start,
			startX:    x,
			startY:    y,
			bounds:    e.boundsFor(step, view.Frame),
			saved:     *e.set,
		}
		e.changed()
	default:
		return false
	}
	e.pointer = id
	e.tracked = true
	return true
}

// Move updates the live preview or applies the drag transform.
func (e *Editor) Move(id int, p viewport.Point, view View) {
	if !e.Active(id) {
		return
	}
	x, y := view.Mapper.PointToMedia(p)
	switch {
	case e.draw != nil:
		e.draw.rect = calib.FromPoints(e.draw.startX, e.draw.startY, x, y)
		e.draw.live = true
		e.changed()
	case e.drag != nil:
		e.applyDrag(e.drag, x, y)
		e.changed()
	}
}

// Up commits the session at client point p.
func (e *Editor) Up(id int, p viewport.Point, view View) {
	if !e.Active(id) {
		return
	}
	x, y := view.Mapper.PointToMedia(p)
	draw, drag := e.draw, e.drag
	e.endPointer()

	switch {
	case draw != nil:
		r := calib.FromPoints(draw.startX, draw.startY, x, y)
		if r.W == 0 || r.H == 0 {
			e.logger.Debug("degenerate rectangle ignored", zap.Stringer("step", e.step))
			e.changed()
			return
		}
		ax, ay := draw.frame.Absolute(r.X, r.Y)
		e.commit(e.step, calib.Rect{X: ax, Y: ay, W: r.W, H: r.H})
		e.lastRect[e.step] = true
		e.drawing = false
		e.hint(HintSaved)
	case drag != nil:
		e.applyDrag(drag, x, y)
		stored, _ := e.set.Get(drag.step)
		if stored != drag.startRect {
			e.commitStored(drag.step, &drag.saved)
			e.lastRect[drag.step] = true
		}
	}
	e.changed()
}

// Cancel drops the active session without committing; a live drag is rolled back.
func (e *Editor) Cancel(id int) {
	if !e.Active(id) {
		return
	}
	e.abortPointer()
	e.changed()
}

// Save re-sends the current rect of the active draw step.
func (e *Editor) Save() {
	if !e.hasStep || !e.lastRect[e.step] {
		e.hint(HintDrawFirst)
		return
	}
	r, ok := e.set.Get(e.step)
	if !ok {
		e.hint(HintDrawFirst)
		return
	}
	e.send(e.step, r)
	e.hint(HintSent)
}

// NudgeSelected moves the selected rect by (dx, dy) media pixels and commits it.
func (e *Editor) NudgeSelected(dx, dy int, frame viewport.Frame) bool {
	if !e.editing || !e.hasSelect || e.tracked {
		return false
	}
	r, ok := e.set.Get(e.selected)
	if !ok {
		return false
	}
	before := *e.set
	next := Transform(r, HandleMove, dx, dy, e.boundsFor(e.selected, frame))
	e.set.SetRect(e.selected, next)
	e.commitStored(e.selected, &before)
	e.lastRect[e.selected] = true
	e.changed()
	return true
}

// LoadSnapshot replaces the set from a server snapshot, dropping any active session.
func (e *Editor) LoadSnapshot(c calib.Calib) bool {
	e.abortPointer()
	ok := e.set.LoadSnapshot(c)
	if e.hasSelect {
		if _, present := e.set.Get(e.selected); !present {
			e.selectStep(0, false)
		}
	}
	e.changed()
	return ok
}

// Outlines returns the rects to draw for frame, including the draw preview.
func (e *Editor) Outlines(frame viewport.Frame) []Outline {
	out := make([]Outline, 0, len(calib.Steps)+1)
	for _, step := range [...]calib.Step{calib.StepPlugin, calib.StepChat, calib.StepScroll} {
		r, ok := e.set.Get(step)
		if !ok {
			continue
		}
		out = append(out, Outline{
			Step:     step,
			Rect:     frame.Display(step, r),
			Selected: e.editing && e.hasSelect && e.selected == step,
		})
	}
	if e.draw != nil && e.draw.live {
		out = append(out, Outline{Step: e.step, Rect: e.draw.rect, Preview: true})
	}
	return out
}

// applyDrag stores the transform of d for media point (x, y), starting from d's snapshot.
func (e *Editor) applyDrag(d *dragState, x, y int) {
	*e.set = d.saved
	next := Transform(d.startRect, d.handle, x-d.startX, y-d.startY, d.bounds)
	e.set.SetRect(d.step, next)
}

// commit stores r for step and emits it.
func (e *Editor) commit(step calib.Step, r calib.Rect) {
	before := *e.set
	e.set.SetRect(step, r)
	e.commitStored(step, &before)
}

// commitStored emits step's stored rect plus any child whose payload changed since before.
func (e *Editor) commitStored(step calib.Step, before *calib.Set) {
	r, ok := e.set.Get(step)
	if !ok {
		return
	}
	e.send(step, r)
	e.metrics.CalibrationCommitted(step.String())
	if step != calib.StepPlugin {
		return
	}
	for _, child := range [...]calib.Step{calib.StepChat, calib.StepScroll} {
		after, ok := e.set.Payload(child)
		if !ok {
			continue
		}
		if prev, had := before.Payload(child); had && prev == after {
			continue
		}
		cr, _ := e.set.Get(child)
		e.send(child, cr)
	}
}

// send emits the payload encoding of r.
func (e *Editor) send(step calib.Step, r calib.Rect) {
	if e.sink == nil {
		return
	}
	e.sink.Send(control.CalibRect(step, e.set.ToPayload(step, r)))
}

// boundsFor returns the clamp bounds of step: plugin for children, the frame for plugin.
func (e *Editor) boundsFor(step calib.Step, frame viewport.Frame) calib.Rect {
	if step != calib.StepPlugin {
		if plugin, ok := e.set.Plugin(); ok {
			return plugin
		}
	}
	return frame.Bounds()
}

// abortPointer rolls back a live drag and forgets the tracked pointer.
func (e *Editor) abortPointer() {
	if e.drag != nil {
		*e.set = e.drag.saved
	}
	e.endPointer()
}

// endPointer forgets the tracked pointer.
func (e *Editor) endPointer() {
	e.tracked = false
	e.draw = nil
	e.drag = nil
}

// setEditing flips edit mode, clearing the selection when it turns off.
func (e *Editor) setEditing(on bool) {
	e.editing = on
	if !on {
		e.selectStep(0, false)
	}
}

// selectStep updates the selection and notifies on change.
func (e *Editor) selectStep(step calib.Step, ok bool) {
	if ok == e.hasSelect && (!ok || step == e.selected) {
		return
	}
	e.selected, e.hasSelect = step, ok
	if e.observer != nil {
		e.observer.SelectionChanged(step, ok)
	}
}

// changed asks the observer to redraw.
func (e *Editor) changed() {
	if e.observer != nil {
		e.observer.Changed()
	}
}

// hint forwards an operator hint.
func (e *Editor) hint(text string) {
	if e.observer != nil {
		e.observer.Hint(text)
	}
}
