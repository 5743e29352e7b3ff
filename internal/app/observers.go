package app

import (
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/control"
	"github.com/frudas24/deskpad/internal/editor"
	"github.com/frudas24/deskpad/internal/panzoom"
)

// Adapters from the controllers' observer interfaces to the Renderer. They run with App.mu held.
var (
	_ editor.Observer          = editorView{}
	_ control.JoystickObserver = joystickView{}
	_ panzoom.Observer         = zoomView{}
)

// editorView forwards editor notifications.
type editorView struct{ a *App }

// Changed redraws the outlines.
func (v editorView) Changed() { v.a.redraw() }

// SelectionChanged forwards the selection to the renderer.
func (v editorView) SelectionChanged(step calib.Step, ok bool) {
	v.a.renderer.SelectionChanged(step, ok)
}

// Hint forwards an operator hint.
func (v editorView) Hint(text string) { v.a.renderer.Hint(text) }

// joystickView forwards joystick visualization.
type joystickView struct{ a *App }

// JoystickChanged draws the stick.
func (v joystickView) JoystickChanged(view control.JoystickView) { v.a.renderer.DrawJoystick(view) }

// JoystickCleared removes the stick.
func (v joystickView) JoystickCleared() { v.a.renderer.ClearJoystick() }

// zoomView forwards pan-zoom changes.
type zoomView struct{ a *App }

// ViewChanged forwards the view transform.
func (v zoomView) ViewChanged(st panzoom.State) { v.a.renderer.ViewChanged(st) }

// Tap forwards a single local tap.
func (v zoomView) Tap() { v.a.renderer.Tap() }

// nopRenderer discards all drawing.
type nopRenderer struct{}

// DrawCalibration does nothing.
func (nopRenderer) DrawCalibration([]Outline) {}

// DrawJoystick does nothing.
func (nopRenderer) DrawJoystick(control.JoystickView) {}

// ClearJoystick does nothing.
func (nopRenderer) ClearJoystick() {}

// SelectionChanged does nothing.
func (nopRenderer) SelectionChanged(calib.Step, bool) {}

// Hint does nothing.
func (nopRenderer) Hint(string) {}

// ViewChanged does nothing.
func (nopRenderer) ViewChanged(panzoom.State) {}

// Tap does nothing.
func (nopRenderer) Tap() {}

// nopSurface ignores pointer capture.
type nopSurface struct{}

// CapturePointer does nothing.
func (nopSurface) CapturePointer(int) {}

// ReleasePointer does nothing.
func (nopSurface) ReleasePointer(int) {}
