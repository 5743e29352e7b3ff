package replay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/viewport"
)

// Target is the overlay surface a script drives. *app.App implements it.
type Target interface {
	SetLayout(container viewport.Box, dpr float64)
	SetReportedMediaSize(size viewport.Size)
	SetMode(mode string)
	SetInputEnabled(on bool)
	SetMouseMode(on bool)
	SetScrollMode(on bool)
	SetPointerEnabled(on bool)
	SetFullscreen(on bool)
	PointerDown(id int, p viewport.Point)
	PointerMove(id int, p viewport.Point)
	PointerUp(id int, p viewport.Point)
	PointerCancel(id int)
	StartStep(step calib.Step) error
	SetEditing(on bool) bool
	Save()
	Nudge(dx, dy int) bool
	TypeText(text string) bool
	Enter() bool
	AdjustScale(axis string, delta float64)
	SetVideoMode(mode string)
	SetMonitor(idx int)
	RestartPresetup()
	ClearChat() bool
}

// Run applies the script setup to target and dispatches every event, waiting each event's After
// delay first. It stops early when ctx is done.
func Run(ctx context.Context, target Target, s Script, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	if err := s.Validate(); err != nil {
		return err
	}
	target.SetLayout(s.Container.viewport(), s.DPR)
	if s.Media.W > 0 && s.Media.H > 0 {
		target.SetReportedMediaSize(viewport.Size{W: s.Media.W, H: s.Media.H})
	}
	applyMode(target, s.Mode)

	for i, ev := range s.Events {
		if err := sleep(ctx, ev.After); err != nil {
			return err
		}
		logger.Debug("replay event", zap.Int("index", i), zap.String("type", ev.Type), zap.Int("id", ev.ID))
		if err := dispatch(target, ev, s.DPR); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	return nil
}

// dispatch applies one event.
func dispatch(target Target, ev Event, dpr float64) error {
	switch ev.Type {
	case EventDown:
		target.PointerDown(ev.ID, ev.point())
	case EventMove:
		target.PointerMove(ev.ID, ev.point())
	case EventUp:
		target.PointerUp(ev.ID, ev.point())
	case EventCancel:
		target.PointerCancel(ev.ID)
	case EventDraw:
		step, err := calib.ParseStep(ev.Step)
		if err != nil {
			return err
		}
		return target.StartStep(step)
	case EventEdit:
		target.SetEditing(ev.On)
	case EventSave:
		target.Save()
	case EventNudge:
		target.Nudge(ev.DX, ev.DY)
	case EventMode:
		applyMode(target, *ev.Mode)
	case EventType:
		target.TypeText(ev.Text)
	case EventEnter:
		target.Enter()
	case EventScale:
		target.AdjustScale(ev.Axis, ev.Delta)
	case EventLayout:
		target.SetLayout(ev.Box.viewport(), dpr)
	case EventVideo:
		target.SetVideoMode(ev.Video)
	case EventMonitor:
		target.SetMonitor(ev.Monitor)
	case EventRestart:
		target.RestartPresetup()
	case EventClearChat:
		target.ClearChat()
	}
	return nil
}

// applyMode sets the flags present in m.
func applyMode(target Target, m Mode) {
	if m.Phase != "" {
		target.SetMode(m.Phase)
	}
	if m.Input != nil {
		target.SetInputEnabled(*m.Input)
	}
	if m.Mouse != nil {
		target.SetMouseMode(*m.Mouse)
	}
	if m.Scroll != nil {
		target.SetScrollMode(*m.Scroll)
	}
	if m.Pointer != nil {
		target.SetPointerEnabled(*m.Pointer)
	}
	if m.Fullscreen != nil {
		target.SetFullscreen(*m.Fullscreen)
	}
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
