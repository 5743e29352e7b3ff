package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/app"
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/control"
	"github.com/frudas24/deskpad/internal/mjpeg"
	"github.com/frudas24/deskpad/internal/panzoom"
	"github.com/frudas24/deskpad/internal/prefs"
	"github.com/frudas24/deskpad/internal/replay"
	"github.com/frudas24/deskpad/internal/viewport"
)

const drainTimeout = 5 * time.Second

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a pointer script against the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hold, _ := cmd.Flags().GetDuration("hold")
		return runReplay(args[0], hold)
	},
}

// init registers the replay flags.
func init() {
	replayCmd.Flags().Duration("hold", 0, "Keep the session open this long after the script ends")
}

// runReplay logs in, connects the control channel and drives the overlay from a script.
func runReplay(path string, hold time.Duration) error {
	script, err := replay.Load(path)
	if err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	ctx, stop := signalContext()
	defer stop()

	if err := e.login(ctx); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	st, err := e.api.State(ctx)
	if err != nil {
		return err
	}
	monitors, err := e.api.Monitors(ctx)
	if err != nil {
		return err
	}
	if !st.HasCalib {
		cached, err := calib.Load(e.cfg.CalibPath)
		if err != nil {
			e.logger.Warn("cached calibration unreadable", zap.String("path", e.cfg.CalibPath), zap.Error(err))
		} else if !calib.Normalize(cached.PluginAbs).Empty() {
			st.Calib = cached
			st.HasCalib = true
			e.logger.Info("using cached calibration", zap.String("path", e.cfg.CalibPath))
		}
	}

	store, err := prefs.Open(e.cfg.PrefsDriver, e.cfg.PrefsPath)
	if err != nil {
		return err
	}
	if c, ok := store.(interface{ Close() error }); ok {
		defer func() { _ = c.Close() }()
	}

	client := control.NewClient(control.ClientOptions{
		Header:  e.api.Cookies(),
		Logger:  e.logger,
		Metrics: e.metrics,
	})
	if err := client.Connect(ctx, e.api.ControlURL()); err != nil {
		return fmt.Errorf("failed to connect control channel: %w", err)
	}
	defer func() { _ = client.Close() }()

	var overlay *app.App
	probe := mjpeg.NewProbe(mjpeg.Options{
		Client: e.api.HTTPClient(),
		Logger: e.logger,
		OnChange: func(size viewport.Size) {
			if overlay != nil {
				overlay.MediaChanged()
			}
		},
	})
	overlay, err = app.New(app.Options{
		Sink:          client,
		Renderer:      logRenderer{logger: e.logger.Named("overlay")},
		Still:         probe,
		Prefs:         store,
		Host:          e.api.Host(),
		FullscreenFit: e.cfg.FullscreenFit,
		TickInterval:  time.Duration(e.cfg.ScrollTickMs) * time.Millisecond,
		MaxDelta:      e.cfg.ScrollMaxDelta,
		Logger:        e.logger,
		Metrics:       e.metrics,
	})
	if err != nil {
		return err
	}
	overlay.ApplyState(st, monitors)

	probeCtx, cancelProbe := context.WithCancel(ctx)
	defer cancelProbe()
	go func() {
		if err := probe.Run(probeCtx, e.api.PreviewURL()); err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("preview stream ended", zap.Error(err))
		}
	}()

	e.serveDiagnostics(ctx, func(r chi.Router) { overlay.Routes(r) })

	if err := replay.Run(ctx, overlay, script, e.logger); err != nil {
		return err
	}
	if hold > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(hold):
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := client.Drain(drainCtx); err != nil {
		e.logger.Warn("control queue not drained", zap.Error(err))
	}
	status := overlay.Status()
	e.logger.Info("replay finished",
		zap.String("mode", status.Session.Mode),
		zap.Int("media_w", status.Media.W),
		zap.Int("media_h", status.Media.H),
		zap.Uint64("frames", probe.Frames()),
	)
	return nil
}

// logRenderer reports overlay feedback to the log instead of a canvas.
type logRenderer struct {
	logger *zap.Logger
}

// DrawCalibration logs each outline at debug.
func (r logRenderer) DrawCalibration(outlines []app.Outline) {
	for _, o := range outlines {
		r.logger.Debug("outline",
			zap.Stringer("step", o.Step),
			zap.Float64("x", o.Box.X),
			zap.Float64("y", o.Box.Y),
			zap.Float64("w", o.Box.W),
			zap.Float64("h", o.Box.H),
			zap.Bool("selected", o.Selected),
			zap.Bool("preview", o.Preview),
		)
	}
}

// DrawJoystick logs the stick deflection.
func (r logRenderer) DrawJoystick(v control.JoystickView) {
	r.logger.Debug("joystick", zap.Float64("dx", v.Live.X-v.Origin.X), zap.Float64("dy", v.Live.Y-v.Origin.Y))
}

// ClearJoystick does nothing; the log has no stick to remove.
func (r logRenderer) ClearJoystick() {}

// SelectionChanged logs the edit selection.
func (r logRenderer) SelectionChanged(step calib.Step, ok bool) {
	r.logger.Info("selection", zap.Stringer("step", step), zap.Bool("selected", ok))
}

// Hint logs an operator hint.
func (r logRenderer) Hint(text string) { r.logger.Info("hint", zap.String("text", text)) }

// ViewChanged logs the local view transform.
func (r logRenderer) ViewChanged(st panzoom.State) {
	r.logger.Debug("view", zap.Float64("scale", st.Scale), zap.Float64("offset_x", st.OffsetX), zap.Float64("offset_y", st.OffsetY))
}

// Tap logs a local tap.
func (r logRenderer) Tap() { r.logger.Debug("tap") }
