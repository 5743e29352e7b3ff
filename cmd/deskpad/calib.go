package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/config"
	"github.com/frudas24/deskpad/internal/monitor"
)

var calibCmd = &cobra.Command{
	Use:   "calib",
	Short: "Fetch the server calibration and cache it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		noSave, _ := cmd.Flags().GetBool("no-save")
		cached, _ := cmd.Flags().GetBool("cached")
		if cached {
			return runCachedCalib()
		}
		return runCalib(!noSave)
	},
}

// init registers the calib flags.
func init() {
	calibCmd.Flags().Bool("no-save", false, "Print the calibration without writing CALIB_PATH")
	calibCmd.Flags().Bool("cached", false, "Print the calibration cached in CALIB_PATH without contacting the server")
}

// runCalib prints the server's calibration in absolute and wire form.
func runCalib(save bool) error {
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
	if m, ok := monitor.Select(monitors, st.Monitor); ok {
		fmt.Printf("%s, mode %s\n", m.Label(), st.Mode)
	}
	if !st.HasCalib {
		return fmt.Errorf("server has no calibration for monitor %d", st.Monitor)
	}
	set := &calib.Set{}
	set.LoadSnapshot(st.Calib)
	if err := printCalib(os.Stdout, set, st.Calib.MonitorIndex); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := calib.Save(e.cfg.CalibPath, set.Snapshot(st.Calib.MonitorIndex)); err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	e.logger.Info("calibration cached", zap.String("path", e.cfg.CalibPath))
	return nil
}

// runCachedCalib prints the local calibration file.
func runCachedCalib() error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	set, idx, err := calib.LoadSet(cfg.CalibPath)
	if err != nil {
		return err
	}
	if _, ok := set.Plugin(); !ok {
		return fmt.Errorf("no calibration cached in %s", cfg.CalibPath)
	}
	return printCalib(os.Stdout, set, idx)
}

// printCalib writes one row per step with its absolute and payload rects.
func printCalib(out io.Writer, set *calib.Set, monitorIndex int) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "monitor\t%d\n", monitorIndex)
	fmt.Fprintln(w, "step\tabsolute\tpayload")
	for _, step := range [...]calib.Step{calib.StepPlugin, calib.StepChat, calib.StepScroll} {
		abs, ok := set.Get(step)
		if !ok {
			fmt.Fprintf(w, "%s\t-\t-\n", step)
			continue
		}
		payload, _ := set.Payload(step)
		fmt.Fprintf(w, "%s\t%s\t%s\n", step, formatRect(abs), formatRect(payload))
	}
	return w.Flush()
}

// formatRect renders r as "x,y wxh".
func formatRect(r calib.Rect) string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.W, r.H)
}
