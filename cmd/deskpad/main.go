// Package main is the deskpad command: it drives the DeskSlice overlay against a live server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frudas24/deskpad/internal/config"
)

var (
	version = "0.1.0"
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "deskpad",
	Short:         "DeskSlice overlay input client",
	Long:          `deskpad maps scripted pointer sessions onto a DeskSlice server's control channel and manages its calibration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("deskpad v%s\n", version)
	},
}

// init registers flags and subcommands.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable verbose debug logging")
	flags.String("server", "", "DeskSlice server URL (default $SERVER_URL)")
	flags.String("metrics-addr", "", "Serve /metrics and overlay diagnostics on this address")
	flags.String("data-dir", "", "Directory holding .env, calibration and preferences")
	_ = v.BindPFlag(config.KeyDebug, flags.Lookup("debug"))
	_ = v.BindPFlag(config.KeyServerURL, flags.Lookup("server"))
	_ = v.BindPFlag(config.KeyMetricsAddr, flags.Lookup("metrics-addr"))
	_ = v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(calibCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(versionCmd)
}

// main runs the deskpad CLI.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
