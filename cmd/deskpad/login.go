package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frudas24/deskpad/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check the UI password and optionally keep it in the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")
		forget, _ := cmd.Flags().GetBool("forget")
		if save && forget {
			return errors.New("--save and --forget are mutually exclusive")
		}
		return runLogin(save, forget)
	},
}

// init registers the login flags.
func init() {
	loginCmd.Flags().Bool("save", false, "Store the password in the OS keyring after a successful login")
	loginCmd.Flags().Bool("forget", false, "Remove the stored password for this server")
}

// runLogin verifies a password against the server. The password comes from UI_PASSWORD or stdin.
func runLogin(save, forget bool) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()
	host := e.api.Host()

	if forget {
		if err := api.ForgetPassword(host); err != nil {
			return err
		}
		fmt.Printf("forgot password for %s\n", host)
		return nil
	}

	if e.cfg.UIPassword == "" {
		fmt.Fprintf(os.Stderr, "password for %s: ", host)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		e.cfg.UIPassword = strings.TrimRight(line, "\r\n")
	}

	ctx, stop := signalContext()
	defer stop()
	if err := e.api.Login(ctx, e.cfg.UIPassword); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	fmt.Printf("logged in to %s\n", host)
	if save {
		if err := api.SavePassword(host, e.cfg.UIPassword); err != nil {
			return fmt.Errorf("failed to save password: %w", err)
		}
		fmt.Println("password saved to keyring")
	}
	return nil
}
