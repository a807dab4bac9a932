package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reqtrace/reqtrace/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored GitHub token",
}

var authSetCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store a GitHub token in the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, "GitHub token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if err := config.SaveKeychainToken(string(raw)); err != nil {
			return err
		}
		logger.Info("Token stored in OS keychain")
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear-token",
	Short: "Remove the GitHub token from the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteKeychainToken(); err != nil {
			return err
		}
		logger.Info("Token removed from OS keychain")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
}
