// Coopdoor-cfg controls an ESP8266 coop-door controller over its HTTP API.
//
// It moves the door, sets the automatic opening time and the controller
// clock, and reads back open time, system time, battery and DCF77 status.
// Controllers can be registered by name, and found on the local network
// via mDNS.
//
// Usage:
//
//	coopdoor-cfg [command] [flags]
//
// See 'coopdoor-cfg --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/coopdoor/internal/logging"
	"github.com/muurk/coopdoor/internal/version"
)

const programName = "coopdoor-cfg"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   programName,
	Short: "Coop Door Controller Utility",
	Long: `A command-line utility for ESP8266 coop-door controllers.

Moves the door, sets the automatic opening time and the controller clock,
and reads back the controller's status. The controller is chosen with
--device (a registered name or an address), the default device from the
configuration file, mDNS discovery, or the soft-AP address 192.168.4.1.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Line(programName))
	},
}
