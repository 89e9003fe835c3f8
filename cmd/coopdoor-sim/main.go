// Coopdoor-sim serves a simulated coop-door controller over HTTP.
//
// It answers the controller's URL table (slider_up, opentime_set,
// systime_get, ...) from in-memory state, so coopdoor-cfg and scripts can
// be exercised without hardware. Request counters are exported on /metrics.
//
// Usage:
//
//	coopdoor-sim serve [flags]
//
// See 'coopdoor-sim serve --help' for available options.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/coopdoor/internal/discovery"
	"github.com/muurk/coopdoor/internal/logging"
	"github.com/muurk/coopdoor/internal/simulator"
	"github.com/muurk/coopdoor/internal/version"
)

const programName = "coopdoor-sim"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   programName,
	Short: "Coop Door Controller Simulator",
	Long: `A simulated ESP8266 coop-door controller.

Serves the same endpoints and answers as the controller firmware, keeping
open time, clock, door position and battery voltage in memory.

Note: For talking to a controller, use the separate 'coopdoor-cfg' utility.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host         string
	port         int
	logLevel     string
	unresponsive bool
	battery      int
	openHours    int
	openMinutes  int
	noMetrics    bool
	announce     bool
	chipID       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated controller",
	Long: `Start the simulated controller's web server.

With --unresponsive every command is answered with the message the WiFi
module sends when the door controller does not react. With --announce the
simulator registers itself via mDNS as ESP_<chip-id>.local so that
'coopdoor-cfg scan' finds it.`,
	Example: `  # Serve on port 8080
  coopdoor-sim serve --port 8080

  # Start with an opening time of 6:45 and a low battery
  coopdoor-sim serve --open-hours 6 --open-minutes 45 --battery 117

  # Simulate a controller whose door board does not answer
  coopdoor-sim serve --unresponsive --log-level debug

  # Make the simulator discoverable
  coopdoor-sim serve --announce --chip-id 0A1B2C`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&unresponsive, "unresponsive", false, "Answer every command with the no-answer message")
	serveCmd.Flags().IntVar(&battery, "battery", 0, "Battery voltage in 100mV units (default full)")
	serveCmd.Flags().IntVar(&openHours, "open-hours", 25, "Initial open hour (25 = never open automatically)")
	serveCmd.Flags().IntVar(&openMinutes, "open-minutes", 0, "Initial open minute")
	serveCmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Do not serve Prometheus metrics on /metrics")
	serveCmd.Flags().BoolVar(&announce, "announce", false, "Announce the simulator via mDNS")
	serveCmd.Flags().StringVar(&chipID, "chip-id", "C00D04", "ESP8266 chip id used in the mDNS hostname")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &simulator.Config{
		Host:             host,
		Port:             port,
		LogLevel:         logLevel,
		Unresponsive:     unresponsive,
		BatteryDeciVolts: battery,
		OpenHours:        openHours,
		OpenMinutes:      openMinutes,
		DisableMetrics:   noMetrics,
	}

	srv, err := simulator.New(config)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	if announce {
		ips, err := announceAddresses(host)
		if err != nil {
			return err
		}
		ann, err := discovery.Announce(chipID, port, ips)
		if err != nil {
			return err
		}
		defer ann.Shutdown()
	}

	if err := srv.Start(); err != nil {
		logging.Error("Simulator failed", zap.Error(err))
		return err
	}
	logging.Sync()
	return nil
}

// announceAddresses returns the addresses to publish via mDNS: the listen
// host if one was given, otherwise every non-loopback IPv4 address.
func announceAddresses(listenHost string) ([]string, error) {
	if listenHost != "" {
		return []string{listenHost}, nil
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("failed to list interface addresses: %w", err)
	}

	var ips []string
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.To4() == nil {
			continue
		}
		ips = append(ips, ipNet.IP.String())
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no non-loopback IPv4 address to announce; use --host")
	}
	return ips, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Line(programName))
	},
}
