package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/coopdoor/internal/config"
	"github.com/muurk/coopdoor/internal/discovery"
	"github.com/muurk/coopdoor/internal/ui"
)

// Scan flags
var (
	scanWait int
	scanSave bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)
	devicesCmd.AddCommand(devicesDefaultCmd)

	scanCmd.Flags().IntVar(&scanWait, "wait", config.DefaultDiscoverTimeout, "Scan duration in seconds")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Register every controller found under its ESP_<chip id> name")
}

// scanCmd discovers controllers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for coop-door controllers on the network",
	Long: `Scan for coop-door controllers using mDNS/DNS-SD discovery.

Controllers announce themselves as "_http._tcp" services under the ESP8266
default hostname ESP_XXXXXX.local.`,
	Example: `  # Scan for 5 seconds (default)
  coopdoor-cfg scan

  # Longer scan, and remember what was found
  coopdoor-cfg scan --wait 15 --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.Printf("Scanning for coop-door controllers (timeout: %ds)...\n\n", scanWait)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanWait) * time.Second
	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		printer.Println("No controllers found.")
		printer.Println("\nTroubleshooting:")
		printer.Println("  - Ensure the controller is powered on and joined to your WiFi")
		printer.Println("  - Without a WiFi network the controller runs an access point at 192.168.4.1")
		printer.Println("  - Try increasing --wait for slower networks")
		printer.Println("  - Use --device to specify the address manually if discovery fails")
		return nil
	}

	printer.Printf("Found %d controller(s):\n\n", len(devices))
	for i, device := range devices {
		printer.Printf("%d. %s\n", i+1, device.Name())
		printer.Printf("   Host:    %s\n", device.Hostname)
		printer.Printf("   Address: %s:%d\n", device.IP, device.Port)
		if len(device.Metadata) > 0 {
			printer.Printf("   Metadata: %v\n", device.Metadata)
		}
		printer.Println("")
	}

	if !scanSave {
		printer.Println("Use 'coopdoor-cfg devices add <name> <address>' to register a controller")
		return nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, device := range devices {
		if err := registerDiscovered(registry, device); err != nil {
			return err
		}
		printer.Printf("%s Registered %s\n", ui.SuccessMarker, device.Name())
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// registerDiscovered stores a discovered controller under its ESP_<chip id> name.
func registerDiscovered(registry *config.Registry, device *discovery.Device) error {
	name := device.Name()
	if err := registry.AddDevice(name, device.IP, device.Port); err != nil {
		return fmt.Errorf("failed to register %s: %w", name, err)
	}
	registry.GetDevice(name).ChipID = device.ChipID
	registry.UpdateDeviceLastSeen(name)
	return nil
}

// devicesCmd manages the device registry
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage registered controllers",
	Long: `Manage the named controllers stored in the configuration file.

A registered name can be passed to --device. The default device is used
when --device is not given.`,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered controllers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		printer := ui.NewPrinter(cmd.OutOrStdout())
		names := registry.DeviceNames()
		if len(names) == 0 {
			printer.Println("No controllers registered. Use 'coopdoor-cfg scan --save' or 'coopdoor-cfg devices add'.")
			return nil
		}

		defaultName, _ := registry.DefaultDevice()
		for _, name := range names {
			printer.Println(formatDevice(name, registry.GetDevice(name), name == defaultName))
		}
		return nil
	},
}

// formatDevice renders one registry entry for devices list.
func formatDevice(name string, device *config.Device, isDefault bool) string {
	var b strings.Builder

	marker := " "
	if isDefault {
		marker = "*"
	}
	fmt.Fprintf(&b, "%s %s\t%s", marker, name, strings.TrimPrefix(device.BaseURL(), "http://"))

	if !device.LastSeen.IsZero() {
		fmt.Fprintf(&b, "\tlast seen %s", device.LastSeen.Format("2006-01-02 15:04"))
	}
	if device.LastOpenTime != nil {
		fmt.Fprintf(&b, "\topen time %s:%s", device.LastOpenTime.Hours, device.LastOpenTime.Minutes)
	}
	return b.String()
}

var devicesAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Register a controller",
	Example: `  coopdoor-cfg devices add stall 192.168.178.40
  coopdoor-cfg devices add garden 10.0.0.7 --port 8080`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRegistry(cmd, func(registry *config.Registry) (string, error) {
			if err := registry.AddDevice(args[0], args[1], devicePort); err != nil {
				return "", err
			}
			if _, d := registry.DefaultDevice(); d == nil {
				_ = registry.SetDefault(args[0])
				return fmt.Sprintf("Registered %s as default device", args[0]), nil
			}
			return fmt.Sprintf("Registered %s", args[0]), nil
		})
	},
}

var devicesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a registered controller",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRegistry(cmd, func(registry *config.Registry) (string, error) {
			if err := registry.RemoveDevice(args[0]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Removed %s", args[0]), nil
		})
	},
}

var devicesDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default controller",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRegistry(cmd, func(registry *config.Registry) (string, error) {
			if err := registry.SetDefault(args[0]); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s is now the default device", args[0]), nil
		})
	},
}

// editRegistry loads the registry, applies edit and saves it.
func editRegistry(cmd *cobra.Command, edit func(*config.Registry) (string, error)) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	message, err := edit(registry)
	if err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	ui.NewPrinter(cmd.OutOrStdout()).Printf("%s %s\n", ui.SuccessMarker, message)
	return nil
}
