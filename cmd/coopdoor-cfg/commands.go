package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/coopdoor/internal/deviceapi"
)

func init() {
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(batteryCmd)
	rootCmd.AddCommand(dcfCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(systimeCmd)

	systimeCmd.AddCommand(systimeGetCmd)
	systimeCmd.AddCommand(systimeSetCmd)

	actionCmd.Flags().BoolVar(&expectOK, "expect-ok", false, "Treat any answer other than \"ok\" as a failure")
}

var expectOK bool

// actionCmd sends an arbitrary GET target
var actionCmd = &cobra.Command{
	Use:   "action <target>",
	Short: "Send a raw GET request to the controller",
	Long: `Send an HTTP GET for an arbitrary target and print the answer.

The target is appended to the controller's base URL exactly as given,
without URL encoding.`,
	Example: `  # Read the open time
  coopdoor-cfg action opentime_get

  # Close the door and fail unless the controller answers "ok"
  coopdoor-cfg action slider_down --expect-ok`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		s.header("Action", "GET /"+args[0])

		r := wait(func(done deviceapi.Completion) {
			s.client.TriggerAction(cmd.Context(), args[0], done)
		})
		if expectOK {
			return s.report(r, deviceapi.OKMessage, true)
		}
		return s.report(r, deviceapi.Message, false)
	},
}

// sliderCommand builds the up/down commands.
func sliderCommand(use, short, endpoint string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd)
			if err != nil {
				return err
			}
			s.header(short, "GET /"+endpoint)
			return s.report(s.client.Action(cmd.Context(), endpoint), deviceapi.OKMessage, true)
		},
	}
}

var (
	upCmd   = sliderCommand("up", "Open the door", deviceapi.EndpointSliderUp)
	downCmd = sliderCommand("down", "Close the door", deviceapi.EndpointSliderDown)
)

// readCommand builds a command that prints the answer of a read-only endpoint.
func readCommand(use, short, long string, read func(*deviceapi.Client, *cobra.Command) deviceapi.Result) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd)
			if err != nil {
				return err
			}
			return s.report(read(s.client, cmd), deviceapi.Message, false)
		},
	}
}

var batteryCmd = readCommand("battery", "Show the battery voltage",
	`Show the controller's battery voltage and charge estimate (battery_get).`,
	func(c *deviceapi.Client, cmd *cobra.Command) deviceapi.Result {
		return c.Battery(cmd.Context())
	})

var dcfCmd = readCommand("dcf", "Show DCF77 receiver diagnostics",
	`Show the DCF77 time signal receiver's diagnostics (dcf_info).`,
	func(c *deviceapi.Client, cmd *cobra.Command) deviceapi.Result {
		return c.DCFInfo(cmd.Context())
	})

// systimeCmd groups the clock commands
var systimeCmd = &cobra.Command{
	Use:   "systime",
	Short: "Read or set the controller clock",
}

var systimeGetCmd = readCommand("get", "Show the controller clock",
	`Show the controller's date and time (systime_get).`,
	func(c *deviceapi.Client, cmd *cobra.Command) deviceapi.Result {
		return c.SystemTime(cmd.Context())
	})

var systimeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the controller clock to this computer's time",
	Long: `Send this computer's local time to the controller (systime_set).

The month is sent zero-based, the year modulo 1000 and the weekday with
Sunday as 7.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		s.header("Set System Time", "GET /"+deviceapi.EndpointSysTimeSet,
			[2]string{"Local Time", s.client.SystemTimestamp().String()})

		r := wait(func(done deviceapi.Completion) {
			s.client.SetSystemTime(cmd.Context(), done)
		})
		return s.report(r, deviceapi.OKMessage, true)
	},
}

// statusCmd queries open time, clock and battery at once
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show open time, clock and battery",
	Long: `Query open time, system time and battery concurrently and print a
summary. Use --format compact for a single line or --format json for
scripting.`,
	Example: `  coopdoor-cfg status
  coopdoor-cfg status --device stall --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}

		status := s.client.Status(cmd.Context())
		if status.OpenTime.Completed() || status.SystemTime.Completed() || status.Battery.Completed() {
			s.seen()
		}

		switch outputFormat {
		case formatJSON:
			if err := s.printJSON(status.Report()); err != nil {
				return err
			}
		case formatCompact:
			s.printer.Println(status.FormatCompact())
		default:
			s.printer.Println(fmt.Sprintf("Device: %s\n", s.target))
			s.printer.Println(status.FormatDetailed())
		}

		if !status.Healthy() {
			return errReported
		}
		return nil
	},
}
