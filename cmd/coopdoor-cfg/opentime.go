package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/coopdoor/internal/deviceapi"
	"github.com/muurk/coopdoor/internal/logging"
	"github.com/muurk/coopdoor/internal/ui"
)

var noVerify bool

func init() {
	rootCmd.AddCommand(opentimeCmd)

	opentimeCmd.AddCommand(opentimeGetCmd)
	opentimeCmd.AddCommand(opentimeSetCmd)
	opentimeCmd.AddCommand(opentimeEditCmd)

	opentimeCmd.PersistentFlags().BoolVar(&noVerify, "no-verify", false, "Skip reading the open time back after setting it")
}

// opentimeCmd groups the automatic opening time commands
var opentimeCmd = &cobra.Command{
	Use:   "opentime",
	Short: "Read or change the automatic opening time",
}

var opentimeGetCmd = readCommand("get", "Show the automatic opening time",
	`Show the time at which the controller opens the door (opentime_get).`,
	func(c *deviceapi.Client, cmd *cobra.Command) deviceapi.Result {
		return c.OpenTime(cmd.Context())
	})

var opentimeSetCmd = &cobra.Command{
	Use:   "set <hours> <minutes>",
	Short: "Set the automatic opening time",
	Long: `Set the time at which the controller opens the door (opentime_set).

Hours and minutes must be numbers; they are sent exactly as typed. Hour 25
disables automatic opening. After the controller acknowledges, the open
time is read back once to confirm it (disable with --no-verify).`,
	Example: `  coopdoor-cfg opentime set 07 30
  coopdoor-cfg opentime set 25 0   # never open automatically`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		return s.updateOpenTime(cmd, deviceapi.FormValues{
			deviceapi.FieldOpenTimeHours:   args[0],
			deviceapi.FieldOpenTimeMinutes: args[1],
		})
	},
}

var opentimeEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the automatic opening time interactively",
	Long: `Open a form prefilled with the controller's current opening time and
send the entered values when saved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal() {
			return fmt.Errorf("opentime edit needs a terminal; use 'opentime set <hours> <minutes>'")
		}

		s, err := connect(cmd)
		if err != nil {
			return err
		}

		form, err := ui.RunOpenTimeForm(s.currentOpenTime(cmd))
		if err != nil {
			return err
		}
		if form.Canceled || !form.Submitted {
			s.printer.Println("Canceled, nothing sent.")
			return nil
		}
		return s.updateOpenTime(cmd, form)
	},
}

// currentOpenTime prefills the form from the controller, falling back to the
// last value recorded for a registered device.
func (s *session) currentOpenTime(cmd *cobra.Command) deviceapi.OpenTime {
	r := s.client.OpenTime(cmd.Context())
	if r.Err == nil {
		if setting, err := deviceapi.ParseOpenTimeAnswer(r.Body); err == nil {
			return deviceapi.OpenTime{
				Hours:   strconv.Itoa(setting.Hours),
				Minutes: fmt.Sprintf("%02d", setting.Minutes),
			}
		}
	}

	if device := s.registry.GetDevice(s.target.Name); device != nil && device.LastOpenTime != nil {
		return deviceapi.OpenTime{Hours: device.LastOpenTime.Hours, Minutes: device.LastOpenTime.Minutes}
	}
	return deviceapi.OpenTime{}
}

// updateOpenTime sends the form's open time, then verifies and records it.
func (s *session) updateOpenTime(cmd *cobra.Command, form deviceapi.FormReader) error {
	done := make(chan deviceapi.Result, 1)
	err := s.client.RequestOpenTimeUpdate(cmd.Context(), form, func(r deviceapi.Result) {
		done <- r
	})
	if err != nil {
		if outputFormat == formatJSON {
			_ = s.printJSON(resultJSON{Device: s.target.BaseURL(), Target: deviceapi.EndpointOpenTimeSet, Error: deviceapi.MessageInvalidTime})
		} else {
			s.printer.Notify(deviceapi.ValidationNotice())
		}
		logging.Debug("Open time rejected before sending", zap.Error(err))
		return errReported
	}

	r := <-done
	if err := s.report(r, deviceapi.OpenTimeMessage, true); err != nil {
		return err
	}

	ot, _ := deviceapi.ReadOpenTime(form)
	if s.target.Name != "" {
		s.registry.RecordOpenTime(s.target.Name, ot)
		s.save()
	}

	if noVerify {
		return nil
	}

	setting, err := s.client.VerifyOpenTime(cmd.Context(), ot)
	if err != nil {
		s.printer.Failure("Verification failed", err)
		return errReported
	}
	if outputFormat == formatText {
		s.printer.Println(fmt.Sprintf("%s Controller reports open time %s", ui.SuccessMarker, setting))
	}
	return nil
}
