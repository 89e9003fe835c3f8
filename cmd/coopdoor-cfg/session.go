package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/coopdoor/internal/config"
	"github.com/muurk/coopdoor/internal/deviceapi"
	"github.com/muurk/coopdoor/internal/discovery"
	"github.com/muurk/coopdoor/internal/logging"
	"github.com/muurk/coopdoor/internal/ui"
)

// errReported marks a failure that has already been shown to the user.
// main exits non-zero without printing it again.
var errReported = errors.New("failure already reported")

// Output formats
const (
	formatText    = "text"
	formatCompact = "compact"
	formatJSON    = "json"
)

// Common flags (persistent on root)
var (
	deviceFlag   string
	devicePort   int
	timeoutSecs  int
	outputFormat string
	logLevel     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "Registered device name or address[:port] (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", 0, "Device HTTP port (default 80)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", config.DefaultRequestTimeout, "Request timeout in seconds, 0 = wait forever (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatText, "Output format (text, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent if unset")
}

// session is one command's view of the controller it talks to.
type session struct {
	registry *config.Registry
	target   config.Target
	client   *deviceapi.Client
	printer  *ui.Printer
}

// connect loads the registry, resolves the controller and builds a client.
func connect(cmd *cobra.Command) (*session, error) {
	switch outputFormat {
	case formatText, formatCompact, formatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, compact or json)", outputFormat)
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	target, err := config.Resolve(cmd.Context(), registry, deviceFlag, devicePort, discoverFirst(registry.DiscoverTimeout()))
	if err != nil {
		return nil, err
	}

	timeout := registry.RequestTimeout()
	if cmd.Flags().Changed("timeout") {
		timeout = time.Duration(timeoutSecs) * time.Second
	}

	client := deviceapi.NewClientWithURL(target.BaseURL())
	client.SetTimeout(timeout)

	logging.Debug("Resolved controller",
		zap.String("target", target.String()),
		zap.Duration("timeout", timeout),
	)

	return &session{
		registry: registry,
		target:   target,
		client:   client,
		printer:  ui.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

// discoverFirst adapts mDNS discovery to config.Resolve.
func discoverFirst(timeout time.Duration) config.DiscoverFunc {
	return func(ctx context.Context) (string, int, error) {
		device, err := discovery.FindFirst(ctx, timeout)
		if err != nil {
			return "", 0, err
		}
		return device.IP, device.Port, nil
	}
}

// seen records a completed exchange with a registered device.
func (s *session) seen() {
	if s.target.Name == "" {
		return
	}
	s.registry.UpdateDeviceLastSeen(s.target.Name)
	s.save()
}

func (s *session) save() {
	if err := s.registry.Save(); err != nil {
		logging.Warn("Failed to save configuration", zap.Error(err))
	}
}

// resultJSON is the --format json form of a Result.
type resultJSON struct {
	Device string `json:"device"`
	Target string `json:"target"`
	Status int    `json:"status,omitempty"`
	Body   string `json:"body,omitempty"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func (s *session) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	s.printer.Println(string(data))
	return nil
}

// report shows r through present and turns it into the command's exit status.
// With requireOK any answer other than "ok" fails the command; otherwise only
// a transport failure does.
func (s *session) report(r deviceapi.Result, present deviceapi.Presenter, requireOK bool) error {
	if r.Completed() {
		s.seen()
	}

	if outputFormat == formatJSON {
		out := resultJSON{
			Device: s.target.BaseURL(),
			Target: r.Target,
			Status: r.StatusCode,
			Body:   r.Body,
			OK:     r.OK,
		}
		if r.Err != nil {
			out.Error = deviceapi.GetShortErrorMessage(r.Err)
		}
		if err := s.printJSON(out); err != nil {
			return err
		}
	} else {
		s.printer.Notify(present(r))
		if r.Err != nil && outputFormat == formatText {
			s.printer.Println(deviceapi.GetTroubleshootingHint(r.Err))
		}
	}

	if r.Err != nil || (requireOK && !r.OK) {
		return errReported
	}
	return nil
}

// header prints a command banner in styled text mode.
func (s *session) header(title, command string, params ...[2]string) {
	if outputFormat != formatText || !s.printer.Styled() {
		return
	}
	params = append([][2]string{{"Device", s.target.String()}}, params...)
	s.printer.Println(ui.NewHeader(title, command, params...).Render())
}

// wait runs an asynchronous request and blocks until its completion fires.
func wait(start func(onComplete deviceapi.Completion)) deviceapi.Result {
	done := make(chan deviceapi.Result, 1)
	start(func(r deviceapi.Result) {
		done <- r
	})
	return <-done
}
