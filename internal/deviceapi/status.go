package deviceapi

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Status collects the controller's answers to the three read-only queries.
type Status struct {
	OpenTime   Result
	SystemTime Result
	Battery    Result
}

// Status queries open time, system time and battery concurrently and waits
// for all three answers.
func (c *Client) Status(ctx context.Context) *Status {
	status := &Status{}

	var wg sync.WaitGroup
	query := func(target string, into *Result) {
		wg.Add(1)
		c.TriggerAction(ctx, target, func(r Result) {
			*into = r
			wg.Done()
		})
	}

	query(EndpointOpenTimeGet, &status.OpenTime)
	query(EndpointSysTimeGet, &status.SystemTime)
	query(EndpointBatteryGet, &status.Battery)

	wg.Wait()
	return status
}

// StatusReport is the serializable form of a Status.
type StatusReport struct {
	OpenTime   string            `json:"open_time"`
	SystemTime string            `json:"system_time"`
	Battery    string            `json:"battery"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Report converts the status to plain strings. Failed queries are listed
// under Errors keyed by endpoint.
func (s *Status) Report() StatusReport {
	report := StatusReport{}

	fill := func(r Result, into *string) {
		if r.Err != nil {
			if report.Errors == nil {
				report.Errors = make(map[string]string)
			}
			report.Errors[r.Target] = GetShortErrorMessage(r.Err)
			return
		}
		*into = trimAnswer(r.Body)
	}

	fill(s.OpenTime, &report.OpenTime)
	fill(s.SystemTime, &report.SystemTime)
	fill(s.Battery, &report.Battery)

	return report
}

// Healthy reports whether every query completed and the controller answered.
func (s *Status) Healthy() bool {
	for _, r := range []Result{s.OpenTime, s.SystemTime, s.Battery} {
		if r.Err != nil || trimAnswer(r.Body) == NoAnswerFromController {
			return false
		}
	}
	return true
}

// FormatCompact returns a single-line summary
func (s *Status) FormatCompact() string {
	report := s.Report()
	return fmt.Sprintf("open: %s | clock: %s | battery: %s",
		orDash(report.OpenTime), orDash(report.SystemTime), orDash(report.Battery))
}

// FormatDetailed returns a multi-line report
func (s *Status) FormatDetailed() string {
	report := s.Report()

	var b strings.Builder
	b.WriteString("=== Coop Door Status ===\n")
	b.WriteString(fmt.Sprintf("Open Time:   %s\n", orDash(report.OpenTime)))
	b.WriteString(fmt.Sprintf("System Time: %s\n", orDash(report.SystemTime)))
	b.WriteString(fmt.Sprintf("Battery:     %s\n", orDash(report.Battery)))

	if len(report.Errors) > 0 {
		b.WriteString("\n=== Errors ===\n")
		for _, endpoint := range []string{EndpointOpenTimeGet, EndpointSysTimeGet, EndpointBatteryGet} {
			if msg, ok := report.Errors[endpoint]; ok {
				b.WriteString(fmt.Sprintf("%-13s %s\n", endpoint+":", msg))
			}
		}
	}

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
