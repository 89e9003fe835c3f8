// Package ui renders coopdoor-cfg output in the terminal.
//
// Device answers reach the user as deviceapi.Notice values. Printer is a
// deviceapi.Notifier: on a terminal it renders each notice as a Lipgloss box
// (green for success, red for failure, blue for a raw device answer), and
// on a pipe it prints one plain line per notice.
//
//	printer := ui.NewPrinter(os.Stdout)
//	client.SetOpenTime(ctx, ot, deviceapi.Notify(printer, deviceapi.OpenTimeMessage))
//
// OpenTimeForm is the interactive Bubble Tea form for the opening time. Its
// fields carry the ids opentime_hours and opentime_minutes, and it can be
// passed directly to Client.RequestOpenTimeUpdate.
//
// Logging stays silent unless COOPDOOR_LOG_LEVEL is set, so zap output does
// not interleave with the rendered boxes.
package ui
