package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/coopdoor/internal/deviceapi"
)

// RenderNotice renders a device notice as a styled box.
func RenderNotice(n deviceapi.Notice, width int) string {
	var (
		color lipgloss.Color
		title string
	)

	switch n.Kind {
	case deviceapi.NoticeSuccess:
		color = SuccessColor
		title = SuccessTitleStyle.Render(fmt.Sprintf("   %s  %s", SuccessMarker, n.Text))
	case deviceapi.NoticeFailure:
		color = ErrorColor
		title = ErrorTitleStyle.Render(fmt.Sprintf("   %s  %s", FailureMarker, n.Text))
	default:
		color = InfoColor
		title = InfoTitleStyle.Render(fmt.Sprintf("   %s  Antwort", InfoMarker))
	}

	lines := []string{"", title, ""}
	if n.Kind == deviceapi.NoticeInfo {
		for _, line := range strings.Split(strings.TrimRight(n.Text, "\r\n"), "\n") {
			lines = append(lines, ResultValueStyle.Render("   "+strings.TrimRight(line, "\r")))
		}
		lines = append(lines, "")
	}

	return boxStyle(color, width).Render(strings.Join(lines, "\n"))
}

// PlainNotice renders a notice without styling, for pipes and --format text.
func PlainNotice(n deviceapi.Notice) string {
	switch n.Kind {
	case deviceapi.NoticeSuccess:
		return SuccessMarker + " " + n.Text
	case deviceapi.NoticeFailure:
		return FailureMarker + " " + n.Text
	default:
		return strings.TrimRight(n.Text, "\r\n")
	}
}

// RenderFailure renders a failure box with an error and troubleshooting tips.
func RenderFailure(title string, err error, troubleshooting []string, width int) string {
	lines := []string{
		"",
		ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, title)),
		"",
	}

	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+err.Error()), "")
	}

	if len(troubleshooting) > 0 {
		lines = append(lines, renderTroubleshootingBox(troubleshooting, width), "")
	}

	return boxStyle(ErrorColor, width).Render(strings.Join(lines, "\n"))
}

// RenderDetails renders a success box with key/value details in the given order.
func RenderDetails(title string, keys []string, details map[string]string, width int) string {
	lines := []string{
		"",
		SuccessTitleStyle.Render(fmt.Sprintf("   %s  %s", SuccessMarker, title)),
		"",
	}

	for _, key := range keys {
		keyStyled := ResultKeyStyle.Render(fmt.Sprintf("   %s:", key))
		lines = append(lines, keyStyled+" "+ResultValueStyle.Render(details[key]))
	}
	lines = append(lines, "")

	return boxStyle(SuccessColor, width).Render(strings.Join(lines, "\n"))
}

// TroubleshootingTips splits a deviceapi troubleshooting hint into bullet
// items, dropping the heading lines.
func TroubleshootingTips(hint string) []string {
	var tips []string
	for _, line := range strings.Split(hint, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "•") {
			tips = append(tips, strings.TrimSpace(strings.TrimPrefix(line, "•")))
		}
	}
	return tips
}

func renderTroubleshootingBox(tips []string, width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range tips {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}
