package deviceapi

import (
	"context"
	"fmt"
	"regexp"
)

// Answers produced by opentime_get.
const (
	openTimeDisabledAnswer = "Klappe wird nicht automatisch geöffnet"

	// openTimeDisabledHours is the stored hour value meaning "never open automatically"
	openTimeDisabledHours = 25
)

var openTimePattern = regexp.MustCompile(`^Aufmachzeit ist (\d{1,3}):(\d{1,3}) Uhr$`)

// OpenTimeSetting is the parsed answer of opentime_get.
type OpenTimeSetting struct {
	Hours   int
	Minutes int

	// Disabled is true when the controller never opens the door by itself
	Disabled bool
}

// String returns the setting in the controller's format
func (s OpenTimeSetting) String() string {
	if s.Disabled {
		return "disabled"
	}
	return fmt.Sprintf("%02d:%02d", s.Hours, s.Minutes)
}

// ParseOpenTimeAnswer parses the body of an opentime_get answer.
func ParseOpenTimeAnswer(body string) (OpenTimeSetting, error) {
	text := trimAnswer(body)

	if text == openTimeDisabledAnswer {
		return OpenTimeSetting{Hours: openTimeDisabledHours, Disabled: true}, nil
	}

	if text == NoAnswerFromController {
		return OpenTimeSetting{}, NewApplicationError(EndpointOpenTimeGet, text)
	}

	m := openTimePattern.FindStringSubmatch(text)
	if m == nil {
		return OpenTimeSetting{}, NewParseError(fmt.Sprintf("unexpected opentime_get answer %q", text), nil)
	}

	return OpenTimeSetting{Hours: wholeNumber(m[1]), Minutes: wholeNumber(m[2])}, nil
}

// VerifyOpenTime reads the open time back once and checks that it matches
// expected. There is no retry.
func (c *Client) VerifyOpenTime(ctx context.Context, expected OpenTime) (OpenTimeSetting, error) {
	result := c.OpenTime(ctx)
	if result.Err != nil {
		return OpenTimeSetting{}, fmt.Errorf("failed to read open time for verification: %w", result.Err)
	}

	actual, err := ParseOpenTimeAnswer(result.Body)
	if err != nil {
		return OpenTimeSetting{}, err
	}

	wantHours := wholeNumber(expected.Hours)
	wantMinutes := wholeNumber(expected.Minutes)

	if wantHours == openTimeDisabledHours {
		if !actual.Disabled {
			return actual, NewValidationError(fmt.Sprintf("open time mismatch: expected disabled, got %s", actual))
		}
		return actual, nil
	}

	if actual.Disabled || actual.Hours != wantHours || actual.Minutes != wantMinutes {
		return actual, NewValidationError(fmt.Sprintf("open time mismatch: expected %02d:%02d, got %s", wantHours, wantMinutes, actual))
	}

	return actual, nil
}
