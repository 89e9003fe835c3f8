package deviceapi

import (
	"fmt"
	"math"
	"strconv"
)

// FormReader reads the current value of an input field by id.
type FormReader interface {
	Value(id string) string
}

// FormValues is a FormReader backed by a map.
type FormValues map[string]string

// Value returns the value for id, or "" when the field is absent
func (f FormValues) Value(id string) string {
	return f[id]
}

// IsNumeric reports whether s is a finite decimal number.
// Surrounding whitespace is not accepted because values are sent verbatim.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateOpenTimeField checks a single hours or minutes value.
func ValidateOpenTimeField(name, value string) error {
	if value == "" {
		return NewValidationError(fmt.Sprintf("%s is empty", name))
	}
	if !IsNumeric(value) {
		return NewValidationError(fmt.Sprintf("%s is not a number: %q", name, value))
	}
	return nil
}

// ParseOpenTime validates hours and minutes and returns them as an OpenTime.
// Only presence and numeric form are checked; range checks are left to the
// device.
func ParseOpenTime(hours, minutes string) (OpenTime, error) {
	if err := ValidateOpenTimeField("hours", hours); err != nil {
		return OpenTime{}, err
	}
	if err := ValidateOpenTimeField("minutes", minutes); err != nil {
		return OpenTime{}, err
	}
	return OpenTime{Hours: hours, Minutes: minutes}, nil
}

// ReadOpenTime reads the open-time fields from a form and validates them.
func ReadOpenTime(form FormReader) (OpenTime, error) {
	return ParseOpenTime(form.Value(FieldOpenTimeHours), form.Value(FieldOpenTimeMinutes))
}

// wholeNumber truncates a validated numeric value toward zero ("7.5" becomes 7).
func wholeNumber(s string) int {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Trunc(v))
}
