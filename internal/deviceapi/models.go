package deviceapi

import (
	"fmt"
	"time"
)

// Endpoints served by the controller's web server.
const (
	EndpointSliderUp    = "slider_up"
	EndpointSliderDown  = "slider_down"
	EndpointOpenTimeGet = "opentime_get"
	EndpointOpenTimeSet = "opentime_set"
	EndpointSysTimeGet  = "systime_get"
	EndpointSysTimeSet  = "systime_set"
	EndpointBatteryGet  = "battery_get"
	EndpointDCFInfo     = "dcf_info"
)

// Form field ids read by the open-time form.
const (
	FieldOpenTimeHours   = "opentime_hours"
	FieldOpenTimeMinutes = "opentime_minutes"
)

// SystemTimestamp is the device's representation of a wall-clock time.
//
// Month is zero-based (0-11), Year is the full year modulo 1000 and DOW
// runs from 1 (Monday) to 7 (Sunday).
type SystemTimestamp struct {
	Seconds int `json:"seconds"`
	Minutes int `json:"minutes"`
	Hours   int `json:"hours"`
	Date    int `json:"date"`
	Month   int `json:"month"`
	Year    int `json:"year"`
	DOW     int `json:"dow"`
}

// NewSystemTimestamp decomposes t in its own location.
func NewSystemTimestamp(t time.Time) SystemTimestamp {
	return SystemTimestamp{
		Seconds: t.Second(),
		Minutes: t.Minute(),
		Hours:   t.Hour(),
		Date:    t.Day(),
		Month:   int(t.Month()) - 1,
		Year:    t.Year() % 1000,
		DOW:     DeviceWeekday(t.Weekday()),
	}
}

// DeviceWeekday maps time.Sunday (0) to 7 and keeps Monday-Saturday as 1-6.
func DeviceWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// Target returns the systime_set request target for the timestamp.
func (ts SystemTimestamp) Target() string {
	return NewTarget(EndpointSysTimeSet).
		IntParam("seconds", ts.Seconds).
		IntParam("minutes", ts.Minutes).
		IntParam("hours", ts.Hours).
		IntParam("date", ts.Date).
		IntParam("month", ts.Month).
		IntParam("year", ts.Year).
		IntParam("dow", ts.DOW).
		Build()
}

// String formats the timestamp the way the firmware's serial console does.
func (ts SystemTimestamp) String() string {
	return fmt.Sprintf("%d.%d.%d, %d:%d:%d, DOW %d",
		ts.Date, ts.Month, ts.Year, ts.Hours, ts.Minutes, ts.Seconds, ts.DOW)
}

// OpenTime is a user-entered opening time.
// Hours and Minutes hold the entered text and are sent verbatim.
type OpenTime struct {
	Hours   string `json:"hours" yaml:"hours"`
	Minutes string `json:"minutes" yaml:"minutes"`
}

// Target returns the opentime_set request target.
func (ot OpenTime) Target() string {
	return NewTarget(EndpointOpenTimeSet).
		Param("hours", ot.Hours).
		Param("minutes", ot.Minutes).
		Build()
}

// String returns "hours:minutes" as entered
func (ot OpenTime) String() string {
	return ot.Hours + ":" + ot.Minutes
}
