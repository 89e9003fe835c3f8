package deviceapi

import (
	"testing"
	"time"
)

func TestDeviceWeekday(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		want int
	}{
		{time.Sunday, 7},
		{time.Monday, 1},
		{time.Tuesday, 2},
		{time.Wednesday, 3},
		{time.Thursday, 4},
		{time.Friday, 5},
		{time.Saturday, 6},
	}

	for _, tt := range tests {
		if got := DeviceWeekday(tt.day); got != tt.want {
			t.Errorf("DeviceWeekday(%v) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestNewSystemTimestamp(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want SystemTimestamp
	}{
		{
			name: "sunday in 2024",
			time: time.Date(2024, time.March, 10, 14, 5, 9, 0, time.UTC),
			want: SystemTimestamp{Seconds: 9, Minutes: 5, Hours: 14, Date: 10, Month: 2, Year: 24, DOW: 7},
		},
		{
			name: "wednesday in january",
			time: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
			want: SystemTimestamp{Date: 15, Month: 0, Year: 25, DOW: 3},
		},
		{
			name: "new year's eve",
			time: time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC),
			want: SystemTimestamp{Seconds: 59, Minutes: 59, Hours: 23, Date: 31, Month: 11, Year: 23, DOW: 7},
		},
		{
			name: "year 2000",
			time: time.Date(2000, time.June, 5, 6, 7, 8, 0, time.UTC),
			want: SystemTimestamp{Seconds: 8, Minutes: 7, Hours: 6, Date: 5, Month: 5, Year: 0, DOW: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSystemTimestamp(tt.time); got != tt.want {
				t.Errorf("NewSystemTimestamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewSystemTimestamp_UsesLocation(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	utc := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)

	ts := NewSystemTimestamp(utc.In(berlin))
	if ts.Hours != 0 || ts.Date != 10 || ts.DOW != 7 {
		t.Errorf("NewSystemTimestamp(local) = %+v, want 00:30 on Sunday the 10th", ts)
	}
}

func TestSystemTimestamp_Target(t *testing.T) {
	ts := SystemTimestamp{Seconds: 1, Minutes: 2, Hours: 3, Date: 4, Month: 5, Year: 26, DOW: 6}

	want := "systime_set?seconds=1&minutes=2&hours=3&date=4&month=5&year=26&dow=6"
	if got := ts.Target(); got != want {
		t.Errorf("Target() = %s, want %s", got, want)
	}
}

func TestSystemTimestamp_String(t *testing.T) {
	ts := SystemTimestamp{Seconds: 1, Minutes: 2, Hours: 3, Date: 4, Month: 5, Year: 26, DOW: 6}

	if got := ts.String(); got != "4.5.26, 3:2:1, DOW 6" {
		t.Errorf("String() = %q", got)
	}
}

func TestOpenTime_Target(t *testing.T) {
	tests := []struct {
		ot   OpenTime
		want string
	}{
		{OpenTime{Hours: "07", Minutes: "30"}, "opentime_set?hours=07&minutes=30"},
		{OpenTime{Hours: "7", Minutes: "0"}, "opentime_set?hours=7&minutes=0"},
		{OpenTime{Hours: "25", Minutes: "00"}, "opentime_set?hours=25&minutes=00"},
		{OpenTime{Hours: "6.5", Minutes: "1e1"}, "opentime_set?hours=6.5&minutes=1e1"},
	}

	for _, tt := range tests {
		if got := tt.ot.Target(); got != tt.want {
			t.Errorf("OpenTime%+v.Target() = %s, want %s", tt.ot, got, tt.want)
		}
	}
}

func TestOpenTime_String(t *testing.T) {
	if got := (OpenTime{Hours: "07", Minutes: "30"}).String(); got != "07:30" {
		t.Errorf("String() = %q, want 07:30", got)
	}
}
