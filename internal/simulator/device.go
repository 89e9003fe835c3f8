package simulator

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/muurk/coopdoor/internal/deviceapi"
	"github.com/muurk/coopdoor/internal/logging"
)

// Battery calibration of the controller, in 100mV units.
const (
	batteryMin = 115
	batteryMax = 130
)

// opentime_set is rejected by the controller outside these bounds.
const (
	maxOpenHours   = 25
	maxOpenMinutes = 59
)

// Door positions
const (
	DoorUp   = "up"
	DoorDown = "down"
)

// Device is an in-memory coop-door controller.
type Device struct {
	mu sync.Mutex

	openHours   int
	openMinutes int

	clock      deviceapi.SystemTimestamp
	clockSetAt time.Time
	clockValid bool

	batteryDeciVolts int
	door             string
	unresponsive     bool

	signal     [60]byte
	signalIter int
	dcfHigh    int
	dcfLow     int

	now     func() time.Time
	metrics *Metrics
}

// NewDevice creates a device with the opening time disabled, no valid
// clock, a full battery and the door down.
func NewDevice() *Device {
	return &Device{
		openHours:        maxOpenHours,
		batteryDeciVolts: batteryMax,
		door:             DoorDown,
		now:              time.Now,
	}
}

// SetUnresponsive makes every forwarded command fail as if the AVR did not answer.
func (d *Device) SetUnresponsive(unresponsive bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unresponsive = unresponsive
}

// SetBattery sets the battery voltage in 100mV units (e.g. 124 = 12.4V)
func (d *Device) SetBattery(deciVolts int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batteryDeciVolts = deciVolts
}

// SetNow replaces the device's time source
func (d *Device) SetNow(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// OpenTime returns the stored opening time
func (d *Device) OpenTime() (hours, minutes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openHours, d.openMinutes
}

// Door returns the door position (DoorUp or DoorDown)
func (d *Device) Door() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.door
}

// Clock returns the last time written by systime_set and whether one was written
func (d *Device) Clock() (deviceapi.SystemTimestamp, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock, d.clockValid
}

// Handler returns the HTTP handler serving the controller's URL table.
func (d *Device) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/"+deviceapi.EndpointSliderUp, d.handleSlider(DoorUp))
	mux.HandleFunc("/"+deviceapi.EndpointSliderDown, d.handleSlider(DoorDown))
	mux.HandleFunc("/"+deviceapi.EndpointOpenTimeGet, d.handleOpenTimeGet)
	mux.HandleFunc("/"+deviceapi.EndpointOpenTimeSet, d.handleOpenTimeSet)
	mux.HandleFunc("/"+deviceapi.EndpointSysTimeGet, d.handleSysTimeGet)
	mux.HandleFunc("/"+deviceapi.EndpointSysTimeSet, d.handleSysTimeSet)
	mux.HandleFunc("/"+deviceapi.EndpointBatteryGet, d.handleBatteryGet)
	mux.HandleFunc("/"+deviceapi.EndpointDCFInfo, d.handleDCFInfo)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/index.html", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	})

	return d.instrument(mux)
}

// instrument logs and counts each request before handing it to next.
func (d *Device) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LogSimulatorRequest(r.RemoteAddr, r.Method, r.URL.Path, r.URL.RawQuery)
		if m := d.attachedMetrics(); m != nil {
			m.observe(strings.TrimPrefix(r.URL.Path, "/"))
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Device) attachedMetrics() *Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}

func (d *Device) send(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (d *Device) sendNoAnswer(w http.ResponseWriter) {
	if m := d.attachedMetrics(); m != nil {
		m.noAnswer.Inc()
	}
	d.send(w, deviceapi.NoAnswerFromController)
}

func (d *Device) handleSlider(position string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		if d.unresponsive {
			d.mu.Unlock()
			d.sendNoAnswer(w)
			return
		}
		d.door = position
		d.mu.Unlock()

		d.send(w, deviceapi.SuccessBody)
	}
}

func (d *Device) handleOpenTimeGet(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	unresponsive := d.unresponsive
	hours, minutes := d.openHours, d.openMinutes
	d.mu.Unlock()

	if unresponsive {
		d.sendNoAnswer(w)
		return
	}

	if hours == maxOpenHours {
		d.send(w, "Klappe wird nicht automatisch geöffnet")
		return
	}
	d.send(w, fmt.Sprintf("Aufmachzeit ist %d:%d Uhr", hours, minutes))
}

// handleOpenTimeSet reads hours and minutes from the query string like the
// firmware does, whatever the method.
func (d *Device) handleOpenTimeSet(w http.ResponseWriter, r *http.Request) {
	query := rawQueryArgs(r.URL.RawQuery)
	hours := atoi(query["hours"])
	minutes := atoi(query["minutes"])

	d.mu.Lock()
	if d.unresponsive || hours < 0 || hours > maxOpenHours || minutes < 0 || minutes > maxOpenMinutes {
		d.mu.Unlock()
		d.sendNoAnswer(w)
		return
	}
	d.openHours, d.openMinutes = hours, minutes
	d.mu.Unlock()

	d.send(w, deviceapi.SuccessBody)
}

func (d *Device) handleSysTimeSet(w http.ResponseWriter, r *http.Request) {
	query := rawQueryArgs(r.URL.RawQuery)
	for _, name := range []string{"seconds", "minutes", "hours", "date", "month", "year", "dow"} {
		if _, ok := query[name]; !ok {
			d.send(w, fmt.Sprintf("Parameter %s fehlt", name))
			return
		}
	}

	ts := deviceapi.SystemTimestamp{
		Seconds: atoi(query["seconds"]),
		Minutes: atoi(query["minutes"]),
		Hours:   atoi(query["hours"]),
		Date:    atoi(query["date"]),
		Month:   atoi(query["month"]),
		Year:    atoi(query["year"]),
		DOW:     atoi(query["dow"]),
	}

	d.mu.Lock()
	if d.unresponsive {
		d.mu.Unlock()
		d.sendNoAnswer(w)
		return
	}
	d.clock = ts
	d.clockSetAt = d.now()
	d.clockValid = true
	d.mu.Unlock()

	d.send(w, deviceapi.SuccessBody)
}

func (d *Device) handleSysTimeGet(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	unresponsive := d.unresponsive
	ts := d.currentClock()
	valid := d.clockValid
	d.mu.Unlock()

	if unresponsive {
		d.sendNoAnswer(w)
		return
	}

	dow := ts.DOW
	if !valid {
		dow = 0
	}

	d.send(w, fmt.Sprintf("%s, %d.%d.%d %d:%d:%d Uhr",
		weekdayName(dow), ts.Date, ts.Month, ts.Year, ts.Hours, ts.Minutes, ts.Seconds))
}

// currentClock advances the stored clock by the time elapsed since it was
// set. Only seconds through hours roll over; date and weekday advance once
// per day. Callers hold d.mu.
func (d *Device) currentClock() deviceapi.SystemTimestamp {
	ts := d.clock
	if !d.clockValid {
		return ts
	}

	elapsed := int(d.now().Sub(d.clockSetAt) / time.Second)
	if elapsed <= 0 {
		return ts
	}

	total := ts.Hours*3600 + ts.Minutes*60 + ts.Seconds + elapsed
	days := total / 86400
	total %= 86400

	ts.Hours = total / 3600
	ts.Minutes = (total % 3600) / 60
	ts.Seconds = total % 60
	ts.Date += days
	if days > 0 {
		ts.DOW = (ts.DOW-1+days)%7 + 1
	}
	return ts
}

func (d *Device) handleBatteryGet(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	unresponsive := d.unresponsive
	voltage := d.batteryDeciVolts
	d.mu.Unlock()

	if unresponsive {
		d.sendNoAnswer(w)
		return
	}

	percent := 100 * (voltage - batteryMin) / (batteryMax - batteryMin)
	d.send(w, fmt.Sprintf("Batteriespannung ist %d.%dV, geschätzt %d%%", voltage/10, voltage%10, percent))
}

func (d *Device) handleDCFInfo(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	b.WriteString("DCF77 status information:\r\n")
	b.WriteString(fmt.Sprintf("Received bits this minute: %d\r\n", d.signalIter))
	b.WriteString(fmt.Sprintf("High count %d, Low count %d, Total %d\r\n", d.dcfHigh, d.dcfLow, d.dcfHigh+d.dcfLow))
	b.WriteString("Signal buffer:\r\n")
	for _, bit := range d.signal {
		if bit != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	d.send(w, b.String())
}

func weekdayName(dow int) string {
	switch dow {
	case 1:
		return "Montag"
	case 2:
		return "Dienstag"
	case 3:
		return "Mittwoch"
	case 4:
		return "Donnerstag"
	case 5:
		return "Freitag"
	case 6:
		return "Samstag"
	case 7:
		return "Sonntag"
	default:
		return "Ungültige Systemzeit"
	}
}
