package config

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/coopdoor/internal/deviceapi"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Defaults for preferences missing from the file.
const (
	DefaultDiscoverTimeout = 5  // seconds
	DefaultRequestTimeout  = 10 // seconds
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is a registered controller.
type Device struct {
	Address      string          `yaml:"address"`
	Port         int             `yaml:"port,omitempty"`
	ChipID       string          `yaml:"chip_id,omitempty"`        // From mDNS hostname ESP_<chip_id>
	LastSeen     time.Time       `yaml:"last_seen,omitempty"`      // Last successful exchange
	LastOpenTime *OpenTimeRecord `yaml:"last_open_time,omitempty"` // Last opening time set from this machine
}

// OpenTimeRecord remembers an opening time that the controller accepted.
type OpenTimeRecord struct {
	Hours   string    `yaml:"hours"`
	Minutes string    `yaml:"minutes"`
	SetAt   time.Time `yaml:"set_at"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultDevice   string `yaml:"default_device,omitempty"`
	AutoDiscover    bool   `yaml:"auto_discover"`    // Fall back to mDNS when no device is given
	DiscoverTimeout int    `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	RequestTimeout  int    `yaml:"request_timeout"`  // HTTP request timeout in seconds, 0 = none
}

func defaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    true,
		DiscoverTimeout: DefaultDiscoverTimeout,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// BaseURL returns the device's HTTP base URL
func (d *Device) BaseURL() string {
	port := d.Port
	if port == 0 {
		port = deviceapi.DefaultPort
	}
	return "http://" + net.JoinHostPort(d.Address, strconv.Itoa(port))
}

// GetDevice retrieves a device by name. Returns nil if it is not registered.
func (r *Registry) GetDevice(name string) *Device {
	return r.Devices[name]
}

// AddDevice registers or updates a device.
func (r *Registry) AddDevice(name, address string, port int) error {
	if err := validateName(name); err != nil {
		return err
	}
	if address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	device := r.EnsureDevice(name)
	device.Address = address
	device.Port = port
	return nil
}

// EnsureDevice returns the named device, creating an empty entry if needed.
func (r *Registry) EnsureDevice(name string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[name]; exists {
		return device
	}

	device := &Device{}
	r.Devices[name] = device
	return device
}

// RemoveDevice deletes a device. Removing the default device clears the default.
func (r *Registry) RemoveDevice(name string) error {
	if _, ok := r.Devices[name]; !ok {
		return fmt.Errorf("device %q is not registered", name)
	}
	delete(r.Devices, name)

	if r.Preferences != nil && r.Preferences.DefaultDevice == name {
		r.Preferences.DefaultDevice = ""
	}
	return nil
}

// SetDefault makes a registered device the default.
func (r *Registry) SetDefault(name string) error {
	if _, ok := r.Devices[name]; !ok {
		return fmt.Errorf("device %q is not registered", name)
	}
	r.prefs().DefaultDevice = name
	return nil
}

// DefaultDevice returns the default device and its name, or nil if none is set.
func (r *Registry) DefaultDevice() (string, *Device) {
	if r.Preferences == nil || r.Preferences.DefaultDevice == "" {
		return "", nil
	}
	name := r.Preferences.DefaultDevice
	device := r.Devices[name]
	if device == nil {
		return "", nil
	}
	return name, device
}

// DeviceNames returns the registered names in sorted order.
func (r *Registry) DeviceNames() []string {
	names := make([]string, 0, len(r.Devices))
	for name := range r.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateDeviceLastSeen records a successful exchange with the named device.
func (r *Registry) UpdateDeviceLastSeen(name string) {
	if device := r.Devices[name]; device != nil {
		device.LastSeen = time.Now()
	}
}

// RecordOpenTime stores the opening time the named device accepted.
func (r *Registry) RecordOpenTime(name string, ot deviceapi.OpenTime) {
	device := r.Devices[name]
	if device == nil {
		return
	}
	device.LastOpenTime = &OpenTimeRecord{
		Hours:   ot.Hours,
		Minutes: ot.Minutes,
		SetAt:   time.Now(),
	}
}

// RequestTimeout returns the configured HTTP timeout (0 = none)
func (r *Registry) RequestTimeout() time.Duration {
	return time.Duration(r.prefs().RequestTimeout) * time.Second
}

// DiscoverTimeout returns the configured mDNS timeout
func (r *Registry) DiscoverTimeout() time.Duration {
	seconds := r.prefs().DiscoverTimeout
	if seconds <= 0 {
		seconds = DefaultDiscoverTimeout
	}
	return time.Duration(seconds) * time.Second
}

func (r *Registry) prefs() *Preferences {
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	return r.Preferences
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("device name must not be empty")
	}
	if strings.ContainsAny(name, " \t\n/:") {
		return fmt.Errorf("device name %q must not contain spaces, '/' or ':'", name)
	}
	return nil
}
