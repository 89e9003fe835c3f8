package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device is a coop-door controller found on the network
type Device struct {
	// ChipID is the hex suffix of the ESP8266 hostname (e.g., "0A1B2C")
	ChipID string

	// Hostname is the mDNS hostname (e.g., "ESP_0A1B2C.local.")
	Hostname string

	// IP is the device address, IPv4 when available
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata holds the mDNS TXT records
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable description
func (d *Device) String() string {
	return fmt.Sprintf("Coop door ESP_%s (%s) at %s:%d", d.ChipID, d.Hostname, d.IP, d.Port)
}

// Name returns the ESP8266 host name without domain (e.g., "ESP_0A1B2C")
func (d *Device) Name() string {
	return "ESP_" + d.ChipID
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
