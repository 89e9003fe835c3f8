package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/coopdoor/internal/logging"
)

const (
	// ServiceType is the mDNS service type the controller's web server advertises
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port of the controller
	DefaultPort = 80
)

// hostnamePattern matches the ESP8266 default hostname (e.g., "ESP_0A1B2C.local.")
var hostnamePattern = regexp.MustCompile(`^ESP_([0-9A-Fa-f]{6})\.local\.?$`)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForDevices browses until the timeout and returns every controller seen.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	collected := make(chan []*Device, 1)

	go func() {
		devices := make([]*Device, 0)
		seen := make(map[string]bool)
		for entry := range entries {
			device := parseServiceEntry(entry)
			if device == nil || seen[device.ChipID] {
				continue
			}
			seen[device.ChipID] = true
			logging.Debug("Discovered controller",
				zap.String("hostname", device.Hostname),
				zap.String("ip", device.IP),
				zap.Int("port", device.Port),
			)
			devices = append(devices, device)
		}
		collected <- devices
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// zeroconf closes entries once the browse context is done
	select {
	case devices := <-collected:
		return devices, nil
	case <-time.After(time.Second):
		return nil, fmt.Errorf("mDNS browse did not finish")
	}
}

// WaitForDevice browses until a controller with the given chip id (or any
// controller, if chipID is empty) shows up.
func (s *Scanner) WaitForDevice(ctx context.Context, chipID string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	deviceChan := make(chan *Device, 1)

	var once sync.Once
	go func() {
		for entry := range entries {
			device := parseServiceEntry(entry)
			if device == nil {
				continue
			}
			if chipID == "" || strings.EqualFold(device.ChipID, chipID) {
				once.Do(func() {
					deviceChan <- device
					cancel()
				})
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case device := <-deviceChan:
		return device, nil
	case <-ctx.Done():
		select {
		case device := <-deviceChan:
			return device, nil
		default:
		}
		if chipID == "" {
			return nil, fmt.Errorf("no coop door controller found within %s", s.Timeout)
		}
		return nil, fmt.Errorf("controller ESP_%s not found within %s", chipID, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Device.
// Returns nil if the entry is not an ESP8266 host or has no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := hostnamePattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Device{
		ChipID:       strings.ToUpper(matches[1]),
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForDevices scans with the given timeout
func ScanForDevices(timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices(context.Background())
}

// FindFirst returns the first controller that answers within timeout
func FindFirst(ctx context.Context, timeout time.Duration) (*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.WaitForDevice(ctx, "")
}
