package config

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/muurk/coopdoor/internal/deviceapi"
)

// Where a resolved address came from.
const (
	SourceFlag      = "flag"
	SourceRegistry  = "registry"
	SourceDefault   = "default device"
	SourceDiscovery = "mDNS"
	SourceFallback  = "soft-AP default"
)

// Target is the controller a command talks to.
type Target struct {
	Name    string // Registry name, if any
	Address string
	Port    int
	Source  string
}

// BaseURL returns the HTTP base URL of the target
func (t Target) BaseURL() string {
	return "http://" + net.JoinHostPort(t.Address, strconv.Itoa(t.Port))
}

// String describes the target and where it came from
func (t Target) String() string {
	if t.Name != "" {
		return fmt.Sprintf("%s (%s:%d, %s)", t.Name, t.Address, t.Port, t.Source)
	}
	return fmt.Sprintf("%s:%d (%s)", t.Address, t.Port, t.Source)
}

// DiscoverFunc finds a controller on the network.
type DiscoverFunc func(ctx context.Context) (address string, port int, err error)

// Resolve picks the device to talk to.
//
// device is the --device flag: a registered name, an address, or
// address:port. port overrides the port when non-zero. Without a flag the
// default device is used, then discover (if not nil and auto-discovery is
// enabled), and finally the soft-AP address.
func Resolve(ctx context.Context, registry *Registry, device string, port int, discover DiscoverFunc) (Target, error) {
	if registry == nil {
		registry = NewRegistry()
	}

	withPort := func(t Target) Target {
		if port != 0 {
			t.Port = port
		}
		if t.Port == 0 {
			t.Port = deviceapi.DefaultPort
		}
		return t
	}

	if device != "" {
		if d := registry.GetDevice(device); d != nil {
			return withPort(Target{Name: device, Address: d.Address, Port: d.Port, Source: SourceRegistry}), nil
		}

		host, p, err := splitHostPort(device)
		if err != nil {
			return Target{}, err
		}
		return withPort(Target{Address: host, Port: p, Source: SourceFlag}), nil
	}

	if name, d := registry.DefaultDevice(); d != nil {
		return withPort(Target{Name: name, Address: d.Address, Port: d.Port, Source: SourceDefault}), nil
	}

	if discover != nil && registry.prefs().AutoDiscover {
		address, p, err := discover(ctx)
		if err == nil && address != "" {
			return withPort(Target{Address: address, Port: p, Source: SourceDiscovery}), nil
		}
	}

	return withPort(Target{Address: deviceapi.DefaultAddress, Port: deviceapi.DefaultPort, Source: SourceFallback}), nil
}

// splitHostPort accepts "host", "host:port" and "[v6]:port".
func splitHostPort(s string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		// no port given
		return s, 0, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in %q", s)
	}
	return host, port, nil
}
