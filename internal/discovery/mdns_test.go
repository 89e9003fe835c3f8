package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantChipID string
		wantIP     string
		wantPort   int
	}{
		{
			name: "controller with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_0A1B2C.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.178.40")},
				Text:     []string{"path=/"},
			},
			wantChipID: "0A1B2C",
			wantIP:     "192.168.178.40",
			wantPort:   80,
		},
		{
			name: "lowercase hex without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_5131a0.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantChipID: "5131A0",
			wantIP:     "10.0.0.5",
			wantPort:   80,
		},
		{
			name: "no port defaults to 80",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_FFFFFF.local",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantChipID: "FFFFFF",
			wantIP:     "172.16.0.1",
			wantPort:   80,
		},
		{
			name: "simulator on custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_000001.local.",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("127.0.0.1")},
			},
			wantChipID: "000001",
			wantIP:     "127.0.0.1",
			wantPort:   8080,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_ABCDEF.local",
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantChipID: "ABCDEF",
			wantIP:     "fe80::1",
			wantPort:   80,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_ABCDEF.local",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantChipID: "ABCDEF",
			wantIP:     "192.168.1.50",
			wantPort:   80,
		},
		{
			name: "other http service",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local.",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP_0A1B2C.local.",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}
			if device.ChipID != tt.wantChipID {
				t.Errorf("ChipID = %v, want %v", device.ChipID, tt.wantChipID)
			}
			if device.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.Hostname != tt.entry.HostName {
				t.Errorf("Hostname = %v, want %v", device.Hostname, tt.entry.HostName)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "ESP_0A1B2C.local.",
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.1")},
		Text:     []string{"path=/", "flag", "a=b=c"},
	}

	device := parseServiceEntry(entry)
	if device == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	want := map[string]string{"path": "/", "flag": "", "a": "b=c"}
	if len(device.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(device.Metadata), len(want))
	}
	for k, v := range want {
		if got := device.GetMetadata(k); got != v {
			t.Errorf("Metadata[%q] = %q, want %q", k, got, v)
		}
	}
}

func TestHostnamePattern(t *testing.T) {
	tests := []struct {
		hostname string
		match    bool
	}{
		{"ESP_0A1B2C.local", true},
		{"ESP_0A1B2C.local.", true},
		{"ESP_abcdef.local", true},
		{"esp_0A1B2C.local", false},
		{"ESP_0A1B2.local", false},
		{"ESP_0A1B2C3.local", false},
		{"ESP_GGGGGG.local", false},
		{"ESP_0A1B2C", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := hostnamePattern.MatchString(tt.hostname); got != tt.match {
			t.Errorf("hostnamePattern.MatchString(%q) = %v, want %v", tt.hostname, got, tt.match)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestAnnounce_Validation(t *testing.T) {
	tests := []struct {
		name   string
		chipID string
		ips    []string
	}{
		{"short chip id", "ABC", []string{"127.0.0.1"}},
		{"not hex", "XYZXYZ", []string{"127.0.0.1"}},
		{"no addresses", "0A1B2C", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Announce(tt.chipID, 80, tt.ips); err == nil {
				t.Error("Announce() error = nil, want error")
			}
		})
	}
}

func TestAnnouncement_ShutdownNil(t *testing.T) {
	var a *Announcement
	a.Shutdown()
}
