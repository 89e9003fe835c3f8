package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/coopdoor/internal/logging"
)

var chipIDPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Announcement is a registered mDNS service. Call Shutdown to withdraw it.
type Announcement struct {
	server *zeroconf.Server
	Host   string
}

// Announce advertises an "_http._tcp" service under the ESP8266 hostname
// ESP_<chipID> on the given port and addresses.
func Announce(chipID string, port int, ips []string) (*Announcement, error) {
	if !chipIDPattern.MatchString(chipID) {
		return nil, fmt.Errorf("chip id must be 6 hex digits, got %q", chipID)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("at least one address is required")
	}

	host := "ESP_" + strings.ToUpper(chipID)
	server, err := zeroconf.RegisterProxy(host, ServiceType, ServiceDomain, port, host, ips, []string{"path=/"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Announcing controller via mDNS",
		zap.String("host", host),
		zap.Int("port", port),
		zap.Strings("ips", ips),
	)

	return &Announcement{server: server, Host: host + "." + ServiceDomain}, nil
}

// Shutdown withdraws the service
func (a *Announcement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
