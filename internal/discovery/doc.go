// Package discovery finds coop-door controllers on the local network via mDNS.
//
// The ESP8266 SDK registers the default hostname "ESP_XXXXXX", where XXXXXX is
// the last three bytes of the station MAC address in hex. Controllers that
// join a WiFi network advertise an "_http._tcp" service under that hostname,
// so discovery browses "_http._tcp" and keeps entries whose host matches.
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Printf("%s at %s\n", d.Hostname, d.BaseURL())
//	}
//
// Announce registers the same kind of service for a simulated controller, so
// the scanner can be exercised without hardware.
//
// # Network Requirements
//
// Multicast must be allowed on the interface (UDP port 5353). In soft-AP mode
// the controller does not answer mDNS; use 192.168.4.1 directly.
package discovery
