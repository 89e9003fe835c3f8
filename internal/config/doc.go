// Package config stores the user's coop-door controllers and preferences.
//
// The configuration is a YAML file holding named devices (address, port,
// when they were last reached and the last opening time set on them) and
// application preferences such as the default device and request timeout.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/coopdoor/config.yaml or $HOME/.config/coopdoor/config.yaml
//   - macOS: $HOME/.config/coopdoor/config.yaml
//   - Windows: %LOCALAPPDATA%\coopdoor\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	if err := registry.AddDevice("stall", "192.168.178.40", 80); err != nil {
//	    return err
//	}
//	registry.Preferences.DefaultDevice = "stall"
//	return registry.Save()
//
// # Address Resolution
//
// Resolve picks the controller a command talks to: the --device flag (a
// registered name or an address), then the default device, then mDNS
// discovery, and finally the soft-AP address 192.168.4.1.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
