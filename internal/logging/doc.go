// Package logging provides structured logging for the coopdoor tools.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by the device client and the simulator.
//
// # Log Levels
//
//   - Debug: Raw response bodies, request targets
//   - Info: Requests sent to the device and their completion
//   - Warn: Non-fatal issues (unexpected answers, slow devices)
//   - Error: Transport failures, simulator startup failures
//
// # Silent by Default
//
// CLI output is curated by the ui package, so logging stays silent
// (zap.NewNop) unless COOPDOOR_LOG_LEVEL or --log-level selects a level:
//
//	COOPDOOR_LOG_LEVEL=debug coopdoor-cfg systime set
//
// # Device Exchange Logging
//
//	logging.LogDeviceRequest(requestID, "POST", "opentime_set?hours=7&minutes=30")
//	logging.LogDeviceResponse(requestID, 200, []byte("ok"), elapsed)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Completions of
// concurrent device requests log from their own goroutines.
package logging
