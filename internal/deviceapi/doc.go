// Package deviceapi provides an HTTP client for the ESP8266 coop-door controller.
//
// The controller's web server exposes a fixed set of endpoints. Commands answer
// with the literal text "ok" on success and with a human-readable message
// otherwise; queries answer with a human-readable sentence. Parameters are
// passed in the query string and are never URL-encoded.
//
// # Endpoints
//
//   - slider_up, slider_down: move the door
//   - opentime_set?hours=H&minutes=M (POST): set the automatic opening time
//   - systime_set?seconds=..&minutes=..&hours=..&date=..&month=..&year=..&dow=..
//   - opentime_get, systime_get, battery_get, dcf_info: read-only queries
//
// # Requests and Completions
//
// Every exchange produces a Result: the raw body, the status code, OK (body is
// exactly "ok") and, if the transport failed, Err. The asynchronous methods
// (TriggerAction, SetOpenTime, SetSystemTime) return immediately and hand the
// Result to a Completion on another goroutine. The blocking methods (Action,
// PostOpenTime, SyncSystemTime) return it directly.
//
//	client := deviceapi.NewClient("192.168.4.1", 80)
//
//	ot, err := deviceapi.ParseOpenTime("07", "30")
//	if err != nil {
//	    // deviceapi.ValidationNotice(), no request sent
//	}
//
//	client.SetOpenTime(ctx, ot, deviceapi.Notify(notifier, deviceapi.OpenTimeMessage))
//
// # Presenting Results
//
// Presenters turn a Result into a Notice. OKMessage reports a generic success
// or "Fehler: <body>", Message shows the body verbatim and OpenTimeMessage is
// used for opentime_set. A Notifier decides how a Notice reaches the user.
//
// # Errors
//
// Transport failures are classified into *DeviceError values (timeout,
// connection refused, DNS, network). Validation errors are returned before
// any request is made. Nothing is retried.
package deviceapi
