package deviceapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/coopdoor/internal/logging"
)

const (
	// DefaultAddress is the ESP8266 soft-AP address the controller serves on
	DefaultAddress = "192.168.4.1"

	// DefaultPort is the controller's HTTP port
	DefaultPort = 80
)

// Client talks to the coop-door controller's web server.
//
// HTTPClient has no timeout by default; a request ends when the device
// answers or the caller's context is done. Use SetTimeout for a hard limit.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.4.1:80")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Now returns the current time used by SetSystemTime (default: time.Now)
	Now func() time.Time
}

// NewClient creates a new device client
// ip: Device IP address (e.g., "192.168.4.1")
// port: Device HTTP port (typically 80)
func NewClient(ip string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", ip, port))
}

// NewClientWithURL creates a new client with a full base URL
// baseURL: Full base URL (e.g., "http://192.168.4.1:80")
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Now:        time.Now,
	}
}

// SetTimeout sets the HTTP request timeout (0 disables it)
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// URL returns the absolute URL for a request target.
func (c *Client) URL(target string) string {
	return c.BaseURL + "/" + strings.TrimLeft(target, "/")
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Do performs a single exchange and blocks until it completes.
// The status code is recorded but not checked.
func (c *Client) Do(ctx context.Context, method string, target string) Result {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, c.URL(target), nil)
	if err != nil {
		return failedResult(target, NewNetworkError("failed to create request", c.BaseURL, err))
	}

	logging.LogDeviceRequest(requestID, method, target)
	started := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		devErr := NewNetworkError(fmt.Sprintf("%s %s failed", method, target), c.BaseURL, err)
		logging.LogDeviceFailure(requestID, target, devErr)
		return failedResult(target, devErr)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		devErr := NewNetworkError("failed to read response body", c.BaseURL, err)
		logging.LogDeviceFailure(requestID, target, devErr)
		return failedResult(target, devErr)
	}

	logging.LogDeviceResponse(requestID, resp.StatusCode, body, time.Since(started))

	return newResult(target, resp.StatusCode, body)
}

// dispatch runs the exchange on its own goroutine and returns immediately.
// Completions of concurrent requests arrive in no particular order.
func (c *Client) dispatch(ctx context.Context, method string, target string, onComplete Completion) {
	go func() {
		result := c.Do(ctx, method, target)
		if onComplete != nil {
			onComplete(result)
		}
	}()
}

// Action performs a GET of target and waits for the answer.
func (c *Client) Action(ctx context.Context, target string) Result {
	return c.Do(ctx, http.MethodGet, target)
}

// TriggerAction issues a GET of target without waiting. onComplete, if not
// nil, receives the Result once the exchange finishes.
func (c *Client) TriggerAction(ctx context.Context, target string, onComplete Completion) {
	c.dispatch(ctx, http.MethodGet, target, onComplete)
}

// PostOpenTime POSTs the open time and waits for the answer.
// Parameters travel in the query string; the body is empty.
func (c *Client) PostOpenTime(ctx context.Context, ot OpenTime) Result {
	return c.Do(ctx, http.MethodPost, ot.Target())
}

// SetOpenTime POSTs the open time without waiting.
func (c *Client) SetOpenTime(ctx context.Context, ot OpenTime, onComplete Completion) {
	c.dispatch(ctx, http.MethodPost, ot.Target(), onComplete)
}

// SystemTimestamp returns the timestamp that SetSystemTime would send now.
func (c *Client) SystemTimestamp() SystemTimestamp {
	return NewSystemTimestamp(c.now())
}

// SyncSystemTime sends the client's current time and waits for the answer.
func (c *Client) SyncSystemTime(ctx context.Context) Result {
	return c.Action(ctx, c.SystemTimestamp().Target())
}

// SetSystemTime sends the client's current time without waiting.
func (c *Client) SetSystemTime(ctx context.Context, onComplete Completion) {
	c.TriggerAction(ctx, c.SystemTimestamp().Target(), onComplete)
}

// RequestOpenTimeUpdate reads the open-time fields from form and, if both
// are present and numeric, calls SetOpenTime. Otherwise it returns a
// validation error and no request is made.
func (c *Client) RequestOpenTimeUpdate(ctx context.Context, form FormReader, onComplete Completion) error {
	ot, err := ReadOpenTime(form)
	if err != nil {
		return err
	}
	c.SetOpenTime(ctx, ot, onComplete)
	return nil
}

// SliderUp opens the door
func (c *Client) SliderUp(ctx context.Context) Result {
	return c.Action(ctx, EndpointSliderUp)
}

// SliderDown closes the door
func (c *Client) SliderDown(ctx context.Context) Result {
	return c.Action(ctx, EndpointSliderDown)
}

// OpenTime reads the configured opening time as text
func (c *Client) OpenTime(ctx context.Context) Result {
	return c.Action(ctx, EndpointOpenTimeGet)
}

// SystemTime reads the controller's clock as text
func (c *Client) SystemTime(ctx context.Context) Result {
	return c.Action(ctx, EndpointSysTimeGet)
}

// Battery reads the battery voltage as text
func (c *Client) Battery(ctx context.Context) Result {
	return c.Action(ctx, EndpointBatteryGet)
}

// DCFInfo reads the DCF77 receiver diagnostics
func (c *Client) DCFInfo(ctx context.Context) Result {
	return c.Action(ctx, EndpointDCFInfo)
}
