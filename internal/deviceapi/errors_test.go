package deviceapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeConnectionRefused, "Connection Refused"},
		{ErrTypeDNS, "DNS Error"},
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeApplication, "Device Error"},
		{ErrTypeParse, "Parse Error"},
		{ErrTypeUnknown, "Unknown Error"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", int(tt.et), got, tt.want)
		}
	}
}

func TestDeviceError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &DeviceError{Type: ErrTypeNetwork, Message: "GET slider_up failed", Err: cause}

	if !strings.Contains(err.Error(), "GET slider_up failed") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	wrapped := fmt.Errorf("sync failed: %w", err)
	if !IsNetworkError(wrapped) {
		t.Error("IsNetworkError should see through wrapping")
	}
}

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantType    ErrorType
		wantSubtype NetworkErrorSubtype
	}{
		{
			name:        "canceled",
			err:         context.Canceled,
			wantType:    ErrTypeNetwork,
			wantSubtype: NetworkErrorCanceled,
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantType:    ErrTypeTimeout,
			wantSubtype: NetworkErrorTimeout,
		},
		{
			name:        "os deadline",
			err:         os.ErrDeadlineExceeded,
			wantType:    ErrTypeTimeout,
			wantSubtype: NetworkErrorTimeout,
		},
		{
			name:        "dns",
			err:         &net.DNSError{Name: "ESP_0A1B2C.local", Err: "no such host"},
			wantType:    ErrTypeDNS,
			wantSubtype: NetworkErrorDNS,
		},
		{
			name:        "refused",
			err:         &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			wantType:    ErrTypeConnectionRefused,
			wantSubtype: NetworkErrorConnectionRefused,
		},
		{
			name:        "host unreachable",
			err:         &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH)},
			wantType:    ErrTypeNetwork,
			wantSubtype: NetworkErrorHostUnreachable,
		},
		{
			name:        "network unreachable",
			err:         &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)},
			wantType:    ErrTypeNetwork,
			wantSubtype: NetworkErrorNetworkUnreachable,
		},
		{
			name:        "other",
			err:         errors.New("connection reset"),
			wantType:    ErrTypeNetwork,
			wantSubtype: NetworkErrorGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err, "http://192.168.4.1:80")
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.NetworkSubtype != tt.wantSubtype {
				t.Errorf("NetworkSubtype = %v, want %v", got.NetworkSubtype, tt.wantSubtype)
			}
			if got.DeviceAddr != "http://192.168.4.1:80" {
				t.Errorf("DeviceAddr = %s", got.DeviceAddr)
			}
		})
	}

	if ClassifyNetworkError(nil, "") != nil {
		t.Error("ClassifyNetworkError(nil) should return nil")
	}
}

func TestNewNetworkError_KeepsMessage(t *testing.T) {
	err := NewNetworkError("GET battery_get failed", "http://x", context.DeadlineExceeded)

	if err.Message != "GET battery_get failed" {
		t.Errorf("Message = %q", err.Message)
	}
	if !IsTimeoutError(err) {
		t.Error("IsTimeoutError = false, want true")
	}
}

func TestIsHelpers(t *testing.T) {
	plain := errors.New("plain")

	checks := []struct {
		name string
		fn   func(error) bool
		hit  error
	}{
		{"IsValidationError", IsValidationError, NewValidationError("hours is empty")},
		{"IsApplicationError", IsApplicationError, NewApplicationError("slider_up", "nope")},
		{"IsParseError", IsParseError, NewParseError("bad", nil)},
		{"IsTimeoutError", IsTimeoutError, ClassifyNetworkError(context.DeadlineExceeded, "")},
		{"IsNetworkError", IsNetworkError, ClassifyNetworkError(errors.New("reset"), "")},
	}

	for _, c := range checks {
		if !c.fn(c.hit) {
			t.Errorf("%s(%v) = false, want true", c.name, c.hit)
		}
		if c.fn(plain) {
			t.Errorf("%s(plain) = true, want false", c.name)
		}
		if c.fn(nil) {
			t.Errorf("%s(nil) = true, want false", c.name)
		}
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", ClassifyNetworkError(context.DeadlineExceeded, ""), "Device not responding (timeout)"},
		{"canceled", ClassifyNetworkError(context.Canceled, ""), "Request canceled"},
		{"application", NewApplicationError("opentime_set", NoAnswerFromController), NoAnswerFromController},
		{"validation", NewValidationError("hours is empty"), "hours is empty"},
		{"plain", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetShortErrorMessage(tt.err); got != tt.want {
				t.Errorf("GetShortErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	hint := GetTroubleshootingHint(NewApplicationError("slider_up", NoAnswerFromController))
	if !strings.Contains(hint, "door controller") {
		t.Errorf("hint for no-answer = %q", hint)
	}

	hint = GetTroubleshootingHint(ClassifyNetworkError(&net.DNSError{Name: "coop"}, ""))
	if !strings.Contains(hint, DefaultAddress) {
		t.Errorf("DNS hint should mention %s: %q", DefaultAddress, hint)
	}

	if hint := GetTroubleshootingHint(errors.New("x")); hint == "" {
		t.Error("hint for plain error should not be empty")
	}
}
