package deviceapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordedRequest is what the fake device saw
type recordedRequest struct {
	Method     string
	RequestURI string
	BodyLen    int64
	Header     http.Header
}

// newFakeDevice answers every request with body and records it.
func newFakeDevice(t *testing.T, body string) (*httptest.Server, <-chan recordedRequest) {
	t.Helper()

	requests := make(chan recordedRequest, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- recordedRequest{
			Method:     r.Method,
			RequestURI: r.RequestURI,
			BodyLen:    r.ContentLength,
			Header:     r.Header.Clone(),
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, requests
}

func waitResult(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("completion was not called")
		return Result{}
	}
}

func waitRequest(t *testing.T, requests <-chan recordedRequest) recordedRequest {
	t.Helper()
	select {
	case r := <-requests:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("device received no request")
		return recordedRequest{}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.4.1", 80)

	if client.BaseURL != "http://192.168.4.1:80" {
		t.Errorf("BaseURL = %s, want http://192.168.4.1:80", client.BaseURL)
	}

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}

	if client.HTTPClient.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", client.HTTPClient.Timeout)
	}
}

func TestNewClientWithURL(t *testing.T) {
	client := NewClientWithURL("http://coop.local:8080/")

	if client.BaseURL != "http://coop.local:8080" {
		t.Errorf("BaseURL = %s, want http://coop.local:8080", client.BaseURL)
	}

	if got := client.URL("slider_up"); got != "http://coop.local:8080/slider_up" {
		t.Errorf("URL() = %s, want http://coop.local:8080/slider_up", got)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("192.168.4.1", 80)
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestTriggerAction_OK(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)

	results := make(chan Result, 1)
	client.TriggerAction(context.Background(), "slider_up", func(r Result) { results <- r })

	req := waitRequest(t, requests)
	if req.Method != http.MethodGet {
		t.Errorf("Method = %s, want GET", req.Method)
	}
	if req.RequestURI != "/slider_up" {
		t.Errorf("RequestURI = %s, want /slider_up", req.RequestURI)
	}

	r := waitResult(t, results)
	if !r.OK {
		t.Errorf("OK = false, want true (body %q)", r.Body)
	}
	if r.Err != nil {
		t.Errorf("Err = %v, want nil", r.Err)
	}
	if r.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", r.StatusCode)
	}

	n := OKMessage(r)
	if n.Kind != NoticeSuccess || n.Text != "Aktion erfolgreich!" {
		t.Errorf("OKMessage = %+v, want success \"Aktion erfolgreich!\"", n)
	}
}

func TestTriggerAction_NotOK(t *testing.T) {
	server, _ := newFakeDevice(t, NoAnswerFromController)
	client := NewClientWithURL(server.URL)

	results := make(chan Result, 1)
	client.TriggerAction(context.Background(), "slider_down", func(r Result) { results <- r })

	r := waitResult(t, results)
	if r.OK {
		t.Error("OK = true, want false")
	}

	n := OKMessage(r)
	want := "Fehler: " + NoAnswerFromController
	if n.Kind != NoticeFailure || n.Text != want {
		t.Errorf("OKMessage = %+v, want failure %q", n, want)
	}

	if !IsApplicationError(r.Error()) {
		t.Errorf("Error() = %v, want application error", r.Error())
	}
}

func TestTriggerAction_StatusCodeNotChecked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	r := client.Action(context.Background(), "slider_up")

	if r.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", r.StatusCode)
	}
	if !r.OK {
		t.Error("OK = false, want true: only the body decides")
	}
}

func TestTriggerAction_NilCallback(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)

	client.TriggerAction(context.Background(), "battery_get", nil)

	req := waitRequest(t, requests)
	if req.RequestURI != "/battery_get" {
		t.Errorf("RequestURI = %s, want /battery_get", req.RequestURI)
	}
}

func TestTriggerAction_ReturnsBeforeCompletion(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()
	defer close(release)

	client := NewClientWithURL(server.URL)

	var called atomic.Bool
	results := make(chan Result, 1)
	client.TriggerAction(context.Background(), "slider_up", func(r Result) {
		called.Store(true)
		results <- r
	})

	if called.Load() {
		t.Fatal("completion ran before the device answered")
	}

	release <- struct{}{}
	if r := waitResult(t, results); !r.OK {
		t.Errorf("OK = false, want true")
	}
}

func TestSetOpenTime_Target(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)

	results := make(chan Result, 1)
	client.SetOpenTime(context.Background(), OpenTime{Hours: "07", Minutes: "30"}, func(r Result) { results <- r })

	req := waitRequest(t, requests)
	if req.Method != http.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.RequestURI != "/opentime_set?hours=07&minutes=30" {
		t.Errorf("RequestURI = %s, want /opentime_set?hours=07&minutes=30", req.RequestURI)
	}
	if req.BodyLen > 0 {
		t.Errorf("ContentLength = %d, want empty body", req.BodyLen)
	}
	if ct := req.Header.Get("Content-Type"); ct != "" {
		t.Errorf("Content-Type = %q, want none", ct)
	}

	r := waitResult(t, results)
	if r.Target != "opentime_set?hours=07&minutes=30" {
		t.Errorf("Target = %s, want opentime_set?hours=07&minutes=30", r.Target)
	}

	n := OpenTimeMessage(r)
	if n.Kind != NoticeSuccess || n.Text != "Aufmachzeit geändert!" {
		t.Errorf("OpenTimeMessage = %+v, want success \"Aufmachzeit geändert!\"", n)
	}
}

func TestSetOpenTime_Verbatim(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)

	client.SetOpenTime(context.Background(), OpenTime{Hours: "7.5", Minutes: "-0"}, nil)

	req := waitRequest(t, requests)
	if req.RequestURI != "/opentime_set?hours=7.5&minutes=-0" {
		t.Errorf("RequestURI = %s, want values unchanged", req.RequestURI)
	}
}

func TestSetSystemTime(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)
	client.Now = func() time.Time {
		// Sunday
		return time.Date(2024, time.March, 10, 14, 5, 9, 0, time.UTC)
	}

	results := make(chan Result, 1)
	client.SetSystemTime(context.Background(), func(r Result) { results <- r })

	req := waitRequest(t, requests)
	want := "/systime_set?seconds=9&minutes=5&hours=14&date=10&month=2&year=24&dow=7"
	if req.Method != http.MethodGet {
		t.Errorf("Method = %s, want GET", req.Method)
	}
	if req.RequestURI != want {
		t.Errorf("RequestURI = %s, want %s", req.RequestURI, want)
	}

	if n := OKMessage(waitResult(t, results)); n.Kind != NoticeSuccess {
		t.Errorf("OKMessage kind = %v, want success", n.Kind)
	}
}

func TestRequestOpenTimeUpdate(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)

	form := FormValues{FieldOpenTimeHours: "07", FieldOpenTimeMinutes: "30"}
	results := make(chan Result, 1)

	err := client.RequestOpenTimeUpdate(context.Background(), form, func(r Result) { results <- r })
	if err != nil {
		t.Fatalf("RequestOpenTimeUpdate() error = %v", err)
	}

	req := waitRequest(t, requests)
	if req.RequestURI != "/opentime_set?hours=07&minutes=30" {
		t.Errorf("RequestURI = %s, want /opentime_set?hours=07&minutes=30", req.RequestURI)
	}

	if n := OpenTimeMessage(waitResult(t, results)); n.Text != MessageOpenTimeChanged {
		t.Errorf("notice = %q, want %q", n.Text, MessageOpenTimeChanged)
	}
}

func TestRequestOpenTimeUpdate_InvalidIssuesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)

	tests := []struct {
		name    string
		hours   string
		minutes string
	}{
		{"empty hours", "", "15"},
		{"empty minutes", "7", ""},
		{"both empty", "", ""},
		{"letters", "abc", "15"},
		{"letters in minutes", "7", "x1"},
		{"whitespace", " 7", "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormValues{FieldOpenTimeHours: tt.hours, FieldOpenTimeMinutes: tt.minutes}

			called := false
			err := client.RequestOpenTimeUpdate(context.Background(), form, func(Result) { called = true })

			if !IsValidationError(err) {
				t.Errorf("error = %v, want validation error", err)
			}
			if called {
				t.Error("completion was called for invalid input")
			}
		})
	}

	if n := hits.Load(); n != 0 {
		t.Errorf("device received %d requests, want 0", n)
	}

	if n := ValidationNotice(); n.Text != "Ungültige Zeit!" || n.Kind != NoticeFailure {
		t.Errorf("ValidationNotice() = %+v", n)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClientWithURL(server.URL)
	client.SetTimeout(50 * time.Millisecond)

	results := make(chan Result, 1)
	client.SetOpenTime(context.Background(), OpenTime{Hours: "07", Minutes: "30"}, func(r Result) { results <- r })

	r := waitResult(t, results)
	if r.Completed() {
		t.Fatal("Completed() = true, want false after timeout")
	}
	if !IsTimeoutError(r.Err) {
		t.Errorf("Err = %v, want timeout error", r.Err)
	}

	n := OpenTimeMessage(r)
	if n.Kind != NoticeFailure {
		t.Errorf("notice kind = %v, want failure", n.Kind)
	}
	if n.Text != "Fehler: Device not responding (timeout)" {
		t.Errorf("notice = %q", n.Text)
	}
}

func TestContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClientWithURL(server.URL)
	ctx, cancel := context.WithCancel(context.Background())

	results := make(chan Result, 1)
	client.TriggerAction(ctx, "slider_up", func(r Result) { results <- r })
	cancel()

	r := waitResult(t, results)
	if r.Err == nil {
		t.Fatal("Err = nil, want cancellation error")
	}
	if GetShortErrorMessage(r.Err) != "Request canceled" {
		t.Errorf("short message = %q, want Request canceled", GetShortErrorMessage(r.Err))
	}
}

func TestConcurrentCompletions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path[1:]))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)

	targets := []string{"slider_up", "slider_down", "opentime_get", "systime_get", "battery_get", "dcf_info"}

	var mu sync.Mutex
	seen := make(map[string]string)
	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		client.TriggerAction(context.Background(), target, func(r Result) {
			defer wg.Done()
			mu.Lock()
			seen[r.Target] = r.Body
			mu.Unlock()
		})
	}
	wg.Wait()

	for _, target := range targets {
		if seen[target] != target {
			t.Errorf("completion for %s got body %q", target, seen[target])
		}
	}
}

func TestNamedActions(t *testing.T) {
	server, requests := newFakeDevice(t, "ok")
	client := NewClientWithURL(server.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() Result
		want string
	}{
		{"SliderUp", func() Result { return client.SliderUp(ctx) }, "/slider_up"},
		{"SliderDown", func() Result { return client.SliderDown(ctx) }, "/slider_down"},
		{"OpenTime", func() Result { return client.OpenTime(ctx) }, "/opentime_get"},
		{"SystemTime", func() Result { return client.SystemTime(ctx) }, "/systime_get"},
		{"Battery", func() Result { return client.Battery(ctx) }, "/battery_get"},
		{"DCFInfo", func() Result { return client.DCFInfo(ctx) }, "/dcf_info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.call()
			if !r.OK {
				t.Errorf("OK = false, want true")
			}
			req := waitRequest(t, requests)
			if req.Method != http.MethodGet || req.RequestURI != tt.want {
				t.Errorf("request = %s %s, want GET %s", req.Method, req.RequestURI, tt.want)
			}
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClientWithURL(url)
	r := client.Action(context.Background(), "slider_up")

	if r.Err == nil {
		t.Fatal("Err = nil, want network error")
	}
	if !IsNetworkError(r.Err) {
		t.Errorf("IsNetworkError(%v) = false", r.Err)
	}
	if n := OKMessage(r); n.Kind != NoticeFailure {
		t.Errorf("OKMessage kind = %v, want failure", n.Kind)
	}
}
