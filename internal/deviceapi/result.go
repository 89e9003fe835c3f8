package deviceapi

import "strings"

// Answers and notification texts used by the device firmware and its web page.
const (
	// SuccessBody is the literal answer the firmware sends when a command succeeded
	SuccessBody = "ok"

	// NoAnswerFromController is sent by the WiFi module when the door
	// controller did not acknowledge a forwarded command
	NoAnswerFromController = "Keine Antwort vom AVR-Controller"

	MessageActionSucceeded = "Aktion erfolgreich!"
	MessageOpenTimeChanged = "Aufmachzeit geändert!"
	MessageInvalidTime     = "Ungültige Zeit!"
	MessageFailurePrefix   = "Fehler: "
)

// Result is the outcome of a single exchange with the device.
// Any completed HTTP exchange yields a Result with Err == nil, regardless
// of status code. Err is set only when the transport failed.
type Result struct {
	// Target is the request target relative to the device base URL
	Target string

	// Body is the raw response body
	Body string

	// StatusCode is the HTTP status (0 if the exchange did not complete)
	StatusCode int

	// OK reports whether Body is exactly "ok"
	OK bool

	// Err is the transport error, if any
	Err error
}

// Completion receives the Result of an asynchronous request.
type Completion func(Result)

func newResult(target string, statusCode int, body []byte) Result {
	text := string(body)
	return Result{
		Target:     target,
		Body:       text,
		StatusCode: statusCode,
		OK:         text == SuccessBody,
	}
}

func failedResult(target string, err error) Result {
	return Result{
		Target: target,
		Err:    err,
	}
}

// Completed reports whether the exchange reached the device and returned a body.
func (r Result) Completed() bool {
	return r.Err == nil
}

// Error returns nil for an "ok" answer, the transport error if the exchange
// failed, and an application error for any other answer.
func (r Result) Error() error {
	if r.Err != nil {
		return r.Err
	}
	if !r.OK {
		return NewApplicationError(r.Target, r.Body)
	}
	return nil
}

// failureText is the text shown after "Fehler: ". A failed transport has no
// body, so its short error message stands in for one.
func (r Result) failureText() string {
	if r.Err != nil {
		return GetShortErrorMessage(r.Err)
	}
	return r.Body
}

// NoticeKind selects how a Notice is presented.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeFailure
	NoticeInfo
)

// String returns the lowercase kind name
func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeFailure:
		return "failure"
	default:
		return "info"
	}
}

// Notice is a message for the user derived from a Result.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Presenter turns a Result into a Notice.
type Presenter func(Result) Notice

// Notifier shows a Notice to the user. The CLI renders it to the terminal.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notice)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// Notify returns a Completion that presents the Result with p and hands the
// Notice to n.
func Notify(n Notifier, p Presenter) Completion {
	return func(r Result) {
		n.Notify(p(r))
	}
}

// OKMessage reports a generic success for an "ok" answer and a failure
// embedding the raw answer otherwise.
func OKMessage(r Result) Notice {
	if r.OK {
		return Notice{Kind: NoticeSuccess, Text: MessageActionSucceeded}
	}
	return Notice{Kind: NoticeFailure, Text: MessageFailurePrefix + r.failureText()}
}

// Message shows the raw answer verbatim.
func Message(r Result) Notice {
	if r.Err != nil {
		return Notice{Kind: NoticeFailure, Text: MessageFailurePrefix + r.failureText()}
	}
	return Notice{Kind: NoticeInfo, Text: r.Body}
}

// OpenTimeMessage reports the outcome of opentime_set.
func OpenTimeMessage(r Result) Notice {
	if r.OK {
		return Notice{Kind: NoticeSuccess, Text: MessageOpenTimeChanged}
	}
	return Notice{Kind: NoticeFailure, Text: MessageFailurePrefix + r.failureText()}
}

// ValidationNotice is shown when the open-time fields are missing or not numeric.
func ValidationNotice() Notice {
	return Notice{Kind: NoticeFailure, Text: MessageInvalidTime}
}

// trimAnswer strips the line endings some firmware builds append.
func trimAnswer(body string) string {
	return strings.TrimRight(body, "\r\n")
}
