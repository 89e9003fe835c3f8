package deviceapi

import (
	"strconv"
	"strings"
)

// TargetBuilder assembles a request target of the form
// "endpoint?name=value&name=value".
//
// Values are concatenated verbatim. The firmware's argument parser does not
// decode percent-escapes, so nothing is encoded here.
//
// Example usage:
//
//	target := NewTarget(EndpointOpenTimeSet).
//	    Param("hours", "07").
//	    Param("minutes", "30").
//	    Build()
//	// opentime_set?hours=07&minutes=30
type TargetBuilder struct {
	endpoint string
	params   []param
}

type param struct {
	name  string
	value string
}

// NewTarget starts a target for the given endpoint.
func NewTarget(endpoint string) *TargetBuilder {
	return &TargetBuilder{endpoint: endpoint}
}

// Param appends a query parameter.
func (b *TargetBuilder) Param(name, value string) *TargetBuilder {
	b.params = append(b.params, param{name: name, value: value})
	return b
}

// IntParam appends a decimal integer query parameter.
func (b *TargetBuilder) IntParam(name string, value int) *TargetBuilder {
	return b.Param(name, strconv.Itoa(value))
}

// Build returns the target. Parameters keep the order they were added in.
func (b *TargetBuilder) Build() string {
	if len(b.params) == 0 {
		return b.endpoint
	}

	var sb strings.Builder
	sb.WriteString(b.endpoint)
	for i, p := range b.params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(p.name)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}
	return sb.String()
}
