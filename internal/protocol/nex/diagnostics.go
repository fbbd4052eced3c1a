package nex

import "fmt"

// DiagnosticKind names a recoverable decode condition.
type DiagnosticKind string

const (
	DiagUnknownMethod       DiagnosticKind = "unknown_method"
	DiagUnresolvedType      DiagnosticKind = "unresolved_polymorphic_type"
	DiagMalformedStationURL DiagnosticKind = "malformed_station_url"
	DiagOutOfRangeVariant   DiagnosticKind = "out_of_range_variant_tag"
	DiagLengthMismatch      DiagnosticKind = "length_mismatch"
	DiagTrailingBytes       DiagnosticKind = "trailing_bytes"
)

// Diagnostic is a condition that was tolerated during decoding. Diagnostics
// never abort a decode.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind" msgpack:"kind"`
	Offset int            `json:"offset" msgpack:"offset"`
	Detail string         `json:"detail" msgpack:"detail"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at offset %d: %s", d.Kind, d.Offset, d.Detail)
}
