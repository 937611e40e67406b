package ogc

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so consumers can map it to their
// own surface (HTTP status, rendered message) without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidEndpoint
	KindTimeout
	KindHTTPStatus
	KindPayloadTooLarge
	KindTransport
	KindMalformedDocument
	KindCapabilitiesUnavailable
	KindUnknownService
)

func (k Kind) String() string {
	switch k {
	case KindInvalidEndpoint:
		return "invalid_endpoint"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindTransport:
		return "transport"
	case KindMalformedDocument:
		return "malformed_document"
	case KindCapabilitiesUnavailable:
		return "capabilities_unavailable"
	case KindUnknownService:
		return "unknown_service"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by the capabilities pipeline.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// truncate bounds an error description; negotiation failures carry at
// most the tail description of the last attempt.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
