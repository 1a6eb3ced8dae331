package client

import "fmt"

// Messages shown to the user for each failure kind.
const (
	MsgHTTPStatus = "Failed to analyze repositories"
	MsgNetwork    = "Could not reach the analysis service"
	MsgDecode     = "Invalid analysis response"
	MsgFallback   = "Something went wrong"
)

// ErrorKind classifies why an analysis call failed.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindHTTPStatus
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Analyze. Its Error method is the
// human-readable message displayed in the error panel.
type Error struct {
	Kind       ErrorKind
	StatusCode int   // set for KindHTTPStatus and KindDecode
	Err        error // underlying cause; nil for KindHTTPStatus
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return MsgHTTPStatus
	case KindNetwork:
		if e.Err == nil {
			return MsgFallback
		}
		return fmt.Sprintf("%s: %v", MsgNetwork, e.Err)
	case KindDecode:
		if e.Err == nil {
			return MsgFallback
		}
		return fmt.Sprintf("%s: %v", MsgDecode, e.Err)
	default:
		return MsgFallback
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
