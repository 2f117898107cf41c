// Package comerr normalizes raw COM automation failures into a closed
// error taxonomy. The dispatcher guarantees that every error crossing its
// boundary is a *comerr.Error; raw HRESULTs and EXCEPINFO payloads are
// preserved as auxiliary fields for logging.
package comerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a normalized failure.
type Kind string

const (
	// KindConnectionLost means the handle no longer responds and a
	// reconnect is required.
	KindConnectionLost Kind = "connection_lost"
	// KindPreconditionFailed means the operation requires application
	// state that is not present (e.g. no presentation open).
	KindPreconditionFailed Kind = "precondition_failed"
	// KindInvalidArgument means a parameter was rejected by the COM
	// interface.
	KindInvalidArgument Kind = "invalid_argument"
	// KindTimeout means the caller-side deadline expired before the call
	// completed. The worker may still be occupied by the call.
	KindTimeout Kind = "timeout"
	// KindExecutorNotRunning means the request was submitted outside the
	// executor's Running state.
	KindExecutorNotRunning Kind = "executor_not_running"
	// KindUnknown covers any unrecognized failure signature.
	KindUnknown Kind = "unknown"
)

// RawError is the raw failure record produced by the COM layer, before
// normalization. It mirrors what an automation HRESULT plus EXCEPINFO
// carries: the numeric code, the system message, and the server-supplied
// source and description strings.
type RawError struct {
	HResult     uint32
	Message     string
	Source      string
	Description string
}

func (e *RawError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("com error 0x%08X: %s (%s)", e.HResult, e.Message, e.Description)
	}
	return fmt.Sprintf("com error 0x%08X: %s", e.HResult, e.Message)
}

// Error is the normalized failure value delivered to callers.
type Error struct {
	Kind           Kind
	Message        string
	RawCode        uint32
	RawSource      string
	RawDescription string
	// Retry holds the outcome of the single automatic reconnect+retry
	// when that retry also failed. Nil otherwise.
	Retry error
}

func (e *Error) Error() string {
	if e.Retry != nil {
		return fmt.Sprintf("%s: %s (retry after reconnect: %v)", e.Kind, e.Message, e.Retry)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is match on kind sentinels produced by New.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New builds a normalized error with the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Well-known HRESULTs observed from PowerPoint automation.
const (
	hrRPCServerUnavailable  = 0x800706BA // RPC server is unavailable
	hrRPCCallFailed         = 0x800706BE // remote procedure call failed
	hrRPCDisconnected       = 0x80010108 // object invoked has disconnected
	hrRPCServerDied         = 0x80010007 // RPC server died
	hrCallRejected          = 0x80010001 // call was rejected by callee
	hrInvalidArg            = 0x80070057 // E_INVALIDARG
	hrDispTypeMismatch      = 0x80020005 // DISP_E_TYPEMISMATCH
	hrDispBadParamCount     = 0x8002000E // DISP_E_BADPARAMCOUNT
	hrDispMemberNotFound    = 0x80020003 // DISP_E_MEMBERNOTFOUND
	hrDispException         = 0x80020009 // DISP_E_EXCEPTION; classify by description
	hrCoNotInitialized      = 0x800401F0 // CO_E_NOTINITIALIZED
	hrMkUnavailable         = 0x800401E3 // MK_E_UNAVAILABLE (GetActiveObject miss)
	hrClassNotRegistered    = 0x80040154 // REGDB_E_CLASSNOTREG
	hrServerExecFailed      = 0x80080005 // CO_E_SERVER_EXEC_FAILURE
)

// connectionLostCodes are HRESULTs that always mean the live handle is gone.
var connectionLostCodes = map[uint32]bool{
	hrRPCServerUnavailable: true,
	hrRPCCallFailed:        true,
	hrRPCDisconnected:      true,
	hrRPCServerDied:        true,
	hrCoNotInitialized:     true,
	hrMkUnavailable:        true,
	hrClassNotRegistered:   true,
	hrServerExecFailed:     true,
}

// invalidArgumentCodes are HRESULTs for parameters rejected at the
// dispatch boundary.
var invalidArgumentCodes = map[uint32]bool{
	hrInvalidArg:         true,
	hrDispTypeMismatch:   true,
	hrDispBadParamCount:  true,
	hrDispMemberNotFound: true,
}

// Description fragments recognized in PowerPoint's DISP_E_EXCEPTION
// payloads. Matching is case-insensitive substring.
var preconditionSignatures = []string{
	"no presentation is open",
	"no active document",
	"no slide is currently",
	"there is no active",
	"no window is available",
	"presentation is read-only",
}

var invalidArgumentSignatures = []string{
	"invalid argument",
	"the specified value is out of range",
	"index out of range",
	"invalid request",
	"type mismatch",
	"the item with the specified name wasn't found",
}

var connectionLostSignatures = []string{
	"remote procedure call failed",
	"the object invoked has disconnected",
	"rpc server is unavailable",
	"application-defined or object-defined error", // PPT after process death
}

// PreconditionError marks a failure raised by a handler itself when
// required application state is missing. Normalize maps it to
// KindPreconditionFailed verbatim.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// Preconditionf builds a PreconditionError.
func Preconditionf(format string, args ...interface{}) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// ArgumentError marks a parameter rejected by a handler before it ever
// reaches COM.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string { return e.Reason }

// Argumentf builds an ArgumentError.
func Argumentf(format string, args ...interface{}) error {
	return &ArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// Normalize converts any error into a *Error. It never panics and never
// returns nil for non-nil input. Already-normalized errors pass through
// unchanged.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var norm *Error
	if errors.As(err, &norm) {
		return norm
	}

	var pre *PreconditionError
	if errors.As(err, &pre) {
		return &Error{Kind: KindPreconditionFailed, Message: pre.Reason}
	}

	var arg *ArgumentError
	if errors.As(err, &arg) {
		return &Error{Kind: KindInvalidArgument, Message: arg.Reason}
	}

	var raw *RawError
	if errors.As(err, &raw) {
		return normalizeRaw(raw)
	}

	return &Error{Kind: KindUnknown, Message: err.Error()}
}

func normalizeRaw(raw *RawError) *Error {
	e := &Error{
		Message:        raw.Message,
		RawCode:        raw.HResult,
		RawSource:      raw.Source,
		RawDescription: raw.Description,
	}
	if e.Message == "" {
		e.Message = raw.Description
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("com error 0x%08X", raw.HResult)
	}

	switch {
	case connectionLostCodes[raw.HResult]:
		e.Kind = KindConnectionLost
	case invalidArgumentCodes[raw.HResult]:
		e.Kind = KindInvalidArgument
	default:
		e.Kind = classifyDescription(raw)
	}
	return e
}

func classifyDescription(raw *RawError) Kind {
	text := strings.ToLower(raw.Description + " " + raw.Message)
	for _, sig := range preconditionSignatures {
		if strings.Contains(text, sig) {
			return KindPreconditionFailed
		}
	}
	for _, sig := range invalidArgumentSignatures {
		if strings.Contains(text, sig) {
			return KindInvalidArgument
		}
	}
	for _, sig := range connectionLostSignatures {
		if strings.Contains(text, sig) {
			return KindConnectionLost
		}
	}
	return KindUnknown
}

// IsConnectionLost reports whether err normalizes to KindConnectionLost.
// The dispatcher uses this to decide the single reconnect+retry.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	return Normalize(err).Kind == KindConnectionLost
}
