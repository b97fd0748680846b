package rpckit

import "errors"

const (
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
)

// Error is a transport-level RPC error that can be mapped by the caller
// to a concrete wire format (JSON-RPC error object or HTTP status). Cause
// keeps the service error for that mapping and is never serialized.
type Error struct {
	Code    int
	Message string
	Cause   error
}

func InvalidParams() *Error {
	return &Error{Code: CodeInvalidParams, Message: "invalid params", Cause: errInvalidParams}
}

// InvalidParamsWith reports err, a rejected request parameter.
func InvalidParamsWith(err error) *Error {
	return &Error{Code: CodeInvalidParams, Message: err.Error(), Cause: err}
}

func MethodNotFound() *Error {
	return &Error{Code: CodeMethodNotFound, Message: "method not found"}
}

func ServiceError(code int, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Cause: err}
}

var errInvalidParams = errors.New("invalid params")

// IsInvalidParams reports whether e came from request decoding rather than
// from the service.
func IsInvalidParams(e *Error) bool {
	return e != nil && errors.Is(e.Cause, errInvalidParams)
}
