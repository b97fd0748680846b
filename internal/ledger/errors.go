package ledger

import (
	"errors"
	"fmt"
)

const (
	ResultSuccess = "tesSUCCESS"

	errorAccountNotFound = "actNotFound"
	errorTxnNotFound     = "txnNotFound"
)

var (
	ErrSessionClosed       = errors.New("ledger session is closed")
	ErrSessionNotConnected = errors.New("ledger session is not connected")
	ErrSessionBusy         = errors.New("ledger session is busy")
)

type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to ledger %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NetworkError is a failed query that is not a missing account.
type NetworkError struct {
	Command string
	Code    string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ledger %s failed: %s: %v", e.Command, e.Code, e.Err)
	}
	return fmt.Sprintf("ledger %s failed: %v", e.Command, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Account string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Account == "" {
		return "account not found"
	}
	return fmt.Sprintf("account %s not found", e.Account)
}

// SubmissionError reports a transaction that failed for good. Code is the
// ledger's result code, or "timeout" / "expired" when no final result was
// observed in time.
type SubmissionError struct {
	Code    string
	Message string
	Hash    string
}

func (e *SubmissionError) Error() string {
	if e.Message == "" {
		return "transaction failed: " + e.Code
	}
	return fmt.Sprintf("transaction failed: %s: %s", e.Code, e.Message)
}

// ResponseError builds the typed error for an error response to command.
func ResponseError(command, code, message string, request Request) error {
	if code == errorAccountNotFound {
		account, _ := request["account"].(string)
		return &NotFoundError{Account: account, Message: message}
	}
	if message == "" {
		message = code
	}
	return &NetworkError{Command: command, Code: code, Err: errors.New(message)}
}

// IsTransactionNotFound reports whether err is the ledger's answer for a hash
// it has not seen yet.
func IsTransactionNotFound(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.Code == errorTxnNotFound
}

// IsFinalPreliminary reports whether a preliminary submit result can never
// turn into a success: malformed, past-sequence and local failures.
func IsFinalPreliminary(code string) bool {
	if len(code) < 3 {
		return false
	}
	switch code[:3] {
	case "tem", "tef", "tel":
		return true
	}
	return false
}
