package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Requester issues a single ledger command.
type Requester interface {
	Request(ctx context.Context, req Request) (json.RawMessage, error)
}

type txStatus struct {
	Hash        string `json:"hash"`
	LedgerIndex uint32 `json:"ledger_index"`
	Validated   bool   `json:"validated"`
	Meta        struct {
		TransactionResult string `json:"TransactionResult"`
	} `json:"meta"`
}

type validatedLedger struct {
	LedgerIndex uint32 `json:"ledger_index"`
}

// AwaitValidation polls the ledger for hash until it appears in a validated
// ledger, the validated ledger passes lastLedger, or ctx ends. Only a
// validated tesSUCCESS is returned as a result.
func AwaitValidation(ctx context.Context, r Requester, hash string, lastLedger uint32, poll time.Duration) (*SubmitResult, error) {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		result, err := checkValidated(ctx, r, hash, lastLedger)
		if err != nil || result != nil {
			return result, err
		}
		select {
		case <-ctx.Done():
			return nil, &SubmissionError{
				Code:    "timeout",
				Message: fmt.Sprintf("transaction was not validated in time: %v", ctx.Err()),
				Hash:    hash,
			}
		case <-ticker.C:
		}
	}
}

// checkValidated returns (nil, nil) while the outcome is still open.
func checkValidated(ctx context.Context, r Requester, hash string, lastLedger uint32) (*SubmitResult, error) {
	raw, err := r.Request(ctx, Request{"command": "tx", "transaction": hash})
	if err != nil {
		if ctx.Err() != nil {
			return nil, &SubmissionError{Code: "timeout", Message: ctx.Err().Error(), Hash: hash}
		}
		if !IsTransactionNotFound(err) {
			return nil, err
		}
		return nil, checkExpired(ctx, r, hash, lastLedger)
	}
	var status txStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, &NetworkError{Command: "tx", Err: fmt.Errorf("decode response: %w", err)}
	}
	if !status.Validated {
		return nil, checkExpired(ctx, r, hash, lastLedger)
	}
	code := status.Meta.TransactionResult
	if code != ResultSuccess {
		return nil, &SubmissionError{Code: code, Message: "transaction was validated with a failure result", Hash: hash}
	}
	return &SubmitResult{
		Hash:              hash,
		LedgerIndex:       status.LedgerIndex,
		Validated:         true,
		TransactionResult: code,
		Raw:               raw,
	}, nil
}

func checkExpired(ctx context.Context, r Requester, hash string, lastLedger uint32) error {
	if lastLedger == 0 {
		return nil
	}
	raw, err := r.Request(ctx, Request{"command": "ledger", "ledger_index": "validated"})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	var current validatedLedger
	if err := json.Unmarshal(raw, &current); err != nil {
		return &NetworkError{Command: "ledger", Err: fmt.Errorf("decode response: %w", err)}
	}
	if current.LedgerIndex > lastLedger {
		return &SubmissionError{
			Code:    "expired",
			Message: fmt.Sprintf("validated ledger %d passed LastLedgerSequence %d", current.LedgerIndex, lastLedger),
			Hash:    hash,
		}
	}
	return nil
}

// IsSubmissionError reports whether err carries a final transaction failure.
func IsSubmissionError(err error) bool {
	var subErr *SubmissionError
	return errors.As(err, &subErr)
}
