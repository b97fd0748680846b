package contracts

import (
	"context"
	"encoding/json"

	"xrpl-gateway/go-backend/internal/ledger"
)

// LedgerSessions hands out one connected session per call and closes it
// when fn returns.
type LedgerSessions interface {
	WithSession(ctx context.Context, fn func(*ledger.Session) error) error
}

type FaucetClient interface {
	Fund(ctx context.Context, destination string) (json.RawMessage, error)
}

// SubmissionRecorder counts validated and failed submissions by type.
type SubmissionRecorder func(transactionType, result string)
