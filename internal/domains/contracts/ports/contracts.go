package ports

import (
	"context"

	"xrpl-gateway/go-backend/internal/domains/gateway/model"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
)

// WalletAPI is a transport-neutral wallet provisioning contract.
type WalletAPI interface {
	CreateWallet(ctx context.Context, in policy.CreateWalletInput) (model.CreateWalletResult, error)
	FundWallet(ctx context.Context, in policy.FundWalletInput) (model.FundWalletResult, error)
}

// TokenAPI covers trust lines, issuance and the order book.
type TokenAPI interface {
	CreateTrustLine(ctx context.Context, in policy.CreateTrustLineInput) (model.SubmissionReceipt, error)
	IssueToken(ctx context.Context, in policy.IssueTokenInput) (model.IssueTokenResult, error)
	CreateOffer(ctx context.Context, in policy.CreateOfferInput) (model.SubmissionReceipt, error)
}

type PaymentAPI interface {
	Transfer(ctx context.Context, in policy.TransferInput) (model.SubmissionReceipt, error)
}

// AccountAPI is read-only.
type AccountAPI interface {
	GetBalance(ctx context.Context, in policy.BalanceInput) (model.BalanceResult, error)
	GetTransactionHistory(ctx context.Context, in policy.HistoryInput) (model.HistoryResult, error)
}

// GatewayAPI is the full operation set served by the daemon.
type GatewayAPI interface {
	WalletAPI
	TokenAPI
	PaymentAPI
	AccountAPI
}

type CategorizedError struct {
	Category string
	Err      error
}

func (e *CategorizedError) Error() string {
	return e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}
