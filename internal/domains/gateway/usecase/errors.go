package usecase

import (
	"errors"

	"xrpl-gateway/go-backend/internal/amount"
	"xrpl-gateway/go-backend/internal/currency"
	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
	"xrpl-gateway/go-backend/internal/faucet"
	"xrpl-gateway/go-backend/internal/ledger"
	"xrpl-gateway/go-backend/internal/trustline"
)

// Classify maps an operation failure to its error category.
func Classify(err error) string {
	var (
		paramErr    *policy.ParameterError
		currencyErr *currency.InvalidCurrencyError
		notFound    *ledger.NotFoundError
		submitErr   *ledger.SubmissionError
		lineErr     *trustline.MissingTrustLineError
		connErr     *ledger.ConnectionError
		netErr      *ledger.NetworkError
		faucetErr   *faucet.Error
	)
	switch {
	case errors.As(err, &paramErr), errors.As(err, &currencyErr), errors.Is(err, amount.ErrInvalidAmount):
		return contracts.ErrorCategoryParams
	case errors.As(err, &notFound), errors.As(err, &submitErr), errors.As(err, &lineErr):
		return contracts.ErrorCategoryLedger
	case errors.As(err, &connErr), errors.As(err, &netErr):
		return contracts.ErrorCategoryNetwork
	case errors.As(err, &faucetErr):
		return contracts.ErrorCategoryFaucet
	default:
		return contracts.ErrorCategoryAPI
	}
}
