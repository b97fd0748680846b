package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
	"xrpl-gateway/go-backend/internal/domains/rpckit"
)

const (
	MethodWalletCreate    = "wallet.create"
	MethodWalletFund      = "wallet.fund"
	MethodTrustLineCreate = "trustline.create"
	MethodTokenIssue      = "token.issue"
	MethodOfferCreate     = "offer.create"
	MethodPaymentTransfer = "payment.transfer"
	MethodAccountBalance  = "account.balance"
	MethodAccountHistory  = "account.history"
)

// Methods lists every method Dispatch serves.
func Methods() []string {
	return []string{
		MethodWalletCreate,
		MethodWalletFund,
		MethodTrustLineCreate,
		MethodTokenIssue,
		MethodOfferCreate,
		MethodPaymentTransfer,
		MethodAccountBalance,
		MethodAccountHistory,
	}
}

func Dispatch(ctx context.Context, service contracts.GatewayAPI, method string, rawParams json.RawMessage) (any, *rpckit.Error, bool) {
	switch method {
	case MethodWalletCreate:
		result, rpcErr := callWithParams(rawParams, -32200, func(in policy.CreateWalletInput) (any, error) {
			return service.CreateWallet(ctx, in)
		})
		return result, rpcErr, true
	case MethodWalletFund:
		result, rpcErr := callWithParams(rawParams, -32201, func(in policy.FundWalletInput) (any, error) {
			return service.FundWallet(ctx, in)
		})
		return result, rpcErr, true
	case MethodTrustLineCreate:
		result, rpcErr := callWithParams(rawParams, -32210, func(in policy.CreateTrustLineInput) (any, error) {
			return service.CreateTrustLine(ctx, in)
		})
		return result, rpcErr, true
	case MethodTokenIssue:
		result, rpcErr := callWithParams(rawParams, -32211, func(in policy.IssueTokenInput) (any, error) {
			return service.IssueToken(ctx, in)
		})
		return result, rpcErr, true
	case MethodOfferCreate:
		result, rpcErr := callWithParams(rawParams, -32212, func(in policy.CreateOfferInput) (any, error) {
			return service.CreateOffer(ctx, in)
		})
		return result, rpcErr, true
	case MethodPaymentTransfer:
		result, rpcErr := callWithParams(rawParams, -32220, func(in policy.TransferInput) (any, error) {
			return service.Transfer(ctx, in)
		})
		return result, rpcErr, true
	case MethodAccountBalance:
		result, rpcErr := callWithParams(rawParams, -32230, func(in policy.BalanceInput) (any, error) {
			return service.GetBalance(ctx, in)
		})
		return result, rpcErr, true
	case MethodAccountHistory:
		result, rpcErr := callWithParams(rawParams, -32231, func(in policy.HistoryInput) (any, error) {
			return service.GetTransactionHistory(ctx, in)
		})
		return result, rpcErr, true
	default:
		return nil, nil, false
	}
}

func callWithParams[T any](rawParams json.RawMessage, serviceErrCode int, call func(T) (any, error)) (any, *rpckit.Error) {
	params, err := decodeSingleOrDirect[T](rawParams)
	if err != nil {
		return nil, rpckit.InvalidParams()
	}
	result, err := call(params)
	if err != nil {
		var paramErr *policy.ParameterError
		if errors.As(err, &paramErr) {
			return nil, rpckit.InvalidParamsWith(err)
		}
		return nil, rpckit.ServiceError(serviceErrCode, err)
	}
	return result, nil
}

// decodeSingleOrDirect accepts params as a one-element array or as the
// object itself. Absent params decode to the zero value.
func decodeSingleOrDirect[T any](raw json.RawMessage) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, nil
	}
	var arr []T
	if err := json.Unmarshal(trimmed, &arr); err == nil && len(arr) == 1 {
		return arr[0], nil
	}
	var direct T
	if err := json.Unmarshal(trimmed, &direct); err == nil {
		return direct, nil
	}
	return zero, errors.New("invalid params")
}
