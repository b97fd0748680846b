package rpc

import (
	"encoding/json"
	"errors"
	"net/http"

	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
	"xrpl-gateway/go-backend/internal/domains/rpckit"
	"xrpl-gateway/go-backend/internal/faucet"
	"xrpl-gateway/go-backend/internal/ledger"
)

const (
	msgMissingParameters = "Missing required parameters."
	msgInvalidParameters = "Invalid parameters."
	msgAccountNotFound   = "Account not found"
	msgInternal          = "Internal Server Error"
)

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// httpError translates a failed operation into a status and body. failure
// is the operation's own headline for unexpected errors.
func httpError(rpcErr *rpckit.Error, failure string) (int, errorBody) {
	cause := rpcErr.Cause
	var (
		notFound  *ledger.NotFoundError
		faucetErr *faucet.Error
	)
	switch {
	case rpckit.IsInvalidParams(rpcErr):
		return http.StatusBadRequest, errorBody{Error: msgInvalidParameters, Details: "request body is not a valid JSON object"}
	case errors.Is(cause, policy.ErrMissingParameter):
		return http.StatusBadRequest, errorBody{Error: msgMissingParameters, Details: cause.Error()}
	case rpcErr.Code == rpckit.CodeInvalidParams, contracts.ErrorCategory(cause) == contracts.ErrorCategoryParams:
		return http.StatusBadRequest, errorBody{Error: msgInvalidParameters, Details: errorMessage(rpcErr)}
	case errors.As(cause, &notFound):
		return http.StatusNotFound, errorBody{Error: msgAccountNotFound}
	case errors.As(cause, &faucetErr):
		status := faucetErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, errorBody{Error: failure, Details: faucetDetails(faucetErr.Body)}
	default:
		return http.StatusInternalServerError, errorBody{Error: failure, Details: errorMessage(rpcErr)}
	}
}

// faucetDetails passes the faucet's JSON reply through untouched.
func faucetDetails(body string) any {
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}

func errorMessage(rpcErr *rpckit.Error) string {
	if rpcErr.Cause != nil {
		return rpcErr.Cause.Error()
	}
	return rpcErr.Message
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
