package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	gatewayrpc "xrpl-gateway/go-backend/internal/domains/gateway/adapters/rpc"
	"xrpl-gateway/go-backend/internal/domains/rpckit"
)

// route binds an HTTP path to a gateway method. Failure is the headline
// returned when the operation fails unexpectedly.
type route struct {
	Path    string
	Method  string
	RPC     string
	Failure string
}

var routes = []route{
	{"/wallet/create", http.MethodPost, gatewayrpc.MethodWalletCreate, "An unexpected error occurred while generating wallet credentials."},
	{"/wallet/fund", http.MethodPost, gatewayrpc.MethodWalletFund, "An error occurred while funding the wallet."},
	{"/trustline/create", http.MethodPost, gatewayrpc.MethodTrustLineCreate, "An error occurred while creating the trust line."},
	{"/token/issue", http.MethodPost, gatewayrpc.MethodTokenIssue, "An error occurred during token issuance."},
	{"/offer/create", http.MethodPost, gatewayrpc.MethodOfferCreate, "An error occurred while creating the offer."},
	{"/transfer", http.MethodPost, gatewayrpc.MethodPaymentTransfer, "An error occurred during the transfer."},
	{"/balance", http.MethodGet, gatewayrpc.MethodAccountBalance, msgInternal},
	{"/history", http.MethodGet, gatewayrpc.MethodAccountHistory, msgInternal},
}

func (s *Server) routeHandler(rt route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != rt.Method {
			w.Header().Set("Allow", rt.Method)
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
			return
		}
		params, status, body := requestParams(w, r, rt)
		if status != 0 {
			writeJSON(w, status, body)
			return
		}

		started := time.Now()
		ctx, cancel := s.operationContext(r)
		defer cancel()
		result, rpcErr, _ := gatewayrpc.Dispatch(ctx, s.service, rt.RPC, params)
		if rpcErr != nil {
			status, body := httpError(rpcErr, rt.Failure)
			s.logger.Error("operation failed",
				"component", "rpc",
				"operation", rt.RPC,
				"request_id", requestID(r.Context()),
				"status", status,
				"error", errorMessage(rpcErr),
				"latency_ms", time.Since(started).Milliseconds(),
			)
			writeJSON(w, status, body)
			return
		}
		s.logger.Info("operation completed",
			"component", "rpc",
			"operation", rt.RPC,
			"request_id", requestID(r.Context()),
			"latency_ms", time.Since(started).Milliseconds(),
		)
		writeJSON(w, http.StatusOK, result)
	})
}

// requestParams reads a POST body as-is, or turns GET query parameters into
// the equivalent JSON object. A non-zero status means the request was
// rejected.
func requestParams(w http.ResponseWriter, r *http.Request, rt route) (json.RawMessage, int, errorBody) {
	if rt.Method == http.MethodGet {
		query := r.URL.Query()
		params := map[string]any{"address": strings.TrimSpace(query.Get("address"))}
		if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				return nil, http.StatusBadRequest, errorBody{Error: msgInvalidParameters, Details: "limit must be an integer"}
			}
			params["limit"] = limit
		}
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, http.StatusInternalServerError, errorBody{Error: msgInternal}
		}
		return encoded, 0, errorBody{}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, errorBody{Error: "Request body too large"}
		}
		return nil, http.StatusBadRequest, errorBody{Error: msgInvalidParameters, Details: err.Error()}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		status, eb := httpError(rpckit.InvalidParams(), rt.Failure)
		return nil, status, eb
	}
	return body, 0, errorBody{}
}
