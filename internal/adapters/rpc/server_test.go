package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/domains/gateway/model"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
	"xrpl-gateway/go-backend/internal/faucet"
	"xrpl-gateway/go-backend/internal/ledger"
	"xrpl-gateway/go-backend/internal/platform/ratelimiter"
	"xrpl-gateway/go-backend/internal/trustline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	balanceIn policy.BalanceInput
	historyIn policy.HistoryInput
	err       error
}

func (s *stubService) CreateWallet(context.Context, policy.CreateWalletInput) (model.CreateWalletResult, error) {
	return model.CreateWalletResult{Message: "created", Wallet: model.WalletCredentials{Address: "rNew"}}, s.err
}

func (s *stubService) FundWallet(_ context.Context, in policy.FundWalletInput) (model.FundWalletResult, error) {
	if s.err != nil {
		return model.FundWalletResult{}, s.err
	}
	if _, err := policy.ParseFundWalletInput(in); err != nil {
		return model.FundWalletResult{}, err
	}
	return model.FundWalletResult{Message: "funded"}, nil
}

func (s *stubService) CreateTrustLine(context.Context, policy.CreateTrustLineInput) (model.SubmissionReceipt, error) {
	return model.SubmissionReceipt{}, s.err
}

func (s *stubService) IssueToken(context.Context, policy.IssueTokenInput) (model.IssueTokenResult, error) {
	return model.IssueTokenResult{}, s.err
}

func (s *stubService) CreateOffer(context.Context, policy.CreateOfferInput) (model.SubmissionReceipt, error) {
	return model.SubmissionReceipt{}, s.err
}

func (s *stubService) Transfer(context.Context, policy.TransferInput) (model.SubmissionReceipt, error) {
	if s.err != nil {
		return model.SubmissionReceipt{}, s.err
	}
	return model.SubmissionReceipt{Message: "Transfer successful!", Hash: "ABCD", Result: json.RawMessage(`{"validated":true}`)}, nil
}

func (s *stubService) GetBalance(_ context.Context, in policy.BalanceInput) (model.BalanceResult, error) {
	s.balanceIn = in
	return model.BalanceResult{Address: in.Address, XRPBalanceDrops: "10"}, s.err
}

func (s *stubService) GetTransactionHistory(_ context.Context, in policy.HistoryInput) (model.HistoryResult, error) {
	s.historyIn = in
	return model.HistoryResult{Account: in.Address}, s.err
}

func newTestServer(t *testing.T, svc contracts.GatewayAPI, limiter *ratelimiter.MapLimiter) http.Handler {
	t.Helper()
	srv := NewServer(Options{
		Service: svc,
		Limiter: limiter,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTransferRouteReturnsReceipt(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)
	rec := do(t, h, http.MethodPost, "/transfer", `{"destinationAddress":"rDest","currency":"USD","amount":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var receipt model.SubmissionReceipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "Transfer successful!", receipt.Message)
	assert.Equal(t, "ABCD", receipt.Hash)
	assert.JSONEq(t, `{"validated":true}`, string(receipt.Result))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "missing parameter",
			err:     contracts.WrapCategorizedError(contracts.ErrorCategoryParams, &policy.ParameterError{Field: "issuer", Err: policy.ErrMissingParameter}),
			status:  http.StatusBadRequest,
			message: msgMissingParameters,
		},
		{
			name:    "account not found",
			err:     contracts.WrapCategorizedError(contracts.ErrorCategoryLedger, &ledger.NotFoundError{Account: "rX"}),
			status:  http.StatusNotFound,
			message: msgAccountNotFound,
		},
		{
			name:    "missing trust line",
			err:     contracts.WrapCategorizedError(contracts.ErrorCategoryLedger, &trustline.MissingTrustLineError{Currency: "USD", Issuer: "rI"}),
			status:  http.StatusInternalServerError,
			message: "An error occurred during the transfer.",
		},
		{
			name:    "submission failure",
			err:     &ledger.SubmissionError{Code: "tecUNFUNDED_PAYMENT"},
			status:  http.StatusInternalServerError,
			message: "An error occurred during the transfer.",
		},
		{
			name:    "connection failure",
			err:     &ledger.ConnectionError{Endpoint: "wss://x", Err: errors.New("refused")},
			status:  http.StatusInternalServerError,
			message: "An error occurred during the transfer.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(t, &stubService{err: tc.err}, nil)
			rec := do(t, h, http.MethodPost, "/transfer", `{}`)
			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Error)
		})
	}
}

func TestSubmissionFailureCarriesReasonCode(t *testing.T) {
	h := newTestServer(t, &stubService{err: &ledger.SubmissionError{Code: "tecNO_DST"}}, nil)
	rec := do(t, h, http.MethodPost, "/transfer", `{}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, fmt.Sprint(decodeError(t, rec).Details), "tecNO_DST")
}

func TestFaucetErrorKeepsUpstreamStatus(t *testing.T) {
	h := newTestServer(t, &stubService{err: &faucet.Error{StatusCode: 503, Body: `{"error":"busy"}`}}, nil)
	rec := do(t, h, http.MethodPost, "/wallet/fund", `{"destinationAddress":"rX"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"An error occurred while funding the wallet.","details":{"error":"busy"}}`, rec.Body.String())
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)
	rec := do(t, h, http.MethodPost, "/wallet/fund", `{"destinationAddress":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/wallet/fund", ``)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgMissingParameters, decodeError(t, rec).Error)
}

func TestRouteRejectsWrongMethod(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)
	rec := do(t, h, http.MethodGet, "/transfer", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestQueryRoutesReadParameters(t *testing.T) {
	svc := &stubService{}
	h := newTestServer(t, svc, nil)

	rec := do(t, h, http.MethodGet, "/balance?address=rHolder", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rHolder", svc.balanceIn.Address)

	rec = do(t, h, http.MethodGet, "/history?address=rHolder&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.historyIn.Limit)

	rec = do(t, h, http.MethodGet, "/history?address=rHolder&limit=five", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreflightIsNoContent(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/transfer", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightAllowsCredentialHeaders(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/transfer", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Api-Key, Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowed, "authorization")
	assert.Contains(t, allowed, "x-api-key")
}

func TestRateLimitReturns429(t *testing.T) {
	limiter := ratelimiter.New(0.001, 1, time.Minute)
	h := newTestServer(t, &stubService{}, limiter)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/wallet/create", `{}`).Code)
	rec := do(t, h, http.MethodPost, "/wallet/create", `{}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
}

func TestJSONRPCDispatch(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)

	rec := do(t, h, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":1,"method":"wallet.create","params":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result model.CreateWalletResult `json:"result"`
		Error  *rpcError                `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Error)
	assert.Equal(t, "rNew", resp.Result.Wallet.Address)

	rec = do(t, h, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":2,"method":"wallet.fund","params":[{"destinationAddress":"bogus"}]}`)
	resp.Error = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)

	rec = do(t, h, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":3,"method":"wallet.delete"}`)
	resp.Error = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestJSONRPCRejectsTrailingData(t *testing.T) {
	h := newTestServer(t, &stubService{}, nil)
	rec := do(t, h, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":1,"method":"health_check"} {}`)
	assert.Contains(t, rec.Body.String(), "invalid request")

	big := bytes.Repeat([]byte("a"), int(maxBodyBytes)+1)
	rec = do(t, h, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","method":"`+string(big)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
