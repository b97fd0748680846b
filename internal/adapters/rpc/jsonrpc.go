package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"xrpl-gateway/go-backend/internal/domains/contracts"
	gatewayrpc "xrpl-gateway/go-backend/internal/domains/gateway/adapters/rpc"
	"xrpl-gateway/go-backend/internal/domains/rpckit"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req rpcRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeRPC(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: -32700, Message: "parse error"},
		})
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeRPCInvalidRequest(w, req.ID)
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeRPCInvalidRequest(w, req.ID)
		return
	}

	reqID := requestID(r.Context())
	started := time.Now()
	s.logger.Info("rpc request", "component", "rpc", "request_id", reqID, "method", req.Method, "rpc_id", string(req.ID))

	ctx, cancel := s.operationContext(r)
	defer cancel()
	result, rpcErr := s.dispatchRPC(ctx, req.Method, req.Params)
	if rpcErr != nil {
		s.logger.Error("rpc failed", "component", "rpc", "request_id", reqID, "method", req.Method, "rpc_code", rpcErr.Code, "latency_ms", time.Since(started).Milliseconds())
	} else {
		s.logger.Info("rpc response", "component", "rpc", "request_id", reqID, "method", req.Method, "latency_ms", time.Since(started).Milliseconds())
	}
	writeRPC(w, rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   rpcErr,
	})
}

func (s *Server) dispatchRPC(ctx context.Context, method string, rawParams json.RawMessage) (any, *rpcError) {
	switch method {
	case "health_check":
		return map[string]string{"status": "ok"}, nil
	case "rpc.methods":
		return gatewayrpc.Methods(), nil
	}
	if result, rpcErr, ok := gatewayrpc.Dispatch(ctx, s.service, method, rawParams); ok {
		if rpcErr != nil {
			return nil, toRPCError(rpcErr)
		}
		return result, nil
	}
	return nil, toRPCError(rpckit.MethodNotFound())
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeRPCInvalidRequest(w http.ResponseWriter, id json.RawMessage) {
	writeRPC(w, rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: -32600, Message: "invalid request"},
	})
}

func toRPCError(e *rpckit.Error) *rpcError {
	out := &rpcError{Code: e.Code, Message: e.Message}
	if e.Cause != nil && !rpckit.IsInvalidParams(e) {
		out.Data = map[string]string{"category": contracts.ErrorCategory(e.Cause)}
	}
	return out
}
