package wsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"xrpl-gateway/go-backend/internal/ledger"
	"xrpl-gateway/go-backend/internal/txbuilder"
)

type feeResult struct {
	Drops struct {
		BaseFee       string `json:"base_fee"`
		OpenLedgerFee string `json:"open_ledger_fee"`
	} `json:"drops"`
}

type ledgerCurrentResult struct {
	LedgerCurrentIndex uint32 `json:"ledger_current_index"`
}

// Autofill sets Sequence, Fee and LastLedgerSequence when tx lacks them.
func (c *Client) Autofill(ctx context.Context, tx txbuilder.Payload) (txbuilder.Payload, error) {
	filled := tx.Clone()
	if _, ok := filled["Sequence"]; !ok {
		var info ledger.AccountInfoResult
		err := c.call(ctx, ledger.Request{
			"command":      "account_info",
			"account":      filled.Account(),
			"ledger_index": "current",
		}, &info)
		if err != nil {
			return nil, err
		}
		filled["Sequence"] = info.AccountData.Sequence
	}
	if _, ok := filled["Fee"]; !ok {
		fee, err := c.openLedgerFee(ctx)
		if err != nil {
			return nil, err
		}
		filled["Fee"] = fee
	}
	if _, ok := filled["LastLedgerSequence"]; !ok {
		var current ledgerCurrentResult
		if err := c.call(ctx, ledger.Request{"command": "ledger_current"}, &current); err != nil {
			return nil, err
		}
		filled["LastLedgerSequence"] = current.LedgerCurrentIndex + ledger.LastLedgerOffset
	}
	return filled, nil
}

// openLedgerFee is the fee needed to get into the open ledger, never below
// the reference base fee.
func (c *Client) openLedgerFee(ctx context.Context) (string, error) {
	var fee feeResult
	if err := c.call(ctx, ledger.Request{"command": "fee"}, &fee); err != nil {
		return "", err
	}
	base, err := strconv.ParseUint(fee.Drops.BaseFee, 10, 64)
	if err != nil {
		return "", &ledger.NetworkError{Command: "fee", Err: fmt.Errorf("base fee %q: %w", fee.Drops.BaseFee, err)}
	}
	open, err := strconv.ParseUint(fee.Drops.OpenLedgerFee, 10, 64)
	if err != nil || open < base {
		open = base
	}
	return strconv.FormatUint(open, 10), nil
}

// SubmitAndWait submits a signed blob and blocks until it is validated or
// fails for good.
func (c *Client) SubmitAndWait(ctx context.Context, blob, hash string, lastLedger uint32) (*ledger.SubmitResult, error) {
	var submitted struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
	}
	if err := c.call(ctx, ledger.Request{"command": "submit", "tx_blob": blob}, &submitted); err != nil {
		return nil, err
	}
	c.logger.Debug("transaction submitted",
		"hash", hash,
		"engine_result", submitted.EngineResult,
	)
	if ledger.IsFinalPreliminary(submitted.EngineResult) {
		return nil, &ledger.SubmissionError{
			Code:    submitted.EngineResult,
			Message: submitted.EngineResultMessage,
			Hash:    hash,
		}
	}
	return ledger.AwaitValidation(ctx, c, hash, lastLedger, c.cfg.PollInterval)
}

func (c *Client) call(ctx context.Context, req ledger.Request, out any) error {
	raw, err := c.Request(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ledger.NetworkError{Command: req.Command(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
