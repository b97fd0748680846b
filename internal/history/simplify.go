// Package history flattens raw ledger transaction records into summaries
// with decoded currencies, values and memos.
package history

import (
	"bytes"
	"encoding/json"
	"time"

	"xrpl-gateway/go-backend/internal/amount"
	"xrpl-gateway/go-backend/internal/currency"
)

const (
	TypeUnknown = "Unknown"

	IncompleteRecord = "Incomplete or non-standard transaction data"

	// rippleEpochOffset is the number of seconds between the Unix epoch and
	// 2000-01-01T00:00:00Z, the ledger's time origin.
	rippleEpochOffset = 946684800
	deliveredUnknown  = "unavailable"
)

type Summary struct {
	Type           string  `json:"type"`
	Datetime       string  `json:"datetime,omitempty"`
	Hash           string  `json:"hash,omitempty"`
	Account        string  `json:"Account,omitempty"`
	Fee            string  `json:"Fee,omitempty"`
	LedgerIndex    uint32  `json:"ledger_index,omitempty"`
	Sequence       uint32  `json:"Sequence,omitempty"`
	Destination    string  `json:"Destination,omitempty"`
	DestinationTag *uint32 `json:"DestinationTag,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	Value          string  `json:"value,omitempty"`
	Issuer         string  `json:"issuer,omitempty"`
	Memo           string  `json:"Memo,omitempty"`
	Error          string  `json:"error,omitempty"`
}

type envelope struct {
	TxJSON       json.RawMessage `json:"tx_json"`
	Tx           json.RawMessage `json:"tx"`
	Meta         json.RawMessage `json:"meta"`
	Hash         string          `json:"hash"`
	LedgerIndex  uint32          `json:"ledger_index"`
	CloseTimeISO string          `json:"close_time_iso"`
}

type body struct {
	TransactionType string               `json:"TransactionType"`
	Account         string               `json:"Account"`
	Fee             string               `json:"Fee"`
	Sequence        uint32               `json:"Sequence"`
	Destination     string               `json:"Destination"`
	DestinationTag  *uint32              `json:"DestinationTag"`
	Amount          json.RawMessage      `json:"Amount"`
	DeliverMax      json.RawMessage      `json:"DeliverMax"`
	LimitAmount     *amount.IssuedAmount `json:"LimitAmount"`
	Memos           []struct {
		Memo struct {
			MemoData string `json:"MemoData"`
		} `json:"Memo"`
	} `json:"Memos"`

	// Only API v1 places these inside the transaction.
	Hash        string `json:"hash"`
	LedgerIndex uint32 `json:"ledger_index"`
	Date        *int64 `json:"date"`
}

type meta struct {
	DeliveredAmount json.RawMessage `json:"delivered_amount"`
}

// Simplify never fails: records it cannot read become a summary of type
// Unknown carrying an error marker.
func Simplify(raw json.RawMessage) Summary {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Summary{Type: TypeUnknown, Error: IncompleteRecord}
	}
	txRaw := env.TxJSON
	if isEmpty(txRaw) {
		txRaw = env.Tx
	}
	var tx body
	if isEmpty(txRaw) || json.Unmarshal(txRaw, &tx) != nil || tx.TransactionType == "" {
		return Summary{
			Type:        TypeUnknown,
			Datetime:    env.CloseTimeISO,
			Hash:        env.Hash,
			LedgerIndex: env.LedgerIndex,
			Error:       IncompleteRecord,
		}
	}

	summary := Summary{
		Type:        tx.TransactionType,
		Datetime:    env.CloseTimeISO,
		Hash:        firstNonEmpty(env.Hash, tx.Hash),
		Account:     tx.Account,
		Fee:         tx.Fee,
		LedgerIndex: env.LedgerIndex,
		Sequence:    tx.Sequence,
	}
	if summary.LedgerIndex == 0 {
		summary.LedgerIndex = tx.LedgerIndex
	}
	if summary.Datetime == "" && tx.Date != nil {
		summary.Datetime = time.Unix(*tx.Date+rippleEpochOffset, 0).UTC().Format(time.RFC3339)
	}

	switch tx.TransactionType {
	case "Payment":
		summary.Destination = tx.Destination
		summary.DestinationTag = tx.DestinationTag
		applyAmount(&summary, paymentAmount(env.Meta, tx))
	case "TrustSet":
		if tx.LimitAmount != nil {
			summary.Currency = currency.Decode(tx.LimitAmount.Currency)
			summary.Value = tx.LimitAmount.Value
			summary.Issuer = tx.LimitAmount.Issuer
		}
	}

	if len(tx.Memos) > 0 && tx.Memos[0].Memo.MemoData != "" {
		summary.Memo = currency.DecodeMemo(tx.Memos[0].Memo.MemoData)
	}
	return summary
}

func SimplifyAll(records []json.RawMessage) []Summary {
	out := make([]Summary, 0, len(records))
	for _, record := range records {
		out = append(out, Simplify(record))
	}
	return out
}

// paymentAmount prefers what execution actually delivered over what was
// requested.
func paymentAmount(rawMeta json.RawMessage, tx body) *amount.Amount {
	var m meta
	if !isEmpty(rawMeta) && json.Unmarshal(rawMeta, &m) == nil {
		if delivered := decodeAmount(m.DeliveredAmount); delivered != nil {
			return delivered
		}
	}
	if requested := decodeAmount(tx.Amount); requested != nil {
		return requested
	}
	return decodeAmount(tx.DeliverMax)
}

func decodeAmount(raw json.RawMessage) *amount.Amount {
	if isEmpty(raw) {
		return nil
	}
	var a amount.Amount
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil
	}
	if a.IsNative() && (a.Drops == "" || a.Drops == deliveredUnknown) {
		return nil
	}
	return &a
}

func applyAmount(summary *Summary, a *amount.Amount) {
	if a == nil {
		return
	}
	if a.IsNative() {
		summary.Currency = currency.NativeSymbol
		value, err := amount.DropsToNative(a.Drops)
		if err != nil {
			value = a.Drops
		}
		summary.Value = value
		return
	}
	summary.Currency = currency.Decode(a.Issued.Currency)
	summary.Value = a.Issued.Value
	summary.Issuer = a.Issued.Issuer
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
