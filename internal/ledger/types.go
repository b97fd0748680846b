package ledger

import (
	"encoding/json"
	"time"
)

const (
	DefaultValidationTimeout = 30 * time.Second
	DefaultPollInterval      = time.Second
	DefaultRequestTimeout    = 10 * time.Second
	DefaultDialTimeout       = 10 * time.Second

	// LastLedgerOffset is how many ledgers past the current one a submitted
	// transaction stays eligible for inclusion.
	LastLedgerOffset = 20
)

// Config is resolved once at startup and handed to every session.
type Config struct {
	Endpoint          string
	DialTimeout       time.Duration
	RequestTimeout    time.Duration
	ValidationTimeout time.Duration
	PollInterval      time.Duration
}

func (c Config) WithDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.ValidationTimeout <= 0 {
		c.ValidationTimeout = DefaultValidationTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Request is a ledger API command. The "command" key names it.
type Request map[string]any

func (r Request) Command() string {
	v, _ := r["command"].(string)
	return v
}

type TrustLine struct {
	Account      string `json:"account"`
	Balance      string `json:"balance"`
	Currency     string `json:"currency"`
	Limit        string `json:"limit"`
	LimitPeer    string `json:"limit_peer"`
	NoRipple     bool   `json:"no_ripple,omitempty"`
	NoRipplePeer bool   `json:"no_ripple_peer,omitempty"`
}

type AccountLinesResult struct {
	Account string          `json:"account"`
	Lines   []TrustLine     `json:"lines"`
	Marker  json.RawMessage `json:"marker,omitempty"`
}

type AccountRoot struct {
	Account  string `json:"Account"`
	Balance  string `json:"Balance"`
	Sequence uint32 `json:"Sequence"`
	Domain   string `json:"Domain,omitempty"`
	Flags    uint32 `json:"Flags"`
}

type AccountInfoResult struct {
	AccountData AccountRoot `json:"account_data"`
	LedgerIndex uint32      `json:"ledger_index,omitempty"`
	Validated   bool        `json:"validated"`
}

type AccountTxResult struct {
	Account      string            `json:"account"`
	Marker       json.RawMessage   `json:"marker,omitempty"`
	Transactions []json.RawMessage `json:"transactions"`
}

// SubmitResult is the validated outcome of a submission. Raw holds the
// ledger's full transaction response.
type SubmitResult struct {
	Hash              string          `json:"hash"`
	LedgerIndex       uint32          `json:"ledger_index"`
	Validated         bool            `json:"validated"`
	TransactionResult string          `json:"transaction_result"`
	Raw               json.RawMessage `json:"-"`
}
