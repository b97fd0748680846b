package model

import (
	"encoding/json"

	"xrpl-gateway/go-backend/internal/history"
)

type WalletCredentials struct {
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	Seed       string `json:"seed"`
	Mnemonic   string `json:"mnemonic,omitempty"`
	Algorithm  string `json:"algorithm"`
}

type CreateWalletResult struct {
	Message string            `json:"message"`
	Wallet  WalletCredentials `json:"wallet"`
}

type FundWalletResult struct {
	Message        string          `json:"message"`
	FaucetResponse json.RawMessage `json:"faucetResponse"`
}

// SubmissionReceipt reports one validated transaction. Result is the
// ledger's own record of it.
type SubmissionReceipt struct {
	Message string          `json:"message"`
	Hash    string          `json:"hash"`
	Result  json.RawMessage `json:"result"`
}

type IssuanceHashes struct {
	AccountSetHash string `json:"accountSetHash"`
	TrustSetHash   string `json:"trustSetHash"`
	PaymentHash    string `json:"paymentHash"`
}

type IssueTokenResult struct {
	Message            string         `json:"message"`
	IssuerAddress      string         `json:"issuerAddress"`
	OperationalAddress string         `json:"operationalAddress"`
	Transactions       IssuanceHashes `json:"transactions"`
}

type TokenBalance struct {
	Currency     string  `json:"currency"`
	Value        string  `json:"value"`
	Issuer       string  `json:"issuer"`
	IssuerDomain *string `json:"issuerDomain"`
}

type BalanceResult struct {
	Address         string         `json:"address"`
	XRPBalanceDrops string         `json:"xrpBalanceDrops"`
	XRPBalance      string         `json:"xrpBalance"`
	Tokens          []TokenBalance `json:"tokens"`
}

type HistoryResult struct {
	Account      string            `json:"account"`
	Marker       json.RawMessage   `json:"marker,omitempty"`
	Transactions []history.Summary `json:"transactions"`
}
