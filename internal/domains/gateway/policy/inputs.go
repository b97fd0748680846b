package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 400
)

// Text accepts a JSON string or number and keeps its textual form, so
// amounts and tags may be sent either way.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number: %w", err)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

type CreateWalletInput struct {
	Algorithm string `json:"algorithm" validate:"omitempty,oneof=ed25519 secp256k1"`
}

type FundWalletInput struct {
	DestinationAddress string `json:"destinationAddress" validate:"required,ledger_address"`
}

type CreateTrustLineInput struct {
	AccountSecret   string `json:"accountSecret" validate:"required,ledger_seed"`
	Currency        string `json:"currency" validate:"required,currency_symbol"`
	IssuerAddress   string `json:"issuerAddress" validate:"required,ledger_address"`
	LimitAmount     Text   `json:"limitAmount" validate:"required,nonnegative_amount"`
	PreventRippling bool   `json:"preventRippling"`
}

type IssueTokenInput struct {
	IssuerSecret      string `json:"issuerSecret" validate:"required,ledger_seed"`
	OperationalSecret string `json:"operationalSecret" validate:"required,ledger_seed"`
	CurrencyCode      string `json:"currencyCode" validate:"required,currency_symbol"`
	TokenQuantity     Text   `json:"tokenQuantity" validate:"required,positive_amount"`
	Domain            string `json:"domain" validate:"omitempty,max=256"`
}

type AmountInput struct {
	Currency string `json:"currency" validate:"required,currency_symbol"`
	Value    Text   `json:"value" validate:"required,nonnegative_amount"`
	Issuer   string `json:"issuer" validate:"omitempty,ledger_address"`
}

type CreateOfferInput struct {
	AccountSecret string       `json:"accountSecret" validate:"required,ledger_seed"`
	TakerGets     *AmountInput `json:"takerGets" validate:"required"`
	TakerPays     *AmountInput `json:"takerPays" validate:"required"`
}

type TransferInput struct {
	SourceSecret       string `json:"sourceSecret" validate:"required,ledger_seed"`
	DestinationAddress string `json:"destinationAddress" validate:"required,ledger_address"`
	DestinationTag     Text   `json:"destinationTag"`
	Currency           string `json:"currency" validate:"required,currency_symbol"`
	Issuer             string `json:"issuer" validate:"omitempty,ledger_address"`
	Amount             Text   `json:"amount" validate:"required,positive_amount"`
	Memo               string `json:"memo" validate:"omitempty,max=1024"`
}

type BalanceInput struct {
	Address string `json:"address" validate:"required,ledger_address"`
}

type HistoryInput struct {
	Address string `json:"address" validate:"required,ledger_address"`
	Limit   int    `json:"limit"`
}

func ParseCreateWalletInput(in CreateWalletInput) (CreateWalletInput, error) {
	in.Algorithm = strings.ToLower(strings.TrimSpace(in.Algorithm))
	return in, Validate(in)
}

func ParseFundWalletInput(in FundWalletInput) (FundWalletInput, error) {
	in.DestinationAddress = strings.TrimSpace(in.DestinationAddress)
	return in, Validate(in)
}

func ParseCreateTrustLineInput(in CreateTrustLineInput) (CreateTrustLineInput, error) {
	in.AccountSecret = strings.TrimSpace(in.AccountSecret)
	in.Currency = strings.TrimSpace(in.Currency)
	in.IssuerAddress = strings.TrimSpace(in.IssuerAddress)
	return in, Validate(in)
}

func ParseIssueTokenInput(in IssueTokenInput) (IssueTokenInput, error) {
	in.IssuerSecret = strings.TrimSpace(in.IssuerSecret)
	in.OperationalSecret = strings.TrimSpace(in.OperationalSecret)
	in.CurrencyCode = strings.TrimSpace(in.CurrencyCode)
	in.Domain = strings.TrimSpace(in.Domain)
	return in, Validate(in)
}

func ParseCreateOfferInput(in CreateOfferInput) (CreateOfferInput, error) {
	in.AccountSecret = strings.TrimSpace(in.AccountSecret)
	for _, side := range []*AmountInput{in.TakerGets, in.TakerPays} {
		if side != nil {
			side.Currency = strings.TrimSpace(side.Currency)
			side.Issuer = strings.TrimSpace(side.Issuer)
		}
	}
	return in, Validate(in)
}

func ParseTransferInput(in TransferInput) (TransferInput, error) {
	in.SourceSecret = strings.TrimSpace(in.SourceSecret)
	in.DestinationAddress = strings.TrimSpace(in.DestinationAddress)
	in.Currency = strings.TrimSpace(in.Currency)
	in.Issuer = strings.TrimSpace(in.Issuer)
	return in, Validate(in)
}

func ParseBalanceInput(in BalanceInput) (BalanceInput, error) {
	in.Address = strings.TrimSpace(in.Address)
	return in, Validate(in)
}

// ParseHistoryInput defaults a missing limit and caps it at the ledger's
// page size.
func ParseHistoryInput(in HistoryInput) (HistoryInput, error) {
	in.Address = strings.TrimSpace(in.Address)
	switch {
	case in.Limit <= 0:
		in.Limit = DefaultHistoryLimit
	case in.Limit > MaxHistoryLimit:
		in.Limit = MaxHistoryLimit
	}
	return in, Validate(in)
}
