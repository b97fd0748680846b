// Package usecase runs the gateway operations: each one validates its
// input, builds transactions, and drives a single ledger session.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"xrpl-gateway/go-backend/internal/amount"
	"xrpl-gateway/go-backend/internal/currency"
	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/domains/gateway/model"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
	"xrpl-gateway/go-backend/internal/history"
	"xrpl-gateway/go-backend/internal/ledger"
	"xrpl-gateway/go-backend/internal/trustline"
	"xrpl-gateway/go-backend/internal/txbuilder"
	"xrpl-gateway/go-backend/internal/wallet"
)

const componentName = "gateway"

const (
	OpCreateWallet    = "wallet.create"
	OpFundWallet      = "wallet.fund"
	OpCreateTrustLine = "trustline.create"
	OpIssueToken      = "token.issue"
	OpCreateOffer     = "offer.create"
	OpTransfer        = "payment.transfer"
	OpGetBalance      = "account.balance"
	OpGetHistory      = "account.history"
)

const (
	msgWalletCreated = "Wallet credentials generated successfully. The account is NOT active on the ledger yet."
	msgWalletFunded  = "Funding request successful!"
	msgOfferCreated  = "Offer created successfully!"
	msgTransferred   = "Transfer successful!"
	domainNotSet     = "not set"
)

type ServiceDeps struct {
	Ledger contracts.LedgerSessions
	Faucet contracts.FaucetClient
	Logger *slog.Logger

	TrackOperation   func(operation string, errRef *error) func()
	RecordError      func(category string, err error)
	RecordSubmission contracts.SubmissionRecorder
}

type Service struct {
	deps ServiceDeps
}

var _ contracts.GatewayAPI = (*Service)(nil)

func NewService(deps ServiceDeps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

func (s *Service) CreateWallet(ctx context.Context, in policy.CreateWalletInput) (out model.CreateWalletResult, err error) {
	defer s.track(OpCreateWallet, &err)()
	if in, err = policy.ParseCreateWalletInput(in); err != nil {
		return out, s.fail(err)
	}
	algorithm := wallet.DefaultAlgorithm
	if in.Algorithm != "" {
		if algorithm, err = wallet.ParseAlgorithm(in.Algorithm); err != nil {
			return out, s.fail(policy.InvalidParameter("algorithm", err))
		}
	}
	generated, err := wallet.Generate(algorithm)
	if err != nil {
		return out, s.fail(err)
	}
	mnemonic, err := generated.Mnemonic()
	if err != nil {
		return out, s.fail(err)
	}
	s.deps.Logger.Info("wallet generated",
		"component", componentName,
		"operation", OpCreateWallet,
		"address", generated.Address(),
		"algorithm", string(generated.Algorithm()),
	)
	return model.CreateWalletResult{
		Message: msgWalletCreated,
		Wallet: model.WalletCredentials{
			Address:    generated.Address(),
			PublicKey:  generated.PublicKey(),
			PrivateKey: generated.PrivateKey(),
			Seed:       generated.Seed(),
			Mnemonic:   mnemonic,
			Algorithm:  string(generated.Algorithm()),
		},
	}, nil
}

func (s *Service) FundWallet(ctx context.Context, in policy.FundWalletInput) (out model.FundWalletResult, err error) {
	defer s.track(OpFundWallet, &err)()
	if in, err = policy.ParseFundWalletInput(in); err != nil {
		return out, s.fail(err)
	}
	s.deps.Logger.Info("requesting faucet funds",
		"component", componentName,
		"operation", OpFundWallet,
		"destination", in.DestinationAddress,
	)
	reply, err := s.deps.Faucet.Fund(ctx, in.DestinationAddress)
	if err != nil {
		return out, s.fail(err)
	}
	return model.FundWalletResult{Message: msgWalletFunded, FaucetResponse: reply}, nil
}

func (s *Service) CreateTrustLine(ctx context.Context, in policy.CreateTrustLineInput) (out model.SubmissionReceipt, err error) {
	defer s.track(OpCreateTrustLine, &err)()
	if in, err = policy.ParseCreateTrustLineInput(in); err != nil {
		return out, s.fail(err)
	}
	account, err := signerFromSeed("accountSecret", in.AccountSecret)
	if err != nil {
		return out, s.fail(err)
	}
	tx, err := txbuilder.TrustSet(account.Address(), txbuilder.TrustSetSpec{
		Currency: in.Currency,
		Issuer:   in.IssuerAddress,
		Limit:    in.LimitAmount.String(),
		NoRipple: in.PreventRippling,
	})
	if err != nil {
		return out, s.fail(err)
	}
	var result *ledger.SubmitResult
	err = s.deps.Ledger.WithSession(ctx, func(session *ledger.Session) error {
		var submitErr error
		result, submitErr = s.submit(ctx, session, tx, account)
		return submitErr
	})
	if err != nil {
		return out, s.fail(err)
	}
	return receipt(fmt.Sprintf("Trust Line created successfully! Rippling prevented: %t", in.PreventRippling), result), nil
}

// IssueToken enables rippling on the issuer, opens a trust line from the
// operational account and pays it the full quantity, in that order, over
// one session. A failed step stops the sequence.
func (s *Service) IssueToken(ctx context.Context, in policy.IssueTokenInput) (out model.IssueTokenResult, err error) {
	defer s.track(OpIssueToken, &err)()
	if in, err = policy.ParseIssueTokenInput(in); err != nil {
		return out, s.fail(err)
	}
	issuer, err := signerFromSeed("issuerSecret", in.IssuerSecret)
	if err != nil {
		return out, s.fail(err)
	}
	operational, err := signerFromSeed("operationalSecret", in.OperationalSecret)
	if err != nil {
		return out, s.fail(err)
	}

	accountSet := txbuilder.AccountSet(issuer.Address(), in.Domain)
	trustSet, err := txbuilder.TrustSet(operational.Address(), txbuilder.TrustSetSpec{
		Currency: in.CurrencyCode,
		Issuer:   issuer.Address(),
		Limit:    in.TokenQuantity.String(),
	})
	if err != nil {
		return out, s.fail(err)
	}
	payment, err := txbuilder.Payment(txbuilder.PaymentSpec{
		Account:     issuer.Address(),
		Destination: operational.Address(),
		Amount: txbuilder.AmountSpec{
			Currency: in.CurrencyCode,
			Value:    in.TokenQuantity.String(),
			Issuer:   issuer.Address(),
		},
	})
	if err != nil {
		return out, s.fail(err)
	}

	steps := []struct {
		tx     txbuilder.Payload
		signer *wallet.Wallet
		hash   *string
	}{
		{accountSet, issuer, &out.Transactions.AccountSetHash},
		{trustSet, operational, &out.Transactions.TrustSetHash},
		{payment, issuer, &out.Transactions.PaymentHash},
	}
	err = s.deps.Ledger.WithSession(ctx, func(session *ledger.Session) error {
		for _, step := range steps {
			result, submitErr := s.submit(ctx, session, step.tx, step.signer)
			if submitErr != nil {
				return submitErr
			}
			*step.hash = result.Hash
		}
		return nil
	})
	if err != nil {
		return model.IssueTokenResult{}, s.fail(err)
	}

	domain := in.Domain
	if domain == "" {
		domain = domainNotSet
	}
	out.Message = fmt.Sprintf("Token %s issued successfully! Domain set to: %s", in.CurrencyCode, domain)
	out.IssuerAddress = issuer.Address()
	out.OperationalAddress = operational.Address()
	return out, nil
}

func (s *Service) CreateOffer(ctx context.Context, in policy.CreateOfferInput) (out model.SubmissionReceipt, err error) {
	defer s.track(OpCreateOffer, &err)()
	if in, err = policy.ParseCreateOfferInput(in); err != nil {
		return out, s.fail(err)
	}
	account, err := signerFromSeed("accountSecret", in.AccountSecret)
	if err != nil {
		return out, s.fail(err)
	}
	tx, err := txbuilder.OfferCreate(account.Address(), amountSpec(in.TakerGets), amountSpec(in.TakerPays))
	if err != nil {
		return out, s.fail(err)
	}
	var result *ledger.SubmitResult
	err = s.deps.Ledger.WithSession(ctx, func(session *ledger.Session) error {
		var submitErr error
		result, submitErr = s.submit(ctx, session, tx, account)
		return submitErr
	})
	if err != nil {
		return out, s.fail(err)
	}
	return receipt(msgOfferCreated, result), nil
}

// Transfer refuses to submit an issued-currency payment unless the
// destination already trusts the issuer for that currency.
func (s *Service) Transfer(ctx context.Context, in policy.TransferInput) (out model.SubmissionReceipt, err error) {
	defer s.track(OpTransfer, &err)()
	if in, err = policy.ParseTransferInput(in); err != nil {
		return out, s.fail(err)
	}
	source, err := signerFromSeed("sourceSecret", in.SourceSecret)
	if err != nil {
		return out, s.fail(err)
	}
	tx, err := txbuilder.Payment(txbuilder.PaymentSpec{
		Account:        source.Address(),
		Destination:    in.DestinationAddress,
		Amount:         txbuilder.AmountSpec{Currency: in.Currency, Value: in.Amount.String(), Issuer: in.Issuer},
		DestinationTag: in.DestinationTag.String(),
		Memo:           in.Memo,
	})
	if err != nil {
		return out, s.fail(err)
	}
	var result *ledger.SubmitResult
	err = s.deps.Ledger.WithSession(ctx, func(session *ledger.Session) error {
		if !currency.IsNative(in.Currency) {
			if err := s.ensureTrustLine(ctx, session, in); err != nil {
				return err
			}
		}
		var submitErr error
		result, submitErr = s.submit(ctx, session, tx, source)
		return submitErr
	})
	if err != nil {
		return out, s.fail(err)
	}
	return receipt(msgTransferred, result), nil
}

func (s *Service) ensureTrustLine(ctx context.Context, session *ledger.Session, in policy.TransferInput) error {
	code, err := currency.Canonicalize(in.Currency)
	if err != nil {
		return err
	}
	lines, err := session.AccountLines(ctx, in.DestinationAddress, in.Issuer)
	if err != nil {
		return err
	}
	return trustline.Ensure(lines, in.Currency, code, in.Issuer)
}

func (s *Service) GetBalance(ctx context.Context, in policy.BalanceInput) (out model.BalanceResult, err error) {
	defer s.track(OpGetBalance, &err)()
	if in, err = policy.ParseBalanceInput(in); err != nil {
		return out, s.fail(err)
	}
	err = s.deps.Ledger.WithSession(ctx, func(session *ledger.Session) error {
		info, err := session.AccountInfo(ctx, in.Address)
		if err != nil {
			return err
		}
		lines, err := session.AccountLines(ctx, in.Address, "")
		if err != nil {
			return err
		}
		domains := s.issuerDomains(ctx, session, lines)

		out.Address = in.Address
		out.XRPBalanceDrops = info.AccountData.Balance
		if native, convErr := amount.DropsToNative(info.AccountData.Balance); convErr == nil {
			out.XRPBalance = native
		}
		out.Tokens = make([]model.TokenBalance, 0, len(lines))
		for _, line := range lines {
			token := model.TokenBalance{
				Currency: currency.Decode(line.Currency),
				Value:    line.Balance,
				Issuer:   line.Account,
			}
			if domain, ok := domains[line.Account]; ok {
				token.IssuerDomain = &domain
			}
			out.Tokens = append(out.Tokens, token)
		}
		return nil
	})
	if err != nil {
		return model.BalanceResult{}, s.fail(err)
	}
	return out, nil
}

// issuerDomains looks up the Domain of every distinct issuer. Lookups are
// best effort: a failure is logged and that issuer is left without one.
func (s *Service) issuerDomains(ctx context.Context, session *ledger.Session, lines []ledger.TrustLine) map[string]string {
	domains := make(map[string]string)
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.Account]; ok || line.Account == "" {
			continue
		}
		seen[line.Account] = struct{}{}
		info, err := session.AccountInfo(ctx, line.Account)
		if err != nil {
			s.deps.Logger.Warn("issuer lookup failed",
				"component", componentName,
				"operation", OpGetBalance,
				"issuer", line.Account,
				"error", err.Error(),
			)
			continue
		}
		if info.AccountData.Domain == "" {
			continue
		}
		if domain, ok := currency.DecodeHexText(info.AccountData.Domain); ok {
			domains[line.Account] = domain
		}
	}
	return domains
}

func (s *Service) GetTransactionHistory(ctx context.Context, in policy.HistoryInput) (out model.HistoryResult, err error) {
	defer s.track(OpGetHistory, &err)()
	if in, err = policy.ParseHistoryInput(in); err != nil {
		return out, s.fail(err)
	}
	err = s.deps.Ledger.WithSession(ctx, func(session *ledger.Session) error {
		page, err := session.AccountTx(ctx, in.Address, in.Limit)
		if err != nil {
			return err
		}
		out.Account = in.Address
		out.Marker = page.Marker
		out.Transactions = history.SimplifyAll(page.Transactions)
		return nil
	})
	if err != nil {
		return model.HistoryResult{}, s.fail(err)
	}
	return out, nil
}

func (s *Service) submit(ctx context.Context, session *ledger.Session, tx txbuilder.Payload, signer ledger.Signer) (*ledger.SubmitResult, error) {
	result, err := session.SubmitAndAwait(ctx, tx, signer)
	if s.deps.RecordSubmission != nil {
		s.deps.RecordSubmission(tx.TransactionType(), submissionOutcome(result, err))
	}
	if err != nil {
		return nil, err
	}
	s.deps.Logger.Info("transaction validated",
		"component", componentName,
		"transaction_type", tx.TransactionType(),
		"account", tx.Account(),
		"hash", result.Hash,
	)
	return result, nil
}

func submissionOutcome(result *ledger.SubmitResult, err error) string {
	var submitErr *ledger.SubmissionError
	switch {
	case err == nil && result != nil:
		return result.TransactionResult
	case errors.As(err, &submitErr):
		return submitErr.Code
	default:
		return "error"
	}
}

func (s *Service) track(operation string, errRef *error) func() {
	if s.deps.TrackOperation == nil {
		return func() {}
	}
	return s.deps.TrackOperation(operation, errRef)
}

// fail tags err with its category and records it.
func (s *Service) fail(err error) error {
	category := Classify(err)
	if s.deps.RecordError != nil {
		s.deps.RecordError(category, err)
	}
	return contracts.WrapCategorizedError(category, err)
}

func signerFromSeed(field, seed string) (*wallet.Wallet, error) {
	w, err := wallet.FromSeed(seed)
	if err != nil {
		return nil, policy.InvalidParameter(field, err)
	}
	return w, nil
}

func amountSpec(in *policy.AmountInput) txbuilder.AmountSpec {
	return txbuilder.AmountSpec{Currency: in.Currency, Value: in.Value.String(), Issuer: in.Issuer}
}

func receipt(message string, result *ledger.SubmitResult) model.SubmissionReceipt {
	return model.SubmissionReceipt{Message: message, Hash: result.Hash, Result: result.Raw}
}
