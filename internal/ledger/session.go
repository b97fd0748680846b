// Package ledger owns the lifetime of a connection to the ledger network:
// connect, query, submit and await validation, disconnect.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"xrpl-gateway/go-backend/internal/txbuilder"
)

// Client is the network client a session drives.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
	Autofill(ctx context.Context, tx txbuilder.Payload) (txbuilder.Payload, error)
	SubmitAndWait(ctx context.Context, blob, hash string, lastLedger uint32) (*SubmitResult, error)
	Request(ctx context.Context, req Request) (json.RawMessage, error)
}

// Signer turns a filled payload into a signed blob and its hash.
type Signer interface {
	Address() string
	Sign(tx txbuilder.Payload) (blob string, hash string, err error)
}

// ClientFactory creates an unconnected client for cfg.
type ClientFactory func(cfg Config) Client

type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateBusy
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateBusy:
		return "busy"
	default:
		return "disconnected"
	}
}

// Session is a single-use connection scoped to one request. It is not safe
// for concurrent use.
type Session struct {
	cfg    Config
	client Client
	logger *slog.Logger
	state  State
	opened bool
	closed bool
}

func NewSession(cfg Config, client Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg.WithDefaults(), client: client, logger: logger}
}

func (s *Session) State() State { return s.state }

func (s *Session) Connect(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateDisconnected {
		return nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.DialTimeout)
	defer cancel()
	if err := s.client.Connect(dialCtx); err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return err
		}
		return &ConnectionError{Endpoint: s.cfg.Endpoint, Err: err}
	}
	s.opened = true
	s.state = StateConnected
	return nil
}

// SubmitAndAwait autofills, signs and submits tx, then blocks until the
// transaction is validated or has failed for good.
func (s *Session) SubmitAndAwait(ctx context.Context, tx txbuilder.Payload, signer Signer) (*SubmitResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	filled, err := s.client.Autofill(ctx, tx.Clone())
	if err != nil {
		return nil, err
	}
	blob, hash, err := signer.Sign(filled)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", tx.TransactionType(), err)
	}
	lastLedger, _ := filled["LastLedgerSequence"].(uint32)

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.ValidationTimeout)
	defer cancel()
	result, err := s.client.SubmitAndWait(waitCtx, blob, hash, lastLedger)
	if err != nil {
		if waitCtx.Err() != nil && !IsSubmissionError(err) {
			return nil, &SubmissionError{Code: "timeout", Message: err.Error(), Hash: hash}
		}
		return nil, err
	}
	s.logger.Debug("transaction validated",
		"transaction_type", tx.TransactionType(),
		"hash", result.Hash,
		"ledger_index", result.LedgerIndex,
	)
	return result, nil
}

// Request runs a query and decodes its result into out when out is not nil.
func (s *Session) Request(ctx context.Context, req Request, out any) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	raw, err := s.client.Request(reqCtx, req)
	if err != nil {
		var notFound *NotFoundError
		var netErr *NetworkError
		if errors.As(err, &notFound) || errors.As(err, &netErr) {
			return err
		}
		return &NetworkError{Command: req.Command(), Err: err}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &NetworkError{Command: req.Command(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Close disconnects the client if this session ever connected, even when
// the peer has already dropped the socket. Calling it again is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.state = StateDisconnected
	if !s.opened {
		return nil
	}
	return s.client.Disconnect()
}

func (s *Session) acquire() error {
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.state == StateDisconnected:
		return ErrSessionNotConnected
	case s.state == StateBusy:
		return ErrSessionBusy
	}
	s.state = StateBusy
	return nil
}

func (s *Session) release() {
	if s.state == StateBusy {
		s.state = StateConnected
	}
}

// Connector opens one session per unit of work.
type Connector struct {
	cfg       Config
	newClient ClientFactory
	logger    *slog.Logger
}

func NewConnector(cfg Config, newClient ClientFactory, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{cfg: cfg.WithDefaults(), newClient: newClient, logger: logger}
}

func (c *Connector) Config() Config { return c.cfg }

// WithSession connects a fresh session, runs fn and closes the session on
// every exit path. A close failure is logged and never replaces the result
// of fn.
func (c *Connector) WithSession(ctx context.Context, fn func(*Session) error) error {
	session := NewSession(c.cfg, c.newClient(c.cfg), c.logger)
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Warn("ledger disconnect failed", "endpoint", c.cfg.Endpoint, "error", err)
		}
	}()
	if err := session.Connect(ctx); err != nil {
		return err
	}
	return fn(session)
}
