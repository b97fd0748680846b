// Package wsclient speaks the ledger's JSON API over a single WebSocket
// connection. Responses are routed back to callers by request id.
package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"xrpl-gateway/go-backend/internal/ledger"

	"github.com/gorilla/websocket"
)

const (
	apiVersion     = 2
	closeWriteWait = time.Second
)

var ErrNotConnected = errors.New("websocket client is not connected")

type response struct {
	ID           *uint64         `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

type Client struct {
	cfg    ledger.Config
	dialer *websocket.Dialer
	logger *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint64]chan response
	done    chan struct{}
	readErr error

	writeMu sync.Mutex
	nextID  atomic.Uint64
}

func New(cfg ledger.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.WithDefaults()
	return &Client{
		cfg:     cfg,
		dialer:  &websocket.Dialer{HandshakeTimeout: cfg.DialTimeout},
		logger:  logger.With("component", "ledger.wsclient"),
		pending: make(map[uint64]chan response),
	}
}

// Factory adapts New to ledger.ClientFactory.
func Factory(logger *slog.Logger) ledger.ClientFactory {
	return func(cfg ledger.Config) ledger.Client {
		return New(cfg, logger)
	}
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.Endpoint, nil)
	if err != nil {
		return &ledger.ConnectionError{Endpoint: c.cfg.Endpoint, Err: err}
	}
	done := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.done = done
	c.readErr = nil
	c.mu.Unlock()
	go c.readLoop(conn, done)
	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeWriteWait),
	)
	c.writeMu.Unlock()
	err := conn.Close()
	<-done
	return err
}

// Request sends req and waits for the response carrying the same id.
func (c *Client) Request(ctx context.Context, req ledger.Request) (json.RawMessage, error) {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.mu.Unlock()
	if conn == nil {
		return nil, &ledger.NetworkError{Command: req.Command(), Err: ErrNotConnected}
	}

	id := c.nextID.Add(1)
	msg := make(map[string]any, len(req)+2)
	for k, v := range req {
		msg[k] = v
	}
	msg["id"] = id
	msg["api_version"] = apiVersion

	ch := make(chan response, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err := conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		return nil, &ledger.NetworkError{Command: req.Command(), Err: fmt.Errorf("write: %w", err)}
	}

	select {
	case <-ctx.Done():
		return nil, &ledger.NetworkError{Command: req.Command(), Err: ctx.Err()}
	case <-done:
		return nil, &ledger.NetworkError{Command: req.Command(), Err: c.closedErr()}
	case resp := <-ch:
		if resp.Status == "error" || resp.Error != "" {
			return nil, ledger.ResponseError(req.Command(), resp.Error, resp.ErrorMessage, req)
		}
		return resp.Result, nil
	}
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}
		var resp response
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Debug("ignoring undecodable message", "error", err)
			continue
		}
		if resp.ID == nil {
			// Stream messages are not subscribed to.
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[*resp.ID]
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return fmt.Errorf("connection closed: %w", c.readErr)
	}
	return errors.New("connection closed")
}
