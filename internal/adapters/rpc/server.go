package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/platform/ratelimiter"

	"github.com/rs/cors"
)

const (
	DefaultRPCAddr = "127.0.0.1:8787"

	maxBodyBytes    int64 = 1 << 20 // 1 MiB
	shutdownTimeout       = 5 * time.Second
)

type Options struct {
	Addr           string
	Service        contracts.GatewayAPI
	Limiter        *ratelimiter.MapLimiter
	AllowedOrigins []string
	Metrics        http.Handler
	Logger         *slog.Logger
	// RequestTimeout bounds one operation, validation wait included.
	RequestTimeout time.Duration
}

type Server struct {
	httpServer *http.Server
	service    contracts.GatewayAPI
	limiter    *ratelimiter.MapLimiter
	logger     *slog.Logger
	timeout    time.Duration
}

func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultRPCAddr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		service: opts.Service,
		limiter: opts.Limiter,
		logger:  opts.Logger,
		timeout: opts.RequestTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/rpc", s.guard(http.HandlerFunc(s.handleRPC)))
	for _, route := range routes {
		mux.Handle(route.Path, s.guard(s.routeHandler(route)))
	}
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Authorization", "X-Api-Key", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           corsHandler.Handler(withRequestID(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.service == nil {
		return errors.New("gateway service is not initialized")
	}
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()
	s.logger.Info("gateway listening", "component", "rpc", "addr", s.httpServer.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// operationContext applies the per-request deadline when one is set.
func (s *Server) operationContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.timeout)
}
