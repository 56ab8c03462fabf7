// Package gateway exposes a document store over a localhost HTTP API.
//
// shelfd is meant for other local processes that want store access
// without linking the Go module: every operation of the store maps to
// one endpoint, errors carry machine-readable codes, and the listener
// refuses non-loopback addresses unless remote access is explicitly
// enabled together with an auth token.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"shelf/internal/docstore"
)

const (
	serverReadHeaderTimeout = 5 * time.Second
	serverReadTimeout       = 10 * time.Second
	serverWriteTimeout      = 30 * time.Second
	serverIdleTimeout       = 60 * time.Second
	serverMaxHeaderBytes    = 1 << 20
)

// Store is the store surface the gateway serves. *docstore.Store
// satisfies it.
type Store interface {
	Put(ctx context.Context, key string, value any, opts ...docstore.PutOption) error
	GetString(ctx context.Context, key string) (string, error)
	Update(ctx context.Context, key string, fields map[string]any) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, subPath string) ([]string, error)
	ListRaw(ctx context.Context, subPath string) ([]string, error)
	PutRaw(ctx context.Context, key string, data []byte) error
	GetRaw(ctx context.Context, key string, opts ...docstore.ReadOption) ([]byte, error)
	DeleteRaw(ctx context.Context, key string) error
	ExistsRaw(ctx context.Context, key string) (bool, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Move(ctx context.Context, srcKey, dstKey string) error
	CopyFullyQualified(ctx context.Context, srcPath, dstPath string) error
	MoveFullyQualified(ctx context.Context, srcPath, dstPath string) error
}

type Server struct {
	store      Store
	bucket     string
	prefix     string
	listenAddr string
	authTokens string
	log        zerolog.Logger
	startedAt  time.Time
	handler    http.Handler
}

type Config struct {
	Store  Store
	Bucket string
	Prefix string

	// Listen is the bind address; empty means DefaultListenAddress.
	Listen string

	// AuthTokens is a comma-separated token list. Empty disables auth,
	// which is only permitted on loopback listeners.
	AuthTokens  string
	AllowRemote bool

	Logger zerolog.Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	addr, err := ValidateListenAddress(cfg.Listen, cfg.AllowRemote)
	if err != nil {
		return nil, err
	}
	if cfg.AllowRemote && len(parseAuthTokens(cfg.AuthTokens)) == 0 {
		return nil, errors.New("remote listeners require at least one auth token")
	}

	s := &Server{
		store:      cfg.Store,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		listenAddr: addr,
		authTokens: cfg.AuthTokens,
		log:        cfg.Logger,
		startedAt:  time.Now().UTC(),
	}
	s.handler = s.newHandler()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ListenAddress() string {
	return s.listenAddr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("addr", s.listenAddr).Msg("gateway listening")

	srv := s.newHTTPServer()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("gateway stopped")
	return nil
}

func (s *Server) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: serverReadHeaderTimeout,
		ReadTimeout:       serverReadTimeout,
		WriteTimeout:      serverWriteTimeout,
		IdleTimeout:       serverIdleTimeout,
		MaxHeaderBytes:    serverMaxHeaderBytes,
	}
}
