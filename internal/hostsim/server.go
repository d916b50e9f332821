package hostsim

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/discovery"
	"github.com/siadrive/siadrive-ui/internal/logging"
)

// DefaultRefreshInterval is how often a started UI receives state pushes.
const DefaultRefreshInterval = 2 * time.Second

// Config holds the server configuration
type Config struct {
	Host            string
	Port            int
	RefreshInterval time.Duration
	// Advertise registers the bridge over mDNS.
	Advertise bool
	// Instance is the mDNS instance name; defaults to the hostname.
	Instance string
	// CertPath and KeyPath serve the bridge over TLS when both are set.
	CertPath string
	KeyPath  string
}

// Server serves the bridge websocket for one simulated host
type Server struct {
	config   *Config
	backend  *Backend
	router   *mux.Router
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
	tlsConfig  *tls.Config
	advert     *zeroconf.Server

	wg       sync.WaitGroup
	mu       sync.Mutex
	sessions map[string]*session

	refreshOnce sync.Once
	quitOnce    sync.Once
	quit        chan struct{}
}

// New creates a new Server instance
func New(config *Config, backend *Backend) *Server {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	s := &Server{
		config:   config,
		backend:  backend,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the bridge and control routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Backend returns the simulated host state.
func (s *Server) Backend() *Backend {
	return s.backend
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() (net.Addr, error) {
	if s.config.CertPath != "" && s.config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(s.config.CertPath, s.config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.tlsConfig = tlsConfig
	}

	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return listener.Addr(), nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}
	addr := s.listener.Addr().(*net.TCPAddr)

	scheme := "ws"
	if s.tlsConfig != nil {
		scheme = "wss"
	}

	snap := s.backend.Snapshot()
	logging.Info("Starting SiaDrive host simulator",
		zap.String("addr", addr.String()),
		zap.String("bridge", scheme+"://"+addr.String()+discovery.DefaultPath),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
		zap.Bool("online", snap.IsOnline),
		zap.Bool("wallet_configured", snap.IsWalletConfigured),
		zap.Bool("wallet_locked", snap.IsWalletLocked),
		zap.Duration("refresh", s.config.RefreshInterval),
	)

	if s.config.Advertise {
		advert, err := Advertise(s.config.Instance, addr.Port, s.backend.serverVersion, s.tlsConfig != nil)
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			s.advert = advert
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(s.listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errChan <- err
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.stopRefresh()

	if s.advert != nil {
		s.advert.Shutdown()
		s.advert = nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error closing listener", zap.Error(err))
		}
	}
	if s.listener != nil {
		// Already closed if Serve was running
		_ = s.listener.Close()
	}

	// Hijacked websocket connections are not closed by http.Server
	s.mu.Lock()
	for id, sess := range s.sessions {
		logging.Info("Closing active session", zap.String("session", id))
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}

// ActiveSessions returns the number of connected UIs
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Broadcast pushes u to every connected UI.
func (s *Server) Broadcast(u bridge.Update) {
	s.mu.Lock()
	targets := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		targets = append(targets, sess)
	}
	s.mu.Unlock()

	for _, sess := range targets {
		sess.push(u)
	}
}

func (s *Server) stopRefresh() {
	// Claim the loop so a late connection cannot start it again.
	s.refreshOnce.Do(func() {})
	s.quitOnce.Do(func() {
		if s.quit != nil {
			close(s.quit)
		}
	})
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.id)
}

// Advertise registers a bridge on port with mDNS so discovery finds it.
func Advertise(instance string, port int, version string, secure bool) (*zeroconf.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "siadrive"
		}
		instance = host
	}
	txt := []string{
		"path=" + discovery.DefaultPath,
		"version=" + version,
	}
	if secure {
		txt = append(txt, "scheme=wss")
	}
	server, err := zeroconf.Register(instance, discovery.ServiceType, discovery.ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", discovery.ServiceType, err)
	}
	logging.Info("Advertising bridge over mDNS",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
		zap.Strings("txt", txt),
	)
	return server, nil
}
