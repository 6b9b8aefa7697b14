// Package terminal serves SIP2 self-check terminals over TCP or TLS.
package terminal

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/circulation-toolkit/sip2gateway/config"
	"github.com/circulation-toolkit/sip2gateway/internal/certificates"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/tenants"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

const (
	defaultPort        = "6443"
	defaultIdleTimeout = 300 * time.Second
	maxMessageSize     = 64 * 1024
)

type (
	// TenantResolver picks the tenant serving a terminal address.
	TenantResolver interface {
		Resolve(remoteAddr string) (tenants.Tenant, error)
	}

	// SessionStore registers sessions for the lifetime of their connection.
	SessionStore interface {
		Create(remoteAddr, tenantID string) *entity.Session
		Touch(s *entity.Session)
		Delete(id string) error
	}

	// Dispatcher answers one parsed command.
	Dispatcher interface {
		Dispatch(ctx context.Context, s *entity.Session, cmd sip2.Command) (string, error)
	}
)

// Server accepts terminal connections and runs one command loop per connection.
type Server struct {
	notify      chan error
	listener    net.Listener
	tenants     TenantResolver
	sessions    SessionStore
	dispatcher  Dispatcher
	idleTimeout time.Duration
	log         logger.Interface

	// ctx bounds backend calls made on behalf of terminals; Shutdown cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup
	closing bool
}

// Option configures a Server.
type Option func(*options)

type options struct {
	cert *tls.Certificate
}

// WithCertificate sets the certificate presented when TLS is enabled. Without
// it the server loads cfg.TLS files or generates a self-signed certificate.
func WithCertificate(cert tls.Certificate) Option {
	return func(o *options) {
		o.cert = &cert
	}
}

// NewServer binds the listener and starts accepting in the background.
func NewServer(cfg config.SIP2, t TenantResolver, s SessionStore, d Dispatcher, l logger.Interface, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	port := cfg.Port
	if port == "" {
		port = defaultPort
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, port))
	if err != nil {
		return nil, err
	}

	if cfg.TLS.Enabled {
		if o.cert == nil {
			cert, err := certificates.Load(context.Background(), certificates.Source{
				CertFile:   cfg.TLS.CertFile,
				KeyFile:    cfg.TLS.KeyFile,
				CommonName: cfg.Host,
			}, nil)
			if err != nil {
				_ = listener.Close()

				return nil, err
			}

			o.cert = &cert
		}

		listener = tls.NewListener(listener, &tls.Config{
			Certificates: []tls.Certificate{*o.cert},
			MinVersion:   tls.VersionTLS12,
		})
	}

	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		ctx:         ctx,
		cancel:      cancel,
		notify:      make(chan error, 1),
		listener:    listener,
		tenants:     t,
		sessions:    s,
		dispatcher:  d,
		idleTimeout: idle,
		log:         l,
		conns:       make(map[net.Conn]struct{}),
	}

	srv.start()

	return srv, nil
}

func (s *Server) start() {
	go func() {
		s.notify <- s.serve()

		close(s.notify)
	}()
}

// Notify returns the error channel for server notifications.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Addr is the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) serve() error {
	s.log.Info("SIP2 server running on %s", s.listener.Addr())

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosing() {
				return nil
			}

			return err
		}

		if !s.track(conn) {
			_ = conn.Close()

			return nil
		}

		go func() {
			defer s.untrack(conn)

			s.handleConnection(conn)
		}()
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}

	s.conns[conn] = struct{}{}
	s.wg.Add(1)

	connectionsActive.Inc()

	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()

	connectionsActive.Dec()
	s.wg.Done()
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closing
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()

	tenant, err := s.tenants.Resolve(remote)
	if err != nil {
		s.log.Warn("rejecting terminal %s: %v", remote, err)
		connectionsTotal.WithLabelValues(outcomeRejected).Inc()

		return
	}

	session := s.sessions.Create(remote, tenant.ID)
	tenant.Apply(session)

	defer func() {
		_ = s.sessions.Delete(session.ID)
	}()

	s.log.Info("session %s: terminal %s connected to tenant %s", session.ID, remote, tenant.ID)
	connectionsTotal.WithLabelValues(outcomeAccepted).Inc()

	c := &connectionContext{
		ctx:         s.ctx,
		conn:        conn,
		reader:      newMessageReader(conn, tenant.MessageDelimiter),
		terminator:  []byte(tenant.MessageDelimiter),
		session:     session,
		sessions:    s.sessions,
		dispatcher:  s.dispatcher,
		idleTimeout: s.idleTimeout,
		log:         s.log,
	}

	c.process()

	s.log.Info("session %s: terminal %s disconnected", session.ID, remote)
}

// Shutdown stops accepting, cancels in-flight backend calls, closes every open
// connection and waits for their loops to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true

	s.cancel()

	err := s.listener.Close()

	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if errors.Is(err, net.ErrClosed) {
		return nil
	}

	return err
}
