// Package httpserver runs the gateway's admin HTTP listener.
package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/certificates"
	appLogger "github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const (
	_defaultReadTimeout     = 15 * time.Second
	_defaultWriteTimeout    = 15 * time.Second
	_defaultAddr            = ":80"
	_defaultShutdownTimeout = 3 * time.Second
)

// Server -.
type Server struct {
	server          *http.Server
	notify          chan error
	shutdownTimeout time.Duration
	useTLS          bool
	certFile        string
	keyFile         string
	cert            *tls.Certificate
	listener        net.Listener
	log             appLogger.Interface
}

// New -.
func New(handler http.Handler, opts ...Option) *Server {
	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  _defaultReadTimeout,
		WriteTimeout: _defaultWriteTimeout,
		Addr:         _defaultAddr,
	}

	s := &Server{
		server:          httpServer,
		notify:          make(chan error, 1),
		shutdownTimeout: _defaultShutdownTimeout,
		log:             appLogger.New("info"),
	}

	for _, opt := range opts {
		opt(s)
	}

	// TLS handshake failures from scanners land here.
	httpServer.ErrorLog = appLogger.StdLogger(s.log, appLogger.LevelWarn)

	s.start()

	return s
}

func (s *Server) start() {
	go func() {
		s.notify <- s.serve()

		close(s.notify)
	}()
}

func (s *Server) serve() error {
	var err error

	if s.useTLS {
		err = s.serveTLS()
	} else {
		err = s.servePlain()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) servePlain() error {
	if s.listener != nil {
		return s.server.Serve(s.listener)
	}

	return s.server.ListenAndServe()
}

func (s *Server) serveTLS() error {
	if s.cert == nil {
		host, _, _ := net.SplitHostPort(s.server.Addr)

		cert, err := certificates.Load(context.Background(), certificates.Source{
			CertFile:   s.certFile,
			KeyFile:    s.keyFile,
			CommonName: host,
		}, nil)
		if err != nil {
			return err
		}

		if s.certFile == "" {
			s.log.Info("TLS: serving a generated self-signed certificate")
		}

		s.cert = &cert
	}

	s.server.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{*s.cert},
		MinVersion:   tls.VersionTLS12,
	}

	if s.listener != nil {
		return s.server.ServeTLS(s.listener, "", "")
	}

	return s.server.ListenAndServeTLS("", "")
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown -.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
