package httpserver

import (
	"crypto/tls"
	"net"
	"time"

	appLogger "github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

// Option configures a Server before it starts serving.
type Option func(*Server)

// Port sets the address the server binds when no Listener is given. The host
// also names the generated certificate.
func Port(host, port string) Option {
	return func(s *Server) {
		s.server.Addr = net.JoinHostPort(host, port)
	}
}

// Listener serves on l instead of binding Addr, so bind errors surface to the
// caller before the server starts.
func Listener(l net.Listener) Option {
	return func(s *Server) {
		s.listener = l
	}
}

// TLS turns TLS on. The certificate comes from certFile and keyFile, or is
// generated when both are empty.
func TLS(enable bool, certFile, keyFile string) Option {
	return func(s *Server) {
		s.useTLS = enable
		s.certFile = certFile
		s.keyFile = keyFile
	}
}

// Certificate turns TLS on with cert, skipping file loading.
func Certificate(cert tls.Certificate) Option {
	return func(s *Server) {
		s.useTLS = true
		s.cert = &cert
	}
}

// ReadTimeout bounds reading a whole request. Zero keeps the default.
func ReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.server.ReadTimeout = timeout
		}
	}
}

// WriteTimeout bounds writing a response. Zero keeps the default.
func WriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.server.WriteTimeout = timeout
		}
	}
}

// ShutdownTimeout bounds how long Shutdown waits for open requests.
func ShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// Logger -.
func Logger(l appLogger.Interface) Option {
	return func(s *Server) {
		s.log = l
	}
}
