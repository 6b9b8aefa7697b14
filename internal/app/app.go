// Package app configures and runs application.
package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginpprof "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/circulation-toolkit/sip2gateway/config"
	"github.com/circulation-toolkit/sip2gateway/internal/certificates"
	"github.com/circulation-toolkit/sip2gateway/internal/controller/httpapi"
	"github.com/circulation-toolkit/sip2gateway/internal/controller/tcp/terminal"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/tenants"
	"github.com/circulation-toolkit/sip2gateway/pkg/httpserver"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/secrets/vault"
)

// ErrSecretStoreRequired is returned when the config reads from Vault but no
// client could be created.
var ErrSecretStoreRequired = errors.New("secret store required but not configured")

var Version = "DEVELOPMENT"

const sip2ShutdownTimeout = 10 * time.Second

// Run creates objects via constructors. secrets may be nil when no Vault is configured.
func Run(cfg *config.Config, secrets *vault.Client) {
	log := logger.New(cfg.Level)
	cfg.Version = Version
	log.Info("app - Run - version: %s", cfg.Version)
	// route standard and Gin logs through our JSON logger
	logger.SetupStdLog(log)
	logger.SetupGin(log)

	source, err := tenantSource(cfg, secrets)
	if err != nil {
		log.Fatal(fmt.Errorf("app - Run - tenantSource: %w", err))
	}

	usecases := usecase.NewUseCases(cfg, log, source)
	defer usecases.Sessions.Stop()

	if err := usecases.Tenants.Reload(context.Background()); err != nil {
		log.Fatal(fmt.Errorf("app - Run - tenants.Reload: %w", err))
	}

	sip2Server, err := setupSIP2Server(cfg, log, secrets, usecases)
	if err != nil {
		log.Fatal(fmt.Errorf("app - Run - terminal.NewServer: %w", err))
	}

	httpServer, err := setupHTTPServer(cfg, log, secrets, setupHTTPHandler(cfg, log, usecases))
	if err != nil {
		log.Fatal(fmt.Errorf("app - Run - httpserver.New: %w", err))
	}

	waitForShutdown(log, httpServer, sip2Server)
	shutdownServers(log, httpServer, sip2Server)
}

// tenantSource picks where the SC tenant mapping is read from.
func tenantSource(cfg *config.Config, secrets *vault.Client) (tenants.Source, error) {
	if cfg.Tenants.Source != config.TenantSourceVault {
		return tenants.StaticSource(cfg.Tenants.List), nil
	}

	if secrets == nil {
		return nil, ErrSecretStoreRequired
	}

	return secrets, nil
}

func setupSIP2Server(cfg *config.Config, log logger.Interface, secrets *vault.Client, usecases *usecase.Usecases) (*terminal.Server, error) {
	var opts []terminal.Option

	if cfg.SIP2.TLS.Enabled {
		cert, err := sip2Certificate(cfg, secrets)
		if err != nil {
			return nil, err
		}

		opts = append(opts, terminal.WithCertificate(cert))
	}

	return terminal.NewServer(cfg.SIP2, usecases.Tenants, usecases.Sessions, usecases.Dispatcher, log, opts...)
}

// setupHTTPServer binds the admin listener and starts serving handler on it.
// A certificate named by http.tls.secretName is read from Vault; otherwise the
// server loads the configured files or generates one.
func setupHTTPServer(cfg *config.Config, log logger.Interface, secrets *vault.Client, handler http.Handler) (*httpserver.Server, error) {
	addr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, err
	}

	opts := []httpserver.Option{
		httpserver.Port(cfg.HTTP.Host, cfg.HTTP.Port),
		httpserver.Listener(listener),
		httpserver.TLS(cfg.HTTP.TLS.Enabled, cfg.HTTP.TLS.CertFile, cfg.HTTP.TLS.KeyFile),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		httpserver.Logger(log),
	}

	if cfg.HTTP.TLS.Enabled && cfg.HTTP.TLS.SecretName != "" {
		cert, err := listenerCertificate(certificates.Source{
			CertFile:   cfg.HTTP.TLS.CertFile,
			KeyFile:    cfg.HTTP.TLS.KeyFile,
			SecretName: cfg.HTTP.TLS.SecretName,
			CommonName: cfg.HTTP.Host,
		}, secrets)
		if err != nil {
			_ = listener.Close()

			return nil, err
		}

		opts = append(opts, httpserver.Certificate(cert))
	}

	return httpserver.New(handler, opts...), nil
}

func sip2Certificate(cfg *config.Config, secrets *vault.Client) (tls.Certificate, error) {
	return listenerCertificate(certificates.Source{
		CertFile:   cfg.SIP2.TLS.CertFile,
		KeyFile:    cfg.SIP2.TLS.KeyFile,
		SecretName: cfg.SIP2.TLS.SecretName,
		CommonName: cfg.SIP2.Host,
	}, secrets)
}

func listenerCertificate(src certificates.Source, secrets *vault.Client) (tls.Certificate, error) {
	if src.SecretName != "" && src.CertFile == "" && secrets == nil {
		return tls.Certificate{}, ErrSecretStoreRequired
	}

	var store certificates.ObjectStore
	if secrets != nil {
		store = secrets
	}

	return certificates.Load(context.Background(), src, store)
}

func setupHTTPHandler(cfg *config.Config, log logger.Interface, usecases *usecase.Usecases) *gin.Engine {
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := gin.New()

	defaultConfig := cors.DefaultConfig()
	defaultConfig.AllowOrigins = cfg.AllowedOrigins
	defaultConfig.AllowHeaders = cfg.AllowedHeaders

	handler.Use(cors.New(defaultConfig))
	httpapi.NewRouter(handler, log, httpapi.Usecases{
		Sessions:      usecases.Sessions,
		Tenants:       usecases.Tenants,
		Configuration: usecases.Configuration,
	}, cfg)

	// Optionally enable pprof endpoints (e.g., for staging) via env ENABLE_PPROF=true
	if os.Getenv("ENABLE_PPROF") == "true" {
		ginpprof.Register(handler, "debug/pprof")
		log.Info("pprof enabled at /debug/pprof/")
	}

	return handler
}

func waitForShutdown(log logger.Interface, httpServer *httpserver.Server, sip2Server *terminal.Server) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app - Run - signal: " + s.String())
	case err := <-httpServer.Notify():
		log.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	case err := <-sip2Server.Notify():
		log.Error(fmt.Errorf("app - Run - sip2Server.Notify: %w", err))
	}
}

func shutdownServers(log logger.Interface, httpServer *httpserver.Server, sip2Server *terminal.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), sip2ShutdownTimeout)
	defer cancel()

	if err := sip2Server.Shutdown(ctx); err != nil {
		log.Error(fmt.Errorf("app - Run - sip2Server.Shutdown: %w", err))
	}

	if err := httpServer.Shutdown(); err != nil {
		log.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}
