package main

import (
	"errors"
	"log"

	"github.com/circulation-toolkit/sip2gateway/config"
	"github.com/circulation-toolkit/sip2gateway/internal/app"
	secrets "github.com/circulation-toolkit/sip2gateway/pkg/secrets/vault"
)

// Sentinel errors for configuration.
var (
	ErrSecretStoreAddressNotConfigured = errors.New("secret store address not configured")
	ErrSecretStoreTokenNotConfigured   = errors.New("secret store token not configured")
)

// Function pointers for better testability.
var (
	initializeConfigFunc = config.NewConfig
	runAppFunc           = app.Run
	newSecretsClientFunc = secrets.NewClient
)

func main() {
	cfg, err := initializeConfigFunc()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Vault is optional unless tenants or the SIP2 certificate are read from it.
	secretsClient, err := handleSecretsConfig(cfg)
	if err != nil && secretsRequired(cfg) {
		log.Fatalf("Secret store error: %s", err)
	}

	runAppFunc(cfg, secretsClient)
}

func secretsRequired(cfg *config.Config) bool {
	return cfg.Tenants.Source == config.TenantSourceVault ||
		(cfg.SIP2.TLS.Enabled && cfg.SIP2.TLS.SecretName != "" && cfg.SIP2.TLS.CertFile == "") ||
		(cfg.HTTP.TLS.Enabled && cfg.HTTP.TLS.SecretName != "" && cfg.HTTP.TLS.CertFile == "")
}

func handleSecretsConfig(cfg *config.Config) (*secrets.Client, error) {
	if cfg.Secrets.Address == "" {
		return nil, ErrSecretStoreAddressNotConfigured
	}

	if cfg.Secrets.Token == "" {
		return nil, ErrSecretStoreTokenNotConfigured
	}

	secretsClient, err := newSecretsClientFunc(&cfg.Secrets)
	if err != nil {
		log.Printf("Failed to connect to secret store: %v", err)

		return nil, err
	}

	log.Printf("Connected to secret store at: %s", cfg.Secrets.Address)

	return secretsClient, nil
}
