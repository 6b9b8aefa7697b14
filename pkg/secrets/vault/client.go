// Package vault reads gateway secrets from a HashiCorp Vault KV v2 engine.
package vault

import (
	"github.com/hashicorp/vault/api"

	"github.com/circulation-toolkit/sip2gateway/config"
)

// DefaultSecretPath is used when the config sets no path.
const DefaultSecretPath = "secret/data/sip2gateway"

// Client reads key/value secrets below a base path.
type Client struct {
	client *api.Client
	path   string // Base path for all secrets (e.g., "secret/data/sip2gateway")
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithPath sets a custom path for secrets storage.
func WithPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.path = path
		}
	}
}

// WithClient sets a pre-configured Vault API client (useful for testing).
func WithClient(client *api.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new Vault Client instance.
// For testing, use WithClient to inject an API client pointed at a fake server.
func NewClient(cfg *config.Secrets, opts ...Option) (*Client, error) {
	c := &Client{
		path: DefaultSecretPath,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		vaultConfig := api.DefaultConfig()
		if cfg != nil {
			vaultConfig.Address = cfg.Address
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return nil, err
		}

		if cfg != nil {
			client.SetToken(cfg.Token)
		}

		c.client = client
	}

	if cfg != nil && cfg.Path != "" && c.path == DefaultSecretPath {
		c.path = cfg.Path
	}

	return c, nil
}
