package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/circulation-toolkit/sip2gateway/config"
)

// TenantsKey is the secret holding the JSON list of SC tenant entries.
const TenantsKey = "tenants"

// ErrSecretNotFound is returned when the path or the key does not exist.
var ErrSecretNotFound = errors.New("secret not found")

// GetKeyValue reads a value from Vault.
// If the key contains "/", it's treated as a separate path: {basePath}/{key} with data stored under "value".
// Otherwise, it's stored in {basePath}/keys with the key as a field name.
func (c *Client) GetKeyValue(ctx context.Context, key string) (string, error) {
	secretPath := c.path + "/keys"
	dataKey := key

	if strings.Contains(key, "/") {
		secretPath = c.path + "/" + key
		dataKey = "value"
	}

	data, err := c.read(ctx, secretPath)
	if err != nil {
		return "", err
	}

	value, ok := data[dataKey]
	if !ok {
		return "", fmt.Errorf("%w: key %s at path %s", ErrSecretNotFound, dataKey, secretPath)
	}

	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key %s is not a string", dataKey)
	}

	return strValue, nil
}

// GetObject retrieves the string fields of a path-based secret at {basePath}/{key}.
func (c *Client) GetObject(ctx context.Context, key string) (map[string]string, error) {
	data, err := c.read(ctx, c.path+"/"+key)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(data))

	for k, v := range data {
		if strVal, ok := v.(string); ok {
			result[k] = strVal
		}
	}

	return result, nil
}

// LoadTenants reads the SC tenant list stored as JSON under TenantsKey.
func (c *Client) LoadTenants(ctx context.Context) ([]config.TenantConfig, error) {
	raw, err := c.GetKeyValue(ctx, TenantsKey)
	if err != nil {
		return nil, err
	}

	var tenants []config.TenantConfig
	if err := json.Unmarshal([]byte(raw), &tenants); err != nil {
		return nil, fmt.Errorf("decode %s: %w", TenantsKey, err)
	}

	return tenants, nil
}

func (c *Client) read(ctx context.Context, secretPath string) (map[string]interface{}, error) {
	secret, err := c.client.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return nil, err
	}

	if secret == nil {
		return nil, fmt.Errorf("%w: path %s", ErrSecretNotFound, secretPath)
	}

	// KV v2 nests the fields under "data".
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected secret data format at %s", secretPath)
	}

	return data, nil
}
