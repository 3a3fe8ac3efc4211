package config

import (
	"fmt"
	"os"
	"strings"

	"resumelens/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// Secret paths
	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault
type VaultSecrets struct {
	APIKey string `mapstructure:"apiKey"` // KVv2 path holding the analysis API key under the "apiKey" field
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration.
// Returns (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Connected to Vault",
			"address", vaultConfig.Address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// FetchAPIKey reads the analysis API key from the configured KVv2 path.
// An empty configured path yields an empty key without error.
func (vc *VaultClient) FetchAPIKey() (string, error) {
	if vc == nil || vc.config.Secrets.APIKey == "" {
		return "", nil
	}

	secret, err := vc.client.Logical().Read(vc.config.Secrets.APIKey)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from %s: %w", vc.config.Secrets.APIKey, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret not found at path: %s", vc.config.Secrets.APIKey)
	}

	// KVv2 nests payload under "data"
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected secret format at path: %s", vc.config.Secrets.APIKey)
	}

	key, ok := data["apiKey"].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("secret at %s has no apiKey field", vc.config.Secrets.APIKey)
	}

	if vc.logger != nil {
		vc.logger.Debug("Loaded API key from Vault", "path", vc.config.Secrets.APIKey)
	}
	return key, nil
}

// ApplyVaultSecrets overrides config values with secrets fetched from Vault.
// Vault has the highest precedence in the configuration chain.
func (c *Config) ApplyVaultSecrets(logger *errors.Logger) error {
	vc, err := NewVaultClient(c.Vault, logger)
	if err != nil {
		return err
	}
	if vc == nil {
		return nil
	}

	key, err := vc.FetchAPIKey()
	if err != nil {
		return err
	}
	if key != "" {
		c.API.APIKey = key
	}
	return nil
}
