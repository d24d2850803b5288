package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// SecretManager reads application secrets from a Vault KV v2 mount.
// Secrets live under a single path ({mount}/data/comanda) with one
// field per credential, keyed by the lowercased env-var name. It
// implements ports.SecretSource.
type SecretManager struct {
	client *api.Client
	mount  string
	log    *zap.Logger
}

func NewSecretManager(address, token, mount string, log *zap.Logger) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}

	client.SetToken(token)

	if mount == "" {
		mount = "secret"
	}

	return &SecretManager{client: client, mount: mount, log: log}, nil
}

func (sm *SecretManager) Lookup(ctx context.Context, name string) (string, bool, error) {
	path := sm.mount + "/data/comanda"

	secret, err := sm.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", false, fmt.Errorf("vault read %s: %w", path, err)
	}
	if secret == nil {
		return "", false, nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", false, nil
	}

	raw, ok := data[strings.ToLower(name)]
	if !ok {
		return "", false, nil
	}

	value, ok := raw.(string)
	if !ok || value == "" {
		return "", false, nil
	}

	sm.log.Debug("Credential resolved from Vault", zap.String("credential", name))
	return value, true, nil
}
