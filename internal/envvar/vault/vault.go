package vault

import (
	"github.com/hashicorp/vault/api"

	"github.com/taskboard/taskboard-api/internal"
)

// Provider implements envvar.Provider backed by HashiCorp Vault's KV v2
// secrets engine.
type Provider struct {
	client *api.Client
	path   string
}

// New instantiates a Provider talking to the Vault server at the received
// address, reading secrets below path.
func New(token, addr, path string) (*Provider, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "api.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		client: client,
		path:   path,
	}, nil
}

// Get returns the secret value matching the received key.
func (p *Provider) Get(key string) (string, error) {
	secret, err := p.client.Logical().Read(p.path)
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "Logical().Read")
	}

	if secret == nil || secret.Data == nil {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "no secrets at %s", p.path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeUnknown, "unexpected secret payload")
	}

	res, ok := data[key].(string)
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "secret %q not found", key)
	}

	return res, nil
}
