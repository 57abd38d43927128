package envvar

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/taskboard/taskboard-api/internal"
)

// Provider defines the behavior for providing secret values stored outside
// the environment.
type Provider interface {
	Get(key string) (string, error)
}

// Configuration defines the configuration values used by the different
// processes, resolving plain values from the environment and secured ones
// through the Provider.
type Configuration struct {
	provider Provider
}

// Load reads the env filename and loads it into the process environment,
// doing nothing when no filename was given.
func Load(filename string) error {
	if filename == "" {
		return nil
	}

	if err := godotenv.Load(filename); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "godotenv.Load")
	}

	return nil
}

// New instantiates a new Configuration using the received provider.
func New(provider Provider) *Configuration {
	return &Configuration{provider: provider}
}

// Get returns the value for the received key. When "<key>_SECURE" is present
// in the environment its value is used as the secret name to resolve through
// the Provider instead.
func (c *Configuration) Get(key string) (string, error) {
	res := os.Getenv(key)

	valSecret := os.Getenv(fmt.Sprintf("%s_SECURE", key))
	if valSecret != "" {
		valSecretRes, err := c.provider.Get(valSecret)
		if err != nil {
			return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "provider.Get")
		}

		res = valSecretRes
	}

	return res, nil
}
