package aiclient

import (
	"os"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"

	"github.com/sezginpak/lifestyles/internal/profile"
)

// CredentialProvider supplies the API key at request time. The key is never
// stored on the client or written to configuration files.
type CredentialProvider interface {
	APIKey() (string, error)
}

// EnvCredentials reads the key from an environment variable.
type EnvCredentials struct {
	Var string
}

func (e EnvCredentials) APIKey() (string, error) {
	v := os.Getenv(e.Var)
	if v == "" {
		return "", errors.Errorf("environment variable %s is not set", e.Var)
	}
	return v, nil
}

// KeyringCredentials reads the key from the OS keyring.
type KeyringCredentials struct {
	Service string
	User    string
}

func (k KeyringCredentials) APIKey() (string, error) {
	v, err := keyring.Get(k.Service, k.User)
	if err != nil {
		return "", errors.Wrapf(err, "read credential %s/%s from keyring", k.Service, k.User)
	}
	return v, nil
}

// StaticCredentials returns a fixed key. Tests only.
type StaticCredentials string

func (s StaticCredentials) APIKey() (string, error) {
	return string(s), nil
}

// NewCredentialProvider builds the provider selected by the profile.
func NewCredentialProvider(p *profile.Profile) (CredentialProvider, error) {
	switch p.CredentialSource {
	case "keyring":
		return KeyringCredentials{Service: p.KeyringService, User: p.KeyringUser}, nil
	case "env":
		return EnvCredentials{Var: "LIFESTYLES_API_KEY"}, nil
	default:
		return nil, errors.Errorf("unsupported credential source: %s", p.CredentialSource)
	}
}

// StoreKeyringCredential writes the key into the OS keyring.
func StoreKeyringCredential(p *profile.Profile, key string) error {
	if err := keyring.Set(p.KeyringService, p.KeyringUser, key); err != nil {
		return errors.Wrap(err, "store credential in keyring")
	}
	return nil
}
