// Package profile holds the runtime configuration for the AI pipeline.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is the configuration used to construct the pipeline services.
type Profile struct {
	// Mode can be "prod" or "dev".
	Mode string
	// Data is the data directory holding the key-value store.
	Data string

	// AIProvider selects the service client implementation ("anthropic" or "proxy").
	AIProvider string
	// AIBaseURL is the messages endpoint of the remote model API.
	AIBaseURL string
	// AIProxyBaseURL is the OpenAI-compatible backend proxy endpoint.
	AIProxyBaseURL string
	// AIModel is the model identifier sent with every request.
	AIModel string
	// AIMaxTokens is the default max_tokens per request.
	AIMaxTokens int

	// CredentialSource selects where the API credential is read from
	// ("keyring" or "env").
	CredentialSource string
	// KeyringService is the keyring service name used when CredentialSource is "keyring".
	KeyringService string
	// KeyringUser is the keyring account name.
	KeyringUser string

	// InputCostPer1M and OutputCostPer1M are the USD token rates used to
	// derive the estimated cost from the usage counters.
	InputCostPer1M  float64
	OutputCostPer1M float64

	// Client-side sliding-window caps.
	MaxRequestsPerMinute int
	MaxRequestsPerHour   int
	MaxRequestsPerDay    int

	// FreeDailyMessages is the product-level free-tier daily message quota.
	FreeDailyMessages int
}

// Default returns a profile with the standard settings.
func Default() *Profile {
	return &Profile{
		Mode:                 "prod",
		Data:                 ".lifestyles",
		AIProvider:           "anthropic",
		AIBaseURL:            "https://api.anthropic.com/v1/messages",
		AIModel:              "claude-3-5-haiku-20241022",
		AIMaxTokens:          1024,
		CredentialSource:     "env",
		KeyringService:       "lifestyles",
		KeyringUser:          "anthropic-api-key",
		InputCostPer1M:       0.25,
		OutputCostPer1M:      1.25,
		MaxRequestsPerMinute: 8,
		MaxRequestsPerHour:   30,
		MaxRequestsPerDay:    150,
		FreeDailyMessages:    5,
	}
}

// IsDev reports whether the profile runs in development mode.
func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// KVPath returns the SQLite key-value store path under the data directory.
func (p *Profile) KVPath() string {
	return filepath.Join(p.Data, "lifestyles_kv.db")
}

// DataPath returns the SQLite life-data store path under the data directory.
func (p *Profile) DataPath() string {
	return filepath.Join(p.Data, "lifestyles_data.db")
}

// FromEnv overlays configuration from LIFESTYLES_* environment variables.
func (p *Profile) FromEnv() {
	setString(&p.Mode, "LIFESTYLES_MODE")
	setString(&p.Data, "LIFESTYLES_DATA")
	setString(&p.AIProvider, "LIFESTYLES_AI_PROVIDER")
	setString(&p.AIBaseURL, "LIFESTYLES_AI_BASE_URL")
	setString(&p.AIProxyBaseURL, "LIFESTYLES_AI_PROXY_BASE_URL")
	setString(&p.AIModel, "LIFESTYLES_AI_MODEL")
	setInt(&p.AIMaxTokens, "LIFESTYLES_AI_MAX_TOKENS")
	setString(&p.CredentialSource, "LIFESTYLES_CREDENTIAL_SOURCE")
	setString(&p.KeyringService, "LIFESTYLES_KEYRING_SERVICE")
	setString(&p.KeyringUser, "LIFESTYLES_KEYRING_USER")
	setInt(&p.MaxRequestsPerMinute, "LIFESTYLES_MAX_REQUESTS_PER_MINUTE")
	setInt(&p.MaxRequestsPerHour, "LIFESTYLES_MAX_REQUESTS_PER_HOUR")
	setInt(&p.MaxRequestsPerDay, "LIFESTYLES_MAX_REQUESTS_PER_DAY")
	setInt(&p.FreeDailyMessages, "LIFESTYLES_FREE_DAILY_MESSAGES")
}

// Validate checks the profile for inconsistencies and prepares the data directory.
func (p *Profile) Validate() error {
	switch p.AIProvider {
	case "anthropic", "proxy":
	default:
		return errors.Errorf("unsupported AI provider: %s", p.AIProvider)
	}
	if p.AIProvider == "proxy" && p.AIProxyBaseURL == "" {
		return errors.New("proxy provider requires LIFESTYLES_AI_PROXY_BASE_URL")
	}
	if p.AIMaxTokens <= 0 {
		return errors.New("max tokens must be positive")
	}
	if p.MaxRequestsPerMinute <= 0 || p.MaxRequestsPerHour <= 0 || p.MaxRequestsPerDay <= 0 {
		return errors.New("rate limit caps must be positive")
	}
	switch p.CredentialSource {
	case "keyring", "env":
	default:
		return errors.Errorf("unsupported credential source: %s", p.CredentialSource)
	}
	if err := os.MkdirAll(p.Data, 0o750); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	return nil
}

// Describe returns a short display string for logs.
func (p *Profile) Describe() string {
	return fmt.Sprintf("%s (%s)", p.AIModel, p.AIProvider)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
