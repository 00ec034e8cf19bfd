package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Stripe      StripeConfig
	OpenAI      OpenAIConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	// Path is the SQLite file path (without extension); the literal value
	// "memory" selects the process-local store instead.
	Path string
}

type StripeConfig struct {
	SecretKey     string
	ClientID      string
	RedirectURL   string
	WebhookSecret string
}

type OpenAIConfig struct {
	// APIKey is optional; when empty the draft generator uses its
	// deterministic fallback and never performs network I/O.
	APIKey  string
	Model   string
	BaseURL string
}

type AuthConfig struct {
	SessionSecret string
	SecureCookie  bool
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("disputedesk_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("disputedesk_port", 8080)
	v.SetDefault("disputedesk_db_path", "data/disputedesk")
	v.SetDefault("disputedesk_secure_cookie", false)
	v.SetDefault("disputedesk_session_secret", "")
	v.SetDefault("disputedesk_rate_limit_rps", 10.0)
	v.SetDefault("disputedesk_rate_limit_burst", 20)
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("stripe_client_id", "")
	v.SetDefault("stripe_redirect_url", "")
	v.SetDefault("stripe_webhook_secret", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", "")

	env := resolveEnvironment(v)
	port := v.GetInt("disputedesk_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid DISPUTEDESK_PORT: %d", port)
	}

	var missing []string
	secretKey := strings.TrimSpace(v.GetString("stripe_secret_key"))
	if secretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	webhookSecret := strings.TrimSpace(v.GetString("stripe_webhook_secret"))
	if webhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	redirectURL := strings.TrimSpace(v.GetString("stripe_redirect_url"))
	if redirectURL == "" {
		redirectURL = fmt.Sprintf("http://localhost:%d/connect/stripe/callback", port)
	}

	ratePerSecond := v.GetFloat64("disputedesk_rate_limit_rps")
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	rateBurst := v.GetInt("disputedesk_rate_limit_burst")
	if rateBurst <= 0 {
		rateBurst = 20
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("disputedesk_db_path")),
		},
		Stripe: StripeConfig{
			SecretKey:     secretKey,
			ClientID:      strings.TrimSpace(v.GetString("stripe_client_id")),
			RedirectURL:   redirectURL,
			WebhookSecret: webhookSecret,
		},
		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(v.GetString("openai_api_key")),
			Model:   strings.TrimSpace(v.GetString("openai_model")),
			BaseURL: strings.TrimSpace(v.GetString("openai_base_url")),
		},
		Auth: AuthConfig{
			SessionSecret: strings.TrimSpace(v.GetString("disputedesk_session_secret")),
			SecureCookie:  v.GetBool("disputedesk_secure_cookie"),
		},
		RateLimit: RateLimitConfig{
			PerSecond: ratePerSecond,
			Burst:     rateBurst,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/disputedesk"
	}
	if !cfg.IsLocalDevelopment() && cfg.Auth.SessionSecret == "" {
		return Config{}, fmt.Errorf("DISPUTEDESK_SESSION_SECRET is required outside local/dev environments")
	}
	if cfg.IsLocalDevelopment() && cfg.Auth.SessionSecret == "" {
		cfg.Auth.SessionSecret = "disputedesk-local-dev"
	}

	return cfg, nil
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"disputedesk_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
