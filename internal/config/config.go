package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// devHMACSecret signs tokens on single-machine installs. Online deployments
// must override it.
const devHMACSecret = "supersecret-dev-key"

type Config struct {
	Mode      Mode   `mapstructure:"mode"`
	HTTPAddr  string `mapstructure:"http_addr"`
	PublicURL string `mapstructure:"public_url"`

	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	EnableLocalAuth bool          `mapstructure:"enable_local_auth"`
	AuthHMACSecret  string        `mapstructure:"auth_hmac_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`

	CORSOriginsOnline  []string `mapstructure:"cors_origins_online"`
	CORSOriginsOffline []string `mapstructure:"cors_origins_offline"`

	SessionStore string        `mapstructure:"session_store"` // memory|redis
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	RedisAddr    string        `mapstructure:"redis_addr"`

	LogMode        string `mapstructure:"log_mode"` // dev|prod
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

const envPrefix = "SMARTMCQ"

// Load reads defaults, then the config file (if any), then SMARTMCQ_* env vars.
// path may be empty, in which case ./smartmcq.yaml is used when present.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("public_url", "")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("enable_local_auth", true)
	v.SetDefault("auth_hmac_secret", devHMACSecret)
	v.SetDefault("token_ttl", "8h")
	v.SetDefault("cors_origins_online", "https://smartmcq.example.com")
	v.SetDefault("cors_origins_offline", "http://localhost:3000")
	v.SetDefault("session_store", "memory")
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("redis_addr", "")
	v.SetDefault("log_mode", "dev")
	v.SetDefault("metrics_enabled", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" && fileExists("smartmcq.yaml") {
		path = "smartmcq.yaml"
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Config{
		Mode:               Mode(v.GetString("mode")),
		HTTPAddr:           v.GetString("http_addr"),
		PublicURL:          v.GetString("public_url"),
		DBDriver:           v.GetString("db_driver"),
		DBDSN:              v.GetString("db_dsn"),
		EnableLocalAuth:    v.GetBool("enable_local_auth"),
		AuthHMACSecret:     v.GetString("auth_hmac_secret"),
		TokenTTL:           v.GetDuration("token_ttl"),
		CORSOriginsOnline:  csv(v.Get("cors_origins_online")),
		CORSOriginsOffline: csv(v.Get("cors_origins_offline")),
		SessionStore:       v.GetString("session_store"),
		SessionTTL:         v.GetDuration("session_ttl"),
		RedisAddr:          v.GetString("redis_addr"),
		LogMode:            v.GetString("log_mode"),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		errs = append(errs, fmt.Errorf("mode: unknown %q", c.Mode))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("db_driver: unsupported %q", c.DBDriver))
	}
	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis_addr: required when session_store=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("session_store: unknown %q", c.SessionStore))
	}
	switch {
	case c.AuthHMACSecret == "":
		errs = append(errs, errors.New("auth_hmac_secret: required"))
	case c.Mode == ModeOnline && c.AuthHMACSecret == devHMACSecret:
		errs = append(errs, errors.New("auth_hmac_secret: the development default is not allowed in online mode"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl: must be positive"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl: must be positive"))
	}
	return errors.Join(errs...)
}

// CORSOrigins picks the origin list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// csv accepts a YAML list or a comma separated string (env vars).
func csv(raw any) []string {
	var parts []string
	switch t := raw.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []string:
		parts = t
	case []any:
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
