// Package config loads and validates Server and Client configuration
// through layered sources: built-in defaults, an optional YAML file, then
// environment variables, each layer overriding the one before it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"yuzu.yaml",
	"yuzu.yml",
	"/etc/yuzu/yuzu.yaml",
}

// ConfigPathEnvVar overrides DefaultConfigPaths with an explicit path.
const ConfigPathEnvVar = "YUZU_CONFIG_PATH"

// ServerConfig holds everything needed to construct a Server: the upgrade
// endpoint's HTTP surface, batching, and ambient-stack knobs.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds, e.g. ":8080".
	ListenAddr string `koanf:"listen_addr" validate:"required"`

	// Path is the HTTP path the WebSocket upgrade endpoint is mounted at.
	// A leading slash is added automatically if missing.
	Path string `koanf:"path" validate:"required"`

	// BatchDelay is how long patches are buffered before being flushed as
	// a patch-batch message. Zero disables batching.
	BatchDelay time.Duration `koanf:"batch_delay"`

	// RateLimitPerMinute caps new-connection attempts per client IP on the
	// upgrade endpoint. Zero disables rate limiting.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute" validate:"gte=0"`

	// CORSAllowedOrigins lists the origins the HTTP router's CORS
	// middleware answers with CORS headers. It does not block WebSocket
	// upgrades from other origins: the upgrader accepts every origin.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	Logging LoggingConfig `koanf:"logging"`
}

// ClientConfig holds everything needed to construct a Client.
type ClientConfig struct {
	// URL is the server's WebSocket endpoint, e.g. "ws://host:8080/api/yuzu".
	URL string `koanf:"url" validate:"required"`

	// Token is a static connection token appended to the connection URL.
	// Mutually exclusive in practice with a host-supplied TokenSource
	// callback, which isn't representable in a config file and is set
	// directly on yuzu.ClientOptions instead.
	Token string `koanf:"token"`

	// ReconnectInterval is the fixed delay between reconnect attempts.
	// Retry uses a fixed interval with no backoff.
	ReconnectInterval time.Duration `koanf:"reconnect_interval" validate:"gt=0"`

	Logging LoggingConfig `koanf:"logging"`
}

// LoggingConfig mirrors logging.Config in koanf/validator-friendly form.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:         ":8080",
		Path:               "/api/yuzu",
		BatchDelay:         0,
		RateLimitPerMinute: 120,
		Logging:            LoggingConfig{Level: "info", Format: "json"},
	}
}

func defaultClientConfig() *ClientConfig {
	return &ClientConfig{
		ReconnectInterval: 3 * time.Second,
		Logging:           LoggingConfig{Level: "info", Format: "json"},
	}
}

var validate = validator.New()

// LoadServerConfig layers defaults, an optional YAML file, and environment
// variables (prefix YUZU_) into a validated ServerConfig.
func LoadServerConfig() (*ServerConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultServerConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("yuzu/config: load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("yuzu/config: load file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("YUZU_", ".", envTransform("YUZU_")), nil); err != nil {
		return nil, fmt.Errorf("yuzu/config: load env: %w", err)
	}

	cfg := &ServerConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("yuzu/config: unmarshal: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("yuzu/config: validate: %w", err)
	}
	return cfg, nil
}

// LoadClientConfig layers defaults, an optional YAML file, and environment
// variables (prefix YUZU_CLIENT_) into a validated ClientConfig.
func LoadClientConfig() (*ClientConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultClientConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("yuzu/config: load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("yuzu/config: load file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("YUZU_CLIENT_", ".", envTransform("YUZU_CLIENT_")), nil); err != nil {
		return nil, fmt.Errorf("yuzu/config: load env: %w", err)
	}

	cfg := &ClientConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("yuzu/config: unmarshal: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("yuzu/config: validate: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform converts YUZU_BATCH_DELAY into batch_delay, and
// YUZU_LOGGING_LEVEL into logging.level, matching the nested koanf tags
// above. Only the logging sub-struct is nested; every other field keeps
// its underscores as part of a flat key.
func envTransform(prefix string) func(string) string {
	return func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if rest, ok := strings.CutPrefix(key, "logging_"); ok {
			return "logging." + rest
		}
		return key
	}
}
