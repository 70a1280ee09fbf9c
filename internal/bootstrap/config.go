package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr       string        `mapstructure:"SERVER_ADDR"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogDevelopment   bool          `mapstructure:"LOG_DEVELOPMENT"`
	SSEHeartbeat     time.Duration `mapstructure:"SSE_HEARTBEAT"`
	SubscriberBuffer int           `mapstructure:"SUBSCRIBER_BUFFER"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_ADDR":       ":8080",
	"LOG_LEVEL":         "info",
	"LOG_DEVELOPMENT":   false,
	"SSE_HEARTBEAT":     "15s",
	"SUBSCRIBER_BUFFER": 1,
	"SHUTDOWN_TIMEOUT":  "5s",
}

// Setup loads configuration from cfgPath (if it exists), then the
// environment, then defaults. An empty cfgPath skips the file.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.ServerAddr == "" {
		return errors.New("SERVER_ADDR must not be empty")
	}
	if c.SSEHeartbeat <= 0 {
		return fmt.Errorf("SSE_HEARTBEAT must be positive, got %s", c.SSEHeartbeat)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("SUBSCRIBER_BUFFER must be at least 1, got %d", c.SubscriberBuffer)
	}
	return nil
}
