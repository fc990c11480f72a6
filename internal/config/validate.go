package config

import (
	"fmt"
	"strings"
)

// Session store kinds.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.DSN == "" && strings.TrimSpace(c.Database.Host) == "" {
		return fmt.Errorf("database: either dsn or host must be set")
	}
	if c.Database.DSN == "" && strings.TrimSpace(c.Database.Name) == "" {
		return fmt.Errorf("database: database name is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database: min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis: addr is required when session.store is redis")
		}
	default:
		return fmt.Errorf("session: unknown store %q (want memory or redis)", c.Session.Store)
	}

	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			return fmt.Errorf("telegram: token is required when telegram is enabled")
		}
		if c.Telegram.Workers <= 0 {
			return fmt.Errorf("telegram: workers must be > 0 (got %d)", c.Telegram.Workers)
		}
	}

	if !c.Telegram.Enabled && !c.Server.Enabled {
		return fmt.Errorf("at least one transport must be enabled (server or telegram)")
	}

	if strings.TrimSpace(c.Media.Dir) == "" {
		return fmt.Errorf("media: dir is required")
	}

	if c.Bot.MaxWordsPerBatch <= 0 {
		return fmt.Errorf("bot: max_words_per_batch must be > 0 (got %d)", c.Bot.MaxWordsPerBatch)
	}

	return nil
}
