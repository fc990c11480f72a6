package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	Media    MediaConfig    `yaml:"media"`
	Wiki     WikiConfig     `yaml:"wiki"`
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings for the chat endpoint and probes.
type ServerConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"SERVER_ENABLED"          env-default:"true"`
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"20971520"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig holds PostgreSQL connection settings. The connection string
// is assembled from host, database, user and password unless DSN is set.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	Host            string        `yaml:"host"               env:"DATABASE_HOST"               env-default:"localhost"`
	Port            int           `yaml:"port"               env:"DATABASE_PORT"               env-default:"5432"`
	Name            string        `yaml:"database"           env:"DATABASE_NAME"               env-default:"terminology"`
	User            string        `yaml:"user"               env:"DATABASE_USER"               env-default:"postgres"`
	Password        string        `yaml:"password"           env:"DATABASE_PASSWORD"`
	SSLMode         string        `yaml:"sslmode"            env:"DATABASE_SSLMODE"            env-default:"disable"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// ConnString returns DSN when set, otherwise a postgres URL built from parts.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}

// SessionConfig selects where conversation sessions live.
type SessionConfig struct {
	Store string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	TTL   time.Duration `yaml:"ttl"   env:"SESSION_TTL"   env-default:"168h"`
}

// RedisConfig holds Redis connection settings for the redis session store.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Enabled     bool          `yaml:"enabled"      env:"TELEGRAM_ENABLED"      env-default:"false"`
	Token       string        `yaml:"token"        env:"TELEGRAM_TOKEN"`
	PollTimeout time.Duration `yaml:"poll_timeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"60s"`
	Workers     int           `yaml:"workers"      env:"TELEGRAM_WORKERS"      env-default:"8"`
	Debug       bool          `yaml:"debug"        env:"TELEGRAM_DEBUG"        env-default:"false"`
}

// MediaConfig holds the root directory for uploaded media files.
type MediaConfig struct {
	Dir string `yaml:"dir" env:"MEDIA_DIR" env-default:"./multimedia"`
}

// WikiConfig holds MediaWiki connection settings used by the publisher.
type WikiConfig struct {
	APIURL   string        `yaml:"api_url"  env:"WIKI_API_URL"  env-default:"http://mediawiki:80/api.php"`
	User     string        `yaml:"user"     env:"WIKI_USER"`
	Password string        `yaml:"password" env:"WIKI_PASSWORD"`
	Timeout  time.Duration `yaml:"timeout"  env:"WIKI_TIMEOUT"  env-default:"30s"`
}

// BotConfig holds conversation settings.
type BotConfig struct {
	DefaultLocale string `yaml:"default_locale" env:"BOT_DEFAULT_LOCALE" env-default:"en"`
	// MaxWordsPerBatch bounds one synonyms/similar words message.
	MaxWordsPerBatch int `yaml:"max_words_per_batch" env:"BOT_MAX_WORDS_PER_BATCH" env-default:"20"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
