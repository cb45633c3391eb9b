package config

import (
	"strings"

	"github.com/spf13/viper"
)

type App struct {
	Name string `mapstructure:"name"`
	// GuestProjectTTLHours bounds how long an anonymous project is kept
	// before it is eligible for cleanup.
	GuestProjectTTLHours int `mapstructure:"guest_project_ttl_hours"`
	// CreateRateLimit / CreateRateWindowSec gate plan generation per caller.
	// A limit of 0 disables the gate.
	CreateRateLimit     int `mapstructure:"create_rate_limit"`
	CreateRateWindowSec int `mapstructure:"create_rate_window_sec"`
}

type Server struct {
	Port int `mapstructure:"port"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Database struct {
	DSN         string `mapstructure:"dsn"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	EnableTLS   bool   `mapstructure:"enable_tls"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	EnableTLS bool   `mapstructure:"enable_tls"`
}

type OpenRouter struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type Config struct {
	App        App        `mapstructure:"app"`
	Server     Server     `mapstructure:"server"`
	Log        Log        `mapstructure:"log"`
	Database   Database   `mapstructure:"database"`
	Redis      Redis      `mapstructure:"redis"`
	OpenRouter OpenRouter `mapstructure:"openrouter"`
}

// Load reads config.yaml from the working directory when present, then
// overlays FORGE_* environment variables (e.g. FORGE_DATABASE_DSN,
// FORGE_OPENROUTER_API_KEY).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "forge")
	v.SetDefault("app.guest_project_ttl_hours", 168)
	v.SetDefault("app.create_rate_limit", 5)
	v.SetDefault("app.create_rate_window_sec", 3600)

	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")

	v.SetDefault("database.dsn", "host=localhost user=forge password=helloworld dbname=forge port=15432 sslmode=disable")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "qwen/qwen3-coder:free")
}
