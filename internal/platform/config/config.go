package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg holds the loaded application configuration for the whole process.
var Cfg *Config

// Config mirrors the structure of config.yaml.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Club     ClubConfig     `mapstructure:"club"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig holds CORS settings.
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig holds persistence and cache settings.
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig holds the SQLite database settings.
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// ClubConfig holds loyalty-program tuning knobs.
type ClubConfig struct {
	Cards CardConfig `mapstructure:"cards"`
	Scans ScanConfig `mapstructure:"scans"`
}

// CardConfig tunes the estate-card reveal game. RarityWeights overrides the
// built-in 60/30/10 base drop weights when present.
type CardConfig struct {
	RarityWeights        map[string]float64 `mapstructure:"rarityWeights"`
	DuplicateBonusPoints int                `mapstructure:"duplicateBonusPoints"`
	MilestoneCardCount   int                `mapstructure:"milestoneCardCount"`
	MilestoneBonusPoints int                `mapstructure:"milestoneBonusPoints"`
}

// ScanConfig tunes the pack-scan frequency limiter.
type ScanConfig struct {
	MaxPerWindow int `mapstructure:"maxPerWindow"`
	WindowHours  int `mapstructure:"windowHours"`
}

// LoadConfig locates, reads and unmarshals config.yaml, applying environment
// variable overrides (e.g. SERVER_ADDRESS) and defaults for the club tuning.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.sqlite.path", "club.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("club.cards.duplicateBonusPoints", 5)
	v.SetDefault("club.cards.milestoneCardCount", 3)
	v.SetDefault("club.cards.milestoneBonusPoints", 100)
	v.SetDefault("club.scans.maxPerWindow", 50)
	v.SetDefault("club.scans.windowHours", 24)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}
