package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. DUNGEONRPG_LOG_LEVEL.
const EnvPrefix = "DUNGEONRPG_"

// Game holds all configuration for the dungeon simulator.
type Game struct {
	DataDir  string `yaml:"data_dir"  env:"DATA_DIR"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Battle   BattleConfig   `yaml:"battle"   envPrefix:"BATTLE_"`
	Dungeon  DungeonConfig  `yaml:"dungeon"  envPrefix:"DUNGEON_"`
	Rewards  RewardsConfig  `yaml:"rewards"  envPrefix:"REWARDS_"`
}

// DatabaseConfig selects and configures the save store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"   env:"DRIVER"` // sqlite | postgres
	Path     string `yaml:"path"     env:"PATH"`   // sqlite file
	Host     string `yaml:"host"     env:"HOST"`
	Port     int    `yaml:"port"     env:"PORT"`
	User     string `yaml:"user"     env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname"   env:"DBNAME"`
	SSLMode  string `yaml:"sslmode"  env:"SSLMODE"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// BattleConfig configures the random source.
type BattleConfig struct {
	Seed int64 `yaml:"seed" env:"SEED"` // 0 = crypto seed
}

// DungeonConfig bounds dungeon progress.
type DungeonConfig struct {
	MaxZone       int `yaml:"max_zone"        env:"MAX_ZONE"`
	StagesPerZone int `yaml:"stages_per_zone" env:"STAGES_PER_ZONE"`
}

// RewardsConfig holds the starter inventory of a new character.
// nil means the default set (potion_small: 1); an empty map means no items.
type RewardsConfig struct {
	StarterItems model.Inventory `yaml:"starter_items" env:"STARTER_ITEMS"` // env: "potion_small:1,elixir:2"
}

// DefaultGame returns Game config with sensible defaults.
func DefaultGame() Game {
	return Game{
		DataDir:  "data",
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver:  DriverSQLite,
			Path:    "save/dungeonrpg.db",
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "dungeonrpg",
			DBName:  "dungeonrpg",
			SSLMode: "disable",
		},
		Dungeon: DungeonConfig{
			MaxZone:       10,
			StagesPerZone: 5,
		},
	}
}

// LoadGame loads config from a YAML file, then applies DUNGEONRPG_*
// environment overrides. A missing file yields the defaults.
func LoadGame(path string) (Game, error) {
	cfg := DefaultGame()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (g Game) Validate() error {
	switch g.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database.driver: unsupported %q", g.Database.Driver)
	}
	if g.Dungeon.MaxZone < 1 {
		return fmt.Errorf("dungeon.max_zone: must be positive, got %d", g.Dungeon.MaxZone)
	}
	if g.Dungeon.StagesPerZone < 1 {
		return fmt.Errorf("dungeon.stages_per_zone: must be positive, got %d", g.Dungeon.StagesPerZone)
	}
	for id, qty := range g.Rewards.StarterItems {
		if qty <= 0 {
			return fmt.Errorf("rewards.starter_items.%s: quantity must be positive, got %d", id, qty)
		}
	}
	return nil
}

// SlogLevel maps log_level to a slog level. Unknown values mean info.
func (g Game) SlogLevel() slog.Level {
	switch strings.ToLower(g.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
