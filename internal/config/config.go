package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Network   NetworkConfig   `toml:"network"`
	Building  BuildingConfig  `toml:"building"`
	World     WorldConfig     `toml:"world"`
	Database  DatabaseConfig  `toml:"database"`
	Scripting ScriptingConfig `toml:"scripting"`
	Admin     AdminConfig     `toml:"admin"`
	Logging   LoggingConfig   `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindAddress       string        `toml:"bind_address"`
	TickRate          time.Duration `toml:"tick_rate"`
	InQueueSize       int           `toml:"in_queue_size"`
	OutQueueSize      int           `toml:"out_queue_size"`
	MaxPacketsPerTick int           `toml:"max_packets_per_tick"`
	MaxClients        int           `toml:"max_clients"` // 0 = unlimited
	WriteTimeout      time.Duration `toml:"write_timeout"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
}

// BuildingConfig is the runtime surface of the building subsystem. Piece
// geometry, cost, and health are compiled into the catalog.
type BuildingConfig struct {
	Enabled        bool `toml:"enabled"`
	StartMaterials int  `toml:"start_materials"`
	MaxStructures  int  `toml:"max_structures"`
	LinearCensus   bool `toml:"linear_census"` // scan every structure instead of the cell index
}

type WorldConfig struct {
	MapPath     string `toml:"map_path"`
	MaxEntities int    `toml:"max_entities"`
}

type DatabaseConfig struct {
	DSN              string        `toml:"dsn"` // empty disables the build ledger
	MaxOpenConns     int           `toml:"max_open_conns"`
	MaxIdleConns     int           `toml:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `toml:"conn_max_lifetime"`
	LedgerFlushTicks int           `toml:"ledger_flush_ticks"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty disables scripted structure behavior
}

type AdminConfig struct {
	RconPasswordHash string `toml:"rcon_password_hash"` // bcrypt; empty disables rcon
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type RateLimitConfig struct {
	Enabled          bool `toml:"enabled"`
	PacketsPerSecond int  `toml:"packets_per_second"`
	Burst            int  `toml:"burst"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Validate rejects values the tick loop cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Network.TickRate <= 0 {
		errs = append(errs, errors.New("network.tick_rate must be positive"))
	}
	if c.Building.StartMaterials < 0 {
		errs = append(errs, errors.New("building.start_materials must not be negative"))
	}
	if c.Building.MaxStructures <= 0 {
		errs = append(errs, errors.New("building.max_structures must be positive"))
	}
	if c.World.MaxEntities <= 0 {
		errs = append(errs, errors.New("world.max_entities must be positive"))
	}
	if c.Database.LedgerFlushTicks <= 0 {
		errs = append(errs, errors.New("database.ledger_flush_ticks must be positive"))
	}
	return errors.Join(errs...)
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "QuakeNite",
			ID:   1,
		},
		Network: NetworkConfig{
			BindAddress:       "0.0.0.0:27960",
			TickRate:          50 * time.Millisecond,
			InQueueSize:       128,
			OutQueueSize:      512,
			MaxPacketsPerTick: 32,
			MaxClients:        32,
			WriteTimeout:      10 * time.Second,
			ReadTimeout:       60 * time.Second,
		},
		Building: BuildingConfig{
			Enabled:        true,
			StartMaterials: 100,
			MaxStructures:  256,
		},
		World: WorldConfig{
			MapPath:     "data/maps/qnarena1.yaml",
			MaxEntities: 1024,
		},
		Database: DatabaseConfig{
			MaxOpenConns:     4,
			MaxIdleConns:     1,
			ConnMaxLifetime:  30 * time.Minute,
			LedgerFlushTicks: 100,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			PacketsPerSecond: 120,
			Burst:            60,
		},
	}
}
