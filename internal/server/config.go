package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/dashkit/goldenflower/internal/game"
)

// Config represents the complete gateway configuration
type Config struct {
	Server ServerSettings
	Game   GameSettings
}

// fileConfig mirrors Config with optional blocks so partial files decode
// cleanly and merge onto the defaults.
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// GameSettings contains the table rules exposed to every session
type GameSettings struct {
	Ante       int   `hcl:"ante,optional"`
	MaxBet     int   `hcl:"max_bet,optional"`
	MaxRounds  int   `hcl:"max_rounds,optional"`
	MinPlayers int   `hcl:"min_players,optional"`
	MaxPlayers int   `hcl:"max_players,optional"`
	Seed       int64 `hcl:"seed,optional"`
}

// DefaultConfig returns the default gateway configuration
func DefaultConfig() *Config {
	rules := game.DefaultRules()
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8090,
			LogLevel: "info",
		},
		Game: GameSettings{
			Ante:       rules.Ante,
			MaxBet:     rules.MaxBet,
			MaxRounds:  rules.MaxRounds,
			MinPlayers: game.MinPlayers,
			MaxPlayers: game.MaxPlayers,
		},
	}
}

// Rules converts the game settings into engine rules.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		Ante:      c.Game.Ante,
		MaxBet:    c.Game.MaxBet,
		MaxRounds: c.Game.MaxRounds,
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// LoadConfig loads gateway configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config file %s: %s", filename, diags.Error())
	}

	var parsed fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding config file %s: %s", filename, diags.Error())
	}

	// Apply defaults for missing values
	if s := parsed.Server; s != nil {
		if s.Address != "" {
			config.Server.Address = s.Address
		}
		if s.Port != 0 {
			config.Server.Port = s.Port
		}
		if s.LogLevel != "" {
			config.Server.LogLevel = s.LogLevel
		}
		if s.LogFile != "" {
			config.Server.LogFile = s.LogFile
		}
	}
	if g := parsed.Game; g != nil {
		if g.Ante != 0 {
			config.Game.Ante = g.Ante
		}
		if g.MaxBet != 0 {
			config.Game.MaxBet = g.MaxBet
		}
		if g.MaxRounds != 0 {
			config.Game.MaxRounds = g.MaxRounds
		}
		if g.MinPlayers != 0 {
			config.Game.MinPlayers = g.MinPlayers
		}
		if g.MaxPlayers != 0 {
			config.Game.MaxPlayers = g.MaxPlayers
		}
		if g.Seed != 0 {
			config.Game.Seed = g.Seed
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Game.Ante <= 0 {
		return fmt.Errorf("ante must be positive, got %d", c.Game.Ante)
	}
	if c.Game.MaxBet < c.Game.Ante {
		return fmt.Errorf("max_bet %d below ante %d", c.Game.MaxBet, c.Game.Ante)
	}
	if c.Game.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.Game.MaxRounds)
	}
	if c.Game.MinPlayers < 2 || c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf("player range %d-%d invalid", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	return nil
}
