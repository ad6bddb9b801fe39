package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server Settings      `hcl:"server,block"`
	Table  TableSettings `hcl:"table,block"`
}

// Settings contains server-level configuration.
type Settings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings configures the single table this server runs.
type TableSettings struct {
	SmallBlind   int `hcl:"small_blind,optional"`
	BigBlind     int `hcl:"big_blind,optional"`
	StartingBank int `hcl:"starting_bank,optional"`
	MinPlayers   int `hcl:"min_players,optional"`
	HandDelayMS  int `hcl:"hand_delay_ms,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			SmallBlind:   5,
			BigBlind:     10,
			StartingBank: 100,
			MinPlayers:   2,
			HandDelayMS:  3000,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	def := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = def.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = def.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = def.Server.LogLevel
	}
	if config.Table.SmallBlind == 0 {
		config.Table.SmallBlind = def.Table.SmallBlind
	}
	if config.Table.BigBlind == 0 {
		config.Table.BigBlind = def.Table.BigBlind
	}
	if config.Table.StartingBank == 0 {
		config.Table.StartingBank = def.Table.StartingBank
	}
	if config.Table.MinPlayers == 0 {
		config.Table.MinPlayers = def.Table.MinPlayers
	}
	if config.Table.HandDelayMS == 0 {
		config.Table.HandDelayMS = def.Table.HandDelayMS
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Table.StartingBank < c.Table.BigBlind {
		return fmt.Errorf("starting bank must cover the big blind")
	}
	if c.Table.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2")
	}
	return nil
}

// ListenAddress returns the full address to listen on.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
