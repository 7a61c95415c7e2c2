// Package config loads server configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	CashFlowName   string `mapstructure:"cash_flow_name"`
	ProfitLossName string `mapstructure:"profit_loss_name"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// STATEMENT_, e.g. STATEMENT_SERVER_PORT=9000.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("database.path", "statements.db")
	v.SetDefault("export.cash_flow_name", "cash-flow")
	v.SetDefault("export.profit_loss_name", "profit-loss")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("statement-engine")
	}

	v.SetEnvPrefix("STATEMENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
