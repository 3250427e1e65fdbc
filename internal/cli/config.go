// Package cli implements the professionals command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnwards/professionals/internal/config"
	"github.com/johnwards/professionals/internal/logging"
)

// AddGlobalFlags registers the flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.String("api-url", "", "remote API base URL (overrides PROFESSIONALS_API_URL)")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("log-format", "", "log format: text or json")
}

// setup loads configuration, applies flag overrides and installs the
// default logger.
func setup(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	override(cmd, "api-url", &cfg.APIBaseURL)
	override(cmd, "log-level", &cfg.LogLevel)
	override(cmd, "log-format", &cfg.LogFormat)
	override(cmd, "addr", &cfg.Addr)
	override(cmd, "stub-addr", &cfg.StubAddr)
	override(cmd, "db", &cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return config.Config{}, fmt.Errorf("setup logging: %w", err)
	}
	return cfg, nil
}

// override replaces *dst with the named string flag when the user set it.
func override(cmd *cobra.Command, name string, dst *string) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return
	}
	*dst = f.Value.String()
}
