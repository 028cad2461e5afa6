package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	LogLevelEnv     = "VCM_LOG"
	defaultLogLevel = log.WarnLevel
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, fallback bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return fallback, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// ParseLogLevel reads --log, then VCM_LOG, then falls back to warn.
func ParseLogLevel(cmd *cobra.Command) (log.Level, error) {
	value, err := OptionalStringFlag(cmd, "log")
	if err != nil {
		return defaultLogLevel, err
	}
	if value == "" {
		value = strings.TrimSpace(os.Getenv(LogLevelEnv))
	}
	if value == "" {
		return defaultLogLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(value))
	if err != nil {
		return defaultLogLevel, fmt.Errorf("invalid log level %q: %w", value, err)
	}
	return level, nil
}
