// Package cmd implements the command-line interface for wizql.
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wizql/internal/config"
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/session"
	"github.com/Norgate-AV/wizql/internal/timeouts"
)

// Config holds all application configuration
type Config struct {
	ConfigPath   string
	Verbose      bool
	ShowLogs     bool
	Elevate      bool
	StallTimeout time.Duration
	WarmUp       time.Duration
	PollInterval time.Duration
	Bind         session.BindStrategy
	Launch       process.Mode
}

// NewConfigFromFlags creates a Config from parsed command flags
func NewConfigFromFlags(cmd *cobra.Command) (*Config, error) {
	bind, err := session.ParseBindStrategy(getStringFlag(cmd, "bind", string(session.BindPositional)))
	if err != nil {
		return nil, err
	}

	launch, err := process.ParseMode(getStringFlag(cmd, "launch-mode", string(process.ModeShell)))
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigPath:   getStringFlag(cmd, "config", config.DefaultPath),
		Verbose:      getBoolFlag(cmd, "verbose"),
		ShowLogs:     getBoolFlag(cmd, "logs"),
		Elevate:      getBoolFlag(cmd, "elevate"),
		StallTimeout: getDurationFlag(cmd, "stall-timeout", timeouts.WindowStallTimeout),
		WarmUp:       getDurationFlag(cmd, "warmup", timeouts.LaunchWarmUpDelay),
		PollInterval: getDurationFlag(cmd, "poll-interval", timeouts.WindowPollInterval),
		Bind:         bind,
		Launch:       launch,
	}, nil
}

// SessionOptions converts the flags into orchestrator options
func (c *Config) SessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.StallTimeout = c.StallTimeout
	opts.WarmUp = c.WarmUp
	opts.PollInterval = c.PollInterval
	opts.Strategy = c.Bind

	return opts
}

// LaunchMode returns how clients must be started. Binding by process needs
// the client's own PID, which only a direct launch reports.
func (c *Config) LaunchMode() process.Mode {
	if c.Bind == session.BindProcess {
		return process.ModeDirect
	}

	return c.Launch
}

// getBoolFlag retrieves a boolean flag, checking both local and persistent flags
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		// Try persistent flags if not found in local flags
		val, _ = cmd.PersistentFlags().GetBool(name)
	}

	return val
}

func getStringFlag(cmd *cobra.Command, name, fallback string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		val, err = cmd.PersistentFlags().GetString(name)
		if err != nil {
			return fallback
		}
	}

	return val
}

func getDurationFlag(cmd *cobra.Command, name string, fallback time.Duration) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		val, err = cmd.PersistentFlags().GetDuration(name)
		if err != nil {
			return fallback
		}
	}

	return val
}
