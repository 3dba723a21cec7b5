package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FIBER"

// config holds the settings shared by every command.
type config struct {
	Budget   int
	Color    string
	LogLevel string
	Strict   bool
	Frame    time.Duration
}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var configFile string

	cmd := &cobra.Command{
		Use:           "fiber-demo",
		Short:         "Trace how element trees are reconciled into a render target",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}

			if configFile == "" {
				return nil
			}

			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config %s: %w", configFile, err)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.Int("budget", 0, "units of work per host tick, 0 renders in one go")
	flags.String("color", "auto", "color output: auto, always or never")
	flags.String("log-level", "warn", "runtime log level")
	flags.Bool("strict", false, "fail when hook calls change between renders")
	flags.Duration("frame", 16*time.Millisecond, "frame length of the realtime loop")

	cmd.AddCommand(newRenderCmd(v))
	cmd.AddCommand(newCounterCmd(v))

	return cmd
}

func loadConfig(v *viper.Viper) (config, error) {
	cfg := config{
		Budget:   v.GetInt("budget"),
		Color:    v.GetString("color"),
		LogLevel: v.GetString("log-level"),
		Strict:   v.GetBool("strict"),
		Frame:    v.GetDuration("frame"),
	}

	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return cfg, fmt.Errorf("invalid color mode %q", cfg.Color)
	}

	if cfg.Budget < 0 {
		return cfg, fmt.Errorf("budget must not be negative, got %d", cfg.Budget)
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(lvl)

	return logger, nil
}
