package main

import (
	"fmt"

	"github.com/AnatoleLucet/fiber"
	"github.com/AnatoleLucet/fiber/backend/memory"
	"github.com/AnatoleLucet/fiber/host"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "render <scene.yaml> [next.yaml...]",
		Short: "Mount a YAML scene, then reconcile it against the following ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd, cfg.LogLevel)
			if err != nil {
				return err
			}

			b := memory.New()
			h := host.NewManual()
			opts := []fiber.Option{fiber.WithLogger(logger)}
			if cfg.Strict {
				opts = append(opts, fiber.WithStrictHooks())
			}
			rt := fiber.NewRuntime(b, h, opts...)
			trace := newTracer(cmd.OutOrStdout(), b, cfg.Color)

			for _, path := range args {
				scene, err := loadScene(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				trace.heading("== %s", path)
				rt.Render(scene, b.Container())
				ticks := trace.drive(rt, h, cfg.Budget)
				trace.summary(rt, ticks)
			}

			fmt.Fprint(cmd.OutOrStdout(), memory.Render(b.Container()))
			return nil
		},
	}
}
