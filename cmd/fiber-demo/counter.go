package main

import (
	"context"
	"fmt"
	"io"

	"github.com/AnatoleLucet/fiber"
	"github.com/AnatoleLucet/fiber/backend/memory"
	"github.com/AnatoleLucet/fiber/host"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// newCounter builds a counter component reporting committed values to out.
func newCounter(out io.Writer) *fiber.Component {
	return fiber.NewComponent("Counter", func(p fiber.Props) *fiber.Element {
		start, _ := p["start"].(int)
		count, setCount := fiber.UseState(start)

		fiber.UseEffect(func() func() {
			fmt.Fprintf(out, "effect: count=%d\n", count)
			return nil
		}, fiber.Deps(count))

		return fiber.H("div", fiber.Props{"class": "counter"},
			fiber.H("button", fiber.Props{
				"id":      "inc",
				"onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
			}, "+"),
			fiber.H("span", fiber.Props{"id": "value"}, count),
		)
	})
}

func newCounterCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Mount a counter and click it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd, cfg.LogLevel)
			if err != nil {
				return err
			}

			opts := []fiber.Option{fiber.WithLogger(logger)}
			if cfg.Strict {
				opts = append(opts, fiber.WithStrictHooks())
			}

			clicks := v.GetInt("clicks")
			start := v.GetInt("start")

			if v.GetBool("realtime") {
				return runRealtime(cmd.Context(), cmd.OutOrStdout(), cfg, opts, start, clicks)
			}
			return runStepped(cmd.OutOrStdout(), cfg, opts, start, clicks)
		},
	}

	cmd.Flags().Int("clicks", 3, "number of clicks")
	cmd.Flags().Int("start", 0, "initial count")
	cmd.Flags().Bool("realtime", false, "drive the runtime with a frame loop instead of manual ticks")

	return cmd
}

func runStepped(out io.Writer, cfg config, opts []fiber.Option, start, clicks int) error {
	b := memory.New()
	h := host.NewManual()
	rt := fiber.NewRuntime(b, h, opts...)
	trace := newTracer(out, b, cfg.Color)

	trace.heading("== mount")
	rt.Render(fiber.H(newCounter(out), fiber.Props{"start": start}), b.Container())
	trace.summary(rt, trace.drive(rt, h, cfg.Budget))

	for i := 1; i <= clicks; i++ {
		button := b.Container().FindByProp("id", "inc")
		if button == nil || !b.Dispatch(button, "click", nil) {
			return fmt.Errorf("click %d: button not found", i)
		}

		trace.heading("== click %d", i)
		trace.summary(rt, trace.drive(rt, h, cfg.Budget))
	}

	fmt.Fprint(out, memory.Render(b.Container()))
	return nil
}

// runRealtime runs the counter on a host.Loop while another goroutine clicks it.
func runRealtime(ctx context.Context, out io.Writer, cfg config, opts []fiber.Option, start, clicks int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	budget := cfg.Frame / 2
	loop := host.NewLoop(cfg.Frame, budget)
	b := memory.New()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})

	var rt *fiber.Runtime
	var final string
	g.Go(func() error {
		defer cancel()

		err := loop.Call(gctx, func() {
			rt = fiber.NewRuntime(b, loop, opts...)
			rt.Render(fiber.H(newCounter(out), fiber.Props{"start": start}), b.Container())
		})
		if err != nil {
			return err
		}

		for i := 0; i < clicks; {
			var clicked bool
			err := loop.Call(gctx, func() {
				if rt.State() != fiber.StateIdle {
					return
				}
				if button := b.Container().FindByProp("id", "inc"); button != nil {
					clicked = b.Dispatch(button, "click", nil)
				}
			})
			if err != nil {
				return err
			}
			if clicked {
				i++
			}
		}

		for {
			var idle bool
			err := loop.Call(gctx, func() {
				idle = rt.State() == fiber.StateIdle
				final = memory.Render(b.Container())
			})
			if err != nil {
				return err
			}
			if idle {
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running loop: %w", err)
	}

	fmt.Fprint(out, final)
	return nil
}
