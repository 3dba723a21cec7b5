package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AnatoleLucet/fiber"
	"github.com/AnatoleLucet/fiber/backend/memory"
	"github.com/AnatoleLucet/fiber/host"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// tracer prints the mutations a backend received, colored by kind.
type tracer struct {
	out     io.Writer
	backend *memory.Backend

	verbs map[string]*color.Color
	title *color.Color
}

func newTracer(out io.Writer, backend *memory.Backend, mode string) *tracer {
	t := &tracer{
		out:     out,
		backend: backend,
		verbs: map[string]*color.Color{
			"create": color.New(color.FgGreen),
			"insert": color.New(color.FgCyan),
			"update": color.New(color.FgYellow),
			"remove": color.New(color.FgRed),
		},
		title: color.New(color.Bold),
	}

	enabled := mode == "always" || (mode == "auto" && isTerminal(out))
	for _, c := range t.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *tracer) all() []*color.Color {
	out := []*color.Color{t.title}
	for _, c := range t.verbs {
		out = append(out, c)
	}
	return out
}

// flush prints and clears the mutations logged since the last call.
func (t *tracer) flush() {
	for _, line := range t.backend.Log() {
		verb, _, _ := strings.Cut(line, " ")
		if c, ok := t.verbs[verb]; ok {
			c.Fprintf(t.out, "  %s\n", line)
			continue
		}
		fmt.Fprintf(t.out, "  %s\n", line)
	}
	t.backend.ResetLog()
}

func (t *tracer) heading(format string, args ...any) {
	t.title.Fprintf(t.out, format+"\n", args...)
}

func (t *tracer) summary(rt *fiber.Runtime, ticks int) {
	s := rt.Stats()
	t.heading("committed after %d ticks: %d units, %d placements, %d updates, %d deletions, %d effects, %d cleanups",
		ticks, s.Units, s.Placements, s.Updates, s.Deletions, s.Effects, s.Cleanups)
}

// drive ticks the manual host until the runtime is idle, tracing every tick.
// A budget of 0 flushes everything at once.
func (t *tracer) drive(rt *fiber.Runtime, h *host.Manual, budget int) int {
	if budget == 0 {
		rt.Flush()
		t.flush()
		return 0
	}

	ticks := 0
	for rt.State() != fiber.StateIdle {
		h.TickUnits(budget)
		ticks++

		t.heading("tick %d: %s", ticks, rt.State())
		t.flush()
	}
	return ticks
}
