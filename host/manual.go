// Package host provides cooperative schedulers driving a fiber runtime.
package host

import (
	"time"

	"github.com/AnatoleLucet/fiber"
)

// Budget is a wall-clock deadline of fixed length starting when it is created.
type Budget struct {
	end time.Time
}

func NewBudget(d time.Duration) *Budget {
	return &Budget{end: time.Now().Add(d)}
}

func (b *Budget) TimeRemaining() time.Duration {
	return time.Until(b.end)
}

// Units is a deadline allowing exactly n units of work with the default
// yield threshold: every query consumes one millisecond of a budget of n.
type Units struct {
	left int
}

func NewUnits(n int) *Units {
	return &Units{left: n}
}

func (u *Units) TimeRemaining() time.Duration {
	u.left--
	if u.left <= 0 {
		return 0
	}
	return time.Duration(u.left) * time.Millisecond
}

// Manual runs scheduled work only when ticked. It is deterministic, which makes
// it suitable for tests and step-by-step tools.
type Manual struct {
	pending []func(fiber.Deadline)
	ticks   int
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) ScheduleWork(fn func(fiber.Deadline)) {
	m.pending = append(m.pending, fn)
}

// Tick invokes the callbacks scheduled so far with deadline. Callbacks they
// schedule run on the next tick. It reports whether anything ran.
func (m *Manual) Tick(deadline fiber.Deadline) bool {
	pending := m.pending
	m.pending = nil

	for _, fn := range pending {
		fn(deadline)
	}

	m.ticks++
	return len(pending) > 0
}

// TickUnits ticks with a budget of n units of work.
func (m *Manual) TickUnits(n int) bool {
	return m.Tick(NewUnits(n))
}

// Ticks returns how many times Tick ran.
func (m *Manual) Ticks() int {
	return m.ticks
}

func (m *Manual) Pending() bool {
	return len(m.pending) > 0
}
