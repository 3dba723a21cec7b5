package host

import (
	"context"
	"sync"
	"time"

	"github.com/AnatoleLucet/fiber"
)

// Loop is a single goroutine event loop. Posted tasks and scheduled work both
// run on the goroutine calling Run, so a runtime driven by a Loop never sees
// concurrent calls. Scheduled work runs once per frame with a deadline of budget.
type Loop struct {
	frame  time.Duration
	budget time.Duration

	tasks chan func()

	mu      sync.Mutex
	pending []func(fiber.Deadline)
}

func NewLoop(frame, budget time.Duration) *Loop {
	return &Loop{
		frame:  frame,
		budget: budget,
		tasks:  make(chan func(), 64),
	}
}

func (l *Loop) ScheduleWork(fn func(fiber.Deadline)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, fn)
}

// Post queues fn to run on the loop goroutine. It is safe to call from any goroutine.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case l.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})

	err := l.Post(ctx, func() {
		defer close(done)
		fn()
	})
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks and frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			task()
		case <-ticker.C:
			l.idle()
		}
	}
}

func (l *Loop) idle() {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	deadline := NewBudget(l.budget)
	for _, fn := range pending {
		fn(deadline)
	}
}
