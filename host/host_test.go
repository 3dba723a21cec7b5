package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/AnatoleLucet/fiber"
	"github.com/AnatoleLucet/fiber/backend/memory"
	"github.com/AnatoleLucet/fiber/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	u := host.NewUnits(3)

	assert.Equal(t, 2*time.Millisecond, u.TimeRemaining())
	assert.Equal(t, time.Millisecond, u.TimeRemaining())
	assert.Equal(t, time.Duration(0), u.TimeRemaining())
	assert.Equal(t, time.Duration(0), u.TimeRemaining())
}

func TestManual(t *testing.T) {
	t.Run("runs callbacks scheduled before the tick", func(t *testing.T) {
		m := host.NewManual()
		log := []string{}

		m.ScheduleWork(func(fiber.Deadline) {
			log = append(log, "first")
			m.ScheduleWork(func(fiber.Deadline) { log = append(log, "second") })
		})

		assert.True(t, m.TickUnits(1))
		assert.Equal(t, []string{"first"}, log)
		assert.True(t, m.Pending())

		assert.True(t, m.TickUnits(1))
		assert.False(t, m.TickUnits(1))
		assert.Equal(t, []string{"first", "second"}, log)
		assert.Equal(t, 3, m.Ticks())
	})
}

func TestLoop(t *testing.T) {
	t.Run("renders on the loop goroutine", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		loop := host.NewLoop(time.Millisecond, 10*time.Millisecond)
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		b := memory.New()
		var rt *fiber.Runtime
		require.NoError(t, loop.Call(ctx, func() {
			rt = fiber.NewRuntime(b, loop)
			rt.Render(fiber.H("p", nil, "hello"), b.Container())
		}))

		var text string
		require.Eventually(t, func() bool {
			_ = loop.Call(ctx, func() { text = b.Container().Text() })
			return text == "hello"
		}, 2*time.Second, 5*time.Millisecond)

		var state fiber.State
		require.NoError(t, loop.Call(ctx, func() { state = rt.State() }))
		assert.Equal(t, fiber.StateIdle, state)

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("post fails once the context is done", func(t *testing.T) {
		loop := host.NewLoop(time.Millisecond, time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// the task buffer may still accept, but Call can never complete
		err := loop.Call(ctx, func() {})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
