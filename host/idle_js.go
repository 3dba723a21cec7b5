//go:build js && wasm

package host

import (
	"syscall/js"
	"time"

	"github.com/AnatoleLucet/fiber"
)

// Idle schedules work with the browser's requestIdleCallback.
type Idle struct{}

func NewIdle() *Idle {
	return &Idle{}
}

func (*Idle) ScheduleWork(fn func(fiber.Deadline)) {
	var cb js.Func
	cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer cb.Release()
		fn(idleDeadline{args[0]})
		return nil
	})

	js.Global().Call("requestIdleCallback", cb)
}

type idleDeadline struct {
	v js.Value
}

func (d idleDeadline) TimeRemaining() time.Duration {
	ms := d.v.Call("timeRemaining").Float()
	return time.Duration(ms * float64(time.Millisecond))
}
