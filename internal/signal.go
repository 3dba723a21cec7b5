package internal

// Action is a queued state update: either a replacement value or a
// function from the previous state to the next one.
type Action struct {
	value  any
	update func(any) any
}

func ReplaceAction(v any) Action { return Action{value: v} }

func UpdateAction(fn func(any) any) Action { return Action{update: fn} }

func (a Action) apply(prev any) any {
	if a.update != nil {
		return a.update(prev)
	}
	return a.value
}

// Signal is the persistent storage of one state hook slot. Successive renders of
// the same logical node share it, so setters stay valid across renders.
type Signal struct {
	value any
	queue []Action
}

func NewSignal(initial any) *Signal {
	return &Signal{value: initial}
}

// Value returns the last committed value.
func (s *Signal) Value() any {
	return s.value
}

// Queue returns the actions not yet folded into a committed value.
func (s *Signal) Queue() []Action {
	return s.queue
}

func (s *Signal) Enqueue(a Action) {
	s.queue = append(s.queue, a)
}

// pending folds the queue left to right over the committed value.
// It returns the result and the number of actions consumed.
func (s *Signal) pending() (any, int) {
	value := s.value
	for _, a := range s.queue {
		value = a.apply(value)
	}
	return value, len(s.queue)
}

// Commit stores value and drops the first consumed actions.
func (s *Signal) Commit(value any, consumed int) {
	s.value = value

	if consumed >= len(s.queue) {
		s.queue = s.queue[:0]
		return
	}
	s.queue = append(s.queue[:0], s.queue[consumed:]...)
}
