package internal

type EffectPhase int

const (
	PhaseCleanup EffectPhase = iota
	PhaseRun
)

// EffectQueue collects deferred effect work during a commit walk and runs it
// phase by phase, so every cleanup happens before any new callback.
type EffectQueue struct {
	effects map[EffectPhase][]func()
}

func NewEffectQueue() *EffectQueue {
	effects := make(map[EffectPhase][]func())
	effects[PhaseCleanup] = make([]func(), 0)
	effects[PhaseRun] = make([]func(), 0)

	return &EffectQueue{effects}
}

func (q *EffectQueue) Enqueue(phase EffectPhase, fn func()) {
	q.effects[phase] = append(q.effects[phase], fn)
}

func (q *EffectQueue) Len(phase EffectPhase) int {
	return len(q.effects[phase])
}

func (q *EffectQueue) RunEffects(phase EffectPhase) int {
	effects := q.effects[phase]
	q.ClearEffects(phase)

	for _, effect := range effects {
		effect()
	}

	return len(effects)
}

func (q *EffectQueue) ClearEffects(phase EffectPhase) {
	q.effects[phase] = nil
}

// NodeQueue holds the state hooks rendered in the pass being committed.
type NodeQueue struct {
	hooks []*StateHook
}

func NewNodeQueue() *NodeQueue {
	return &NodeQueue{
		hooks: make([]*StateHook, 0),
	}
}

func (q *NodeQueue) Enqueue(hook *StateHook) {
	q.hooks = append(q.hooks, hook)
}

// Commit applies the pending value of every queued hook to its signal.
func (q *NodeQueue) Commit() {
	for _, hook := range q.hooks {
		hook.signal.Commit(hook.state, hook.consumed)
	}

	q.hooks = q.hooks[:0]
}

func (q *NodeQueue) Clear() {
	q.hooks = q.hooks[:0]
}
