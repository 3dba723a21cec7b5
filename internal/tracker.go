package internal

// Tracker knows which unit is currently rendering, so hooks can find their slots.
type Tracker struct {
	currentUnit UnitID
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) RunWithUnit(id UnitID, fn func()) {
	prev := t.currentUnit
	t.currentUnit = id
	defer func() { t.currentUnit = prev }()

	fn()
}

func (t *Tracker) CurrentUnit() UnitID {
	return t.currentUnit
}

func (t *Tracker) IsRendering() bool {
	return t.currentUnit != NoUnit
}
