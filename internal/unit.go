package internal

// UnitID addresses a Unit inside an Arena. The zero value is the null unit.
type UnitID int32

const NoUnit UnitID = 0

type EffectIntent uint8

const (
	IntentNone EffectIntent = iota
	IntentPlacement
	IntentUpdate
	IntentDeletion
)

func (e EffectIntent) String() string {
	switch e {
	case IntentPlacement:
		return "placement"
	case IntentUpdate:
		return "update"
	case IntentDeletion:
		return "deletion"
	default:
		return "none"
	}
}

// Unit is the persistent, mutable node of a work tree (a fiber).
type Unit struct {
	typ    Type
	props  Props
	handle Handle

	// tree links, owning downwards
	parent  UnitID
	child   UnitID
	sibling UnitID

	// counterpart in the previously committed tree
	alternate UnitID

	intent EffectIntent

	// set once a deletion removed the handle from the target
	detached bool

	// only used by component units
	stateHooks  []*StateHook
	effectHooks []*EffectHook
	hookKinds   []hookKind

	// state slots kept while a component renders again in place
	retained []*Signal
}

func (u *Unit) Type() Type { return u.typ }
func (u *Unit) Props() Props { return u.props }
func (u *Unit) Handle() Handle { return u.handle }
func (u *Unit) Parent() UnitID { return u.parent }
func (u *Unit) Child() UnitID { return u.child }
func (u *Unit) Sibling() UnitID { return u.sibling }
func (u *Unit) Alternate() UnitID { return u.alternate }
func (u *Unit) Intent() EffectIntent { return u.intent }
func (u *Unit) StateHooks() []*StateHook { return u.stateHooks }
func (u *Unit) EffectHooks() []*EffectHook { return u.effectHooks }

// Arena owns every Unit. Links between units are indices, so any unit can be
// resumed from in O(1) without the tree holding pointer cycles.
type Arena struct {
	units []*Unit
	free  []UnitID
}

func NewArena() *Arena {
	return &Arena{
		// slot 0 is the null unit
		units: make([]*Unit, 1, 64),
	}
}

func (a *Arena) Alloc(typ Type, props Props) UnitID {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]

		a.units[id] = &Unit{typ: typ, props: props}
		return id
	}

	a.units = append(a.units, &Unit{typ: typ, props: props})
	return UnitID(len(a.units) - 1)
}

func (a *Arena) Get(id UnitID) *Unit {
	if id == NoUnit || int(id) >= len(a.units) {
		return nil
	}
	return a.units[id]
}

// Release returns a single unit to the free list.
func (a *Arena) Release(id UnitID) {
	if a.Get(id) == nil {
		return
	}
	a.units[id] = nil
	a.free = append(a.free, id)
}

// ReleaseTree releases root and every descendant reachable through child links.
func (a *Arena) ReleaseTree(root UnitID) {
	var ids []UnitID
	a.Walk(root, func(id UnitID, _ *Unit) bool {
		ids = append(ids, id)
		return true
	})

	for _, id := range ids {
		a.Release(id)
	}
}

// Live returns the number of allocated units.
func (a *Arena) Live() int {
	return len(a.units) - 1 - len(a.free)
}

// Walk visits root and its descendants depth first, child before sibling.
// Returning false from fn skips the unit's descendants.
func (a *Arena) Walk(root UnitID, fn func(UnitID, *Unit) bool) {
	if a.Get(root) == nil {
		return
	}

	id := root
	for id != NoUnit {
		u := a.Get(id)
		descend := fn(id, u)

		if descend && u.child != NoUnit {
			id = u.child
			continue
		}

		id = a.nextOutside(id, root)
	}
}

// nextOutside climbs from id until a unit with a sibling is found,
// stopping when the climb reaches root.
func (a *Arena) nextOutside(id, root UnitID) UnitID {
	for id != NoUnit && id != root {
		u := a.Get(id)
		if u.sibling != NoUnit {
			return u.sibling
		}
		id = u.parent
	}
	return NoUnit
}
