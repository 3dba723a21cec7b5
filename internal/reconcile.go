package internal

// reconcileChildren diffs elements against the children of the unit's
// alternate, position by position, and links the resulting units under it.
func (r *Runtime) reconcileChildren(id UnitID, elements []*Element) {
	wip := r.arena.Get(id)

	old := NoUnit
	if alt := r.arena.Get(wip.alternate); alt != nil {
		old = alt.child
	}

	prev := NoUnit
	for i := 0; i < len(elements) || old != NoUnit; i++ {
		var element *Element
		if i < len(elements) {
			element = elements[i]
		}
		oldUnit := r.arena.Get(old)

		same := element != nil && oldUnit != nil && element.Type.Equal(oldUnit.typ)

		next := NoUnit
		switch {
		case same:
			next = r.arena.Alloc(oldUnit.typ, element.Props)
			n := r.arena.Get(next)
			n.handle = oldUnit.handle
			n.parent = id
			n.alternate = old
			n.intent = IntentUpdate
		case element != nil:
			next = r.arena.Alloc(element.Type, element.Props)
			n := r.arena.Get(next)
			n.parent = id
			n.intent = IntentPlacement
		}

		if oldUnit != nil && !same {
			oldUnit.intent = IntentDeletion
			r.deletions = append(r.deletions, old)
		}

		if oldUnit != nil {
			old = oldUnit.sibling
		}

		if i == 0 {
			wip.child = next
		} else if next != NoUnit {
			r.arena.Get(prev).sibling = next
		}

		if next != NoUnit {
			prev = next
		}
	}
}
