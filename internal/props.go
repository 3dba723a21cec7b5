package internal

import (
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"

	"github.com/google/go-cmp/cmp"
)

// Property is a single named value of a delta.
type Property struct {
	Name  string
	Value any
}

// Delta is the set of changes to apply to a handle. Every list is sorted by name.
type Delta struct {
	RemovedEvents []Property
	ClearedProps  []string
	SetProps      []Property
	AddedEvents   []Property
}

func (d Delta) Empty() bool {
	return len(d.RemovedEvents) == 0 &&
		len(d.ClearedProps) == 0 &&
		len(d.SetProps) == 0 &&
		len(d.AddedEvents) == 0
}

// IsEvent reports whether key names an event binding ("on" followed by an upper case letter).
func IsEvent(key string) bool {
	if !strings.HasPrefix(key, "on") || len(key) == 2 {
		return false
	}

	r, _ := utf8.DecodeRuneInString(key[2:])
	return unicode.IsUpper(r)
}

// EventName turns "onClick" into "click".
func EventName(key string) string {
	return strings.ToLower(key[2:])
}

func isProperty(key string) bool {
	return key != ChildrenKey && !IsEvent(key)
}

// DiffProps computes the delta turning prev into next.
func DiffProps(prev, next Props) Delta {
	var d Delta

	for _, key := range sortedKeys(prev) {
		if !IsEvent(key) {
			continue
		}
		nv, ok := next[key]
		if !ok || !isEqual(prev[key], nv) {
			d.RemovedEvents = append(d.RemovedEvents, Property{key, prev[key]})
		}
	}

	for _, key := range sortedKeys(prev) {
		if !isProperty(key) {
			continue
		}
		if _, ok := next[key]; !ok {
			d.ClearedProps = append(d.ClearedProps, key)
		}
	}

	for _, key := range sortedKeys(next) {
		if key == ChildrenKey {
			continue
		}
		pv, ok := prev[key]
		if ok && isEqual(pv, next[key]) {
			continue
		}

		if IsEvent(key) {
			d.AddedEvents = append(d.AddedEvents, Property{key, next[key]})
		} else {
			d.SetProps = append(d.SetProps, Property{key, next[key]})
		}
	}

	return d
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// funcs are equal when they are the same func value. Closures built by each
// render are distinct values, so their handlers rebind.
var sameFunc = cmp.FilterValues(func(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	return va.Kind() == reflect.Func && vb.Kind() == reflect.Func && va.Type() == vb.Type()
}, cmp.Comparer(func(a, b any) bool {
	return funcIdentity(a) == funcIdentity(b)
}))

// funcIdentity returns the closure pointer a func value holds. Unlike
// reflect.Value.Pointer it tells apart closures of the same literal.
func funcIdentity(f any) unsafe.Pointer {
	v := reflect.ValueOf(f)
	if v.IsNil() {
		return nil
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return *(*unsafe.Pointer)(p.UnsafePointer())
}

func isEqual(a, b any) bool {
	return cmp.Equal(a, b, exportAll, sameFunc)
}

// depsChanged reports whether an effect must run given the deps of two renders.
// Absent deps always count as changed.
func depsChanged(prev, next []any) bool {
	if prev == nil || next == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}

	for i := range next {
		if !isEqual(prev[i], next[i]) {
			return true
		}
	}

	return false
}
