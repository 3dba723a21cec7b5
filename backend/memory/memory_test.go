package memory_test

import (
	"testing"

	"github.com/AnatoleLucet/fiber"
	"github.com/AnatoleLucet/fiber/backend/memory"
	"github.com/AnatoleLucet/fiber/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend(t *testing.T) {
	t.Run("applies initial props on creation", func(t *testing.T) {
		b := memory.New()
		click := func() {}

		n := b.CreateHandle("button", fiber.Props{"id": "ok", "onClick": click}).(*memory.Node)

		assert.Equal(t, map[string]any{"id": "ok"}, n.Props)
		assert.Contains(t, n.Events, "click")
		assert.Equal(t, []string{"create button#1"}, b.Log())
		assert.Equal(t, 0, b.Deltas())
	})

	t.Run("applies deltas", func(t *testing.T) {
		b := memory.New()
		n := b.CreateHandle("a", fiber.Props{"href": "/x", "title": "t", "onClick": func() {}}).(*memory.Node)
		b.ResetLog()

		b.ApplyPropertyDelta(n, fiber.Delta{
			RemovedEvents: []fiber.Property{{Name: "onClick"}},
			ClearedProps:  []string{"title"},
			SetProps:      []fiber.Property{{Name: "href", Value: "/y"}},
			AddedEvents:   []fiber.Property{{Name: "onHover", Value: func() {}}},
		})

		assert.Equal(t, map[string]any{"href": "/y"}, n.Props)
		assert.NotContains(t, n.Events, "click")
		assert.Contains(t, n.Events, "hover")
		assert.Equal(t, []string{`update a#1 unbind click clear title set href="/y" bind hover`}, b.Log())
	})

	t.Run("counts detached handles", func(t *testing.T) {
		b := memory.New()
		parent := b.CreateHandle("div", nil)
		child := b.CreateHandle("p", nil)
		leaf := b.CreateHandle(fiber.TextTag, fiber.Props{"nodeValue": "x"})

		b.InsertHandle(b.Container(), parent)
		b.InsertHandle(parent, child)
		b.InsertHandle(child, leaf)
		require.Equal(t, "x", b.Container().Text())

		b.RemoveHandle(b.Container(), parent)

		assert.Empty(t, b.Container().Children)
		assert.Equal(t, 1, b.Removed())
		assert.Equal(t, 3, b.Detached())
		assert.Equal(t, 3, b.Inserted())
	})

	t.Run("dispatches events", func(t *testing.T) {
		b := memory.New()
		var got []any
		n := b.CreateHandle("input", fiber.Props{
			"onInput": func(v any) { got = append(got, v) },
			"onFocus": func() { got = append(got, "focus") },
		}).(*memory.Node)

		assert.True(t, b.Dispatch(n, "focus", nil))
		assert.True(t, b.Dispatch(n, "input", "abc"))
		assert.False(t, b.Dispatch(n, "blur", nil))
		assert.Equal(t, []any{"focus", "abc"}, got)
	})

	t.Run("finds nodes by any property value", func(t *testing.T) {
		b := memory.New()
		list := b.CreateHandle("ul", fiber.Props{"items": []string{"a", "b"}})
		item := b.CreateHandle("li", fiber.Props{"id": "first"})
		b.InsertHandle(b.Container(), list)
		b.InsertHandle(list, item)

		assert.Same(t, list, b.Container().FindByProp("items", []string{"a", "b"}))
		assert.Same(t, item, b.Container().FindByProp("id", "first"))
		assert.Nil(t, b.Container().FindByProp("items", []string{"a"}))
	})

	t.Run("releases handles of discarded renders", func(t *testing.T) {
		b := memory.New()
		h := host.NewManual()
		rt := fiber.NewRuntime(b, h)

		rt.Render(fiber.H("div", nil, fiber.H("button", fiber.Props{"onClick": func() {}})), b.Container())
		h.TickUnits(2)
		require.Equal(t, 1, b.Created())

		rt.Render(fiber.H("p", nil), b.Container())
		assert.Equal(t, 1, b.Released())

		rt.Flush()
		assert.Equal(t, 1, b.Released())
		assert.Equal(t, 1, b.Inserted())
		require.Len(t, b.Container().Children, 1)
		assert.Equal(t, "p", b.Container().Children[0].Tag)
	})
}
