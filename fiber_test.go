package fiber_test

import (
	"fmt"
	"testing"

	"github.com/AnatoleLucet/fiber"
	"github.com/AnatoleLucet/fiber/backend/memory"
	"github.com/AnatoleLucet/fiber/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(opts ...fiber.Option) (*fiber.Runtime, *memory.Backend, *host.Manual) {
	b := memory.New()
	h := host.NewManual()
	return fiber.NewRuntime(b, h, opts...), b, h
}

func TestRender(t *testing.T) {
	t.Run("mounts a tree", func(t *testing.T) {
		rt, b, _ := setup()

		rt.Render(fiber.H("div", fiber.Props{"id": "app"},
			fiber.H("h1", nil, "Title"),
			fiber.H("p", fiber.Props{"class": "body"}, "count: ", 3),
		), b.Container())
		rt.Flush()

		assert.Equal(t, `<root>
  <div id="app">
    <h1>
      Title
    </h1>
    <p class="body">
      count: 
      3
    </p>
  </div>
</root>
`, memory.Render(b.Container()))
		assert.Equal(t, 6, rt.Stats().Placements)
	})

	t.Run("unchanged tree is a no-op", func(t *testing.T) {
		rt, b, _ := setup()
		tree := func() *fiber.Element {
			return fiber.H("ul", fiber.Props{"class": "list"},
				fiber.H("li", nil, "one"),
				fiber.H("li", nil, "two"),
			)
		}

		rt.Render(tree(), b.Container())
		rt.Flush()
		b.ResetLog()

		rt.Render(tree(), b.Container())
		rt.Flush()

		stats := rt.Stats()
		assert.Equal(t, 0, stats.Placements)
		assert.Equal(t, 0, stats.Deletions)
		assert.Equal(t, 5, stats.Updates)
		assert.Empty(t, b.Log())
		assert.Equal(t, 0, b.Deltas())
	})

	t.Run("updates changed properties and text", func(t *testing.T) {
		rt, b, _ := setup()

		rt.Render(fiber.H("p", fiber.Props{"class": "a", "title": "t"}, "hello"), b.Container())
		rt.Flush()
		b.ResetLog()

		rt.Render(fiber.H("p", fiber.Props{"class": "b"}, "world"), b.Container())
		rt.Flush()

		assert.Equal(t, []string{
			`update p#1 clear title set class="b"`,
			`update #text#2 set nodeValue="world"`,
		}, b.Log())
	})

	t.Run("diffs children by position", func(t *testing.T) {
		rt, b, _ := setup()
		items := func(tags ...string) *fiber.Element {
			children := make([]*fiber.Element, 0, len(tags))
			for _, tag := range tags {
				children = append(children, fiber.H(tag, nil))
			}
			return fiber.H("div", nil, children)
		}

		rt.Render(items("a", "b", "c"), b.Container())
		rt.Flush()
		b.ResetLog()

		rt.Render(items("b", "c"), b.Container())
		rt.Flush()

		assert.Equal(t, []string{
			"create b#5",
			"create c#6",
			"remove a#2 from div#1 (1 handles)",
			"remove b#3 from div#1 (1 handles)",
			"remove c#4 from div#1 (1 handles)",
			"insert b#5 into div#1",
			"insert c#6 into div#1",
		}, b.Log())
		assert.Equal(t, 3, rt.Stats().Deletions)
	})

	t.Run("type change removes the whole subtree at once", func(t *testing.T) {
		rt, b, _ := setup()

		rt.Render(fiber.H("div", nil,
			fiber.H("section", nil,
				fiber.H("p", fiber.Props{"class": "x"}, "one"),
				fiber.H("p", nil, "two"),
			),
			fiber.H("span", nil),
		), b.Container())
		rt.Flush()

		old := b.Container().Children[0]
		size := old.Size()
		b.ResetLog()

		rt.Render(fiber.H("main", nil,
			fiber.H("section", nil, fiber.H("p", fiber.Props{"class": "y"}, "one")),
		), b.Container())
		rt.Flush()

		assert.Equal(t, 7, size)
		assert.Equal(t, 1, b.Removed())
		assert.Equal(t, size, b.Detached())
		assert.Equal(t, 0, b.Deltas(), "no descendant of the old tree was diffed")
		assert.Equal(t, 1, rt.Stats().Deletions)
	})

	t.Run("components render their result", func(t *testing.T) {
		greeting := fiber.NewComponent("Greeting", func(p fiber.Props) *fiber.Element {
			return fiber.H("p", nil, "hello ", p["name"].(string))
		})
		rt, b, _ := setup()

		rt.Render(fiber.H("div", nil, fiber.H(greeting, fiber.Props{"name": "ana"})), b.Container())
		rt.Flush()
		assert.Equal(t, "hello ana", b.Container().Text())

		rt.Render(fiber.H("div", nil, fiber.H(greeting, fiber.Props{"name": "bob"})), b.Container())
		rt.Flush()
		assert.Equal(t, "hello bob", b.Container().Text())
		assert.Equal(t, 0, rt.Stats().Placements)
	})

	t.Run("replacing a component removes its first handle", func(t *testing.T) {
		inner := fiber.NewComponent("Inner", func(fiber.Props) *fiber.Element {
			return fiber.H("section", nil, fiber.H("p", nil, "x"))
		})
		rt, b, _ := setup()

		rt.Render(fiber.H("div", nil, fiber.H(inner, nil)), b.Container())
		rt.Flush()
		b.ResetLog()

		rt.Render(fiber.H("div", nil, fiber.H("span", nil)), b.Container())
		rt.Flush()

		assert.Equal(t, []string{
			"create span#5",
			"remove section#2 from div#1 (3 handles)",
			"insert span#5 into div#1",
		}, b.Log())
	})

	t.Run("children are passed to components", func(t *testing.T) {
		card := fiber.NewComponent("Card", func(p fiber.Props) *fiber.Element {
			return fiber.H("div", fiber.Props{"class": "card"}, p.Children())
		})
		rt, b, _ := setup()

		rt.Render(fiber.H(card, nil, fiber.H("b", nil, "in"), "side"), b.Container())
		rt.Flush()

		assert.Equal(t, "inside", b.Container().Text())
	})
}

func TestScheduling(t *testing.T) {
	t.Run("works in budgeted slices", func(t *testing.T) {
		rt, b, h := setup()

		rt.Render(fiber.H("ul", nil,
			fiber.H("li", nil, 1),
			fiber.H("li", nil, 2),
		), b.Container())

		// root, ul, li, text, li, text
		log := []string{}
		for i := 0; i < 3; i++ {
			h.TickUnits(2)
			log = append(log, fmt.Sprintf("%s %d", rt.State(), len(b.Container().Children)))
		}

		assert.Equal(t, []string{"building 0", "building 0", "idle 1"}, log)
		assert.True(t, h.Pending(), "the loop keeps itself scheduled")
	})

	t.Run("idle ticks do nothing", func(t *testing.T) {
		rt, b, h := setup()

		for i := 0; i < 3; i++ {
			require.True(t, h.TickUnits(10))
		}

		assert.Equal(t, fiber.StateIdle, rt.State())
		assert.Empty(t, b.Log())
	})

	t.Run("last update wins", func(t *testing.T) {
		rt, b, h := setup()

		rt.Render(fiber.H("p", nil, "first"), b.Container())
		h.TickUnits(1)
		rt.Render(fiber.H("p", nil, "second"), b.Container())
		for rt.State() != fiber.StateIdle {
			h.TickUnits(1)
		}

		assert.Equal(t, "second", b.Container().Text())
		assert.Len(t, b.Container().Children, 1)
	})
}
