package petri

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/emergent-company/workcell/internal/entity"
)

// colorTable hands out one colour per agent or task identifier, drawing
// from rng on first encounter.
type colorTable struct {
	rng    *rand.Rand
	colors map[entity.ID][3]uint8
}

func newColorTable(rng *rand.Rand) *colorTable {
	return &colorTable{rng: rng, colors: map[entity.ID][3]uint8{}}
}

func (c *colorTable) colorFor(id entity.ID) [3]uint8 {
	if col, ok := c.colors[id]; ok {
		return col
	}
	col := normalizeColor([3]uint8{
		uint8(c.rng.Intn(256)),
		uint8(c.rng.Intn(256)),
		uint8(c.rng.Intn(256)),
	})
	c.colors[id] = col
	return col
}

// normalizeColor brightens a colour by normalising the RGB vector and
// rescaling slightly past full intensity.
func normalizeColor(c [3]uint8) [3]uint8 {
	r, g, b := float64(c[0]), float64(c[1]), float64(c[2])
	norm := math.Sqrt(r*r + g*g + b*b)
	if norm == 0 {
		return [3]uint8{255, 255, 255}
	}
	clamp := func(v float64) uint8 {
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return [3]uint8{
		clamp(r / norm * 280),
		clamp(g / norm * 280),
		clamp(b / norm * 280),
	}
}

func colorHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Dot renders the net in Graphviz DOT syntax with colours drawn from a
// fixed seed, so repeated renders of the same net are identical.
func (n *Net) Dot() string {
	return n.DotWithRand(rand.New(rand.NewSource(1)))
}

// DotWithRand renders the net using rng as the colour source. Places
// are ovals filled with their agent's colour; transitions are boxes
// whose font colour tracks the agent and border colour tracks the
// task; arcs are labelled with their signature.
func (n *Net) DotWithRand(rng *rand.Rand) string {
	colors := newColorTable(rng)
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", n.Name)

	for _, p := range n.sortedPlaces() {
		fill := [3]uint8{255, 255, 255}
		if d, ok := FindTag(p.MetaData, TagAgent); ok {
			fill = colors.colorFor(d.Primary)
		} else if d, ok := FindTag(p.MetaData, TagAgentTaskLock); ok {
			fill = colors.colorFor(d.Primary)
		}
		fmt.Fprintf(&b, "\t// Place %s\n", p.Name)
		fmt.Fprintf(&b, "\t%q [label=%q,shape=oval,style=filled,fillcolor=%q,penwidth=3];\n",
			p.ID.String(), p.Name, colorHex(fill))
	}

	for _, t := range n.sortedTransitions() {
		font := [3]uint8{255, 255, 255}
		border := [3]uint8{255, 255, 255}
		if d, ok := FindTag(t.MetaData, TagAgent); ok {
			font = colors.colorFor(d.Primary)
		}
		if d, ok := FindTag(t.MetaData, TagTask); ok {
			border = colors.colorFor(d.Primary)
		}
		fmt.Fprintf(&b, "\t// Transition %s\n", t.Name)
		fmt.Fprintf(&b, "\t%q [label=%q,shape=box,style=filled,fillcolor=\"#000000\",fontcolor=%q,color=%q,penwidth=3];\n",
			t.ID.String(), t.Name, colorHex(font), colorHex(border))
	}

	for _, t := range n.sortedTransitions() {
		line := [3]uint8{0, 0, 0}
		if d, ok := FindTag(t.MetaData, TagAgent); ok {
			line = colors.colorFor(d.Primary)
		}
		for _, placeID := range sortedArcKeys(t.Input) {
			fmt.Fprintf(&b, "\t%q -> %q [label=%q,color=%q,penwidth=3];\n",
				placeID.String(), t.ID.String(), t.Input[placeID].String(), colorHex(line))
		}
		for _, placeID := range sortedArcKeys(t.Output) {
			fmt.Fprintf(&b, "\t%q -> %q [label=%q,color=%q,penwidth=3];\n",
				t.ID.String(), placeID.String(), t.Output[placeID].String(), colorHex(line))
		}
	}

	b.WriteString("\toverlap=false\n")
	b.WriteString("}\n")
	return b.String()
}

func sortedArcKeys(arcs map[entity.ID]Signature) []entity.ID {
	keys := make([]entity.ID, 0, len(arcs))
	for id := range arcs {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
