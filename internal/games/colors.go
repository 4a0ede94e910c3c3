package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(Colors{}) }

// Color is a named swatch
type Color struct {
	ID   string
	Name string
	Hex  string
}

// Palette order matters: easier levels draw from the front of the list.
var colorSwatches = []Color{
	{ID: "red", Name: "أحمر", Hex: "#ef4444"},
	{ID: "blue", Name: "أزرق", Hex: "#3b82f6"},
	{ID: "green", Name: "أخضر", Hex: "#22c55e"},
	{ID: "yellow", Name: "أصفر", Hex: "#eab308"},
	{ID: "orange", Name: "برتقالي", Hex: "#f97316"},
	{ID: "purple", Name: "بنفسجي", Hex: "#a855f7"},
	{ID: "pink", Name: "وردي", Hex: "#ec4899"},
	{ID: "brown", Name: "بني", Hex: "#78350f"},
	{ID: "gray", Name: "رمادي", Hex: "#6b7280"},
	{ID: "black", Name: "أسود", Hex: "#000000"},
}

// Colors names a color and asks the child to tap the matching swatch
type Colors struct{}

func (Colors) ID() string                { return "colors" }
func (Colors) Category() engine.Category { return engine.CategoryDiscrete }

func (Colors) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level+engine.ByDifficulty(d, 0, 2, 5), 20)
}

// PoolSize is how many swatches are offered
func (Colors) PoolSize(level int, d engine.Difficulty) int {
	n := len(colorSwatches)
	switch d {
	case engine.Hard:
		return n
	case engine.Medium:
		return min(3+level/5+2, n)
	}
	return min(3+level/5, n)
}

func (c Colors) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	pool := c.PoolSize(level, d)
	ids := make([]string, pool)
	for i, sw := range colorSwatches[:pool] {
		ids[i] = sw.ID
	}
	target := colorSwatches[rng.Intn(pool)]
	wrong := engine.MustDistractors(rng, ids, target.ID, pool-1)

	r := engine.NewRound(rng, []string{target.Name}, target.ID, wrong, engine.Params{"pool": pool})
	r.Swatches = make(map[string]string, len(r.Choices))
	for _, id := range r.Choices {
		if sw, ok := ColorByID(id); ok {
			r.Swatches[id] = sw.Hex
		}
	}
	return r
}

// ColorByID returns the swatch for id
func ColorByID(id string) (Color, bool) {
	for _, c := range colorSwatches {
		if c.ID == id {
			return c, true
		}
	}
	return Color{}, false
}
