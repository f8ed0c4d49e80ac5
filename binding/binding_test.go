package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	row := map[string]any{
		"Name":      "Fireball",
		"damage":    6,
		"card.type": "Spell",
		"tags":      []any{"fire", "aoe"},
		"meta":      map[string]any{"set": "Core"},
		"empty":     nil,
	}
	cases := []struct{ in, want string }{
		{"no placeholders", "no placeholders"},
		{"${Name} deals ${damage}", "Fireball deals 6"},
		{"${name}", "Fireball"},
		{"${ damage }", "6"},
		{"${card.type}", "Spell"},
		{"${tags[1]}", "aoe"},
		{"${meta.set}", "Core"},
		{"${missing}", "${missing}"},
		{"${missing|none}", "none"},
		{"${empty|-}", "-"},
		{"${tags[9]}", "${tags[9]}"},
		{"<b>${Name}</b>", "<b>Fireball</b>"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Interpolate(c.in, row), c.in)
	}
}

func TestInterpolateNilRow(t *testing.T) {
	assert.Equal(t, "${x}", Interpolate("${x}", nil))
	assert.Equal(t, "y", Interpolate("${x|y}", nil))
}

func TestLookup(t *testing.T) {
	row := map[string]any{" Title ": "Hero"}
	v, ok := Lookup(row, "title")
	assert.True(t, ok)
	assert.Equal(t, "Hero", v)

	_, ok = Lookup(row, "body")
	assert.False(t, ok)
}
