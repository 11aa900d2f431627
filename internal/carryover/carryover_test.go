package carryover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"AffectsBuffer", ModeAffectsBuffer},
		{"Confined", ModeConfined},
		{"", ModeNone},
		{"Default", ModeNone},
		{"confined", ModeNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.in), "ParseMode(%q)", tt.in)
	}
}

func TestApply_PropagationSequence(t *testing.T) {
	c := NewCalculator()
	modes := []Mode{ModeNone, ModeConfined, ModeAffectsBuffer, ModeNone}
	wantStates := []State{Unset, On, Off, Off}
	wantSet := []bool{false, true, false, false}

	for i, m := range modes {
		d := c.Apply("cat", m)
		assert.Equal(t, wantStates[i], d.State, "month %d state", i)
		assert.Equal(t, wantSet[i], d.SetCarryover, "month %d request", i)
	}
}

func TestApply_OnPropagatesUntilBuffer(t *testing.T) {
	c := NewCalculator()
	assert.True(t, c.Apply("cat", ModeConfined).SetCarryover)
	assert.True(t, c.Apply("cat", ModeNone).SetCarryover)
	assert.True(t, c.Apply("cat", ModeNone).SetCarryover)
	assert.False(t, c.Apply("cat", ModeAffectsBuffer).SetCarryover)
	d := c.Apply("cat", ModeNone)
	assert.False(t, d.SetCarryover)
	assert.Equal(t, Off, d.State)
}

func TestApply_CategoriesIndependent(t *testing.T) {
	c := NewCalculator()
	c.Apply("a", ModeConfined)
	d := c.Apply("b", ModeNone)
	assert.Equal(t, Unset, d.State)
	assert.False(t, d.SetCarryover)
	assert.Equal(t, On, c.Apply("a", ModeNone).State)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "confined", ModeConfined.String())
	assert.Equal(t, "affects-buffer", ModeAffectsBuffer.String())
	assert.Equal(t, "none", ModeNone.String())
	assert.Equal(t, "on", On.String())
	assert.Equal(t, "off", Off.String())
	assert.Equal(t, "unset", Unset.String())
}
