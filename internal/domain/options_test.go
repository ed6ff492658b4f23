package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// LengthRule Construction Tests
// ============================================================================

func TestNewLengthRule_Valid(t *testing.T) {
	r, err := NewLengthRule(3, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Min())
	assert.Equal(t, 50, r.Max())
}

func TestNewLengthRule_Invalid(t *testing.T) {
	tests := []struct {
		name string
		min  int
		max  int
	}{
		{"negative min", -1, 10},
		{"negative max", 0, -5},
		{"min equals max", 10, 10},
		{"min above max", 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLengthRule(tt.min, tt.max)
			assert.Error(t, err)
		})
	}
}

// ============================================================================
// LengthRule Mutation Tests
// ============================================================================

func TestLengthRule_SetMax_ThenSetMin(t *testing.T) {
	var r LengthRule

	require.NoError(t, r.SetMax(50))
	require.NoError(t, r.SetMin(3))

	assert.Equal(t, 3, r.Min())
	assert.Equal(t, 50, r.Max())
}

func TestLengthRule_ZeroValue_RejectsMinBeforeMax(t *testing.T) {
	var r LengthRule

	// While max is still 0, only min = 0 is assignable.
	assert.Error(t, r.SetMin(3))
	assert.NoError(t, r.SetMin(0))
	assert.Equal(t, 0, r.Min())
}

func TestLengthRule_SetMin_MustStayBelowMax(t *testing.T) {
	r, err := NewLengthRule(3, 50)
	require.NoError(t, err)

	assert.Error(t, r.SetMin(50))
	assert.Error(t, r.SetMin(60))
	assert.Error(t, r.SetMin(-1))
	assert.NoError(t, r.SetMin(49))
	assert.Equal(t, 49, r.Min())
}

func TestLengthRule_SetMax_MustStayAboveMin(t *testing.T) {
	r, err := NewLengthRule(3, 50)
	require.NoError(t, err)

	assert.Error(t, r.SetMax(3))
	assert.Error(t, r.SetMax(2))
	assert.Error(t, r.SetMax(-1))
	assert.NoError(t, r.SetMax(4))
	assert.Equal(t, 4, r.Max())
}

func TestLengthRule_FailedAssignmentLeavesRuleUnchanged(t *testing.T) {
	r, err := NewLengthRule(3, 50)
	require.NoError(t, err)

	require.Error(t, r.SetMin(100))
	require.Error(t, r.SetMax(1))

	assert.Equal(t, 3, r.Min())
	assert.Equal(t, 50, r.Max())
}
