package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTipStatusValid(t *testing.T) {
	assert.True(t, TipStatusPending.Valid())
	assert.True(t, TipStatusConfirmed.Valid())
	assert.True(t, TipStatusFailed.Valid())
	assert.False(t, TipStatus("settled").Valid())
	assert.False(t, TipStatus("").Valid())
}

func TestTipStatusTerminal(t *testing.T) {
	assert.False(t, TipStatusPending.Terminal())
	assert.True(t, TipStatusConfirmed.Terminal())
	assert.True(t, TipStatusFailed.Terminal())
}

func TestTipStatusCanAdvanceTo(t *testing.T) {
	tests := []struct {
		name string
		from TipStatus
		to   TipStatus
		want bool
	}{
		{"pending to confirmed", TipStatusPending, TipStatusConfirmed, true},
		{"pending to failed", TipStatusPending, TipStatusFailed, true},
		{"pending to pending", TipStatusPending, TipStatusPending, false},
		{"confirmed to failed", TipStatusConfirmed, TipStatusFailed, false},
		{"confirmed to confirmed", TipStatusConfirmed, TipStatusConfirmed, false},
		{"failed to confirmed", TipStatusFailed, TipStatusConfirmed, false},
		{"failed to pending", TipStatusFailed, TipStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}
