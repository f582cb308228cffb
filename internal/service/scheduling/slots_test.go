package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"08:00:00", 480, false},
		{"17:30", 1050, false},
		{" 09:15 ", 555, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", got)

	got, err = NormalizeClock("14:00:45")
	require.NoError(t, err)
	assert.Equal(t, "14:00:00", got, "seconds are dropped")

	_, err = NormalizeClock("25:00")
	assert.Error(t, err)
}

func TestFreeSlotsFullDay(t *testing.T) {
	slots := FreeSlots(nil)

	require.Len(t, slots, 20)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "17:30", slots[len(slots)-1])
	assert.NotContains(t, slots, "18:00")
}

func TestFreeSlotsRemovesOccupied(t *testing.T) {
	slots := FreeSlots([]string{"09:00:00", "10:30"})

	assert.Len(t, slots, 18)
	assert.NotContains(t, slots, "09:00")
	assert.NotContains(t, slots, "10:30")
	assert.Contains(t, slots, "09:30")
}

func TestFreeSlotsSkipsUnparseableEntries(t *testing.T) {
	slots := FreeSlots([]string{"garbage", "08:00"})

	assert.Len(t, slots, 19)
	assert.NotContains(t, slots, "08:00")
}
