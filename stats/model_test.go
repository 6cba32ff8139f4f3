package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomata/evonomics/sim"
)

func TestTickSampleRoundTrip(t *testing.T) {
	sample := NewTickSample("run-1", sim.TickStats{
		Tick:      42,
		Cells:     17,
		TotalFood: 900,
		Walls:     100,
		Bids:      3,
		Asks:      5,
		Spawns:    1,
		Deaths:    2,
		Mutations: 4,
		Combines:  1,
	})

	data, err := sample.MarshalBinary()
	require.NoError(t, err)

	var back TickSample
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, *sample, back)
}

func TestTickSampleExecMatchesSQL(t *testing.T) {
	sample := NewTickSample("run-1", sim.TickStats{Tick: 1})

	// One placeholder per exec argument.
	placeholders := 0
	for _, r := range sample.SQL() {
		if r == '?' {
			placeholders++
		}
	}
	assert.Equal(t, placeholders, len(sample.ToExec()))
	assert.Equal(t, "run-1", sample.ToExec()[0])
}
