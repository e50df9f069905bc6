package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRecordDataset() *Dataset {
	return &Dataset{
		Name:       "test",
		Simulation: true,
		Records: []Record{
			{Run: 1, Event: 42},
			{Run: 1, Event: 43},
		},
	}
}

func TestSliceCursor_BeforeFirstNext(t *testing.T) {
	c := NewSliceCursor(twoRecordDataset())

	assert.Equal(t, Position(0), c.Position())
	assert.Nil(t, c.Record())
	assert.Equal(t, uint64(0), c.EventID())
}

func TestSliceCursor_Walk(t *testing.T) {
	c := NewSliceCursor(twoRecordDataset())

	require.True(t, c.Next())
	assert.Equal(t, Position(1), c.Position())
	assert.Equal(t, uint64(42), c.EventID())

	require.True(t, c.Next())
	assert.Equal(t, Position(2), c.Position())
	assert.Equal(t, uint64(43), c.Record().Event)

	assert.False(t, c.Next())
	assert.Nil(t, c.Record())
	assert.Equal(t, Position(3), c.Position(), "exhaustion moves off the last record's position")
	assert.False(t, c.Next())
	assert.Equal(t, Position(3), c.Position(), "further calls do not advance")
}

func TestSliceCursor_EmptyDatasetExhaustion(t *testing.T) {
	c := NewSliceCursor(&Dataset{Name: "empty"})

	assert.False(t, c.Next())
	assert.Equal(t, Position(1), c.Position())
	assert.Nil(t, c.Record())
}

func TestSliceCursor_SharedClockNeverReusesPositions(t *testing.T) {
	clock := NewClock()
	a := NewSliceCursorWithClock(twoRecordDataset(), clock)
	b := NewSliceCursorWithClock(twoRecordDataset(), clock)

	for a.Next() {
	}
	require.True(t, b.Next())
	assert.Equal(t, Position(4), b.Position())
}

func TestSliceCursor_Simulation(t *testing.T) {
	d := twoRecordDataset()
	assert.True(t, NewSliceCursor(d).Simulation())

	d.Simulation = false
	assert.False(t, NewSliceCursor(d).Simulation())
}
