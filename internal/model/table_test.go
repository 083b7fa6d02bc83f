package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatTotal(t *testing.T) {
	assert.Equal(t, uint32(0), SeatTotal(nil))
	assert.Equal(t, uint32(6), SeatTotal([]Table{{Seats: 4}, {Seats: 2}}))
}

func TestFreeTables(t *testing.T) {
	t1 := Table{ID: 1, Number: 1, Seats: 4, IsActive: true}
	t2 := Table{ID: 2, Number: 2, Seats: 2, IsActive: true}
	t3 := Table{ID: 3, Number: 3, Seats: 6, IsActive: true}

	tests := []struct {
		name     string
		active   []Table
		occupied map[uint64]struct{}
		expected []uint32 // table numbers, in order
	}{
		{
			name:     "nothing occupied",
			active:   []Table{t3, t1, t2},
			occupied: map[uint64]struct{}{},
			expected: []uint32{1, 2, 3},
		},
		{
			name:     "one table taken",
			active:   []Table{t1, t2},
			occupied: map[uint64]struct{}{1: {}},
			expected: []uint32{2},
		},
		{
			name:     "everything taken",
			active:   []Table{t1, t2},
			occupied: map[uint64]struct{}{1: {}, 2: {}},
			expected: []uint32{},
		},
		{
			name:     "no active tables",
			active:   nil,
			occupied: map[uint64]struct{}{},
			expected: []uint32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free := FreeTables(tt.active, tt.occupied)
			assert.NotNil(t, free)
			numbers := make([]uint32, 0, len(free))
			for _, f := range free {
				numbers = append(numbers, f.Number)
			}
			assert.Equal(t, tt.expected, numbers)
		})
	}
}
