package iterate

import (
	"testing"

	"github.com/geof/geof/internal/topology"
	"github.com/stretchr/testify/assert"
)

func TestAllVisitsEachFieldExactlyOnce(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8, 16} {
		fields := All(d)
		assert.Len(t, fields, topology.FieldCount(d))

		seen := make(map[int]bool, len(fields))
		for _, f := range fields {
			idx := topology.FlattenedIndex(f, d)
			assert.False(t, seen[idx], "duplicate field at flattened index %d", idx)
			seen[idx] = true
		}
		assert.Len(t, seen, topology.FieldCount(d))
	}
}

func TestAllStartsWithPoles(t *testing.T) {
	fields := All(4)
	assert.Equal(t, topology.North(), fields[0])
	assert.Equal(t, topology.South(), fields[1])
}
