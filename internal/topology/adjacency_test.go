package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allFields lists every field of a sphere with the given divisions:
// North, South, then every Sxy(s,x,y). TestAdjacencySymmetry walks this
// list and searches all six slots of each neighbour for the return
// edge, because adjacency is not symmetric in slot naming.
func allFields(divisions int) []Field {
	fields := make([]Field, 0, FieldCount(divisions))
	fields = append(fields, North(), South())
	for s := 0; s < 5; s++ {
		for x := 0; x < 2*divisions; x++ {
			for y := 0; y < divisions; y++ {
				fields = append(fields, Sxy(s, x, y))
			}
		}
	}
	return fields
}

func TestFieldCountMatchesFormula(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8, 16} {
		assert.Equal(t, FieldCount(d), len(allFields(d)))
	}
}

func TestAdjacencySymmetry(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8, 16} {
		d := d
		t.Run("", func(t *testing.T) {
			for _, f := range allFields(d) {
				adj := Neighbors(f, d)
				for _, dir := range Directions() {
					n := adj.Get(dir)
					if !n.Present {
						continue
					}
					back := Neighbors(n.Field, d)
					found := false
					for _, backDir := range Directions() {
						bn := back.Get(backDir)
						if bn.Present && bn.Field == f {
							found = true
							break
						}
					}
					assert.Truef(t, found, "d=%d: %v.%v=%v has no return edge back to %v", d, f, dir, n.Field, f)
				}
			}
		})
	}
}

func TestPentagonCount(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8, 16} {
		count := 0
		for _, f := range allFields(d) {
			if IsPentagonal(f, d) {
				count++
			}
		}
		assert.Equal(t, 12, count, "d=%d", d)
	}
}

func TestFlattenedIndexBijection(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8} {
		seen := make(map[int]Field)
		for _, f := range allFields(d) {
			idx := FlattenedIndex(f, d)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, FieldCount(d))
			if prev, ok := seen[idx]; ok {
				t.Fatalf("d=%d: index %d produced by both %v and %v", d, idx, prev, f)
			}
			seen[idx] = f

			back, err := Unflatten(idx, d)
			require.NoError(t, err)
			assert.Equal(t, f, back)
		}
		assert.Len(t, seen, FieldCount(d))
	}
}

func TestS2AdjacencyExact(t *testing.T) {
	// Scenario S2: d=2, adjacency of Sxy(0,0,0).
	adj := Neighbors(Sxy(0, 0, 0), 2)
	assert.Equal(t, present(North()), adj.NW)
	assert.Equal(t, present(Sxy(4, 0, 0)), adj.W)
	assert.Equal(t, present(Sxy(0, 0, 1)), adj.SW)
	assert.Equal(t, present(Sxy(0, 1, 0)), adj.SE)
	assert.Equal(t, present(Sxy(1, 0, 1)), adj.E)
	assert.Equal(t, present(Sxy(1, 0, 0)), adj.NE)
}

func TestPentagonalFieldsHaveNoNE(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8} {
		for _, f := range allFields(d) {
			adj := Neighbors(f, d)
			if IsPentagonal(f, d) {
				assert.False(t, adj.NE.Present, "%v should have no ne neighbor", f)
			} else if f.Kind == KindSxy {
				assert.True(t, adj.NE.Present, "%v should have a ne neighbor", f)
			}
		}
	}
}
