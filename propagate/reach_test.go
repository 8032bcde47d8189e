package propagate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

func TestReachabilityChain(t *testing.T) {
	db := newTestDB("A", "B", "C", "D")
	setEdge(t, db, "A", "B", polyEdge("r1"))
	setEdge(t, db, "B", "C", polyEdge("r2"))
	setEdge(t, db, "C", "D", polyEdge("r3"))

	reach := ComputeReachability(db.AdjacencyMatrix, catalog.PolyStatuses)

	forward := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for _, p := range forward {
		assert.True(t, reach.Reachable(p[0], p[1]), "(%d, %d) should be reachable", p[0], p[1])
	}
	for _, p := range forward {
		assert.False(t, reach.Reachable(p[1], p[0]), "(%d, %d) should not be reachable", p[1], p[0])
	}

	assert.Equal(t, []int{0, 1, 2, 3}, reach.Path(0, 3))
	assert.Equal(t, []int{1, 2}, reach.Path(1, 2))
	assert.Nil(t, reach.Path(3, 0))
}

func TestReachabilityFiltersStatuses(t *testing.T) {
	db := newTestDB("A", "B", "C")
	setEdge(t, db, "A", "B", polyEdge())
	setEdge(t, db, "B", "C", &dataset.DirectedRelation{Status: catalog.UnknownPolyQuasi})

	polyReach := ComputeReachability(db.AdjacencyMatrix, catalog.PolyStatuses)
	assert.True(t, polyReach.Reachable(0, 1))
	assert.False(t, polyReach.Reachable(0, 2), "quasi edge must not count for poly reachability")

	quasiReach := ComputeReachability(db.AdjacencyMatrix, catalog.QuasiStatuses)
	assert.True(t, quasiReach.Reachable(0, 2), "poly and quasi edges both count for quasi reachability")
}

func TestReachabilityTieBreak(t *testing.T) {
	// Two equally short paths A→B→D and A→C→D; the witness must take the
	// lowest-index route for reproducible descriptions.
	db := newTestDB("A", "B", "C", "D")
	setEdge(t, db, "A", "B", polyEdge())
	setEdge(t, db, "A", "C", polyEdge())
	setEdge(t, db, "B", "D", polyEdge())
	setEdge(t, db, "C", "D", polyEdge())

	reach := ComputeReachability(db.AdjacencyMatrix, catalog.PolyStatuses)
	require.True(t, reach.Reachable(0, 3))
	assert.Equal(t, []int{0, 1, 3}, reach.Path(0, 3))
}

func TestReachabilityDiagonalAndBounds(t *testing.T) {
	db := newTestDB("A", "B")
	setEdge(t, db, "A", "B", polyEdge())
	setEdge(t, db, "B", "A", polyEdge())

	reach := ComputeReachability(db.AdjacencyMatrix, catalog.PolyStatuses)
	assert.False(t, reach.Reachable(0, 0), "diagonal is never reported reachable")
	assert.False(t, reach.Reachable(-1, 1))
	assert.False(t, reach.Reachable(0, 7))
	assert.Nil(t, reach.Path(0, 0))
}

func TestReachabilityCycle(t *testing.T) {
	db := newTestDB("A", "B", "C")
	setEdge(t, db, "A", "B", polyEdge())
	setEdge(t, db, "B", "C", polyEdge())
	setEdge(t, db, "C", "A", polyEdge())

	reach := ComputeReachability(db.AdjacencyMatrix, catalog.PolyStatuses)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			assert.True(t, reach.Reachable(i, j), "(%d, %d) should be reachable in a cycle", i, j)
		}
	}
	assert.Equal(t, []int{2, 0, 1}, reach.Path(2, 1))
}
