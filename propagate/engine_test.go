package propagate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

// chainDB is a small core with derivable edge and operation facts.
func chainDB(t *testing.T) *dataset.Database {
	db := newTestDB("A", "B", "C")
	setEdge(t, db, "A", "B", polyEdge("r1"))
	setEdge(t, db, "B", "C", polyEdge("r2"))
	setSupport(t, db, "C", catalog.OpCO, &dataset.OperationSupport{Complexity: catalog.Poly, Refs: []string{"c-co"}})
	return db
}

func TestEngineRunConverges(t *testing.T) {
	db := chainDB(t)
	report := runEngine(t, db)

	assert.NotEmpty(t, report.RunID)
	assert.Greater(t, report.Iterations, 1, "the final sweep is the no-op one")
	assert.Greater(t, report.EdgeFacts, 0)
	assert.Greater(t, report.OperationFacts, 0)

	require.NotNil(t, edgeAt(t, db, "A", "C"))
	assert.Equal(t, catalog.Poly, edgeAt(t, db, "A", "C").Status)
	require.NotNil(t, supportOf(t, db, "A", catalog.OpCO))
	assert.Equal(t, catalog.Poly, supportOf(t, db, "A", catalog.OpCO).Complexity)
}

func TestEngineIdempotent(t *testing.T) {
	db := chainDB(t)
	runEngine(t, db)
	first, err := json.Marshal(db)
	require.NoError(t, err)

	// A second run strips everything derived and rebuilds it identically.
	runEngine(t, db)
	second, err := json.Marshal(db)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestEngineDeterministic(t *testing.T) {
	db1 := chainDB(t)
	db2 := chainDB(t)
	runEngine(t, db1)
	runEngine(t, db2)

	out1, err := json.Marshal(db1)
	require.NoError(t, err)
	out2, err := json.Marshal(db2)
	require.NoError(t, err)
	assert.JSONEq(t, string(out1), string(out2))
}

func TestEngineStripsStaleDerivedFacts(t *testing.T) {
	db := chainDB(t)
	// A stale derived cell unsupported by the manual core must disappear.
	setEdge(t, db, "C", "A", &dataset.DirectedRelation{Status: catalog.Poly, Refs: []string{}, Derived: true, Description: "stale"})

	report := runEngine(t, db)
	assert.Equal(t, 1, report.StrippedCells)
	assert.Nil(t, edgeAt(t, db, "C", "A"))
}

func TestEngineIterationCap(t *testing.T) {
	db := chainDB(t)
	// Any derivable dataset needs at least one active sweep plus the
	// closing no-op sweep, so a cap of one cannot converge.
	engine := NewEngine(Options{MaxIterations: 1})
	report, err := engine.Run(db)
	require.ErrorIs(t, err, ErrNotConverged)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Iterations)
}

func TestEngineRejectsStructurallyInvalid(t *testing.T) {
	db := chainDB(t)
	db.AdjacencyMatrix.Matrix[0] = db.AdjacencyMatrix.Matrix[0][:1]

	_, err := NewEngine(Options{}).Run(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "structural validation")
}

func TestEngineNoOpOnEmptyDatabase(t *testing.T) {
	db := newTestDB()
	report := runEngine(t, db)
	assert.Equal(t, 1, report.Iterations)
	assert.Zero(t, report.EdgeFacts)
	assert.Zero(t, report.OperationFacts)
}

func TestDerivedFactsCarryDescriptionAndRefs(t *testing.T) {
	db := chainDB(t)
	runEngine(t, db)

	for _, row := range db.AdjacencyMatrix.Matrix {
		for _, cell := range row {
			if cell == nil || !cell.Derived {
				continue
			}
			assert.NotEmpty(t, cell.Description)
			assert.NotNil(t, cell.Refs)
		}
	}
	for _, lang := range db.Languages {
		for _, m := range []map[catalog.OpCode]*dataset.OperationSupport{lang.Queries, lang.Transformations} {
			for _, entry := range m {
				if !entry.Derived {
					continue
				}
				assert.NotEmpty(t, entry.Description)
				assert.NotNil(t, entry.Refs)
			}
		}
	}
}
