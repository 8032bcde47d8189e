package propagate

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

// newTestDB builds an empty database over the given language IDs, using
// the ID as the display name.
func newTestDB(ids ...string) *dataset.Database {
	db := &dataset.Database{}
	for _, id := range ids {
		db.Languages = append(db.Languages, &dataset.Language{
			ID:              id,
			Name:            id,
			Queries:         map[catalog.OpCode]*dataset.OperationSupport{},
			Transformations: map[catalog.OpCode]*dataset.OperationSupport{},
		})
	}
	db.ClearMatrix()
	return db
}

// setEdge stores a manual relation between two languages by ID.
func setEdge(t *testing.T, db *dataset.Database, from, to string, cell *dataset.DirectedRelation) {
	t.Helper()
	i, ok := db.AdjacencyMatrix.Index(from)
	require.True(t, ok, "unknown language %s", from)
	j, ok := db.AdjacencyMatrix.Index(to)
	require.True(t, ok, "unknown language %s", to)
	db.AdjacencyMatrix.Set(i, j, cell)
}

// edgeAt reads a relation between two languages by ID.
func edgeAt(t *testing.T, db *dataset.Database, from, to string) *dataset.DirectedRelation {
	t.Helper()
	i, ok := db.AdjacencyMatrix.Index(from)
	require.True(t, ok)
	j, ok := db.AdjacencyMatrix.Index(to)
	require.True(t, ok)
	return db.AdjacencyMatrix.At(i, j)
}

// polyEdge is a manual poly relation with the given refs.
func polyEdge(refs ...string) *dataset.DirectedRelation {
	return &dataset.DirectedRelation{Status: catalog.Poly, Refs: refs}
}

// newTestRun wraps a database in a run for exercising individual passes.
func newTestRun(db *dataset.Database) *run {
	return &run{db: db, m: db.AdjacencyMatrix, log: slog.Default()}
}

// runEngine drives a full propagation and fails the test on error.
func runEngine(t *testing.T, db *dataset.Database) *Report {
	t.Helper()
	report, err := NewEngine(Options{}).Run(db)
	require.NoError(t, err)
	return report
}
