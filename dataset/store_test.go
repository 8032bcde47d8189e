package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkahdian/kcmap/catalog"
)

func TestLoadFixture(t *testing.T) {
	db, err := Load(filepath.Join("testdata", "database.json"))
	require.NoError(t, err)

	require.Len(t, db.Languages, 4)
	assert.Equal(t, 4, db.AdjacencyMatrix.Size())

	i, ok := db.AdjacencyMatrix.Index("DNNF")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	dnnf := db.LanguageByID("DNNF")
	require.NotNil(t, dnnf)
	assert.Equal(t, catalog.Poly, dnnf.Support(catalog.OpCO))
	assert.Equal(t, catalog.UnknownBoth, dnnf.Support(catalog.OpVA))

	// Lemma catalog falls back to the built-in one when not injected.
	assert.NotEmpty(t, db.Lemmas())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRoundTrip(t *testing.T) {
	db, err := Load(filepath.Join("testdata", "database.json"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "database.json")
	require.NoError(t, Save(db, path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, db.Languages, reloaded.Languages)
	assert.Equal(t, db.AdjacencyMatrix.LanguageIDs, reloaded.AdjacencyMatrix.LanguageIDs)
	assert.Equal(t, db.AdjacencyMatrix.Matrix, reloaded.AdjacencyMatrix.Matrix)
}

func TestCaveatOmittedWhenEmpty(t *testing.T) {
	// The presentation layer treats the presence of the caveat key as a
	// boolean signal, so empty caveats must not be serialized.
	entry := &OperationSupport{Complexity: catalog.Poly, Refs: []string{}, Derived: true, Description: "d"}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "caveat")
	assert.Contains(t, string(data), `"refs":[]`)

	cell := &DirectedRelation{Status: catalog.Poly, Refs: []string{}}
	data, err = json.Marshal(cell)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "caveat")
}

func TestSaveCreatesDirectories(t *testing.T) {
	db := &Database{AdjacencyMatrix: NewAdjacencyMatrix(nil)}
	path := filepath.Join(t.TempDir(), "a", "b", "database.json")
	require.NoError(t, Save(db, path))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestClearMatrix(t *testing.T) {
	db, err := Load(filepath.Join("testdata", "database.json"))
	require.NoError(t, err)

	db.ClearMatrix()
	require.Equal(t, 4, db.AdjacencyMatrix.Size())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.Nil(t, db.AdjacencyMatrix.At(i, j))
		}
	}
}

func TestClearAll(t *testing.T) {
	db, err := Load(filepath.Join("testdata", "database.json"))
	require.NoError(t, err)

	db.ClearAll()
	assert.Empty(t, db.Languages)
	assert.Empty(t, db.References)
	assert.Empty(t, db.SeparatingFunctions)
	assert.Equal(t, 0, db.AdjacencyMatrix.Size())

	// Cleared datasets serialize as empty arrays, not null.
	data, err := json.Marshal(db)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"languages":[]`)
	assert.Contains(t, string(data), `"references":[]`)
}

func TestValidateRejectsMalformed(t *testing.T) {
	load := func(t *testing.T) *Database {
		db, err := Load(filepath.Join("testdata", "database.json"))
		require.NoError(t, err)
		return db
	}

	tests := []struct {
		name    string
		mutate  func(*Database)
		wantSub string
	}{
		{
			name:    "duplicate language id",
			mutate:  func(db *Database) { db.Languages[1].ID = "NNF" },
			wantSub: "duplicate",
		},
		{
			name:    "ragged matrix",
			mutate:  func(db *Database) { db.AdjacencyMatrix.Matrix[2] = db.AdjacencyMatrix.Matrix[2][:2] },
			wantSub: "columns",
		},
		{
			name: "dangling matrix id",
			mutate: func(db *Database) {
				db.AdjacencyMatrix.LanguageIDs[0] = "SDD"
				db.AdjacencyMatrix.RebuildIndex()
			},
			wantSub: "unknown language",
		},
		{
			name: "invalid status code",
			mutate: func(db *Database) {
				db.AdjacencyMatrix.Matrix[1][0].Status = "polynomial"
			},
			wantSub: "invalid status",
		},
		{
			name: "query stored as transformation",
			mutate: func(db *Database) {
				db.Languages[0].Transformations[catalog.OpCO] = &OperationSupport{Complexity: catalog.Poly}
			},
			wantSub: "query",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := load(t)
			tt.mutate(db)
			err := db.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantSub), "error %q should mention %q", err, tt.wantSub)
		})
	}
}
