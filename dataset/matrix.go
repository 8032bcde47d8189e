package dataset

import (
	"encoding/json"
	"fmt"
)

// AdjacencyMatrix is the square matrix of directed relations, indexed
// identically by row and column over LanguageIDs. Nil cells mean no
// asserted relation.
type AdjacencyMatrix struct {
	LanguageIDs []string              `json:"languageIds"`
	Matrix      [][]*DirectedRelation `json:"matrix"`

	// index maps language ID to row/column position. Rebuilt on load and
	// after any change to LanguageIDs; not serialized independently of the
	// indexByLanguage field below.
	index map[string]int
}

// matrixJSON mirrors the serialized form, which carries the index map for
// the benefit of the presentation layer.
type matrixJSON struct {
	LanguageIDs     []string              `json:"languageIds"`
	Matrix          [][]*DirectedRelation `json:"matrix"`
	IndexByLanguage map[string]int        `json:"indexByLanguage,omitempty"`
}

// MarshalJSON writes the matrix with a freshly built indexByLanguage map.
func (m *AdjacencyMatrix) MarshalJSON() ([]byte, error) {
	m.RebuildIndex()
	return json.Marshal(matrixJSON{
		LanguageIDs:     m.LanguageIDs,
		Matrix:          m.Matrix,
		IndexByLanguage: m.index,
	})
}

// UnmarshalJSON reads the matrix and rebuilds the index from LanguageIDs,
// ignoring any stored indexByLanguage (LanguageIDs is authoritative).
func (m *AdjacencyMatrix) UnmarshalJSON(data []byte) error {
	var raw matrixJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.LanguageIDs = raw.LanguageIDs
	m.Matrix = raw.Matrix
	m.RebuildIndex()
	return nil
}

// NewAdjacencyMatrix returns an empty square matrix sized to ids.
func NewAdjacencyMatrix(ids []string) *AdjacencyMatrix {
	m := &AdjacencyMatrix{LanguageIDs: append([]string(nil), ids...)}
	m.Clear()
	return m
}

// Clear rebuilds the matrix as all-nil cells sized to LanguageIDs.
func (m *AdjacencyMatrix) Clear() {
	n := len(m.LanguageIDs)
	m.Matrix = make([][]*DirectedRelation, n)
	for i := range m.Matrix {
		m.Matrix[i] = make([]*DirectedRelation, n)
	}
	m.RebuildIndex()
}

// RebuildIndex recomputes the ID→position map.
func (m *AdjacencyMatrix) RebuildIndex() {
	m.index = make(map[string]int, len(m.LanguageIDs))
	for i, id := range m.LanguageIDs {
		m.index[id] = i
	}
}

// Size returns the matrix dimension.
func (m *AdjacencyMatrix) Size() int {
	return len(m.LanguageIDs)
}

// Index returns the row/column position for a language ID.
func (m *AdjacencyMatrix) Index(id string) (int, bool) {
	if m.index == nil {
		m.RebuildIndex()
	}
	i, ok := m.index[id]
	return i, ok
}

// At returns the cell at (i, j). Out-of-range positions read as no edge
// rather than panicking.
func (m *AdjacencyMatrix) At(i, j int) *DirectedRelation {
	if i < 0 || j < 0 || i >= len(m.Matrix) || j >= len(m.Matrix) {
		return nil
	}
	row := m.Matrix[i]
	if j >= len(row) {
		return nil
	}
	return row[j]
}

// Set stores a cell at (i, j). Out-of-range positions are ignored.
func (m *AdjacencyMatrix) Set(i, j int, r *DirectedRelation) {
	if i < 0 || j < 0 || i >= len(m.Matrix) {
		return
	}
	row := m.Matrix[i]
	if j >= len(row) {
		return
	}
	row[j] = r
}

func (m *AdjacencyMatrix) statusValid(i, j int) error {
	cell := m.At(i, j)
	if cell == nil {
		return nil
	}
	if !cell.Status.Valid() {
		return fmt.Errorf("cell (%d, %d) has invalid status %q", i, j, cell.Status)
	}
	return nil
}

// Validate checks that the matrix is square, sized to LanguageIDs, with
// valid status codes everywhere a relation is asserted.
func (m *AdjacencyMatrix) Validate() error {
	n := len(m.LanguageIDs)
	if len(m.Matrix) != n {
		return fmt.Errorf("matrix has %d rows for %d languages", len(m.Matrix), n)
	}
	seen := make(map[string]bool, n)
	for _, id := range m.LanguageIDs {
		if seen[id] {
			return fmt.Errorf("duplicate language id in matrix: %s", id)
		}
		seen[id] = true
	}
	for i, row := range m.Matrix {
		if len(row) != n {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), n)
		}
		for j := range row {
			if err := m.statusValid(i, j); err != nil {
				return err
			}
		}
	}
	return nil
}
