package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound indicates the dataset file does not exist.
var ErrNotFound = errors.New("dataset not found")

// Load reads and structurally validates a database document from path.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if db.AdjacencyMatrix != nil {
		db.AdjacencyMatrix.RebuildIndex()
	}
	if err := db.Validate(); err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}
	return &db, nil
}

// Save writes the database document to path, creating parent directories
// as needed. Output is indented to keep curator diffs readable.
func Save(db *Database, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// ClearMatrix rebuilds the adjacency matrix as all-null cells sized to the
// current language list, discarding every stored relation.
func (db *Database) ClearMatrix() {
	ids := make([]string, 0, len(db.Languages))
	for _, l := range db.Languages {
		ids = append(ids, l.ID)
	}
	db.AdjacencyMatrix = NewAdjacencyMatrix(ids)
}

// ClearAll empties the mutable datasets (languages, references,
// separating functions) and resets the matrix, keeping the injected
// catalogs intact.
func (db *Database) ClearAll() {
	db.Languages = []*Language{}
	db.References = []Reference{}
	db.SeparatingFunctions = []SeparatingFunction{}
	db.ClearMatrix()
}
