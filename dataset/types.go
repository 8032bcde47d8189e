// Package dataset defines the knowledge base document: languages with
// their operation-support tables, the adjacency matrix of directed
// succinctness relations, and the injected display catalogs. It also
// provides the JSON store the curation tooling and the propagation engine
// share.
package dataset

import (
	"fmt"

	"github.com/dkahdian/kcmap/catalog"
)

// OperationSupport records what is known about one operation on one
// language. Entries written by the propagation engine carry Derived=true,
// a generated Description and a (possibly empty, never nil) Refs list.
// Manually asserted entries are never overwritten by the engine.
type OperationSupport struct {
	Complexity  catalog.Complexity `json:"complexity"`
	Refs        []string           `json:"refs"`
	Caveat      string             `json:"caveat,omitempty"`
	Derived     bool               `json:"derived,omitempty"`
	Description string             `json:"description,omitempty"`
}

// Language is one knowledge compilation language (CNF, DNNF, OBDD, ...).
type Language struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Queries         map[catalog.OpCode]*OperationSupport `json:"queries"`
	Transformations map[catalog.OpCode]*OperationSupport `json:"transformations"`
}

// SupportEntry returns the stored entry for code, or nil when nothing is
// recorded. The operation kind decides which map is consulted; unknown
// codes resolve to nil.
func (l *Language) SupportEntry(code catalog.OpCode) *OperationSupport {
	kind, ok := catalog.KindOf(code)
	if !ok {
		return nil
	}
	if kind == catalog.KindQuery {
		return l.Queries[code]
	}
	return l.Transformations[code]
}

// Support returns the stored complexity for code, defaulting to
// UnknownBoth for absent entries.
func (l *Language) Support(code catalog.OpCode) catalog.Complexity {
	if e := l.SupportEntry(code); e != nil {
		return e.Complexity
	}
	return catalog.UnknownBoth
}

// SetSupport stores entry under code in the map its kind selects.
func (l *Language) SetSupport(code catalog.OpCode, entry *OperationSupport) error {
	kind, ok := catalog.KindOf(code)
	if !ok {
		return fmt.Errorf("unknown operation code: %q", code)
	}
	if kind == catalog.KindQuery {
		if l.Queries == nil {
			l.Queries = make(map[catalog.OpCode]*OperationSupport)
		}
		l.Queries[code] = entry
	} else {
		if l.Transformations == nil {
			l.Transformations = make(map[catalog.OpCode]*OperationSupport)
		}
		l.Transformations[code] = entry
	}
	return nil
}

// SubClaim is one independently provable half of a no-poly-quasi relation.
// The not-polynomial half and the quasi-polynomial half of a single edge
// can come from different references, and either half may be derived while
// the other is a manual assertion.
type SubClaim struct {
	Derived     bool     `json:"derived,omitempty"`
	Description string   `json:"description,omitempty"`
	Refs        []string `json:"refs,omitempty"`
}

// DirectedRelation is a matrix cell: what is known about transforming the
// row language into the column language.
type DirectedRelation struct {
	Status              catalog.Complexity `json:"status"`
	Refs                []string           `json:"refs"`
	Caveat              string             `json:"caveat,omitempty"`
	SeparatingFunctions []string           `json:"separatingFunctions,omitempty"`
	Derived             bool               `json:"derived,omitempty"`
	Description         string             `json:"description,omitempty"`

	// NoPoly and Quasi carry per-half provenance for no-poly-quasi cells.
	NoPoly *SubClaim `json:"noPoly,omitempty"`
	Quasi  *SubClaim `json:"quasi,omitempty"`
}

// Reference is a bibliography entry the facts cite by key.
type Reference struct {
	Key   string `json:"key"`
	Title string `json:"title,omitempty"`
	Href  string `json:"href,omitempty"`
}

// SeparatingFunction documents a function family witnessing a succinctness
// separation between two languages.
type SeparatingFunction struct {
	Key         string   `json:"key"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Refs        []string `json:"refs,omitempty"`
}

// CatalogEntry is injected display metadata for a status or relation-type
// code. The engine treats these as read-only lookup tables.
type CatalogEntry struct {
	Code        string `json:"code"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Database is the whole knowledge base document.
type Database struct {
	Languages           []*Language          `json:"languages"`
	References          []Reference          `json:"references"`
	SeparatingFunctions []SeparatingFunction `json:"separatingFunctions"`
	AdjacencyMatrix     *AdjacencyMatrix     `json:"adjacencyMatrix"`
	Complexities        []CatalogEntry       `json:"complexities,omitempty"`
	RelationTypes       []CatalogEntry       `json:"relationTypes,omitempty"`
	OperationLemmas     []catalog.Lemma      `json:"operationLemmas,omitempty"`
}

// LanguageByID returns the language with the given ID, or nil.
func (db *Database) LanguageByID(id string) *Language {
	for _, l := range db.Languages {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LanguageName returns the display name for a language ID, falling back to
// the ID itself for unknown or unnamed languages.
func (db *Database) LanguageName(id string) string {
	if l := db.LanguageByID(id); l != nil && l.Name != "" {
		return l.Name
	}
	return id
}

// Lemmas returns the injected lemma catalog, or the built-in catalog when
// the document carries none.
func (db *Database) Lemmas() []catalog.Lemma {
	if len(db.OperationLemmas) > 0 {
		return db.OperationLemmas
	}
	return catalog.DefaultLemmas()
}

// Validate checks structural invariants before propagation: a square
// matrix indexed by the language list, unique language IDs, known status
// and operation codes, and a well-formed lemma catalog.
func (db *Database) Validate() error {
	seen := make(map[string]bool, len(db.Languages))
	for i, l := range db.Languages {
		if l.ID == "" {
			return fmt.Errorf("language %d has no id", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate language id: %s", l.ID)
		}
		seen[l.ID] = true
		for code, entry := range l.Queries {
			if err := checkSupport(l.ID, code, catalog.KindQuery, entry); err != nil {
				return err
			}
		}
		for code, entry := range l.Transformations {
			if err := checkSupport(l.ID, code, catalog.KindTransformation, entry); err != nil {
				return err
			}
		}
	}

	if db.AdjacencyMatrix == nil {
		return fmt.Errorf("missing adjacency matrix")
	}
	if err := db.AdjacencyMatrix.Validate(); err != nil {
		return fmt.Errorf("adjacency matrix: %w", err)
	}
	for _, id := range db.AdjacencyMatrix.LanguageIDs {
		if !seen[id] {
			return fmt.Errorf("adjacency matrix references unknown language: %s", id)
		}
	}

	if err := catalog.ValidateLemmas(db.Lemmas()); err != nil {
		return fmt.Errorf("lemma catalog: %w", err)
	}
	return nil
}

func checkSupport(langID string, code catalog.OpCode, want catalog.OpKind, entry *OperationSupport) error {
	kind, ok := catalog.KindOf(code)
	if !ok {
		return fmt.Errorf("language %s: unknown operation code %q", langID, code)
	}
	if kind != want {
		return fmt.Errorf("language %s: %s is a %s, stored in the %s map", langID, code, kind, want)
	}
	if entry == nil {
		return fmt.Errorf("language %s: nil entry for %s", langID, code)
	}
	if !entry.Complexity.Valid() {
		return fmt.Errorf("language %s: invalid complexity %q for %s", langID, entry.Complexity, code)
	}
	return nil
}
