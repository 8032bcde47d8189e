// Package consistency audits a propagated dataset for contradictions
// between stored facts and what reachability forces. The checks are
// read-only and never panic: each returns a structured result carrying a
// narrated counterexample and its witness path, so a curator can find the
// offending manual assertion.
package consistency

import (
	"fmt"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
	"github.com/dkahdian/kcmap/propagate"
)

// Result is the outcome of one check. A failed check names the first
// contradiction found; the checks in a Summary all run regardless.
type Result struct {
	// Name identifies the check.
	Name string

	OK bool

	// Message narrates the counterexample when OK is false.
	Message string

	// Path is the witness path as a language-ID sequence.
	Path []string
}

func ok(name string) Result {
	return Result{Name: name, OK: true}
}

// Summary aggregates every check over one dataset.
type Summary struct {
	OK      bool
	Results []Result
}

// Validate runs the adjacency and operation consistency checks to
// completion and aggregates their results. The stricter closure check is
// separate; see CheckAdjacencyClosure.
func Validate(db *dataset.Database) Summary {
	results := []Result{
		CheckAdjacency(db),
		CheckOperations(db),
	}
	s := Summary{OK: true, Results: results}
	for _, r := range results {
		s.OK = s.OK && r.OK
	}
	return s
}

// idPath converts matrix positions to language IDs.
func idPath(m *dataset.AdjacencyMatrix, path []int) []string {
	ids := make([]string, len(path))
	for k, i := range path {
		ids[k] = m.LanguageIDs[i]
	}
	return ids
}

// CheckAdjacency verifies that no stored relation contradicts
// reachability: a poly-reachable pair must not assert not-poly, and a
// quasi-reachable pair must not assert not-quasi. Returns on the first
// contradiction found.
func CheckAdjacency(db *dataset.Database) Result {
	const name = "adjacency consistency"
	m := db.AdjacencyMatrix

	levels := []struct {
		allowed func(catalog.Complexity) bool
		refuted func(catalog.Complexity) bool
		phrase  string
	}{
		{catalog.PolyStatuses, catalog.Complexity.NoPoly, "poly"},
		{catalog.QuasiStatuses, catalog.Complexity.IsNoQuasi, "quasi-polynomial"},
	}
	for _, level := range levels {
		reach := propagate.ComputeReachability(m, level.allowed)
		n := m.Size()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if !reach.Reachable(i, j) {
					continue
				}
				cell := m.At(i, j)
				if cell == nil || !level.refuted(cell.Status) {
					continue
				}
				path := reach.Path(i, j)
				from := db.LanguageName(m.LanguageIDs[i])
				to := db.LanguageName(m.LanguageIDs[j])
				return Result{
					Name: name,
					Message: fmt.Sprintf("%s. Therefore %s must transform to %s in %s time, but %s to %s is marked %s.",
						propagate.ChainSentence(db, path), from, to, level.phrase, from, to, cell.Status),
					Path: idPath(m, path),
				}
			}
		}
	}
	return ok(name)
}

// CheckAdjacencyClosure verifies full saturation: every poly-reachable
// pair stored as exactly poly, and every quasi-but-not-poly-reachable
// pair stored with some quasi-guaranteeing status. Intended as a
// diagnostic after propagation converges; a dataset with manual
// assertions the engine refuses to overwrite can fail closure while still
// being consistent.
func CheckAdjacencyClosure(db *dataset.Database) Result {
	const name = "adjacency closure"
	m := db.AdjacencyMatrix
	polyReach := propagate.ComputeReachability(m, catalog.PolyStatuses)
	quasiReach := propagate.ComputeReachability(m, catalog.QuasiStatuses)

	n := m.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cell := m.At(i, j)
			status := catalog.UnknownBoth
			if cell != nil {
				status = cell.Status
			}
			if polyReach.Reachable(i, j) && status != catalog.Poly {
				return Result{
					Name: name,
					Message: fmt.Sprintf("%s is poly-reachable from %s but stored as %s",
						m.LanguageIDs[j], m.LanguageIDs[i], status),
					Path: idPath(m, polyReach.Path(i, j)),
				}
			}
			if quasiReach.Reachable(i, j) && !polyReach.Reachable(i, j) && !status.QuasiGuaranteed() {
				return Result{
					Name: name,
					Message: fmt.Sprintf("%s is quasi-reachable from %s but stored as %s",
						m.LanguageIDs[j], m.LanguageIDs[i], status),
					Path: idPath(m, quasiReach.Path(i, j)),
				}
			}
		}
	}
	return ok(name)
}

// CheckOperations verifies per-language operation support against edge
// reachability, for poly and quasi separately: if L1 reaches L2 at some
// strength, L1 provably lacking an operation at that strength while L2
// supports it is a contradiction, whichever of the two entries was
// asserted manually.
func CheckOperations(db *dataset.Database) Result {
	const name = "operation consistency"
	m := db.AdjacencyMatrix

	levels := []struct {
		allowed  func(catalog.Complexity) bool
		supports func(catalog.Complexity) bool
		refuted  func(catalog.Complexity) bool
		phrase   string
	}{
		{catalog.PolyStatuses, catalog.Complexity.PolyGuaranteed, catalog.Complexity.NoPoly, "poly"},
		{catalog.QuasiStatuses, catalog.Complexity.QuasiGuaranteed, catalog.Complexity.IsNoQuasi, "quasi-polynomial"},
	}
	for _, level := range levels {
		reach := propagate.ComputeReachability(m, level.allowed)
		n := m.Size()
		for i := 0; i < n; i++ {
			l1 := db.LanguageByID(m.LanguageIDs[i])
			if l1 == nil {
				continue
			}
			for j := 0; j < n; j++ {
				if !reach.Reachable(i, j) {
					continue
				}
				l2 := db.LanguageByID(m.LanguageIDs[j])
				if l2 == nil {
					continue
				}
				for _, code := range catalog.AllOpCodes() {
					if !level.refuted(l1.Support(code)) || !level.supports(l2.Support(code)) {
						continue
					}
					path := reach.Path(i, j)
					return Result{
						Name: name,
						Message: fmt.Sprintf("%s, and %s supports %s in %s time, but %s is marked unable to support %s in %s time.",
							propagate.ChainSentence(db, path), l2.Name, code, level.phrase, l1.Name, code, level.phrase),
						Path: idPath(m, path),
					}
				}
			}
		}
	}
	return ok(name)
}
