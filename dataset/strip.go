package dataset

import "github.com/dkahdian/kcmap/catalog"

// StripDerived removes every fact the propagation engine wrote, leaving
// only the manually asserted core. Cells whose no-poly-quasi status was
// built from one manual half and one derived half are demoted to the
// manual half rather than dropped. Returns the number of removed matrix
// facts and operation entries.
func (db *Database) StripDerived() (cells, operations int) {
	if db.AdjacencyMatrix != nil {
		for _, row := range db.AdjacencyMatrix.Matrix {
			for j, cell := range row {
				if cell == nil {
					continue
				}
				noPolyDerived := cell.NoPoly != nil && cell.NoPoly.Derived
				quasiDerived := cell.Quasi != nil && cell.Quasi.Derived
				switch {
				case cell.Derived, noPolyDerived && quasiDerived:
					row[j] = nil
					cells++
				case cell.Status == catalog.NoPolyQuasi && quasiDerived:
					cell.Status = catalog.NoPolyUnknownQuasi
					cell.Quasi = nil
					cells++
				case cell.Status == catalog.NoPolyQuasi && noPolyDerived:
					cell.Status = catalog.UnknownPolyQuasi
					cell.NoPoly = nil
					cells++
				}
			}
		}
	}
	for _, lang := range db.Languages {
		operations += stripDerivedOps(lang.Queries)
		operations += stripDerivedOps(lang.Transformations)
	}
	return cells, operations
}

func stripDerivedOps(m map[catalog.OpCode]*OperationSupport) int {
	removed := 0
	for code, entry := range m {
		if entry != nil && entry.Derived {
			delete(m, code)
			removed++
		}
	}
	return removed
}
