package propagate

import (
	"fmt"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

// propagateEdges runs one sweep of the succinctness passes: transitive
// poly and quasi upgrades, then the contrapositive no-poly and no-quasi
// downgrades. Reachability is recomputed per sub-pass because earlier
// writes add edges. Returns whether anything changed.
func (r *run) propagateEdges() bool {
	changed := false
	if r.upgradeEdges(false) {
		changed = true
	}
	if r.upgradeEdges(true) {
		changed = true
	}
	if r.downgradeEdges(false) {
		changed = true
	}
	if r.downgradeEdges(true) {
		changed = true
	}
	return changed
}

// upgradeEdges strengthens cells by transitivity at the poly level
// (quasi=false) or the quasi level (quasi=true).
func (r *run) upgradeEdges(quasi bool) bool {
	allowed, add := catalog.PolyStatuses, catalog.AddPoly
	if quasi {
		allowed, add = catalog.QuasiStatuses, catalog.AddQuasi
	}
	reach := ComputeReachability(r.m, allowed)

	changed := false
	n := r.m.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !reach.Reachable(i, j) {
				continue
			}
			cell := r.m.At(i, j)
			cur := catalog.UnknownBoth
			if cell != nil {
				cur = cell.Status
			}
			next, improves := add(cur)
			if !improves {
				continue
			}
			path := reach.Path(i, j)
			if len(path) < 2 {
				continue
			}
			desc, refs, caveat := chainFacts(r.db, path, quasi)

			switch {
			case cell == nil:
				r.m.Set(i, j, &dataset.DirectedRelation{
					Status:      next,
					Refs:        refs,
					Caveat:      caveat,
					Derived:     true,
					Description: desc,
				})
			case cur == catalog.NoPolyUnknownQuasi && quasi:
				// The quasi half is newly derived; the no-poly half keeps
				// its own provenance, manual or derived.
				if cell.Quasi != nil {
					continue
				}
				cell.Status = catalog.NoPolyQuasi
				cell.Quasi = &dataset.SubClaim{Derived: true, Description: desc, Refs: refs}
			case cell.Derived:
				cell.Status = next
				cell.Refs = refs
				cell.Caveat = caveat
				cell.Description = desc
			default:
				// Manually asserted cell; the validator reports any conflict.
				continue
			}
			r.edgeFacts++
			changed = true
		}
	}
	if changed {
		r.log.Debug("edge upgrade pass changed cells", "quasi", quasi)
	}
	return changed
}

// downgradeEdges derives negative statuses by contraposition: when A→C is
// provably not poly (not quasi), every pair (B, D) with A poly-reaching B
// and D poly-reaching C inherits the negative, since a good B→D
// transformation would compose into a good A→C one.
func (r *run) downgradeEdges(quasi bool) bool {
	allowed, add := catalog.PolyStatuses, catalog.AddNoPoly
	negative := func(c catalog.Complexity) bool { return c.NoPoly() }
	if quasi {
		allowed, add = catalog.QuasiStatuses, catalog.AddNoQuasi
		negative = func(c catalog.Complexity) bool { return c.IsNoQuasi() }
	}
	reach := ComputeReachability(r.m, allowed)

	changed := false
	n := r.m.Size()
	for a := 0; a < n; a++ {
		for c := 0; c < n; c++ {
			neg := r.m.At(a, c)
			if a == c || neg == nil || !negative(neg.Status) {
				continue
			}
			for b := 0; b < n; b++ {
				if b != a && !reach.Reachable(a, b) {
					continue
				}
				for d := 0; d < n; d++ {
					if b == d || (d != c && !reach.Reachable(d, c)) {
						continue
					}
					if r.inheritNegative(reach, a, b, c, d, neg, add, quasi) {
						changed = true
					}
				}
			}
		}
	}
	if changed {
		r.log.Debug("edge downgrade pass changed cells", "quasi", quasi)
	}
	return changed
}

// inheritNegative writes the negative fact onto cell (b, d), justified by
// the negative cell (a, c) plus the connecting paths a→b and d→c.
func (r *run) inheritNegative(reach *Reachability, a, b, c, d int, neg *dataset.DirectedRelation, add func(catalog.Complexity) (catalog.Complexity, bool), quasi bool) bool {
	cell := r.m.At(b, d)
	cur := catalog.UnknownBoth
	if cell != nil {
		cur = cell.Status
	}
	next, improves := add(cur)
	if !improves {
		return false
	}

	refLists := [][]string{neg.Refs}
	caveats := []string{neg.Caveat}
	for _, path := range [][]int{reach.Path(a, b), reach.Path(d, c)} {
		if len(path) < 2 {
			continue
		}
		_, refs, caveat := chainFacts(r.db, path, quasi)
		refLists = append(refLists, refs)
		caveats = append(caveats, caveat)
	}

	phrase := timePhrase(quasi)
	bn, dn := r.langName(b), r.langName(d)
	an, cn := r.langName(a), r.langName(c)
	desc := fmt.Sprintf(
		"If %s could transform to %s in %s, then %s would transform to %s in %s by routing through %s and %s, contradicting that %s cannot transform to %s in %s.",
		bn, dn, phrase, an, cn, phrase, bn, dn, an, cn, phrase)
	refs := mergeRefs(refLists...)
	caveat := mergeCaveats(caveats...)

	switch {
	case cell == nil:
		r.m.Set(b, d, &dataset.DirectedRelation{
			Status:      next,
			Refs:        refs,
			Caveat:      caveat,
			Derived:     true,
			Description: desc,
		})
	case cur == catalog.UnknownPolyQuasi && !quasi:
		// The no-poly half is newly derived against a manual or derived
		// quasi guarantee.
		if cell.NoPoly != nil {
			return false
		}
		cell.Status = catalog.NoPolyQuasi
		cell.NoPoly = &dataset.SubClaim{Derived: true, Description: desc, Refs: refs}
	case cell.Derived:
		cell.Status = next
		cell.Refs = refs
		cell.Caveat = caveat
		cell.Description = desc
		cell.NoPoly = nil
		cell.Quasi = nil
	default:
		return false
	}
	r.edgeFacts++
	return true
}

func (r *run) langName(i int) string {
	return r.db.LanguageName(r.m.LanguageIDs[i])
}
