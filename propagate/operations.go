package propagate

import (
	"fmt"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

// propagateOperations runs one sweep of the per-language support passes:
// propagation along succinctness edges, forward lemma application, lemma
// contrapositives, and negative propagation along edges. Returns whether
// anything changed.
func (r *run) propagateOperations() bool {
	polyReach := ComputeReachability(r.m, catalog.PolyStatuses)
	quasiReach := ComputeReachability(r.m, catalog.QuasiStatuses)

	changed := false
	if r.upgradeOpsViaEdges(polyReach, false) {
		changed = true
	}
	if r.upgradeOpsViaEdges(quasiReach, true) {
		changed = true
	}
	if r.applyLemmasForward() {
		changed = true
	}
	if r.applyLemmasContrapositive() {
		changed = true
	}
	if r.downgradeOpsViaEdges(polyReach, false) {
		changed = true
	}
	if r.downgradeOpsViaEdges(quasiReach, true) {
		changed = true
	}
	return changed
}

// writeOp stores a derived support entry if it strictly improves the
// current one. Manual entries are never touched.
func (r *run) writeOp(lang *dataset.Language, code catalog.OpCode, add func(catalog.Complexity) (catalog.Complexity, bool), desc string, refs []string, caveat string) bool {
	entry := lang.SupportEntry(code)
	cur := catalog.UnknownBoth
	if entry != nil {
		cur = entry.Complexity
	}
	next, improves := add(cur)
	if !improves {
		return false
	}
	if entry != nil && !entry.Derived {
		return false
	}
	if err := lang.SetSupport(code, &dataset.OperationSupport{
		Complexity:  next,
		Refs:        refs,
		Caveat:      caveat,
		Derived:     true,
		Description: desc,
	}); err != nil {
		return false
	}
	r.opFacts++
	return true
}

// upgradeOpsViaEdges lifts support backwards along edges: when L1 reaches
// L2 at a given strength and L2 supports the operation at that strength,
// L1 supports it too (translate, then operate).
func (r *run) upgradeOpsViaEdges(reach *Reachability, quasi bool) bool {
	add := catalog.AddPoly
	supports := func(c catalog.Complexity) bool { return c.PolyGuaranteed() }
	if quasi {
		add = catalog.AddQuasi
		supports = func(c catalog.Complexity) bool { return c.QuasiGuaranteed() }
	}

	changed := false
	n := r.m.Size()
	for i := 0; i < n; i++ {
		l1 := r.db.LanguageByID(r.m.LanguageIDs[i])
		if l1 == nil {
			continue
		}
		for j := 0; j < n; j++ {
			if !reach.Reachable(i, j) {
				continue
			}
			l2 := r.db.LanguageByID(r.m.LanguageIDs[j])
			if l2 == nil {
				continue
			}
			for _, code := range catalog.AllOpCodes() {
				support := l2.SupportEntry(code)
				if support == nil || !supports(support.Complexity) {
					continue
				}
				path := reach.Path(i, j)
				if len(path) < 2 {
					continue
				}
				_, pathRefs, pathCaveat := chainFacts(r.db, path, quasi)
				phrase := timePhrase(quasi)
				desc := fmt.Sprintf("%s, and %s supports %s in %s, therefore %s supports %s in %s.",
					ChainSentence(r.db, path), l2.Name, code, phrase, l1.Name, code, phrase)
				refs := mergeRefs(pathRefs, support.Refs)
				caveat := mergeCaveats(pathCaveat, support.Caveat)
				if r.writeOp(l1, code, add, desc, refs, caveat) {
					changed = true
				}
			}
		}
	}
	return changed
}

// applyLemmasForward derives consequents whose antecedents are all
// supported, at poly strength when every antecedent is poly, otherwise at
// quasi strength when every antecedent is at least quasi.
func (r *run) applyLemmasForward() bool {
	changed := false
	for _, lang := range r.db.Languages {
		for _, lemma := range r.db.Lemmas() {
			allPoly, allQuasi := true, true
			refLists := [][]string{lemma.Refs}
			caveats := []string{}
			for _, ant := range lemma.Antecedents {
				entry := lang.SupportEntry(ant)
				cur := catalog.UnknownBoth
				if entry != nil {
					cur = entry.Complexity
					refLists = append(refLists, entry.Refs)
					caveats = append(caveats, entry.Caveat)
				}
				allPoly = allPoly && cur.PolyGuaranteed()
				allQuasi = allQuasi && cur.QuasiGuaranteed()
			}
			if !allQuasi {
				continue
			}
			// The derived strength tracks the worst antecedent.
			add, quasi := catalog.AddPoly, false
			if !allPoly {
				add, quasi = catalog.AddQuasi, true
			}
			phrase := timePhrase(quasi)
			desc := fmt.Sprintf("%s supports %s in %s, and %s, therefore %s supports %s in %s.",
				lang.Name, opList(lemma.Antecedents), phrase,
				lemmaReason(lemma), lang.Name, lemma.Consequent, phrase)
			if r.writeOp(lang, lemma.Consequent, add, desc, mergeRefs(refLists...), mergeCaveats(caveats...)) {
				changed = true
			}
		}
	}
	return changed
}

// applyLemmasContrapositive derives non-support for a single antecedent
// when the consequent is proven unsupported and every other antecedent is
// proven supported. Sound only because every catalog lemma requires the
// full conjunction of its antecedents.
func (r *run) applyLemmasContrapositive() bool {
	changed := false
	for _, lang := range r.db.Languages {
		for _, lemma := range r.db.Lemmas() {
			consequent := lang.Support(lemma.Consequent)
			if r.contraposeLemma(lang, lemma, consequent.NoPoly(), false) {
				changed = true
			}
			if r.contraposeLemma(lang, lemma, consequent.IsNoQuasi(), true) {
				changed = true
			}
		}
	}
	return changed
}

func (r *run) contraposeLemma(lang *dataset.Language, lemma catalog.Lemma, consequentRefuted bool, quasi bool) bool {
	if !consequentRefuted {
		return false
	}
	add := catalog.AddNoPoly
	supports := func(c catalog.Complexity) bool { return c.PolyGuaranteed() }
	if quasi {
		add = catalog.AddNoQuasi
		supports = func(c catalog.Complexity) bool { return c.QuasiGuaranteed() }
	}

	changed := false
	for k, target := range lemma.Antecedents {
		othersSupported := true
		refLists := [][]string{lemma.Refs}
		caveats := []string{}
		others := make([]catalog.OpCode, 0, len(lemma.Antecedents)-1)
		for k2, other := range lemma.Antecedents {
			if k2 == k {
				continue
			}
			entry := lang.SupportEntry(other)
			if entry == nil || !supports(entry.Complexity) {
				othersSupported = false
				break
			}
			others = append(others, other)
			refLists = append(refLists, entry.Refs)
			caveats = append(caveats, entry.Caveat)
		}
		if !othersSupported {
			continue
		}
		if entry := lang.SupportEntry(lemma.Consequent); entry != nil {
			refLists = append(refLists, entry.Refs)
			caveats = append(caveats, entry.Caveat)
		}

		phrase := timePhrase(quasi)
		var supportClause string
		if len(others) > 0 {
			supportClause = fmt.Sprintf(" despite supporting %s in %s", opList(others), phrase)
		}
		desc := fmt.Sprintf("%s does not support %s in %s%s, and %s, therefore %s cannot support %s in %s.",
			lang.Name, lemma.Consequent, phrase, supportClause,
			lemmaReason(lemma), lang.Name, target, phrase)
		if r.writeOp(lang, target, add, desc, mergeRefs(refLists...), mergeCaveats(caveats...)) {
			changed = true
		}
	}
	return changed
}

// downgradeOpsViaEdges pushes non-support forward along edges: when L1
// reaches L2 at a given strength yet provably lacks the operation at that
// strength, L2 must lack it too, or L1 could translate and use L2's
// procedure.
func (r *run) downgradeOpsViaEdges(reach *Reachability, quasi bool) bool {
	add := catalog.AddNoPoly
	refuted := func(c catalog.Complexity) bool { return c.NoPoly() }
	if quasi {
		add = catalog.AddNoQuasi
		refuted = func(c catalog.Complexity) bool { return c.IsNoQuasi() }
	}

	changed := false
	n := r.m.Size()
	for i := 0; i < n; i++ {
		l1 := r.db.LanguageByID(r.m.LanguageIDs[i])
		if l1 == nil {
			continue
		}
		for j := 0; j < n; j++ {
			if !reach.Reachable(i, j) {
				continue
			}
			l2 := r.db.LanguageByID(r.m.LanguageIDs[j])
			if l2 == nil {
				continue
			}
			for _, code := range catalog.AllOpCodes() {
				entry := l1.SupportEntry(code)
				if entry == nil || !refuted(entry.Complexity) {
					continue
				}
				path := reach.Path(i, j)
				if len(path) < 2 {
					continue
				}
				_, pathRefs, pathCaveat := chainFacts(r.db, path, quasi)
				phrase := timePhrase(quasi)
				desc := fmt.Sprintf("%s, yet %s does not support %s in %s, therefore %s cannot support %s in %s.",
					ChainSentence(r.db, path), l1.Name, code, phrase, l2.Name, code, phrase)
				refs := mergeRefs(pathRefs, entry.Refs)
				caveat := mergeCaveats(pathCaveat, entry.Caveat)
				if r.writeOp(l2, code, add, desc, refs, caveat) {
					changed = true
				}
			}
		}
	}
	return changed
}

// lemmaReason returns the lemma's justification clause, with a generic
// fallback for catalogs that omit one.
func lemmaReason(lemma catalog.Lemma) string {
	if lemma.Justification != "" {
		return lemma.Justification
	}
	return fmt.Sprintf("%s reduces to %s", lemma.Consequent, opList(lemma.Antecedents))
}
