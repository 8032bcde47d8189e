package propagate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

// mergeRefs unions reference-key lists into a sorted, deduplicated slice.
// The result is never nil: derived facts always carry a refs list, even an
// empty one.
func mergeRefs(lists ...[]string) []string {
	seen := make(map[string]bool)
	merged := []string{}
	for _, list := range lists {
		for _, ref := range list {
			if ref == "" || seen[ref] {
				continue
			}
			seen[ref] = true
			merged = append(merged, ref)
		}
	}
	sort.Strings(merged)
	return merged
}

// mergeCaveats unions caveat strings with set semantics, joining distinct
// caveats with "OR". Empty input yields an empty string so the caveat
// field stays absent downstream.
func mergeCaveats(caveats ...string) string {
	seen := make(map[string]bool)
	distinct := []string{}
	for _, c := range caveats {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		distinct = append(distinct, c)
	}
	sort.Strings(distinct)
	return strings.Join(distinct, " OR ")
}

// timePhrase is the wording for one edge or operation at a given strength.
func timePhrase(quasi bool) string {
	if quasi {
		return "quasi-polynomial time"
	}
	return "poly time"
}

// edgePhrase words a single edge by its stored status: poly edges read as
// poly even inside a quasi-level chain.
func edgePhrase(status catalog.Complexity) string {
	return timePhrase(!status.PolyGuaranteed())
}

// ChainSentence narrates the witness path edge by edge:
// "CNF transforms to NNF in poly time, NNF transforms to DNNF in poly time".
// Exported for the consistency validator, which narrates the same chains
// in its counterexamples.
func ChainSentence(db *dataset.Database, path []int) string {
	m := db.AdjacencyMatrix
	segments := make([]string, 0, len(path)-1)
	for k := 0; k+1 < len(path); k++ {
		from := db.LanguageName(m.LanguageIDs[path[k]])
		to := db.LanguageName(m.LanguageIDs[path[k+1]])
		phrase := timePhrase(true)
		if cell := m.At(path[k], path[k+1]); cell != nil {
			phrase = edgePhrase(cell.Status)
		}
		segments = append(segments, fmt.Sprintf("%s transforms to %s in %s", from, to, phrase))
	}
	return strings.Join(segments, ", ")
}

// chainFacts collects the description, merged refs and merged caveat for a
// derived edge along the witness path.
func chainFacts(db *dataset.Database, path []int, quasi bool) (desc string, refs []string, caveat string) {
	m := db.AdjacencyMatrix
	refLists := make([][]string, 0, len(path))
	caveats := make([]string, 0, len(path))
	for k := 0; k+1 < len(path); k++ {
		if cell := m.At(path[k], path[k+1]); cell != nil {
			refLists = append(refLists, cell.Refs)
			caveats = append(caveats, cell.Caveat)
		}
	}
	from := db.LanguageName(m.LanguageIDs[path[0]])
	to := db.LanguageName(m.LanguageIDs[path[len(path)-1]])
	desc = fmt.Sprintf("%s, therefore %s transforms to %s in %s.",
		ChainSentence(db, path), from, to, timePhrase(quasi))
	return desc, mergeRefs(refLists...), mergeCaveats(caveats...)
}

// opList words an operation-code list for lemma descriptions.
func opList(codes []catalog.OpCode) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = string(c)
	}
	return strings.Join(names, " and ")
}
