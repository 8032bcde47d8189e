// Package catalog defines the closed vocabularies the knowledge base is
// built from: complexity status codes with their information ordering,
// query and transformation operation codes, and the operation lemma catalog.
package catalog

import "fmt"

// Complexity classifies how hard an operation or a succinctness
// transformation is. The same code set is used for per-language operation
// support and for directed relations in the adjacency matrix.
type Complexity string

const (
	// Poly means polynomial time is guaranteed.
	Poly Complexity = "poly"

	// UnknownPolyQuasi means quasi-polynomial time is guaranteed but the
	// polynomial question is open.
	UnknownPolyQuasi Complexity = "unknown-poly-quasi"

	// NoPolyQuasi means provably not polynomial, but quasi-polynomial time
	// is guaranteed.
	NoPolyQuasi Complexity = "no-poly-quasi"

	// NoPolyUnknownQuasi means provably not polynomial with the
	// quasi-polynomial question open.
	NoPolyUnknownQuasi Complexity = "no-poly-unknown-quasi"

	// NoQuasi means provably not quasi-polynomial (hence not polynomial).
	NoQuasi Complexity = "no-quasi"

	// UnknownBoth means nothing is known. An absent entry or a nil matrix
	// cell is equivalent to this value.
	UnknownBoth Complexity = "unknown-both"
)

// ranks orders codes by information content, best first. Strict-improvement
// checks compare these ordinals rather than strings.
var ranks = map[Complexity]int{
	Poly:               5,
	UnknownPolyQuasi:   4,
	NoPolyQuasi:        3,
	NoPolyUnknownQuasi: 2,
	NoQuasi:            1,
	UnknownBoth:        0,
}

// Valid reports whether c is one of the closed code set.
func (c Complexity) Valid() bool {
	_, ok := ranks[c]
	return ok
}

// Rank returns the ordinal position of c in the information order
// (higher is more informative). Unknown codes rank as UnknownBoth.
func (c Complexity) Rank() int {
	return ranks[c]
}

// Improves reports whether c is strictly more informative than other.
func (c Complexity) Improves(other Complexity) bool {
	return c.Rank() > other.Rank()
}

// PolyGuaranteed reports whether c asserts polynomial time.
func (c Complexity) PolyGuaranteed() bool {
	return c == Poly
}

// QuasiGuaranteed reports whether c asserts at-worst quasi-polynomial time.
// Poly implies quasi.
func (c Complexity) QuasiGuaranteed() bool {
	return c == Poly || c == UnknownPolyQuasi || c == NoPolyQuasi
}

// NoPoly reports whether c asserts that polynomial time is impossible.
// NoQuasi implies NoPoly.
func (c Complexity) NoPoly() bool {
	return c == NoPolyQuasi || c == NoPolyUnknownQuasi || c == NoQuasi
}

// IsNoQuasi reports whether c asserts that quasi-polynomial time is
// impossible.
func (c Complexity) IsNoQuasi() bool {
	return c == NoQuasi
}

// AddPoly strengthens c with a proof of polynomial time. It returns the
// combined code and whether the combination changed anything. A code that
// already contradicts the new fact is left alone; the consistency validator
// owns contradiction reporting.
func AddPoly(c Complexity) (Complexity, bool) {
	if c.NoPoly() || c == Poly {
		return c, false
	}
	return Poly, true
}

// AddQuasi strengthens c with a proof of at-worst quasi-polynomial time.
func AddQuasi(c Complexity) (Complexity, bool) {
	switch {
	case c.QuasiGuaranteed() || c.IsNoQuasi():
		return c, false
	case c == NoPolyUnknownQuasi:
		return NoPolyQuasi, true
	default: // unknown-both or unrecognized
		return UnknownPolyQuasi, true
	}
}

// AddNoPoly strengthens c with a proof that polynomial time is impossible.
func AddNoPoly(c Complexity) (Complexity, bool) {
	switch {
	case c.NoPoly() || c == Poly:
		return c, false
	case c == UnknownPolyQuasi:
		return NoPolyQuasi, true
	default:
		return NoPolyUnknownQuasi, true
	}
}

// AddNoQuasi strengthens c with a proof that quasi-polynomial time is
// impossible.
func AddNoQuasi(c Complexity) (Complexity, bool) {
	if c.QuasiGuaranteed() || c == NoQuasi {
		return c, false
	}
	return NoQuasi, true
}

// PolyStatuses is the allowed-status set for reachability over edges that
// guarantee polynomial-time transformation.
func PolyStatuses(c Complexity) bool {
	return c.PolyGuaranteed()
}

// QuasiStatuses is the allowed-status set for reachability over edges that
// guarantee at-worst quasi-polynomial transformation.
func QuasiStatuses(c Complexity) bool {
	return c.QuasiGuaranteed()
}

// ParseComplexity converts a raw code string, rejecting codes outside the
// closed set.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(s)
	if !c.Valid() {
		return UnknownBoth, fmt.Errorf("unknown complexity code: %q", s)
	}
	return c, nil
}
