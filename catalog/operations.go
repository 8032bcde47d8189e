package catalog

import "fmt"

// OpKind distinguishes the two operation families. A language carries one
// support map per kind, so every code resolves to exactly one kind.
type OpKind int

const (
	KindQuery OpKind = iota
	KindTransformation
)

// String returns the display name of the kind.
func (k OpKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindTransformation:
		return "transformation"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// OpCode identifies a query or transformation in the knowledge compilation
// map. The codes follow the standard abbreviations from the literature.
type OpCode string

// Query codes.
const (
	OpCO OpCode = "CO" // consistency
	OpVA OpCode = "VA" // validity
	OpCE OpCode = "CE" // clausal entailment
	OpIM OpCode = "IM" // implicant check
	OpEQ OpCode = "EQ" // equivalence check
	OpSE OpCode = "SE" // sentential entailment
	OpCT OpCode = "CT" // model counting
	OpME OpCode = "ME" // model enumeration
)

// Transformation codes.
const (
	OpCD   OpCode = "CD"  // conditioning
	OpFO   OpCode = "FO"  // forgetting
	OpSFO  OpCode = "SFO" // singleton forgetting
	OpAND  OpCode = "AND" // conjunction
	OpBAND OpCode = "∧C"  // bounded conjunction
	OpOR   OpCode = "OR"  // disjunction
	OpBOR  OpCode = "∨C"  // bounded disjunction
	OpNOT  OpCode = "NOT" // negation
)

// queryCodes and transformationCodes fix the iteration order used by the
// propagation engine so repeated runs visit operations identically.
var queryCodes = []OpCode{OpCO, OpVA, OpCE, OpIM, OpEQ, OpSE, OpCT, OpME}

var transformationCodes = []OpCode{OpCD, OpFO, OpSFO, OpAND, OpBAND, OpOR, OpBOR, OpNOT}

var opKinds = func() map[OpCode]OpKind {
	kinds := make(map[OpCode]OpKind, len(queryCodes)+len(transformationCodes))
	for _, c := range queryCodes {
		kinds[c] = KindQuery
	}
	for _, c := range transformationCodes {
		kinds[c] = KindTransformation
	}
	return kinds
}()

// KindOf resolves an operation code to its family. The second return is
// false for codes outside the catalog.
func KindOf(code OpCode) (OpKind, bool) {
	k, ok := opKinds[code]
	return k, ok
}

// QueryCodes returns all query codes in catalog order. The caller must not
// modify the returned slice.
func QueryCodes() []OpCode {
	return queryCodes
}

// TransformationCodes returns all transformation codes in catalog order.
// The caller must not modify the returned slice.
func TransformationCodes() []OpCode {
	return transformationCodes
}

// AllOpCodes returns every operation code, queries first, in catalog order.
func AllOpCodes() []OpCode {
	all := make([]OpCode, 0, len(queryCodes)+len(transformationCodes))
	all = append(all, queryCodes...)
	all = append(all, transformationCodes...)
	return all
}
