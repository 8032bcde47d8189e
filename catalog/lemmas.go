package catalog

import "fmt"

// Lemma is a domain axiom: a language that supports every antecedent
// operation necessarily supports the consequent. Lemmas are applied both
// forward and as contrapositives, which is only sound when the antecedent
// conjunction is a true logical necessity. The catalog is expected to hold
// only such lemmas; Validate checks structure, not mathematical truth.
type Lemma struct {
	Antecedents []OpCode `json:"antecedents" yaml:"antecedents"`
	Consequent  OpCode   `json:"consequent" yaml:"consequent"`
	Refs        []string `json:"refs,omitempty" yaml:"refs,omitempty"`

	// Justification is a short sentence fragment naming the argument,
	// spliced into generated descriptions
	// (e.g. "clausal entailment reduces to conditioning plus consistency").
	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// Validate rejects lemmas whose codes are outside the operation catalog or
// that have no antecedents.
func (l Lemma) Validate() error {
	if len(l.Antecedents) == 0 {
		return fmt.Errorf("lemma for %s has no antecedents", l.Consequent)
	}
	if _, ok := KindOf(l.Consequent); !ok {
		return fmt.Errorf("lemma consequent %q is not a known operation code", l.Consequent)
	}
	for _, a := range l.Antecedents {
		if _, ok := KindOf(a); !ok {
			return fmt.Errorf("lemma antecedent %q is not a known operation code", a)
		}
		if a == l.Consequent {
			return fmt.Errorf("lemma for %s lists its consequent as an antecedent", l.Consequent)
		}
	}
	return nil
}

// ValidateLemmas validates a whole catalog, naming the offending index.
func ValidateLemmas(lemmas []Lemma) error {
	for i, l := range lemmas {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("lemma %d: %w", i, err)
		}
	}
	return nil
}

// DefaultLemmas returns the built-in lemma catalog: the classical
// reductions between queries and transformations on Boolean-formula
// representations. Datasets may inject their own catalog instead.
func DefaultLemmas() []Lemma {
	return []Lemma{
		{
			Antecedents:   []OpCode{OpCD, OpCO},
			Consequent:    OpCE,
			Refs:          []string{"darwiche2002map"},
			Justification: "clausal entailment reduces to conditioning on the negated clause followed by a consistency check",
		},
		{
			Antecedents:   []OpCode{OpCD, OpVA},
			Consequent:    OpIM,
			Refs:          []string{"darwiche2002map"},
			Justification: "implicant checking reduces to conditioning on the term followed by a validity check",
		},
		{
			Antecedents:   []OpCode{OpCE},
			Consequent:    OpCO,
			Refs:          []string{"darwiche2002map"},
			Justification: "consistency is clausal entailment of the empty clause",
		},
		{
			Antecedents:   []OpCode{OpIM},
			Consequent:    OpVA,
			Refs:          []string{"darwiche2002map"},
			Justification: "validity is implicant checking of the empty term",
		},
		{
			Antecedents:   []OpCode{OpCT},
			Consequent:    OpCO,
			Refs:          []string{"darwiche2002map"},
			Justification: "a formula is consistent exactly when its model count is nonzero",
		},
		{
			Antecedents:   []OpCode{OpCT},
			Consequent:    OpVA,
			Refs:          []string{"darwiche2002map"},
			Justification: "a formula is valid exactly when its model count is maximal",
		},
		{
			Antecedents:   []OpCode{OpSE},
			Consequent:    OpCE,
			Refs:          []string{"darwiche2002map"},
			Justification: "sentential entailment subsumes clausal entailment",
		},
		{
			Antecedents:   []OpCode{OpNOT, OpCO},
			Consequent:    OpVA,
			Refs:          []string{"darwiche2002map"},
			Justification: "validity is inconsistency of the negation",
		},
		{
			Antecedents:   []OpCode{OpNOT, OpVA},
			Consequent:    OpCO,
			Refs:          []string{"darwiche2002map"},
			Justification: "consistency is non-validity of the negation",
		},
		{
			Antecedents:   []OpCode{OpCD, OpCO},
			Consequent:    OpME,
			Refs:          []string{"darwiche2002map"},
			Justification: "models can be enumerated with polynomial delay by conditioning on literals and checking consistency",
		},
	}
}
