package catalog

import "testing"

func TestComplexityOrder(t *testing.T) {
	ordered := []Complexity{
		Poly,
		UnknownPolyQuasi,
		NoPolyQuasi,
		NoPolyUnknownQuasi,
		NoQuasi,
		UnknownBoth,
	}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i-1].Improves(ordered[i]) {
			t.Errorf("%s should improve on %s", ordered[i-1], ordered[i])
		}
		if ordered[i].Improves(ordered[i-1]) {
			t.Errorf("%s should not improve on %s", ordered[i], ordered[i-1])
		}
	}
}

func TestComplexityAxes(t *testing.T) {
	tests := []struct {
		code    Complexity
		poly    bool
		quasi   bool
		noPoly  bool
		noQuasi bool
	}{
		{Poly, true, true, false, false},
		{UnknownPolyQuasi, false, true, false, false},
		{NoPolyQuasi, false, true, true, false},
		{NoPolyUnknownQuasi, false, false, true, false},
		{NoQuasi, false, false, true, true},
		{UnknownBoth, false, false, false, false},
	}
	for _, tt := range tests {
		if got := tt.code.PolyGuaranteed(); got != tt.poly {
			t.Errorf("%s.PolyGuaranteed() = %v, want %v", tt.code, got, tt.poly)
		}
		if got := tt.code.QuasiGuaranteed(); got != tt.quasi {
			t.Errorf("%s.QuasiGuaranteed() = %v, want %v", tt.code, got, tt.quasi)
		}
		if got := tt.code.NoPoly(); got != tt.noPoly {
			t.Errorf("%s.NoPoly() = %v, want %v", tt.code, got, tt.noPoly)
		}
		if got := tt.code.IsNoQuasi(); got != tt.noQuasi {
			t.Errorf("%s.IsNoQuasi() = %v, want %v", tt.code, got, tt.noQuasi)
		}
	}
}

func TestAddCombinators(t *testing.T) {
	tests := []struct {
		name    string
		add     func(Complexity) (Complexity, bool)
		in      Complexity
		want    Complexity
		changed bool
	}{
		{"poly onto unknown", AddPoly, UnknownBoth, Poly, true},
		{"poly onto quasi", AddPoly, UnknownPolyQuasi, Poly, true},
		{"poly onto poly", AddPoly, Poly, Poly, false},
		{"poly onto no-poly is refused", AddPoly, NoPolyUnknownQuasi, NoPolyUnknownQuasi, false},
		{"quasi onto unknown", AddQuasi, UnknownBoth, UnknownPolyQuasi, true},
		{"quasi onto no-poly half", AddQuasi, NoPolyUnknownQuasi, NoPolyQuasi, true},
		{"quasi onto poly", AddQuasi, Poly, Poly, false},
		{"quasi onto no-quasi is refused", AddQuasi, NoQuasi, NoQuasi, false},
		{"no-poly onto unknown", AddNoPoly, UnknownBoth, NoPolyUnknownQuasi, true},
		{"no-poly onto quasi half", AddNoPoly, UnknownPolyQuasi, NoPolyQuasi, true},
		{"no-poly onto poly is refused", AddNoPoly, Poly, Poly, false},
		{"no-quasi onto unknown", AddNoQuasi, UnknownBoth, NoQuasi, true},
		{"no-quasi onto no-poly half", AddNoQuasi, NoPolyUnknownQuasi, NoQuasi, true},
		{"no-quasi onto quasi is refused", AddNoQuasi, NoPolyQuasi, NoPolyQuasi, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.add(tt.in)
			if got != tt.want || changed != tt.changed {
				t.Errorf("got (%s, %v), want (%s, %v)", got, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestParseComplexity(t *testing.T) {
	if _, err := ParseComplexity("poly"); err != nil {
		t.Errorf("unexpected error for poly: %v", err)
	}
	if _, err := ParseComplexity("polynomial"); err == nil {
		t.Error("expected error for unknown code")
	}
}

func TestKindOf(t *testing.T) {
	if k, ok := KindOf(OpCO); !ok || k != KindQuery {
		t.Errorf("KindOf(CO) = (%v, %v), want (query, true)", k, ok)
	}
	if k, ok := KindOf(OpNOT); !ok || k != KindTransformation {
		t.Errorf("KindOf(NOT) = (%v, %v), want (transformation, true)", k, ok)
	}
	if _, ok := KindOf(OpCode("XX")); ok {
		t.Error("expected unknown code to be rejected")
	}
}

func TestDefaultLemmasValidate(t *testing.T) {
	if err := ValidateLemmas(DefaultLemmas()); err != nil {
		t.Fatalf("default lemma catalog invalid: %v", err)
	}
}

func TestLemmaValidate(t *testing.T) {
	tests := []struct {
		name    string
		lemma   Lemma
		wantErr bool
	}{
		{"valid", Lemma{Antecedents: []OpCode{OpCD, OpCO}, Consequent: OpCE}, false},
		{"no antecedents", Lemma{Consequent: OpCE}, true},
		{"unknown consequent", Lemma{Antecedents: []OpCode{OpCO}, Consequent: OpCode("ZZ")}, true},
		{"unknown antecedent", Lemma{Antecedents: []OpCode{OpCode("ZZ")}, Consequent: OpCE}, true},
		{"self-referential", Lemma{Antecedents: []OpCode{OpCE}, Consequent: OpCE}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lemma.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
