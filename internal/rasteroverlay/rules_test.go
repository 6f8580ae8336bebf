package rasteroverlay

import "testing"

func TestColorRuleMatchesWithinTolerance(t *testing.T) {
	rule := ColorRule{Color: RGBA{R: 100, G: 150, B: 50, A: 255}, Tolerance: 5, AlphaThreshold: 200}
	if !rule.Matches(RGBA{R: 104, G: 147, B: 53, A: 255}) {
		t.Error("expected a match within tolerance")
	}
	if rule.Matches(RGBA{R: 120, G: 150, B: 50, A: 255}) {
		t.Error("did not expect a match with red outside tolerance")
	}
}

func TestColorRuleRejectsBelowAlphaThreshold(t *testing.T) {
	rule := ColorRule{Color: RGBA{R: 0, G: 0, B: 0, A: 0}, Tolerance: 255, AlphaThreshold: 100}
	if rule.Matches(RGBA{A: 50}) {
		t.Error("expected no match below alpha threshold")
	}
}

func TestColorRuleMatchesRequiresAlphaWithinToleranceWhenTranslucent(t *testing.T) {
	rule := ColorRule{Color: RGBA{R: 10, G: 10, B: 10, A: 128}, Tolerance: 5, AlphaThreshold: 0}
	if !rule.Matches(RGBA{R: 10, G: 10, B: 10, A: 130}) {
		t.Error("expected a match with pixel alpha within tolerance of the rule's translucent alpha")
	}
	if rule.Matches(RGBA{R: 10, G: 10, B: 10, A: 255}) {
		t.Error("did not expect a match when pixel alpha is far from the rule's translucent alpha")
	}
}

func TestColorRuleMatchesIgnoresAlphaWhenRuleIsOpaque(t *testing.T) {
	rule := ColorRule{Color: RGBA{R: 10, G: 10, B: 10, A: 255}, Tolerance: 5, AlphaThreshold: 0}
	if !rule.Matches(RGBA{R: 10, G: 10, B: 10, A: 120}) {
		t.Error("expected an opaque rule to ignore pixel alpha beyond AlphaThreshold")
	}
}

func TestColorRuleOrderOffsetsByDeclarationIndex(t *testing.T) {
	r := ColorRule{DeclarationIndex: 2}
	if got := r.Order(5); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestWithinToleranceHandlesBothDirections(t *testing.T) {
	if !withinTolerance(10, 15, 5) || !withinTolerance(15, 10, 5) {
		t.Error("expected symmetric tolerance check")
	}
	if withinTolerance(10, 16, 5) {
		t.Error("expected out-of-tolerance mismatch")
	}
}
