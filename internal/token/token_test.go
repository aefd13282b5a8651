package token

import "testing"

func TestFromRuneRoundTrip(t *testing.T) {
	for tok := MoveLeft; tok <= Input; tok++ {
		got, ok := FromRune(tok.Rune())
		if !ok {
			t.Fatalf("FromRune(%q) not recognized", tok.Rune())
		}
		if got != tok {
			t.Errorf("FromRune(%q): expected %s, got %s", tok.Rune(), tok, got)
		}
	}
}

func TestNonInstructionRunes(t *testing.T) {
	for _, r := range "abc 019\n\t#!?{}()▼" {
		if IsInstruction(r) {
			t.Errorf("expected %q to be a comment rune", r)
		}
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		tok      Token
		expected int
	}{
		{MoveLeft, -1},
		{MoveRight, 1},
		{IncValue, 1},
		{DecValue, -1},
		{LoopOpen, 0},
		{LoopClose, 0},
		{Print, 0},
		{Input, 0},
	}
	for _, tt := range tests {
		if got := tt.tok.Delta(); got != tt.expected {
			t.Errorf("%s.Delta(): expected %d, got %d", tt.tok, tt.expected, got)
		}
	}
}

func TestClasses(t *testing.T) {
	if !MoveLeft.IsShift() || !MoveRight.IsShift() || IncValue.IsShift() {
		t.Error("IsShift misclassified")
	}
	if !IncValue.IsAdd() || !DecValue.IsAdd() || Print.IsAdd() {
		t.Error("IsAdd misclassified")
	}
	if Token(42).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", Token(42).String())
	}
}
