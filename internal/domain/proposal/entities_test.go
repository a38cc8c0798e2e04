package proposal

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAIApproved, true},
		{StatusPending, StatusManagerApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusAIApproved, StatusManagerApproved, true},
		{StatusAIApproved, StatusRejected, true},
		{StatusAIApproved, StatusPending, false},
		{StatusRejected, StatusManagerApproved, true},
		{StatusManagerApproved, StatusRejected, true},
		{StatusManagerApproved, StatusPending, false},
		{StatusRejected, StatusAIApproved, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "AIAPPROVED", "MANAGERAPPROVED", "REJECTED"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("pending"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("lowercase status must be rejected, got %v", err)
	}
}

func TestParseState_DefaultsToDraft(t *testing.T) {
	st, err := ParseState("")
	if err != nil || st != StateDraft {
		t.Fatalf("ParseState(\"\") = %q, %v", st, err)
	}
	if _, err := ParseState("ARCHIVED"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
}

func TestDecidedAndTerminal(t *testing.T) {
	if Decided(true) != StatusManagerApproved || Decided(false) != StatusRejected {
		t.Fatalf("Decided mapping wrong")
	}
	for _, s := range TerminalStatuses {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	if StatusPending.IsTerminal() || StatusAIApproved.IsTerminal() {
		t.Fatalf("pending statuses must not be terminal")
	}
}
