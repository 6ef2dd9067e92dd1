package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestSubjectColorFallsBack(t *testing.T) {
	fallback := lipgloss.Color("25")
	if got := SubjectColor("", fallback); got != fallback {
		t.Fatalf("empty hex = %v, want fallback", got)
	}
	if got := SubjectColor("teal-ish", fallback); got != fallback {
		t.Fatalf("malformed hex = %v, want fallback", got)
	}
}

func TestSubjectColorParsesHex(t *testing.T) {
	fallback := lipgloss.Color("25")
	got := SubjectColor("#3b82f6", fallback)
	if got == nil || got == fallback {
		t.Fatalf("valid hex not parsed, got %v", got)
	}
}
