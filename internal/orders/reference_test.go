package orders

import (
	"regexp"
	"testing"
)

func TestNewReference_Pattern(t *testing.T) {
	pattern := regexp.MustCompile(`^ord_[A-Za-z0-9]{10}$`)
	for i := 0; i < 200; i++ {
		ref, err := NewReference()
		if err != nil {
			t.Fatalf("new reference: %v", err)
		}
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match pattern", ref)
		}
	}
}

func TestNewReference_NoImmediateRepeats(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		ref, err := NewReference()
		if err != nil {
			t.Fatalf("new reference: %v", err)
		}
		if seen[ref] {
			t.Fatalf("reference %q repeated within 500 draws", ref)
		}
		seen[ref] = true
	}
}
