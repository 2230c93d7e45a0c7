package id

import "testing"

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewRandomGenerator(0)
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}

	if len(first) != defaultSize*2 {
		t.Fatalf("expected %d hex chars, got %d", defaultSize*2, len(first))
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
}
