package ids

import "testing"

func TestGeneratorNextIsMonotonicAndUnique(t *testing.T) {
	var g Generator
	seen := map[uint64]bool{}
	var prev uint64
	for i := 0; i < 100; i++ {
		id := g.Next()
		if i > 0 && id != prev+1 {
			t.Fatalf("id %d not sequential after %d", id, prev)
		}
		if seen[id] {
			t.Fatalf("id %d generated twice", id)
		}
		seen[id] = true
		prev = id
	}
}

func TestGeneratorsAreIndependent(t *testing.T) {
	var a, b Generator
	a.Next()
	a.Next()
	first := b.Next()
	if first != 0 {
		t.Fatalf("expected independent generator to start at 0, got %d", first)
	}
}
