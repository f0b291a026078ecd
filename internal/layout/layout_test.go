package layout

import "testing"

func TestIndexSerpentine(t *testing.T) {
	l := Layout{Dim: Dim{X: 4, Y: 3}, Order: Serpentine{FlipEveryRow: true}}
	cases := []struct{ x, y, want int }{
		{0, 0, 0},
		{3, 0, 3},
		{0, 1, 7},
		{3, 1, 4},
		{1, 2, 9},
	}
	for _, c := range cases {
		if got := l.Index(c.x, c.y); got != c.want {
			t.Fatalf("Index(%d,%d) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
	if l.Count() != 12 {
		t.Fatalf("expected 12 LEDs, got %d", l.Count())
	}
}

func TestIndexProgressive(t *testing.T) {
	l := Layout{Dim: Dim{X: 4, Y: 3}}
	if got := l.Index(1, 1); got != 5 {
		t.Fatalf("expected row-major index 5, got %d", got)
	}
}

func TestIndexFlipVertical(t *testing.T) {
	l := Layout{Dim: Dim{X: 4, Y: 3}, Order: Serpentine{FlipEveryRow: true, FlipVertical: true}}
	// bottom row runs left to right, middle row reversed
	if got := l.Index(0, 2); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := l.Index(0, 1); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestIndexUnique(t *testing.T) {
	l := Layout{Dim: Dim{X: 64, Y: 32}, Order: Serpentine{FlipEveryRow: true}}
	seen := make([]bool, l.Count())
	for y := 0; y < l.Dim.Y; y++ {
		for x := 0; x < l.Dim.X; x++ {
			i := l.Index(x, y)
			if i < 0 || i >= l.Count() || seen[i] {
				t.Fatalf("index %d for %d,%d out of range or duplicated", i, x, y)
			}
			seen[i] = true
		}
	}
	if l.Index(-1, 0) != -1 || l.Index(64, 0) != -1 {
		t.Fatalf("expected -1 outside the matrix")
	}
}
