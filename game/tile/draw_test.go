package tile

import (
	"math/rand"
	"testing"
)

type fixedSource float64

func (s fixedSource) Float64() float64 {
	return float64(s)
}

func TestDrawLetter(t *testing.T) {
	drawLetterTests := []struct {
		x    float64
		want Letter
	}{
		{0, 'Z'},
		{0.0005, 'Z'},
		{0.00074, 'Z'}, // boundary goes to the earlier letter
		{0.00075, 'Q'},
		{0.2, 'U'},
		{0.30519, 'D'},
		{0.3052, 'R'},
		{0.75, 'A'},
		{0.87419, 'T'},
		{0.9, 'E'},
		{0.99999, 'E'},
	}
	for i, test := range drawLetterTests {
		if want, got := test.want, DrawLetter(fixedSource(test.x)); want != got {
			t.Errorf("Test %v: drawing at %v: wanted %v, got %v", i, test.x, want, got)
		}
	}
}

func TestFrequenciesIncrease(t *testing.T) {
	seen := make(map[Letter]struct{}, len(frequencies))
	prev := 0.0
	for _, f := range frequencies {
		if f.hi <= prev {
			t.Errorf("frequency of %v not increasing: %v <= %v", f.ch, f.hi, prev)
		}
		prev = f.hi
		seen[f.ch] = struct{}{}
	}
	if prev != 1 {
		t.Errorf("wanted last frequency to be 1, got %v", prev)
	}
	if len(seen) != 26 {
		t.Errorf("wanted all 26 letters, got %v", len(seen))
	}
}

func TestDraw(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		got := Draw(src)
		switch {
		case got.Ch < 'A', 'Z' < got.Ch:
			t.Fatalf("draw %v: invalid letter: %v", i, got)
		case got.Score != got.Ch.Score():
			t.Fatalf("draw %v: wanted score of %v, got %v", i, got.Ch.Score(), got.Score)
		case got.DoubleLetter, got.TripleLetter, got.DoubleWord, got.Gem, got.Frozen:
			t.Fatalf("draw %v: wanted no modifiers: %v", i, got)
		}
	}
}
