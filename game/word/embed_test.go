package word

import (
	"strings"
	"testing"
)

func TestNewDefaultDictionary(t *testing.T) {
	d, err := NewDefaultDictionary()
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if d.Len() < 900 {
		t.Errorf("wanted the words that come with the game, got %v words", d.Len())
	}
	for i, w := range []string{"apple", "river", "tiger"} {
		if !d.Valid(w) {
			t.Errorf("Test %v: wanted %q to be a default word", i, w)
		}
	}
}

func TestAddFrom(t *testing.T) {
	d, err := NewDictionary(strings.NewReader("apple"))
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if err := d.AddFrom(strings.NewReader("wibble\nWobble don't\nqi")); err != nil {
		t.Fatalf("unwanted error adding words: %v", err)
	}
	if want, got := 3, d.Len(); want != got {
		t.Errorf("wanted %v words, got %v", want, got)
	}
	addFromTests := []struct {
		word string
		want bool
	}{
		{"apple", true},
		{"wibble", true},
		{"qi", true},
		{"wobble", false},
		{"don't", false},
	}
	for i, test := range addFromTests {
		if got := d.Valid(test.word); test.want != got {
			t.Errorf("Test %v: wanted %q valid: %v, got %v", i, test.word, test.want, got)
		}
	}
}
