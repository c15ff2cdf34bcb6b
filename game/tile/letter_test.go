package tile

import (
	"encoding/json"
	"testing"
)

func TestLetterScore(t *testing.T) {
	letterScoreTests := []struct {
		Letter
		want int
	}{
		{'A', 1},
		{'D', 2},
		{'K', 5},
		{'J', 8},
		{'Q', 10},
		{'Z', 10},
		{'?', 0},
		{'a', 0},
	}
	for i, test := range letterScoreTests {
		if want, got := test.want, test.Letter.Score(); want != got {
			t.Errorf("Test %v: score of %q: wanted %v, got %v", i, test.Letter, want, got)
		}
	}
}

func TestMarshalLetter(t *testing.T) {
	got, err := json.Marshal(Letter('X'))
	switch {
	case err != nil:
		t.Errorf("unwanted error: %v", err)
	case string(got) != `"X"`:
		t.Errorf("wanted \"X\", got %v", string(got))
	}
}

func TestUnmarshalLetter(t *testing.T) {
	unmarshalLetterTests := []struct {
		json   string
		wantOk bool
		want   Letter
	}{
		{
			json: `"XYZ"`,
		},
		{
			json: `"?"`,
		},
		{
			json: `88`,
		},
		{
			json:   `"X"`,
			wantOk: true,
			want:   'X',
		},
		{
			json:   `"x"`,
			wantOk: true,
			want:   'X',
		},
	}
	for i, test := range unmarshalLetterTests {
		var got Letter
		err := json.Unmarshal([]byte(test.json), &got)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case test.want != got:
			t.Errorf("Test %v: wanted %v, got %v", i, test.want, got)
		}
	}
}
