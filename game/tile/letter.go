package tile

import (
	"encoding/json"
	"errors"
	"unicode"
)

// Letter is the value of a tile.
type Letter rune

// letterScores are the base scores of the letters, from A to Z.
var letterScores = [26]int{
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3, // A-M
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10, // N-Z
}

// NewLetter creates a letter from the rune, converting it to uppercase.
func NewLetter(r rune) (Letter, error) {
	r = unicode.ToUpper(r)
	if r < 'A' || 'Z' < r {
		return 0, errors.New("letter must be between A and Z: " + string(r))
	}
	return Letter(r), nil
}

// Score is the base score of the letter.  Invalid letters have no score.
func (l Letter) Score() int {
	if l < 'A' || 'Z' < l {
		return 0
	}
	return letterScores[l-'A']
}

// String returns the letter as a string.
func (l Letter) String() string {
	return string(l)
}

// MarshalJSON implements the encoding/json.Marshaler interface to marshal letters into strings.
func (l Letter) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(l))
}

// UnmarshalJSON implements the encoding/json.Unmarshaler interface to unmarshal letters from strings.
func (l *Letter) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if len(s) != 1 {
		return errors.New("letter must be a single character: " + s)
	}
	l2, err := NewLetter(rune(s[0]))
	if err != nil {
		return err
	}
	*l = l2
	return nil
}
