// Package tile contains the lettered cells that players chain together on game boards.
package tile

type (
	// Tile is a letter on a board, along with the modifiers of the cell it sits on.
	// At most one of DoubleLetter and TripleLetter is set.
	Tile struct {
		Ch           Letter `json:"ch"`
		Score        int    `json:"score"`
		DoubleLetter bool   `json:"dl,omitempty"`
		TripleLetter bool   `json:"tl,omitempty"`
		DoubleWord   bool   `json:"dw,omitempty"`
		Gem          bool   `json:"gem,omitempty"`
		Frozen       bool   `json:"frozen,omitempty"`
	}
)

// WithLetter creates a copy of the tile that has a different letter and base score.
// The modifiers of the tile are kept.
func (t Tile) WithLetter(ch Letter) Tile {
	t.Ch = ch
	t.Score = ch.Score()
	return t
}

// LetterMultiplier is the amount the base score of the tile is multiplied by when scoring a word.
func (t Tile) LetterMultiplier() int {
	switch {
	case t.TripleLetter:
		return 3
	case t.DoubleLetter:
		return 2
	}
	return 1
}
