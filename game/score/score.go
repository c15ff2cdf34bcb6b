// Package score calculates the points and gems that words earn.
package score

import "github.com/jacobpatterson1549/wibble/game/tile"

const (
	// LongWordLength is the length of the shortest word that earns the long word bonus.
	LongWordLength = 6
	// LongWordBonus is the number of points added to long words.
	LongWordBonus = 10
)

// Points is the value of a word spelled with the tiles.
// Letter scores are multiplied by letter multipliers and summed.  A double word tile doubles the sum once,
// no matter how many are used.  Long words get a bonus after the word is multiplied.
func Points(tiles []tile.Tile) int {
	sum := 0
	doubleWord := false
	for _, t := range tiles {
		sum += t.Score * t.LetterMultiplier()
		if t.DoubleWord {
			doubleWord = true
		}
	}
	if doubleWord {
		sum *= 2
	}
	if len(tiles) >= LongWordLength {
		sum += LongWordBonus
	}
	return sum
}

// Gems is the number of gem tiles used in the word.
func Gems(tiles []tile.Tile) int {
	n := 0
	for _, t := range tiles {
		if t.Gem {
			n++
		}
	}
	return n
}
