// Package chain validates sequences of adjacent board positions that spell words.
package chain

import (
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/score"
)

const (
	// ErrTooShort is returned when a chain does not have enough letters to be a word.
	ErrTooShort game.Error = "word too short"
	// ErrNotInDictionary is returned when the letters of a chain do not spell a known word.
	ErrNotInDictionary game.Error = "not a valid word"
	// ErrUsesFrozenTile is returned when a chain contains a frozen tile.
	ErrUsesFrozenTile game.Error = "word uses a frozen tile"

	minLength = 2
)

type (
	// Chain is the ordered positions of the tiles of a word being spelled.
	// Positions are added and removed from the end.
	Chain []board.Position

	// Dictionary checks if words are valid.
	Dictionary interface {
		Valid(word string) bool
	}
)

// Contains determines if the position is in the chain.
func (c Chain) Contains(p board.Position) bool {
	for _, p2 := range c {
		if p == p2 {
			return true
		}
	}
	return false
}

// Last is the most recently added position.  The chain must not be empty.
func (c Chain) Last() board.Position {
	return c[len(c)-1]
}

// CanExtend determines if the position can be added to the end of the chain.
// Positions must be on the board, not already in the chain, not frozen, and adjacent to the last position of the chain.
func (c Chain) CanExtend(b board.Board, p board.Position) bool {
	switch {
	case !p.Valid(), c.Contains(p), b.Tile(p).Frozen:
		return false
	case len(c) == 0:
		return true
	}
	return c.Last().Adjacent(p)
}

// Validate determines if the chain can be submitted as a word, returning the word if it can.
// The chain is checked against the current board, so it is rechecked if the board changes after it was extended.
func (c Chain) Validate(b board.Board, d Dictionary) (string, error) {
	if len(c) < minLength {
		return "", ErrTooShort
	}
	tiles, err := b.Tiles(c)
	if err != nil {
		return "", err
	}
	w := b.Word(c)
	if !d.Valid(w) {
		return "", ErrNotInDictionary
	}
	for _, t := range tiles {
		if t.Frozen {
			return "", ErrUsesFrozenTile
		}
	}
	return w, nil
}

// Word is the letters of the chain.
func (c Chain) Word(b board.Board) string {
	return b.Word(c)
}

// Score is the number of points the chain is worth.  Positions that are not on the board are worth nothing.
func (c Chain) Score(b board.Board) int {
	tiles, err := b.Tiles(c)
	if err != nil {
		return 0
	}
	return score.Points(tiles)
}

// Gems is the number of gems the chain would earn.
func (c Chain) Gems(b board.Board) int {
	tiles, err := b.Tiles(c)
	if err != nil {
		return 0
	}
	return score.Gems(tiles)
}
