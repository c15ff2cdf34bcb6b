// Package board stores the tiles of a game and handles queries to read and rearrange them.
package board

import (
	"fmt"
	"strings"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/tile"
)

// Size is the number of rows and columns on a board.
const Size = 5

type (
	// Board is the grid of tiles for a game, indexed by row, then column.
	// Every cell of a board always has a tile.
	Board [Size][Size]tile.Tile

	// Position is the location of a cell on the board.
	Position struct {
		Col int `json:"col"`
		Row int `json:"row"`
	}
)

// Valid determines if the position is on the board.
func (p Position) Valid() bool {
	return 0 <= p.Row && p.Row < Size && 0 <= p.Col && p.Col < Size
}

// Adjacent determines if the other position is one of the eight cells touching the position.
// Positions on opposite edges of the board are not adjacent.
func (p Position) Adjacent(other Position) bool {
	dc, dr := abs(p.Col-other.Col), abs(p.Row-other.Row)
	return dc <= 1 && dr <= 1 && dc+dr != 0
}

// String returns the position as column and row.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Tile gets the tile at the position.  The position must be valid.
func (b Board) Tile(p Position) tile.Tile {
	return b[p.Row][p.Col]
}

// Tiles gets the tiles at the positions, in order.
func (b Board) Tiles(ps []Position) ([]tile.Tile, error) {
	tiles := make([]tile.Tile, len(ps))
	for i, p := range ps {
		if !p.Valid() {
			return nil, fmt.Errorf("%v: %w", p, game.ErrInvalidTileLocation)
		}
		tiles[i] = b.Tile(p)
	}
	return tiles, nil
}

// Word concatenates the letters at the positions.  Positions that are not on the board are skipped.
func (b Board) Word(ps []Position) string {
	var sb strings.Builder
	for _, p := range ps {
		if p.Valid() {
			sb.WriteRune(rune(b.Tile(p).Ch))
		}
	}
	return sb.String()
}

// Replace changes the letter at the position.  The modifiers of the tile are not changed.
func (b *Board) Replace(p Position, ch tile.Letter) error {
	if !p.Valid() {
		return fmt.Errorf("%v: %w", p, game.ErrInvalidTileLocation)
	}
	if ch < 'A' || 'Z' < ch {
		return fmt.Errorf("%q: %w", ch, game.ErrInvalidLetter)
	}
	b[p.Row][p.Col] = b.Tile(p).WithLetter(ch)
	return nil
}

// Redraw replaces the letters at the positions with random ones, keeping their modifiers.
func (b *Board) Redraw(src tile.Source, ps ...Position) error {
	if _, err := b.Tiles(ps); err != nil {
		return err
	}
	for _, p := range ps {
		ch := tile.DrawLetter(src)
		b[p.Row][p.Col] = b.Tile(p).WithLetter(ch)
	}
	return nil
}

// Shuffle moves whole tiles to random cells, each permutation of the board being equally likely.
// Modifiers move with their letters.
func (b *Board) Shuffle(src Source) {
	for i := Size*Size - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		pi, pj := cell(i), cell(j)
		b[pi.Row][pi.Col], b[pj.Row][pj.Col] = b[pj.Row][pj.Col], b[pi.Row][pi.Col]
	}
}

// Count returns the number of tiles that match the filter.
func (b Board) Count(filter func(t tile.Tile) bool) int {
	n := 0
	for _, row := range b {
		for _, t := range row {
			if filter(t) {
				n++
			}
		}
	}
	return n
}

// String returns the letters of the board, one row on each line.
func (b Board) String() string {
	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, t := range row {
			sb.WriteRune(rune(t.Ch))
		}
	}
	return sb.String()
}

// cell is the position of the index of a cell when reading the board row by row.
func cell(i int) Position {
	return Position{
		Col: i % Size,
		Row: i / Size,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
