package board

import "github.com/jacobpatterson1549/wibble/game/tile"

// Source produces random numbers to create boards with.
// *math/rand.Rand is a Source.
type Source interface {
	tile.Source
	Intn(n int) int
}

const (
	minGems    = 3
	maxGems    = 5
	maxFrozen  = 2
	titleWord  = "WIBLE"
	cellsCount = Size * Size
)

var (
	// doubleLetterPositions are the fixed locations of double letter tiles.
	doubleLetterPositions = []Position{
		{Row: 0, Col: 3},
		{Row: 3, Col: 0},
		{Row: 4, Col: 1},
		{Row: 1, Col: 4},
		{Row: 2, Col: 2},
	}
	// tripleLetterPositions are the fixed locations of triple letter tiles.
	tripleLetterPositions = []Position{
		{Row: 1, Col: 1},
		{Row: 3, Col: 3},
		{Row: 1, Col: 3},
		{Row: 3, Col: 1},
	}
)

// New creates a board of random letters.
// Letter multipliers are at fixed positions, but the double word, gem, and frozen tiles are placed randomly.
// Gems and frozen tiles are never on the same cell.
func New(src Source) Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			b[r][c] = tile.Draw(src)
		}
	}
	for _, p := range doubleLetterPositions {
		b[p.Row][p.Col].DoubleLetter = true
	}
	for _, p := range tripleLetterPositions {
		b[p.Row][p.Col].TripleLetter = true
	}
	dw := cell(src.Intn(cellsCount))
	t := &b[dw.Row][dw.Col]
	t.DoubleLetter = false
	t.TripleLetter = false
	t.DoubleWord = true
	numGems := minGems + src.Intn(maxGems-minGems+1)
	numFrozen := src.Intn(maxFrozen + 1)
	cells := randomCells(src, numGems+numFrozen)
	for _, p := range cells[:numGems] {
		b[p.Row][p.Col].Gem = true
	}
	for _, p := range cells[numGems:] {
		b[p.Row][p.Col].Frozen = true
	}
	return b
}

// Title creates the decorative board shown before a solo game is started.
// Every row spells the title.
func Title() Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			ch := tile.Letter(titleWord[c])
			b[r][c] = tile.Tile{
				Ch:    ch,
				Score: ch.Score(),
			}
		}
	}
	return b
}

// randomCells picks n distinct positions by partially shuffling all of the cells of a board.
func randomCells(src Source, n int) []Position {
	indexes := make([]int, cellsCount)
	for i := range indexes {
		indexes[i] = i
	}
	cells := make([]Position, n)
	for i := 0; i < n; i++ {
		j := i + src.Intn(cellsCount-i)
		indexes[i], indexes[j] = indexes[j], indexes[i]
		cells[i] = cell(indexes[i])
	}
	return cells
}
