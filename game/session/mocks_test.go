package session

import (
	"math/rand"
	"strings"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/tile"
)

type mockDictionary map[string]struct{}

func newMockDictionary(words ...string) mockDictionary {
	d := make(mockDictionary, len(words))
	for _, w := range words {
		d[strings.ToUpper(w)] = struct{}{}
	}
	return d
}

func (d mockDictionary) Valid(word string) bool {
	_, ok := d[strings.ToUpper(word)]
	return ok
}

// testConfig creates a configuration for simultaneous play with three rounds of ten seconds.
func testConfig() Config {
	rules := game.DefaultConfig()
	rules.TotalRounds = 3
	rules.TurnDuration = 10 * time.Second
	cfg := Config{
		Rules:      rules,
		Dictionary: newMockDictionary("cat", "at", "act", "wible"),
		Source:     rand.New(rand.NewSource(1)),
	}
	return cfg
}

// catBoard has CAT spelled diagonally from the top left, with a double letter A.
func catBoard() board.Board {
	b := board.Title()
	b[0][0] = tile.Tile{Ch: 'C', Score: 3}
	b[0][1] = tile.Tile{Ch: 'A', Score: 1, DoubleLetter: true}
	b[1][1] = tile.Tile{Ch: 'T', Score: 1}
	return b
}

var (
	catPositions = []board.Position{{Col: 0, Row: 0}, {Col: 1, Row: 0}, {Col: 1, Row: 1}}
	ada          = player.Player{ID: "id-ada", Name: "ada"}
	fred         = player.Player{ID: "id-fred", Name: "fred"}
	barney       = player.Player{ID: "id-barney", Name: "barney"}
)
