// Package game contains the shared identifiers, rules, and error codes for word chain games.
package game

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
)

type (
	// ID is the short, shareable code of a game room.
	ID string

	// Config contains the rules for a game.
	Config struct {
		// TotalRounds is the number of rounds to play before the game is over.
		TotalRounds int `json:"totalRounds"`
		// TurnsPerPlayer is the number of turns each player gets in a round when the game is turn based.
		TurnsPerPlayer int `json:"turnsPerPlayer"`
		// TurnDuration is the length of a turn.  For simultaneous play, each round lasts for one turn.
		TurnDuration time.Duration `json:"turnDuration"`
		// TurnBased indicates that players take turns chaining words instead of playing simultaneously.
		TurnBased bool `json:"turnBased,omitempty"`
		// StartingGems is the number of gems each player has when the game starts.
		StartingGems int `json:"startingGems"`
		// MaxGems is the most gems a player can hold.
		MaxGems int `json:"maxGems"`
		// ShuffleCost is the number of gems spent to shuffle the board.
		ShuffleCost int `json:"shuffleCost"`
		// ReplaceTileCost is the number of gems spent to change the letter of a tile.
		ReplaceTileCost int `json:"replaceTileCost"`
		// MinPlayers is the number of players required to start a multiplayer game.
		MinPlayers int `json:"minPlayers"`
		// MaxPlayers is the capacity of a room.
		MaxPlayers int `json:"maxPlayers"`
	}
)

const (
	// IDLength is the number of characters in a room code.
	IDLength = 6
	// idAlphabet contains the characters of room codes.
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// DefaultConfig creates the standard rules: a single ninety second round, three starting gems, and rooms of up to eight players.
func DefaultConfig() Config {
	cfg := Config{
		TotalRounds:     1,
		TurnsPerPlayer:  1,
		TurnDuration:    90 * time.Second,
		StartingGems:    3,
		MaxGems:         10,
		ShuffleCost:     1,
		ReplaceTileCost: 2,
		MinPlayers:      2,
		MaxPlayers:      8,
	}
	return cfg
}

// Validate returns an error if the rules cannot be played.
func (cfg Config) Validate() error {
	switch {
	case cfg.TotalRounds <= 0:
		return fmt.Errorf("positive total rounds required")
	case cfg.TurnBased && cfg.TurnsPerPlayer <= 0:
		return fmt.Errorf("positive turns per player required for turn based games")
	case cfg.TurnDuration <= 0:
		return fmt.Errorf("positive turn duration required")
	case cfg.StartingGems < 0, cfg.MaxGems < cfg.StartingGems:
		return fmt.Errorf("starting gems must be between 0 and max gems (%v)", cfg.MaxGems)
	case cfg.ShuffleCost < 0, cfg.ReplaceTileCost < 0:
		return fmt.Errorf("gem costs cannot be negative")
	case cfg.MinPlayers <= 0:
		return fmt.Errorf("positive min players required")
	case cfg.MaxPlayers < cfg.MinPlayers:
		return fmt.Errorf("max players must be at least min players (%v)", cfg.MinPlayers)
	}
	return nil
}

// Duration is how long a game for the number of players lasts.
func (cfg Config) Duration(numPlayers int) time.Duration {
	if !cfg.TurnBased {
		return time.Duration(cfg.TotalRounds) * cfg.TurnDuration
	}
	turns := cfg.TotalRounds * cfg.TurnsPerPlayer * numPlayers
	return time.Duration(turns) * cfg.TurnDuration
}

// Rules gets the rules for the game as readable sentences.
func (cfg Config) Rules() []string {
	rules := []string{
		"Chain adjacent tiles, including diagonals, to spell words of at least two letters.",
		"Each letter scores its value, doubled or tripled on letter multiplier tiles.  A double word tile doubles the whole word.",
		"Words of six or more letters earn ten bonus points.",
		"Gem tiles in a word add to your gems.  Frozen tiles cannot be used.",
		fmt.Sprintf("Spend %d gem(s) to shuffle the board or %d gem(s) to change the letter of a tile.", cfg.ShuffleCost, cfg.ReplaceTileCost),
		fmt.Sprintf("You can hold up to %d gems.", cfg.MaxGems),
	}
	if cfg.TurnBased {
		rules = append(rules, fmt.Sprintf("Players take turns of %v, %d per player in each of %d rounds.", cfg.TurnDuration, cfg.TurnsPerPlayer, cfg.TotalRounds))
	} else {
		rules = append(rules, fmt.Sprintf("All players chain words at the same time for %d round(s) of %v.", cfg.TotalRounds, cfg.TurnDuration))
	}
	return rules
}

// NewID creates a random room code from the reader.  The reader defaults to crypto/rand.Reader if nil.
func NewID(r io.Reader) (ID, error) {
	if r == nil {
		r = rand.Reader
	}
	alphabetSize := big.NewInt(int64(len(idAlphabet)))
	var sb strings.Builder
	for i := 0; i < IDLength; i++ {
		n, err := rand.Int(r, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("creating room code: %w", err)
		}
		sb.WriteByte(idAlphabet[n.Int64()])
	}
	return ID(sb.String()), nil
}

// ParseID normalizes a room code that a player typed in, returning an error if it is not a valid code.
func ParseID(s string) (ID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != IDLength {
		return "", fmt.Errorf("room code must be %d characters: %w", IDLength, ErrRoomNotFound)
	}
	for _, r := range s {
		if !strings.ContainsRune(idAlphabet, r) {
			return "", fmt.Errorf("room code can only contain letters and digits: %w", ErrRoomNotFound)
		}
	}
	return ID(s), nil
}

// String returns the room code.
func (id ID) String() string {
	return string(id)
}

// IsWarning determines if the error is caused by a player action that was not allowed.
// Warnings should only be reported to the player that caused them.
func IsWarning(err error) bool {
	var w Error
	return errors.As(err, &w)
}
