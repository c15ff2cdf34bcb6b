// Package player contains the people playing games.
package player

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/wibble/game"
)

type (
	// ID uniquely identifies a player while they are connected.
	ID string

	// Name is the display name of a player.
	Name string

	// Player is a person in a game room.
	Player struct {
		ID    ID   `json:"id"`
		Name  Name `json:"name"`
		Score int  `json:"score"`
		Gems  int  `json:"gems"`
		Ready bool `json:"ready,omitempty"`
		Host  bool `json:"host,omitempty"`
	}
)

// maxNameLength is the most characters a player name can have.
const maxNameLength = 32

// NewID creates a random player id.
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID validates that the string is a player id.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parsing player id: %w", err)
	}
	return ID(u.String()), nil
}

// NewName trims the name, returning an error if it is empty or too long.
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return "", game.ErrNameRequired
	case n > maxNameLength:
		return "", fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return Name(s), nil
}

// Reset gives the player the gems to start a game with, and clears the player's score.
func (p *Player) Reset(startingGems int) {
	p.Score = 0
	p.Gems = startingGems
}

// AddGems gives the player more gems, but never more than the max.
func (p *Player) AddGems(n, maxGems int) {
	p.Gems += n
	if p.Gems > maxGems {
		p.Gems = maxGems
	}
}

// CanAfford determines if the player has enough gems to spend.
func (p Player) CanAfford(cost int) bool {
	return p.Gems >= cost
}

// SpendGems removes gems from the player, returning an error if the player does not have enough.
func (p *Player) SpendGems(cost int) error {
	if cost < 0 {
		return errors.New("cannot spend negative gems")
	}
	if !p.CanAfford(cost) {
		return game.ErrNotEnoughGems
	}
	p.Gems -= cost
	return nil
}
