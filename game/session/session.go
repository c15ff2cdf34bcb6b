// Package session contains the state machine of a game, from the menu to the lobby to rounds and turns of play.
// The same machine runs solo games, the authoritative copy of multiplayer rooms, and the view of a room that joined players keep.
package session

import (
	"fmt"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/chain"
	"github.com/jacobpatterson1549/wibble/game/player"
)

type (
	// Session is the state of a game.  It is not safe to use from multiple goroutines.
	Session struct {
		Config
		id            game.ID
		name          string
		phase         game.Phase
		state         PlayState
		board         board.Board
		players       []player.Player
		chains        map[player.ID]chain.Chain
		self          player.ID
		round         int
		turnsTaken    map[player.ID]int
		currentPlayer int
		timeLeft      int
		roundScores   []int
		winner        *player.Player
		notice        string
	}

	// Config contains the settings to create sessions.
	Config struct {
		// Rules are the rules of the game.
		Rules game.Config
		// Dictionary is used to check submitted words.
		Dictionary chain.Dictionary
		// Source creates random boards and letters.
		Source board.Source
	}

	// PlayState is the state of a session that is being played.
	PlayState int

	// Info is a snapshot of a session that is shared with players.
	Info struct {
		ID            game.ID         `json:"id,omitempty"`
		Name          string          `json:"name,omitempty"`
		Phase         game.Phase      `json:"phase,omitempty"`
		State         PlayState       `json:"state,omitempty"`
		Board         *board.Board    `json:"board,omitempty"`
		Players       []player.Player `json:"players,omitempty"`
		Round         int             `json:"round,omitempty"`
		CurrentPlayer player.ID       `json:"currentPlayer,omitempty"`
		TimeLeft      int             `json:"timeLeft,omitempty"`
		RoundScores   []int           `json:"roundScores,omitempty"`
		Winner        *player.Player  `json:"winner,omitempty"`
		// Duration is the length of the game in seconds.
		Duration int `json:"duration,omitempty"`
		// StartTime is when the game was started, in seconds since the unix epoch.
		StartTime int64        `json:"startTime,omitempty"`
		Rules     *game.Config `json:"rules,omitempty"`
	}
)

const (
	_ PlayState = iota
	// Idle is the state of a game that has no letters chained.
	Idle
	// Chaining is the state of a game when letters are being chained into a word.
	Chaining
	// Cleanup is the state of a game while a submitted word is scored and its tiles are replaced.
	Cleanup
	// TurnEnding is the state of a game while the chains of a finished turn are cleared.
	TurnEnding
	// RoundEnding is the state of a game that is waiting for the next round to start.
	RoundEnding
)

// New creates a session at the main menu.
func (cfg Config) New() (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating session: validation: %w", err)
	}
	s := Session{
		Config:     cfg,
		phase:      game.MainMenu,
		board:      board.Title(),
		chains:     make(map[player.ID]chain.Chain),
		turnsTaken: make(map[player.ID]int),
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Dictionary == nil:
		return fmt.Errorf("dictionary required")
	case cfg.Source == nil:
		return fmt.Errorf("random source required")
	}
	if err := cfg.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// ID is the code of the room of the session.
func (s *Session) ID() game.ID {
	return s.id
}

// Phase is the stage of the session.
func (s *Session) Phase() game.Phase {
	return s.phase
}

// State is the state of the session while it is being played.  It is zero for other phases.
func (s *Session) State() PlayState {
	if s.phase != game.Play {
		return 0
	}
	return s.state
}

// Board is the board of the session.
func (s *Session) Board() board.Board {
	return s.board
}

// Players creates a copy of the roster of the session, in turn order.
func (s *Session) Players() []player.Player {
	players := make([]player.Player, len(s.players))
	copy(players, s.players)
	return players
}

// Player gets a copy of the player in the session with the id.
func (s *Session) Player(id player.ID) (player.Player, bool) {
	if p := s.player(id); p != nil {
		return *p, true
	}
	return player.Player{}, false
}

// Chain creates a copy of the chain the player is spelling.
func (s *Session) Chain(id player.ID) chain.Chain {
	return copyChain(s.chains[id])
}

// CurrentPlayer is the player whose turn it is.  All players can play when the game is not turn based.
func (s *Session) CurrentPlayer() (player.Player, bool) {
	if !s.Rules.TurnBased || s.currentPlayer >= len(s.players) {
		return player.Player{}, false
	}
	return s.players[s.currentPlayer], true
}

// Round is the number of the round being played, starting at 1.
func (s *Session) Round() int {
	return s.round
}

// TimeLeft is the number of seconds left in the turn.
func (s *Session) TimeLeft() int {
	return s.timeLeft
}

// RoundScores are the points scored in each round that had a word submitted.
func (s *Session) RoundScores() []int {
	roundScores := make([]int, len(s.roundScores))
	copy(roundScores, s.roundScores)
	return roundScores
}

// Winner is the player with the highest score when the game is over.
func (s *Session) Winner() *player.Player {
	if s.winner == nil {
		return nil
	}
	w := *s.winner
	return &w
}

// Notice is the reason the last action was rejected.  It is cleared by the next successful action.
func (s *Session) Notice() string {
	return s.notice
}

// Duration is how long the game lasts with the current players.
func (s *Session) Duration() time.Duration {
	return s.Rules.Duration(len(s.players))
}

// Info creates a snapshot of the session.
func (s *Session) Info() Info {
	b := s.board
	rules := s.Rules
	i := Info{
		ID:          s.id,
		Name:        s.name,
		Phase:       s.phase,
		State:       s.State(),
		Board:       &b,
		Players:     s.Players(),
		Round:       s.round,
		TimeLeft:    s.timeLeft,
		RoundScores: s.RoundScores(),
		Winner:      s.Winner(),
		Duration:    int(s.Duration() / time.Second),
		Rules:       &rules,
	}
	if p, ok := s.CurrentPlayer(); ok {
		i.CurrentPlayer = p.ID
	}
	return i
}

// RoomInfo summarizes the session for players looking for a room.
func (s *Session) RoomInfo() game.RoomInfo {
	i := game.RoomInfo{
		ID:          s.id,
		Name:        s.name,
		Phase:       s.phase,
		PlayerCount: len(s.players),
		MaxPlayers:  s.Rules.MaxPlayers,
	}
	return i
}

// String returns the display value for the state.
func (ps PlayState) String() string {
	switch ps {
	case Idle:
		return "Idle"
	case Chaining:
		return "Chaining"
	case Cleanup:
		return "Cleanup"
	case TurnEnding:
		return "Turn Ending"
	case RoundEnding:
		return "Round Ending"
	}
	return "?"
}

// player gets a reference to the player with the id.
func (s *Session) player(id player.ID) *player.Player {
	for i := range s.players {
		if s.players[i].ID == id {
			return &s.players[i]
		}
	}
	return nil
}

// playerIndex gets the turn order of the player, or -1 if the player is not in the session.
func (s *Session) playerIndex(id player.ID) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// turnSeconds is the length of a turn in seconds.
func (s *Session) turnSeconds() int {
	return int(s.Rules.TurnDuration / time.Second)
}

// restingState is the state of the game when no action is being performed.
func (s *Session) restingState() PlayState {
	for _, c := range s.chains {
		if len(c) != 0 {
			return Chaining
		}
	}
	return Idle
}

// computeWinner finds the player with the highest score, favoring players who joined earlier in a tie.
func (s *Session) computeWinner() *player.Player {
	var w *player.Player
	for i := range s.players {
		if w == nil || s.players[i].Score > w.Score {
			p := s.players[i]
			w = &p
		}
	}
	return w
}

func copyChain(c chain.Chain) chain.Chain {
	if len(c) == 0 {
		return nil
	}
	c2 := make(chain.Chain, len(c))
	copy(c2, c)
	return c2
}
