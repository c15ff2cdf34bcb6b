package session

import (
	"fmt"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/chain"
	"github.com/jacobpatterson1549/wibble/game/player"
)

type (
	// Event is something that changes a session.
	Event interface {
		event()
	}

	// HostGame opens a room for players to join.  The player hosts the room.
	HostGame struct {
		ID     game.ID
		Name   string
		Player player.Player
	}
	// JoinGame is sent when the player asks to join a room.
	JoinGame struct {
		ID     game.ID
		Player player.Player
	}
	// JoinConfirmed is sent when the room accepts a player that asked to join it.
	JoinConfirmed struct {
		Info Info
	}
	// JoinFailed is sent when the room rejects a player that asked to join it.
	JoinFailed struct {
		Reason error
	}
	// StartSolo shows the title board to the player before a single player game.
	StartSolo struct {
		Player player.Player
	}
	// AddPlayer adds a player to a room that has not started its game.
	AddPlayer struct {
		Player player.Player
	}
	// Leave removes a player from the session.
	Leave struct {
		Player player.ID
	}
	// ToggleReady changes whether or not the player is ready to start the game.
	ToggleReady struct {
		Player player.ID
	}
	// Start starts the game.
	Start struct {
		Player player.ID
	}
	// GameStarted is sent to joined players when the host starts the game.
	GameStarted struct {
		Info Info
	}
	// Sync replaces the view of a joined player with the state the host shared.
	// Timed is set when the snapshot carries the time left in the turn, which partial snapshots leave out.
	Sync struct {
		Info  Info
		Timed bool
	}
	// AddLetter adds the tile at the position to the chain of the player.
	AddLetter struct {
		Player   player.ID
		Position board.Position
	}
	// RemoveLetter removes the last tile from the chain of the player.
	RemoveLetter struct {
		Player player.ID
	}
	// StopChaining submits the chain of the player as a word.
	StopChaining struct {
		Player player.ID
	}
	// UseShuffle spends gems to rearrange all tiles on the board.
	UseShuffle struct {
		Player player.ID
	}
	// UseReplaceTile spends gems to change the letter of a tile.
	UseReplaceTile struct {
		Player   player.ID
		Position board.Position
		Letter   rune
	}
	// TimerTick is sent each second of a turn.
	TimerTick struct{}
	// EndTurn ends the current turn.
	EndTurn struct{}
	// StartNextRound starts the next round or ends the game when the last round is over.
	StartNextRound struct{}
	// EndGame ends the game, regardless of the round.
	EndGame struct{}

	// Outcome describes what changed after handling an event.
	Outcome struct {
		// Chain is the chain of the player that sent the event, after it was handled.
		Chain chain.Chain
		// Submission is set when a word was scored.
		Submission *Submission
		// Rejection is the reason a submitted chain was not scored.
		Rejection     error
		BoardChanged  bool
		RosterChanged bool
		GameStarted   bool
		TurnStarted   bool
		RoundEnded    bool
		RoundStarted  bool
		GameOver      bool
		PowerUpUsed   bool
		PlayerRemoved bool
	}

	// Submission is a word that was scored.
	Submission struct {
		Player player.ID `json:"player"`
		Word   string    `json:"word"`
		Points int       `json:"points"`
		Gems   int       `json:"gems"`
	}
)

func (HostGame) event()       {}
func (JoinGame) event()       {}
func (JoinConfirmed) event()  {}
func (JoinFailed) event()     {}
func (StartSolo) event()      {}
func (AddPlayer) event()      {}
func (Leave) event()          {}
func (ToggleReady) event()    {}
func (Start) event()          {}
func (GameStarted) event()    {}
func (Sync) event()           {}
func (AddLetter) event()      {}
func (RemoveLetter) event()   {}
func (StopChaining) event()   {}
func (UseShuffle) event()     {}
func (UseReplaceTile) event() {}
func (TimerTick) event()      {}
func (EndTurn) event()        {}
func (StartNextRound) event() {}
func (EndGame) event()        {}

// Handle changes the session for the event.
// Guards are checked before the game is changed.  When an error is returned, only the notice of the session is changed.
func (s *Session) Handle(e Event) (*Outcome, error) {
	var o *Outcome
	var err error
	switch e := e.(type) {
	case HostGame:
		o, err = s.hostGame(e)
	case JoinGame:
		o, err = s.joinGame(e)
	case JoinConfirmed:
		o, err = s.joinConfirmed(e)
	case JoinFailed:
		o, err = s.joinFailed(e)
	case StartSolo:
		o, err = s.startSolo(e)
	case AddPlayer:
		o, err = s.addPlayer(e)
	case Leave:
		o, err = s.leave(e)
	case ToggleReady:
		o, err = s.toggleReady(e)
	case Start:
		o, err = s.start(e)
	case GameStarted:
		o, err = s.gameStarted(e)
	case Sync:
		o, err = s.sync(e)
	case AddLetter:
		o, err = s.addLetter(e)
	case RemoveLetter:
		o, err = s.removeLetter(e)
	case StopChaining:
		o, err = s.stopChaining(e)
	case UseShuffle:
		o, err = s.useShuffle(e)
	case UseReplaceTile:
		o, err = s.useReplaceTile(e)
	case TimerTick:
		o, err = s.timerTick()
	case EndTurn:
		o, err = s.endTurn()
	case StartNextRound:
		o, err = s.startNextRound()
	case EndGame:
		o, err = s.endGame()
	default:
		return nil, fmt.Errorf("unknown event: %T", e)
	}
	if err != nil {
		s.notice = err.Error()
		return nil, err
	}
	if o.Rejection == nil {
		s.notice = ""
	}
	return o, nil
}
