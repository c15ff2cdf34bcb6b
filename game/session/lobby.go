package session

import (
	"fmt"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/chain"
	"github.com/jacobpatterson1549/wibble/game/player"
)

func (s *Session) hostGame(e HostGame) (*Outcome, error) {
	if err := s.checkPhase(game.MainMenu); err != nil {
		return nil, err
	}
	h := e.Player
	h.Host = true
	h.Ready = false
	s.id = e.ID
	s.name = e.Name
	s.players = []player.Player{h}
	s.phase = game.HostLobby
	o := Outcome{
		RosterChanged: true,
	}
	return &o, nil
}

func (s *Session) joinGame(e JoinGame) (*Outcome, error) {
	if err := s.checkPhase(game.MainMenu); err != nil {
		return nil, err
	}
	s.id = e.ID
	s.self = e.Player.ID
	s.phase = game.JoinLobby
	return new(Outcome), nil
}

func (s *Session) joinConfirmed(e JoinConfirmed) (*Outcome, error) {
	if err := s.checkPhase(game.JoinLobby); err != nil {
		return nil, err
	}
	s.apply(e.Info, true)
	s.phase = game.WaitingRoom
	o := Outcome{
		RosterChanged: true,
	}
	return &o, nil
}

func (s *Session) joinFailed(e JoinFailed) (*Outcome, error) {
	if err := s.checkPhase(game.JoinLobby); err != nil {
		return nil, err
	}
	s.reset()
	o := Outcome{
		Rejection: e.Reason,
	}
	if e.Reason != nil {
		s.notice = e.Reason.Error()
	}
	return &o, nil
}

func (s *Session) startSolo(e StartSolo) (*Outcome, error) {
	if err := s.checkPhase(game.MainMenu); err != nil {
		return nil, err
	}
	s.self = e.Player.ID
	s.players = []player.Player{e.Player}
	s.board = board.Title()
	s.phase = game.Title
	return new(Outcome), nil
}

func (s *Session) addPlayer(e AddPlayer) (*Outcome, error) {
	switch {
	case s.phase == game.Play, s.phase == game.GameOver:
		return nil, game.ErrGameInProgress
	case s.phase != game.HostLobby:
		return nil, fmt.Errorf("adding player during %v: %w", s.phase, game.ErrNotAllowed)
	case s.player(e.Player.ID) != nil:
		return new(Outcome), nil
	case len(s.players) >= s.Rules.MaxPlayers:
		return nil, game.ErrRoomFull
	}
	p := e.Player
	p.Host = false
	p.Ready = false
	s.players = append(s.players, p)
	o := Outcome{
		RosterChanged: true,
	}
	return &o, nil
}

// leave removes the player from the room, discarding their chain.
// Players leaving a room that they joined return to the main menu.
func (s *Session) leave(e Leave) (*Outcome, error) {
	if len(s.self) != 0 && e.Player == s.self {
		s.reset()
		o := Outcome{
			PlayerRemoved: true,
		}
		return &o, nil
	}
	i := s.playerIndex(e.Player)
	if i < 0 {
		return nil, fmt.Errorf("removing player not in room: %w", game.ErrNotAllowed)
	}
	wasHost := s.players[i].Host
	s.players = append(s.players[:i], s.players[i+1:]...)
	delete(s.chains, e.Player)
	delete(s.turnsTaken, e.Player)
	o := Outcome{
		PlayerRemoved: true,
		RosterChanged: true,
	}
	switch {
	case len(s.players) == 0:
		s.reset()
		return &o, nil
	case wasHost:
		s.players[0].Host = true
	}
	if s.phase != game.Play || s.state == RoundEnding {
		return &o, nil
	}
	if s.Rules.TurnBased {
		switch {
		case i < s.currentPlayer:
			s.currentPlayer--
		case i == s.currentPlayer:
			// the turn of the player that left is over
			if !s.nextTurn(i % len(s.players)) {
				s.endRound(&o)
				return &o, nil
			}
			s.timeLeft = s.turnSeconds()
			o.TurnStarted = true
		}
	}
	s.state = s.restingState()
	return &o, nil
}

func (s *Session) toggleReady(e ToggleReady) (*Outcome, error) {
	if err := s.checkPhase(game.HostLobby); err != nil {
		return nil, err
	}
	p := s.player(e.Player)
	if p == nil {
		return nil, fmt.Errorf("toggling ready of player not in room: %w", game.ErrNotAllowed)
	}
	p.Ready = !p.Ready
	o := Outcome{
		RosterChanged: true,
	}
	return &o, nil
}

// start begins a game from the title board or from a lobby where enough players are ready.
func (s *Session) start(e Start) (*Outcome, error) {
	switch s.phase {
	case game.Title:
	case game.HostLobby:
		p := s.player(e.Player)
		switch {
		case p == nil, !p.Host:
			return nil, game.ErrNotHost
		case !s.allReady():
			return nil, game.ErrNotAllReady
		}
	case game.Play, game.GameOver:
		return nil, game.ErrGameInProgress
	default:
		return nil, fmt.Errorf("starting game during %v: %w", s.phase, game.ErrNotAllowed)
	}
	for i := range s.players {
		s.players[i].Reset(s.Rules.StartingGems)
		s.players[i].Ready = false
	}
	s.phase = game.Play
	s.round = 1
	s.roundScores = nil
	s.winner = nil
	s.startRound()
	o := Outcome{
		GameStarted:   true,
		BoardChanged:  true,
		RosterChanged: true,
		RoundStarted:  true,
		TurnStarted:   s.Rules.TurnBased,
	}
	return &o, nil
}

func (s *Session) gameStarted(e GameStarted) (*Outcome, error) {
	if err := s.checkPhase(game.WaitingRoom); err != nil {
		return nil, err
	}
	s.apply(e.Info, true)
	s.phase = game.Play
	s.state = Idle
	o := Outcome{
		GameStarted:  true,
		BoardChanged: true,
	}
	return &o, nil
}

// sync updates the view of a joined player.
func (s *Session) sync(e Sync) (*Outcome, error) {
	switch s.phase {
	case game.WaitingRoom, game.Play:
	default:
		return nil, fmt.Errorf("syncing during %v: %w", s.phase, game.ErrNotAllowed)
	}
	s.apply(e.Info, e.Timed)
	o := Outcome{
		BoardChanged:  e.Info.Board != nil,
		RosterChanged: e.Info.Players != nil,
	}
	switch e.Info.Phase {
	case game.Play:
		s.phase = game.Play
		if e.Info.State != 0 {
			s.state = e.Info.State
		}
	case game.GameOver:
		s.phase = game.GameOver
		s.winner = e.Info.Winner
		o.GameOver = true
	}
	return &o, nil
}

// apply copies the parts of the snapshot that are set.
// The time left is only copied from timed snapshots because zero is a valid time.
func (s *Session) apply(i Info, timed bool) {
	if len(i.ID) != 0 {
		s.id = i.ID
	}
	if len(i.Name) != 0 {
		s.name = i.Name
	}
	if i.Board != nil {
		s.board = *i.Board
	}
	if i.Players != nil {
		s.players = make([]player.Player, len(i.Players))
		copy(s.players, i.Players)
	}
	if i.Round != 0 {
		s.round = i.Round
	}
	if i.Rules != nil {
		s.Rules = *i.Rules
	}
	if i.RoundScores != nil {
		s.roundScores = make([]int, len(i.RoundScores))
		copy(s.roundScores, i.RoundScores)
	}
	if timed {
		s.timeLeft = i.TimeLeft
	}
	if j := s.playerIndex(i.CurrentPlayer); j >= 0 {
		s.currentPlayer = j
	}
}

// reset returns the session to the main menu.
func (s *Session) reset() {
	s.id = ""
	s.name = ""
	s.phase = game.MainMenu
	s.state = 0
	s.board = board.Title()
	s.players = nil
	s.chains = make(map[player.ID]chain.Chain)
	s.self = ""
	s.round = 0
	s.turnsTaken = make(map[player.ID]int)
	s.currentPlayer = 0
	s.timeLeft = 0
	s.roundScores = nil
	s.winner = nil
}

// allReady determines if there are enough players to start the game and all of them are ready.
func (s *Session) allReady() bool {
	if len(s.players) < s.Rules.MinPlayers {
		return false
	}
	for _, p := range s.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// checkPhase returns an error if the session is not in the phase.
func (s *Session) checkPhase(want game.Phase) error {
	if s.phase != want {
		return fmt.Errorf("action requires %v phase, but is %v: %w", want, s.phase, game.ErrNotAllowed)
	}
	return nil
}
