package session

import (
	"fmt"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/chain"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/tile"
)

func (s *Session) addLetter(e AddLetter) (*Outcome, error) {
	if err := s.checkActor(e.Player); err != nil {
		return nil, err
	}
	c := s.chains[e.Player]
	if !c.CanExtend(s.board, e.Position) {
		return nil, fmt.Errorf("adding %v to chain: %w", e.Position, game.ErrInvalidTileLocation)
	}
	c = append(copyChain(c), e.Position)
	s.chains[e.Player] = c
	s.state = Chaining
	o := Outcome{
		Chain: copyChain(c),
	}
	return &o, nil
}

func (s *Session) removeLetter(e RemoveLetter) (*Outcome, error) {
	if err := s.checkActor(e.Player); err != nil {
		return nil, err
	}
	c := s.chains[e.Player]
	if len(c) == 0 {
		return nil, game.ErrEmptyChain
	}
	c = copyChain(c[:len(c)-1])
	if len(c) == 0 {
		delete(s.chains, e.Player)
	} else {
		s.chains[e.Player] = c
	}
	s.state = s.restingState()
	o := Outcome{
		Chain: copyChain(c),
	}
	return &o, nil
}

// stopChaining scores the chain of the player if it is a valid word.
// The chain is cleared either way.  Tiles of scored words are replaced by new letters.
func (s *Session) stopChaining(e StopChaining) (*Outcome, error) {
	if err := s.checkActor(e.Player); err != nil {
		return nil, err
	}
	c := s.chains[e.Player]
	w, err := c.Validate(s.board, s.Dictionary)
	delete(s.chains, e.Player)
	if err != nil {
		s.state = s.restingState()
		s.notice = err.Error()
		o := Outcome{
			Rejection: err,
		}
		return &o, nil
	}
	s.state = Cleanup
	points, gems := c.Score(s.board), c.Gems(s.board)
	if err := s.board.Redraw(s.Source, c...); err != nil {
		return nil, fmt.Errorf("replacing tiles of validated word: %w", err)
	}
	p := s.player(e.Player)
	p.Score += points
	p.AddGems(gems, s.Rules.MaxGems)
	s.recordRoundScore(points)
	s.state = s.restingState()
	o := Outcome{
		Submission: &Submission{
			Player: e.Player,
			Word:   w,
			Points: points,
			Gems:   gems,
		},
		BoardChanged:  true,
		RosterChanged: true,
	}
	return &o, nil
}

func (s *Session) useShuffle(e UseShuffle) (*Outcome, error) {
	if err := s.checkActor(e.Player); err != nil {
		return nil, err
	}
	p := s.player(e.Player)
	if err := p.SpendGems(s.Rules.ShuffleCost); err != nil {
		return nil, fmt.Errorf("shuffling board: %w", err)
	}
	s.board.Shuffle(s.Source)
	o := Outcome{
		Chain:         s.Chain(e.Player),
		BoardChanged:  true,
		RosterChanged: true,
		PowerUpUsed:   true,
	}
	return &o, nil
}

func (s *Session) useReplaceTile(e UseReplaceTile) (*Outcome, error) {
	if err := s.checkActor(e.Player); err != nil {
		return nil, err
	}
	if !e.Position.Valid() {
		return nil, fmt.Errorf("replacing tile at %v: %w", e.Position, game.ErrInvalidTileLocation)
	}
	ch, err := tile.NewLetter(e.Letter)
	if err != nil {
		return nil, fmt.Errorf("replacing tile with %q: %w", e.Letter, game.ErrInvalidLetter)
	}
	p := s.player(e.Player)
	if !p.CanAfford(s.Rules.ReplaceTileCost) {
		return nil, fmt.Errorf("replacing tile: %w", game.ErrNotEnoughGems)
	}
	if err := s.board.Replace(e.Position, ch); err != nil {
		return nil, err
	}
	if err := p.SpendGems(s.Rules.ReplaceTileCost); err != nil {
		return nil, err
	}
	o := Outcome{
		Chain:         s.Chain(e.Player),
		BoardChanged:  true,
		RosterChanged: true,
		PowerUpUsed:   true,
	}
	return &o, nil
}

// timerTick counts down the turn, ending it when no time is left.
func (s *Session) timerTick() (*Outcome, error) {
	if err := s.checkPhase(game.Play); err != nil {
		return nil, err
	}
	if s.state == RoundEnding {
		return new(Outcome), nil
	}
	if s.timeLeft > 0 {
		s.timeLeft--
	}
	if s.timeLeft == 0 {
		return s.endTurn()
	}
	return new(Outcome), nil
}

// endTurn clears the chains of the turn and starts the next turn, or ends the round if all turns are taken.
func (s *Session) endTurn() (*Outcome, error) {
	if err := s.checkPhase(game.Play); err != nil {
		return nil, err
	}
	if s.state == RoundEnding {
		return nil, fmt.Errorf("ending turn when round is over: %w", game.ErrNotAllowed)
	}
	s.state = TurnEnding
	var o Outcome
	if s.Rules.TurnBased {
		if p, ok := s.CurrentPlayer(); ok {
			delete(s.chains, p.ID)
			s.turnsTaken[p.ID]++
		}
		if s.nextTurn((s.currentPlayer + 1) % len(s.players)) {
			s.timeLeft = s.turnSeconds()
			s.state = s.restingState()
			o.TurnStarted = true
			return &o, nil
		}
	}
	s.endRound(&o)
	return &o, nil
}

// endRound clears the chains of the round and waits for the next round to start.
func (s *Session) endRound(o *Outcome) {
	s.chains = make(map[player.ID]chain.Chain)
	s.timeLeft = 0
	s.state = RoundEnding
	o.RoundEnded = true
}

// nextTurn gives the turn to the first player, starting at the index, that has turns left in the round.
// False is returned when every player has taken all of their turns.
func (s *Session) nextTurn(from int) bool {
	n := len(s.players)
	for j := 0; j < n; j++ {
		k := (from + j) % n
		if s.turnsTaken[s.players[k].ID] < s.Rules.TurnsPerPlayer {
			s.currentPlayer = k
			return true
		}
	}
	return false
}

// startNextRound deals a new board for the next round, or ends the game after the last round.
func (s *Session) startNextRound() (*Outcome, error) {
	if err := s.checkPhase(game.Play); err != nil {
		return nil, err
	}
	if s.state != RoundEnding {
		return nil, fmt.Errorf("starting next round before round is over: %w", game.ErrNotAllowed)
	}
	if s.round >= s.Rules.TotalRounds {
		return s.endGame()
	}
	s.round++
	s.startRound()
	o := Outcome{
		BoardChanged: true,
		RoundStarted: true,
		TurnStarted:  s.Rules.TurnBased,
	}
	return &o, nil
}

// endGame finishes the game and picks the winner.
func (s *Session) endGame() (*Outcome, error) {
	if err := s.checkPhase(game.Play); err != nil {
		return nil, err
	}
	s.chains = make(map[player.ID]chain.Chain)
	s.timeLeft = 0
	s.state = 0
	s.phase = game.GameOver
	s.winner = s.computeWinner()
	o := Outcome{
		GameOver: true,
	}
	return &o, nil
}

// startRound deals a new board and gives the first player a full turn.
func (s *Session) startRound() {
	s.board = board.New(s.Source)
	s.chains = make(map[player.ID]chain.Chain)
	s.turnsTaken = make(map[player.ID]int)
	s.currentPlayer = 0
	s.timeLeft = s.turnSeconds()
	s.state = Idle
}

// recordRoundScore adds the points to the score of the current round.
func (s *Session) recordRoundScore(points int) {
	for len(s.roundScores) < s.round {
		s.roundScores = append(s.roundScores, 0)
	}
	s.roundScores[s.round-1] += points
}

// checkActor returns an error if the player cannot change the board now.
func (s *Session) checkActor(id player.ID) error {
	switch {
	case s.phase != game.Play, s.state == RoundEnding:
		return game.ErrNotPlaying
	case s.player(id) == nil:
		return fmt.Errorf("player not in game: %w", game.ErrNotAllowed)
	}
	if p, ok := s.CurrentPlayer(); ok && p.ID != id {
		return game.ErrNotYourTurn
	}
	return nil
}
