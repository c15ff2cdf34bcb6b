package main

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/server/log"
)

// soloGame is a game played alone in the terminal.  The session runs in this process without a server.
type soloGame struct {
	session *session.Session
	self    player.Player
	out     io.Writer
}

// soloPlayerID identifies the player of solo games, who never talks to a server.
const soloPlayerID player.ID = "solo"

// runSolo plays a solo game with the commands typed on standard input until the player leaves or the context is done.
func (f guestFlags) runSolo(ctx context.Context, in io.Reader, out io.Writer, log log.Logger) error {
	rules, err := f.rules()
	if err != nil {
		return err
	}
	cfg, err := f.sessionConfig(rules, log)
	if err != nil {
		return err
	}
	g, err := newSoloGame(*cfg, player.Name(f.name), out)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, commandHelp)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	lines := readLines(ctx, in)
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			g.tick()
		case line, ok := <-lines:
			if !ok || g.handleLine(line) {
				return nil
			}
		}
	}
}

// newSoloGame shows the title board to the player.
func newSoloGame(cfg session.Config, name player.Name, out io.Writer) (*soloGame, error) {
	s, err := cfg.New()
	if err != nil {
		return nil, err
	}
	self := player.Player{
		ID:   soloPlayerID,
		Name: name,
	}
	if _, err := s.Handle(session.StartSolo{Player: self}); err != nil {
		return nil, fmt.Errorf("starting solo game: %w", err)
	}
	g := soloGame{
		session: s,
		self:    self,
		out:     out,
	}
	writeInfo(out, s.Info())
	return &g, nil
}

// handleLine runs the command on the line.  True is returned when the player leaves.
func (g *soloGame) handleLine(line string) bool {
	m, err := parseCommand(line)
	switch {
	case err != nil:
		fmt.Fprintln(g.out, err)
		return false
	case m == nil:
		writeInfo(g.out, g.session.Info())
		return false
	case m.Type == message.LeaveRoom:
		fmt.Fprintln(g.out, describe(*m))
		return true
	}
	e, err := soloEvent(*m, g.self.ID)
	if err != nil {
		fmt.Fprintln(g.out, err)
		return false
	}
	g.handle(e)
	return false
}

// tick counts down the turn of a game that is being played.
func (g *soloGame) tick() {
	if g.session.Phase() != game.Play {
		return
	}
	g.handle(session.TimerTick{})
	if t := g.session.TimeLeft(); t == 10 {
		fmt.Fprintf(g.out, "%v seconds left\n", t)
	}
}

// handle changes the session with the event and writes what changed.
// A round that ends is followed by the next round, or the end of the game.
func (g *soloGame) handle(e session.Event) {
	o, err := g.session.Handle(e)
	if err != nil {
		fmt.Fprintln(g.out, "! "+err.Error())
		return
	}
	switch {
	case o.Submission != nil:
		s := o.Submission
		fmt.Fprintf(g.out, "%v scored %v for %v point(s) and %v gem(s)\n", g.self.Name, s.Word, s.Points, s.Gems)
	case o.Rejection != nil:
		fmt.Fprintln(g.out, "! "+o.Rejection.Error())
	case len(o.Chain) != 0:
		fmt.Fprintf(g.out, "chain: %v\n", o.Chain)
	}
	switch {
	case o.GameOver:
		fmt.Fprintln(g.out, message.GameEnded)
		writeInfo(g.out, g.session.Info())
		if w := g.session.Winner(); w != nil {
			fmt.Fprintf(g.out, "final score: %v, type leave to quit\n", w.Score)
		}
	case o.RoundEnded:
		fmt.Fprintln(g.out, message.RoundEnded)
		g.handle(session.StartNextRound{})
	case o.GameStarted, o.RoundStarted, o.BoardChanged:
		writeInfo(g.out, g.session.Info())
	}
}

// soloEvent creates the event for the command of the player of a solo game.
func soloEvent(m message.Message, pID player.ID) (session.Event, error) {
	switch m.Type {
	case message.StartGame:
		return session.Start{Player: pID}, nil
	case message.AddLetter:
		return session.AddLetter{Player: pID, Position: *m.Position}, nil
	case message.RemoveLetter:
		return session.RemoveLetter{Player: pID}, nil
	case message.SubmitWord:
		return session.StopChaining{Player: pID}, nil
	case message.UseShuffle:
		return session.UseShuffle{Player: pID}, nil
	case message.UseReplaceTile:
		r, _ := utf8.DecodeRuneInString(m.Letter)
		e := session.UseReplaceTile{
			Player:   pID,
			Position: *m.Position,
			Letter:   r,
		}
		return e, nil
	}
	return nil, fmt.Errorf("%v is not a command of solo games: %w", m.Type, game.ErrNotAllowed)
}
