package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/game/word"
)

func TestSoloEvent(t *testing.T) {
	p := board.Position{Col: 1, Row: 2}
	soloEventTests := []struct {
		m      message.Message
		wantOk bool
		want   session.Event
	}{
		{
			m: message.Message{Type: message.ToggleReady},
		},
		{
			m: message.Message{Type: message.JoinRoom},
		},
		{
			m:      message.Message{Type: message.StartGame},
			wantOk: true,
			want:   session.Start{Player: soloPlayerID},
		},
		{
			m:      message.Message{Type: message.AddLetter, Position: &p},
			wantOk: true,
			want:   session.AddLetter{Player: soloPlayerID, Position: p},
		},
		{
			m:      message.Message{Type: message.RemoveLetter},
			wantOk: true,
			want:   session.RemoveLetter{Player: soloPlayerID},
		},
		{
			m:      message.Message{Type: message.SubmitWord},
			wantOk: true,
			want:   session.StopChaining{Player: soloPlayerID},
		},
		{
			m:      message.Message{Type: message.UseShuffle},
			wantOk: true,
			want:   session.UseShuffle{Player: soloPlayerID},
		},
		{
			m:      message.Message{Type: message.UseReplaceTile, Position: &p, Letter: "q"},
			wantOk: true,
			want:   session.UseReplaceTile{Player: soloPlayerID, Position: p, Letter: 'q'},
		},
	}
	for i, test := range soloEventTests {
		got, err := soloEvent(test.m, soloPlayerID)
		switch {
		case !test.wantOk:
			if !errors.Is(err, game.ErrNotAllowed) {
				t.Errorf("Test %v: wanted not allowed error, got %v", i, err)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case test.want != got:
			t.Errorf("Test %v:\nwanted: %#v\ngot:    %#v", i, test.want, got)
		}
	}
}

func testSoloGame(t *testing.T, sb *strings.Builder) *soloGame {
	t.Helper()
	d, err := word.NewDictionary(strings.NewReader("apple\nwibble\n"))
	if err != nil {
		t.Fatalf("creating dictionary: %v", err)
	}
	rules := game.DefaultConfig()
	rules.TotalRounds = 2
	rules.TurnDuration = 2 * time.Second
	cfg := session.Config{
		Rules:      rules,
		Dictionary: d,
		Source:     rand.New(rand.NewSource(1)),
	}
	g, err := newSoloGame(cfg, "ada", sb)
	if err != nil {
		t.Fatalf("creating solo game: %v", err)
	}
	return g
}

func TestNewSoloGame(t *testing.T) {
	var sb strings.Builder
	g := testSoloGame(t, &sb)
	switch {
	case g.session.Phase() != game.Title:
		t.Errorf("wanted title board, got %v", g.session.Phase())
	case !strings.Contains(sb.String(), "W  I  B  L  E"), !strings.Contains(sb.String(), "ada"):
		t.Errorf("wanted title board and player to be written, got:\n%v", sb.String())
	}
}

func TestSoloGame(t *testing.T) {
	var sb strings.Builder
	g := testSoloGame(t, &sb)
	g.tick()
	if g.session.Phase() != game.Title {
		t.Fatalf("wanted ticks to not change title board")
	}
	if g.handleLine("ready") || !strings.Contains(sb.String(), "not a command of solo games") {
		t.Errorf("wanted ready command to be rejected, got:\n%v", sb.String())
	}
	g.handleLine("start")
	if g.session.Phase() != game.Play || g.session.Round() != 1 {
		t.Fatalf("wanted first round to be played after start, got %v, round %v", g.session.Phase(), g.session.Round())
	}
	sb.Reset()
	g.handleLine(unfrozenAddCommand(g.session.Board()))
	if !strings.HasPrefix(sb.String(), "chain: ") {
		t.Errorf("wanted chain to be written after adding a letter, got %q", sb.String())
	}
	sb.Reset()
	g.handleLine("add 9 9")
	if !strings.HasPrefix(sb.String(), "! ") {
		t.Errorf("wanted error adding tile off the board, got %q", sb.String())
	}
	g.tick()
	g.tick()
	switch {
	case !strings.Contains(sb.String(), message.RoundEnded.String()):
		t.Errorf("wanted round to end when time runs out, got:\n%v", sb.String())
	case g.session.Round() != 2, g.session.Phase() != game.Play:
		t.Errorf("wanted second round to start after the first, got %v, round %v", g.session.Phase(), g.session.Round())
	}
	g.tick()
	g.tick()
	switch {
	case g.session.Phase() != game.GameOver:
		t.Errorf("wanted game to end after the last round, got %v", g.session.Phase())
	case !strings.Contains(sb.String(), message.GameEnded.String()), !strings.Contains(sb.String(), "type leave to quit"):
		t.Errorf("wanted end of game to be written, got:\n%v", sb.String())
	}
	if !g.handleLine("leave") {
		t.Errorf("wanted leave to end the solo game")
	}
}

// unfrozenAddCommand adds the first tile of the board that can be chained.
func unfrozenAddCommand(b board.Board) string {
	for r, row := range b {
		for c, t := range row {
			if !t.Frozen {
				return fmt.Sprintf("add %v %v", c, r)
			}
		}
	}
	return ""
}
