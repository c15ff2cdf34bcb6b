package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/server/log/logtest"
)

type mockDictionary func(word string) bool

func (m mockDictionary) Valid(word string) bool {
	return m(word)
}

type mockPointsDao struct {
	UpdatePointsIncrementFunc func(ctx context.Context, playerPoints map[string]int) error
}

func (m mockPointsDao) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	return m.UpdatePointsIncrementFunc(ctx, playerPoints)
}

// mockClock is a TimeFunc that can be moved forward.
type mockClock struct {
	mu  sync.Mutex
	now int64
}

func (c *mockClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Add(seconds int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += seconds
}

var (
	ada    = player.Player{ID: "id-ada", Name: "ada"}
	fred   = player.Player{ID: "id-fred", Name: "fred"}
	barney = player.Player{ID: "id-barney", Name: "barney"}
)

// testRoomConfig creates a room configuration that accepts all words and never ticks or idles on its own.
func testRoomConfig(clock *mockClock) RoomConfig {
	rules := game.DefaultConfig()
	rules.TurnDuration = 10 * time.Second
	cfg := RoomConfig{
		Log:        logtest.DiscardLogger,
		TimeFunc:   clock.Now,
		TickPeriod: time.Hour,
		IdlePeriod: time.Hour,
		Session: session.Config{
			Rules:      rules,
			Dictionary: mockDictionary(func(word string) bool { return true }),
			Source:     rand.New(rand.NewSource(1)),
		},
		NewSource: func() board.Source {
			return rand.New(rand.NewSource(1))
		},
	}
	return cfg
}

// playerMessage creates a message of the type from the player.
func playerMessage(t message.Type, p player.Player) message.Message {
	m := message.Message{
		Type:       t,
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}
	return m
}

// drain reads the messages that have been sent on the channel without blocking.
func drain(out <-chan message.Message) []message.Message {
	var messages []message.Message
	for {
		select {
		case m := <-out:
			messages = append(messages, m)
		default:
			return messages
		}
	}
}

// find gets the first message of the type sent to the player.
func find(messages []message.Message, t message.Type, pID player.ID) (message.Message, bool) {
	for _, m := range messages {
		if m.Type == t && m.PlayerID == pID {
			return m, true
		}
	}
	return message.Message{}, false
}
