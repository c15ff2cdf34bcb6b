package peer

import (
	"context"
	"crypto/rand"
	"errors"
	mathrand "math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
	gameController "github.com/jacobpatterson1549/wibble/server/game"
	"github.com/jacobpatterson1549/wibble/server/game/lobby"
	"github.com/jacobpatterson1549/wibble/server/game/socket"
	"github.com/jacobpatterson1549/wibble/server/game/socket/gorilla"
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

var (
	ada  = player.Player{ID: "id-ada", Name: "ada"}
	fred = player.Player{ID: "id-fred", Name: "fred"}
)

func unixNow() int64 {
	return time.Now().Unix()
}

func testSessionConfig() session.Config {
	return session.Config{
		Rules:      game.DefaultConfig(),
		Dictionary: mockDictionary(func(word string) bool { return true }),
		Source:     mathrand.New(mathrand.NewSource(1)),
	}
}

func testHostConfig() HostConfig {
	return HostConfig{
		Log: logtest.DiscardLogger,
		RoomConfig: gameController.RoomConfig{
			Log:        logtest.DiscardLogger,
			TimeFunc:   unixNow,
			TickPeriod: time.Hour,
			IdlePeriod: time.Hour,
			Session:    testSessionConfig(),
			NewSource: func() board.Source {
				return mathrand.New(mathrand.NewSource(1))
			},
		},
		SocketRunnerConfig: socket.RunnerConfig{
			Log:        logtest.DiscardLogger,
			MaxSockets: 4,
			SocketConfig: socket.Config{
				Log:            logtest.DiscardLogger,
				TimeFunc:       unixNow,
				ReadWait:       time.Hour,
				WriteWait:      time.Hour,
				PingPeriod:     30 * time.Minute,
				IdlePeriod:     2 * time.Hour,
				HTTPPingPeriod: 3 * time.Hour,
			},
		},
		LobbyConfig: lobby.Config{
			Log:      logtest.DiscardLogger,
			MaxQueue: 64,
		},
	}
}

func testUpgrader() Upgrader {
	return Upgrader{
		Upgrader:      gorilla.NewUpgrader(),
		Rand:          rand.Reader,
		TimeFunc:      unixNow,
		HandshakeWait: 5 * time.Second,
	}
}

func testPointsDao() mockPointsDao {
	return mockPointsDao{
		UpdatePointsIncrementFunc: func(ctx context.Context, playerPoints map[string]int) error {
			return nil
		},
	}
}

func testGuestConfig() GuestConfig {
	return GuestConfig{
		Log:            logtest.DiscardLogger,
		Dialer:         gorilla.NewDialer(5 * time.Second),
		Rand:           rand.Reader,
		ConnectTimeout: 5 * time.Second,
		Session:        testSessionConfig(),
	}
}

// mockVerifier knows the players of tokens.
type mockVerifier map[string]player.Player

func (m mockVerifier) Verify(ctx context.Context, token string) (*player.Player, error) {
	p, ok := m[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &p, nil
}

func testVerifier() mockVerifier {
	return mockVerifier{
		token(ada):  ada,
		token(fred): fred,
	}
}

// token is the token of the player that the test verifier accepts.
func token(p player.Player) string {
	return "token-" + string(p.ID)
}

// newTestHost runs a host for ada that is served by a test server.
func newTestHost(ctx context.Context, t *testing.T) (*Host, *httptest.Server) {
	t.Helper()
	h, err := testHostConfig().NewHost("ABC123", "ada's room", ada.ID, game.DefaultConfig(), testUpgrader(), testPointsDao())
	if err != nil {
		t.Fatalf("creating host: %v", err)
	}
	h.Run(ctx)
	s := httptest.NewServer(h.Handler(testVerifier()))
	return h, s
}

// peerURL is the websocket url for the player to connect to the host served by the test server.
func peerURL(s *httptest.Server, p player.Player) string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/?" + accessTokenParam + "=" + token(p)
}

// mockClock is a TimeFunc that can be moved forward.
type mockClock struct {
	now int64
}

func (c *mockClock) Now() int64 {
	return c.now
}

// readUntil reads messages from the channel until one of the type is read.
func readUntil(t *testing.T, ch <-chan message.Message, mt message.Type) message.Message {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case m, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed before %v message", mt)
			}
			if m.Type == mt {
				return m
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %v message", mt)
		}
	}
}

var errMockRead = errors.New("mock read error")

// errReader is a random source that always fails.
type errReader struct{}

func (errReader) Read(p []byte) (int, error) {
	return 0, errMockRead
}
