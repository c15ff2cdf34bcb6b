package lobby

import (
	"context"
	"net/http"

	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
)

// mockRunner runs with the function it is created with.
type mockRunner struct {
	runFunc func(ctx context.Context, in <-chan message.Message) <-chan message.Message
}

func (m *mockRunner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	return m.runFunc(ctx, in)
}

// mockSocketRunner is a mockRunner that also adds sockets.
type mockSocketRunner struct {
	mockRunner
	addSocketFunc func(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error
}

func (m *mockSocketRunner) AddSocket(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error {
	return m.addSocketFunc(ctx, pID, name, w, r)
}
