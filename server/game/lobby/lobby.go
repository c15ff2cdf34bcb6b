// Package lobby connects the sockets of players to the rooms they play in.
package lobby

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Lobby is the place users can create, join, and participate in rooms.
	Lobby struct {
		socketRunner SocketRunner
		roomRunner   Runner
		Config
	}

	// Config contains the properties to create a lobby.
	Config struct {
		// Debug is a flag that causes the lobby to log the types messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// MaxQueue is the most messages that can wait to be passed between runners before messages are dropped.
		MaxQueue int
	}

	// Runner handles messages sent from the lobby, sending messages back to the lobby on a separate channel.
	Runner interface {
		Run(ctx context.Context, in <-chan message.Message) <-chan message.Message
	}

	// SocketRunner is a Runner that adds websocket connections for players.
	SocketRunner interface {
		Runner
		AddSocket(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error
	}
)

// NewLobby creates a new lobby that passes messages between the socket runner and the room runner.
func (cfg Config) NewLobby(sr SocketRunner, rr Runner) (*Lobby, error) {
	if err := cfg.validate(sr, rr); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	l := Lobby{
		socketRunner: sr,
		roomRunner:   rr,
		Config:       cfg,
	}
	return &l, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(sr SocketRunner, rr Runner) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case sr == nil:
		return fmt.Errorf("socket runner required")
	case rr == nil:
		return fmt.Errorf("room runner required")
	case cfg.MaxQueue < 1:
		return fmt.Errorf("positive max queue size required")
	}
	return nil
}

// Run runs the runners of the lobby until the context is done.
// The runners never wait for each other: messages are queued between them.
func (l *Lobby) Run(ctx context.Context) {
	socketIn := make(chan message.Message)
	roomIn := make(chan message.Message)
	socketOut := l.socketRunner.Run(ctx, socketIn)
	roomOut := l.roomRunner.Run(ctx, roomIn)
	go l.relay(ctx, "socket", socketOut, roomIn)
	go l.relay(ctx, "room", roomOut, socketIn)
}

// AddUser opens a websocket for the player.
func (l *Lobby) AddUser(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error {
	if err := l.socketRunner.AddSocket(ctx, pID, name, w, r); err != nil {
		return fmt.Errorf("adding user: %w", err)
	}
	return nil
}

// relay passes messages from the source to the destination in order, queueing them while the destination is busy.
// The destination is closed after the queue is emptied when the source is closed or when the context is done.
func (l *Lobby) relay(ctx context.Context, source string, src <-chan message.Message, dest chan<- message.Message) {
	defer close(dest)
	var queue []message.Message
	for { // BLOCKING
		if src == nil && len(queue) == 0 {
			return
		}
		var next message.Message
		var out chan<- message.Message // nil when nothing is queued so the send is never selected
		if len(queue) != 0 {
			next = queue[0]
			out = dest
		}
		select {
		case <-ctx.Done():
			return
		case m, ok := <-src:
			if !ok {
				src = nil
				continue
			}
			if l.Debug {
				log.Debugf(l.Log, "lobby reading %v message with type %v", source, m.Type)
			}
			if len(queue) >= l.MaxQueue && !removal(m) {
				l.Log.Printf("lobby dropping %v message with type %v for player %v: queue full", source, m.Type, m.PlayerID)
				continue
			}
			queue = append(queue, m)
		case out <- next:
			queue[0] = message.Message{}
			queue = queue[1:]
		}
	}
}

// removal determines if the message takes a player out of a room or closes their socket.
// Removals are never dropped by the relay.
func removal(m message.Message) bool {
	switch m.Type {
	case message.LeaveRoom, message.PlayerRemove:
		return true
	}
	return false
}
