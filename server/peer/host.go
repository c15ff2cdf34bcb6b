package peer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	gameController "github.com/jacobpatterson1549/wibble/server/game"
	"github.com/jacobpatterson1549/wibble/server/game/lobby"
	"github.com/jacobpatterson1549/wibble/server/game/socket"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Host holds the authority of a single room in the process of the peer that hosts it.
	// Every player of the room, including the host, connects to it with an encrypted socket.
	// The room is created when the host connects.  Other players join the room when they connect.
	Host struct {
		id       game.ID
		name     string
		hostID   player.ID
		rules    game.Config
		room     *gameController.Room
		lobby    *lobby.Lobby
		created  bool
		removals []message.Message
		done     chan struct{}
		HostConfig
	}

	// HostConfig is used to create hosts.
	HostConfig struct {
		// Debug is a flag that causes the host to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// RoomConfig is used to create the room of the host.
		RoomConfig gameController.RoomConfig
		// SocketRunnerConfig is used to run the sockets of the peers.
		SocketRunnerConfig socket.RunnerConfig
		// LobbyConfig is used to pass messages between the sockets and the room.
		LobbyConfig lobby.Config
	}

	// Verifier reads the player of a token that the server created.
	Verifier interface {
		Verify(ctx context.Context, token string) (*player.Player, error)
	}

	// hostRoom runs the room of the host for the lobby.
	hostRoom struct {
		*Host
	}
)

const (
	// roomInboxSize is the number of messages that can wait to be handled by the room.
	roomInboxSize = 32
	// accessTokenParam is the query parameter for tokens on websocket requests, which cannot have headers from browsers.
	accessTokenParam = "access_token"
	bearerPrefix     = "Bearer "
)

// NewHost creates a host for the room.  The player with the host id creates the room when they connect.
func (cfg HostConfig) NewHost(id game.ID, name string, hostID player.ID, rules game.Config, u socket.Upgrader, pd gameController.PointsDao) (*Host, error) {
	if err := cfg.validate(hostID); err != nil {
		return nil, fmt.Errorf("creating host: validation: %w", err)
	}
	room, err := cfg.RoomConfig.NewRoom(id, name, rules, pd)
	if err != nil {
		return nil, fmt.Errorf("creating host: %w", err)
	}
	sr, err := cfg.SocketRunnerConfig.NewRunner(u)
	if err != nil {
		return nil, fmt.Errorf("creating host: %w", err)
	}
	h := Host{
		id:         id,
		name:       name,
		hostID:     hostID,
		rules:      rules,
		room:       room,
		done:       make(chan struct{}),
		HostConfig: cfg,
	}
	l, err := cfg.LobbyConfig.NewLobby(sr, hostRoom{&h})
	if err != nil {
		return nil, fmt.Errorf("creating host: %w", err)
	}
	h.lobby = l
	return &h, nil
}

// validate ensures the configuration has no errors.
func (cfg HostConfig) validate(hostID player.ID) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case len(hostID) == 0:
		return fmt.Errorf("host player id required")
	}
	return nil
}

// ID is the code of the room of the host.
func (h *Host) ID() game.ID {
	return h.id
}

// Run runs the room and the sockets of the host until the context is done or the room is empty.
func (h *Host) Run(ctx context.Context) {
	h.lobby.Run(ctx)
}

// Done is closed when the host stops running its room.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// AddPeer opens an encrypted socket for the player.
func (h *Host) AddPeer(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error {
	return h.lobby.AddUser(ctx, pID, name, w, r)
}

// Handler adds peers that request it with tokens the verifier accepts.
func (h *Host) Handler(v Verifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := requestToken(r)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		p, err := v.Verify(r.Context(), token)
		if err != nil {
			h.Log.Printf("host of %v verifying peer: %v", h.id, err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		select {
		case <-h.done:
			http.NotFound(w, r)
			return
		default:
		}
		if err := h.AddPeer(r.Context(), p.ID, p.Name, w, r); err != nil {
			h.Log.Printf("host of %v adding peer: %v", h.id, err)
			// the upgrader writes the http error response
		}
	})
}

// Serve runs the room and accepts peers on the listener until the context is done or the room is empty.
// The error that stops the http server is sent on the returned channel, which is nil if the server stopped normally.
func (h *Host) Serve(ctx context.Context, ln net.Listener, v Verifier) <-chan error {
	errC := make(chan error, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	httpServer := http.Server{
		Handler: h.Handler(v),
	}
	h.Run(ctx)
	go func() {
		select { // BLOCKING
		case <-ctx.Done():
		case <-h.Done():
		}
		httpServer.Close()
	}()
	go func() {
		defer cancelFunc()
		err := httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errC <- err
	}()
	return errC
}

// requestToken reads the bearer token from the authorization header or the access token query parameter.
func requestToken(r *http.Request) (string, bool) {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(a, bearerPrefix) {
		return a[len(bearerPrefix):], true
	}
	if t := r.URL.Query().Get(accessTokenParam); len(t) != 0 {
		return t, true
	}
	return "", false
}

// Run implements the lobby.Runner interface by passing messages from peers to the room.
// The returned channel is closed when the room is empty, which closes the sockets of the peers.
func (hr hostRoom) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	out := make(chan message.Message)
	roomIn := make(chan message.Message, roomInboxSize)
	roomOut := make(chan message.Message)
	ctx, cancelFunc := context.WithCancel(ctx)
	hr.room.Run(ctx, roomIn, roomOut)
	go func() {
		defer close(hr.done)
		defer close(out)
		defer cancelFunc()
		for { // BLOCKING
			var removal message.Message
			var removalIn chan<- message.Message // nil when no removals wait so the send is never selected
			if len(hr.removals) != 0 {
				removal = hr.removals[0]
				removalIn = roomIn
			}
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				hr.handlePeerMessage(ctx, m, roomIn, out)
			case m := <-roomOut:
				if hr.handleRoomMessage(ctx, m, out) {
					return
				}
			case removalIn <- removal:
				hr.removals = hr.removals[1:]
			}
		}
	}()
	return out
}

// handlePeerMessage sends the message from a peer to the room.
// Peers are added to the room when their socket is added, which lists the rooms for them.
func (hr hostRoom) handlePeerMessage(ctx context.Context, m message.Message, roomIn chan<- message.Message, out chan<- message.Message) {
	if hr.Debug {
		log.Debugf(hr.Log, "host of %v reading peer message with type %v", hr.id, m.Type)
	}
	switch m.Type {
	case message.ListRooms:
		switch {
		case m.PlayerID == hr.hostID && !hr.created:
			hr.created = true
			m.Type = message.CreateRoom
			m.Info = hr.name
			m.Rules = &hr.rules
		case !hr.created:
			hr.sendError(ctx, m.PlayerID, fmt.Errorf("waiting for host of %v: %w", hr.id, game.ErrPeerUnavailable), out)
			hr.kick(ctx, m.PlayerID, out)
			return
		default:
			m.Type = message.JoinRoom
		}
	case message.CreateRoom, message.JoinRoom:
		hr.sendError(ctx, m.PlayerID, fmt.Errorf("peers can only play in room %v: %w", hr.id, game.ErrNotAllowed), out)
		return
	}
	m.RoomID = hr.id
	if len(hr.removals) == 0 {
		select {
		case roomIn <- m:
			return
		default:
		}
	}
	switch m.Type {
	case message.LeaveRoom, message.PlayerRemove:
		// removals wait for space in the room
		hr.removals = append(hr.removals, m)
	default:
		hr.sendError(ctx, m.PlayerID, fmt.Errorf("room %v is busy, try again: %w", hr.id, game.ErrNotAllowed), out)
	}
}

// handleRoomMessage sends messages from the room to the peers.
// True is returned when the room is empty.
func (hr hostRoom) handleRoomMessage(ctx context.Context, m message.Message, out chan<- message.Message) bool {
	if m.Type == message.RoomList && len(m.PlayerID) == 0 {
		// peers only know about the room they are in
		return len(m.Rooms) == 1 && m.Rooms[0].PlayerCount == 0
	}
	hr.send(ctx, m, out)
	return false
}

// sendError sends a warning for the error to the peer.
func (hr hostRoom) sendError(ctx context.Context, pID player.ID, err error, out chan<- message.Message) {
	m := message.Message{
		Type:     message.SocketWarning,
		Info:     err.Error(),
		PlayerID: pID,
	}
	hr.send(ctx, m, out)
}

// kick tells the peer that it is not in the room.
func (hr hostRoom) kick(ctx context.Context, pID player.ID, out chan<- message.Message) {
	m := message.Message{
		Type:     message.LeaveRoom,
		RoomID:   hr.id,
		PlayerID: pID,
	}
	hr.send(ctx, m, out)
}

// send sends the message on the out channel.
func (hr hostRoom) send(ctx context.Context, m message.Message, out chan<- message.Message) {
	message.Send(ctx, m, out, hr.Debug, hr.Log)
}
