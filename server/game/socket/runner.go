package socket

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Runner handles sending messages to different sockets.
	// Each player has one socket.  A new socket for a player replaces the old one.
	Runner struct {
		upgrader   Upgrader
		sockets    map[player.ID]playerSocket
		socketOut  chan message.Message
		addSockets chan addSocketRequest
		RunnerConfig
	}

	// RunnerConfig is used to create a socket Runner.
	RunnerConfig struct {
		// Debug is a flag that causes the runner to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// MaxSockets is the maximum number of sockets.
		MaxSockets int
		// SocketConfig is used to create new sockets.
		SocketConfig Config
	}

	// Upgrader turns a http request into a websocket.
	Upgrader interface {
		// Upgrade creates a Conn from the HTTP request.
		Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
	}

	// playerSocket is how the runner writes to the socket of a player.
	playerSocket struct {
		in   chan<- message.Message
		addr message.Addr
		name player.Name
	}

	// addSocketRequest is used to add a socket to the runner.
	addSocketRequest struct {
		pID    player.ID
		name   player.Name
		conn   Conn
		result chan<- error
	}
)

// socketBufferSize is the number of messages that can wait to be written to a socket.
const socketBufferSize = 64

// NewRunner creates a new socket runner from the config.
func (cfg RunnerConfig) NewRunner(u Upgrader) (*Runner, error) {
	if err := cfg.validate(u); err != nil {
		return nil, fmt.Errorf("creating socket runner: validation: %w", err)
	}
	r := Runner{
		upgrader:     u,
		sockets:      make(map[player.ID]playerSocket, cfg.MaxSockets),
		socketOut:    make(chan message.Message),
		addSockets:   make(chan addSocketRequest),
		RunnerConfig: cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RunnerConfig) validate(u Upgrader) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case u == nil:
		return fmt.Errorf("upgrader required")
	case cfg.MaxSockets < 1:
		return fmt.Errorf("must be able to create at least one socket")
	}
	return nil
}

// Run consumes messages from the "in" channel, sending them to the sockets of the players they are for.
// Messages without a player id are sent to all sockets.
// The messages received from sockets are sent on the "out" channel to be read by rooms.
func (r *Runner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	out := make(chan message.Message)
	go func() {
		defer close(out)
		defer r.closeSockets()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleRoomMessage(m)
			case m := <-r.socketOut:
				r.handleSocketMessage(ctx, m, out)
			case req := <-r.addSockets:
				m, err := r.addSocket(ctx, req)
				req.result <- err
				if err == nil {
					message.Send(ctx, *m, out, r.Debug, r.Log)
				}
			}
		}
	}()
	return out
}

// AddSocket upgrades the http request to a websocket connection for the player.
// The runner must be running.
func (r *Runner) AddSocket(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, req *http.Request) error {
	conn, err := r.upgrader.Upgrade(w, req)
	if err != nil {
		return fmt.Errorf("upgrading to websocket connection: %w", err)
	}
	result := make(chan error, 1)
	asr := addSocketRequest{
		pID:    pID,
		name:   name,
		conn:   conn,
		result: result,
	}
	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case r.addSockets <- asr:
	}
	if err := <-result; err != nil {
		conn.WriteClose(err.Error())
		conn.Close()
		return err
	}
	return nil
}

// addSocket runs and adds a socket for the player.
// The returned message lists the rooms for the player.
func (r *Runner) addSocket(ctx context.Context, req addSocketRequest) (*message.Message, error) {
	_, replacing := r.sockets[req.pID]
	if !replacing && len(r.sockets) >= r.MaxSockets {
		return nil, fmt.Errorf("no room for another socket")
	}
	s, err := r.SocketConfig.NewSocket(req.pID, req.conn)
	if err != nil {
		return nil, err
	}
	socketIn := make(chan message.Message, socketBufferSize)
	if err := s.Run(ctx, socketIn, r.socketOut); err != nil {
		return nil, err
	}
	if replacing {
		r.Log.Printf("replacing socket for %v", req.pID)
		r.removeSocket(req.pID)
	}
	r.sockets[req.pID] = playerSocket{
		in:   socketIn,
		addr: s.Addr,
		name: req.name,
	}
	m := message.Message{
		Type:       message.ListRooms,
		PlayerID:   req.pID,
		PlayerName: req.name,
		Addr:       s.Addr,
	}
	return &m, nil
}

// handleRoomMessage writes the message to the appropriate sockets.
func (r *Runner) handleRoomMessage(m message.Message) {
	if len(m.PlayerID) == 0 {
		for pID := range r.sockets {
			m.PlayerID = pID
			r.sendSocketMessage(m)
		}
		return
	}
	r.sendSocketMessage(m)
}

// handleSocketMessage checks the message from a socket and sends it to the rooms.
func (r *Runner) handleSocketMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	if r.Debug {
		log.Debugf(r.Log, "socket runner reading socket message with type %v", m.Type)
	}
	ps, ok := r.sockets[m.PlayerID]
	if !ok || ps.addr != m.Addr {
		// messages from replaced sockets are ignored
		return
	}
	switch {
	case m.Type == message.PlayerRemove:
		r.removeSocket(m.PlayerID)
	case m.Type == message.SetName:
		r.setName(m)
		return
	case !m.Type.IsIntent():
		r.sendWarning(m.PlayerID, fmt.Sprintf("cannot handle message type %v", m.Type))
		return
	case len(ps.name) == 0 && m.Type != message.ListRooms:
		r.sendWarning(m.PlayerID, game.ErrNameRequired.Error())
		return
	}
	m.PlayerName = ps.name
	message.Send(ctx, m, out, r.Debug, r.Log)
}

// setName changes the name other players see for the player.
func (r *Runner) setName(m message.Message) {
	name, err := player.NewName(m.Info)
	if err != nil {
		r.sendWarning(m.PlayerID, err.Error())
		return
	}
	ps := r.sockets[m.PlayerID]
	ps.name = name
	r.sockets[m.PlayerID] = ps
	m2 := message.Message{
		Type:     message.SetName,
		PlayerID: m.PlayerID,
		Info:     string(name),
	}
	r.sendSocketMessage(m2)
}

// sendWarning tells the player that their message was not allowed.
func (r *Runner) sendWarning(pID player.ID, info string) {
	m := message.Message{
		Type:     message.SocketWarning,
		PlayerID: pID,
		Info:     info,
	}
	r.sendSocketMessage(m)
}

// sendSocketMessage sends the message to the socket of the player.
// Messages are dropped for sockets that are not writing fast enough.
func (r *Runner) sendSocketMessage(m message.Message) {
	ps, ok := r.sockets[m.PlayerID]
	if !ok {
		if r.Debug {
			log.Debugf(r.Log, "no socket for player %v to send %v message to", m.PlayerID, m.Type)
		}
		return
	}
	select {
	case ps.in <- m:
	default:
		r.Log.Printf("socket for player %v is full, dropping %v message", m.PlayerID, m.Type)
	}
}

// removeSocket stops writing to the socket of the player.
func (r *Runner) removeSocket(pID player.ID) {
	ps, ok := r.sockets[pID]
	if !ok {
		return
	}
	delete(r.sockets, pID)
	close(ps.in)
}

// closeSockets stops writing to all sockets.
func (r *Runner) closeSockets() {
	for pID := range r.sockets {
		r.removeSocket(pID)
	}
}
