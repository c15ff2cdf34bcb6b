package peer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/server/game/socket/gorilla"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Guest is a player connected to the room of a host.
	// It keeps a view of the room that is replaced by the messages the host sends.
	Guest struct {
		id        game.ID
		conn      *Conn
		writeMu   sync.Mutex
		sessionMu sync.Mutex
		session   *session.Session
		self      player.Player
		GuestConfig
	}

	// GuestConfig is used to join the rooms of hosts.
	GuestConfig struct {
		// Debug is a flag that causes the guest to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// Dialer opens connections to hosts.
		Dialer *gorilla.Dialer
		// Rand is the source of keys and nonces.
		Rand io.Reader
		// ConnectTimeout is the amount of time that joining a room can take.
		ConnectTimeout time.Duration
		// Session is used to create the view of the room.
		Session session.Config
	}
)

// Join connects to the host serving the room at the url.
// Join returns after the host adds the player to the room or rejects them.
func (cfg GuestConfig) Join(ctx context.Context, url string, header http.Header, id game.ID, self player.Player) (*Guest, error) {
	if err := cfg.validate(self); err != nil {
		return nil, fmt.Errorf("creating guest: validation: %w", err)
	}
	s, err := cfg.Session.New()
	if err != nil {
		return nil, fmt.Errorf("creating guest: %w", err)
	}
	if _, err := s.Handle(session.JoinGame{ID: id, Player: self}); err != nil {
		return nil, fmt.Errorf("creating guest: %w", err)
	}
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancelFunc()
	deadline, _ := ctx.Deadline()
	c, resp, err := cfg.Dialer.Dial(ctx, url, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("joining %v: %w", id, game.ErrPeerUnavailable)
		}
		return nil, connectError(id, err)
	}
	pc, err := handshake(c, cfg.Rand, deadline)
	if err != nil {
		c.Close()
		return nil, connectError(id, err)
	}
	g := Guest{
		id:          id,
		conn:        pc,
		session:     s,
		self:        self,
		GuestConfig: cfg,
	}
	if err := g.waitForJoin(); err != nil {
		c.Close()
		return nil, connectError(id, err)
	}
	if err := clearDeadlines(c); err != nil {
		c.Close()
		return nil, err
	}
	return &g, nil
}

// validate ensures the configuration has no errors.
func (cfg GuestConfig) validate(self player.Player) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Dialer == nil:
		return fmt.Errorf("dialer required")
	case cfg.Rand == nil:
		return fmt.Errorf("random source required")
	case cfg.ConnectTimeout <= 0:
		return fmt.Errorf("positive connect timeout required")
	case len(self.ID) == 0:
		return fmt.Errorf("player id required")
	}
	return nil
}

// connectError converts errors caused by the deadline of the connection to the connection timeout error.
func connectError(id game.ID, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("joining %v: %w", id, game.ErrConnectionTimeout)
	}
	return fmt.Errorf("joining %v: %w", id, err)
}

// rejectionErrors are the errors hosts reject players with.
var rejectionErrors = []game.Error{
	game.ErrRoomFull,
	game.ErrGameInProgress,
	game.ErrRoomNotFound,
	game.ErrPeerUnavailable,
	game.ErrNotAllowed,
}

// hostError creates an error from the text of a warning the host sent.
// Text that ends with a rejection error wraps it.
func hostError(info string) error {
	for _, err := range rejectionErrors {
		switch {
		case info == err.Error():
			return err
		case strings.HasSuffix(info, ": "+err.Error()):
			return fmt.Errorf("%v: %w", strings.TrimSuffix(info, ": "+err.Error()), err)
		}
	}
	return errors.New(info)
}

// clearDeadlines lets the connection wait for messages for as long as it is open.
func clearDeadlines(c *gorilla.Conn) error {
	var noDeadline time.Time
	if err := c.SetReadDeadline(noDeadline); err != nil {
		return fmt.Errorf("clearing read deadline: %w", err)
	}
	if err := c.SetWriteDeadline(noDeadline); err != nil {
		return fmt.Errorf("clearing write deadline: %w", err)
	}
	return nil
}

// waitForJoin reads messages until the host adds or rejects the player.
// The host sends the reason before rejecting the player.
func (g *Guest) waitForJoin() error {
	reason := errors.New("rejected by host")
	for {
		var m message.Message
		if err := g.conn.ReadMessage(&m); err != nil {
			return err
		}
		switch m.Type {
		case message.RoomJoined:
			if m.Game == nil {
				return fmt.Errorf("host did not send the room")
			}
			_, err := g.session.Handle(session.JoinConfirmed{Info: *m.Game})
			return err
		case message.SocketWarning, message.SocketError:
			reason = hostError(m.Info)
		case message.LeaveRoom:
			if _, err := g.session.Handle(session.JoinFailed{Reason: reason}); err != nil {
				g.Log.Printf("guest handling join failure: %v", err)
			}
			return reason
		}
	}
}

// Run reads messages from the host until the connection is closed or the context is done.
// The view of the room is updated before the messages are sent on the returned channel.
func (g *Guest) Run(ctx context.Context) <-chan message.Message {
	out := make(chan message.Message)
	go func() {
		<-ctx.Done()
		g.conn.Close()
	}()
	go func() {
		defer close(out)
		for { // BLOCKING
			var m message.Message
			if err := g.conn.ReadMessage(&m); err != nil {
				if !g.conn.IsNormalClose(err) && ctx.Err() == nil {
					g.Log.Printf("guest reading messages stopped: %v", err)
				}
				return
			}
			if g.Debug {
				log.Debugf(g.Log, "guest reading message with type %v", m.Type)
			}
			g.apply(m)
			select {
			case <-ctx.Done():
				return
			case out <- m:
			}
		}
	}()
	return out
}

// Send writes the message to the host.
func (g *Guest) Send(m message.Message) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	m.RoomID = g.id
	if err := g.conn.WriteMessage(m); err != nil {
		return fmt.Errorf("sending %v message to host: %w", m.Type, err)
	}
	return nil
}

// Info is a snapshot of the view of the room.
func (g *Guest) Info() session.Info {
	g.sessionMu.Lock()
	defer g.sessionMu.Unlock()
	return g.session.Info()
}

// Close closes the connection to the host.
func (g *Guest) Close() error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	g.conn.WriteClose("left room")
	return g.conn.Close()
}

// apply updates the view of the room from the message.
func (g *Guest) apply(m message.Message) {
	var e session.Event
	switch m.Type {
	case message.GameStarted:
		if m.Game != nil {
			e = session.GameStarted{Info: *m.Game}
		}
	case message.RoomUpdated, message.GameUpdated, message.TurnStarted, message.TimerUpdated,
		message.RoundStarted, message.RoundEnded, message.GameEnded:
		if m.Game != nil {
			// only game updates leave out the time of the turn
			e = session.Sync{Info: *m.Game, Timed: m.Type != message.GameUpdated}
		}
	case message.LeaveRoom:
		e = session.Leave{Player: g.self.ID}
	}
	if e == nil {
		return
	}
	g.sessionMu.Lock()
	defer g.sessionMu.Unlock()
	if _, err := g.session.Handle(e); err != nil {
		g.Log.Printf("guest applying %v message: %v", m.Type, err)
	}
}
