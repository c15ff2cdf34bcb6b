// Package socket handles communication with a player using a websocket connection.
package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/jacobpatterson1549/wibble/server/runner"
)

type (
	// Socket reads and writes messages to the browsers.
	Socket struct {
		runner.Runner
		Conn
		// PlayerID is the player the socket talks to.
		PlayerID player.ID
		// Addr is the remote address of the connection.
		Addr message.Addr
		// active is set when a message is read.
		active atomic.Bool
		Config
	}

	// Config contains commonly shared Socket properties.
	Config struct {
		// Debug is a flag that causes the socket to log the types non-ping/pong messages that are read/written.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// This is used for setting ping/pong deadlines.
		TimeFunc func() int64
		// ReadWait is the amout of time that can pass between receiving client messages before timing out.
		ReadWait time.Duration
		// WriteWait is the amout of time that the socket can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages should be sent.  Should be less than ReadWait.
		PingPeriod time.Duration
		// IdlePeriod is the amount of time that can pass between handling messages that are not pings before the connection is idle and will be disconnected.
		IdlePeriod time.Duration
		// HTTPPingPeriod is the amount of time between sending requests for the connection to send a http ping on a different socket.
		// Some hosts shut down servers that do not receive http requests regularly.
		HTTPPingPeriod time.Duration
	}

	// Conn is the connection than backs the socket.
	Conn interface {
		// ReadMessage reads the next message from the connection.
		ReadMessage(m *message.Message) error
		// WriteMessage writes the message to the connection.
		WriteMessage(m message.Message) error
		// SetReadDeadline sets how long a read can take before it returns an error.
		SetReadDeadline(t time.Time) error
		// SetWriteDeadline sets how long a write can take before it returns an error.
		SetWriteDeadline(t time.Time) error
		// SetPongHandler is triggered when the server receives a pong response from a previous ping.
		SetPongHandler(h func(appData string) error)
		// Close closes the connection.
		Close() error
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.  The connection is NOT closed.
		WriteClose(reason string) error
		// IsNormalClose determines if the error message is an error that implies a normal close or is unexpected.
		IsNormalClose(err error) bool
		// RemoteAddr gets the remote network address of the connection.
		RemoteAddr() net.Addr
	}
)

var errSocketClosed = errors.New("socket closed")

// NewSocket creates a socket for the player.
func (cfg Config) NewSocket(pID player.ID, conn Conn) (*Socket, error) {
	if err := cfg.validate(pID, conn); err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	a := conn.RemoteAddr()
	if a == nil {
		return nil, fmt.Errorf("creating socket: validation: remote address required")
	}
	s := Socket{
		Conn:     conn,
		PlayerID: pID,
		Addr:     message.Addr(a.String()),
		Config:   cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(pID player.ID, conn Conn) error {
	switch {
	case len(pID) == 0:
		return fmt.Errorf("player id required")
	case conn == nil:
		return fmt.Errorf("websocket connection required")
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ReadWait <= 0:
		return fmt.Errorf("positive read wait period required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait period required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	case cfg.HTTPPingPeriod <= 0:
		return fmt.Errorf("positive http ping period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return fmt.Errorf("ping period should be less than read wait")
	}
	return nil
}

// Run writes messages from the connection to the shared "out" channel.
// Run writes messages received from the "in" channel to the connection.
// The socket runs until the connection fails, the "in" channel is closed, or the context is done.
// A PlayerRemove message is sent on the "out" channel when the socket stops reading.
func (s *Socket) Run(ctx context.Context, in <-chan message.Message, out chan<- message.Message) error {
	if err := s.Runner.Run(); err != nil {
		return fmt.Errorf("running socket: %w", err)
	}
	socketCtx, cancelFunc := context.WithCancel(ctx)
	readDone := make(chan struct{})
	writeDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancelFunc()
		s.readMessages(socketCtx, out)
		s.sendRemove(ctx, out)
	}()
	go func() {
		defer close(writeDone)
		defer cancelFunc()
		s.writeMessages(socketCtx, in)
	}()
	go func() {
		<-socketCtx.Done()
		<-writeDone
		if err := s.Conn.Close(); err != nil && s.Debug {
			log.Debugf(s.Log, "closing socket connection: %v", err)
		}
		<-readDone
		s.Runner.Finish()
	}()
	return nil
}

// readMessages receives messages from the connected socket and writes them to the out channel.
func (s *Socket) readMessages(ctx context.Context, out chan<- message.Message) {
	pongHandler := func(appData string) error {
		return s.refreshDeadline(s.Conn.SetReadDeadline, s.ReadWait)
	}
	if err := pongHandler(""); err != nil {
		s.Log.Printf("setting initial read deadline: %v", err)
		return
	}
	s.Conn.SetPongHandler(pongHandler)
	for { // BLOCKING
		m, err := s.readMessage()
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err != nil {
			if err != errSocketClosed {
				s.Log.Printf("reading socket messages stopped for player %v: %v", s.PlayerID, err)
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case out <- *m:
		}
	}
}

// writeMessages sends messages from the in channel to the connected socket.
// Pings are written periodically.  The connection is closed when no messages have been read for the idle period.
func (s *Socket) writeMessages(ctx context.Context, in <-chan message.Message) {
	pingTicker := time.NewTicker(s.PingPeriod)
	httpPingTicker := time.NewTicker(s.HTTPPingPeriod)
	idleTicker := time.NewTicker(s.IdlePeriod)
	defer pingTicker.Stop()
	defer httpPingTicker.Stop()
	defer idleTicker.Stop()
	var closeReason string
	defer func() {
		if len(closeReason) != 0 {
			s.Log.Printf("closing socket for player %v: %v", s.PlayerID, closeReason)
		}
		s.refreshDeadline(s.Conn.SetWriteDeadline, s.WriteWait)
		s.Conn.WriteClose(closeReason)
	}()
	var err error
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				closeReason = "server closed connection"
				return
			}
			err = s.writeMessage(m)
		case <-pingTicker.C:
			err = s.writePing()
		case <-httpPingTicker.C:
			m := message.Message{
				Type: message.SocketHTTPPing,
			}
			err = s.writeMessage(m)
		case <-idleTicker.C:
			if !s.active.Load() {
				closeReason = "closing socket due to inactivity"
				return
			}
			s.active.Store(false)
		}
		if err != nil {
			if err != errSocketClosed {
				closeReason = fmt.Sprintf("writing socket messages stopped: %v", err)
			}
			return
		}
	}
}

// readMessage reads the next message from the connection.  The player id and address of the socket are added to it.
func (s *Socket) readMessage() (*message.Message, error) {
	var m message.Message
	if err := s.Conn.ReadMessage(&m); err != nil { // BLOCKING
		if s.Conn.IsNormalClose(err) {
			return nil, errSocketClosed
		}
		return nil, fmt.Errorf("unexpected socket closure: %w", err)
	}
	if s.Debug {
		log.Debugf(s.Log, "socket reading message with type %v", m.Type)
	}
	s.active.Store(true)
	m.PlayerID = s.PlayerID
	m.Addr = s.Addr
	return &m, nil
}

// writeMessage writes a message to the connection.
func (s *Socket) writeMessage(m message.Message) error {
	if err := s.refreshDeadline(s.Conn.SetWriteDeadline, s.WriteWait); err != nil {
		return err
	}
	if s.Debug {
		log.Debugf(s.Log, "socket writing message with type %v", m.Type)
	}
	if err := s.Conn.WriteMessage(m); err != nil {
		return fmt.Errorf("writing socket message: %w", err)
	}
	if m.Type == message.PlayerRemove {
		return errSocketClosed
	}
	return nil
}

// writePing writes a ping message to the connection.
func (s *Socket) writePing() error {
	if err := s.refreshDeadline(s.Conn.SetWriteDeadline, s.WriteWait); err != nil {
		return err
	}
	if err := s.Conn.WritePing(); err != nil {
		return fmt.Errorf("writing ping message: %w", err)
	}
	return nil
}

// sendRemove tells the runner that the socket is not reading messages anymore.
func (s *Socket) sendRemove(ctx context.Context, out chan<- message.Message) {
	m := message.Message{
		Type:     message.PlayerRemove,
		PlayerID: s.PlayerID,
		Addr:     s.Addr,
	}
	message.Send(ctx, m, out, s.Debug, s.Log)
}

// refreshDeadline moves the deadline of the connection forward by the period from now.
func (s *Socket) refreshDeadline(refreshDeadlineFunc func(t time.Time) error, period time.Duration) error {
	now := time.Unix(s.TimeFunc(), 0)
	deadline := now.Add(period)
	if err := refreshDeadlineFunc(deadline); err != nil {
		return fmt.Errorf("setting deadline: %w", err)
	}
	return nil
}

// String implements fmt.Stringer to identify the socket in logs.
func (s *Socket) String() string {
	return fmt.Sprintf("socket for %v at %v", s.PlayerID, s.Addr)
}
