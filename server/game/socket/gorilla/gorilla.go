// Package gorilla implements a websocket connection by wrapping gorilla/websocket.
package gorilla

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/server/game/socket"
)

type (
	// Upgrader implements the socket.Upgrader interface by wrapping a gorilla/websocket Upgrader.
	Upgrader struct {
		*websocket.Upgrader
	}

	// Conn implements the socket.Conn interface by wrapping a gorilla/websocket Conn.
	Conn struct {
		*websocket.Conn
	}

	// Dialer connects to websocket servers.
	Dialer struct {
		*websocket.Dialer
	}
)

// maxMessageSize is the most bytes a message read from a connection can have.
const maxMessageSize = 1 << 16

// NewUpgrader creates an upgrader for gorilla websocket connections.
func NewUpgrader() *Upgrader {
	u := new(websocket.Upgrader)
	return &Upgrader{u}
}

// Upgrade creates a Conn from the http request.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	c, err := u.UpgradeConn(w, r)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpgradeConn creates a gorilla Conn from the http request.
func (u *Upgrader) UpgradeConn(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	c, err := u.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	c.SetReadLimit(maxMessageSize)
	return &Conn{c}, nil
}

// NewDialer creates a dialer that fails if the websocket handshake takes longer than the timeout.
func NewDialer(handshakeTimeout time.Duration) *Dialer {
	d := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	return &Dialer{&d}
}

// Dial creates a connection to the websocket server at the url.
// The response is returned when the handshake fails so callers can check the status code.
func (d *Dialer) Dial(ctx context.Context, url string, header http.Header) (*Conn, *http.Response, error) {
	c, resp, err := d.Dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, resp, fmt.Errorf("dialing %v: %w", url, err)
	}
	c.SetReadLimit(maxMessageSize)
	return &Conn{c}, resp, nil
}

// ReadMessage reads the next message from the connection.
func (c *Conn) ReadMessage(m *message.Message) error {
	return c.Conn.ReadJSON(m)
}

// WriteMessage writes the message as json to the connection.
func (c *Conn) WriteMessage(m message.Message) error {
	return c.Conn.WriteJSON(m)
}

// ReadFrame reads the data of the next binary message from the connection.
func (c *Conn) ReadFrame() ([]byte, error) {
	t, data, err := c.Conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if t != websocket.BinaryMessage {
		return nil, fmt.Errorf("wanted binary message, got message type %v", t)
	}
	return data, nil
}

// WriteFrame writes the data as a binary message to the connection.
func (c *Conn) WriteFrame(data []byte) error {
	return c.Conn.WriteMessage(websocket.BinaryMessage, data)
}

// WritePing writes a ping message on the connection.
func (c *Conn) WritePing() error {
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

// WriteClose writes a close message on the connection.  The connection stays open.
func (c *Conn) WriteClose(reason string) (err error) {
	data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return c.Conn.WriteMessage(websocket.CloseMessage, data)
}

// IsNormalClose determines if the error message is not an unexpected close error.
func (*Conn) IsNormalClose(err error) bool {
	_, ok := err.(*websocket.CloseError) // only errors from gorilla can be normal close errors
	return ok && !websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
