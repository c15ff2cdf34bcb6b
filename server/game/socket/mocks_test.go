package socket

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jacobpatterson1549/wibble/game/message"
)

// mockAddr implements the net.Addr interface
type mockAddr string

func (m mockAddr) Network() string {
	return string(m) + "_NETWORK"
}

func (m mockAddr) String() string {
	return string(m)
}

type mockConn struct {
	ReadMessageFunc      func(m *message.Message) error
	WriteMessageFunc     func(m message.Message) error
	SetReadDeadlineFunc  func(t time.Time) error
	SetWriteDeadlineFunc func(t time.Time) error
	SetPongHandlerFunc   func(h func(appData string) error)
	CloseFunc            func() error
	WritePingFunc        func() error
	WriteCloseFunc       func(reason string) error
	IsNormalCloseFunc    func(err error) bool
	RemoteAddrFunc       func() net.Addr
}

func (m *mockConn) ReadMessage(msg *message.Message) error {
	return m.ReadMessageFunc(msg)
}

func (m *mockConn) WriteMessage(msg message.Message) error {
	return m.WriteMessageFunc(msg)
}

func (m *mockConn) SetReadDeadline(t time.Time) error {
	return m.SetReadDeadlineFunc(t)
}

func (m *mockConn) SetWriteDeadline(t time.Time) error {
	return m.SetWriteDeadlineFunc(t)
}

func (m *mockConn) SetPongHandler(h func(appData string) error) {
	m.SetPongHandlerFunc(h)
}

func (m *mockConn) Close() error {
	return m.CloseFunc()
}

func (m *mockConn) WritePing() error {
	return m.WritePingFunc()
}

func (m *mockConn) WriteClose(reason string) error {
	return m.WriteCloseFunc(reason)
}

func (m *mockConn) IsNormalClose(err error) bool {
	return m.IsNormalCloseFunc(err)
}

func (m *mockConn) RemoteAddr() net.Addr {
	return m.RemoteAddrFunc()
}

type mockUpgrader func(w http.ResponseWriter, r *http.Request) (Conn, error)

func (m mockUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error) {
	return m(w, r)
}

var errMockConnClosed = errors.New("mock connection closed")

// pipeConn is a connection that reads messages from the reads channel until closed.
// Written messages are sent on the writes channel.
type pipeConn struct {
	reads  chan message.Message
	writes chan message.Message
	closed chan struct{}
	once   sync.Once
	mu     sync.Mutex
	reason string
	mockConn
}

func newPipeConn(addr string) *pipeConn {
	c := pipeConn{
		reads:  make(chan message.Message),
		writes: make(chan message.Message, 64),
		closed: make(chan struct{}),
	}
	c.mockConn = mockConn{
		ReadMessageFunc: func(m *message.Message) error {
			select {
			case <-c.closed:
				return errMockConnClosed
			case m2 := <-c.reads:
				*m = m2
				return nil
			}
		},
		WriteMessageFunc: func(m message.Message) error {
			select {
			case <-c.closed:
				return errMockConnClosed
			case c.writes <- m:
				return nil
			}
		},
		SetReadDeadlineFunc: func(t time.Time) error {
			return nil
		},
		SetWriteDeadlineFunc: func(t time.Time) error {
			return nil
		},
		SetPongHandlerFunc: func(h func(appData string) error) {
			// NOOP
		},
		CloseFunc: func() error {
			c.once.Do(func() {
				close(c.closed)
			})
			return nil
		},
		WritePingFunc: func() error {
			return nil
		},
		WriteCloseFunc: func(reason string) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.reason = reason
			return nil
		},
		IsNormalCloseFunc: func(err error) bool {
			return err == errMockConnClosed
		},
		RemoteAddrFunc: func() net.Addr {
			return mockAddr(addr)
		},
	}
	return &c
}

// closeReason is the reason passed to WriteClose.
func (c *pipeConn) closeReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}
