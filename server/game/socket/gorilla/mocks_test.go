package gorilla

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockHijacker is a response writer that lets the upgrader take over the connection.
type mockHijacker struct {
	http.ResponseWriter
	net.Conn
	*bufio.ReadWriter
}

func (m mockHijacker) Header() http.Header {
	return m.ResponseWriter.Header()
}

func (m mockHijacker) Write(p []byte) (int, error) {
	return m.ReadWriter.Write(p)
}

func (m mockHijacker) WriteHeader(statusCode int) {
	m.ResponseWriter.WriteHeader(statusCode)
}

func (m mockHijacker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return m.Conn, m.ReadWriter, nil
}

// redirectConn writes to the buffered writer of the hijacked connection.
type redirectConn struct {
	net.Conn
	io.Writer
}

func (c redirectConn) Write(p []byte) (int, error) {
	return c.Writer.Write(p)
}

func newWebsocketResponseWriter() http.ResponseWriter {
	w := httptest.NewRecorder()
	client, _ := net.Pipe()
	sr := strings.NewReader("reader")
	br := bufio.NewReader(sr)
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	rw := bufio.NewReadWriter(br, bw)
	rc := redirectConn{
		Conn:   client,
		Writer: bw,
	}
	h := mockHijacker{
		Conn:           rc,
		ReadWriter:     rw,
		ResponseWriter: w,
	}
	return &h
}

// newWebsocketRequest creates a request for a websocket with the token of a player.
func newWebsocketRequest() *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/lobby?access_token=t0k3n", nil)
	r.Header.Add("Connection", "upgrade")
	r.Header.Add("Upgrade", "websocket")
	r.Header.Add("Sec-Websocket-Version", "13")
	r.Header.Add("Sec-WebSocket-Key", "3D8mi1hwk11RYYWU8rsdIg==")
	return r
}

func newConnWithMocks(t *testing.T) *Conn {
	t.Helper()
	w := newWebsocketResponseWriter()
	r := newWebsocketRequest()
	u := NewUpgrader()
	conn, err := u.UpgradeConn(w, r)
	if err != nil {
		t.Fatalf("creating Conn: %v", err)
	}
	return conn
}
