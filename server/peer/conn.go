// Package peer runs rooms that a host peer holds the authority of.
// Peers talk over websockets that are encrypted with keys they exchange when connecting.
package peer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/server/game/socket"
	"github.com/jacobpatterson1549/wibble/server/game/socket/gorilla"
	"golang.org/x/crypto/nacl/box"
)

type (
	// Conn is a websocket connection that encrypts the messages it writes and decrypts the messages it reads.
	Conn struct {
		*gorilla.Conn
		sharedKey [keySize]byte
		random    io.Reader
	}

	// Upgrader creates encrypted connections from http requests.
	Upgrader struct {
		// Upgrader creates the websocket connections that are encrypted.
		Upgrader *gorilla.Upgrader
		// Rand is the source of keys and nonces.
		Rand io.Reader
		// TimeFunc is a function which should supply the current time since the unix epoch.
		TimeFunc func() int64
		// HandshakeWait is the amount of time the key exchange can take.
		HandshakeWait time.Duration
	}
)

const (
	keySize   = 32
	nonceSize = 24
)

var errDecrypt = errors.New("could not decrypt message")

// Upgrade implements the socket.Upgrader interface by exchanging keys with the peer after the connection is opened.
func (u Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	c, err := u.Upgrader.UpgradeConn(w, r)
	if err != nil {
		return nil, err
	}
	deadline := time.Unix(u.TimeFunc(), 0).Add(u.HandshakeWait)
	pc, err := handshake(c, u.Rand, deadline)
	if err != nil {
		c.Close()
		return nil, err
	}
	return pc, nil
}

// handshake sends a new public key to the peer and reads the public key of the peer.
// Both peers write their key before reading the key of the other.
func handshake(c *gorilla.Conn, random io.Reader, deadline time.Time) (*Conn, error) {
	publicKey, privateKey, err := box.GenerateKey(random)
	if err != nil {
		return nil, fmt.Errorf("generating keys: %w", err)
	}
	if err := c.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("setting handshake write deadline: %w", err)
	}
	if err := c.WriteFrame(publicKey[:]); err != nil {
		return nil, fmt.Errorf("writing public key: %w", err)
	}
	if err := c.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("setting handshake read deadline: %w", err)
	}
	data, err := c.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("reading public key of peer: %w", err)
	}
	if len(data) != keySize {
		return nil, fmt.Errorf("wanted public key of peer to have %v bytes, got %v", keySize, len(data))
	}
	var peerKey [keySize]byte
	copy(peerKey[:], data)
	pc := Conn{
		Conn:   c,
		random: random,
	}
	box.Precompute(&pc.sharedKey, &peerKey, privateKey)
	return &pc, nil
}

// ReadMessage reads and decrypts the next message.
func (c *Conn) ReadMessage(m *message.Message) error {
	data, err := c.Conn.ReadFrame()
	if err != nil {
		return err
	}
	text, err := c.open(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(text, m); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return nil
}

// WriteMessage encrypts and writes the message.
func (c *Conn) WriteMessage(m message.Message) error {
	text, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	data, err := c.seal(text)
	if err != nil {
		return err
	}
	return c.Conn.WriteFrame(data)
}

// seal encrypts the text, prefixing it with a random nonce.
func (c *Conn) seal(text []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(c.random, nonce[:]); err != nil {
		return nil, fmt.Errorf("creating nonce: %w", err)
	}
	return box.SealAfterPrecomputation(nonce[:], text, &nonce, &c.sharedKey), nil
}

// open decrypts data created by seal.
func (c *Conn) open(data []byte) ([]byte, error) {
	if len(data) < nonceSize+box.Overhead {
		return nil, fmt.Errorf("%w: only %v bytes", errDecrypt, len(data))
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data)
	text, ok := box.OpenAfterPrecomputation(nil, data[nonceSize:], &nonce, &c.sharedKey)
	if !ok {
		return nil, errDecrypt
	}
	return text, nil
}
