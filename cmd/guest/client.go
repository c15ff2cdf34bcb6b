package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/jacobpatterson1549/wibble/server/peer"
)

type (
	// client makes requests to the server.
	client struct {
		httpClient *http.Client
		serverURL  *url.URL
	}

	// playerResponse is the identity of the player and the token to prove it.
	playerResponse struct {
		ID    player.ID   `json:"id"`
		Name  player.Name `json:"name"`
		Token string      `json:"token"`
	}
)

// unlistWait is the amount of time removing the listing of a room can take after the host stops.
const unlistWait = 5 * time.Second

// newClient creates a client for the server with the url.
func newClient(httpClient *http.Client, serverURL string) (*client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("server url must be http or https, got %q", u.Scheme)
	}
	c := client{
		httpClient: httpClient,
		serverURL:  u,
	}
	return &c, nil
}

// createPlayer gets a token for the player with the name.
func (c *client) createPlayer(ctx context.Context, name string) (*playerResponse, error) {
	form := url.Values{"name": {name}}
	var p playerResponse
	if err := c.do(ctx, http.MethodPost, "/player", "", form, &p); err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	return &p, nil
}

// Verify implements the peer.Verifier interface by asking the server who the token belongs to.
func (c *client) Verify(ctx context.Context, token string) (*player.Player, error) {
	var pr playerResponse
	if err := c.do(ctx, http.MethodGet, "/player", token, nil, &pr); err != nil {
		return nil, fmt.Errorf("verifying player: %w", err)
	}
	p := player.Player{
		ID:   pr.ID,
		Name: pr.Name,
	}
	return &p, nil
}

// createPeer lists a room that the player hosts.
// The server uses the port and the address the request comes from when the address is empty.
func (c *client) createPeer(ctx context.Context, token, roomName, address string, port int) (*peer.Listing, error) {
	form := url.Values{
		"name":    {roomName},
		"address": {address},
		"port":    {strconv.Itoa(port)},
	}
	var l peer.Listing
	if err := c.do(ctx, http.MethodPost, "/peer", token, form, &l); err != nil {
		return nil, fmt.Errorf("listing room: %w", err)
	}
	return &l, nil
}

// lookupPeer gets where the room is hosted.
func (c *client) lookupPeer(ctx context.Context, token string, id game.ID) (*peer.Listing, error) {
	var l peer.Listing
	if err := c.do(ctx, http.MethodGet, "/peer/"+id.String(), token, nil, &l); err != nil {
		return nil, fmt.Errorf("finding room %v: %w", id, err)
	}
	return &l, nil
}

// refreshPeer keeps the room that the player hosts listed.
func (c *client) refreshPeer(ctx context.Context, token string, id game.ID) (*peer.Listing, error) {
	var l peer.Listing
	if err := c.do(ctx, http.MethodPut, "/peer/"+id.String(), token, nil, &l); err != nil {
		return nil, fmt.Errorf("refreshing listing of room %v: %w", id, err)
	}
	return &l, nil
}

// removePeer stops listing the room that the player hosts.
func (c *client) removePeer(ctx context.Context, token string, id game.ID) error {
	if err := c.do(ctx, http.MethodDelete, "/peer/"+id.String(), token, nil, nil); err != nil {
		return fmt.Errorf("removing listing of room %v: %w", id, err)
	}
	return nil
}

// keepListed refreshes the listing of the room each period until the context or the host is done.
// The listing is removed when the host stops.  The returned channel is closed after that.
func (c *client) keepListed(ctx context.Context, token string, id game.ID, period time.Duration, done <-chan struct{}, log log.Logger) <-chan struct{} {
	unlisted := make(chan struct{})
	go func() {
		defer close(unlisted)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
	loop:
		for { // BLOCKING
			select {
			case <-ctx.Done():
				break loop
			case <-done:
				break loop
			case <-ticker.C:
				if _, err := c.refreshPeer(ctx, token, id); err != nil {
					log.Printf("%v", err)
				}
			}
		}
		ctx, cancelFunc := context.WithTimeout(context.Background(), unlistWait)
		defer cancelFunc()
		if err := c.removePeer(ctx, token, id); err != nil {
			log.Printf("%v", err)
		}
	}()
	return unlisted
}

// ping tells the server that the player is still active.
func (c *client) ping(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, "/ping", token, nil, nil); err != nil {
		return fmt.Errorf("pinging server: %w", err)
	}
	return nil
}

// peerURL is the websocket url to join the room at the address of its host with the token.
func peerURL(address, token string) (string, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("parsing address of host: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return "", fmt.Errorf("address of host must be a ws or wss url, got %q", address)
	}
	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do sends a request to the path of the server and reads the json response into the data.
// The form is sent as the body of the request if it is not nil.
// No response is read if the data is nil.
func (c *client) do(ctx context.Context, method, path, token string, form url.Values, data interface{}) error {
	u := *c.serverURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if len(token) != 0 {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
	default:
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%v: %v", resp.Status, strings.TrimSpace(string(text)))
	}
	if data == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	return nil
}
