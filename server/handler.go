package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/peer"
)

type (
	// playerResponse is the identity of a player and the token they use to prove it.
	// Tokens are only sent when they are created.
	playerResponse struct {
		ID    player.ID   `json:"id"`
		Name  player.Name `json:"name"`
		Token string      `json:"token,omitempty"`
	}

	// indexResponse describes the game.
	indexResponse struct {
		Name  string   `json:"name"`
		Rules []string `json:"rules"`
	}
)

const (
	// accessTokenParam is the query parameter for tokens on websocket requests, which cannot have headers from browsers.
	accessTokenParam = "access_token"
	bearerPrefix     = "Bearer "
)

// handleIndex writes the rules of the rooms of the server.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexResponse{
		Name:  "wibble",
		Rules: s.Rules.Rules(),
	}
	s.writeJSON(w, data)
}

// handlePlayerCreate creates a token for the player with the name.
// Players that already have a valid token keep their id.
func (s *Server) handlePlayerCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.httpError(w, http.StatusBadRequest)
		return
	}
	name, err := player.NewName(r.FormValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := player.NewID()
	if tokenString, ok := requestToken(r); ok {
		if p, err := s.tokenizer.Read(tokenString); err == nil {
			id = p.ID
		}
	}
	p := player.Player{
		ID:   id,
		Name: name,
	}
	token, err := s.tokenizer.Create(p)
	if err != nil {
		s.handleError(w, fmt.Errorf("creating player token: %w", err))
		return
	}
	data := playerResponse{
		ID:    p.ID,
		Name:  p.Name,
		Token: token,
	}
	s.writeJSON(w, data)
}

// handlePing confirms the token of the player is still valid.
func (*Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// handleLobby opens a websocket to the lobby for the player.
func (s *Server) handleLobby(w http.ResponseWriter, r *http.Request) {
	p := requestPlayer(r)
	if err := s.lobby.AddUser(r.Context(), p.ID, p.Name, w, r); err != nil {
		s.log.Printf("websocket error: %v", err)
		// the upgrader writes the http error response
	}
}

// handlePlayerGet writes the player of the token.  Hosts use it to check the tokens of their peers.
func (s *Server) handlePlayerGet(w http.ResponseWriter, r *http.Request) {
	p := requestPlayer(r)
	data := playerResponse{
		ID:   p.ID,
		Name: p.Name,
	}
	s.writeJSON(w, data)
}

// handlePeerCreate lists a room that the player hosts.
// Hosts that only know their port are listed at the address the request came from.
func (s *Server) handlePeerCreate(w http.ResponseWriter, r *http.Request) {
	p := requestPlayer(r)
	roomName := strings.TrimSpace(r.FormValue("name"))
	if len(roomName) == 0 {
		roomName = string(p.Name) + "'s room"
	}
	address := strings.TrimSpace(r.FormValue("address"))
	if len(address) == 0 {
		a, err := remoteAddress(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		address = a
	}
	l, err := s.peers.Register(p.ID, roomName, address)
	switch {
	case errors.Is(err, peer.ErrInvalidAddress):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, peer.ErrTooManyHosts):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		s.handleError(w, fmt.Errorf("listing peer host: %w", err))
		return
	}
	s.writeJSON(w, l)
}

// handlePeerGet writes the address of the host of the room.
func (s *Server) handlePeerGet(w http.ResponseWriter, r *http.Request) {
	id, err := game.ParseID(chi.URLParam(r, "code"))
	if err != nil {
		s.httpError(w, http.StatusNotFound)
		return
	}
	l, err := s.peers.Lookup(id)
	if err != nil {
		s.peerError(w, err)
		return
	}
	s.writeJSON(w, l)
}

// handlePeerRefresh keeps the room of the host listed.
func (s *Server) handlePeerRefresh(w http.ResponseWriter, r *http.Request) {
	id, err := game.ParseID(chi.URLParam(r, "code"))
	if err != nil {
		s.httpError(w, http.StatusNotFound)
		return
	}
	p := requestPlayer(r)
	l, err := s.peers.Refresh(id, p.ID)
	if err != nil {
		s.peerError(w, err)
		return
	}
	s.writeJSON(w, l)
}

// handlePeerDelete stops listing the room of the host.
func (s *Server) handlePeerDelete(w http.ResponseWriter, r *http.Request) {
	id, err := game.ParseID(chi.URLParam(r, "code"))
	if err != nil {
		s.httpError(w, http.StatusNotFound)
		return
	}
	p := requestPlayer(r)
	if err := s.peers.Remove(id, p.ID); err != nil {
		s.peerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// peerError writes the status code of an error from the listings of peers.
func (s *Server) peerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrPeerUnavailable):
		s.httpError(w, http.StatusNotFound)
	case errors.Is(err, game.ErrNotHost):
		s.httpError(w, http.StatusForbidden)
	default:
		s.handleError(w, err)
	}
}

// remoteAddress is the websocket url of the port form value at the address of the request.
func remoteAddress(r *http.Request) (string, error) {
	port, err := strconv.Atoi(r.FormValue("port"))
	if err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("address or port of host required")
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr // the real ip middleware removes the port
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/",
	}
	return u.String(), nil
}

// handleLeaderboard writes the players with the most points.
// The n query parameter can request fewer players than the default size.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := s.LeaderboardSize
	if q := r.URL.Query().Get("n"); len(q) != 0 {
		i, err := strconv.Atoi(q)
		if err != nil || i < 1 {
			s.httpError(w, http.StatusBadRequest)
			return
		}
		if i < n {
			n = i
		}
	}
	totals, err := s.pointsDao.Top(r.Context(), n)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, totals)
}

// handleAcmeChallenge answers the challenge of the certificate authority.
func (s *Server) handleAcmeChallenge(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := s.Challenge.Handle(w, token); err != nil {
		s.log.Printf("acme challenge: %v", err)
		s.httpError(w, http.StatusNotFound)
	}
}

// requirePlayer is middleware that ensures the request has a valid token.
// The player of the token is added to the context of the request.
func (s *Server) requirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := requestToken(r)
		if !ok {
			s.httpError(w, http.StatusUnauthorized)
			return
		}
		p, err := s.tokenizer.Read(tokenString)
		if err != nil {
			s.log.Printf("reading token: %v", err)
			s.httpError(w, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), playerContextKey, *p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestToken reads the bearer token from the authorization header or the access token query parameter.
func requestToken(r *http.Request) (string, bool) {
	if a := r.Header.Get(HeaderAuthorization); strings.HasPrefix(a, bearerPrefix) {
		return a[len(bearerPrefix):], true
	}
	if t := r.URL.Query().Get(accessTokenParam); len(t) != 0 {
		return t, true
	}
	return "", false
}

// requestPlayer is the player that requirePlayer added to the request.
func requestPlayer(r *http.Request) player.Player {
	p, _ := r.Context().Value(playerContextKey).(player.Player)
	return p
}

// writeJSON writes the data as json.
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set(HeaderContentType, "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.handleError(w, fmt.Errorf("writing json: %w", err))
	}
}
