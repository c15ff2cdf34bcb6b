// Package server runs the http server which allows players to open websockets to play the game.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jacobpatterson1549/wibble/db/points"
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/certificate"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/jacobpatterson1549/wibble/server/peer"
)

type (
	// Server runs the site.
	Server struct {
		log        log.Logger
		tokenizer  Tokenizer
		lobby      Lobby
		peers      Peers
		pointsDao  PointsDao
		httpServer *http.Server
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port for server http requests.
		Port int
		// StopDur is the amount of time the server waits for requests to finish when it stops.
		StopDur time.Duration
		// RequestTimeout is the amount of time requests that are not websockets can take.
		RequestTimeout time.Duration
		// LeaderboardSize is the default number of players shown on the leaderboard.
		LeaderboardSize int
		// Rules are the rules of the rooms of the server.
		Rules game.Config
		// Challenge is used to answer requests from certificate authorities.
		Challenge certificate.Challenge
	}

	// Parameters contains the interfaces needed to create a new server.
	Parameters struct {
		Log       log.Logger
		Tokenizer Tokenizer
		Lobby     Lobby
		Peers     Peers
		PointsDao PointsDao
	}

	// Tokenizer creates and reads tokens that identify players.
	Tokenizer interface {
		Create(p player.Player) (string, error)
		Read(tokenString string) (*player.Player, error)
	}

	// Lobby is the place players connect to rooms the server holds the authority of.
	Lobby interface {
		Run(ctx context.Context)
		AddUser(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error
	}

	// Peers lists the addresses of the players that host rooms.
	Peers interface {
		Register(hostID player.ID, name, address string) (*peer.Listing, error)
		Lookup(id game.ID) (*peer.Listing, error)
		Refresh(id game.ID, hostID player.ID) (*peer.Listing, error)
		Remove(id game.ID, hostID player.ID) error
	}

	// PointsDao reads the points players have scored.
	PointsDao interface {
		Top(ctx context.Context, n int) ([]points.Total, error)
	}

	contextKey int
)

const (
	// HeaderContentType is used to set the document type header on http responses.
	HeaderContentType = "Content-Type"
	// HeaderCacheControl is used to tell browsers how long to cache http responses.
	HeaderCacheControl = "Cache-Control"
	// HeaderAuthorization holds the bearer token of the player.
	HeaderAuthorization = "Authorization"

	// playerContextKey is used to store the player of the token in the request context.
	playerContextKey contextKey = iota
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	s := Server{
		log:       p.Log,
		tokenizer: p.Tokenizer,
		lobby:     p.Lobby,
		peers:     p.Peers,
		pointsDao: p.PointsDao,
		Config:    cfg,
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.routes(),
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(p Parameters) error {
	switch {
	case p.Log == nil:
		return fmt.Errorf("log required")
	case p.Tokenizer == nil:
		return fmt.Errorf("tokenizer required")
	case p.Lobby == nil:
		return fmt.Errorf("lobby required")
	case p.Peers == nil:
		return fmt.Errorf("peers required")
	case p.PointsDao == nil:
		return fmt.Errorf("points dao required")
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	case cfg.RequestTimeout <= 0:
		return fmt.Errorf("request timeout duration required")
	case cfg.LeaderboardSize <= 0:
		return fmt.Errorf("positive leaderboard size required")
	}
	if err := cfg.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// routes creates the handler of the endpoints.
// Websocket endpoints are not timed out because they run until the socket is closed.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.RequestTimeout))
		r.Use(chimw.NoCache)
		r.Get("/", s.handleIndex)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/monitor", s.handleMonitor)
		r.Post("/player", s.handlePlayerCreate)
		if s.Challenge.Enabled() {
			r.Get(certificate.PathPrefix+"{token}", s.handleAcmeChallenge)
		}
		r.Group(func(r chi.Router) {
			r.Use(s.requirePlayer)
			r.Get("/player", s.handlePlayerGet)
			r.Post("/ping", s.handlePing)
			r.Post("/peer", s.handlePeerCreate)
			r.Get("/peer/{code}", s.handlePeerGet)
			r.Put("/peer/{code}", s.handlePeerRefresh)
			r.Delete("/peer/{code}", s.handlePeerDelete)
		})
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requirePlayer)
		r.Get("/lobby", s.handleLobby)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.httpError(w, http.StatusNotFound)
	})
	return r
}

// Run the server asynchronously until it receives a shutdown signal.
// When the HTTP server stops, the error is sent on the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	s.lobby.Run(ctx)
	s.httpServer.RegisterOnShutdown(cancelFunc)
	s.log.Printf("starting http server at http://127.0.0.1%v", s.httpServer.Addr)
	go func() {
		errC <- s.httpServer.ListenAndServe()
	}()
	return errC
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// An error is returned if the context times out.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// handleError logs and writes the error as an internal server error (500).
func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.log.Printf("server error: %v", err)
	s.httpError(w, http.StatusInternalServerError)
}

// httpError writes the error status code.
func (*Server) httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}
