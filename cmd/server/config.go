package main

import (
	"context"
	crypto_rand "crypto/rand"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/jacobpatterson1549/wibble/db/points"
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/game/word"
	"github.com/jacobpatterson1549/wibble/server"
	"github.com/jacobpatterson1549/wibble/server/auth"
	"github.com/jacobpatterson1549/wibble/server/certificate"
	gameController "github.com/jacobpatterson1549/wibble/server/game"
	"github.com/jacobpatterson1549/wibble/server/game/lobby"
	"github.com/jacobpatterson1549/wibble/server/game/socket"
	"github.com/jacobpatterson1549/wibble/server/game/socket/gorilla"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/jacobpatterson1549/wibble/server/peer"
)

const (
	leaderboardSize = 10
	// maxQueue is the most messages that can wait between the sockets and rooms of a lobby.
	maxQueue = 256
	// peerListingTTL is how long the rooms of peers are listed after their hosts last refresh them.
	peerListingTTL = 2 * time.Minute
)

// createServer creates the server and the components it runs.
func (m mainFlags) createServer(ctx context.Context, log *log.Zerolog, pb points.Backend) (*server.Server, error) {
	timeFunc := func() int64 {
		return time.Now().UTC().Unix()
	}
	tokenizerCfg := tokenizerConfig(m, crypto_rand.Reader, timeFunc)
	tokenizer, err := tokenizerCfg.NewTokenizer()
	if err != nil {
		return nil, fmt.Errorf("creating authentication tokenizer: %w", err)
	}
	pdCfg := points.DaoConfig{
		MaxTop: leaderboardSize,
	}
	pd, err := pdCfg.NewDao(pb)
	if err != nil {
		return nil, err
	}
	rules, err := m.rules()
	if err != nil {
		return nil, err
	}
	sessionCfg, err := sessionConfig(m, rules, log)
	if err != nil {
		return nil, err
	}
	roomCfg := roomConfig(m, log.Component("room"), sessionCfg, timeFunc)
	socketRunnerCfg := socketRunnerConfig(m, log.Component("socket"), timeFunc)
	socketRunner, err := socketRunnerCfg.NewRunner(gorilla.NewUpgrader())
	if err != nil {
		return nil, fmt.Errorf("creating socket runner: %w", err)
	}
	roomRunnerCfg := gameController.RunnerConfig{
		Debug:      m.debugGame,
		Log:        log.Component("rooms"),
		MaxRooms:   m.maxRooms,
		RoomConfig: roomCfg,
	}
	roomRunner, err := roomRunnerCfg.NewRunner(pd)
	if err != nil {
		return nil, fmt.Errorf("creating room runner: %w", err)
	}
	lobbyCfg := lobbyConfig(m, log.Component("lobby"))
	lobby, err := lobbyCfg.NewLobby(socketRunner, roomRunner)
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	directoryCfg := directoryConfig(m, log.Component("peer"), timeFunc)
	directory, err := directoryCfg.NewDirectory()
	if err != nil {
		return nil, fmt.Errorf("creating peer directory: %w", err)
	}
	c := certificate.Challenge{
		Token: m.challengeToken,
		Key:   m.challengeKey,
	}
	cfg := server.Config{
		Port:            m.port,
		StopDur:         time.Second,
		RequestTimeout:  10 * time.Second,
		LeaderboardSize: leaderboardSize,
		Rules:           rules,
		Challenge:       c,
	}
	p := server.Parameters{
		Log:       log.Component("server"),
		Tokenizer: tokenizer,
		Lobby:     lobby,
		Peers:     directory,
		PointsDao: pd,
	}
	return cfg.NewServer(p)
}

// rules creates the default rules of rooms.
func (m mainFlags) rules() (game.Config, error) {
	rules := game.DefaultConfig()
	rules.MaxPlayers = m.maxPlayers
	rules.TurnDuration = time.Duration(m.gameSeconds) * time.Second
	rules.TotalRounds = m.totalRounds
	rules.TurnsPerPlayer = m.turnsPerPlayer
	rules.TurnBased = m.turnBased
	if err := rules.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("creating rules: %w", err)
	}
	return rules, nil
}

// tokenizerConfig creates the configuration for authentication token reader/writer.
func tokenizerConfig(m mainFlags, keyReader io.Reader, timeFunc func() int64) auth.TokenizerConfig {
	cfg := auth.TokenizerConfig{
		KeyReader: keyReader,
		TimeFunc:  timeFunc,
		ValidSec:  int64(m.tokenValidSec),
	}
	return cfg
}

// sessionConfig creates the configuration of the games in rooms.
// The words of the words file, if it is set, are added to the default words.
func sessionConfig(m mainFlags, rules game.Config, log log.Logger) (*session.Config, error) {
	d, err := word.NewDefaultDictionary()
	if err != nil {
		return nil, fmt.Errorf("creating dictionary: %w", err)
	}
	if len(m.wordsFile) != 0 {
		if err := addWordsFile(d, m.wordsFile); err != nil {
			return nil, err
		}
	}
	log.Printf("dictionary has %v words", d.Len())
	cfg := session.Config{
		Rules:      rules,
		Dictionary: d,
		Source:     newSource(),
	}
	return &cfg, nil
}

// addWordsFile adds the words in the file to the dictionary.
func addWordsFile(d *word.Dictionary, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("trying to open words file: %w", err)
	}
	defer f.Close()
	if err := d.AddFrom(f); err != nil {
		return fmt.Errorf("reading words file: %w", err)
	}
	return nil
}

// newSource creates a random source that a single room can use.
func newSource() board.Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// roomConfig creates the base configuration for all rooms.
func roomConfig(m mainFlags, log log.Logger, sessionCfg *session.Config, timeFunc func() int64) gameController.RoomConfig {
	cfg := gameController.RoomConfig{
		Debug:      m.debugGame,
		Log:        log,
		TimeFunc:   timeFunc,
		TickPeriod: time.Second,
		IdlePeriod: 15 * time.Minute,
		Session:    *sessionCfg,
		NewSource:  newSource,
	}
	return cfg
}

// socketRunnerConfig creates the configuration for creating new sockets (each tab that is connected to the lobby).
func socketRunnerConfig(m mainFlags, log log.Logger, timeFunc func() int64) socket.RunnerConfig {
	socketCfg := socket.Config{
		Debug:          m.debugGame,
		Log:            log,
		TimeFunc:       timeFunc,
		ReadWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		PingPeriod:     54 * time.Second, // readWait * 0.9
		IdlePeriod:     15 * time.Minute,
		HTTPPingPeriod: 10 * time.Minute,
	}
	cfg := socket.RunnerConfig{
		Debug:        m.debugGame,
		Log:          log,
		MaxSockets:   m.maxRooms * m.maxPlayers,
		SocketConfig: socketCfg,
	}
	return cfg
}

// lobbyConfig creates the configuration for passing messages between sockets and rooms.
func lobbyConfig(m mainFlags, log log.Logger) lobby.Config {
	cfg := lobby.Config{
		Debug:    m.debugGame,
		Log:      log,
		MaxQueue: maxQueue,
	}
	return cfg
}

// directoryConfig creates the configuration for listing the rooms that peers host.
func directoryConfig(m mainFlags, log log.Logger, timeFunc func() int64) peer.DirectoryConfig {
	cfg := peer.DirectoryConfig{
		Log:      log,
		MaxHosts: m.maxHosts,
		TTL:      peerListingTTL,
		TimeFunc: timeFunc,
	}
	return cfg
}
