package main

import (
	"context"
	crypto_rand "crypto/rand"
	"fmt"
	"math/rand"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/jacobpatterson1549/wibble/db/points"
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/game/word"
	gameController "github.com/jacobpatterson1549/wibble/server/game"
	"github.com/jacobpatterson1549/wibble/server/game/lobby"
	"github.com/jacobpatterson1549/wibble/server/game/socket"
	"github.com/jacobpatterson1549/wibble/server/game/socket/gorilla"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/jacobpatterson1549/wibble/server/peer"
)

// hostedRoom is a room that runs in this process for the peers that join it.
type hostedRoom struct {
	listing *peer.Listing
	// localURL is where the player of this process joins the room.
	localURL string
	errC     <-chan error
	unlisted <-chan struct{}
}

const (
	// listingRefreshPeriod is how often the listing of a hosted room is refreshed.  The server keeps listings for a few minutes.
	listingRefreshPeriod = 30 * time.Second
	// hostMaxQueue is the most messages that can wait between the sockets of the peers and the room.
	hostMaxQueue = 64
)

// hostRoom lists the room with the server and serves it to peers on the listen address.
// The listing is removed when the context is done or the room is empty.
func (f guestFlags) hostRoom(ctx context.Context, c *client, p *playerResponse, log *log.Zerolog) (*hostedRoom, error) {
	rules, err := f.rules()
	if err != nil {
		return nil, err
	}
	hostCfg, err := f.hostConfig(rules, log)
	if err != nil {
		return nil, err
	}
	pdCfg := points.DaoConfig{
		MaxTop: 1,
	}
	pd, err := pdCfg.NewDao(new(points.NoDatabaseBackend))
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", f.listen)
	if err != nil {
		return nil, fmt.Errorf("listening for peers: %w", err)
	}
	a, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		ln.Close()
		return nil, fmt.Errorf("listening for peers: not a tcp address: %v", ln.Addr())
	}
	l, err := c.createPeer(ctx, p.Token, f.roomName, f.address, a.Port)
	if err != nil {
		ln.Close()
		return nil, err
	}
	u := peer.Upgrader{
		Upgrader:      gorilla.NewUpgrader(),
		Rand:          crypto_rand.Reader,
		TimeFunc:      unixNow,
		HandshakeWait: f.connectTimeout,
	}
	h, err := hostCfg.NewHost(l.ID, l.Name, p.ID, rules, u, pd)
	if err != nil {
		ln.Close()
		if err2 := c.removePeer(ctx, p.Token, l.ID); err2 != nil {
			log.Errorf("%v", err2)
		}
		return nil, err
	}
	hr := hostedRoom{
		listing:  l,
		localURL: localURL(a),
		errC:     h.Serve(ctx, ln, c),
		unlisted: c.keepListed(ctx, p.Token, l.ID, listingRefreshPeriod, h.Done(), log),
	}
	return &hr, nil
}

// localURL is the websocket url that the host joins its own room with.
func localURL(a *net.TCPAddr) string {
	ip := a.IP
	if ip == nil || ip.IsUnspecified() {
		ip = net.IPv4(127, 0, 0, 1)
	}
	return "ws://" + net.JoinHostPort(ip.String(), strconv.Itoa(a.Port)) + "/"
}

func unixNow() int64 {
	return time.Now().UTC().Unix()
}

// rules creates the rules of games that this process runs.
func (f guestFlags) rules() (game.Config, error) {
	rules := game.DefaultConfig()
	rules.TotalRounds = f.rounds
	rules.TurnDuration = time.Duration(f.turnSeconds) * time.Second
	rules.TurnBased = f.turnBased
	if err := rules.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("creating rules: %w", err)
	}
	return rules, nil
}

// sessionConfig creates the configuration of games that this process runs.
// The words of the words file, if it is set, are added to the default words.
func (f guestFlags) sessionConfig(rules game.Config, log log.Logger) (*session.Config, error) {
	d, err := word.NewDefaultDictionary()
	if err != nil {
		return nil, fmt.Errorf("creating dictionary: %w", err)
	}
	if len(f.wordsFile) != 0 {
		file, err := os.Open(f.wordsFile)
		if err != nil {
			return nil, fmt.Errorf("trying to open words file: %w", err)
		}
		defer file.Close()
		if err := d.AddFrom(file); err != nil {
			return nil, fmt.Errorf("reading words file: %w", err)
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

// newSource creates a random source that a single game can use.
func newSource() board.Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// hostConfig creates the configuration to run a room for peers.
func (f guestFlags) hostConfig(rules game.Config, log *log.Zerolog) (*peer.HostConfig, error) {
	sessionCfg, err := f.sessionConfig(rules, log)
	if err != nil {
		return nil, err
	}
	roomCfg := gameController.RoomConfig{
		Debug:      f.debug,
		Log:        log.Component("room"),
		TimeFunc:   unixNow,
		TickPeriod: time.Second,
		IdlePeriod: 15 * time.Minute,
		Session:    *sessionCfg,
		NewSource:  newSource,
	}
	socketLog := log.Component("socket")
	socketCfg := socket.Config{
		Debug:          f.debug,
		Log:            socketLog,
		TimeFunc:       unixNow,
		ReadWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		PingPeriod:     54 * time.Second, // readWait * 0.9
		IdlePeriod:     15 * time.Minute,
		HTTPPingPeriod: 10 * time.Minute,
	}
	socketRunnerCfg := socket.RunnerConfig{
		Debug:        f.debug,
		Log:          socketLog,
		MaxSockets:   rules.MaxPlayers,
		SocketConfig: socketCfg,
	}
	lobbyCfg := lobby.Config{
		Debug:    f.debug,
		Log:      log.Component("lobby"),
		MaxQueue: hostMaxQueue,
	}
	cfg := peer.HostConfig{
		Debug:              f.debug,
		Log:                log.Component("host"),
		RoomConfig:         roomCfg,
		SocketRunnerConfig: socketRunnerCfg,
		LobbyConfig:        lobbyCfg,
	}
	return &cfg, nil
}
