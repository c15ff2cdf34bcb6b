// Package main joins or hosts rooms that peers play in, or plays solo games, from a terminal.
package main

import (
	"bufio"
	"context"
	crypto_rand "crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/game/word"
	"github.com/jacobpatterson1549/wibble/server/game/socket/gorilla"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/jacobpatterson1549/wibble/server/peer"
	"github.com/rs/zerolog"
)

// guestFlags are the options to join, host, or play a room with.
type guestFlags struct {
	serverURL      string
	name           string
	roomCode       string
	roomName       string
	host           bool
	solo           bool
	listen         string
	address        string
	wordsFile      string
	rounds         int
	turnSeconds    int
	turnBased      bool
	logLevel       string
	connectTimeout time.Duration
	debug          bool
}

// main joins or hosts a room and sends the commands typed on standard input until the room is left.
func main() {
	f, err := newGuestFlags(os.Args, os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	log, err := newConsoleLog(os.Stderr, f.level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating log: %v\n", err)
		os.Exit(1)
	}
	ctx, cancelFunc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancelFunc()
	if err := f.run(ctx, os.Stdin, os.Stdout, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// newGuestFlags parses the command line arguments.
func newGuestFlags(osArgs []string, output io.Writer) (*guestFlags, error) {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	var f guestFlags
	fs := flag.NewFlagSet("guest", flag.ContinueOnError)
	fs.SetOutput(output)
	defaultRules := game.DefaultConfig()
	fs.StringVar(&f.serverURL, "server", "http://127.0.0.1:8000", "The url of the server.")
	fs.StringVar(&f.name, "name", "", "The name other players see.")
	fs.StringVar(&f.roomCode, "room", "", "The code of the room to join.")
	fs.StringVar(&f.roomName, "room-name", "", "The name of the room to host.")
	fs.BoolVar(&f.host, "host", false, "Hosts a new room in this process instead of joining one.")
	fs.BoolVar(&f.solo, "solo", false, "Plays a game alone without a server.")
	fs.StringVar(&f.listen, "listen", ":8001", "The address to accept peers on when hosting a room.")
	fs.StringVar(&f.address, "address", "", "The websocket url that peers join the hosted room with.  The server uses the address the host connects from if empty.")
	fs.StringVar(&f.wordsFile, "words-file", "", "A list of valid lower-case words to add to the words that come with the game when hosting or playing alone.")
	fs.IntVar(&f.rounds, "rounds", defaultRules.TotalRounds, "The number of rounds in games that are hosted or played alone.")
	fs.IntVar(&f.turnSeconds, "turn-seconds", int(defaultRules.TurnDuration/time.Second), "The length of each turn in seconds.")
	fs.BoolVar(&f.turnBased, "turn-based", false, "Causes players of hosted rooms to take turns instead of playing at the same time.")
	fs.StringVar(&f.logLevel, "log-level", "", "The least important level of events to log, such as debug or info.")
	fs.DurationVar(&f.connectTimeout, "connect-timeout", 10*time.Second, "The amount of time joining a room can take.")
	fs.BoolVar(&f.debug, "debug", false, "Logs the types of messages that are read.  The log level is debug unless another level is set.")
	if err := fs.Parse(osArgs[1:]); err != nil {
		return nil, err
	}
	var err error
	switch {
	case len(f.name) == 0:
		err = errors.New("name required")
	case f.solo && (f.host || len(f.roomCode) != 0):
		err = errors.New("solo games cannot host or join rooms")
	case !f.solo && f.host == (len(f.roomCode) != 0):
		err = errors.New("either host a room or set the code of a room to join")
	}
	if err != nil {
		fmt.Fprintln(output, err)
		return nil, err
	}
	return &f, nil
}

// level is the least important level of events to log.
// Debugging logs debug events if no level is set.
func (f guestFlags) level() string {
	if f.debug && len(f.logLevel) == 0 {
		return "debug"
	}
	return f.logLevel
}

// newConsoleLog creates a log that writes human readable events.
func newConsoleLog(w io.Writer, level string) (*log.Zerolog, error) {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	return log.NewZerolog(cw, level)
}

// run joins the room and passes messages between the terminal and the host until the room is left or the context is done.
// The room runs in this process when it is hosted.
func (f guestFlags) run(ctx context.Context, in io.Reader, out io.Writer, log *log.Zerolog) error {
	if f.solo {
		return f.runSolo(ctx, in, out, log)
	}
	httpClient := http.Client{
		Timeout: f.connectTimeout,
	}
	c, err := newClient(&httpClient, f.serverURL)
	if err != nil {
		return err
	}
	p, err := c.createPlayer(ctx, f.name)
	if err != nil {
		return err
	}
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	var id game.ID
	var address string
	var hostErrC <-chan error
	if f.host {
		hr, err := f.hostRoom(ctx, c, p, log)
		if err != nil {
			return err
		}
		defer func() {
			cancelFunc()
			<-hr.unlisted
		}()
		id, address, hostErrC = hr.listing.ID, hr.localURL, hr.errC
		fmt.Fprintf(out, "hosting room %v at %v, share the code with other players\n", id, hr.listing.Address)
	} else {
		if id, err = game.ParseID(f.roomCode); err != nil {
			return err
		}
		l, err := c.lookupPeer(ctx, p.Token, id)
		if err != nil {
			return err
		}
		address = l.Address
	}
	u, err := peerURL(address, p.Token)
	if err != nil {
		return err
	}
	cfg, err := f.guestConfig(log)
	if err != nil {
		return err
	}
	self := player.Player{
		ID:   p.ID,
		Name: p.Name,
	}
	g, err := cfg.Join(ctx, u, nil, id, self)
	if err != nil {
		return err
	}
	defer g.Close()
	writeInfo(out, g.Info())
	fmt.Fprintln(out, commandHelp)
	hostMessages := g.Run(ctx)
	lines := readLines(ctx, in)
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return nil
		case err := <-hostErrC:
			if err != nil {
				return fmt.Errorf("hosting room %v: %w", id, err)
			}
			return nil
		case m, ok := <-hostMessages:
			if !ok {
				return nil
			}
			f.handleHostMessage(ctx, m, c, p.Token, g, out, log)
			if m.Type == message.LeaveRoom {
				return nil
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			f.handleLine(line, g, out)
		}
	}
}

// guestConfig creates the configuration to join rooms with.
// The view of the room never checks words, so it has an empty dictionary.
func (f guestFlags) guestConfig(log *log.Zerolog) (*peer.GuestConfig, error) {
	d, err := word.NewDictionary(strings.NewReader(""))
	if err != nil {
		return nil, err
	}
	cfg := peer.GuestConfig{
		Debug:          f.debug,
		Log:            log,
		Dialer:         gorilla.NewDialer(f.connectTimeout),
		Rand:           crypto_rand.Reader,
		ConnectTimeout: f.connectTimeout,
		Session: session.Config{
			Rules:      game.DefaultConfig(),
			Dictionary: d,
			Source:     newSource(),
		},
	}
	return &cfg, nil
}

// handleHostMessage writes the message from the host.  Pings are answered with http requests.
func (f guestFlags) handleHostMessage(ctx context.Context, m message.Message, c *client, token string, g *peer.Guest, out io.Writer, log *log.Zerolog) {
	switch m.Type {
	case message.SocketHTTPPing:
		if err := c.ping(ctx, token); err != nil {
			log.Errorf("%v", err)
		}
		return
	case message.GameStarted, message.RoundStarted, message.TurnStarted, message.GameEnded:
		defer writeInfo(out, g.Info())
	}
	if s := describe(m); len(s) != 0 {
		fmt.Fprintln(out, s)
	}
}

// handleLine sends the command on the line to the host.
func (f guestFlags) handleLine(line string, g *peer.Guest, out io.Writer) {
	m, err := parseCommand(line)
	switch {
	case err != nil:
		fmt.Fprintln(out, err)
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintln(out, commandHelp)
		}
	case m == nil:
		switch strings.TrimSpace(line) {
		case "":
			return
		case "help":
			fmt.Fprintln(out, commandHelp)
			return
		}
		writeInfo(out, g.Info())
	default:
		if err := g.Send(*m); err != nil {
			fmt.Fprintln(out, err)
		}
	}
}

// readLines sends the lines of the reader on the returned channel, which is closed at the end of the reader.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case lines <- scanner.Text():
			}
		}
	}()
	return lines
}
