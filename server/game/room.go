// Package game runs the authoritative sessions of rooms that players connect to.
package game

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Room owns the only mutable copy of a game and handles the messages of its players one at a time.
	Room struct {
		id        game.ID
		name      string
		createdAt int64
		// startTime is when the game was started, in seconds since the unix epoch.
		startTime int64
		// duration is how long the game lasts, fixed when the game starts.
		duration time.Duration
		session  *session.Session
		lastInfo game.RoomInfo
		PointsDao
		RoomConfig
	}

	// RoomConfig contains the properties to create similar rooms.
	RoomConfig struct {
		// Debug is a flag that causes the room to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used for the created at timestamp and to end games.
		TimeFunc func() int64
		// TickPeriod is how often the turn timer counts down.
		TickPeriod time.Duration
		// IdlePeriod is the amount of time that can pass between player messages before the room is idle and will close itself.
		IdlePeriod time.Duration
		// Session is used to create the game of the room.
		Session session.Config
		// NewSource creates the random source of the board of each room, replacing the source of the session config.
		// Sources are not safe to share between rooms.
		NewSource func() board.Source
	}

	// PointsDao makes changes to the stored points of players.
	PointsDao interface {
		// UpdatePointsIncrement adds the points to the totals of the players with the names.
		UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error
	}
)

// NewRoom creates a room with the rules.  The player sending the first message to the room hosts it.
func (cfg RoomConfig) NewRoom(id game.ID, name string, rules game.Config, pd PointsDao) (*Room, error) {
	if err := cfg.validate(id, pd); err != nil {
		return nil, fmt.Errorf("creating room: validation: %w", err)
	}
	sessionCfg := cfg.Session
	sessionCfg.Rules = rules
	if cfg.NewSource != nil {
		sessionCfg.Source = cfg.NewSource()
	}
	s, err := sessionCfg.New()
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}
	r := Room{
		id:         id,
		name:       name,
		createdAt:  cfg.TimeFunc(),
		session:    s,
		PointsDao:  pd,
		RoomConfig: cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RoomConfig) validate(id game.ID, pd PointsDao) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case len(id) == 0:
		return fmt.Errorf("id required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case pd == nil:
		return fmt.Errorf("points dao required")
	case cfg.TickPeriod <= 0:
		return fmt.Errorf("positive tick period required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	}
	return nil
}

// Run handles messages for the room on a new goroutine until the context is done, the "in" channel is closed, or the room is idle.
// Messages for players are sent on the "out" channel, which is shared by other rooms.
func (r *Room) Run(ctx context.Context, in <-chan message.Message, out chan<- message.Message) {
	tickTicker := time.NewTicker(r.TickPeriod)
	idleTicker := time.NewTicker(r.IdlePeriod)
	active := false
	go func() {
		defer tickTicker.Stop()
		defer idleTicker.Stop()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleMessage(ctx, m, out)
				active = true
			case <-tickTicker.C:
				r.handleTick(ctx, out)
			case <-idleTicker.C:
				if !active {
					r.Log.Printf("closing room %v due to inactivity", r.id)
					r.close(ctx, "room closed due to inactivity", out)
					return
				}
				active = false
			}
		}
	}()
}

// handleMessage applies the message from a player to the game and sends the results to the players.
func (r *Room) handleMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	if r.Debug {
		log.Debugf(r.Log, "room %v reading message with type %v", r.id, m.Type)
	}
	e, err := r.event(m)
	var o *session.Outcome
	if err == nil {
		o, err = r.session.Handle(e)
	}
	if err != nil {
		r.sendError(ctx, err, m.PlayerID, out)
		if m.Type == message.CreateRoom || m.Type == message.JoinRoom {
			// the runner must be told that the player is not in the room
			r.kick(ctx, m.PlayerID, err.Error(), out)
		}
		r.sendInfoChanged(ctx, out)
		return
	}
	r.handleOutcome(ctx, m, o, out)
	r.sendInfoChanged(ctx, out)
}

// event converts the message into an event for the session.
func (r *Room) event(m message.Message) (session.Event, error) {
	p := player.Player{
		ID:   m.PlayerID,
		Name: m.PlayerName,
	}
	switch m.Type {
	case message.CreateRoom:
		return session.HostGame{ID: r.id, Name: r.name, Player: p}, nil
	case message.JoinRoom:
		return session.AddPlayer{Player: p}, nil
	case message.LeaveRoom, message.PlayerRemove:
		return session.Leave{Player: m.PlayerID}, nil
	case message.ToggleReady:
		return session.ToggleReady{Player: m.PlayerID}, nil
	case message.StartGame:
		return session.Start{Player: m.PlayerID}, nil
	case message.AddLetter:
		if m.Position == nil {
			return nil, fmt.Errorf("position required: %w", game.ErrInvalidTileLocation)
		}
		return session.AddLetter{Player: m.PlayerID, Position: *m.Position}, nil
	case message.RemoveLetter:
		return session.RemoveLetter{Player: m.PlayerID}, nil
	case message.SubmitWord:
		return session.StopChaining{Player: m.PlayerID}, nil
	case message.UseShuffle:
		return session.UseShuffle{Player: m.PlayerID}, nil
	case message.UseReplaceTile:
		if m.Position == nil {
			return nil, fmt.Errorf("position required: %w", game.ErrInvalidTileLocation)
		}
		ch, _ := utf8.DecodeRuneInString(m.Letter)
		if utf8.RuneCountInString(m.Letter) != 1 {
			return nil, fmt.Errorf("single letter required: %w", game.ErrInvalidLetter)
		}
		return session.UseReplaceTile{Player: m.PlayerID, Position: *m.Position, Letter: ch}, nil
	}
	return nil, fmt.Errorf("room does not know how to handle message type %v", m.Type)
}

// handleOutcome sends messages about the changes to the game to the players.
func (r *Room) handleOutcome(ctx context.Context, m message.Message, o *session.Outcome, out chan<- message.Message) {
	switch m.Type {
	case message.CreateRoom:
		r.sendGame(ctx, message.RoomJoined, m.PlayerID, out)
		return
	case message.JoinRoom:
		r.handleJoined(ctx, m, out)
		return
	case message.LeaveRoom, message.PlayerRemove:
		r.handleLeft(ctx, m, o, out)
		return
	case message.ToggleReady:
		p, _ := r.session.Player(m.PlayerID)
		r.sendAll(ctx, message.Message{Type: message.PlayerReady, Player: &p}, out)
		return
	case message.StartGame:
		r.handleStarted(ctx, m, o, out)
		return
	}
	if o.Rejection != nil {
		r.send(ctx, message.Message{Type: message.SocketWarning, PlayerID: m.PlayerID, Info: o.Rejection.Error()}, out)
	}
	r.send(ctx, message.Message{Type: message.ChainUpdated, PlayerID: m.PlayerID, Chain: o.Chain}, out)
	if o.Submission != nil {
		r.sendAll(ctx, message.Message{Type: message.WordSubmitted, Submission: o.Submission}, out)
	}
	if o.PowerUpUsed {
		p, _ := r.session.Player(m.PlayerID)
		pm := message.Message{
			Type:   message.PowerUpUsed,
			Player: &p,
			Info:   fmt.Sprintf("%v used %v", p.Name, powerUpName(m.Type)),
		}
		r.sendAll(ctx, pm, out)
	}
	if o.BoardChanged || o.RosterChanged {
		r.sendGameUpdated(ctx, out)
	}
}

// handleJoined sends the room to the player that joined it and tells the other players about the new player.
func (r *Room) handleJoined(ctx context.Context, m message.Message, out chan<- message.Message) {
	r.sendGame(ctx, message.RoomJoined, m.PlayerID, out)
	p, _ := r.session.Player(m.PlayerID)
	info := r.session.Info()
	for _, p2 := range r.session.Players() {
		if p2.ID == m.PlayerID {
			continue
		}
		r.send(ctx, message.Message{Type: message.PlayerJoined, PlayerID: p2.ID, Player: &p}, out)
		r.send(ctx, message.Message{Type: message.RoomUpdated, PlayerID: p2.ID, Game: &info}, out)
	}
}

// handleLeft tells the player that left and the remaining players about the change.
// The round ends if the player that left had the last turn of it.
func (r *Room) handleLeft(ctx context.Context, m message.Message, o *session.Outcome, out chan<- message.Message) {
	if m.Type == message.LeaveRoom {
		r.send(ctx, message.Message{Type: message.LeaveRoom, PlayerID: m.PlayerID, Info: "left room"}, out)
	}
	if len(r.session.Players()) == 0 {
		return
	}
	p := player.Player{
		ID:   m.PlayerID,
		Name: m.PlayerName,
	}
	r.sendAll(ctx, message.Message{Type: message.PlayerLeft, Player: &p}, out)
	switch r.session.Phase() {
	case game.Play:
		r.sendGameUpdated(ctx, out)
		switch {
		case o.RoundEnded:
			r.handleTimerOutcome(ctx, o, nil, out)
		case o.TurnStarted:
			r.sendTurnStarted(ctx, out)
		}
	default:
		info := r.session.Info()
		r.sendAll(ctx, message.Message{Type: message.RoomUpdated, Game: &info}, out)
	}
}

// handleStarted sends the first board to the players.  The game ends when its duration has passed since now.
func (r *Room) handleStarted(ctx context.Context, m message.Message, o *session.Outcome, out chan<- message.Message) {
	r.startTime = r.TimeFunc()
	r.duration = r.session.Duration()
	info := r.session.Info()
	info.StartTime = r.startTime
	pn := m.PlayerName
	r.sendAll(ctx, message.Message{Type: message.GameStarted, Game: &info, Info: fmt.Sprintf("%v started the game", pn)}, out)
	if o.TurnStarted {
		r.sendTurnStarted(ctx, out)
	}
}

// handleTick counts down the turn and ends the game when its time is up.
func (r *Room) handleTick(ctx context.Context, out chan<- message.Message) {
	if r.session.Phase() != game.Play {
		return
	}
	if elapsed := r.TimeFunc() - r.startTime; time.Duration(elapsed)*time.Second >= r.duration {
		o, err := r.session.Handle(session.EndGame{})
		r.handleTimerOutcome(ctx, o, err, out)
		return
	}
	o, err := r.session.Handle(session.TimerTick{})
	r.handleTimerOutcome(ctx, o, err, out)
}

// handleTimerOutcome sends messages about the turn and round changes of a timer event.
// Rounds that end are followed by the next round immediately.
func (r *Room) handleTimerOutcome(ctx context.Context, o *session.Outcome, err error, out chan<- message.Message) {
	if err != nil {
		r.Log.Printf("room %v timer: %v", r.id, err)
		return
	}
	if o.RoundEnded {
		info := session.Info{
			Round:       r.session.Round(),
			Players:     r.session.Players(),
			RoundScores: r.session.RoundScores(),
		}
		r.sendAll(ctx, message.Message{Type: message.RoundEnded, Game: &info}, out)
		o, err = r.session.Handle(session.StartNextRound{})
		if err != nil {
			r.Log.Printf("room %v starting next round: %v", r.id, err)
			return
		}
	}
	switch {
	case o.GameOver:
		r.handleGameOver(ctx, out)
		r.sendInfoChanged(ctx, out)
		return
	case o.RoundStarted:
		info := r.session.Info()
		info.StartTime = r.startTime
		r.sendAll(ctx, message.Message{Type: message.RoundStarted, Game: &info}, out)
	}
	if o.TurnStarted {
		r.sendTurnStarted(ctx, out)
	}
	info := session.Info{
		TimeLeft: r.session.TimeLeft(),
	}
	r.sendAll(ctx, message.Message{Type: message.TimerUpdated, Game: &info}, out)
}

// handleGameOver sends the final scores and winner to the players and saves the points they scored.
func (r *Room) handleGameOver(ctx context.Context, out chan<- message.Message) {
	players := r.session.Players()
	info := session.Info{
		Phase:   game.GameOver,
		Players: players,
		Winner:  r.session.Winner(),
	}
	text := "game over"
	if w := info.Winner; w != nil {
		text = fmt.Sprintf("game over: %v won with %v points", w.Name, w.Score)
	}
	playerPoints := make(map[string]int, len(players))
	for _, p := range players {
		playerPoints[string(p.Name)] = p.Score
	}
	if err := r.PointsDao.UpdatePointsIncrement(ctx, playerPoints); err != nil {
		r.Log.Printf("room %v saving points: %v", r.id, err)
		text += ", but points could not be saved"
	}
	r.sendAll(ctx, message.Message{Type: message.GameEnded, Game: &info, Info: text}, out)
}

// close removes all players from the room.
func (r *Room) close(ctx context.Context, reason string, out chan<- message.Message) {
	for _, p := range r.session.Players() {
		r.kick(ctx, p.ID, reason, out)
		if _, err := r.session.Handle(session.Leave{Player: p.ID}); err != nil {
			r.Log.Printf("room %v removing %v: %v", r.id, p.ID, err)
		}
	}
	r.sendInfoChanged(ctx, out)
}

// sendGame sends a snapshot of the game to the player.
func (r *Room) sendGame(ctx context.Context, t message.Type, pID player.ID, out chan<- message.Message) {
	info := r.session.Info()
	if r.session.Phase() == game.Play {
		info.StartTime = r.startTime
	}
	r.send(ctx, message.Message{Type: t, PlayerID: pID, Game: &info}, out)
}

// sendGameUpdated sends the board and scores to all players.
func (r *Room) sendGameUpdated(ctx context.Context, out chan<- message.Message) {
	b := r.session.Board()
	info := session.Info{
		Board:   &b,
		Players: r.session.Players(),
	}
	r.sendAll(ctx, message.Message{Type: message.GameUpdated, Game: &info}, out)
}

// sendTurnStarted tells the players whose turn it is.
func (r *Room) sendTurnStarted(ctx context.Context, out chan<- message.Message) {
	cp, ok := r.session.CurrentPlayer()
	if !ok {
		return
	}
	info := session.Info{
		CurrentPlayer: cp.ID,
		TimeLeft:      r.session.TimeLeft(),
	}
	r.sendAll(ctx, message.Message{Type: message.TurnStarted, Game: &info, Info: fmt.Sprintf("%v's turn", cp.Name)}, out)
}

// sendInfoChanged tells the runner about changes to the summary of the room.
// A summary without players means the room can be deleted.
func (r *Room) sendInfoChanged(ctx context.Context, out chan<- message.Message) {
	i := r.session.RoomInfo()
	i.ID = r.id
	i.Name = r.name
	i.CreatedAt = r.createdAt
	if i == r.lastInfo {
		return
	}
	r.lastInfo = i
	m := message.Message{
		Type:  message.RoomList,
		Rooms: []game.RoomInfo{i},
	}
	r.send(ctx, m, out)
}

// sendError reports the error to the player.  Errors that are not caused by the player are also logged.
func (r *Room) sendError(ctx context.Context, err error, pID player.ID, out chan<- message.Message) {
	t := message.SocketWarning
	if !game.IsWarning(err) {
		t = message.SocketError
		r.Log.Printf("room %v error for player %v: %v", r.id, pID, err)
	}
	r.send(ctx, message.Message{Type: t, PlayerID: pID, Info: err.Error()}, out)
}

// kick tells the runner and the player that the player is not in the room.
func (r *Room) kick(ctx context.Context, pID player.ID, reason string, out chan<- message.Message) {
	r.send(ctx, message.Message{Type: message.LeaveRoom, PlayerID: pID, Info: reason}, out)
}

// sendAll sends a copy of the message to each player in the room.
func (r *Room) sendAll(ctx context.Context, m message.Message, out chan<- message.Message) {
	for _, p := range r.session.Players() {
		m.PlayerID = p.ID
		r.send(ctx, m, out)
	}
}

// send adds the room id to the message before sending it on the out channel.
func (r *Room) send(ctx context.Context, m message.Message, out chan<- message.Message) {
	m.RoomID = r.id
	message.Send(ctx, m, out, r.Debug, r.Log)
}

// powerUpName is the display name of the ability the message type uses.
func powerUpName(t message.Type) string {
	switch t {
	case message.UseShuffle:
		return "shuffle"
	case message.UseReplaceTile:
		return "replace tile"
	}
	return "a power up"
}
