package game

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Runner runs rooms.
	Runner struct {
		// rooms maps room ids to the channel each room listens to for incoming messages and the last summary of the room.
		rooms map[game.ID]roomHandle
		// playerRooms maps players to the room they are in.
		playerRooms map[player.ID]game.ID
		// roomOut is shared by all rooms to send messages to the runner.
		roomOut chan message.Message
		// the PointsDao increments player points when a game is finished.
		PointsDao
		// RunnerConfig contains configuration properties of the Runner.
		RunnerConfig
	}

	// RunnerConfig is used to create a room Runner.
	RunnerConfig struct {
		// Debug is a flag that causes the runner to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// MaxRooms is the maximum number of rooms.
		MaxRooms int
		// RoomConfig is used to create new rooms.
		RoomConfig RoomConfig
		// IDReader is the random source of room codes.  Crypto random bytes are used if nil.
		IDReader io.Reader
	}

	// roomHandle is how the runner talks to a room.
	roomHandle struct {
		in   chan<- message.Message
		info game.RoomInfo
		// removals are players leaving the room that are waiting for space in its inbox.
		removals []message.Message
	}
)

const (
	// roomInboxSize is the number of messages that can wait to be handled by a room.
	roomInboxSize = 32
	// newIDAttempts is the number of random room codes to try before giving up.
	newIDAttempts = 10
)

// NewRunner creates a new room runner from the config.
func (cfg RunnerConfig) NewRunner(pd PointsDao) (*Runner, error) {
	if err := cfg.validate(pd); err != nil {
		return nil, fmt.Errorf("creating room runner: validation: %w", err)
	}
	r := Runner{
		rooms:        make(map[game.ID]roomHandle, cfg.MaxRooms),
		playerRooms:  make(map[player.ID]game.ID),
		roomOut:      make(chan message.Message),
		PointsDao:    pd,
		RunnerConfig: cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RunnerConfig) validate(pd PointsDao) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case pd == nil:
		return fmt.Errorf("points dao required")
	case cfg.MaxRooms < 1:
		return fmt.Errorf("must be able to create at least one room")
	}
	return nil
}

// Run consumes messages from the "in" channel, processing them on a new goroutine until the "in" channel closes or the context is done.
// The messages of the rooms are sent on the "out" channel to be read by the subscriber.
// Messages without a player id are for all players.
func (r *Runner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	out := make(chan message.Message)
	go func() {
		defer close(out)
		defer r.closeRooms()
		for { // BLOCKING
			id, removal, roomIn := r.nextRemoval()
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handlePlayerMessage(ctx, m, out)
			case m := <-r.roomOut:
				r.handleRoomMessage(ctx, m, out)
			case roomIn <- removal:
				r.removalSent(id)
			}
		}
	}()
	return out
}

// handlePlayerMessage takes appropriate actions for different message types.
func (r *Runner) handlePlayerMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	if r.Debug {
		log.Debugf(r.Log, "room runner reading player message with type %v", m.Type)
	}
	var err error
	switch m.Type {
	case message.ListRooms:
		r.sendRoomList(ctx, m.PlayerID, out)
	case message.CreateRoom:
		err = r.createRoom(ctx, m)
	case message.JoinRoom:
		err = r.joinRoom(ctx, m)
	case message.LeaveRoom, message.PlayerRemove:
		err = r.leaveRoom(ctx, m)
	default:
		err = r.sendRoomMessage(ctx, m)
	}
	if err != nil {
		r.sendError(ctx, err, m.PlayerID, out)
	}
}

// handleRoomMessage updates the runner from room messages before sending them on.
func (r *Runner) handleRoomMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	switch {
	case m.Type == message.RoomList && len(m.PlayerID) == 0:
		r.updateRoomInfo(ctx, m, out)
		return
	case m.Type == message.LeaveRoom:
		if id, ok := r.playerRooms[m.PlayerID]; ok && id == m.RoomID {
			delete(r.playerRooms, m.PlayerID)
		}
	}
	r.send(ctx, m, out)
}

// createRoom allocates a new room, adding it to the open rooms.  The player sending the message hosts it.
func (r *Runner) createRoom(ctx context.Context, m message.Message) error {
	if id, ok := r.playerRooms[m.PlayerID]; ok {
		return fmt.Errorf("leave room %v before creating another: %w", id, game.ErrNotAllowed)
	}
	if len(r.rooms) >= r.MaxRooms {
		return fmt.Errorf("the maximum number of rooms have already been created (%v)", r.MaxRooms)
	}
	id, err := r.newID()
	if err != nil {
		return err
	}
	rules := r.RoomConfig.Session.Rules
	if m.Rules != nil {
		rules = *m.Rules
	}
	name := m.Info
	if len(name) == 0 {
		name = fmt.Sprintf("%v's room", m.PlayerName)
	}
	room, err := r.RoomConfig.NewRoom(id, name, rules, r.PointsDao)
	if err != nil {
		return fmt.Errorf("%v: %w", err, game.ErrNotAllowed)
	}
	in := make(chan message.Message, roomInboxSize)
	room.Run(ctx, in, r.roomOut) // all rooms publish to the same channel
	r.rooms[id] = roomHandle{
		in: in,
		info: game.RoomInfo{
			ID:        id,
			Name:      name,
			CreatedAt: room.createdAt,
		},
	}
	r.playerRooms[m.PlayerID] = id
	m.RoomID = id
	return r.sendRoomMessage(ctx, m)
}

// joinRoom adds the player to the room with the code in the message.
func (r *Runner) joinRoom(ctx context.Context, m message.Message) error {
	id, err := game.ParseID(string(m.RoomID))
	if err != nil {
		return err
	}
	room, ok := r.rooms[id]
	if !ok {
		return fmt.Errorf("%v: %w", id, game.ErrRoomNotFound)
	}
	if id2, ok := r.playerRooms[m.PlayerID]; ok && id2 != id {
		return fmt.Errorf("leave room %v before joining another: %w", id2, game.ErrNotAllowed)
	}
	if i := room.info; i.Phase != 0 && !i.CanJoin() { // the room has not summarized itself yet if it has no phase
		if !i.Phase.CanJoin() {
			return fmt.Errorf("%v: %w", id, game.ErrGameInProgress)
		}
		return fmt.Errorf("%v: %w", id, game.ErrRoomFull)
	}
	r.playerRooms[m.PlayerID] = id
	m.RoomID = id
	return r.sendRoomMessage(ctx, m)
}

// leaveRoom removes the player from the room they are in.
func (r *Runner) leaveRoom(ctx context.Context, m message.Message) error {
	if _, ok := r.playerRooms[m.PlayerID]; !ok {
		if m.Type == message.PlayerRemove {
			return nil
		}
		return fmt.Errorf("not in a room: %w", game.ErrNotAllowed)
	}
	err := r.sendRoomMessage(ctx, m)
	delete(r.playerRooms, m.PlayerID)
	return err
}

// sendRoomMessage passes the message to the room of the player that sent it.
// Rooms that are too busy to accept the message do not block the runner.
// Players leaving busy rooms are removed when the room has space for them.
func (r *Runner) sendRoomMessage(ctx context.Context, m message.Message) error {
	id, ok := r.playerRooms[m.PlayerID]
	if !ok {
		return fmt.Errorf("join a room first: %w", game.ErrRoomNotFound)
	}
	room, ok := r.rooms[id]
	if !ok {
		delete(r.playerRooms, m.PlayerID)
		return fmt.Errorf("%v: %w", id, game.ErrRoomNotFound)
	}
	m.RoomID = id
	if len(room.removals) == 0 {
		select {
		case room.in <- m:
			return nil
		default:
		}
	}
	switch m.Type {
	case message.LeaveRoom, message.PlayerRemove:
		room.removals = append(room.removals, m)
		r.rooms[id] = room
		return nil
	}
	return fmt.Errorf("room %v is busy, try again: %w", id, game.ErrNotAllowed)
}

// nextRemoval gets the first waiting removal of a room and the inbox of the room.
// The inbox is nil if no rooms have removals waiting.
func (r *Runner) nextRemoval() (game.ID, message.Message, chan<- message.Message) {
	for id, room := range r.rooms {
		if len(room.removals) != 0 {
			return id, room.removals[0], room.in
		}
	}
	return "", message.Message{}, nil
}

// removalSent drops the first waiting removal of the room.
func (r *Runner) removalSent(id game.ID) {
	room, ok := r.rooms[id]
	if !ok || len(room.removals) == 0 {
		return
	}
	room.removals = room.removals[1:]
	r.rooms[id] = room
}

// updateRoomInfo stores the summary of a room and sends all summaries to all players.
// Rooms without players are deleted.
func (r *Runner) updateRoomInfo(ctx context.Context, m message.Message, out chan<- message.Message) {
	if len(m.Rooms) != 1 {
		r.Log.Printf("wanted 1 room info to have changed, got %v", len(m.Rooms))
		return
	}
	i := m.Rooms[0]
	room, ok := r.rooms[i.ID]
	if !ok {
		return
	}
	switch {
	case i.PlayerCount == 0:
		r.deleteRoom(i.ID)
	default:
		room.info = i
		r.rooms[i.ID] = room
	}
	r.sendRoomList(ctx, "", out)
}

// deleteRoom removes the room, telling it to stop running.
func (r *Runner) deleteRoom(id game.ID) {
	room, ok := r.rooms[id]
	if !ok {
		return
	}
	delete(r.rooms, id)
	close(room.in)
	for pID, id2 := range r.playerRooms {
		if id2 == id {
			delete(r.playerRooms, pID)
		}
	}
}

// closeRooms stops all rooms.
func (r *Runner) closeRooms() {
	for id := range r.rooms {
		r.deleteRoom(id)
	}
}

// roomInfos gets the summaries of the rooms, oldest first.
func (r *Runner) roomInfos() []game.RoomInfo {
	infos := make([]game.RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		infos = append(infos, room.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt != infos[j].CreatedAt {
			return infos[i].CreatedAt < infos[j].CreatedAt
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// sendRoomList sends the summaries of the rooms to the player, or to all players if the id is empty.
func (r *Runner) sendRoomList(ctx context.Context, pID player.ID, out chan<- message.Message) {
	m := message.Message{
		Type:     message.RoomList,
		Rooms:    r.roomInfos(),
		PlayerID: pID,
	}
	r.send(ctx, m, out)
}

// newID creates a room code that is not used by another room.
func (r *Runner) newID() (game.ID, error) {
	for i := 0; i < newIDAttempts; i++ {
		id, err := game.NewID(r.IDReader)
		if err != nil {
			return "", err
		}
		if _, ok := r.rooms[id]; !ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not create unique room code")
}

// sendError adds a message for the player on the channel.
func (r *Runner) sendError(ctx context.Context, err error, pID player.ID, out chan<- message.Message) {
	t := message.SocketWarning
	if !game.IsWarning(err) {
		t = message.SocketError
		r.Log.Printf("player %v: %v", pID, err)
	}
	m := message.Message{
		Type:     t,
		Info:     err.Error(),
		PlayerID: pID,
	}
	r.send(ctx, m, out)
}

// send sends the message on the out channel.
func (r *Runner) send(ctx context.Context, m message.Message, out chan<- message.Message) {
	message.Send(ctx, m, out, r.Debug, r.Log)
}
