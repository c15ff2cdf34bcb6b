package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log/logtest"
)

func TestNewRunner(t *testing.T) {
	pd := mockPointsDao{}
	newRunnerTests := []struct {
		RunnerConfig
		PointsDao
		wantOk bool
	}{
		{}, // no log
		{ // no points dao
			RunnerConfig: RunnerConfig{
				Log:      logtest.DiscardLogger,
				MaxRooms: 1,
			},
		},
		{ // low MaxRooms
			RunnerConfig: RunnerConfig{
				Log: logtest.DiscardLogger,
			},
			PointsDao: pd,
		},
		{ // ok
			RunnerConfig: RunnerConfig{
				Log:      logtest.DiscardLogger,
				MaxRooms: 10,
			},
			PointsDao: pd,
			wantOk:    true,
		},
	}
	for i, test := range newRunnerTests {
		got, err := test.RunnerConfig.NewRunner(test.PointsDao)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case got.rooms == nil, got.playerRooms == nil, got.roomOut == nil:
			t.Errorf("Test %v: wanted runner maps and channel to be created", i)
		}
	}
}

func TestRunRunner(t *testing.T) {
	runRunnerTests := []struct {
		stopFunc func(cancelFunc context.CancelFunc, in chan message.Message)
	}{
		{
			stopFunc: func(cancelFunc context.CancelFunc, in chan message.Message) {
				cancelFunc()
			},
		},
		{
			stopFunc: func(cancelFunc context.CancelFunc, in chan message.Message) {
				close(in)
			},
		},
	}
	for i, test := range runRunnerTests {
		r := newTestRunner(t, 1)
		ctx, cancelFunc := context.WithCancel(context.Background())
		in := make(chan message.Message)
		out := r.Run(ctx, in)
		test.stopFunc(cancelFunc, in)
		if _, ok := <-out; ok {
			t.Errorf("Test %v: wanted 'out' channel to be closed after 'in' channel was closed", i)
		}
		cancelFunc()
	}
}

// newTestRunner creates a runner for rooms that never tick or idle on their own.
func newTestRunner(t *testing.T, maxRooms int) *Runner {
	t.Helper()
	var clock mockClock
	pd := mockPointsDao{
		UpdatePointsIncrementFunc: func(ctx context.Context, playerPoints map[string]int) error {
			return nil
		},
	}
	cfg := RunnerConfig{
		Log:        logtest.DiscardLogger,
		MaxRooms:   maxRooms,
		RoomConfig: testRoomConfig(&clock),
	}
	r, err := cfg.NewRunner(pd)
	if err != nil {
		t.Fatalf("creating runner: %v", err)
	}
	return r
}

// readUntil reads messages from the channel until one of the type is sent to the player.
func readUntil(t *testing.T, out <-chan message.Message, mt message.Type, pID player.ID) message.Message {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case m, ok := <-out:
			if !ok {
				t.Fatalf("out channel closed before %v message for %q", mt, pID)
			}
			if m.Type == mt && m.PlayerID == pID {
				return m
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %v message for %q", mt, pID)
		}
	}
}

func TestRunnerRooms(t *testing.T) {
	r := newTestRunner(t, 1)
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	in := make(chan message.Message)
	out := r.Run(ctx, in)

	create := playerMessage(message.CreateRoom, ada)
	create.Info = "ada's game"
	in <- create
	joined := readUntil(t, out, message.RoomJoined, ada.ID)
	id := joined.RoomID
	if len(id) != game.IDLength {
		t.Fatalf("wanted room code, got %q", id)
	}
	list := readUntil(t, out, message.RoomList, "")
	if len(list.Rooms) != 1 || list.Rooms[0].ID != id || list.Rooms[0].Name != "ada's game" || list.Rooms[0].PlayerCount != 1 {
		t.Errorf("wanted room list with new room, got %v", list.Rooms)
	}

	in <- playerMessage(message.CreateRoom, barney)
	warning := readUntil(t, out, message.SocketError, barney.ID)
	if !strings.Contains(warning.Info, "maximum number of rooms") {
		t.Errorf("wanted max rooms error, got %v", warning.Info)
	}

	join := playerMessage(message.JoinRoom, fred)
	join.RoomID = game.ID(strings.ToLower(string(id)))
	in <- join
	readUntil(t, out, message.RoomJoined, fred.ID)
	readUntil(t, out, message.PlayerJoined, ada.ID)

	join = playerMessage(message.JoinRoom, barney)
	join.RoomID = "ZZZZZZ"
	in <- join
	warning = readUntil(t, out, message.SocketWarning, barney.ID)
	if !strings.HasSuffix(warning.Info, game.ErrRoomNotFound.Error()) {
		t.Errorf("wanted room not found warning, got %v", warning.Info)
	}

	in <- playerMessage(message.ToggleReady, barney)
	warning = readUntil(t, out, message.SocketWarning, barney.ID)
	if !strings.HasSuffix(warning.Info, game.ErrRoomNotFound.Error()) {
		t.Errorf("wanted room not found warning for player not in room, got %v", warning.Info)
	}

	in <- playerMessage(message.ToggleReady, fred)
	ready := readUntil(t, out, message.PlayerReady, ada.ID)
	if ready.RoomID != id || ready.Player == nil || ready.Player.ID != fred.ID {
		t.Errorf("wanted ada to see fred ready in room %v, got %v", id, ready)
	}

	in <- playerMessage(message.LeaveRoom, ada)
	readUntil(t, out, message.LeaveRoom, ada.ID)
	readUntil(t, out, message.PlayerLeft, fred.ID)
	in <- playerMessage(message.PlayerRemove, fred)
	for {
		list = readUntil(t, out, message.RoomList, "")
		if len(list.Rooms) == 0 {
			break
		}
	}

	in <- playerMessage(message.ListRooms, barney)
	list = readUntil(t, out, message.RoomList, barney.ID)
	if len(list.Rooms) != 0 {
		t.Errorf("wanted empty room to be deleted, got %v", list.Rooms)
	}
	in <- playerMessage(message.CreateRoom, barney)
	readUntil(t, out, message.RoomJoined, barney.ID)
}

func TestRunnerJoinSecondRoom(t *testing.T) {
	r := newTestRunner(t, 2)
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	in := make(chan message.Message)
	out := r.Run(ctx, in)
	in <- playerMessage(message.CreateRoom, ada)
	id1 := readUntil(t, out, message.RoomJoined, ada.ID).RoomID
	in <- playerMessage(message.CreateRoom, fred)
	readUntil(t, out, message.RoomJoined, fred.ID)
	join := playerMessage(message.JoinRoom, fred)
	join.RoomID = id1
	in <- join
	warning := readUntil(t, out, message.SocketWarning, fred.ID)
	if !strings.HasPrefix(warning.Info, "leave room") {
		t.Errorf("wanted warning to leave room first, got %v", warning.Info)
	}
	in <- playerMessage(message.CreateRoom, fred)
	warning = readUntil(t, out, message.SocketWarning, fred.ID)
	if !strings.HasPrefix(warning.Info, "leave room") {
		t.Errorf("wanted warning to leave room before creating another, got %v", warning.Info)
	}
}

func TestRunnerRoomBusy(t *testing.T) {
	r := newTestRunner(t, 1)
	in := make(chan message.Message) // never read
	r.rooms["ABC123"] = roomHandle{in: in}
	r.playerRooms[ada.ID] = "ABC123"
	err := r.sendRoomMessage(context.Background(), playerMessage(message.ToggleReady, ada))
	if err == nil || !game.IsWarning(err) {
		t.Errorf("wanted busy warning, got %v", err)
	}
}

func TestRunnerRemoveFromBusyRoom(t *testing.T) {
	r := newTestRunner(t, 1)
	roomIn := make(chan message.Message) // not read until the runner is running
	r.rooms["ABC123"] = roomHandle{in: roomIn}
	r.playerRooms[ada.ID] = "ABC123"
	r.playerRooms[fred.ID] = "ABC123"
	if err := r.leaveRoom(context.Background(), playerMessage(message.PlayerRemove, ada)); err != nil {
		t.Errorf("unwanted error removing player from busy room: %v", err)
	}
	if want, got := 1, len(r.rooms["ABC123"].removals); want != got {
		t.Errorf("wanted %v waiting removal, got %v", want, got)
	}
	if _, ok := r.playerRooms[ada.ID]; ok {
		t.Errorf("wanted removed player to not be in a room")
	}
	err := r.sendRoomMessage(context.Background(), playerMessage(message.ToggleReady, fred))
	if err == nil || !game.IsWarning(err) {
		t.Errorf("wanted busy warning for player intent while removals wait, got %v", err)
	}
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	in := make(chan message.Message)
	r.Run(ctx, in)
	select {
	case m := <-roomIn:
		if m.Type != message.PlayerRemove || m.PlayerID != ada.ID || m.RoomID != "ABC123" {
			t.Errorf("wanted removal of ada to be sent to room, got %v", m)
		}
	case <-time.After(5 * time.Second):
		t.Errorf("timed out waiting for removal to reach room")
	}
}

func TestRunnerJoinStartedRoom(t *testing.T) {
	joinStartedRoomTests := []struct {
		info    game.RoomInfo
		wantErr error
	}{
		{
			info:    game.RoomInfo{Phase: game.Play, PlayerCount: 2, MaxPlayers: 8},
			wantErr: game.ErrGameInProgress,
		},
		{
			info:    game.RoomInfo{Phase: game.HostLobby, PlayerCount: 8, MaxPlayers: 8},
			wantErr: game.ErrRoomFull,
		},
	}
	for i, test := range joinStartedRoomTests {
		r := newTestRunner(t, 1)
		roomIn := make(chan message.Message, 1)
		r.rooms["ABC123"] = roomHandle{in: roomIn, info: test.info}
		join := playerMessage(message.JoinRoom, barney)
		join.RoomID = "ABC123"
		err := r.joinRoom(context.Background(), join)
		switch {
		case !errors.Is(err, test.wantErr):
			t.Errorf("Test %v: wanted %v, got %v", i, test.wantErr, err)
		case len(roomIn) != 0:
			t.Errorf("Test %v: wanted join to not be sent to room", i)
		case len(r.playerRooms) != 0:
			t.Errorf("Test %v: wanted player to not be in room", i)
		}
	}
}

func TestRunnerDeleteRoom(t *testing.T) {
	r := newTestRunner(t, 1)
	in := make(chan message.Message, 1)
	r.rooms["ABC123"] = roomHandle{in: in}
	r.playerRooms[ada.ID] = "ABC123"
	r.playerRooms[fred.ID] = "XYZ789"
	out := make(chan message.Message, 1)
	m := message.Message{
		Type:  message.RoomList,
		Rooms: []game.RoomInfo{{ID: "ABC123"}},
	}
	r.handleRoomMessage(context.Background(), m, out)
	if _, ok := r.rooms["ABC123"]; ok {
		t.Errorf("wanted room to be deleted")
	}
	if _, ok := r.playerRooms[ada.ID]; ok {
		t.Errorf("wanted player of deleted room to not be in a room")
	}
	if _, ok := r.playerRooms[fred.ID]; !ok {
		t.Errorf("wanted player of other room to stay in room")
	}
	if _, ok := <-in; ok {
		t.Errorf("wanted room channel to be closed")
	}
	if got := <-out; got.Type != message.RoomList || len(got.Rooms) != 0 || len(got.PlayerID) != 0 {
		t.Errorf("wanted empty room list for all players, got %v", got)
	}
}
