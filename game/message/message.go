// Package message contains structures to pass between players and the rooms they play in.
package message

import (
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/chain"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/game/session"
)

type (
	// Type represents the purpose of a message.
	Type int

	// Message contains information to or from a player about rooms and games.
	Message struct {
		// Type is the purpose of the message.
		Type Type `json:"type"`
		// Info is text to show to the player, the name of a player, or the name of a room.
		Info string `json:"info,omitempty"`
		// RoomID is the code of the room the message is about.
		RoomID game.ID `json:"roomId,omitempty"`
		// Game is a snapshot of the game in a room.  Some messages only set the changed fields.
		Game *session.Info `json:"game,omitempty"`
		// Rooms contains information about all the open rooms.
		Rooms []game.RoomInfo `json:"rooms,omitempty"`
		// Player is the player the message is about.
		Player *player.Player `json:"player,omitempty"`
		// Position is the tile a player acts on.
		Position *board.Position `json:"position,omitempty"`
		// Letter is the letter a player wants to replace a tile with.
		Letter string `json:"letter,omitempty"`
		// Chain is the chain of the player after it changed.
		Chain chain.Chain `json:"chain,omitempty"`
		// Submission is a word a player scored.
		Submission *session.Submission `json:"submission,omitempty"`
		// Rules are the settings of a new room.
		Rules *game.Config `json:"rules,omitempty"`
		// PlayerID is the id of the player the message is to/from.
		PlayerID player.ID `json:"-"`
		// PlayerName is the name of the player the message is from.
		PlayerName player.Name `json:"-"`
		// Addr is the remote address text the message is from.
		Addr Addr `json:"-"`
	}

	// Addr identifies the source of a message.
	Addr string
)

const (
	_ Type = iota
	// SetName is a Type that players send to change the name other players see.
	SetName
	// ListRooms is a Type that players send to get the open rooms.
	ListRooms
	// CreateRoom is a Type that players send to open and host a new room.
	CreateRoom
	// JoinRoom is a Type that players send to join a room.
	JoinRoom
	// LeaveRoom is a Type that players send to leave their room.
	LeaveRoom
	// ToggleReady is a Type that players send to change whether or not they are ready to start.
	ToggleReady
	// StartGame is a Type that hosts send to start the game in their room.
	StartGame
	// AddLetter is a Type that players send to add a tile to their chain.
	AddLetter
	// RemoveLetter is a Type that players send to remove the last tile of their chain.
	RemoveLetter
	// SubmitWord is a Type that players send to score their chain.
	SubmitWord
	// UseShuffle is a Type that players send to spend gems to shuffle the board.
	UseShuffle
	// UseReplaceTile is a Type that players send to spend gems to change the letter of a tile.
	UseReplaceTile
	// RoomList is a Type that the server sends to report changes in the open rooms.
	RoomList
	// RoomJoined is a Type that rooms send to a player that joined them.
	RoomJoined
	// RoomUpdated is a Type that rooms send when their lobby changes.
	RoomUpdated
	// PlayerJoined is a Type that rooms send when a player joins.
	PlayerJoined
	// PlayerLeft is a Type that rooms send when a player leaves.
	PlayerLeft
	// PlayerReady is a Type that rooms send when a player changes whether or not they are ready.
	PlayerReady
	// GameStarted is a Type that rooms send with the first board and the length of the game.
	GameStarted
	// GameUpdated is a Type that rooms send when the board or the scores of players change.
	GameUpdated
	// ChainUpdated is a Type that rooms send to a player when their chain changes.
	ChainUpdated
	// WordSubmitted is a Type that rooms send when a player scores a word.
	WordSubmitted
	// PowerUpUsed is a Type that rooms send when a player spends gems.
	PowerUpUsed
	// TurnStarted is a Type that rooms send when a player starts a turn in turn based games.
	TurnStarted
	// TimerUpdated is a Type that rooms send each second of a turn.
	TimerUpdated
	// RoundStarted is a Type that rooms send when a new round starts.
	RoundStarted
	// RoundEnded is a Type that rooms send when a round is over.
	RoundEnded
	// GameEnded is a Type that rooms send with the final scores and the winner.
	GameEnded
	// SocketWarning is a Type that the server sends to inform players that a request is invalid.
	SocketWarning
	// SocketError is a Type that the server sends to players to report an unexpected state.
	SocketError
	// SocketHTTPPing is a Type the server sends to request an http request to the site to keep it active.
	SocketHTTPPing
	// PlayerRemove is a Type that is sent when all of the connections of a player are closed.
	PlayerRemove // keep last for tests
)

var typeNames = []string{
	"?",
	"SetName",
	"ListRooms",
	"CreateRoom",
	"JoinRoom",
	"LeaveRoom",
	"ToggleReady",
	"StartGame",
	"AddLetter",
	"RemoveLetter",
	"SubmitWord",
	"UseShuffle",
	"UseReplaceTile",
	"RoomList",
	"RoomJoined",
	"RoomUpdated",
	"PlayerJoined",
	"PlayerLeft",
	"PlayerReady",
	"GameStarted",
	"GameUpdated",
	"ChainUpdated",
	"WordSubmitted",
	"PowerUpUsed",
	"TurnStarted",
	"TimerUpdated",
	"RoundStarted",
	"RoundEnded",
	"GameEnded",
	"SocketWarning",
	"SocketError",
	"SocketHTTPPing",
	"PlayerRemove",
}

// String returns the name of the type.
func (t Type) String() string {
	if t <= 0 || int(t) >= len(typeNames) {
		return typeNames[0]
	}
	return typeNames[t]
}

// IsIntent determines if the type is an action that players send to rooms.
func (t Type) IsIntent() bool {
	return SetName <= t && t <= UseReplaceTile
}
