package game

// RoomInfo summarizes a room for players looking for a room to join.
type RoomInfo struct {
	// ID is unique among the other rooms that currently exist.
	ID ID `json:"id"`
	// Name is the display name the host gave the room.
	Name string `json:"name"`
	// Phase is the stage of the game in the room.
	Phase Phase `json:"phase,omitempty"`
	// PlayerCount is the number of players in the room.
	PlayerCount int `json:"playerCount"`
	// MaxPlayers is the capacity of the room.
	MaxPlayers int `json:"maxPlayers"`
	// CreatedAt is the room's creation time in seconds since the unix epoch.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// CanJoin indicates whether or not a player can join the room.
func (i RoomInfo) CanJoin() bool {
	return i.Phase.CanJoin() && i.PlayerCount < i.MaxPlayers
}
