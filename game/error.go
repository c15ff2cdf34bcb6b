package game

// Error is a condition a player is told about when an action is rejected.
type Error string

const (
	// ErrRoomNotFound is returned when a room code does not match an open room.
	ErrRoomNotFound Error = "room not found"
	// ErrRoomFull is returned when joining a room that has no space for more players.
	ErrRoomFull Error = "room is full"
	// ErrGameInProgress is returned when joining a room that has already started its game.
	ErrGameInProgress Error = "game in progress"
	// ErrNotAllReady is returned when starting a game before enough players are ready.
	ErrNotAllReady Error = "not all players are ready or not enough players"
	// ErrNotHost is returned when a player other than the host tries to start the game.
	ErrNotHost Error = "only the host can start the game"
	// ErrNotEnoughGems is returned when a player cannot afford an ability.
	ErrNotEnoughGems Error = "not enough gems"
	// ErrInvalidTileLocation is returned when a position is not on the board or cannot be added to the chain.
	ErrInvalidTileLocation Error = "invalid tile location"
	// ErrInvalidLetter is returned when a tile is replaced with something other than a letter.
	ErrInvalidLetter Error = "invalid letter"
	// ErrNotYourTurn is returned when a player acts while another player has the turn.
	ErrNotYourTurn Error = "not your turn"
	// ErrNotPlaying is returned when a game action is sent while no game is being played.
	ErrNotPlaying Error = "game not in progress"
	// ErrEmptyChain is returned when removing a letter from a chain that has none.
	ErrEmptyChain Error = "no letters chained"
	// ErrNotAllowed is returned when an action does not apply to the current phase of a session.
	ErrNotAllowed Error = "action not allowed now"
	// ErrNameRequired is returned when a player sends a room action before setting a name.
	ErrNameRequired Error = "please set your name first"
	// ErrConnectionTimeout is returned when a connection to a room is not established in time.
	ErrConnectionTimeout Error = "connection timed out"
	// ErrPeerUnavailable is returned when no host is serving a room code.
	ErrPeerUnavailable Error = "peer unavailable"
)

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
