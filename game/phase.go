package game

// Phase is the stage of a game session.
type Phase int

const (
	_ Phase = iota
	// MainMenu is the phase of a player that is not in a room.
	MainMenu
	// HostLobby is the phase of a room that players can join before the host starts the game.
	HostLobby
	// JoinLobby is the phase of a player that is waiting for a room to accept them.
	JoinLobby
	// WaitingRoom is the phase of a player that has joined a room and is waiting for the host to start.
	WaitingRoom
	// Title is the phase of a solo game before it is started.
	Title
	// Play is the phase of a game that is being played.
	Play
	// GameOver is the phase of a finished game.
	GameOver
)

// String returns the display value for the phase.
func (p Phase) String() string {
	switch p {
	case MainMenu:
		return "Main Menu"
	case HostLobby:
		return "Host Lobby"
	case JoinLobby:
		return "Joining"
	case WaitingRoom:
		return "Waiting Room"
	case Title:
		return "Title"
	case Play:
		return "Playing"
	case GameOver:
		return "Game Over"
	}
	return "?"
}

// CanJoin determines if players can join a room in the phase.
func (p Phase) CanJoin() bool {
	return p == HostLobby
}
