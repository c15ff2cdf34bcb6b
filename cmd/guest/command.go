package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jacobpatterson1549/wibble/game/board"
	"github.com/jacobpatterson1549/wibble/game/message"
	"github.com/jacobpatterson1549/wibble/game/session"
	"github.com/jacobpatterson1549/wibble/game/tile"
)

// errUnknownCommand is returned for lines that are not commands.
var errUnknownCommand = errors.New("unknown command")

// commandHelp describes the commands that can be typed.
const commandHelp = `commands:
  ready                     toggle whether or not you are ready
  start                     start the game (host only)
  add <col> <row>           add the tile to your chain
  remove                    remove the last tile of your chain
  submit                    score your chain
  shuffle                   spend gems to shuffle the board
  replace <col> <row> <ch>  spend gems to change the letter of a tile
  info                      print the room
  leave                     leave the room`

// parseCommand creates the message for the line typed by the player.
// A nil message is returned for commands that do not send messages.
func parseCommand(line string) (*message.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	args := fields[1:]
	var m message.Message
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "ready":
		m.Type = message.ToggleReady
	case "start":
		m.Type = message.StartGame
	case "remove":
		m.Type = message.RemoveLetter
	case "submit":
		m.Type = message.SubmitWord
	case "shuffle":
		m.Type = message.UseShuffle
	case "leave":
		m.Type = message.LeaveRoom
	case "info", "help":
		return nil, nil
	case "add":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: add <col> <row>")
		}
		p, err := parsePosition(args[0], args[1])
		if err != nil {
			return nil, err
		}
		m.Type = message.AddLetter
		m.Position = p
	case "replace":
		if len(args) != 3 {
			return nil, fmt.Errorf("usage: replace <col> <row> <letter>")
		}
		p, err := parsePosition(args[0], args[1])
		if err != nil {
			return nil, err
		}
		m.Type = message.UseReplaceTile
		m.Position = p
		m.Letter = args[2]
	default:
		return nil, fmt.Errorf("%q: %w", cmd, errUnknownCommand)
	}
	return &m, nil
}

// parsePosition reads the column and row of a tile.
func parsePosition(colText, rowText string) (*board.Position, error) {
	col, err := strconv.Atoi(colText)
	if err != nil {
		return nil, fmt.Errorf("parsing column: %w", err)
	}
	row, err := strconv.Atoi(rowText)
	if err != nil {
		return nil, fmt.Errorf("parsing row: %w", err)
	}
	p := board.Position{
		Col: col,
		Row: row,
	}
	return &p, nil
}

// describe creates a line of text about the message from the host.
// Messages that only update the view are described with an empty string.
func describe(m message.Message) string {
	switch m.Type {
	case message.SocketWarning, message.SocketError:
		return "! " + m.Info
	case message.PlayerJoined, message.PlayerLeft, message.PlayerReady:
		if m.Player != nil {
			return fmt.Sprintf("%v: %v", m.Type, m.Player.Name)
		}
	case message.WordSubmitted:
		if m.Submission != nil {
			return fmt.Sprintf("%v scored %v for %v point(s) and %v gem(s)", m.Submission.Player, m.Submission.Word, m.Submission.Points, m.Submission.Gems)
		}
	case message.GameStarted, message.RoundStarted, message.RoundEnded, message.TurnStarted:
		return m.Type.String()
	case message.GameEnded:
		if m.Game != nil && m.Game.Winner != nil {
			return fmt.Sprintf("%v: %v won with %v point(s)", m.Type, m.Game.Winner.Name, m.Game.Winner.Score)
		}
		return m.Type.String()
	case message.LeaveRoom:
		if len(m.Info) != 0 {
			return "left room: " + m.Info
		}
		return "left room"
	}
	return ""
}

// writeInfo writes the room, the players, and the board.
func writeInfo(w io.Writer, i session.Info) {
	fmt.Fprintf(w, "room %v (%v): %v\n", i.ID, i.Name, i.Phase)
	for _, p := range i.Players {
		var flags []string
		if p.Host {
			flags = append(flags, "host")
		}
		if p.Ready {
			flags = append(flags, "ready")
		}
		fmt.Fprintf(w, "  %-12v score %3d  gems %2d  %v\n", p.Name, p.Score, p.Gems, strings.Join(flags, ","))
	}
	if i.Board == nil {
		return
	}
	for _, row := range i.Board {
		var sb strings.Builder
		sb.WriteString(" ")
		for _, t := range row {
			sb.WriteString(" ")
			switch {
			case t.Frozen:
				sb.WriteString("#")
			case t.Gem:
				sb.WriteString("*")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(t.Ch.String())
		}
		fmt.Fprintln(w, sb.String())
	}
	gems := i.Board.Count(func(t tile.Tile) bool { return t.Gem })
	fmt.Fprintf(w, "  gems on board: %v\n", gems)
}
