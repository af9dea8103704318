package protocol

import "strconv"

type UserID int

type TableID int

func (id UserID) String() string  { return strconv.Itoa(int(id)) }
func (id TableID) String() string { return strconv.Itoa(int(id)) }

type UserStatus int

const (
	StatusLobby UserStatus = iota
	StatusPregame
	StatusPlaying
	StatusSpectating
	StatusReplay
	StatusSharedReplay
)

func (s UserStatus) String() string {
	switch s {
	case StatusLobby:
		return "lobby"
	case StatusPregame:
		return "pregame"
	case StatusPlaying:
		return "playing"
	case StatusSpectating:
		return "spectating"
	case StatusReplay:
		return "replay"
	case StatusSharedReplay:
		return "shared_replay"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}
