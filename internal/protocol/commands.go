package protocol

// Client -> Server

type TableCreate struct {
	Name       string `json:"name,omitempty"`
	MaxPlayers int    `json:"maxPlayers"`
	Password   string `json:"password,omitempty"`
}

type TableJoin struct {
	TableID  TableID `json:"tableID"`
	Password string  `json:"password,omitempty"`
}

type TableLeave struct {
	TableID TableID `json:"tableID"`
}

// TableStart is sent to start the current table and is also echoed by the
// server when a table starts.
type TableStart struct {
	TableID TableID `json:"tableID"`
}

type ChatPM struct {
	Msg       string `json:"msg"`
	Recipient string `json:"recipient"`
	Room      string `json:"room"`
}

type GetName struct{}

func (TableCreate) CommandName() string { return "tableCreate" }
func (TableJoin) CommandName() string   { return "tableJoin" }
func (TableLeave) CommandName() string  { return "tableLeave" }
func (TableStart) CommandName() string  { return "tableStart" }
func (ChatPM) CommandName() string      { return "chatPM" }
func (GetName) CommandName() string     { return "getName" }

func (TableCreate) isCommand() {}
func (TableJoin) isCommand()   {}
func (TableLeave) isCommand()  {}
func (TableStart) isCommand()  {}
func (ChatPM) isCommand()      {}
func (GetName) isCommand()     {}
func (Chat) isCommand()        {}

func (GetName) unit() {}

// DefaultMaxPlayers is used for tableCreate when no size is given.
const DefaultMaxPlayers = 6

// LobbyRoom is the chat room name for lobby and private messages.
const LobbyRoom = "lobby"
