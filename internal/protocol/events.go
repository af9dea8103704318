package protocol

// Server -> Client

type Warning struct {
	Message string `json:"warning"`
}

type Error struct {
	Message string `json:"error"`
}

type Welcome struct {
	UserID          UserID `json:"userID"`
	Username        string `json:"username,omitempty"`
	RandomTableName string `json:"randomTableName"`
}

type Name struct {
	Name string `json:"name"`
}

type Table struct {
	ID                TableID  `json:"id"`
	Name              string   `json:"name"`
	PasswordProtected bool     `json:"passwordProtected,omitempty"`
	Joined            bool     `json:"joined,omitempty"`
	NumPlayers        int      `json:"numPlayers,omitempty"`
	MaxPlayers        int      `json:"maxPlayers,omitempty"`
	Owned             bool     `json:"owned,omitempty"`
	Running           bool     `json:"running,omitempty"`
	Variant           string   `json:"variant,omitempty"`
	Players           []string `json:"players,omitempty"`
}

type TableList []Table

type TableGone struct {
	TableID TableID `json:"tableID"`
}

// User mirrors one lobby user. The server reports TableID 0 for users not at
// a table.
type User struct {
	UserID  UserID     `json:"userID"`
	Name    string     `json:"name"`
	Status  UserStatus `json:"status"`
	TableID TableID    `json:"tableID,omitempty"`
}

// Seated reports the table the user sits at, if any.
func (u User) Seated() (TableID, bool) {
	return u.TableID, u.TableID != 0
}

type UserList []User

type UserLeft struct {
	UserID UserID `json:"userID"`
}

// Chat is both an inbound lobby/private message and an outbound lobby chat.
type Chat struct {
	Msg       string `json:"msg"`
	Who       string `json:"who,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Room      string `json:"room,omitempty"`
}

type Joined struct {
	TableID TableID `json:"tableID"`
}

type Left struct{}

// Events the bot accepts but has no use for.
type (
	ChatTyping  struct{}
	GameHistory struct{}
	Init        struct{}
	Connected   struct{}
)

func (Warning) CommandName() string     { return "warning" }
func (Error) CommandName() string       { return "error" }
func (Welcome) CommandName() string     { return "welcome" }
func (Name) CommandName() string        { return "name" }
func (Table) CommandName() string       { return "table" }
func (TableList) CommandName() string   { return "tableList" }
func (TableGone) CommandName() string   { return "tableGone" }
func (User) CommandName() string        { return "user" }
func (UserList) CommandName() string    { return "userList" }
func (UserLeft) CommandName() string    { return "userLeft" }
func (Chat) CommandName() string        { return "chat" }
func (Joined) CommandName() string      { return "joined" }
func (Left) CommandName() string        { return "left" }
func (ChatTyping) CommandName() string  { return "chatTyping" }
func (GameHistory) CommandName() string { return "gameHistory" }
func (Init) CommandName() string        { return "init" }
func (Connected) CommandName() string   { return "connected" }

func (Left) unit()        {}
func (ChatTyping) unit()  {}
func (GameHistory) unit() {}
func (Init) unit()        {}
func (Connected) unit()   {}
