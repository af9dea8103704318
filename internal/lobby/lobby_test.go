package lobby

import (
	"testing"

	"github.com/DoyleJ11/hanabot/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sent []protocol.Command
}

func (r *recorder) Send(cmd protocol.Command) { r.sent = append(r.sent, cmd) }

func (r *recorder) take() []protocol.Command {
	out := r.sent
	r.sent = nil
	return out
}

func newTestLobby() (*Store, *Resolver, *recorder) {
	rec := &recorder{}
	s := NewStore(nil)
	r := NewResolver(s, rec, nil)
	return s, r, rec
}

func TestStore_UpsertTableReplaces(t *testing.T) {
	s, _, _ := newTestLobby()

	s.UpsertTable(protocol.Table{ID: 7, Name: "a"})
	s.UpsertTable(protocol.Table{ID: 7, Name: "b"})

	tables := s.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, protocol.TableID(7), tables[0].ID)
	assert.Equal(t, "b", tables[0].Name)
}

func TestStore_RemoveIsTolerant(t *testing.T) {
	s, _, _ := newTestLobby()

	s.UpsertUser(protocol.User{UserID: 1, Name: "alice"})
	s.RemoveUser(1)
	s.RemoveUser(1)
	s.RemoveTable(99)

	_, ok := s.User(1)
	assert.False(t, ok)
	assert.Empty(t, s.Users())
}

func TestStore_CurrentTableMayOutliveTable(t *testing.T) {
	s, _, _ := newTestLobby()

	s.UpsertTable(protocol.Table{ID: 4, Name: "x"})
	s.SetCurrentTable(4)
	s.RemoveTable(4)

	cur, ok := s.CurrentTable()
	require.True(t, ok)
	assert.Equal(t, protocol.TableID(4), cur)

	s.ClearCurrentTable()
	_, ok = s.CurrentTable()
	assert.False(t, ok)
}

func TestStore_LookupsByName(t *testing.T) {
	s, _, _ := newTestLobby()

	s.UpsertTable(protocol.Table{ID: 9, Name: "dup"})
	s.UpsertTable(protocol.Table{ID: 3, Name: "dup"})
	s.UpsertUser(protocol.User{UserID: 2, Name: "bob"})

	tb, ok := s.TableByName("dup")
	require.True(t, ok)
	assert.Equal(t, protocol.TableID(3), tb.ID)

	u, ok := s.UserByName("bob")
	require.True(t, ok)
	assert.Equal(t, protocol.UserID(2), u.UserID)

	_, ok = s.UserByName("nobody")
	assert.False(t, ok)
}

func TestJoinByName_OneShot(t *testing.T) {
	s, r, rec := newTestLobby()

	r.RegisterJoinByName("foo")
	assert.Empty(t, rec.take())
	assert.Equal(t, []Intent{{Kind: IntentJoin, Target: "foo"}}, r.Pending())

	s.UpsertTable(protocol.Table{ID: 7, Name: "foo"})
	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 7}}, rec.take())

	s.UpsertTable(protocol.Table{ID: 7, Name: "foo"})
	assert.Empty(t, rec.take())
	assert.Empty(t, r.Pending())
}

func TestJoinByName_TableAlreadyKnown(t *testing.T) {
	s, r, rec := newTestLobby()
	s.UpsertTable(protocol.Table{ID: 5, Name: "foo"})

	r.RegisterJoinByName("foo")

	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 5}}, rec.take())
	assert.Empty(t, r.Pending())
}

func TestJoinByName_IgnoresOtherTables(t *testing.T) {
	s, r, rec := newTestLobby()

	r.RegisterJoinByName("foo")
	s.UpsertTable(protocol.Table{ID: 1, Name: "bar"})

	assert.Empty(t, rec.take())
	assert.Len(t, r.Pending(), 1)
}

func TestFollow_Persistent(t *testing.T) {
	s, r, rec := newTestLobby()

	r.RegisterFollow("alice")
	assert.Empty(t, rec.take())

	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", TableID: 9})
	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 9}}, rec.take())

	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", TableID: 12})
	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 12}}, rec.take())

	assert.Equal(t, []Intent{{Kind: IntentFollow, Target: "alice"}}, r.Pending())
}

func TestFollow_UserAlreadySeated(t *testing.T) {
	s, r, rec := newTestLobby()
	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", TableID: 9})
	s.UpsertUser(protocol.User{UserID: 4, Name: "bob", TableID: 2})

	r.RegisterFollow("alice")

	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 9}}, rec.take())
}

func TestFollow_SkipsUnseatedJoinsEverySeatedUpdate(t *testing.T) {
	s, r, rec := newTestLobby()
	r.RegisterFollow("alice")

	s.UpsertUser(protocol.User{UserID: 3, Name: "alice"})
	assert.Empty(t, rec.take())

	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", TableID: 9})
	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 9}}, rec.take())

	// already at the table: still sent, the intent is never narrowed
	s.SetCurrentTable(9)
	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", Status: protocol.StatusPlaying, TableID: 9})
	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 9}}, rec.take())
	assert.Equal(t, []Intent{{Kind: IntentFollow, Target: "alice"}}, r.Pending())
}

func TestFollow_Unfollow(t *testing.T) {
	s, r, rec := newTestLobby()
	r.RegisterFollow("alice")
	r.Unfollow()

	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", TableID: 9})

	assert.Empty(t, rec.take())
	assert.Empty(t, r.Pending())
}

func TestJoinAndFollow_Independent(t *testing.T) {
	s, r, rec := newTestLobby()
	r.RegisterJoinByName("foo")
	r.RegisterFollow("alice")

	s.UpsertTable(protocol.Table{ID: 7, Name: "foo"})
	s.UpsertUser(protocol.User{UserID: 3, Name: "alice", TableID: 8})

	assert.Equal(t, []protocol.Command{
		protocol.TableJoin{TableID: 7},
		protocol.TableJoin{TableID: 8},
	}, rec.take())
}

func TestResolver_PasswordAndHook(t *testing.T) {
	s, r, rec := newTestLobby()
	var resolved []Intent
	r.Password = "pw"
	r.OnResolve = func(in Intent) { resolved = append(resolved, in) }

	r.RegisterJoinByName("foo")
	s.UpsertTable(protocol.Table{ID: 7, Name: "foo"})

	assert.Equal(t, []protocol.Command{protocol.TableJoin{TableID: 7, Password: "pw"}}, rec.take())
	assert.Equal(t, []Intent{{Kind: IntentJoin, Target: "foo"}}, resolved)
}

func TestStart(t *testing.T) {
	s, r, rec := newTestLobby()

	r.Start()
	assert.Empty(t, rec.take())

	s.SetCurrentTable(4)
	r.Start()
	assert.Equal(t, []protocol.Command{protocol.TableStart{TableID: 4}}, rec.take())
}
