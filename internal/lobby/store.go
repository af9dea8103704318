package lobby

import (
	"cmp"
	"maps"
	"slices"

	"github.com/DoyleJ11/hanabot/internal/protocol"
	"go.uber.org/zap"
)

// Observer is told about every user or table written to a Store, after the
// write.
type Observer interface {
	UserUpdated(u protocol.User)
	TableUpdated(t protocol.Table)
}

// Store mirrors the lobby as the server reports it. It is not safe for
// concurrent use; the owning session is its only writer.
type Store struct {
	users  map[protocol.UserID]protocol.User
	tables map[protocol.TableID]protocol.Table

	current    protocol.TableID
	hasCurrent bool

	observers []Observer
	log       *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		users:  make(map[protocol.UserID]protocol.User),
		tables: make(map[protocol.TableID]protocol.Table),
		log:    log,
	}
}

func (s *Store) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Store) UpsertUser(u protocol.User) {
	s.users[u.UserID] = u
	for _, o := range s.observers {
		o.UserUpdated(u)
	}
}

// RemoveUser deletes a user. Removing an unknown user is logged and otherwise
// ignored.
func (s *Store) RemoveUser(id protocol.UserID) {
	if _, ok := s.users[id]; !ok {
		s.log.Warn("remove of unknown user", zap.Stringer("user_id", id))
		return
	}
	delete(s.users, id)
}

func (s *Store) UpsertTable(t protocol.Table) {
	s.tables[t.ID] = t
	for _, o := range s.observers {
		o.TableUpdated(t)
	}
}

func (s *Store) RemoveTable(id protocol.TableID) {
	delete(s.tables, id)
}

// SetCurrentTable records the table the bot sits at. The table need not be
// in the store.
func (s *Store) SetCurrentTable(id protocol.TableID) {
	s.current, s.hasCurrent = id, true
}

func (s *Store) ClearCurrentTable() {
	s.current, s.hasCurrent = 0, false
}

func (s *Store) CurrentTable() (protocol.TableID, bool) {
	return s.current, s.hasCurrent
}

func (s *Store) User(id protocol.UserID) (protocol.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) Table(id protocol.TableID) (protocol.Table, bool) {
	t, ok := s.tables[id]
	return t, ok
}

// UserByName returns the user with the given name. Names are unique on the
// server; if the mirror ever holds duplicates the lowest id wins.
func (s *Store) UserByName(name string) (protocol.User, bool) {
	for _, u := range s.Users() {
		if u.Name == name {
			return u, true
		}
	}
	return protocol.User{}, false
}

// TableByName returns the lowest-id table with the given name.
func (s *Store) TableByName(name string) (protocol.Table, bool) {
	for _, t := range s.Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return protocol.Table{}, false
}

// Users returns the known users ordered by id.
func (s *Store) Users() []protocol.User {
	return slices.SortedFunc(maps.Values(s.users), func(a, b protocol.User) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
}

// Tables returns the known tables ordered by id.
func (s *Store) Tables() []protocol.Table {
	return slices.SortedFunc(maps.Values(s.tables), func(a, b protocol.Table) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
