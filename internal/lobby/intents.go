package lobby

import (
	"maps"
	"slices"

	"github.com/DoyleJ11/hanabot/internal/protocol"
	"go.uber.org/zap"
)

// Sender accepts outbound commands. Sends are fire-and-forget.
type Sender interface {
	Send(cmd protocol.Command)
}

type SenderFunc func(cmd protocol.Command)

func (f SenderFunc) Send(cmd protocol.Command) { f(cmd) }

type IntentKind string

const (
	IntentJoin   IntentKind = "join"
	IntentFollow IntentKind = "follow"
)

type Intent struct {
	Kind   IntentKind `json:"kind"`
	Target string     `json:"target"`
}

// Resolver holds the bot's pending goals and turns them into tableJoin
// commands as the Store learns about matching tables and users.
//
// A join intent names a table and is dropped after its first join. A follow
// intent names a user and is kept for the life of the session, so the bot
// keeps chasing that user from table to table.
type Resolver struct {
	store *Store
	send  Sender
	log   *zap.Logger

	joins   map[string]struct{}
	follows map[string]struct{}

	// Password is attached to every tableJoin the resolver sends.
	Password string

	// OnResolve, if set, is called after an intent produces a command.
	OnResolve func(in Intent)
}

// NewResolver builds a Resolver over store and registers it as an observer
// of that store.
func NewResolver(store *Store, send Sender, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		store:   store,
		send:    send,
		log:     log,
		joins:   make(map[string]struct{}),
		follows: make(map[string]struct{}),
	}
	store.Observe(r)
	return r
}

// RegisterJoinByName joins the named table now if it is known, otherwise once
// it shows up.
func (r *Resolver) RegisterJoinByName(name string) {
	if t, ok := r.store.TableByName(name); ok {
		r.join(Intent{Kind: IntentJoin, Target: name}, t.ID)
		return
	}
	r.joins[name] = struct{}{}
	r.log.Info("join pending", zap.String("table", name))
}

func (r *Resolver) TableUpdated(t protocol.Table) {
	if _, ok := r.joins[t.Name]; !ok {
		return
	}
	delete(r.joins, t.Name)
	r.join(Intent{Kind: IntentJoin, Target: t.Name}, t.ID)
}

// RegisterFollow follows username for the rest of the session and joins the
// user's table right away if the user is already seated.
func (r *Resolver) RegisterFollow(username string) {
	r.follows[username] = struct{}{}
	r.log.Info("following user", zap.String("user", username))
	for _, u := range r.store.Users() {
		if u.Name == username {
			r.UserUpdated(u)
		}
	}
}

func (r *Resolver) UserUpdated(u protocol.User) {
	if _, ok := r.follows[u.Name]; !ok {
		return
	}
	id, seated := u.Seated()
	if !seated {
		return
	}
	r.join(Intent{Kind: IntentFollow, Target: u.Name}, id)
}

// Unfollow drops every follow intent.
func (r *Resolver) Unfollow() {
	clear(r.follows)
}

// Start starts the current table. It does nothing when the bot is not at a
// table.
func (r *Resolver) Start() {
	cur, ok := r.store.CurrentTable()
	if !ok {
		r.log.Info("start requested outside a table")
		return
	}
	r.send.Send(protocol.TableStart{TableID: cur})
}

// Pending lists the intents still held, joins before follows.
func (r *Resolver) Pending() []Intent {
	var out []Intent
	for _, name := range slices.Sorted(maps.Keys(r.joins)) {
		out = append(out, Intent{Kind: IntentJoin, Target: name})
	}
	for _, name := range slices.Sorted(maps.Keys(r.follows)) {
		out = append(out, Intent{Kind: IntentFollow, Target: name})
	}
	return out
}

func (r *Resolver) join(in Intent, id protocol.TableID) {
	r.log.Info("joining table",
		zap.String("intent", string(in.Kind)),
		zap.String("target", in.Target),
		zap.Stringer("table_id", id))
	r.send.Send(protocol.TableJoin{TableID: id, Password: r.Password})
	if r.OnResolve != nil {
		r.OnResolve(in)
	}
}
