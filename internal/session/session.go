package session

import (
	"context"
	"errors"

	"github.com/DoyleJ11/hanabot/internal/lobby"
	"github.com/DoyleJ11/hanabot/internal/metrics"
	"github.com/DoyleJ11/hanabot/internal/protocol"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrClosed       = errors.New("session closed")
	ErrDisconnected = errors.New("transport closed")
)

// Transport is the connection a session drives. Inbox is closed when the
// connection ends, after which Err reports why.
type Transport interface {
	Inbox() <-chan string
	Send(ctx context.Context, line string) error
	Err() error
	Close() error
}

// ServerError is the message of an error event. The server sends one before
// it drops the connection.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return "server error: " + e.Message }

type Msg interface{ isSessionMsg() }

type JoinTable struct{ Name string }

type FollowUser struct{ Name string }

type Start struct{}

type CreateTable struct{ Table protocol.TableCreate }

type SendCommand struct{ Cmd protocol.Command }

// GetView asks for a View. Reply should be buffered; the loop never waits
// for a reader.
type GetView struct{ Reply chan View }

type Shutdown struct{}

func (JoinTable) isSessionMsg()   {}
func (FollowUser) isSessionMsg()  {}
func (Start) isSessionMsg()       {}
func (CreateTable) isSessionMsg() {}
func (SendCommand) isSessionMsg() {}
func (GetView) isSessionMsg()     {}
func (Shutdown) isSessionMsg()    {}

// View is a copy of a session's lobby mirror.
type View struct {
	Username     string            `json:"username"`
	CurrentTable *protocol.TableID `json:"currentTable,omitempty"`
	Tables       []protocol.Table  `json:"tables"`
	Users        []protocol.User   `json:"users"`
	Intents      []lobby.Intent    `json:"intents"`
}

// Session is one bot connected to the server. A single goroutine, Run, owns
// the lobby mirror and the intents; everything else talks to it through its
// inbox.
type Session struct {
	ID       uuid.UUID
	username string
	password string

	inbox     chan Msg
	transport Transport
	events    *protocol.Registry
	store     *lobby.Store
	intents   *lobby.Resolver

	// from the welcome event
	welcomed        bool
	randomTableName string
	// unnamed creates waiting for the welcome event
	pendingCreates []protocol.TableCreate

	ctx     context.Context
	done    chan struct{}
	err     error
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithPassword sets the password used when the bot creates or joins tables.
func WithPassword(password string) Option {
	return func(s *Session) { s.password = password }
}

func New(username string, t Transport, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New(),
		username:  username,
		inbox:     make(chan Msg, 64),
		transport: t,
		events:    protocol.Events(),
		done:      make(chan struct{}),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("bot", username), zap.Stringer("session", s.ID))

	s.store = lobby.NewStore(s.log)
	s.intents = lobby.NewResolver(s.store, lobby.SenderFunc(s.send), s.log)
	s.intents.Password = s.password
	s.intents.OnResolve = func(in lobby.Intent) { s.metrics.IntentResolved(string(in.Kind)) }
	return s
}

func (s *Session) Username() string { return s.username }

// Run processes frames and inbox messages one at a time until ctx ends, the
// session is shut down, or a fatal error occurs. It closes the transport on
// return. A nil error means the session was stopped on purpose.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	s.metrics.SessionStarted()
	s.log.Info("session started")

	err := s.loop()

	s.err = err
	close(s.done)
	s.metrics.SessionEnded()
	if cerr := s.transport.Close(); cerr != nil {
		s.log.Debug("close transport", zap.Error(cerr))
	}
	if err != nil {
		s.log.Error("session terminated", zap.Error(err))
	} else {
		s.log.Info("session finished")
	}
	return err
}

func (s *Session) loop() error {
	frames := s.transport.Inbox()
	for {
		select {
		case <-s.ctx.Done():
			return nil

		case line, ok := <-frames:
			if !ok {
				if err := s.transport.Err(); err != nil {
					return errors.Join(ErrDisconnected, err)
				}
				return ErrDisconnected
			}
			if err := s.onFrame(line); err != nil {
				return err
			}

		case m := <-s.inbox:
			switch msg := m.(type) {
			case JoinTable:
				s.intents.RegisterJoinByName(msg.Name)
			case FollowUser:
				s.intents.RegisterFollow(msg.Name)
			case Start:
				s.intents.Start()
			case CreateTable:
				s.createTable(msg.Table)
			case SendCommand:
				s.send(msg.Cmd)
			case GetView:
				select {
				case msg.Reply <- s.view():
				default:
					s.log.Debug("view reply dropped")
				}
			case Shutdown:
				return nil
			}
		}
	}
}

func (s *Session) createTable(tc protocol.TableCreate) {
	if tc.Name == "" && !s.welcomed {
		s.pendingCreates = append(s.pendingCreates, tc)
		return
	}
	if tc.Name == "" {
		tc.Name = s.randomTableName
	}
	if tc.MaxPlayers == 0 {
		tc.MaxPlayers = protocol.DefaultMaxPlayers
	}
	if tc.Password == "" {
		tc.Password = s.password
	}
	s.send(tc)
}

// send is the only path to the wire.
func (s *Session) send(cmd protocol.Command) {
	line, err := protocol.Encode(cmd)
	if err != nil {
		s.log.Error("encode command", zap.Error(err))
		return
	}
	if err := s.transport.Send(s.ctx, line); err != nil {
		s.log.Warn("send command", zap.String("command", cmd.CommandName()), zap.Error(err))
		return
	}
	s.metrics.CommandSent(cmd.CommandName())
	s.log.Debug("sent command", zap.String("line", line))
}

func (s *Session) view() View {
	v := View{
		Username: s.username,
		Tables:   s.store.Tables(),
		Users:    s.store.Users(),
		Intents:  s.intents.Pending(),
	}
	if cur, ok := s.store.CurrentTable(); ok {
		v.CurrentTable = &cur
	}
	return v
}

// Inbox exposes the session inbox for callers that want to send messages
// directly.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err is the error Run returned. It is only meaningful after Done is closed.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Session) submit(ctx context.Context, m Msg) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinTable joins the table with this name as soon as it exists.
func (s *Session) JoinTable(ctx context.Context, name string) error {
	return s.submit(ctx, JoinTable{Name: name})
}

// FollowUser keeps joining whatever table the named user sits at.
func (s *Session) FollowUser(ctx context.Context, name string) error {
	return s.submit(ctx, FollowUser{Name: name})
}

// Start starts the current table, if any.
func (s *Session) Start(ctx context.Context) error {
	return s.submit(ctx, Start{})
}

// CreateTable asks the server for a new table. The server seats the bot at it.
// An empty name falls back to the random name from the welcome event.
func (s *Session) CreateTable(ctx context.Context, tc protocol.TableCreate) error {
	return s.submit(ctx, CreateTable{Table: tc})
}

func (s *Session) SendCommand(ctx context.Context, cmd protocol.Command) error {
	return s.submit(ctx, SendCommand{Cmd: cmd})
}

func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.submit(ctx, GetView{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (s *Session) Shutdown(ctx context.Context) error {
	return s.submit(ctx, Shutdown{})
}
