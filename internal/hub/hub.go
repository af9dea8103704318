package hub

import (
	"context"
	"errors"
	"slices"

	"github.com/DoyleJ11/hanabot/internal/session"
)

var ErrHubClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// RegisterBot adds a session. Reply gets false if the name is already taken.
type RegisterBot struct {
	Name    string
	Session *session.Session
	Reply   chan bool
}

type GetBot struct {
	Name  string
	Reply chan *session.Session
}

type ListBots struct {
	Reply chan []string
}

type RemoveBot struct {
	Name string
}

type ShutdownHub struct{}

func (RegisterBot) isHubMsg() {}
func (GetBot) isHubMsg()      {}
func (ListBots) isHubMsg()    {}
func (RemoveBot) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub tracks the running bot sessions by username. Like a session, it is an
// actor: only its loop touches the map.
type Hub struct {
	inbox  chan HubMsg
	bots   map[string]*session.Session
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		bots:   make(map[string]*session.Session),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case RegisterBot:
				if _, taken := h.bots[msg.Name]; taken {
					msg.Reply <- false
					break
				}
				h.bots[msg.Name] = msg.Session
				msg.Reply <- true

			case GetBot:
				msg.Reply <- h.bots[msg.Name] // May be nil

			case ListBots:
				names := make([]string, 0, len(h.bots))
				for name := range h.bots {
					names = append(names, name)
				}
				slices.Sort(names)
				msg.Reply <- names

			case RemoveBot:
				delete(h.bots, msg.Name)

			case ShutdownHub:
				for _, s := range h.bots {
					select {
					case s.Inbox() <- session.Shutdown{}:
					default:
						// inbox full or session gone; it will stop with the run context
					}
				}
				clear(h.bots)
				h.cancel()
			}
		}
	}
}

// Get is a convenience wrapper around GetBot.
func (h *Hub) Get(ctx context.Context, name string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	select {
	case h.inbox <- GetBot{Name: name, Reply: reply}:
	case <-h.ctx.Done():
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-h.ctx.Done():
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// List is a convenience wrapper around ListBots.
func (h *Hub) List(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	select {
	case h.inbox <- ListBots{Reply: reply}:
	case <-h.ctx.Done():
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case names := <-reply:
		return names, nil
	case <-h.ctx.Done():
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
