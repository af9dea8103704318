package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

var (
	ErrBinaryFrame = errors.New("received binary frame from server")
	ErrClosed      = errors.New("connection closed")
)

const (
	writeTimeout = 5 * time.Second
	// tableList and userList frames grow with the lobby
	readLimit = 4 << 20
)

// Conn is a client websocket connection carrying one text frame per message.
// A reader goroutine feeds Inbox and a writer goroutine drains the queue fed
// by Send.
type Conn struct {
	conn   *websocket.Conn
	inbox  chan string
	outbox chan string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	err     error
	closing bool

	log *zap.Logger
}

// Dial connects to url, presenting cookie as the session credential.
func Dial(ctx context.Context, url, cookie string, log *zap.Logger) (*Conn, error) {
	header := http.Header{}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newConn(c, log), nil
}

func newConn(c *websocket.Conn, log *zap.Logger) *Conn {
	if log == nil {
		log = zap.NewNop()
	}
	c.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(context.Background())
	conn := &Conn{
		conn:   c,
		inbox:  make(chan string, 64),
		outbox: make(chan string, 64),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	go conn.readLoop()
	go conn.writeLoop()
	return conn
}

func (c *Conn) Inbox() <-chan string { return c.inbox }

// Send queues line for writing. It only blocks while the queue is full.
func (c *Conn) Send(ctx context.Context, line string) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case c.outbox <- line:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err reports why the connection ended. It is nil after a local Close.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return nil
	}
	c.closing = true
	c.mu.Unlock()

	err := c.conn.Close(websocket.StatusNormalClosure, "bye")
	c.cancel()
	return err
}

// fail records the first error unless the connection is being closed locally.
func (c *Conn) fail(err error) {
	c.mu.Lock()
	if !c.closing && c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.cancel()
}

func (c *Conn) readLoop() {
	defer close(c.inbox)
	for {
		typ, data, err := c.conn.Read(c.ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("server closed connection", zap.Error(err))
			}
			c.fail(err)
			return
		}
		if typ != websocket.MessageText {
			c.fail(ErrBinaryFrame)
			_ = c.conn.Close(websocket.StatusUnsupportedData, "text frames only")
			return
		}

		select {
		case c.inbox <- string(data):
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case line := <-c.outbox:
			ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, []byte(line))
			cancel()
			if err != nil {
				c.fail(fmt.Errorf("write: %w", err))
				return
			}
		}
	}
}
