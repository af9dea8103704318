package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts a websocket server running fn for each connection and returns
// its ws:// URL.
func serve(t *testing.T, fn func(ctx context.Context, r *http.Request, c *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()
		fn(r.Context(), r, c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recvLine(t *testing.T, ch <-chan string, within time.Duration) string {
	t.Helper()
	select {
	case line, ok := <-ch:
		if !ok {
			t.Fatalf("inbox closed unexpectedly")
		}
		return line
	case <-time.After(within):
		t.Fatalf("timed out waiting for frame")
		return ""
	}
}

func waitClosed(t *testing.T, ch <-chan string, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("inbox was not closed within %v", within)
		}
	}
}

func TestConn_Exchange(t *testing.T) {
	gotCookie := make(chan string, 1)
	gotLine := make(chan string, 1)
	url := serve(t, func(ctx context.Context, r *http.Request, c *websocket.Conn) {
		gotCookie <- r.Header.Get("Cookie")
		_ = c.Write(ctx, websocket.MessageText, []byte(`welcome {"userID":1,"randomTableName":"x"}`))
		_, data, err := c.Read(ctx)
		if err == nil {
			gotLine <- string(data)
		}
		_, _, _ = c.Read(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := Dial(ctx, url, "hanabi.sid=abc", nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "hanabi.sid=abc", <-gotCookie)
	assert.Equal(t, `welcome {"userID":1,"randomTableName":"x"}`, recvLine(t, conn.Inbox(), time.Second))

	require.NoError(t, conn.Send(ctx, "getName"))
	select {
	case line := <-gotLine:
		assert.Equal(t, "getName", line)
	case <-time.After(time.Second):
		t.Fatal("server never got the frame")
	}
}

func TestConn_BinaryFrameIsFatal(t *testing.T) {
	url := serve(t, func(ctx context.Context, _ *http.Request, c *websocket.Conn) {
		_ = c.Write(ctx, websocket.MessageBinary, []byte{0x01})
		_, _, _ = c.Read(ctx)
	})

	conn, err := Dial(context.Background(), url, "", nil)
	require.NoError(t, err)
	defer conn.Close()

	waitClosed(t, conn.Inbox(), 2*time.Second)
	assert.ErrorIs(t, conn.Err(), ErrBinaryFrame)
}

func TestConn_ServerClose(t *testing.T) {
	url := serve(t, func(ctx context.Context, _ *http.Request, c *websocket.Conn) {
		_ = c.Close(websocket.StatusGoingAway, "restart")
	})

	conn, err := Dial(context.Background(), url, "", nil)
	require.NoError(t, err)
	defer conn.Close()

	waitClosed(t, conn.Inbox(), 2*time.Second)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(conn.Err()))
	assert.ErrorIs(t, conn.Send(context.Background(), "getName"), ErrClosed)
}

func TestConn_LocalCloseHasNoError(t *testing.T) {
	url := serve(t, func(ctx context.Context, _ *http.Request, c *websocket.Conn) {
		_, _, _ = c.Read(ctx)
	})

	conn, err := Dial(context.Background(), url, "", nil)
	require.NoError(t, err)

	_ = conn.Close()
	waitClosed(t, conn.Inbox(), 2*time.Second)
	assert.NoError(t, conn.Err())
}

func TestDial_Refused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/ws", "", nil)
	assert.Error(t, err)
}
