package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuuuno/sweeper/internal/snapshot"
	"github.com/yuuuno/sweeper/internal/sweep"
)

// Echoes every received frame into frames and replies with the given
// session document.
func liveServer(t *testing.T, reply Session, frames chan<- string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/games/42/connect", r.URL.Path)
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				frames <- string(msg)
				if err := conn.WriteJSON(reply); err != nil {
					return
				}
			}
		},
	))
}

func TestLiveOpenSendsCommandBatch(t *testing.T) {
	t.Parallel()

	frames := make(chan string, 2)
	server := liveServer(t, Session{
		Id:     "42",
		Width:  2,
		Height: 1,
		Grid:   []snapshot.Cell{1, snapshot.Unknown},
	}, frames)
	defer server.Close()

	c, err := New(server.URL + "/games")
	require.NoError(t, err)

	live, err := c.Connect(context.Background(), "42")
	require.NoError(t, err)
	defer live.Close()

	session, err := live.Open([]sweep.Position{
		{Row: 3, Col: 5},
		{Row: 0, Col: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", session.Id)
	assert.False(t, session.Over())

	// One frame, one command per line, x before y.
	assert.Equal(t, "o 5 3\no 1 0", <-frames)

	// An empty batch is the noop command; it still yields a document.
	session, err = live.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, "42", session.Id)
	assert.Equal(t, "g", <-frames)
}

func TestConnectDialFailureSurfaced(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	_, err = c.Connect(context.Background(), "42")
	assert.Error(t, err)
}
