package loop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuuuno/sweeper/internal/client"
	"github.com/yuuuno/sweeper/internal/snapshot"
)

// A live server scripted for one full bot run: the first refresh shows
// a board with one deducible cell, everything after that is won.
func TestLiveSessionDrivesRunner(t *testing.T) {
	t.Parallel()

	open := client.Session{
		Id:     "live",
		Width:  3,
		Height: 2,
		Grid: []snapshot.Cell{
			1, snapshot.Unknown, snapshot.Unknown,
			1, 1, 1,
		},
	}
	won := client.Session{
		Id:     "live",
		Width:  3,
		Height: 2,
		Grid: []snapshot.Cell{
			1, snapshot.Flag, 1,
			1, 1, 1,
		},
		Won: true,
	}

	var (
		mu     sync.Mutex
		frames []string
	)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/live/connect", r.URL.Path)
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			first := true
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				mu.Lock()
				frames = append(frames, string(msg))
				mu.Unlock()
				reply := won
				if first && string(msg) == "g" {
					reply = open
					first = false
				}
				if err := conn.WriteJSON(reply); err != nil {
					return
				}
			}
		},
	))
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	live, err := ConnectSession(context.Background(), c, "live")
	require.NoError(t, err)
	defer live.Close()

	runner := New(live, live, WithSettleDelay(time.Millisecond))
	require.NoError(t, runner.Run(context.Background()))
	assert.Equal(t, Idle, runner.Phase())

	// Refresh, one batched reveal of the deduced cell, final refresh
	// that finds the session won.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"g", "o 2 0", "g"}, frames)
}
