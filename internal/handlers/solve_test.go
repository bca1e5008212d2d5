package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuuuno/sweeper/internal/config"
	"github.com/yuuuno/sweeper/internal/snapshot"
	"github.com/yuuuno/sweeper/internal/sweep"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleSolve(t *testing.T) {
	t.Parallel()

	h := NewSolveHandler(discardLogger(), nil)

	t.Run("concludes mines and safe cells", func(t *testing.T) {
		// 2x3: (0,0)=1 pins (0,1); covered clues below clear (0,2)
		body := `{"width":3,"height":2,"grid":[1,-2,-2,1,1,1]}`
		r := httptest.NewRequest(
			http.MethodPost, "/solve", strings.NewReader(body),
		)
		w := httptest.NewRecorder()

		h.HandleSolve(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"safe":[{"row":0,"col":2}],"mines":[{"row":0,"col":1}]}`,
			w.Body.String(),
		)
	})

	t.Run("empty board", func(t *testing.T) {
		body := `{"width":0,"height":0,"grid":[]}`
		r := httptest.NewRequest(
			http.MethodPost, "/solve", strings.NewReader(body),
		)
		w := httptest.NewRecorder()

		h.HandleSolve(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"safe":[],"mines":[]}`, w.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(
			http.MethodPost, "/solve", strings.NewReader("{nope"),
		)
		w := httptest.NewRecorder()

		h.HandleSolve(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("grid length mismatch", func(t *testing.T) {
		body := `{"width":2,"height":2,"grid":[0]}`
		r := httptest.NewRequest(
			http.MethodPost, "/solve", strings.NewReader(body),
		)
		w := httptest.NewRecorder()

		h.HandleSolve(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleSolveWS(t *testing.T) {
	t.Parallel()

	h := NewSolveHandler(discardLogger(), nil)
	server := httptest.NewServer(h.HandleSolveWS(config.NewWebSocket()))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Two snapshots down one connection; each is answered on its own.
	for i := 0; i < 2; i++ {
		err = conn.WriteJSON(snapshot.Document{
			Width:  2,
			Height: 2,
			Grid:   []snapshot.Cell{1, snapshot.Unknown, 0, 0},
		})
		require.NoError(t, err)

		var dto ConclusionsDTO
		require.NoError(t, conn.ReadJSON(&dto))
		assert.Equal(t, []sweep.Position{{Row: 0, Col: 1}}, dto.Mines)
		assert.Empty(t, dto.Safe)
	}

	// A bad snapshot produces an error frame, not a dead connection.
	require.NoError(t, conn.WriteJSON(snapshot.Document{
		Width: 5, Height: 5, Grid: []snapshot.Cell{0},
	}))
	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply, "error")
}

func TestHandleListRunsRequiresAuth(t *testing.T) {
	t.Parallel()

	h := NewSolveHandler(discardLogger(), nil)
	r := httptest.NewRequest(http.MethodGet, "/runs", nil)
	w := httptest.NewRecorder()

	h.HandleListRuns(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseListRunsDTO(t *testing.T) {
	t.Parallel()

	dto, err := ParseListRunsDTO(map[string][]string{})
	require.NoError(t, err)
	assert.Equal(t, 20, dto.Limit)

	dto, err = ParseListRunsDTO(map[string][]string{
		"limit": {"5"},
		"junk":  {"ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Limit)
}
