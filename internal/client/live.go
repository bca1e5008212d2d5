package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/yuuuno/sweeper/internal/sweep"
)

// Live is a websocket connection to one running session. The server
// accepts batches of newline-separated commands per text frame and
// replies with the updated session document.
type Live struct {
	conn *websocket.Conn
}

// Connect upgrades to the session's live endpoint. Cookies from the
// client's jar ride along, so an authenticated client stays
// authenticated on the socket.
func (c *Client) Connect(ctx context.Context, id string) (*Live, error) {
	u := *c.baseURL
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = urlJoin(u.Path, id, "connect")

	dialer := websocket.Dialer{Jar: c.http.Jar}
	conn, res, err := dialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("ws dial: %w (%s)", err, res.Status)
		}
		return nil, fmt.Errorf("ws dial: %w", err)
	}
	return &Live{conn: conn}, nil
}

// Open sends one open command per position in a single frame and
// reads back the resulting session. An empty batch is a no-op that
// still refreshes the session (the server's noop command).
func (l *Live) Open(positions []sweep.Position) (*Session, error) {
	var sb strings.Builder
	if len(positions) == 0 {
		sb.WriteString("g")
	}
	for i, p := range positions {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "o %d %d", p.Col, p.Row)
	}
	err := l.conn.WriteMessage(websocket.TextMessage, []byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("ws write: %w", err)
	}
	var session Session
	if err := l.conn.ReadJSON(&session); err != nil {
		return nil, fmt.Errorf("ws read: %w", err)
	}
	return &session, nil
}

func (l *Live) Close() error {
	return l.conn.Close()
}

func urlJoin(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return "/" + strings.Join(trimmed, "/")
}
