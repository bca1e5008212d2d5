package loop

import (
	"context"
	"fmt"

	"github.com/yuuuno/sweeper/internal/client"
	"github.com/yuuuno/sweeper/internal/sweep"
)

// GameSession adapts one server-side game session to the runner's
// Source and Actuator contracts.
type GameSession struct {
	Client *client.Client
	Id     string
}

func (g *GameSession) Snapshot(ctx context.Context) (sweep.Board, error) {
	session, err := g.Client.FetchGame(ctx, g.Id)
	if err != nil {
		return sweep.Board{}, err
	}
	return sessionBoard(session)
}

func (g *GameSession) Open(ctx context.Context, p sweep.Position) error {
	session, err := g.Client.Open(ctx, g.Id, p)
	if err != nil {
		return err
	}
	if session.Dead {
		// A correct engine never opens a mine; a death here means the
		// snapshot went stale between acquire and actuate.
		return fmt.Errorf("opened a mine at %s: %w", p, ErrSessionOver)
	}
	return nil
}

// LiveSession is GameSession over the session's live connection: one
// websocket carries both snapshot refreshes and reveals, and each
// cycle's safe cells go out as a single command batch.
type LiveSession struct {
	live *client.Live
}

func ConnectSession(
	ctx context.Context, c *client.Client, id string,
) (*LiveSession, error) {
	live, err := c.Connect(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LiveSession{live: live}, nil
}

func (s *LiveSession) Snapshot(ctx context.Context) (sweep.Board, error) {
	// An empty batch is the server's noop; its reply carries the
	// current session document.
	session, err := s.live.Open(nil)
	if err != nil {
		return sweep.Board{}, err
	}
	return sessionBoard(session)
}

func (s *LiveSession) OpenAll(ctx context.Context, positions []sweep.Position) error {
	session, err := s.live.Open(positions)
	if err != nil {
		return err
	}
	if session.Dead {
		return fmt.Errorf("opened a mine: %w", ErrSessionOver)
	}
	return nil
}

func (s *LiveSession) Open(ctx context.Context, p sweep.Position) error {
	return s.OpenAll(ctx, []sweep.Position{p})
}

func (s *LiveSession) Close() error {
	return s.live.Close()
}

func sessionBoard(session *client.Session) (sweep.Board, error) {
	if session.Over() {
		return sweep.Board{}, ErrSessionOver
	}
	board, err := session.Snapshot().Board()
	if err != nil {
		return sweep.Board{}, fmt.Errorf("bad snapshot: %w", err)
	}
	return board, nil
}
