// Package client talks to a minesweeper game server: it fetches
// session snapshots for the deduction engine and turns safe
// conclusions into open moves.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuuuno/sweeper/internal/snapshot"
	"github.com/yuuuno/sweeper/internal/sweep"
)

// Session is the game server's session document. The grid encoding is
// the server's cell code scheme, handed to internal/snapshot for
// normalization.
type Session struct {
	Id        string          `json:"game_session_id"`
	Grid      []snapshot.Cell `json:"grid"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	MineCount int             `json:"mine_count"`
	Dead      bool            `json:"dead"`
	Won       bool            `json:"won"`
}

func (s Session) Over() bool {
	return s.Dead || s.Won
}

func (s Session) Snapshot() snapshot.Document {
	return snapshot.Document{
		Width:  s.Width,
		Height: s.Height,
		Grid:   s.Grid,
	}
}

type GameParams struct {
	Width     int
	Height    int
	MineCount int
	Unique    bool
}

func (p GameParams) values() url.Values {
	v := url.Values{}
	v.Set("width", strconv.Itoa(p.Width))
	v.Set("height", strconv.Itoa(p.Height))
	v.Set("mine_count", strconv.Itoa(p.MineCount))
	v.Set("unique", strconv.FormatBool(p.Unique))
	return v
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar},
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = urlJoin(u.Path, path)
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) do(
	ctx context.Context, method, path string,
	query url.Values, body io.Reader,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx, method, c.endpoint(path, query), body,
	)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		return nil, fmt.Errorf(
			"%s %s: server replied %s", method, path, res.Status,
		)
	}
	return res, nil
}

func (c *Client) session(
	ctx context.Context, method, path string, query url.Values,
) (*Session, error) {
	res, err := c.do(ctx, method, path, query, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var session Session
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("malformed session document: %w", err)
	}
	return &session, nil
}

func (c *Client) authenticate(
	ctx context.Context, path, username, password string,
) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	res, err := c.do(
		ctx, http.MethodPost, path, nil,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// Register creates an account; auth cookies land in the client's jar.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "register", username, password)
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "login", username, password)
}

// NewGame starts a session by opening the given position first; the
// server guarantees the first open never hits a mine.
func (c *Client) NewGame(
	ctx context.Context, params GameParams, p sweep.Position,
) (*Session, error) {
	query := params.values()
	addPosition(query, p)
	return c.session(ctx, http.MethodPost, "", query)
}

func (c *Client) FetchGame(ctx context.Context, id string) (*Session, error) {
	return c.session(ctx, http.MethodGet, id, nil)
}

// Open reveals one cell. This is the actuation primitive: every safe
// conclusion becomes one Open call (or one live-connection command).
func (c *Client) Open(
	ctx context.Context, id string, p sweep.Position,
) (*Session, error) {
	query := url.Values{}
	query.Set("move", "open")
	addPosition(query, p)
	return c.session(ctx, http.MethodPost, id+"/move", query)
}

func (c *Client) Forfeit(ctx context.Context, id string) (*Session, error) {
	return c.session(ctx, http.MethodPost, id+"/forfeit", nil)
}

// The server addresses cells as x (column) and y (row).
func addPosition(query url.Values, p sweep.Position) {
	query.Set("x", strconv.Itoa(p.Col))
	query.Set("y", strconv.Itoa(p.Row))
}
