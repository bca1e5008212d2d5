package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

type GameConfig struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	MineCount int  `json:"mine_count"`
	Unique    bool `json:"unique"`
}

type Config struct {
	Mode        string     `json:"mode"`
	ServerURL   string     `json:"server_url"`
	Transport   string     `json:"transport"` // "http" or "ws"
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	SessionId   string     `json:"session_id"` // resume this session; empty starts a new game
	Game        GameConfig `json:"game"`
	SettleDelay Duration   `json:"settle_delay"`
	DatabaseURL string     `json:"database_url"` // record cycles here when set
	LogFile     string     `json:"log_file"`
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":         c.Mode,
		"server_url":   c.ServerURL,
		"transport":    c.Transport,
		"username":     c.Username,
		"session_id":   c.SessionId,
		"game_w":       c.Game.Width,
		"game_h":       c.Game.Height,
		"game_mines":   c.Game.MineCount,
		"settle_delay": c.SettleDelay.String(),
		"log_file":     c.LogFile,
	}
}

func ReadConfig(path string) (*Config, error) {
	config := &Config{
		Transport:   "http",
		Game:        GameConfig{Width: 9, Height: 9, MineCount: 10, Unique: true},
		SettleDelay: Duration{200 * time.Millisecond},
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, config); err != nil {
		return nil, err
	}
	return config, nil
}
