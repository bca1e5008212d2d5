package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func loadPassword() (string, error) {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		return password, nil
	}
	path, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", fmt.Errorf(
			"no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set",
		)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func requireEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("no %s env variable set", key)
	}
	return v, nil
}

func NewDatabase() (*Database, error) {
	db := &Database{SSLMode: "disable"}

	var err error
	if db.Username, err = requireEnv("POSTGRES_USER"); err != nil {
		return nil, err
	}
	if db.Password, err = loadPassword(); err != nil {
		return nil, err
	}
	if db.Host, err = requireEnv("POSTGRES_HOST"); err != nil {
		return nil, err
	}
	if db.Port, err = requireEnv("POSTGRES_PORT"); err != nil {
		return nil, err
	}
	if db.DBName, err = requireEnv("POSTGRES_DB"); err != nil {
		return nil, err
	}
	if sslMode, ok := os.LookupEnv("POSTGRES_SSLMODE"); ok {
		db.SSLMode = sslMode
	}

	return db, nil
}

func (c Database) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func DatabaseURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}
	cfg, err := NewDatabase()
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	return cfg.URL(), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DatabaseURL()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
