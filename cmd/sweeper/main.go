package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/yuuuno/sweeper/internal/client"
	"github.com/yuuuno/sweeper/internal/loop"
	"github.com/yuuuno/sweeper/internal/repository"
	"github.com/yuuuno/sweeper/internal/sweep"
)

var (
	log = logrus.New()

	configPath string
)

func init() {
	const (
		defaultConfigPath = "/run/config.json"
		usage             = "config file path"
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, usage)
	flag.StringVar(&configPath, "c", defaultConfigPath, usage+" (shorthand)")
}

func setupLogging(config *Config) {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if config.LogFile == "" {
		return
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   config.LogFile,
		MaxSize:    10, // Mb
		MaxBackups: 3,
		MaxAge:     30, // days
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		log.Fatal("unable to create log file hook: ", err)
	}
	log.AddHook(hook)
}

func openSession(
	ctx context.Context, config *Config, c *client.Client,
) (*client.Session, error) {
	if config.SessionId != "" {
		return c.FetchGame(ctx, config.SessionId)
	}
	// A fresh game starts by opening the center cell; the server
	// guarantees it is not a mine.
	start := sweep.Position{
		Row: config.Game.Height / 2,
		Col: config.Game.Width / 2,
	}
	return c.NewGame(ctx, client.GameParams(config.Game), start)
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	config, err := ReadConfig(configPath)
	if err != nil {
		log.Fatalf("unable to read config %s: %s", configPath, err.Error())
	}

	setupLogging(config)

	log.Info("starting up, mode = ", config.Mode)
	log.WithFields(config.Fields()).Debug("config")

	c, err := client.New(config.ServerURL)
	if err != nil {
		log.Fatal("invalid server url: ", err)
	}

	if config.Username != "" {
		if err := c.Login(mainCtx, config.Username, config.Password); err != nil {
			log.Warn("login failed, trying to register: ", err)
			err = c.Register(mainCtx, config.Username, config.Password)
			if err != nil {
				log.Fatal("unable to authenticate: ", err)
			}
		}
	}

	session, err := openSession(mainCtx, config, c)
	if err != nil {
		log.Fatal("unable to open session: ", err)
	}
	log.Info("session ready, id = ", session.Id)

	game := &loop.GameSession{Client: c, Id: session.Id}
	source, actuator := loop.Source(game), loop.Actuator(game)
	if config.Transport == "ws" {
		live, err := loop.ConnectSession(mainCtx, c, session.Id)
		if err != nil {
			log.Fatal("unable to connect to session: ", err)
		}
		defer live.Close()
		source, actuator = live, live
	}

	opts := []loop.Option{
		loop.WithSettleDelay(config.SettleDelay.Duration),
		loop.WithLogger(log),
	}
	if config.DatabaseURL != "" {
		pool, err := pgxpool.New(mainCtx, config.DatabaseURL)
		if err != nil {
			log.Fatal("unable to connect to database: ", err)
		}
		defer pool.Close()
		opts = append(opts,
			loop.WithRecorder(repository.NewRunRecorder(repository.New(pool))))
	}

	runner := loop.New(source, actuator, opts...)

	if err := runner.Run(mainCtx); err != nil {
		log.Fatal("runner stopped: ", err)
	}

	final, err := c.FetchGame(mainCtx, session.Id)
	if err != nil {
		log.Fatal("unable to fetch final session state: ", err)
	}
	switch {
	case final.Won:
		log.Info("session won")
	case final.Dead:
		log.Warn("session lost")
	default:
		log.Info("no deterministic moves left, leaving session as is")
	}
}
