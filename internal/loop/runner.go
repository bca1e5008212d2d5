// Package loop drives the acquire-infer-actuate cycle against a live
// game until no deterministic move remains.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/yuuuno/sweeper/internal/sweep"
)

var (
	// ErrBusy is returned by Run when the runner is not idle; at most
	// one cycle sequence is ever in flight.
	ErrBusy = errors.New("runner is not idle")

	// ErrSessionOver is returned by sources whose game has ended.
	ErrSessionOver = errors.New("session is over")
)

// Source produces one fresh board snapshot per cycle.
type Source interface {
	Snapshot(ctx context.Context) (sweep.Board, error)
}

// Actuator turns one safe conclusion into a reveal action.
type Actuator interface {
	Open(ctx context.Context, p sweep.Position) error
}

// BatchActuator reveals all of a cycle's safe cells in one action.
// The runner prefers it over cell-by-cell Open when the actuator
// provides it.
type BatchActuator interface {
	OpenAll(ctx context.Context, positions []sweep.Position) error
}

// Report summarizes one inference cycle.
type Report struct {
	Width     int
	Height    int
	Revealed  int
	SafeCount int
	MineCount int
	Took      time.Duration
}

// Recorder observes cycle reports. Recording failures do not stop the
// loop.
type Recorder interface {
	Record(ctx context.Context, r Report) error
}

type Option func(*Runner)

func WithSettleDelay(d time.Duration) Option {
	return func(r *Runner) { r.delay = d }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

const defaultSettleDelay = 200 * time.Millisecond

type Runner struct {
	phase    atomic.Int32
	source   Source
	actuator Actuator
	recorder Recorder
	delay    time.Duration
	logger   *logrus.Logger
}

func New(source Source, actuator Actuator, opts ...Option) *Runner {
	r := &Runner{
		source:   source,
		actuator: actuator,
		delay:    defaultSettleDelay,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Phase() Phase {
	return Phase(r.phase.Load())
}

func (r *Runner) transition(from, to Phase) bool {
	return r.phase.CompareAndSwap(int32(from), int32(to))
}

// Stop requests cooperative cancellation. The request is honored at
// the next cycle boundary, never mid-inference. Stopping an idle
// runner reports false.
func (r *Runner) Stop() bool {
	return r.transition(Running, Stopping)
}

// Run executes cycles until a cycle yields no safe conclusions, the
// session ends, Stop is called, or ctx is cancelled. Only an idle
// runner may be started.
func (r *Runner) Run(ctx context.Context) error {
	if !r.transition(Idle, Running) {
		return ErrBusy
	}
	defer r.phase.Store(int32(Idle))

	for cycle := 0; ; cycle++ {
		if r.Phase() == Stopping {
			r.logger.WithField("cycle", cycle).Info("stop requested")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		progressed, err := r.runCycle(ctx, cycle)
		if errors.Is(err, ErrSessionOver) {
			r.logger.WithField("cycle", cycle).Info("session over")
			return nil
		}
		if err != nil {
			return fmt.Errorf("cycle %d: %w", cycle, err)
		}
		if !progressed {
			r.logger.WithField("cycle", cycle).
				Info("no deterministic conclusions left")
			return nil
		}

		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Runner) runCycle(ctx context.Context, cycle int) (bool, error) {
	board, err := r.source.Snapshot(ctx)
	if err != nil {
		return false, err
	}

	start := time.Now()
	conclusions := sweep.Infer(board)
	took := time.Since(start)

	r.logger.WithFields(logrus.Fields{
		"cycle": cycle,
		"safe":  conclusions.Safe.Len(),
		"mines": conclusions.Mines.Len(),
	}).Debug("cycle inferred")

	if r.recorder != nil {
		report := Report{
			Width:     board.Width,
			Height:    board.Height,
			Revealed:  countRevealed(board),
			SafeCount: conclusions.Safe.Len(),
			MineCount: conclusions.Mines.Len(),
			Took:      took,
		}
		if err := r.recorder.Record(ctx, report); err != nil {
			r.logger.WithError(err).Error("failed to record cycle")
		}
	}

	if conclusions.Safe.Len() == 0 {
		return false, nil
	}

	positions := conclusions.Safe.Positions()
	if batch, ok := r.actuator.(BatchActuator); ok {
		if err := batch.OpenAll(ctx, positions); err != nil {
			return false, fmt.Errorf("open %d cells: %w", len(positions), err)
		}
		return true, nil
	}

	var pending deque.Deque[sweep.Position]
	for _, p := range positions {
		pending.PushBack(p)
	}
	for pending.Len() > 0 {
		p := pending.PopFront()
		if err := r.actuator.Open(ctx, p); err != nil {
			return false, fmt.Errorf("open %s: %w", p, err)
		}
	}
	return true, nil
}

func countRevealed(b sweep.Board) (count int) {
	for _, s := range b.Grid {
		if s.Revealed() {
			count++
		}
	}
	return
}
