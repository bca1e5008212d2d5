package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuuuno/sweeper/internal/sweep"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.ErrorLevel)
	m.Run()
}

type scriptedSource struct {
	mu     sync.Mutex
	boards []sweep.Board
	calls  int
}

func (s *scriptedSource) Snapshot(ctx context.Context) (sweep.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.boards) {
		return sweep.Board{}, ErrSessionOver
	}
	b := s.boards[s.calls]
	s.calls++
	return b, nil
}

type recordingActuator struct {
	mu     sync.Mutex
	opened []sweep.Position
	err    error
}

func (a *recordingActuator) Open(ctx context.Context, p sweep.Position) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opened = append(a.opened, p)
	return a.err
}

func board(t *testing.T, rows [][]sweep.TileState) sweep.Board {
	t.Helper()
	b, err := sweep.NewBoard(rows)
	require.NoError(t, err)
	return b
}

// One clue pins (0,1) as a mine and the covered clues below clear
// (0,2); the follow-up snapshot offers nothing.
func solvableThenStuck(t *testing.T) []sweep.Board {
	return []sweep.Board{
		board(t, [][]sweep.TileState{
			{sweep.Revealed(1), sweep.Hidden, sweep.Hidden},
			{sweep.Revealed(1), sweep.Revealed(1), sweep.Revealed(1)},
		}),
		board(t, [][]sweep.TileState{
			{sweep.Hidden, sweep.Hidden, sweep.Hidden},
			{sweep.Revealed(1), sweep.Revealed(2), sweep.Revealed(1)},
		}),
	}
}

func TestRunnerOpensSafeCellsUntilStuck(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{boards: solvableThenStuck(t)}
	actuator := &recordingActuator{}
	runner := New(source, actuator, WithSettleDelay(time.Millisecond))

	err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []sweep.Position{{Row: 0, Col: 2}}, actuator.opened)
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, Idle, runner.Phase())
}

func TestRunnerStopsWhenSessionEnds(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{} // immediately over
	runner := New(source, &recordingActuator{},
		WithSettleDelay(time.Millisecond))

	require.NoError(t, runner.Run(context.Background()))
	assert.Equal(t, Idle, runner.Phase())
}

func TestRunnerRejectsReentrantRun(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	source := blockingSource{release: release}
	runner := New(source, &recordingActuator{},
		WithSettleDelay(time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background())
	}()

	require.Eventually(t, func() bool {
		return runner.Phase() == Running
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, runner.Run(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, runner.Phase())
}

type blockingSource struct {
	release chan struct{}
}

func (s blockingSource) Snapshot(ctx context.Context) (sweep.Board, error) {
	<-s.release
	return sweep.Board{}, ErrSessionOver
}

func TestRunnerHonorsStopAtCycleBoundary(t *testing.T) {
	t.Parallel()

	// The same solvable board forever; without Stop this would loop.
	source := repeatingSource{b: board(t, [][]sweep.TileState{
		{sweep.Revealed(1), sweep.Hidden, sweep.Hidden},
		{sweep.Revealed(1), sweep.Revealed(1), sweep.Revealed(1)},
	})}
	runner := New(source, &recordingActuator{},
		WithSettleDelay(time.Millisecond))

	assert.False(t, runner.Stop(), "stopping an idle runner")

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background())
	}()

	require.Eventually(t, func() bool {
		return runner.Stop()
	}, time.Second, time.Millisecond)

	require.NoError(t, <-done)
	assert.Equal(t, Idle, runner.Phase())
}

type repeatingSource struct {
	b sweep.Board
}

func (s repeatingSource) Snapshot(ctx context.Context) (sweep.Board, error) {
	return s.b, nil
}

func TestRunnerCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &scriptedSource{boards: solvableThenStuck(t)}
	runner := New(source, &recordingActuator{})

	assert.ErrorIs(t, runner.Run(ctx), context.Canceled)
	assert.Equal(t, Idle, runner.Phase())
}

type batchRecordingActuator struct {
	recordingActuator
	batches [][]sweep.Position
}

func (a *batchRecordingActuator) OpenAll(
	ctx context.Context, positions []sweep.Position,
) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.batches = append(a.batches, positions)
	return nil
}

func TestRunnerPrefersBatchActuation(t *testing.T) {
	t.Parallel()

	// A zero clue clears both of its hidden neighbors at once.
	source := &scriptedSource{boards: []sweep.Board{
		board(t, [][]sweep.TileState{
			{sweep.Hidden, sweep.Revealed(0), sweep.Hidden},
		}),
	}}
	actuator := &batchRecordingActuator{}
	runner := New(source, actuator, WithSettleDelay(time.Millisecond))

	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, actuator.batches, 1)
	assert.Equal(t, []sweep.Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: 2},
	}, actuator.batches[0])
	assert.Empty(t, actuator.opened, "cell-by-cell path must be skipped")
}

type memoryRecorder struct {
	mu      sync.Mutex
	reports []Report
	err     error
}

func (r *memoryRecorder) Record(ctx context.Context, report Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

func TestRunnerRecordsCycles(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{boards: solvableThenStuck(t)}
	recorder := &memoryRecorder{err: errors.New("storage down")}
	runner := New(source, &recordingActuator{},
		WithSettleDelay(time.Millisecond),
		WithRecorder(recorder),
	)

	// A failing recorder must not stop the loop.
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, recorder.reports, 2)
	first := recorder.reports[0]
	assert.Equal(t, 3, first.Width)
	assert.Equal(t, 2, first.Height)
	assert.Equal(t, 4, first.Revealed)
	assert.Equal(t, 1, first.SafeCount)
	assert.Equal(t, 1, first.MineCount)
	assert.Zero(t, recorder.reports[1].SafeCount)
}
