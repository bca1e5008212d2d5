package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yuuuno/sweeper/internal/loop"
)

func TestNewRunParams(t *testing.T) {
	t.Parallel()

	params := newRunParams(loop.Report{
		Width:     9,
		Height:    9,
		Revealed:  17,
		SafeCount: 3,
		MineCount: 2,
		Took:      1500 * time.Microsecond,
	})

	assert.Equal(t, CreateInferenceRunParams{
		Width:      9,
		Height:     9,
		Revealed:   17,
		SafeCount:  3,
		MineCount:  2,
		DurationUs: 1500,
	}, params)
	assert.Nil(t, params.AccountId)
}
