package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moscow(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	return loc
}

func TestNextRunLaterToday(t *testing.T) {
	loc := moscow(t)
	s := NewScheduler(nil, 13, 0, loc, "")

	now := time.Date(2025, 6, 1, 9, 30, 0, 0, loc)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2025, 6, 1, 13, 0, 0, 0, loc), next)
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	loc := moscow(t)
	s := NewScheduler(nil, 13, 0, loc, "")

	now := time.Date(2025, 6, 1, 13, 0, 1, 0, loc)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2025, 6, 2, 13, 0, 0, 0, loc), next)
}

func TestNextRunExactlyAtTargetRolls(t *testing.T) {
	loc := moscow(t)
	s := NewScheduler(nil, 13, 0, loc, "")

	now := time.Date(2025, 6, 1, 13, 0, 0, 0, loc)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2025, 6, 2, 13, 0, 0, 0, loc), next)
}

func TestNextRunMonthRollover(t *testing.T) {
	loc := moscow(t)
	s := NewScheduler(nil, 13, 0, loc, "")

	now := time.Date(2025, 6, 30, 20, 0, 0, 0, loc)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2025, 7, 1, 13, 0, 0, 0, loc), next)
}
