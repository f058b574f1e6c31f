package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal/internal/modules/schedule/domain"
	"journal/internal/modules/schedule/usecase"
	"journal/internal/platform/clock"
)

func TestScheduleAndToday(t *testing.T) {
	t.Parallel()
	s, err := domain.Default()
	require.NoError(t, err)
	saturday := clock.Fixed(time.Date(2024, 1, 6, 21, 0, 0, 0, time.UTC))
	uc := usecase.NewInteractor(saturday, s)

	all, err := uc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Len(t, all.Daily, 4)
	assert.Equal(t, "Track Learning Streaks", all.Weekly[0].Standard)
	assert.Equal(t, "28th of every month", all.Monthly[0].When)

	due, err := uc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", due.Day)
	assert.Equal(t, "Saturday", due.Weekday)
	require.Len(t, due.Entries, 5)
	assert.Equal(t, "Track Learning Streaks", due.Entries[4].Standard)
}
