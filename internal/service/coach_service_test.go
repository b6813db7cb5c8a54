package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/ethanhollins/cc-web-sub001/internal/mock"
)

func newCoachFixture(now time.Time) CoachService {
	return NewCoachService(mock.Coaches(), mock.Programs, clock.NewFake(now))
}

func TestCoachService_Lookup(t *testing.T) {
	ctx := context.Background()
	svc := newCoachFixture(wed)

	assert.Len(t, svc.Coaches(ctx), 3)

	c, err := svc.Coach(ctx, "coach-maya")
	require.NoError(t, err)
	assert.Contains(t, c.ProgramIDs, "prog-focus")

	_, err = svc.Coach(ctx, "coach-nobody")
	assert.ErrorIs(t, err, ErrCoachNotFound)

	_, err = svc.Program(ctx, "prog-nothing")
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestCoachService_TimelineWeeks(t *testing.T) {
	svc := newCoachFixture(wed)

	timeline, err := svc.Timeline(context.Background(), "prog-focus")
	require.NoError(t, err)
	require.Len(t, timeline, 6)

	monday := domain.WeekStart(wed)
	for i, m := range timeline {
		assert.Equal(t, i+1, m.Week)
		want := monday.AddDate(0, 0, 7*(i-2))
		assert.True(t, m.WeekOf.Equal(want), "week %d: got %s want %s", m.Week, m.WeekOf, want)
		assert.Equal(t, time.Monday, m.WeekOf.Weekday())
	}

	var current []int
	for _, m := range timeline {
		if m.Current {
			current = append(current, m.Week)
		}
	}
	assert.Equal(t, []int{3}, current, "program started two weeks ago")
}

func TestCoachService_TimelineFollowsClock(t *testing.T) {
	fake := clock.NewFake(wed)
	svc := NewCoachService(mock.Coaches(), mock.Programs, fake)

	p, err := svc.Program(context.Background(), "prog-strength")
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentWeek(wed), "strength program starts next week")

	timeline, err := svc.Timeline(context.Background(), "prog-strength")
	require.NoError(t, err)
	for _, m := range timeline {
		assert.False(t, m.Current)
	}
}

func TestCoachService_EmptyProgram(t *testing.T) {
	programs := func(now time.Time) []domain.CoachProgram {
		return []domain.CoachProgram{{ID: "empty", StartDate: now}}
	}
	svc := NewCoachService(nil, programs, clock.NewFake(wed))

	timeline, err := svc.Timeline(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, timeline)
}
