package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

var (
	ErrCoachNotFound   = errors.New("coach not found")
	ErrProgramNotFound = errors.New("program not found")
)

type coachService struct {
	coaches  []domain.Coach
	programs func(now time.Time) []domain.CoachProgram
	clock    clock.Clock
}

// NewCoachService serves coaches and programs. programs is called with the
// current time on every read so date-anchored fixtures stay current.
func NewCoachService(coaches []domain.Coach, programs func(now time.Time) []domain.CoachProgram, clk clock.Clock) CoachService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &coachService{coaches: coaches, programs: programs, clock: clk}
}

func (s *coachService) Coaches(ctx context.Context) []domain.Coach {
	return append([]domain.Coach(nil), s.coaches...)
}

func (s *coachService) Coach(ctx context.Context, id string) (domain.Coach, error) {
	for _, c := range s.coaches {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Coach{}, fmt.Errorf("%w: %s", ErrCoachNotFound, id)
}

func (s *coachService) Programs(ctx context.Context) []domain.CoachProgram {
	return s.programs(s.clock.Now())
}

func (s *coachService) Program(ctx context.Context, id string) (domain.CoachProgram, error) {
	for _, p := range s.programs(s.clock.Now()) {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.CoachProgram{}, fmt.Errorf("%w: %s", ErrProgramNotFound, id)
}

// Timeline lays the program's milestones onto calendar weeks, one weekly
// occurrence per program week starting from the Monday of StartDate.
func (s *coachService) Timeline(ctx context.Context, programID string) ([]ScheduledMilestone, error) {
	p, err := s.Program(ctx, programID)
	if err != nil {
		return nil, err
	}
	if p.Weeks <= 0 {
		return nil, nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Count:   p.Weeks,
		Dtstart: domain.WeekStart(p.StartDate),
	})
	if err != nil {
		return nil, fmt.Errorf("building program weeks: %w", err)
	}
	weeks := r.All()

	current := p.CurrentWeek(s.clock.Now())
	out := make([]ScheduledMilestone, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		if m.Week < 1 || m.Week > len(weeks) {
			continue
		}
		out = append(out, ScheduledMilestone{
			Milestone: m,
			WeekOf:    weeks[m.Week-1],
			Current:   m.Week == current,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}
