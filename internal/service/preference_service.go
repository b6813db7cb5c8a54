package service

import (
	"context"
	"errors"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/db"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/ethanhollins/cc-web-sub001/internal/repository"
)

type preferenceService struct {
	prefs    repository.PreferenceRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPreferenceService(prefs repository.PreferenceRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PreferenceService {
	return &preferenceService{prefs: prefs, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Theme returns the stored theme, or ThemeSystem when none is set. A value
// that no longer parses also falls back to ThemeSystem.
func (s *preferenceService) Theme(ctx context.Context) (domain.Theme, error) {
	v, err := s.prefs.Get(ctx, domain.PrefTheme)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ThemeSystem, nil
		}
		return "", err
	}
	theme, err := domain.ParseTheme(v)
	if err != nil {
		return domain.ThemeSystem, nil
	}
	return theme, nil
}

func (s *preferenceService) SetTheme(ctx context.Context, theme domain.Theme) (err error) {
	defer observe(ctx, s.observer, "set-theme", time.Now(), map[string]any{"theme": string(theme)}, &err)

	if _, err = domain.ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.prefs.Set(ctx, domain.PrefTheme, string(theme))
}

// LastWeek returns the Monday of the week the calendar last showed.
func (s *preferenceService) LastWeek(ctx context.Context) (time.Time, bool) {
	v, err := s.prefs.Get(ctx, domain.PrefLastWeek)
	if err != nil {
		return time.Time{}, false
	}
	week, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return week, true
}

func (s *preferenceService) SetLastWeek(ctx context.Context, week time.Time) error {
	return s.prefs.Set(ctx, domain.PrefLastWeek, domain.WeekKey(week))
}

// Reset clears every preference and closes all skill tabs.
func (s *preferenceService) Reset(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "reset-preferences", time.Now(), fields, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPrefs := repository.NewSQLitePreferenceRepo(tx)
		txTabs := repository.NewSQLiteSkillTabRepo(tx)

		all, err := txPrefs.All(ctx)
		if err != nil {
			return err
		}
		for key := range all {
			if err := txPrefs.Delete(ctx, key); err != nil {
				return err
			}
		}
		tabs, err := txTabs.List(ctx)
		if err != nil {
			return err
		}
		for _, tab := range tabs {
			if err := txTabs.Delete(ctx, tab.SkillID); err != nil {
				return err
			}
		}
		fields["preferences"] = len(all)
		fields["tabs"] = len(tabs)
		return nil
	})
}
