package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/db"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/ethanhollins/cc-web-sub001/internal/repository"
)

// ErrSkillNotFound is returned for an unknown skill id.
var ErrSkillNotFound = errors.New("skill not found")

type skillService struct {
	mu     sync.Mutex
	order  []string
	skills map[string]domain.Skill

	tabs     repository.SkillTabRepo
	prefs    repository.PreferenceRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewSkillService serves skills from an in-memory copy of skills. Progress
// edits are lost on exit; open tabs and the active tab are persisted.
func NewSkillService(skills []domain.Skill, tabs repository.SkillTabRepo, prefs repository.PreferenceRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SkillService {
	s := &skillService{
		skills:   make(map[string]domain.Skill, len(skills)),
		tabs:     tabs,
		prefs:    prefs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
	for _, sk := range skills {
		if _, dup := s.skills[sk.ID]; !dup {
			s.order = append(s.order, sk.ID)
		}
		s.skills[sk.ID] = sk.Clone()
	}
	return s
}

func (s *skillService) List(ctx context.Context) []domain.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Skill, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.skills[id].Clone())
	}
	return out
}

func (s *skillService) Get(ctx context.Context, id string) (domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.skills[id]
	if !ok {
		return domain.Skill{}, fmt.Errorf("%w: %s", ErrSkillNotFound, id)
	}
	return sk.Clone(), nil
}

func (s *skillService) SetStageProgress(ctx context.Context, skillID string, stage, progress int) (domain.Skill, error) {
	return s.mutate(skillID, func(sk *domain.Skill) error {
		return sk.SetStageProgress(stage, progress)
	})
}

func (s *skillService) SetObjectiveProgress(ctx context.Context, skillID string, progress int) (domain.Skill, error) {
	return s.mutate(skillID, func(sk *domain.Skill) error {
		return sk.SetObjectiveProgress(progress)
	})
}

// mutate edits a copy and stores it only when fn succeeds.
func (s *skillService) mutate(id string, fn func(*domain.Skill) error) (domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.skills[id]
	if !ok {
		return domain.Skill{}, fmt.Errorf("%w: %s", ErrSkillNotFound, id)
	}
	next := sk.Clone()
	if err := fn(&next); err != nil {
		return domain.Skill{}, err
	}
	s.skills[id] = next
	return next.Clone(), nil
}

func (s *skillService) known(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.skills[id]
	return ok
}

func (s *skillService) Tabs(ctx context.Context) ([]domain.SkillTab, error) {
	return s.tabs.List(ctx)
}

// OpenTab appends a tab for the skill, or focuses it if already open.
func (s *skillService) OpenTab(ctx context.Context, skillID string) (err error) {
	defer observe(ctx, s.observer, "open-skill-tab", time.Now(), map[string]any{"skill": skillID}, &err)

	if !s.known(skillID) {
		return fmt.Errorf("%w: %s", ErrSkillNotFound, skillID)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTabs := repository.NewSQLiteSkillTabRepo(tx)
		txPrefs := repository.NewSQLitePreferenceRepo(tx)

		tabs, err := txTabs.List(ctx)
		if err != nil {
			return err
		}
		if tabIndex(tabs, skillID) < 0 {
			tab := domain.SkillTab{SkillID: skillID, Position: len(tabs), OpenedAt: time.Now().UTC()}
			if err := txTabs.Insert(ctx, tab); err != nil {
				return err
			}
		}
		return txPrefs.Set(ctx, domain.PrefActiveSkillTab, skillID)
	})
}

// CloseTab removes a tab and closes the gap it leaves. When the closed tab
// was active, the tab that slides into its place becomes active, or the
// one before it when it was last.
func (s *skillService) CloseTab(ctx context.Context, skillID string) (err error) {
	defer observe(ctx, s.observer, "close-skill-tab", time.Now(), map[string]any{"skill": skillID}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTabs := repository.NewSQLiteSkillTabRepo(tx)
		txPrefs := repository.NewSQLitePreferenceRepo(tx)

		tabs, err := txTabs.List(ctx)
		if err != nil {
			return err
		}
		idx := tabIndex(tabs, skillID)
		if idx < 0 {
			return fmt.Errorf("skill tab %s: %w", skillID, repository.ErrNotFound)
		}
		if err := txTabs.Delete(ctx, skillID); err != nil {
			return err
		}
		rest := append(tabs[:idx:idx], tabs[idx+1:]...)
		if err := renumberTabs(ctx, txTabs, rest); err != nil {
			return err
		}

		active, err := activeTab(ctx, txPrefs)
		if err != nil || active != skillID {
			return err
		}
		if len(rest) == 0 {
			return clearActiveTab(ctx, txPrefs)
		}
		next := min(idx, len(rest)-1)
		return txPrefs.Set(ctx, domain.PrefActiveSkillTab, rest[next].SkillID)
	})
}

// MoveTab moves a tab to position, shifting the tabs in between. Positions
// past either end are clamped.
func (s *skillService) MoveTab(ctx context.Context, skillID string, position int) (err error) {
	defer observe(ctx, s.observer, "move-skill-tab", time.Now(), map[string]any{"skill": skillID, "position": position}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTabs := repository.NewSQLiteSkillTabRepo(tx)

		tabs, err := txTabs.List(ctx)
		if err != nil {
			return err
		}
		idx := tabIndex(tabs, skillID)
		if idx < 0 {
			return fmt.Errorf("skill tab %s: %w", skillID, repository.ErrNotFound)
		}
		position = max(0, min(position, len(tabs)-1))
		if position == idx {
			return nil
		}

		moved := tabs[idx]
		rest := append(tabs[:idx:idx], tabs[idx+1:]...)
		reordered := make([]domain.SkillTab, 0, len(tabs))
		reordered = append(reordered, rest[:position]...)
		reordered = append(reordered, moved)
		reordered = append(reordered, rest[position:]...)
		return renumberTabs(ctx, txTabs, reordered)
	})
}

func (s *skillService) PinTab(ctx context.Context, skillID string, pinned bool) (err error) {
	defer observe(ctx, s.observer, "pin-skill-tab", time.Now(), map[string]any{"skill": skillID, "pinned": pinned}, &err)
	return s.tabs.SetPinned(ctx, skillID, pinned)
}

// CloseUnpinned closes every tab that is not pinned. If the active tab
// goes, the first remaining tab takes over.
func (s *skillService) CloseUnpinned(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "close-unpinned-tabs", time.Now(), fields, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTabs := repository.NewSQLiteSkillTabRepo(tx)
		txPrefs := repository.NewSQLitePreferenceRepo(tx)

		tabs, err := txTabs.List(ctx)
		if err != nil {
			return err
		}
		var kept []domain.SkillTab
		closed := 0
		for _, tab := range tabs {
			if tab.Pinned {
				kept = append(kept, tab)
				continue
			}
			if err := txTabs.Delete(ctx, tab.SkillID); err != nil {
				return err
			}
			closed++
		}
		fields["closed"] = closed
		if err := renumberTabs(ctx, txTabs, kept); err != nil {
			return err
		}

		active, err := activeTab(ctx, txPrefs)
		if err != nil || active == "" || tabIndex(kept, active) >= 0 {
			return err
		}
		if len(kept) == 0 {
			return clearActiveTab(ctx, txPrefs)
		}
		return txPrefs.Set(ctx, domain.PrefActiveSkillTab, kept[0].SkillID)
	})
}

// ActiveTab returns the focused skill id, or "" when no tab is open.
func (s *skillService) ActiveTab(ctx context.Context) (string, error) {
	return activeTab(ctx, s.prefs)
}

func activeTab(ctx context.Context, prefs repository.PreferenceRepo) (string, error) {
	id, err := prefs.Get(ctx, domain.PrefActiveSkillTab)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return id, err
}

func clearActiveTab(ctx context.Context, prefs repository.PreferenceRepo) error {
	if err := prefs.Delete(ctx, domain.PrefActiveSkillTab); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func tabIndex(tabs []domain.SkillTab, skillID string) int {
	for i := range tabs {
		if tabs[i].SkillID == skillID {
			return i
		}
	}
	return -1
}

// renumberTabs writes positions 0..n-1 in slice order, skipping rows that
// already hold the right position.
func renumberTabs(ctx context.Context, repo repository.SkillTabRepo, tabs []domain.SkillTab) error {
	for i, tab := range tabs {
		if tab.Position == i {
			continue
		}
		if err := repo.SetPosition(ctx, tab.SkillID, i); err != nil {
			return err
		}
	}
	return nil
}
