package domain

import "fmt"

// MasteryStage is one rung of a mastery rubric.
type MasteryStage struct {
	Name        string
	Description string
	Progress    int
}

// Objective is a single-goal rubric.
type Objective struct {
	Goal     string
	Progress int
}

// Skill is either a staged mastery rubric or a single objective. Progress
// lives only in memory.
type Skill struct {
	ID        string
	Title     string
	Category  string
	Kind      SkillKind
	Stages    []MasteryStage
	Objective *Objective
}

// ClampProgress bounds a percentage to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Progress returns overall completion: the mean over stages for mastery
// skills, the objective progress otherwise.
func (s *Skill) Progress() int {
	switch s.Kind {
	case SkillObjective:
		if s.Objective == nil {
			return 0
		}
		return s.Objective.Progress
	default:
		if len(s.Stages) == 0 {
			return 0
		}
		total := 0
		for _, st := range s.Stages {
			total += st.Progress
		}
		return total / len(s.Stages)
	}
}

// CurrentStage returns the index of the first unfinished stage, or
// len(Stages) when every stage is complete.
func (s *Skill) CurrentStage() int {
	for i, st := range s.Stages {
		if st.Progress < 100 {
			return i
		}
	}
	return len(s.Stages)
}

// SetStageProgress updates one mastery stage.
func (s *Skill) SetStageProgress(stage, progress int) error {
	if s.Kind != SkillMastery {
		return fmt.Errorf("skill %s has no stages", s.ID)
	}
	if stage < 0 || stage >= len(s.Stages) {
		return fmt.Errorf("skill %s: stage %d out of range (0-%d)", s.ID, stage, len(s.Stages)-1)
	}
	s.Stages[stage].Progress = ClampProgress(progress)
	return nil
}

// SetObjectiveProgress updates an objective skill.
func (s *Skill) SetObjectiveProgress(progress int) error {
	if s.Kind != SkillObjective || s.Objective == nil {
		return fmt.Errorf("skill %s is not an objective", s.ID)
	}
	s.Objective.Progress = ClampProgress(progress)
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s Skill) Clone() Skill {
	out := s
	if s.Stages != nil {
		out.Stages = append([]MasteryStage(nil), s.Stages...)
	}
	if s.Objective != nil {
		obj := *s.Objective
		out.Objective = &obj
	}
	return out
}
