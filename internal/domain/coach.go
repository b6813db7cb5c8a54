package domain

import "time"

type Coach struct {
	ID         string
	Name       string
	Specialty  string
	Bio        string
	ProgramIDs []string
}

// Milestone is the set of tickets planned for one program week.
type Milestone struct {
	Week    int
	Title   string
	Tickets []Ticket
}

// SuccessCriterion is a checkable outcome of a program.
type SuccessCriterion struct {
	Description string
	Met         bool
}

// CoachProgram is a multi-week guided plan.
type CoachProgram struct {
	ID              string
	CoachID         string
	Title           string
	Description     string
	StartDate       time.Time
	Weeks           int
	Milestones      []Milestone
	SuccessCriteria []SuccessCriterion
}

// CurrentWeek returns the 1-based program week containing now. It returns
// 0 before the program starts and Weeks+1 once it has finished.
func (p *CoachProgram) CurrentWeek(now time.Time) int {
	start := WeekStart(p.StartDate)
	if now.Before(start) {
		return 0
	}
	week := int(now.Sub(start).Hours()/(24*7)) + 1
	if week > p.Weeks {
		return p.Weeks + 1
	}
	return week
}

// MilestoneForWeek returns the milestone planned for the given week.
func (p *CoachProgram) MilestoneForWeek(week int) (*Milestone, bool) {
	for i := range p.Milestones {
		if p.Milestones[i].Week == week {
			return &p.Milestones[i], true
		}
	}
	return nil, false
}

// Completion returns the percentage of milestone tickets that are done.
func (p *CoachProgram) Completion() int {
	total, done := 0, 0
	for _, m := range p.Milestones {
		for _, t := range m.Tickets {
			total++
			if t.Status == StatusDone {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

// CriteriaMet counts met success criteria.
func (p *CoachProgram) CriteriaMet() (met, total int) {
	for _, c := range p.SuccessCriteria {
		if c.Met {
			met++
		}
	}
	return met, len(p.SuccessCriteria)
}
