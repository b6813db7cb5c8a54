// Package mock holds the static coach, program and skill data the client
// shows until the backend serves them.
package mock

import (
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// Coaches returns the coach roster.
func Coaches() []domain.Coach {
	return []domain.Coach{
		{
			ID:         "coach-maya",
			Name:       "Maya Okafor",
			Specialty:  "Deep work & focus",
			Bio:        "Former engineering lead who now helps makers protect long blocks of focused time.",
			ProgramIDs: []string{"prog-focus"},
		},
		{
			ID:         "coach-tomas",
			Name:       "Tomás Reyes",
			Specialty:  "Strength & conditioning",
			Bio:        "Builds sustainable training habits around a busy calendar.",
			ProgramIDs: []string{"prog-strength"},
		},
		{
			ID:         "coach-iris",
			Name:       "Iris Lindqvist",
			Specialty:  "Language learning",
			Bio:        "Polyglot and language tutor; short daily practice over weekend cramming.",
			ProgramIDs: []string{"prog-spanish"},
		},
	}
}

func milestoneTicket(id, key, title string, status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{ID: id, Key: key, Type: domain.TicketTask, Title: title, Status: status}
}

// Programs returns the coaching programs. Start dates are anchored to the
// week of now so the fixtures always show a program in progress.
func Programs(now time.Time) []domain.CoachProgram {
	week := domain.WeekStart(now)
	return []domain.CoachProgram{
		{
			ID:          "prog-focus",
			CoachID:     "coach-maya",
			Title:       "Six Weeks of Deep Work",
			Description: "Replace reactive days with planned focus blocks.",
			StartDate:   week.AddDate(0, 0, -14),
			Weeks:       6,
			Milestones: []domain.Milestone{
				{Week: 1, Title: "Audit your week", Tickets: []domain.Ticket{
					milestoneTicket("pf-1", "FOC-1", "Log every interruption for five days", domain.StatusDone),
					milestoneTicket("pf-2", "FOC-2", "Pick two daily focus windows", domain.StatusDone),
				}},
				{Week: 2, Title: "Protect the mornings", Tickets: []domain.Ticket{
					milestoneTicket("pf-3", "FOC-3", "Schedule 90 minute morning blocks", domain.StatusDone),
					milestoneTicket("pf-4", "FOC-4", "Turn off notifications during blocks", domain.StatusInProgress),
				}},
				{Week: 3, Title: "Batch the shallow work", Tickets: []domain.Ticket{
					milestoneTicket("pf-5", "FOC-5", "Answer messages at fixed times", domain.StatusTodo),
					milestoneTicket("pf-6", "FOC-6", "Move meetings to afternoons", domain.StatusTodo),
				}},
				{Week: 4, Title: "Extend the blocks", Tickets: []domain.Ticket{
					milestoneTicket("pf-7", "FOC-7", "Two-hour block three days this week", domain.StatusTodo),
				}},
				{Week: 5, Title: "Review and adjust", Tickets: []domain.Ticket{
					milestoneTicket("pf-8", "FOC-8", "Compare output against week 1", domain.StatusTodo),
				}},
				{Week: 6, Title: "Make it stick", Tickets: []domain.Ticket{
					milestoneTicket("pf-9", "FOC-9", "Write your focus rules", domain.StatusTodo),
				}},
			},
			SuccessCriteria: []domain.SuccessCriterion{
				{Description: "Ten hours of focus blocks per week", Met: true},
				{Description: "No more than three meetings before noon", Met: false},
				{Description: "Inbox checked at most four times a day", Met: false},
			},
		},
		{
			ID:          "prog-strength",
			CoachID:     "coach-tomas",
			Title:       "Foundations of Strength",
			Description: "Three short sessions a week, progressive load.",
			StartDate:   week.AddDate(0, 0, 7),
			Weeks:       8,
			Milestones: []domain.Milestone{
				{Week: 1, Title: "Movement baseline", Tickets: []domain.Ticket{
					milestoneTicket("ps-1", "STR-1", "Record squat, push-up and plank baselines", domain.StatusTodo),
				}},
				{Week: 4, Title: "First progression", Tickets: []domain.Ticket{
					milestoneTicket("ps-2", "STR-2", "Add load to every main lift", domain.StatusTodo),
				}},
				{Week: 8, Title: "Retest", Tickets: []domain.Ticket{
					milestoneTicket("ps-3", "STR-3", "Repeat the baseline tests", domain.StatusTodo),
				}},
			},
			SuccessCriteria: []domain.SuccessCriterion{
				{Description: "24 sessions completed"},
				{Description: "Baseline numbers improved by 15%"},
			},
		},
		{
			ID:          "prog-spanish",
			CoachID:     "coach-iris",
			Title:       "Conversational Spanish in 12 Weeks",
			Description: "Fifteen minutes a day plus one conversation a week.",
			StartDate:   week.AddDate(0, 0, -7*13),
			Weeks:       12,
			Milestones: []domain.Milestone{
				{Week: 1, Title: "Sounds and greetings", Tickets: []domain.Ticket{
					milestoneTicket("sp-1", "ESP-1", "Daily pronunciation drills", domain.StatusDone),
				}},
				{Week: 6, Title: "First conversation", Tickets: []domain.Ticket{
					milestoneTicket("sp-2", "ESP-2", "Book a 30 minute tutor call", domain.StatusDone),
				}},
				{Week: 12, Title: "Ten minute conversation", Tickets: []domain.Ticket{
					milestoneTicket("sp-3", "ESP-3", "Hold a ten minute conversation", domain.StatusDone),
				}},
			},
			SuccessCriteria: []domain.SuccessCriterion{
				{Description: "Hold a ten minute conversation", Met: true},
			},
		},
	}
}

// Skills returns the skill rubrics with their starting progress.
func Skills() []domain.Skill {
	return []domain.Skill{
		{
			ID:       "skill-go",
			Title:    "Go",
			Category: "Engineering",
			Kind:     domain.SkillMastery,
			Stages: []domain.MasteryStage{
				{Name: "Novice", Description: "Reads and edits existing Go code", Progress: 100},
				{Name: "Competent", Description: "Ships services with tests and clear errors", Progress: 80},
				{Name: "Proficient", Description: "Designs concurrent packages others build on", Progress: 35},
				{Name: "Expert", Description: "Shapes conventions across teams", Progress: 0},
			},
		},
		{
			ID:       "skill-writing",
			Title:    "Technical writing",
			Category: "Communication",
			Kind:     domain.SkillMastery,
			Stages: []domain.MasteryStage{
				{Name: "Clear", Description: "Short, correct, one idea per paragraph", Progress: 90},
				{Name: "Persuasive", Description: "Design docs that get decisions made", Progress: 40},
				{Name: "Teaching", Description: "Guides that others learn from", Progress: 10},
			},
		},
		{
			ID:        "skill-5k",
			Title:     "Run a 5k under 25 minutes",
			Category:  "Fitness",
			Kind:      domain.SkillObjective,
			Objective: &domain.Objective{Goal: "5k in 24:59", Progress: 60},
		},
		{
			ID:        "skill-spanish",
			Title:     "Spanish B1",
			Category:  "Languages",
			Kind:      domain.SkillObjective,
			Objective: &domain.Objective{Goal: "Pass a B1 mock exam", Progress: 25},
		},
	}
}
