package formatter

import (
	"fmt"
	"strings"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// FormatSkillList renders every skill with its overall progress.
func FormatSkillList(skills []domain.Skill) string {
	if len(skills) == 0 {
		return Dim("No skills.")
	}
	headers := []string{"ID", "SKILL", "CATEGORY", "KIND", "PROGRESS"}
	rows := make([][]string, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, []string{
			Dim(s.ID),
			Bold(s.Title),
			StylePurple.Render(s.Category),
			string(s.Kind),
			RenderProgress(s.Progress(), 12),
		})
	}
	return RenderBox("Skills", RenderTable(headers, rows))
}

// FormatSkillDetail renders a skill's rubric: each mastery stage with its
// bar and the current stage marked, or the single objective.
func FormatSkillDetail(s domain.Skill) string {
	var b strings.Builder
	b.WriteString(Bold(s.Title) + "  " + Dim(s.Category) + "\n\n")

	if s.Kind == domain.SkillObjective {
		if s.Objective != nil {
			b.WriteString(s.Objective.Goal + "\n")
			b.WriteString(RenderProgress(s.Objective.Progress, 24))
		}
		return b.String()
	}

	current := s.CurrentStage()
	for i, st := range s.Stages {
		marker := "  "
		name := PadRight(st.Name, 22)
		switch {
		case i < current:
			marker = StyleGreen.Render("✔ ")
			name = Dim(name)
		case i == current:
			marker = StyleYellowBold.Render("▶ ")
			name = StyleYellowBold.Render(name)
		}
		fmt.Fprintf(&b, "%s%d. %s  %s\n", marker, i, name, RenderProgress(st.Progress, 16))
		if st.Description != "" {
			b.WriteString("      " + Dim(st.Description) + "\n")
		}
	}
	b.WriteString("\n" + Dim("Overall ") + RenderProgress(s.Progress(), 24))
	return b.String()
}

// FormatSkillTabs renders the open tab strip. The active tab is bold,
// pinned tabs carry a pin marker.
func FormatSkillTabs(tabs []domain.SkillTab, skills map[string]domain.Skill, active string) string {
	if len(tabs) == 0 {
		return Dim("No open tabs.")
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.SkillID
		if s, ok := skills[t.SkillID]; ok {
			label = Truncate(s.Title, 18)
		}
		if t.Pinned {
			label = "📌" + label
		}
		if t.SkillID == active {
			parts = append(parts, StyleHeader.Render("["+label+"]"))
		} else {
			parts = append(parts, Dim(" "+label+" "))
		}
	}
	return strings.Join(parts, Dim("│"))
}
