package domain

import (
	"fmt"
	"strings"
	"time"
)

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

var Themes = []Theme{ThemeSystem, ThemeLight, ThemeDark}

func ParseTheme(s string) (Theme, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Themes {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q (want system, light or dark)", s)
}

// Preference keys persisted in the local state database.
const (
	PrefTheme          = "theme"
	PrefActiveSkillTab = "skills.active_tab"
	PrefLastWeek       = "calendar.last_week"
)

// SkillTab is a skill opened as a tab in the skills view.
type SkillTab struct {
	SkillID  string
	Position int
	Pinned   bool
	OpenedAt time.Time
}
