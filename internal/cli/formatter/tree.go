package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// TreeItem is one line of a ticket tree.
type TreeItem struct {
	Key    string
	Title  string
	Level  int
	IsLast bool
	Status domain.TicketStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// TicketTree flattens tickets into tree items: epics first with their
// children indented below, then tickets outside any listed epic.
func TicketTree(tickets []domain.Ticket) []TreeItem {
	listed := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		if t.IsEpic() {
			listed[t.ID] = true
		}
	}

	var items []TreeItem
	for _, t := range tickets {
		if !t.IsEpic() {
			continue
		}
		items = append(items, treeItem(t, 0, false))
		children := domain.EpicChildren(tickets, t.ID)
		for i, c := range children {
			items = append(items, treeItem(c, 1, i == len(children)-1))
		}
	}
	for _, t := range tickets {
		if t.IsEpic() || (t.EpicID != "" && listed[t.EpicID]) {
			continue
		}
		items = append(items, treeItem(t, 0, false))
	}
	return items
}

func treeItem(t domain.Ticket, level int, last bool) TreeItem {
	return TreeItem{
		Key:    t.DisplayKey(),
		Title:  t.Title,
		Level:  level,
		IsLast: last,
		Status: t.Status,
		Detail: string(t.Type),
	}
}

// RenderTree renders TreeItems as an indented tree with box-drawing
// connectors. Done tickets get a green ✔, in-progress ones an amber ▶,
// and type badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}
	lines := make([]line, len(items))
	width := 0

	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Key != "" {
			title = StyleDim.Render(item.Key+" ") + title
		}
		mark := ""
		switch item.Status {
		case domain.StatusDone:
			mark = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusInProgress:
			mark = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case domain.StatusRemoved:
			title = Dim(title)
		}

		lines[i].content = prefix + mark + title
		if item.Detail != "" {
			lines[i].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		width = max(width, lipgloss.Width(lines[i].content))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.content)
		if l.badge != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(l.content)) + "  " + l.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}
