package gesture

// Context menu items.
const (
	ItemEdit     = "Edit"
	ItemComplete = "Complete"
	ItemDelete   = "Delete"
)

// DefaultMenuItems is the context menu shown for an event.
var DefaultMenuItems = []string{ItemEdit, ItemComplete, ItemDelete}

// Menu is a bordered context menu anchored at the pointer. The box spans
// one row of border above and below the items.
type Menu struct {
	Open     bool
	At       Point
	EventID  string
	Items    []string
	Selected int
}

// Show opens the menu for eventID at the pointer. It refuses while a drag
// is in progress.
func (m *Menu) Show(eventID string, at Point, items []string, dragging bool) bool {
	if dragging || len(items) == 0 {
		return false
	}
	*m = Menu{Open: true, At: at, EventID: eventID, Items: items}
	return true
}

func (m *Menu) Dismiss() {
	*m = Menu{}
}

// Width is the rendered width including border and padding.
func (m *Menu) Width() int {
	w := 0
	for _, it := range m.Items {
		if len(it) > w {
			w = len(it)
		}
	}
	return w + 4
}

// Height is the rendered height including border.
func (m *Menu) Height() int {
	return len(m.Items) + 2
}

// Contains reports whether p falls inside the menu box.
func (m *Menu) Contains(p Point) bool {
	if !m.Open {
		return false
	}
	return p.X >= m.At.X && p.X < m.At.X+m.Width() &&
		p.Y >= m.At.Y && p.Y < m.At.Y+m.Height()
}

// ItemAt returns the item under p. Border rows hit nothing.
func (m *Menu) ItemAt(p Point) (string, bool) {
	if !m.Contains(p) {
		return "", false
	}
	i := p.Y - m.At.Y - 1
	if i < 0 || i >= len(m.Items) {
		return "", false
	}
	return m.Items[i], true
}

// MoveSelection moves the keyboard highlight, wrapping at either end.
func (m *Menu) MoveSelection(delta int) {
	if len(m.Items) == 0 {
		return
	}
	n := len(m.Items)
	m.Selected = ((m.Selected+delta)%n + n) % n
}

// Current returns the highlighted item.
func (m *Menu) Current() string {
	if !m.Open || len(m.Items) == 0 {
		return ""
	}
	return m.Items[m.Selected]
}
