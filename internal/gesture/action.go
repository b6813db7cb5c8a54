package gesture

import "time"

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionContextMenu
	ActionEdit
	ActionMenuSelect
	ActionDragCreate
	ActionMove
	ActionResize
	ActionDismiss
)

var actionNames = map[ActionKind]string{
	ActionNone:        "none",
	ActionContextMenu: "context-menu",
	ActionEdit:        "edit",
	ActionMenuSelect:  "menu-select",
	ActionDragCreate:  "drag-create",
	ActionMove:        "move",
	ActionResize:      "resize",
	ActionDismiss:     "dismiss",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return "unknown"
}

// Action is a semantic calendar gesture. Start/End are set for drag
// actions; Item is set for menu selections.
type Action struct {
	Kind    ActionKind
	EventID string
	At      Point
	Start   time.Time
	End     time.Time
	Item    string
}
