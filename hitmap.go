package timeline

// ActionKind distinguishes the drag/click behaviors a HitMap can
// dispatch.
type ActionKind int

const (
	NoAction ActionKind = iota
	ActionMoveCut
	ActionRippleMoveCut
	ActionResizeLeft
	ActionResizeRight
	ActionScrub
)

// Action is what a HitMap rectangle dispatches to on pick or drag. A
// zero-value Action (Kind == NoAction) is the no-op result `perform`
// falls back to when nothing is hit.
type Action struct {
	Kind  ActionKind
	CutID string
}

// IsNoAction reports whether a is the no-op sentinel.
func (a Action) IsNoAction() bool {
	return a.Kind == NoAction
}

type hitEntry struct {
	rect   Rectangle
	action Action
}

// HitMap is an ordered list of (Rectangle, Action) pairs built fresh
// each draw frame and queried by Perform for mouse picking. Entries
// added later are drawn on top, so Perform searches them first.
type HitMap struct {
	entries []hitEntry
}

// NewHitMap returns an empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add appends a hit region in insertion (draw) order.
func (h *HitMap) Add(rect Rectangle, action Action) {
	h.entries = append(h.entries, hitEntry{rect: rect, action: action})
}

// Clear empties the map, ready for the next draw frame.
func (h *HitMap) Clear() {
	h.entries = h.entries[:0]
}

// Perform iterates entries in reverse insertion order — the topmost,
// last-drawn rectangle wins — and invokes fn on the action of each
// rectangle containing (x,y), skipping actions that IsNoAction. It
// returns the first action for which fn returns true (consumed); if
// fn consumes none, or no rectangle contains the point, Perform
// returns the zero Action.
func (h *HitMap) Perform(x, y int, fn func(Action) bool) Action {
	for i := len(h.entries) - 1; i >= 0; i-- {
		entry := h.entries[i]
		if !entry.rect.Contains(x, y) {
			continue
		}
		if entry.action.IsNoAction() {
			continue
		}
		if fn(entry.action) {
			return entry.action
		}
	}
	return Action{}
}
