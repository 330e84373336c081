package pipeline

import "sync"

// SelectionManager tracks the applicant ids chosen for a bulk action. It
// never trusts a cached count: membership questions are always answered
// against the live id set handed in by the caller, so a list reload that
// removed rows cannot leave the selection out of sync.
type SelectionManager struct {
	mu       sync.Mutex
	selected map[string]struct{}
}

func NewSelectionManager() *SelectionManager {
	return &SelectionManager{selected: make(map[string]struct{})}
}

// Toggle flips one id in or out of the selection.
func (m *SelectionManager) Toggle(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
}

// ToggleAll selects every given id, or clears them all if every one of them
// is already selected.
func (m *SelectionManager) ToggleAll(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := len(ids) > 0
	for _, id := range ids {
		if _, ok := m.selected[id]; !ok {
			all = false
			break
		}
	}

	if all {
		for _, id := range ids {
			delete(m.selected, id)
		}
		return
	}
	for _, id := range ids {
		m.selected[id] = struct{}{}
	}
}

// Clear empties the selection.
func (m *SelectionManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = make(map[string]struct{})
}

// Prune drops every selected id that is no longer in the live set. Called
// whenever the record store replaces its contents.
func (m *SelectionManager) Prune(liveIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := make(map[string]struct{}, len(liveIDs))
	for _, id := range liveIDs {
		live[id] = struct{}{}
	}
	for id := range m.selected {
		if _, ok := live[id]; !ok {
			delete(m.selected, id)
		}
	}
}

// IsSelected reports whether the id is currently selected.
func (m *SelectionManager) IsSelected(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selected[id]
	return ok
}

// Selected returns the selected ids in no particular order.
func (m *SelectionManager) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	return ids
}

// AllSelected reports whether every live id is selected. It is computed by
// intersection with the live set, never by comparing counts, so ids that
// vanished in a reload cannot make a stale "select all" read true.
func (m *SelectionManager) AllSelected(liveIDs []string) bool {
	if len(liveIDs) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range liveIDs {
		if _, ok := m.selected[id]; !ok {
			return false
		}
	}
	return true
}
