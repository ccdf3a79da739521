package editor

import (
	"sync"
	"time"
)

// maxHistoryDepth bounds the undo stack; the oldest snapshot is dropped
// when the limit is exceeded.
const maxHistoryDepth = 50

// History keeps undo/redo stacks of full-content snapshots for one editor
// session. The current content always occupies the top of the undo stack, so
// a true undo requires at least one prior state beneath it.
//
// Snapshots arrive through Observe, which debounces rapid keystrokes into a
// single recorded state after a quiet period.
type History struct {
	mu        sync.Mutex
	undo      []string
	redo      []string
	debouncer *Debouncer
}

func NewHistory(debounce time.Duration) *History {
	return &History{debouncer: NewDebouncer(debounce)}
}

// Reset clears both stacks and records initial as the sole snapshot. Called
// whenever a new editor session opens; history never crosses notes.
func (h *History) Reset(initial string) {
	h.debouncer.Cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = []string{initial}
	h.redo = nil
}

// Observe schedules content to be recorded once no further changes arrive
// within the debounce window.
func (h *History) Observe(content string) {
	h.debouncer.Trigger(func() {
		h.Record(content)
	})
}

// Record pushes content onto the undo stack immediately, clearing the redo
// stack. Recording a snapshot identical to the current top is a no-op.
func (h *History) Record(content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) > 0 && h.undo[len(h.undo)-1] == content {
		return
	}

	h.undo = append(h.undo, content)
	if len(h.undo) > maxHistoryDepth {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo steps back to the previous snapshot. It reports false when only the
// initial snapshot exists.
func (h *History) Undo() (string, bool) {
	h.debouncer.Cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) < 2 {
		return "", false
	}

	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)

	return h.undo[len(h.undo)-1], true
}

// Redo re-applies the most recently undone snapshot. It reports false when
// there is nothing to redo.
func (h *History) Redo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return "", false
	}

	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)

	return top, true
}

// Depth returns the number of snapshots currently on the undo stack.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}
