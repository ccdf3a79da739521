package editor

import "sync"

// FileUpload is the raw result of a file pick: the bytes plus the metadata
// the picker reports about them.
type FileUpload struct {
	Name string
	MIME string
	Size int64
	Data []byte
}

// Surface is the content-editable area the controller synchronises against.
// Implementations are expected to be driven from a single UI goroutine; the
// editor core only reads and replaces whole-content markup through it.
type Surface interface {
	// Content returns the current rich markup of the editing area.
	Content() string

	// SetContent replaces the whole markup of the editing area.
	SetContent(markup string)

	// InsertAtCursor splices markup at the current cursor position. It
	// reports false when there is no valid selection inside the editing
	// area, in which case the caller appends to the content end instead.
	InsertAtCursor(markup string) bool
}

// Notifier surfaces transient, user-visible messages. Storage failures are
// reported through it so that a failed save never goes unnoticed.
type Notifier interface {
	Notify(message string)
}

// Confirmer yields a boolean user decision from a modal prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// MemorySurface is an in-memory [Surface] used by the terminal front end and
// by tests. The cursor is always considered to sit at the content end.
type MemorySurface struct {
	mu      sync.Mutex
	content string

	// CursorValid controls whether InsertAtCursor succeeds. Tests flip it to
	// exercise the append fallback.
	CursorValid bool
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{CursorValid: true}
}

func (s *MemorySurface) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

func (s *MemorySurface) SetContent(markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = markup
}

func (s *MemorySurface) InsertAtCursor(markup string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.CursorValid {
		return false
	}
	s.content += markup
	return true
}
