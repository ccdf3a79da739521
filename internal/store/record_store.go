package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// Well-known record store keys. Each key maps to one JSON file in the store
// directory.
const (
	notesKey      = "notes"
	categoriesKey = "categories"
)

// RecordStore is the key-based persistence backend for notes and categories.
// Every key is stored as a standalone JSON document on disk, and every write
// rewrites the whole document, so a collection is always either fully updated
// or left in its previous state.
//
// Reads are defensive: a missing or corrupt file degrades to an empty
// collection (plus the built-in "all" category) instead of failing, and notes
// with missing timestamps are coerced on the way out.
type RecordStore struct {
	dir string

	mu  sync.RWMutex
	ids IDGenerator
	now func() time.Time

	logger *logger.Logger
}

func NewRecordStore(cfg config.Records, log *logger.Logger) (*RecordStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record store dir: %w", err)
	}

	s := &RecordStore{
		dir:    cfg.Dir,
		ids:    NewUUIDGenerator(),
		now:    time.Now,
		logger: log,
	}

	// seed the built-in category list on first run
	if _, err := os.Stat(s.keyPath(categoriesKey)); os.IsNotExist(err) {
		if err := s.writeKey(categoriesKey, []models.Category{models.AllCategory()}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *RecordStore) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *RecordStore) readKey(key string, v any) error {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read record store key %q: %w", key, err)
	}

	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record store key %q: %w", key, err)
	}

	return nil
}

func (s *RecordStore) writeKey(key string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record store key %q: %w", key, err)
	}

	if err = os.WriteFile(s.keyPath(key), payload, 0o600); err != nil {
		return fmt.Errorf("write record store key %q: %w", key, err)
	}

	return nil
}

func (s *RecordStore) nowMillis() int64 {
	return s.now().UnixMilli()
}

// loadNotes reads the notes collection under an already held lock.
// A corrupt file is logged and treated as empty.
func (s *RecordStore) loadNotes() []models.Note {
	var notes []models.Note
	if err := s.readKey(notesKey, &notes); err != nil {
		s.logger.Err(err).Str("func", "RecordStore.loadNotes").Msg("unreadable notes collection, starting empty")
		return nil
	}

	now := s.nowMillis()
	for i := range notes {
		notes[i].Normalize(now)
	}

	return notes
}

// loadCategories reads the category collection under an already held lock.
// The built-in "all" category is always present and always first.
func (s *RecordStore) loadCategories() []models.Category {
	var categories []models.Category
	if err := s.readKey(categoriesKey, &categories); err != nil {
		s.logger.Err(err).Str("func", "RecordStore.loadCategories").Msg("unreadable category collection, reseeding")
		return []models.Category{models.AllCategory()}
	}

	for i, c := range categories {
		if c.ID == models.AllCategoryID {
			if i != 0 {
				categories = append([]models.Category{c}, append(categories[:i:i], categories[i+1:]...)...)
			}
			return categories
		}
	}

	return append([]models.Category{models.AllCategory()}, categories...)
}

// GetAllNotes returns every stored note, newest first by creation time.
func (s *RecordStore) GetAllNotes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := s.loadNotes()
	sortNotesByCreateTimeDesc(notes)

	return notes
}

// GetNote returns the note stored under id, or ErrNoteNotFound.
func (s *RecordStore) GetNote(id string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, note := range s.loadNotes() {
		if note.ID == id {
			return note, nil
		}
	}

	return models.Note{}, ErrNoteNotFound
}

// AddNote persists a new note, assigning it a fresh id and both timestamps.
// Returns the generated id.
func (s *RecordStore) AddNote(note models.Note) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.ID = s.ids.Generate()
	now := s.nowMillis()
	note.CreateTime = now
	note.UpdateTime = now

	notes := append(s.loadNotes(), note)
	if err := s.writeKey(notesKey, notes); err != nil {
		return "", err
	}

	return note.ID, nil
}

// UpdateNote overwrites the title, content and category of an existing note.
// CreateTime is preserved; UpdateTime advances past its previous value even
// when the wall clock has not moved.
func (s *RecordStore) UpdateNote(id, title, content, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.loadNotes()
	for i := range notes {
		if notes[i].ID != id {
			continue
		}

		updateTime := s.nowMillis()
		if updateTime <= notes[i].UpdateTime {
			updateTime = notes[i].UpdateTime + 1
		}

		notes[i].Title = title
		notes[i].Content = content
		notes[i].CategoryID = categoryID
		notes[i].UpdateTime = updateTime

		return s.writeKey(notesKey, notes)
	}

	return ErrNoteNotFound
}

// DeleteNote removes the note stored under id. The boolean reports whether
// the note existed and the updated collection was persisted.
func (s *RecordStore) DeleteNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.loadNotes()
	kept := notes[:0]
	found := false
	for _, note := range notes {
		if note.ID == id {
			found = true
			continue
		}
		kept = append(kept, note)
	}

	if !found {
		return false
	}

	if err := s.writeKey(notesKey, kept); err != nil {
		s.logger.Err(err).Str("func", "RecordStore.DeleteNote").Str("note_id", id).Msg("failed to persist notes after delete")
		return false
	}

	return true
}

// SaveNotes replaces the whole notes collection in one write.
func (s *RecordStore) SaveNotes(notes []models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeKey(notesKey, notes)
}

// ClearNotesCategory resets the category of every note assigned to
// categoryID back to the unfiled state.
func (s *RecordStore) ClearNotesCategory(categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.loadNotes()
	changed := false
	for i := range notes {
		if notes[i].CategoryID == categoryID {
			notes[i].CategoryID = ""
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return s.writeKey(notesKey, notes)
}

// GetAllCategories returns every category with the built-in "all" category
// first.
func (s *RecordStore) GetAllCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadCategories()
}

// CategoryExists reports whether a category with the given id is stored.
func (s *RecordStore) CategoryExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, category := range s.loadCategories() {
		if category.ID == id {
			return true
		}
	}

	return false
}

// AddCategory persists a new category and returns its generated id.
// Names must be non-empty, within the length limit and unique.
func (s *RecordStore) AddCategory(name, color string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.ValidCategoryName(name) {
		return "", ErrCategoryNameInvalid
	}

	categories := s.loadCategories()
	for _, category := range categories {
		if category.Name == name {
			return "", ErrCategoryNameTaken
		}
	}

	category := models.Category{
		ID:    s.ids.Generate(),
		Name:  name,
		Color: color,
	}

	if err := s.writeKey(categoriesKey, append(categories, category)); err != nil {
		return "", err
	}

	return category.ID, nil
}

// DeleteCategory removes the category stored under id. Deleting the built-in
// "all" category is refused; deleting an unknown id is a no-op.
func (s *RecordStore) DeleteCategory(id string) error {
	if id == models.AllCategoryID {
		return ErrCategoryReserved
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	categories := s.loadCategories()
	kept := categories[:0]
	found := false
	for _, category := range categories {
		if category.ID == id {
			found = true
			continue
		}
		kept = append(kept, category)
	}

	if !found {
		return nil
	}

	return s.writeKey(categoriesKey, kept)
}

func sortNotesByCreateTimeDesc(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreateTime > notes[j].CreateTime
	})
}
