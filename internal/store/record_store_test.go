package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

func newTestRecordStore(t *testing.T) *RecordStore {
	t.Helper()

	s, err := NewRecordStore(config.Records{Dir: t.TempDir()}, logger.Nop())
	require.NoError(t, err)
	return s
}

func TestNewRecordStore_SeedsAllCategory(t *testing.T) {
	s := newTestRecordStore(t)

	categories := s.GetAllCategories()
	require.Len(t, categories, 1)
	assert.Equal(t, models.AllCategory(), categories[0])
}

func TestAddNote_AssignsIDAndTimestamps(t *testing.T) {
	s := newTestRecordStore(t)

	id, err := s.AddNote(models.Note{Title: "shopping", Content: "<p>milk</p>"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	note, err := s.GetNote(id)
	require.NoError(t, err)
	assert.Equal(t, "shopping", note.Title)
	assert.Equal(t, "<p>milk</p>", note.Content)
	assert.NotZero(t, note.CreateTime)
	assert.Equal(t, note.CreateTime, note.UpdateTime)
}

func TestGetNote_NotFound(t *testing.T) {
	s := newTestRecordStore(t)

	_, err := s.GetNote("missing")
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestUpdateNote_PreservesCreateTimeAndAdvancesUpdateTime(t *testing.T) {
	s := newTestRecordStore(t)

	// freeze the clock so the monotonic bump is observable
	frozen := time.Now()
	s.now = func() time.Time { return frozen }

	id, err := s.AddNote(models.Note{Title: "draft"})
	require.NoError(t, err)

	original, err := s.GetNote(id)
	require.NoError(t, err)

	require.NoError(t, s.UpdateNote(id, "final", "<p>done</p>", "work"))

	updated, err := s.GetNote(id)
	require.NoError(t, err)
	assert.Equal(t, original.CreateTime, updated.CreateTime)
	assert.Greater(t, updated.UpdateTime, original.UpdateTime)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "work", updated.CategoryID)
}

func TestUpdateNote_NotFound(t *testing.T) {
	s := newTestRecordStore(t)

	err := s.UpdateNote("missing", "t", "c", "")
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDeleteNote(t *testing.T) {
	s := newTestRecordStore(t)

	id, err := s.AddNote(models.Note{Title: "gone soon"})
	require.NoError(t, err)

	assert.True(t, s.DeleteNote(id))
	assert.False(t, s.DeleteNote(id), "second delete of same id should report false")

	_, err = s.GetNote(id)
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestGetAllNotes_NewestFirst(t *testing.T) {
	s := newTestRecordStore(t)

	base := time.Now()
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := s.AddNote(models.Note{Title: "first"})
	require.NoError(t, err)
	second, err := s.AddNote(models.Note{Title: "second"})
	require.NoError(t, err)

	notes := s.GetAllNotes()
	require.Len(t, notes, 2)
	assert.Equal(t, second, notes[0].ID)
	assert.Equal(t, first, notes[1].ID)
}

func TestGetAllNotes_CorruptFileDegradesToEmpty(t *testing.T) {
	s := newTestRecordStore(t)

	_, err := s.AddNote(models.Note{Title: "will be lost"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "notes.json"), []byte("{broken"), 0o600))

	assert.Empty(t, s.GetAllNotes())
}

func TestGetAllNotes_CoercesMissingTimestamps(t *testing.T) {
	s := newTestRecordStore(t)

	raw := `[{"id":"n1","title":"legacy","content":"","categoryId":""}]`
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "notes.json"), []byte(raw), 0o600))

	notes := s.GetAllNotes()
	require.Len(t, notes, 1)
	assert.NotZero(t, notes[0].CreateTime)
	assert.NotZero(t, notes[0].UpdateTime)
}

func TestAddCategory(t *testing.T) {
	s := newTestRecordStore(t)

	id, err := s.AddCategory("工作", "#ff0000")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.True(t, s.CategoryExists(id))

	categories := s.GetAllCategories()
	require.Len(t, categories, 2)
	assert.Equal(t, models.AllCategoryID, categories[0].ID, "built-in category stays first")
	assert.Equal(t, "工作", categories[1].Name)
}

func TestAddCategory_Validation(t *testing.T) {
	s := newTestRecordStore(t)

	_, err := s.AddCategory("", "#fff")
	require.ErrorIs(t, err, ErrCategoryNameInvalid)

	tooLong := "一二三四五六七八九十一二三四五六七八九十一"
	_, err = s.AddCategory(tooLong, "#fff")
	require.ErrorIs(t, err, ErrCategoryNameInvalid)

	_, err = s.AddCategory("duplicated", "#fff")
	require.NoError(t, err)
	_, err = s.AddCategory("duplicated", "#000")
	require.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestDeleteCategory(t *testing.T) {
	s := newTestRecordStore(t)

	id, err := s.AddCategory("temp", "#fff")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(id))
	assert.False(t, s.CategoryExists(id))

	// unknown ids are a silent no-op
	require.NoError(t, s.DeleteCategory("missing"))
}

func TestDeleteCategory_ReservedIsRefused(t *testing.T) {
	s := newTestRecordStore(t)

	err := s.DeleteCategory(models.AllCategoryID)
	require.ErrorIs(t, err, ErrCategoryReserved)
	assert.True(t, s.CategoryExists(models.AllCategoryID))
}

func TestClearNotesCategory(t *testing.T) {
	s := newTestRecordStore(t)

	catID, err := s.AddCategory("project", "#abc")
	require.NoError(t, err)

	inCat, err := s.AddNote(models.Note{Title: "in", CategoryID: catID})
	require.NoError(t, err)
	outside, err := s.AddNote(models.Note{Title: "out", CategoryID: "other"})
	require.NoError(t, err)

	require.NoError(t, s.ClearNotesCategory(catID))

	cleared, err := s.GetNote(inCat)
	require.NoError(t, err)
	assert.Empty(t, cleared.CategoryID)

	untouched, err := s.GetNote(outside)
	require.NoError(t, err)
	assert.Equal(t, "other", untouched.CategoryID)
}

func TestSaveNotes_OverwritesCollection(t *testing.T) {
	s := newTestRecordStore(t)

	_, err := s.AddNote(models.Note{Title: "old"})
	require.NoError(t, err)

	replacement := []models.Note{{ID: "n1", Title: "new", CreateTime: 1, UpdateTime: 1}}
	require.NoError(t, s.SaveNotes(replacement))

	notes := s.GetAllNotes()
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
}

func TestRecordStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewRecordStore(config.Records{Dir: dir}, logger.Nop())
	require.NoError(t, err)

	id, err := s.AddNote(models.Note{Title: "persisted"})
	require.NoError(t, err)

	reopened, err := NewRecordStore(config.Records{Dir: dir}, logger.Nop())
	require.NoError(t, err)

	note, err := reopened.GetNote(id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", note.Title)
}
