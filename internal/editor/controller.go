package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

// Session is the ephemeral state of one open editor view. It is created on
// open, destroyed on close and never persisted. NoteID stays empty until the
// first successful save of a brand-new note.
type Session struct {
	NoteID     string
	Title      string
	CategoryID string

	scheduler *Scheduler
	history   *History
	pipeline  *Pipeline

	// teardowns are run in reverse order on close, guaranteeing no leaked
	// timers or goroutines across open/close cycles.
	teardowns []func()
}

func (s *Session) addTeardown(fn func()) {
	s.teardowns = append(s.teardowns, fn)
}

func (s *Session) teardown() {
	for i := len(s.teardowns) - 1; i >= 0; i-- {
		s.teardowns[i]()
	}
	s.teardowns = nil
}

// Controller orchestrates the editor core for a single open note: it loads
// state into the surface, routes change events into the autosave scheduler
// and undo history, hands uploads to the image pipeline and owns the
// category filter driving the timeline.
type Controller struct {
	storages *store.Storages
	surface  Surface
	notifier Notifier
	confirm  Confirmer
	cfg      config.Editor
	logger   *logger.Logger

	mu      sync.Mutex
	session *Session
	filter  string
}

func NewController(storages *store.Storages, surface Surface, notifier Notifier, confirm Confirmer, cfg config.Editor, log *logger.Logger) *Controller {
	return &Controller{
		storages: storages,
		surface:  surface,
		notifier: notifier,
		confirm:  confirm,
		cfg:      cfg,
		logger:   log,
		filter:   models.AllCategoryID,
	}
}

// OpenSession opens the editor for the note stored under noteID, or for a
// blank new note when noteID is empty. Any previously open session is
// flushed and closed first. Embedded image references in the loaded content
// are re-resolved against the blob store before the content reaches the
// surface.
func (c *Controller) OpenSession(ctx context.Context, noteID string) error {
	if err := c.CloseSession(ctx); err != nil {
		return err
	}

	session := &Session{NoteID: noteID}
	content := ""

	if noteID != "" {
		note, err := c.storages.Records.GetNote(noteID)
		if err != nil {
			c.notifier.Notify("笔记不存在")
			return fmt.Errorf("open session: %w", err)
		}
		session.Title = note.Title
		session.CategoryID = note.CategoryID
		content = RestoreImages(ctx, note.Content, c.storages.Images)
	}

	c.surface.SetContent(content)

	session.history = NewHistory(c.cfg.HistoryDebounce)
	session.history.Reset(content)
	session.addTeardown(func() { session.history.Reset("") })

	session.scheduler = NewScheduler(c, c.cfg.MinSaveInterval, c.cfg.AutosaveInterval, c.logger)
	session.scheduler.Start(ctx)
	session.addTeardown(session.scheduler.Stop)

	session.pipeline = NewPipeline(c.cfg, c.storages.Images, c.surface, func() {
		session.history.Observe(c.surface.Content())
		session.scheduler.NoteChanged(ctx)
	}, func(name string, err error) {
		c.notifier.Notify("图片上传失败: " + name)
	}, c.logger)

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return nil
}

// CloseSession force-flushes dirty state, tears down all session-bound
// timers and goroutines and discards the session. Closing when nothing is
// open is a no-op.
func (c *Controller) CloseSession(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	// flush while the session is still current: the scheduler snapshots
	// through the controller, which must still see it
	session.scheduler.Flush(ctx)

	c.mu.Lock()
	if c.session == session {
		c.session = nil
	}
	c.mu.Unlock()

	session.teardown()

	return nil
}

// ContentChanged routes a change event from the surface into history
// recording and the autosave policy.
func (c *Controller) ContentChanged(ctx context.Context) {
	session := c.currentSession()
	if session == nil {
		return
	}

	session.history.Observe(c.surface.Content())
	session.scheduler.NoteChanged(ctx)
}

// SetTitle updates the session title and marks the note dirty.
func (c *Controller) SetTitle(ctx context.Context, title string) {
	c.mu.Lock()
	session := c.session
	if session != nil {
		session.Title = title
	}
	c.mu.Unlock()

	if session != nil {
		session.scheduler.NoteChanged(ctx)
	}
}

// SetCategory assigns the open note to a category and marks it dirty.
func (c *Controller) SetCategory(ctx context.Context, categoryID string) {
	c.mu.Lock()
	session := c.session
	if session != nil {
		session.CategoryID = categoryID
	}
	c.mu.Unlock()

	if session != nil {
		session.scheduler.NoteChanged(ctx)
	}
}

// RequestSave asks the scheduler for a save per its debounce policy. Bound
// to surface blur events.
func (c *Controller) RequestSave(ctx context.Context) {
	if session := c.currentSession(); session != nil {
		session.scheduler.Request(ctx)
	}
}

// EnqueueImage hands an uploaded file to the image pipeline of the open
// session. Validation failures are returned immediately; failures of
// accepted files reach the user through the notifier.
func (c *Controller) EnqueueImage(ctx context.Context, upload FileUpload) error {
	session := c.currentSession()
	if session == nil {
		return ErrNoOpenSession
	}

	if err := session.pipeline.Enqueue(ctx, upload); err != nil {
		c.notifier.Notify("图片上传失败: " + err.Error())
		return err
	}

	return nil
}

// Undo restores the previous content snapshot, if one exists.
func (c *Controller) Undo(ctx context.Context) {
	session := c.currentSession()
	if session == nil {
		return
	}

	if content, ok := session.history.Undo(); ok {
		c.surface.SetContent(content)
		session.scheduler.NoteChanged(ctx)
	}
}

// Redo re-applies the most recently undone snapshot, if any.
func (c *Controller) Redo(ctx context.Context) {
	session := c.currentSession()
	if session == nil {
		return
	}

	if content, ok := session.history.Redo(); ok {
		c.surface.SetContent(content)
		session.scheduler.NoteChanged(ctx)
	}
}

// DeleteCurrentNote asks the user for confirmation, removes the open note
// from the record store and closes the session. Images referenced by the
// note are kept; the reference is a weak one. Reports whether a stored note
// was actually deleted.
func (c *Controller) DeleteCurrentNote(ctx context.Context) bool {
	session := c.currentSession()
	if session == nil {
		return false
	}

	if !c.confirm.Confirm("确定要删除这条笔记吗？") {
		return false
	}

	deleted := false
	if session.NoteID != "" {
		deleted = c.storages.Records.DeleteNote(session.NoteID)
		if !deleted {
			c.notifier.Notify("删除笔记失败")
		}
	}

	// discard without flushing: the note is gone, nothing to save
	c.mu.Lock()
	if c.session == session {
		c.session = nil
	}
	c.mu.Unlock()
	session.teardown()

	return deleted
}

// DeleteImage removes an embedded image from the open note's content and
// deletes its blob. The content change goes through the usual dirty
// tracking.
func (c *Controller) DeleteImage(ctx context.Context, imageID string) error {
	session := c.currentSession()
	if session == nil {
		return ErrNoOpenSession
	}

	c.surface.SetContent(RemoveImageMarkup(c.surface.Content(), imageID))
	session.history.Observe(c.surface.Content())
	session.scheduler.NoteChanged(ctx)

	if _, err := c.storages.Images.Delete(ctx, imageID); err != nil {
		c.logger.Err(err).Str("func", "Controller.DeleteImage").Str("image_id", imageID).Msg("failed to delete image blob")
		return err
	}

	return nil
}

// SwitchCategoryFilter changes the category driving the timeline. Unknown
// ids fall back to the built-in "all" category.
func (c *Controller) SwitchCategoryFilter(categoryID string) {
	if !c.storages.Records.CategoryExists(categoryID) {
		categoryID = models.AllCategoryID
	}

	c.mu.Lock()
	c.filter = categoryID
	c.mu.Unlock()
}

// CategoryFilter returns the currently active timeline filter.
func (c *Controller) CategoryFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// CreateCategory stores a new category and optionally assigns the given
// notes to it in one step. Returns the new category id.
func (c *Controller) CreateCategory(ctx context.Context, name, color string, noteIDs ...string) (string, error) {
	id, err := c.storages.Records.AddCategory(name, color)
	if err != nil {
		return "", err
	}

	for _, noteID := range noteIDs {
		note, getErr := c.storages.Records.GetNote(noteID)
		if getErr != nil {
			c.logger.Err(getErr).Str("func", "Controller.CreateCategory").Str("note_id", noteID).Msg("skipping unknown note during batch assign")
			continue
		}
		if updErr := c.storages.Records.UpdateNote(noteID, note.Title, note.Content, id); updErr != nil {
			c.logger.Err(updErr).Str("func", "Controller.CreateCategory").Str("note_id", noteID).Msg("failed to assign note to new category")
		}
	}

	return id, nil
}

// DeleteCategory removes a category. Notes assigned to it are kept and
// become uncategorized; the active filter falls back to "all" when it was
// pointing at the removed category.
func (c *Controller) DeleteCategory(ctx context.Context, categoryID string) error {
	if err := c.storages.Records.ClearNotesCategory(categoryID); err != nil {
		return err
	}
	if err := c.storages.Records.DeleteCategory(categoryID); err != nil {
		return err
	}

	c.mu.Lock()
	if c.filter == categoryID {
		c.filter = models.AllCategoryID
	}
	c.mu.Unlock()

	return nil
}

// Categories returns all stored categories, the built-in "all" first.
func (c *Controller) Categories() []models.Category {
	return c.storages.Records.GetAllCategories()
}

// Timeline returns the notes matching the active category filter, newest
// first, grouped by creation date. Notes referencing a category that no
// longer exists are hidden from every view, including "all".
func (c *Controller) Timeline() []models.NoteGroup {
	filter := c.CategoryFilter()

	valid := make(map[string]struct{})
	for _, category := range c.storages.Records.GetAllCategories() {
		valid[category.ID] = struct{}{}
	}

	var groups []models.NoteGroup
	index := make(map[string]int)

	for _, note := range c.storages.Records.GetAllNotes() {
		if note.CategoryID != "" {
			if _, ok := valid[note.CategoryID]; !ok {
				continue
			}
		}
		if filter != models.AllCategoryID && note.CategoryID != filter {
			continue
		}

		key := formatDateKey(note.CreateTime)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.NoteGroup{Date: key, Label: formatDateLabel(note.CreateTime)})
		}
		groups[i].Notes = append(groups[i].Notes, note)
	}

	return groups
}

// Snapshot implements [Persister] for the open session.
func (c *Controller) Snapshot() (title, content, categoryID string) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return "", "", ""
	}

	return session.Title, c.surface.Content(), session.CategoryID
}

// Persist implements [Persister]. The first successful save of a new note
// assigns its id; later saves overwrite the stored record whole.
func (c *Controller) Persist(ctx context.Context, title, content, categoryID string) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return ErrNoOpenSession
	}

	if session.NoteID == "" {
		id, err := c.storages.Records.AddNote(models.Note{
			Title:      title,
			Content:    content,
			CategoryID: categoryID,
		})
		if err != nil {
			return err
		}

		c.mu.Lock()
		session.NoteID = id
		session.Title = title
		c.mu.Unlock()
		return nil
	}

	if err := c.storages.Records.UpdateNote(session.NoteID, title, content, categoryID); err != nil {
		return err
	}

	c.mu.Lock()
	session.Title = title
	c.mu.Unlock()
	return nil
}

// SaveFailed implements [Persister]: the editor stays open and editable, the
// user just gets told the save did not land. A save racing a just-closed
// session is dropped silently.
func (c *Controller) SaveFailed(err error) {
	if errors.Is(err, ErrNoOpenSession) {
		return
	}

	c.logger.Err(err).Str("func", "Controller.SaveFailed").Msg("note save failed")
	c.notifier.Notify("保存失败，稍后会自动重试")
}

func (c *Controller) currentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func formatDateKey(timestamp int64) string {
	t := time.UnixMilli(timestamp)
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

func formatDateLabel(timestamp int64) string {
	t := time.UnixMilli(timestamp)
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}
