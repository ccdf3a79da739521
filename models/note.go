package models

// Note is a single user note shown on the timeline. Content holds raw rich
// markup as produced by the editing surface; uploaded images appear inside it
// as elements carrying a data-image-id attribute that references an [Image]
// by id. That reference is a weak back-reference: deleting a note does not
// delete the images it points to.
type Note struct {
	// ID is assigned once when the note is first persisted and never changes.
	ID string `json:"id"`

	// Title is the user-visible title. It may be derived automatically from
	// the content when the user leaves it empty.
	Title string `json:"title"`

	// Content is the raw rich markup of the note body.
	Content string `json:"content"`

	// CategoryID is a foreign key to a [Category]. Empty means uncategorized.
	CategoryID string `json:"categoryId"`

	// CreateTime is the creation timestamp in unix milliseconds. Immutable
	// after creation.
	CreateTime int64 `json:"createTime"`

	// UpdateTime is the last-persisted-mutation timestamp in unix
	// milliseconds. Monotonically non-decreasing.
	UpdateTime int64 `json:"updateTime"`
}

// Normalize coerces a note decoded from storage into a type-correct shape.
// Records written by an older build or truncated by a crash may miss fields;
// reads must never fail because of that, so missing strings become empty and
// missing timestamps become now (unix milliseconds).
func (n *Note) Normalize(now int64) {
	if n.CreateTime == 0 {
		n.CreateTime = now
	}
	if n.UpdateTime == 0 {
		n.UpdateTime = now
	}
}
