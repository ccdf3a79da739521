package models

// NoteGroup is one date bucket of the timeline: all notes created on the
// same calendar day, newest first. Date is the grouping key in
// "YYYY-M-D" form, Label the short "M/D" form shown next to the
// timeline point.
type NoteGroup struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Notes []Note `json:"notes"`
}
