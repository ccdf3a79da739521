package models

import "unicode/utf8"

// AllCategoryID is the reserved sentinel category representing "no filter".
// It always exists, is never deletable and is never assigned to a note.
const AllCategoryID = "all"

// MaxCategoryNameLength is the maximum category name length in runes.
const MaxCategoryNameLength = 20

// Category groups notes on the timeline. Name is unique across all
// categories at creation time.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AllCategory returns the sentinel category seeded on first initialisation
// of the record store.
func AllCategory() Category {
	return Category{ID: AllCategoryID, Name: "全部", Color: "#e0e0e0"}
}

// ValidCategoryName reports whether name satisfies the category naming
// rules: non-empty and at most [MaxCategoryNameLength] runes. Uniqueness is
// checked separately against the stored categories.
func ValidCategoryName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= MaxCategoryNameLength
}
