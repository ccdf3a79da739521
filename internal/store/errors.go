package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoteNotFound is returned when a lookup targets a note id that does
	// not exist in the record store.
	ErrNoteNotFound = errors.New("note was not found")

	// ErrImageNotFound is returned when a query targets an image id (content
	// hash) that does not exist in the blob store.
	ErrImageNotFound = errors.New("image was not found")

	// ErrCategoryNameInvalid is returned when an attempt to create a category
	// supplies an empty name or a name longer than the allowed limit.
	ErrCategoryNameInvalid = errors.New("category name is empty or too long")

	// ErrCategoryNameTaken is returned when an attempt to create a category
	// fails because a category with the same name already exists.
	ErrCategoryNameTaken = errors.New("category name already exists")

	// ErrCategoryReserved is returned when an operation targets the built-in
	// "all" category, which can be neither deleted nor reassigned.
	ErrCategoryReserved = errors.New("category is reserved")
)

// Low-level database operation errors. These are returned (or wrapped) by the
// image repository when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan image row")
)
