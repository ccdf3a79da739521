package editor

import "errors"

// Sentinel errors surfaced by the editor core. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrImageBadType is returned when an enqueued file is not an image.
	ErrImageBadType = errors.New("file is not an image")

	// ErrImageTooLarge is returned when an enqueued image exceeds the
	// configured size limit.
	ErrImageTooLarge = errors.New("image exceeds the size limit")

	// ErrUploadFailed is returned when persisting an image keeps failing
	// after all retries have been spent. The file is abandoned.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrNoOpenSession is returned when an operation requires an open editor
	// session and none exists.
	ErrNoOpenSession = errors.New("no editor session is open")
)
