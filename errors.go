package pagedscope

import "errors"

var (
	// ErrNotFound the entity does not match the scope or lies outside its
	// limit/offset window.
	ErrNotFound = errors.New("entity not found in scope")

	// ErrOutOfRange requested page number is outside [1, page count].
	ErrOutOfRange = errors.New("page number out of range")

	// ErrPathNotSet navigation requested before a path function was set.
	ErrPathNotSet = errors.New("paginator path function is not set")

	// ErrInvalidArgument malformed ordering or window configuration.
	ErrInvalidArgument = errors.New("invalid argument")
)
