package doc

import "errors"

var (
	// ErrNotObject is returned when the top-level JSON value is not an object.
	ErrNotObject = errors.New("document root must be a JSON object")

	// ErrTrailingData is returned when input continues after the root object.
	ErrTrailingData = errors.New("unexpected data after document")

	// ErrPathNotFound is returned when a path does not address an existing leaf.
	ErrPathNotFound = errors.New("path not found")
)
