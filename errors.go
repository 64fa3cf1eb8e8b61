package mediabox

import (
	"errors"
	"fmt"
	"os"
)

// Common storage errors. Where possible, these alias os package errors
// for compatibility with os.IsNotExist, os.IsPermission, etc.
var (
	ErrNotFound     = os.ErrNotExist
	ErrExist        = os.ErrExist
	ErrPermission   = os.ErrPermission
	ErrInvalid      = os.ErrInvalid
	ErrNotSupported = errors.New("mediabox: feature not supported by this backend")
)

// Error kinds reported by the Adapter. Every failure returned by a path
// operation matches exactly one of these with errors.Is.
var (
	ErrResolutionFailed = errors.New("mediabox: unable to resolve path")
	ErrReadFailed       = errors.New("mediabox: unable to read file")
	ErrWriteFailed      = errors.New("mediabox: unable to write file")
	ErrDeleteFailed     = errors.New("mediabox: unable to delete file")
)

// PathError records a failed path operation together with its kind and the
// backend cause. It matches both Kind and Err under errors.Is.
type PathError struct {
	Op   string
	Kind error
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("mediabox: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func resolutionFailed(path string, err error) error {
	return &PathError{Op: "resolve", Kind: ErrResolutionFailed, Path: path, Err: err}
}

func readFailed(path string, err error) error {
	return &PathError{Op: "read", Kind: ErrReadFailed, Path: path, Err: err}
}

func writeFailed(path string, err error) error {
	return &PathError{Op: "write", Kind: ErrWriteFailed, Path: path, Err: err}
}

func deleteFailed(path string, err error) error {
	return &PathError{Op: "delete", Kind: ErrDeleteFailed, Path: path, Err: err}
}
