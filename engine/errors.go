package engine

import (
	"errors"
	"fmt"
)

// Op names the engine operation that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

var (
	// ErrRead matches every read or parse failure via errors.Is.
	ErrRead = errors.New("engine read failed")

	// ErrWrite matches every write failure via errors.Is.
	ErrWrite = errors.New("engine write failed")

	// ErrClosed is returned by a session used after Close.
	ErrClosed = errors.New("engine session is closed")
)

// Error is a read or write failure for one file.
type Error struct {
	Op   Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRead) and errors.Is(err, ErrWrite) classify
// an *Error by its Op.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRead:
		return e.Op == OpRead
	case ErrWrite:
		return e.Op == OpWrite
	}
	return false
}

func readError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: OpRead, Path: path, Err: err}
}

func writeError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: OpWrite, Path: path, Err: err}
}
