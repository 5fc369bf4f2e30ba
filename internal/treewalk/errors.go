package treewalk

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
)

// Kind classifies walk errors.
type Kind int

const (
	// KindInvalidRoot means the root is missing, not a directory, or the
	// walk was configured incorrectly. It aborts the walk before it starts.
	KindInvalidRoot Kind = iota + 1
	// KindDirectoryUnreadable means listing a directory failed. The walk
	// continues without that listing.
	KindDirectoryUnreadable
	// KindActionFailed means the action returned an error for one file.
	KindActionFailed
	// KindCancelled means the context was cancelled mid-walk.
	KindCancelled
)

// String returns the kind name used in logs and reports.
func (k Kind) String() string {
	switch k {
	case KindInvalidRoot:
		return "invalid-root"
	case KindDirectoryUnreadable:
		return "directory-unreadable"
	case KindActionFailed:
		return "action-failed"
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON and YAML reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrInvalidRoot         = errors.New("invalid root")
	ErrDirectoryUnreadable = errors.New("directory unreadable")
	ErrActionFailed        = errors.New("action failed")
	ErrCancelled           = errors.New("walk cancelled")
)

// Operations recorded in Error.Op.
const (
	OpStat      = "stat"
	OpListDirs  = "list-dirs"
	OpListFiles = "list-files"
	OpAction    = "action"
	OpOptions   = "options"
	OpWalk      = "walk"
)

// Error is a walk error with its kind and the path it concerns.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Path is the directory or file the error concerns.
	Path string
	// Op is the operation that failed.
	Op string
	// Err is the underlying error.
	Err error
}

// errorRecord is the serialized form of an Error.
type errorRecord struct {
	Kind    Kind   `json:"kind"           yaml:"kind"`
	Op      string `json:"op"             yaml:"op"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Message string `json:"message"        yaml:"message"`
}

func (e *Error) record() errorRecord {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}

	return errorRecord{Kind: e.Kind, Op: e.Op, Path: filepath.ToSlash(e.Path), Message: msg}
}

// MarshalJSON encodes the error with its message, since Err has no JSON form.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.record())
}

// MarshalYAML encodes the error with its message.
func (e *Error) MarshalYAML() (any, error) {
	return e.record(), nil
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}

	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidRoot:
		return ErrInvalidRoot
	case KindDirectoryUnreadable:
		return ErrDirectoryUnreadable
	case KindActionFailed:
		return ErrActionFailed
	case KindCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
