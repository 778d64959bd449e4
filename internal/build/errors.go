package build

import (
	"errors"
	"fmt"
)

// Sentinel errors for build validation and linking. All are terminal for the
// current invocation; the tool fails fast rather than building best-effort.
var (
	ErrModeNotFound        = errors.New("build mode not found")
	ErrMissingSourceGroups = errors.New("no source groups specified for mode")
	ErrUnknownSourceGroup  = errors.New("unknown source group")
	ErrNoSourceFiles       = errors.New("no source files found in specified source groups")
	ErrLinkFailed          = errors.New("linking failed")
)

// CompileError reports the first source file that failed to compile.
type CompileError struct {
	File string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s: %v", e.File, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
