package diff

import (
	"errors"
	"fmt"
)

// LineType classifies a single line within a hunk.
type LineType string

// Line types as they appear in unified diff output.
const (
	LineContext  LineType = "context"
	LineAddition LineType = "add"
	LineDeletion LineType = "delete"
)

// ErrMalformed reports a FileDiff that violates the schema invariants,
// e.g. a context line without both line numbers. It indicates a contract
// breach by whatever produced the diff, so callers should surface it
// rather than render partial output.
var ErrMalformed = errors.New("malformed diff")

// FileDiff represents the diff for a single file.
//
// OldPath and NewPath are empty when the file does not exist on that
// side (added and deleted files respectively); at least one is set.
// When IsBinary is true, Hunks carries no meaning and is ignored by
// all consumers.
type FileDiff struct {
	OldPath  string `json:"oldPath,omitempty"`
	NewPath  string `json:"newPath,omitempty"`
	Status   string `json:"status"` // "added", "deleted", "modified", "renamed"
	IsBinary bool   `json:"isBinary"`
	Hunks    []Hunk `json:"hunks"`
}

// Hunk represents a contiguous block of changes within a file diff.
type Hunk struct {
	OldStart int    `json:"oldStart"`
	OldLines int    `json:"oldLines"`
	NewStart int    `json:"newStart"`
	NewLines int    `json:"newLines"`
	Header   string `json:"header"`
	Lines    []Line `json:"lines"`
}

// Line is a single line within a hunk. Line numbers are 1-based; zero
// means the line does not exist on that side. Context lines carry both
// numbers, additions only NewNum, deletions only OldNum.
type Line struct {
	Type    LineType `json:"type"`
	Content string   `json:"content"`
	OldNum  int      `json:"oldNum,omitempty"`
	NewNum  int      `json:"newNum,omitempty"`
}

// Validate checks the schema invariants on f. A binary diff is valid
// regardless of its hunks, since consumers must ignore them.
func (f *FileDiff) Validate() error {
	if f.OldPath == "" && f.NewPath == "" {
		return fmt.Errorf("%w: no file path on either side", ErrMalformed)
	}
	if f.IsBinary {
		return nil
	}
	for hi, h := range f.Hunks {
		for li, l := range h.Lines {
			if err := l.validate(); err != nil {
				return fmt.Errorf("hunk %d line %d: %w", hi, li, err)
			}
		}
	}
	return nil
}

func (l Line) validate() error {
	switch l.Type {
	case LineContext:
		if l.OldNum <= 0 || l.NewNum <= 0 {
			return fmt.Errorf("%w: context line needs both line numbers, got old=%d new=%d", ErrMalformed, l.OldNum, l.NewNum)
		}
	case LineAddition:
		if l.OldNum != 0 || l.NewNum <= 0 {
			return fmt.Errorf("%w: addition needs only a new line number, got old=%d new=%d", ErrMalformed, l.OldNum, l.NewNum)
		}
	case LineDeletion:
		if l.NewNum != 0 || l.OldNum <= 0 {
			return fmt.Errorf("%w: deletion needs only an old line number, got old=%d new=%d", ErrMalformed, l.OldNum, l.NewNum)
		}
	default:
		return fmt.Errorf("%w: unknown line type %q", ErrMalformed, l.Type)
	}
	return nil
}

// Path returns the path a file should be listed under: the new path,
// falling back to the old path for deleted files.
func (f *FileDiff) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}
