// Package edit records textual edits against an immutable source text and
// applies them in one step.
package edit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/jrefactor/internal/source"
)

// Kind is the kind of an Edit.
type Kind uint8

const (
	// Remove deletes a range.
	Remove Kind = iota
	// Insert adds text at a point.
	Insert
	// Move deletes a range and reinserts its original text at a point.
	Move
)

func (k Kind) String() string {
	switch k {
	case Remove:
		return "remove"
	case Insert:
		return "insert"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Edit is one pending change. All offsets refer to the original text.
type Edit struct {
	Kind Kind
	Loc  source.Location // Range removed by Remove and Move.
	At   int             // Insertion point of Insert and Move.
	Text string          // Text inserted by Insert.
	Rule string          // Name of the rule that requested the edit.
}

func (e Edit) String() string {
	switch e.Kind {
	case Insert:
		return fmt.Sprintf("insert %q at %d", e.Text, e.At)
	case Move:
		return fmt.Sprintf("move %s to %d", e.Loc, e.At)
	default:
		return fmt.Sprintf("remove %s", e.Loc)
	}
}

// LogValue implements [slog.LogValuer].
func (e Edit) LogValue() slog.Value {
	as := []slog.Attr{slog.String("kind", e.Kind.String())}
	if e.Kind != Insert {
		as = append(as, slog.Int("start", e.Loc.Start), slog.Int("end", e.Loc.End))
	}
	if e.Kind != Remove {
		as = append(as, slog.Int("at", e.At))
	}
	if e.Kind == Insert {
		as = append(as, slog.String("text", e.Text))
	}
	if e.Rule != "" {
		as = append(as, slog.String("rule", e.Rule))
	}
	return slog.GroupValue(as...)
}

// footprints returns the ranges and points of the original text that e
// touches.
func (e Edit) footprints() (ranges []source.Location, points []int) {
	switch e.Kind {
	case Remove:
		return []source.Location{e.Loc}, nil
	case Insert:
		return nil, []int{e.At}
	default:
		return []source.Location{e.Loc}, []int{e.At}
	}
}

// TextEdit is the primitive replacement of Loc by NewText that every Edit
// lowers to.
type TextEdit struct {
	Loc     source.Location
	NewText string
}

// ErrConflictingEdit is matched by every [ConflictingEditError].
var ErrConflictingEdit = errors.New("conflicting edit")

// ConflictingEditError reports an edit whose footprint intersects one that
// is already queued.
type ConflictingEditError struct {
	Edit     Edit
	Existing Edit
}

func (e *ConflictingEditError) Error() string {
	msg := fmt.Sprintf("conflicting edit: %s", e.Edit)
	if e.Edit.Rule != "" {
		msg += " (" + e.Edit.Rule + ")"
	}
	msg += fmt.Sprintf(" overlaps %s", e.Existing)
	if e.Existing.Rule != "" {
		msg += " (" + e.Existing.Rule + ")"
	}
	return msg
}

// Is makes errors.Is(err, ErrConflictingEdit) work.
func (e *ConflictingEditError) Is(target error) bool {
	return target == ErrConflictingEdit
}
