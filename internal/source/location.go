// Package source provides offset ranges over raw source text.
package source

import (
	"errors"
	"fmt"
)

// ErrMalformedRange is matched by every [MalformedRangeError].
var ErrMalformedRange = errors.New("malformed range")

// MalformedRangeError reports a range whose start lies after its end, or
// which falls outside the text it refers to.
type MalformedRangeError struct {
	Start, End int
	What       string // What was being computed (e.g., "gap", "comment").
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed %s range [%d, %d)", e.What, e.Start, e.End)
}

// Is makes errors.Is(err, ErrMalformedRange) work.
func (e *MalformedRangeError) Is(target error) bool {
	return target == ErrMalformedRange
}

// Location is a half-open byte range [Start, End) into the original,
// unmodified source text. Offsets are never adjusted for edits.
type Location struct {
	Start int
	End   int
}

// FromPositions returns the location [start, end).
func FromPositions(start, end int) (Location, error) {
	if start < 0 || start > end {
		return Location{}, &MalformedRangeError{Start: start, End: end, What: "location"}
	}
	return Location{Start: start, End: end}, nil
}

// At returns the empty location at offset.
func At(offset int) Location {
	return Location{Start: offset, End: offset}
}

// Len returns the number of bytes covered.
func (l Location) Len() int {
	return l.End - l.Start
}

// Empty reports whether the location covers no bytes.
func (l Location) Empty() bool {
	return l.Start == l.End
}

// Contains reports whether offset lies in [Start, End).
func (l Location) Contains(offset int) bool {
	return l.Start <= offset && offset < l.End
}

// Encloses reports whether other lies fully inside l.
func (l Location) Encloses(other Location) bool {
	return l.Start <= other.Start && other.End <= l.End
}

// Overlaps reports whether the open intervals (Start, End) of both
// locations intersect. Adjacent locations do not overlap.
func (l Location) Overlaps(other Location) bool {
	return l.Start < other.End && other.Start < l.End
}

// Before reports whether l ends at or before the start of other.
func (l Location) Before(other Location) bool {
	return l.End <= other.Start
}

// After reports whether l starts at or after the end of other.
func (l Location) After(other Location) bool {
	return l.Start >= other.End
}

// Cover returns the smallest location containing both.
func (l Location) Cover(other Location) Location {
	return Location{Start: min(l.Start, other.Start), End: max(l.End, other.End)}
}

// Text returns the slice of src covered by l. The caller guarantees that l
// lies within src.
func (l Location) Text(src string) string {
	return src[l.Start:l.End]
}

// Compare orders locations by start offset, then by end offset.
func Compare(a, b Location) int {
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.End < b.End:
		return -1
	case a.End > b.End:
		return 1
	}
	return 0
}

func (l Location) String() string {
	return fmt.Sprintf("[%d, %d)", l.Start, l.End)
}
