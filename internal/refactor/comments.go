package refactor

import (
	"slices"

	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/source"
)

// Span is a piece of source text that no comment covers.
type Span struct {
	Text string
	Loc  source.Location
}

// CommentsInRange returns the comments lying fully inside r, ordered by
// start offset. Comments that straddle a boundary of r are dropped, not
// clipped. The input slice is not modified.
func CommentsInRange(r source.Location, comments []parser.Comment) []parser.Comment {
	var out []parser.Comment
	for _, c := range comments {
		if r.Encloses(c.Loc) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b parser.Comment) int {
		return a.Loc.Start - b.Loc.Start
	})
	return out
}

// NonCommentSpans splits r into the spans of src that lie outside the
// comments contained in r. Without comments the result is r itself.
// Empty spans between adjacent comments are omitted.
func NonCommentSpans(src string, r source.Location, comments []parser.Comment) ([]Span, error) {
	if r.Start < 0 || r.Start > r.End || r.End > len(src) {
		return nil, &source.MalformedRangeError{Start: r.Start, End: r.End, What: "gap"}
	}

	inside := CommentsInRange(r, comments)
	if len(inside) == 0 {
		return []Span{{Text: r.Text(src), Loc: r}}, nil
	}

	var spans []Span
	cursor := r.Start
	for _, c := range inside {
		if c.Loc.Start < cursor {
			return nil, &source.MalformedRangeError{Start: cursor, End: c.Loc.Start, What: "comment"}
		}
		if c.Loc.Start > cursor {
			loc := source.Location{Start: cursor, End: c.Loc.Start}
			spans = append(spans, Span{Text: loc.Text(src), Loc: loc})
		}
		cursor = c.Loc.End
	}
	if cursor < r.End {
		loc := source.Location{Start: cursor, End: r.End}
		spans = append(spans, Span{Text: loc.Text(src), Loc: loc})
	}
	return spans, nil
}
