package edit

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/tidwall/btree"

	"github.com/donaldgifford/jrefactor/internal/source"
)

// footprint is one range or point held by a queued edit.
type footprint struct {
	loc   source.Location
	point bool
	edit  int // Index into Queue.edits; -1 in search pivots.
}

func lessFootprint(a, b footprint) bool {
	if c := source.Compare(a.loc, b.loc); c != 0 {
		return c < 0
	}
	return a.edit < b.edit
}

// Queue collects edits for one source text and rejects any edit whose
// footprint conflicts with an edit already queued.
//
// Ranges conflict when their open intervals intersect. A point conflicts
// with a range that strictly contains it, and with a different point at the
// same offset. Queuing an exact duplicate is a no-op, as is removing an empty
// range.
type Queue struct {
	src   string
	edits []Edit
	seen  map[Edit]struct{}
	index *btree.BTreeG[footprint]
}

// NewQueue returns an empty queue for src.
func NewQueue(src string) *Queue {
	return &Queue{
		src:   src,
		seen:  make(map[Edit]struct{}),
		index: btree.NewBTreeGOptions(lessFootprint, btree.Options{NoLocks: true}),
	}
}

// Source returns the text the queue edits.
func (q *Queue) Source() string { return q.src }

// Len returns the number of queued edits.
func (q *Queue) Len() int { return len(q.edits) }

// Edits returns the queued edits in the order they were accepted.
func (q *Queue) Edits() []Edit {
	return slices.Clone(q.edits)
}

// Remove queues the removal of loc.
func (q *Queue) Remove(loc source.Location, rule string) error {
	return q.Add(Edit{Kind: Remove, Loc: loc, Rule: rule})
}

// Insert queues the insertion of text at offset.
func (q *Queue) Insert(offset int, text string, rule string) error {
	return q.Add(Edit{Kind: Insert, At: offset, Text: text, Rule: rule})
}

// Move queues moving the text of loc to offset.
func (q *Queue) Move(loc source.Location, offset int, rule string) error {
	return q.Add(Edit{Kind: Move, Loc: loc, At: offset, Rule: rule})
}

// Add validates e against the source and the queued edits and queues it.
// It returns a [*source.MalformedRangeError] for offsets outside the text
// and a [*ConflictingEditError] for conflicts; the queue is unchanged in
// both cases.
func (q *Queue) Add(e Edit) error {
	if err := q.validate(e); err != nil {
		return err
	}

	if e.Kind == Remove && e.Loc.Empty() {
		return nil
	}
	key := e
	key.Rule = ""
	if _, ok := q.seen[key]; ok {
		return nil
	}

	if e.Kind == Move && e.Loc.Start < e.At && e.At < e.Loc.End {
		return &ConflictingEditError{Edit: e, Existing: e}
	}
	ranges, points := e.footprints()
	for _, r := range ranges {
		if i, ok := q.rangeConflict(r); ok {
			return &ConflictingEditError{Edit: e, Existing: q.edits[i]}
		}
	}
	for _, p := range points {
		if i, ok := q.pointConflict(p); ok {
			return &ConflictingEditError{Edit: e, Existing: q.edits[i]}
		}
	}

	n := len(q.edits)
	q.edits = append(q.edits, e)
	q.seen[key] = struct{}{}
	for _, r := range ranges {
		if !r.Empty() {
			q.index.Set(footprint{loc: r, edit: n})
		}
	}
	for _, p := range points {
		q.index.Set(footprint{loc: source.At(p), point: true, edit: n})
	}
	return nil
}

func (q *Queue) validate(e Edit) error {
	if e.Kind != Insert {
		if e.Loc.Start < 0 || e.Loc.Start > e.Loc.End || e.Loc.End > len(q.src) {
			return &source.MalformedRangeError{Start: e.Loc.Start, End: e.Loc.End, What: e.Kind.String()}
		}
	}
	if e.Kind != Remove {
		if e.At < 0 || e.At > len(q.src) {
			return &source.MalformedRangeError{Start: e.At, End: e.At, What: e.Kind.String()}
		}
	}
	return nil
}

// rangeConflict finds a queued footprint that conflicts with r. Queued
// ranges never overlap each other, so only the nearest range starting at or
// before r.Start can reach into r from the left.
func (q *Queue) rangeConflict(r source.Location) (int, bool) {
	if r.Empty() {
		return 0, false
	}

	hit := -1
	q.index.Descend(footprint{loc: source.Location{Start: r.Start, End: math.MaxInt}, edit: math.MaxInt}, func(f footprint) bool {
		if f.point {
			return true
		}
		if f.loc.Overlaps(r) {
			hit = f.edit
		}
		return false
	})
	if hit >= 0 {
		return hit, true
	}

	q.index.Ascend(footprint{loc: source.At(r.Start + 1), edit: -1}, func(f footprint) bool {
		if f.loc.Start >= r.End {
			return false
		}
		// Either a range starting inside r or a point strictly inside it.
		hit = f.edit
		return false
	})
	return hit, hit >= 0
}

// pointConflict finds a queued footprint that conflicts with offset p.
func (q *Queue) pointConflict(p int) (int, bool) {
	hit := -1
	q.index.Ascend(footprint{loc: source.At(p), edit: -1}, func(f footprint) bool {
		if f.loc.Start != p {
			return false
		}
		if f.point {
			hit = f.edit
		}
		return false
	})
	if hit >= 0 {
		return hit, true
	}

	q.index.Descend(footprint{loc: source.Location{Start: p - 1, End: math.MaxInt}, edit: math.MaxInt}, func(f footprint) bool {
		if f.point {
			return true
		}
		if f.loc.Start < p && p < f.loc.End {
			hit = f.edit
		}
		return false
	})
	return hit, hit >= 0
}

// Sorted lowers the queued edits to text edits ordered by descending start
// offset, then descending end offset, so that applying them front to back
// never shifts an offset that is still to be used. A removal and an
// insertion at the same offset therefore leave the inserted text where the
// removed text began.
func (q *Queue) Sorted() []TextEdit {
	out := make([]TextEdit, 0, len(q.edits)+1)
	for _, e := range q.edits {
		switch e.Kind {
		case Remove:
			out = append(out, TextEdit{Loc: e.Loc})
		case Insert:
			out = append(out, TextEdit{Loc: source.At(e.At), NewText: e.Text})
		case Move:
			out = append(out,
				TextEdit{Loc: e.Loc},
				TextEdit{Loc: source.At(e.At), NewText: e.Loc.Text(q.src)},
			)
		}
	}
	slices.SortStableFunc(out, func(a, b TextEdit) int {
		if c := cmp.Compare(b.Loc.Start, a.Loc.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.Loc.End, a.Loc.End)
	})
	return out
}

// Apply returns the source with every queued edit applied.
func (q *Queue) Apply() (string, error) {
	return ApplyEdits(q.src, q.Sorted())
}

// ApplyEdits applies edits sorted as by [Queue.Sorted] to src.
func ApplyEdits(src string, edits []TextEdit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}

	limit := len(src)
	out := src
	for _, te := range edits {
		if te.Loc.Start < 0 || te.Loc.Start > te.Loc.End || te.Loc.End > limit {
			return "", &source.MalformedRangeError{Start: te.Loc.Start, End: te.Loc.End, What: "edit"}
		}
		var b strings.Builder
		b.Grow(len(out) - te.Loc.Len() + len(te.NewText))
		b.WriteString(out[:te.Loc.Start])
		b.WriteString(te.NewText)
		b.WriteString(out[te.Loc.End:])
		out = b.String()
		limit = te.Loc.Start
	}
	return out, nil
}
