package edit

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/jrefactor/internal/source"
)

func loc(start, end int) source.Location {
	return source.Location{Start: start, End: end}
}

func TestApplyEmptyQueue(t *testing.T) {
	q := NewQueue("class A {}")
	got, err := q.Apply()
	require.NoError(t, err)
	assert.Equal(t, "class A {}", got)
	assert.Equal(t, 0, q.Len())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		edits []Edit
		want  string
	}{
		{
			name:  "remove",
			src:   "int x;;",
			edits: []Edit{{Kind: Remove, Loc: loc(6, 7)}},
			want:  "int x;",
		},
		{
			name:  "insert",
			src:   "int x;",
			edits: []Edit{{Kind: Insert, At: 0, Text: "final "}},
			want:  "final int x;",
		},
		{
			name: "swap by moves",
			src:  "static public void m()",
			edits: []Edit{
				{Kind: Move, Loc: loc(7, 13), At: 0},
				{Kind: Move, Loc: loc(0, 6), At: 7},
			},
			want: "public static void m()",
		},
		{
			name: "rotate three",
			src:  "final static public int X;",
			edits: []Edit{
				{Kind: Move, Loc: loc(13, 19), At: 0},
				{Kind: Move, Loc: loc(6, 12), At: 6},
				{Kind: Move, Loc: loc(0, 5), At: 13},
			},
			want: "public static final int X;",
		},
		{
			name: "removal before insertion at same offset",
			src:  "abc",
			edits: []Edit{
				{Kind: Insert, At: 1, Text: "X"},
				{Kind: Remove, Loc: loc(1, 2)},
			},
			want: "aXc",
		},
		{
			name: "adjacent removals",
			src:  "a;;b",
			edits: []Edit{
				{Kind: Remove, Loc: loc(1, 2)},
				{Kind: Remove, Loc: loc(2, 3)},
			},
			want: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(tt.src)
			for _, e := range tt.edits {
				require.NoError(t, q.Add(e))
			}
			got, err := q.Apply()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddIgnoresDuplicatesAndEmptyRemovals(t *testing.T) {
	q := NewQueue("abcdef")
	require.NoError(t, q.Remove(loc(1, 3), "a"))
	require.NoError(t, q.Remove(loc(1, 3), "b"))
	require.NoError(t, q.Remove(loc(4, 4), "a"))
	require.NoError(t, q.Insert(5, "x", "a"))
	require.NoError(t, q.Insert(5, "x", "a"))
	assert.Equal(t, 2, q.Len())

	got, err := q.Apply()
	require.NoError(t, err)
	assert.Equal(t, "adexf", got)
}

func TestAddConflicts(t *testing.T) {
	tests := []struct {
		name  string
		first Edit
		then  Edit
	}{
		{name: "overlapping ranges", first: Edit{Kind: Remove, Loc: loc(2, 6)}, then: Edit{Kind: Remove, Loc: loc(4, 8)}},
		{name: "nested ranges", first: Edit{Kind: Remove, Loc: loc(2, 8)}, then: Edit{Kind: Remove, Loc: loc(3, 4)}},
		{name: "same start", first: Edit{Kind: Remove, Loc: loc(2, 4)}, then: Edit{Kind: Remove, Loc: loc(2, 6)}},
		{name: "point inside range", first: Edit{Kind: Remove, Loc: loc(2, 6)}, then: Edit{Kind: Insert, At: 4, Text: "x"}},
		{name: "two points", first: Edit{Kind: Insert, At: 3, Text: "x"}, then: Edit{Kind: Insert, At: 3, Text: "y"}},
		{name: "move source overlaps", first: Edit{Kind: Move, Loc: loc(0, 3), At: 9}, then: Edit{Kind: Remove, Loc: loc(2, 5)}},
		{name: "move destination inside range", first: Edit{Kind: Remove, Loc: loc(5, 9)}, then: Edit{Kind: Move, Loc: loc(0, 2), At: 6}},
		{name: "move destinations collide", first: Edit{Kind: Move, Loc: loc(0, 2), At: 6}, then: Edit{Kind: Move, Loc: loc(3, 4), At: 6}},
	}

	for _, tt := range tests {
		// Detection must not depend on the order edits arrive in.
		for _, order := range [][2]Edit{{tt.first, tt.then}, {tt.then, tt.first}} {
			t.Run(tt.name, func(t *testing.T) {
				q := NewQueue("0123456789")
				require.NoError(t, q.Add(order[0]))
				err := q.Add(order[1])
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConflictingEdit))

				var ce *ConflictingEditError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, order[0], ce.Existing)
				assert.Equal(t, 1, q.Len())
			})
		}
	}
}

func TestAddNoConflict(t *testing.T) {
	tests := []struct {
		name  string
		first Edit
		then  Edit
	}{
		{name: "touching ranges", first: Edit{Kind: Remove, Loc: loc(2, 4)}, then: Edit{Kind: Remove, Loc: loc(4, 6)}},
		{name: "point at range start", first: Edit{Kind: Remove, Loc: loc(2, 4)}, then: Edit{Kind: Insert, At: 2, Text: "x"}},
		{name: "point at range end", first: Edit{Kind: Remove, Loc: loc(2, 4)}, then: Edit{Kind: Insert, At: 4, Text: "x"}},
		{name: "disjoint moves", first: Edit{Kind: Move, Loc: loc(0, 2), At: 5}, then: Edit{Kind: Move, Loc: loc(5, 7), At: 0}},
	}

	for _, tt := range tests {
		for _, order := range [][2]Edit{{tt.first, tt.then}, {tt.then, tt.first}} {
			t.Run(tt.name, func(t *testing.T) {
				q := NewQueue("0123456789")
				require.NoError(t, q.Add(order[0]))
				require.NoError(t, q.Add(order[1]))
				assert.Equal(t, 2, q.Len())
			})
		}
	}
}

func TestMoveIntoItself(t *testing.T) {
	q := NewQueue("0123456789")
	err := q.Move(loc(2, 6), 4, "r")
	assert.True(t, errors.Is(err, ErrConflictingEdit))
	assert.Equal(t, 0, q.Len())
}

func TestAddMalformed(t *testing.T) {
	tests := []struct {
		name string
		e    Edit
	}{
		{name: "reversed", e: Edit{Kind: Remove, Loc: loc(5, 2)}},
		{name: "negative", e: Edit{Kind: Remove, Loc: loc(-1, 2)}},
		{name: "past end", e: Edit{Kind: Remove, Loc: loc(8, 11)}},
		{name: "insert past end", e: Edit{Kind: Insert, At: 11, Text: "x"}},
		{name: "move past end", e: Edit{Kind: Move, Loc: loc(0, 1), At: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue("0123456789")
			err := q.Add(tt.e)
			require.Error(t, err)
			assert.True(t, errors.Is(err, source.ErrMalformedRange))
		})
	}
}

func TestSortedOrder(t *testing.T) {
	q := NewQueue("0123456789")
	require.NoError(t, q.Insert(2, "x", ""))
	require.NoError(t, q.Remove(loc(2, 4), ""))
	require.NoError(t, q.Move(loc(6, 8), 0, ""))

	got := q.Sorted()
	want := []TextEdit{
		{Loc: loc(6, 8)},
		{Loc: loc(2, 4)},
		{Loc: source.At(2), NewText: "x"},
		{Loc: source.At(0), NewText: "67"},
	}
	assert.Equal(t, want, got)

	out, err := q.Apply()
	require.NoError(t, err)
	assert.Equal(t, "6701x4589", out)
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	_, err := ApplyEdits("0123456789", []TextEdit{
		{Loc: loc(4, 8)},
		{Loc: loc(2, 6)},
	})
	assert.True(t, errors.Is(err, source.ErrMalformedRange))
}

func TestEditLogValue(t *testing.T) {
	v := Edit{Kind: Move, Loc: loc(1, 3), At: 7, Rule: "modifier-order"}.LogValue()
	require.Equal(t, slog.KindGroup, v.Kind())

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}
	assert.Equal(t, map[string]string{
		"kind":  "move",
		"start": "1",
		"end":   "3",
		"at":    "7",
		"rule":  "modifier-order",
	}, got)
}

func TestConflictingEditErrorMessage(t *testing.T) {
	err := &ConflictingEditError{
		Edit:     Edit{Kind: Remove, Loc: loc(4, 8), Rule: "b"},
		Existing: Edit{Kind: Remove, Loc: loc(2, 6), Rule: "a"},
	}
	assert.Equal(t, "conflicting edit: remove [4, 8) (b) overlaps remove [2, 6) (a)", err.Error())
}
