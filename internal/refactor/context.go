package refactor

import (
	"fmt"

	"github.com/donaldgifford/jrefactor/internal/edit"
	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/source"
)

// Context is the state of one rewriting pass. It is handed to every rule
// call and never shared between passes.
type Context struct {
	Tree  *parser.Tree
	Queue *edit.Queue

	rule string // Name of the rule being called; tags queued edits.
}

// NewContext returns a Context with an empty queue over tree's source.
func NewContext(tree *parser.Tree) *Context {
	return &Context{
		Tree:  tree,
		Queue: edit.NewQueue(tree.Source()),
	}
}

// Source returns the original text of the pass.
func (c *Context) Source() string { return c.Tree.Source() }

// Root returns the root node of the tree.
func (c *Context) Root() parser.NodeID { return c.Tree.Root() }

// Remove queues the removal of loc.
func (c *Context) Remove(loc source.Location) error {
	return c.Queue.Remove(loc, c.rule)
}

// RemoveNode queues the removal of id together with the whitespace that
// follows it, so the next token moves into its place.
func (c *Context) RemoveNode(id parser.NodeID) error {
	loc := c.Tree.Loc(id)
	src := c.Source()
	for loc.End < len(src) && isSpace(src[loc.End]) {
		loc.End++
	}
	return c.Remove(loc)
}

// InsertAt queues text for insertion so that it lands at position index of
// the list prop of parent.
func (c *Context) InsertAt(text string, index int, prop parser.ListProperty, parent parser.NodeID) error {
	at, err := c.slot(index, prop, parent)
	if err != nil {
		return err
	}
	return c.Queue.Insert(at, text, c.rule)
}

// MoveTo queues moving id so that it lands at position index of the list
// prop of parent. Indexes refer to the list as it is in the tree, before
// any queued edit.
func (c *Context) MoveTo(id parser.NodeID, index int, prop parser.ListProperty, parent parser.NodeID) error {
	at, err := c.slot(index, prop, parent)
	if err != nil {
		return err
	}
	return c.Queue.Move(c.Tree.Loc(id), at, c.rule)
}

// Unsupported returns an UnsupportedConstructError for id.
func (c *Context) Unsupported(id parser.NodeID, format string, args ...any) error {
	return &UnsupportedConstructError{
		Rule:   c.rule,
		Node:   id,
		Kind:   c.Tree.Kind(id),
		Loc:    c.Tree.Loc(id),
		Reason: fmt.Sprintf(format, args...),
	}
}

// slot resolves a list position to a source offset: the start of the
// element at index, or the end of the last element when index is the list
// length.
func (c *Context) slot(index int, prop parser.ListProperty, parent parser.NodeID) (int, error) {
	list := c.Tree.List(parent, prop)
	switch {
	case index < 0 || index > len(list):
		return 0, &source.MalformedRangeError{Start: index, End: len(list), What: prop.String() + " index"}
	case index < len(list):
		return c.Tree.Loc(list[index]).Start, nil
	case len(list) > 0:
		return c.Tree.Loc(list[len(list)-1]).End, nil
	case prop == parser.ListModifiers || prop == parser.ListExtendedModifiers:
		return c.Tree.Loc(parent).Start, nil
	default:
		return 0, c.Unsupported(parent, "no anchor for an insertion into empty %s", prop)
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
