package parser

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"github.com/donaldgifford/jrefactor/internal/source"
)

// Tree is a parsed file. Nodes are stored in an arena and addressed by
// NodeID; the tree is read-only once built.
type Tree struct {
	src      string
	nodes    []Node
	root     NodeID
	comments []Comment
}

// Source returns the text the tree was built from.
func (t *Tree) Source() string { return t.src }

// Root returns the root node.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Comments returns the comments of the file in ascending start order. It
// returns nil when the root is not a compilation unit.
func (t *Tree) Comments() []Comment {
	if t.Kind(t.root) != KindCompilationUnit {
		return nil
	}
	return t.comments
}

// IsCompilationUnit reports whether the tree is a full translation unit.
func (t *Tree) IsCompilationUnit() bool {
	return t.Kind(t.root) == KindCompilationUnit
}

// Node returns the node for id, or nil for NoNode.
func (t *Tree) Node(id NodeID) *Node {
	if id == NoNode || int(id) > len(t.nodes) {
		return nil
	}
	return &t.nodes[id-1]
}

// Kind returns the kind of id, or KindInvalid.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Parent returns the parent of id.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// Loc returns the location of id.
func (t *Tree) Loc(id NodeID) source.Location {
	if n := t.Node(id); n != nil {
		return n.Loc
	}
	return source.Location{}
}

// Text returns the source text of id.
func (t *Tree) Text(id NodeID) string {
	return t.Loc(id).Text(t.src)
}

// Children returns the children of id in source order: extended modifiers,
// parameters, then members.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	out := make([]NodeID, 0, len(n.Modifiers)+len(n.Params)+len(n.Members))
	out = append(out, n.Modifiers...)
	out = append(out, n.Params...)
	return append(out, n.Members...)
}

// List returns the ordered child list prop of id.
func (t *Tree) List(id NodeID, prop ListProperty) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	switch prop {
	case ListModifiers:
		var out []NodeID
		for _, m := range n.Modifiers {
			if t.Kind(m) == KindModifier {
				out = append(out, m)
			}
		}
		return out
	case ListExtendedModifiers:
		return n.Modifiers
	case ListParameters:
		return n.Params
	case ListMembers:
		return n.Members
	}
	return nil
}

// Modifiers returns the modifier keyword nodes of id, annotations excluded.
func (t *Tree) Modifiers(id NodeID) []NodeID {
	return t.List(id, ListModifiers)
}

// HasModifier reports whether id carries modifier keyword k.
func (t *Tree) HasModifier(id NodeID, k Keyword) bool {
	for _, m := range t.Modifiers(id) {
		if t.Node(m).Keyword == k {
			return true
		}
	}
	return false
}

// NextSibling returns the next body declaration after id in its parent's
// member list, or NoNode.
func (t *Tree) NextSibling(id NodeID) NodeID {
	members := t.List(t.Parent(id), ListMembers)
	i := slices.Index(members, id)
	if i < 0 {
		return NoNode
	}
	for _, m := range members[i+1:] {
		if t.Kind(m).IsBodyDeclaration() {
			return m
		}
	}
	return NoNode
}

// IsInterface reports whether id is a class-like declaration declared with
// "interface".
func (t *Tree) IsInterface(id NodeID) bool {
	n := t.Node(id)
	return n != nil && n.Kind == KindType && n.Has(FlagInterface)
}

// Walk calls fn for id and its descendants in pre-order. When fn returns
// false the children of that node are skipped.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// Builder assembles a Tree. The first node added without a parent becomes
// the root; it does not have to be a compilation unit.
type Builder struct {
	tree *Tree
}

// NewBuilder returns a Builder for a tree over src.
func NewBuilder(src string) *Builder {
	return &Builder{tree: &Tree{src: src}}
}

// Add appends n as a child of parent and returns its id. The child lands in
// the parent's modifier, parameter or member list according to its kind.
func (b *Builder) Add(parent NodeID, n Node) NodeID {
	count, err := safecast.Conv[uint32](len(b.tree.nodes) + 1)
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	id := NodeID(count)
	n.Parent = parent
	b.tree.nodes = append(b.tree.nodes, n)

	if parent == NoNode {
		if b.tree.root == NoNode {
			b.tree.root = id
		}
		return id
	}

	p := b.tree.Node(parent)
	switch n.Kind {
	case KindModifier, KindAnnotation:
		p.Modifiers = append(p.Modifiers, id)
	case KindParameter:
		p.Params = append(p.Params, id)
	default:
		p.Members = append(p.Members, id)
	}
	return id
}

// Node exposes a node under construction so its location can be completed.
func (b *Builder) Node(id NodeID) *Node {
	return b.tree.Node(id)
}

// AddComment records a comment. Comments must be added in start order.
func (b *Builder) AddComment(c Comment) {
	b.tree.comments = append(b.tree.comments, c)
}

// Tree returns the assembled tree. The Builder must not be used afterwards.
func (b *Builder) Tree() *Tree {
	t := b.tree
	b.tree = nil
	return t
}
