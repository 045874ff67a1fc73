// Package refactor provides the rule contract, the per-pass rewriting
// context, the kind-indexed dispatcher and the fixed-point engine.
package refactor

import (
	"github.com/donaldgifford/jrefactor/internal/parser"
)

// Rule detects one anti-pattern and queues edits that fix it.
type Rule interface {
	// Name returns the config key for this rule (e.g., "modifier_order").
	Name() string

	// Description is a one-line summary for "jrefactor rules".
	Description() string

	// Kinds lists the node kinds the rule is called for.
	Kinds() []parser.Kind

	// Visit inspects id and may queue edits through ctx. It returns true to
	// continue into the node's children. A rule that queues any edit
	// touching the subtree of id must return false.
	Visit(ctx *Context, id parser.NodeID) (bool, error)
}
