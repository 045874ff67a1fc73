package refactor

import (
	"errors"

	"github.com/donaldgifford/jrefactor/internal/parser"
)

// Dispatcher routes each node to the rules registered for its kind.
type Dispatcher struct {
	rules []Rule
	table [parser.KindCount][]Rule
}

// NewDispatcher builds the kind table for rules. Rules are called in the
// order given.
func NewDispatcher(rules []Rule) *Dispatcher {
	d := &Dispatcher{rules: rules}
	for _, r := range rules {
		for _, k := range r.Kinds() {
			d.table[k] = append(d.table[k], r)
		}
	}
	return d
}

// Rules returns the rules in call order.
func (d *Dispatcher) Rules() []Rule {
	return d.rules
}

// Run traverses the tree of ctx in pre-order.
//
// On each node the rules for its kind run in order until one returns
// false, which ends the node and skips its subtree. An
// UnsupportedConstructError also skips the subtree; traversal goes on and
// the collected errors are returned joined. Any other error stops the
// traversal at once.
func (d *Dispatcher) Run(ctx *Context) error {
	var unsupported []error
	if err := d.visit(ctx, ctx.Root(), &unsupported); err != nil {
		return err
	}
	return errors.Join(unsupported...)
}

func (d *Dispatcher) visit(ctx *Context, id parser.NodeID, unsupported *[]error) error {
	for _, r := range d.table[ctx.Tree.Kind(id)] {
		ctx.rule = r.Name()
		cont, err := r.Visit(ctx, id)
		ctx.rule = ""
		switch {
		case errors.Is(err, ErrUnsupportedConstruct):
			*unsupported = append(*unsupported, err)
			return nil
		case err != nil:
			return err
		case !cont:
			return nil
		}
	}

	for _, child := range ctx.Tree.Children(id) {
		if err := d.visit(ctx, child, unsupported); err != nil {
			return err
		}
	}
	return nil
}
