package refactor

import (
	"errors"
	"fmt"

	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/source"
)

// ErrUnsupportedConstruct is matched by every [UnsupportedConstructError].
var ErrUnsupportedConstruct = errors.New("unsupported construct")

// ErrNoFixedPoint is returned when rewriting still queues edits after the
// pass budget is spent.
var ErrNoFixedPoint = errors.New("no fixed point reached")

// UnsupportedConstructError reports a node that a rule has no policy for.
// The node's subtree is skipped; the rest of the pass still runs but its
// edits are discarded.
type UnsupportedConstructError struct {
	Rule   string
	Node   parser.NodeID
	Kind   parser.Kind
	Loc    source.Location
	Reason string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: unsupported %s at %s: %s", e.Rule, e.Kind, e.Loc, e.Reason)
}

// Is makes errors.Is(err, ErrUnsupportedConstruct) work.
func (e *UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupportedConstruct
}
