package refactor

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/donaldgifford/jrefactor/internal/edit"
	"github.com/donaldgifford/jrefactor/internal/parser"
)

// DefaultMaxPasses bounds Rewrite when Options.MaxPasses is zero.
const DefaultMaxPasses = 10

// Options configure an Engine.
type Options struct {
	// MaxPasses is the pass budget of Rewrite. Zero means DefaultMaxPasses.
	MaxPasses int

	// Logger receives per-pass debug records. Nil discards them.
	Logger *slog.Logger
}

// Engine runs a fixed set of rules over source text.
type Engine struct {
	dispatcher *Dispatcher
	maxPasses  int
	logger     *slog.Logger
}

// NewEngine returns an Engine calling rules in the order given.
func NewEngine(rules []Rule, opts Options) *Engine {
	e := &Engine{
		dispatcher: NewDispatcher(rules),
		maxPasses:  opts.MaxPasses,
		logger:     opts.Logger,
	}
	if e.maxPasses <= 0 {
		e.maxPasses = DefaultMaxPasses
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Rules returns the engine's rules in call order.
func (e *Engine) Rules() []Rule {
	return e.dispatcher.Rules()
}

// Pass runs every rule over tree once and returns the queued edits. On
// error no queue is returned.
func (e *Engine) Pass(tree *parser.Tree) (*edit.Queue, error) {
	ctx := NewContext(tree)
	if err := e.dispatcher.Run(ctx); err != nil {
		return nil, err
	}
	return ctx.Queue, nil
}

// Result summarizes a Rewrite.
type Result struct {
	Output string
	Passes int // Passes run, including the final one that queued nothing.
	Edits  int // Edits applied over all passes.
}

// Changed reports whether any edit was applied.
func (r Result) Changed() bool { return r.Edits > 0 }

// Rewrite parses src, runs a pass and applies its edits, repeating on the
// output until a pass queues nothing. It fails with ErrNoFixedPoint when
// the pass budget runs out first.
func (e *Engine) Rewrite(src string) (Result, error) {
	res := Result{Output: src}
	for res.Passes < e.maxPasses {
		res.Passes++

		tree, err := parser.Parse(res.Output)
		if err != nil {
			return res, fmt.Errorf("pass %d: %w", res.Passes, err)
		}
		q, err := e.Pass(tree)
		if err != nil {
			return res, fmt.Errorf("pass %d: %w", res.Passes, err)
		}

		e.logger.Debug("pass complete", slog.Int("pass", res.Passes), slog.Int("edits", q.Len()))
		if q.Len() == 0 {
			return res, nil
		}
		for _, ed := range q.Edits() {
			e.logger.Debug("edit", slog.Any("edit", ed))
		}

		out, err := q.Apply()
		if err != nil {
			return res, fmt.Errorf("pass %d: %w", res.Passes, err)
		}
		res.Output = out
		res.Edits += q.Len()
	}
	return res, fmt.Errorf("%w after %d passes", ErrNoFixedPoint, e.maxPasses)
}
