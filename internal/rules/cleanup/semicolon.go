// Package cleanup holds rules that remove redundant Java syntax.
package cleanup

import (
	"regexp"

	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/refactor"
	"github.com/donaldgifford/jrefactor/internal/source"
)

// semicolonRun matches a run of semicolons with the whitespace around it.
// Group 1 is the run itself.
var semicolonRun = regexp.MustCompile(`\s*(;+)\s*`)

// SemicolonCleanup removes stray semicolons after body declarations.
type SemicolonCleanup struct{}

// Name returns the config key for this rule.
func (r *SemicolonCleanup) Name() string {
	return "semicolon_cleanup"
}

// Description returns a one-line summary.
func (r *SemicolonCleanup) Description() string {
	return "Removes superfluous semicolons after body declarations."
}

// Kinds returns the body declaration kinds the rule scans after.
func (r *SemicolonCleanup) Kinds() []parser.Kind {
	return []parser.Kind{
		parser.KindType,
		parser.KindEnum,
		parser.KindAnnotationType,
		parser.KindField,
		parser.KindMethod,
		parser.KindInitializer,
		parser.KindAnnotationMember,
	}
}

// Visit scans the gap between id and whatever follows it, and removes
// every semicolon run found outside comments.
func (r *SemicolonCleanup) Visit(ctx *refactor.Context, id parser.NodeID) (bool, error) {
	// Without a compilation unit there is no comment list to skip.
	if !ctx.Tree.IsCompilationUnit() {
		return true, nil
	}

	gap, err := r.gap(ctx, id)
	if err != nil {
		return false, err
	}
	spans, err := refactor.NonCommentSpans(ctx.Source(), gap, ctx.Tree.Comments())
	if err != nil {
		return false, err
	}

	cont := true
	for _, span := range spans {
		for _, m := range semicolonRun.FindAllStringSubmatchIndex(span.Text, -1) {
			loc, err := source.FromPositions(span.Loc.Start+m[2], span.Loc.Start+m[3])
			if err != nil {
				return false, err
			}
			if err := ctx.Remove(loc); err != nil {
				return false, err
			}
			cont = false
		}
	}
	return cont, nil
}

// gap returns the range between the end of id and the start of its next
// sibling, or the end of its enclosing scope.
func (r *SemicolonCleanup) gap(ctx *refactor.Context, id parser.NodeID) (source.Location, error) {
	start := ctx.Tree.Loc(id).End
	if next := ctx.Tree.NextSibling(id); next != parser.NoNode {
		return source.FromPositions(start, ctx.Tree.Loc(next).Start)
	}

	parent := ctx.Tree.Parent(id)
	switch ctx.Tree.Kind(parent) {
	case parser.KindCompilationUnit:
		// Nothing closes a compilation unit, so the gap runs to its end.
		return source.FromPositions(start, ctx.Tree.Loc(parent).End)
	case parser.KindType, parser.KindEnum, parser.KindAnnotationType:
		// Stop before the closing brace.
		return source.FromPositions(start, ctx.Tree.Loc(parent).End-1)
	default:
		return source.Location{}, ctx.Unsupported(id, "no gap policy for a parent of kind %s", ctx.Tree.Kind(parent))
	}
}
