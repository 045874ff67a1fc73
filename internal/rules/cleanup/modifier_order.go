package cleanup

import (
	"cmp"
	"slices"

	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/refactor"
)

// ModifierOrder sorts modifiers into canonical order and removes the
// modifiers an interface or annotation type already implies.
//
// Rules per declaration:
//   - interface field: drop public, static and final
//   - method that is both static and final: drop final
//   - interface method and annotation type member: drop public and abstract
//   - parameter of an interface method: drop final
//   - any other type, field or method: sort
type ModifierOrder struct{}

// Name returns the config key for this rule.
func (r *ModifierOrder) Name() string {
	return "modifier_order"
}

// Description returns a one-line summary.
func (r *ModifierOrder) Description() string {
	return "Fixes modifier order and removes modifiers implied by the context."
}

// Kinds returns the declaration kinds that carry modifiers.
func (r *ModifierOrder) Kinds() []parser.Kind {
	return []parser.Kind{
		parser.KindType,
		parser.KindEnum,
		parser.KindAnnotationType,
		parser.KindField,
		parser.KindMethod,
		parser.KindAnnotationMember,
		parser.KindParameter,
	}
}

// Visit applies the policy for the kind of id.
func (r *ModifierOrder) Visit(ctx *refactor.Context, id parser.NodeID) (bool, error) {
	t := ctx.Tree
	switch t.Kind(id) {
	case parser.KindField:
		if t.IsInterface(t.Parent(id)) {
			return removeModifiers(ctx, id, parser.KeywordPublic, parser.KeywordStatic, parser.KeywordFinal)
		}
		return sortModifiers(ctx, id)

	case parser.KindMethod:
		if t.HasModifier(id, parser.KeywordStatic) && t.HasModifier(id, parser.KeywordFinal) {
			return removeModifiers(ctx, id, parser.KeywordFinal)
		}
		if t.IsInterface(t.Parent(id)) {
			return removeModifiers(ctx, id, parser.KeywordPublic, parser.KeywordAbstract)
		}
		return sortModifiers(ctx, id)

	case parser.KindAnnotationMember:
		return removeModifiers(ctx, id, parser.KeywordPublic, parser.KeywordAbstract)

	case parser.KindParameter:
		if t.IsInterface(t.Parent(t.Parent(id))) {
			return removeModifiers(ctx, id, parser.KeywordFinal)
		}
		return true, nil

	default:
		return sortModifiers(ctx, id)
	}
}

// removeModifiers removes every modifier of id spelled by one of drop.
func removeModifiers(ctx *refactor.Context, id parser.NodeID, drop ...parser.Keyword) (bool, error) {
	cont := true
	for _, m := range ctx.Tree.Modifiers(id) {
		if !slices.Contains(drop, ctx.Tree.Node(m).Keyword) {
			continue
		}
		if err := ctx.RemoveNode(m); err != nil {
			return false, err
		}
		cont = false
	}
	return cont, nil
}

// sortModifiers moves each out-of-place modifier of id into the slot its
// canonical position occupies in the current list. Slots already holding
// the right modifier are left alone. A keyword without a canonical rank
// cannot be compared and is reported as unsupported.
func sortModifiers(ctx *refactor.Context, id parser.NodeID) (bool, error) {
	mods := ctx.Tree.Modifiers(id)
	if len(mods) < 2 {
		return true, nil
	}
	ranks := make(map[parser.NodeID]int, len(mods))
	for _, m := range mods {
		kw := ctx.Tree.Node(m).Keyword
		rank, ok := kw.Rank()
		if !ok {
			return false, ctx.Unsupported(m, "cannot determine order for modifier %q", kw)
		}
		ranks[m] = rank
	}

	sorted := slices.Clone(mods)
	slices.SortStableFunc(sorted, func(a, b parser.NodeID) int {
		return cmp.Compare(ranks[a], ranks[b])
	})

	cont := true
	for k := range sorted {
		if sorted[k] == mods[k] {
			continue
		}
		if err := ctx.MoveTo(sorted[k], k, parser.ListModifiers, id); err != nil {
			return false, err
		}
		cont = false
	}
	return cont, nil
}
