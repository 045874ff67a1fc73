package cleanup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/refactor"
)

type rewriteCase struct {
	name  string
	input string
	want  string
}

// runPass runs one pass of rule over src and applies the queued edits.
func runPass(t *testing.T, rule refactor.Rule, src string) (string, int, error) {
	t.Helper()
	tree, err := parser.Parse(src)
	require.NoError(t, err)

	q, err := refactor.NewEngine([]refactor.Rule{rule}, refactor.Options{}).Pass(tree)
	if err != nil {
		return "", 0, err
	}
	out, err := q.Apply()
	require.NoError(t, err)
	return out, q.Len(), nil
}

// rewrite runs rules to a fixed point.
func rewrite(t *testing.T, src string, rules ...refactor.Rule) refactor.Result {
	t.Helper()
	res, err := refactor.NewEngine(rules, refactor.Options{}).Rewrite(src)
	require.NoError(t, err)
	return res
}
