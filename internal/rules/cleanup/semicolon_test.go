package cleanup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/refactor"
	"github.com/donaldgifford/jrefactor/internal/source"
)

func TestSemicolonCleanup(t *testing.T) {
	tests := []rewriteCase{
		{
			name:  "runs between siblings",
			input: "class A {\n\tint x; ; ;\n\tint y;\n}\n",
			want:  "class A {\n\tint x;  \n\tint y;\n}\n",
		},
		{
			name:  "several runs in one gap",
			input: "class A { int x;;; ; int y; }",
			want:  "class A { int x;  int y; }",
		},
		{
			name:  "before closing brace",
			input: "class A { int x;; }",
			want:  "class A { int x; }",
		},
		{
			name:  "after method body",
			input: "class A { void m() {}; }",
			want:  "class A { void m() {} }",
		},
		{
			name:  "after initializer",
			input: "class A { static {}; }",
			want:  "class A { static {} }",
		},
		{
			name:  "after top-level type",
			input: "class A {};\n",
			want:  "class A {}\n",
		},
		{
			name:  "top-level type without final newline",
			input: "class A {};",
			want:  "class A {}",
		},
		{
			name:  "between top-level types",
			input: "class A {};\n;\nclass B {}\n",
			want:  "class A {}\n\nclass B {}\n",
		},
		{
			name:  "comments are skipped",
			input: "class A { int x; /* ; */ ; // ;\n}",
			want:  "class A { int x; /* ; */  // ;\n}",
		},
		{
			name:  "enum members",
			input: "enum E { A, B; int x;; }",
			want:  "enum E { A, B; int x; }",
		},
		{
			name:  "annotation type members",
			input: "@interface T { int v() default 1;; }",
			want:  "@interface T { int v() default 1; }",
		},
		{
			name:  "nothing to remove",
			input: "class A { int x; }",
			want:  "class A { int x; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := runPass(t, &SemicolonCleanup{}, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSemicolonCleanupRemovesExactRuns(t *testing.T) {
	src := "class A { int x; ; ; int y; }"
	tree, err := parser.Parse(src)
	require.NoError(t, err)

	q, err := refactor.NewEngine([]refactor.Rule{&SemicolonCleanup{}}, refactor.Options{}).Pass(tree)
	require.NoError(t, err)

	var removed []source.Location
	for _, e := range q.Edits() {
		assert.Equal(t, "semicolon_cleanup", e.Rule)
		removed = append(removed, e.Loc)
	}
	assert.Equal(t, []source.Location{{Start: 17, End: 18}, {Start: 19, End: 20}}, removed)
}

func TestSemicolonCleanupStopsDescending(t *testing.T) {
	src := "class A { class B { int x;; }; }"

	got, n, err := runPass(t, &SemicolonCleanup{}, src)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "class A { class B { int x;; } }", got)

	res := rewrite(t, src, &SemicolonCleanup{})
	assert.Equal(t, "class A { class B { int x; } }", res.Output)
	assert.Equal(t, 3, res.Passes)
}

func TestSemicolonCleanupIdempotent(t *testing.T) {
	src := "class A {\n\tint x;;\n\tvoid m() {};;\n\t/* ; */\n};\n"
	once := rewrite(t, src, &SemicolonCleanup{})
	twice := rewrite(t, once.Output, &SemicolonCleanup{})
	assert.Equal(t, once.Output, twice.Output)
	assert.False(t, twice.Changed())
}

func TestSemicolonCleanupEnumConstantBody(t *testing.T) {
	_, _, err := runPass(t, &SemicolonCleanup{}, "enum E { A { void m() {}; }; }")
	require.Error(t, err)
	assert.True(t, errors.Is(err, refactor.ErrUnsupportedConstruct))

	var uce *refactor.UnsupportedConstructError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, parser.KindMethod, uce.Kind)
	assert.Equal(t, "semicolon_cleanup", uce.Rule)
}

func TestSemicolonCleanupWithoutCompilationUnit(t *testing.T) {
	src := "class A { int x;; }"
	b := parser.NewBuilder(src)
	root := b.Add(parser.NoNode, parser.Node{Kind: parser.KindType, Loc: source.Location{Start: 0, End: len(src)}})
	b.Add(root, parser.Node{Kind: parser.KindField, Loc: source.Location{Start: 10, End: 16}})
	tree := b.Tree()

	q, err := refactor.NewEngine([]refactor.Rule{&SemicolonCleanup{}}, refactor.Options{}).Pass(tree)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Len())
}
