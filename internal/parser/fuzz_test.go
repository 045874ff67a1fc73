package parser

import "testing"

func FuzzParse(f *testing.F) {
	// Seed with representative Java declarations.
	seeds := []string{
		"",
		"package a;\nimport b.C;\n",
		"class A {}\n",
		"public final class A { static public int X = 1;; }\n",
		"interface I { public abstract void m(); int X = 1; }\n",
		"enum E { A, B { void m() {} }; int x; }\n",
		"@interface T { String value() default \"\"; }\n",
		"record R(int x) { R {} }\n",
		"class A { /* c */ void m() {} ; // d\n }\n",
		"class A { String s = \"\"\"\n}\n\"\"\"; }\n",
		"sealed interface S permits A {}\n",
		"class A { <T> void m(T... ts) {} }\n",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// The parser should never panic, and every node must lie inside
		// its parent.
		tree, err := Parse(input)
		if err != nil {
			return
		}
		tree.Walk(tree.Root(), func(id NodeID) bool {
			loc := tree.Loc(id)
			if loc.Start < 0 || loc.End > len(input) || loc.Start > loc.End {
				t.Fatalf("node %d (%s) has bad location %s", id, tree.Kind(id), loc)
			}
			if parent := tree.Parent(id); parent != NoNode && !tree.Loc(parent).Encloses(loc) {
				t.Fatalf("node %d (%s) at %s escapes parent %s", id, tree.Kind(id), loc, tree.Loc(parent))
			}
			return true
		})
	})
}
