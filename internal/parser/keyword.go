package parser

// Keyword is a modifier keyword.
type Keyword uint8

// Keywords recognised as modifiers. The order of declaration is not the
// canonical order; see [Keyword.Rank].
const (
	KeywordNone Keyword = iota
	KeywordPublic
	KeywordProtected
	KeywordPrivate
	KeywordStatic
	KeywordAbstract
	KeywordFinal
	KeywordTransient
	KeywordVolatile
	KeywordSynchronized
	KeywordNative
	KeywordStrictfp
	KeywordDefault
	KeywordSealed
	KeywordNonSealed
)

var keywordText = [...]string{
	KeywordNone:         "",
	KeywordPublic:       "public",
	KeywordProtected:    "protected",
	KeywordPrivate:      "private",
	KeywordStatic:       "static",
	KeywordAbstract:     "abstract",
	KeywordFinal:        "final",
	KeywordTransient:    "transient",
	KeywordVolatile:     "volatile",
	KeywordSynchronized: "synchronized",
	KeywordNative:       "native",
	KeywordStrictfp:     "strictfp",
	KeywordDefault:      "default",
	KeywordSealed:       "sealed",
	KeywordNonSealed:    "non-sealed",
}

var keywordByText = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordText))
	for k, s := range keywordText {
		if s != "" {
			m[s] = Keyword(k)
		}
	}
	return m
}()

// canonicalOrder is the fixed total order used to sort modifiers.
var canonicalOrder = []Keyword{
	KeywordPublic,
	KeywordProtected,
	KeywordPrivate,
	KeywordStatic,
	KeywordAbstract,
	KeywordFinal,
	KeywordTransient,
	KeywordVolatile,
	KeywordSynchronized,
	KeywordNative,
	KeywordStrictfp,
}

// LookupKeyword returns the modifier keyword spelled s.
func LookupKeyword(s string) (Keyword, bool) {
	k, ok := keywordByText[s]
	return k, ok
}

func (k Keyword) String() string {
	if int(k) < len(keywordText) && k != KeywordNone {
		return keywordText[k]
	}
	return "<none>"
}

// Rank returns the position of k in the canonical modifier order. ok is
// false for keywords that have no canonical position.
func (k Keyword) Rank() (rank int, ok bool) {
	for i, c := range canonicalOrder {
		if c == k {
			return i, true
		}
	}
	return -1, false
}

// IsVisibility reports whether k is public, protected or private.
func (k Keyword) IsVisibility() bool {
	return k == KeywordPublic || k == KeywordProtected || k == KeywordPrivate
}
