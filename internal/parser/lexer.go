package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/donaldgifford/jrefactor/internal/source"
)

// tokenKind classifies a lexical token.
type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokPunct
	tokString // String, char and text block literals.
	tokNumber
)

type token struct {
	kind tokenKind
	text string
	loc  source.Location
}

func (t token) is(text string) bool {
	return t.kind != tokString && t.text == text
}

// SyntaxError reports source the parser cannot handle.
type SyntaxError struct {
	Pos source.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// lexer splits source text into tokens and comments.
type lexer struct {
	src      string
	pos      int
	tokens   []token
	comments []Comment
	lines    *source.LineIndex
}

func (l *lexer) errorf(offset int, format string, args ...any) error {
	return syntaxError(l.lines, offset, format, args...)
}

func syntaxError(lines *source.LineIndex, offset int, format string, args ...any) error {
	return &SyntaxError{Pos: lines.Position(offset), Msg: fmt.Sprintf(format, args...)}
}

func lex(src string) ([]token, []Comment, error) {
	l := &lexer{src: src, lines: source.NewLineIndex(src)}
	if err := l.run(); err != nil {
		return nil, nil, err
	}
	return l.tokens, l.comments, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//"):
			l.lineComment()
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			if err := l.blockComment(); err != nil {
				return err
			}
		case strings.HasPrefix(l.src[l.pos:], `"""`):
			if err := l.textBlock(); err != nil {
				return err
			}
		case c == '"' || c == '\'':
			if err := l.quoted(c); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			l.number()
		case isIdentStart(l.src[l.pos:]):
			l.ident()
		default:
			l.emit(tokPunct, l.pos, l.pos+1)
		}
	}
	l.tokens = append(l.tokens, token{kind: tokEOF, loc: source.At(len(l.src))})
	return nil
}

func (l *lexer) emit(kind tokenKind, start, end int) {
	l.tokens = append(l.tokens, token{
		kind: kind,
		text: l.src[start:end],
		loc:  source.Location{Start: start, End: end},
	})
	l.pos = end
}

func (l *lexer) lineComment() {
	start := l.pos
	end := strings.IndexByte(l.src[start:], '\n')
	if end < 0 {
		end = len(l.src)
	} else {
		end += start
	}
	l.comments = append(l.comments, Comment{Kind: LineComment, Loc: source.Location{Start: start, End: end}})
	l.pos = end
}

func (l *lexer) blockComment() error {
	start := l.pos
	end := strings.Index(l.src[start+2:], "*/")
	if end < 0 {
		return l.errorf(start, "unterminated comment")
	}
	end += start + 4
	kind := BlockComment
	if strings.HasPrefix(l.src[start:], "/**") && end-start > 4 {
		kind = DocComment
	}
	l.comments = append(l.comments, Comment{Kind: kind, Loc: source.Location{Start: start, End: end}})
	l.pos = end
	return nil
}

func (l *lexer) textBlock() error {
	start := l.pos
	i := start + 3
	for i < len(l.src) {
		switch {
		case l.src[i] == '\\':
			i += 2
		case strings.HasPrefix(l.src[i:], `"""`):
			l.emit(tokString, start, i+3)
			return nil
		default:
			i++
		}
	}
	return l.errorf(start, "unterminated text block")
}

func (l *lexer) quoted(quote byte) error {
	start := l.pos
	i := start + 1
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i += 2
		case '\n':
			return l.errorf(start, "unterminated literal")
		case quote:
			l.emit(tokString, start, i+1)
			return nil
		default:
			i++
		}
	}
	return l.errorf(start, "unterminated literal")
}

func (l *lexer) number() {
	i := l.pos
	for i < len(l.src) {
		c := l.src[i]
		if isIdentByte(c) || c == '.' {
			i++
			continue
		}
		// Exponent signs: 1e-5, 0x1p+3.
		if c == '+' || c == '-' {
			prev := l.src[i-1]
			hex := strings.HasPrefix(l.src[l.pos:], "0x") || strings.HasPrefix(l.src[l.pos:], "0X")
			if !hex && (prev == 'e' || prev == 'E') || hex && (prev == 'p' || prev == 'P') {
				i++
				continue
			}
		}
		break
	}
	l.emit(tokNumber, l.pos, i)
}

func (l *lexer) ident() {
	i := l.pos
	for i < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[i:])
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	// "non-sealed" is the only hyphenated keyword.
	if l.src[l.pos:i] == "non" && strings.HasPrefix(l.src[i:], "-sealed") {
		j := i + len("-sealed")
		if j == len(l.src) || !isIdentStart(l.src[j:]) {
			i = j
		}
	}
	l.emit(tokIdent, l.pos, i)
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
