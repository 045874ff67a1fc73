package parser

import (
	"slices"

	"github.com/donaldgifford/jrefactor/internal/source"
)

// Parse converts Java source text into a Tree rooted at a compilation unit.
//
// Only declarations are parsed. Method bodies, initializer expressions and
// annotation arguments are skipped as balanced token runs.
func Parse(src string) (*Tree, error) {
	toks, comments, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &state{
		toks:  toks,
		b:     NewBuilder(src),
		lines: source.NewLineIndex(src),
	}
	for _, c := range comments {
		p.b.AddComment(c)
	}

	if err := p.compilationUnit(len(src)); err != nil {
		return nil, err
	}
	return p.b.Tree(), nil
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// state tracks the parser's position in the token stream.
type state struct {
	toks    []token
	i       int
	b       *Builder
	lines   *source.LineIndex
	prevEnd int // End offset of the last consumed token.
}

func (p *state) peek() token { return p.toks[p.i] }

func (p *state) peekAt(n int) token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *state) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
		p.prevEnd = t.loc.End
	}
	return t
}

func (p *state) accept(text string) bool {
	if p.peek().is(text) {
		p.next()
		return true
	}
	return false
}

func (p *state) expect(text string) (token, error) {
	t := p.peek()
	if !t.is(text) {
		return t, p.unexpected(t, "expected %q", text)
	}
	return p.next(), nil
}

func (p *state) ident() (token, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return t, p.unexpected(t, "expected identifier")
	}
	return p.next(), nil
}

func (p *state) unexpected(t token, format string, args ...any) error {
	if t.kind == tokEOF {
		format = "unexpected end of file, " + format
	} else {
		format = "unexpected %q, " + format
		args = append([]any{t.text}, args...)
	}
	return syntaxError(p.lines, t.loc.Start, format, args...)
}

// skipBalanced consumes an opening bracket and everything up to and
// including its matching closer.
func (p *state) skipBalanced() (source.Location, error) {
	open := p.next()
	stack := []string{closers[open.text]}
	for len(stack) > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return source.Location{}, p.unexpected(t, "missing %q", stack[len(stack)-1])
		case t.kind != tokPunct:
		case closers[t.text] != "":
			stack = append(stack, closers[t.text])
		case t.text == stack[len(stack)-1]:
			stack = stack[:len(stack)-1]
		case t.text == ")" || t.text == "]" || t.text == "}":
			return source.Location{}, p.unexpected(t, "expected %q", stack[len(stack)-1])
		}
	}
	return source.Location{Start: open.loc.Start, End: p.prevEnd}, nil
}

// skipAngle consumes a type parameter or argument list.
func (p *state) skipAngle() error {
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.unexpected(t, "missing %q", ">")
		case t.is("(") || t.is("["):
			if _, err := p.skipBalanced(); err != nil {
				return err
			}
			continue
		case t.is("<"):
			depth++
		case t.is(">"):
			depth--
		}
		p.next()
		if depth == 0 {
			return nil
		}
	}
}

// skipTo advances to the first depth-zero token in stops without consuming it.
func (p *state) skipTo(stops ...string) error {
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.unexpected(t, "expected one of %q", stops)
		case t.kind == tokPunct && slices.Contains(stops, t.text):
			return nil
		case t.kind == tokPunct && closers[t.text] != "":
			if _, err := p.skipBalanced(); err != nil {
				return err
			}
		case t.is(")") || t.is("]") || t.is("}"):
			return p.unexpected(t, "expected one of %q", stops)
		default:
			p.next()
		}
	}
}

func (p *state) compilationUnit(size int) error {
	cu := p.b.Add(NoNode, Node{Kind: KindCompilationUnit, Loc: source.Location{Start: 0, End: size}})
	for p.peek().kind != tokEOF {
		t := p.peek()
		switch {
		case t.is(";"):
			p.next()
		case t.is("package"), t.is("import"):
			kind := KindPackage
			if t.is("import") {
				kind = KindImport
			}
			p.next()
			if err := p.skipTo(";"); err != nil {
				return err
			}
			p.next()
			p.b.Add(cu, Node{Kind: kind, Loc: source.Location{Start: t.loc.Start, End: p.prevEnd}})
		case t.is("@") || t.kind == tokIdent:
			if p.isPackageAnnotation() {
				// Annotations on a package declaration belong to package-info.java.
				for p.peek().is("@") {
					if err := p.annotation(NoNode); err != nil {
						return err
					}
				}
				continue
			}
			if err := p.member(cu); err != nil {
				return err
			}
		default:
			return p.unexpected(t, "expected a declaration")
		}
	}
	return nil
}

// isPackageAnnotation reports whether the annotations starting at the
// current token are followed by "package".
func (p *state) isPackageAnnotation() bool {
	save, saveEnd := p.i, p.prevEnd
	defer func() { p.i, p.prevEnd = save, saveEnd }()

	for p.peek().is("@") && !p.peekAt(1).is("interface") {
		p.next()
		if _, err := p.qualifiedName(); err != nil {
			return false
		}
		if p.peek().is("(") {
			if _, err := p.skipBalanced(); err != nil {
				return false
			}
		}
	}
	return p.peek().is("package") && save != p.i
}

// annotation parses "@Name" or "@Name(...)". A NoNode owner drops it.
func (p *state) annotation(owner NodeID) error {
	at := p.next()
	name, err := p.qualifiedName()
	if err != nil {
		return err
	}
	if p.peek().is("(") {
		if _, err := p.skipBalanced(); err != nil {
			return err
		}
	}
	if owner != NoNode {
		p.b.Add(owner, Node{
			Kind: KindAnnotation,
			Name: name,
			Loc:  source.Location{Start: at.loc.Start, End: p.prevEnd},
		})
	}
	return nil
}

func (p *state) qualifiedName() (string, error) {
	t, err := p.ident()
	if err != nil {
		return "", err
	}
	name := t.text
	for p.peek().is(".") && p.peekAt(1).kind == tokIdent {
		p.next()
		name += "." + p.next().text
	}
	return name, nil
}

// modifiers parses annotations and modifier keywords onto owner.
func (p *state) modifiers(owner NodeID) error {
	for {
		t := p.peek()
		switch {
		case t.is("@") && !p.peekAt(1).is("interface"):
			if err := p.annotation(owner); err != nil {
				return err
			}
		case t.kind == tokIdent:
			k, ok := LookupKeyword(t.text)
			if !ok {
				return nil
			}
			// Contextual keywords are modifiers only when a declaration follows.
			if (k == KeywordSealed || k == KeywordNonSealed) && p.peekAt(1).kind != tokIdent {
				return nil
			}
			p.next()
			p.b.Add(owner, Node{Kind: KindModifier, Keyword: k, Name: t.text, Loc: t.loc})
		default:
			return nil
		}
	}
}

// member parses one declaration inside parent.
func (p *state) member(parent NodeID) error {
	start := p.peek().loc.Start
	id := p.b.Add(parent, Node{})
	if err := p.modifiers(id); err != nil {
		return err
	}

	kind, err := p.declaration(id, parent)
	if err != nil {
		return err
	}
	n := p.b.Node(id)
	n.Kind = kind
	n.Loc = source.Location{Start: start, End: p.prevEnd}
	return nil
}

// declaration parses the part of a member after its modifiers. The kind is
// recorded before any body is parsed so nested members can see it.
func (p *state) declaration(id, parent NodeID) (Kind, error) {
	t := p.peek()
	switch {
	case t.is("class"):
		p.next()
		return KindType, p.typeDeclaration(id, KindType, 0)
	case t.is("interface"):
		p.next()
		return KindType, p.typeDeclaration(id, KindType, FlagInterface)
	case t.is("record") && p.peekAt(1).kind == tokIdent && (p.peekAt(2).is("(") || p.peekAt(2).is("<")):
		p.next()
		return KindType, p.typeDeclaration(id, KindType, FlagRecord)
	case t.is("enum"):
		p.next()
		return KindEnum, p.enumDeclaration(id)
	case t.is("@") && p.peekAt(1).is("interface"):
		p.next()
		p.next()
		return KindAnnotationType, p.typeDeclaration(id, KindAnnotationType, 0)
	}

	if p.b.tree.Kind(parent) == KindCompilationUnit {
		return KindInvalid, p.unexpected(t, "expected a type declaration")
	}

	switch {
	case t.is("{"):
		body, err := p.skipBalanced()
		if err != nil {
			return KindInvalid, err
		}
		n := p.b.Node(id)
		n.Body = body
		n.Flags |= FlagHasBody
		return KindInitializer, nil
	case t.is("<"):
		if err := p.skipAngle(); err != nil {
			return KindInvalid, err
		}
	}

	// Constructors: Name "(". Compact record constructors: Name "{".
	if p.peek().kind == tokIdent && (p.peekAt(1).is("(") || p.peekAt(1).is("{")) {
		name := p.next()
		p.b.Node(id).Name = name.text
		p.b.Node(id).Flags |= FlagConstructor
		if p.peek().is("{") {
			return KindMethod, p.methodRest(id, false)
		}
		return KindMethod, p.methodDeclaration(id, false)
	}

	if _, err := p.skipType(); err != nil {
		return KindInvalid, err
	}
	name, err := p.ident()
	if err != nil {
		return KindInvalid, err
	}
	p.b.Node(id).Name = name.text

	if p.peek().is("(") {
		member := p.b.tree.Kind(parent) == KindAnnotationType
		if err := p.methodDeclaration(id, member); err != nil {
			return KindInvalid, err
		}
		if member {
			return KindAnnotationMember, nil
		}
		return KindMethod, nil
	}

	if err := p.skipTo(";"); err != nil {
		return KindInvalid, err
	}
	p.next()
	return KindField, nil
}

// skipType consumes a type, including generics, array dimensions and type
// annotations. It reports whether the type ends in "...".
func (p *state) skipType() (varargs bool, err error) {
	for p.peek().is("@") {
		if err := p.annotation(NoNode); err != nil {
			return false, err
		}
	}
	if _, err := p.ident(); err != nil {
		return false, err
	}
	for {
		switch {
		case p.peek().is("<"):
			if err := p.skipAngle(); err != nil {
				return false, err
			}
		case p.peek().is(".") && p.peekAt(1).is(".") && p.peekAt(2).is("."):
			p.next()
			p.next()
			p.next()
			return true, nil
		case p.peek().is(".") && (p.peekAt(1).kind == tokIdent || p.peekAt(1).is("@")):
			p.next()
			for p.peek().is("@") {
				if err := p.annotation(NoNode); err != nil {
					return false, err
				}
			}
			if _, err := p.ident(); err != nil {
				return false, err
			}
		case p.peek().is("[") && p.peekAt(1).is("]"):
			p.next()
			p.next()
		case p.peek().is("@"):
			// Annotated array dimension: String @NonNull [].
			if err := p.annotation(NoNode); err != nil {
				return false, err
			}
		default:
			return false, nil
		}
	}
}

func (p *state) typeDeclaration(id NodeID, kind Kind, flags Flags) error {
	name, err := p.ident()
	if err != nil {
		return err
	}
	n := p.b.Node(id)
	n.Kind = kind
	n.Name = name.text
	n.Flags |= flags

	if err := p.skipTo("{"); err != nil {
		return err
	}
	return p.classBody(id)
}

func (p *state) classBody(id NodeID) error {
	open, err := p.expect("{")
	if err != nil {
		return err
	}
	if err := p.members(id); err != nil {
		return err
	}
	if _, err := p.expect("}"); err != nil {
		return err
	}
	n := p.b.Node(id)
	n.Body = source.Location{Start: open.loc.Start, End: p.prevEnd}
	return nil
}

// members parses body declarations until the closing brace.
func (p *state) members(id NodeID) error {
	for !p.peek().is("}") {
		if p.peek().kind == tokEOF {
			return p.unexpected(p.peek(), "missing %q", "}")
		}
		if p.accept(";") {
			continue
		}
		if err := p.member(id); err != nil {
			return err
		}
	}
	return nil
}

func (p *state) enumDeclaration(id NodeID) error {
	name, err := p.ident()
	if err != nil {
		return err
	}
	p.b.Node(id).Kind = KindEnum
	p.b.Node(id).Name = name.text
	if err := p.skipTo("{"); err != nil {
		return err
	}
	open := p.next()

	for !p.peek().is(";") && !p.peek().is("}") {
		if p.accept(",") {
			continue
		}
		if err := p.enumConstant(id); err != nil {
			return err
		}
	}
	if p.accept(";") {
		if err := p.members(id); err != nil {
			return err
		}
	}
	if _, err := p.expect("}"); err != nil {
		return err
	}
	p.b.Node(id).Body = source.Location{Start: open.loc.Start, End: p.prevEnd}
	return nil
}

func (p *state) enumConstant(enum NodeID) error {
	start := p.peek().loc.Start
	id := p.b.Add(enum, Node{Kind: KindEnumConstant})
	if err := p.modifiers(id); err != nil {
		return err
	}
	name, err := p.ident()
	if err != nil {
		return err
	}
	p.b.Node(id).Name = name.text
	if p.peek().is("(") {
		if _, err := p.skipBalanced(); err != nil {
			return err
		}
	}
	if p.peek().is("{") {
		p.b.Node(id).Flags |= FlagHasBody
		if err := p.classBody(id); err != nil {
			return err
		}
	}
	p.b.Node(id).Loc = source.Location{Start: start, End: p.prevEnd}
	if !p.peek().is(",") && !p.peek().is(";") && !p.peek().is("}") {
		return p.unexpected(p.peek(), "expected %q, %q or %q", ",", ";", "}")
	}
	return nil
}

func (p *state) methodDeclaration(id NodeID, annotationMember bool) error {
	if err := p.parameters(id); err != nil {
		return err
	}
	return p.methodRest(id, annotationMember)
}

// methodRest parses what follows the parameter list: dimensions, throws,
// an annotation default value, then a body or ";".
func (p *state) methodRest(id NodeID, annotationMember bool) error {
	stops := []string{"{", ";"}
	if annotationMember {
		stops = []string{";"}
	}
	if err := p.skipTo(stops...); err != nil {
		return err
	}
	if p.accept(";") {
		return nil
	}
	body, err := p.skipBalanced()
	if err != nil {
		return err
	}
	n := p.b.Node(id)
	n.Body = body
	n.Flags |= FlagHasBody
	return nil
}

func (p *state) parameters(method NodeID) error {
	if _, err := p.expect("("); err != nil {
		return err
	}
	if p.accept(")") {
		return nil
	}
	for {
		if err := p.parameter(method); err != nil {
			return err
		}
		if p.accept(")") {
			return nil
		}
		if _, err := p.expect(","); err != nil {
			return err
		}
	}
}

func (p *state) parameter(method NodeID) error {
	start := p.peek().loc.Start
	id := p.b.Add(method, Node{Kind: KindParameter})
	if err := p.modifiers(id); err != nil {
		return err
	}
	varargs, err := p.skipType()
	if err != nil {
		return err
	}
	// Receiver parameters are spelled "Type this" or "Type Outer.this".
	name, err := p.qualifiedName()
	if err != nil {
		return err
	}
	for p.peek().is("[") && p.peekAt(1).is("]") {
		p.next()
		p.next()
	}
	n := p.b.Node(id)
	n.Name = name
	n.Loc = source.Location{Start: start, End: p.prevEnd}
	if varargs {
		n.Flags |= FlagVarargs
	}
	return nil
}
