package selector

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

// ErrInvalidSelector is the kind of every *ParseError.
var ErrInvalidSelector = fmt.Errorf("invalid selector: %w", oerrors.ErrInvalidInput)

// ParseError reports selector text that could not be parsed.
type ParseError struct {
	Text    string
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("selector %q at offset %d: %s", e.Text, e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidSelector
}

// Parse parses selector text such as
//
//	structure > member [trait|required]
//	operation -[input, output]-> :not([trait|sensitive])
//	$svc(service) ${svc} ~> resource
func Parse(text string) (*Selector, error) {
	p := &parser{text: text}
	sel, err := p.selector()
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level selectors.
func MustParse(text string) *Selector {
	sel, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return sel
}

type parser struct {
	text string
}

func (p *parser) fail(offset int, format string, args ...any) error {
	return &ParseError{Text: p.text, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) selector() (*Selector, error) {
	toks, err := lex(p.text, selectorTokens)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, p.fail(0, "empty selector")
	}

	sel := &Selector{}
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		var expr Expression
		switch tok.code {
		case shapeTypeToken:
			t, ok := ParseShapeType(tok.text)
			if !ok {
				return nil, p.fail(tok.offset, "unknown shape type %q", tok.text)
			}
			expr = ShapeTypeExpr{Type: t}
		case attributeToken:
			if expr, err = p.attribute(tok); err != nil {
				return nil, err
			}
		case forwardToken:
			expr = NeighborExpr{Direction: Forward}
		case reverseToken:
			expr = NeighborExpr{Direction: Reverse}
		case recursiveToken:
			expr = NeighborExpr{Direction: Forward, Recursive: true}
		case forwardRelToken, reverseRelToken:
			if expr, err = p.relationships(tok); err != nil {
				return nil, err
			}
		case functionToken, variableDefToken:
			if i+1 >= len(toks) || toks[i+1].code != groupToken {
				return nil, p.fail(tok.offset, "%s must be followed by (...)", tok.text)
			}
			i++
			if expr, err = p.call(tok, toks[i]); err != nil {
				return nil, err
			}
		case variableRefToken:
			name := tok.text[2 : len(tok.text)-1]
			if !identity.IsValidIdentifier(name) {
				return nil, p.fail(tok.offset, "invalid variable name %q", name)
			}
			expr = VariableReference{Name: name}
		default:
			return nil, p.fail(tok.offset, "unexpected %q", tok.text)
		}
		sel.Expressions = append(sel.Expressions, expr)
	}
	return sel, nil
}

func (p *parser) relationships(tok lexeme) (Expression, error) {
	e := NeighborExpr{Direction: Forward}
	inner := strings.TrimSuffix(strings.TrimPrefix(tok.text, "-["), "]->")
	if tok.code == reverseRelToken {
		e.Direction = Reverse
		inner = strings.TrimSuffix(strings.TrimPrefix(tok.text, "<-["), "]-")
	}
	for _, rel := range strings.Split(inner, ",") {
		rel = strings.TrimSpace(rel)
		if !slices.Contains(Relationships, rel) {
			return nil, p.fail(tok.offset, "unknown relationship %q", rel)
		}
		e.Relationships = append(e.Relationships, rel)
	}
	return e, nil
}

func (p *parser) call(tok, group lexeme) (Expression, error) {
	name := tok.text[1:]
	inner := group.text[1 : len(group.text)-1]

	var args []*Selector
	for _, part := range splitTopLevel(inner) {
		arg, err := Parse(part)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				return nil, p.fail(group.offset, "%s argument %q: %s", tok.text, strings.TrimSpace(part), pe.Message)
			}
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return nil, p.fail(group.offset, "%s requires at least one selector", tok.text)
	}

	if tok.code == variableDefToken {
		if len(args) != 1 {
			return nil, p.fail(group.offset, "variable %s takes a single selector", name)
		}
		return VariableDefinition{Name: name, Selector: args[0]}, nil
	}
	return FunctionExpr{Name: name, Args: args}, nil
}

// attribute parses the text of a [...] block.
func (p *parser) attribute(tok lexeme) (Expression, error) {
	inner := tok.text[1 : len(tok.text)-1]
	toks, err := lex(inner, attributeTokens)
	if err != nil {
		return nil, p.fail(tok.offset, "%v", err)
	}
	a := &attrParser{p: p, toks: toks, base: tok.offset + 1}
	if len(toks) > 0 && toks[0].code == atToken {
		a.pos++
		return a.scoped()
	}
	return a.plain()
}

type attrParser struct {
	p    *parser
	toks []lexeme
	pos  int
	base int
}

func (a *attrParser) done() bool { return a.pos >= len(a.toks) }

func (a *attrParser) peek() lexeme {
	if a.done() {
		return lexeme{code: -1, offset: a.lastOffset()}
	}
	return a.toks[a.pos]
}

func (a *attrParser) lastOffset() int {
	if len(a.toks) == 0 {
		return 0
	}
	last := a.toks[len(a.toks)-1]
	return last.offset + len(last.text)
}

func (a *attrParser) fail(tok lexeme, format string, args ...any) error {
	return a.p.fail(a.base+tok.offset, format, args...)
}

func (a *attrParser) plain() (Expression, error) {
	key, err := a.path()
	if err != nil {
		return nil, err
	}
	e := AttributeExpr{Key: key}
	if a.done() {
		return e, nil
	}
	if e.Comparator, err = a.comparator(); err != nil {
		return nil, err
	}
	for {
		v, err := a.text()
		if err != nil {
			return nil, err
		}
		e.Values = append(e.Values, v)
		if a.peek().code != commaToken {
			break
		}
		a.pos++
	}
	if e.CaseInsensitive, err = a.flag(); err != nil {
		return nil, err
	}
	return e, nil
}

func (a *attrParser) scoped() (Expression, error) {
	scope, err := a.path()
	if err != nil {
		return nil, err
	}
	if tok := a.peek(); tok.code != colonToken {
		return nil, a.fail(tok, "expected ':' after scope")
	}
	a.pos++

	e := ScopedAttributeExpr{Scope: scope}
	for {
		as, err := a.assertion()
		if err != nil {
			return nil, err
		}
		e.Assertions = append(e.Assertions, as)
		if a.peek().code != andToken {
			break
		}
		a.pos++
	}
	if !a.done() {
		return nil, a.fail(a.peek(), "unexpected %q", a.peek().text)
	}
	return e, nil
}

func (a *attrParser) assertion() (ScopedAssertion, error) {
	var as ScopedAssertion
	var err error
	if as.Left, err = a.scopedValue(); err != nil {
		return as, err
	}
	if as.Comparator, err = a.comparator(); err != nil {
		return as, err
	}
	for {
		v, err := a.scopedValue()
		if err != nil {
			return as, err
		}
		as.Right = append(as.Right, v)
		if a.peek().code != commaToken {
			break
		}
		a.pos++
	}
	if tok := a.peek(); tok.code == bareToken && tok.text == "i" {
		as.CaseInsensitive = true
		a.pos++
	}
	return as, nil
}

func (a *attrParser) scopedValue() (ScopedValue, error) {
	tok := a.peek()
	if tok.code == scopeRefToken {
		a.pos++
		inner := strings.TrimSpace(tok.text[2 : len(tok.text)-1])
		if inner == "" {
			return ScopedValue{IsPath: true}, nil
		}
		sub := &attrParser{p: a.p, base: a.base + tok.offset + 2}
		toks, err := lex(inner, attributeTokens)
		if err != nil {
			return ScopedValue{}, a.fail(tok, "%v", err)
		}
		sub.toks = toks
		path, err := sub.path()
		if err != nil {
			return ScopedValue{}, err
		}
		if !sub.done() {
			return ScopedValue{}, sub.fail(sub.peek(), "unexpected %q", sub.peek().text)
		}
		return ScopedValue{Path: path, IsPath: true}, nil
	}
	lit, err := a.text()
	if err != nil {
		return ScopedValue{}, err
	}
	return ScopedValue{Literal: lit}, nil
}

func (a *attrParser) path() (Path, error) {
	var path Path
	for {
		seg, err := a.text()
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
		if a.peek().code != pipeToken {
			return path, nil
		}
		a.pos++
	}
}

func (a *attrParser) text() (string, error) {
	tok := a.peek()
	switch tok.code {
	case bareToken:
		a.pos++
		return tok.text, nil
	case quotedToken:
		a.pos++
		s, err := unquote(tok.text)
		if err != nil {
			return "", a.fail(tok, "invalid quoted text %s", tok.text)
		}
		return s, nil
	case -1:
		return "", a.fail(tok, "unexpected end of attribute")
	default:
		return "", a.fail(tok, "expected a name or value, got %q", tok.text)
	}
}

func (a *attrParser) comparator() (Comparator, error) {
	tok := a.peek()
	if tok.code != comparatorToken {
		return "", a.fail(tok, "expected a comparator")
	}
	a.pos++
	return Comparator(tok.text), nil
}

func (a *attrParser) flag() (bool, error) {
	if a.done() {
		return false, nil
	}
	tok := a.peek()
	if tok.code == bareToken && tok.text == "i" {
		a.pos++
		if !a.done() {
			return false, a.fail(a.peek(), "unexpected %q", a.peek().text)
		}
		return true, nil
	}
	return false, a.fail(tok, "unexpected %q", tok.text)
}

func unquote(text string) (string, error) {
	if strings.HasPrefix(text, `"`) {
		return strconv.Unquote(text)
	}
	inner := text[1 : len(text)-1]
	r := strings.NewReplacer(`\'`, `'`, `\\`, `\`)
	return r.Replace(inner), nil
}

// splitTopLevel splits function arguments on commas that are not nested
// inside brackets or quotes. Blank parts are dropped.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	out := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}
