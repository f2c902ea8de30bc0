package selector

import (
	"bytes"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken int = iota
	shapeTypeToken
	attributeToken
	groupToken
	functionToken
	variableDefToken
	variableRefToken
	forwardToken
	reverseToken
	recursiveToken
	forwardRelToken
	reverseRelToken

	quotedToken
	bareToken
	pipeToken
	commaToken
	colonToken
	andToken
	scopeRefToken
	atToken
	comparatorToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())

var shapeTypeMatcher = parsly.NewToken(shapeTypeToken, "ShapeType", &wordMatcher{})
var attributeMatcher = parsly.NewToken(attributeToken, "Attribute", &groupMatcher{open: '[', close: ']'})
var groupMatcherToken = parsly.NewToken(groupToken, "Group", &groupMatcher{open: '(', close: ')'})
var functionMatcher = parsly.NewToken(functionToken, "Function", &nameMatcher{prefix: ':'})
var variableDefMatcher = parsly.NewToken(variableDefToken, "VariableDefinition", &nameMatcher{prefix: '$'})
var variableRefMatcher = parsly.NewToken(variableRefToken, "VariableReference", &delimitedMatcher{open: []byte("${"), close: []byte("}")})
var forwardMatcher = parsly.NewToken(forwardToken, "Forward", matcher.NewByte('>'))
var reverseMatcher = parsly.NewToken(reverseToken, "Reverse", matcher.NewByte('<'))
var recursiveMatcher = parsly.NewToken(recursiveToken, "Recursive", matcher.NewFragment("~>"))
var forwardRelMatcher = parsly.NewToken(forwardRelToken, "ForwardRelationships", &delimitedMatcher{open: []byte("-["), close: []byte("]->")})
var reverseRelMatcher = parsly.NewToken(reverseRelToken, "ReverseRelationships", &delimitedMatcher{open: []byte("<-["), close: []byte("]-")})

var quotedMatcher = parsly.NewToken(quotedToken, "Quoted", &quoteMatcher{})
var bareMatcher = parsly.NewToken(bareToken, "Bare", &bareWordMatcher{})
var pipeMatcher = parsly.NewToken(pipeToken, "Pipe", matcher.NewByte('|'))
var commaMatcher = parsly.NewToken(commaToken, "Comma", matcher.NewByte(','))
var colonMatcher = parsly.NewToken(colonToken, "Colon", matcher.NewByte(':'))
var andMatcher = parsly.NewToken(andToken, "And", matcher.NewFragment("&&"))
var scopeRefMatcher = parsly.NewToken(scopeRefToken, "ScopeReference", &delimitedMatcher{open: []byte("@{"), close: []byte("}")})
var atMatcher = parsly.NewToken(atToken, "At", matcher.NewByte('@'))
var comparatorMatcher = parsly.NewToken(comparatorToken, "Comparator", matcher.NewFragments(comparatorFragments()...))

// selectorTokens are tried in order; longer operators come before their prefixes.
var selectorTokens = []*parsly.Token{
	reverseRelMatcher, forwardRelMatcher, recursiveMatcher, forwardMatcher, reverseMatcher,
	attributeMatcher, functionMatcher, groupMatcherToken, variableRefMatcher, variableDefMatcher,
	shapeTypeMatcher,
}

var attributeTokens = []*parsly.Token{
	quotedMatcher, scopeRefMatcher, atMatcher, andMatcher, comparatorMatcher,
	pipeMatcher, commaMatcher, colonMatcher, bareMatcher,
}

func comparatorFragments() [][]byte {
	out := make([][]byte, len(Comparators))
	for i, c := range Comparators {
		out[i] = []byte(c)
	}
	return out
}

type lexeme struct {
	code   int
	text   string
	offset int
}

// lex splits text into lexemes using the given tokens, skipping whitespace.
func lex(text string, tokens []*parsly.Token) ([]lexeme, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	var out []lexeme
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAfterOptional(whitespaceMatcher, tokens...)
		switch matched.Code {
		case parsly.EOF:
			return out, nil
		case parsly.Invalid:
			return nil, &ParseError{Text: text, Offset: cursor.Pos, Message: cursor.NewError(tokens...).Error()}
		}
		value := matched.Text(cursor)
		out = append(out, lexeme{code: matched.Code, text: value, offset: cursor.Pos - len(value)})
	}
	return out, nil
}

// groupMatcher matches a bracketed block, honouring nesting and quoted text.
type groupMatcher struct {
	open, close byte
}

func (m *groupMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if len(input) == 0 || input[0] != m.open {
		return 0
	}
	depth := 0
	var quote byte
	for i := 0; i < len(input); i++ {
		ch := input[i]
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
		case m.open:
			depth++
		case m.close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}

// delimitedMatcher matches open ... close without nesting.
type delimitedMatcher struct {
	open, close []byte
}

func (m *delimitedMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if !bytes.HasPrefix(input, m.open) {
		return 0
	}
	end := bytes.Index(input[len(m.open):], m.close)
	if end < 0 {
		return 0
	}
	return len(m.open) + end + len(m.close)
}

// nameMatcher matches a prefix byte followed by an identifier, e.g. :not or $var.
type nameMatcher struct {
	prefix byte
}

func (m *nameMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if len(input) < 2 || input[0] != m.prefix || !isIdentStart(input[1]) {
		return 0
	}
	i := 2
	for i < len(input) && isIdentByte(input[i]) {
		i++
	}
	return i
}

// wordMatcher matches '*' or a shape type keyword.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if len(input) == 0 {
		return 0
	}
	if input[0] == '*' {
		return 1
	}
	if !isIdentStart(input[0]) {
		return 0
	}
	i := 1
	for i < len(input) && isIdentByte(input[i]) {
		i++
	}
	return i
}

// quoteMatcher matches single- or double-quoted text with backslash escapes.
type quoteMatcher struct{}

func (m *quoteMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if len(input) == 0 || (input[0] != '"' && input[0] != '\'') {
		return 0
	}
	q := input[0]
	for i := 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case q:
			return i + 1
		}
	}
	return 0
}

// bareWordMatcher matches an unquoted attribute path segment or value.
type bareWordMatcher struct{}

func (m *bareWordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	i := 0
	for i < len(input) && isBareByte(input[i]) {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isBareByte(c byte) bool {
	switch c {
	case '.', '#', '-', '+', '(', ')':
		return true
	}
	return isIdentByte(c)
}
