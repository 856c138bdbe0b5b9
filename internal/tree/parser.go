package tree

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed definition text with the offending line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Msg)
}

func syntaxErr(line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokOpen
	tokClose
	tokEquals
)

type token struct {
	kind       tokenKind
	text       string
	line       int
	start, end int // byte offsets into the raw line
}

// Parse reads definition text and returns the top-level nodes in declaration
// order. Order matters for repeated blocks of the same name; it is
// irrelevant for scalar keys. Comments (`//` to end of line) are stripped
// before tokenizing.
func Parse(input string) ([]*Node, error) {
	lines := strings.Split(input, "\n")
	var tokens []token
	for i, raw := range lines {
		if idx := strings.Index(raw, "//"); idx >= 0 {
			raw = raw[:idx]
		}
		tokens = append(tokens, scanLine(raw, i+1)...)
		lines[i] = raw
	}

	root := NewBlock("")
	stack := []*Node{root}
	openLines := []int{0}

	i := 0
	for i < len(tokens) {
		t := tokens[i]
		top := stack[len(stack)-1]

		switch t.kind {
		case tokClose:
			if len(stack) == 1 {
				return nil, syntaxErr(t.line, "unmatched '}'")
			}
			stack = stack[:len(stack)-1]
			openLines = openLines[:len(openLines)-1]
			i++

		case tokOpen:
			return nil, syntaxErr(t.line, "block opened without a name")

		case tokEquals:
			return nil, syntaxErr(t.line, "value before any key")

		case tokWord:
			// `word =` on one line is an assignment; otherwise the word
			// names a block and the next token must open it.
			if i+1 < len(tokens) && tokens[i+1].kind == tokEquals && tokens[i+1].line == t.line {
				value, next := collectValue(tokens, i+2, t.line, lines[t.line-1])
				node := NewScalar(t.text, value)
				node.Line = t.line
				top.Append(node)
				i = next
				continue
			}
			if i+1 >= len(tokens) || tokens[i+1].kind != tokOpen {
				return nil, syntaxErr(t.line, "expected '{' after block name %q", t.text)
			}
			block := NewBlock(t.text)
			block.Line = t.line
			top.Append(block)
			stack = append(stack, block)
			openLines = append(openLines, t.line)
			i += 2
		}
	}

	if len(stack) > 1 {
		return nil, syntaxErr(openLines[len(openLines)-1], "unterminated block %q", stack[len(stack)-1].Name)
	}
	return root.Children, nil
}

// ParseOne parses text expected to contain exactly one top-level block.
func ParseOne(input string) (*Node, error) {
	nodes, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, syntaxErr(1, "expected exactly one top-level block, found %d", len(nodes))
	}
	return nodes[0], nil
}

// collectValue gathers the scalar value that follows an '=' token. The value
// runs to the end of the line, terminated early by a brace, by the start of
// another assignment (`word =` lookahead) or by the start of a nested block
// (`word {` lookahead). The original spacing inside the value is preserved
// by slicing the raw line.
func collectValue(tokens []token, i, line int, raw string) (string, int) {
	start, end := -1, -1
	for i < len(tokens) {
		t := tokens[i]
		if t.line != line || t.kind == tokOpen || t.kind == tokClose {
			break
		}
		if t.kind == tokWord && i+1 < len(tokens) && tokens[i+1].line == line &&
			(tokens[i+1].kind == tokEquals || tokens[i+1].kind == tokOpen) {
			break
		}
		if start < 0 {
			start = t.start
		}
		end = t.end
		i++
	}
	if start < 0 {
		return "", i
	}
	return strings.TrimSpace(raw[start:end]), i
}

// scanLine splits one line into word, brace and equals tokens, recording
// byte offsets so values can be recovered with their internal spacing.
func scanLine(raw string, line int) []token {
	var toks []token
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '{':
			toks = append(toks, token{tokOpen, "{", line, i, i + 1})
			i++
		case c == '}':
			toks = append(toks, token{tokClose, "}", line, i, i + 1})
			i++
		case c == '=':
			toks = append(toks, token{tokEquals, "=", line, i, i + 1})
			i++
		default:
			start := i
			for i < len(raw) && !strings.ContainsRune(" \t\r{}=", rune(raw[i])) {
				i++
			}
			toks = append(toks, token{tokWord, raw[start:i], line, start, i})
		}
	}
	return toks
}
