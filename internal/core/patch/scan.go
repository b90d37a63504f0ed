// Package patch edits keyed array regions inside PHP configuration source.
//
// Documents are scanned into tokens with matched delimiters, so an edit can
// target the exact region a key introduces. Every byte outside the edited
// span is written back untouched.
package patch

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokString tokenKind = iota
	tokVariable
	tokIdent
	tokArrow    // =>
	tokObjectOp // -> and ?->
	tokScope    // ::
	tokOpen
	tokClose
	tokComma
	tokSemicolon
	tokAssign
	tokOther
)

type token struct {
	kind  tokenKind
	start int
	end   int
	text  string
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '\\' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// scan splits src into tokens. Whitespace and comments are dropped.
func scan(src string) ([]token, error) {
	var toks []token
	emit := func(kind tokenKind, start, end int) {
		toks = append(toks, token{kind: kind, start: start, end: end, text: src[start:end]})
	}

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			i++

		case c == '#' && i+1 < len(src) && src[i+1] == '[':
			// PHP 8 attribute; the bracket is matched like any other.
			emit(tokOther, i, i+1)
			i++

		case c == '#' || (c == '/' && i+1 < len(src) && src[i+1] == '/'):
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated comment at offset %d", ErrMalformed, i)
			}
			i += end + 4

		case c == '\'' || c == '"' || c == '`':
			end, err := scanQuoted(src, i)
			if err != nil {
				return nil, err
			}
			emit(tokString, i, end)
			i = end

		case c == '<' && strings.HasPrefix(src[i:], "<<<"):
			end, err := scanHeredoc(src, i)
			if err != nil {
				return nil, err
			}
			emit(tokString, i, end)
			i = end

		case c == '$' && i+1 < len(src) && isIdentByte(src[i+1]):
			j := i + 1
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			emit(tokVariable, i, j)
			i = j

		case isIdentByte(c):
			j := i
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			emit(tokIdent, i, j)
			i = j

		case strings.HasPrefix(src[i:], "=>"):
			emit(tokArrow, i, i+2)
			i += 2
		case strings.HasPrefix(src[i:], "?->"):
			emit(tokObjectOp, i, i+3)
			i += 3
		case strings.HasPrefix(src[i:], "->"):
			emit(tokObjectOp, i, i+2)
			i += 2
		case strings.HasPrefix(src[i:], "::"):
			emit(tokScope, i, i+2)
			i += 2
		case strings.HasPrefix(src[i:], "=="), strings.HasPrefix(src[i:], "!="):
			emit(tokOther, i, i+2)
			i += 2

		case c == '(' || c == '[' || c == '{':
			emit(tokOpen, i, i+1)
			i++
		case c == ')' || c == ']' || c == '}':
			emit(tokClose, i, i+1)
			i++
		case c == ',':
			emit(tokComma, i, i+1)
			i++
		case c == ';':
			emit(tokSemicolon, i, i+1)
			i++
		case c == '=':
			emit(tokAssign, i, i+1)
			i++
		default:
			emit(tokOther, i, i+1)
			i++
		}
	}
	return toks, nil
}

// scanQuoted returns the offset just past the closing quote of the string
// literal starting at start.
func scanQuoted(src string, start int) (int, error) {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: unterminated string at offset %d", ErrMalformed, start)
}

// scanHeredoc handles <<<ID, <<<"ID" and <<<'ID' bodies.
func scanHeredoc(src string, start int) (int, error) {
	i := start + 3
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	quoted := i < len(src) && (src[i] == '\'' || src[i] == '"')
	if quoted {
		i++
	}
	j := i
	for j < len(src) && isIdentByte(src[j]) {
		j++
	}
	label := src[i:j]
	if label == "" {
		// Not a heredoc after all; let the shift operator through.
		return start + 3, nil
	}
	if quoted {
		j++
	}
	nl := strings.IndexByte(src[j:], '\n')
	if nl < 0 {
		return 0, fmt.Errorf("%w: unterminated heredoc at offset %d", ErrMalformed, start)
	}
	pos := j + nl + 1
	for pos <= len(src) {
		lineEnd := strings.IndexByte(src[pos:], '\n')
		line := src[pos:]
		if lineEnd >= 0 {
			line = src[pos : pos+lineEnd]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, label) {
			rest := trimmed[len(label):]
			if rest == "" || !isIdentByte(rest[0]) {
				return pos + (len(line) - len(trimmed)) + len(label), nil
			}
		}
		if lineEnd < 0 {
			break
		}
		pos += lineEnd + 1
	}
	return 0, fmt.Errorf("%w: unterminated heredoc %q", ErrMalformed, label)
}

// unquote returns the value of a single- or double-quoted literal. Escapes
// are resolved for the quote character and backslash only, which covers keys.
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	quote := lit[0]
	if quote != '\'' && quote != '"' {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == quote || body[i+1] == '\\') {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

// quoteKey renders key as a single-quoted PHP literal.
func quoteKey(key string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(key) + "'"
}
