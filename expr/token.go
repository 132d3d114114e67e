package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenWord
	tokenLParen
	tokenRParen
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of filter"
	}
	return fmt.Sprintf("%q", t.text)
}

// isWordByte reports bytes that extend an unquoted word. Hyphens bind to
// words so hyphenated field names lex as one token; subtraction therefore
// needs surrounding spaces. Bytes above ASCII pass through so multi-byte
// characters stay inside a word.
func isWordByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c >= 0x80 ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordStart(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

type lexer struct {
	input string
	pos   int
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: start}, nil
	}

	c := l.input[l.pos]
	switch c {
	case '(':
		l.pos++
		return token{tokenLParen, "(", start}, nil
	case ')':
		l.pos++
		return token{tokenRParen, ")", start}, nil
	case '+':
		l.pos++
		return token{tokenPlus, "+", start}, nil
	case '-':
		l.pos++
		return token{tokenMinus, "-", start}, nil
	case '*':
		l.pos++
		return token{tokenStar, "*", start}, nil
	case '/':
		l.pos++
		return token{tokenSlash, "/", start}, nil
	case '%':
		l.pos++
		return token{tokenPercent, "%", start}, nil
	case '=':
		if l.peekAt(1) == '=' {
			l.pos += 2
		} else {
			l.pos++
		}
		return token{tokenEq, "==", start}, nil
	case '!':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{tokenNeq, "!=", start}, nil
		}
		return token{}, fmt.Errorf("unexpected character '!' at position %d (use 'not')", start)
	case '<':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{tokenLte, "<=", start}, nil
		}
		l.pos++
		return token{tokenLt, "<", start}, nil
	case '>':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{tokenGte, ">=", start}, nil
		}
		l.pos++
		return token{tokenGt, ">", start}, nil
	case '"', '\'':
		return l.lexString(c)
	}

	if isWordStart(c) {
		return l.lexWord(), nil
	}
	return token{}, fmt.Errorf("unexpected character %q at position %d", string(c), start)
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) lexWord() token {
	start := l.pos
	for l.pos < len(l.input) && isWordByte(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]
	if isDigit(text[0]) {
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			return token{tokenNumber, text, start}
		}
	}
	return token{tokenWord, text, start}
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '\\':
			if l.pos+1 >= len(l.input) {
				return token{}, fmt.Errorf("unterminated escape at position %d", l.pos)
			}
			next := l.input[l.pos+1]
			switch next {
			case '\\', '\'', '"':
				sb.WriteByte(next)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return token{}, fmt.Errorf("unsupported escape \\%s at position %d", string(next), l.pos)
			}
			l.pos += 2
		case quote:
			l.pos++
			return token{tokenString, sb.String(), start}, nil
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return token{}, fmt.Errorf("unterminated string starting at position %d", start)
}
