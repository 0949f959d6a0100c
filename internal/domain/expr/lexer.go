package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenIdent
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenComma
	tokenDot
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.src[l.pos]

	switch {
	case isDigit(ch) || ch == '.' && isDigit(peekAt(l.src, l.pos+1)):
		end := l.pos
		seenDot := false
		for end < len(l.src) {
			c := l.src[end]
			if isDigit(c) {
				end++
				continue
			}
			if c == '.' && !seenDot {
				seenDot = true
				end++
				continue
			}
			break
		}
		text := l.src[start:end]
		num, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, fmt.Errorf("invalid number %q at position %d", text, start)
		}
		l.pos = end
		return token{kind: tokenNumber, text: text, num: num, pos: start}, nil

	case ch == '\'' || ch == '"':
		quote := ch
		end := l.pos + 1
		var sb strings.Builder
		for end < len(l.src) && l.src[end] != quote {
			sb.WriteByte(l.src[end])
			end++
		}
		if end >= len(l.src) {
			return token{}, fmt.Errorf("unterminated string at position %d", start)
		}
		l.pos = end + 1
		return token{kind: tokenString, text: sb.String(), pos: start}, nil

	case isIdentStart(ch):
		end := l.pos
		for end < len(l.src) && isIdentPart(l.src[end]) {
			end++
		}
		l.pos = end
		return token{kind: tokenIdent, text: l.src[start:end], pos: start}, nil

	case ch == '(':
		l.pos++
		return token{kind: tokenLeftParen, text: "(", pos: start}, nil
	case ch == ')':
		l.pos++
		return token{kind: tokenRightParen, text: ")", pos: start}, nil
	case ch == ',':
		l.pos++
		return token{kind: tokenComma, text: ",", pos: start}, nil
	case ch == '.':
		l.pos++
		return token{kind: tokenDot, text: ".", pos: start}, nil
	}

	for _, op := range []string{"<=", ">=", "==", "!=", "<", ">", "+", "-", "*", "/"} {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			return token{kind: tokenOperator, text: op, pos: start}, nil
		}
	}

	return token{}, fmt.Errorf("unexpected character %q at position %d", string(ch), start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func peekAt(s string, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
