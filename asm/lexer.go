package asm

import (
	"regexp"
	"strings"
)

type tokenKind int

const (
	tokenEOF = tokenKind(iota)
	tokenPunct
	tokenNumber
	tokenWord
)

type token struct {
	kind   tokenKind
	text   string // For numbers, the digits only.
	suffix string // Type suffix of a number.
}

var (
	numberPattern = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|[0-9]+(?:\.[0-9]*)?(?:[eE][+-]?[0-9]+)?)([A-Za-z]*)`)
	wordPattern   = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*`)
)

const punctuation = "()<>[]{},+-:;="

// stripComments removes // and /* */ comments from a line. A block
// comment left open continues on the next line.
func stripComments(line string, inComment *bool) string {
	var out strings.Builder
	for len(line) > 0 {
		if *inComment {
			end := strings.Index(line, "*/")
			if end < 0 {
				return out.String()
			}
			line = line[end+2:]
			*inComment = false
			out.WriteByte(' ')
			continue
		}
		start := strings.Index(line, "/*")
		slash := strings.Index(line, "//")
		if slash >= 0 && (start < 0 || slash < start) {
			out.WriteString(line[:slash])
			return out.String()
		}
		if start < 0 {
			out.WriteString(line)
			return out.String()
		}
		out.WriteString(line[:start])
		line = line[start+2:]
		*inComment = true
	}
	return out.String()
}

// lex splits a line into tokens.
func lex(line string) (tokens []token, err error) {
	for {
		line = strings.TrimLeft(line, " \t\r\n")
		if len(line) == 0 {
			return
		}

		if m := numberPattern.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token{kind: tokenNumber, text: m[1], suffix: m[2]})
			line = line[len(m[0]):]
			continue
		}

		if m := wordPattern.FindString(line); len(m) > 0 {
			tokens = append(tokens, token{kind: tokenWord, text: m})
			line = line[len(m):]
			continue
		}

		if strings.IndexByte(punctuation, line[0]) >= 0 {
			tokens = append(tokens, token{kind: tokenPunct, text: line[:1]})
			line = line[1:]
			continue
		}

		err = ErrToken(line[:1])
		return
	}
}

// tokenStream walks the tokens of one statement.
type tokenStream struct {
	tokens []token
	pos    int
}

func (ts *tokenStream) peek() token {
	if ts.pos >= len(ts.tokens) {
		return token{kind: tokenEOF}
	}
	return ts.tokens[ts.pos]
}

// peekAt looks ahead n tokens.
func (ts *tokenStream) peekAt(n int) token {
	if ts.pos+n >= len(ts.tokens) {
		return token{kind: tokenEOF}
	}
	return ts.tokens[ts.pos+n]
}

func (ts *tokenStream) next() token {
	tok := ts.peek()
	if tok.kind != tokenEOF {
		ts.pos++
	}
	return tok
}

func (ts *tokenStream) done() bool {
	return ts.pos >= len(ts.tokens)
}

// is checks for a punctuation mark.
func (ts *tokenStream) is(punct string) bool {
	tok := ts.peek()
	return tok.kind == tokenPunct && tok.text == punct
}

// accept consumes a punctuation mark if it is next.
func (ts *tokenStream) accept(punct string) bool {
	if ts.is(punct) {
		ts.pos++
		return true
	}
	return false
}

// acceptWord consumes a word if it is next, ignoring case.
func (ts *tokenStream) acceptWord(word string) bool {
	tok := ts.peek()
	if tok.kind == tokenWord && strings.EqualFold(tok.text, word) {
		ts.pos++
		return true
	}
	return false
}

func (ts *tokenStream) expect(punct string) error {
	if !ts.accept(punct) {
		return ts.unexpected()
	}
	return nil
}

func (ts *tokenStream) unexpected() error {
	tok := ts.peek()
	switch tok.kind {
	case tokenEOF:
		return ErrSemicolonMissing
	case tokenNumber:
		return ErrToken(tok.text + tok.suffix)
	}
	return ErrToken(tok.text)
}
