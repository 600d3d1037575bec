package command

import (
	"errors"
	"fmt"
	"strings"
	"text/scanner"
)

var ErrBadSyntax = errors.New("bad syntax")

// Lexer splits a command line into keywords, identifiers, numbers and quoted
// strings. Keywords match case-insensitively; identifiers keep their case
// since field names are case-sensitive.
type Lexer struct {
	keywords map[string]bool
	scanner  scanner.Scanner
	token    rune
	tokenVal string
}

func NewLexer(input string) *Lexer {
	keywords := map[string]bool{}
	for _, k := range []string{
		"sync", "find", "get", "next", "prev", "first", "last", "goto",
		"filter", "range", "order", "asc", "desc", "reset", "clear", "set",
		"insert", "modify", "delete", "deleteall", "modifyall", "append",
		"show", "list", "help", "quit", "exit",
	} {
		keywords[k] = true
	}

	l := &Lexer{
		keywords: keywords,
	}

	l.scanner.Init(strings.NewReader(input))
	l.scanner.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	l.scanner.Whitespace = 1<<'\t' | 1<<'\n' | 1<<'\r' | 1<<' '
	l.scanner.Error = func(*scanner.Scanner, string) {}

	l.nextToken()
	return l
}

// nextToken advances to the next token. Single quoted strings are read by
// hand, the scanner only knows double quotes.
func (l *Lexer) nextToken() {
	l.token = l.scanner.Scan()
	l.tokenVal = l.scanner.TokenText()

	if l.token == '\'' {
		var sb strings.Builder
		for {
			ch := l.scanner.Next()
			if ch == scanner.EOF {
				break
			}
			if ch == '\'' {
				// '' is an escaped quote
				if l.scanner.Peek() == '\'' {
					sb.WriteRune('\'')
					l.scanner.Next()
				} else {
					break
				}
			} else {
				sb.WriteRune(ch)
			}
		}
		l.tokenVal = sb.String()
	}
}

// MatchEOF checks if the whole input has been consumed.
func (l *Lexer) MatchEOF() bool {
	return l.token == scanner.EOF
}

func (l *Lexer) MatchDelim(d rune) bool {
	return l.token == d
}

func (l *Lexer) MatchIntConstant() bool {
	return l.token == scanner.Int
}

func (l *Lexer) MatchFloatConstant() bool {
	return l.token == scanner.Float
}

// MatchStringConstant checks if the current token is a single or double
// quoted string.
func (l *Lexer) MatchStringConstant() bool {
	return l.token == '\'' || l.token == scanner.String
}

func (l *Lexer) MatchKeyword(w string) bool {
	return l.token == scanner.Ident && strings.EqualFold(l.tokenVal, w)
}

// MatchId checks if the current token is an identifier that is not a keyword.
func (l *Lexer) MatchId() bool {
	return l.token == scanner.Ident && !l.keywords[strings.ToLower(l.tokenVal)]
}

// MatchIdent checks if the current token is any identifier, keywords
// included.
func (l *Lexer) MatchIdent() bool {
	return l.token == scanner.Ident
}

func (l *Lexer) EatDelim(d rune) error {
	if !l.MatchDelim(d) {
		return fmt.Errorf("%w: expected %q, got %q", ErrBadSyntax, d, l.tokenVal)
	}
	l.nextToken()
	return nil
}

func (l *Lexer) EatIntConstant() (int, error) {
	if !l.MatchIntConstant() {
		return 0, fmt.Errorf("%w: expected a number, got %q", ErrBadSyntax, l.tokenVal)
	}

	var i int
	if _, err := fmt.Sscanf(l.tokenVal, "%d", &i); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadSyntax, l.tokenVal)
	}

	l.nextToken()
	return i, nil
}

// EatStringConstant returns the unquoted value of a string token.
func (l *Lexer) EatStringConstant() (string, error) {
	if !l.MatchStringConstant() {
		return "", fmt.Errorf("%w: expected a quoted string, got %q", ErrBadSyntax, l.tokenVal)
	}

	s := l.tokenVal
	if l.token == scanner.String && len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	l.nextToken()
	return s, nil
}

func (l *Lexer) EatKeyword(w string) error {
	if !l.MatchKeyword(w) {
		return fmt.Errorf("%w: expected %s, got %q", ErrBadSyntax, w, l.tokenVal)
	}
	l.nextToken()
	return nil
}

func (l *Lexer) EatId() (string, error) {
	if !l.MatchId() {
		return "", fmt.Errorf("%w: expected a field name, got %q", ErrBadSyntax, l.tokenVal)
	}
	s := l.tokenVal
	l.nextToken()
	return s, nil
}
