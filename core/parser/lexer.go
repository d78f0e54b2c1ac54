package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/span"
)

// sawSpecial records which special filename characters a word contained.
type sawSpecial uint8

const (
	sawPathSeparator sawSpecial = 1 << iota
	sawGlob
)

// lexer walks source one rune at a time. Every node function either returns
// a token and advances, or returns false and leaves the position untouched.
type lexer struct {
	src string
	pos int
}

func (l *lexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, true
}

// take consumes one rune if it matches cond. Invalid UTF-8 is consumed a
// byte at a time as utf8.RuneError.
func (l *lexer) take(cond func(rune) bool) bool {
	if l.pos >= len(l.src) {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if !cond(r) {
		return false
	}
	l.pos += size
	return true
}

// takeWhile consumes runes matching cond and reports how many it took.
func (l *lexer) takeWhile(cond func(rune) bool) int {
	n := 0
	for l.take(cond) {
		n++
	}
	return n
}

// attempt runs fn, restoring the position if fn fails.
func (l *lexer) attempt(fn func() (SpannedToken, bool)) (SpannedToken, bool) {
	start := l.pos
	tok, ok := fn()
	if !ok {
		l.pos = start
	}
	return tok, ok
}

func (l *lexer) node() (SpannedToken, bool) {
	for _, fn := range []func() (SpannedToken, bool){l.str, l.flag, l.filename, l.pattern, l.externalWord} {
		if tok, ok := l.attempt(fn); ok {
			return tok, true
		}
	}
	return SpannedToken{}, false
}

func (l *lexer) str() (SpannedToken, bool) {
	start := l.pos
	quote, ok := l.peek()
	if !ok || (quote != '\'' && quote != '"') {
		return SpannedToken{}, false
	}
	l.pos++

	end := strings.IndexRune(l.src[l.pos:], quote)
	if end < 0 {
		return SpannedToken{}, false
	}
	inner := span.New(l.pos, l.pos+end)
	l.pos = inner.End + 1

	return span.With(StringToken(inner), span.New(start, l.pos)), true
}

func (l *lexer) flag() (SpannedToken, bool) {
	start := l.pos
	if !strings.HasPrefix(l.src[l.pos:], "--") {
		return SpannedToken{}, false
	}
	l.pos += 2

	name, ok := l.filename()
	if !ok {
		return SpannedToken{}, false
	}
	return span.With(FlagToken(name.Span), span.New(start, l.pos)), true
}

func (l *lexer) filename() (SpannedToken, bool) {
	start := l.pos

	special, ok := l.specialFileChar()
	if !ok {
		if l.takeWhile(isDot) == 0 && !l.take(isStartFileChar) {
			return SpannedToken{}, false
		}
	}

	for special == 0 {
		if next, ok := l.specialFileChar(); ok {
			special |= next
			continue
		}
		if l.take(isFileChar) || l.take(isDot) {
			continue
		}

		// The run ended without a path separator or glob. Anything but a
		// delimiter after it means this word isn't a filename.
		if r, ok := l.peek(); ok && (isExternalWordChar(r) || isGlobSpecificChar(r)) {
			return SpannedToken{}, false
		}
		return Spanned(TokenBare, span.New(start, l.pos)), true
	}

	afterStart := l.pos
	l.takeWhile(isAfterSeparatorChar)
	if strings.ContainsAny(l.src[afterStart:l.pos], "*?") {
		special |= sawGlob
	}

	if special&sawGlob != 0 {
		return Spanned(TokenGlobPattern, span.New(start, l.pos)), true
	}
	return Spanned(TokenBare, span.New(start, l.pos)), true
}

func (l *lexer) specialFileChar() (sawSpecial, bool) {
	switch {
	case l.take(isPathSeparator):
		return sawPathSeparator, true
	case l.take(isGlobSpecificChar):
		return sawGlob, true
	default:
		return 0, false
	}
}

func (l *lexer) pattern() (SpannedToken, bool) {
	start := l.pos
	if l.takeWhile(isDot) == 0 && !l.take(isStartGlobChar) {
		return SpannedToken{}, false
	}
	l.takeWhile(isGlobChar)

	if r, ok := l.peek(); ok && r != '.' && (isExternalWordChar(r) || isGlobSpecificChar(r)) {
		return SpannedToken{}, false
	}
	return Spanned(TokenGlobPattern, span.New(start, l.pos)), true
}

func (l *lexer) externalWord() (SpannedToken, bool) {
	start := l.pos
	if l.takeWhile(isExternalWordChar) == 0 {
		return SpannedToken{}, false
	}
	return Spanned(TokenExternalWord, span.New(start, l.pos)), true
}

// space consumes a run of whitespace and separator tokens.
func (l *lexer) space() []SpannedToken {
	var out []SpannedToken
	for {
		start := l.pos
		switch {
		case l.takeWhile(isWhitespace) > 0:
			out = append(out, Spanned(TokenWhitespace, span.New(start, l.pos)))
		case l.take(isSeparator):
			out = append(out, Spanned(TokenSeparator, span.New(start, l.pos)))
		default:
			return out
		}
	}
}

// TokenList lexes as many tokens from source as it can. The returned span
// covers the consumed input, it never ends on whitespace or separators that
// aren't followed by another token.
func TokenList(source string) ([]SpannedToken, span.Span) {
	l := &lexer{src: source}
	var tokens []SpannedToken

	beforeSpace := 0
	spaced := l.space()
	for {
		tok, ok := l.node()
		if !ok {
			l.pos = beforeSpace
			break
		}
		tokens = append(tokens, spaced...)
		tokens = append(tokens, tok)

		// Nodes must be delimited by whitespace or separators.
		beforeSpace = l.pos
		if spaced = l.space(); len(spaced) == 0 {
			break
		}
	}

	return tokens, span.New(0, l.pos)
}

// Tokenize lexes the whole source, failing if anything other than whitespace
// or separators remains after the last token.
func Tokenize(source string) ([]SpannedToken, error) {
	tokens, consumed := TokenList(source)

	offset := consumed.End
	for offset < len(source) {
		r, size := utf8.DecodeRuneInString(source[offset:])
		if !isWhitespace(r) && !isSeparator(r) {
			break
		}
		offset += size
	}
	if offset == len(source) {
		return tokens, nil
	}

	reason := "unexpected character"
	if r, _ := utf8.DecodeRuneInString(source[offset:]); r == '\'' || r == '"' {
		reason = "unterminated string"
	}
	return nil, shellerr.ParseError(span.New(offset, len(source)), reason)
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isSeparator(r rune) bool {
	return r == ';' || r == '\n'
}

func isExternalWordChar(r rune) bool {
	switch r {
	case ';', '|', '"', '\'', '$', '(', ')', '[', ']', '{', '}', '`':
		return false
	}
	return !unicode.IsSpace(r)
}

func isGlobSpecificChar(r rune) bool {
	return r == '*' || r == '?'
}

func isStartGlobChar(r rune) bool {
	return isStartFileChar(r) || isGlobSpecificChar(r) || isDot(r)
}

// isGlobChar doesn't include path separators, a pattern that spans them is
// lexed as a filename.
func isGlobChar(r rune) bool {
	return (isFileChar(r) && !isPathSeparator(r)) || isGlobSpecificChar(r) || isDot(r)
}

func isDot(r rune) bool {
	return r == '.'
}

func isPathSeparator(r rune) bool {
	return r == '\\' || r == '/' || r == ':'
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isStartFileChar(r rune) bool {
	switch r {
	case '\\', '/', '_', '-', '~', '.':
		return true
	}
	return isAlphanumeric(r)
}

func isFileChar(r rune) bool {
	switch r {
	case '+', '\\', '/', '_', '-', '=', '~', ':', '?':
		return true
	}
	return isAlphanumeric(r)
}

func isAfterSeparatorChar(r rune) bool {
	return isExternalWordChar(r) || isFileChar(r) || isDot(r)
}
