package parser

import (
	"encoding/json"
	"fmt"

	"github.com/josephlewis42/queenshell/core/span"
)

// TokenKind is the lexical category of a token.
type TokenKind int

const (
	// TokenString is a quoted string, its inner span excludes the quotes.
	TokenString TokenKind = iota
	// TokenBare is a filename-shaped word.
	TokenBare
	// TokenFlag is --name, its inner span covers name.
	TokenFlag
	// TokenWhitespace is a run of spaces or tabs.
	TokenWhitespace
	// TokenSeparator is ; or a newline.
	TokenSeparator
	// TokenGlobPattern is a word containing * or ?.
	TokenGlobPattern
	// TokenExternalWord is any other run of non-special characters.
	TokenExternalWord
)

var tokenKindNames = []string{
	TokenString:       "string",
	TokenBare:         "bare",
	TokenFlag:         "flag",
	TokenWhitespace:   "whitespace",
	TokenSeparator:    "separator",
	TokenGlobPattern:  "glob pattern",
	TokenExternalWord: "external word",
}

// Desc returns a human readable name for the kind.
func (k TokenKind) Desc() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

func (k TokenKind) String() string {
	return k.Desc()
}

// MarshalText implements encoding.TextMarshaler.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.Desc()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TokenKind) UnmarshalText(text []byte) error {
	for i, name := range tokenKindNames {
		if name == string(text) {
			*k = TokenKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown token kind: %q", string(text))
}

// Token is a lexical unit. Inner is only meaningful for strings and flags.
type Token struct {
	Kind  TokenKind
	Inner span.Span
}

// HasInner is true for token kinds that carry an inner span.
func (t Token) HasInner() bool {
	return t.Kind == TokenString || t.Kind == TokenFlag
}

// StringToken creates a string token with the given content span.
func StringToken(inner span.Span) Token {
	return Token{Kind: TokenString, Inner: inner}
}

// FlagToken creates a flag token with the given name span.
func FlagToken(name span.Span) Token {
	return Token{Kind: TokenFlag, Inner: name}
}

// SpannedToken is a token and the full span it covers, including delimiters.
type SpannedToken = span.Spanned[Token]

// Spanned creates a SpannedToken.
func Spanned(kind TokenKind, s span.Span) SpannedToken {
	return span.With(Token{Kind: kind}, s)
}

// Literal returns the full source text of the token.
func Literal(tok SpannedToken, source string) string {
	return tok.Span.Slice(source)
}

// Content returns the token's text with string quotes removed. Flags keep
// their leading dashes.
func Content(tok SpannedToken, source string) string {
	if tok.Item.Kind == TokenString {
		return tok.Item.Inner.Slice(source)
	}
	return tok.Span.Slice(source)
}

// IsSpace is true for whitespace and separators.
func IsSpace(tok SpannedToken) bool {
	return tok.Item.Kind == TokenWhitespace || tok.Item.Kind == TokenSeparator
}

type jsonToken struct {
	Kind  TokenKind  `json:"kind"`
	Inner *span.Span `json:"inner,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Token) MarshalJSON() ([]byte, error) {
	out := jsonToken{Kind: t.Kind}
	if t.HasInner() {
		inner := t.Inner
		out.Inner = &inner
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Token) UnmarshalJSON(data []byte) error {
	var in jsonToken
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = Token{Kind: in.Kind}
	if in.Inner != nil {
		t.Inner = *in.Inner
	}
	return nil
}
