package template

import (
	"strings"
	"unicode/utf8"
)

// TokenKind identifies a template token.
type TokenKind int

const (
	Literal TokenKind = iota
	ArgOne
	ArgTwo
	User
	Year
	ScriptStart
	ScriptEnd
	// ScriptEndAndExtra is "}}}": a script end with one more brace.
	ScriptEndAndExtra
)

func (k TokenKind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case ArgOne:
		return "ArgOne"
	case ArgTwo:
		return "ArgTwo"
	case User:
		return "User"
	case Year:
		return "Year"
	case ScriptStart:
		return "ScriptStart"
	case ScriptEnd:
		return "ScriptEnd"
	case ScriptEndAndExtra:
		return "ScriptEndAndExtra"
	default:
		return "Unknown"
	}
}

// Token is one lexed span of a template. Text is the exact source slice.
type Token struct {
	Kind TokenKind
	Text string
	// Invalid is set on literal spans that are not valid UTF-8.
	Invalid bool
}

// longer markers come first so "}}}" wins over "}}"
var markers = []struct {
	text string
	kind TokenKind
}{
	{"}}}", ScriptEndAndExtra},
	{"}}", ScriptEnd},
	{"{{", ScriptStart},
	{"$user", User},
	{"$year", Year},
	{"$1", ArgOne},
	{"$2", ArgTwo},
}

// Lex splits src into tokens. Consecutive literal characters are merged into
// a single Literal token. Lexing never fails; bytes that are not valid UTF-8
// become Literal tokens with Invalid set.
func Lex(src string) []Token {
	var toks []Token
	litStart := -1
	flush := func(end int) {
		if litStart >= 0 {
			toks = append(toks, Token{Kind: Literal, Text: src[litStart:end]})
			litStart = -1
		}
	}
	i := 0
	for i < len(src) {
		if kind, n, ok := matchMarker(src[i:]); ok {
			flush(i)
			toks = append(toks, Token{Kind: kind, Text: src[i : i+n]})
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == utf8.RuneError && size == 1 {
			flush(i)
			toks = append(toks, Token{Kind: Literal, Text: src[i : i+1], Invalid: true})
			i++
			continue
		}
		if litStart < 0 {
			litStart = i
		}
		i += size
	}
	flush(len(src))
	return toks
}

func matchMarker(s string) (TokenKind, int, bool) {
	if s[0] != '}' && s[0] != '{' && s[0] != '$' {
		return Literal, 0, false
	}
	for _, m := range markers {
		if strings.HasPrefix(s, m.text) {
			return m.kind, len(m.text), true
		}
	}
	return Literal, 0, false
}
