// Package template renders command responses. A response is literal text
// with substitutions ($1, $2, $user, $year) and script blocks between {{ and
// }} that are evaluated through a ScriptRunner.
package template

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// YearPlaceholder is what $year renders as.
const YearPlaceholder = "YEAR"

// ScriptRunner evaluates one script block and returns the text to splice
// into the response, including any rendered failure.
type ScriptRunner interface {
	RunScript(ctx context.Context, src string) string
}

// Input is the per-message data a template can reference.
type Input struct {
	// Args is the message text after the trigger and its separating space.
	Args string
	// User is the sender's display name.
	User string
}

// Renderer renders templates. Scripts may be nil when no template contains a
// script block.
type Renderer struct {
	Scripts ScriptRunner
	Logger  *zap.Logger
}

// Render renders tmpl for in. It never fails: script problems are rendered
// inline, and an unterminated script block is emitted verbatim.
func (r *Renderer) Render(ctx context.Context, tmpl string, in Input) string {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	args := newArgs(in.Args)
	var response, script strings.Builder
	acc := &response
	inScript := false

	for _, tok := range Lex(tmpl) {
		switch tok.Kind {
		case ArgOne:
			acc.WriteString(args.nth(0))
		case ArgTwo:
			acc.WriteString(args.nth(1))
		case User:
			acc.WriteString(in.User)
		case Year:
			acc.WriteString(YearPlaceholder)
		case ScriptStart:
			if inScript {
				acc.WriteString(tok.Text)
				continue
			}
			script.Reset()
			acc = &script
			inScript = true
		case ScriptEnd, ScriptEndAndExtra:
			if !inScript {
				acc.WriteString(tok.Text)
				continue
			}
			src := script.String()
			extra := tok.Kind == ScriptEndAndExtra
			// "}}}" closes a block inside the script when the script has one
			// open; otherwise the extra brace is literal output.
			if extra && openBraces(src) > 0 {
				src += "}"
				extra = false
			}
			response.WriteString(r.run(ctx, src))
			if extra {
				response.WriteString("}")
			}
			acc = &response
			inScript = false
		default:
			if tok.Invalid {
				logger.Debug("unrecognized template span", zap.ByteString("span", []byte(tok.Text)))
			}
			acc.WriteString(tok.Text)
		}
	}
	if inScript {
		response.WriteString(script.String())
	}
	return response.String()
}

func (r *Renderer) run(ctx context.Context, src string) string {
	if r.Scripts == nil {
		return "Script Error: no script runner"
	}
	return r.Scripts.RunScript(ctx, src)
}

// HasScript reports whether tmpl contains a script block opener.
func HasScript(tmpl string) bool {
	for _, tok := range Lex(tmpl) {
		if tok.Kind == ScriptStart {
			return true
		}
	}
	return false
}

// openBraces counts unmatched '{' in src, ignoring string literals.
func openBraces(src string) int {
	depth := 0
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return depth
}

// args hands out whitespace-separated message arguments. Like a consumed
// iterator, each lookup advances past what it returned: nth(1) skips one
// argument and returns the next.
type args struct {
	parts []string
	pos   int
}

func newArgs(s string) *args {
	return &args{parts: strings.Split(s, " ")}
}

func (a *args) nth(n int) string {
	idx := a.pos + n
	if idx >= len(a.parts) {
		a.pos = len(a.parts)
		return ""
	}
	a.pos = idx + 1
	return a.parts[idx]
}
