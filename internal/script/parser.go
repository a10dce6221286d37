package script

import (
	"fmt"
	"strconv"
)

// SyntaxError reports a script that could not be parsed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax error: %s (position %d)", e.Msg, e.Pos)
}

type parser struct {
	toks []token
	i    int
}

// parse turns src into the top-level block of a program.
func parse(src string) (*blockNode, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	block, err := p.statements(tokEOF, "")
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) isKeyword(s string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == s
}

func (p *parser) accept(s string) bool {
	if p.isPunct(s) {
		p.i++
		return true
	}
	return false
}

func (p *parser) expect(s string) (token, error) {
	t := p.peek()
	if t.kind != tokPunct || t.text != s {
		return t, p.errorf(t, "expected '%s' but found %s", s, t)
	}
	p.i++
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

// statements parses until the closing token: EOF for a program, "}" for a
// block. The closing "}" is not consumed.
func (p *parser) statements(endKind tokenKind, endPunct string) (*blockNode, error) {
	block := &blockNode{pos: p.peek().pos}
	atEnd := func() bool {
		if endKind == tokEOF {
			return p.peek().kind == tokEOF
		}
		return p.isPunct(endPunct)
	}
	for !atEnd() {
		if p.accept(";") {
			continue
		}
		if p.peek().kind == tokEOF {
			return nil, p.errorf(p.peek(), "expected '%s' but found %s", endPunct, p.peek())
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		switch {
		case p.accept(";"):
			block.stmts = append(block.stmts, st)
		case atEnd():
			block.tail = st
		case endsWithBlock(st):
			block.stmts = append(block.stmts, st)
		default:
			return nil, p.errorf(p.peek(), "expected ';' but found %s", p.peek())
		}
	}
	return block, nil
}

func (p *parser) statement() (node, error) {
	if p.isKeyword("let") {
		t := p.next()
		name := p.next()
		if name.kind != tokIdent || isReserved(name.text) {
			return nil, p.errorf(name, "expected variable name after let but found %s", name)
		}
		let := &letNode{pos: t.pos, name: name.text}
		if p.accept("=") {
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			let.value = v
		}
		return let, nil
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokPunct {
		switch t.text {
		case "=", "+=", "-=", "*=", "/=", "%=":
			switch x.(type) {
			case *identNode, *indexNode:
			default:
				return nil, p.errorf(t, "cannot assign to this expression")
			}
			p.next()
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &assignNode{pos: t.pos, op: t.text, target: x, value: v}, nil
		}
	}
	return x, nil
}

var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) expression() (node, error) {
	return p.binary(0)
}

func (p *parser) binary(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPunct || !contains(binaryLevels[level], t.text) {
			return left, nil
		}
		p.next()
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: t.pos, op: t.text, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	t := p.peek()
	if t.kind == tokPunct && (t.text == "-" || t.text == "!") {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{pos: t.pos, op: t.text, x: x}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("[") {
		t := p.next()
		idx, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		x = &indexNode{pos: t.pos, target: x, index: idx}
	}
	return x, nil
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf(t, "integer literal %s out of range", t.text)
		}
		return &literalNode{pos: t.pos, value: Int(i)}, nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf(t, "bad float literal %s", t.text)
		}
		return &literalNode{pos: t.pos, value: Float(f)}, nil
	case tokString:
		return &literalNode{pos: t.pos, value: String(t.text)}, nil
	case tokIdent:
		return p.identOrKeyword(t)
	case tokPunct:
		switch t.text {
		case "(":
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		case "[":
			items, err := p.list("]")
			if err != nil {
				return nil, err
			}
			return &listNode{pos: t.pos, items: items}, nil
		case "{":
			p.i--
			return p.block()
		}
	}
	return nil, p.errorf(t, "unexpected %s", t)
}

func (p *parser) identOrKeyword(t token) (node, error) {
	switch t.text {
	case "true":
		return &literalNode{pos: t.pos, value: Bool(true)}, nil
	case "false":
		return &literalNode{pos: t.pos, value: Bool(false)}, nil
	case "if":
		return p.ifExpr(t)
	case "while":
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &whileNode{pos: t.pos, cond: cond, body: body}, nil
	case "loop":
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &loopNode{pos: t.pos, body: body}, nil
	case "break":
		return &breakNode{pos: t.pos}, nil
	case "let", "else":
		return nil, p.errorf(t, "unexpected %s", t)
	}
	if p.accept("(") {
		args, err := p.list(")")
		if err != nil {
			return nil, err
		}
		return &callNode{pos: t.pos, name: t.text, args: args}, nil
	}
	return &identNode{pos: t.pos, name: t.text}, nil
}

func (p *parser) ifExpr(t token) (node, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	n := &ifNode{pos: t.pos, cond: cond, then: then}
	if p.isKeyword("else") {
		p.next()
		if p.isKeyword("if") {
			n.els, err = p.ifExpr(p.next())
		} else {
			n.els, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) block() (*blockNode, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	b, err := p.statements(tokPunct, "}")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	b.pos = open.pos
	return b, nil
}

// list parses comma separated expressions up to and including close.
func (p *parser) list(close string) ([]node, error) {
	var items []node
	for !p.accept(close) {
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		items = append(items, x)
		if !p.accept(",") {
			if _, err := p.expect(close); err != nil {
				return nil, err
			}
			break
		}
	}
	return items, nil
}

func isReserved(s string) bool {
	switch s {
	case "let", "if", "else", "while", "loop", "break", "true", "false":
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
