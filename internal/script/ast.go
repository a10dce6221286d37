package script

// node is any syntax tree element. Everything is an expression; statements
// such as let and while evaluate to unit.
type node interface {
	position() int
}

type (
	literalNode struct {
		pos   int
		value Value
	}
	identNode struct {
		pos  int
		name string
	}
	listNode struct {
		pos   int
		items []node
	}
	unaryNode struct {
		pos int
		op  string
		x   node
	}
	binaryNode struct {
		pos         int
		op          string
		left, right node
	}
	callNode struct {
		pos  int
		name string
		args []node
	}
	indexNode struct {
		pos    int
		target node
		index  node
	}
	letNode struct {
		pos   int
		name  string
		value node
	}
	assignNode struct {
		pos    int
		op     string
		target node
		value  node
	}
	ifNode struct {
		pos  int
		cond node
		then *blockNode
		els  node // *blockNode, *ifNode or nil
	}
	whileNode struct {
		pos  int
		cond node
		body *blockNode
	}
	loopNode struct {
		pos  int
		body *blockNode
	}
	breakNode struct {
		pos int
	}
	blockNode struct {
		pos   int
		stmts []node
		tail  node // value of the block; nil means unit
	}
)

func (n *literalNode) position() int { return n.pos }
func (n *identNode) position() int   { return n.pos }
func (n *listNode) position() int    { return n.pos }
func (n *unaryNode) position() int   { return n.pos }
func (n *binaryNode) position() int  { return n.pos }
func (n *callNode) position() int    { return n.pos }
func (n *indexNode) position() int   { return n.pos }
func (n *letNode) position() int     { return n.pos }
func (n *assignNode) position() int  { return n.pos }
func (n *ifNode) position() int      { return n.pos }
func (n *whileNode) position() int   { return n.pos }
func (n *loopNode) position() int    { return n.pos }
func (n *breakNode) position() int   { return n.pos }
func (n *blockNode) position() int   { return n.pos }

// endsWithBlock reports whether n is a statement that may be followed by
// another statement without a separating semicolon.
func endsWithBlock(n node) bool {
	switch n.(type) {
	case *ifNode, *whileNode, *loopNode, *blockNode:
		return true
	}
	return false
}
