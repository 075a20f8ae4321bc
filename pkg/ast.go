package cinder

import (
	"fmt"
	"strings"
)

// NodeID indexes a node inside its Tree.
type NodeID int

// NoNode marks an absent child or parent.
const NoNode NodeID = -1

// Node is a binary tree node. Left and Right are owned by the node; Parent
// is a read-only back-link.
type Node struct {
	Left   NodeID
	Right  NodeID
	Parent NodeID
	Leaf   Leaf
}

// Leaf is the payload of a node. The set of implementations is closed.
type Leaf interface {
	leaf()
}

// TokenLeaf holds an operator, identifier or constant. Binary operators
// carry their operands in Left and Right.
type TokenLeaf struct {
	Token Token
}

// NodeLeaf wraps a parenthesised subtree.
type NodeLeaf struct {
	Inner NodeID
}

type Declaration struct {
	Type Token
	Name Token
	Init NodeID
}

type Param struct {
	Type Token
	Name Token
}

type FunctionDefinition struct {
	Name       Token
	ReturnType Token
	Params     []Param
	Body       []NodeID
}

// UnaryExpression applies Op to the node's Left child.
type UnaryExpression struct {
	Op Token
}

type FunctionCall struct {
	Name Token
	Args []NodeID
}

// ArrayAccess has Index == NoNode for an empty subscript.
type ArrayAccess struct {
	Name  Token
	Index NodeID
}

// ReturnStatement has Value == NoNode for a bare return.
type ReturnStatement struct {
	Keyword Token
	Value   NodeID
}

func (TokenLeaf) leaf()          {}
func (NodeLeaf) leaf()           {}
func (Declaration) leaf()        {}
func (FunctionDefinition) leaf() {}
func (UnaryExpression) leaf()    {}
func (FunctionCall) leaf()       {}
func (ArrayAccess) leaf()        {}
func (ReturnStatement) leaf()    {}

// Tree is the AST forest of one compilation unit. Nodes are stored in an
// arena; Roots lists the top-level constructs in source order.
type Tree struct {
	Roots []NodeID
	nodes []Node
}

func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}

	return t.nodes[id], true
}

func (t *Tree) Leaf(id NodeID) Leaf {
	if !t.valid(id) {
		return nil
	}

	return t.nodes[id].Leaf
}

func (t *Tree) Left(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}

	return t.nodes[id].Left
}

func (t *Tree) Right(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}

	return t.nodes[id].Right
}

// Parent returns the node owning id. The lookup tolerates ids that no longer
// resolve.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if !t.valid(id) {
		return NoNode, false
	}

	p := t.nodes[id].Parent
	return p, t.valid(p)
}

// Enclosing walks the parent links of id and returns the closest function
// definition containing it.
func (t *Tree) Enclosing(id NodeID) (*FunctionDefinition, bool) {
	for p, ok := t.Parent(id); ok; p, ok = t.Parent(p) {
		if fn, isFunc := t.nodes[p].Leaf.(FunctionDefinition); isFunc {
			return &fn, true
		}
	}

	return nil, false
}

// Children returns every node owned by id, in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}

	var ids []NodeID
	switch l := n.Leaf.(type) {
	case NodeLeaf:
		ids = append(ids, l.Inner)
	case Declaration:
		ids = append(ids, l.Init)
	case FunctionDefinition:
		ids = append(ids, l.Body...)
	case FunctionCall:
		ids = append(ids, l.Args...)
	case ArrayAccess:
		ids = append(ids, l.Index)
	case ReturnStatement:
		ids = append(ids, l.Value)
	}

	ids = append(ids, n.Left, n.Right)

	var children []NodeID
	for _, c := range ids {
		if t.valid(c) {
			children = append(children, c)
		}
	}

	return children
}

// add stores a node and makes it the parent of all the nodes it owns.
func (t *Tree) add(leaf Leaf, left, right NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Left:   left,
		Right:  right,
		Parent: NoNode,
		Leaf:   leaf,
	})

	for _, c := range t.Children(id) {
		t.nodes[c].Parent = id
	}

	return id
}

// Describe returns a short, single line label for a node.
func (t *Tree) Describe(id NodeID) string {
	switch l := t.Leaf(id).(type) {
	case TokenLeaf:
		return l.Token.Value
	case NodeLeaf:
		return "()"
	case Declaration:
		return fmt.Sprintf("decl %s %s", l.Type.Value, l.Name.Value)
	case FunctionDefinition:
		params := make([]string, len(l.Params))
		for i, p := range l.Params {
			params[i] = p.Type.Value + " " + p.Name.Value
		}

		return fmt.Sprintf("func %s %s(%s)", l.ReturnType.Value, l.Name.Value, strings.Join(params, ", "))
	case UnaryExpression:
		return "unary " + l.Op.Value
	case FunctionCall:
		return "call " + l.Name.Value
	case ArrayAccess:
		return "index " + l.Name.Value
	case ReturnStatement:
		return "return"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", l)
	}
}

// Format renders the subtree rooted at id as an s-expression, for example
// (+ 1 (* 2 3)).
func (t *Tree) Format(id NodeID) string {
	var b strings.Builder
	t.format(&b, id)
	return b.String()
}

func (t *Tree) format(b *strings.Builder, id NodeID) {
	n, ok := t.Node(id)
	if !ok {
		b.WriteString("<nil>")
		return
	}

	list := func(head string, ids ...NodeID) {
		b.WriteString("(")
		b.WriteString(head)
		for _, c := range ids {
			b.WriteString(" ")
			t.format(b, c)
		}
		b.WriteString(")")
	}

	switch l := n.Leaf.(type) {
	case TokenLeaf:
		if n.Left == NoNode && n.Right == NoNode {
			b.WriteString(l.Token.Value)
			return
		}

		list(l.Token.Value, n.Left, n.Right)
	case NodeLeaf:
		t.format(b, l.Inner)
	case Declaration:
		if l.Init == NoNode {
			list(fmt.Sprintf("decl %s %s", l.Type.Value, l.Name.Value))
			return
		}

		list(fmt.Sprintf("decl %s %s", l.Type.Value, l.Name.Value), l.Init)
	case FunctionDefinition:
		list(t.Describe(id), l.Body...)
	case UnaryExpression:
		list(l.Op.Value, n.Left)
	case FunctionCall:
		list("call "+l.Name.Value, l.Args...)
	case ArrayAccess:
		if l.Index == NoNode {
			list("index " + l.Name.Value)
			return
		}

		list("index "+l.Name.Value, l.Index)
	case ReturnStatement:
		if l.Value == NoNode {
			list("return")
			return
		}

		list("return", l.Value)
	default:
		b.WriteString(t.Describe(id))
	}
}
