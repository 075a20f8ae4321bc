package cinder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDot writes the AST forest as a Graphviz digraph with one node per
// AST node. Edges are labelled with the relation of the child to its parent.
func WriteDot(w io.Writer, tree *Tree) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph ast {")
	fmt.Fprintln(bw, "\tnode [shape=box];")

	for i, root := range tree.Roots {
		fmt.Fprintf(bw, "\troot%d [shape=point];\n", i)
		fmt.Fprintf(bw, "\troot%d -> n%d;\n", i, root)
		writeDotNode(bw, tree, root)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func writeDotNode(w io.Writer, tree *Tree, id NodeID) {
	fmt.Fprintf(w, "\tn%d [label=%s];\n", id, strconv.Quote(tree.Describe(id)))

	for _, e := range dotEdges(tree, id) {
		fmt.Fprintf(w, "\tn%d -> n%d [label=%q];\n", id, e.to, e.label)
		writeDotNode(w, tree, e.to)
	}
}

type dotEdge struct {
	label string
	to    NodeID
}

func dotEdges(tree *Tree, id NodeID) []dotEdge {
	n, ok := tree.Node(id)
	if !ok {
		return nil
	}

	var edges []dotEdge
	add := func(label string, to NodeID) {
		if to != NoNode {
			edges = append(edges, dotEdge{label, to})
		}
	}

	switch l := n.Leaf.(type) {
	case NodeLeaf:
		add("inner", l.Inner)
	case Declaration:
		add("init", l.Init)
	case FunctionDefinition:
		for _, s := range l.Body {
			add("body", s)
		}
	case UnaryExpression:
		add("operand", n.Left)
		return edges
	case FunctionCall:
		for _, a := range l.Args {
			add("arg", a)
		}
	case ArrayAccess:
		add("index", l.Index)
	case ReturnStatement:
		add("value", l.Value)
	}

	add("lhs", n.Left)
	add("rhs", n.Right)
	return edges
}
