// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cfa defines control-flow automata and builds them from statement trees.
//
// A control-flow automaton (CFA) is a graph whose nodes are the control points of a program and whose edges are
// labeled with the elementary operation executed when control moves from the source to the target: an
// assignment, an assumption on the values of the variables, a call, or nothing. Conditionals and loops are
// lowered to pairs of assume edges, and loops are cycles of the automaton.
//
// A CFA is immutable once it has been built: nodes and edges are shared by reference by all the analyses and may
// be read concurrently.
package cfa

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis/lang"
	"github.com/awslabs/ar-go-cpa/internal/graphutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// EdgeKind is the kind of operation labelling an edge
type EdgeKind int

const (
	// BlankEdge does nothing
	BlankEdge EdgeKind = iota
	// AssignEdge assigns the value of an expression to a variable
	AssignEdge
	// AssumeEdge can be taken only when its condition holds
	AssumeEdge
	// CallEdge calls an external function
	CallEdge
)

func (k EdgeKind) String() string {
	switch k {
	case BlankEdge:
		return "blank"
	case AssignEdge:
		return "assign"
	case AssumeEdge:
		return "assume"
	case CallEdge:
		return "call"
	}
	return "unknown"
}

// A Node is a control point of the program.
// The In and Out slices must not be modified outside of this package.
type Node struct {
	id int

	// Label is an optional human-readable name of the control point
	Label string

	// In are the edges whose target is the node
	In []*Edge

	// Out are the edges whose source is the node, in the order they have been created. For a branching node,
	// the assume edge of the condition comes before the edge of its negation.
	Out []*Edge
}

// ID returns the identifier of the node, unique in its CFA. The entry node has id 0.
func (n *Node) ID() int64 {
	return int64(n.id)
}

func (n *Node) String() string {
	if n.Label != "" {
		return fmt.Sprintf("N%d (%s)", n.id, n.Label)
	}
	return fmt.Sprintf("N%d", n.id)
}

// EdgeTo returns the edge from n to m, or nil if there is none
func (n *Node) EdgeTo(m *Node) *Edge {
	for _, e := range n.Out {
		if e.Target == m {
			return e
		}
	}
	return nil
}

// An Edge is a transition between two control points, labelled by an operation.
type Edge struct {
	// ID is the identifier of the edge, unique in its CFA
	ID int

	Kind   EdgeKind
	Source *Node
	Target *Node

	// Var is the variable assigned by an AssignEdge, or the variable receiving the result of a CallEdge (empty
	// if the result is discarded)
	Var string

	// Expr is the assigned expression of an AssignEdge, or the condition of an AssumeEdge as written in the
	// program (see Truth)
	Expr lang.Expr

	// Truth is false when an AssumeEdge is taken when Expr does not hold, i.e. the edge is the else branch of a
	// conditional or the exit of a loop
	Truth bool

	// Callee and Args are the function called by a CallEdge and its arguments
	Callee string
	Args   []lang.Expr

	// Description describes the origin of a BlankEdge (e.g. "while", "return")
	Description string

	// Pos is the source position of the statement the edge has been lowered from
	Pos token.Pos
}

// Condition returns the condition under which an AssumeEdge can be taken: Expr if Truth is true, otherwise its
// negation. Condition returns nil for other kinds of edges.
func (e *Edge) Condition() lang.Expr {
	if e.Kind != AssumeEdge {
		return nil
	}
	if e.Truth {
		return e.Expr
	}
	return lang.Negate(e.Expr)
}

func (e *Edge) String() string {
	switch e.Kind {
	case AssignEdge:
		return e.Var + " = " + e.Expr.String()
	case AssumeEdge:
		return "[" + e.Condition().String() + "]"
	case CallEdge:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = a.String()
		}
		call := e.Callee + "(" + strings.Join(args, ", ") + ")"
		if e.Var != "" {
			return e.Var + " = " + call
		}
		return call
	default:
		if e.Description != "" {
			return e.Description
		}
		return "skip"
	}
}

// From implements the gonum graph.Edge interface
func (e *Edge) From() graph.Node { return e.Source }

// To implements the gonum graph.Edge interface
func (e *Edge) To() graph.Node { return e.Target }

// ReversedEdge implements the gonum graph.Edge interface. The reversed edge carries no operation.
func (e *Edge) ReversedEdge() graph.Edge { return simple.Edge{F: e.Target, T: e.Source} }

// CFA is a control-flow automaton with a single entry node and a single exit node. The CFA owns its nodes and
// edges; they are indexed by their ids in Nodes and Edges.
type CFA struct {
	// Name is the name of the program or function the CFA represents
	Name string

	Entry *Node

	// Exit is the node where every terminating execution ends. It is the entry node of the empty program.
	Exit *Node

	Nodes []*Node
	Edges []*Edge
}

// Graph returns the CFA as a directed graph usable with the graph libraries
func (c *CFA) Graph() *graphutil.Digraph {
	g := graphutil.NewDigraph()
	for _, n := range c.Nodes {
		g.AddNode(n)
	}
	for _, e := range c.Edges {
		g.AddEdge(e)
	}
	return g
}

// LoopHeads returns the nodes where loops of the CFA are entered, in increasing id order. Nested loops have
// their own heads: the head of each cyclic strongly connected component is removed and the rest of the
// component is decomposed again.
func (c *CFA) LoopHeads() []*Node {
	heads := map[*Node]bool{}
	addLoopHeads(c.Nodes, func(*Node) bool { return true }, heads)
	var res []*Node
	for _, n := range c.Nodes {
		if heads[n] {
			res = append(res, n)
		}
	}
	return res
}

func addLoopHeads(nodes []*Node, inScope func(*Node) bool, heads map[*Node]bool) {
	successors := func(n *Node) []*Node {
		var succs []*Node
		for _, e := range n.Out {
			if inScope(e.Target) {
				succs = append(succs, e.Target)
			}
		}
		return succs
	}
	for _, scc := range graphutil.CyclicComponents(nodes, successors) {
		head := scc[0]
		heads[head] = true
		rest := map[*Node]bool{}
		for _, n := range scc[1:] {
			rest[n] = true
		}
		addLoopHeads(scc[1:], func(n *Node) bool { return rest[n] }, heads)
	}
}

// Exits returns the nodes without outgoing edges. For a CFA returned by the Builder, this is exactly the exit
// node, unless the exit cannot be reached (the program never terminates).
func (c *CFA) Exits() []*Node {
	var exits []*Node
	for _, n := range c.Nodes {
		if len(n.Out) == 0 {
			exits = append(exits, n)
		}
	}
	return exits
}

// CallEdges returns the call edges whose callee is name
func (c *CFA) CallEdges(name string) []*Edge {
	var calls []*Edge
	for _, e := range c.Edges {
		if e.Kind == CallEdge && e.Callee == name {
			calls = append(calls, e)
		}
	}
	return calls
}

// String returns a textual representation of the CFA, one edge per line
func (c *CFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CFA %s (entry %s, exit %s)\n", c.Name, c.Entry, c.Exit)
	for _, e := range c.Edges {
		fmt.Fprintf(&b, "  %s -> %s: %s\n", e.Source, e.Target, e)
	}
	return b.String()
}

// Reachable returns the ids of the nodes reachable from the entry of the CFA
func (c *CFA) Reachable() map[int64]bool {
	return c.Graph().Reachable(c.Entry.ID())
}
