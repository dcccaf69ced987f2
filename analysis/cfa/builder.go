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

package cfa

import (
	"fmt"
	"go/token"

	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

// A Builder lowers statement trees to CFAs. A Builder can be reused: each call to Build produces an independent
// CFA.
type Builder struct {
	logger *config.LogGroup

	// the state below is reset by each call to Build
	cfa   *CFA
	exit  *Node
	loops []loop
}

// loop holds the targets of the jumps in the body of a loop
type loop struct {
	header *Node // target of continue
	exit   *Node // target of break
}

// NewBuilder returns a builder that logs to logger. If logger is nil, nothing is logged.
func NewBuilder(logger *config.LogGroup) *Builder {
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	return &Builder{logger: logger}
}

// Build lowers the program prog to a CFA named name.
// Every statement of prog that can be reached by falling through or jumping is represented by at least one edge,
// and every node of the result is reachable from its entry. Statements that follow a return, break or continue
// in the same block are dead and are not lowered.
// Build returns an error wrapping ErrUnsupportedConstruct if prog contains a statement or expression that has
// no lowering.
func (b *Builder) Build(name string, prog lang.Stmt) (*CFA, error) {
	b.cfa = &CFA{Name: name}
	b.exit = nil
	b.loops = nil
	defer func() { b.cfa = nil }()

	entry := b.newNode("")
	b.cfa.Entry = entry
	end, err := b.lower(entry, prog)
	if err != nil {
		return nil, err
	}
	switch {
	case end == nil:
		// every path jumps to the exit, which therefore exists
	case b.exit == nil:
		b.exit = end
	default:
		b.addBlank(end, b.exit, "return", token.NoPos)
	}
	b.cfa.Exit = b.exit

	if err := checkReachable(b.cfa); err != nil {
		return nil, err
	}
	b.logger.Debugf("built CFA %s: %d nodes, %d edges, %d loops\n", name, len(b.cfa.Nodes), len(b.cfa.Edges),
		len(b.cfa.LoopHeads()))
	return b.cfa, nil
}

// lower adds the edges of s starting at node cur, and returns the node where control is after s, or nil if
// control never falls through s.
//
//gocyclo:ignore
func (b *Builder) lower(cur *Node, s lang.Stmt) (*Node, error) {
	if s == nil {
		return nil, unsupported(nil, "missing statement")
	}
	if label := s.Label(); label != "" && cur.Label == "" {
		cur.Label = label
	}
	switch s := s.(type) {
	case *lang.BlockStmt:
		for i, x := range s.List {
			next, err := b.lower(cur, x)
			if err != nil {
				return nil, err
			}
			if next == nil {
				if i+1 < len(s.List) {
					b.logger.Debugf("%d unreachable statement(s) after %q are not lowered\n", len(s.List)-i-1, x)
				}
				return nil, nil
			}
			cur = next
		}
		return cur, nil

	case *lang.AssignStmt:
		if s.Var == "" {
			return nil, unsupported(s, "assignment without variable")
		}
		if err := checkExpr(s, s.Value); err != nil {
			return nil, err
		}
		next := b.newNode("")
		b.addEdge(&Edge{Kind: AssignEdge, Source: cur, Target: next, Var: s.Var, Expr: s.Value, Pos: s.Pos()})
		return next, nil

	case *lang.CallStmt:
		if s.Callee == "" {
			return nil, unsupported(s, "call without callee")
		}
		for _, arg := range s.Args {
			if err := checkExpr(s, arg); err != nil {
				return nil, err
			}
		}
		next := b.newNode("")
		b.addEdge(&Edge{Kind: CallEdge, Source: cur, Target: next, Var: s.Result, Callee: s.Callee, Args: s.Args,
			Pos: s.Pos()})
		return next, nil

	case *lang.AssumeStmt:
		if err := checkExpr(s, s.Cond); err != nil {
			return nil, err
		}
		next := b.newNode("")
		b.addAssume(cur, next, s.Cond, true, s.Pos())
		return next, nil

	case *lang.SkipStmt:
		next := b.newNode("")
		b.addBlank(cur, next, "skip", s.Pos())
		return next, nil

	case *lang.IfStmt:
		return b.lowerIf(cur, s)

	case *lang.WhileStmt:
		return b.lowerWhile(cur, s)

	case *lang.ReturnStmt:
		if b.exit == nil {
			b.exit = b.newNode("")
		}
		b.addBlank(cur, b.exit, "return", s.Pos())
		return nil, nil

	case *lang.BreakStmt:
		if len(b.loops) == 0 {
			return nil, unsupported(s, "break outside of a loop")
		}
		b.addBlank(cur, b.loops[len(b.loops)-1].exit, "break", s.Pos())
		return nil, nil

	case *lang.ContinueStmt:
		if len(b.loops) == 0 {
			return nil, unsupported(s, "continue outside of a loop")
		}
		b.addBlank(cur, b.loops[len(b.loops)-1].header, "continue", s.Pos())
		return nil, nil

	default:
		return nil, unsupported(s, "unknown statement kind %T", s)
	}
}

// lowerIf lowers if C then A else B as a branch at cur with the edges [C] and [!C] to fresh nodes, followed by
// the lowerings of A and B joined at a fresh node. Without else branch, the [!C] edge goes to the join node.
func (b *Builder) lowerIf(cur *Node, s *lang.IfStmt) (*Node, error) {
	if err := checkExpr(s, s.Cond); err != nil {
		return nil, err
	}
	thenNode := b.newNode("")
	b.addAssume(cur, thenNode, s.Cond, true, s.Pos())
	elseNode := b.newNode("")
	b.addAssume(cur, elseNode, s.Cond, false, s.Pos())

	thenEnd, err := b.lower(thenNode, s.Then)
	if err != nil {
		return nil, err
	}
	if s.Else == nil {
		if thenEnd != nil {
			b.addBlank(thenEnd, elseNode, "endif", token.NoPos)
		}
		return elseNode, nil
	}
	elseEnd, err := b.lower(elseNode, s.Else)
	if err != nil {
		return nil, err
	}
	if thenEnd == nil && elseEnd == nil {
		return nil, nil
	}
	join := b.newNode("")
	for _, end := range []*Node{thenEnd, elseEnd} {
		if end != nil {
			b.addBlank(end, join, "endif", token.NoPos)
		}
	}
	return join, nil
}

// lowerWhile lowers while C do A as a blank edge from cur to a fresh loop header with the edges [C] into the
// body and [!C] out of the loop. The end of the body jumps back to the header.
func (b *Builder) lowerWhile(cur *Node, s *lang.WhileStmt) (*Node, error) {
	if err := checkExpr(s, s.Cond); err != nil {
		return nil, err
	}
	header := b.newNode("")
	b.addBlank(cur, header, "while", s.Pos())
	body := b.newNode("")
	b.addAssume(header, body, s.Cond, true, s.Pos())
	exit := b.newNode("")
	b.addAssume(header, exit, s.Cond, false, s.Pos())

	b.loops = append(b.loops, loop{header: header, exit: exit})
	bodyEnd, err := b.lower(body, s.Body)
	b.loops = b.loops[:len(b.loops)-1]
	if err != nil {
		return nil, err
	}
	if bodyEnd != nil {
		b.addBlank(bodyEnd, header, "loop", token.NoPos)
	}
	return exit, nil
}

func (b *Builder) newNode(label string) *Node {
	n := &Node{id: len(b.cfa.Nodes), Label: label}
	b.cfa.Nodes = append(b.cfa.Nodes, n)
	return n
}

func (b *Builder) addBlank(from, to *Node, description string, pos token.Pos) {
	b.addEdge(&Edge{Kind: BlankEdge, Source: from, Target: to, Description: description, Pos: pos})
}

func (b *Builder) addAssume(from, to *Node, cond lang.Expr, truth bool, pos token.Pos) {
	b.addEdge(&Edge{Kind: AssumeEdge, Source: from, Target: to, Expr: cond, Truth: truth, Pos: pos})
}

func (b *Builder) addEdge(e *Edge) {
	if e.Source == e.Target || e.Source.EdgeTo(e.Target) != nil {
		// the lowering only connects a node to fresh nodes, loop headers and join nodes
		panic(fmt.Sprintf("cfa builder: duplicate edge %s -> %s", e.Source, e.Target))
	}
	e.ID = len(b.cfa.Edges)
	e.Source.Out = append(e.Source.Out, e)
	e.Target.In = append(e.Target.In, e)
	b.cfa.Edges = append(b.cfa.Edges, e)
}

// checkExpr returns an error if the expression e in statement s contains an expression kind that the analyses
// cannot interpret.
func checkExpr(s lang.Stmt, e lang.Expr) error {
	if e == nil {
		return unsupported(s, "missing expression")
	}
	var err error
	lang.InspectExpr(e, func(x lang.Expr) {
		if err != nil {
			return
		}
		switch x := x.(type) {
		case *lang.IntLit, *lang.Ident, *lang.NondetExpr:
		case *lang.UnaryExpr:
			if !x.Op.IsUnary() {
				err = unsupported(s, "operator %s is not unary", x.Op)
			} else if x.X == nil {
				err = unsupported(s, "missing operand")
			}
		case *lang.BinaryExpr:
			if x.Op.IsUnary() {
				err = unsupported(s, "operator %s is not binary", x.Op)
			} else if x.X == nil || x.Y == nil {
				err = unsupported(s, "missing operand")
			}
		default:
			err = unsupported(s, "unknown expression kind %T", x)
		}
	})
	return err
}

// checkReachable returns an error if some node of c cannot be reached from its entry
func checkReachable(c *CFA) error {
	reached := c.Reachable()
	for _, n := range c.Nodes {
		if !reached[n.ID()] {
			return fmt.Errorf("node %s of CFA %s is not reachable from the entry", n, c.Name)
		}
	}
	return nil
}
