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

// Package lang defines the statement trees analyzed by the engine: a small imperative language with integer
// variables, assignments, conditionals, loops and calls. Statement trees are produced by a frontend (see package
// frontend for Go sources) or built directly with the constructors of this package.
package lang

import (
	"fmt"
	"go/token"
	"strings"
)

// A Stmt is a node of a statement tree.
type Stmt interface {
	// Pos is the position of the statement in the source it was produced from, or token.NoPos.
	Pos() token.Pos
	// Label is the optional human-readable label of the control point before the statement.
	Label() string
	String() string
}

// An Expr is an integer-valued expression. Conditions are expressions, non-zero meaning true.
type Expr interface {
	Pos() token.Pos
	String() string
}

// Span contains the source information shared by all statements and expressions.
type Span struct {
	P token.Pos
	L string
}

// Pos returns the source position
func (s Span) Pos() token.Pos { return s.P }

// Label returns the label attached to the node, if any
func (s Span) Label() string { return s.L }

// *************** Statements **********************

// BlockStmt is a sequence of statements, executed in order.
type BlockStmt struct {
	Span
	List []Stmt
}

// AssignStmt assigns the value of Value to the variable Var.
type AssignStmt struct {
	Span
	Var   string
	Value Expr
}

// IfStmt executes Then if Cond is non-zero, otherwise Else. Else may be nil.
type IfStmt struct {
	Span
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt executes Body as long as Cond is non-zero.
type WhileStmt struct {
	Span
	Cond Expr
	Body Stmt
}

// CallStmt calls the function Callee with the arguments Args. If Result is not empty, the value returned by the
// call is assigned to the variable Result. The body of the callee is not part of the program.
type CallStmt struct {
	Span
	Result string
	Callee string
	Args   []Expr
}

// AssumeStmt blocks the executions where Cond is zero.
type AssumeStmt struct {
	Span
	Cond Expr
}

// ReturnStmt ends the program.
type ReturnStmt struct {
	Span
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Span
}

// ContinueStmt jumps to the condition of the innermost loop.
type ContinueStmt struct {
	Span
}

// SkipStmt does nothing.
type SkipStmt struct {
	Span
}

func (s *BlockStmt) String() string {
	return "{ " + strings.Join(mapStmts(s.List), "; ") + " }"
}

func (s *AssignStmt) String() string { return s.Var + " = " + s.Value.String() }

func (s *IfStmt) String() string {
	if s.Else == nil {
		return fmt.Sprintf("if %s %s", s.Cond, s.Then)
	}
	return fmt.Sprintf("if %s %s else %s", s.Cond, s.Then, s.Else)
}

func (s *WhileStmt) String() string { return fmt.Sprintf("while %s %s", s.Cond, s.Body) }

func (s *CallStmt) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	call := s.Callee + "(" + strings.Join(args, ", ") + ")"
	if s.Result != "" {
		return s.Result + " = " + call
	}
	return call
}

func (s *AssumeStmt) String() string   { return "assume(" + s.Cond.String() + ")" }
func (s *ReturnStmt) String() string   { return "return" }
func (s *BreakStmt) String() string    { return "break" }
func (s *ContinueStmt) String() string { return "continue" }
func (s *SkipStmt) String() string     { return "skip" }

func mapStmts(stmts []Stmt) []string {
	s := make([]string, len(stmts))
	for i, stmt := range stmts {
		s[i] = stmt.String()
	}
	return s
}

// *************** Expressions **********************

// IntLit is an integer constant. Booleans are represented by 0 (false) and 1 (true).
type IntLit struct {
	Span
	Value int64
}

// Ident is a reference to a variable. Variables that have not been assigned have an arbitrary value.
type Ident struct {
	Span
	Name string
}

// NondetExpr is an arbitrary value provided by the environment, e.g. the result of __VERIFIER_nondet_int().
type NondetExpr struct {
	Span
	Source string
}

// UnaryExpr applies a unary operator to X.
type UnaryExpr struct {
	Span
	Op Op
	X  Expr
}

// BinaryExpr applies a binary operator to X and Y.
type BinaryExpr struct {
	Span
	Op Op
	X  Expr
	Y  Expr
}

func (e *IntLit) String() string { return fmt.Sprintf("%d", e.Value) }
func (e *Ident) String() string  { return e.Name }

func (e *NondetExpr) String() string {
	if e.Source == "" {
		return "nondet()"
	}
	return e.Source + "()"
}

func (e *UnaryExpr) String() string { return e.Op.String() + operandString(e.X) }

func (e *BinaryExpr) String() string {
	return operandString(e.X) + " " + e.Op.String() + " " + operandString(e.Y)
}

// operandString parenthesizes compound operands
func operandString(e Expr) string {
	switch e.(type) {
	case *BinaryExpr:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}
