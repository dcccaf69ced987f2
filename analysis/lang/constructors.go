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

package lang

// Constructors for statement trees built in code. The nodes they return have no position and no label.

// Block returns the sequence of statements stmts
func Block(stmts ...Stmt) *BlockStmt { return &BlockStmt{List: stmts} }

// Assign returns the statement name = value
func Assign(name string, value Expr) *AssignStmt { return &AssignStmt{Var: name, Value: value} }

// If returns the conditional statement. els may be nil.
func If(cond Expr, then Stmt, els Stmt) *IfStmt { return &IfStmt{Cond: cond, Then: then, Else: els} }

// While returns the loop statement
func While(cond Expr, body Stmt) *WhileStmt { return &WhileStmt{Cond: cond, Body: body} }

// Call returns the call statement callee(args...)
func Call(callee string, args ...Expr) *CallStmt { return &CallStmt{Callee: callee, Args: args} }

// CallAssign returns the statement result = callee(args...)
func CallAssign(result string, callee string, args ...Expr) *CallStmt {
	return &CallStmt{Result: result, Callee: callee, Args: args}
}

// Assume returns the statement assume(cond)
func Assume(cond Expr) *AssumeStmt { return &AssumeStmt{Cond: cond} }

// Return returns a return statement
func Return() *ReturnStmt { return &ReturnStmt{} }

// Break returns a break statement
func Break() *BreakStmt { return &BreakStmt{} }

// Continue returns a continue statement
func Continue() *ContinueStmt { return &ContinueStmt{} }

// Skip returns an empty statement
func Skip() *SkipStmt { return &SkipStmt{} }

// Int returns the constant v
func Int(v int64) *IntLit { return &IntLit{Value: v} }

// Bool returns the constant 1 if b, otherwise 0
func Bool(b bool) *IntLit {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Var returns a reference to the variable name
func Var(name string) *Ident { return &Ident{Name: name} }

// Nondet returns an arbitrary value coming from source
func Nondet(source string) *NondetExpr { return &NondetExpr{Source: source} }

// Bin returns the binary expression x op y
func Bin(op Op, x, y Expr) *BinaryExpr { return &BinaryExpr{Op: op, X: x, Y: y} }

// Un returns the unary expression op x
func Un(op Op, x Expr) *UnaryExpr { return &UnaryExpr{Op: op, X: x} }

// Negate returns the logical negation of cond
func Negate(cond Expr) Expr { return &UnaryExpr{Span: Span{P: cond.Pos()}, Op: Not, X: cond} }
