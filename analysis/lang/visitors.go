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

import (
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// Inspect traverses the statement tree in depth-first order: it calls f(s) and, if f returns true, inspects the
// statements nested in s. Nil statements (e.g. a missing else branch) are not visited.
func Inspect(s Stmt, f func(Stmt) bool) {
	if s == nil || !f(s) {
		return
	}
	switch s := s.(type) {
	case *BlockStmt:
		for _, x := range s.List {
			Inspect(x, f)
		}
	case *IfStmt:
		Inspect(s.Then, f)
		if s.Else != nil {
			Inspect(s.Else, f)
		}
	case *WhileStmt:
		Inspect(s.Body, f)
	}
}

// InspectExpr traverses the expression in depth-first order, calling f on every sub-expression.
func InspectExpr(e Expr, f func(Expr)) {
	if e == nil {
		return
	}
	f(e)
	switch e := e.(type) {
	case *UnaryExpr:
		InspectExpr(e.X, f)
	case *BinaryExpr:
		InspectExpr(e.X, f)
		InspectExpr(e.Y, f)
	}
}

// ExprVars returns the names of the variables read by the expression, in order of first occurrence.
func ExprVars(e Expr) []string {
	var names []string
	InspectExpr(e, func(x Expr) {
		if id, ok := x.(*Ident); ok {
			names = funcutil.AddUnique(names, id.Name)
		}
	})
	return names
}

// Variables returns the names of all the variables read or written by the program, in order of first occurrence.
func Variables(prog Stmt) []string {
	var names []string
	addExpr := func(e Expr) {
		for _, name := range ExprVars(e) {
			names = funcutil.AddUnique(names, name)
		}
	}
	Inspect(prog, func(s Stmt) bool {
		switch s := s.(type) {
		case *AssignStmt:
			names = funcutil.AddUnique(names, s.Var)
			addExpr(s.Value)
		case *IfStmt:
			addExpr(s.Cond)
		case *WhileStmt:
			addExpr(s.Cond)
		case *AssumeStmt:
			addExpr(s.Cond)
		case *CallStmt:
			for _, arg := range s.Args {
				addExpr(arg)
			}
			if s.Result != "" {
				names = funcutil.AddUnique(names, s.Result)
			}
		}
		return true
	})
	return names
}

// CountStatements returns the number of statements in the tree, blocks excluded.
func CountStatements(prog Stmt) int {
	n := 0
	Inspect(prog, func(s Stmt) bool {
		if _, isBlock := s.(*BlockStmt); !isBlock {
			n++
		}
		return true
	})
	return n
}
