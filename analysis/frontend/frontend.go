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

// Package frontend lowers functions written in a subset of Go to statement trees.
//
// The subset contains integer variables, assignments (=, :=, op=, ++, --, var declarations), if/else, for loops
// with a condition (or none), break, continue, return and calls. Calls to functions whose name starts with the
// nondet prefix are arbitrary values, and calls to the assume function restrict the executions. A comment
// "// label: name" before a statement labels the control point before it.
package frontend

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

var labelRegex = regexp.MustCompile(`^//\s*label:\s*([A-Za-z_][A-Za-z0-9_]*)\s*$`)

// Options configures the special functions of the frontend
type Options struct {
	// NondetPrefix is the prefix of the names of the functions returning arbitrary values. Empty means none.
	NondetPrefix string

	// AssumeFunction is the name of the function whose calls become assumptions. Empty means none.
	AssumeFunction string
}

// Function is a Go function lowered to a statement tree
type Function struct {
	// Name is the name of the function
	Name string

	// Pos is the position of the function declaration
	Pos token.Pos

	// Body is the lowered body of the function
	Body *lang.BlockStmt
}

// ParseFunction parses the Go source src of the file filename and lowers the function called name.
// The positions of the statements are in the returned file set.
func ParseFunction(filename string, src []byte, name string, opts Options) (*Function, *token.FileSet, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fset, fmt.Errorf("could not parse %s: %w", filename, err)
	}
	d := decorator.NewDecorator(fset)
	f, err := d.DecorateFile(file)
	if err != nil {
		return nil, fset, fmt.Errorf("could not decorate %s: %w", filename, err)
	}
	for _, decl := range f.Decls {
		if fd, ok := decl.(*dst.FuncDecl); ok && fd.Recv == nil && fd.Name.Name == name {
			fn, err := lowerFunc(d, fd, opts)
			return fn, fset, err
		}
	}
	return nil, fset, fmt.Errorf("function %s not found in %s", name, filename)
}

// LowerFile lowers all the functions with a body declared in file. The functions that cannot be lowered are
// skipped, and the returned error joins the reasons they were skipped.
func LowerFile(fset *token.FileSet, file *ast.File, opts Options) ([]*Function, error) {
	d := decorator.NewDecorator(fset)
	f, err := d.DecorateFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not decorate file: %w", err)
	}
	var funcs []*Function
	var errs []error
	for _, decl := range f.Decls {
		fd, ok := decl.(*dst.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		fn, err := lowerFunc(d, fd, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", fd.Name.Name, err))
			continue
		}
		funcs = append(funcs, fn)
	}
	return funcs, errors.Join(errs...)
}

// LowerDecl lowers the function declaration fd, parsed with the file set fset. The comments of the file are not
// available, so the statements have no labels.
func LowerDecl(fset *token.FileSet, fd *ast.FuncDecl, opts Options) (*Function, error) {
	d := decorator.NewDecorator(fset)
	n, err := d.DecorateNode(fd)
	if err != nil {
		return nil, fmt.Errorf("could not decorate function %s: %w", fd.Name.Name, err)
	}
	dfd, ok := n.(*dst.FuncDecl)
	if !ok {
		return nil, fmt.Errorf("unexpected decorated node %T", n)
	}
	return lowerFunc(d, dfd, opts)
}

func lowerFunc(d *decorator.Decorator, fd *dst.FuncDecl, opts Options) (*Function, error) {
	if fd.Body == nil {
		return nil, fmt.Errorf("function %s has no body", fd.Name.Name)
	}
	l := &lowerer{d: d, opts: opts, declared: map[string]int{}}
	l.push()
	for _, fields := range []*dst.FieldList{fd.Type.Params, fd.Type.Results} {
		if fields == nil {
			continue
		}
		for _, field := range fields.List {
			for _, name := range field.Names {
				l.declare(name.Name)
			}
		}
	}
	body, err := l.block(fd.Body)
	if err != nil {
		return nil, err
	}
	return &Function{Name: fd.Name.Name, Pos: l.pos(fd), Body: body}, nil
}

type lowerer struct {
	d    *decorator.Decorator
	opts Options

	// scopes maps the Go variables visible in each enclosing block to their names in the lowered program
	scopes []map[string]string

	// declared counts the declarations of each Go variable name in the function
	declared map[string]int
}

func (l *lowerer) push() {
	l.scopes = append(l.scopes, map[string]string{})
}

func (l *lowerer) pop() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

// declare declares the Go variable name in the innermost block and returns its name in the lowered program.
// A variable that shadows another one gets a fresh name, which is not a Go identifier.
func (l *lowerer) declare(name string) string {
	if name == "_" {
		return ""
	}
	lowered := name
	if n := l.declared[name]; n > 0 {
		lowered = fmt.Sprintf("%s#%d", name, n)
	}
	l.declared[name]++
	l.scopes[len(l.scopes)-1][name] = lowered
	return lowered
}

// resolve returns the name in the lowered program of the Go variable name visible in the current block.
// Names that are not declared in the function are kept.
func (l *lowerer) resolve(name string) string {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if lowered, ok := l.scopes[i][name]; ok {
			return lowered
		}
	}
	return name
}

// bind returns the lowered variable assigned by a statement: a new variable when define is true, otherwise the
// visible one. The blank identifier gives "".
func (l *lowerer) bind(name string, define bool) string {
	switch {
	case name == "_" || name == "":
		return ""
	case define:
		return l.declare(name)
	}
	return l.resolve(name)
}

func (l *lowerer) pos(n dst.Node) token.Pos {
	if a, ok := l.d.Ast.Nodes[n]; ok && a != nil {
		return a.Pos()
	}
	return token.NoPos
}

// span returns the position of n and the label in the comments before it
func (l *lowerer) span(n dst.Node) lang.Span {
	s := lang.Span{P: l.pos(n)}
	for _, c := range n.Decorations().Start.All() {
		if m := labelRegex.FindStringSubmatch(strings.TrimSpace(c)); m != nil {
			s.L = m[1]
		}
	}
	return s
}

func (l *lowerer) unsupported(n dst.Node, format string, args ...any) error {
	reason := fmt.Sprintf(format, args...)
	if p := l.pos(n); p.IsValid() {
		reason = fmt.Sprintf("%s at %s", reason, l.d.Fset.Position(p))
	}
	return &cfa.UnsupportedConstructError{Reason: reason}
}

func (l *lowerer) isNondet(name string) bool {
	return l.opts.NondetPrefix != "" && strings.HasPrefix(name, l.opts.NondetPrefix)
}

func (l *lowerer) block(b *dst.BlockStmt) (*lang.BlockStmt, error) {
	l.push()
	defer l.pop()
	res := &lang.BlockStmt{Span: l.span(b)}
	for _, s := range b.List {
		stmts, err := l.stmt(s)
		if err != nil {
			return nil, err
		}
		res.List = append(res.List, stmts...)
	}
	return res, nil
}

// stmt lowers a Go statement to zero or more statements
//
//gocyclo:ignore
func (l *lowerer) stmt(s dst.Stmt) ([]lang.Stmt, error) {
	switch s := s.(type) {
	case *dst.BlockStmt:
		b, err := l.block(s)
		return []lang.Stmt{b}, err
	case *dst.EmptyStmt:
		return nil, nil
	case *dst.AssignStmt:
		return l.assign(s)
	case *dst.IncDecStmt:
		id, ok := s.X.(*dst.Ident)
		if !ok {
			return nil, l.unsupported(s, "increment of a non-variable")
		}
		op := lang.Add
		if s.Tok == token.DEC {
			op = lang.Sub
		}
		return []lang.Stmt{&lang.AssignStmt{
			Span:  l.span(s),
			Var:   l.resolve(id.Name),
			Value: &lang.BinaryExpr{Span: lang.Span{P: l.pos(s)}, Op: op, X: l.ident(id), Y: lang.Int(1)},
		}}, nil
	case *dst.DeclStmt:
		return l.decl(s)
	case *dst.ExprStmt:
		call, ok := s.X.(*dst.CallExpr)
		if !ok {
			return nil, l.unsupported(s, "expression statement that is not a call")
		}
		return l.call(s, "", false, call)
	case *dst.IfStmt:
		return l.ifStmt(s)
	case *dst.ForStmt:
		return l.forStmt(s)
	case *dst.BranchStmt:
		if s.Label != nil {
			return nil, l.unsupported(s, "labeled %s", s.Tok)
		}
		switch s.Tok {
		case token.BREAK:
			return []lang.Stmt{&lang.BreakStmt{Span: l.span(s)}}, nil
		case token.CONTINUE:
			return []lang.Stmt{&lang.ContinueStmt{Span: l.span(s)}}, nil
		}
		return nil, l.unsupported(s, "%s statement", s.Tok)
	case *dst.ReturnStmt:
		// Results are checked to be expressions of the language but their values are not used
		for _, r := range s.Results {
			if _, err := l.expr(r); err != nil {
				return nil, err
			}
		}
		return []lang.Stmt{&lang.ReturnStmt{Span: l.span(s)}}, nil
	}
	return nil, l.unsupported(s, "statement %T", s)
}

func (l *lowerer) assign(s *dst.AssignStmt) ([]lang.Stmt, error) {
	if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
		return nil, l.unsupported(s, "assignment of %d values to %d variables", len(s.Rhs), len(s.Lhs))
	}
	id, ok := s.Lhs[0].(*dst.Ident)
	if !ok {
		return nil, l.unsupported(s, "assignment to a non-variable")
	}
	switch s.Tok {
	case token.ASSIGN, token.DEFINE:
		return l.assignValue(s, id.Name, s.Tok == token.DEFINE, s.Rhs[0])
	}
	op, ok := assignOps[s.Tok]
	if !ok {
		return nil, l.unsupported(s, "assignment operator %s", s.Tok)
	}
	y, err := l.expr(s.Rhs[0])
	if err != nil {
		return nil, err
	}
	return []lang.Stmt{&lang.AssignStmt{
		Span:  l.span(s),
		Var:   l.resolve(id.Name),
		Value: &lang.BinaryExpr{Span: lang.Span{P: l.pos(s)}, Op: op, X: l.ident(id), Y: y},
	}}, nil
}

// assignValue lowers the assignment of rhs to name, which is declared when define is true. The blank identifier
// discards the value. The right-hand side is lowered before the declaration takes effect.
func (l *lowerer) assignValue(s dst.Stmt, name string, define bool, rhs dst.Expr) ([]lang.Stmt, error) {
	if call, ok := rhs.(*dst.CallExpr); ok {
		if fn, ok := call.Fun.(*dst.Ident); ok && !l.isNondet(fn.Name) {
			return l.call(s, name, define, call)
		}
	}
	e, err := l.expr(rhs)
	if err != nil {
		return nil, err
	}
	v := l.bind(name, define)
	if v == "" {
		return nil, nil
	}
	return []lang.Stmt{&lang.AssignStmt{Span: l.span(s), Var: v, Value: e}}, nil
}

// decl lowers var declarations. Variables without a value are initialized to zero.
func (l *lowerer) decl(s *dst.DeclStmt) ([]lang.Stmt, error) {
	gen, ok := s.Decl.(*dst.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return nil, l.unsupported(s, "declaration that is not a var")
	}
	var res []lang.Stmt
	for _, spec := range gen.Specs {
		vs, ok := spec.(*dst.ValueSpec)
		if !ok {
			return nil, l.unsupported(s, "declaration %T", spec)
		}
		if len(vs.Values) != 0 && len(vs.Values) != len(vs.Names) {
			return nil, l.unsupported(s, "declaration of %d variables with %d values", len(vs.Names), len(vs.Values))
		}
		for i, id := range vs.Names {
			if len(vs.Values) == 0 {
				if v := l.declare(id.Name); v != "" {
					res = append(res, &lang.AssignStmt{Span: l.span(s), Var: v, Value: lang.Int(0)})
				}
				continue
			}
			stmts, err := l.assignValue(s, id.Name, true, vs.Values[i])
			if err != nil {
				return nil, err
			}
			res = append(res, stmts...)
		}
	}
	return res, nil
}

// call lowers a call whose result, if any, is assigned to the variable lhs, declared when define is true
func (l *lowerer) call(s dst.Stmt, lhs string, define bool, call *dst.CallExpr) ([]lang.Stmt, error) {
	fn, ok := call.Fun.(*dst.Ident)
	if !ok {
		return nil, l.unsupported(s, "call of a non-identifier")
	}
	if call.Ellipsis {
		return nil, l.unsupported(s, "variadic call")
	}
	args := make([]lang.Expr, len(call.Args))
	for i, a := range call.Args {
		e, err := l.expr(a)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	result := l.bind(lhs, define)
	switch {
	case fn.Name == l.opts.AssumeFunction && l.opts.AssumeFunction != "":
		if len(args) != 1 || result != "" {
			return nil, l.unsupported(s, "%s must be called with one argument", fn.Name)
		}
		return []lang.Stmt{&lang.AssumeStmt{Span: l.span(s), Cond: args[0]}}, nil
	case l.isNondet(fn.Name) && result == "":
		return []lang.Stmt{&lang.SkipStmt{Span: l.span(s)}}, nil
	}
	return []lang.Stmt{&lang.CallStmt{Span: l.span(s), Result: result, Callee: fn.Name, Args: args}}, nil
}

func (l *lowerer) ifStmt(s *dst.IfStmt) ([]lang.Stmt, error) {
	l.push()
	defer l.pop()
	var res []lang.Stmt
	if s.Init != nil {
		init, err := l.stmt(s.Init)
		if err != nil {
			return nil, err
		}
		res = append(res, init...)
	}
	cond, err := l.expr(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := l.block(s.Body)
	if err != nil {
		return nil, err
	}
	var els lang.Stmt
	switch e := s.Else.(type) {
	case *dst.BlockStmt:
		b, err := l.block(e)
		if err != nil {
			return nil, err
		}
		els = b
	case *dst.IfStmt:
		stmts, err := l.ifStmt(e)
		if err != nil {
			return nil, err
		}
		els = &lang.BlockStmt{List: stmts}
	}
	return append(res, &lang.IfStmt{Span: l.span(s), Cond: cond, Then: then, Else: els}), nil
}

// forStmt lowers for loops to while loops. The post statement is appended to the body, so it is rejected when
// the body continues the loop.
func (l *lowerer) forStmt(s *dst.ForStmt) ([]lang.Stmt, error) {
	l.push()
	defer l.pop()
	var res []lang.Stmt
	if s.Init != nil {
		init, err := l.stmt(s.Init)
		if err != nil {
			return nil, err
		}
		res = append(res, init...)
	}
	var cond lang.Expr = lang.Bool(true)
	if s.Cond != nil {
		c, err := l.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		cond = c
	}
	body, err := l.block(s.Body)
	if err != nil {
		return nil, err
	}
	if s.Post != nil {
		if continues(s.Body) {
			return nil, l.unsupported(s, "continue in a loop with a post statement")
		}
		post, err := l.stmt(s.Post)
		if err != nil {
			return nil, err
		}
		body.List = append(body.List, post...)
	}
	return append(res, &lang.WhileStmt{Span: l.span(s), Cond: cond, Body: body}), nil
}

// continues returns true if the loop body contains a continue statement for that loop
func continues(body *dst.BlockStmt) bool {
	found := false
	dst.Inspect(body, func(n dst.Node) bool {
		switch n := n.(type) {
		case *dst.ForStmt, *dst.RangeStmt, *dst.FuncLit:
			return false
		case *dst.BranchStmt:
			if n.Tok == token.CONTINUE {
				found = true
			}
		}
		return !found
	})
	return found
}

var assignOps = map[token.Token]lang.Op{
	token.ADD_ASSIGN: lang.Add,
	token.SUB_ASSIGN: lang.Sub,
	token.MUL_ASSIGN: lang.Mul,
	token.QUO_ASSIGN: lang.Quo,
	token.REM_ASSIGN: lang.Rem,
}

var binaryOps = map[token.Token]lang.Op{
	token.ADD:  lang.Add,
	token.SUB:  lang.Sub,
	token.MUL:  lang.Mul,
	token.QUO:  lang.Quo,
	token.REM:  lang.Rem,
	token.EQL:  lang.Eql,
	token.NEQ:  lang.Neq,
	token.LSS:  lang.Lss,
	token.LEQ:  lang.Leq,
	token.GTR:  lang.Gtr,
	token.GEQ:  lang.Geq,
	token.LAND: lang.LAnd,
	token.LOR:  lang.LOr,
}

func (l *lowerer) ident(id *dst.Ident) *lang.Ident {
	return &lang.Ident{Span: lang.Span{P: l.pos(id)}, Name: l.resolve(id.Name)}
}

func (l *lowerer) nondet(n dst.Node, name string) *lang.NondetExpr {
	return &lang.NondetExpr{Span: lang.Span{P: l.pos(n)}, Source: name}
}

//gocyclo:ignore
func (l *lowerer) expr(e dst.Expr) (lang.Expr, error) {
	switch e := e.(type) {
	case *dst.ParenExpr:
		return l.expr(e.X)
	case *dst.BasicLit:
		if e.Kind != token.INT {
			return nil, l.unsupported(e, "%s literal", e.Kind)
		}
		v, err := strconv.ParseInt(e.Value, 0, 64)
		if err != nil {
			return nil, l.unsupported(e, "integer literal %s", e.Value)
		}
		return &lang.IntLit{Span: lang.Span{P: l.pos(e)}, Value: v}, nil
	case *dst.Ident:
		switch e.Name {
		case "true":
			return &lang.IntLit{Span: lang.Span{P: l.pos(e)}, Value: 1}, nil
		case "false":
			return &lang.IntLit{Span: lang.Span{P: l.pos(e)}, Value: 0}, nil
		}
		return l.ident(e), nil
	case *dst.UnaryExpr:
		if lit, ok := e.X.(*dst.BasicLit); ok && e.Op == token.SUB && lit.Kind == token.INT {
			// -9223372036854775808 is only representable with its sign
			if v, err := strconv.ParseInt("-"+lit.Value, 0, 64); err == nil {
				return &lang.IntLit{Span: lang.Span{P: l.pos(e)}, Value: v}, nil
			}
		}
		x, err := l.expr(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case token.ADD:
			return x, nil
		case token.SUB:
			return &lang.UnaryExpr{Span: lang.Span{P: l.pos(e)}, Op: lang.Neg, X: x}, nil
		case token.NOT:
			return &lang.UnaryExpr{Span: lang.Span{P: l.pos(e)}, Op: lang.Not, X: x}, nil
		}
		return nil, l.unsupported(e, "unary operator %s", e.Op)
	case *dst.BinaryExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, l.unsupported(e, "binary operator %s", e.Op)
		}
		x, err := l.expr(e.X)
		if err != nil {
			return nil, err
		}
		y, err := l.expr(e.Y)
		if err != nil {
			return nil, err
		}
		return &lang.BinaryExpr{Span: lang.Span{P: l.pos(e)}, Op: op, X: x, Y: y}, nil
	case *dst.CallExpr:
		if fn, ok := e.Fun.(*dst.Ident); ok && l.isNondet(fn.Name) && len(e.Args) == 0 {
			return l.nondet(e, fn.Name), nil
		}
		return nil, l.unsupported(e, "call in an expression")
	}
	return nil, l.unsupported(e, "expression %T", e)
}
