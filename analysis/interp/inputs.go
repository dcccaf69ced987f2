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

package interp

import (
	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/value"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// InputsFromPath chooses concrete inputs for the witness edges, such that edges[i] goes from the location of
// path[i] to the location of path[i+1]. The values are taken from the value analysis components of the states
// along the path: a variable read before being assigned gets a value of its interval just before its first
// assignment, and a nondeterministic value assigned to a variable gets a value of the interval of that variable
// just before it is assigned again. Other nondeterministic values are zero.
//
// When the path has no value component, all the inputs are zero.
func InputsFromPath(path []*cpa.ARGState, edges []*cfa.Edge) Inputs {
	in := Inputs{Initial: map[string]int64{}}
	if len(path) == 0 {
		return in
	}
	last := len(path) - 1
	// nextWrite returns the index of the first edge at or after i that writes name, or the last state
	nextWrite := func(i int, name string) int {
		for j := i; j < len(edges) && j < last; j++ {
			if writes(edges[j]) == name {
				return j
			}
		}
		return last
	}

	var assigned []string
	readBefore := func(i int, e lang.Expr) {
		for _, name := range lang.ExprVars(e) {
			if funcutil.Contains(assigned, name) {
				continue
			}
			if _, done := in.Initial[name]; !done {
				in.Initial[name] = pick(valueAt(path[nextWrite(i, name)], name))
			}
		}
	}
	zeros := func(e lang.Expr) {
		lang.InspectExpr(e, func(x lang.Expr) {
			if _, ok := x.(*lang.NondetExpr); ok {
				in.Nondet = append(in.Nondet, 0)
			}
		})
	}

	for i, e := range edges {
		switch e.Kind {
		case cfa.AssignEdge:
			readBefore(i, e.Expr)
			if _, ok := e.Expr.(*lang.NondetExpr); ok {
				in.Nondet = append(in.Nondet, pick(valueAt(path[nextWrite(i+1, e.Var)], e.Var)))
			} else {
				zeros(e.Expr)
			}
		case cfa.AssumeEdge:
			readBefore(i, e.Expr)
			zeros(e.Expr)
		case cfa.CallEdge:
			for _, arg := range e.Args {
				readBefore(i, arg)
				zeros(arg)
			}
			if e.Var != "" {
				in.Nondet = append(in.Nondet, pick(valueAt(path[nextWrite(i+1, e.Var)], e.Var)))
			}
		}
		if name := writes(e); name != "" {
			assigned = funcutil.AddUnique(assigned, name)
		}
	}
	return in
}

func writes(e *cfa.Edge) string {
	switch e.Kind {
	case cfa.AssignEdge, cfa.CallEdge:
		return e.Var
	}
	return ""
}

// valueAt returns the interval of name in the value component of s, or top
func valueAt(s *cpa.ARGState, name string) value.Interval {
	for _, c := range s.Wrapped().Components() {
		if vs, ok := c.(*value.State); ok {
			return vs.Get(name)
		}
	}
	return value.Top()
}

// pick returns the value of the interval closest to zero
func pick(i value.Interval) int64 {
	switch {
	case i.Contains(0):
		return 0
	case i.Lo > 0:
		return i.Lo
	default:
		return i.Hi
	}
}
