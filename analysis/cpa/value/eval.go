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

package value

import (
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

// Eval returns the interval of the values of e in state s
//
//gocyclo:ignore
func Eval(e lang.Expr, s *State) Interval {
	switch e := e.(type) {
	case *lang.IntLit:
		return Const(e.Value)
	case *lang.Ident:
		return s.Get(e.Name)
	case *lang.NondetExpr:
		return Top()
	case *lang.UnaryExpr:
		x := Eval(e.X, s)
		switch e.Op {
		case lang.Neg:
			return x.Neg()
		case lang.Not:
			return Not(x)
		}
	case *lang.BinaryExpr:
		x, y := Eval(e.X, s), Eval(e.Y, s)
		switch e.Op {
		case lang.Add:
			return x.Add(y)
		case lang.Sub:
			return x.Sub(y)
		case lang.Mul:
			return x.Mul(y)
		case lang.Quo:
			return x.Quo(y)
		case lang.Rem:
			return x.Rem(y)
		case lang.LAnd:
			return And(x, y)
		case lang.LOr:
			return Or(x, y)
		default:
			if e.Op.IsComparison() {
				return Compare(e.Op, x, y)
			}
		}
	}
	return Top()
}

// Assume returns the state s restricted to the values for which cond holds, and false if cond cannot hold in s.
func Assume(s *State, cond lang.Expr) (*State, bool) {
	if Eval(cond, s).IsFalse() {
		return nil, false
	}
	return refine(s, cond, true)
}

// refine restricts s to the values where the truth value of cond is truth
func refine(s *State, cond lang.Expr, truth bool) (*State, bool) {
	switch c := cond.(type) {
	case *lang.UnaryExpr:
		if c.Op == lang.Not {
			return refine(s, c.X, !truth)
		}
	case *lang.BinaryExpr:
		switch {
		case (c.Op == lang.LAnd && truth) || (c.Op == lang.LOr && !truth):
			// both operands have the truth value
			s1, ok := refine(s, c.X, truth)
			if !ok {
				return nil, false
			}
			return refine(s1, c.Y, truth)
		case c.Op.IsComparison():
			op := c.Op
			if !truth {
				op = op.NegateComparison()
			}
			return refineComparison(s, op, c.X, c.Y)
		}
	case *lang.Ident:
		if truth {
			return restrict(s, c.Name, lang.Neq, Const(0))
		}
		return restrict(s, c.Name, lang.Eql, Const(0))
	}
	v := Eval(cond, s)
	if (truth && v.IsFalse()) || (!truth && v.IsTrue()) {
		return nil, false
	}
	return s, true
}

func refineComparison(s *State, op lang.Op, x, y lang.Expr) (*State, bool) {
	ok := true
	if id, isVar := x.(*lang.Ident); isVar {
		s, ok = restrict(s, id.Name, op, Eval(y, s))
		if !ok {
			return nil, false
		}
	}
	if id, isVar := y.(*lang.Ident); isVar {
		s, ok = restrict(s, id.Name, op.SwapComparison(), Eval(x, s))
		if !ok {
			return nil, false
		}
	}
	if Compare(op, Eval(x, s), Eval(y, s)).IsFalse() {
		return nil, false
	}
	return s, true
}

// restrict restricts the variable name of s to the values v' such that v' op v holds for some value of v
func restrict(s *State, name string, op lang.Op, v Interval) (*State, bool) {
	cur := s.Get(name)
	r, ok := cur, true
	switch op {
	case lang.Eql:
		r, ok = cur.Meet(v)
	case lang.Neq:
		if c, isConst := v.IsConst(); isConst {
			if cur.Lo == c && cur.Hi == c {
				return nil, false
			}
			if cur.Lo == c {
				r.Lo++
			} else if cur.Hi == c {
				r.Hi--
			}
		}
	case lang.Lss:
		if v.Hi == minValue {
			return nil, false
		}
		r, ok = Range(cur.Lo, min64(cur.Hi, v.Hi-1))
	case lang.Leq:
		r, ok = Range(cur.Lo, min64(cur.Hi, v.Hi))
	case lang.Gtr:
		if v.Lo == maxValue {
			return nil, false
		}
		r, ok = Range(max64(cur.Lo, v.Lo+1), cur.Hi)
	case lang.Geq:
		r, ok = Range(max64(cur.Lo, v.Lo), cur.Hi)
	}
	if !ok {
		return nil, false
	}
	if r == cur {
		return s, true
	}
	return s.With(name, r), true
}
