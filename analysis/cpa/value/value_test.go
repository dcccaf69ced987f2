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
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

func newCPA(t *testing.T, merge MergePolicy) *CPA {
	t.Helper()
	c, err := New(merge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func buildCFA(t *testing.T, prog lang.Stmt) *cfa.CFA {
	t.Helper()
	c, err := cfa.NewBuilder(nil).Build("test", prog)
	if err != nil {
		t.Fatalf("failed to build CFA: %v", err)
	}
	return c
}

// post applies the transfer of the edge and checks there is at most one successor
func post(t *testing.T, c *CPA, s cpa.AbstractState, e *cfa.Edge) *State {
	t.Helper()
	succs := c.Transfer(s, e)
	switch len(succs) {
	case 0:
		return nil
	case 1:
		return succs[0].(*State)
	}
	t.Fatalf("expected at most one successor, got %d", len(succs))
	return nil
}

func TestTransferAssignments(t *testing.T) {
	c := newCPA(t, MergeJoin)
	prog := buildCFA(t, lang.Block(
		lang.Assign("x", lang.Int(5)),
		lang.Assign("y", lang.Bin(lang.Add, lang.Var("x"), lang.Int(2))),
		lang.Assign("z", lang.Bin(lang.Mul, lang.Var("y"), lang.Var("w"))),
		lang.Assign("n", lang.Nondet("__VERIFIER_nondet_int")),
	))
	s := c.InitialState(prog.Entry)
	for _, e := range prog.Edges {
		s = post(t, c, s, e)
	}
	if str := s.String(); str != "{x: 5, y: 7}" {
		t.Errorf("expected {x: 5, y: 7}, got %s", str)
	}
}

func TestTransferCalls(t *testing.T) {
	c := newCPA(t, MergeJoin)
	prog := buildCFA(t, lang.Block(
		lang.Assign("x", lang.Int(1)),
		lang.Assign("y", lang.Int(2)),
		lang.CallAssign("x", "f", lang.Var("y")),
		lang.Call("g", lang.Var("y")),
	))
	s := c.InitialState(prog.Entry)
	for _, e := range prog.Edges {
		s = post(t, c, s, e)
	}
	if str := s.String(); str != "{y: 2}" {
		t.Errorf("the result of a call should be top, got %s", str)
	}
}

func TestAssumePrunesDeadBranch(t *testing.T) {
	c := newCPA(t, MergeJoin)
	prog := buildCFA(t, lang.If(lang.Int(0), lang.Call("reach_error"), nil))
	thenEdge, elseEdge := prog.Entry.Out[0], prog.Entry.Out[1]
	s := c.InitialState(prog.Entry)
	if succs := c.Transfer(s, thenEdge); len(succs) != 0 {
		t.Errorf("expected no successor on assume(0), got %v", succs)
	}
	if succ := post(t, c, s, elseEdge); succ == nil {
		t.Errorf("expected a successor on assume(!0)")
	}
}

func TestAssumeRefines(t *testing.T) {
	c := newCPA(t, MergeJoin)
	prog := buildCFA(t, lang.If(lang.Bin(lang.Gtr, lang.Var("x"), lang.Int(0)), lang.Skip(), lang.Skip()))
	s := c.InitialState(prog.Entry)
	if x := post(t, c, s, prog.Entry.Out[0]).Get("x"); x != rng(1, maxValue) {
		t.Errorf("expected x in [1, max] in the then branch, got %s", x)
	}
	if x := post(t, c, s, prog.Entry.Out[1]).Get("x"); x != rng(minValue, 0) {
		t.Errorf("expected x in [min, 0] in the else branch, got %s", x)
	}
	neg := NewState(map[string]Interval{"x": Const(-1)})
	if succ := post(t, c, neg, prog.Entry.Out[0]); succ != nil {
		t.Errorf("x > 0 cannot hold when x = -1, got %s", succ)
	}
}

func TestAssumeConditions(t *testing.T) {
	x, y := lang.Var("x"), lang.Var("y")
	s := NewState(map[string]Interval{"x": rng(0, 10), "y": rng(5, 20)})
	tests := []struct {
		cond     lang.Expr
		feasible bool
		x, y     Interval
	}{
		{lang.Bin(lang.Lss, x, y), true, rng(0, 10), rng(5, 20)},
		{lang.Bin(lang.Gtr, x, y), true, rng(6, 10), rng(5, 9)},
		{lang.Bin(lang.Eql, x, y), true, rng(5, 10), rng(5, 10)},
		{lang.Bin(lang.Geq, x, lang.Int(11)), false, Interval{}, Interval{}},
		{lang.Bin(lang.Neq, x, lang.Int(0)), true, rng(1, 10), rng(5, 20)},
		{lang.Bin(lang.LAnd, lang.Bin(lang.Leq, x, lang.Int(3)), lang.Bin(lang.Geq, y, lang.Int(15))), true,
			rng(0, 3), rng(15, 20)},
		{lang.Negate(lang.Bin(lang.LOr, lang.Bin(lang.Gtr, x, lang.Int(3)), lang.Bin(lang.Lss, y, lang.Int(15)))),
			true, rng(0, 3), rng(15, 20)},
		{lang.Negate(x), true, Const(0), rng(5, 20)},
		{lang.Bin(lang.Lss, lang.Bin(lang.Add, x, y), lang.Int(5)), false, Interval{}, Interval{}},
		{lang.Bin(lang.Lss, lang.Bin(lang.Add, x, y), lang.Int(6)), true, rng(0, 10), rng(5, 20)},
	}
	for _, test := range tests {
		r, ok := Assume(s, test.cond)
		if ok != test.feasible {
			t.Errorf("assume(%s): expected feasible = %v", test.cond, test.feasible)
			continue
		}
		if ok && (r.Get("x") != test.x || r.Get("y") != test.y) {
			t.Errorf("assume(%s): expected x = %s, y = %s, got %s", test.cond, test.x, test.y, r)
		}
	}
}

func TestMergeJoin(t *testing.T) {
	c := newCPA(t, MergeJoin)
	reached := NewState(map[string]Interval{"x": Const(0), "y": Const(1)})
	newState := NewState(map[string]Interval{"x": Const(1), "y": Const(1)})
	merged := c.Merge(newState, reached).(*State)
	if merged.String() != "{y: 1}" {
		t.Errorf("expected {y: 1}, got %s", merged)
	}
	if !c.Stop(newState, []cpa.AbstractState{merged}) || !c.Stop(reached, []cpa.AbstractState{merged}) {
		t.Errorf("the merged state should cover both states")
	}
	if m := c.Merge(NewState(map[string]Interval{"x": Const(0), "y": Const(1), "z": Const(3)}), reached); m != reached {
		t.Errorf("merging a more precise state should return the reached state, got %s", m)
	}
}

func TestMergeSep(t *testing.T) {
	c := newCPA(t, MergeSep)
	reached := NewState(map[string]Interval{"x": Const(0)})
	if m := c.Merge(NewState(map[string]Interval{"x": Const(1)}), reached); m != reached {
		t.Errorf("merge-sep should return the reached state, got %s", m)
	}
}

func TestStop(t *testing.T) {
	c := newCPA(t, MergeJoin)
	s := NewState(map[string]Interval{"x": Const(3)})
	tests := []struct {
		reached  []cpa.AbstractState
		expected bool
	}{
		{nil, false},
		{[]cpa.AbstractState{NewState(map[string]Interval{"x": Const(4)})}, false},
		{[]cpa.AbstractState{NewState(map[string]Interval{"x": Const(3)})}, true},
		{[]cpa.AbstractState{NewState(map[string]Interval{"x": rng(0, 5), "y": Const(0)})}, false},
		{[]cpa.AbstractState{NewState(map[string]Interval{"y": Const(0)}), NewState(nil)}, true},
	}
	for i, test := range tests {
		if got := c.Stop(s, test.reached); got != test.expected {
			t.Errorf("test %d: expected %v, got %v", i, test.expected, got)
		}
	}
}

func TestNewStateDropsTop(t *testing.T) {
	s := NewState(map[string]Interval{"x": Top(), "y": Const(2)})
	if vars := s.Vars(); len(vars) != 1 || vars[0] != "y" {
		t.Errorf("expected only y to be tracked, got %v", vars)
	}
	if !s.With("y", Top()).Equal(NewState(nil)) {
		t.Errorf("assigning top should forget the variable")
	}
}

func TestNewUnknownPolicy(t *testing.T) {
	if _, err := New("widen"); err == nil {
		t.Errorf("expected error for unknown merge policy")
	}
}
