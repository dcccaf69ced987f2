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

package cpa_test

import (
	"context"
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/value"
	. "github.com/awslabs/ar-go-cpa/analysis/lang"
	"golang.org/x/exp/slices"
)

// successor returns the only successor of s along the edge
func successor(t *testing.T, arg *cpa.ARGCPA, s *cpa.ARGState, edgeIndex int) *cpa.ARGState {
	t.Helper()
	succs := arg.Transfer(s, s.Location().Out[edgeIndex])
	if len(succs) != 1 {
		t.Fatalf("expected one successor of %s, got %d", s, len(succs))
	}
	return succs[0].(*cpa.ARGState)
}

func TestARGTransferLinks(t *testing.T) {
	c := buildCFA(t, Block(Assign("x", Int(1)), Call("f")))
	arg := newARG(t, value.MergeJoin)
	root := arg.InitialState(c.Entry).(*cpa.ARGState)
	s1 := successor(t, arg, root, 0)
	s2 := successor(t, arg, s1, 0)
	if root.ID() != 0 || s1.ID() != 1 || s2.ID() != 2 {
		t.Errorf("ids should follow creation order")
	}
	if ch := root.Children(); len(ch) != 1 || ch[0] != s1 {
		t.Errorf("expected s1 as only child of the root, got %v", ch)
	}
	if p := s2.Parents(); len(p) != 1 || p[0] != s1 {
		t.Errorf("expected s1 as only parent of s2, got %v", p)
	}
	if arg.Root() != root || arg.State(2) != s2 || arg.State(3) != nil {
		t.Errorf("unexpected ARG index")
	}
	if w := edgeStrings(cpa.Witness(s2)); len(w) != 2 || w[0] != "x = 1" || w[1] != "f()" {
		t.Errorf("unexpected witness %v", w)
	}
	checkARG(t, arg)
}

func TestARGMergeRelinks(t *testing.T) {
	c := buildCFA(t, If(Var("c"), Assign("x", Int(1)), Assign("x", Int(2))))
	arg := newARG(t, value.MergeJoin)
	root := arg.InitialState(c.Entry).(*cpa.ARGState)
	a1 := successor(t, arg, successor(t, arg, root, 0), 0)
	j1 := successor(t, arg, a1, 0)
	b1 := successor(t, arg, successor(t, arg, root, 1), 0)
	j2 := successor(t, arg, b1, 0)
	if j1.Location() != j2.Location() {
		t.Fatalf("expected both branches to reach the join node")
	}

	merged, ok := arg.Merge(j2, j1).(*cpa.ARGState)
	if !ok || merged == j1 {
		t.Fatalf("expected the states to be merged")
	}
	if !j1.Destroyed() || merged.Destroyed() {
		t.Errorf("the reached state should be destroyed and replaced")
	}
	if p := merged.Parents(); len(p) != 2 || p[0] != a1 || p[1] != b1 {
		t.Errorf("expected the merged state to have both parents, got %v", p)
	}
	if contains(a1.Children(), j1) || !contains(a1.Children(), merged) {
		t.Errorf("the parent of the reached state should point to the merged state")
	}
	if !arg.Stop(j2, []cpa.AbstractState{merged}) {
		t.Errorf("the merged state should cover the new state")
	}
	arg.Discard(j2)
	if ch := b1.Children(); len(ch) != 1 || ch[0] != merged {
		t.Errorf("expected the merged state as only child of b1, got %v", ch)
	}
	checkARG(t, arg)
	if w := cpa.Witness(merged); len(w) != 3 {
		t.Errorf("expected a witness of 3 edges, got %v", edgeStrings(w))
	}
}

func TestARGMergeSepKeepsStates(t *testing.T) {
	c := buildCFA(t, If(Var("c"), Assign("x", Int(1)), Assign("x", Int(2))))
	arg := newARG(t, value.MergeSep)
	root := arg.InitialState(c.Entry).(*cpa.ARGState)
	j1 := successor(t, arg, successor(t, arg, successor(t, arg, root, 0), 0), 0)
	j2 := successor(t, arg, successor(t, arg, successor(t, arg, root, 1), 0), 0)
	if m := arg.Merge(j2, j1); m != cpa.AbstractState(j1) {
		t.Errorf("expected no merge, got %s", m)
	}
	if arg.Stop(j2, []cpa.AbstractState{j1}) {
		t.Errorf("x = 2 is not covered by x = 1")
	}
}

func TestWitnessOfBrokenARGPanics(t *testing.T) {
	c := buildCFA(t, Block(
		Assign("x", Int(5)),
		Assign("y", Int(2)),
		Call(target),
	))
	arg := newARG(t, value.MergeJoin)
	res, err := cpa.NewAlgorithm(c, arg, cpa.Options{}, nil).Run(context.Background())
	if err != nil || res.Status != cpa.TargetFound {
		t.Fatalf("expected target found, got %s (%v)", res.Status, err)
	}
	// removing a state of the path disconnects the target from the root
	arg.Discard(res.Path[1])
	defer func() {
		r := recover()
		if _, ok := r.(*cpa.WitnessExtractionError); !ok {
			t.Errorf("expected a WitnessExtractionError panic, got %v", r)
		}
	}()
	cpa.Witness(res.Target)
}

func TestWitnessOfRoot(t *testing.T) {
	c := buildCFA(t, Block())
	arg := newARG(t, value.MergeJoin)
	root := arg.InitialState(c.Entry).(*cpa.ARGState)
	if w := cpa.Witness(root); len(w) != 0 {
		t.Errorf("expected an empty witness for the root, got %v", edgeStrings(w))
	}
	if p := cpa.WitnessPath(root); len(p) != 1 || p[0] != root {
		t.Errorf("expected the path [root], got %v", p)
	}
}

func TestWitnessBreadthFirst(t *testing.T) {
	res, _ := runAlgorithm(t, Block(
		If(Var("a"), Call("f"), Call("g")),
		Call(target),
	), cpa.Options{Waitlist: cpa.BreadthFirst})
	if res.Status != cpa.TargetFound || len(res.Witness) != 4 {
		t.Fatalf("expected a 4-edge witness, got %s %v", res.Status, edgeStrings(res.Witness))
	}
	if res.Witness[3].Callee != target {
		t.Errorf("the witness should end with the call to the target")
	}
}

func TestWitnessPathsUnrollMergedLoop(t *testing.T) {
	res, _ := runAlgorithm(t, Block(
		Assign("x", Int(0)),
		While(Bin(Lss, Var("x"), Int(3)), Block(
			If(Bin(Eql, Var("x"), Int(2)), Call(target), nil),
			Assign("x", Bin(Add, Var("x"), Int(1))),
		)),
	), cpa.Options{})
	if res.Status != cpa.TargetFound {
		t.Fatalf("expected target found, got %s", res.Status)
	}
	paths := cpa.WitnessPaths(res.Target, 8)
	if len(paths) < 2 {
		t.Fatalf("expected walks through the loop besides the shortest path, got %d", len(paths))
	}
	if !slices.Equal(paths[0], res.Path) {
		t.Errorf("the first walk should be the shortest path")
	}
	for i, p := range paths {
		if p[0] != res.Path[0] || p[len(p)-1] != res.Target {
			t.Errorf("walk %d does not go from the root to the target", i)
		}
		if i > 0 && len(p) < len(paths[i-1]) {
			t.Errorf("walk %d is shorter than walk %d", i, i-1)
		}
		if e := cpa.PathEdges(p); len(e) != len(p)-1 {
			t.Errorf("walk %d: expected %d edges, got %d", i, len(p)-1, len(e))
		}
	}
	if n := len(cpa.WitnessPaths(res.Target, 1)); n != 1 {
		t.Errorf("expected the limit to bound the walks, got %d", n)
	}
}
