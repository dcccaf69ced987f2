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
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/value"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

// chain returns the root and the successors along the straight-line program
func chain(t *testing.T, n int) (*cpa.ARGCPA, []*cpa.ARGState) {
	t.Helper()
	stmts := make([]lang.Stmt, n)
	for i := range stmts {
		stmts[i] = lang.Call("f")
	}
	c := buildCFA(t, lang.Block(stmts...))
	arg := newARG(t, value.MergeJoin)
	states := []*cpa.ARGState{arg.InitialState(c.Entry).(*cpa.ARGState)}
	for i := 0; i < n; i++ {
		states = append(states, successor(t, arg, states[i], 0))
	}
	return arg, states
}

func popAll(r *cpa.ReachedSet) []int64 {
	var ids []int64
	for {
		s, ok := r.Pop()
		if !ok {
			return ids
		}
		ids = append(ids, s.ID())
	}
}

func TestWaitlistOrders(t *testing.T) {
	_, states := chain(t, 3)
	for _, test := range []struct {
		order    cpa.WaitlistOrder
		expected []int64
	}{
		{cpa.DepthFirst, []int64{3, 2, 1, 0}},
		{"", []int64{3, 2, 1, 0}},
		{cpa.BreadthFirst, []int64{0, 1, 2, 3}},
	} {
		w, err := cpa.NewWaitlist(test.order)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := cpa.NewReachedSet(w)
		for _, s := range states {
			r.Add(s)
		}
		if r.Waiting() != 4 || !r.HasWaiting() {
			t.Errorf("expected 4 waiting states, got %d", r.Waiting())
		}
		ids := popAll(r)
		if len(ids) != len(test.expected) {
			t.Fatalf("%s: expected %v, got %v", test.order, test.expected, ids)
		}
		for i := range ids {
			if ids[i] != test.expected[i] {
				t.Errorf("%s: expected %v, got %v", test.order, test.expected, ids)
				break
			}
		}
		if r.HasWaiting() || r.Size() != 4 {
			t.Errorf("popping should empty the waitlist but keep the reached states")
		}
	}
}

func TestQueueCompaction(t *testing.T) {
	_, states := chain(t, 9)
	q := &cpa.Queue{}
	for round := 0; round < 3; round++ {
		for _, s := range states {
			q.Push(s)
		}
		for i := 0; i < 5; i++ {
			if s := q.Pop(); s != states[i] {
				t.Fatalf("round %d: expected %s, got %s", round, states[i], s)
			}
		}
		for q.Len() > 0 {
			q.Pop()
		}
	}
}

func TestReachedSetReplace(t *testing.T) {
	_, states := chain(t, 2)
	w, _ := cpa.NewWaitlist(cpa.DepthFirst)
	r := cpa.NewReachedSet(w)
	r.Add(states[0])
	r.Add(states[1])
	r.Add(states[1])
	if r.Size() != 2 {
		t.Fatalf("adding a state twice should not duplicate it")
	}
	// states[2] is at another location, it stands for the result of a merge
	r.Replace(states[1], states[2])
	if r.Contains(states[1]) || r.IsWaiting(states[1]) {
		t.Errorf("the replaced state should leave the reached set and the waitlist")
	}
	if !r.Contains(states[2]) || !r.IsWaiting(states[2]) {
		t.Errorf("the new state should be reached and waiting")
	}
	if all := r.States(); len(all) != 2 || all[1] != states[2] {
		t.Errorf("the new state should take the position of the replaced one, got %v", all)
	}
	if at := r.StatesAt(states[1].Location()); len(at) != 0 {
		t.Errorf("expected no state at the old location, got %v", at)
	}
	if at := r.StatesAt(states[2].Location()); len(at) != 1 || at[0] != states[2] {
		t.Errorf("expected the new state at its location, got %v", at)
	}
	if ids := popAll(r); len(ids) != 2 || ids[0] != 2 || ids[1] != 0 {
		t.Errorf("the replaced state should be skipped by the waitlist, got %v", ids)
	}
}
