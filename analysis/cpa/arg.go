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

package cpa

import (
	"fmt"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// ARGState is a node of the abstract reachability graph: a composite state with links to the states it has been
// computed from (its parents) and the states computed from it (its children).
type ARGState struct {
	id        int
	owner     *ARGCPA
	wrapped   *CompositeState
	parents   []*ARGState
	children  []*ARGState
	destroyed bool
}

// ID returns the identifier of the state, unique in its ARG. Identifiers increase with creation order: the
// initial state gets id 0, and a state merged into the root replaces it with a fresh, larger id.
func (s *ARGState) ID() int64 {
	return int64(s.id)
}

// Wrapped returns the composite state
func (s *ARGState) Wrapped() *CompositeState {
	return s.wrapped
}

// Location returns the location of the wrapped state
func (s *ARGState) Location() *cfa.Node {
	return s.wrapped.Location()
}

// Parents returns the states s has been computed from
func (s *ARGState) Parents() []*ARGState {
	return append([]*ARGState(nil), s.parents...)
}

// Children returns the states computed from s
func (s *ARGState) Children() []*ARGState {
	return append([]*ARGState(nil), s.children...)
}

// Destroyed returns true if the state has been removed from the ARG, either because it was covered or because it
// has been replaced by the result of a merge.
func (s *ARGState) Destroyed() bool {
	return s.destroyed
}

func (s *ARGState) String() string {
	return fmt.Sprintf("ARG#%d %s", s.id, s.wrapped)
}

// ARGCPA wraps a composite CPA and records the abstract reachability graph of the states it creates.
// The operators of the composite are not modified.
type ARGCPA struct {
	wrapped *CompositeCPA
	root    *ARGState
	// states indexes all the states created since the last initial state by id
	states []*ARGState
}

// NewARGCPA returns an ARG CPA wrapping the composite
func NewARGCPA(wrapped *CompositeCPA) *ARGCPA {
	return &ARGCPA{wrapped: wrapped}
}

// Wrapped returns the composite CPA
func (a *ARGCPA) Wrapped() *CompositeCPA {
	return a.wrapped
}

// Root returns the initial state of the current ARG, or nil if InitialState has not been called
func (a *ARGCPA) Root() *ARGState {
	return a.root
}

// States returns the states of the ARG that have not been destroyed, in creation order
func (a *ARGCPA) States() []*ARGState {
	var live []*ARGState
	for _, s := range a.states {
		if !s.destroyed {
			live = append(live, s)
		}
	}
	return live
}

// State returns the state with the given id, or nil if there is none
func (a *ARGCPA) State(id int64) *ARGState {
	if id < 0 || id >= int64(len(a.states)) {
		return nil
	}
	return a.states[id]
}

func (a *ARGCPA) newState(wrapped *CompositeState) *ARGState {
	s := &ARGState{id: len(a.states), owner: a, wrapped: wrapped}
	a.states = append(a.states, s)
	return s
}

func (a *ARGCPA) unwrap(state AbstractState) *ARGState {
	s, ok := state.(*ARGState)
	if !ok {
		panic(fmt.Sprintf("cpa: ARG operator applied to %T", state))
	}
	if s.owner != a {
		panic("cpa: ARG state used with a different ARG CPA")
	}
	return s
}

// InitialState starts a new ARG, whose root wraps the initial state of the composite
func (a *ARGCPA) InitialState(entry *cfa.Node) AbstractState {
	a.states = nil
	a.root = a.newState(a.wrapped.InitialState(entry).(*CompositeState))
	return a.root
}

// Transfer returns new children of state, one per successor of the composite
func (a *ARGCPA) Transfer(state AbstractState, edge *cfa.Edge) []AbstractState {
	s := a.unwrap(state)
	succs := a.wrapped.Transfer(s.wrapped, edge)
	res := make([]AbstractState, len(succs))
	for i, succ := range succs {
		child := a.newState(succ.(*CompositeState))
		link(s, child)
		res[i] = child
	}
	return res
}

// Merge merges the wrapped states. If the composite merges them, the result is a new ARG state taking the place of
// reached: its parents are the parents of both states, its children are the children of reached, and reached is
// destroyed. newState is left in the ARG; the caller discards it if it is covered by the result.
func (a *ARGCPA) Merge(newState AbstractState, reached AbstractState) AbstractState {
	n, r := a.unwrap(newState), a.unwrap(reached)
	m := a.wrapped.Merge(n.wrapped, r.wrapped)
	if m == AbstractState(r.wrapped) {
		return reached
	}
	merged := a.newState(m.(*CompositeState))
	for _, p := range r.parents {
		link(p, merged)
	}
	for _, p := range n.parents {
		link(p, merged)
	}
	for _, c := range r.children {
		link(merged, c)
	}
	if a.root == r {
		a.root = merged
	}
	a.Discard(r)
	return merged
}

// Stop delegates to the composite
func (a *ARGCPA) Stop(state AbstractState, reached []AbstractState) bool {
	s := a.unwrap(state)
	wrapped := make([]AbstractState, len(reached))
	for i, r := range reached {
		wrapped[i] = a.unwrap(r).wrapped
	}
	return a.wrapped.Stop(s.wrapped, wrapped)
}

// IsTarget delegates to the composite
func (a *ARGCPA) IsTarget(state AbstractState) bool {
	return a.wrapped.IsTarget(a.unwrap(state).wrapped)
}

// Discard removes state from the ARG: it is unlinked from its parents and children and marked as destroyed.
func (a *ARGCPA) Discard(state AbstractState) {
	s := a.unwrap(state)
	for _, p := range s.parents {
		p.children = funcutil.Remove(p.children, s)
	}
	for _, c := range s.children {
		c.parents = funcutil.Remove(c.parents, s)
	}
	s.parents = nil
	s.children = nil
	s.destroyed = true
}

func link(parent, child *ARGState) {
	parent.children = funcutil.AddUnique(parent.children, child)
	child.parents = funcutil.AddUnique(child.parents, parent)
}
