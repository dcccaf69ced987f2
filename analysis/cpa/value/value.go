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

// Package value implements the value analysis: a non-relational analysis tracking an interval of possible values
// for each integer variable.
//
// Constants are singleton intervals and variables without information are unbounded (top). Assignments evaluate
// their expression over intervals, and assume edges whose condition cannot hold are infeasible. When the
// condition compares a variable with an expression, the interval of the variable is refined.
//
// Arithmetic wraps around as in Go: an operation that may overflow gives top.
package value

import (
	"fmt"
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// MergePolicy is the merge operator of the value analysis
type MergePolicy string

const (
	// MergeJoin merges the states variable by variable: the values that are equal in both states are kept, the
	// others become top. Since a variable can only go to top once, the analysis of a loop terminates.
	MergeJoin MergePolicy = "join"
	// MergeSep never merges. The analysis of a loop may not terminate.
	MergeSep MergePolicy = "sep"
)

// State maps variables to their interval of possible values. Variables that are not in the map are top.
type State struct {
	vars map[string]Interval
}

// NewState returns the state mapping the variables to their intervals
func NewState(vars map[string]Interval) *State {
	s := &State{vars: make(map[string]Interval, len(vars))}
	for name, v := range vars {
		if !v.IsTop() {
			s.vars[name] = v
		}
	}
	return s
}

// Get returns the interval of the variable
func (s *State) Get(name string) Interval {
	if v, ok := s.vars[name]; ok {
		return v
	}
	return Top()
}

// Vars returns the variables that are not top, in alphabetical order
func (s *State) Vars() []string {
	return funcutil.SortedKeys(s.vars)
}

// With returns a copy of s where the variable has the interval v
func (s *State) With(name string, v Interval) *State {
	vars := make(map[string]Interval, len(s.vars)+1)
	for x, w := range s.vars {
		vars[x] = w
	}
	if v.IsTop() {
		delete(vars, name)
	} else {
		vars[name] = v
	}
	return &State{vars: vars}
}

// Includes returns true if every variable of o has a value included in its value in s
func (s *State) Includes(o *State) bool {
	return funcutil.ForAll(s.Vars(), func(name string) bool { return s.vars[name].Includes(o.Get(name)) })
}

// Equal returns true if s and o map the variables to the same intervals
func (s *State) Equal(o *State) bool {
	if len(s.vars) != len(o.vars) {
		return false
	}
	for name, v := range s.vars {
		if w, ok := o.vars[name]; !ok || w != v {
			return false
		}
	}
	return true
}

// Join returns the state keeping the variables that have the same value in s and o. The other variables are top.
func (s *State) Join(o *State) *State {
	vars := map[string]Interval{}
	for name, v := range s.vars {
		if w, ok := o.vars[name]; ok && w == v {
			vars[name] = v
		}
	}
	return &State{vars: vars}
}

func (s *State) String() string {
	parts := funcutil.Map(s.Vars(), func(name string) string {
		return name + ": " + s.vars[name].String()
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// CPA is the value analysis
type CPA struct {
	merge MergePolicy
}

// New returns the value analysis with the merge policy
func New(merge MergePolicy) (*CPA, error) {
	switch merge {
	case MergeJoin, MergeSep:
		return &CPA{merge: merge}, nil
	}
	return nil, fmt.Errorf("unknown merge policy %q for the value analysis", merge)
}

func unwrap(state cpa.AbstractState) *State {
	s, ok := state.(*State)
	if !ok {
		panic(fmt.Sprintf("value: unexpected state %T", state))
	}
	return s
}

// InitialState returns the state where all the variables are top
func (c *CPA) InitialState(*cfa.Node) cpa.AbstractState {
	return &State{vars: map[string]Interval{}}
}

// Transfer returns the state after the edge, or no state if the edge is an assumption that cannot hold.
// A call edge assigns top to the variable receiving the result, if any.
func (c *CPA) Transfer(state cpa.AbstractState, edge *cfa.Edge) []cpa.AbstractState {
	s := unwrap(state)
	switch edge.Kind {
	case cfa.AssignEdge:
		return []cpa.AbstractState{s.With(edge.Var, Eval(edge.Expr, s))}
	case cfa.AssumeEdge:
		refined, ok := Assume(s, edge.Condition())
		if !ok {
			return nil
		}
		return []cpa.AbstractState{refined}
	case cfa.CallEdge:
		if edge.Var != "" {
			return []cpa.AbstractState{s.With(edge.Var, Top())}
		}
	}
	return []cpa.AbstractState{s}
}

// Merge merges the states according to the merge policy of the analysis
func (c *CPA) Merge(newState cpa.AbstractState, reached cpa.AbstractState) cpa.AbstractState {
	if c.merge == MergeSep {
		return cpa.MergeSep(newState, reached)
	}
	r := unwrap(reached)
	joined := unwrap(newState).Join(r)
	if joined.Equal(r) {
		return reached
	}
	return joined
}

// Stop returns true if some reached state includes state
func (c *CPA) Stop(state cpa.AbstractState, reached []cpa.AbstractState) bool {
	return cpa.StopWith(state, reached, func(s, by cpa.AbstractState) bool {
		return unwrap(by).Includes(unwrap(s))
	})
}

// IsTarget returns false
func (c *CPA) IsTarget(cpa.AbstractState) bool {
	return false
}
