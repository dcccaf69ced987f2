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

// Package unreachcall implements the CPA detecting calls to a target function.
//
// The state of the analysis records whether the target function has been called along the path. Once set, the
// flag stays set on all the continuations of the path.
package unreachcall

import (
	"fmt"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// State records the call to the target function, if it has happened
type State struct {
	call funcutil.Optional[string]
}

// Reached returns true if the target function has been called
func (s *State) Reached() bool {
	return s.call.IsSome()
}

// Call returns the name of the function whose call set the flag, or the empty string
func (s *State) Call() string {
	return s.call.ValueOr("")
}

func (s *State) String() string {
	return funcutil.MapOption(s.call, func(name string) string { return "called " + name }).ValueOr("safe")
}

// CPA is the unreachable-call analysis
type CPA struct {
	target string
	// the states are shared since they carry no other information
	initial *State
}

// New returns the analysis of the calls to the function named target
func New(target string) *CPA {
	return &CPA{target: target, initial: &State{call: funcutil.None[string]()}}
}

// Target returns the name of the target function
func (c *CPA) Target() string {
	return c.target
}

func unwrap(state cpa.AbstractState) *State {
	s, ok := state.(*State)
	if !ok {
		panic(fmt.Sprintf("unreachcall: unexpected state %T", state))
	}
	return s
}

// InitialState returns the state where the target has not been called
func (c *CPA) InitialState(*cfa.Node) cpa.AbstractState {
	return c.initial
}

// Transfer sets the flag on a call edge to the target, and keeps the state unchanged on every other edge
func (c *CPA) Transfer(state cpa.AbstractState, edge *cfa.Edge) []cpa.AbstractState {
	s := unwrap(state)
	if !s.Reached() && edge.Kind == cfa.CallEdge && edge.Callee == c.target {
		return []cpa.AbstractState{&State{call: funcutil.Some(edge.Callee)}}
	}
	return []cpa.AbstractState{s}
}

// Merge never merges
func (c *CPA) Merge(newState cpa.AbstractState, reached cpa.AbstractState) cpa.AbstractState {
	return cpa.MergeSep(newState, reached)
}

// Stop returns true if some reached state has the same flag
func (c *CPA) Stop(state cpa.AbstractState, reached []cpa.AbstractState) bool {
	return cpa.StopWith(state, reached, func(s, by cpa.AbstractState) bool {
		return funcutil.OptionalEqual(unwrap(s).call, unwrap(by).call)
	})
}

// IsTarget returns true if the target function has been called
func (c *CPA) IsTarget(state cpa.AbstractState) bool {
	return unwrap(state).Reached()
}
