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

// Package cpa implements configurable program analysis: abstract domains packaged with their operators, combined
// by the composite CPA, wrapped by the ARG CPA that records the abstract reachability graph, and explored by the
// worklist algorithm.
//
// The algorithm decides whether a target state is reachable from the entry of a CFA. It terminates when every
// component domain has no infinite ascending chain along the loops of the program (or merges to a finite height,
// as the value analysis does with its join policy). With other domains, bound the exploration with
// Options.MaxIterations or a context deadline: the result is then Inconclusive, never Exhausted.
package cpa

import (
	"github.com/awslabs/ar-go-cpa/analysis/cfa"
)

// An AbstractState represents what an analysis knows at a node of the abstract reachability graph.
// Abstract states are immutable: the operators of a CPA return new states instead of modifying their arguments.
type AbstractState interface {
	String() string
}

// A CPA is an abstract domain with its operators.
type CPA interface {
	// InitialState returns the state at the entry of the program
	InitialState(entry *cfa.Node) AbstractState

	// Transfer returns the successors of state along the edge. An empty result means the edge cannot be taken
	// from state.
	Transfer(state AbstractState, edge *cfa.Edge) []AbstractState

	// Merge combines a new state with a reached state at the same location. The result replaces reached in the
	// reached set; returning reached itself means the states are kept separate (merge-sep). When the result is
	// not reached, it must cover both arguments.
	Merge(newState AbstractState, reached AbstractState) AbstractState

	// Stop returns true if state is covered by one of the reached states
	Stop(state AbstractState, reached []AbstractState) bool

	// IsTarget returns true if state violates the property being checked
	IsTarget(state AbstractState) bool
}

// LocationState is implemented by the abstract states that track the control location of the program
type LocationState interface {
	Location() *cfa.Node
}

// MergeSep returns reached: the states are never merged
func MergeSep(_ AbstractState, reached AbstractState) AbstractState {
	return reached
}

// StopWith returns true if some reached state covers state according to covers.
func StopWith(state AbstractState, reached []AbstractState, covers func(state, by AbstractState) bool) bool {
	for _, r := range reached {
		if covers(state, r) {
			return true
		}
	}
	return false
}
