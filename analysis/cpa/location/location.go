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

// Package location implements the CPA tracking the control location of the program.
package location

import (
	"fmt"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
)

// State is the location of the program: control is at node
type State struct {
	node *cfa.Node
}

// Location returns the CFA node
func (s *State) Location() *cfa.Node {
	return s.node
}

func (s *State) String() string {
	return s.node.String()
}

// CPA is the location analysis. Its states are never merged and never targets.
type CPA struct{}

// New returns the location analysis
func New() *CPA {
	return &CPA{}
}

func unwrap(state cpa.AbstractState) *State {
	s, ok := state.(*State)
	if !ok {
		panic(fmt.Sprintf("location: unexpected state %T", state))
	}
	return s
}

// InitialState returns the entry location
func (c *CPA) InitialState(entry *cfa.Node) cpa.AbstractState {
	return &State{node: entry}
}

// Transfer moves to the target of the edge. There is no successor if the edge does not leave the location.
func (c *CPA) Transfer(state cpa.AbstractState, edge *cfa.Edge) []cpa.AbstractState {
	if unwrap(state).node != edge.Source {
		return nil
	}
	return []cpa.AbstractState{&State{node: edge.Target}}
}

// Merge never merges
func (c *CPA) Merge(newState cpa.AbstractState, reached cpa.AbstractState) cpa.AbstractState {
	return cpa.MergeSep(newState, reached)
}

// Stop returns true if some reached state is at the same location
func (c *CPA) Stop(state cpa.AbstractState, reached []cpa.AbstractState) bool {
	return cpa.StopWith(state, reached, func(s, by cpa.AbstractState) bool {
		return unwrap(s).node == unwrap(by).node
	})
}

// IsTarget returns false
func (c *CPA) IsTarget(cpa.AbstractState) bool {
	return false
}
