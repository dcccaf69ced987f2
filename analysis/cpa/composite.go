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
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
)

// CompositeCPA combines component CPAs into a CPA over tuples of their states. The i-th slot of every state of
// the composite belongs to the i-th component.
type CompositeCPA struct {
	components []CPA
}

// CompositeState is a tuple of component states. Composite states can only be created by their CompositeCPA,
// and a CompositeCPA only accepts its own states: a state produced by a different composite makes its operators
// panic.
type CompositeState struct {
	owner      *CompositeCPA
	components []AbstractState
}

// NewCompositeCPA returns the composition of the components, in order. It panics if no component is given.
func NewCompositeCPA(components ...CPA) *CompositeCPA {
	if len(components) == 0 {
		panic("cpa: composite without component")
	}
	return &CompositeCPA{components: append([]CPA(nil), components...)}
}

// Components returns the component CPAs
func (c *CompositeCPA) Components() []CPA {
	return append([]CPA(nil), c.components...)
}

// Len returns the number of components
func (c *CompositeCPA) Len() int {
	return len(c.components)
}

func (c *CompositeCPA) newState(components []AbstractState) *CompositeState {
	return &CompositeState{owner: c, components: components}
}

func (c *CompositeCPA) unwrap(state AbstractState) *CompositeState {
	s, ok := state.(*CompositeState)
	if !ok {
		panic(fmt.Sprintf("cpa: composite operator applied to %T", state))
	}
	if s.owner != c {
		panic("cpa: composite state used with a different composite CPA")
	}
	return s
}

// InitialState returns the tuple of the initial states of the components
func (c *CompositeCPA) InitialState(entry *cfa.Node) AbstractState {
	states := make([]AbstractState, len(c.components))
	for i, comp := range c.components {
		states[i] = comp.InitialState(entry)
	}
	return c.newState(states)
}

// Transfer returns the tuples of successors of the components. If one component has no successor, the edge is
// infeasible and there is none; if some component has several successors, the result is the cross product.
func (c *CompositeCPA) Transfer(state AbstractState, edge *cfa.Edge) []AbstractState {
	s := c.unwrap(state)
	tuples := [][]AbstractState{make([]AbstractState, 0, len(c.components))}
	for i, comp := range c.components {
		succs := comp.Transfer(s.components[i], edge)
		if len(succs) == 0 {
			return nil
		}
		if len(succs) == 1 {
			for j := range tuples {
				tuples[j] = append(tuples[j], succs[0])
			}
			continue
		}
		product := make([][]AbstractState, 0, len(tuples)*len(succs))
		for _, t := range tuples {
			for _, succ := range succs {
				product = append(product, append(append(make([]AbstractState, 0, len(c.components)), t...), succ))
			}
		}
		tuples = product
	}
	res := make([]AbstractState, len(tuples))
	for i, t := range tuples {
		res[i] = c.newState(t)
	}
	return res
}

// Merge merges each component with its own operator. Component states are compared by identity, so they must
// have comparable dynamic types (typically pointers). The tuples are merged only if, in every component, the
// merged slot covers the slot of the new state; in particular, states at different locations are never merged.
// If no component changes the reached state, Merge returns reached.
func (c *CompositeCPA) Merge(newState AbstractState, reached AbstractState) AbstractState {
	n, r := c.unwrap(newState), c.unwrap(reached)
	merged := make([]AbstractState, len(c.components))
	changed := false
	for i, comp := range c.components {
		m := comp.Merge(n.components[i], r.components[i])
		if !comp.Stop(n.components[i], []AbstractState{m}) {
			return reached
		}
		if m != r.components[i] && !comp.Stop(m, []AbstractState{r.components[i]}) {
			changed = true
		}
		merged[i] = m
	}
	if !changed {
		return reached
	}
	return c.newState(merged)
}

// Stop returns true if some reached tuple covers state in every component
func (c *CompositeCPA) Stop(state AbstractState, reached []AbstractState) bool {
	s := c.unwrap(state)
	return StopWith(state, reached, func(_, by AbstractState) bool {
		r := c.unwrap(by)
		for i, comp := range c.components {
			if !comp.Stop(s.components[i], []AbstractState{r.components[i]}) {
				return false
			}
		}
		return true
	})
}

// IsTarget returns true if one of the components is a target
func (c *CompositeCPA) IsTarget(state AbstractState) bool {
	s := c.unwrap(state)
	for i, comp := range c.components {
		if comp.IsTarget(s.components[i]) {
			return true
		}
	}
	return false
}

// Component returns the state of the i-th component
func (s *CompositeState) Component(i int) AbstractState {
	return s.components[i]
}

// Components returns the states of the components
func (s *CompositeState) Components() []AbstractState {
	return append([]AbstractState(nil), s.components...)
}

// Len returns the arity of the tuple
func (s *CompositeState) Len() int {
	return len(s.components)
}

// Location returns the location tracked by the first component that tracks locations, or nil if there is none
func (s *CompositeState) Location() *cfa.Node {
	for _, comp := range s.components {
		if l, ok := comp.(LocationState); ok {
			return l.Location()
		}
	}
	return nil
}

func (s *CompositeState) String() string {
	parts := make([]string, len(s.components))
	for i, comp := range s.components {
		parts[i] = comp.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
