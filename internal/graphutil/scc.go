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

package graphutil

// StronglyConnectedComponents is an implementation of Tarjan's strongly connected component (SCC) algorithm
// for generic nodes T.
// successors returns a slice containing the targets of directed edges out from the given node.
// The order of SCCs is toposorted so that successors appear first. Within an SCC, the first node is the one
// the traversal entered the component through, which for a reducible control-flow graph explored from its
// entry is the loop header.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	t := &tarjan[T]{
		onStack:    map[T]bool{},
		index:      map[T]int{},
		lowlink:    map[T]int{},
		successors: successors,
	}
	for _, v := range nodes {
		if _, ok := t.index[v]; !ok {
			t.visit(v)
		}
	}
	return t.sccs
}

// CyclicComponents returns the SCCs of the graph that contain a cycle: components with more than one node, and
// single nodes with an edge to themselves.
func CyclicComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	var cyclic [][]T
	for _, scc := range StronglyConnectedComponents(nodes, successors) {
		if len(scc) > 1 {
			cyclic = append(cyclic, scc)
			continue
		}
		for _, w := range successors(scc[0]) {
			if w == scc[0] {
				cyclic = append(cyclic, scc)
				break
			}
		}
	}
	return cyclic
}

type tarjan[T comparable] struct {
	stack      []T
	onStack    map[T]bool
	index      map[T]int
	lowlink    map[T]int
	nextIndex  int
	sccs       [][]T
	successors func(T) []T
}

func (t *tarjan[T]) visit(v T) {
	t.index[v] = t.nextIndex
	t.lowlink[v] = t.nextIndex
	t.nextIndex++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.successors(v) {
		if _, seen := t.index[w]; !seen {
			t.visit(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] && t.index[w] < t.lowlink[v] {
			t.lowlink[v] = t.index[w]
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	// v is the root of a component: pop it off the stack. The root was pushed first, so reversing the popped
	// nodes puts it at the head of the component.
	var scc []T
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	for i, j := 0, len(scc)-1; i < j; i, j = i+1, j-1 {
		scc[i], scc[j] = scc[j], scc[i]
	}
	t.sccs = append(t.sccs, scc)
}
