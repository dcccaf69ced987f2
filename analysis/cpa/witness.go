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
	"github.com/awslabs/ar-go-cpa/internal/graphutil"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
)

// WitnessExtractionError is the value of the panic raised when no path of the ARG leads from its root to a target
// state. It indicates corrupted ARG links.
type WitnessExtractionError struct {
	Target *ARGState
	Reason string
}

func (e *WitnessExtractionError) Error() string {
	return fmt.Sprintf("cannot extract witness for %s: %s", e.Target, e.Reason)
}

// Witness returns the sequence of CFA edges along a shortest path of the ARG from its root to target.
// It panics with a *WitnessExtractionError if there is no such path.
func Witness(target *ARGState) []*cfa.Edge {
	return PathEdges(WitnessPath(target))
}

// WitnessPath returns the states on a shortest path of the ARG from its root to target, both included.
// The path is computed backwards, following the parent links from target.
// It panics with a *WitnessExtractionError if there is no such path.
func WitnessPath(target *ARGState) []*ARGState {
	if target.destroyed {
		panic(&WitnessExtractionError{Target: target, Reason: "the state has been removed from the ARG"})
	}
	root := target.owner.root
	// the reversed ARG: one edge from each state to each of its parents
	g := graphutil.NewDigraph()
	g.AddNode(target)
	visited := map[*ARGState]bool{target: true}
	queue := []*ARGState{target}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, p := range s.parents {
			g.AddEdge(simple.Edge{F: s, T: p})
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	ids := g.ShortestPath(target.ID(), root.ID())
	if ids == nil {
		panic(&WitnessExtractionError{Target: target, Reason: fmt.Sprintf("no parent chain reaches the root %s", root)})
	}
	path := funcutil.Map(ids, func(id int64) *ARGState { return g.Node(id).(*ARGState) })
	funcutil.Reverse(path)
	return path
}

// WitnessPaths returns up to limit walks of the ARG from its root to target, by increasing length, starting with
// the path of WitnessPath. Unlike WitnessPath, a walk may go through a state several times: a merged loop header
// covers every iteration of its loop, and only a walk that unrolls the loop can be replayed concretely.
// At most maxWalkExpansions partial walks are explored.
func WitnessPaths(target *ARGState, limit int) [][]*ARGState {
	first := WitnessPath(target)
	paths := [][]*ARGState{first}
	root := target.owner.root
	// backward walks from target, extended breadth-first
	queue := [][]*ARGState{{target}}
	for n := 0; len(queue) > 0 && len(paths) < limit && n < maxWalkExpansions; n++ {
		walk := queue[0]
		queue = queue[1:]
		last := walk[len(walk)-1]
		if last == root {
			path := append([]*ARGState(nil), walk...)
			funcutil.Reverse(path)
			if !slices.Equal(path, first) {
				paths = append(paths, path)
			}
			continue
		}
		for _, p := range last.parents {
			next := make([]*ARGState, len(walk), len(walk)+1)
			copy(next, walk)
			queue = append(queue, append(next, p))
		}
	}
	return paths
}

const maxWalkExpansions = 10000

// PathEdges returns the CFA edges between consecutive states of path.
// It panics with a *WitnessExtractionError if two consecutive states are not linked by an edge.
func PathEdges(path []*ARGState) []*cfa.Edge {
	edges := make([]*cfa.Edge, 0, len(path))
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i].Location(), path[i+1].Location()
		e := from.EdgeTo(to)
		if e == nil {
			panic(&WitnessExtractionError{
				Target: path[len(path)-1],
				Reason: fmt.Sprintf("no CFA edge from %s to %s between %s and its parent", from, to, path[i+1]),
			})
		}
		edges = append(edges, e)
	}
	return edges
}
