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

import (
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
	yb "github.com/yourbasic/graph"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
)

// Digraph is a directed graph over small non-negative integer node ids, built to work with existing graph
// libraries. It implements the methods to satisfy yourbasic's graph.Iterator and Gonum's graph.Directed.
// There is at most one edge between two nodes, in each direction.
type Digraph struct {
	// order is one more than the largest node id
	order int

	// IDMap maps from node IDs to nodes
	IDMap map[int64]graph.Node

	// Keys are all the node IDs, in insertion order
	Keys []int64

	// Edges is an adjacency map: Edges[x][y] is the edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]graph.Edge

	// reverse[y][x] means there is an edge from x to y
	reverse map[int64]map[int64]bool
}

// NewDigraph returns an empty directed graph
func NewDigraph() *Digraph {
	return &Digraph{
		order:   0,
		IDMap:   map[int64]graph.Node{},
		Keys:    nil,
		Edges:   map[int64]map[int64]graph.Edge{},
		reverse: map[int64]map[int64]bool{},
	}
}

// AddNode adds the node n to the graph. Adding a node twice has no effect.
// The node id must be non-negative.
func (g *Digraph) AddNode(n graph.Node) {
	id := n.ID()
	if id < 0 {
		panic("graphutil: negative node id")
	}
	if _, ok := g.IDMap[id]; ok {
		return
	}
	g.IDMap[id] = n
	g.Keys = append(g.Keys, id)
	g.Edges[id] = map[int64]graph.Edge{}
	g.reverse[id] = map[int64]bool{}
	if int(id) >= g.order {
		g.order = int(id) + 1
	}
}

// AddEdge adds the edge e to the graph, adding its endpoints if they are not already in it.
func (g *Digraph) AddEdge(e graph.Edge) {
	g.AddNode(e.From())
	g.AddNode(e.To())
	from, to := e.From().ID(), e.To().ID()
	g.Edges[from][to] = e
	g.reverse[to][from] = true
}

// Reachable returns the set of node ids reachable from the node with id start, including start.
func (g *Digraph) Reachable(start int64) map[int64]bool {
	reached := map[int64]bool{start: true}
	if _, ok := g.IDMap[start]; !ok {
		return reached
	}
	yb.BFS(g, int(start), func(_, w int, _ int64) {
		reached[int64(w)] = true
	})
	return reached
}

// ShortestPath returns the node ids on a shortest path from x to y (both included), or nil if y is not
// reachable from x.
func (g *Digraph) ShortestPath(x, y int64) []int64 {
	if _, ok := g.IDMap[x]; !ok {
		return nil
	}
	if x == y {
		return []int64{x}
	}
	path, dist := yb.ShortestPath(g, int(x), int(y))
	if dist < 0 {
		return nil
	}
	return funcutil.Map(path, func(v int) int64 { return int64(v) })
}

// *************** yourbasic graph.Iterator implementation **********************

// Order implements the order of the graph.Iterator interface for the Digraph
func (g *Digraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface for the Digraph. Successors are visited in increasing id order
// so that the algorithms built on it are deterministic. Every edge costs 1.
func (g *Digraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	out, ok := g.Edges[int64(v)]
	if !ok {
		return false
	}
	for _, w := range funcutil.SortedKeys(out) {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Gonum graph.Directed implementation **********************

// Node implements the Graph interface
func (g *Digraph) Node(id int64) graph.Node {
	return g.IDMap[id]
}

// Nodes returns the set of nodes in the graph, in increasing id order
func (g *Digraph) Nodes() graph.Nodes {
	all := make(map[int64]bool, len(g.IDMap))
	for id := range g.IDMap {
		all[id] = true
	}
	return g.nodesOf(all)
}

// From returns the set of nodes reachable from the id by one edge
func (g *Digraph) From(id int64) graph.Nodes {
	out := make(map[int64]bool, len(g.Edges[id]))
	for w := range g.Edges[id] {
		out[w] = true
	}
	return g.nodesOf(out)
}

// To returns the set of nodes that can reach the id by one edge
func (g *Digraph) To(id int64) graph.Nodes {
	return g.nodesOf(g.reverse[id])
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g *Digraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo returns whether an edge exists from u to v
func (g *Digraph) HasEdgeFromTo(uid, vid int64) bool {
	_, ok := g.Edges[uid][vid]
	return ok
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *Digraph) Edge(uid, vid int64) graph.Edge {
	if e, ok := g.Edges[uid][vid]; ok {
		return e
	}
	return nil
}

func (g *Digraph) nodesOf(set map[int64]bool) graph.Nodes {
	return iterator.NewOrderedNodes(funcutil.Map(funcutil.SortedKeys(set),
		func(id int64) graph.Node { return g.IDMap[id] }))
}
