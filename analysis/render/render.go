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

// Package render writes control-flow automata and abstract reachability graphs in the GraphViz DOT format.
package render

import (
	"bufio"
	"fmt"
	"os"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/internal/graphutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode is a node of a graph to render, with its DOT attributes
type dotNode struct {
	id    int64
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64                         { return n.id }
func (n dotNode) DOTID() string                     { return fmt.Sprintf("n%d", n.id) }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

// dotEdge is an edge of a graph to render, with its DOT attributes
type dotEdge struct {
	from, to dotNode
	attrs    []encoding.Attribute
}

func (e dotEdge) From() graph.Node                  { return e.from }
func (e dotEdge) To() graph.Node                    { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge          { return simple.Edge{F: e.to, T: e.from} }
func (e dotEdge) Attributes() []encoding.Attribute { return e.attrs }

func attr(key, value string) encoding.Attribute {
	return encoding.Attribute{Key: key, Value: value}
}

// CFA returns the DOT representation of the CFA. The loop heads are double circles, the entry is a box.
func CFA(c *cfa.CFA) ([]byte, error) {
	heads := map[*cfa.Node]bool{}
	for _, h := range c.LoopHeads() {
		heads[h] = true
	}
	g := graphutil.NewDigraph()
	nodes := make(map[*cfa.Node]dotNode, len(c.Nodes))
	for _, n := range c.Nodes {
		d := dotNode{id: n.ID(), attrs: []encoding.Attribute{attr("label", n.String())}}
		switch {
		case n == c.Entry:
			d.attrs = append(d.attrs, attr("shape", "box"))
		case heads[n]:
			d.attrs = append(d.attrs, attr("shape", "doublecircle"))
		}
		nodes[n] = d
		g.AddNode(d)
	}
	for _, e := range c.Edges {
		attrs := []encoding.Attribute{attr("label", e.String())}
		if e.Kind == cfa.CallEdge {
			attrs = append(attrs, attr("color", "blue"))
		}
		g.AddEdge(dotEdge{from: nodes[e.Source], to: nodes[e.Target], attrs: attrs})
	}
	b, err := dot.Marshal(g, c.Name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not render CFA %s: %w", c.Name, err)
	}
	return b, nil
}

// ARG returns the DOT representation of the live states of the abstract reachability graph. Target states are
// red, and the edges between consecutive states of path are bold.
func ARG(arg *cpa.ARGCPA, path []*cpa.ARGState) ([]byte, error) {
	onPath := map[[2]*cpa.ARGState]bool{}
	for i := 1; i < len(path); i++ {
		onPath[[2]*cpa.ARGState{path[i-1], path[i]}] = true
	}
	g := graphutil.NewDigraph()
	nodes := map[*cpa.ARGState]dotNode{}
	for _, s := range arg.States() {
		d := dotNode{id: s.ID(), attrs: []encoding.Attribute{attr("label", s.String())}}
		if arg.IsTarget(s) {
			d.attrs = append(d.attrs, attr("color", "red"))
		}
		if s == arg.Root() {
			d.attrs = append(d.attrs, attr("shape", "box"))
		}
		nodes[s] = d
		g.AddNode(d)
	}
	for _, s := range arg.States() {
		for _, child := range s.Children() {
			var attrs []encoding.Attribute
			if e := s.Location().EdgeTo(child.Location()); e != nil {
				attrs = append(attrs, attr("label", e.String()))
			}
			if onPath[[2]*cpa.ARGState{s, child}] {
				attrs = append(attrs, attr("style", "bold"))
			}
			g.AddEdge(dotEdge{from: nodes[s], to: nodes[child], attrs: attrs})
		}
	}
	b, err := dot.Marshal(g, "ARG", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not render ARG: %w", err)
	}
	return b, nil
}

// GraphvizToFile writes the DOT representation data to filename
func GraphvizToFile(filename string, data []byte) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error while writing graph: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error while writing graph: %w", err)
	}
	return nil
}
