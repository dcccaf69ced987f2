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

package analysis

import (
	"github.com/awslabs/ar-go-cpa/analysis/cfa"
)

// Statistics are general statistics about the CFA of a program
type Statistics struct {
	NumberOfNodes       int
	NumberOfEdges       int
	NumberOfLoopHeads   int
	NumberOfTargetCalls int

	// EdgesByKind counts the edges of each kind
	EdgesByKind map[cfa.EdgeKind]int
}

// CFAStatistics returns the statistics of the CFA c, where target is the name of the target function
func CFAStatistics(c *cfa.CFA, target string) Statistics {
	result := Statistics{
		NumberOfNodes:       len(c.Nodes),
		NumberOfEdges:       len(c.Edges),
		NumberOfLoopHeads:   len(c.LoopHeads()),
		NumberOfTargetCalls: len(c.CallEdges(target)),
		EdgesByKind:         map[cfa.EdgeKind]int{},
	}
	for _, e := range c.Edges {
		result.EdgesByKind[e.Kind]++
	}
	return result
}
