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

package cpa_test

import (
	"context"
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/location"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/unreachcall"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/value"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

const target = "reach_error"

func buildCFA(t *testing.T, prog lang.Stmt) *cfa.CFA {
	t.Helper()
	c, err := cfa.NewBuilder(nil).Build("test", prog)
	if err != nil {
		t.Fatalf("failed to build CFA: %v", err)
	}
	return c
}

// newARG returns the ARG CPA over the location, value and unreachable-call analyses
func newARG(t *testing.T, merge value.MergePolicy) *cpa.ARGCPA {
	t.Helper()
	v, err := value.New(merge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cpa.NewARGCPA(cpa.NewCompositeCPA(location.New(), v, unreachcall.New(target)))
}

func runAlgorithm(t *testing.T, prog lang.Stmt, opts cpa.Options) (cpa.Result, *cfa.CFA) {
	t.Helper()
	c := buildCFA(t, prog)
	res, err := cpa.NewAlgorithm(c, newARG(t, value.MergeJoin), opts, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("algorithm failed: %v", err)
	}
	return res, c
}

func edgeStrings(edges []*cfa.Edge) []string {
	s := make([]string, len(edges))
	for i, e := range edges {
		s[i] = e.String()
	}
	return s
}

// checkARG checks the links of the live states of the ARG: they are symmetric, never point to destroyed
// states, and follow CFA edges.
func checkARG(t *testing.T, arg *cpa.ARGCPA) {
	t.Helper()
	for _, s := range arg.States() {
		for _, c := range s.Children() {
			if c.Destroyed() {
				t.Errorf("%s has destroyed child %s", s, c)
			}
			if !contains(c.Parents(), s) {
				t.Errorf("%s is a child of %s but does not have it as parent", c, s)
			}
			if s.Location().EdgeTo(c.Location()) == nil {
				t.Errorf("no CFA edge between %s and its child %s", s, c)
			}
		}
		for _, p := range s.Parents() {
			if p.Destroyed() {
				t.Errorf("%s has destroyed parent %s", s, p)
			}
			if !contains(p.Children(), s) {
				t.Errorf("%s is a parent of %s but does not have it as child", p, s)
			}
		}
	}
}

func contains(states []*cpa.ARGState, s *cpa.ARGState) bool {
	for _, x := range states {
		if x == s {
			return true
		}
	}
	return false
}
