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

package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/location"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/unreachcall"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/value"
	. "github.com/awslabs/ar-go-cpa/analysis/lang"
)

var program = Block(
	Assign("x", Int(0)),
	While(Bin(Lss, Var("x"), Int(3)), Assign("x", Bin(Add, Var("x"), Int(1)))),
	If(Bin(Eql, Var("x"), Int(3)), Call("reach_error"), nil),
)

func build(t *testing.T) *cfa.CFA {
	t.Helper()
	c, err := cfa.NewBuilder(nil).Build("loop", program)
	if err != nil {
		t.Fatalf("could not build CFA: %v", err)
	}
	return c
}

func checkContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Errorf("expected output to contain %q:\n%s", p, out)
		}
	}
}

func TestRenderCFA(t *testing.T) {
	c := build(t)
	b, err := CFA(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(b)
	checkContains(t, out, "digraph", "n0", "->", "x = 0", "x < 3", "reach_error()", "doublecircle", "box")
	if n := strings.Count(out, "->"); n != len(c.Edges) {
		t.Errorf("expected %d edges, got %d", len(c.Edges), n)
	}
}

func TestRenderARG(t *testing.T) {
	c := build(t)
	v, err := value.New(value.MergeJoin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arg := cpa.NewARGCPA(cpa.NewCompositeCPA(location.New(), v, unreachcall.New("reach_error")))
	res, err := cpa.NewAlgorithm(c, arg, cpa.Options{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != cpa.TargetFound {
		t.Fatalf("expected the target to be found, got %s", res.Status)
	}
	b, err := ARG(arg, res.Path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(b)
	checkContains(t, out, "digraph", "ARG#", "red", "bold")

	file := filepath.Join(t.TempDir(), "arg.dot")
	if err := GraphvizToFile(file, b); err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	written, err := os.ReadFile(file)
	if err != nil || string(written) != out {
		t.Errorf("file content differs from rendered graph (%v)", err)
	}
}
