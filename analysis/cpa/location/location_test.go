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

package location

import (
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

func TestLocation(t *testing.T) {
	prog, err := cfa.NewBuilder(nil).Build("test", lang.Block(
		lang.Assign("x", lang.Int(1)),
		lang.Call("f"),
	))
	if err != nil {
		t.Fatalf("failed to build CFA: %v", err)
	}
	c := New()
	init := c.InitialState(prog.Entry)
	if init.(cpa.LocationState).Location() != prog.Entry {
		t.Fatalf("initial state should be at the entry")
	}
	succs := c.Transfer(init, prog.Edges[0])
	if len(succs) != 1 || succs[0].(*State).Location() != prog.Nodes[1] {
		t.Fatalf("expected a single successor at N1, got %v", succs)
	}
	if succs := c.Transfer(init, prog.Edges[1]); len(succs) != 0 {
		t.Errorf("an edge that does not leave the location has no successor, got %v", succs)
	}
	if c.Merge(succs[0], init) != init {
		t.Errorf("location states are never merged")
	}
	other := c.InitialState(prog.Entry)
	if !c.Stop(other, []cpa.AbstractState{succs[0], init}) {
		t.Errorf("a state at the same location should be covered")
	}
	if c.Stop(succs[0], []cpa.AbstractState{init}) {
		t.Errorf("a state at another location should not be covered")
	}
	if c.IsTarget(init) || c.IsTarget(succs[0]) {
		t.Errorf("location states are never targets")
	}
	if init.String() != "N0" {
		t.Errorf("unexpected string %q", init.String())
	}
}
