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

package funcutil

import (
	"testing"

	"golang.org/x/exp/slices"
)

func TestMapParallel(t *testing.T) {
	a := make([]int, 100)
	for i := range a {
		a[i] = i
	}
	square := func(x int) int { return x * x }
	for _, n := range []int{-1, 1, 4, 200} {
		if res := MapParallel(a, square, n); !slices.Equal(res, Map(a, square)) {
			t.Errorf("MapParallel with %d routines differs from Map", n)
		}
	}
}

func TestSetOperations(t *testing.T) {
	a := AddUnique(AddUnique(AddUnique([]string{}, "x"), "y"), "x")
	if !slices.Equal(a, []string{"x", "y"}) {
		t.Errorf("expected [x y], got %v", a)
	}
	if !Contains(a, "y") || Contains(a, "z") {
		t.Errorf("unexpected Contains result on %v", a)
	}
	if r := Remove(a, "x"); !slices.Equal(r, []string{"y"}) {
		t.Errorf("expected [y], got %v", r)
	}
	if keys := SortedKeys(map[int64]bool{3: true, 1: true, 2: false}); !slices.Equal(keys, []int64{1, 2, 3}) {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}

func TestReverseAndForAll(t *testing.T) {
	a := []int{1, 2, 3, 4}
	Reverse(a)
	if !slices.Equal(a, []int{4, 3, 2, 1}) {
		t.Errorf("expected [4 3 2 1], got %v", a)
	}
	var empty []int
	Reverse(empty)
	positive := func(x int) bool { return x > 0 }
	if !ForAll(a, positive) || ForAll(append(a, -1), positive) || !ForAll(empty, positive) {
		t.Errorf("unexpected ForAll result")
	}
}

func TestOptional(t *testing.T) {
	double := func(x int) int { return 2 * x }
	if v := MapOption(Some(3), double); !v.IsSome() || v.Value() != 6 {
		t.Errorf("expected some 6, got %v", v)
	}
	if v := MapOption(None[int](), double); !v.IsNone() || v.ValueOr(-1) != -1 {
		t.Errorf("expected none, got %v", v)
	}
	if !OptionalEqual(Some(1), Some(1)) || OptionalEqual(Some(1), Some(2)) || OptionalEqual(Some(1), None[int]()) {
		t.Errorf("unexpected equality of some values")
	}
	if !OptionalEqual(None[int](), nil) {
		t.Errorf("a nil optional should equal none")
	}
}
