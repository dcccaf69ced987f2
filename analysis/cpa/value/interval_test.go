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

package value

import (
	"math"
	"testing"

	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

func rng(lo, hi int64) Interval {
	return Interval{Lo: lo, Hi: hi}
}

func TestIntervalArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Interval
		expected Interval
	}{
		{"const add", Const(5).Add(Const(2)), Const(7)},
		{"range add", rng(1, 3).Add(rng(-1, 1)), rng(0, 4)},
		{"top add", Top().Add(Const(1)), Top()},
		{"add up to the largest value", rng(0, maxValue-1).Add(Const(1)), rng(1, maxValue)},
		{"add overflows", rng(0, maxValue).Add(Const(1)), Top()},
		{"add overflows const", Const(math.MaxInt64 - 1).Add(Const(10)), Top()},
		{"add underflows", Const(math.MinInt64).Add(Const(-1)), Top()},
		{"sub", rng(1, 3).Sub(rng(0, 1)), rng(0, 3)},
		{"sub overflows", Const(math.MinInt64).Sub(Const(1)), Top()},
		{"sub of the smallest value", Const(-1).Sub(Const(math.MinInt64)), Const(math.MaxInt64)},
		{"neg", rng(-2, 5).Neg(), rng(-5, 2)},
		{"neg top", Top().Neg(), Top()},
		{"neg of the largest value", rng(3, maxValue).Neg(), rng(-maxValue, -3)},
		{"neg overflows", Const(math.MinInt64).Neg(), Top()},
		{"mul", rng(-2, 3).Mul(rng(4, 5)), rng(-10, 15)},
		{"mul by zero", Top().Mul(Const(0)), Const(0)},
		{"mul overflows", rng(1, maxValue).Mul(Const(2)), Top()},
		{"mul overflows const", Const(math.MaxInt64 / 2).Mul(Const(4)), Top()},
		{"mul smallest by minus one", Const(math.MinInt64).Mul(Const(-1)), Top()},
		{"mul top by one", Top().Mul(Const(1)), Top()},
		{"quo", rng(10, 20).Quo(rng(2, 5)), rng(2, 10)},
		{"quo negative", rng(-7, 7).Quo(Const(2)), rng(-3, 3)},
		{"quo by interval with zero", rng(10, 20).Quo(rng(-1, 1)), Top()},
		{"quo overflows", Const(math.MinInt64).Quo(Const(-1)), Top()},
		{"quo of the smallest value", Const(math.MinInt64).Quo(Const(2)), Const(math.MinInt64 / 2)},
		{"rem const", Const(-7).Rem(Const(3)), Const(-1)},
		{"rem positive", rng(0, 100).Rem(Const(10)), rng(0, 9)},
		{"rem negative", rng(-100, -1).Rem(rng(-4, 4)), Top()},
		{"rem mixed", rng(-2, 100).Rem(rng(3, 4)), rng(-2, 3)},
		{"rem smallest by minus one", Const(math.MinInt64).Rem(Const(-1)), Const(0)},
		{"rem by smallest divisor", rng(-5, 5).Rem(rng(math.MinInt64, -1)), rng(-5, 5)},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.name, test.expected, test.got)
		}
	}
}

func TestIntervalComparisons(t *testing.T) {
	tests := []struct {
		op       lang.Op
		x, y     Interval
		expected Interval
	}{
		{lang.Eql, Const(7), Const(7), Const(1)},
		{lang.Eql, Const(7), Const(8), Const(0)},
		{lang.Eql, rng(0, 10), Const(8), bools},
		{lang.Neq, Const(7), Const(7), Const(0)},
		{lang.Neq, rng(0, 3), rng(5, 6), Const(1)},
		{lang.Lss, rng(0, 3), rng(4, 6), Const(1)},
		{lang.Lss, rng(0, 4), rng(4, 6), bools},
		{lang.Lss, rng(4, 6), rng(0, 4), Const(0)},
		{lang.Leq, rng(0, 4), rng(4, 6), Const(1)},
		{lang.Gtr, Const(-1), Const(0), Const(0)},
		{lang.Gtr, Top(), Const(0), bools},
		{lang.Geq, rng(5, maxValue), Const(5), Const(1)},
		{lang.Lss, Const(math.MinInt64), Top(), bools},
		{lang.Gtr, Const(math.MaxInt64), Const(math.MaxInt64 - 1), Const(1)},
	}
	for _, test := range tests {
		if got := Compare(test.op, test.x, test.y); got != test.expected {
			t.Errorf("%s %s %s: expected %s, got %s", test.x, test.op, test.y, test.expected, got)
		}
	}
}

func TestIntervalLogic(t *testing.T) {
	if Not(Const(3)) != Const(0) || Not(Const(0)) != Const(1) || Not(Top()) != bools {
		t.Errorf("unexpected negation")
	}
	if And(Const(1), bools) != bools || And(Const(0), Top()) != Const(0) || And(Const(2), Const(-1)) != Const(1) {
		t.Errorf("unexpected conjunction")
	}
	if Or(Const(0), bools) != bools || Or(Const(5), Top()) != Const(1) || Or(Const(0), Const(0)) != Const(0) {
		t.Errorf("unexpected disjunction")
	}
}

func TestIntervalSets(t *testing.T) {
	if !Top().Includes(Const(4)) || Const(4).Includes(Top()) || !rng(0, 10).Includes(rng(2, 3)) {
		t.Errorf("unexpected inclusion")
	}
	if m, ok := rng(0, 10).Meet(rng(5, 20)); !ok || m != rng(5, 10) {
		t.Errorf("expected meet [5, 10], got %s", m)
	}
	if _, ok := rng(0, 4).Meet(rng(5, 20)); ok {
		t.Errorf("expected empty meet")
	}
	if h := Const(1).Hull(Const(5)); h != rng(1, 5) {
		t.Errorf("expected hull [1, 5], got %s", h)
	}
	if v, ok := Const(math.MaxInt64).IsConst(); !ok || v != math.MaxInt64 {
		t.Errorf("expected the largest value to be a constant")
	}
}

func TestIntervalString(t *testing.T) {
	for _, test := range []struct {
		i        Interval
		expected string
	}{
		{Const(-3), "-3"},
		{Top(), "top"},
		{rng(1, 5), "[1, 5]"},
		{rng(minValue, 9), "[-9223372036854775808, 9]"},
		{rng(0, maxValue), "[0, 9223372036854775807]"},
	} {
		if s := test.i.String(); s != test.expected {
			t.Errorf("expected %s, got %s", test.expected, s)
		}
	}
}
