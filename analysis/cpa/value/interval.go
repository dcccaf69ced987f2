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
	"fmt"
	"math"

	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

const (
	minValue = math.MinInt64
	maxValue = math.MaxInt64
)

// Interval is a set of int64 values {Lo, ..., Hi}, bounds included. Arithmetic wraps around as in Go: an
// operation whose result may overflow gives the interval of all values.
// An Interval is never empty: operations that could produce an empty interval also return a boolean.
type Interval struct {
	Lo int64
	Hi int64
}

// Top is the interval of all values
func Top() Interval {
	return Interval{Lo: minValue, Hi: maxValue}
}

// Const is the interval {v}
func Const(v int64) Interval {
	return Interval{Lo: v, Hi: v}
}

// Range returns the interval {lo, ..., hi}, and false if it is empty
func Range(lo, hi int64) (Interval, bool) {
	if lo > hi {
		return Interval{}, false
	}
	return Interval{Lo: lo, Hi: hi}, true
}

// bools are the values of conditions that may be true or false
var bools = Interval{Lo: 0, Hi: 1}

// IsTop returns true if the interval contains all the values
func (i Interval) IsTop() bool {
	return i.Lo == minValue && i.Hi == maxValue
}

// IsConst returns the value of a singleton interval
func (i Interval) IsConst() (int64, bool) {
	return i.Lo, i.Lo == i.Hi
}

// Contains returns true if v is in the interval
func (i Interval) Contains(v int64) bool {
	return i.Lo <= v && v <= i.Hi
}

// Includes returns true if j is a subset of i
func (i Interval) Includes(j Interval) bool {
	return i.Lo <= j.Lo && j.Hi <= i.Hi
}

// Hull returns the smallest interval containing i and j
func (i Interval) Hull(j Interval) Interval {
	return Interval{Lo: min64(i.Lo, j.Lo), Hi: max64(i.Hi, j.Hi)}
}

// Meet returns the intersection of i and j, and false if it is empty
func (i Interval) Meet(j Interval) (Interval, bool) {
	return Range(max64(i.Lo, j.Lo), min64(i.Hi, j.Hi))
}

// IsTrue returns true if every value of the interval is non-zero
func (i Interval) IsTrue() bool {
	return !i.Contains(0)
}

// IsFalse returns true if the interval is {0}
func (i Interval) IsFalse() bool {
	return i.Lo == 0 && i.Hi == 0
}

func (i Interval) String() string {
	if v, ok := i.IsConst(); ok {
		return fmt.Sprintf("%d", v)
	}
	if i.IsTop() {
		return "top"
	}
	return fmt.Sprintf("[%d, %d]", i.Lo, i.Hi)
}

// *************** Arithmetic **********************

// Add returns the interval of the sums
func (i Interval) Add(j Interval) Interval {
	lo, lok := addBounds(i.Lo, j.Lo)
	hi, hok := addBounds(i.Hi, j.Hi)
	if !lok || !hok {
		return Top()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Neg returns the interval of the opposites
func (i Interval) Neg() Interval {
	if i.Lo == minValue {
		return Top()
	}
	return Interval{Lo: -i.Hi, Hi: -i.Lo}
}

// Sub returns the interval of the differences
func (i Interval) Sub(j Interval) Interval {
	lo, lok := subBounds(i.Lo, j.Hi)
	hi, hok := subBounds(i.Hi, j.Lo)
	if !lok || !hok {
		return Top()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Mul returns the interval of the products
func (i Interval) Mul(j Interval) Interval {
	if i.IsFalse() || j.IsFalse() {
		return Const(0)
	}
	return corners(i, j, mulBounds)
}

// Quo returns the interval of the quotients, truncated towards zero. Division by zero has no defined result, so
// a divisor that may be zero gives top.
func (i Interval) Quo(j Interval) Interval {
	if j.Contains(0) {
		return Top()
	}
	return corners(i, j, quoBounds)
}

// Rem returns the interval of the remainders of the truncated division. The remainder has the sign of the
// dividend and is smaller than the divisor in absolute value.
func (i Interval) Rem(j Interval) Interval {
	if j.Contains(0) {
		return Top()
	}
	x, xok := i.IsConst()
	y, yok := j.IsConst()
	if xok && yok {
		return Const(x % y)
	}
	// largest absolute value of a remainder
	m := int64(maxValue)
	if j.Lo != minValue {
		m = max64(abs64(j.Lo), abs64(j.Hi)) - 1
	}
	switch {
	case i.Lo >= 0:
		return Interval{Lo: 0, Hi: min64(i.Hi, m)}
	case i.Hi <= 0:
		return Interval{Lo: max64(i.Lo, -m), Hi: 0}
	default:
		return Interval{Lo: max64(i.Lo, -m), Hi: min64(i.Hi, m)}
	}
}

// corners applies op to the bounds of i and j. The result is top if op overflows on some pair of bounds.
func corners(i, j Interval, op func(x, y int64) (int64, bool)) Interval {
	a, aok := op(i.Lo, j.Lo)
	b, bok := op(i.Lo, j.Hi)
	c, cok := op(i.Hi, j.Lo)
	d, dok := op(i.Hi, j.Hi)
	if !aok || !bok || !cok || !dok {
		return Top()
	}
	return Interval{Lo: min64(min64(a, b), min64(c, d)), Hi: max64(max64(a, b), max64(c, d))}
}

// *************** Comparisons **********************

// Compare returns the interval of the values of i op j, where op is a comparison: {1} when it holds for all the
// values, {0} when it holds for none, and {0, 1} otherwise.
func Compare(op lang.Op, i, j Interval) Interval {
	var always, never bool
	switch op {
	case lang.Eql:
		x, xok := i.IsConst()
		y, yok := j.IsConst()
		always = xok && yok && x == y
		_, overlap := i.Meet(j)
		never = !overlap
	case lang.Neq:
		return Not(Compare(lang.Eql, i, j))
	case lang.Lss:
		always, never = i.Hi < j.Lo, i.Lo >= j.Hi
	case lang.Leq:
		always, never = i.Hi <= j.Lo, i.Lo > j.Hi
	case lang.Gtr:
		return Compare(lang.Lss, j, i)
	case lang.Geq:
		return Compare(lang.Leq, j, i)
	default:
		panic("value: not a comparison: " + op.String())
	}
	switch {
	case always:
		return Const(1)
	case never:
		return Const(0)
	}
	return bools
}

// Not returns the interval of the logical negations
func Not(i Interval) Interval {
	switch {
	case i.IsTrue():
		return Const(0)
	case i.IsFalse():
		return Const(1)
	}
	return bools
}

// And returns the interval of the logical conjunctions
func And(i, j Interval) Interval {
	switch {
	case i.IsFalse() || j.IsFalse():
		return Const(0)
	case i.IsTrue() && j.IsTrue():
		return Const(1)
	}
	return bools
}

// Or returns the interval of the logical disjunctions
func Or(i, j Interval) Interval {
	switch {
	case i.IsTrue() || j.IsTrue():
		return Const(1)
	case i.IsFalse() && j.IsFalse():
		return Const(0)
	}
	return bools
}

// *************** Checked arithmetic on bounds **********************

func addBounds(x, y int64) (int64, bool) {
	s := x + y
	return s, (s > x) == (y > 0)
}

func subBounds(x, y int64) (int64, bool) {
	d := x - y
	return d, (d < x) == (y > 0)
}

func mulBounds(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == minValue) || (y == -1 && x == minValue) {
		return 0, false
	}
	p := x * y
	return p, p/y == x
}

func quoBounds(x, y int64) (int64, bool) {
	if x == minValue && y == -1 {
		return 0, false
	}
	return x / y, true
}

// abs64 returns the absolute value of x, which must not be math.MinInt64
func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func min64(x, y int64) int64 {
	if x < y {
		return x
	}
	return y
}

func max64(x, y int64) int64 {
	if x > y {
		return x
	}
	return y
}
