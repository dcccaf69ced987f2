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

package main

func reach_error() {}

func __VERIFIER_nondet_int() int { return 0 }

func __VERIFIER_assume(c bool) {}

func compute(a int) int {
	return a
}

func straight() {
	x := 5
	y := x + 2
	if y == 7 {
		reach_error()
	}
}

func loops() {
	var i int

	// label: head
	for i < 10 {
		i++
	}
	for j := 0; j < 3; j += 1 {
		i = i * 2
	}
	for {
		break
	}
}

func nondets() {
	x := __VERIFIER_nondet_int()
	__VERIFIER_assume(x > 0)
	r := compute(x)
	_ = r
	if x > 0 && !(r == 3) {
		reach_error()
	} else if x < 0 {
		x = -x
	} else {
		return
	}
}

func shadowing() {
	x := 5
	if true {
		x := x + 2
		x++
		_ = x
	}
	for x := 0; x < 2; x++ {
		y := x
		_ = y
	}
	var y int
	if x == 5 {
		reach_error()
	}
	_ = y
}

func withParameter(x int) {
	if x > 0 {
		x := 0
		_ = x
	}
	x--
}

func withSwitch(a int) {
	switch a {
	}
}

func withPostContinue() {
	for i := 0; i < 3; i++ {
		continue
	}
}

func withString() {
	s := "a"
	_ = s
}

func withMultiAssign() {
	a, b := 1, 2
	_, _ = a, b
}
