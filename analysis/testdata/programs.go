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

func main() {
	x := __VERIFIER_nondet_int()
	__VERIFIER_assume(x >= 0 && x < 10)
	y := x * 2
	if y > 18 {
		reach_error()
	}
}

func spurious() {
	a := __VERIFIER_nondet_int()
	b := a * 2
	if b == 14 {
		reach_error()
	}
}

func unsafe() {
	a := __VERIFIER_nondet_int()
	if a > 100 {
		reach_error()
	}
}

func noTarget() {
	x := 1
	x++
}
