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

package a

func reach_error() {}

func __VERIFIER_nondet_int() int { return 0 }

func reachable() {
	x := 5
	y := x + 2
	if y == 7 {
		reach_error() // want `call to reach_error is reachable: x = 5; y = x \+ 2; \[y == 7\]; reach_error\(\)`
	}
}

func unreachable() {
	x := 5
	if x == 6 {
		reach_error()
	}
}

func loop() {
	i := 0
	for i < 1000000 {
		i++
	}
	if i < 0 {
		reach_error()
	}
}

func nondet() {
	x := __VERIFIER_nondet_int()
	if x > 10 {
		reach_error() // want `call to reach_error is reachable: `
	}
}

func spurious() {
	a := __VERIFIER_nondet_int()
	b := a * 2
	if b == 14 {
		reach_error() // want `call to reach_error is reachable \(possibly spurious\)`
	}
}

func unsupported(s string) {
	if s == "" {
		reach_error()
	}
}
