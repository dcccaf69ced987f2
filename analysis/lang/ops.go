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

package lang

// Op is an operator of the expression language
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Quo
	Rem
	Eql
	Neq
	Lss
	Leq
	Gtr
	Geq
	LAnd
	LOr
	Not
	Neg
)

var opStrings = [...]string{
	Add:  "+",
	Sub:  "-",
	Mul:  "*",
	Quo:  "/",
	Rem:  "%",
	Eql:  "==",
	Neq:  "!=",
	Lss:  "<",
	Leq:  "<=",
	Gtr:  ">",
	Geq:  ">=",
	LAnd: "&&",
	LOr:  "||",
	Not:  "!",
	Neg:  "-",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opStrings) {
		return "?"
	}
	return opStrings[op]
}

// IsComparison returns true for the operators comparing two integers
func (op Op) IsComparison() bool {
	return op >= Eql && op <= Geq
}

// IsUnary returns true for the operators that take a single operand
func (op Op) IsUnary() bool {
	return op == Not || op == Neg
}

// NegateComparison returns the comparison operator that holds exactly when op does not.
// It panics if op is not a comparison.
func (op Op) NegateComparison() Op {
	switch op {
	case Eql:
		return Neq
	case Neq:
		return Eql
	case Lss:
		return Geq
	case Leq:
		return Gtr
	case Gtr:
		return Leq
	case Geq:
		return Lss
	}
	panic("not a comparison: " + op.String())
}

// SwapComparison returns the operator op' such that x op y iff y op' x.
// It panics if op is not a comparison.
func (op Op) SwapComparison() Op {
	switch op {
	case Eql, Neq:
		return op
	case Lss:
		return Gtr
	case Leq:
		return Geq
	case Gtr:
		return Lss
	case Geq:
		return Leq
	}
	panic("not a comparison: " + op.String())
}
