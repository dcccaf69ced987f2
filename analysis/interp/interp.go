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

// Package interp executes CFAs concretely. It is used to check that the witnesses found by the analysis
// correspond to actual executions of the program.
//
// Variables hold int64 values and arithmetic wraps around as in Go. Variables that are read before being
// assigned take their value from the inputs of the execution, or zero. Nondeterministic expressions and the
// results of calls to unknown functions take successive values from the inputs.
package interp

import (
	"errors"
	"fmt"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

var (
	// ErrDivisionByZero is returned when an execution divides by zero
	ErrDivisionByZero = errors.New("division by zero")

	// ErrStepLimit is returned when an execution does not terminate within the maximum number of steps
	ErrStepLimit = errors.New("step limit reached")

	// ErrInfeasible is returned when a replayed edge cannot be taken
	ErrInfeasible = errors.New("infeasible edge")

	// ErrDisconnected is returned when the edges to replay do not form a path
	ErrDisconnected = errors.New("edges do not form a path")
)

// Inputs are the values provided by the environment of an execution
type Inputs struct {
	// Initial are the values of the variables read before being assigned. Other variables start at zero.
	Initial map[string]int64

	// Nondet are the values of the successive nondeterministic expressions and call results. When they are
	// exhausted, the next values are zero.
	Nondet []int64
}

// Outcome is the result of an execution
type Outcome struct {
	// Env is the value of the variables at the end of the execution
	Env map[string]int64

	// Trace is the sequence of edges executed
	Trace []*cfa.Edge

	// Reached is true when the execution has called the target function. The execution stops at that call.
	Reached bool

	// Terminated is true when the execution has reached a node without successor
	Terminated bool

	// Blocked is true when the execution stopped on an assumption that does not hold
	Blocked bool
}

type machine struct {
	env    map[string]int64
	inputs Inputs
	next   int // index of the next nondet value
}

func newMachine(in Inputs) *machine {
	env := make(map[string]int64, len(in.Initial))
	for name, v := range in.Initial {
		env[name] = v
	}
	return &machine{env: env, inputs: in}
}

func (m *machine) nondet() int64 {
	if m.next >= len(m.inputs.Nondet) {
		m.next++
		return 0
	}
	v := m.inputs.Nondet[m.next]
	m.next++
	return v
}

// Run executes the CFA c from its entry until it terminates, calls the target function, blocks on an assumption,
// or exceeds maxSteps edges (if maxSteps > 0).
// At a branch, the first edge whose condition holds is taken.
func Run(c *cfa.CFA, target string, in Inputs, maxSteps int) (*Outcome, error) {
	m := newMachine(in)
	out := &Outcome{Env: m.env}
	cur := c.Entry
	for {
		if len(cur.Out) == 0 {
			out.Terminated = true
			return out, nil
		}
		if maxSteps > 0 && len(out.Trace) >= maxSteps {
			return out, fmt.Errorf("%w: %d steps in %s", ErrStepLimit, maxSteps, c.Name)
		}
		var next *cfa.Edge
		for _, e := range cur.Out {
			ok, err := m.enabled(e)
			if err != nil {
				return out, err
			}
			if ok {
				next = e
				break
			}
		}
		if next == nil {
			out.Blocked = true
			return out, nil
		}
		if err := m.execute(next, out, target); err != nil {
			return out, err
		}
		if out.Reached {
			return out, nil
		}
		cur = next.Target
	}
}

// Replay executes the sequence of edges, which must form a path. It returns an error wrapping ErrInfeasible
// if an assumption along the path does not hold.
func Replay(edges []*cfa.Edge, target string, in Inputs) (*Outcome, error) {
	m := newMachine(in)
	out := &Outcome{Env: m.env}
	for i, e := range edges {
		if i > 0 && edges[i-1].Target != e.Source {
			return out, fmt.Errorf("%w: %s does not follow %s", ErrDisconnected, e, edges[i-1])
		}
		ok, err := m.enabled(e)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, fmt.Errorf("%w: %s at step %d (%v)", ErrInfeasible, e, i, m.env)
		}
		if err := m.execute(e, out, target); err != nil {
			return out, err
		}
		if out.Reached {
			return out, nil
		}
	}
	if n := len(edges); n > 0 && len(edges[n-1].Target.Out) == 0 {
		out.Terminated = true
	}
	return out, nil
}

// enabled returns true if the edge can be taken in the current state
func (m *machine) enabled(e *cfa.Edge) (bool, error) {
	if e.Kind != cfa.AssumeEdge {
		return true, nil
	}
	v, err := m.eval(e.Expr)
	if err != nil {
		return false, err
	}
	return (v != 0) == e.Truth, nil
}

func (m *machine) execute(e *cfa.Edge, out *Outcome, target string) error {
	out.Trace = append(out.Trace, e)
	switch e.Kind {
	case cfa.AssignEdge:
		v, err := m.eval(e.Expr)
		if err != nil {
			return fmt.Errorf("at %s: %w", e, err)
		}
		m.env[e.Var] = v
	case cfa.CallEdge:
		for _, arg := range e.Args {
			if _, err := m.eval(arg); err != nil {
				return fmt.Errorf("at %s: %w", e, err)
			}
		}
		if e.Callee == target {
			out.Reached = true
			return nil
		}
		if e.Var != "" {
			m.env[e.Var] = m.nondet()
		}
	}
	return nil
}

// Eval returns the value of e when the variables have the values in env. Missing variables are zero, and
// nondeterministic expressions are zero.
func Eval(e lang.Expr, env map[string]int64) (int64, error) {
	m := &machine{env: env}
	return m.eval(e)
}

//gocyclo:ignore
func (m *machine) eval(e lang.Expr) (int64, error) {
	switch e := e.(type) {
	case *lang.IntLit:
		return e.Value, nil
	case *lang.Ident:
		return m.env[e.Name], nil
	case *lang.NondetExpr:
		return m.nondet(), nil
	case *lang.UnaryExpr:
		x, err := m.eval(e.X)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case lang.Neg:
			return -x, nil
		case lang.Not:
			return boolValue(x == 0), nil
		}
	case *lang.BinaryExpr:
		x, err := m.eval(e.X)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case lang.LAnd:
			if x == 0 {
				return 0, nil
			}
			y, err := m.eval(e.Y)
			return boolValue(y != 0), err
		case lang.LOr:
			if x != 0 {
				return 1, nil
			}
			y, err := m.eval(e.Y)
			return boolValue(y != 0), err
		}
		y, err := m.eval(e.Y)
		if err != nil {
			return 0, err
		}
		return binary(e.Op, x, y)
	}
	return 0, fmt.Errorf("cannot evaluate %s", e)
}

func binary(op lang.Op, x, y int64) (int64, error) {
	switch op {
	case lang.Add:
		return x + y, nil
	case lang.Sub:
		return x - y, nil
	case lang.Mul:
		return x * y, nil
	case lang.Quo:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	case lang.Rem:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x % y, nil
	case lang.Eql:
		return boolValue(x == y), nil
	case lang.Neq:
		return boolValue(x != y), nil
	case lang.Lss:
		return boolValue(x < y), nil
	case lang.Leq:
		return boolValue(x <= y), nil
	case lang.Gtr:
		return boolValue(x > y), nil
	case lang.Geq:
		return boolValue(x >= y), nil
	}
	return 0, fmt.Errorf("unknown binary operator %s", op)
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
