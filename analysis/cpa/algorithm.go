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

package cpa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/config"
)

// ErrInconclusive is wrapped by the reason of an Inconclusive result
var ErrInconclusive = errors.New("analysis inconclusive")

// Status is the state of the algorithm
type Status int

const (
	// Running is the status of an algorithm that has not terminated
	Running Status = iota
	// TargetFound means a target state has been reached: the property may be violated
	TargetFound
	// Exhausted means every reachable abstract state has been explored without reaching a target: the property
	// holds
	Exhausted
	// Inconclusive means the algorithm has been stopped by a bound before reaching a verdict
	Inconclusive
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case TargetFound:
		return "target found"
	case Exhausted:
		return "exhausted"
	case Inconclusive:
		return "inconclusive"
	}
	return "unknown"
}

// Options bound and orient the exploration
type Options struct {
	// Waitlist is the exploration order, DepthFirst by default
	Waitlist WaitlistOrder

	// MaxIterations is the maximum number of states popped from the waitlist. If MaxIterations <= 0, it is
	// ignored.
	MaxIterations int
}

// Stats are statistics about a run of the algorithm
type Stats struct {
	// Iterations is the number of states popped from the waitlist
	Iterations int
	// Successors is the number of states computed by the transfer relation
	Successors int
	// Stopped is the number of successors that were covered by reached states
	Stopped int
	// Merges is the number of reached states replaced by the result of a merge
	Merges int
	// MaxWaiting is the largest size of the waitlist
	MaxWaiting int
	Duration   time.Duration
}

// Result is the outcome of a run of the algorithm
type Result struct {
	Status Status

	// Target is the target state found, if Status is TargetFound
	Target *ARGState

	// Path is the sequence of states from the root of the ARG to Target, and Witness the sequence of CFA edges
	// between them, if Status is TargetFound
	Path    []*ARGState
	Witness []*cfa.Edge

	// Reached is the reached set when the algorithm stopped
	Reached *ReachedSet

	// Reason explains an Inconclusive result. It wraps ErrInconclusive and the context error, if any.
	Reason error

	Stats Stats
}

// Algorithm is the worklist algorithm exploring the abstract states of a CFA
type Algorithm struct {
	cfa    *cfa.CFA
	arg    *ARGCPA
	opts   Options
	logger *config.LogGroup
}

// NewAlgorithm returns an algorithm exploring the states of the CFA c with the ARG CPA arg.
// If logger is nil, nothing is logged.
func NewAlgorithm(c *cfa.CFA, arg *ARGCPA, opts Options, logger *config.LogGroup) *Algorithm {
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	return &Algorithm{cfa: c, arg: arg, opts: opts, logger: logger}
}

// run holds the state of one call to Run
type run struct {
	*Algorithm
	reached *ReachedSet
	stats   Stats
}

// Run explores the abstract states reachable from the entry of the CFA until a target state is found or no state
// remains to be explored. Each call starts a new ARG.
// The bounds of the exploration, MaxIterations and the cancellation of ctx, are checked once per iteration and
// stop the algorithm with an Inconclusive result.
// Run returns an error if the algorithm cannot start: unknown waitlist order, or states that do not track the
// location in the CFA.
func (a *Algorithm) Run(ctx context.Context) (Result, error) {
	w, err := NewWaitlist(a.opts.Waitlist)
	if err != nil {
		return Result{}, err
	}
	r := &run{Algorithm: a, reached: NewReachedSet(w)}
	start := time.Now()

	init := a.arg.InitialState(a.cfa.Entry).(*ARGState)
	if init.Location() != a.cfa.Entry {
		return Result{}, fmt.Errorf("the initial state %s does not track the location of %s", init, a.cfa.Name)
	}
	r.reached.Add(init)

	res := r.loop(ctx)
	res.Reached = r.reached
	r.stats.Duration = time.Since(start)
	res.Stats = r.stats
	a.logger.Debugf("%s: %s after %d iterations, %d reached states (%.2f s)\n", a.cfa.Name, res.Status,
		r.stats.Iterations, r.reached.Size(), r.stats.Duration.Seconds())
	return res, nil
}

func (r *run) loop(ctx context.Context) Result {
	for {
		if !r.reached.HasWaiting() {
			return Result{Status: Exhausted}
		}
		if bound := r.opts.MaxIterations; bound > 0 && r.stats.Iterations >= bound {
			return Result{
				Status: Inconclusive,
				Reason: fmt.Errorf("%w: reached the maximum number of iterations (%d)", ErrInconclusive, bound),
			}
		}
		if err := ctx.Err(); err != nil {
			return Result{Status: Inconclusive, Reason: fmt.Errorf("%w: %w", ErrInconclusive, err)}
		}

		s, _ := r.reached.Pop()
		r.stats.Iterations++
		if r.logger.LogsTrace() {
			r.logger.Tracef("pop %s (%d waiting)\n", s, r.reached.Waiting())
		}

		if r.arg.IsTarget(s) {
			path := WitnessPath(s)
			return Result{Status: TargetFound, Target: s, Path: path, Witness: PathEdges(path)}
		}

		for _, edge := range s.Location().Out {
			for _, succ := range r.arg.Transfer(s, edge) {
				r.stats.Successors++
				r.add(succ.(*ARGState))
			}
		}
		if n := r.reached.Waiting(); n > r.stats.MaxWaiting {
			r.stats.MaxWaiting = n
		}
	}
}

// add inserts a successor in the reached set, unless it is covered by the states reached at its location.
// Each reached state that merges with the successor is replaced by the result of the merge, which is explored
// again.
func (r *run) add(succ *ARGState) {
	atLocation := r.reached.StatesAt(succ.Location())
	if r.arg.Stop(succ, asAbstractStates(atLocation)) {
		r.stats.Stopped++
		r.arg.Discard(succ)
		return
	}
	var merged []AbstractState
	for _, old := range atLocation {
		m := r.arg.Merge(succ, old)
		if m == AbstractState(old) {
			continue
		}
		r.stats.Merges++
		r.reached.Replace(old, m.(*ARGState))
		merged = append(merged, m)
		if r.logger.LogsTrace() {
			r.logger.Tracef("merged %s into %s\n", succ, m)
		}
	}
	if len(merged) > 0 && r.arg.Stop(succ, merged) {
		r.arg.Discard(succ)
		return
	}
	r.reached.Add(succ)
}

func asAbstractStates(states []*ARGState) []AbstractState {
	res := make([]AbstractState, len(states))
	for i, s := range states {
		res[i] = s
	}
	return res
}
