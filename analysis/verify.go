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

// Package analysis runs reachability analyses: it validates the configuration, builds the control-flow automaton
// of the program, composes the configured CPAs and runs the CPA algorithm. Witnesses of reachability are replayed
// concretely to check whether they correspond to actual executions.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/location"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/unreachcall"
	"github.com/awslabs/ar-go-cpa/analysis/cpa/value"
	"github.com/awslabs/ar-go-cpa/analysis/frontend"
	"github.com/awslabs/ar-go-cpa/analysis/interp"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

// Report is the outcome of the verification of one program
type Report struct {
	// Name is the name of the program
	Name string

	CFA *cfa.CFA
	ARG *cpa.ARGCPA

	Result cpa.Result

	// Inputs are the concrete inputs chosen to replay the witness, when a target has been found
	Inputs interp.Inputs

	// Replay is the concrete execution of the witness, when a target has been found
	Replay *interp.Outcome

	// Confirmed is true when the concrete execution of the witness calls the target function. A witness that is
	// not confirmed may be spurious: the value analysis over-approximates the executions of the program.
	Confirmed bool
}

// Safe returns true when the analysis has proven that the target function is never called
func (r *Report) Safe() bool {
	return r.Result.Status == cpa.Exhausted
}

// NewCPA returns the ARG CPA wrapping the composition of the components listed in spec, in order.
func NewCPA(spec config.AnalysisSpec) (*cpa.ARGCPA, error) {
	components := make([]cpa.CPA, 0, len(spec.Components))
	for _, name := range spec.Components {
		switch name {
		case config.ComponentLocation:
			components = append(components, location.New())
		case config.ComponentValue:
			v, err := value.New(value.MergePolicy(spec.ValueMerge))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfiguration, err)
			}
			components = append(components, v)
		case config.ComponentUnreachCall:
			components = append(components, unreachcall.New(spec.TargetFunction))
		default:
			return nil, fmt.Errorf("%w: unknown component CPA %q", config.ErrInvalidConfiguration, name)
		}
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: the list of component CPAs is empty", config.ErrInvalidConfiguration)
	}
	return cpa.NewARGCPA(cpa.NewCompositeCPA(components...)), nil
}

// FrontendOptions returns the options of the Go frontend specified by the analysis
func FrontendOptions(spec config.AnalysisSpec) frontend.Options {
	return frontend.Options{NondetPrefix: spec.NondetPrefix, AssumeFunction: spec.AssumeFunction}
}

// Verify checks whether the program prog, called name, can call the target function of the configuration.
// The error is non-nil when the configuration is invalid or the program cannot be lowered to a CFA; the outcome
// of the analysis itself, including inconclusive runs, is in the report.
// If logger is nil, nothing is logged.
func Verify(ctx context.Context, cfg *config.Config, name string, prog lang.Stmt,
	logger *config.LogGroup) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return verify(ctx, cfg, name, prog, logger)
}

// verify runs the analysis with a configuration that has been validated
func verify(ctx context.Context, cfg *config.Config, name string, prog lang.Stmt,
	logger *config.LogGroup) (*Report, error) {
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	c, err := cfa.NewBuilder(logger).Build(name, prog)
	if err != nil {
		return nil, fmt.Errorf("could not build CFA of %s: %w", name, err)
	}
	stats := CFAStatistics(c, cfg.Analysis.TargetFunction)
	logger.Debugf("CFA of %s: %d nodes, %d edges, %d loop heads, %d calls to %s", name, stats.NumberOfNodes,
		stats.NumberOfEdges, stats.NumberOfLoopHeads, stats.NumberOfTargetCalls, cfg.Analysis.TargetFunction)

	arg, err := NewCPA(cfg.Analysis)
	if err != nil {
		return nil, err
	}
	opts := cpa.Options{
		Waitlist:      cpa.WaitlistOrder(cfg.Analysis.Waitlist),
		MaxIterations: cfg.Analysis.MaxIterations,
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Infof("Verifying %s ...", name)
	start := time.Now()
	res, err := cpa.NewAlgorithm(c, arg, opts, logger).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis of %s failed: %w", name, err)
	}
	report := &Report{Name: name, CFA: c, ARG: arg, Result: res}
	if res.Status == cpa.TargetFound {
		confirm(report, cfg.Analysis.TargetFunction, logger)
	}
	logger.Infof("%s: %s (%d iterations, %d reached states, %.2f s)", name, res.Status, res.Stats.Iterations,
		res.Reached.Size(), time.Since(start).Seconds())

	if err := writeReports(cfg, report, logger); err != nil {
		logger.Errorf("could not write reports for %s: %v", name, err)
	}
	return report, nil
}

// VerifySource lowers the function specified by the configuration in the Go source src and verifies it.
func VerifySource(ctx context.Context, cfg *config.Config, filename string, src []byte,
	logger *config.LogGroup) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fn, _, err := frontend.ParseFunction(filename, src, cfg.Analysis.Function, FrontendOptions(cfg.Analysis))
	if err != nil {
		return nil, err
	}
	return verify(ctx, cfg, fn.Name, fn.Body, logger)
}

// confirm replays the witness of the report with inputs chosen from the abstract states along the path. When the
// shortest witness cannot be replayed, longer walks of the ARG that unroll merged loops are tried, and the first one
// that replays replaces the witness of the result.
func confirm(report *Report, target string, logger *config.LogGroup) {
	res := &report.Result
	var firstErr error
	for i, path := range cpa.WitnessPaths(res.Target, maxReplayedWitnesses) {
		edges := res.Witness
		if i > 0 {
			edges = cpa.PathEdges(path)
		}
		in := interp.InputsFromPath(path, edges)
		out, err := interp.Replay(edges, target, in)
		if i == 0 {
			report.Inputs, report.Replay, firstErr = in, out, err
		}
		if err == nil && out.Reached {
			res.Path, res.Witness = path, edges
			report.Inputs, report.Replay, report.Confirmed = in, out, true
			if i > 0 {
				logger.Debugf("%s: witness confirmed after unrolling, %d edges", report.Name, len(edges))
			}
			return
		}
	}
	logger.Warnf("%s: the witness could not be replayed concretely (%v); it may be spurious", report.Name, firstErr)
}

// maxReplayedWitnesses bounds the number of ARG walks replayed to confirm a target
const maxReplayedWitnesses = 64
