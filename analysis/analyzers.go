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

package analysis

import (
	"context"
	"time"

	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/frontend"
	"github.com/awslabs/ar-go-cpa/analysis/lang"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// FunctionResult is the outcome of the verification of one function
type FunctionResult struct {
	Function *frontend.Function

	// Report is nil if the function does not call the target function, or if Err is not nil
	Report *Report

	Err error
}

// VerifyFunctions verifies the functions in funcs in parallel using numRoutines goroutines. Every function is
// analyzed with its own CPA instances, and the functions that do not call the target function are skipped.
// The results are in the order of funcs.
func VerifyFunctions(ctx context.Context, cfg *config.Config, funcs []*frontend.Function, numRoutines int,
	logger *config.LogGroup) ([]FunctionResult, error) {
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Infof("Starting verification of %d functions ...", len(funcs))
	start := time.Now()

	jobs := make([]singleFunctionJob, len(funcs))
	for i, fn := range funcs {
		jobs[i] = singleFunctionJob{
			function:      fn,
			shouldAnalyze: callsFunction(fn.Body, cfg.Analysis.TargetFunction),
		}
	}
	results := funcutil.MapParallel(jobs, func(job singleFunctionJob) FunctionResult {
		return runSingleFunctionJob(ctx, cfg, job, logger)
	}, numRoutines)

	logger.Infof("Verification done (%.2f s).", time.Since(start).Seconds())
	return results, nil
}

// singleFunctionJob contains all the information necessary to verify one function
type singleFunctionJob struct {
	function      *frontend.Function
	shouldAnalyze bool
}

func runSingleFunctionJob(ctx context.Context, cfg *config.Config, job singleFunctionJob,
	logger *config.LogGroup) FunctionResult {
	res := FunctionResult{Function: job.function}
	if !job.shouldAnalyze {
		logger.Debugf("%-10sFunc: %-30s (no call to %s)", "Skipping", job.function.Name,
			cfg.Analysis.TargetFunction)
		return res
	}
	logger.Debugf("%-10sFunc: %-30s ...", "Analyzing", job.function.Name)
	res.Report, res.Err = verify(ctx, cfg, job.function.Name, job.function.Body, logger)
	if res.Err != nil {
		logger.Errorf("error while analyzing %s:\n\t%v\n", job.function.Name, res.Err)
	}
	return res
}

// callsFunction returns true if the program contains a call to name
func callsFunction(prog lang.Stmt, name string) bool {
	found := false
	lang.Inspect(prog, func(s lang.Stmt) bool {
		if call, ok := s.(*lang.CallStmt); ok && call.Callee == name {
			found = true
		}
		return !found
	})
	return found
}
