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

// Package reacherror defines an Analyzer that reports the calls to a target function that may be reachable.
//
// Every function calling the target function is lowered to a control-flow automaton and analyzed on its own with
// the location, value and unreachable-call analyses. Calls that the analysis cannot prove unreachable are reported
// with the path leading to them. Functions using constructs outside of the supported subset of Go are skipped.
package reacherror

import (
	"context"
	"go/ast"
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis"
	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/frontend"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
	goanalysis "golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `report calls to a target function that may be reachable

The reacherror analysis runs a value analysis on each function calling the target function
(reach_error by default) and reports the calls it cannot prove unreachable, together with a
path of the control-flow automaton leading to the call.`

// Analyzer is the reacherror analyzer
var Analyzer = &goanalysis.Analyzer{
	Name:     "reacherror",
	Doc:      doc,
	Requires: []*goanalysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var spec = config.NewDefault().Analysis

func init() {
	Analyzer.Flags.StringVar(&spec.TargetFunction, "target", spec.TargetFunction,
		"name of the function whose calls must be unreachable")
	Analyzer.Flags.StringVar(&spec.NondetPrefix, "nondet-prefix", spec.NondetPrefix,
		"prefix of the functions returning arbitrary values")
	Analyzer.Flags.StringVar(&spec.AssumeFunction, "assume-function", spec.AssumeFunction,
		"name of the function restricting the executions")
	Analyzer.Flags.StringVar(&spec.Waitlist, "waitlist", spec.Waitlist, "exploration order: dfs or bfs")
	Analyzer.Flags.StringVar(&spec.ValueMerge, "value-merge", spec.ValueMerge,
		"merge operator of the value analysis: join or sep")
	Analyzer.Flags.IntVar(&spec.MaxIterations, "max-iterations", spec.MaxIterations,
		"maximum number of iterations per function (0 for no bound)")
	Analyzer.Flags.StringVar(&spec.Timeout, "timeout", spec.Timeout, "time bound per function, e.g. 10s")
}

func run(pass *goanalysis.Pass) (any, error) {
	cfg := config.NewDefault()
	cfg.Analysis = spec
	cfg.Analysis.Components = config.DefaultComponents()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := analysis.FrontendOptions(cfg.Analysis)
	target := cfg.Analysis.TargetFunction

	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	ins.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)
		if fd.Body == nil || !callsTarget(fd.Body, target) {
			return
		}
		fn, err := frontend.LowerDecl(pass.Fset, fd, opts)
		if err != nil {
			// functions outside of the supported subset are not analyzed
			return
		}
		report, err := analysis.Verify(context.Background(), cfg, fn.Name, fn.Body, nil)
		if err != nil || report.Result.Status != cpa.TargetFound {
			return
		}
		witness := report.Result.Witness
		call := witness[len(witness)-1]
		suffix := ""
		if !report.Confirmed {
			suffix = " (possibly spurious)"
		}
		pass.Reportf(call.Pos, "call to %s is reachable%s: %s", target, suffix,
			strings.Join(funcutil.Map(witness, func(e *cfa.Edge) string { return e.String() }), "; "))
	})
	return nil, nil
}

// callsTarget returns true if body contains a call to the function named target
func callsTarget(body *ast.BlockStmt, target string) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			if id, ok := call.Fun.(*ast.Ident); ok && id.Name == target {
				found = true
			}
		}
		return !found
	})
	return found
}
