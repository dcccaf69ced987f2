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

// Package verify implements the frontend to the reachability verification of Go functions.
package verify

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"runtime"

	"github.com/awslabs/ar-go-cpa/analysis"
	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/frontend"
	"github.com/awslabs/ar-go-cpa/cmd/cpacheck/tools"
	"github.com/awslabs/ar-go-cpa/internal/formatutil"
)

const usage = `Check that the target function (reach_error by default) cannot be called.
Usage:
  cpacheck verify [options] <Go file>
Examples:
Verify the function main of prog.go
  % cpacheck verify prog.go
Verify every function of prog.go that calls the target, using 4 goroutines
  % cpacheck verify -all -routines 4 prog.go
`

// Flags represents the parsed verify sub-command flags.
type Flags struct {
	tools.CommonFlags
	all      bool
	routines int
}

// NewFlags returns the parsed verify sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("verify")
	all := flags.FlagSet.Bool("all", false, "verify all the functions of the file that call the target function")
	routines := flags.FlagSet.Int("routines", runtime.NumCPU(), "number of goroutines used with -all")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse("verify", args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, all: *all, routines: *routines}, nil
}

// Run runs the verification with flags. It returns true when some target call has been found reachable.
func Run(flags Flags) (bool, error) {
	cfg, err := tools.LoadConfig(flags.CommonFlags)
	if err != nil {
		return false, err
	}
	logger := config.NewLogGroup(cfg)
	filename, src, err := tools.ReadSource(flags.CommonFlags)
	if err != nil {
		return false, err
	}
	ctx := context.Background()

	if !flags.all {
		report, err := analysis.VerifySource(ctx, cfg, filename, src, logger)
		if err != nil {
			return false, err
		}
		printReport(report)
		return report.Result.Status == cpa.TargetFound, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return false, fmt.Errorf("could not parse %s: %w", filename, err)
	}
	funcs, lowerErr := frontend.LowerFile(fset, file, analysis.FrontendOptions(cfg.Analysis))
	if lowerErr != nil {
		logger.Warnf("some functions are skipped: %s", formatutil.Sanitize(lowerErr.Error()))
	}
	results, err := analysis.VerifyFunctions(ctx, cfg, funcs, flags.routines, logger)
	if err != nil {
		return false, err
	}
	unsafe := false
	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Printf("%s: %s (%s)\n", res.Function.Name, formatutil.Yellow("ERROR"),
				formatutil.Sanitize(res.Err.Error()))
		case res.Report != nil:
			printReport(res.Report)
			unsafe = unsafe || res.Report.Result.Status == cpa.TargetFound
		}
	}
	return unsafe, nil
}

func printReport(r *analysis.Report) {
	fmt.Println(r.Summary())
	if err := analysis.WriteWitness(os.Stdout, r); err != nil {
		fmt.Fprintf(os.Stderr, "could not print witness: %v\n", err)
	}
}
