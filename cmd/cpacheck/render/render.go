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

// Package render implements a tool for rendering the automata of the analysis.
// -cfaout Given a path for a .dot file, writes the control-flow automaton of the function in that file.
// -argout Given a path for a .dot file, runs the analysis and writes the abstract reachability graph in that file.
package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis"
	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/frontend"
	rendering "github.com/awslabs/ar-go-cpa/analysis/render"
	"github.com/awslabs/ar-go-cpa/cmd/cpacheck/tools"
	"github.com/awslabs/ar-go-cpa/internal/formatutil"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

const usage = `Render the control-flow automaton or the abstract reachability graph of a function.
Usage:
  cpacheck render [options] <Go file>
Examples:
Render the control-flow automaton of main
  % cpacheck render -cfaout main.dot prog.go
Render the abstract reachability graph of the function f
  % cpacheck render -function f -argout f-arg.dot prog.go
`

// CfaUsage is the usage of the cfa sub-command
const CfaUsage = `Print the control-flow automaton of a function.
Usage:
  cpacheck cfa [options] <Go file>
`

// Flags represents the parsed render sub-command flags.
type Flags struct {
	tools.CommonFlags
	cfaOut string
	argOut string
}

// NewFlags returns the parsed render sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("render")
	cfaOut := flags.FlagSet.String("cfaout", "", "output file for the control-flow automaton (no output if not specified)")
	argOut := flags.FlagSet.String("argout", "",
		"output file for the abstract reachability graph (no output if not specified)")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse("render", args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, cfaOut: *cfaOut, argOut: *argOut}, nil
}

// Run runs the render tool with flags.
func Run(flags Flags) error {
	if flags.cfaOut == "" && flags.argOut == "" {
		return fmt.Errorf("nothing to render, use -cfaout or -argout")
	}
	cfg, err := tools.LoadConfig(flags.CommonFlags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	filename, src, err := tools.ReadSource(flags.CommonFlags)
	if err != nil {
		return err
	}

	if flags.cfaOut != "" {
		c, err := buildCFA(cfg, filename, src, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, formatutil.Faint("Writing control-flow automaton in "+flags.cfaOut)+"\n")
		data, err := rendering.CFA(c)
		if err != nil {
			return fmt.Errorf("could not render control-flow automaton: %w", err)
		}
		if err := rendering.GraphvizToFile(flags.cfaOut, data); err != nil {
			return fmt.Errorf("could not write control-flow automaton: %w", err)
		}
	}

	if flags.argOut != "" {
		report, err := analysis.VerifySource(context.Background(), cfg, filename, src, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s\n", report.Summary())
		fmt.Fprintf(os.Stderr, formatutil.Faint("Writing abstract reachability graph in "+flags.argOut)+"\n")
		data, err := rendering.ARG(report.ARG, report.Result.Path)
		if err != nil {
			return fmt.Errorf("could not render abstract reachability graph: %w", err)
		}
		if err := rendering.GraphvizToFile(flags.argOut, data); err != nil {
			return fmt.Errorf("could not write abstract reachability graph: %w", err)
		}
	}
	return nil
}

// PrintCFA prints the control-flow automaton of the function selected by flags on standard output, followed by
// its loop heads.
func PrintCFA(flags tools.CommonFlags) error {
	cfg, err := tools.LoadConfig(flags)
	if err != nil {
		return err
	}
	filename, src, err := tools.ReadSource(flags)
	if err != nil {
		return err
	}
	c, err := buildCFA(cfg, filename, src, config.NewLogGroup(cfg))
	if err != nil {
		return err
	}
	fmt.Print(c.String())
	heads := funcutil.Map(c.LoopHeads(), func(n *cfa.Node) string { return n.String() })
	fmt.Printf("loop heads: [%s]\n", strings.Join(heads, ", "))
	return nil
}

func buildCFA(cfg *config.Config, filename string, src []byte, logger *config.LogGroup) (*cfa.CFA, error) {
	fn, _, err := frontend.ParseFunction(filename, src, cfg.Analysis.Function, analysis.FrontendOptions(cfg.Analysis))
	if err != nil {
		return nil, err
	}
	c, err := cfa.NewBuilder(logger).Build(fn.Name, fn.Body)
	if err != nil {
		return nil, fmt.Errorf("could not build CFA of %s: %w", fn.Name, err)
	}
	return c, nil
}
