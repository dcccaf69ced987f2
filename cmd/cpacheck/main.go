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

import (
	"fmt"
	"os"

	"github.com/awslabs/ar-go-cpa/analysis"
	"github.com/awslabs/ar-go-cpa/cmd/cpacheck/render"
	"github.com/awslabs/ar-go-cpa/cmd/cpacheck/tools"
	"github.com/awslabs/ar-go-cpa/cmd/cpacheck/verify"
)

const usage = `Cpacheck: reachability checking with configurable program analysis
Usage:
  cpacheck [tool] [options] <Go file path(s)>
Tools:
  - verify: checks whether the calls to the target function (reach_error by default) are reachable
  - render: writes the control-flow automaton and the abstract reachability graph in DOT format
  - cfa: prints the control-flow automaton of a function
Examples:
  Verify the main function of a file: cpacheck verify main.go
  Verify all the functions of a file with a config: cpacheck verify -config=config.yaml -all main.go`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "verify":
		flags, err := verify.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		unsafe, err := verify.Run(flags)
		if err != nil {
			errExit(err)
		}
		if unsafe {
			os.Exit(1)
		}
	case "render":
		flags, err := render.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := render.Run(flags); err != nil {
			errExit(err)
		}
	case "cfa":
		flags, err := tools.NewCommonFlags("cfa", args, render.CfaUsage)
		if err != nil {
			errExit(err)
		}
		if err := render.PrintCFA(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
