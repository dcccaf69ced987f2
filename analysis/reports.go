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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/analysis/config"
	"github.com/awslabs/ar-go-cpa/analysis/cpa"
	"github.com/awslabs/ar-go-cpa/analysis/render"
	"github.com/awslabs/ar-go-cpa/internal/formatutil"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
)

// Summary returns a one-line description of the outcome of the verification
func (r *Report) Summary() string {
	switch r.Result.Status {
	case cpa.Exhausted:
		return fmt.Sprintf("%s: %s", r.Name, formatutil.Green("SAFE"))
	case cpa.TargetFound:
		confirmed := "confirmed"
		if !r.Confirmed {
			confirmed = "not confirmed"
		}
		return fmt.Sprintf("%s: %s (witness of %d edges, %s)", r.Name, formatutil.Red("UNSAFE"),
			len(r.Result.Witness), confirmed)
	default:
		return fmt.Sprintf("%s: %s (%v)", r.Name, formatutil.Yellow("UNKNOWN"), r.Result.Reason)
	}
}

// WriteWitness writes the witness of the report to w, one CFA edge per line, followed by the inputs of its
// concrete replay. It writes nothing if the report has no witness.
func WriteWitness(w io.Writer, r *Report) error {
	if r.Result.Status != cpa.TargetFound {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "witness for %s:\n", r.Name)
	if len(r.Result.Witness) > 0 {
		lines := funcutil.Map(r.Result.Witness, func(e *cfa.Edge) string {
			return fmt.Sprintf("%s -> %s: %s", e.Source, e.Target, e)
		})
		fmt.Fprintf(&b, "%s\n", formatutil.Indent(strings.Join(lines, "\n"), 2))
	}
	if len(r.Inputs.Initial) > 0 {
		initial := funcutil.Map(funcutil.SortedKeys(r.Inputs.Initial), func(name string) string {
			return fmt.Sprintf("%s = %d", name, r.Inputs.Initial[name])
		})
		fmt.Fprintf(&b, "initial values: %s\n", strings.Join(initial, ", "))
	}
	if len(r.Inputs.Nondet) > 0 {
		fmt.Fprintf(&b, "nondet values: %v\n", r.Inputs.Nondet)
	}
	fmt.Fprintf(&b, "confirmed: %t\n", r.Confirmed)
	_, err := io.WriteString(w, b.String())
	return err
}

// writeReports writes the reports requested by the options of the configuration in its reports directory
func writeReports(cfg *config.Config, r *Report, logger *config.LogGroup) error {
	if !cfg.ReportCfa && !cfg.ReportArg && !cfg.ReportWitness {
		return nil
	}
	if cfg.ReportsDir == "" {
		logger.Warnf("No reports directory, reports for %s not written", r.Name)
		return nil
	}
	if cfg.ReportCfa {
		b, err := render.CFA(r.CFA)
		if err != nil {
			return err
		}
		if err := writeReport(cfg, r.Name+"-cfa.dot", b, logger); err != nil {
			return err
		}
	}
	if cfg.ReportArg {
		b, err := render.ARG(r.ARG, r.Result.Path)
		if err != nil {
			return err
		}
		if err := writeReport(cfg, r.Name+"-arg.dot", b, logger); err != nil {
			return err
		}
	}
	if cfg.ReportWitness && r.Result.Status == cpa.TargetFound {
		var b strings.Builder
		if err := WriteWitness(&b, r); err != nil {
			return err
		}
		return writeReport(cfg, r.Name+"-witness.txt", []byte(b.String()), logger)
	}
	return nil
}

func writeReport(cfg *config.Config, name string, data []byte, logger *config.LogGroup) error {
	filename := filepath.Join(cfg.ReportsDir, name)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("could not write report %s: %w", filename, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("could not write report %s: %w", filename, err)
	}
	logger.Infof("Report written in %s", filename)
	return nil
}
