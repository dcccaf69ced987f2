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

package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string

	// identifierRegex matches the names accepted for target, nondet and assume functions
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ErrInvalidConfiguration is the error returned (wrapped) when a configuration cannot be used to run an analysis.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Load(configFile, b)
}

// Config contains the options of the tool and the description of the analysis to run.
// If some field is not defined in the config file, it will be set to its default value by Load.
// private fields are not populated from a file, but computed after initialization
type Config struct {
	Options `yaml:"options" toml:"options"`

	sourceFile string

	// timeout is the parsed Analysis.Timeout, zero when there is none
	timeout time.Duration

	// Analysis specifies which CPAs are composed and how the algorithm explores the state space
	Analysis AnalysisSpec `yaml:"analysis" toml:"analysis"`
}

// AnalysisSpec specifies a reachability problem and the configurable program analysis used to solve it.
type AnalysisSpec struct {
	// Components lists the component CPAs of the composite analysis, in order. The order of the components is
	// the order of the slots in every composite abstract state.
	Components []string `yaml:"components" toml:"components"`

	// TargetFunction is the name of the function whose calls must be proven unreachable
	TargetFunction string `yaml:"target-function" toml:"target-function"`

	// Waitlist is the exploration order of the algorithm: "dfs" (stack) or "bfs" (queue)
	Waitlist string `yaml:"waitlist" toml:"waitlist"`

	// ValueMerge is the merge operator of the value analysis: "join" (per variable, values that disagree go to
	// top) or "sep" (never merge). With "sep", the analysis may not terminate on programs with loops.
	ValueMerge string `yaml:"value-merge" toml:"value-merge"`

	// MaxIterations bounds the number of iterations of the algorithm. If MaxIterations <= 0, it is ignored.
	MaxIterations int `yaml:"max-iterations" toml:"max-iterations"`

	// Timeout bounds the running time of the algorithm, in the format of time.ParseDuration. Empty means no bound.
	Timeout string `yaml:"timeout" toml:"timeout"`

	// NondetPrefix is the prefix of the functions returning arbitrary values (e.g. __VERIFIER_nondet_int)
	NondetPrefix string `yaml:"nondet-prefix" toml:"nondet-prefix"`

	// AssumeFunction is the name of the function whose calls restrict the executions to the ones satisfying its
	// argument
	AssumeFunction string `yaml:"assume-function" toml:"assume-function"`

	// Function is the name of the function analyzed by the source frontend
	Function string `yaml:"function" toml:"function"`
}

// Options contains the options of the tool, independent of the problem being analyzed.
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the config file this config struct has
	// been loaded from does not specify a ReportsDir but sets any Report* option to true, then ReportsDir will be
	// created next to the config file.
	ReportsDir string `yaml:"reports-dir" toml:"reports-dir"`

	// ReportCfa specifies whether the control-flow automaton should be written in DOT format in the reports dir
	ReportCfa bool `yaml:"report-cfa" toml:"report-cfa"`

	// ReportArg specifies whether the abstract reachability graph should be written in DOT format in the reports dir
	ReportArg bool `yaml:"report-arg" toml:"report-arg"`

	// ReportWitness specifies whether witnesses should be written in the reports dir
	ReportWitness bool `yaml:"report-witness" toml:"report-witness"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level" toml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn" toml:"silence-warn"`
}

// NewDefault returns the default config: location, value and unreachable-call analyses looking for calls to
// reach_error, exploring depth-first.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		timeout:    0,
		Analysis: AnalysisSpec{
			Components:     DefaultComponents(),
			TargetFunction: DefaultTargetFunction,
			Waitlist:       WaitlistDFS,
			ValueMerge:     MergeJoin,
			MaxIterations:  0,
			Timeout:        "",
			NondetPrefix:   DefaultNondetPrefix,
			AssumeFunction: DefaultAssumeFunction,
			Function:       DefaultFunction,
		},
		Options: Options{
			ReportsDir:    "",
			ReportCfa:     false,
			ReportArg:     false,
			ReportWitness: false,
			LogLevel:      int(InfoLevel),
			SilenceWarn:   false,
		},
	}
}

// DefaultComponents returns a fresh copy of the default list of component CPAs
func DefaultComponents() []string {
	return []string{ComponentLocation, ComponentValue, ComponentUnreachCall}
}

// Load reads a configuration from the contents b of the file filename. The content is parsed as TOML if the file
// name ends in .toml, otherwise as YAML, falling back to TOML if it is not valid YAML.
// Fields that are absent are set to their defaults, and the resulting configuration is validated.
func Load(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	// Components are replaced, not appended to, when a list is given in the file
	cfg.Analysis.Components = nil

	if strings.HasSuffix(filename, ".toml") {
		if _, err := toml.Decode(string(b), cfg); err != nil {
			return nil, fmt.Errorf("could not unmarshal config file as toml: %w", err)
		}
	} else if errYaml := yaml.Unmarshal(b, cfg); errYaml != nil {
		cfg = NewDefault()
		cfg.Analysis.Components = nil
		if _, errToml := toml.Decode(string(b), cfg); errToml != nil {
			return nil, fmt.Errorf("could not unmarshal config file, not as yaml: %w, not as toml: %v",
				errYaml, errToml)
		}
	}

	cfg.sourceFile = filename
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.ReportCfa || cfg.ReportArg || cfg.ReportWitness {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// setDefaults sets the fields that have been left empty to their default value
func (c *Config) setDefaults() {
	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if c.LogLevel == 0 {
		c.LogLevel = int(InfoLevel)
	}
	if c.Analysis.Components == nil {
		c.Analysis.Components = DefaultComponents()
	}
	if c.Analysis.TargetFunction == "" {
		c.Analysis.TargetFunction = DefaultTargetFunction
	}
	if c.Analysis.Waitlist == "" {
		c.Analysis.Waitlist = WaitlistDFS
	}
	if c.Analysis.ValueMerge == "" {
		c.Analysis.ValueMerge = MergeJoin
	}
	if c.Analysis.NondetPrefix == "" {
		c.Analysis.NondetPrefix = DefaultNondetPrefix
	}
	if c.Analysis.AssumeFunction == "" {
		c.Analysis.AssumeFunction = DefaultAssumeFunction
	}
	if c.Analysis.Function == "" {
		c.Analysis.Function = DefaultFunction
	}
}

// Validate checks that the analysis specified by the config can be run. All the errors returned wrap
// ErrInvalidConfiguration.
//
//gocyclo:ignore
func (c *Config) Validate() error {
	a := c.Analysis
	if len(a.Components) == 0 {
		return invalid("the list of component CPAs is empty")
	}
	seen := map[string]bool{}
	for _, name := range a.Components {
		if !funcutil.Contains(KnownComponents, name) {
			return invalid("unknown component CPA %q (known components: %s)", name,
				strings.Join(KnownComponents, ", "))
		}
		if seen[name] {
			return invalid("component CPA %q appears more than once", name)
		}
		seen[name] = true
	}
	if !seen[ComponentLocation] {
		return invalid("the component CPAs must include %q", ComponentLocation)
	}
	if !funcutil.Exists(a.Components, IsPropertyComponent) {
		return invalid("the component CPAs must include a property component (%s)", ComponentUnreachCall)
	}
	if !identifierRegex.MatchString(a.TargetFunction) {
		return invalid("target function name %q is not a valid identifier", a.TargetFunction)
	}
	if a.NondetPrefix != "" && !identifierRegex.MatchString(a.NondetPrefix) {
		return invalid("nondet prefix %q is not a valid identifier", a.NondetPrefix)
	}
	if a.AssumeFunction != "" && !identifierRegex.MatchString(a.AssumeFunction) {
		return invalid("assume function name %q is not a valid identifier", a.AssumeFunction)
	}
	if a.Waitlist != WaitlistDFS && a.Waitlist != WaitlistBFS {
		return invalid("waitlist must be %q or %q, not %q", WaitlistDFS, WaitlistBFS, a.Waitlist)
	}
	if a.ValueMerge != MergeJoin && a.ValueMerge != MergeSep {
		return invalid("value-merge must be %q or %q, not %q", MergeJoin, MergeSep, a.ValueMerge)
	}
	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil || d <= 0 {
			return invalid("timeout %q is not a positive duration", a.Timeout)
		}
		c.timeout = d
	} else {
		c.timeout = 0
	}
	return nil
}

// Timeout returns the time bound of the analysis, or zero if there is none. Only valid after Validate returned nil.
func (c *Config) Timeout() time.Duration {
	return c.timeout
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports: %w", err)
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.MkdirAll(c.ReportsDir, 0750)
		if err != nil && !os.IsExist(err) {
			return fmt.Errorf("could not create directory %s: %w", c.ReportsDir, err)
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// IsPropertyComponent returns true if the component CPA named name can report target states
func IsPropertyComponent(name string) bool {
	return name == ComponentUnreachCall
}
