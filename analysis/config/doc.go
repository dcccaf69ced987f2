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

/*
Package config provides a simple way to manage configuration files.

Use [Load](filename, content) to load a configuration from the content of a file, and [SetGlobalConfig](filename)
followed by [LoadGlobal]() to load a configuration from the filesystem.

A config file should be in yaml or toml format. The top-level fields are "options", the options of the tool, and
"analysis", which specifies the configurable program analysis to run. For example, a valid config file is as follows:

	options:
	  log-level: 4
	  report-witness: true
	analysis:
	  components: [location, value, unreach-call]
	  target-function: reach_error
	  waitlist: bfs
	  max-iterations: 10000
	  timeout: 30s

Every field that is omitted takes its default value, see [NewDefault]. A configuration is validated when it is
loaded; configurations built in code should be checked with [Config.Validate] before they are used.

# Termination

The default value merge operator "join" guarantees termination of the analysis on any program. Setting
value-merge to "sep" keeps every distinct value state and the analysis may not terminate on programs with loops;
use max-iterations or timeout to bound it. A bounded analysis that stops early reports no verdict.
*/
package config
