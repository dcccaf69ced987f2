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

const (
	// ComponentLocation is the name of the CPA tracking the current control-flow location
	ComponentLocation = "location"
	// ComponentValue is the name of the CPA tracking the values of the program variables
	ComponentValue = "value"
	// ComponentUnreachCall is the name of the CPA flagging the paths that call the target function
	ComponentUnreachCall = "unreach-call"

	// DefaultTargetFunction is the function whose calls are checked for reachability by default
	DefaultTargetFunction = "reach_error"
	// DefaultNondetPrefix is the prefix of the functions that return arbitrary values by default
	DefaultNondetPrefix = "__VERIFIER_nondet"
	// DefaultAssumeFunction is the function that restricts executions by default
	DefaultAssumeFunction = "__VERIFIER_assume"
	// DefaultFunction is the function analyzed by the source frontend by default
	DefaultFunction = "main"

	// WaitlistDFS explores the most recently discovered states first
	WaitlistDFS = "dfs"
	// WaitlistBFS explores the states in the order they have been discovered
	WaitlistBFS = "bfs"

	// MergeJoin merges two value states at the same location variable by variable
	MergeJoin = "join"
	// MergeSep never merges states
	MergeSep = "sep"
)

// KnownComponents lists the component CPAs that can be composed
var KnownComponents = []string{ComponentLocation, ComponentValue, ComponentUnreachCall}
