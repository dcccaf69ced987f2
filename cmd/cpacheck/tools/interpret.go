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

package tools

import "regexp"

// Captures the errors of the frontend or the CFA builder on Go code outside of the supported subset
var regexUnsupported = regexp.MustCompile("unsupported construct")

// Captures the kind of error that happen when you put a flag at the end instead of the Go file
var regexFlagAfterFile = regexp.MustCompile("expected one Go file, got [2-9]")

// Captures the error when the analyzed function is not in the file
var regexFunctionNotFound = regexp.MustCompile("function \\w+ not found")

// Captures the configuration errors
var regexInvalidConfiguration = regexp.MustCompile("invalid configuration")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	switch {
	case regexUnsupported.MatchString(errMsg):
		return "the function must be written with integer variables, assignments, if, for, break, continue, " +
			"return and calls"
	case regexFlagAfterFile.MatchString(errMsg):
		return "all command line flags should be before the path to the Go file to analyze"
	case regexFunctionNotFound.MatchString(errMsg):
		return "use -function to select the function to analyze"
	case regexInvalidConfiguration.MatchString(errMsg):
		return "check the analysis section of the config file"
	}
	return ""
}
