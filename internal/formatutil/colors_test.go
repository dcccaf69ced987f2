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

package formatutil

import "testing"

func TestSanitize(t *testing.T) {
	if s := Sanitize("a\x1b[31mb\nc"); s != `a\x1b[31mb\nc` {
		t.Errorf("expected escape sequences to be quoted, got %s", s)
	}
	if s := Sanitize("plain"); s != "plain" {
		t.Errorf("expected plain text to be unchanged, got %s", s)
	}
}

func TestIndent(t *testing.T) {
	if s := Indent("a\nb\n", 2); s != "  a\n  b" {
		t.Errorf("unexpected indentation %q", s)
	}
}
