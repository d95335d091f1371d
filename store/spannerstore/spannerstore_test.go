// Copyright 2016 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spannerstore

import "testing"

// TestTableNames pins the two table names documented in New's schema
// comment, since a rename here without updating the comment (or a real
// Spanner schema) would silently desync the two.
func TestTableNames(t *testing.T) {
	if leavesTable != "MssmtLeaves" {
		t.Fatalf("leavesTable = %q, want MssmtLeaves", leavesTable)
	}
	if branchesTable != "MssmtBranches" {
		t.Fatalf("branchesTable = %q, want MssmtBranches", branchesTable)
	}
}
