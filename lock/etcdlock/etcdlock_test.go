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

package etcdlock

import "testing"

// TestKeyPrefixIsNamespaced guards against two different tree IDs ever
// colliding, and against the prefix accidentally losing its leading/
// trailing slash (either of which would let an unrelated etcd key under
// "/mssmt/writer-lockX" be mistaken for a sibling lock).
func TestKeyPrefixIsNamespaced(t *testing.T) {
	if keyPrefix[0] != '/' || keyPrefix[len(keyPrefix)-1] != '/' {
		t.Fatalf("keyPrefix %q must start and end with /", keyPrefix)
	}

	a := keyPrefix + "tree-a"
	b := keyPrefix + "tree-b"
	if a == b {
		t.Fatalf("distinct tree IDs must produce distinct lock keys")
	}
}
