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

package mssmt

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chainsum/mssmt/store/memstore"
)

func TestProveEmptyTreeVerifiesAgainstEmptyRoot(t *testing.T) {
	tr := NewTree(memstore.New())

	var key Key
	proof, err := tr.Prove(key)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if got, want := len(proof.Nodes), TreeDepth; got != want {
		t.Fatalf("proof has %d entries, want %d", got, want)
	}

	if err := proof.VerifyRoot(emptyLeaf(), key, tr.RootHash()); err != nil {
		t.Fatalf("VerifyRoot: %v", err)
	}
}

// TestProveVerifyRoundTrip is scenario S6: prove(key) always has exactly
// TreeDepth entries, and verify(prove(key)) reconstructs the tree's actual
// root for the leaf now stored at key.
func TestProveVerifyRoundTrip(t *testing.T) {
	tr := NewTree(memstore.New())

	var key Key
	key[0] = 0xAB
	key[31] = 0x01
	if err := tr.Insert(key, []byte("Satoshi"), 1984); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	proof, err := tr.Prove(key)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if got, want := len(proof.Nodes), TreeDepth; got != want {
		t.Fatalf("proof has %d entries, want %d", got, want)
	}

	leaf, ok, err := tr.Lookup(key)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to be present")
	}

	if err := proof.VerifyRoot(leaf, key, tr.RootHash()); err != nil {
		t.Fatalf("VerifyRoot: %v", err)
	}

	// A wrong key must not verify against the same root.
	var wrongKey Key
	wrongKey[0] = 0xFF
	if err := proof.VerifyRoot(leaf, wrongKey, tr.RootHash()); err == nil {
		t.Fatalf("expected VerifyRoot to fail for the wrong key")
	}
}

func TestCompactProofRoundTrip(t *testing.T) {
	tr := NewTree(memstore.New())

	var key Key
	key[5] = 0x42
	if err := tr.Insert(key, []byte("hello"), 7); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	proof, err := tr.Prove(key)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	compact := proof.Compact(tr.empty)
	if len(compact.NonEmpty) > TreeDepth {
		t.Fatalf("compact proof has more than TreeDepth non-empty entries")
	}

	expanded, err := compact.Expand(tr.empty)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	leaf, ok, err := tr.Lookup(key)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}

	if err := expanded.VerifyRoot(leaf, key, tr.RootHash()); err != nil {
		t.Fatalf("VerifyRoot after expand: %v", err)
	}
}

// TestProveIsDeterministic re-proves the same key twice against an
// unchanged tree and diffs the two resulting sibling-hash sequences with
// cmp.Diff, rather than a manual loop, to catch any accidental
// non-determinism (e.g. map iteration order leaking into node ordering).
func TestProveIsDeterministic(t *testing.T) {
	tr := NewTree(memstore.New())
	var key Key
	key[3] = 0x11
	if err := tr.Insert(key, []byte("data"), 5); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	hashesOf := func(p *Proof) []NodeHash {
		out := make([]NodeHash, len(p.Nodes))
		for i, n := range p.Nodes {
			out[i] = n.NodeHash()
		}
		return out
	}

	first, err := tr.Prove(key)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	second, err := tr.Prove(key)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	if diff := cmp.Diff(hashesOf(first), hashesOf(second)); diff != "" {
		t.Fatalf("Prove is not deterministic for an unchanged tree (-first +second):\n%s", diff)
	}
}

func TestCompactProofExpandRejectsTruncatedInput(t *testing.T) {
	c := &CompactProof{}
	c.Bits[0] = true
	// NonEmpty deliberately left empty despite Bits[0] being set.
	if _, err := c.Expand(sharedEmptyTree); err == nil {
		t.Fatalf("expected Expand to reject a truncated CompactProof")
	}
}
