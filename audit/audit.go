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

// Package audit offline-checks a subset of the tree's invariants against
// a store's raw contents: no stored node may hash to a canonical empty
// subtree, and every stored branch's sum must equal the sum of its
// children. It never runs on the engine's hot path; it is meant to be
// invoked by an operator or a periodic job against a store snapshot.
package audit

import (
	"fmt"

	"github.com/google/btree"

	"github.com/chainsum/mssmt"
)

// Violation describes a single invariant breach found by Walk.
type Violation struct {
	Hash   mssmt.NodeHash
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Hash, v.Reason)
}

// hashItem adapts mssmt.NodeHash (which orders via Compare) to
// github.com/google/btree's Item interface, giving Walk a deterministic,
// memory-bounded traversal order regardless of what order the backend's
// AllHashes returned them in.
type hashItem mssmt.NodeHash

func (h hashItem) Less(than btree.Item) bool {
	other := than.(hashItem)
	return mssmt.NodeHash(h).Compare(mssmt.NodeHash(other)) < 0
}

// Walk enumerates every hash store reports via its EnumerableStore
// extension, sorts them deterministically, and checks:
//   - I2: no stored hash equals empty[level] for any level (a store that
//     violates this has persisted a subtree the engine should have
//     elided).
//   - I1: every stored branch's sum equals the sum of its children's
//     sums, where the children are themselves resolvable in the store (a
//     child that is itself unresolvable is reported separately rather
//     than assumed to be empty, since an audit should not paper over a
//     dangling reference).
func Walk(store mssmt.EnumerableStore, empty *mssmt.EmptyTree) ([]Violation, error) {
	full, ok := store.(interface {
		mssmt.EnumerableStore
		mssmt.TreeStore
	})
	if !ok {
		return nil, fmt.Errorf("audit: store must also implement mssmt.TreeStore")
	}

	hashes, err := full.AllHashes()
	if err != nil {
		return nil, err
	}

	tree := btree.New(32)
	for _, h := range hashes {
		tree.ReplaceOrInsert(hashItem(h))
	}

	emptySet := make(map[mssmt.NodeHash]struct{}, len(empty))
	for _, h := range empty {
		emptySet[h] = struct{}{}
	}

	var violations []Violation
	tree.Ascend(func(item btree.Item) bool {
		h := mssmt.NodeHash(item.(hashItem))

		if _, isEmpty := emptySet[h]; isEmpty {
			violations = append(violations, Violation{
				Hash:   h,
				Reason: "stored node hashes to a canonical empty subtree",
			})
		}

		branch, isBranch, err := full.FetchBranch(h)
		if err != nil {
			violations = append(violations, Violation{Hash: h, Reason: err.Error()})
			return true
		}
		if !isBranch {
			return true
		}

		left, right := branch.Left(), branch.Right()
		leftSum, leftOK, err := resolveSum(full, left, emptySet)
		if err != nil {
			violations = append(violations, Violation{Hash: h, Reason: err.Error()})
			return true
		}
		rightSum, rightOK, err := resolveSum(full, right, emptySet)
		if err != nil {
			violations = append(violations, Violation{Hash: h, Reason: err.Error()})
			return true
		}
		if !leftOK || !rightOK {
			violations = append(violations, Violation{
				Hash:   h,
				Reason: "branch references a child hash not present in the store or empty table",
			})
			return true
		}
		if leftSum+rightSum != branch.NodeSum() {
			violations = append(violations, Violation{
				Hash: h,
				Reason: fmt.Sprintf("branch sum %d != left.sum(%d) + right.sum(%d)",
					branch.NodeSum(), leftSum, rightSum),
			})
		}
		return true
	})

	return violations, nil
}

// resolveSum returns the sum committed to by hash: 0 if it's a known
// empty-subtree hash, the branch's sum if it resolves to a branch, the
// leaf's sum if it resolves to a leaf, or ok=false if none apply.
func resolveSum(store mssmt.TreeStore, hash mssmt.NodeHash, emptySet map[mssmt.NodeHash]struct{}) (uint64, bool, error) {
	if _, isEmpty := emptySet[hash]; isEmpty {
		return 0, true, nil
	}
	if branch, ok, err := store.FetchBranch(hash); err != nil {
		return 0, false, err
	} else if ok {
		return branch.NodeSum(), true, nil
	}
	if leaf, ok, err := store.FetchLeaf(hash); err != nil {
		return 0, false, err
	} else if ok {
		return leaf.NodeSum(), true, nil
	}
	return 0, false, nil
}
