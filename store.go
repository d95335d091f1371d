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

// TreeStore is the pluggable persistence contract the engine drives. It
// addresses nodes by their own content hash, never by tree position: a
// branch records only its children's hashes, so a single fetch is O(1) in
// subtree size.
//
// Implementations must never store an entry whose hash equals the
// corresponding EmptyTree[level] (the engine itself never attempts to
// insert one, deleting instead); a fetch against a hash the store has
// never seen must return (nil, false, nil), not an error.
type TreeStore interface {
	// InsertLeaf persists a leaf keyed by its own NodeHash.
	InsertLeaf(leaf *Leaf) error
	// InsertBranch persists a branch keyed by its own NodeHash.
	InsertBranch(branch *DiskBranch) error
	// DeleteLeaf removes a leaf by hash. Deleting a hash that isn't
	// present is not an error.
	DeleteLeaf(hash NodeHash) error
	// DeleteBranch removes a branch by hash. Deleting a hash that isn't
	// present is not an error.
	DeleteBranch(hash NodeHash) error
	// FetchLeaf returns the leaf stored under hash, or ok=false if none
	// is stored (including if hash instead names a branch).
	FetchLeaf(hash NodeHash) (leaf *Leaf, ok bool, err error)
	// FetchBranch returns the branch stored under hash, or ok=false if
	// none is stored (including if hash instead names a leaf).
	FetchBranch(hash NodeHash) (branch *DiskBranch, ok bool, err error)
}

// RecursiveFetcher is an optional TreeStore extension for backends that
// can materialize a fully fetched subtree in one call. Nothing in the
// core engine requires it; it exists for utilities that need an
// in-memory Branch (with live children, not just child hashes) rooted at
// a given hash.
type RecursiveFetcher interface {
	// FetchBranchRecursive fully materializes the subtree rooted at
	// hash, recursively resolving every descendant branch and leaf.
	FetchBranchRecursive(hash NodeHash) (branch *Branch, ok bool, err error)
}

// EnumerableStore is an optional TreeStore extension letting an offline
// utility (see package audit) walk every hash a backend currently holds.
// The core engine never calls it.
type EnumerableStore interface {
	// AllHashes returns every hash currently stored, in no particular
	// order.
	AllHashes() ([]NodeHash, error)
}

// fetchBranchRecursive materializes the live subtree rooted at hash using
// only the base TreeStore contract, falling back to RecursiveFetcher when
// a backend offers a more efficient path.
func fetchBranchRecursive(store TreeStore, hash NodeHash) (*Branch, bool, error) {
	if rf, ok := store.(RecursiveFetcher); ok {
		return rf.FetchBranchRecursive(hash)
	}

	branch, ok, err := store.FetchBranch(hash)
	if err != nil || !ok {
		return nil, ok, err
	}

	left, err := materializeChild(store, branch.Left())
	if err != nil {
		return nil, false, err
	}
	right, err := materializeChild(store, branch.Right())
	if err != nil {
		return nil, false, err
	}

	full, err := NewBranch(left, right)
	if err != nil {
		return nil, false, err
	}
	return full, true, nil
}

// materializeChild resolves hash to either a live Leaf or a recursively
// materialized Branch, treating a hash unknown to the store as the
// canonical empty leaf (the only unknown-hash case reachable below a
// branch the store did return, per the store's own invariants).
func materializeChild(store TreeStore, hash NodeHash) (Node, error) {
	if leaf, ok, err := store.FetchLeaf(hash); err != nil {
		return nil, err
	} else if ok {
		return leaf, nil
	}

	if branch, ok, err := fetchBranchRecursive(store, hash); err != nil {
		return nil, err
	} else if ok {
		return branch, nil
	}

	return emptyLeaf(), nil
}
