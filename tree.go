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

// Package mssmt implements a Merkle Sum Sparse Merkle Tree: a full,
// 2^256-leaf authenticated key-value structure whose root commits both to
// the set of live leaves and to the arithmetic sum of their weights. See
// the package's accompanying design documentation for the full algorithm.
package mssmt

import (
	"time"

	"github.com/golang/glog"
)

// Tree is a Merkle Sum Sparse Merkle Tree engine. A Tree value is
// single-writer: concurrent calls to Insert/Update/Delete against the
// same Tree are undefined, but concurrent Lookup/Prove calls are safe
// provided the backing TreeStore is safe for concurrent reads.
type Tree struct {
	store TreeStore
	empty *EmptyTree
	root  NodeHash
}

// NewTree constructs a Tree over store. Construction never touches the
// store: the root starts at the shared empty-tree table's root hash.
func NewTree(store TreeStore) *Tree {
	empty := sharedEmptyTree
	return &Tree{
		store: store,
		empty: empty,
		root:  empty[0],
	}
}

// RootHash returns the tree's current root hash.
func (t *Tree) RootHash() NodeHash {
	return t.root
}

// RootSum returns the sum committed to by the tree's current root: the
// total weight of every live leaf.
func (t *Tree) RootSum() (uint64, error) {
	branch, ok, err := t.store.FetchBranch(t.root)
	if err != nil {
		return 0, err
	}
	if !ok {
		// Either the tree is empty, or the root happens to collapse to a
		// single leaf (impossible at depth 0 in practice, but handled
		// for completeness): an unknown root branch means empty.
		return 0, nil
	}
	return branch.NodeSum(), nil
}

// resolveChildren returns the left/right child hashes of the on-path node
// identified by h at depth d, consulting the empty-subtree table whenever
// h is itself empty or unknown to the store. The descents of mutate,
// lookup and prove all resolve children through this function.
func (t *Tree) resolveChildren(h NodeHash, depth int) (left, right NodeHash, err error) {
	if h == t.empty[depth] {
		return t.empty[depth+1], t.empty[depth+1], nil
	}

	branch, ok, err := t.store.FetchBranch(h)
	if err != nil {
		return NodeHash{}, NodeHash{}, err
	}
	if !ok {
		return t.empty[depth+1], t.empty[depth+1], nil
	}
	return branch.Left(), branch.Right(), nil
}

// Insert adds or replaces the leaf at key with the given data and sum.
// Update is an alias: both mutate the spine for key identically.
func (t *Tree) Insert(key Key, data []byte, sum uint64) error {
	start := time.Now()
	err := t.mutate(key, NewLeaf(data, sum))
	observeMutation("insert", time.Since(start), err)
	return err
}

// Update replaces the leaf at key with the given data and sum. It is
// exactly Insert; the distinction exists only for call-site clarity.
func (t *Tree) Update(key Key, data []byte, sum uint64) error {
	start := time.Now()
	err := t.mutate(key, NewLeaf(data, sum))
	observeMutation("update", time.Since(start), err)
	return err
}

// Delete removes the leaf at key, if any. It is Insert with the canonical
// empty leaf.
func (t *Tree) Delete(key Key) error {
	start := time.Now()
	err := t.mutate(key, emptyLeaf())
	observeMutation("delete", time.Since(start), err)
	return err
}

// mutate drives the shared descend-then-ascend spine rewrite used by
// Insert, Update and Delete. It is iterative, not recursive, by design:
// the algorithmic core walks exactly TreeDepth levels down and back up
// per call, and recursion at that depth would risk unbounded stack growth
// for no benefit.
func (t *Tree) mutate(key Key, leaf *Leaf) error {
	var (
		parents  [TreeDepth]NodeHash
		siblings [TreeDepth]NodeHash
	)

	// Descent phase: walk from the root to the leaf position, recording
	// the on-path node and its sibling at every depth.
	h := t.root
	for depth := 0; depth < TreeDepth; depth++ {
		left, right, err := t.resolveChildren(h, depth)
		if err != nil {
			return err
		}

		var next, sibling NodeHash
		if key.Bit(depth) {
			next, sibling = left, right
		} else {
			next, sibling = right, left
		}

		parents[depth] = h
		siblings[depth] = sibling
		h = next
	}

	// Leaf materialization: the canonical empty leaf is never persisted;
	// any lingering copy is defensively deleted instead.
	leafHash := leaf.NodeHash()
	if leafHash != t.empty[TreeDepth] {
		if err := t.store.InsertLeaf(leaf); err != nil {
			return err
		}
	} else if err := t.store.DeleteLeaf(leafHash); err != nil {
		return err
	}

	// Ascent phase: rebuild every branch on the spine, from the leaf's
	// parent up to the root, deleting the old branch before inserting
	// the new one at every level (an empty old branch is never deleted,
	// and a new branch that hashes to the empty subtree is never inserted).
	var current Node = leaf
	for depth := TreeDepth - 1; depth >= 0; depth-- {
		sibHash := siblings[depth]

		sibSum, err := t.siblingSum(sibHash, depth)
		if err != nil {
			return err
		}

		newSum, err := addSumChecked(current.NodeSum(), sibSum)
		if err != nil {
			return err
		}

		var left, right NodeHash
		if key.Bit(depth) {
			left, right = current.NodeHash(), sibHash
		} else {
			left, right = sibHash, current.NodeHash()
		}

		oldParent := parents[depth]
		if oldParent != t.empty[depth] {
			if err := t.store.DeleteBranch(oldParent); err != nil {
				return err
			}
		}

		newBranch := NewDiskBranch(left, right, newSum)
		if newBranch.NodeHash() != t.empty[depth] {
			if err := t.store.InsertBranch(newBranch); err != nil {
				return err
			}
		}
		current = newBranch
	}

	t.root = current.NodeHash()
	glog.V(2).Infof("mssmt: mutated key=%x new_root=%s", key, t.root)
	return nil
}

// siblingSum returns the sum committed to by sibHash, the sibling at
// depth: a stored branch's sum, or at the bottom level a stored leaf's
// sum, or 0 if the store holds neither (an empty subtree always sums to
// zero).
func (t *Tree) siblingSum(sibHash NodeHash, depth int) (uint64, error) {
	branch, ok, err := t.store.FetchBranch(sibHash)
	if err != nil {
		return 0, err
	}
	if ok {
		return branch.NodeSum(), nil
	}
	if depth == TreeDepth-1 && sibHash != t.empty[TreeDepth] {
		leaf, ok, err := t.store.FetchLeaf(sibHash)
		if err != nil {
			return 0, err
		}
		if ok {
			return leaf.NodeSum(), nil
		}
	}
	return 0, nil
}

// Lookup returns the leaf stored at key, or ok=false if the path under
// key resolves to the canonical empty leaf. Lookup never mutates the
// store.
func (t *Tree) Lookup(key Key) (leaf *Leaf, ok bool, err error) {
	start := time.Now()
	leaf, ok, err = t.lookup(key)
	observeRead("lookup", time.Since(start), err)
	return leaf, ok, err
}

func (t *Tree) lookup(key Key) (*Leaf, bool, error) {
	h := t.root
	for depth := 0; depth < TreeDepth; depth++ {
		left, right, err := t.resolveChildren(h, depth)
		if err != nil {
			return nil, false, err
		}
		if key.Bit(depth) {
			h = left
		} else {
			h = right
		}
	}
	return t.store.FetchLeaf(h)
}

// Prove returns a full inclusion/non-inclusion proof for key: exactly
// TreeDepth sibling entries, ordered root-first.
func (t *Tree) Prove(key Key) (*Proof, error) {
	start := time.Now()
	proof, err := t.prove(key)
	observeRead("prove", time.Since(start), err)
	return proof, err
}

func (t *Tree) prove(key Key) (*Proof, error) {
	var nodes [TreeDepth]Node

	h := t.root
	for depth := 0; depth < TreeDepth; depth++ {
		left, right, err := t.resolveChildren(h, depth)
		if err != nil {
			return nil, err
		}

		var next, sibling NodeHash
		if key.Bit(depth) {
			next, sibling = left, right
		} else {
			next, sibling = right, left
		}

		if depth < TreeDepth-1 {
			branch, ok, err := t.store.FetchBranch(sibling)
			if err != nil {
				return nil, err
			}
			if ok {
				nodes[depth] = branch
			} else {
				nodes[depth] = emptyBranchAt(t.empty, depth+1)
			}
		} else {
			leaf, ok, err := t.store.FetchLeaf(sibling)
			if err != nil {
				return nil, err
			}
			if ok {
				nodes[depth] = leaf
			} else {
				nodes[depth] = emptyLeaf()
			}
		}

		h = next
	}

	return &Proof{Nodes: nodes}, nil
}

// emptyBranchAt returns a placeholder node whose NodeHash is exactly
// empty[level] and whose sum is zero (an empty subtree commits to no
// weight). Proof entries never need anything but those two values.
func emptyBranchAt(empty *EmptyTree, level int) Node {
	return rawNode{hash: empty[level], sum: 0}
}

// rawNode is a Node with a precomputed hash and sum and no children; it
// exists only to stand in for an empty subtree inside a Proof.
type rawNode struct {
	hash NodeHash
	sum  uint64
}

func (r rawNode) NodeHash() NodeHash { return r.hash }
func (r rawNode) NodeSum() uint64    { return r.sum }
