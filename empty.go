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

// EmptyTree holds the precomputed hash of the canonical empty subtree at
// every level 0..=TreeDepth. EmptyTree[TreeDepth] is the empty leaf's
// hash; EmptyTree[0] is the root of a fully empty tree. It is built once
// and never mutated afterwards, so it is safe to share by reference
// across concurrently-reading trees.
type EmptyTree [TreeDepth + 1]NodeHash

// newEmptyTree computes EmptyTree bottom-up: the empty leaf at level
// TreeDepth, then a zero-sum branch of two copies of the previous level's
// hash, repeated up to the root.
func newEmptyTree() *EmptyTree {
	var tree EmptyTree

	tree[TreeDepth] = emptyLeaf().NodeHash()
	for level := TreeDepth - 1; level >= 0; level-- {
		h := tree[level+1]
		tree[level] = branchHash(h, h, 0)
	}
	return &tree
}

var sharedEmptyTree = newEmptyTree()

// SharedEmptyTree returns the package's shared, precomputed empty-subtree
// table. It is exported for standalone verifiers and utilities (e.g.
// package audit) that need E without constructing a Tree.
func SharedEmptyTree() *EmptyTree {
	return sharedEmptyTree
}
