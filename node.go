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
	"crypto/sha256"
	"encoding/binary"
)

// Node is implemented by both Leaf and Branch. It exposes the two values
// every node commits to: its own content hash, and the sum of leaf weights
// reachable beneath it.
type Node interface {
	// NodeHash returns this node's content hash.
	NodeHash() NodeHash
	// NodeSum returns the sum of all leaf weights beneath this node (or,
	// for a Leaf, its own weight).
	NodeSum() uint64
}

// Leaf is a node carrying the actual committed data and weight. Leaves sit
// at depth TreeDepth and have no descendants.
type Leaf struct {
	// Data is the opaque payload committed to by this leaf.
	Data []byte
	// Sum is this leaf's weight, folded into every ancestor branch's sum.
	Sum uint64

	hash     NodeHash
	hashedAt bool
}

// NewLeaf constructs a Leaf, copying data so later mutation by the caller
// cannot change an already-hashed leaf.
func NewLeaf(data []byte, sum uint64) *Leaf {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Leaf{Data: cp, Sum: sum}
}

// IsEmpty reports whether this leaf is the canonical empty leaf (no data,
// zero sum) -- the value every absent key resolves to.
func (l *Leaf) IsEmpty() bool {
	return len(l.Data) == 0 && l.Sum == 0
}

// NodeHash returns SHA256(data || sum_be_u64), memoized after first call.
func (l *Leaf) NodeHash() NodeHash {
	if l.hashedAt {
		return l.hash
	}
	var sumBytes [8]byte
	binary.BigEndian.PutUint64(sumBytes[:], l.Sum)

	h := sha256.New()
	h.Write(l.Data)
	h.Write(sumBytes[:])

	copy(l.hash[:], h.Sum(nil))
	l.hashedAt = true
	return l.hash
}

// NodeSum returns the leaf's own weight.
func (l *Leaf) NodeSum() uint64 {
	return l.Sum
}

// Copy returns a deep copy of the leaf.
func (l *Leaf) Copy() *Leaf {
	return &Leaf{
		Data:     append([]byte(nil), l.Data...),
		Sum:      l.Sum,
		hash:     l.hash,
		hashedAt: l.hashedAt,
	}
}

// Branch is an intermediate node holding its two children as live Nodes
// (DiskBranch is the form that references children only by hash). Sum is
// always left.NodeSum() + right.NodeSum().
type Branch struct {
	left, right Node

	sum      uint64
	hash     NodeHash
	hashedAt bool
}

// NewBranch composes a Branch from two live children, computing its sum
// eagerly (overflow here is reported to the caller rather than wrapping,
// since a Branch's sum is itself a correctness-critical commitment).
func NewBranch(left, right Node) (*Branch, error) {
	sum, err := addSumChecked(left.NodeSum(), right.NodeSum())
	if err != nil {
		return nil, err
	}
	return &Branch{left: left, right: right, sum: sum}, nil
}

// Left returns the left child.
func (b *Branch) Left() Node { return b.left }

// Right returns the right child.
func (b *Branch) Right() Node { return b.right }

// NodeHash returns SHA256(left.hash || right.hash || sum_be_u64).
func (b *Branch) NodeHash() NodeHash {
	if b.hashedAt {
		return b.hash
	}
	b.hash = branchHash(b.left.NodeHash(), b.right.NodeHash(), b.sum)
	b.hashedAt = true
	return b.hash
}

// NodeSum returns left.NodeSum() + right.NodeSum().
func (b *Branch) NodeSum() uint64 {
	return b.sum
}

// DiskBranch is a Branch whose children are referenced only by hash, never
// materialized. This is the form persisted by a TreeStore: a single read
// of a DiskBranch is O(1) in subtree size, since fetching the children
// requires separate store calls.
type DiskBranch struct {
	left, right NodeHash
	sum         uint64

	hash     NodeHash
	hashedAt bool
}

// NewDiskBranch constructs a DiskBranch from child hashes and the
// precomputed sum of its children (the sum is trusted, not recomputed,
// since the caller has already summed the live child sums via
// addSumChecked during the tree's ascent phase).
func NewDiskBranch(left, right NodeHash, sum uint64) *DiskBranch {
	return &DiskBranch{left: left, right: right, sum: sum}
}

// Left returns the left child's hash.
func (b *DiskBranch) Left() NodeHash { return b.left }

// Right returns the right child's hash.
func (b *DiskBranch) Right() NodeHash { return b.right }

// NodeHash returns SHA256(left || right || sum_be_u64).
func (b *DiskBranch) NodeHash() NodeHash {
	if b.hashedAt {
		return b.hash
	}
	b.hash = branchHash(b.left, b.right, b.sum)
	b.hashedAt = true
	return b.hash
}

// NodeSum returns the branch's stored sum.
func (b *DiskBranch) NodeSum() uint64 {
	return b.sum
}

// ToDiskBranch demotes a fully materialized Branch to its disk form,
// dropping pointers to the actual children in favor of their hashes.
func (b *Branch) ToDiskBranch() *DiskBranch {
	return NewDiskBranch(b.left.NodeHash(), b.right.NodeHash(), b.sum)
}

func branchHash(left, right NodeHash, sum uint64) NodeHash {
	var sumBytes [8]byte
	binary.BigEndian.PutUint64(sumBytes[:], sum)

	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	h.Write(sumBytes[:])

	var out NodeHash
	copy(out[:], h.Sum(nil))
	return out
}

// emptyLeaf is the canonical empty leaf: E[TreeDepth].
func emptyLeaf() *Leaf {
	return NewLeaf(nil, 0)
}
