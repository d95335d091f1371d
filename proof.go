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

// Proof is a full inclusion/non-inclusion witness: exactly TreeDepth
// sibling nodes, ordered root-first (Nodes[0] is the sibling of the
// child taken at depth 0; Nodes[TreeDepth-1] is the sibling leaf).
type Proof struct {
	Nodes [TreeDepth]Node
}

// Verify reconstructs the root hash implied by this proof for the given
// leaf and key, without consulting any store. The caller is responsible
// for comparing the returned hash against an expected root (e.g. the
// tree's current RootHash()); a mismatch is not itself an error here,
// only a non-equal hash -- use VerifyRoot to get an error on mismatch.
func (p *Proof) Verify(leaf *Leaf, key Key) (NodeHash, error) {
	var current Node = leaf

	for depth := TreeDepth - 1; depth >= 0; depth-- {
		sib := p.Nodes[depth]

		var branch *Branch
		var err error
		if key.Bit(depth) {
			branch, err = NewBranch(current, sib)
		} else {
			branch, err = NewBranch(sib, current)
		}
		if err != nil {
			return NodeHash{}, err
		}
		current = branch
	}

	return current.NodeHash(), nil
}

// VerifyRoot is Verify followed by an explicit comparison against
// expectedRoot, returning ErrRootMismatch on failure.
func (p *Proof) VerifyRoot(leaf *Leaf, key Key, expectedRoot NodeHash) error {
	got, err := p.Verify(leaf, key)
	if err != nil {
		return err
	}
	if got != expectedRoot {
		return ErrRootMismatch
	}
	return nil
}

// CompactProof is the semantic compaction of a Proof: instead of
// TreeDepth entries, most of which equal the canonical empty-subtree hash
// at their level, it carries a 256-bit bitmap (bit d set means Nodes[d]
// is supplied explicitly) plus the ordered list of the non-empty entries.
type CompactProof struct {
	// Bits has bit d set when the proof's d'th sibling is not the
	// canonical empty-subtree hash at that level.
	Bits [TreeDepth]bool
	// NonEmpty holds, in depth order, the explicit sibling node for every
	// depth where Bits[d] is set.
	NonEmpty []Node
}

// Compact compacts p against the given empty-subtree table (pass the
// tree's own table, or precompute one with the package-level empty-tree
// helper for a standalone verifier).
func (p *Proof) Compact(empty *EmptyTree) *CompactProof {
	compact := &CompactProof{}
	for depth := 0; depth < TreeDepth; depth++ {
		node := p.Nodes[depth]
		if node.NodeHash() == empty[depth+1] {
			continue
		}
		compact.Bits[depth] = true
		compact.NonEmpty = append(compact.NonEmpty, node)
	}
	return compact
}

// Expand reconstitutes a full Proof from a CompactProof, substituting
// empty[depth+1] for every depth whose bit is clear.
func (c *CompactProof) Expand(empty *EmptyTree) (*Proof, error) {
	if len(c.NonEmpty) > TreeDepth {
		return nil, ErrProofLength
	}

	proof := &Proof{}
	next := 0
	for depth := 0; depth < TreeDepth; depth++ {
		if !c.Bits[depth] {
			proof.Nodes[depth] = rawNode{hash: empty[depth+1]}
			continue
		}
		if next >= len(c.NonEmpty) {
			return nil, ErrProofLength
		}
		proof.Nodes[depth] = c.NonEmpty[next]
		next++
	}
	if next != len(c.NonEmpty) {
		return nil, ErrProofLength
	}
	return proof, nil
}
