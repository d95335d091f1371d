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

// Package memstore is the reference TreeStore backend: a single
// NodeHash -> node mapping behind a readers/writer lock. It is not meant
// for production use, only for tests and small proofs of concept.
package memstore

import (
	"sync"

	"github.com/chainsum/mssmt"
)

// entry tags whether a stored value is a leaf or a branch, since a single
// map holds both kinds keyed by the same hash space.
type entry struct {
	leaf   *mssmt.Leaf
	branch *mssmt.DiskBranch
}

// Store is the in-memory reference mssmt.TreeStore.
type Store struct {
	mu    sync.RWMutex
	nodes map[mssmt.NodeHash]entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{nodes: make(map[mssmt.NodeHash]entry)}
}

// InsertLeaf implements mssmt.TreeStore.
func (s *Store) InsertLeaf(leaf *mssmt.Leaf) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[leaf.NodeHash()] = entry{leaf: leaf}
	return nil
}

// InsertBranch implements mssmt.TreeStore.
func (s *Store) InsertBranch(branch *mssmt.DiskBranch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[branch.NodeHash()] = entry{branch: branch}
	return nil
}

// DeleteLeaf implements mssmt.TreeStore. Deleting an absent hash is a
// no-op, as required by the contract.
func (s *Store) DeleteLeaf(hash mssmt.NodeHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, hash)
	return nil
}

// DeleteBranch implements mssmt.TreeStore. Deleting an absent hash is a
// no-op, as required by the contract.
func (s *Store) DeleteBranch(hash mssmt.NodeHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, hash)
	return nil
}

// FetchLeaf implements mssmt.TreeStore. A hash that names a branch
// instead of a leaf reads as absent, not as an error.
func (s *Store) FetchLeaf(hash mssmt.NodeHash) (*mssmt.Leaf, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.nodes[hash]
	if !ok || e.leaf == nil {
		return nil, false, nil
	}
	return e.leaf, true, nil
}

// FetchBranch implements mssmt.TreeStore. A hash that names a leaf
// instead of a branch reads as absent, not as an error.
func (s *Store) FetchBranch(hash mssmt.NodeHash) (*mssmt.DiskBranch, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.nodes[hash]
	if !ok || e.branch == nil {
		return nil, false, nil
	}
	return e.branch, true, nil
}

// AllHashes implements mssmt.EnumerableStore for the offline auditor.
func (s *Store) AllHashes() ([]mssmt.NodeHash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hashes := make([]mssmt.NodeHash, 0, len(s.nodes))
	for h := range s.nodes {
		hashes = append(hashes, h)
	}
	return hashes, nil
}

var _ mssmt.TreeStore = (*Store)(nil)
var _ mssmt.EnumerableStore = (*Store)(nil)
