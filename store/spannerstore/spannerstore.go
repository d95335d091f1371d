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

// Package spannerstore is a Cloud Spanner-backed mssmt.TreeStore, for
// deployments that already run Spanner as their system-of-record and
// want the tree's nodes living alongside the rest of their schema.
package spannerstore

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chainsum/mssmt"
)

const (
	leavesTable   = "MssmtLeaves"
	branchesTable = "MssmtBranches"
)

// Store is a Cloud Spanner-backed mssmt.TreeStore. Every call takes the
// ctx given to New and is otherwise synchronous, matching the core
// engine's own synchronous contract.
type Store struct {
	client *spanner.Client
	ctx    context.Context
}

// New wraps an already-dialed Spanner client. The expected schema is:
//
//	CREATE TABLE MssmtLeaves (
//	  Hash STRING(64) NOT NULL,
//	  Data BYTES(MAX),
//	  Sum INT64 NOT NULL,
//	) PRIMARY KEY (Hash);
//
//	CREATE TABLE MssmtBranches (
//	  Hash STRING(64) NOT NULL,
//	  LeftHash STRING(64) NOT NULL,
//	  RightHash STRING(64) NOT NULL,
//	  Sum INT64 NOT NULL,
//	) PRIMARY KEY (Hash);
func New(ctx context.Context, client *spanner.Client) *Store {
	return &Store{client: client, ctx: ctx}
}

// InsertLeaf implements mssmt.TreeStore.
func (s *Store) InsertLeaf(leaf *mssmt.Leaf) error {
	hash := leaf.NodeHash()
	mutation := spanner.InsertOrUpdate(leavesTable,
		[]string{"Hash", "Data", "Sum"},
		[]interface{}{hash.String(), leaf.Data, int64(leaf.Sum)})
	_, err := s.client.Apply(s.ctx, []*spanner.Mutation{mutation})
	return err
}

// InsertBranch implements mssmt.TreeStore.
func (s *Store) InsertBranch(branch *mssmt.DiskBranch) error {
	hash := branch.NodeHash()
	left, right := branch.Left(), branch.Right()
	mutation := spanner.InsertOrUpdate(branchesTable,
		[]string{"Hash", "LeftHash", "RightHash", "Sum"},
		[]interface{}{hash.String(), left.String(), right.String(), int64(branch.NodeSum())})
	_, err := s.client.Apply(s.ctx, []*spanner.Mutation{mutation})
	return err
}

// DeleteLeaf implements mssmt.TreeStore.
func (s *Store) DeleteLeaf(hash mssmt.NodeHash) error {
	_, err := s.client.Apply(s.ctx, []*spanner.Mutation{
		spanner.Delete(leavesTable, spanner.Key{hash.String()}),
	})
	return err
}

// DeleteBranch implements mssmt.TreeStore.
func (s *Store) DeleteBranch(hash mssmt.NodeHash) error {
	_, err := s.client.Apply(s.ctx, []*spanner.Mutation{
		spanner.Delete(branchesTable, spanner.Key{hash.String()}),
	})
	return err
}

// FetchLeaf implements mssmt.TreeStore.
func (s *Store) FetchLeaf(hash mssmt.NodeHash) (*mssmt.Leaf, bool, error) {
	row, err := s.client.Single().ReadRow(s.ctx, leavesTable,
		spanner.Key{hash.String()}, []string{"Data", "Sum"})
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var data []byte
	var sum int64
	if err := row.Columns(&data, &sum); err != nil {
		return nil, false, err
	}
	return mssmt.NewLeaf(data, uint64(sum)), true, nil
}

// FetchBranch implements mssmt.TreeStore.
func (s *Store) FetchBranch(hash mssmt.NodeHash) (*mssmt.DiskBranch, bool, error) {
	row, err := s.client.Single().ReadRow(s.ctx, branchesTable,
		spanner.Key{hash.String()}, []string{"LeftHash", "RightHash", "Sum"})
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var leftHex, rightHex string
	var sum int64
	if err := row.Columns(&leftHex, &rightHex, &sum); err != nil {
		return nil, false, err
	}

	lh, err := mssmt.NodeHashFromHex(leftHex)
	if err != nil {
		return nil, false, err
	}
	rh, err := mssmt.NodeHashFromHex(rightHex)
	if err != nil {
		return nil, false, err
	}
	return mssmt.NewDiskBranch(lh, rh, uint64(sum)), true, nil
}

// AllHashes implements mssmt.EnumerableStore for the offline auditor.
func (s *Store) AllHashes() ([]mssmt.NodeHash, error) {
	var hashes []mssmt.NodeHash
	for _, table := range []string{leavesTable, branchesTable} {
		iter := s.client.Single().Read(s.ctx, table, spanner.AllKeys(), []string{"Hash"})
		err := iter.Do(func(row *spanner.Row) error {
			var hex string
			if err := row.Columns(&hex); err != nil {
				return err
			}
			h, err := mssmt.NodeHashFromHex(hex)
			if err != nil {
				return err
			}
			hashes = append(hashes, h)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return hashes, nil
}

var _ mssmt.TreeStore = (*Store)(nil)
var _ mssmt.EnumerableStore = (*Store)(nil)
