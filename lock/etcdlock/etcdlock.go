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

// Package etcdlock enforces, across processes, the single-writer
// invariant the core tree engine assumes of a single in-process Tree
// value. Any number of processes may share one SQL- or Spanner-backed
// TreeStore; etcdlock.Locker.Acquire brackets the sequence of mutations
// one of them performs so only one holds the write lease at a time.
package etcdlock

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
)

// keyPrefix namespaces tree write-locks from any other use of the same
// etcd cluster.
const keyPrefix = "/mssmt/writer-lock/"

// Locker grants exclusive, lease-backed write access to a named tree
// (identified by an opaque treeID the caller chooses, e.g. a table name
// or asset identifier) across any number of processes sharing one etcd
// cluster.
type Locker struct {
	client *clientv3.Client
}

// New wraps an already-dialed etcd client.
func New(client *clientv3.Client) *Locker {
	return &Locker{client: client}
}

// Unlock releases a previously acquired write lock.
type Unlock func() error

// Acquire blocks until it holds the write lock for treeID, or ctx is
// done. The returned Unlock must be called to release it; the lock is
// also released automatically if the underlying lease expires (e.g. the
// holding process crashes).
func (l *Locker) Acquire(ctx context.Context, treeID string) (Unlock, error) {
	session, err := concurrency.NewSession(l.client, concurrency.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("etcdlock: new session: %w", err)
	}

	mutex := concurrency.NewMutex(session, keyPrefix+treeID)
	if err := mutex.Lock(ctx); err != nil {
		session.Close()
		return nil, fmt.Errorf("etcdlock: lock %q: %w", treeID, err)
	}

	unlock := func() error {
		defer session.Close()
		return mutex.Unlock(context.Background())
	}
	return unlock, nil
}
