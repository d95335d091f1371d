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

// Package cachestore decorates an mssmt.TreeStore with a Redis-backed
// read cache. Writes pass straight through to the underlying store and
// invalidate the corresponding cache entries; reads are served from Redis
// when possible, with concurrent identical misses collapsed into a
// single backend fetch via singleflight. This is safe under the engine's
// own concurrency model (see mssmt.Tree: concurrent Lookup/Prove calls
// are safe provided the backing store is safe for concurrent reads), since the
// cache only ever serves data the backend itself already returned.
package cachestore

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/golang/glog"
	"golang.org/x/sync/singleflight"

	"github.com/chainsum/mssmt"
)

// DefaultTTL bounds how long a cached node may be served before the
// backend is consulted again.
const DefaultTTL = 10 * time.Minute

// Store wraps an mssmt.TreeStore with a Redis-backed read cache.
type Store struct {
	backend mssmt.TreeStore
	redis   *redis.Client
	ttl     time.Duration
	group   singleflight.Group
}

// New wraps backend with a Redis cache reachable through client. A zero
// ttl uses DefaultTTL.
func New(backend mssmt.TreeStore, client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, redis: client, ttl: ttl}
}

func leafKey(hash mssmt.NodeHash) string   { return "mssmt:leaf:" + hash.String() }
func branchKey(hash mssmt.NodeHash) string { return "mssmt:branch:" + hash.String() }

// InsertLeaf passes through to the backend, then invalidates any cached
// entry for the leaf's hash (a write makes any stale cache entry for that
// hash impossible in practice, but invalidating keeps the cache honest
// even if a previous delete+reinsert cycle ever raced one).
func (s *Store) InsertLeaf(leaf *mssmt.Leaf) error {
	if err := s.backend.InsertLeaf(leaf); err != nil {
		return err
	}
	return s.redis.Del(leafKey(leaf.NodeHash())).Err()
}

// InsertBranch passes through to the backend, then invalidates the
// corresponding cache entry.
func (s *Store) InsertBranch(branch *mssmt.DiskBranch) error {
	if err := s.backend.InsertBranch(branch); err != nil {
		return err
	}
	return s.redis.Del(branchKey(branch.NodeHash())).Err()
}

// DeleteLeaf passes through to the backend, then invalidates the cache.
func (s *Store) DeleteLeaf(hash mssmt.NodeHash) error {
	if err := s.backend.DeleteLeaf(hash); err != nil {
		return err
	}
	return s.redis.Del(leafKey(hash)).Err()
}

// DeleteBranch passes through to the backend, then invalidates the cache.
func (s *Store) DeleteBranch(hash mssmt.NodeHash) error {
	if err := s.backend.DeleteBranch(hash); err != nil {
		return err
	}
	return s.redis.Del(branchKey(hash)).Err()
}

// FetchLeaf serves from Redis when cached, otherwise fetches from the
// backend (collapsing concurrent identical fetches) and populates the
// cache, including negative results so repeated non-inclusion lookups
// under a hot key don't repeatedly round-trip the backend.
func (s *Store) FetchLeaf(hash mssmt.NodeHash) (*mssmt.Leaf, bool, error) {
	key := leafKey(hash)
	if data, err := s.redis.Get(key).Bytes(); err == nil {
		return decodeLeaf(data)
	} else if err != redis.Nil {
		glog.Warningf("cachestore: redis get %s failed, falling back: %v", key, err)
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		leaf, ok, err := s.backend.FetchLeaf(hash)
		if err != nil {
			return nil, err
		}
		encoded := encodeLeaf(leaf, ok)
		if setErr := s.redis.Set(key, encoded, s.ttl).Err(); setErr != nil {
			glog.Warningf("cachestore: redis set %s failed: %v", key, setErr)
		}
		return encoded, nil
	})
	if err != nil {
		return nil, false, err
	}
	return decodeLeaf(v.([]byte))
}

// FetchBranch serves from Redis when cached, otherwise fetches from the
// backend (collapsing concurrent identical fetches) and populates the
// cache.
func (s *Store) FetchBranch(hash mssmt.NodeHash) (*mssmt.DiskBranch, bool, error) {
	key := branchKey(hash)
	if data, err := s.redis.Get(key).Bytes(); err == nil {
		return decodeBranch(data)
	} else if err != redis.Nil {
		glog.Warningf("cachestore: redis get %s failed, falling back: %v", key, err)
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		branch, ok, err := s.backend.FetchBranch(hash)
		if err != nil {
			return nil, err
		}
		encoded := encodeBranch(branch, ok)
		if setErr := s.redis.Set(key, encoded, s.ttl).Err(); setErr != nil {
			glog.Warningf("cachestore: redis set %s failed: %v", key, setErr)
		}
		return encoded, nil
	})
	if err != nil {
		return nil, false, err
	}
	return decodeBranch(v.([]byte))
}

// Present markers: the first byte of an encoded cache entry distinguishes
// a hit from a cached negative result.
const (
	absentMarker byte = 0
	presentMarker byte = 1
)

func encodeLeaf(leaf *mssmt.Leaf, ok bool) []byte {
	if !ok {
		return []byte{absentMarker}
	}
	buf := make([]byte, 1+8+len(leaf.Data))
	buf[0] = presentMarker
	binary.BigEndian.PutUint64(buf[1:9], leaf.Sum)
	copy(buf[9:], leaf.Data)
	return buf
}

func decodeLeaf(buf []byte) (*mssmt.Leaf, bool, error) {
	if len(buf) == 0 || buf[0] == absentMarker {
		return nil, false, nil
	}
	if len(buf) < 9 {
		return nil, false, fmt.Errorf("cachestore: corrupt cached leaf entry")
	}
	sum := binary.BigEndian.Uint64(buf[1:9])
	return mssmt.NewLeaf(buf[9:], sum), true, nil
}

func encodeBranch(branch *mssmt.DiskBranch, ok bool) []byte {
	if !ok {
		return []byte{absentMarker}
	}
	left, right := branch.Left(), branch.Right()
	buf := make([]byte, 1+8+mssmt.HashSize*2)
	buf[0] = presentMarker
	binary.BigEndian.PutUint64(buf[1:9], branch.NodeSum())
	copy(buf[9:9+mssmt.HashSize], left[:])
	copy(buf[9+mssmt.HashSize:], right[:])
	return buf
}

func decodeBranch(buf []byte) (*mssmt.DiskBranch, bool, error) {
	if len(buf) == 0 || buf[0] == absentMarker {
		return nil, false, nil
	}
	want := 1 + 8 + mssmt.HashSize*2
	if len(buf) != want {
		return nil, false, fmt.Errorf("cachestore: corrupt cached branch entry")
	}
	sum := binary.BigEndian.Uint64(buf[1:9])
	left, err := mssmt.NodeHashFromBytes(buf[9 : 9+mssmt.HashSize])
	if err != nil {
		return nil, false, err
	}
	right, err := mssmt.NodeHashFromBytes(buf[9+mssmt.HashSize:])
	if err != nil {
		return nil, false, err
	}
	return mssmt.NewDiskBranch(left, right, sum), true, nil
}

var _ mssmt.TreeStore = (*Store)(nil)
