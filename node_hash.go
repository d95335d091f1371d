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
	"bytes"
	"encoding/hex"
	"fmt"
)

// HashSize is the number of bytes in a NodeHash.
const HashSize = 32

// NodeHash is the opaque 32-byte content address of a node (leaf or
// branch). Its total order is lexicographic over the raw bytes, and its
// textual form is lowercase hex of length 64.
type NodeHash [HashSize]byte

// ZeroHash is the all-zero hash value, used as a sentinel where no hash is
// yet known (it is never a valid node hash under the SHA-256 scheme).
var ZeroHash NodeHash

// String renders the hash as lowercase hex.
func (h NodeHash) String() string {
	return hex.EncodeToString(h[:])
}

// Compare returns -1, 0 or 1 depending on the lexicographic order of h and
// other, mirroring bytes.Compare.
func (h NodeHash) Compare(other NodeHash) int {
	return bytes.Compare(h[:], other[:])
}

// NodeHashFromHex decodes the lowercase hex encoding of a NodeHash.
func NodeHashFromHex(s string) (NodeHash, error) {
	var h NodeHash
	if len(s) != HashSize*2 {
		return h, fmt.Errorf("mssmt: invalid hash length %d, want %d: %w",
			len(s), HashSize*2, ErrHashDecode)
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("mssmt: invalid hash hex %q: %w: %v",
			s, ErrHashDecode, err)
	}
	copy(h[:], decoded)
	return h, nil
}

// NodeHashFromBytes copies a 32-byte slice into a NodeHash.
func NodeHashFromBytes(b []byte) (NodeHash, error) {
	var h NodeHash
	if len(b) != HashSize {
		return h, fmt.Errorf("mssmt: invalid hash length %d, want %d: %w",
			len(b), HashSize, ErrHashDecode)
	}
	copy(h[:], b)
	return h, nil
}
