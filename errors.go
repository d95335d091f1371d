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

import "errors"

var (
	// ErrSumOverflow is returned when composing a branch's sum from its
	// children would overflow a uint64. Weight inflation is exactly the
	// class of bug the sum commitment exists to catch, so it is never
	// silently wrapped.
	ErrSumOverflow = errors.New("mssmt: branch sum overflows uint64")

	// ErrHashDecode is returned by textual NodeHash decoding on a wrong
	// length or non-hex input.
	ErrHashDecode = errors.New("mssmt: invalid node hash encoding")

	// ErrProofLength is returned by CompactProof.Expand when a compact
	// proof does not resolve to exactly TreeDepth sibling entries.
	ErrProofLength = errors.New("mssmt: proof does not have exactly 256 entries")

	// ErrRootMismatch is returned by VerifyRoot when a proof reconstructs
	// to a hash other than the expected root.
	ErrRootMismatch = errors.New("mssmt: reconstructed root does not match expected root")
)

// addSumChecked adds two leaf/branch sums, returning ErrSumOverflow instead
// of wrapping on overflow.
func addSumChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrSumOverflow
	}
	return sum, nil
}
