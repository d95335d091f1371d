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

import "testing"

func TestKeyBit(t *testing.T) {
	var key Key
	for i := range key {
		key[i] = 0x74 // 0111 0100
	}

	expected := byte(0x74)
	for i := 0; i < TreeDepth; i++ {
		if i%8 == 0 {
			expected = 0x74
		}
		want := expected&1 == 1
		if got := key.Bit(i); got != want {
			t.Fatalf("bit %d: got %v, want %v", i, got, want)
		}
		expected >>= 1
	}
}

func TestKeyBitAllZero(t *testing.T) {
	var key Key
	for i := 0; i < TreeDepth; i++ {
		if key.Bit(i) {
			t.Fatalf("bit %d: expected clear on zero key", i)
		}
	}
}

func TestKeyBitAllOnes(t *testing.T) {
	var key Key
	for i := range key {
		key[i] = 0xff
	}
	for i := 0; i < TreeDepth; i++ {
		if !key.Bit(i) {
			t.Fatalf("bit %d: expected set on all-ones key", i)
		}
	}
}
