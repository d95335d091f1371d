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
	"errors"
	"testing"
)

func TestNodeHashStringRoundTrip(t *testing.T) {
	var h NodeHash
	for i := range h {
		h[i] = byte(i)
	}

	s := h.String()
	if len(s) != HashSize*2 {
		t.Fatalf("got hex length %d, want %d", len(s), HashSize*2)
	}

	got, err := NodeHashFromHex(s)
	if err != nil {
		t.Fatalf("NodeHashFromHex(%q): %v", s, err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %s, want %s", got, h)
	}
}

func TestNodeHashFromHexInvalidLength(t *testing.T) {
	_, err := NodeHashFromHex("deadbeef")
	if !errors.Is(err, ErrHashDecode) {
		t.Fatalf("got err %v, want ErrHashDecode", err)
	}
}

func TestNodeHashFromHexInvalidChars(t *testing.T) {
	bad := "zz" + string(make([]byte, HashSize*2-2))
	_, err := NodeHashFromHex(bad)
	if !errors.Is(err, ErrHashDecode) {
		t.Fatalf("got err %v, want ErrHashDecode", err)
	}
}

func TestNodeHashFromBytesInvalidLength(t *testing.T) {
	_, err := NodeHashFromBytes([]byte{1, 2, 3})
	if !errors.Is(err, ErrHashDecode) {
		t.Fatalf("got err %v, want ErrHashDecode", err)
	}
}

func TestNodeHashCompare(t *testing.T) {
	var a, b NodeHash
	b[31] = 1

	if a.Compare(b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("expected b > a")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected a == a")
	}
}
