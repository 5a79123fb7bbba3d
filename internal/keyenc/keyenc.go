/*
 * Copyright (c) 2026 gridstore contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package keyenc implements the canonical string encodings that give the
core its collision-free, order-comparable keys.

Two encodings are defined:

  - ItemKey(pk, sk): a length-prefixed encoding of a (PK, SK) pair that
    is both unique and directly comparable as a plain string.
  - EntryKey(rangeValue, itemKey): the key an ordered partition map
    sorts by. Lexicographic order over EntryKey is the iteration order
    of an index partition.

Both encodings are pure functions of their inputs: equal inputs always
produce equal outputs, and the core never mutates an encoded key in
place.
*/
package keyenc

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

const sep = "\x00"

// ItemKey returns the canonical, collision-free encoding of a primary
// key (PK, SK). The length prefix on each component prevents two
// different (PK, SK) pairs from colliding when either value contains
// the NUL separator.
func ItemKey(pk, sk string) string {
	return strconv.Itoa(len(pk)) + ":" + pk + sep + strconv.Itoa(len(sk)) + ":" + sk
}

// EntryKey returns the encoded key an index partition orders by:
// the range value followed by the encoded item key, separated by NUL.
// Lexicographic comparison of EntryKey values is the index's iteration
// order (§4.1).
func EntryKey(rangeValue, itemKey string) string {
	return rangeValue + sep + itemKey
}

// Priority derives the deterministic structural priority used to break
// ties in the ordered partition map (§4.1). It is the first 32 bits,
// big-endian, of SHA-256(indexName NUL hash NUL rangeVal NUL itemKey).
// Because the hash is a pure function of index name, hash key, range
// key and item key — never of insertion order or wall-clock time — two
// trees built from the same content end up with the same shape.
func Priority(indexName, hash, rangeVal, itemKey string) uint32 {
	h := sha256.New()
	h.Write([]byte(indexName))
	h.Write([]byte(sep))
	h.Write([]byte(hash))
	h.Write([]byte(sep))
	h.Write([]byte(rangeVal))
	h.Write([]byte(sep))
	h.Write([]byte(itemKey))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint32(sum[:4])
}
