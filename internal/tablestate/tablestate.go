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
Package tablestate holds the authoritative copy of every item in the
table and keeps the index set (package indexset) in lockstep with it.

Architecture:

	┌────────────────────────────────────────────────┐
	│                   State                        │
	├────────────────────────────────────────────────┤
	│  ┌────────────────────────────────────────────┐  │
	│  │      items map[itemKey]Item (deep copies)  │  │
	│  └────────────────────────────────────────────┘  │
	│                      │                          │
	│                      ▼                          │
	│  ┌────────────────────────────────────────────┐  │
	│  │      indexset.Set (primary + GSI2..GSI19)   │  │
	│  └────────────────────────────────────────────┘  │
	└────────────────────────────────────────────────┘

Unlike the storage engine this package is descended from, there is no
write-ahead log and no on-disk recovery path — the core is purely
in-memory and deterministic (§5), so persistence is out of scope.
State is not safe for concurrent use; a host embedding it is
responsible for serializing access (§5).
*/
package tablestate

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/indexset"
	"gridstore/internal/keyenc"
	"gridstore/internal/rankmap"
	"gridstore/internal/valuecmp"
)

// Item is an attribute-name to attribute-value mapping. PK and SK are
// mandatory string attributes on every stored item.
type Item = map[string]types.AttributeValue

// State is the authoritative item store for one table. The zero value
// is not usable; construct one with New.
type State struct {
	items   map[string]Item
	indexes *indexset.Set
}

// New returns an empty table state.
func New() *State {
	return &State{
		items:   make(map[string]Item),
		indexes: indexset.New(),
	}
}

// Indexes exposes the underlying index set for query and scan
// operations that need to iterate index partitions directly.
func (s *State) Indexes() *indexset.Set {
	return s.indexes
}

// Get returns a deep copy of the item stored under (pk, sk), or
// ok=false if no such item exists.
func (s *State) Get(pk, sk string) (Item, bool) {
	key := keyenc.ItemKey(pk, sk)
	item, ok := s.items[key]
	if !ok {
		return nil, false
	}
	return valuecmp.CloneItem(item), true
}

// GetByItemKey returns a deep copy of the item stored under the
// already-encoded item key, used by index iteration where the caller
// has an item key but not the original (pk, sk) pair.
func (s *State) GetByItemKey(itemKey string) (Item, bool) {
	item, ok := s.items[itemKey]
	if !ok {
		return nil, false
	}
	return valuecmp.CloneItem(item), true
}

// Put stores a deep copy of item under its PK/SK, replacing and
// re-indexing any prior item at that key (§4.3). pk and sk must
// already have been validated as present string attributes by the
// caller; Put itself does not validate.
func (s *State) Put(pk, sk string, item Item) {
	key := keyenc.ItemKey(pk, sk)
	if old, exists := s.items[key]; exists {
		s.indexes.Remove(key, old)
	}
	stored := valuecmp.CloneItem(item)
	s.items[key] = stored
	s.indexes.Add(key, stored)
}

// DeleteByKey removes the item at (pk, sk) from the store and every
// index it participated in, returning a deep copy of the removed item
// or ok=false if nothing was stored there.
func (s *State) DeleteByKey(pk, sk string) (Item, bool) {
	key := keyenc.ItemKey(pk, sk)
	old, exists := s.items[key]
	if !exists {
		return nil, false
	}
	delete(s.items, key)
	s.indexes.Remove(key, old)
	return valuecmp.CloneItem(old), true
}

// Clear empties the store and every index.
func (s *State) Clear() {
	s.items = make(map[string]Item)
	s.indexes.Clear()
}

// Len returns the number of items currently stored.
func (s *State) Len() int {
	return len(s.items)
}

// IterateIndex walks itemKeys in the named index's hash partition in
// the given direction and bounds, invoking visit with a deep copy of
// each candidate item. visit returning false stops iteration early.
func (s *State) IterateIndex(indexName, hash string, dir rankmap.Direction, lower, upper *rankmap.Bound, visit func(itemKey string, item Item) bool) {
	s.indexes.IterateCandidates(indexName, hash, dir, lower, upper, func(itemKey string) bool {
		item, ok := s.items[itemKey]
		if !ok {
			return true
		}
		return visit(itemKey, valuecmp.CloneItem(item))
	})
}

// IterateAll walks every stored item in primary-index order, used by
// Scan without an index name (a full table scan).
func (s *State) IterateAll(dir rankmap.Direction, visit func(itemKey string, item Item) bool) {
	// A table scan has no single hash partition to walk; iterate every
	// PK partition of the primary index, in ascending PK order
	// (descending when dir is Descending), then within each partition
	// in the requested direction.
	s.iterateAllPrimary(dir, visit)
}

func (s *State) iterateAllPrimary(dir rankmap.Direction, visit func(itemKey string, item Item) bool) {
	hashes := s.primaryHashes()
	if dir == rankmap.Descending {
		for i := len(hashes) - 1; i >= 0; i-- {
			if !s.iterateHash(hashes[i], dir, visit) {
				return
			}
		}
		return
	}
	for _, h := range hashes {
		if !s.iterateHash(h, dir, visit) {
			return
		}
	}
}

func (s *State) iterateHash(hash string, dir rankmap.Direction, visit func(itemKey string, item Item) bool) bool {
	cont := true
	s.indexes.IterateCandidates(indexset.PrimaryIndexName, hash, dir, nil, nil, func(itemKey string) bool {
		item, ok := s.items[itemKey]
		if !ok {
			return true
		}
		if !visit(itemKey, valuecmp.CloneItem(item)) {
			cont = false
			return false
		}
		return true
	})
	return cont
}

// primaryHashes returns the distinct PK values currently stored, in
// ascending order, so a full scan has a deterministic hash-partition
// traversal order independent of map iteration.
func (s *State) primaryHashes() []string {
	seen := make(map[string]struct{})
	var hashes []string
	for _, item := range s.items {
		pkAttr, ok := item["PK"]
		if !ok {
			continue
		}
		pk, ok := pkAttr.(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if _, dup := seen[pk.Value]; dup {
			continue
		}
		seen[pk.Value] = struct{}{}
		hashes = append(hashes, pk.Value)
	}
	sortStrings(hashes)
	return hashes
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
