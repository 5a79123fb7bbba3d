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
Package indexset maintains the registry of every index the core knows
about — the primary index plus GSI2 through GSI19 — and keeps each of
them in sync with the item store.

Each named index partitions its entries by hash value; within a
partition, entries are ordered by an encoded (range value, item key)
pair in a rankmap.Map. Add and Remove are the only mutation path:
given an item, they extract the hash/range pair for every registered
index and insert or delete the corresponding entry, skipping any index
for which the item is missing a required string attribute.

GSI1 is recognized by name (it exists at the wire level) but is never
registered here — the table it would index by is excluded by policy,
and any operation that names it is rejected before reaching this
package.
*/
package indexset

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/keyenc"
	"gridstore/internal/rankmap"
)

// PrimaryIndexName is the name of the table's primary index.
const PrimaryIndexName = "primary"

// Def describes one registered index's hash and range attribute names.
type Def struct {
	Name      string
	HashAttr  string
	RangeAttr string
}

// Names of every GSI the core recognizes, in declaration order.
// GSI1 is deliberately absent — see the manifest package for the
// excluded-indexes invariant consumed by the operation surface.
var gsiNames = []string{
	"GSI2", "GSI3", "GSI4", "GSI5", "GSI6", "GSI7", "GSI8", "GSI9",
	"GSI10", "GSI11", "GSI12", "GSI13", "GSI14", "GSI15", "GSI16",
	"GSI17", "GSI18", "GSI19",
}

// Defs returns the fixed set of index definitions this package
// maintains: the primary index followed by GSI2..GSI19.
func Defs() []Def {
	defs := make([]Def, 0, len(gsiNames)+1)
	defs = append(defs, Def{Name: PrimaryIndexName, HashAttr: "PK", RangeAttr: "SK"})
	for _, g := range gsiNames {
		defs = append(defs, Def{Name: g, HashAttr: g + "PK", RangeAttr: g + "SK"})
	}
	return defs
}

// partition is one hash value's ordered set of entries within a
// single index.
type partition = rankmap.Map

// Set is the per-index, per-hash-value registry of ordered partition
// maps. The zero value is not usable; construct one with New.
type Set struct {
	defs       []Def
	byName     map[string]Def
	partitions map[string]map[string]*partition // index name -> hash value -> partition
}

// New returns an empty Set with the primary index and every supported
// GSI registered.
func New() *Set {
	defs := Defs()
	s := &Set{
		defs:       defs,
		byName:     make(map[string]Def, len(defs)),
		partitions: make(map[string]map[string]*partition, len(defs)),
	}
	for _, d := range defs {
		s.byName[d.Name] = d
		s.partitions[d.Name] = make(map[string]*partition)
	}
	return s
}

// Def looks up the hash/range attribute names for a registered index.
func (s *Set) Def(name string) (Def, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// HasIndex reports whether name is a registered index (primary or a
// supported GSI — never GSI1).
func (s *Set) HasIndex(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Clear removes every entry from every index.
func (s *Set) Clear() {
	for name := range s.partitions {
		s.partitions[name] = make(map[string]*partition)
	}
}

// Add inserts itemKey into every index for which item carries
// non-null string values for both the index's hash and range
// attributes (§4.2). Indexes lacking either attribute are left
// untouched for this item.
func (s *Set) Add(itemKey string, item map[string]types.AttributeValue) {
	for _, d := range s.defs {
		hash, rang, ok := hashRange(item, d)
		if !ok {
			continue
		}
		s.insertInto(d.Name, hash, rang, itemKey)
	}
}

// Remove deletes itemKey's entry from every index it was indexed
// under, using the same item snapshot that was passed to the matching
// Add call (the prior, stored copy — not the caller's new one).
func (s *Set) Remove(itemKey string, item map[string]types.AttributeValue) {
	for _, d := range s.defs {
		hash, rang, ok := hashRange(item, d)
		if !ok {
			continue
		}
		s.removeFrom(d.Name, hash, rang, itemKey)
	}
}

func (s *Set) insertInto(indexName, hash, rangeVal, itemKey string) {
	parts := s.partitions[indexName]
	p, ok := parts[hash]
	if !ok {
		p = rankmap.New()
		parts[hash] = p
	}
	entryKey := keyenc.EntryKey(rangeVal, itemKey)
	priority := keyenc.Priority(indexName, hash, rangeVal, itemKey)
	p.Insert(entryKey, itemKey, priority)
}

func (s *Set) removeFrom(indexName, hash, rangeVal, itemKey string) {
	parts := s.partitions[indexName]
	p, ok := parts[hash]
	if !ok {
		return
	}
	entryKey := keyenc.EntryKey(rangeVal, itemKey)
	p.Remove(entryKey)
	if p.Size() == 0 {
		delete(parts, hash)
	}
}

// IterateCandidates walks the entries of index's hash partition in
// the given direction, restricted to the optional entry-key bounds,
// calling yield with the item key of each entry until yield returns
// false. An unknown index or an absent hash partition is not an
// error — it simply yields nothing.
func (s *Set) IterateCandidates(indexName, hash string, dir rankmap.Direction, lower, upper *rankmap.Bound, yield func(itemKey string) bool) {
	parts, ok := s.partitions[indexName]
	if !ok {
		return
	}
	p, ok := parts[hash]
	if !ok {
		return
	}
	p.Iterate(dir, lower, upper, func(_ string, itemKey string) bool {
		return yield(itemKey)
	})
}

// hashRange extracts the (hash, range) string pair an item would be
// indexed under for def, reporting ok=false if either attribute is
// absent or not a string — per §4.2, such items are simply excluded
// from that index rather than rejected.
func hashRange(item map[string]types.AttributeValue, def Def) (hash, rangeVal string, ok bool) {
	hv, hok := item[def.HashAttr]
	rv, rok := item[def.RangeAttr]
	if !hok || !rok {
		return "", "", false
	}
	hs, hok := hv.(*types.AttributeValueMemberS)
	rs, rok := rv.(*types.AttributeValueMemberS)
	if !hok || !rok {
		return "", "", false
	}
	return hs.Value, rs.Value, true
}
