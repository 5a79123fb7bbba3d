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
Package txjournal implements the insertion-ordered pre-image journal
that backs both transact-write rollback (§4.5) and the change tracker
(§4.6) — an undo log expressed as data, not as a stack of closures.

A Journal maps an item key to the value it had before the journal's
owner first touched it, recording each key exactly once no matter how
many times it is written again afterward. Replay walks the journal in
reverse of the order keys were first touched, restoring each one to
its captured pre-image (or deleting it, if it did not exist before),
matching the RollingBack state described in the state-machine section
of the operation surface.
*/
package txjournal

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/valuecmp"
)

// Item is an attribute-name to attribute-value mapping.
type Item = map[string]types.AttributeValue

// entry is one journal record: the item's value immediately before
// the journal's owner first touched it, or existed=false if the key
// did not exist at all.
type entry struct {
	preimage Item
	existed  bool
}

// Journal is an insertion-ordered, write-once-per-key pre-image log.
// The zero value is not usable; construct one with New.
type Journal struct {
	order   []string
	entries map[string]entry
}

// New returns an empty Journal.
func New() *Journal {
	return &Journal{entries: make(map[string]entry)}
}

// Touched reports whether itemKey has already been recorded.
func (j *Journal) Touched(itemKey string) bool {
	_, ok := j.entries[itemKey]
	return ok
}

// Record captures itemKey's pre-image the first time it is touched;
// subsequent calls for the same key are no-ops, so repeated mutations
// within one journal always roll back to the original value rather
// than an intermediate one. preimage is deep-copied before storage.
func (j *Journal) Record(itemKey string, preimage Item, existed bool) {
	if j.Touched(itemKey) {
		return
	}
	var copied Item
	if existed {
		copied = valuecmp.CloneItem(preimage)
	}
	j.entries[itemKey] = entry{preimage: copied, existed: existed}
	j.order = append(j.order, itemKey)
}

// Len returns the number of distinct keys recorded.
func (j *Journal) Len() int {
	return len(j.order)
}

// Clear discards every recorded entry.
func (j *Journal) Clear() {
	j.order = nil
	j.entries = make(map[string]entry)
}

// Replay calls restore once for every recorded key, in the reverse of
// the order they were first touched — last-touched key restored
// first — handing back a deep copy of the captured pre-image (nil if
// the key did not exist before the journal's owner touched it).
func (j *Journal) Replay(restore func(itemKey string, preimage Item, existed bool)) {
	for i := len(j.order) - 1; i >= 0; i-- {
		key := j.order[i]
		e := j.entries[key]
		restore(key, valuecmp.CloneItem(e.preimage), e.existed)
	}
}
