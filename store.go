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
Package gridstore is an in-memory, deterministic, single-table
document store that speaks the same method shapes as
github.com/aws/aws-sdk-go-v2/service/dynamodb's client: GetItem,
PutItem, UpdateItem, DeleteItem, Query, Scan, BatchGetItem,
BatchWriteItem and TransactWriteItems, built on the same
dynamodb.*Input/*Output structs and the types.AttributeValue value
union.

Architecture:

	┌──────────────────────────────────────────────────┐
	│                      Store                        │
	├──────────────────────────────────────────────────┤
	│  operation surface (get/put/update/.../transact)  │
	│             │                    │                │
	│             ▼                    ▼                │
	│  internal/expr (condition,   internal/txjournal   │
	│  update, key-condition)      (change tracker +    │
	│             │                 transact journal)   │
	│             ▼                    │                │
	│  internal/tablestate  ◄───────────┘                │
	│   (items + internal/indexset + internal/rankmap)  │
	└──────────────────────────────────────────────────┘

A Store holds exactly one table. It is not safe for concurrent use —
callers embedding it in a multi-threaded host must serialize access
with an outer mutex; every method here assumes exclusive access for
its duration and performs no internal synchronization.
*/
package gridstore

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/expr"
	"gridstore/internal/keyenc"
	"gridstore/internal/manifest"
	"gridstore/internal/tablestate"
	"gridstore/internal/txjournal"
	"gridstore/internal/valuecmp"
)

// testEnvTag is the only environment tag value that permits
// construction of the in-memory engine (§6: "legal only when the
// environment tag is test").
const testEnvTag = "test"

// Config configures a new Store.
type Config struct {
	// EnvTag must equal "test" or New refuses to construct a Store.
	EnvTag string
	// TableName is the single table this Store serves. It may be
	// changed later with SetTableName.
	TableName string
}

// Store is the in-memory document store core. The zero value is not
// usable; construct one with New or NewInMemory.
type Store struct {
	tableName string
	state     *tablestate.State
	tracker   *txjournal.Journal
	tracking  bool
}

// New constructs a Store. It fails with a Validation error unless
// cfg.EnvTag is "test" — the in-memory engine has no durability and
// is not meant to back a production deployment.
func New(cfg Config) (*Store, error) {
	if cfg.EnvTag != testEnvTag {
		return nil, validationErr("the in-memory engine may only be instantiated when the environment tag is \"test\"")
	}
	if cfg.TableName == "" {
		return nil, validationErr("table name is required")
	}
	return &Store{
		tableName: cfg.TableName,
		state:     tablestate.New(),
		tracker:   txjournal.New(),
	}, nil
}

// NewInMemory is a convenience constructor equivalent to
// New(Config{EnvTag: envTag, TableName: tableName}).
func NewInMemory(envTag, tableName string) (*Store, error) {
	return New(Config{EnvTag: envTag, TableName: tableName})
}

// TableName returns the table this Store currently serves.
func (s *Store) TableName() string {
	return s.tableName
}

// SetTableName changes the table this Store serves, per the
// table-name-injection configuration option (§6). It does not clear
// stored items — callers that want a clean table should call Clear.
func (s *Store) SetTableName(name string) {
	s.tableName = name
}

// Clear removes every item and index entry, and forgets any active
// change-tracking journal.
func (s *Store) Clear() {
	s.state.Clear()
	s.tracker.Clear()
	s.tracking = false
}

// StartTracking enables the change tracker (§4.6): subsequent
// mutations record their pre-image (or absence) the first time each
// key is touched, discarding whatever journal a prior tracking cycle
// left behind.
func (s *Store) StartTracking() {
	s.tracker.Clear()
	s.tracking = true
}

// Rollback disables the change tracker and replays its journal in
// reverse, restoring every touched key to its pre-tracking value (or
// deleting it if the key did not exist when tracking began). Writes
// performed before the matching StartTracking are not in the journal
// and are therefore left untouched.
func (s *Store) Rollback() {
	s.tracking = false
	s.tracker.Replay(func(itemKey string, preimage tablestate.Item, existed bool) {
		pk, sk, ok := s.splitItemKeyAttrs(preimage, itemKey)
		if !ok {
			return
		}
		if existed {
			s.state.Put(pk, sk, preimage)
			return
		}
		s.state.DeleteByKey(pk, sk)
	})
	s.tracker.Clear()
}

// splitItemKeyAttrs recovers (pk, sk) to replay a rollback entry:
// preferring the PK/SK attributes captured in the pre-image itself,
// and falling back to the current stored item for deletions (where
// preimage is nil because the key never existed).
func (s *Store) splitItemKeyAttrs(preimage tablestate.Item, itemKey string) (pk, sk string, ok bool) {
	if preimage != nil {
		pkv, pkok := valuecmp.AsString(preimage["PK"])
		skv, skok := valuecmp.AsString(preimage["SK"])
		if pkok && skok {
			return pkv, skv, true
		}
	}
	item, found := s.stateLookupByKey(itemKey)
	if !found {
		return "", "", false
	}
	pkv, pkok := valuecmp.AsString(item["PK"])
	skv, skok := valuecmp.AsString(item["SK"])
	return pkv, skv, pkok && skok
}

// recordPreimage captures the current value at (pk, sk) into the
// active change-tracking journal, if tracking is enabled. It is a
// no-op once the key has already been captured this tracking cycle.
func (s *Store) recordPreimage(pk, sk string) {
	if !s.tracking {
		return
	}
	key := itemKeyOf(pk, sk)
	if s.tracker.Touched(key) {
		return
	}
	item, ok := s.state.Get(pk, sk)
	s.tracker.Record(key, item, ok)
}

// validateTableName confirms name addresses this Store's table.
func (s *Store) validateTableName(name *string) error {
	got := aws.ToString(name)
	if got == "" {
		return validationErr("TableName is required")
	}
	if got != s.tableName {
		return validationErr("Cannot do operations on a non-existent table")
	}
	return nil
}

// requireKey extracts the mandatory string-valued PK/SK attributes
// from a caller-supplied key map, matching the real service's
// "key element does not match the schema" rejection of missing or
// mistyped key attributes.
func requireKey(key map[string]types.AttributeValue) (pk, sk string, err error) {
	pkAttr, ok := key["PK"]
	if !ok {
		return "", "", validationErr("The provided key element does not match the schema")
	}
	skAttr, ok := key["SK"]
	if !ok {
		return "", "", validationErr("The provided key element does not match the schema")
	}
	pk, ok = valuecmp.AsString(pkAttr)
	if !ok {
		return "", "", validationErr("The provided key element does not match the schema")
	}
	sk, ok = valuecmp.AsString(skAttr)
	if !ok {
		return "", "", validationErr("The provided key element does not match the schema")
	}
	return pk, sk, nil
}

// requireItemKey extracts PK/SK from a full item, used by put and
// batch-write where the caller supplies the whole item rather than a
// bare key.
func requireItemKey(item map[string]types.AttributeValue) (pk, sk string, err error) {
	return requireKey(item)
}

// checkCondition evaluates an optional condition expression against
// item, translating a NotSupportedError from the expression engine
// into this package's Validation kind (§7).
func checkCondition(conditionExpr *string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) (bool, error) {
	if conditionExpr == nil || *conditionExpr == "" {
		return true, nil
	}
	ok, err := expr.EvaluateCondition(*conditionExpr, expr.NameMap(names), expr.ValueMap(values), item)
	if err != nil {
		return false, asValidation(err)
	}
	return ok, nil
}

// rejectUnsupportedParam raises a NotSupported error, naming both
// method and param, when present is true and the spec manifest names
// param as unsupported for method. GetItem, PutItem, DeleteItem, Query
// and Scan call it at their start, each for the specific Input fields
// it checks, to apply §4.7's declarative capability table to the typed
// Input structs that wrap the wire parameters. UpdateItem,
// BatchGetItem, BatchWriteItem and TransactWriteItems do not call it,
// and parameters an operation does not pass here are not checked.
func rejectUnsupportedParam(method manifest.Method, param string, present bool) error {
	if !present {
		return nil
	}
	spec, ok := manifest.Lookup(method)
	if !ok {
		return notSupportedErr(string(method), "", "method is not supported")
	}
	if spec.IsUnsupportedParam(param) {
		return notSupportedErr(string(method), param, "parameter \""+param+"\" is not supported on "+string(method))
	}
	return nil
}

func itemKeyOf(pk, sk string) string {
	return keyenc.ItemKey(pk, sk)
}

// stateLookupByKey resolves an already-encoded item key back to a
// stored item, for rollback paths that only have the journal's key.
func (s *Store) stateLookupByKey(itemKey string) (tablestate.Item, bool) {
	return s.state.GetByItemKey(itemKey)
}
