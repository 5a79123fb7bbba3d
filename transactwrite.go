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

package gridstore

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/expr"
	"gridstore/internal/tablestate"
	"gridstore/internal/txjournal"
)

const maxTransactItems = 100

// reasonNone, reasonConditionalCheckFailed and reasonValidationError
// are the per-item cancellation reason codes §4.5/§7 compose into the
// TransactionCanceled message (e.g. "[None, ConditionalCheckFailed]").
const (
	reasonNone                   = "None"
	reasonConditionalCheckFailed = "ConditionalCheckFailed"
	reasonValidationError        = "ValidationError"
)

// TransactWriteItems applies every Put/Update/Delete/ConditionCheck in
// input.TransactItems in order, rolling every mutation back if any
// entry's condition fails or is otherwise invalid (§4.5
// "transact_write"). The transaction's own journal is independent of
// the change tracker (§4.6): StartTracking/Rollback still see the net
// effect of a committed transaction, and see nothing at all from one
// that was canceled.
func (s *Store) TransactWriteItems(ctx context.Context, input *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	items := input.TransactItems
	if len(items) == 0 {
		return nil, validationErr("TransactItems cannot be empty")
	}
	if len(items) > maxTransactItems {
		return nil, validationErr("TransactItems can contain a maximum of 100 items")
	}
	if err := checkNoDuplicateTransactKeys(items); err != nil {
		return nil, err
	}

	journal := txjournal.New()
	reasons := make([]string, len(items))
	for i := range reasons {
		reasons[i] = reasonNone
	}

	for i, item := range items {
		if err := s.applyTransactItem(item, journal); err != nil {
			reasons[i] = reasonFor(err)
			rollbackTransactJournal(s, journal)
			if isKeyAttributeValidation(err) {
				return nil, transactionCanceledErr(reasons)
			}
			if IsConditionalCheckFailed(err) {
				return nil, transactionCanceledErr(reasons)
			}
			return nil, err
		}
	}

	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func reasonFor(err error) string {
	if IsConditionalCheckFailed(err) {
		return reasonConditionalCheckFailed
	}
	if isKeyAttributeValidation(err) {
		return reasonValidationError
	}
	return reasonNone
}

func isKeyAttributeValidation(err error) bool {
	e, ok := err.(*Error)
	if !ok || e.Kind != KindValidation {
		return false
	}
	return strings.HasPrefix(e.Message, "Cannot update attribute ") &&
		strings.Contains(e.Message, "This attribute is part of the key")
}

// rollbackTransactJournal restores every key the failed transaction
// touched, in reverse of first-touch order.
func rollbackTransactJournal(s *Store, journal *txjournal.Journal) {
	journal.Replay(func(itemKey string, preimage tablestate.Item, existed bool) {
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
}

// checkNoDuplicateTransactKeys enforces §4.5's "no two entries may
// touch the same (table, PK, SK)" rule before any entry is applied.
func checkNoDuplicateTransactKeys(items []types.TransactWriteItem) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		table, key, err := transactItemTableAndKey(it)
		if err != nil {
			return err
		}
		dedupKey := table + "\x00" + itemKeyOf(keyString(key, "PK"), keyString(key, "SK"))
		if seen[dedupKey] {
			return validationErr("Transaction request cannot include multiple operations on one item")
		}
		seen[dedupKey] = true
	}
	return nil
}

func keyString(key map[string]types.AttributeValue, attr string) string {
	v, ok := key[attr]
	if !ok {
		return ""
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func transactItemTableAndKey(it types.TransactWriteItem) (table string, key map[string]types.AttributeValue, err error) {
	switch {
	case it.ConditionCheck != nil:
		return tableOf(it.ConditionCheck.TableName), it.ConditionCheck.Key, nil
	case it.Put != nil:
		return tableOf(it.Put.TableName), it.Put.Item, nil
	case it.Update != nil:
		return tableOf(it.Update.TableName), it.Update.Key, nil
	case it.Delete != nil:
		return tableOf(it.Delete.TableName), it.Delete.Key, nil
	default:
		return "", nil, validationErr("TransactItems entry must contain exactly one of ConditionCheck, Put, Update, or Delete")
	}
}

func tableOf(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

// applyTransactItem dispatches one transact item, recording a
// pre-image into journal before any mutation.
func (s *Store) applyTransactItem(it types.TransactWriteItem, journal *txjournal.Journal) error {
	switch {
	case it.ConditionCheck != nil:
		return s.applyTransactConditionCheck(it.ConditionCheck)
	case it.Put != nil:
		return s.applyTransactPut(it.Put, journal)
	case it.Update != nil:
		return s.applyTransactUpdate(it.Update, journal)
	case it.Delete != nil:
		return s.applyTransactDelete(it.Delete, journal)
	default:
		return validationErr("TransactItems entry must contain exactly one of ConditionCheck, Put, Update, or Delete")
	}
}

func (s *Store) applyTransactConditionCheck(cc *types.ConditionCheck) error {
	if err := s.validateTableName(cc.TableName); err != nil {
		return err
	}
	pk, sk, err := requireKey(cc.Key)
	if err != nil {
		return err
	}
	current, _ := s.state.Get(pk, sk)
	ok, err := checkCondition(cc.ConditionExpression, cc.ExpressionAttributeNames, cc.ExpressionAttributeValues, current)
	if err != nil {
		return err
	}
	if !ok {
		return conditionalCheckFailedErr()
	}
	return nil
}

func (s *Store) applyTransactPut(put *types.Put, journal *txjournal.Journal) error {
	if err := s.validateTableName(put.TableName); err != nil {
		return err
	}
	pk, sk, err := requireItemKey(put.Item)
	if err != nil {
		return err
	}
	current, existed := s.state.Get(pk, sk)
	ok, err := checkCondition(put.ConditionExpression, put.ExpressionAttributeNames, put.ExpressionAttributeValues, current)
	if err != nil {
		return err
	}
	if !ok {
		return conditionalCheckFailedErr()
	}
	journal.Record(itemKeyOf(pk, sk), current, existed)
	s.recordPreimage(pk, sk)
	s.state.Put(pk, sk, put.Item)
	return nil
}

func (s *Store) applyTransactDelete(del *types.Delete, journal *txjournal.Journal) error {
	if err := s.validateTableName(del.TableName); err != nil {
		return err
	}
	pk, sk, err := requireKey(del.Key)
	if err != nil {
		return err
	}
	current, existed := s.state.Get(pk, sk)
	ok, err := checkCondition(del.ConditionExpression, del.ExpressionAttributeNames, del.ExpressionAttributeValues, current)
	if err != nil {
		return err
	}
	if !ok {
		return conditionalCheckFailedErr()
	}
	journal.Record(itemKeyOf(pk, sk), current, existed)
	s.recordPreimage(pk, sk)
	s.state.DeleteByKey(pk, sk)
	return nil
}

func (s *Store) applyTransactUpdate(upd *types.Update, journal *txjournal.Journal) error {
	if err := s.validateTableName(upd.TableName); err != nil {
		return err
	}
	pk, sk, err := requireKey(upd.Key)
	if err != nil {
		return err
	}
	if upd.UpdateExpression == nil || *upd.UpdateExpression == "" {
		return validationErr("UpdateExpression is required")
	}

	current, existed := s.state.Get(pk, sk)
	ok, err := checkCondition(upd.ConditionExpression, upd.ExpressionAttributeNames, upd.ExpressionAttributeValues, current)
	if err != nil {
		return err
	}
	if !ok {
		return conditionalCheckFailedErr()
	}

	base := current
	if !existed {
		base = map[string]types.AttributeValue{"PK": upd.Key["PK"], "SK": upd.Key["SK"]}
	}
	parsed, err := expr.ParseUpdate(*upd.UpdateExpression, expr.NameMap(upd.ExpressionAttributeNames), expr.ValueMap(upd.ExpressionAttributeValues), base)
	if err != nil {
		return asValidation(err)
	}
	if err := expr.Apply(parsed, base); err != nil {
		return asValidation(err)
	}

	journal.Record(itemKeyOf(pk, sk), current, existed)
	s.recordPreimage(pk, sk)
	s.state.Put(pk, sk, base)
	return nil
}
