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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/expr"
	"gridstore/internal/indexset"
	"gridstore/internal/keyenc"
	"gridstore/internal/manifest"
	"gridstore/internal/rankmap"
	"gridstore/internal/valuecmp"
)

// Query evaluates a key-condition (and optional filter) expression
// against one index's partitions, in ascending or descending
// (rangeAttr, item key) order, with optional pagination (§4.5
// "query").
func (s *Store) Query(ctx context.Context, input *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if err := rejectUnsupportedParam(manifest.MethodQuery, "ProjectionExpression", input.ProjectionExpression != nil); err != nil {
		return nil, err
	}
	if err := rejectUnsupportedParam(manifest.MethodQuery, "Select", input.Select != ""); err != nil {
		return nil, err
	}
	if err := s.validateTableName(input.TableName); err != nil {
		return nil, err
	}
	if input.KeyConditionExpression == nil || *input.KeyConditionExpression == "" {
		return nil, validationErr("KeyConditionExpression is required")
	}

	indexName := indexset.PrimaryIndexName
	if input.IndexName != nil && *input.IndexName != "" {
		indexName = *input.IndexName
	}
	if manifest.IsExcludedIndex(indexName) {
		return nil, notSupportedErr(string(manifest.MethodQuery), "IndexName", "index \""+indexName+"\" is not supported")
	}
	def, ok := s.state.Indexes().Def(indexName)
	if !ok {
		return nil, validationErr("The table does not have the specified index: " + indexName)
	}
	if indexName != indexset.PrimaryIndexName && aws.ToBool(input.ConsistentRead) {
		return nil, validationErr("Consistent reads are not supported on global secondary indexes")
	}

	names := expr.NameMap(input.ExpressionAttributeNames)
	values := expr.ValueMap(input.ExpressionAttributeValues)
	kc, err := expr.ParseKeyCondition(*input.KeyConditionExpression, names, values)
	if err != nil {
		return nil, asValidation(err)
	}
	if kc.HashAttr != def.HashAttr {
		return nil, validationErr("Query key condition not supported")
	}
	if kc.Range != nil && kc.Range.Attr != def.RangeAttr {
		return nil, validationErr("Query key condition not supported")
	}
	hash, ok := valuecmp.CoerceString(kc.HashValue)
	if !ok {
		return nil, validationErr("Query key condition hash value must be a string")
	}

	lower, upper, err := expr.Bounds(kc.Range)
	if err != nil {
		return nil, asValidation(err)
	}

	forward := true
	if input.ScanIndexForward != nil {
		forward = *input.ScanIndexForward
	}
	dir := rankmap.Ascending
	if !forward {
		dir = rankmap.Descending
	}

	if input.ExclusiveStartKey != nil {
		lower, upper, err = tightenStartBound(input.ExclusiveStartKey, def, dir, lower, upper)
		if err != nil {
			return nil, err
		}
	}

	var limit int
	if input.Limit != nil {
		limit = int(*input.Limit)
		if limit < 1 {
			return nil, validationErr("Limit failed to satisfy constraint: Member must be greater than or equal to 1")
		}
	}

	out := &dynamodb.QueryOutput{}
	var scanned, returned int32
	var lastKey map[string]types.AttributeValue
	s.state.IterateIndex(indexName, hash, dir, lower, upper, func(itemKey string, item map[string]types.AttributeValue) bool {
		scanned++
		keep, ferr := evaluateFilter(input.FilterExpression, input.ExpressionAttributeNames, input.ExpressionAttributeValues, item)
		if ferr != nil {
			err = ferr
			return false
		}
		if keep {
			out.Items = append(out.Items, item)
			returned++
		}
		lastKey = lastEvaluatedKey(item, def)
		if limit > 0 && int(scanned) == limit {
			out.LastEvaluatedKey = lastKey
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	out.Count = returned
	out.ScannedCount = scanned
	return out, nil
}

// evaluateFilter applies an optional FilterExpression to a candidate
// item, returning keep=true when no filter is present.
func evaluateFilter(filterExpr *string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) (bool, error) {
	if filterExpr == nil || *filterExpr == "" {
		return true, nil
	}
	ok, err := expr.EvaluateCondition(*filterExpr, expr.NameMap(names), expr.ValueMap(values), item)
	if err != nil {
		return false, asValidation(err)
	}
	return ok, nil
}

// lastEvaluatedKey builds the key object §4.5 specifies for a
// candidate that might become the query/scan's stopping point: the
// primary key plus, for a GSI, that index's own hash/range attributes.
func lastEvaluatedKey(item map[string]types.AttributeValue, def indexset.Def) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{
		"PK": item["PK"],
		"SK": item["SK"],
	}
	if def.Name != indexset.PrimaryIndexName {
		key[def.HashAttr] = item[def.HashAttr]
		key[def.RangeAttr] = item[def.RangeAttr]
	}
	return key
}

// tightenStartBound converts a caller-supplied ExclusiveStartKey into
// an entry-key bound one step past the matching partition position,
// narrowing whichever of lower/upper faces the scan direction.
func tightenStartBound(startKey map[string]types.AttributeValue, def indexset.Def, dir rankmap.Direction, lower, upper *rankmap.Bound) (*rankmap.Bound, *rankmap.Bound, error) {
	pk, ok := valuecmp.AsString(startKey["PK"])
	if !ok {
		return nil, nil, validationErr("The provided starting key is invalid")
	}
	sk, ok := valuecmp.AsString(startKey["SK"])
	if !ok {
		return nil, nil, validationErr("The provided starting key is invalid")
	}
	itemKey := keyenc.ItemKey(pk, sk)

	rangeVal := sk
	if def.Name != indexset.PrimaryIndexName {
		rv, ok := valuecmp.AsString(startKey[def.RangeAttr])
		if !ok {
			return nil, nil, validationErr("The provided starting key is invalid")
		}
		rangeVal = rv
	}
	entryKey := keyenc.EntryKey(rangeVal, itemKey)

	if dir == rankmap.Descending {
		upper = &rankmap.Bound{Key: entryKey, Inclusive: false}
		return lower, upper, nil
	}
	lower = &rankmap.Bound{Key: entryKey, Inclusive: false}
	return lower, upper, nil
}
