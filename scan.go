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

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/manifest"
	"gridstore/internal/rankmap"
	"gridstore/internal/valuecmp"
)

// Scan walks every item in ascending (PK, SK) order, applying an
// optional filter expression and the same scanned/limit accounting as
// Query (§4.5 "scan").
func (s *Store) Scan(ctx context.Context, input *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if err := rejectUnsupportedParam(manifest.MethodScan, "IndexName", input.IndexName != nil); err != nil {
		return nil, err
	}
	if err := rejectUnsupportedParam(manifest.MethodScan, "Select", input.Select != ""); err != nil {
		return nil, err
	}
	if err := rejectUnsupportedParam(manifest.MethodScan, "Segment", input.Segment != nil); err != nil {
		return nil, err
	}
	if err := rejectUnsupportedParam(manifest.MethodScan, "TotalSegments", input.TotalSegments != nil); err != nil {
		return nil, err
	}
	if err := s.validateTableName(input.TableName); err != nil {
		return nil, err
	}

	var limit int
	if input.Limit != nil {
		limit = int(*input.Limit)
		if limit < 1 {
			return nil, validationErr("Limit failed to satisfy constraint: Member must be greater than or equal to 1")
		}
	}

	if input.ExclusiveStartKey != nil {
		if _, ok := valuecmp.AsString(input.ExclusiveStartKey["PK"]); !ok {
			return nil, validationErr("The provided starting key is invalid")
		}
		if _, ok := valuecmp.AsString(input.ExclusiveStartKey["SK"]); !ok {
			return nil, validationErr("The provided starting key is invalid")
		}
	}

	out := &dynamodb.ScanOutput{}
	var scanned, returned int32
	var err error
	afterStart := input.ExclusiveStartKey == nil
	startPK, startSK := startKeyAttrs(input.ExclusiveStartKey)

	s.state.IterateAll(rankmap.Ascending, func(itemKey string, item map[string]types.AttributeValue) bool {
		if !afterStart {
			pk, _ := valuecmp.AsString(item["PK"])
			sk, _ := valuecmp.AsString(item["SK"])
			if pk == startPK && sk == startSK {
				afterStart = true
			}
			return true
		}
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
		if limit > 0 && int(scanned) == limit {
			out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]}
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

func startKeyAttrs(key map[string]types.AttributeValue) (pk, sk string) {
	if key == nil {
		return "", ""
	}
	pk, _ = valuecmp.AsString(key["PK"])
	sk, _ = valuecmp.AsString(key["SK"])
	return pk, sk
}
