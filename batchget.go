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
)

const maxBatchGetKeysPerTable = 100

// BatchGetItem resolves request_items — a map from table name to the
// keys requested against it — returning found items in request order
// with missing keys simply omitted (§4.5 "batch_get"). Every named
// table must match this Store's own table.
func (s *Store) BatchGetItem(ctx context.Context, input *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	if len(input.RequestItems) == 0 {
		return nil, validationErr("RequestItems cannot be empty")
	}

	responses := make(map[string][]map[string]types.AttributeValue, len(input.RequestItems))
	for table, ka := range input.RequestItems {
		if table != s.tableName {
			return nil, validationErr("Cannot do operations on a non-existent table")
		}
		if len(ka.Keys) > maxBatchGetKeysPerTable {
			return nil, validationErr("Too many items requested for the BatchGetItem call")
		}
		seen := make(map[string]bool, len(ka.Keys))
		items := make([]map[string]types.AttributeValue, 0, len(ka.Keys))
		for _, key := range ka.Keys {
			pk, sk, err := requireKey(key)
			if err != nil {
				return nil, err
			}
			dedupKey := itemKeyOf(pk, sk)
			if seen[dedupKey] {
				return nil, validationErr("Provided list of item keys contains duplicates")
			}
			seen[dedupKey] = true

			if item, ok := s.state.Get(pk, sk); ok {
				items = append(items, item)
			}
		}
		responses[table] = items
	}

	return &dynamodb.BatchGetItemOutput{Responses: responses}, nil
}
