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
)

const maxBatchWriteRequestsPerTable = 25

// BatchWriteItem applies every PutRequest/DeleteRequest named under
// request_items directly, with no conditions (§4.5 "batch_write").
// Each named table must match this Store's own table.
func (s *Store) BatchWriteItem(ctx context.Context, input *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if len(input.RequestItems) == 0 {
		return nil, validationErr("RequestItems cannot be empty")
	}

	for table, requests := range input.RequestItems {
		if table != s.tableName {
			return nil, validationErr("Cannot do operations on a non-existent table")
		}
		if len(requests) > maxBatchWriteRequestsPerTable {
			return nil, validationErr("Too many items requested for the BatchWriteItem call")
		}
		for _, req := range requests {
			switch {
			case req.PutRequest != nil:
				pk, sk, err := requireItemKey(req.PutRequest.Item)
				if err != nil {
					return nil, err
				}
				s.recordPreimage(pk, sk)
				s.state.Put(pk, sk, req.PutRequest.Item)

			case req.DeleteRequest != nil:
				pk, sk, err := requireKey(req.DeleteRequest.Key)
				if err != nil {
					return nil, err
				}
				s.recordPreimage(pk, sk)
				s.state.DeleteByKey(pk, sk)

			default:
				return nil, validationErr("Supplied WriteRequest does not have a PutRequest or DeleteRequest")
			}
		}
	}

	return &dynamodb.BatchWriteItemOutput{}, nil
}
