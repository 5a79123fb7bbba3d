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

	"gridstore/internal/manifest"
)

// GetItem returns the item stored at input.Key, or a nil Item if none
// exists (§4.5 "get"). ConsistentRead is accepted and honored
// trivially — every read in this store already observes the latest
// write.
func (s *Store) GetItem(ctx context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if err := rejectUnsupportedParam(manifest.MethodGet, "ProjectionExpression", input.ProjectionExpression != nil); err != nil {
		return nil, err
	}
	if err := rejectUnsupportedParam(manifest.MethodGet, "ExpressionAttributeNames", len(input.ExpressionAttributeNames) > 0); err != nil {
		return nil, err
	}
	if err := s.validateTableName(input.TableName); err != nil {
		return nil, err
	}
	pk, sk, err := requireKey(input.Key)
	if err != nil {
		return nil, err
	}

	item, ok := s.state.Get(pk, sk)
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}
