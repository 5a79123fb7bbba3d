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

// DeleteItem removes the item at input.Key, if present, after
// evaluating an optional condition against the current item (§4.5
// "delete"). Deleting a key with no stored item is not an error.
func (s *Store) DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if err := rejectUnsupportedParam(manifest.MethodDelete, "ReturnValues", input.ReturnValues != ""); err != nil {
		return nil, err
	}
	if err := s.validateTableName(input.TableName); err != nil {
		return nil, err
	}
	pk, sk, err := requireKey(input.Key)
	if err != nil {
		return nil, err
	}

	current, _ := s.state.Get(pk, sk)
	ok, err := checkCondition(input.ConditionExpression, input.ExpressionAttributeNames, input.ExpressionAttributeValues, current)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conditionalCheckFailedErr()
	}

	s.recordPreimage(pk, sk)
	s.state.DeleteByKey(pk, sk)
	return &dynamodb.DeleteItemOutput{}, nil
}
