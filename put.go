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

// PutItem stores input.Item, overwriting whatever was at its (PK, SK)
// before (§4.5 "put"). If input.ConditionExpression is set and
// evaluates false against the current item, nothing is stored and a
// ConditionalCheckFailed error is returned.
func (s *Store) PutItem(ctx context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if err := rejectUnsupportedParam(manifest.MethodPut, "ReturnValues", input.ReturnValues != ""); err != nil {
		return nil, err
	}
	if err := s.validateTableName(input.TableName); err != nil {
		return nil, err
	}
	pk, sk, err := requireItemKey(input.Item)
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
	s.state.Put(pk, sk, input.Item)
	return &dynamodb.PutItemOutput{}, nil
}
