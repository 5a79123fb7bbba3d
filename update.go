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

	"gridstore/internal/expr"
)

// UpdateItem applies input.UpdateExpression to the item at input.Key,
// upserting a bare {PK, SK} base if nothing was stored there (§4.5
// "update"). When input.ReturnValues is ALL_NEW the final item is
// returned; otherwise Attributes is left nil.
func (s *Store) UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if err := s.validateTableName(input.TableName); err != nil {
		return nil, err
	}
	pk, sk, err := requireKey(input.Key)
	if err != nil {
		return nil, err
	}
	if input.UpdateExpression == nil || *input.UpdateExpression == "" {
		return nil, validationErr("UpdateExpression is required")
	}

	current, existed := s.state.Get(pk, sk)
	ok, err := checkCondition(input.ConditionExpression, input.ExpressionAttributeNames, input.ExpressionAttributeValues, current)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conditionalCheckFailedErr()
	}

	base := current
	if !existed {
		base = map[string]types.AttributeValue{
			"PK": input.Key["PK"],
			"SK": input.Key["SK"],
		}
	}

	upd, err := expr.ParseUpdate(*input.UpdateExpression, expr.NameMap(input.ExpressionAttributeNames), expr.ValueMap(input.ExpressionAttributeValues), base)
	if err != nil {
		return nil, asValidation(err)
	}
	if err := expr.Apply(upd, base); err != nil {
		return nil, asValidation(err)
	}

	s.recordPreimage(pk, sk)
	s.state.Put(pk, sk, base)

	out := &dynamodb.UpdateItemOutput{}
	if input.ReturnValues == types.ReturnValueAllNew {
		final, _ := s.state.Get(pk, sk)
		out.Attributes = final
	}
	return out, nil
}
