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
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestUpdateItemUpsertsMissingItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 strPtr(testTable),
		Key:                       keyKV("a", "1"),
		UpdateExpression:          strPtr("SET n = :n"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":n": numAV("5")},
	})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	out, err := s.GetItem(ctx, &dynamodb.GetItemInput{TableName: strPtr(testTable), Key: keyKV("a", "1")})
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if n, ok := out.Item["n"].(*types.AttributeValueMemberN); !ok || n.Value != "5" {
		t.Fatalf("got %v, want n=5", out.Item["n"])
	}
}

func TestUpdateItemRejectsKeyAttributeMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustPut(t, s, ctx, "a", "1", nil)

	_, err := s.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 strPtr(testTable),
		Key:                       keyKV("a", "1"),
		UpdateExpression:          strPtr("SET PK = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": strAV("b")},
	})
	if !IsValidation(err) {
		t.Fatalf("expected Validation error, got %v", err)
	}
}

func TestUpdateItemRequiresUpdateExpression(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: strPtr(testTable),
		Key:       keyKV("a", "1"),
	})
	if !IsValidation(err) {
		t.Fatalf("expected Validation error, got %v", err)
	}
}

func TestUpdateItemConditionFailureLeavesItemUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustPut(t, s, ctx, "a", "1", map[string]types.AttributeValue{"n": numAV("1")})

	_, err := s.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 strPtr(testTable),
		Key:                       keyKV("a", "1"),
		UpdateExpression:          strPtr("SET n = :n"),
		ConditionExpression:       strPtr("n = :old"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":n": numAV("9"), ":old": numAV("999")},
	})
	if !IsConditionalCheckFailed(err) {
		t.Fatalf("expected ConditionalCheckFailed error, got %v", err)
	}

	out, gerr := s.GetItem(ctx, &dynamodb.GetItemInput{TableName: strPtr(testTable), Key: keyKV("a", "1")})
	if gerr != nil {
		t.Fatalf("GetItem failed: %v", gerr)
	}
	if n, ok := out.Item["n"].(*types.AttributeValueMemberN); !ok || n.Value != "1" {
		t.Fatalf("expected n to remain 1, got %v", out.Item["n"])
	}
}

func TestUpdateItemReturnValuesAllNew(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustPut(t, s, ctx, "a", "1", map[string]types.AttributeValue{"n": numAV("1")})

	out, err := s.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 strPtr(testTable),
		Key:                       keyKV("a", "1"),
		UpdateExpression:          strPtr("SET n = n + :delta"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":delta": numAV("4")},
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if n, ok := out.Attributes["n"].(*types.AttributeValueMemberN); !ok || n.Value != "5" {
		t.Fatalf("got %v, want n=5", out.Attributes["n"])
	}
}
