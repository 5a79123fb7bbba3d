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

func TestDeleteItemRemovesExistingItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustPut(t, s, ctx, "a", "1", nil)

	_, err := s.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: strPtr(testTable), Key: keyKV("a", "1")})
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	out, gerr := s.GetItem(ctx, &dynamodb.GetItemInput{TableName: strPtr(testTable), Key: keyKV("a", "1")})
	if gerr != nil {
		t.Fatalf("GetItem failed: %v", gerr)
	}
	if out.Item != nil {
		t.Fatal("expected item to be gone after DeleteItem")
	}
}

func TestDeleteItemOfMissingKeyIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: strPtr(testTable), Key: keyKV("nope", "nope")})
	if err != nil {
		t.Fatalf("expected no error deleting a missing key, got %v", err)
	}
}

func TestDeleteItemConditionFailureLeavesItemInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustPut(t, s, ctx, "a", "1", map[string]types.AttributeValue{"n": numAV("1")})

	_, err := s.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 strPtr(testTable),
		Key:                       keyKV("a", "1"),
		ConditionExpression:       strPtr("n = :old"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":old": numAV("999")},
	})
	if !IsConditionalCheckFailed(err) {
		t.Fatalf("expected ConditionalCheckFailed error, got %v", err)
	}

	out, gerr := s.GetItem(ctx, &dynamodb.GetItemInput{TableName: strPtr(testTable), Key: keyKV("a", "1")})
	if gerr != nil {
		t.Fatalf("GetItem failed: %v", gerr)
	}
	if out.Item == nil {
		t.Fatal("expected item to remain after a failed condition check")
	}
}

func TestDeleteItemRejectsReturnValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    strPtr(testTable),
		Key:          keyKV("a", "1"),
		ReturnValues: types.ReturnValueAllOld,
	})
	if !IsNotSupported(err) {
		t.Fatalf("expected NotSupported error, got %v", err)
	}
}
