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

package expr

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestParseAndApplySimpleSet(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S")}
	values := ValueMap{":v": strVal("hello")}
	u, err := ParseUpdate("SET greeting = :v", nil, values, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if item["greeting"].(*types.AttributeValueMemberS).Value != "hello" {
		t.Fatalf("unexpected item: %v", item)
	}
}

func TestParseAndApplyIfNotExistsPlusArithmetic(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S")}
	values := ValueMap{":z": &types.AttributeValueMemberN{Value: "0"}, ":inc": &types.AttributeValueMemberN{Value: "2"}}
	u, err := ParseUpdate("SET count = if_not_exists(count, :z) + :inc", nil, values, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if item["count"].(*types.AttributeValueMemberN).Value != "2" {
		t.Fatalf("expected count=2, got %v", item["count"])
	}

	values2 := ValueMap{":z": &types.AttributeValueMemberN{Value: "0"}, ":inc": &types.AttributeValueMemberN{Value: "3"}}
	u2, err := ParseUpdate("SET count = if_not_exists(count, :z) + :inc", nil, values2, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u2, item); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if item["count"].(*types.AttributeValueMemberN).Value != "5" {
		t.Fatalf("expected count=5, got %v", item["count"])
	}
}

func TestParseAndApplyListAppend(t *testing.T) {
	item := map[string]types.AttributeValue{
		"PK":   strVal("K"),
		"SK":   strVal("S"),
		"tags": &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("a")}},
	}
	values := ValueMap{":new": &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("b")}}}
	u, err := ParseUpdate("SET tags = list_append(tags, :new)", nil, values, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	tags := item["tags"].(*types.AttributeValueMemberL)
	if len(tags.Value) != 2 || tags.Value[1].(*types.AttributeValueMemberS).Value != "b" {
		t.Fatalf("unexpected tags: %v", tags.Value)
	}
}

func TestApplyRejectsKeyAttributeMutation(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S")}
	values := ValueMap{":v": strVal("other")}
	u, err := ParseUpdate("SET PK = :v", nil, values, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err == nil {
		t.Fatalf("expected error mutating PK")
	}
}

func TestApplyAllowsNoOpKeyAssignment(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S")}
	values := ValueMap{":v": strVal("K")}
	u, err := ParseUpdate("SET PK = :v", nil, values, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err != nil {
		t.Fatalf("expected no-op PK assignment to succeed, got %v", err)
	}
}

func TestParseUpdateRemove(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S"), "extra": strVal("x")}
	u, err := ParseUpdate("REMOVE extra", nil, nil, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if _, ok := item["extra"]; ok {
		t.Fatalf("expected extra to be removed")
	}
}

func TestParseUpdateRemoveRejectsKeyAttribute(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S")}
	u, err := ParseUpdate("REMOVE SK", nil, nil, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err == nil {
		t.Fatalf("expected error removing SK")
	}
}

func TestParseUpdateSetThenRemove(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S"), "old": strVal("x")}
	values := ValueMap{":v": strVal("new")}
	u, err := ParseUpdate("SET fresh = :v REMOVE old", nil, values, item)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := Apply(u, item); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if _, ok := item["old"]; ok {
		t.Fatalf("expected old to be removed")
	}
	if item["fresh"].(*types.AttributeValueMemberS).Value != "new" {
		t.Fatalf("unexpected fresh value: %v", item["fresh"])
	}
}

func TestParseUpdateEmptySetBodyFails(t *testing.T) {
	item := map[string]types.AttributeValue{"PK": strVal("K"), "SK": strVal("S")}
	_, err := ParseUpdate("SET", nil, nil, item)
	if err == nil {
		t.Fatalf("expected error for empty SET body")
	}
}
