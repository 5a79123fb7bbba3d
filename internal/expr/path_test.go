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

func strVal(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

func TestPathResolveNestedMapAndList(t *testing.T) {
	item := map[string]types.AttributeValue{
		"a": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"b": &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("x"), strVal("y")}},
		}},
	}
	path := Path{{Attr: "a"}, {Attr: "b"}, {IsIndex: true, Index: 1}}
	v, ok := path.Resolve(item)
	if !ok {
		t.Fatalf("expected path to resolve")
	}
	if v.(*types.AttributeValueMemberS).Value != "y" {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestPathResolveMissingIsNotFound(t *testing.T) {
	item := map[string]types.AttributeValue{"a": strVal("x")}
	path := Path{{Attr: "nope"}}
	if _, ok := path.Resolve(item); ok {
		t.Fatalf("expected missing attribute to report not found")
	}
}

func TestSetAtTopLevel(t *testing.T) {
	item := map[string]types.AttributeValue{}
	if err := SetAt(item, Path{{Attr: "count"}}, &types.AttributeValueMemberN{Value: "3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item["count"].(*types.AttributeValueMemberN).Value != "3" {
		t.Fatalf("unexpected item: %v", item)
	}
}

func TestSetAtListExtendByOne(t *testing.T) {
	item := map[string]types.AttributeValue{
		"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("a")}},
	}
	path := Path{{Attr: "list"}, {IsIndex: true, Index: 1}}
	if err := SetAt(item, path, strVal("b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := item["list"].(*types.AttributeValueMemberL)
	if len(list.Value) != 2 || list.Value[1].(*types.AttributeValueMemberS).Value != "b" {
		t.Fatalf("unexpected list: %v", list.Value)
	}
}

func TestSetAtListIndexBeyondLengthPlusOneFails(t *testing.T) {
	item := map[string]types.AttributeValue{
		"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("a")}},
	}
	path := Path{{Attr: "list"}, {IsIndex: true, Index: 5}}
	if err := SetAt(item, path, strVal("b")); err == nil {
		t.Fatalf("expected error extending list beyond length+1")
	}
}

func TestSetAtMissingIntermediateFails(t *testing.T) {
	item := map[string]types.AttributeValue{}
	path := Path{{Attr: "a"}, {Attr: "b"}}
	if err := SetAt(item, path, strVal("x")); err == nil {
		t.Fatalf("expected error when intermediate attribute is missing")
	}
}

func TestRemoveAtMapEntry(t *testing.T) {
	item := map[string]types.AttributeValue{
		"a": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{"b": strVal("x")}},
	}
	RemoveAt(item, Path{{Attr: "a"}, {Attr: "b"}})
	m := item["a"].(*types.AttributeValueMemberM)
	if _, ok := m.Value["b"]; ok {
		t.Fatalf("expected b to be removed")
	}
}

func TestRemoveAtListSplices(t *testing.T) {
	item := map[string]types.AttributeValue{
		"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("a"), strVal("b"), strVal("c")}},
	}
	RemoveAt(item, Path{{Attr: "list"}, {IsIndex: true, Index: 1}})
	list := item["list"].(*types.AttributeValueMemberL)
	if len(list.Value) != 2 || list.Value[1].(*types.AttributeValueMemberS).Value != "c" {
		t.Fatalf("unexpected list after splice: %v", list.Value)
	}
}

func TestRemoveAtMissingIntermediateIsNoOp(t *testing.T) {
	item := map[string]types.AttributeValue{}
	RemoveAt(item, Path{{Attr: "a"}, {Attr: "b"}})
	if len(item) != 0 {
		t.Fatalf("expected no-op, got %v", item)
	}
}
