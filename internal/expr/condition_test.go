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

func itemFixture() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":     strVal("USER#1"),
		"SK":     strVal("PROFILE"),
		"status": strVal("active"),
		"count":  &types.AttributeValueMemberN{Value: "5"},
		"tags":   &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal("a"), strVal("b")}},
	}
}

func TestEvaluateConditionAttributeExists(t *testing.T) {
	ok, err := EvaluateCondition("attribute_exists(status)", nil, nil, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected attribute_exists(status) = true, got (%v, %v)", ok, err)
	}
	ok, err = EvaluateCondition("attribute_not_exists(missing_attr)", nil, nil, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected attribute_not_exists(missing_attr) = true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionComparisonAndAnd(t *testing.T) {
	values := ValueMap{":v": &types.AttributeValueMemberN{Value: "5"}, ":s": strVal("active")}
	ok, err := EvaluateCondition("count = :v AND #st = :s", NameMap{"#st": "status"}, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected combined condition true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionOr(t *testing.T) {
	values := ValueMap{":s": strVal("inactive"), ":s2": strVal("active")}
	ok, err := EvaluateCondition("status = :s OR status = :s2", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected OR condition true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionMissingPathIsFalse(t *testing.T) {
	values := ValueMap{":v": strVal("x")}
	ok, err := EvaluateCondition("nonexistent = :v", nil, values, itemFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected missing-path comparison to be false")
	}
}

func TestEvaluateConditionBeginsWith(t *testing.T) {
	values := ValueMap{":p": strVal("act")}
	ok, err := EvaluateCondition("begins_with(status, :p)", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected begins_with true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionContainsList(t *testing.T) {
	values := ValueMap{":t": strVal("b")}
	ok, err := EvaluateCondition("contains(tags, :t)", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected contains(tags, b) true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionAttributeType(t *testing.T) {
	values := ValueMap{":t": strVal("N")}
	ok, err := EvaluateCondition("attribute_type(count, :t)", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected attribute_type(count, N) true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionBetween(t *testing.T) {
	values := ValueMap{":lo": &types.AttributeValueMemberN{Value: "1"}, ":hi": &types.AttributeValueMemberN{Value: "10"}}
	ok, err := EvaluateCondition("count BETWEEN :lo AND :hi", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected BETWEEN true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionSizeFunction(t *testing.T) {
	values := ValueMap{":n": &types.AttributeValueMemberN{Value: "2"}}
	ok, err := EvaluateCondition("size(tags) = :n", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected size(tags) = 2 true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionParentheses(t *testing.T) {
	values := ValueMap{":a": strVal("nope"), ":b": strVal("active")}
	ok, err := EvaluateCondition("(status = :a OR status = :b) AND attribute_exists(PK)", nil, values, itemFixture())
	if err != nil || !ok {
		t.Fatalf("expected parenthesized condition true, got (%v, %v)", ok, err)
	}
}

func TestEvaluateConditionUndefinedValuePlaceholder(t *testing.T) {
	_, err := EvaluateCondition("status = :missing", nil, ValueMap{}, itemFixture())
	if err == nil {
		t.Fatalf("expected error for undefined expression attribute value")
	}
	want := "An expression attribute value used in expression is not defined; attribute value: :missing"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}
