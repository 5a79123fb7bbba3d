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

package valuecmp

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func s(v string) types.AttributeValue  { return &types.AttributeValueMemberS{Value: v} }
func n(v string) types.AttributeValue  { return &types.AttributeValueMemberN{Value: v} }
func boolv(v bool) types.AttributeValue { return &types.AttributeValueMemberBOOL{Value: v} }

func TestTypeName(t *testing.T) {
	cases := []struct {
		v    types.AttributeValue
		want string
	}{
		{s("a"), "S"},
		{n("1"), "N"},
		{boolv(true), "BOOL"},
		{&types.AttributeValueMemberNULL{Value: true}, "NULL"},
		{&types.AttributeValueMemberL{}, "L"},
		{&types.AttributeValueMemberM{}, "M"},
		{&types.AttributeValueMemberSS{Value: []string{"a"}}, "SS"},
	}
	for _, c := range cases {
		if got := TypeName(c.v); got != c.want {
			t.Errorf("TypeName(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{s("x"), n("1")}},
	}}
	cloned := Clone(orig).(*types.AttributeValueMemberM)
	list := cloned.Value["list"].(*types.AttributeValueMemberL)
	list.Value[0] = s("mutated")

	origList := orig.Value["list"].(*types.AttributeValueMemberL)
	if got := origList.Value[0].(*types.AttributeValueMemberS).Value; got != "x" {
		t.Errorf("mutation of clone leaked into original: got %q", got)
	}
}

func TestCloneItem(t *testing.T) {
	item := map[string]types.AttributeValue{"pk": s("a"), "n": n("3")}
	cloned := CloneItem(item)
	cloned["pk"] = s("mutated")
	if got := item["pk"].(*types.AttributeValueMemberS).Value; got != "a" {
		t.Errorf("CloneItem mutation leaked into original: got %q", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(n("1"), n("1.0")) {
		t.Errorf("expected numeric equality across representations")
	}
	if Equal(s("1"), n("1")) {
		t.Errorf("expected type mismatch to be unequal")
	}
	a := &types.AttributeValueMemberSS{Value: []string{"x", "y"}}
	b := &types.AttributeValueMemberSS{Value: []string{"y", "x"}}
	if !Equal(a, b) {
		t.Errorf("expected string sets to be order-independent")
	}
	la := &types.AttributeValueMemberL{Value: []types.AttributeValue{s("a"), n("2")}}
	lb := &types.AttributeValueMemberL{Value: []types.AttributeValue{s("a"), n("2")}}
	if !Equal(la, lb) {
		t.Errorf("expected equal lists to compare equal")
	}
}

func TestCompareNumeric(t *testing.T) {
	got, ok := Compare(n("10"), n("9"))
	if !ok || got <= 0 {
		t.Errorf("Compare(10, 9) = (%d, %v), want positive, true", got, ok)
	}
}

func TestCompareLexicalFallback(t *testing.T) {
	got, ok := Compare(s("apple"), s("banana"))
	if !ok || got >= 0 {
		t.Errorf("Compare(apple, banana) = (%d, %v), want negative, true", got, ok)
	}
}

func TestCompareUnsupported(t *testing.T) {
	_, ok := Compare(&types.AttributeValueMemberL{}, s("a"))
	if ok {
		t.Errorf("expected Compare against a list to be unsupported")
	}
}

func TestSize(t *testing.T) {
	if got, ok := Size(s("abcd")); !ok || got != 4 {
		t.Errorf("Size(string) = (%d, %v), want (4, true)", got, ok)
	}
	if _, ok := Size(n("123")); ok {
		t.Errorf("expected Size(number) to be unsupported")
	}
	m := &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{"a": s("1"), "b": s("2")}}
	if got, ok := Size(m); !ok || got != 2 {
		t.Errorf("Size(map) = (%d, %v), want (2, true)", got, ok)
	}
}

func TestCoerceString(t *testing.T) {
	if got, ok := CoerceString(boolv(true)); !ok || got != "true" {
		t.Errorf("CoerceString(true) = (%q, %v), want (\"true\", true)", got, ok)
	}
	if _, ok := CoerceString(&types.AttributeValueMemberNULL{Value: true}); ok {
		t.Errorf("expected CoerceString(null) to be unsupported")
	}
}
