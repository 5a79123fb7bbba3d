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

/*
Package valuecmp implements deep-clone, equality, ordering and
type-name helpers over the DynamoDB AttributeValue union. It is the
one place in the core that reaches inside an AttributeValue to compare
or copy it, so every other package treats attribute values as opaque.

Ordering follows §4.4: numeric comparison when both operands are
numbers, otherwise a lexical comparison of the string coercion. Unlike
the teacher's UnicodeCollator, the comparison here is always a plain
byte-wise strings.Compare (the teacher's own BinaryCollator/
DefaultCollator strategy) — locale collation would make the ordering
depend on something other than byte content, which §4.1 forbids.
*/
package valuecmp

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TypeName returns the single-letter (or keyword) DynamoDB type tag for
// v, matching the attribute_type() function's vocabulary: S, N, B,
// BOOL, NULL, L, M, SS, NS, BS.
func TypeName(v types.AttributeValue) string {
	switch v.(type) {
	case *types.AttributeValueMemberS:
		return "S"
	case *types.AttributeValueMemberN:
		return "N"
	case *types.AttributeValueMemberB:
		return "B"
	case *types.AttributeValueMemberBOOL:
		return "BOOL"
	case *types.AttributeValueMemberNULL:
		return "NULL"
	case *types.AttributeValueMemberL:
		return "L"
	case *types.AttributeValueMemberM:
		return "M"
	case *types.AttributeValueMemberSS:
		return "SS"
	case *types.AttributeValueMemberNS:
		return "NS"
	case *types.AttributeValueMemberBS:
		return "BS"
	default:
		return ""
	}
}

// Clone returns a deep copy of v. Every value the core hands back to a
// caller, and every value the core stores on behalf of a caller, flows
// through Clone so that neither side can corrupt the other's copy.
func Clone(v types.AttributeValue) types.AttributeValue {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case *types.AttributeValueMemberS:
		return &types.AttributeValueMemberS{Value: t.Value}
	case *types.AttributeValueMemberN:
		return &types.AttributeValueMemberN{Value: t.Value}
	case *types.AttributeValueMemberBOOL:
		return &types.AttributeValueMemberBOOL{Value: t.Value}
	case *types.AttributeValueMemberNULL:
		return &types.AttributeValueMemberNULL{Value: t.Value}
	case *types.AttributeValueMemberB:
		b := make([]byte, len(t.Value))
		copy(b, t.Value)
		return &types.AttributeValueMemberB{Value: b}
	case *types.AttributeValueMemberSS:
		s := make([]string, len(t.Value))
		copy(s, t.Value)
		return &types.AttributeValueMemberSS{Value: s}
	case *types.AttributeValueMemberNS:
		s := make([]string, len(t.Value))
		copy(s, t.Value)
		return &types.AttributeValueMemberNS{Value: s}
	case *types.AttributeValueMemberBS:
		bs := make([][]byte, len(t.Value))
		for i, b := range t.Value {
			cp := make([]byte, len(b))
			copy(cp, b)
			bs[i] = cp
		}
		return &types.AttributeValueMemberBS{Value: bs}
	case *types.AttributeValueMemberL:
		l := make([]types.AttributeValue, len(t.Value))
		for i, e := range t.Value {
			l[i] = Clone(e)
		}
		return &types.AttributeValueMemberL{Value: l}
	case *types.AttributeValueMemberM:
		return &types.AttributeValueMemberM{Value: CloneItem(t.Value)}
	default:
		return v
	}
}

// CloneItem deep-copies every value in an item map.
func CloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = Clone(v)
	}
	return out
}

// Equal reports whether a and b represent the same value, recursively.
func Equal(a, b types.AttributeValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case *types.AttributeValueMemberS:
		bt, ok := b.(*types.AttributeValueMemberS)
		return ok && at.Value == bt.Value
	case *types.AttributeValueMemberN:
		bt, ok := b.(*types.AttributeValueMemberN)
		return ok && numericEqual(at.Value, bt.Value)
	case *types.AttributeValueMemberBOOL:
		bt, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && at.Value == bt.Value
	case *types.AttributeValueMemberNULL:
		_, ok := b.(*types.AttributeValueMemberNULL)
		return ok
	case *types.AttributeValueMemberB:
		bt, ok := b.(*types.AttributeValueMemberB)
		return ok && string(at.Value) == string(bt.Value)
	case *types.AttributeValueMemberSS:
		bt, ok := b.(*types.AttributeValueMemberSS)
		return ok && stringSetEqual(at.Value, bt.Value)
	case *types.AttributeValueMemberNS:
		bt, ok := b.(*types.AttributeValueMemberNS)
		return ok && stringSetEqual(at.Value, bt.Value)
	case *types.AttributeValueMemberBS:
		bt, ok := b.(*types.AttributeValueMemberBS)
		if !ok || len(at.Value) != len(bt.Value) {
			return false
		}
		as := binarySetStrings(at.Value)
		bs := binarySetStrings(bt.Value)
		return stringSetEqual(as, bs)
	case *types.AttributeValueMemberL:
		bt, ok := b.(*types.AttributeValueMemberL)
		if !ok || len(at.Value) != len(bt.Value) {
			return false
		}
		for i := range at.Value {
			if !Equal(at.Value[i], bt.Value[i]) {
				return false
			}
		}
		return true
	case *types.AttributeValueMemberM:
		bt, ok := b.(*types.AttributeValueMemberM)
		if !ok || len(at.Value) != len(bt.Value) {
			return false
		}
		for k, v := range at.Value {
			ov, ok := bt.Value[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func binarySetStrings(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func stringSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func numericEqual(a, b string) bool {
	fa, erra := strconv.ParseFloat(a, 64)
	fb, errb := strconv.ParseFloat(b, 64)
	if erra == nil && errb == nil {
		return fa == fb
	}
	return a == b
}

// CoerceString renders v as the string used for lexical comparison and
// for the range-value encoding in an index entry key (§3, §4.4).
// Numbers are rendered via their literal text (not re-formatted),
// booleans as "true"/"false", and null as the empty value's absence —
// reported via ok=false since null has no ordering.
func CoerceString(v types.AttributeValue) (string, bool) {
	switch t := v.(type) {
	case *types.AttributeValueMemberS:
		return t.Value, true
	case *types.AttributeValueMemberN:
		return t.Value, true
	case *types.AttributeValueMemberBOOL:
		if t.Value {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// Compare orders a and b per §4.4: numeric comparison when both sides
// parse as numbers, otherwise a lexical comparison of their string
// coercions. ok is false when either side cannot be coerced (lists,
// maps, binaries, sets, null have no defined order).
func Compare(a, b types.AttributeValue) (result int, ok bool) {
	an, aIsNum := a.(*types.AttributeValueMemberN)
	bn, bIsNum := b.(*types.AttributeValueMemberN)
	if aIsNum && bIsNum {
		fa, erra := strconv.ParseFloat(an.Value, 64)
		fb, errb := strconv.ParseFloat(bn.Value, 64)
		if erra == nil && errb == nil {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
	}

	as, aok := CoerceString(a)
	bs, bok := CoerceString(b)
	if !aok || !bok {
		return 0, false
	}
	return strings.Compare(as, bs), true
}

// Size implements the size(path) function: length for strings, lists,
// binaries and sets, key count for maps. Numbers, booleans and null
// have no defined size.
func Size(v types.AttributeValue) (int, bool) {
	switch t := v.(type) {
	case *types.AttributeValueMemberS:
		return len(t.Value), true
	case *types.AttributeValueMemberB:
		return len(t.Value), true
	case *types.AttributeValueMemberL:
		return len(t.Value), true
	case *types.AttributeValueMemberM:
		return len(t.Value), true
	case *types.AttributeValueMemberSS:
		return len(t.Value), true
	case *types.AttributeValueMemberNS:
		return len(t.Value), true
	case *types.AttributeValueMemberBS:
		return len(t.Value), true
	default:
		return 0, false
	}
}

// IsNumber reports whether v is a DynamoDB number.
func IsNumber(v types.AttributeValue) bool {
	_, ok := v.(*types.AttributeValueMemberN)
	return ok
}

// AsString reports whether v is a string and returns its value.
func AsString(v types.AttributeValue) (string, bool) {
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}
