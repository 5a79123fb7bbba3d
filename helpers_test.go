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
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const testTable = "widgets"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory("test", testTable)
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}
	return s
}

func strAV(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }
func numAV(v string) types.AttributeValue { return &types.AttributeValueMemberN{Value: v} }

func itemKV(pk, sk string, extra map[string]types.AttributeValue) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{"PK": strAV(pk), "SK": strAV(sk)}
	for k, v := range extra {
		item[k] = v
	}
	return item
}

func keyKV(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"PK": strAV(pk), "SK": strAV(sk)}
}

func strOf(av types.AttributeValue) string {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func strPtr(s string) *string { return aws.String(s) }

func awsBoolPtr(b bool) *bool { return aws.Bool(b) }

func int32Ptr(n int32) *int32 { return aws.Int32(n) }

func strFromInt(n int) string { return strconv.Itoa(n) }
