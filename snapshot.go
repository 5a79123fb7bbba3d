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
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/rankmap"
)

// Snapshot produces a deep-copied view of every item in the table,
// keyed by "PK__SK" and filled by walking the items in ascending
// (PK, SK) order (§4.8); the returned Go map itself has no iteration
// order. It is for
// consumption by an external snapshot-diff formatter or by tests that
// want to assert on the whole table's contents at once.
func (s *Store) Snapshot() map[string]map[string]types.AttributeValue {
	out := make(map[string]map[string]types.AttributeValue, s.state.Len())
	s.state.IterateAll(rankmap.Ascending, func(itemKey string, item map[string]types.AttributeValue) bool {
		pk, _ := item["PK"].(*types.AttributeValueMemberS)
		sk, _ := item["SK"].(*types.AttributeValueMemberS)
		if pk == nil || sk == nil {
			return true
		}
		out[pk.Value+"__"+sk.Value] = item
		return true
	})
	return out
}
