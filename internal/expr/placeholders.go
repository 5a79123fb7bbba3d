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

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// NameMap is a caller-supplied ExpressionAttributeNames mapping from
// "#alias" to the real attribute name it stands in for.
type NameMap map[string]string

// ValueMap is a caller-supplied ExpressionAttributeValues mapping
// from ":alias" to the attribute value it stands in for.
type ValueMap map[string]types.AttributeValue

func (n NameMap) resolve(token string) (string, error) {
	name, ok := n[token]
	if !ok {
		return "", notSupported("An expression attribute name used in expression is not defined; attribute name: " + token)
	}
	return name, nil
}

func (v ValueMap) resolve(token string) (types.AttributeValue, error) {
	val, ok := v[token]
	if !ok {
		return nil, notSupported("An expression attribute value used in expression is not defined; attribute value: " + token)
	}
	return val, nil
}
