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
Package manifest is the declarative description of what the operation
surface accepts, mirroring how the teacher repo centralizes its SQL
dialect's supported-keyword list in one place rather than scattering
capability checks through the executor.

Per method it names the supported_params set and the
unsupported_params set. The operation surface rejects, with an error
naming the parameter and the method, those unsupported_params entries
that an operation checks explicitly; supported_params is exposed
through IsKnownParam and is not consulted by the operation surface, so
a parameter outside it is not rejected on that ground. The manifest
also carries the excluded_indexes and projection invariants as
constants rather than inline checks, so GSI1 exclusion lives in one
place.
*/
package manifest

// ExcludedIndexes lists index names the wire layer recognizes but the
// in-memory core refuses to operate on.
var ExcludedIndexes = []string{"GSI1"}

// Projection is the only projection mode every index supports.
const Projection = "ALL"

// IsExcludedIndex reports whether name is an index this core refuses
// to query or maintain.
func IsExcludedIndex(name string) bool {
	for _, n := range ExcludedIndexes {
		if n == name {
			return true
		}
	}
	return false
}

// Method names the operation surface's fixed set of operations.
type Method string

const (
	MethodGet           Method = "GetItem"
	MethodPut           Method = "PutItem"
	MethodUpdate        Method = "UpdateItem"
	MethodDelete        Method = "DeleteItem"
	MethodQuery         Method = "Query"
	MethodScan          Method = "Scan"
	MethodBatchGet      Method = "BatchGetItem"
	MethodBatchWrite    Method = "BatchWriteItem"
	MethodTransactWrite Method = "TransactWriteItems"
)

// Spec is one method's supported/unsupported parameter sets.
type Spec struct {
	SupportedParams   map[string]bool
	UnsupportedParams map[string]bool
}

func supported(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// methods is the fixed manifest: every parameter name the operation
// surface recognizes (whether or not this build implements it), split
// into params this build honors and params named in the wire protocol
// that this build explicitly rejects when present.
var methods = map[Method]Spec{
	MethodGet: {
		SupportedParams: supported("TableName", "Key", "ConsistentRead"),
		UnsupportedParams: supported(
			"ProjectionExpression", "ExpressionAttributeNames", "ReturnConsumedCapacity",
		),
	},
	MethodPut: {
		SupportedParams: supported(
			"TableName", "Item", "ConditionExpression",
			"ExpressionAttributeNames", "ExpressionAttributeValues",
		),
		UnsupportedParams: supported("ReturnValues", "ReturnConsumedCapacity", "ReturnItemCollectionMetrics"),
	},
	MethodUpdate: {
		SupportedParams: supported(
			"TableName", "Key", "UpdateExpression", "ConditionExpression",
			"ExpressionAttributeNames", "ExpressionAttributeValues", "ReturnValues",
		),
		UnsupportedParams: supported(
			"AttributeUpdates", "Expected", "ConditionalOperator",
			"ReturnConsumedCapacity", "ReturnItemCollectionMetrics",
		),
	},
	MethodDelete: {
		SupportedParams: supported(
			"TableName", "Key", "ConditionExpression",
			"ExpressionAttributeNames", "ExpressionAttributeValues",
		),
		UnsupportedParams: supported("ReturnValues", "ReturnConsumedCapacity", "ReturnItemCollectionMetrics"),
	},
	MethodQuery: {
		SupportedParams: supported(
			"TableName", "IndexName", "KeyConditionExpression", "FilterExpression",
			"ExpressionAttributeNames", "ExpressionAttributeValues",
			"ScanIndexForward", "Limit", "ExclusiveStartKey", "ConsistentRead",
		),
		UnsupportedParams: supported(
			"ProjectionExpression", "Select", "KeyConditions", "QueryFilter",
			"ConditionalOperator", "ReturnConsumedCapacity",
		),
	},
	MethodScan: {
		SupportedParams: supported(
			"TableName", "FilterExpression", "ExpressionAttributeNames",
			"ExpressionAttributeValues", "Limit", "ExclusiveStartKey",
		),
		UnsupportedParams: supported(
			"IndexName", "ProjectionExpression", "Select", "ScanFilter",
			"ConditionalOperator", "Segment", "TotalSegments", "ReturnConsumedCapacity", "ConsistentRead",
		),
	},
	MethodBatchGet: {
		SupportedParams:   supported("RequestItems"),
		UnsupportedParams: supported("ReturnConsumedCapacity"),
	},
	MethodBatchWrite: {
		SupportedParams:   supported("RequestItems"),
		UnsupportedParams: supported("ReturnConsumedCapacity", "ReturnItemCollectionMetrics"),
	},
	MethodTransactWrite: {
		SupportedParams:   supported("TransactItems"),
		UnsupportedParams: supported("ClientRequestToken", "ReturnConsumedCapacity", "ReturnItemCollectionMetrics"),
	},
}

// Lookup returns the Spec for method, and ok=false if method itself
// is entirely unsupported by this build.
func Lookup(method Method) (Spec, bool) {
	spec, ok := methods[method]
	return spec, ok
}

// IsUnsupportedParam reports whether param is named in method's
// unsupported_params set.
func (s Spec) IsUnsupportedParam(param string) bool {
	return s.UnsupportedParams[param]
}

// IsKnownParam reports whether param is named in method's
// supported_params set.
func (s Spec) IsKnownParam(param string) bool {
	return s.SupportedParams[param]
}
