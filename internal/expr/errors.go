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

// NotSupportedError is raised by the tokenizer, the parsers and the
// evaluators for anything outside the supported grammar: an unknown
// function name, a malformed placeholder, a missing expression
// attribute value, an empty SET/REMOVE body. It never reaches a caller
// of the operation surface as is: the surface catches every one and
// rewrites it into a validation-tier error, per the wire-compatible
// message table.
type NotSupportedError struct {
	Message string
}

func (e *NotSupportedError) Error() string { return e.Message }

func notSupported(message string) *NotSupportedError {
	return &NotSupportedError{Message: message}
}
