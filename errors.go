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
	"fmt"

	"gridstore/internal/expr"
)

// Kind names the operation surface's four error kinds (§6/§7). Every
// error this package returns is sum-typed over exactly one of these.
type Kind string

const (
	// KindNotSupported is raised for a parameter, method, or expression
	// feature outside the spec manifest.
	KindNotSupported Kind = "NotSupported"
	// KindValidation is raised for malformed input: bad key shapes, bad
	// expressions, duplicate batch keys, limit < 1, and so on.
	KindValidation Kind = "Validation"
	// KindConditionalCheckFailed is raised when a ConditionExpression
	// evaluates false on put/update/delete.
	KindConditionalCheckFailed Kind = "ConditionalCheckFailed"
	// KindTransactionCanceled is raised when any operation inside a
	// transact-write fails.
	KindTransactionCanceled Kind = "TransactionCanceled"
)

// Error is the sum-typed error every operation in this package returns.
// Method and FeaturePath are populated for KindNotSupported; Reasons is
// populated for KindTransactionCanceled.
type Error struct {
	Kind        Kind
	Message     string
	Method      string
	FeaturePath string
	Reasons     []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func notSupportedErr(method, featurePath, reason string) *Error {
	return &Error{
		Kind:        KindNotSupported,
		Message:     reason,
		Method:      method,
		FeaturePath: featurePath,
	}
}

func validationErr(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func conditionalCheckFailedErr() *Error {
	return &Error{Kind: KindConditionalCheckFailed}
}

// transactionCanceledErr builds the composite cancellation message from
// one reason per transact item, e.g. "[None, ConditionalCheckFailed]".
func transactionCanceledErr(reasons []string) *Error {
	msg := "["
	for i, r := range reasons {
		if i > 0 {
			msg += ", "
		}
		msg += r
	}
	msg += "]"
	return &Error{Kind: KindTransactionCanceled, Message: msg, Reasons: reasons}
}

// IsNotSupported reports whether err is a KindNotSupported Error.
func IsNotSupported(err error) bool { return hasKind(err, KindNotSupported) }

// IsValidation reports whether err is a KindValidation Error.
func IsValidation(err error) bool { return hasKind(err, KindValidation) }

// IsConditionalCheckFailed reports whether err is a
// KindConditionalCheckFailed Error.
func IsConditionalCheckFailed(err error) bool { return hasKind(err, KindConditionalCheckFailed) }

// IsTransactionCanceled reports whether err is a KindTransactionCanceled
// Error.
func IsTransactionCanceled(err error) bool { return hasKind(err, KindTransactionCanceled) }

func hasKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// asValidation rewrites an error raised by the expression engine into
// the package's Validation kind (§7): the expression engine only ever
// knows how to raise NotSupported, but everything it rejects is, from
// the operation surface's perspective, a validation failure. Any other
// error (including nil, and this package's own *Error values) passes
// through unchanged.
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*expr.NotSupportedError); ok {
		return validationErr(err.Error())
	}
	return err
}
