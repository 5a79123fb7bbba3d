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
Condition and filter expression evaluation (§4.4): a boolean
expression over clauses combined with case-insensitive AND/OR,
respecting parenthesis depth. Used for ConditionExpression on put,
update, delete and transact-write ConditionCheck entries, and for
FilterExpression on query and scan.
*/
package expr

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/valuecmp"
)

// EvaluateCondition parses and evaluates expression against item,
// resolving placeholders through names and values.
func EvaluateCondition(expression string, names NameMap, values ValueMap, item map[string]types.AttributeValue) (bool, error) {
	p := newParser(expression, names, values, item)
	result, err := p.parseOrExpr()
	if err != nil {
		return false, err
	}
	if !p.atEOF() {
		return false, notSupported("unexpected trailing content in condition expression")
	}
	return result, nil
}

func (p *parser) parseOrExpr() (bool, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return false, err
	}
	for p.identIs("OR") {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

func (p *parser) parseAndExpr() (bool, error) {
	left, err := p.parseClause()
	if err != nil {
		return false, err
	}
	for p.identIs("AND") {
		p.advance()
		right, err := p.parseClause()
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

func (p *parser) parseClause() (bool, error) {
	if p.cur.Type == TokenLParen {
		p.advance()
		result, err := p.parseOrExpr()
		if err != nil {
			return false, err
		}
		if err := p.expect(TokenRParen, ")"); err != nil {
			return false, err
		}
		return result, nil
	}

	switch {
	case p.identIs("ATTRIBUTE_EXISTS"):
		return p.parseExistsClause(true)
	case p.identIs("ATTRIBUTE_NOT_EXISTS"):
		return p.parseExistsClause(false)
	case p.identIs("BEGINS_WITH"):
		return p.parseBeginsWithClause()
	case p.identIs("CONTAINS"):
		return p.parseContainsClause()
	case p.identIs("ATTRIBUTE_TYPE"):
		return p.parseAttributeTypeClause()
	default:
		return p.parseComparisonClause()
	}
}

func (p *parser) parseExistsClause(wantExists bool) (bool, error) {
	p.advance()
	if err := p.expect(TokenLParen, "("); err != nil {
		return false, err
	}
	path, err := p.parsePath()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return false, err
	}
	_, found := path.Resolve(p.item)
	if wantExists {
		return found, nil
	}
	return !found, nil
}

func (p *parser) parseBeginsWithClause() (bool, error) {
	p.advance()
	if err := p.expect(TokenLParen, "("); err != nil {
		return false, err
	}
	path, err := p.parsePath()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenComma, ","); err != nil {
		return false, err
	}
	val, missing, err := p.parseValue()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return false, err
	}
	if missing {
		return false, notSupported("begins_with value could not be resolved")
	}
	rs, ok := val.(*types.AttributeValueMemberS)
	if !ok {
		return false, notSupported("begins_with requires a string right-hand side")
	}

	container, found := path.Resolve(p.item)
	if !found {
		return false, nil
	}
	ls, ok := container.(*types.AttributeValueMemberS)
	if !ok {
		return false, nil
	}
	return strings.HasPrefix(ls.Value, rs.Value), nil
}

func (p *parser) parseContainsClause() (bool, error) {
	p.advance()
	if err := p.expect(TokenLParen, "("); err != nil {
		return false, err
	}
	container, containerMissing, err := p.parseValue()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenComma, ","); err != nil {
		return false, err
	}
	target, targetMissing, err := p.parseValue()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return false, err
	}
	if containerMissing || targetMissing {
		return false, nil
	}
	return containsValue(container, target), nil
}

func containsValue(container, target types.AttributeValue) bool {
	switch c := container.(type) {
	case *types.AttributeValueMemberS:
		t, ok := target.(*types.AttributeValueMemberS)
		return ok && strings.Contains(c.Value, t.Value)
	case *types.AttributeValueMemberL:
		for _, elem := range c.Value {
			if valuecmp.Equal(elem, target) {
				return true
			}
		}
		return false
	case *types.AttributeValueMemberSS:
		t, ok := target.(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		for _, s := range c.Value {
			if s == t.Value {
				return true
			}
		}
		return false
	case *types.AttributeValueMemberNS:
		t, ok := target.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		for _, n := range c.Value {
			if n == t.Value {
				return true
			}
		}
		return false
	case *types.AttributeValueMemberBS:
		t, ok := target.(*types.AttributeValueMemberB)
		if !ok {
			return false
		}
		for _, b := range c.Value {
			if string(b) == string(t.Value) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (p *parser) parseAttributeTypeClause() (bool, error) {
	p.advance()
	if err := p.expect(TokenLParen, "("); err != nil {
		return false, err
	}
	path, err := p.parsePath()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenComma, ","); err != nil {
		return false, err
	}
	typeVal, missing, err := p.parseValue()
	if err != nil {
		return false, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return false, err
	}
	if missing {
		return false, notSupported("attribute_type value could not be resolved")
	}
	ts, ok := typeVal.(*types.AttributeValueMemberS)
	if !ok {
		return false, notSupported("attribute_type requires a string type tag")
	}
	switch ts.Value {
	case "S", "N", "B", "BOOL", "NULL", "L", "M", "SS", "NS", "BS":
	default:
		return false, notSupported("unsupported attribute_type tag: " + ts.Value)
	}

	actual, found := path.Resolve(p.item)
	if !found {
		return false, nil
	}
	return valuecmp.TypeName(actual) == ts.Value, nil
}

func (p *parser) parseComparisonClause() (bool, error) {
	left, leftMissing, err := p.parseValue()
	if err != nil {
		return false, err
	}

	if p.identIs("BETWEEN") {
		p.advance()
		lo, loMissing, err := p.parseValue()
		if err != nil {
			return false, err
		}
		if !p.identIs("AND") {
			return false, notSupported("expected AND in BETWEEN clause")
		}
		p.advance()
		hi, hiMissing, err := p.parseValue()
		if err != nil {
			return false, err
		}
		if leftMissing || loMissing || hiMissing {
			return false, nil
		}
		loCmp, ok1 := valuecmp.Compare(left, lo)
		hiCmp, ok2 := valuecmp.Compare(left, hi)
		if !ok1 || !ok2 {
			return false, notSupported("BETWEEN operands are not comparable")
		}
		return loCmp >= 0 && hiCmp <= 0, nil
	}

	opTok := p.cur.Type
	switch opTok {
	case TokenEq, TokenNe, TokenLe, TokenLt, TokenGe, TokenGt:
		p.advance()
	default:
		return false, notSupported("expected a comparison operator, BETWEEN or a boolean function, got " + p.cur.Value)
	}

	right, rightMissing, err := p.parseValue()
	if err != nil {
		return false, err
	}
	if leftMissing || rightMissing {
		return false, nil
	}

	if opTok == TokenEq {
		return valuecmp.Equal(left, right), nil
	}
	if opTok == TokenNe {
		return !valuecmp.Equal(left, right), nil
	}

	cmp, ok := valuecmp.Compare(left, right)
	if !ok {
		return false, notSupported("Incorrect operand type for operator or function; operand type: " + valuecmp.TypeName(left))
	}
	switch opTok {
	case TokenLt:
		return cmp < 0, nil
	case TokenLe:
		return cmp <= 0, nil
	case TokenGt:
		return cmp > 0, nil
	case TokenGe:
		return cmp >= 0, nil
	default:
		return false, notSupported("unsupported comparison operator")
	}
}
