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
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/valuecmp"
)

// parseValue consumes one value token per §4.4: a number or string
// literal, true/false/null, a size(path) call, a value placeholder,
// or a document path evaluated against the parser's current item.
// missing reports whether the token resolved to an absent attribute
// (the MISSING sentinel) rather than an error.
func (p *parser) parseValue() (val types.AttributeValue, missing bool, err error) {
	switch p.cur.Type {
	case TokenNumber:
		lit := p.cur.Value
		p.advance()
		return &types.AttributeValueMemberN{Value: lit}, false, nil

	case TokenString:
		lit := p.cur.Value
		p.advance()
		return &types.AttributeValueMemberS{Value: lit}, false, nil

	case TokenValuePlaceholder:
		tok := p.cur.Value
		v, err := p.values.resolve(tok)
		if err != nil {
			return nil, false, err
		}
		p.advance()
		return v, false, nil

	case TokenNamePlaceholder:
		path, err := p.parsePath()
		if err != nil {
			return nil, false, err
		}
		v, ok := path.Resolve(p.item)
		return v, !ok, nil

	case TokenIdent:
		switch upper(p.cur.Value) {
		case "TRUE":
			p.advance()
			return &types.AttributeValueMemberBOOL{Value: true}, false, nil
		case "FALSE":
			p.advance()
			return &types.AttributeValueMemberBOOL{Value: false}, false, nil
		case "NULL":
			p.advance()
			return &types.AttributeValueMemberNULL{Value: true}, false, nil
		case "SIZE":
			return p.parseSizeCall()
		default:
			path, err := p.parsePath()
			if err != nil {
				return nil, false, err
			}
			v, ok := path.Resolve(p.item)
			return v, !ok, nil
		}

	default:
		return nil, false, notSupported("expected a value, attribute path or placeholder, got " + p.cur.Value)
	}
}

// parseSizeCall handles "size" only after confirming it is followed
// by "(" — otherwise "size" is itself a bare attribute name and the
// already-consumed token becomes the head of a document path.
func (p *parser) parseSizeCall() (types.AttributeValue, bool, error) {
	name := p.cur.Value
	p.advance()
	if p.cur.Type != TokenLParen {
		path, err := p.continuePath(Path{{Attr: name}})
		if err != nil {
			return nil, false, err
		}
		v, ok := path.Resolve(p.item)
		return v, !ok, nil
	}
	p.advance() // consume "("
	path, err := p.parsePath()
	if err != nil {
		return nil, false, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return nil, false, err
	}
	target, ok := path.Resolve(p.item)
	if !ok {
		return nil, true, nil
	}
	n, ok := valuecmp.Size(target)
	if !ok {
		return nil, false, notSupported("Invalid attribute type for size(): " + valuecmp.TypeName(target))
	}
	return &types.AttributeValueMemberN{Value: strconv.Itoa(n)}, false, nil
}

// parseRHSOperand parses one operand of a SET rhs: either of the two
// named pseudo-functions, or a plain value token.
func (p *parser) parseRHSOperand() (val types.AttributeValue, missing bool, err error) {
	if p.identIs("IF_NOT_EXISTS") {
		v, err := p.parseIfNotExists()
		return v, false, err
	}
	if p.identIs("LIST_APPEND") {
		v, err := p.parseListAppend()
		return v, false, err
	}
	return p.parseValue()
}

// parseUpdateRHS handles every SET rhs form: "a + b", "a - b",
// if_not_exists(path, rhs), list_append(rhs, rhs) and plain value
// tokens (including a bare size() call). The first operand may be any
// of these (see parseRHSOperand); the operand after a trailing "+" or
// "-" is a plain value token.
func (p *parser) parseUpdateRHS() (types.AttributeValue, error) {
	left, missing, err := p.parseRHSOperand()
	if err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case TokenPlus, TokenMinus:
		op := p.cur.Type
		p.advance()
		right, rMissing, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if missing || rMissing {
			return nil, notSupported("arithmetic operand is missing from the item")
		}
		return applyArithmetic(op, left, right)
	default:
		if missing {
			return nil, notSupported("The document path provided in the update expression is invalid for update")
		}
		return left, nil
	}
}

func applyArithmetic(op TokenType, left, right types.AttributeValue) (types.AttributeValue, error) {
	ln, lok := left.(*types.AttributeValueMemberN)
	rn, rok := right.(*types.AttributeValueMemberN)
	if !lok || !rok {
		return nil, notSupported("Incorrect operand type for operator or function; operator or function: " + arithOpName(op) + ", operand type: " + valuecmp.TypeName(pickNonNumber(left, right, lok)))
	}
	lf, err1 := strconv.ParseFloat(ln.Value, 64)
	rf, err2 := strconv.ParseFloat(rn.Value, 64)
	if err1 != nil || err2 != nil {
		return nil, notSupported("invalid numeric literal in arithmetic expression")
	}
	var result float64
	if op == TokenPlus {
		result = lf + rf
	} else {
		result = lf - rf
	}
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(result, 'f', -1, 64)}, nil
}

func arithOpName(op TokenType) string {
	if op == TokenPlus {
		return "+"
	}
	return "-"
}

func pickNonNumber(left, right types.AttributeValue, leftIsNumber bool) types.AttributeValue {
	if !leftIsNumber {
		return left
	}
	return right
}

func (p *parser) parseIfNotExists() (types.AttributeValue, error) {
	p.advance() // consume "if_not_exists"
	if err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenComma, ","); err != nil {
		return nil, err
	}
	fallback, err := p.parseUpdateRHS()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	if v, ok := path.Resolve(p.item); ok {
		return v, nil
	}
	return fallback, nil
}

func (p *parser) parseListAppend() (types.AttributeValue, error) {
	p.advance() // consume "list_append"
	if err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	left, err := p.parseUpdateRHS()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenComma, ","); err != nil {
		return nil, err
	}
	right, err := p.parseUpdateRHS()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	ll, lok := left.(*types.AttributeValueMemberL)
	rl, rok := right.(*types.AttributeValueMemberL)
	if !lok || !rok {
		return nil, notSupported("Incorrect operand type for operator or function; operator or function: list_append, operand type: " + valuecmp.TypeName(pickNonList(left, right, lok)))
	}
	combined := make([]types.AttributeValue, 0, len(ll.Value)+len(rl.Value))
	combined = append(combined, ll.Value...)
	combined = append(combined, rl.Value...)
	return &types.AttributeValueMemberL{Value: combined}, nil
}

func pickNonList(left, right types.AttributeValue, leftIsList bool) types.AttributeValue {
	if !leftIsList {
		return left
	}
	return right
}
