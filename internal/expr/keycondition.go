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
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/rankmap"
	"gridstore/internal/valuecmp"
)

// RangeOp identifies which form of the optional range clause a key
// condition carries.
type RangeOp int

const (
	RangeEq RangeOp = iota
	RangeLt
	RangeLe
	RangeGt
	RangeGe
	RangeBeginsWith
	RangeBetween
)

// RangeCondition is the optional second clause of a key condition.
type RangeCondition struct {
	Attr  string
	Op    RangeOp
	Value types.AttributeValue
	// Upper is only set for RangeBetween.
	Upper types.AttributeValue
}

// KeyCondition is the parsed result of a key-condition expression
// (§4.4): a mandatory partition clause plus an optional range clause.
type KeyCondition struct {
	HashAttr  string
	HashValue types.AttributeValue
	Range     *RangeCondition
}

// ParseKeyCondition parses a KeyConditionExpression string. Matching
// is case-insensitive on keywords; any grammar miss is reported as a
// NotSupportedError, which the operation surface rewrites into a
// validation error.
func ParseKeyCondition(expression string, names NameMap, values ValueMap) (*KeyCondition, error) {
	p := newParser(expression, names, values, nil)

	hashAttr, err := p.parseAttrName()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEq {
		return nil, notSupported("key condition must start with {hash attribute} = {value}")
	}
	p.advance()
	hashValue, missing, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if missing {
		return nil, notSupported("key condition hash value could not be resolved")
	}

	kc := &KeyCondition{HashAttr: hashAttr, HashValue: hashValue}

	if p.atEOF() {
		return kc, nil
	}
	if !p.identIs("AND") {
		return nil, notSupported("expected AND after the partition key condition")
	}
	p.advance()

	rc, err := p.parseRangeClause()
	if err != nil {
		return nil, err
	}
	kc.Range = rc

	if !p.atEOF() {
		return nil, notSupported("unexpected trailing content in key condition expression")
	}
	return kc, nil
}

func (p *parser) parseAttrName() (string, error) {
	switch p.cur.Type {
	case TokenNamePlaceholder:
		name, err := p.names.resolve(p.cur.Value)
		if err != nil {
			return "", err
		}
		p.advance()
		return name, nil
	case TokenIdent:
		name := p.cur.Value
		p.advance()
		return name, nil
	default:
		return "", notSupported("expected an attribute name")
	}
}

func (p *parser) parseRangeClause() (*RangeCondition, error) {
	if p.identIs("BEGINS_WITH") {
		p.advance()
		if err := p.expect(TokenLParen, "("); err != nil {
			return nil, err
		}
		attr, err := p.parseAttrName()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenComma, ","); err != nil {
			return nil, err
		}
		if p.cur.Type != TokenString && p.cur.Type != TokenValuePlaceholder {
			return nil, notSupported("begins_with requires a string value")
		}
		val, missing, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if missing {
			return nil, notSupported("begins_with value could not be resolved")
		}
		if _, ok := val.(*types.AttributeValueMemberS); !ok {
			return nil, notSupported("begins_with requires a string right-hand side")
		}
		if err := p.expect(TokenRParen, ")"); err != nil {
			return nil, err
		}
		return &RangeCondition{Attr: attr, Op: RangeBeginsWith, Value: val}, nil
	}

	attr, err := p.parseAttrName()
	if err != nil {
		return nil, err
	}

	if p.identIs("BETWEEN") {
		p.advance()
		lo, missing, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if missing {
			return nil, notSupported("BETWEEN lower bound could not be resolved")
		}
		if !p.identIs("AND") {
			return nil, notSupported("expected AND in BETWEEN clause")
		}
		p.advance()
		hi, missing, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if missing {
			return nil, notSupported("BETWEEN upper bound could not be resolved")
		}
		return &RangeCondition{Attr: attr, Op: RangeBetween, Value: lo, Upper: hi}, nil
	}

	var op RangeOp
	switch p.cur.Type {
	case TokenEq:
		op = RangeEq
	case TokenLt:
		op = RangeLt
	case TokenLe:
		op = RangeLe
	case TokenGt:
		op = RangeGt
	case TokenGe:
		op = RangeGe
	default:
		return nil, notSupported("unsupported key condition operator: " + p.cur.Value)
	}
	p.advance()
	val, missing, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if missing {
		return nil, notSupported("key condition range value could not be resolved")
	}
	return &RangeCondition{Attr: attr, Op: op, Value: val}, nil
}

// highSentinel is appended after NUL to produce an exclusive-from-above
// bound that sorts after every real item key sharing the same range
// value prefix — the ￿ token from §4.4's bounds table.
const highSentinel = "￿"

// Bounds maps a parsed range condition to the rankmap bounds that
// select the matching slice of an index partition's entry keys, per
// the table in §4.4. A nil rc means no range restriction at all.
func Bounds(rc *RangeCondition) (lower, upper *rankmap.Bound, err error) {
	if rc == nil {
		return nil, nil, nil
	}

	switch rc.Op {
	case RangeEq:
		v, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return &rankmap.Bound{Key: v + "\x00", Inclusive: true},
			&rankmap.Bound{Key: v + "\x00" + highSentinel, Inclusive: true}, nil

	case RangeBeginsWith:
		v, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return &rankmap.Bound{Key: v + "\x00", Inclusive: true},
			&rankmap.Bound{Key: v + highSentinel + "\x00", Inclusive: true}, nil

	case RangeBetween:
		lo, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		hi, ok := valuecmp.CoerceString(rc.Upper)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return &rankmap.Bound{Key: lo + "\x00", Inclusive: true},
			&rankmap.Bound{Key: hi + "\x00" + highSentinel, Inclusive: true}, nil

	case RangeGt:
		v, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return &rankmap.Bound{Key: v + "\x00" + highSentinel, Inclusive: false}, nil, nil

	case RangeGe:
		v, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return &rankmap.Bound{Key: v + "\x00", Inclusive: true}, nil, nil

	case RangeLt:
		v, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return nil, &rankmap.Bound{Key: v + "\x00", Inclusive: false}, nil

	case RangeLe:
		v, ok := valuecmp.CoerceString(rc.Value)
		if !ok {
			return nil, nil, notSupported("unsupported range value type for key condition")
		}
		return nil, &rankmap.Bound{Key: v + "\x00" + highSentinel, Inclusive: true}, nil

	default:
		return nil, nil, notSupported("unsupported key condition range operator")
	}
}
