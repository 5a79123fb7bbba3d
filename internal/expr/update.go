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
Update expression parsing and application (§4.4). Every RHS value,
including if_not_exists fallbacks, arithmetic operands and
list_append operands, is computed against a snapshot of the item taken
before any SET is applied, so that a single UpdateExpression's actions all see
the same "current item" regardless of the order they are written in —
mirroring how the hosted service's own update expressions behave.
*/
package expr

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gridstore/internal/valuecmp"
)

// SetAssignment is one parsed "path = rhs" clause of a SET body.
type SetAssignment struct {
	Path  Path
	Value types.AttributeValue
}

// Update is the parsed form of an UpdateExpression.
type Update struct {
	Sets    []SetAssignment
	Removes []Path
}

// ParseUpdate parses expression against a read-only snapshot of item,
// resolving every RHS value (including if_not_exists fallbacks,
// arithmetic operands and list_append operands) immediately.
func ParseUpdate(expression string, names NameMap, values ValueMap, item map[string]types.AttributeValue) (*Update, error) {
	snapshot := valuecmp.CloneItem(item)
	p := newParser(expression, names, values, snapshot)

	if p.atEOF() {
		return nil, notSupported("Invalid UpdateExpression: The expression can not be empty")
	}
	if !p.identIs("SET") && !p.identIs("REMOVE") {
		return nil, notSupported("Invalid UpdateExpression: Syntax error; token: \"" + p.cur.Value + "\"")
	}

	u := &Update{}
	sawSet, sawRemove := false, false
	for !p.atEOF() {
		switch {
		case p.identIs("SET"):
			if sawSet {
				return nil, notSupported("Invalid UpdateExpression: The \"SET\" section can only be used once in an update expression")
			}
			sawSet = true
			p.advance()
			sets, err := p.parseSetBody()
			if err != nil {
				return nil, err
			}
			u.Sets = sets
		case p.identIs("REMOVE"):
			if sawRemove {
				return nil, notSupported("Invalid UpdateExpression: The \"REMOVE\" section can only be used once in an update expression")
			}
			sawRemove = true
			p.advance()
			removes, err := p.parseRemoveBody()
			if err != nil {
				return nil, err
			}
			u.Removes = removes
		default:
			return nil, notSupported("Invalid UpdateExpression: Syntax error; token: \"" + p.cur.Value + "\"")
		}
	}
	return u, nil
}

func (p *parser) parseSetBody() ([]SetAssignment, error) {
	if p.atEOF() || p.identIs("REMOVE") {
		return nil, notSupported("Invalid UpdateExpression: Syntax error; token: \"<EOF>\", near: \"SET\"")
	}

	var assigns []SetAssignment
	for {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != TokenEq {
			return nil, notSupported("Invalid UpdateExpression: Syntax error; expected \"=\"")
		}
		p.advance()
		rhs, err := p.parseUpdateRHS()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, SetAssignment{Path: path, Value: rhs})

		if p.cur.Type == TokenComma {
			p.advance()
			continue
		}
		return assigns, nil
	}
}

func (p *parser) parseRemoveBody() ([]Path, error) {
	if p.atEOF() || p.identIs("SET") {
		return nil, notSupported("Invalid UpdateExpression: Syntax error; token: \"<EOF>\", near: \"REMOVE\"")
	}

	var paths []Path
	for {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)

		if p.cur.Type == TokenComma {
			p.advance()
			continue
		}
		return paths, nil
	}
}

// keyAttrError mirrors the hosted service's message for an attempt to
// modify the partition or sort key through SET/REMOVE.
func keyAttrError(attr string) error {
	return notSupported("Cannot update attribute " + attr + ". This attribute is part of the key")
}

// Apply applies u to item in place: every SET assignment first (in
// the order written), then every REMOVE. Modifying PK or SK is
// rejected unless the SET assignment is a no-op (assigning the
// attribute's current value back to itself, per §9's open-question
// resolution that the key is otherwise immutable).
func Apply(u *Update, item map[string]types.AttributeValue) error {
	for _, a := range u.Sets {
		top := a.Path[0].Attr
		if top == "PK" || top == "SK" {
			current, ok := item[top]
			if ok && valuecmp.Equal(current, a.Value) {
				continue
			}
			return keyAttrError(top)
		}
		if err := SetAt(item, a.Path, a.Value); err != nil {
			return err
		}
	}
	for _, path := range u.Removes {
		top := path[0].Attr
		if top == "PK" || top == "SK" {
			return keyAttrError(top)
		}
		RemoveAt(item, path)
	}
	return nil
}
