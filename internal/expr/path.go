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
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Segment is one step of a document path: either a named attribute
// (a map key) or a list index.
type Segment struct {
	Attr    string
	IsIndex bool
	Index   int
}

// Path is a parsed document path: attribute(name) | index(n),
// composed left to right.
type Path []Segment

// String renders the path the way it would appear in a validation
// message, e.g. "a.b[2].c".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg.Attr)
	}
	return b.String()
}

// parsePath consumes a document path starting at the current token:
// an identifier or name placeholder, optionally resolved through
// names, followed by zero or more ".attr" or "[N]" segments.
func (p *parser) parsePath() (Path, error) {
	seg, err := p.parsePathHead()
	if err != nil {
		return nil, err
	}
	return p.continuePath(Path{seg})
}

// continuePath consumes any trailing ".attr" or "[N]" segments after
// a path head that has already been parsed and/or synthesized by the
// caller (see the size()/true/false/null disambiguation in value.go).
func (p *parser) continuePath(path Path) (Path, error) {
	for {
		switch p.cur.Type {
		case TokenDot:
			p.advance()
			seg, err := p.parsePathHead()
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
		case TokenLBracket:
			p.advance()
			if p.cur.Type != TokenNumber {
				return nil, notSupported("expected a list index inside []")
			}
			n, err := strconv.Atoi(p.cur.Value)
			if err != nil || n < 0 {
				return nil, notSupported("invalid list index: " + p.cur.Value)
			}
			p.advance()
			if p.cur.Type != TokenRBracket {
				return nil, notSupported("unterminated list index, expected ]")
			}
			p.advance()
			path = append(path, Segment{IsIndex: true, Index: n})
		default:
			return path, nil
		}
	}
}

func (p *parser) parsePathHead() (Segment, error) {
	switch p.cur.Type {
	case TokenNamePlaceholder:
		name, err := p.names.resolve(p.cur.Value)
		if err != nil {
			return Segment{}, err
		}
		p.advance()
		return Segment{Attr: name}, nil
	case TokenIdent:
		attr := p.cur.Value
		p.advance()
		return Segment{Attr: attr}, nil
	default:
		return Segment{}, notSupported("expected an attribute name or path, got " + p.cur.Value)
	}
}

// Resolve walks item along p, returning the value found and true, or
// (nil, false) if any step is missing — the MISSING sentinel of §4.1,
// represented here as the absence of a result rather than a distinct
// value, since types.AttributeValue is a closed union we cannot add
// a new variant to from outside its defining package.
func (p Path) Resolve(item map[string]types.AttributeValue) (types.AttributeValue, bool) {
	if len(p) == 0 {
		return nil, false
	}
	current, ok := item[p[0].Attr]
	if !ok {
		return nil, false
	}
	for _, seg := range p[1:] {
		if seg.IsIndex {
			list, ok := current.(*types.AttributeValueMemberL)
			if !ok || seg.Index < 0 || seg.Index >= len(list.Value) {
				return nil, false
			}
			current = list.Value[seg.Index]
			continue
		}
		m, ok := current.(*types.AttributeValueMemberM)
		if !ok {
			return nil, false
		}
		current, ok = m.Value[seg.Attr]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetAt implements set_at_path for a SET assignment (§4.4): the
// parent of the leaf must already exist. Returns a *NotSupportedError
// carrying the exact invalid-document-path message when an
// intermediate step is missing.
func SetAt(item map[string]types.AttributeValue, path Path, value types.AttributeValue) error {
	if len(path) == 0 {
		return notSupported("empty update path")
	}
	if len(path) == 1 {
		item[path[0].Attr] = value
		return nil
	}

	parent, err := resolveParent(item, path)
	if err != nil {
		return err
	}

	leaf := path[len(path)-1]
	switch p := parent.(type) {
	case *types.AttributeValueMemberM:
		p.Value[leaf.Attr] = value
		return nil
	case *types.AttributeValueMemberL:
		switch {
		case leaf.Index < len(p.Value):
			p.Value[leaf.Index] = value
		case leaf.Index == len(p.Value):
			p.Value = append(p.Value, value)
		default:
			return invalidDocumentPath()
		}
		return nil
	default:
		return invalidDocumentPath()
	}
}

// RemoveAt implements the leaf action for a REMOVE path (§4.4):
// missing intermediate steps are silently tolerated, list removal
// splices by index, map removal deletes the entry.
func RemoveAt(item map[string]types.AttributeValue, path Path) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		delete(item, path[0].Attr)
		return
	}

	parent, err := resolveParent(item, path)
	if err != nil {
		return
	}

	leaf := path[len(path)-1]
	switch p := parent.(type) {
	case *types.AttributeValueMemberM:
		delete(p.Value, leaf.Attr)
	case *types.AttributeValueMemberL:
		if leaf.Index >= 0 && leaf.Index < len(p.Value) {
			p.Value = append(p.Value[:leaf.Index], p.Value[leaf.Index+1:]...)
		}
	}
}

// resolveParent walks every segment but the last, returning an error
// only when an intermediate step is missing — the parent container
// for the final segment itself may be a list or a map and is left
// for the caller to type-switch on.
func resolveParent(item map[string]types.AttributeValue, path Path) (types.AttributeValue, error) {
	current, ok := item[path[0].Attr]
	if !ok {
		return nil, invalidDocumentPath()
	}
	for _, seg := range path[1 : len(path)-1] {
		if seg.IsIndex {
			list, ok := current.(*types.AttributeValueMemberL)
			if !ok || seg.Index < 0 || seg.Index >= len(list.Value) {
				return nil, invalidDocumentPath()
			}
			current = list.Value[seg.Index]
			continue
		}
		m, ok := current.(*types.AttributeValueMemberM)
		if !ok {
			return nil, invalidDocumentPath()
		}
		current, ok = m.Value[seg.Attr]
		if !ok {
			return nil, invalidDocumentPath()
		}
	}
	return current, nil
}

func invalidDocumentPath() error {
	return notSupported("The document path provided in the update expression is invalid for update")
}
