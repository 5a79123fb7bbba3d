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

// parser is the shared recursive-descent state used by the key
// condition, condition/filter and update expression parsers. It is
// always single-use: construct one per expression string.
type parser struct {
	lex    *Lexer
	cur    Token
	names  NameMap
	values ValueMap
	item   map[string]types.AttributeValue
}

func newParser(input string, names NameMap, values ValueMap, item map[string]types.AttributeValue) *parser {
	p := &parser{lex: newLexer(input), names: names, values: values, item: item}
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur = p.lex.NextToken()
}

// expect advances past the current token if it matches t, otherwise
// returns a NotSupportedError describing the mismatch.
func (p *parser) expect(t TokenType, what string) error {
	if p.cur.Type != t {
		return notSupported("expected " + what)
	}
	p.advance()
	return nil
}

// identIs reports whether the current token is an identifier whose
// upper-cased value equals kw (keyword matching is case-insensitive
// throughout the expression language).
func (p *parser) identIs(kw string) bool {
	return p.cur.Type == TokenIdent && upper(p.cur.Value) == kw
}

func (p *parser) atEOF() bool {
	return p.cur.Type == TokenEOF
}
