// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package searchquery parses a Gmail-style search language and compiles it
// either to OpenSearch query DSL or to a SQL WHERE clause. Terms joined by
// whitespace AND together; the literal token OR introduces disjunction;
// parentheses group.
package searchquery

import "strings"

// Node is one node of a parsed query tree
type Node interface {
	isNode()
}

// Text is a bare word matched against the name column or via full-text search
type Text string

// Term is a field:value match. Value may carry a leading range operator
// (>=, <=, >, <) or be the literal "unset".
type Term struct {
	Field string
	Value string
}

// Bool combines child nodes with AND or OR
type Bool struct {
	Op       string // "AND" or "OR"
	Children []Node
}

func (Text) isNode() {}
func (Term) isNode() {}
func (Bool) isNode() {}

// Parse turns a query string into a tree. Parse never fails: malformed input
// degrades to a smaller tree or nil so list endpoints stay usable.
func Parse(query string) Node {
	tokens := tokenize(query)
	node, _ := parseExpression(tokens, 0)
	return node
}

// tokenize splits on whitespace while keeping quoted strings intact and
// treating parentheses as standalone tokens.
func tokenize(query string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range query {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
			cur.WriteRune(r)
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseExpression consumes tokens from pos until end of input or an
// unmatched ')'. Returns the tree and the position after the consumed input.
func parseExpression(tokens []string, pos int) (Node, int) {
	// groups are the OR operands; each group is an implicit conjunction
	var groups [][]Node
	current := []Node{}

	for pos < len(tokens) {
		tok := tokens[pos]
		switch tok {
		case ")":
			pos++
			goto done
		case "(":
			sub, next := parseExpression(tokens, pos+1)
			pos = next
			if sub != nil {
				current = append(current, sub)
			}
		case "OR":
			groups = append(groups, current)
			current = []Node{}
			pos++
		default:
			current = append(current, parseTerm(tok))
			pos++
		}
	}

done:
	groups = append(groups, current)

	operands := make([]Node, 0, len(groups))
	for _, g := range groups {
		switch len(g) {
		case 0:
			// empty OR operand, e.g. "a:1 OR"; drop it
		case 1:
			operands = append(operands, g[0])
		default:
			operands = append(operands, Bool{Op: "AND", Children: g})
		}
	}

	switch len(operands) {
	case 0:
		return nil, pos
	case 1:
		return operands[0], pos
	default:
		return Bool{Op: "OR", Children: operands}, pos
	}
}

func parseTerm(token string) Node {
	field, value, found := strings.Cut(token, ":")
	if !found || field == "" {
		return Text(token)
	}
	return Term{Field: field, Value: value}
}

// rangeOp splits a leading comparison operator off a term value. The two-rune
// operators are checked first.
func rangeOp(value string) (op, rest string) {
	for _, candidate := range []string{">=", "<=", ">", "<"} {
		if strings.HasPrefix(value, candidate) {
			return candidate, value[len(candidate):]
		}
	}
	return "", value
}
