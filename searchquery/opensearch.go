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

package searchquery

import (
	"strconv"
	"time"
)

// dateFields get their range values parsed as ISO-8601 or epoch milliseconds
var dateFields = map[string]bool{
	"start":      true,
	"end":        true,
	"duration":   true,
	"@timestamp": true,
}

var rangeOpNames = map[string]string{
	">=": "gte",
	"<=": "lte",
	">":  "gt",
	"<":  "lt",
}

// CompileToDSL compiles a parsed tree to an OpenSearch query body. A nil tree
// compiles to match_all.
func CompileToDSL(node Node) map[string]interface{} {
	if node == nil {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	switch n := node.(type) {
	case Text:
		return map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":            string(n),
				"default_operator": "AND",
			},
		}
	case Term:
		return compileTermDSL(n)
	case Bool:
		children := make([]interface{}, 0, len(n.Children))
		for _, c := range n.Children {
			children = append(children, CompileToDSL(c))
		}
		if n.Op == "OR" {
			return map[string]interface{}{
				"bool": map[string]interface{}{
					"should":               children,
					"minimum_should_match": 1,
				},
			}
		}
		return map[string]interface{}{
			"bool": map[string]interface{}{"must": children},
		}
	default:
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}
}

func compileTermDSL(t Term) map[string]interface{} {
	if t.Value == "unset" {
		return map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": []interface{}{
					map[string]interface{}{
						"exists": map[string]interface{}{"field": t.Field},
					},
				},
			},
		}
	}

	if op, rest := rangeOp(t.Value); op != "" {
		return map[string]interface{}{
			"range": map[string]interface{}{
				t.Field: map[string]interface{}{
					rangeOpNames[op]: rangeValue(t.Field, rest),
				},
			},
		}
	}

	if num, err := strconv.ParseFloat(t.Value, 64); err == nil {
		return map[string]interface{}{
			"term": map[string]interface{}{t.Field: num},
		}
	}

	// String values: exact term, keyword sub-field term, and analysed match
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should": []interface{}{
				map[string]interface{}{"term": map[string]interface{}{t.Field: t.Value}},
				map[string]interface{}{"term": map[string]interface{}{t.Field + ".keyword": t.Value}},
				map[string]interface{}{"match": map[string]interface{}{t.Field: t.Value}},
			},
			"minimum_should_match": 1,
		},
	}
}

// rangeValue types a range bound: date fields accept ISO-8601 (converted to
// epoch ms) or a raw millisecond count; other fields fall back from number to
// string.
func rangeValue(field, raw string) interface{} {
	if dateFields[field] {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts.UnixMilli()
		}
	}
	if num, err := strconv.ParseFloat(raw, 64); err == nil {
		return num
	}
	return raw
}
