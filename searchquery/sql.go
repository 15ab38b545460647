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
	"regexp"
	"strconv"
	"strings"

	"github.com/aiqa-platform/evaluation-service/utils"
)

var validColumn = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CompileToSQL compiles a parsed tree to a fragment suitable for placement
// after WHERE. Column names are validated against an identifier pattern;
// values are quoted with single quotes doubled. An empty tree compiles to the
// sentinel "1=1".
func CompileToSQL(node Node) (string, error) {
	if node == nil {
		return "1=1", nil
	}

	switch n := node.(type) {
	case Text:
		return "name ILIKE " + quoteSQL("%"+string(n)+"%"), nil
	case Term:
		return compileTermSQL(n)
	case Bool:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			part, err := CompileToSQL(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		if len(parts) == 0 {
			return "1=1", nil
		}
		return "(" + strings.Join(parts, " "+n.Op+" ") + ")", nil
	default:
		return "1=1", nil
	}
}

func compileTermSQL(t Term) (string, error) {
	if !validColumn.MatchString(t.Field) {
		return "", utils.ErrInvalidColumn
	}

	if t.Value == "unset" {
		return t.Field + " IS NULL", nil
	}

	if op, rest := rangeOp(t.Value); op != "" {
		return t.Field + " " + op + " " + literalSQL(rest), nil
	}

	// Array membership on organizations
	if t.Field == "members" {
		return quoteSQL(t.Value) + " = ANY(members)", nil
	}

	return t.Field + " = " + literalSQL(t.Value), nil
}

// literalSQL renders numbers bare and everything else quoted
func literalSQL(value string) string {
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value
	}
	return quoteSQL(value)
}

func quoteSQL(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
