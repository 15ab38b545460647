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

package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringArray maps a Go string slice onto a Postgres text[] column. pgx exposes
// arrays through its own codec layer which GORM's scanner does not reach, so the
// text-literal form is handled here.
type StringArray []string

// Value implements driver.Valuer, encoding as a Postgres array literal
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	elems := make([]string, len(a))
	for i, s := range a {
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		elems[i] = `"` + escaped + `"`
	}
	return "{" + strings.Join(elems, ",") + "}", nil
}

// Scan implements sql.Scanner for text[] values returned by the driver
func (a *StringArray) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		return a.scanLiteral(v)
	case []byte:
		return a.scanLiteral(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", src)
	}
}

func (a *StringArray) scanLiteral(lit string) error {
	lit = strings.TrimSpace(lit)
	if len(lit) < 2 || lit[0] != '{' || lit[len(lit)-1] != '}' {
		return fmt.Errorf("malformed array literal %q", lit)
	}
	body := lit[1 : len(lit)-1]
	if body == "" {
		*a = StringArray{}
		return nil
	}

	var out []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range body {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	*a = out
	return nil
}

// GormDataType tells GORM the column type for migrations
func (StringArray) GormDataType() string {
	return "text[]"
}
