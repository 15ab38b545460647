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

package otlp

import (
	"encoding/json"
	"strings"
)

// attribute keys whose primitive values get wrapped so the flattened index
// never sees a bare scalar
var wrappedKeys = map[string]bool{
	"input":  true,
	"output": true,
}

// NormalizeAttributes prepares span attributes for a flattened index:
// JSON-looking strings are parsed, primitive input/output values are wrapped
// as {value: x}, and values whose serialised size exceeds thresholdBytes are
// moved to the returned unindexed map.
func NormalizeAttributes(attrs map[string]interface{}, thresholdBytes int) (indexed, unindexed map[string]interface{}) {
	if len(attrs) == 0 {
		return attrs, nil
	}

	indexed = make(map[string]interface{}, len(attrs))
	for key, value := range attrs {
		if s, ok := value.(string); ok && looksLikeJSON(s) {
			var parsed interface{}
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				value = parsed
			}
		}

		if wrappedKeys[shortKey(key)] {
			value = wrapPrimitive(value)
		}

		if thresholdBytes > 0 && serializedSize(value) > thresholdBytes {
			if unindexed == nil {
				unindexed = make(map[string]interface{})
			}
			unindexed[key] = value
			continue
		}
		indexed[key] = value
	}
	return indexed, unindexed
}

// MergeUnindexed folds unindexed attributes back into attributes on the read
// path, with unindexed values winning, and unwraps {value: x} wrappers.
func MergeUnindexed(attrs, unindexed map[string]interface{}) map[string]interface{} {
	if attrs == nil && unindexed == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(attrs)+len(unindexed))
	for k, v := range attrs {
		merged[k] = v
	}
	for k, v := range unindexed {
		merged[k] = v
	}
	for k, v := range merged {
		if s, ok := v.(string); ok && looksLikeJSON(s) {
			var parsed interface{}
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				v = parsed
			}
		}
		merged[k] = UnwrapValue(v)
	}
	return merged
}

// UnwrapValue undoes the {value: x} wrapping applied at ingest time
func UnwrapValue(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) != 1 {
		return v
	}
	if inner, ok := m["value"]; ok {
		return inner
	}
	return v
}

func wrapPrimitive(v interface{}) interface{} {
	switch v.(type) {
	case string, float64, int, int64, bool:
		return map[string]interface{}{"value": v}
	default:
		return v
	}
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func serializedSize(v interface{}) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}

// shortKey strips a namespacing prefix so both "input" and
// "aiqa.input"-style keys are recognised for wrapping.
func shortKey(key string) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
