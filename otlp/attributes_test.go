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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeParsesJSONStrings(t *testing.T) {
	indexed, unindexed := NormalizeAttributes(map[string]interface{}{
		"payload": `{"model":"gpt-4","n":2}`,
		"list":    `[1,2,3]`,
		"broken":  `{not json`,
	}, 0)

	assert.Nil(t, unindexed)
	assert.Equal(t, map[string]interface{}{"model": "gpt-4", "n": 2.0}, indexed["payload"])
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, indexed["list"])
	assert.Equal(t, `{not json`, indexed["broken"])
}

func TestNormalizeWrapsPrimitiveInputOutput(t *testing.T) {
	indexed, _ := NormalizeAttributes(map[string]interface{}{
		"input":       "what is 2+2?",
		"aiqa.output": 4.0,
		"other":       "left alone",
	}, 0)

	assert.Equal(t, map[string]interface{}{"value": "what is 2+2?"}, indexed["input"])
	assert.Equal(t, map[string]interface{}{"value": 4.0}, indexed["aiqa.output"])
	assert.Equal(t, "left alone", indexed["other"])
}

func TestNormalizeMovesOversizedValues(t *testing.T) {
	big := strings.Repeat("x", 100)
	indexed, unindexed := NormalizeAttributes(map[string]interface{}{
		"small": "ok",
		"large": big,
	}, 50)

	_, inIndexed := indexed["large"]
	assert.False(t, inIndexed)
	assert.Equal(t, big, unindexed["large"])
	assert.Equal(t, "ok", indexed["small"])
}

func TestMergeUnindexedPrecedenceAndUnwrap(t *testing.T) {
	merged := MergeUnindexed(
		map[string]interface{}{
			"input": map[string]interface{}{"value": "hello"},
			"both":  "indexed",
		},
		map[string]interface{}{
			"both":  "unindexed",
			"large": `{"k":1}`,
		},
	)

	assert.Equal(t, "hello", merged["input"])
	assert.Equal(t, "unindexed", merged["both"])
	assert.Equal(t, map[string]interface{}{"k": 1.0}, merged["large"])
}

func TestMergeUnindexedNil(t *testing.T) {
	assert.Nil(t, MergeUnindexed(nil, nil))
}

func TestUnwrapValueOnlySingleKeyValue(t *testing.T) {
	assert.Equal(t, "x", UnwrapValue(map[string]interface{}{"value": "x"}))
	twoKeys := map[string]interface{}{"value": "x", "other": 1}
	assert.Equal(t, twoKeys, UnwrapValue(twoKeys))
	require.Equal(t, "plain", UnwrapValue("plain"))
}

func TestNormalizeRoundTripThroughMerge(t *testing.T) {
	original := map[string]interface{}{
		"input":  "question",
		"output": `{"answer":42}`,
	}
	indexed, unindexed := NormalizeAttributes(original, 0)
	merged := MergeUnindexed(indexed, unindexed)

	assert.Equal(t, "question", merged["input"])
	assert.Equal(t, map[string]interface{}{"answer": 42.0}, merged["output"])
}
