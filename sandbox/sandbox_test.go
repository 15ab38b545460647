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

package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner() *Runner {
	return New(5 * time.Second)
}

func TestScoreReturnsNumber(t *testing.T) {
	score, err := newRunner().Score("return 42;", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 42.0, score)
}

func TestScoreReceivesOutputAndExample(t *testing.T) {
	code := `
		if (output.answer === example.expected) { return 1; }
		return 0;
	`
	score, err := newRunner().Score(code,
		map[string]interface{}{"answer": "4"},
		map[string]interface{}{"expected": "4"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestScoreCoercesNumericString(t *testing.T) {
	score, err := newRunner().Score(`return "7";`, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, score)
}

func TestScoreAwaitedPromise(t *testing.T) {
	score, err := newRunner().Score("return await Promise.resolve(5);", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)
}

func TestScoreNonFiniteFails(t *testing.T) {
	_, err := newRunner().Score(`return "not a number";`, nil, nil)
	assert.ErrorContains(t, err, "non-finite")

	_, err = newRunner().Score("return 1/0;", nil, nil)
	assert.ErrorContains(t, err, "non-finite")
}

func TestScoreShadowedIdentifiers(t *testing.T) {
	for _, ident := range []string{"require", "process", "fetch", "XMLHttpRequest", "WebSocket", "setTimeout", "Function", "ArrayBuffer"} {
		score, err := newRunner().Score("return typeof "+ident+" === 'undefined' ? 1 : 0;", nil, nil)
		require.NoError(t, err, ident)
		assert.Equal(t, 1.0, score, ident)
	}
}

func TestScoreTimeout(t *testing.T) {
	_, err := New(100 * time.Millisecond).Score("while (true) {}", nil, nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestScoreThrownError(t *testing.T) {
	_, err := newRunner().Score(`throw new Error("boom");`, nil, nil)
	assert.ErrorContains(t, err, "threw")
}

func TestScoreSyntaxError(t *testing.T) {
	_, err := newRunner().Score("return ((((", nil, nil)
	assert.ErrorContains(t, err, "compile")
}
