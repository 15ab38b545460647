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

// Package sandbox executes user-supplied javascript metric code. The sandbox
// is advisory, not a security boundary: host and network access points are
// shadowed out of the script's scope and a hard wall-clock interrupt bounds
// runaway scripts, but the code still runs in-process. Do not expose it to
// untrusted principals.
package sandbox

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dop251/goja"
)

// ErrTimeout is returned when a script exceeds the wall-clock budget
var ErrTimeout = errors.New("Script execution timed out")

// identifiers hidden from metric code by shadowing them in the wrapper
// function's scope
const shadowedIdentifiers = "global, globalThis, require, process, eval, Function, " +
	"setTimeout, setInterval, clearTimeout, clearInterval, " +
	"fetch, XMLHttpRequest, File, WebSocket, ArrayBuffer"

// Runner executes metric scripts with a fixed timeout
type Runner struct {
	timeout time.Duration
}

// New builds a runner with the given per-script wall-clock budget
func New(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Score runs a metric body against an output and its example and coerces the
// result to a finite number. The body executes as an async function receiving
// (output, example); a plain return value and a resolved promise are treated
// alike.
func (r *Runner) Score(code string, output, example interface{}) (float64, error) {
	vm := goja.New()

	timer := time.AfterFunc(r.timeout, func() {
		vm.Interrupt(ErrTimeout.Error())
	})
	defer timer.Stop()

	wrapped := "(async function(output, example) {\n" +
		"var " + shadowedIdentifiers + ";\n" +
		code + "\n})"

	fnValue, err := vm.RunString(wrapped)
	if err != nil {
		return 0, fmt.Errorf("metric code does not compile: %w", err)
	}
	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return 0, errors.New("metric code does not compile to a function")
	}

	result, err := fn(goja.Undefined(), vm.ToValue(output), vm.ToValue(example))
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return 0, ErrTimeout
		}
		return 0, fmt.Errorf("metric code threw: %w", err)
	}

	if promise, ok := result.Export().(*goja.Promise); ok {
		switch promise.State() {
		case goja.PromiseStateFulfilled:
			result = promise.Result()
		case goja.PromiseStateRejected:
			return 0, fmt.Errorf("metric code rejected: %s", promise.Result().String())
		default:
			// nothing in the sandbox can resolve it later
			return 0, errors.New("metric code returned a pending promise")
		}
	}

	score := result.ToFloat()
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("metric returned a non-finite result %q", result.String())
	}
	return score, nil
}
