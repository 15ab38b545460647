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

// Package otlp turns OTLP trace exports into span documents: it flattens
// resource/scope nesting, normalises timestamps and attributes, and computes
// parent usage roll-ups guarded by per-span content hashes.
package otlp

import (
	"math"
	"strconv"
	"time"
)

// nanosecond timestamps are distinguished from milliseconds by magnitude;
// anything at or above 1e12 is treated as nanoseconds
const nanoThreshold = 1e12

// ToMillis normalises a timestamp of any accepted shape to epoch
// milliseconds. Accepted shapes: ISO-8601 strings, numbers, numeric strings,
// and HrTime [seconds, nanos] two-element arrays. Returns nil for anything it
// cannot interpret. Zero and negative millisecond values pass through.
func ToMillis(value interface{}) *int64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return numberToMillis(v)
	case int64:
		return numberToMillis(float64(v))
	case int:
		return numberToMillis(float64(v))
	case uint64:
		return numberToMillis(float64(v))
	case string:
		if v == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return numberToMillis(n)
		}
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			ms := ts.UnixMilli()
			return &ms
		}
		return nil
	case []interface{}:
		return hrTimeToMillis(v)
	default:
		return nil
	}
}

func numberToMillis(n float64) *int64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	var ms int64
	if n >= nanoThreshold {
		ms = int64(n) / int64(time.Millisecond)
	} else {
		ms = int64(n)
	}
	return &ms
}

// hrTimeToMillis handles the [seconds, nanos] tuple some OTel SDKs emit
func hrTimeToMillis(tuple []interface{}) *int64 {
	if len(tuple) != 2 {
		return nil
	}
	secs, ok1 := asFloat(tuple[0])
	nanos, ok2 := asFloat(tuple[1])
	if !ok1 || !ok2 {
		return nil
	}
	ms := int64(secs)*1000 + int64(nanos)/int64(time.Millisecond)
	return &ms
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToISO renders epoch milliseconds as a millisecond-precision ISO-8601 string
func ToISO(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}
