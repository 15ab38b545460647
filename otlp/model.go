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

import "strconv"

// ExportRequest is the decoded shape of an OTLP ExportTraceServiceRequest.
// Field names follow the OTLP/JSON camelCase convention; the protobuf and
// gRPC paths convert into this same shape so all three transports share one
// pipeline. Spans additionally accept the short id/parent/start field names
// used by lightweight clients.
type ExportRequest struct {
	ResourceSpans []ResourceSpans `json:"resourceSpans"`
}

// ResourceSpans groups spans sharing one resource
type ResourceSpans struct {
	Resource   *Resource    `json:"resource,omitempty"`
	ScopeSpans []ScopeSpans `json:"scopeSpans"`
}

// Resource carries attributes describing the emitting process
type Resource struct {
	Attributes []KeyValue `json:"attributes,omitempty"`
}

// ScopeSpans groups spans emitted by one instrumentation scope
type ScopeSpans struct {
	Spans []RawSpan `json:"spans"`
}

// RawSpan is one span as received on the wire, before normalisation
type RawSpan struct {
	TraceID      string `json:"traceId"`
	SpanID       string `json:"spanId"`
	ParentSpanID string `json:"parentSpanId,omitempty"`

	// Short-form aliases; used when the canonical fields are empty
	Trace  string `json:"trace,omitempty"`
	ID     string `json:"id,omitempty"`
	Parent string `json:"parent,omitempty"`

	Name string `json:"name,omitempty"`
	Kind int    `json:"kind,omitempty"`

	// Timestamps are left untyped: nanosecond strings, numbers, ISO-8601
	// strings and HrTime tuples all occur in the wild
	StartTimeUnixNano interface{} `json:"startTimeUnixNano,omitempty"`
	EndTimeUnixNano   interface{} `json:"endTimeUnixNano,omitempty"`
	Start             interface{} `json:"start,omitempty"`
	End               interface{} `json:"end,omitempty"`

	Attributes []KeyValue `json:"attributes,omitempty"`
	Status     *RawStatus `json:"status,omitempty"`
}

// RawStatus is the OTLP span status with numeric code
type RawStatus struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// KeyValue is one OTLP attribute
type KeyValue struct {
	Key   string   `json:"key"`
	Value AnyValue `json:"value"`
}

// AnyValue is the OTLP tagged-union attribute value. In OTLP/JSON intValue
// arrives as a decimal string, so it is kept untyped here.
type AnyValue struct {
	StringValue *string     `json:"stringValue,omitempty"`
	BoolValue   *bool       `json:"boolValue,omitempty"`
	IntValue    interface{} `json:"intValue,omitempty"`
	DoubleValue *float64    `json:"doubleValue,omitempty"`
	ArrayValue  *ArrayValue `json:"arrayValue,omitempty"`
	KvlistValue *KvlistValue `json:"kvlistValue,omitempty"`
}

// ArrayValue is an OTLP attribute holding a list
type ArrayValue struct {
	Values []AnyValue `json:"values"`
}

// KvlistValue is an OTLP attribute holding a nested map
type KvlistValue struct {
	Values []KeyValue `json:"values"`
}

// Decode turns an AnyValue into a plain Go value
func (v AnyValue) Decode() interface{} {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.BoolValue != nil:
		return *v.BoolValue
	case v.IntValue != nil:
		return decodeIntValue(v.IntValue)
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.ArrayValue != nil:
		out := make([]interface{}, 0, len(v.ArrayValue.Values))
		for _, item := range v.ArrayValue.Values {
			out = append(out, item.Decode())
		}
		return out
	case v.KvlistValue != nil:
		return decodeKeyValues(v.KvlistValue.Values)
	default:
		return nil
	}
}

func decodeIntValue(raw interface{}) interface{} {
	switch n := raw.(type) {
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return float64(parsed)
		}
		return n
	case float64:
		return n
	default:
		return raw
	}
}

func decodeKeyValues(kvs []KeyValue) map[string]interface{} {
	out := make(map[string]interface{}, len(kvs))
	for _, kv := range kvs {
		out[kv.Key] = kv.Value.Decode()
	}
	return out
}
