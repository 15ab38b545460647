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
	"encoding/hex"
	"strconv"

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// FromProto converts a protobuf-decoded export request into the shared wire
// model. IDs are hex-encoded and int attribute values carried as decimal
// strings, matching the OTLP/JSON path field-for-field so the rest of the
// pipeline is transport-agnostic.
func FromProto(req *coltracepb.ExportTraceServiceRequest) *ExportRequest {
	out := &ExportRequest{}
	for _, rs := range req.GetResourceSpans() {
		converted := ResourceSpans{}
		if res := rs.GetResource(); res != nil {
			converted.Resource = &Resource{Attributes: convertKeyValues(res.GetAttributes())}
		}
		for _, ss := range rs.GetScopeSpans() {
			scope := ScopeSpans{}
			for _, span := range ss.GetSpans() {
				scope.Spans = append(scope.Spans, convertSpan(span))
			}
			converted.ScopeSpans = append(converted.ScopeSpans, scope)
		}
		out.ResourceSpans = append(out.ResourceSpans, converted)
	}
	return out
}

func convertSpan(span *tracepb.Span) RawSpan {
	raw := RawSpan{
		TraceID:      hex.EncodeToString(span.GetTraceId()),
		SpanID:       hex.EncodeToString(span.GetSpanId()),
		ParentSpanID: hex.EncodeToString(span.GetParentSpanId()),
		Name:         span.GetName(),
		Kind:         int(span.GetKind()),
		Attributes:   convertKeyValues(span.GetAttributes()),
	}
	if start := span.GetStartTimeUnixNano(); start != 0 {
		raw.StartTimeUnixNano = start
	}
	if end := span.GetEndTimeUnixNano(); end != 0 {
		raw.EndTimeUnixNano = end
	}
	if status := span.GetStatus(); status != nil {
		raw.Status = &RawStatus{Code: int(status.GetCode()), Message: status.GetMessage()}
	}
	return raw
}

func convertKeyValues(kvs []*commonpb.KeyValue) []KeyValue {
	out := make([]KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, KeyValue{Key: kv.GetKey(), Value: convertAnyValue(kv.GetValue())})
	}
	return out
}

func convertAnyValue(v *commonpb.AnyValue) AnyValue {
	if v == nil {
		return AnyValue{}
	}
	switch val := v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		s := val.StringValue
		return AnyValue{StringValue: &s}
	case *commonpb.AnyValue_BoolValue:
		b := val.BoolValue
		return AnyValue{BoolValue: &b}
	case *commonpb.AnyValue_IntValue:
		// decimal string, as in OTLP/JSON
		return AnyValue{IntValue: strconv.FormatInt(val.IntValue, 10)}
	case *commonpb.AnyValue_DoubleValue:
		d := val.DoubleValue
		return AnyValue{DoubleValue: &d}
	case *commonpb.AnyValue_ArrayValue:
		arr := &ArrayValue{}
		for _, item := range val.ArrayValue.GetValues() {
			arr.Values = append(arr.Values, convertAnyValue(item))
		}
		return AnyValue{ArrayValue: arr}
	case *commonpb.AnyValue_KvlistValue:
		kvl := &KvlistValue{Values: convertKeyValues(val.KvlistValue.GetValues())}
		return AnyValue{KvlistValue: kvl}
	default:
		return AnyValue{}
	}
}
