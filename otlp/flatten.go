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
	"strconv"

	"github.com/aiqa-platform/evaluation-service/models"
)

// usage attribute names, in lookup priority order
var (
	inputTokenKeys  = []string{"gen_ai.usage.input_tokens", "gen_ai.usage.prompt_tokens"}
	outputTokenKeys = []string{"gen_ai.usage.output_tokens", "gen_ai.usage.completion_tokens"}
	cachedTokenKeys = []string{"gen_ai.usage.cache_read_input_tokens", "gen_ai.usage.cached_input_tokens"}
	totalTokenKeys  = []string{"gen_ai.usage.total_tokens"}
	costKeys        = []string{"gen_ai.usage.cost", "llm.usage.total_cost"}
)

// Flatten walks ResourceSpans x ScopeSpans x Span in document order and
// materialises span documents for one organization. Resource attributes merge
// into each span's attributes with the span's own keys winning; timestamps
// and attributes are normalised per the flattened-index rules.
func Flatten(req *ExportRequest, orgID string, unindexedThreshold int) []*models.Span {
	var spans []*models.Span
	for _, rs := range req.ResourceSpans {
		var resourceAttrs map[string]interface{}
		if rs.Resource != nil {
			resourceAttrs = decodeKeyValues(rs.Resource.Attributes)
		}
		for _, ss := range rs.ScopeSpans {
			for i := range ss.Spans {
				spans = append(spans, materialise(&ss.Spans[i], resourceAttrs, orgID, unindexedThreshold))
			}
		}
	}
	return spans
}

func materialise(raw *RawSpan, resourceAttrs map[string]interface{}, orgID string, unindexedThreshold int) *models.Span {
	attrs := make(map[string]interface{}, len(resourceAttrs)+len(raw.Attributes))
	for k, v := range resourceAttrs {
		attrs[k] = v
	}
	for _, kv := range raw.Attributes {
		attrs[kv.Key] = kv.Value.Decode()
	}

	span := &models.Span{
		ID:           firstNonEmpty(raw.SpanID, raw.ID),
		TraceID:      firstNonEmpty(raw.TraceID, raw.Trace),
		ParentID:     firstNonEmpty(raw.ParentSpanID, raw.Parent),
		Organization: orgID,
		Name:         raw.Name,
		Kind:         raw.Kind,
	}
	if raw.Status != nil {
		span.Status = &models.SpanStatus{Code: raw.Status.Code, Message: raw.Status.Message}
	}

	if start := ToMillis(coalesce(raw.StartTimeUnixNano, raw.Start)); start != nil {
		span.Start = *start
	}
	if end := ToMillis(coalesce(raw.EndTimeUnixNano, raw.End)); end != nil {
		span.End = *end
	}
	if span.Start != 0 && span.End != 0 {
		span.Duration = span.End - span.Start
	}

	extractUsage(span, attrs)
	span.Attributes, span.UnindexedAttributes = NormalizeAttributes(attrs, unindexedThreshold)
	return span
}

func extractUsage(span *models.Span, attrs map[string]interface{}) {
	span.InputTokens = usageValue(attrs, inputTokenKeys)
	span.OutputTokens = usageValue(attrs, outputTokenKeys)
	span.CachedInputTokens = usageValue(attrs, cachedTokenKeys)
	span.CostUSD = usageValue(attrs, costKeys)

	span.TotalTokens = usageValue(attrs, totalTokenKeys)
	if span.TotalTokens == 0 {
		span.TotalTokens = span.InputTokens + span.OutputTokens
	}
}

func usageValue(attrs map[string]interface{}, keys []string) float64 {
	for _, key := range keys {
		if raw, ok := attrs[key]; ok {
			if n, ok := numericValue(raw); ok {
				return n
			}
		}
	}
	return 0
}

func numericValue(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalesce(values ...interface{}) interface{} {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
