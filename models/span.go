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
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SpanStatus mirrors the OTLP status message
type SpanStatus struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Span is the search-engine document for one ingested span. Timestamps are
// epoch milliseconds.
type Span struct {
	ID           string `json:"id"`
	TraceID      string `json:"trace"`
	ParentID     string `json:"parent,omitempty"`
	Organization string `json:"organization"`
	Name         string `json:"name,omitempty"`
	Kind         int    `json:"kind,omitempty"`

	Status *SpanStatus `json:"status,omitempty"`

	Start    int64 `json:"start,omitempty"`
	End      int64 `json:"end,omitempty"`
	Duration int64 `json:"duration,omitempty"`

	Attributes          map[string]interface{} `json:"attributes,omitempty"`
	UnindexedAttributes map[string]interface{} `json:"unindexed_attributes,omitempty"`

	// Usage counters; on non-leaf spans these hold roll-ups of descendants
	InputTokens       float64 `json:"input_tokens,omitempty"`
	OutputTokens      float64 `json:"output_tokens,omitempty"`
	CachedInputTokens float64 `json:"cached_input_tokens,omitempty"`
	TotalTokens       float64 `json:"total_tokens,omitempty"`
	CostUSD           float64 `json:"cost,omitempty"`

	// Seen holds content hashes of the descendant spans already folded into
	// the roll-up counters, so re-delivery never double-counts
	Seen []string `json:"_seen,omitempty"`

	// Experiment and Example link a span produced by an experiment run back
	// to its source
	Experiment string `json:"experiment,omitempty"`
	Example    string `json:"example,omitempty"`
}

// HasUsage reports whether the span carries any usage counters worth rolling up
func (s *Span) HasUsage() bool {
	return s.InputTokens != 0 || s.OutputTokens != 0 || s.CachedInputTokens != 0 ||
		s.TotalTokens != 0 || s.CostUSD != 0
}

// ContentHash returns a stable hash of the span identity and its usage
// counters. Parents record these in _seen; a re-delivered span produces the
// same hash and is skipped.
func (s *Span) ContentHash() string {
	d := xxhash.New()
	_, _ = d.WriteString(s.ID)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(s.TraceID)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(formatCounter(s.InputTokens))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(formatCounter(s.OutputTokens))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(formatCounter(s.CachedInputTokens))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(formatCounter(s.TotalTokens))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(formatCounter(s.CostUSD))
	return fmt.Sprintf("%016x", d.Sum64())
}

func formatCounter(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
