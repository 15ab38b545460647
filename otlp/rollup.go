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

import "github.com/aiqa-platform/evaluation-service/models"

// ApplyChildUsage folds a child's usage counters into its parent, guarded by
// the parent's _seen hash set. Returns true when the parent changed. Children
// without usage and already-seen children are no-ops, which makes re-delivery
// of the same batch idempotent.
func ApplyChildUsage(parent, child *models.Span) bool {
	if !child.HasUsage() {
		return false
	}
	hash := child.ContentHash()
	for _, seen := range parent.Seen {
		if seen == hash {
			return false
		}
	}
	parent.Seen = append(parent.Seen, hash)
	parent.InputTokens += child.InputTokens
	parent.OutputTokens += child.OutputTokens
	parent.CachedInputTokens += child.CachedInputTokens
	parent.TotalTokens += child.TotalTokens
	parent.CostUSD += child.CostUSD
	return true
}

// RollupBatch applies parent roll-ups for parents present in the batch and
// returns, keyed by parent span ID, the children whose parents must be read
// from the store and updated after insertion.
func RollupBatch(spans []*models.Span) map[string][]*models.Span {
	byID := make(map[string]*models.Span, len(spans))
	for _, s := range spans {
		byID[s.ID] = s
	}

	deferred := make(map[string][]*models.Span)
	for _, child := range spans {
		if child.ParentID == "" {
			continue
		}
		if parent, ok := byID[child.ParentID]; ok {
			ApplyChildUsage(parent, child)
			continue
		}
		if child.HasUsage() {
			deferred[child.ParentID] = append(deferred[child.ParentID], child)
		}
	}
	return deferred
}
