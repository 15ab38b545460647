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

package search

import (
	"context"
	"encoding/json"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/otlp"
	"github.com/aiqa-platform/evaluation-service/searchquery"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// SearchOptions bound and shape a search
type SearchOptions struct {
	Limit         int
	Offset        int
	FieldIncludes []string
	FieldExcludes []string
	// SortField overrides the default sort; descending order always
	SortField string
}

// BulkInsertSpans writes a batch of spans keyed by span ID
func (c *Client) BulkInsertSpans(ctx context.Context, spans []*models.Span) error {
	ids := make([]string, len(spans))
	docs := make([]interface{}, len(spans))
	for i, s := range spans {
		ids[i] = s.ID
		docs[i] = s
	}
	return c.bulkInsert(ctx, c.cfg.SpanAlias, ids, docs)
}

// SearchSpans compiles the query, scopes it to one organization and returns
// matching spans sorted by start descending (unless overridden).
func (c *Client) SearchSpans(ctx context.Context, query, orgID string, opts SearchOptions) ([]*models.Span, int64, error) {
	if opts.SortField == "" {
		opts.SortField = "start"
	}
	body := scopedQuery(searchquery.CompileToDSL(searchquery.Parse(query)), orgID, "", opts)

	includes, excludes := coupleAttributeFilters(opts.FieldIncludes, opts.FieldExcludes)
	res, err := c.search(ctx, c.cfg.SpanAlias, body, includes, excludes)
	if err != nil {
		return nil, 0, err
	}

	spans := make([]*models.Span, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var span models.Span
		if err := json.Unmarshal(hit.Source, &span); err != nil {
			continue
		}
		mergeSpanAttributes(&span)
		spans = append(spans, &span)
	}
	return spans, res.Hits.Total.Value, nil
}

// GetSpan reads one span by ID, enforcing organization ownership
func (c *Client) GetSpan(ctx context.Context, id, orgID string) (*models.Span, error) {
	doc, err := c.getDocument(ctx, c.cfg.SpanAlias, id)
	if err != nil {
		return nil, err
	}
	if !doc.Found {
		return nil, utils.ErrSpanNotFound
	}

	var span models.Span
	if err := json.Unmarshal(doc.Source, &span); err != nil {
		return nil, err
	}
	if span.Organization != orgID {
		return nil, utils.ErrSpanNotFound
	}
	mergeSpanAttributes(&span)
	return &span, nil
}

// UpdateSpan merges a patch into an existing span's attributes, enforcing
// organization ownership, with bounded optimistic retry.
func (c *Client) UpdateSpan(ctx context.Context, id, orgID string, patch map[string]interface{}) error {
	return c.updateGuarded(ctx, c.cfg.SpanAlias, id, func(source json.RawMessage) (interface{}, error) {
		var span models.Span
		if err := json.Unmarshal(source, &span); err != nil {
			return nil, err
		}
		if span.Organization != orgID {
			return nil, utils.ErrSpanNotFound
		}
		if span.Attributes == nil {
			span.Attributes = make(map[string]interface{}, len(patch))
		}
		for k, v := range patch {
			span.Attributes[k] = v
		}
		return &span, nil
	})
}

// MutateSpan runs an arbitrary read-modify-write on one span under the same
// organization and optimistic-concurrency rules. mutate returns false to
// skip the write. Used by the deferred parent roll-up.
func (c *Client) MutateSpan(ctx context.Context, id, orgID string, mutate func(*models.Span) bool) error {
	return c.updateGuarded(ctx, c.cfg.SpanAlias, id, func(source json.RawMessage) (interface{}, error) {
		var span models.Span
		if err := json.Unmarshal(source, &span); err != nil {
			return nil, err
		}
		if span.Organization != orgID {
			return nil, utils.ErrSpanNotFound
		}
		if !mutate(&span) {
			return nil, nil
		}
		return &span, nil
	})
}

// scopedQuery wraps a compiled query with the organization filter, paging and
// sorting. datasetID additionally filters examples.
func scopedQuery(compiled map[string]interface{}, orgID, datasetID string, opts SearchOptions) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"organization.keyword": orgID}},
	}
	if datasetID != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"dataset.keyword": datasetID}})
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   []interface{}{compiled},
				"filter": filters,
			},
		},
		"from": opts.Offset,
		"size": limit,
		"sort": []interface{}{
			map[string]interface{}{opts.SortField: map[string]interface{}{"order": "desc", "unmapped_type": "long"}},
		},
	}
}

// coupleAttributeFilters keeps attributes and unindexed_attributes together
// in source filtering so the read-side merge always has both or neither.
func coupleAttributeFilters(includes, excludes []string) ([]string, []string) {
	return coupleOne(includes), coupleOne(excludes)
}

func coupleOne(fields []string) []string {
	if len(fields) == 0 {
		return fields
	}
	hasAttrs := false
	hasUnindexed := false
	for _, f := range fields {
		switch f {
		case "attributes":
			hasAttrs = true
		case "unindexed_attributes":
			hasUnindexed = true
		}
	}
	if hasAttrs && !hasUnindexed {
		fields = append(fields, "unindexed_attributes")
	}
	return fields
}

func mergeSpanAttributes(span *models.Span) {
	if span.UnindexedAttributes == nil && span.Attributes == nil {
		return
	}
	span.Attributes = otlp.MergeUnindexed(span.Attributes, span.UnindexedAttributes)
	span.UnindexedAttributes = nil
}
