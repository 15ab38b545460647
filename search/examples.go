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
	"errors"
	"fmt"
	"io"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/searchquery"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// BulkInsertExamples writes a batch of examples keyed by example ID.
// Uniqueness per (trace, dataset) is the caller's responsibility.
func (c *Client) BulkInsertExamples(ctx context.Context, examples []*models.Example) error {
	ids := make([]string, len(examples))
	docs := make([]interface{}, len(examples))
	for i, e := range examples {
		ids[i] = e.ID
		docs[i] = e
	}
	return c.bulkInsert(ctx, c.cfg.ExampleAlias, ids, docs)
}

// SearchExamples compiles the query, scopes it to one organization and an
// optional dataset, and returns matches sorted by created descending.
func (c *Client) SearchExamples(ctx context.Context, query, orgID, datasetID string, opts SearchOptions) ([]*models.Example, int64, error) {
	if opts.SortField == "" {
		opts.SortField = "created"
	}
	body := scopedQuery(searchquery.CompileToDSL(searchquery.Parse(query)), orgID, datasetID, opts)

	res, err := c.search(ctx, c.cfg.ExampleAlias, body, opts.FieldIncludes, opts.FieldExcludes)
	if err != nil {
		return nil, 0, err
	}

	examples := make([]*models.Example, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var example models.Example
		if err := json.Unmarshal(hit.Source, &example); err != nil {
			continue
		}
		examples = append(examples, &example)
	}
	return examples, res.Hits.Total.Value, nil
}

// GetExample reads one example by ID, enforcing organization ownership
func (c *Client) GetExample(ctx context.Context, id, orgID string) (*models.Example, error) {
	doc, err := c.getDocument(ctx, c.cfg.ExampleAlias, id)
	if err != nil {
		return nil, err
	}
	if !doc.Found {
		return nil, utils.ErrExampleNotFound
	}

	var example models.Example
	if err := json.Unmarshal(doc.Source, &example); err != nil {
		return nil, err
	}
	if example.Organization != orgID {
		return nil, utils.ErrExampleNotFound
	}
	return &example, nil
}

// FindExampleByTraceAndDataset returns the example created from a given trace
// within a dataset, or ErrExampleNotFound. Backs the (trace, dataset)
// uniqueness check.
func (c *Client) FindExampleByTraceAndDataset(ctx context.Context, orgID, traceID, datasetID string) (*models.Example, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"organization.keyword": orgID}},
					map[string]interface{}{"term": map[string]interface{}{"dataset.keyword": datasetID}},
					map[string]interface{}{"term": map[string]interface{}{"trace.keyword": traceID}},
				},
			},
		},
		"size": 1,
	}

	res, err := c.search(ctx, c.cfg.ExampleAlias, body, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(res.Hits.Hits) == 0 {
		return nil, utils.ErrExampleNotFound
	}

	var example models.Example
	if err := json.Unmarshal(res.Hits.Hits[0].Source, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

// UpdateExample merges a partial patch into an example, enforcing
// organization ownership, with bounded optimistic retry.
func (c *Client) UpdateExample(ctx context.Context, id, orgID string, patch map[string]interface{}) error {
	err := c.updateGuarded(ctx, c.cfg.ExampleAlias, id, func(source json.RawMessage) (interface{}, error) {
		var current map[string]interface{}
		if err := json.Unmarshal(source, &current); err != nil {
			return nil, err
		}
		if org, _ := current["organization"].(string); org != orgID {
			return nil, utils.ErrExampleNotFound
		}
		for k, v := range patch {
			current[k] = v
		}
		return current, nil
	})
	if errors.Is(err, utils.ErrSpanNotFound) {
		return utils.ErrExampleNotFound
	}
	return err
}

// DeleteExample removes one example after verifying organization ownership
func (c *Client) DeleteExample(ctx context.Context, id, orgID string) error {
	if _, err := c.GetExample(ctx, id, orgID); err != nil {
		return err
	}
	res, err := opensearchapi.DeleteRequest{
		Index:      c.cfg.ExampleAlias,
		DocumentID: id,
		Refresh:    "true",
	}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return utils.ErrExampleNotFound
	}
	if res.IsError() {
		return fmt.Errorf("search engine returned %s deleting example %s", res.Status(), id)
	}
	io.Copy(io.Discard, res.Body)
	return nil
}

// DeleteExamplesByQuery removes all of a dataset's examples; used when a
// dataset is deleted.
func (c *Client) DeleteExamplesByQuery(ctx context.Context, orgID, datasetID string) error {
	node := searchquery.Parse("dataset:" + datasetID)
	body := scopedQuery(searchquery.CompileToDSL(node), orgID, datasetID, SearchOptions{Limit: 1, SortField: "created"})
	return c.deleteByQuery(ctx, c.cfg.ExampleAlias, body["query"])
}
