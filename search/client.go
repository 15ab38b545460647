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

// Package search adapts the span and example stores onto OpenSearch. Both
// logical indices are addressed through aliases so that schema migrations can
// build a new versioned index and flip the alias atomically.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/aiqa-platform/evaluation-service/config"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// Client wraps the OpenSearch connection together with the configured aliases
type Client struct {
	os  *opensearchgo.Client
	cfg config.SearchConfig
}

// NewClient connects to the configured search engine
func NewClient(cfg config.SearchConfig) (*Client, error) {
	osClient, err := opensearchgo.NewClient(opensearchgo.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	return &Client{os: osClient, cfg: cfg}, nil
}

// Ping verifies the search engine is reachable
func (c *Client) Ping(ctx context.Context) error {
	res, err := opensearchapi.PingRequest{}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		return utils.ErrServiceUnavailable
	}
	return nil
}

// SpanAlias returns the configured span index alias
func (c *Client) SpanAlias() string { return c.cfg.SpanAlias }

// ExampleAlias returns the configured example index alias
func (c *Client) ExampleAlias() string { return c.cfg.ExampleAlias }

// UnindexedThreshold returns the byte size above which attribute values are
// routed to unindexed storage
func (c *Client) UnindexedThreshold() int { return c.cfg.UnindexedThresholdBytes }

// searchResponse is the subset of the search API response the adapter reads
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

// getResponse is the subset of the document GET response the adapter reads
type getResponse struct {
	Found       bool            `json:"found"`
	ID          string          `json:"_id"`
	Source      json.RawMessage `json:"_source"`
	SeqNo       int64           `json:"_seq_no"`
	PrimaryTerm int64           `json:"_primary_term"`
}

func decodeResponse(res *opensearchapi.Response, out interface{}) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("search engine returned %s: %s", res.Status(), string(body))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) search(ctx context.Context, index string, body map[string]interface{}, includes, excludes []string) (*searchResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(encoded),
	}
	if len(includes) > 0 {
		req.SourceIncludes = includes
	}
	if len(excludes) > 0 {
		req.SourceExcludes = excludes
	}

	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, utils.ErrServiceUnavailable
	}

	var parsed searchResponse
	if err := decodeResponse(res, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *Client) getDocument(ctx context.Context, index, id string) (*getResponse, error) {
	res, err := opensearchapi.GetRequest{Index: index, DocumentID: id}.Do(ctx, c.os)
	if err != nil {
		return nil, utils.ErrServiceUnavailable
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return &getResponse{Found: false}, nil
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search engine returned %s: %s", res.Status(), string(body))
	}

	var parsed getResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// bulkInsert writes documents with caller-assigned IDs in one batch. Inserts
// are refreshed so that a subsequent search observes them.
func (c *Client) bulkInsert(ctx context.Context, index string, ids []string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i, doc := range docs {
		action := map[string]interface{}{
			"index": map[string]interface{}{"_index": index, "_id": ids[i]},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return err
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return err
		}
	}

	res, err := opensearchapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}

	var parsed struct {
		Errors bool `json:"errors"`
	}
	if err := decodeResponse(res, &parsed); err != nil {
		return err
	}
	if parsed.Errors {
		return fmt.Errorf("bulk insert into %s reported item failures", index)
	}
	return nil
}

// deleteByQuery removes every document matching a query from one index
func (c *Client) deleteByQuery(ctx context.Context, index string, query interface{}) error {
	encoded, err := json.Marshal(map[string]interface{}{"query": query})
	if err != nil {
		return err
	}
	res, err := opensearchapi.DeleteByQueryRequest{
		Index: []string{index},
		Body:  bytes.NewReader(encoded),
	}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("delete by query on %s failed: %s", index, string(body))
	}
	io.Copy(io.Discard, res.Body)
	return nil
}

// updateGuarded performs an optimistic read-modify-write on one document.
// mutate receives the decoded source and returns the new source, or nil to
// skip the write. Version conflicts retry up to maxUpdateRetries times.
func (c *Client) updateGuarded(ctx context.Context, index, id string, mutate func(json.RawMessage) (interface{}, error)) error {
	const maxUpdateRetries = 3

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		current, err := c.getDocument(ctx, index, id)
		if err != nil {
			return err
		}
		if !current.Found {
			return utils.ErrSpanNotFound
		}

		updated, err := mutate(current.Source)
		if err != nil {
			return err
		}
		if updated == nil {
			return nil
		}

		encoded, err := json.Marshal(updated)
		if err != nil {
			return err
		}

		seqNo := int(current.SeqNo)
		primaryTerm := int(current.PrimaryTerm)
		res, err := opensearchapi.IndexRequest{
			Index:         index,
			DocumentID:    id,
			Body:          bytes.NewReader(encoded),
			IfSeqNo:       &seqNo,
			IfPrimaryTerm: &primaryTerm,
			Refresh:       "true",
		}.Do(ctx, c.os)
		if err != nil {
			return utils.ErrServiceUnavailable
		}
		io.Copy(io.Discard, res.Body)
		res.Body.Close()

		if res.StatusCode == 409 {
			continue // concurrent writer won; re-read and retry
		}
		if res.IsError() {
			return fmt.Errorf("search engine returned %s updating %s/%s", res.Status(), index, id)
		}
		return nil
	}
	return fmt.Errorf("update of %s/%s kept conflicting after retries", index, id)
}
