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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// index mappings: attributes stay dynamically indexed while
// unindexed_attributes is stored in _source only
var indexBody = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"dynamic": true,
		"properties": map[string]interface{}{
			"unindexed_attributes": map[string]interface{}{
				"type":    "object",
				"enabled": false,
			},
		},
	},
}

// EnsureIndices creates the versioned backing indices and aliases on first
// start; existing aliases are left untouched.
func (c *Client) EnsureIndices(ctx context.Context) error {
	for _, alias := range []string{c.cfg.SpanAlias, c.cfg.ExampleAlias} {
		exists, err := c.aliasExists(ctx, alias)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := c.createVersionedIndex(ctx, alias, 1); err != nil {
			return err
		}
		logger.GetLogger(ctx).Info("search: created index", "alias", alias)
	}
	return nil
}

func (c *Client) aliasExists(ctx context.Context, alias string) (bool, error) {
	res, err := opensearchapi.IndicesExistsAliasRequest{Name: []string{alias}}.Do(ctx, c.os)
	if err != nil {
		return false, utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)
	return res.StatusCode == 200, nil
}

func (c *Client) createVersionedIndex(ctx context.Context, alias string, version int) error {
	body := map[string]interface{}{}
	for k, v := range indexBody {
		body[k] = v
	}
	body["aliases"] = map[string]interface{}{alias: map[string]interface{}{}}

	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	res, err := opensearchapi.IndicesCreateRequest{
		Index: versionedName(alias, version),
		Body:  bytes.NewReader(encoded),
	}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to create index for alias %s: %s", alias, string(payload))
	}
	return nil
}

func versionedName(alias string, version int) string {
	return fmt.Sprintf("%s_v%d", alias, version)
}

// MigrateAlias builds the next versioned index, reindexes all documents into
// it and flips the alias in one atomic aliases update. The predecessor index
// is deleted only when dropOld is set. Administrative; never called from
// request paths.
func (c *Client) MigrateAlias(ctx context.Context, alias string, dropOld bool) error {
	oldIndex, version, err := c.resolveAlias(ctx, alias)
	if err != nil {
		return err
	}

	newIndex := versionedName(alias, version+1)
	if err := c.createVersionedIndexWithoutAlias(ctx, newIndex); err != nil {
		return err
	}

	if err := c.reindex(ctx, oldIndex, newIndex); err != nil {
		return err
	}

	if err := c.flipAlias(ctx, alias, oldIndex, newIndex); err != nil {
		return err
	}
	logger.GetLogger(ctx).Info("search: alias migrated", "alias", alias, "from", oldIndex, "to", newIndex)

	if dropOld {
		return c.DeleteIndex(ctx, oldIndex)
	}
	return nil
}

func (c *Client) createVersionedIndexWithoutAlias(ctx context.Context, index string) error {
	encoded, err := json.Marshal(indexBody)
	if err != nil {
		return err
	}
	res, err := opensearchapi.IndicesCreateRequest{Index: index, Body: bytes.NewReader(encoded)}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to create index %s: %s", index, string(payload))
	}
	return nil
}

// resolveAlias returns the single backing index of an alias and its version
// number parsed from the _vN suffix.
func (c *Client) resolveAlias(ctx context.Context, alias string) (string, int, error) {
	res, err := opensearchapi.IndicesGetAliasRequest{Name: []string{alias}}.Do(ctx, c.os)
	if err != nil {
		return "", 0, utils.ErrServiceUnavailable
	}

	var parsed map[string]interface{}
	if err := decodeResponse(res, &parsed); err != nil {
		return "", 0, err
	}
	for index := range parsed {
		version := 1
		if idx := strings.LastIndex(index, "_v"); idx >= 0 {
			if n, err := strconv.Atoi(index[idx+2:]); err == nil {
				version = n
			}
		}
		return index, version, nil
	}
	return "", 0, fmt.Errorf("alias %s has no backing index", alias)
}

func (c *Client) reindex(ctx context.Context, from, to string) error {
	body, err := json.Marshal(map[string]interface{}{
		"source": map[string]interface{}{"index": from},
		"dest":   map[string]interface{}{"index": to},
	})
	if err != nil {
		return err
	}

	waitTrue := true
	res, err := opensearchapi.ReindexRequest{
		Body:              bytes.NewReader(body),
		WaitForCompletion: &waitTrue,
	}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return fmt.Errorf("reindex %s -> %s failed: %s", from, to, string(payload))
	}
	io.Copy(io.Discard, res.Body)
	return nil
}

func (c *Client) flipAlias(ctx context.Context, alias, oldIndex, newIndex string) error {
	body, err := json.Marshal(map[string]interface{}{
		"actions": []interface{}{
			map[string]interface{}{"remove": map[string]interface{}{"index": oldIndex, "alias": alias}},
			map[string]interface{}{"add": map[string]interface{}{"index": newIndex, "alias": alias}},
		},
	})
	if err != nil {
		return err
	}

	res, err := opensearchapi.IndicesUpdateAliasesRequest{Body: bytes.NewReader(body)}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return fmt.Errorf("alias flip for %s failed: %s", alias, string(payload))
	}
	io.Copy(io.Discard, res.Body)
	return nil
}

// DeleteIndex removes a backing index outright
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	res, err := opensearchapi.IndicesDeleteRequest{Index: []string{index}}.Do(ctx, c.os)
	if err != nil {
		return utils.ErrServiceUnavailable
	}
	defer res.Body.Close()
	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to delete index %s: %s", index, string(payload))
	}
	io.Copy(io.Discard, res.Body)
	return nil
}
