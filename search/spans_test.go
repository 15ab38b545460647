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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/searchquery"
)

func TestCoupleAttributeFiltersAddsUnindexed(t *testing.T) {
	includes, excludes := coupleAttributeFilters([]string{"id", "attributes"}, nil)
	assert.Contains(t, includes, "unindexed_attributes")
	assert.Nil(t, excludes)

	_, excludes = coupleAttributeFilters(nil, []string{"attributes"})
	assert.Contains(t, excludes, "unindexed_attributes")
}

func TestCoupleAttributeFiltersLeavesOthersAlone(t *testing.T) {
	includes, _ := coupleAttributeFilters([]string{"id", "name"}, nil)
	assert.Equal(t, []string{"id", "name"}, includes)

	includes, _ = coupleAttributeFilters([]string{"attributes", "unindexed_attributes"}, nil)
	assert.Len(t, includes, 2)
}

func TestScopedQueryAddsOrganizationFilter(t *testing.T) {
	compiled := searchquery.CompileToDSL(searchquery.Parse("id:a"))
	body := scopedQuery(compiled, "org-1", "", SearchOptions{Limit: 10, SortField: "start"})

	boolClause := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolClause["filter"].([]interface{})
	require.Len(t, filters, 1)
	term := filters[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "org-1", term["organization.keyword"])
	assert.Equal(t, 10, body["size"])
}

func TestScopedQueryDatasetFilterAndDefaults(t *testing.T) {
	body := scopedQuery(searchquery.CompileToDSL(nil), "org-1", "ds-1", SearchOptions{SortField: "created"})
	boolClause := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolClause["filter"].([]interface{})
	assert.Len(t, filters, 2)
	assert.Equal(t, 100, body["size"])
	assert.Equal(t, 0, body["from"])
}

func TestMergeSpanAttributesMergesAndClears(t *testing.T) {
	span := &models.Span{
		Attributes:          map[string]interface{}{"input": map[string]interface{}{"value": "q"}},
		UnindexedAttributes: map[string]interface{}{"big": "blob"},
	}
	mergeSpanAttributes(span)

	assert.Equal(t, "q", span.Attributes["input"])
	assert.Equal(t, "blob", span.Attributes["big"])
	assert.Nil(t, span.UnindexedAttributes)
}
