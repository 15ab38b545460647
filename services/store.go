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

package services

import (
	"context"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/search"
)

// Store is the slice of the search adapter the services depend on.
// *search.Client satisfies it.
type Store interface {
	UnindexedThreshold() int

	BulkInsertSpans(ctx context.Context, spans []*models.Span) error
	SearchSpans(ctx context.Context, query, orgID string, opts search.SearchOptions) ([]*models.Span, int64, error)
	GetSpan(ctx context.Context, id, orgID string) (*models.Span, error)
	UpdateSpan(ctx context.Context, id, orgID string, patch map[string]interface{}) error
	MutateSpan(ctx context.Context, id, orgID string, mutate func(*models.Span) bool) error

	BulkInsertExamples(ctx context.Context, examples []*models.Example) error
	SearchExamples(ctx context.Context, query, orgID, datasetID string, opts search.SearchOptions) ([]*models.Example, int64, error)
	GetExample(ctx context.Context, id, orgID string) (*models.Example, error)
	FindExampleByTraceAndDataset(ctx context.Context, orgID, traceID, datasetID string) (*models.Example, error)
	DeleteExample(ctx context.Context, id, orgID string) error
	DeleteExamplesByQuery(ctx context.Context, orgID, datasetID string) error
}
