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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// ExampleService manages dataset examples stored in the search engine
type ExampleService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateExampleRequest) (*models.Example, error)
	Get(ctx context.Context, orgID uuid.UUID, id string) (*models.Example, error)
	List(ctx context.Context, orgID uuid.UUID, datasetID, query string, limit, offset int) ([]*models.Example, int64, error)
	Delete(ctx context.Context, orgID uuid.UUID, id string) error
}

type exampleService struct {
	store    Store
	datasets repositories.DatasetRepository
}

// NewExampleService creates a new example service instance
func NewExampleService(store Store, datasets repositories.DatasetRepository) ExampleService {
	return &exampleService{
		store:    store,
		datasets: datasets,
	}
}

// Create promotes a trace (or hand-written content) into a dataset example.
// At most one example may exist per (trace, dataset) pair. After a successful
// insert the source trace's root span is stamped with the example ID so the
// UI can link back; that patch is best effort.
func (s *exampleService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateExampleRequest) (*models.Example, error) {
	datasetID, err := uuid.Parse(req.Dataset)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset must be a UUID", utils.ErrInvalidInput)
	}
	if _, err := s.datasets.GetByID(ctx, datasetID, orgID); err != nil {
		return nil, err
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	} else if !utils.IsValidUUID(id) {
		return nil, fmt.Errorf("%w: example id must be a UUID", utils.ErrInvalidInput)
	}

	for _, span := range req.Spans {
		if span.ID == "" {
			return nil, fmt.Errorf("%w: example spans must each carry an id", utils.ErrInvalidInput)
		}
	}

	if req.TraceID != "" {
		existing, err := s.store.FindExampleByTraceAndDataset(ctx, orgID.String(), req.TraceID, req.Dataset)
		if err != nil && !errors.Is(err, utils.ErrExampleNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: an example for trace %q and dataset %q already exists",
				utils.ErrExampleAlreadyExists, req.TraceID, req.Dataset)
		}
	}

	now := time.Now().UnixMilli()
	example := &models.Example{
		ID:           id,
		Dataset:      req.Dataset,
		Organization: orgID.String(),
		TraceID:      req.TraceID,
		Name:         req.Name,
		Input:        req.Input,
		Outputs:      req.Outputs,
		Spans:        req.Spans,
		Tags:         req.Tags,
		Annotations:  req.Annotations,
		Metrics:      req.Metrics,
		Created:      now,
		Updated:      now,
	}

	if err := s.store.BulkInsertExamples(ctx, []*models.Example{example}); err != nil {
		return nil, fmt.Errorf("%w: example store write failed", utils.ErrServiceUnavailable)
	}

	if req.TraceID != "" {
		s.backWriteExampleRef(ctx, orgID.String(), req.TraceID, id)
	}
	return example, nil
}

// backWriteExampleRef stamps aiqa.example onto the root span of the source
// trace. Failure is logged and does not affect the created example.
func (s *exampleService) backWriteExampleRef(ctx context.Context, orgID, traceID, exampleID string) {
	log := logger.GetLogger(ctx)

	spans, _, err := s.store.SearchSpans(ctx, fmt.Sprintf("trace:%q parent:unset", traceID), orgID, search.SearchOptions{Limit: 1})
	if err != nil || len(spans) == 0 {
		log.Warn("Example back-reference skipped: root span not found", "trace", traceID, "error", err)
		return
	}
	patch := map[string]interface{}{"aiqa.example": exampleID}
	if err := s.store.UpdateSpan(ctx, spans[0].ID, orgID, patch); err != nil {
		log.Warn("Example back-reference failed", "trace", traceID, "span", spans[0].ID, "error", err)
	}
}

func (s *exampleService) Get(ctx context.Context, orgID uuid.UUID, id string) (*models.Example, error) {
	return s.store.GetExample(ctx, id, orgID.String())
}

func (s *exampleService) List(ctx context.Context, orgID uuid.UUID, datasetID, query string, limit, offset int) ([]*models.Example, int64, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.store.SearchExamples(ctx, query, orgID.String(), datasetID, search.SearchOptions{
		Limit:  limit,
		Offset: offset,
	})
}

func (s *exampleService) Delete(ctx context.Context, orgID uuid.UUID, id string) error {
	return s.store.DeleteExample(ctx, id, orgID.String())
}
