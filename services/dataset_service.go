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
	"fmt"

	"github.com/google/uuid"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/searchquery"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// DatasetService manages evaluation datasets and their metric definitions
type DatasetService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateDatasetRequest) (*models.Dataset, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Dataset, error)
	List(ctx context.Context, orgID uuid.UUID, query string, limit, offset int) ([]models.Dataset, int64, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateDatasetRequest) (*models.Dataset, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type datasetService struct {
	datasets repositories.DatasetRepository
	store    Store
}

// NewDatasetService creates a new dataset service instance
func NewDatasetService(datasets repositories.DatasetRepository, store Store) DatasetService {
	return &datasetService{
		datasets: datasets,
		store:    store,
	}
}

func (s *datasetService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateDatasetRequest) (*models.Dataset, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: dataset name is required", utils.ErrInvalidInput)
	}
	dataset := &models.Dataset{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		Tags:           req.Tags,
		Metrics:        req.Metrics,
	}
	if err := s.datasets.Create(ctx, dataset); err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}
	return dataset, nil
}

func (s *datasetService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Dataset, error) {
	return s.datasets.GetByID(ctx, id, orgID)
}

func (s *datasetService) List(ctx context.Context, orgID uuid.UUID, query string, limit, offset int) ([]models.Dataset, int64, error) {
	where, err := searchquery.CompileToSQL(searchquery.Parse(query))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", utils.ErrInvalidInput, err.Error())
	}
	if limit <= 0 {
		limit = 100
	}
	return s.datasets.List(ctx, orgID, where, limit, offset)
}

func (s *datasetService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateDatasetRequest) (*models.Dataset, error) {
	dataset, err := s.datasets.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		dataset.Name = *req.Name
	}
	if req.Description != nil {
		dataset.Description = *req.Description
	}
	if req.Tags != nil {
		dataset.Tags = req.Tags
	}
	if req.Metrics != nil {
		dataset.Metrics = req.Metrics
	}
	if err := s.datasets.Update(ctx, dataset); err != nil {
		return nil, fmt.Errorf("failed to update dataset: %w", err)
	}
	return dataset, nil
}

// Delete removes the dataset row and then its examples from the search
// engine. Example cleanup is best effort; orphaned documents are unreachable
// once the dataset row is gone.
func (s *datasetService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.datasets.Delete(ctx, id, orgID); err != nil {
		return err
	}
	if err := s.store.DeleteExamplesByQuery(ctx, orgID.String(), id.String()); err != nil {
		logger.GetLogger(ctx).Warn("Dataset example cleanup failed", "dataset", id, "error", err)
	}
	return nil
}
