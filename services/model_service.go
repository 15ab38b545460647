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

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// ModelService manages registered judge-model configurations
type ModelService interface {
	Create(ctx context.Context, orgID uuid.UUID, model *models.Model) (*models.Model, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Model, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Model, int64, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type modelService struct {
	repo repositories.ModelRepository
}

// NewModelService creates a new model service instance
func NewModelService(repo repositories.ModelRepository) ModelService {
	return &modelService{repo: repo}
}

func (s *modelService) Create(ctx context.Context, orgID uuid.UUID, model *models.Model) (*models.Model, error) {
	if model.Name == "" || model.Provider == "" || model.ModelID == "" {
		return nil, fmt.Errorf("%w: name, provider and model are required", utils.ErrInvalidInput)
	}
	switch model.Provider {
	case models.ProviderOpenAI, models.ProviderAzureOpenAI, models.ProviderAnthropic, models.ProviderGemini:
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", utils.ErrInvalidInput, model.Provider)
	}
	model.ID = uuid.New()
	model.OrganizationID = orgID
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return model, nil
}

func (s *modelService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Model, error) {
	return s.repo.GetByID(ctx, id, orgID)
}

func (s *modelService) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Model, int64, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, orgID, limit, offset)
}

func (s *modelService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, orgID)
}
