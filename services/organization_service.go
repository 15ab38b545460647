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

// CreateAPIKeyRequest carries the pre-hashed credential material for a new
// API key. The plaintext never reaches the server.
type CreateAPIKeyRequest struct {
	KeyHash string            `json:"keyHash"`
	Last4   string            `json:"last4"`
	Name    string            `json:"name,omitempty"`
	Role    models.APIKeyRole `json:"role,omitempty"`
}

// OrganizationService manages tenants and their API keys
type OrganizationService interface {
	Create(ctx context.Context, org *models.Organization) (*models.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) (*models.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateAPIKey(ctx context.Context, orgID uuid.UUID, req *CreateAPIKeyRequest) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context, orgID uuid.UUID) ([]models.APIKey, error)
	DeleteAPIKey(ctx context.Context, orgID, id uuid.UUID) error
}

type organizationService struct {
	orgs repositories.OrganizationRepository
	keys repositories.APIKeyRepository
}

// NewOrganizationService creates a new organization service instance
func NewOrganizationService(orgs repositories.OrganizationRepository, keys repositories.APIKeyRepository) OrganizationService {
	return &organizationService{
		orgs: orgs,
		keys: keys,
	}
}

func (s *organizationService) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	if org.Name == "" {
		return nil, fmt.Errorf("%w: organization name is required", utils.ErrInvalidInput)
	}
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	if org.Tier == "" {
		org.Tier = models.TierFree
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Get(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *organizationService) Update(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	if _, err := s.orgs.GetByID(ctx, org.ID); err != nil {
		return nil, err
	}
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orgs.Delete(ctx, id)
}

// CreateAPIKey registers a key from its SHA-256 hash and last-4 suffix
func (s *organizationService) CreateAPIKey(ctx context.Context, orgID uuid.UUID, req *CreateAPIKeyRequest) (*models.APIKey, error) {
	if len(req.KeyHash) != 64 {
		return nil, fmt.Errorf("%w: keyHash must be a SHA-256 hex digest", utils.ErrInvalidInput)
	}
	role := req.Role
	if role == "" {
		role = models.RoleTrace
	}
	switch role {
	case models.RoleTrace, models.RoleReadOnly, models.RoleDeveloper, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", utils.ErrInvalidInput, role)
	}

	key := &models.APIKey{
		ID:             uuid.New(),
		OrganizationID: orgID,
		KeyHash:        req.KeyHash,
		Last4:          req.Last4,
		Name:           req.Name,
		Role:           role,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}
	return key, nil
}

func (s *organizationService) ListAPIKeys(ctx context.Context, orgID uuid.UUID) ([]models.APIKey, error) {
	return s.keys.ListByOrganization(ctx, orgID)
}

func (s *organizationService) DeleteAPIKey(ctx context.Context, orgID, id uuid.UUID) error {
	return s.keys.Delete(ctx, id, orgID)
}
