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

package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// APIKeyRepository defines the interface for API key data access. It also
// serves as the credential resolver for the auth middleware and the gRPC
// interceptor.
type APIKeyRepository interface {
	WithTx(tx *gorm.DB) APIKeyRepository

	Create(ctx context.Context, key *models.APIKey) error
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.APIKey, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error

	// ResolveAPIKeyHash returns the key and its organization for a SHA-256
	// hash of the presented credential
	ResolveAPIKeyHash(ctx context.Context, keyHash string) (*models.APIKey, *models.Organization, error)
	// ResolveOrganization returns an organization by its ID string
	ResolveOrganization(ctx context.Context, orgID string) (*models.Organization, error)
}

// APIKeyRepo implements APIKeyRepository using GORM
type APIKeyRepo struct {
	db *gorm.DB
}

// NewAPIKeyRepo creates a new API key repository
func NewAPIKeyRepo(db *gorm.DB) APIKeyRepository {
	return &APIKeyRepo{db: db}
}

// WithTx returns a repository backed by the given transaction
func (r *APIKeyRepo) WithTx(tx *gorm.DB) APIKeyRepository {
	return &APIKeyRepo{db: tx}
}

func (r *APIKeyRepo) Create(ctx context.Context, key *models.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *APIKeyRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&keys).Error
	return keys, err
}

func (r *APIKeyRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.APIKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrAPIKeyNotFound
	}
	return nil
}

func (r *APIKeyRepo) ResolveAPIKeyHash(ctx context.Context, keyHash string) (*models.APIKey, *models.Organization, error) {
	var key models.APIKey
	err := r.db.WithContext(ctx).First(&key, "key_hash = ?", keyHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, utils.ErrAPIKeyNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var org models.Organization
	err = r.db.WithContext(ctx).First(&org, "id = ?", key.OrganizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, utils.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	// best effort; a stale last_used is acceptable
	now := time.Now()
	r.db.WithContext(ctx).Model(&key).UpdateColumn("last_used_at", now)

	return &key, &org, nil
}

func (r *APIKeyRepo) ResolveOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	parsed, err := uuid.Parse(orgID)
	if err != nil {
		return nil, utils.ErrOrganizationNotFound
	}
	var org models.Organization
	err = r.db.WithContext(ctx).First(&org, "id = ?", parsed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
