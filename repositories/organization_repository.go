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

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	WithTx(tx *gorm.DB) OrganizationRepository
	RunInTransaction(fn func(txRepo OrganizationRepository) error) error

	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, where string, limit, offset int) ([]models.Organization, int64, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrganizationRepo implements OrganizationRepository using GORM
type OrganizationRepo struct {
	db *gorm.DB
}

// NewOrganizationRepo creates a new organization repository
func NewOrganizationRepo(db *gorm.DB) OrganizationRepository {
	return &OrganizationRepo{db: db}
}

// WithTx returns a repository backed by the given transaction
func (r *OrganizationRepo) WithTx(tx *gorm.DB) OrganizationRepository {
	return &OrganizationRepo{db: tx}
}

// RunInTransaction executes fn within a database transaction
func (r *OrganizationRepo) RunInTransaction(fn func(txRepo OrganizationRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *OrganizationRepo) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns organizations matching a compiled WHERE fragment. The fragment
// comes from the search-query compiler, which validates column identifiers.
func (r *OrganizationRepo) List(ctx context.Context, where string, limit, offset int) ([]models.Organization, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Organization{}).Where(where)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgs []models.Organization
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orgs).Error
	if err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

func (r *OrganizationRepo) Update(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

func (r *OrganizationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Organization{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrOrganizationNotFound
	}
	return nil
}
