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

// ModelRepository defines the interface for judge-model data access
type ModelRepository interface {
	WithTx(tx *gorm.DB) ModelRepository

	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*models.Model, error)
	// GetByRef resolves a metric's model reference: a UUID or a
	// per-organization unique name
	GetByRef(ctx context.Context, ref string, orgID uuid.UUID) (*models.Model, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Model, int64, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

// ModelRepo implements ModelRepository using GORM
type ModelRepo struct {
	db *gorm.DB
}

// NewModelRepo creates a new model repository
func NewModelRepo(db *gorm.DB) ModelRepository {
	return &ModelRepo{db: db}
}

// WithTx returns a repository backed by the given transaction
func (r *ModelRepo) WithTx(tx *gorm.DB) ModelRepository {
	return &ModelRepo{db: tx}
}

func (r *ModelRepo) Create(ctx context.Context, model *models.Model) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *ModelRepo) GetByID(ctx context.Context, id, orgID uuid.UUID) (*models.Model, error) {
	var model models.Model
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *ModelRepo) GetByRef(ctx context.Context, ref string, orgID uuid.UUID) (*models.Model, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return r.GetByID(ctx, id, orgID)
	}

	var model models.Model
	err := r.db.WithContext(ctx).
		First(&model, "name = ? AND organization_id = ?", ref, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *ModelRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Model, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Model{}).
		Where("organization_id = ?", orgID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Model
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ModelRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.Model{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrModelNotFound
	}
	return nil
}
