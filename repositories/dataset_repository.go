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

// DatasetRepository defines the interface for dataset data access
type DatasetRepository interface {
	WithTx(tx *gorm.DB) DatasetRepository

	Create(ctx context.Context, dataset *models.Dataset) error
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*models.Dataset, error)
	List(ctx context.Context, orgID uuid.UUID, where string, limit, offset int) ([]models.Dataset, int64, error)
	Update(ctx context.Context, dataset *models.Dataset) error
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

// DatasetRepo implements DatasetRepository using GORM
type DatasetRepo struct {
	db *gorm.DB
}

// NewDatasetRepo creates a new dataset repository
func NewDatasetRepo(db *gorm.DB) DatasetRepository {
	return &DatasetRepo{db: db}
}

// WithTx returns a repository backed by the given transaction
func (r *DatasetRepo) WithTx(tx *gorm.DB) DatasetRepository {
	return &DatasetRepo{db: tx}
}

func (r *DatasetRepo) Create(ctx context.Context, dataset *models.Dataset) error {
	return r.db.WithContext(ctx).Create(dataset).Error
}

func (r *DatasetRepo) GetByID(ctx context.Context, id, orgID uuid.UUID) (*models.Dataset, error) {
	var dataset models.Dataset
	err := r.db.WithContext(ctx).
		First(&dataset, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrDatasetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (r *DatasetRepo) List(ctx context.Context, orgID uuid.UUID, where string, limit, offset int) ([]models.Dataset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Dataset{}).
		Where("organization_id = ?", orgID).
		Where(where)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var datasets []models.Dataset
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&datasets).Error
	if err != nil {
		return nil, 0, err
	}
	return datasets, total, nil
}

func (r *DatasetRepo) Update(ctx context.Context, dataset *models.Dataset) error {
	return r.db.WithContext(ctx).Save(dataset).Error
}

func (r *DatasetRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.Dataset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrDatasetNotFound
	}
	return nil
}
