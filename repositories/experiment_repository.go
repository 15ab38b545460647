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
	"gorm.io/gorm/clause"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// ExperimentRepository defines the interface for experiment data access
type ExperimentRepository interface {
	WithTx(tx *gorm.DB) ExperimentRepository
	RunInTransaction(fn func(txRepo ExperimentRepository) error) error

	Create(ctx context.Context, experiment *models.Experiment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Experiment, error)
	// GetByIDForUpdate locks the row for the read-modify-write performed by
	// scoreAndStore
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Experiment, error)
	List(ctx context.Context, orgID uuid.UUID, where string, limit, offset int) ([]models.Experiment, int64, error)
	Update(ctx context.Context, experiment *models.Experiment) error
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

// ExperimentRepo implements ExperimentRepository using GORM
type ExperimentRepo struct {
	db *gorm.DB
}

// NewExperimentRepo creates a new experiment repository
func NewExperimentRepo(db *gorm.DB) ExperimentRepository {
	return &ExperimentRepo{db: db}
}

// WithTx returns a repository backed by the given transaction
func (r *ExperimentRepo) WithTx(tx *gorm.DB) ExperimentRepository {
	return &ExperimentRepo{db: tx}
}

// RunInTransaction executes fn within a database transaction
func (r *ExperimentRepo) RunInTransaction(fn func(txRepo ExperimentRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *ExperimentRepo) Create(ctx context.Context, experiment *models.Experiment) error {
	return r.db.WithContext(ctx).Create(experiment).Error
}

func (r *ExperimentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Experiment, error) {
	var experiment models.Experiment
	err := r.db.WithContext(ctx).First(&experiment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrExperimentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}

func (r *ExperimentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Experiment, error) {
	var experiment models.Experiment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&experiment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrExperimentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}

func (r *ExperimentRepo) List(ctx context.Context, orgID uuid.UUID, where string, limit, offset int) ([]models.Experiment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Experiment{}).
		Where("organization_id = ?", orgID).
		Where(where)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var experiments []models.Experiment
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&experiments).Error
	if err != nil {
		return nil, 0, err
	}
	return experiments, total, nil
}

func (r *ExperimentRepo) Update(ctx context.Context, experiment *models.Experiment) error {
	return r.db.WithContext(ctx).Save(experiment).Error
}

func (r *ExperimentRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.Experiment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrExperimentNotFound
	}
	return nil
}
