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
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/searchquery"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// ExperimentService manages evaluation runs and their accumulated results
type ExperimentService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateExperimentRequest) (*models.Experiment, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Experiment, error)
	List(ctx context.Context, orgID uuid.UUID, query string, limit, offset int) ([]models.Experiment, int64, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateExperimentRequest) (*models.Experiment, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	ScoreAndStore(ctx context.Context, orgID, experimentID uuid.UUID, exampleID string, req *models.ScoreAndStoreRequest) (*models.ScoreAndStoreResponse, error)
	RecalculateSummaries(ctx context.Context, orgID, id uuid.UUID) (*models.Experiment, error)
}

type experimentService struct {
	experiments repositories.ExperimentRepository
	datasets    repositories.DatasetRepository
	store       Store
	scorer      Scorer
}

// NewExperimentService creates a new experiment service instance
func NewExperimentService(
	experiments repositories.ExperimentRepository,
	datasets repositories.DatasetRepository,
	store Store,
	scorer Scorer,
) ExperimentService {
	return &experimentService{
		experiments: experiments,
		datasets:    datasets,
		store:       store,
		scorer:      scorer,
	}
}

func (s *experimentService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateExperimentRequest) (*models.Experiment, error) {
	datasetID, err := uuid.Parse(req.Dataset)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset must be a UUID", utils.ErrInvalidInput)
	}
	if _, err := s.datasets.GetByID(ctx, datasetID, orgID); err != nil {
		return nil, err
	}

	experiment := &models.Experiment{
		ID:                   uuid.New(),
		OrganizationID:       orgID,
		DatasetID:            datasetID,
		Name:                 req.Name,
		Status:               models.ExperimentStatusOpen,
		Parameters:           req.Parameters,
		ComparisonParameters: req.ComparisonParameters,
	}
	if experiment.Name == "" {
		experiment.Name = "experiment-" + time.Now().UTC().Format("2006-01-02-150405")
	}
	if req.Batch != "" {
		batchID, err := uuid.Parse(req.Batch)
		if err != nil {
			return nil, fmt.Errorf("%w: batch must be a UUID", utils.ErrInvalidInput)
		}
		experiment.BatchID = &batchID
	}

	if err := s.experiments.Create(ctx, experiment); err != nil {
		return nil, fmt.Errorf("failed to create experiment: %w", err)
	}
	return experiment, nil
}

func (s *experimentService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Experiment, error) {
	experiment, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if experiment.OrganizationID != orgID {
		return nil, utils.ErrForbidden
	}
	return experiment, nil
}

func (s *experimentService) List(ctx context.Context, orgID uuid.UUID, query string, limit, offset int) ([]models.Experiment, int64, error) {
	where, err := searchquery.CompileToSQL(searchquery.Parse(query))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", utils.ErrInvalidInput, err.Error())
	}
	if limit <= 0 {
		limit = 100
	}
	return s.experiments.List(ctx, orgID, where, limit, offset)
}

func (s *experimentService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateExperimentRequest) (*models.Experiment, error) {
	experiment, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		experiment.Name = *req.Name
	}
	if req.Status != nil {
		experiment.Status = *req.Status
	}
	if req.Parameters != nil {
		experiment.Parameters = req.Parameters
	}
	if err := s.experiments.Update(ctx, experiment); err != nil {
		return nil, fmt.Errorf("failed to update experiment: %w", err)
	}
	return experiment, nil
}

func (s *experimentService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.experiments.Delete(ctx, id, orgID)
}

// ScoreAndStore scores one example's output against the dataset and example
// metrics, merges the result into the experiment, and updates the running
// summaries. Individual metric failures are reported in the response but do
// not fail the request.
func (s *experimentService) ScoreAndStore(ctx context.Context, orgID, experimentID uuid.UUID, exampleID string, req *models.ScoreAndStoreRequest) (*models.ScoreAndStoreResponse, error) {
	log := logger.GetLogger(ctx)

	experiment, err := s.experiments.GetByID(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	if experiment.OrganizationID != orgID {
		return nil, utils.ErrForbidden
	}

	example, err := s.store.GetExample(ctx, exampleID, orgID.String())
	if err != nil {
		return nil, err
	}
	if example.Dataset != experiment.DatasetID.String() {
		return nil, utils.ErrExampleNotFound
	}

	dataset, err := s.datasets.GetByID(ctx, experiment.DatasetID, orgID)
	if err != nil {
		return nil, err
	}

	metrics := make([]models.Metric, 0, len(dataset.Metrics)+len(example.Metrics))
	metrics = append(metrics, dataset.Metrics...)
	metrics = append(metrics, example.Metrics...)

	scores := make(map[string]float64, len(req.Scores))
	metricErrors := make(map[string]string)

	// Client-supplied scores always win; this is also how number and system
	// metrics (and the runner's duration) arrive.
	for name, value := range req.Scores {
		if isFinite(value) {
			scores[name] = value
		}
	}

	for i := range metrics {
		metric := &metrics[i]
		name := metricName(metric)
		if _, supplied := scores[name]; supplied {
			continue
		}
		if metric.Kind == models.MetricKindNumber || metric.Kind == models.MetricKindSystem {
			continue
		}
		value, err := s.scorer.Score(ctx, metric, req.Output, example, orgID)
		if err != nil {
			log.Warn("Metric scoring failed", "experiment", experimentID, "example", exampleID, "metric", name, "error", err)
			metricErrors[name] = err.Error()
			continue
		}
		if !isFinite(value) {
			metricErrors[name] = "metric produced a non-finite value"
			continue
		}
		scores[name] = value
	}

	// Read-modify-write under a row lock so concurrent submissions for
	// different examples of the same experiment do not lose results
	err = s.experiments.RunInTransaction(func(txRepo repositories.ExperimentRepository) error {
		locked, err := txRepo.GetByIDForUpdate(ctx, experimentID)
		if err != nil {
			return err
		}
		locked.UpsertResult(models.ExperimentResult{
			ExampleID: exampleID,
			TraceID:   req.TraceID,
			Scores:    scores,
			Errors:    metricErrors,
		})
		// Summaries are append-only here; replaced results drift until
		// RecalculateSummaries runs
		locked.ObserveScores(scores)
		locked.AddTrace(req.TraceID)
		return txRepo.Update(ctx, locked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	resp := &models.ScoreAndStoreResponse{
		Success:   true,
		ExampleID: exampleID,
		Scores:    scores,
	}
	if len(metricErrors) > 0 {
		resp.Errors = metricErrors
	}
	return resp, nil
}

// RecalculateSummaries rebuilds the per-metric statistics from the stored
// results, correcting the drift that result replacement introduces
func (s *experimentService) RecalculateSummaries(ctx context.Context, orgID, id uuid.UUID) (*models.Experiment, error) {
	var experiment *models.Experiment
	err := s.experiments.RunInTransaction(func(txRepo repositories.ExperimentRepository) error {
		locked, err := txRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked.OrganizationID != orgID {
			return utils.ErrForbidden
		}
		locked.RecalculateSummaries()
		if err := txRepo.Update(ctx, locked); err != nil {
			return err
		}
		experiment = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return experiment, nil
}

// metricName is the key a metric's score is stored under: the display name
// when set, otherwise the metric ID
func metricName(metric *models.Metric) string {
	if metric.Name != "" {
		return metric.Name
	}
	return metric.ID
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
