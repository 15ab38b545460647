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
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	threshold int
	spans     map[string]*models.Span
	examples  map[string]*models.Example
	// patches records UpdateSpan calls by span ID
	patches map[string]map[string]interface{}

	bulkSpanErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		threshold: 32768,
		spans:     make(map[string]*models.Span),
		examples:  make(map[string]*models.Example),
		patches:   make(map[string]map[string]interface{}),
	}
}

func (f *fakeStore) UnindexedThreshold() int { return f.threshold }

func (f *fakeStore) BulkInsertSpans(_ context.Context, spans []*models.Span) error {
	if f.bulkSpanErr != nil {
		return f.bulkSpanErr
	}
	for _, s := range spans {
		f.spans[s.ID] = s
	}
	return nil
}

func (f *fakeStore) SearchSpans(_ context.Context, query, orgID string, _ search.SearchOptions) ([]*models.Span, int64, error) {
	var out []*models.Span
	for _, s := range f.spans {
		if s.Organization != orgID {
			continue
		}
		if query != "" && !strings.Contains(query, s.TraceID) {
			continue
		}
		if strings.Contains(query, "parent:unset") && s.ParentID != "" {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetSpan(_ context.Context, id, orgID string) (*models.Span, error) {
	s, ok := f.spans[id]
	if !ok || s.Organization != orgID {
		return nil, utils.ErrSpanNotFound
	}
	return s, nil
}

func (f *fakeStore) UpdateSpan(_ context.Context, id, orgID string, patch map[string]interface{}) error {
	s, ok := f.spans[id]
	if !ok || s.Organization != orgID {
		return utils.ErrSpanNotFound
	}
	f.patches[id] = patch
	return nil
}

func (f *fakeStore) MutateSpan(_ context.Context, id, orgID string, mutate func(*models.Span) bool) error {
	s, ok := f.spans[id]
	if !ok || s.Organization != orgID {
		return utils.ErrSpanNotFound
	}
	mutate(s)
	return nil
}

func (f *fakeStore) BulkInsertExamples(_ context.Context, examples []*models.Example) error {
	for _, e := range examples {
		f.examples[e.ID] = e
	}
	return nil
}

func (f *fakeStore) SearchExamples(_ context.Context, _, orgID, datasetID string, _ search.SearchOptions) ([]*models.Example, int64, error) {
	var out []*models.Example
	for _, e := range f.examples {
		if e.Organization != orgID {
			continue
		}
		if datasetID != "" && e.Dataset != datasetID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetExample(_ context.Context, id, orgID string) (*models.Example, error) {
	e, ok := f.examples[id]
	if !ok || e.Organization != orgID {
		return nil, utils.ErrExampleNotFound
	}
	return e, nil
}

func (f *fakeStore) FindExampleByTraceAndDataset(_ context.Context, orgID, traceID, datasetID string) (*models.Example, error) {
	for _, e := range f.examples {
		if e.Organization == orgID && e.TraceID == traceID && e.Dataset == datasetID {
			return e, nil
		}
	}
	return nil, utils.ErrExampleNotFound
}

func (f *fakeStore) DeleteExample(_ context.Context, id, orgID string) error {
	if _, err := f.GetExample(context.Background(), id, orgID); err != nil {
		return err
	}
	delete(f.examples, id)
	return nil
}

func (f *fakeStore) DeleteExamplesByQuery(_ context.Context, orgID, datasetID string) error {
	for id, e := range f.examples {
		if e.Organization == orgID && e.Dataset == datasetID {
			delete(f.examples, id)
		}
	}
	return nil
}

// fakeExperimentRepo is an in-memory ExperimentRepository
type fakeExperimentRepo struct {
	experiments map[uuid.UUID]*models.Experiment
}

func newFakeExperimentRepo() *fakeExperimentRepo {
	return &fakeExperimentRepo{experiments: make(map[uuid.UUID]*models.Experiment)}
}

func (f *fakeExperimentRepo) WithTx(*gorm.DB) repositories.ExperimentRepository { return f }

func (f *fakeExperimentRepo) RunInTransaction(fn func(repositories.ExperimentRepository) error) error {
	return fn(f)
}

func (f *fakeExperimentRepo) Create(_ context.Context, e *models.Experiment) error {
	f.experiments[e.ID] = e
	return nil
}

func (f *fakeExperimentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Experiment, error) {
	e, ok := f.experiments[id]
	if !ok {
		return nil, utils.ErrExperimentNotFound
	}
	return e, nil
}

func (f *fakeExperimentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Experiment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeExperimentRepo) List(_ context.Context, orgID uuid.UUID, _ string, _, _ int) ([]models.Experiment, int64, error) {
	var out []models.Experiment
	for _, e := range f.experiments {
		if e.OrganizationID == orgID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeExperimentRepo) Update(_ context.Context, e *models.Experiment) error {
	f.experiments[e.ID] = e
	return nil
}

func (f *fakeExperimentRepo) Delete(_ context.Context, id, orgID uuid.UUID) error {
	e, ok := f.experiments[id]
	if !ok || e.OrganizationID != orgID {
		return utils.ErrExperimentNotFound
	}
	delete(f.experiments, id)
	return nil
}

// fakeDatasetRepo is an in-memory DatasetRepository
type fakeDatasetRepo struct {
	datasets map[uuid.UUID]*models.Dataset
}

func newFakeDatasetRepo() *fakeDatasetRepo {
	return &fakeDatasetRepo{datasets: make(map[uuid.UUID]*models.Dataset)}
}

func (f *fakeDatasetRepo) WithTx(*gorm.DB) repositories.DatasetRepository { return f }

func (f *fakeDatasetRepo) Create(_ context.Context, d *models.Dataset) error {
	f.datasets[d.ID] = d
	return nil
}

func (f *fakeDatasetRepo) GetByID(_ context.Context, id, orgID uuid.UUID) (*models.Dataset, error) {
	d, ok := f.datasets[id]
	if !ok || d.OrganizationID != orgID {
		return nil, utils.ErrDatasetNotFound
	}
	return d, nil
}

func (f *fakeDatasetRepo) List(_ context.Context, orgID uuid.UUID, _ string, _, _ int) ([]models.Dataset, int64, error) {
	var out []models.Dataset
	for _, d := range f.datasets {
		if d.OrganizationID == orgID {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDatasetRepo) Update(_ context.Context, d *models.Dataset) error {
	f.datasets[d.ID] = d
	return nil
}

func (f *fakeDatasetRepo) Delete(_ context.Context, id, orgID uuid.UUID) error {
	d, ok := f.datasets[id]
	if !ok || d.OrganizationID != orgID {
		return utils.ErrDatasetNotFound
	}
	delete(f.datasets, id)
	return nil
}

// fakeScorer returns canned values per metric name and counts invocations
type fakeScorer struct {
	values map[string]float64
	errs   map[string]error
	calls  map[string]int
}

func newFakeScorer(values map[string]float64) *fakeScorer {
	return &fakeScorer{
		values: values,
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeScorer) Score(_ context.Context, metric *models.Metric, _ interface{}, _ *models.Example, _ uuid.UUID) (float64, error) {
	name := metricName(metric)
	f.calls[name]++
	if err, ok := f.errs[name]; ok {
		return 0, err
	}
	return f.values[name], nil
}
