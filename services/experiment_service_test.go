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
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

type experimentFixture struct {
	svc     ExperimentService
	repo    *fakeExperimentRepo
	dsRepo  *fakeDatasetRepo
	store   *fakeStore
	scorer  *fakeScorer
	orgID   uuid.UUID
	dataset *models.Dataset
}

func newExperimentFixture(t *testing.T, metrics []models.Metric) *experimentFixture {
	t.Helper()
	orgID := uuid.New()
	dataset := &models.Dataset{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           "qa-suite",
		Metrics:        metrics,
	}
	dsRepo := newFakeDatasetRepo()
	require.NoError(t, dsRepo.Create(context.Background(), dataset))

	repo := newFakeExperimentRepo()
	store := newFakeStore()
	scorer := newFakeScorer(map[string]float64{})
	return &experimentFixture{
		svc:     NewExperimentService(repo, dsRepo, store, scorer),
		repo:    repo,
		dsRepo:  dsRepo,
		store:   store,
		scorer:  scorer,
		orgID:   orgID,
		dataset: dataset,
	}
}

func (f *experimentFixture) addExample(id string) *models.Example {
	example := &models.Example{
		ID:           id,
		Dataset:      f.dataset.ID.String(),
		Organization: f.orgID.String(),
		Outputs:      &models.ExampleOutputs{Good: "Paris"},
	}
	f.store.examples[id] = example
	return example
}

func TestCreateExperimentDefaults(t *testing.T) {
	f := newExperimentFixture(t, nil)

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(experiment.Name, "experiment-"))
	assert.Equal(t, models.ExperimentStatusOpen, experiment.Status)
	assert.Equal(t, f.dataset.ID, experiment.DatasetID)
	assert.Nil(t, experiment.BatchID)
}

func TestCreateExperimentRejectsBadDataset(t *testing.T) {
	f := newExperimentFixture(t, nil)

	_, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{Dataset: "not-a-uuid"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{Dataset: uuid.NewString()})
	assert.ErrorIs(t, err, utils.ErrDatasetNotFound)
}

func TestCreateExperimentParsesBatch(t *testing.T) {
	f := newExperimentFixture(t, nil)
	batch := uuid.New()

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
		Batch:   batch.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, experiment.BatchID)
	assert.Equal(t, batch, *experiment.BatchID)

	_, err = f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
		Batch:   "nope",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestGetExperimentOtherOrganization(t *testing.T) {
	f := newExperimentFixture(t, nil)
	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), uuid.New(), experiment.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestScoreAndStoreComputesAndRecords(t *testing.T) {
	f := newExperimentFixture(t, []models.Metric{
		{ID: "m1", Name: "accuracy", Kind: models.MetricKindEquals},
	})
	f.scorer.values["accuracy"] = 1

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())

	resp, err := f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, example.ID, &models.ScoreAndStoreRequest{
		Output:  "Paris",
		TraceID: "trace-1",
		Scores:  map[string]float64{"duration": 125},
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 1.0, resp.Scores["accuracy"])
	assert.Equal(t, 125.0, resp.Scores["duration"])
	assert.Empty(t, resp.Errors)

	stored, err := f.repo.GetByID(context.Background(), experiment.ID)
	require.NoError(t, err)
	require.Len(t, stored.Results, 1)
	assert.Equal(t, example.ID, stored.Results[0].ExampleID)
	assert.Equal(t, "trace-1", stored.Results[0].TraceID)
	assert.Equal(t, []string{"trace-1"}, []string(stored.TraceIDs))
	assert.Equal(t, int64(1), stored.Summaries["accuracy"].Count)
	assert.Equal(t, 125.0, stored.Summaries["duration"].Mean)
}

func TestScoreAndStoreClientScoreWins(t *testing.T) {
	f := newExperimentFixture(t, []models.Metric{
		{ID: "m1", Name: "accuracy", Kind: models.MetricKindLLM},
	})
	f.scorer.values["accuracy"] = 3

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())

	resp, err := f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, example.ID, &models.ScoreAndStoreRequest{
		Output: "whatever",
		Scores: map[string]float64{"accuracy": 9},
	})
	require.NoError(t, err)

	assert.Equal(t, 9.0, resp.Scores["accuracy"])
	assert.Zero(t, f.scorer.calls["accuracy"], "server must not re-score a client-supplied metric")
}

func TestScoreAndStoreSkipsNumberAndSystemMetrics(t *testing.T) {
	f := newExperimentFixture(t, []models.Metric{
		{ID: "tokens", Kind: models.MetricKindNumber},
		{ID: "latency", Kind: models.MetricKindSystem},
	})

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())

	resp, err := f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, example.ID, &models.ScoreAndStoreRequest{
		Output: "x",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Scores)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, f.scorer.calls)
}

func TestScoreAndStoreMetricErrorIsNotFatal(t *testing.T) {
	f := newExperimentFixture(t, []models.Metric{
		{ID: "good", Kind: models.MetricKindEquals},
		{ID: "broken", Kind: models.MetricKindJavascript},
	})
	f.scorer.values["good"] = 1
	f.scorer.errs["broken"] = errors.New("script threw: boom")

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())

	resp, err := f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, example.ID, &models.ScoreAndStoreRequest{
		Output: "Paris",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 1.0, resp.Scores["good"])
	assert.Contains(t, resp.Errors["broken"], "boom")

	stored, err := f.repo.GetByID(context.Background(), experiment.ID)
	require.NoError(t, err)
	require.Len(t, stored.Results, 1)
	assert.Contains(t, stored.Results[0].Errors["broken"], "boom")
	assert.NotContains(t, stored.Summaries, "broken")
}

func TestScoreAndStoreExampleDatasetMismatch(t *testing.T) {
	f := newExperimentFixture(t, nil)
	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)

	foreign := &models.Example{
		ID:           uuid.NewString(),
		Dataset:      uuid.NewString(),
		Organization: f.orgID.String(),
	}
	f.store.examples[foreign.ID] = foreign

	_, err = f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, foreign.ID, &models.ScoreAndStoreRequest{})
	assert.ErrorIs(t, err, utils.ErrExampleNotFound)
}

func TestScoreAndStoreOtherOrganization(t *testing.T) {
	f := newExperimentFixture(t, nil)
	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())

	_, err = f.svc.ScoreAndStore(context.Background(), uuid.New(), experiment.ID, example.ID, &models.ScoreAndStoreRequest{})
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestScoreAndStoreIncludesExampleMetrics(t *testing.T) {
	f := newExperimentFixture(t, []models.Metric{
		{ID: "shared", Kind: models.MetricKindEquals},
	})
	f.scorer.values["shared"] = 1
	f.scorer.values["extra"] = 0.5

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())
	example.Metrics = []models.Metric{{ID: "extra", Kind: models.MetricKindSimilar}}

	resp, err := f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, example.ID, &models.ScoreAndStoreRequest{
		Output: "Paris",
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, resp.Scores["shared"])
	assert.Equal(t, 0.5, resp.Scores["extra"])
}

func TestRecalculateSummariesCorrectsDrift(t *testing.T) {
	f := newExperimentFixture(t, []models.Metric{
		{ID: "score", Kind: models.MetricKindEquals},
	})
	f.scorer.values["score"] = 0

	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)
	example := f.addExample(uuid.NewString())

	// First submission scores 0, the replacement scores 1. The running
	// summary has seen both observations even though only one result remains.
	for _, v := range []float64{0, 1} {
		_, err = f.svc.ScoreAndStore(context.Background(), f.orgID, experiment.ID, example.ID, &models.ScoreAndStoreRequest{
			Scores: map[string]float64{"score": v},
		})
		require.NoError(t, err)
	}

	stored, err := f.repo.GetByID(context.Background(), experiment.ID)
	require.NoError(t, err)
	require.Len(t, stored.Results, 1)
	assert.Equal(t, int64(2), stored.Summaries["score"].Count)

	recalculated, err := f.svc.RecalculateSummaries(context.Background(), f.orgID, experiment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recalculated.Summaries["score"].Count)
	assert.Equal(t, 1.0, recalculated.Summaries["score"].Mean)
}

func TestRecalculateSummariesOtherOrganization(t *testing.T) {
	f := newExperimentFixture(t, nil)
	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.RecalculateSummaries(context.Background(), uuid.New(), experiment.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestUpdateExperimentStatus(t *testing.T) {
	f := newExperimentFixture(t, nil)
	experiment, err := f.svc.Create(context.Background(), f.orgID, &models.CreateExperimentRequest{
		Dataset: f.dataset.ID.String(),
	})
	require.NoError(t, err)

	closed := models.ExperimentStatusClosed
	updated, err := f.svc.Update(context.Background(), f.orgID, experiment.ID, &models.UpdateExperimentRequest{
		Status: &closed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExperimentStatusClosed, updated.Status)
}
