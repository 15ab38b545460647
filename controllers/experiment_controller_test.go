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

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// fakeExperiments satisfies services.ExperimentService with canned responses
type fakeExperiments struct {
	created      *models.CreateExperimentRequest
	experiment   *models.Experiment
	scoreReq     *models.ScoreAndStoreRequest
	scoreResp    *models.ScoreAndStoreResponse
	scoreErr     error
	deletedID    uuid.UUID
	recalculated bool
}

func (f *fakeExperiments) Create(_ context.Context, orgID uuid.UUID, req *models.CreateExperimentRequest) (*models.Experiment, error) {
	f.created = req
	return &models.Experiment{ID: uuid.New(), OrganizationID: orgID, Name: req.Name}, nil
}

func (f *fakeExperiments) Get(context.Context, uuid.UUID, uuid.UUID) (*models.Experiment, error) {
	if f.experiment == nil {
		return nil, utils.ErrExperimentNotFound
	}
	return f.experiment, nil
}

func (f *fakeExperiments) List(context.Context, uuid.UUID, string, int, int) ([]models.Experiment, int64, error) {
	return nil, 0, nil
}

func (f *fakeExperiments) Update(context.Context, uuid.UUID, uuid.UUID, *models.UpdateExperimentRequest) (*models.Experiment, error) {
	return f.experiment, nil
}

func (f *fakeExperiments) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	f.deletedID = id
	return nil
}

func (f *fakeExperiments) ScoreAndStore(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string, req *models.ScoreAndStoreRequest) (*models.ScoreAndStoreResponse, error) {
	f.scoreReq = req
	return f.scoreResp, f.scoreErr
}

func (f *fakeExperiments) RecalculateSummaries(context.Context, uuid.UUID, uuid.UUID) (*models.Experiment, error) {
	f.recalculated = true
	return f.experiment, nil
}

func TestCreateExperimentHandler(t *testing.T) {
	fake := &fakeExperiments{}
	controller := NewExperimentController(fake)
	orgID := uuid.New()

	body := `{"dataset":"` + uuid.NewString() + `","name":"run-1"}`
	r := authedRequest(httptest.NewRequest(http.MethodPost, "/experiment", strings.NewReader(body)), orgID)
	w := httptest.NewRecorder()
	controller.CreateExperiment(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, fake.created)
	assert.Equal(t, "run-1", fake.created.Name)
}

func TestCreateExperimentBodyOrganizationMismatch(t *testing.T) {
	controller := NewExperimentController(&fakeExperiments{})

	body := `{"dataset":"` + uuid.NewString() + `","organization":"` + uuid.NewString() + `"}`
	r := authedRequest(httptest.NewRequest(http.MethodPost, "/experiment", strings.NewReader(body)), uuid.New())
	w := httptest.NewRecorder()
	controller.CreateExperiment(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetExperimentNotFound(t *testing.T) {
	controller := NewExperimentController(&fakeExperiments{})

	r := authedRequest(httptest.NewRequest(http.MethodGet, "/experiment/x", nil), uuid.New())
	r.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	controller.GetExperiment(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetExperimentBadID(t *testing.T) {
	controller := NewExperimentController(&fakeExperiments{})

	r := authedRequest(httptest.NewRequest(http.MethodGet, "/experiment/seven", nil), uuid.New())
	r.SetPathValue("id", "seven")
	w := httptest.NewRecorder()
	controller.GetExperiment(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreAndStoreHandler(t *testing.T) {
	exampleID := uuid.NewString()
	fake := &fakeExperiments{
		scoreResp: &models.ScoreAndStoreResponse{
			Success:   true,
			ExampleID: exampleID,
			Scores:    map[string]float64{"accuracy": 1},
		},
	}
	controller := NewExperimentController(fake)

	body := `{"output":"Paris","scores":{"duration":12}}`
	r := authedRequest(httptest.NewRequest(http.MethodPost, "/experiment/x/example/y/scoreAndStore", strings.NewReader(body)), uuid.New())
	r.SetPathValue("id", uuid.NewString())
	r.SetPathValue("exampleId", exampleID)
	w := httptest.NewRecorder()
	controller.ScoreAndStore(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, fake.scoreReq)
	assert.Equal(t, "Paris", fake.scoreReq.Output)
	assert.Equal(t, 12.0, fake.scoreReq.Scores["duration"])

	var resp models.ScoreAndStoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1.0, resp.Scores["accuracy"])
}

func TestScoreAndStoreRejectsBadExampleID(t *testing.T) {
	controller := NewExperimentController(&fakeExperiments{})

	r := authedRequest(httptest.NewRequest(http.MethodPost, "/experiment/x/example/y/scoreAndStore", strings.NewReader("{}")), uuid.New())
	r.SetPathValue("id", uuid.NewString())
	r.SetPathValue("exampleId", "example-7")
	w := httptest.NewRecorder()
	controller.ScoreAndStore(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteExperimentHandler(t *testing.T) {
	fake := &fakeExperiments{}
	controller := NewExperimentController(fake)
	id := uuid.New()

	r := authedRequest(httptest.NewRequest(http.MethodDelete, "/experiment/x", nil), uuid.New())
	r.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	controller.DeleteExperiment(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, fake.deletedID)
}

func TestRecalculateSummariesHandler(t *testing.T) {
	fake := &fakeExperiments{experiment: &models.Experiment{ID: uuid.New()}}
	controller := NewExperimentController(fake)

	r := authedRequest(httptest.NewRequest(http.MethodPost, "/experiment/x/recalculateSummaries", nil), uuid.New())
	r.SetPathValue("id", fake.experiment.ID.String())
	w := httptest.NewRecorder()
	controller.RecalculateSummaries(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, fake.recalculated)
}
