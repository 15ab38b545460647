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
	"encoding/json"
	"net/http"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/services"
	"github.com/aiqa-platform/evaluation-service/utils"
)

type ExperimentController interface {
	CreateExperiment(w http.ResponseWriter, r *http.Request)
	GetExperiment(w http.ResponseWriter, r *http.Request)
	ListExperiments(w http.ResponseWriter, r *http.Request)
	UpdateExperiment(w http.ResponseWriter, r *http.Request)
	DeleteExperiment(w http.ResponseWriter, r *http.Request)
	ScoreAndStore(w http.ResponseWriter, r *http.Request)
	RecalculateSummaries(w http.ResponseWriter, r *http.Request)
}

type experimentController struct {
	experiments services.ExperimentService
}

// NewExperimentController creates a new experiment controller instance
func NewExperimentController(experiments services.ExperimentService) ExperimentController {
	return &experimentController{experiments: experiments}
}

// CreateExperiment handles POST /experiment
func (c *experimentController) CreateExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	var req models.CreateExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Organization != "" && req.Organization != orgID.String() {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Credential does not belong to the requested organization")
		return
	}

	experiment, err := c.experiments.Create(ctx, orgID, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, experiment)
}

// GetExperiment handles GET /experiment/{id}
func (c *experimentController) GetExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	experiment, err := c.experiments.Get(ctx, orgID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, experiment)
}

// ListExperiments handles GET /experiment?organization=&q=&limit=&offset=
func (c *experimentController) ListExperiments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r, 100)

	experiments, total, err := c.experiments.List(ctx, orgID, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, models.ListResponse[models.Experiment]{
		Items:  experiments,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// UpdateExperiment handles PUT /experiment/{id}
func (c *experimentController) UpdateExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	experiment, err := c.experiments.Update(ctx, orgID, id, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, experiment)
}

// DeleteExperiment handles DELETE /experiment/{id}
func (c *experimentController) DeleteExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.experiments.Delete(ctx, orgID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ScoreAndStore handles POST /experiment/{id}/example/{exampleId}/scoreAndStore
func (c *experimentController) ScoreAndStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	exampleID := r.PathValue("exampleId")
	if !utils.IsValidUUID(exampleID) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "exampleId must be a UUID")
		return
	}

	var req models.ScoreAndStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	resp, err := c.experiments.ScoreAndStore(ctx, orgID, id, exampleID, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// RecalculateSummaries handles POST /experiment/{id}/recalculateSummaries
func (c *experimentController) RecalculateSummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	experiment, err := c.experiments.RecalculateSummaries(ctx, orgID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, experiment)
}
