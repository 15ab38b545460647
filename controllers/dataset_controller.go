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

type DatasetController interface {
	CreateDataset(w http.ResponseWriter, r *http.Request)
	GetDataset(w http.ResponseWriter, r *http.Request)
	ListDatasets(w http.ResponseWriter, r *http.Request)
	UpdateDataset(w http.ResponseWriter, r *http.Request)
	DeleteDataset(w http.ResponseWriter, r *http.Request)
}

type datasetController struct {
	datasets services.DatasetService
}

// NewDatasetController creates a new dataset controller instance
func NewDatasetController(datasets services.DatasetService) DatasetController {
	return &datasetController{datasets: datasets}
}

// CreateDataset handles POST /dataset
func (c *datasetController) CreateDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	var req models.CreateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	dataset, err := c.datasets.Create(ctx, orgID, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, dataset)
}

// GetDataset handles GET /dataset/{id}
func (c *datasetController) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	dataset, err := c.datasets.Get(ctx, orgID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dataset)
}

// ListDatasets handles GET /dataset?q=&limit=&offset=
func (c *datasetController) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r, 100)

	datasets, total, err := c.datasets.List(ctx, orgID, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, models.ListResponse[models.Dataset]{
		Items:  datasets,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// UpdateDataset handles PUT /dataset/{id}
func (c *datasetController) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	dataset, err := c.datasets.Update(ctx, orgID, id, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dataset)
}

// DeleteDataset handles DELETE /dataset/{id}
func (c *datasetController) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.datasets.Delete(ctx, orgID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
