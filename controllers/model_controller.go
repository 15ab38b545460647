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

type ModelController interface {
	CreateModel(w http.ResponseWriter, r *http.Request)
	GetModel(w http.ResponseWriter, r *http.Request)
	ListModels(w http.ResponseWriter, r *http.Request)
	DeleteModel(w http.ResponseWriter, r *http.Request)
}

type modelController struct {
	models services.ModelService
}

// NewModelController creates a new model controller instance
func NewModelController(modelService services.ModelService) ModelController {
	return &modelController{models: modelService}
}

// CreateModel handles POST /model
func (c *modelController) CreateModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	var model models.Model
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	created, err := c.models.Create(ctx, orgID, &model)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, created)
}

// GetModel handles GET /model/{id}
func (c *modelController) GetModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	model, err := c.models.Get(ctx, orgID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, model)
}

// ListModels handles GET /model?limit=&offset=
func (c *modelController) ListModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r, 100)

	items, total, err := c.models.List(ctx, orgID, limit, offset)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, models.ListResponse[models.Model]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// DeleteModel handles DELETE /model/{id}
func (c *modelController) DeleteModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.models.Delete(ctx, orgID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
