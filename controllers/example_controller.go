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

type ExampleController interface {
	CreateExample(w http.ResponseWriter, r *http.Request)
	GetExample(w http.ResponseWriter, r *http.Request)
	ListExamples(w http.ResponseWriter, r *http.Request)
	DeleteExample(w http.ResponseWriter, r *http.Request)
}

type exampleController struct {
	examples services.ExampleService
}

// NewExampleController creates a new example controller instance
func NewExampleController(examples services.ExampleService) ExampleController {
	return &exampleController{examples: examples}
}

// CreateExample handles POST /example
func (c *exampleController) CreateExample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	var req models.CreateExampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Organization != "" && req.Organization != orgID.String() {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Credential does not belong to the requested organization")
		return
	}

	example, err := c.examples.Create(ctx, orgID, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, example)
}

// GetExample handles GET /example/{id}
func (c *exampleController) GetExample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	example, err := c.examples.Get(ctx, orgID, r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, example)
}

// ListExamples handles GET /example?organization=&dataset=&q=&limit=&offset=
func (c *exampleController) ListExamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r, 100)

	examples, total, err := c.examples.List(ctx, orgID,
		r.URL.Query().Get("dataset"), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, models.ListResponse[*models.Example]{
		Items:  examples,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// DeleteExample handles DELETE /example/{id}
func (c *exampleController) DeleteExample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	if err := c.examples.Delete(ctx, orgID, r.PathValue("id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
