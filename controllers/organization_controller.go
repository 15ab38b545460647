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

	"github.com/aiqa-platform/evaluation-service/services"
	"github.com/aiqa-platform/evaluation-service/utils"
)

type OrganizationController interface {
	GetOrganization(w http.ResponseWriter, r *http.Request)
	CreateAPIKey(w http.ResponseWriter, r *http.Request)
	ListAPIKeys(w http.ResponseWriter, r *http.Request)
	DeleteAPIKey(w http.ResponseWriter, r *http.Request)
}

type organizationController struct {
	orgs services.OrganizationService
}

// NewOrganizationController creates a new organization controller instance
func NewOrganizationController(orgs services.OrganizationService) OrganizationController {
	return &organizationController{orgs: orgs}
}

// GetOrganization handles GET /organization: the caller's own tenant
func (c *organizationController) GetOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	org, err := c.orgs.Get(ctx, orgID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, org)
}

// CreateAPIKey handles POST /organization/apikey. The body carries the
// SHA-256 hash and last-4 suffix; plaintext keys never reach the server.
func (c *organizationController) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	var req services.CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	key, err := c.orgs.CreateAPIKey(ctx, orgID, &req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, key)
}

// ListAPIKeys handles GET /organization/apikey
func (c *organizationController) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}

	keys, err := c.orgs.ListAPIKeys(ctx, orgID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, keys)
}

// DeleteAPIKey handles DELETE /organization/apikey/{id}
func (c *organizationController) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := requireOrg(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.orgs.DeleteAPIKey(ctx, orgID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
