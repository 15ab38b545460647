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

// Package controllers holds the HTTP handlers. Controllers decode requests,
// delegate to services, and translate sentinel errors to status codes; they
// carry no business logic of their own.
package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// writeServiceError maps a service error onto the HTTP response. Internal
// errors are logged with detail but surfaced as a generic message.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status := utils.HTTPStatusForError(err)
	if status == http.StatusInternalServerError {
		logger.GetLogger(ctx).Error("Request failed", "error", err)
		utils.WriteErrorResponse(w, status, "Internal server error")
		return
	}
	utils.WriteErrorResponse(w, status, err.Error())
}

// requireOrg returns the authenticated organization ID, writing a 401 when
// the auth middleware put nothing on the context. When the request names an
// organization explicitly it must match the credential's.
func requireOrg(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	auth := middleware.GetAuthContext(r.Context())
	if auth == nil || auth.Organization == nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	orgID := auth.Organization.ID
	requested := r.URL.Query().Get("organisation")
	if requested == "" {
		requested = r.URL.Query().Get("organization")
	}
	if requested != "" && requested != orgID.String() {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Credential does not belong to the requested organization")
		return uuid.Nil, false
	}
	return orgID, true
}

// pathUUID parses a UUID path segment, writing a 400 on failure
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads limit and offset query parameters with the given default
func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
