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

package api

import (
	"net/http"

	"github.com/aiqa-platform/evaluation-service/controllers"
	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/models"
)

func registerOrganizationRoutes(mux *http.ServeMux, controller controllers.OrganizationController) {
	read := middleware.RequireRole((*models.APIKey).CanRead)
	admin := middleware.RequireRole(func(k *models.APIKey) bool { return k.Role == models.RoleAdmin })

	mux.Handle("GET /organization", read(http.HandlerFunc(controller.GetOrganization)))
	mux.Handle("POST /organization/apikey", admin(http.HandlerFunc(controller.CreateAPIKey)))
	mux.Handle("GET /organization/apikey", admin(http.HandlerFunc(controller.ListAPIKeys)))
	mux.Handle("DELETE /organization/apikey/{id}", admin(http.HandlerFunc(controller.DeleteAPIKey)))
}
