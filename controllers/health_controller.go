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
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/db"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/utils"
)

type HealthController interface {
	Healthz(w http.ResponseWriter, r *http.Request)
}

type healthController struct {
	db      *gorm.DB
	store   *search.Client
	timeout time.Duration
}

// NewHealthController creates a new health controller instance
func NewHealthController(gormDB *gorm.DB, store *search.Client, timeout time.Duration) HealthController {
	return &healthController{
		db:      gormDB,
		store:   store,
		timeout: timeout,
	}
}

// Healthz handles GET /healthz: liveness requires both backing stores
func (c *healthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	if err := db.Ping(ctx, c.db); err != nil {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	if err := c.store.Ping(ctx); err != nil {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "search engine unreachable")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
