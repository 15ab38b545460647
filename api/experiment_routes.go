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

func registerExperimentRoutes(mux *http.ServeMux, controller controllers.ExperimentController) {
	read := middleware.RequireRole((*models.APIKey).CanRead)
	manage := middleware.RequireRole((*models.APIKey).CanManage)

	mux.Handle("POST /experiment", manage(http.HandlerFunc(controller.CreateExperiment)))
	mux.Handle("GET /experiment", read(http.HandlerFunc(controller.ListExperiments)))
	mux.Handle("GET /experiment/{id}", read(http.HandlerFunc(controller.GetExperiment)))
	mux.Handle("PUT /experiment/{id}", manage(http.HandlerFunc(controller.UpdateExperiment)))
	mux.Handle("DELETE /experiment/{id}", manage(http.HandlerFunc(controller.DeleteExperiment)))

	// Scores one example's output and folds it into the experiment
	mux.Handle("POST /experiment/{id}/example/{exampleId}/scoreAndStore", manage(http.HandlerFunc(controller.ScoreAndStore)))

	// Rebuilds summaries from stored results after replacements
	mux.Handle("POST /experiment/{id}/recalculateSummaries", manage(http.HandlerFunc(controller.RecalculateSummaries)))
}
