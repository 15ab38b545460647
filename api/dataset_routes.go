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

func registerDatasetRoutes(mux *http.ServeMux, controller controllers.DatasetController) {
	read := middleware.RequireRole((*models.APIKey).CanRead)
	manage := middleware.RequireRole((*models.APIKey).CanManage)

	mux.Handle("POST /dataset", manage(http.HandlerFunc(controller.CreateDataset)))
	mux.Handle("GET /dataset", read(http.HandlerFunc(controller.ListDatasets)))
	mux.Handle("GET /dataset/{id}", read(http.HandlerFunc(controller.GetDataset)))
	mux.Handle("PUT /dataset/{id}", manage(http.HandlerFunc(controller.UpdateDataset)))
	mux.Handle("DELETE /dataset/{id}", manage(http.HandlerFunc(controller.DeleteDataset)))
}
