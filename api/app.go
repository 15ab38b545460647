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

	"github.com/aiqa-platform/evaluation-service/config"
	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/wiring"
)

// MakeHTTPHandler creates a new HTTP handler with middleware and routes.
// OTLP clients expect the span endpoint at the root, so all routes are
// mounted without a version prefix.
func MakeHTTPHandler(params *wiring.AppParams) http.Handler {
	mux := http.NewServeMux()

	// Liveness stays outside the auth chain
	mux.HandleFunc("GET /healthz", params.HealthController.Healthz)

	apiMux := http.NewServeMux()
	registerSpanRoutes(apiMux, params.SpanController)
	registerExperimentRoutes(apiMux, params.ExperimentController)
	registerExampleRoutes(apiMux, params.ExampleController)
	registerDatasetRoutes(apiMux, params.DatasetController)
	registerModelRoutes(apiMux, params.ModelController)
	registerOrganizationRoutes(apiMux, params.OrganizationController)

	// Apply middleware in reverse order (last middleware is applied first)
	apiHandler := http.Handler(apiMux)
	apiHandler = params.AuthMiddleware(apiHandler)
	apiHandler = middleware.AddCorrelationID()(apiHandler)
	apiHandler = logger.RequestLogger()(apiHandler)
	apiHandler = middleware.CORS(config.GetConfig().CORSAllowedOrigin)(apiHandler)
	apiHandler = middleware.RecovererOnPanic()(apiHandler)

	mux.Handle("/", apiHandler)

	return mux
}
