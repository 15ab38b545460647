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

// Package wiring assembles the application object graph
package wiring

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/controllers"
	"github.com/aiqa-platform/evaluation-service/ratelimit"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/services"
)

// AppParams bundles everything the HTTP handler assembly and the servers need
type AppParams struct {
	DB      *gorm.DB
	Store   *search.Client
	Limiter *ratelimit.Limiter

	APIKeys repositories.APIKeyRepository

	Ingestion services.IngestionService

	SpanController         controllers.SpanController
	ExperimentController   controllers.ExperimentController
	ExampleController      controllers.ExampleController
	DatasetController      controllers.DatasetController
	ModelController        controllers.ModelController
	OrganizationController controllers.OrganizationController
	HealthController       controllers.HealthController

	// AuthMiddleware authenticates ApiKey and Bearer credentials and binds
	// the auth context
	AuthMiddleware func(http.Handler) http.Handler
}
