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

//go:build wireinject
// +build wireinject

package wiring

import (
	"gorm.io/gorm"

	"github.com/google/wire"

	"github.com/aiqa-platform/evaluation-service/config"
	"github.com/aiqa-platform/evaluation-service/controllers"
	"github.com/aiqa-platform/evaluation-service/ratelimit"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/services"
)

var repositoryProviderSet = wire.NewSet(
	repositories.NewOrganizationRepo,
	repositories.NewAPIKeyRepo,
	repositories.NewDatasetRepo,
	repositories.NewModelRepo,
	repositories.NewExperimentRepo,
)

var serviceProviderSet = wire.NewSet(
	ProvideStore,
	ProvideLLMClient,
	ProvideSandboxRunner,
	services.NewScorer,
	services.NewIngestionService,
	services.NewExperimentService,
	services.NewExampleService,
	services.NewDatasetService,
	services.NewModelService,
	services.NewOrganizationService,
)

var controllerProviderSet = wire.NewSet(
	controllers.NewSpanController,
	controllers.NewExperimentController,
	controllers.NewExampleController,
	controllers.NewDatasetController,
	controllers.NewModelController,
	controllers.NewOrganizationController,
	ProvideHealthController,
)

// NewAppParams assembles the full application object graph
func NewAppParams(cfg *config.Config, gormDB *gorm.DB, store *search.Client, limiter *ratelimit.Limiter) (*AppParams, error) {
	wire.Build(
		repositoryProviderSet,
		serviceProviderSet,
		controllerProviderSet,
		ProvideAuthMiddleware,
		wire.Struct(new(AppParams), "*"),
	)
	return nil, nil
}
