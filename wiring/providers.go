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

package wiring

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/aiqa-platform/evaluation-service/config"
	"github.com/aiqa-platform/evaluation-service/controllers"
	"github.com/aiqa-platform/evaluation-service/llm"
	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/sandbox"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/services"
)

// ProvideStore narrows the search client to the interface the services use
func ProvideStore(store *search.Client) services.Store {
	return store
}

// ProvideLLMClient builds the judge-model client from provider credentials
func ProvideLLMClient(cfg *config.Config) *llm.Client {
	return llm.New(cfg.Providers)
}

// ProvideSandboxRunner builds the javascript metric runner with the
// configured timeout
func ProvideSandboxRunner(cfg *config.Config) *sandbox.Runner {
	return sandbox.New(time.Duration(cfg.Sandbox.TimeoutSeconds) * time.Second)
}

// ProvideHealthController wires the liveness probe to both backing stores
func ProvideHealthController(cfg *config.Config, gormDB *gorm.DB, store *search.Client) controllers.HealthController {
	return controllers.NewHealthController(gormDB, store,
		time.Duration(cfg.HealthCheckTimeoutSeconds)*time.Second)
}

// ProvideAuthMiddleware builds the credential middleware over the API key
// repository
func ProvideAuthMiddleware(cfg *config.Config, keys repositories.APIKeyRepository) func(http.Handler) http.Handler {
	return middleware.Authenticate(keys, cfg.JWTSecret, cfg.AuthHeader)
}
