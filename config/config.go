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

package config

// Config holds all configuration for the application. It is read once at
// startup and passed by value to the handlers; there is no mutable state here.
type Config struct {
	ServerHost          string
	ServerPort          int
	GRPCPort            int
	AuthHeader          string
	AutoMaxProcsEnabled bool
	LogLevel            string

	// HTTP Server timeout configurations
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
	IdleTimeoutSeconds  int
	MaxHeaderBytes      int

	// Database operation timeout configuration
	DbOperationTimeoutSeconds int
	HealthCheckTimeoutSeconds int

	// CORSAllowedOrigin is the single allowed origin for CORS; use "*" to allow all
	CORSAllowedOrigin string

	// DatabaseURL is the Postgres DSN for the relational store
	DatabaseURL string

	// Search engine configuration
	Search SearchConfig

	// Redis configuration for the rate limiter
	RedisURL string

	// JWT verification for Bearer tokens
	JWTSecret string

	// LLM judge provider credentials
	Providers ProviderConfig

	// Sandbox configuration for javascript metrics
	Sandbox SandboxConfig
}

// SearchConfig holds OpenSearch connection and index settings
type SearchConfig struct {
	// URL is the search engine endpoint
	URL string
	// Username/Password are optional basic-auth credentials
	Username string
	Password string `json:"-"`
	// SpanAlias and ExampleAlias are the logical index aliases
	SpanAlias    string
	ExampleAlias string
	// UnindexedThresholdBytes is the serialised size above which an attribute
	// value is routed to unindexed storage
	UnindexedThresholdBytes int
}

// ProviderConfig holds outbound LLM provider credentials
type ProviderConfig struct {
	OpenAIAPIKey        string `json:"-"`
	AnthropicAPIKey     string `json:"-"`
	GeminiAPIKey        string `json:"-"`
	AzureOpenAIAPIKey   string `json:"-"`
	AzureOpenAIEndpoint string
}

// SandboxConfig holds limits for user-supplied javascript metrics
type SandboxConfig struct {
	// TimeoutSeconds is the hard wall-clock limit for one script run
	TimeoutSeconds int
}
