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

package utils

import "errors"

var (
	// Resource not found errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrDatasetNotFound      = errors.New("dataset not found")
	ErrExampleNotFound      = errors.New("example not found")
	ErrExperimentNotFound   = errors.New("experiment not found")
	ErrModelNotFound        = errors.New("model not found")
	ErrSpanNotFound         = errors.New("span not found")
	ErrAPIKeyNotFound       = errors.New("api key not found")

	// Conflict errors
	ErrExampleAlreadyExists = errors.New("example already exists")

	// Request errors
	ErrBadRequest    = errors.New("bad request")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidColumn = errors.New("Invalid column name")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Quota errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Server errors
	ErrServiceUnavailable = errors.New("service unavailable")
)
