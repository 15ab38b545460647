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

package models

// CreateExperimentRequest is the body of POST /experiment
type CreateExperimentRequest struct {
	Dataset              string                   `json:"dataset"`
	Organization         string                   `json:"organization"`
	Name                 string                   `json:"name,omitempty"`
	Batch                string                   `json:"batch,omitempty"`
	Parameters           map[string]interface{}   `json:"parameters,omitempty"`
	ComparisonParameters []map[string]interface{} `json:"comparisonParameters,omitempty"`
}

// UpdateExperimentRequest is the body of PUT /experiment/{id}
type UpdateExperimentRequest struct {
	Name       *string                `json:"name,omitempty"`
	Status     *ExperimentStatus      `json:"status,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// ScoreAndStoreRequest is the body of
// POST /experiment/{id}/example/{exampleId}/scoreAndStore
type ScoreAndStoreRequest struct {
	Output  interface{}        `json:"output"`
	TraceID string             `json:"traceId,omitempty"`
	Scores  map[string]float64 `json:"scores,omitempty"`
}

// ScoreAndStoreResponse is returned by the scoreAndStore endpoint. Per-metric
// failures surface in Errors while the request itself still succeeds.
type ScoreAndStoreResponse struct {
	Success   bool               `json:"success"`
	ExampleID string             `json:"exampleId"`
	Scores    map[string]float64 `json:"scores"`
	Errors    map[string]string  `json:"errors,omitempty"`
}

// CreateExampleRequest is the body of POST /example. ID is optional; when
// absent the server generates one.
type CreateExampleRequest struct {
	ID           string                 `json:"id,omitempty"`
	Dataset      string                 `json:"dataset"`
	Organization string                 `json:"organization,omitempty"`
	TraceID      string                 `json:"trace,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Input        interface{}            `json:"input,omitempty"`
	Outputs      *ExampleOutputs        `json:"outputs,omitempty"`
	Spans        []ExampleSpan          `json:"spans,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	Annotations  map[string]interface{} `json:"annotations,omitempty"`
	Metrics      []Metric               `json:"metrics,omitempty"`
}

// CreateDatasetRequest is the body of POST /dataset
type CreateDatasetRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Metrics     []Metric `json:"metrics,omitempty"`
}

// UpdateDatasetRequest is the body of PUT /dataset/{id}
type UpdateDatasetRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Metrics     []Metric `json:"metrics,omitempty"`
}

// ListResponse is the envelope for paginated list endpoints
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
