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

// ExampleOutputs holds the expected good and bad outputs an example was
// annotated with. Deterministic metrics compare candidate output against Good.
type ExampleOutputs struct {
	Good interface{} `json:"good,omitempty"`
	Bad  interface{} `json:"bad,omitempty"`
}

// ExampleSpan is the trimmed copy of a trace span captured into an example
type ExampleSpan struct {
	ID         string                 `json:"id"`
	ParentID   string                 `json:"parent,omitempty"`
	Name       string                 `json:"name,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Example is the search-engine document for a dataset example: a captured
// trace promoted into evaluation data. At most one example may exist per
// (trace, dataset) pair.
type Example struct {
	ID           string `json:"id"`
	Dataset      string `json:"dataset"`
	Organization string `json:"organization"`
	TraceID      string `json:"trace,omitempty"`
	Name         string `json:"name,omitempty"`

	Input   interface{}     `json:"input,omitempty"`
	Outputs *ExampleOutputs `json:"outputs,omitempty"`
	Spans   []ExampleSpan   `json:"spans,omitempty"`

	Tags        []string               `json:"tags,omitempty"`
	Annotations map[string]interface{} `json:"annotations,omitempty"`

	// Metrics are example-specific scoring rules evaluated in addition to the
	// dataset's metrics
	Metrics []Metric `json:"metrics,omitempty"`

	Created int64 `json:"created,omitempty"`
	Updated int64 `json:"updated,omitempty"`
}
