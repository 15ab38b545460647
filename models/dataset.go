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

import (
	"time"

	"github.com/google/uuid"
)

// MetricKind identifies how a metric score is produced
type MetricKind string

const (
	// MetricKindNumber passes a caller-supplied numeric value through unchanged
	MetricKindNumber MetricKind = "number"
	// MetricKindSystem is reserved for scores the platform computes itself,
	// such as latency
	MetricKindSystem MetricKind = "system"
	// MetricKindJavascript evaluates a user-supplied script in a sandbox
	MetricKindJavascript MetricKind = "javascript"
	// MetricKindLLM asks a judge model to grade the output
	MetricKindLLM MetricKind = "llm"
	// Deterministic comparators against the example's expected outputs
	MetricKindEquals      MetricKind = "equals"
	MetricKindNotEquals   MetricKind = "not_equals"
	MetricKindContains    MetricKind = "contains"
	MetricKindNotContains MetricKind = "not_contains"
	MetricKindSimilar     MetricKind = "similar"
)

// Metric describes one way of scoring experiment outputs against a dataset
// example. Which fields apply depends on the kind.
type Metric struct {
	ID   string     `json:"id"`
	Name string     `json:"name,omitempty"`
	Kind MetricKind `json:"kind"`
	Unit string     `json:"unit,omitempty"`

	// LLM judge configuration
	Provider       string `json:"provider,omitempty"`
	Model          string `json:"model,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	PromptCriteria string `json:"promptCriteria,omitempty"`

	// Javascript metric source
	Code string `json:"code,omitempty"`

	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Dataset is the database model for evaluation datasets. The examples
// themselves live in the search engine, keyed by the dataset ID.
type Dataset struct {
	ID             uuid.UUID   `gorm:"column:id;primaryKey" json:"id"`
	OrganizationID uuid.UUID   `gorm:"column:organization_id" json:"organization"`
	Name           string      `gorm:"column:name" json:"name"`
	Description    string      `gorm:"column:description" json:"description,omitempty"`
	Tags           StringArray `gorm:"column:tags;type:text[]" json:"tags,omitempty"`
	Metrics        []Metric    `gorm:"column:metrics;type:jsonb;serializer:json" json:"metrics,omitempty"`
	CreatedAt      time.Time   `gorm:"column:created_at" json:"created"`
	UpdatedAt      time.Time   `gorm:"column:updated_at" json:"updated"`
}

// TableName overrides the GORM default pluralisation
func (Dataset) TableName() string {
	return "datasets"
}

// MetricByID returns the metric with the given ID, or nil
func (d *Dataset) MetricByID(id string) *Metric {
	for i := range d.Metrics {
		if d.Metrics[i].ID == id {
			return &d.Metrics[i]
		}
	}
	return nil
}
