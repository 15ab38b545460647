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

// ExperimentStatus tracks whether an experiment still accepts results
type ExperimentStatus string

const (
	ExperimentStatusOpen   ExperimentStatus = "open"
	ExperimentStatusClosed ExperimentStatus = "closed"
)

// ExperimentResult holds the scores recorded for one dataset example within
// an experiment. Results are keyed by ExampleID; a re-submission for the same
// example replaces the earlier entry.
type ExperimentResult struct {
	ExampleID string             `json:"exampleId"`
	TraceID   string             `json:"traceId,omitempty"`
	Scores    map[string]float64 `json:"scores,omitempty"`
	Messages  map[string]string  `json:"messages,omitempty"`
	Errors    map[string]string  `json:"errors,omitempty"`
}

// SummaryStats are per-metric aggregates maintained online as results arrive,
// using Welford's algorithm so a pass over stored results is not needed.
type SummaryStats struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	// M2 is the running sum of squared deviations from the mean
	M2 float64 `json:"m2"`
	// Variance is the sample variance (n-1 denominator) derived from M2
	Variance float64 `json:"variance"`
}

// Observe folds one score into the running statistics using Welford's update
func (s *SummaryStats) Observe(value float64) {
	s.Count++
	if s.Count == 1 {
		s.Mean = value
		s.Min = value
		s.Max = value
		s.M2 = 0
		s.Variance = 0
		return
	}
	delta := value - s.Mean
	s.Mean += delta / float64(s.Count)
	s.M2 += delta * (value - s.Mean)
	s.Variance = s.M2 / float64(s.Count-1)
	if value < s.Min {
		s.Min = value
	}
	if value > s.Max {
		s.Max = value
	}
}

// Experiment is the database model for an evaluation run over a dataset
type Experiment struct {
	ID             uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"column:organization_id" json:"organization"`
	DatasetID      uuid.UUID  `gorm:"column:dataset_id" json:"dataset"`
	BatchID        *uuid.UUID `gorm:"column:batch_id" json:"batch,omitempty"`

	Name   string           `gorm:"column:name" json:"name"`
	Status ExperimentStatus `gorm:"column:status" json:"status"`

	// Parameters are the app-under-test settings this run was executed with
	Parameters map[string]interface{} `gorm:"column:parameters;type:jsonb;serializer:json" json:"parameters,omitempty"`

	// ComparisonParameters is the older multi-parameter-set form; kept so
	// existing clients that still send it continue to work
	ComparisonParameters []map[string]interface{} `gorm:"column:comparison_parameters;type:jsonb;serializer:json" json:"comparisonParameters,omitempty"`

	Results   []ExperimentResult       `gorm:"column:results;type:jsonb;serializer:json" json:"results,omitempty"`
	Summaries map[string]*SummaryStats `gorm:"column:summaries;type:jsonb;serializer:json" json:"summaries,omitempty"`

	TraceIDs StringArray `gorm:"column:trace_ids;type:text[]" json:"traces,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated"`
}

// TableName overrides the GORM default pluralisation
func (Experiment) TableName() string {
	return "experiments"
}

// UpsertResult records the result for a given example and reports whether an
// earlier entry existed. When one does, the new scores, messages and errors
// are merged into it with new keys overwriting old ones.
func (e *Experiment) UpsertResult(result ExperimentResult) bool {
	for i := range e.Results {
		if e.Results[i].ExampleID != result.ExampleID {
			continue
		}
		existing := &e.Results[i]
		if result.TraceID != "" {
			existing.TraceID = result.TraceID
		}
		existing.Scores = mergeInto(existing.Scores, result.Scores)
		existing.Messages = mergeInto(existing.Messages, result.Messages)
		existing.Errors = mergeInto(existing.Errors, result.Errors)
		return true
	}
	e.Results = append(e.Results, result)
	return false
}

func mergeInto[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// RecalculateSummaries rebuilds the per-metric statistics from the stored
// results. Needed after a result replacement, since Welford updates only
// append.
func (e *Experiment) RecalculateSummaries() {
	summaries := make(map[string]*SummaryStats)
	for i := range e.Results {
		for metric, score := range e.Results[i].Scores {
			stats, ok := summaries[metric]
			if !ok {
				stats = &SummaryStats{}
				summaries[metric] = stats
			}
			stats.Observe(score)
		}
	}
	e.Summaries = summaries
}

// ObserveScores folds a fresh (non-replacing) result's scores into the
// running summaries.
func (e *Experiment) ObserveScores(scores map[string]float64) {
	if e.Summaries == nil {
		e.Summaries = make(map[string]*SummaryStats)
	}
	for metric, score := range scores {
		stats, ok := e.Summaries[metric]
		if !ok {
			stats = &SummaryStats{}
			e.Summaries[metric] = stats
		}
		stats.Observe(score)
	}
}

// AddTrace records a trace ID against the experiment if not already present
func (e *Experiment) AddTrace(traceID string) {
	if traceID == "" {
		return
	}
	for _, t := range e.TraceIDs {
		if t == traceID {
			return
		}
	}
	e.TraceIDs = append(e.TraceIDs, traceID)
}
