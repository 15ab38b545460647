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

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aiqa-platform/evaluation-service/llm"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/repositories"
	"github.com/aiqa-platform/evaluation-service/sandbox"
)

// Scorer computes a metric score for an experiment output. Number and system
// metrics are not computed here; their values come from the client and the
// caller skips them when absent.
type Scorer interface {
	Score(ctx context.Context, metric *models.Metric, output interface{}, example *models.Example, orgID uuid.UUID) (float64, error)
}

type scorerService struct {
	modelRepo repositories.ModelRepository
	judge     *llm.Client
	sandbox   *sandbox.Runner
}

// NewScorer creates a new scorer service instance
func NewScorer(modelRepo repositories.ModelRepository, judge *llm.Client, sandboxRunner *sandbox.Runner) Scorer {
	return &scorerService{
		modelRepo: modelRepo,
		judge:     judge,
		sandbox:   sandboxRunner,
	}
}

func (s *scorerService) Score(ctx context.Context, metric *models.Metric, output interface{}, example *models.Example, orgID uuid.UUID) (float64, error) {
	switch metric.Kind {
	case models.MetricKindJavascript:
		// Scripts see the example in its JSON shape, matching what the API
		// returns for it
		return s.sandbox.Score(metric.Code, output, exampleDocument(example))
	case models.MetricKindLLM:
		return s.scoreWithJudge(ctx, metric, output, example, orgID)
	case models.MetricKindEquals, models.MetricKindNotEquals,
		models.MetricKindContains, models.MetricKindNotContains,
		models.MetricKindSimilar:
		return compareOutputs(metric.Kind, output, example)
	case models.MetricKindNumber, models.MetricKindSystem:
		return 0, fmt.Errorf("metric kind %q takes its value from the client", metric.Kind)
	default:
		return 0, fmt.Errorf("unknown metric kind %q", metric.Kind)
	}
}

func (s *scorerService) scoreWithJudge(ctx context.Context, metric *models.Metric, output interface{}, example *models.Example, orgID uuid.UUID) (float64, error) {
	provider := metric.Provider
	modelID := metric.Model

	// A metric may reference a registered model by ID or name instead of
	// carrying provider details inline.
	if provider == "" && metric.Model != "" {
		registered, err := s.modelRepo.GetByRef(ctx, metric.Model, orgID)
		if err != nil {
			return 0, err
		}
		provider = registered.Provider
		modelID = registered.ModelID
	}

	prompt := buildJudgePrompt(metric, output, example)
	response, err := s.judge.Complete(ctx, provider, modelID, prompt)
	if err != nil {
		return 0, err
	}
	return llm.ExtractScore(response)
}

// buildJudgePrompt assembles the grading prompt from the metric's own prompt,
// its criteria, or the example's annotated outputs, in that order of
// preference. The judge is always asked for a 0-10 score so extraction stays
// uniform.
func buildJudgePrompt(metric *models.Metric, output interface{}, example *models.Example) string {
	var b strings.Builder

	switch {
	case metric.Prompt != "":
		b.WriteString(metric.Prompt)
	case metric.PromptCriteria != "":
		b.WriteString("You are grading the output of an AI application against the following criteria:\n")
		b.WriteString(metric.PromptCriteria)
	default:
		b.WriteString("You are grading the output of an AI application against reference answers.\n")
		if example != nil && example.Outputs != nil {
			if example.Outputs.Good != nil {
				b.WriteString("\nExample of a good output:\n")
				b.WriteString(stringifyOutput(example.Outputs.Good))
				b.WriteString("\n")
			}
			if example.Outputs.Bad != nil {
				b.WriteString("\nExample of a bad output:\n")
				b.WriteString(stringifyOutput(example.Outputs.Bad))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n\nOutput to grade:\n")
	b.WriteString(stringifyOutput(output))
	b.WriteString("\n\nRespond with a single score from 0 to 10.")
	return b.String()
}

func compareOutputs(kind models.MetricKind, output interface{}, example *models.Example) (float64, error) {
	if example == nil || example.Outputs == nil || example.Outputs.Good == nil {
		return 0, fmt.Errorf("example has no expected output to compare against")
	}
	candidate := normalizeText(stringifyOutput(output))
	expected := normalizeText(stringifyOutput(example.Outputs.Good))

	var match bool
	switch kind {
	case models.MetricKindEquals:
		match = candidate == expected
	case models.MetricKindNotEquals:
		match = candidate != expected
	case models.MetricKindContains:
		match = strings.Contains(candidate, expected)
	case models.MetricKindNotContains:
		match = !strings.Contains(candidate, expected)
	case models.MetricKindSimilar:
		match = similar(candidate, expected)
	}
	if match {
		return 1, nil
	}
	return 0, nil
}

// similar accepts normalised equality, or containment either way when the
// shorter text covers at least 80% of the longer one.
func similar(a, b string) bool {
	if a == b {
		return true
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(longer) == 0 {
		return true
	}
	if !strings.Contains(longer, shorter) {
		return false
	}
	return float64(len(shorter))/float64(len(longer)) >= 0.8
}

// normalizeText lowercases and collapses runs of whitespace so comparisons
// ignore formatting differences
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// exampleDocument converts an example into the generic map form its JSON
// serialisation has, so metric scripts address fields by their wire names
func exampleDocument(example *models.Example) map[string]interface{} {
	if example == nil {
		return nil
	}
	encoded, err := json.Marshal(example)
	if err != nil {
		return nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil
	}
	return doc
}

func stringifyOutput(output interface{}) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
