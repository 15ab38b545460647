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

// Package runner drives experiments from the client side: it feeds dataset
// examples through the application under test and reports scored outputs to
// the evaluation service.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/aiqa-platform/evaluation-service/models"
)

// defaultMaxExamples bounds how many dataset examples one run fetches
const defaultMaxExamples = 10000

// Engine invokes the application under test with one example's input and the
// merged parameter set, returning the produced output
type Engine func(ctx context.Context, input interface{}, parameters map[string]interface{}) (interface{}, error)

// ScorerFunc computes client-side scores for one output. The runner adds
// duration itself; returned keys overwrite nothing.
type ScorerFunc func(ctx context.Context, output interface{}, example *models.Example) (map[string]float64, error)

// Config carries the connection settings. Zero values fall back to the
// AIQA_SERVER_URL, AIQA_API_KEY and AIQA_ADMIN_EMAIL environment variables.
type Config struct {
	ServerURL  string
	APIKey     string
	AdminEmail string
}

// Options configures one experiment run
type Options struct {
	DatasetID string
	// ExperimentID reuses an existing experiment; empty creates one
	ExperimentID string
	Name         string

	Engine Engine
	Scorer ScorerFunc

	Parameters map[string]interface{}
	// ComparisonParameters is the older multi-parameter-set form; each set is
	// merged over Parameters and run separately
	ComparisonParameters []map[string]interface{}

	MaxExamples int
}

// Runner talks to the evaluation service over HTTP
type Runner struct {
	cfg  Config
	http *retryablehttp.Client
}

// New creates a runner, filling unset config fields from the environment
func New(cfg Config) *Runner {
	if cfg.ServerURL == "" {
		cfg.ServerURL = os.Getenv("AIQA_SERVER_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AIQA_API_KEY")
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = os.Getenv("AIQA_ADMIN_EMAIL")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &Runner{cfg: cfg, http: client}
}

// Run executes the engine over every dataset example and every parameter set,
// reporting each scored output via scoreAndStore. The parameter-set loop is
// strictly sequential: parameters are applied through the process
// environment, which parallel runs would corrupt.
func (r *Runner) Run(ctx context.Context, opts Options) (string, error) {
	if opts.Engine == nil {
		return "", fmt.Errorf("an engine callable is required")
	}
	if opts.DatasetID == "" {
		return "", fmt.Errorf("a dataset id is required")
	}

	experimentID := opts.ExperimentID
	if experimentID == "" {
		created, err := r.createExperiment(ctx, &opts)
		if err != nil {
			return "", err
		}
		experimentID = created
	}

	examples, err := r.fetchExamples(ctx, opts.DatasetID, opts.MaxExamples)
	if err != nil {
		return experimentID, err
	}

	parameterSets := opts.ComparisonParameters
	if len(parameterSets) == 0 {
		parameterSets = []map[string]interface{}{{}}
	}

	for _, example := range examples {
		for _, comparison := range parameterSets {
			merged := mergeParameters(opts.Parameters, comparison)
			applyEnvironment(merged)

			start := time.Now()
			output, err := opts.Engine(ctx, example.Input, merged)
			elapsed := time.Since(start)
			if err != nil {
				return experimentID, fmt.Errorf("engine failed on example %s: %w", example.ID, err)
			}

			scores := map[string]float64{
				"duration": float64(elapsed.Milliseconds()),
			}
			if opts.Scorer != nil {
				clientScores, err := opts.Scorer(ctx, output, example)
				if err != nil {
					return experimentID, fmt.Errorf("scorer failed on example %s: %w", example.ID, err)
				}
				for k, v := range clientScores {
					scores[k] = v
				}
			}

			req := &models.ScoreAndStoreRequest{
				Output:  output,
				TraceID: example.TraceID,
				Scores:  scores,
			}
			if _, err := r.scoreAndStore(ctx, experimentID, example.ID, req); err != nil {
				return experimentID, err
			}
		}
	}
	return experimentID, nil
}

func (r *Runner) createExperiment(ctx context.Context, opts *Options) (string, error) {
	body := &models.CreateExperimentRequest{
		Dataset:              opts.DatasetID,
		Name:                 opts.Name,
		Parameters:           opts.Parameters,
		ComparisonParameters: opts.ComparisonParameters,
	}
	var created models.Experiment
	if err := r.doJSON(ctx, http.MethodPost, "/experiment", body, &created); err != nil {
		return "", fmt.Errorf("failed to create experiment: %w", err)
	}
	return created.ID.String(), nil
}

func (r *Runner) fetchExamples(ctx context.Context, datasetID string, max int) ([]*models.Example, error) {
	if max <= 0 {
		max = defaultMaxExamples
	}
	path := "/example?dataset=" + url.QueryEscape(datasetID) + "&limit=" + strconv.Itoa(max)

	var list models.ListResponse[*models.Example]
	if err := r.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch examples: %w", err)
	}
	return list.Items, nil
}

func (r *Runner) scoreAndStore(ctx context.Context, experimentID, exampleID string, req *models.ScoreAndStoreRequest) (*models.ScoreAndStoreResponse, error) {
	path := fmt.Sprintf("/experiment/%s/example/%s/scoreAndStore", experimentID, exampleID)
	var resp models.ScoreAndStoreResponse
	if err := r.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("scoreAndStore failed for example %s: %w", exampleID, err)
	}
	return &resp, nil
}

func (r *Runner) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, r.cfg.ServerURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "ApiKey "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&failure)
		if failure.Error == "" {
			failure.Error = res.Status
		}
		return fmt.Errorf("server returned %d: %s", res.StatusCode, failure.Error)
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// mergeParameters overlays one comparison set onto the base parameters
func mergeParameters(base, overlay map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// applyEnvironment exports string-valued parameters into the process
// environment so the application under test picks them up
func applyEnvironment(parameters map[string]interface{}) {
	for k, v := range parameters {
		if s, ok := v.(string); ok {
			os.Setenv(k, s)
		}
	}
}
