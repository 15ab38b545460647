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

package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiqa-platform/evaluation-service/models"
)

// fakeServer emulates the experiment and example endpoints
type fakeServer struct {
	mu sync.Mutex

	examples     []*models.Example
	experimentID uuid.UUID

	createdExperiments int
	scoreCalls         []models.ScoreAndStoreRequest
	lastAuthorization  string
}

func (s *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /experiment", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.createdExperiments++
		s.lastAuthorization = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.Experiment{ID: s.experimentID})
	})
	mux.HandleFunc("GET /example", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ListResponse[*models.Example]{
			Items: s.examples,
			Total: int64(len(s.examples)),
		})
	})
	mux.HandleFunc("POST /experiment/{id}/example/{exampleId}/scoreAndStore", func(w http.ResponseWriter, r *http.Request) {
		var req models.ScoreAndStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.scoreCalls = append(s.scoreCalls, req)
		s.mu.Unlock()
		json.NewEncoder(w).Encode(models.ScoreAndStoreResponse{
			Success:   true,
			ExampleID: r.PathValue("exampleId"),
			Scores:    req.Scores,
		})
	})
	return mux
}

func newRunFixture(t *testing.T, examples ...*models.Example) (*Runner, *fakeServer) {
	t.Helper()
	fs := &fakeServer{examples: examples, experimentID: uuid.New()}
	server := httptest.NewServer(fs.handler())
	t.Cleanup(server.Close)

	return New(Config{ServerURL: server.URL, APIKey: "test-key"}), fs
}

func datasetExample(id string) *models.Example {
	return &models.Example{ID: id, Input: "question-" + id, TraceID: "trace-" + id}
}

func TestRunScoresEveryExample(t *testing.T) {
	runner, fs := newRunFixture(t, datasetExample("e1"), datasetExample("e2"))

	var engineCalls int
	experimentID, err := runner.Run(context.Background(), Options{
		DatasetID: uuid.NewString(),
		Engine: func(_ context.Context, input interface{}, _ map[string]interface{}) (interface{}, error) {
			engineCalls++
			return "answer to " + input.(string), nil
		},
		Scorer: func(_ context.Context, output interface{}, _ *models.Example) (map[string]float64, error) {
			return map[string]float64{"accuracy": 1}, nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, fs.experimentID.String(), experimentID)
	assert.Equal(t, 1, fs.createdExperiments)
	assert.Equal(t, 2, engineCalls)
	require.Len(t, fs.scoreCalls, 2)

	first := fs.scoreCalls[0]
	assert.Equal(t, "answer to question-e1", first.Output)
	assert.Equal(t, "trace-e1", first.TraceID)
	assert.Equal(t, 1.0, first.Scores["accuracy"])
	assert.Contains(t, first.Scores, "duration")
	assert.Equal(t, "ApiKey test-key", fs.lastAuthorization)
}

func TestRunReusesExistingExperiment(t *testing.T) {
	runner, fs := newRunFixture(t, datasetExample("e1"))
	existing := uuid.NewString()

	experimentID, err := runner.Run(context.Background(), Options{
		DatasetID:    uuid.NewString(),
		ExperimentID: existing,
		Engine: func(context.Context, interface{}, map[string]interface{}) (interface{}, error) {
			return "ok", nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, existing, experimentID)
	assert.Zero(t, fs.createdExperiments)
	assert.Len(t, fs.scoreCalls, 1)
}

func TestRunComparisonParameters(t *testing.T) {
	runner, fs := newRunFixture(t, datasetExample("e1"))
	t.Setenv("MODEL_UNDER_TEST", "")

	var seen []string
	_, err := runner.Run(context.Background(), Options{
		DatasetID:  uuid.NewString(),
		Parameters: map[string]interface{}{"TEMPERATURE": "0"},
		ComparisonParameters: []map[string]interface{}{
			{"MODEL_UNDER_TEST": "model-a"},
			{"MODEL_UNDER_TEST": "model-b"},
		},
		Engine: func(_ context.Context, _ interface{}, params map[string]interface{}) (interface{}, error) {
			// parameters reach the engine both merged and via the environment
			seen = append(seen, params["MODEL_UNDER_TEST"].(string))
			assert.Equal(t, params["MODEL_UNDER_TEST"], os.Getenv("MODEL_UNDER_TEST"))
			assert.Equal(t, "0", params["TEMPERATURE"])
			return "ok", nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"model-a", "model-b"}, seen)
	assert.Len(t, fs.scoreCalls, 2)
}

func TestRunValidation(t *testing.T) {
	runner, _ := newRunFixture(t)

	_, err := runner.Run(context.Background(), Options{DatasetID: uuid.NewString()})
	assert.ErrorContains(t, err, "engine")

	_, err = runner.Run(context.Background(), Options{
		Engine: func(context.Context, interface{}, map[string]interface{}) (interface{}, error) {
			return nil, nil
		},
	})
	assert.ErrorContains(t, err, "dataset")
}

func TestRunEngineFailureStopsRun(t *testing.T) {
	runner, fs := newRunFixture(t, datasetExample("e1"), datasetExample("e2"))

	_, err := runner.Run(context.Background(), Options{
		DatasetID: uuid.NewString(),
		Engine: func(context.Context, interface{}, map[string]interface{}) (interface{}, error) {
			return nil, assert.AnError
		},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "engine failed on example e1")
	assert.Empty(t, fs.scoreCalls)
}

func TestMergeParametersOverlayWins(t *testing.T) {
	merged := mergeParameters(
		map[string]interface{}{"a": "1", "b": "2"},
		map[string]interface{}{"b": "3"},
	)
	assert.Equal(t, map[string]interface{}{"a": "1", "b": "3"}, merged)
}
