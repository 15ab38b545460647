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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

func newExampleFixture(t *testing.T) (ExampleService, *fakeStore, uuid.UUID, *models.Dataset) {
	t.Helper()
	orgID := uuid.New()
	dataset := &models.Dataset{ID: uuid.New(), OrganizationID: orgID, Name: "regressions"}

	dsRepo := newFakeDatasetRepo()
	require.NoError(t, dsRepo.Create(context.Background(), dataset))

	store := newFakeStore()
	return NewExampleService(store, dsRepo), store, orgID, dataset
}

func TestCreateExampleGeneratesID(t *testing.T) {
	svc, store, orgID, dataset := newExampleFixture(t)

	example, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		Input:   "What is the capital of France?",
		Outputs: &models.ExampleOutputs{Good: "Paris"},
	})
	require.NoError(t, err)

	assert.True(t, utils.IsValidUUID(example.ID))
	assert.Equal(t, orgID.String(), example.Organization)
	assert.NotZero(t, example.Created)
	assert.Contains(t, store.examples, example.ID)
}

func TestCreateExampleRejectsNonUUIDID(t *testing.T) {
	svc, _, orgID, dataset := newExampleFixture(t)

	_, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		ID:      "example-7",
		Dataset: dataset.ID.String(),
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestCreateExampleRejectsSpanWithoutID(t *testing.T) {
	svc, store, orgID, dataset := newExampleFixture(t)

	_, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		Spans: []models.ExampleSpan{
			{ID: "root", Name: "generate"},
			{Name: "orphan"},
		},
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.Empty(t, store.examples)
}

func TestCreateExampleUnknownDataset(t *testing.T) {
	svc, _, orgID, _ := newExampleFixture(t)

	_, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: uuid.NewString(),
	})
	assert.ErrorIs(t, err, utils.ErrDatasetNotFound)

	_, err = svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: "not-a-uuid",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestCreateExampleDuplicateTrace(t *testing.T) {
	svc, _, orgID, dataset := newExampleFixture(t)

	_, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		TraceID: "trace-1",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		TraceID: "trace-1",
	})
	assert.ErrorIs(t, err, utils.ErrExampleAlreadyExists)
}

func TestCreateExampleSameTraceDifferentDataset(t *testing.T) {
	svc, _, orgID, dataset := newExampleFixture(t)

	other := &models.Dataset{ID: uuid.New(), OrganizationID: orgID, Name: "other"}
	ds := newFakeDatasetRepo()
	require.NoError(t, ds.Create(context.Background(), dataset))
	require.NoError(t, ds.Create(context.Background(), other))
	store := newFakeStore()
	svc = NewExampleService(store, ds)

	_, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		TraceID: "trace-1",
	})
	require.NoError(t, err)

	// the uniqueness constraint is per (trace, dataset), not per trace
	_, err = svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: other.ID.String(),
		TraceID: "trace-1",
	})
	assert.NoError(t, err)
}

func TestCreateExampleBackWritesRootSpan(t *testing.T) {
	svc, store, orgID, dataset := newExampleFixture(t)

	store.spans["root"] = &models.Span{ID: "root", TraceID: "trace-1", Organization: orgID.String()}
	store.spans["child"] = &models.Span{ID: "child", TraceID: "trace-1", ParentID: "root", Organization: orgID.String()}

	example, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		TraceID: "trace-1",
	})
	require.NoError(t, err)

	// only the parent-less root span is stamped
	require.Contains(t, store.patches, "root")
	assert.NotContains(t, store.patches, "child")
	assert.Equal(t, example.ID, store.patches["root"]["aiqa.example"])
}

func TestCreateExampleBackWriteFailureIsNotFatal(t *testing.T) {
	svc, store, orgID, dataset := newExampleFixture(t)

	// no spans stored for the trace; the back-reference is skipped
	example, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
		TraceID: "trace-gone",
	})
	require.NoError(t, err)
	assert.Contains(t, store.examples, example.ID)
	assert.Empty(t, store.patches)
}

func TestDeleteExample(t *testing.T) {
	svc, store, orgID, dataset := newExampleFixture(t)

	example, err := svc.Create(context.Background(), orgID, &models.CreateExampleRequest{
		Dataset: dataset.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), orgID, example.ID))
	assert.NotContains(t, store.examples, example.ID)

	err = svc.Delete(context.Background(), orgID, example.ID)
	assert.ErrorIs(t, err, utils.ErrExampleNotFound)
}

func TestListExamplesFiltersByDataset(t *testing.T) {
	svc, store, orgID, dataset := newExampleFixture(t)

	store.examples["a"] = &models.Example{ID: "a", Dataset: dataset.ID.String(), Organization: orgID.String()}
	store.examples["b"] = &models.Example{ID: "b", Dataset: uuid.NewString(), Organization: orgID.String()}

	items, total, err := svc.List(context.Background(), orgID, dataset.ID.String(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
}
