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

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/otlp"
	"github.com/aiqa-platform/evaluation-service/ratelimit"
	"github.com/aiqa-platform/evaluation-service/utils"
)

func newIngestionFixture(t *testing.T) (IngestionService, *fakeStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	limiter := ratelimit.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	store := newFakeStore()
	return NewIngestionService(store, limiter), store
}

func ingestContext(org *models.Organization, key *models.APIKey) context.Context {
	return middleware.WithAuthContext(context.Background(), &middleware.AuthContext{
		Organization: org,
		Key:          key,
	})
}

func testOrg() *models.Organization {
	return &models.Organization{ID: uuid.New(), Tier: models.TierFree}
}

func usageAttr(key string, value float64) otlp.KeyValue {
	return otlp.KeyValue{Key: key, Value: otlp.AnyValue{DoubleValue: &value}}
}

func exportRequest(spans ...otlp.RawSpan) *otlp.ExportRequest {
	return &otlp.ExportRequest{
		ResourceSpans: []otlp.ResourceSpans{
			{ScopeSpans: []otlp.ScopeSpans{{Spans: spans}}},
		},
	}
}

func TestIngestRequiresCredentials(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	err := svc.Ingest(context.Background(), exportRequest())
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestIngestRejectsReadOnlyKey(t *testing.T) {
	svc, _ := newIngestionFixture(t)
	ctx := ingestContext(testOrg(), &models.APIKey{Role: models.RoleReadOnly})

	err := svc.Ingest(ctx, exportRequest(otlp.RawSpan{ID: "s1", Trace: "t1"}))
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestIngestStoresFlattenedSpans(t *testing.T) {
	svc, store := newIngestionFixture(t)
	org := testOrg()
	ctx := ingestContext(org, &models.APIKey{Role: models.RoleTrace})

	err := svc.Ingest(ctx, exportRequest(
		otlp.RawSpan{ID: "root", Trace: "t1", Name: "pipeline"},
		otlp.RawSpan{ID: "child", Trace: "t1", Parent: "root", Name: "llm-call",
			Attributes: []otlp.KeyValue{
				usageAttr("gen_ai.usage.input_tokens", 10),
				usageAttr("gen_ai.usage.output_tokens", 5),
			}},
	))
	require.NoError(t, err)

	require.Len(t, store.spans, 2)
	assert.Equal(t, org.ID.String(), store.spans["root"].Organization)
	// the in-batch parent received the child's usage roll-up
	assert.Equal(t, 10.0, store.spans["root"].InputTokens)
	assert.Equal(t, 15.0, store.spans["root"].TotalTokens)
	assert.Len(t, store.spans["root"].Seen, 1)
}

func TestIngestPatchesStoredParent(t *testing.T) {
	svc, store := newIngestionFixture(t)
	org := testOrg()
	ctx := ingestContext(org, &models.APIKey{Role: models.RoleDeveloper})

	// parent arrived in an earlier batch
	store.spans["root"] = &models.Span{ID: "root", TraceID: "t1", Organization: org.ID.String()}

	err := svc.Ingest(ctx, exportRequest(
		otlp.RawSpan{ID: "child", Trace: "t1", Parent: "root",
			Attributes: []otlp.KeyValue{usageAttr("gen_ai.usage.input_tokens", 7)}},
	))
	require.NoError(t, err)

	assert.Equal(t, 7.0, store.spans["root"].InputTokens)
	assert.Len(t, store.spans["root"].Seen, 1)
}

func TestIngestMissingParentIsBestEffort(t *testing.T) {
	svc, store := newIngestionFixture(t)
	ctx := ingestContext(testOrg(), nil)

	err := svc.Ingest(ctx, exportRequest(
		otlp.RawSpan{ID: "child", Trace: "t1", Parent: "never-arrived",
			Attributes: []otlp.KeyValue{usageAttr("gen_ai.usage.input_tokens", 7)}},
	))
	require.NoError(t, err)
	assert.Contains(t, store.spans, "child")
}

func TestIngestEmptyBatchIsANoop(t *testing.T) {
	svc, store := newIngestionFixture(t)
	ctx := ingestContext(testOrg(), nil)

	require.NoError(t, svc.Ingest(ctx, exportRequest()))
	assert.Empty(t, store.spans)
}

func TestIngestEnforcesRateLimit(t *testing.T) {
	svc, _ := newIngestionFixture(t)
	limit := int64(1)
	org := testOrg()
	org.RateLimitPerHour = &limit
	ctx := ingestContext(org, &models.APIKey{Role: models.RoleTrace})

	require.NoError(t, svc.Ingest(ctx, exportRequest(otlp.RawSpan{ID: "s1", Trace: "t1"})))

	err := svc.Ingest(ctx, exportRequest(otlp.RawSpan{ID: "s2", Trace: "t1"}))
	assert.ErrorIs(t, err, utils.ErrRateLimitExceeded)
}

func TestIngestStoreFailure(t *testing.T) {
	svc, store := newIngestionFixture(t)
	store.bulkSpanErr = assert.AnError
	ctx := ingestContext(testOrg(), nil)

	err := svc.Ingest(ctx, exportRequest(otlp.RawSpan{ID: "s1", Trace: "t1"}))
	assert.ErrorIs(t, err, utils.ErrServiceUnavailable)
}

func TestSearchSpansRequiresReadRole(t *testing.T) {
	svc, _ := newIngestionFixture(t)
	ctx := ingestContext(testOrg(), &models.APIKey{Role: models.RoleTrace})

	_, _, err := svc.SearchSpans(ctx, "", 10, 0)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = svc.GetSpan(ctx, "s1")
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestGetSpanScopedToOrganization(t *testing.T) {
	svc, store := newIngestionFixture(t)
	org := testOrg()
	store.spans["s1"] = &models.Span{ID: "s1", TraceID: "t1", Organization: uuid.NewString()}

	_, err := svc.GetSpan(ingestContext(org, nil), "s1")
	assert.ErrorIs(t, err, utils.ErrSpanNotFound)
}
