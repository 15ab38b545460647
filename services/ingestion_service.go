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
	"fmt"

	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/otlp"
	"github.com/aiqa-platform/evaluation-service/ratelimit"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// IngestionService receives decoded OTLP export requests from the HTTP and
// gRPC edges and persists the flattened spans
type IngestionService interface {
	Ingest(ctx context.Context, req *otlp.ExportRequest) error
	SearchSpans(ctx context.Context, query string, limit, offset int) ([]*models.Span, int64, error)
	GetSpan(ctx context.Context, id string) (*models.Span, error)
}

type ingestionService struct {
	store   Store
	limiter *ratelimit.Limiter
}

// NewIngestionService creates a new ingestion service instance
func NewIngestionService(store Store, limiter *ratelimit.Limiter) IngestionService {
	return &ingestionService{
		store:   store,
		limiter: limiter,
	}
}

// Ingest flattens, normalises and stores the spans of one export request.
// Parent token roll-ups are computed in-batch where possible; parents stored
// earlier are patched afterwards with the same guarded merge.
func (s *ingestionService) Ingest(ctx context.Context, req *otlp.ExportRequest) error {
	log := logger.GetLogger(ctx)

	auth := middleware.GetAuthContext(ctx)
	if auth == nil || auth.Organization == nil {
		return utils.ErrUnauthorized
	}
	if auth.Key != nil && !auth.Key.CanIngest() {
		return utils.ErrForbidden
	}
	orgID := auth.Organization.ID.String()

	if status := s.limiter.Check(ctx, orgID, auth.Organization.EffectiveRateLimit()); status != nil && !status.Allowed {
		return utils.ErrRateLimitExceeded
	}

	spans := otlp.Flatten(req, orgID, s.store.UnindexedThreshold())
	if len(spans) == 0 {
		return nil
	}
	deferred := otlp.RollupBatch(spans)

	s.limiter.Record(ctx, orgID, int64(len(spans)))

	if err := s.store.BulkInsertSpans(ctx, spans); err != nil {
		log.Error("Failed to store span batch", "error", err, "spans", len(spans))
		return fmt.Errorf("%w: span store write failed", utils.ErrServiceUnavailable)
	}

	for parentID, children := range deferred {
		children := children
		err := s.store.MutateSpan(ctx, parentID, orgID, func(parent *models.Span) bool {
			changed := false
			for _, child := range children {
				if otlp.ApplyChildUsage(parent, child) {
					changed = true
				}
			}
			return changed
		})
		if err != nil {
			// best effort; the parent may simply not have arrived yet
			log.Warn("Deferred parent roll-up skipped", "parent", parentID, "error", err)
		}
	}

	log.Info("Ingested span batch", "organization", orgID, "spans", len(spans))
	return nil
}

func (s *ingestionService) SearchSpans(ctx context.Context, query string, limit, offset int) ([]*models.Span, int64, error) {
	auth := middleware.GetAuthContext(ctx)
	if auth == nil || auth.Organization == nil {
		return nil, 0, utils.ErrUnauthorized
	}
	if auth.Key != nil && !auth.Key.CanRead() {
		return nil, 0, utils.ErrForbidden
	}
	return s.store.SearchSpans(ctx, query, auth.Organization.ID.String(), search.SearchOptions{
		Limit:  limit,
		Offset: offset,
	})
}

func (s *ingestionService) GetSpan(ctx context.Context, id string) (*models.Span, error) {
	auth := middleware.GetAuthContext(ctx)
	if auth == nil || auth.Organization == nil {
		return nil, utils.ErrUnauthorized
	}
	if auth.Key != nil && !auth.Key.CanRead() {
		return nil, utils.ErrForbidden
	}
	return s.store.GetSpan(ctx, id, auth.Organization.ID.String())
}
