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

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
)

type contextKey string

const correlationIDKey contextKey = "correlationID"

// CorrelationIDHeader is the request/response header carrying the correlation ID
const CorrelationIDHeader = "X-Correlation-ID"

// GetCorrelationID returns the correlation ID attached to the context, or ""
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// AddCorrelationID propagates the caller's correlation ID, generating one when
// absent, and stamps it on the response and the request-scoped logger.
func AddCorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := r.Header.Get(CorrelationIDHeader)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
			reqLogger := logger.GetLogger(ctx).With(slog.String("correlationId", correlationID))
			ctx = logger.WithLogger(ctx, reqLogger)

			w.Header().Set(CorrelationIDHeader, correlationID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
