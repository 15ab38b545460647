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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
	"github.com/aiqa-platform/evaluation-service/models"
	"github.com/aiqa-platform/evaluation-service/utils"
)

const authContextKey contextKey = "authContext"

// AuthContext is the resolved identity of an authenticated request
type AuthContext struct {
	Organization *models.Organization
	// Key is set for ApiKey credentials; nil for Bearer tokens
	Key *models.APIKey
	// Subject is the JWT subject for Bearer credentials
	Subject string
}

// Role returns the effective role of the caller. Bearer principals are
// treated as organization admins.
func (a *AuthContext) Role() models.APIKeyRole {
	if a.Key != nil {
		return a.Key.Role
	}
	return models.RoleAdmin
}

// GetAuthContext returns the identity attached by the auth middleware, or nil
func GetAuthContext(ctx context.Context) *AuthContext {
	if a, ok := ctx.Value(authContextKey).(*AuthContext); ok {
		return a
	}
	return nil
}

// WithAuthContext attaches an identity to the context; used by the gRPC
// interceptor and by tests.
func WithAuthContext(ctx context.Context, a *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, a)
}

// CredentialResolver looks up stored credentials. Implemented by the API key
// repository; kept as an interface here so the middleware stays free of
// persistence concerns.
type CredentialResolver interface {
	// ResolveAPIKeyHash returns the key and its organization for a SHA-256
	// key hash, or utils.ErrAPIKeyNotFound.
	ResolveAPIKeyHash(ctx context.Context, keyHash string) (*models.APIKey, *models.Organization, error)
	// ResolveOrganization returns an organization by its ID string
	ResolveOrganization(ctx context.Context, orgID string) (*models.Organization, error)
}

// Authenticate resolves "Authorization: ApiKey <plaintext>" and
// "Authorization: Bearer <jwt>" credentials into an AuthContext. Requests
// without a valid credential are rejected with 401.
func Authenticate(resolver CredentialResolver, jwtSecret, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get(header)
			if authz == "" {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Missing credentials")
				return
			}

			authCtx, err := ResolveCredential(r.Context(), resolver, jwtSecret, authz)
			if err != nil {
				logger.GetLogger(r.Context()).Warn("authentication failed", "error", err)
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
		})
	}
}

// ResolveCredential parses an "ApiKey <plaintext>" or "Bearer <jwt>"
// authorization value into an AuthContext. Shared by the HTTP middleware and
// the gRPC interceptor.
func ResolveCredential(ctx context.Context, resolver CredentialResolver, jwtSecret, authz string) (*AuthContext, error) {
	scheme, credential, found := strings.Cut(authz, " ")
	if !found || credential == "" {
		return nil, errors.New("malformed authorization value")
	}
	switch strings.ToLower(scheme) {
	case "apikey":
		return resolveAPIKey(ctx, resolver, credential)
	case "bearer":
		return resolveBearer(ctx, resolver, jwtSecret, credential)
	default:
		return nil, fmt.Errorf("unsupported authorization scheme %q", scheme)
	}
}

func resolveAPIKey(ctx context.Context, resolver CredentialResolver, plaintext string) (*AuthContext, error) {
	key, org, err := resolver.ResolveAPIKeyHash(ctx, utils.HashAPIKey(plaintext))
	if err != nil {
		return nil, err
	}
	return &AuthContext{Organization: org, Key: key}, nil
}

func resolveBearer(ctx context.Context, resolver CredentialResolver, secret, tokenString string) (*AuthContext, error) {
	if secret == "" {
		return nil, errors.New("bearer authentication is not configured")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	orgID, _ := claims["organization"].(string)
	if orgID == "" {
		return nil, errors.New("token carries no organization claim")
	}
	org, err := resolver.ResolveOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	subject, _ := claims["sub"].(string)
	return &AuthContext{Organization: org, Subject: subject}, nil
}

// RequireRole rejects authenticated requests whose role cannot perform the
// given action. Used per route group; ingestion routes require ingest, query
// routes require read, mutating routes require admin.
func RequireRole(check func(*models.APIKey) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r.Context())
			if authCtx == nil {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Missing credentials")
				return
			}
			if authCtx.Key != nil && !check(authCtx.Key) {
				utils.WriteErrorResponse(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
