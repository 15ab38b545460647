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

// APIKeyRole controls what an API key may do within its organization
type APIKeyRole string

const (
	// RoleTrace keys may only write telemetry
	RoleTrace APIKeyRole = "trace"
	// RoleReadOnly keys may query spans, examples and experiments
	RoleReadOnly APIKeyRole = "readonly"
	// RoleDeveloper keys may ingest, query and mutate evaluation entities
	RoleDeveloper APIKeyRole = "developer"
	// RoleAdmin keys additionally manage organization settings and API keys
	RoleAdmin APIKeyRole = "admin"
)

// APIKey is the database model for organization API keys. Only the SHA-256
// hash of the key material is stored.
type APIKey struct {
	ID             uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"column:organization_id" json:"organization"`
	Name           string     `gorm:"column:name" json:"name"`
	KeyHash        string     `gorm:"column:key_hash" json:"-"`
	Last4          string     `gorm:"column:last4" json:"last4"`
	Role           APIKeyRole `gorm:"column:role" json:"role"`
	LastUsedAt     *time.Time `gorm:"column:last_used_at" json:"lastUsed,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated"`
}

// TableName overrides the GORM default pluralisation
func (APIKey) TableName() string {
	return "api_keys"
}

// CanIngest reports whether the key role permits writing telemetry
func (k *APIKey) CanIngest() bool {
	return k.Role == RoleTrace || k.Role == RoleDeveloper || k.Role == RoleAdmin
}

// CanRead reports whether the key role permits read queries
func (k *APIKey) CanRead() bool {
	return k.Role == RoleReadOnly || k.Role == RoleDeveloper || k.Role == RoleAdmin
}

// CanManage reports whether the key role permits mutations beyond ingestion
func (k *APIKey) CanManage() bool {
	return k.Role == RoleDeveloper || k.Role == RoleAdmin
}
