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

// SubscriptionTier identifies an organization's plan
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierTrial      SubscriptionTier = "trial"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// TierDefaults are the per-tier limits applied when an organization carries no override
type TierDefaults struct {
	RateLimitPerHour        int64
	RetentionDays           int64
	MaxMembers              int64
	MaxDatasets             int64
	ExperimentRetentionDays int64
	MaxExamplesPerDataset   int64
}

var tierDefaults = map[SubscriptionTier]TierDefaults{
	TierFree:       {RateLimitPerHour: 100, RetentionDays: 7, MaxMembers: 2, MaxDatasets: 3, ExperimentRetentionDays: 14, MaxExamplesPerDataset: 200},
	TierTrial:      {RateLimitPerHour: 1000, RetentionDays: 14, MaxMembers: 5, MaxDatasets: 10, ExperimentRetentionDays: 30, MaxExamplesPerDataset: 1000},
	TierPro:        {RateLimitPerHour: 1000, RetentionDays: 30, MaxMembers: 25, MaxDatasets: 50, ExperimentRetentionDays: 90, MaxExamplesPerDataset: 10000},
	TierEnterprise: {RateLimitPerHour: 10000, RetentionDays: 90, MaxMembers: 500, MaxDatasets: 500, ExperimentRetentionDays: 365, MaxExamplesPerDataset: 100000},
}

// DefaultsForTier resolves the limit table for a tier; unknown tiers fall back to free
func DefaultsForTier(tier SubscriptionTier) TierDefaults {
	if d, ok := tierDefaults[tier]; ok {
		return d
	}
	return tierDefaults[TierFree]
}

// Organization is the database model for tenant organizations
type Organization struct {
	ID   uuid.UUID        `gorm:"column:id;primaryKey" json:"id"`
	Name string           `gorm:"column:name" json:"name"`
	Tier SubscriptionTier `gorm:"column:tier" json:"tier"`

	// Per-organization overrides; nil means the tier default applies
	RateLimitPerHour        *int64 `gorm:"column:rate_limit_per_hour" json:"rateLimitPerHour,omitempty"`
	RetentionDays           *int64 `gorm:"column:retention_days" json:"retentionDays,omitempty"`
	MaxMembers              *int64 `gorm:"column:max_members" json:"maxMembers,omitempty"`
	MaxDatasets             *int64 `gorm:"column:max_datasets" json:"maxDatasets,omitempty"`
	ExperimentRetentionDays *int64 `gorm:"column:experiment_retention_days" json:"experimentRetentionDays,omitempty"`
	MaxExamplesPerDataset   *int64 `gorm:"column:max_examples_per_dataset" json:"maxExamplesPerDataset,omitempty"`

	Members StringArray `gorm:"column:members;type:text[]" json:"members,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated"`
}

// TableName overrides the GORM default pluralisation
func (Organization) TableName() string {
	return "organizations"
}

// EffectiveRateLimit returns the span-ingestion quota per hour: the minimum of
// the organization override (when set) and the tier default.
func (o *Organization) EffectiveRateLimit() int64 {
	tierLimit := DefaultsForTier(o.Tier).RateLimitPerHour
	if o.RateLimitPerHour != nil && *o.RateLimitPerHour < tierLimit {
		return *o.RateLimitPerHour
	}
	return tierLimit
}
