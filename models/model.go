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

// LLM provider identifiers accepted in metric and model configuration
const (
	ProviderOpenAI      = "openai"
	ProviderAzureOpenAI = "azure-openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
)

// Model is a registered judge-model configuration that metrics can reference
// by name instead of repeating provider details inline.
type Model struct {
	ID             uuid.UUID              `gorm:"column:id;primaryKey" json:"id"`
	OrganizationID uuid.UUID              `gorm:"column:organization_id" json:"organization"`
	Name           string                 `gorm:"column:name" json:"name"`
	Provider       string                 `gorm:"column:provider" json:"provider"`
	ModelID        string                 `gorm:"column:model_id" json:"model"`
	Parameters     map[string]interface{} `gorm:"column:parameters;type:jsonb;serializer:json" json:"parameters,omitempty"`
	CreatedAt      time.Time              `gorm:"column:created_at" json:"created"`
	UpdatedAt      time.Time              `gorm:"column:updated_at" json:"updated"`
}

// TableName overrides the GORM default pluralisation
func (Model) TableName() string {
	return "models"
}
