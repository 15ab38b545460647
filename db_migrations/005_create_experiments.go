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

package dbmigrations

import (
	"gorm.io/gorm"
)

// Experiments carry their results and running summaries as JSONB documents;
// the per-example result list is small and read-modify-written as a whole.
var migration005 = migration{
	ID: 5,
	Migrate: func(db *gorm.DB) error {
		createExperimentsSQL := `
			CREATE TABLE experiments (
				id UUID PRIMARY KEY NOT NULL,
				organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
				dataset_id UUID NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
				batch_id UUID,
				name VARCHAR(200) NOT NULL DEFAULT '',
				status VARCHAR(20) NOT NULL DEFAULT 'open',
				parameters JSONB NOT NULL DEFAULT '{}',
				comparison_parameters JSONB NOT NULL DEFAULT '[]',
				results JSONB NOT NULL DEFAULT '[]',
				summaries JSONB NOT NULL DEFAULT '{}',
				trace_ids TEXT[] NOT NULL DEFAULT '{}',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_experiments_organization ON experiments(organization_id);
			CREATE INDEX idx_experiments_dataset ON experiments(dataset_id);
			CREATE INDEX idx_experiments_batch ON experiments(batch_id);
		`
		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createExperimentsSQL)
		})
	},
}
