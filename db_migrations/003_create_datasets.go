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

// Datasets hold metric definitions as JSONB; the examples live in the search
// engine keyed by dataset ID.
var migration003 = migration{
	ID: 3,
	Migrate: func(db *gorm.DB) error {
		createDatasetsSQL := `
			CREATE TABLE datasets (
				id UUID PRIMARY KEY NOT NULL,
				organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
				name VARCHAR(200) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				tags TEXT[] NOT NULL DEFAULT '{}',
				metrics JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE (organization_id, name)
			);

			CREATE INDEX idx_datasets_organization ON datasets(organization_id);
		`
		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createDatasetsSQL)
		})
	},
}
