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

// Organizations are the tenancy root; every other row and every search
// document is scoped to one.
var migration001 = migration{
	ID: 1,
	Migrate: func(db *gorm.DB) error {
		createOrganizationsSQL := `
			CREATE TABLE organizations (
				id UUID PRIMARY KEY NOT NULL,
				name VARCHAR(200) NOT NULL UNIQUE,
				tier VARCHAR(20) NOT NULL DEFAULT 'free',
				rate_limit_per_hour BIGINT,
				retention_days BIGINT,
				max_members BIGINT,
				max_datasets BIGINT,
				experiment_retention_days BIGINT,
				max_examples_per_dataset BIGINT,
				members TEXT[] NOT NULL DEFAULT '{}',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_organizations_name ON organizations(name);
		`
		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createOrganizationsSQL)
		})
	},
}
