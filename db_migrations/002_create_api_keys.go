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

// API keys store only the SHA-256 hash of the key material plus the last four
// characters for display.
var migration002 = migration{
	ID: 2,
	Migrate: func(db *gorm.DB) error {
		createAPIKeysSQL := `
			CREATE TABLE api_keys (
				id UUID PRIMARY KEY NOT NULL,
				organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
				name VARCHAR(200) NOT NULL,
				key_hash CHAR(64) NOT NULL UNIQUE,
				last4 CHAR(4) NOT NULL,
				role VARCHAR(20) NOT NULL DEFAULT 'trace',
				last_used_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_api_keys_organization ON api_keys(organization_id);
			CREATE INDEX idx_api_keys_key_hash ON api_keys(key_hash);
		`
		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createAPIKeysSQL)
		})
	},
}
