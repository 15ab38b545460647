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
	"fmt"
	"log/slog"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// migration is the internal form of one schema step; IDs are ordinal and the
// runner sorts by them before handing off to gormigrate.
type migration struct {
	ID      int
	Migrate func(db *gorm.DB) error
}

func runSQL(tx *gorm.DB, sql string) error {
	if err := tx.Exec(sql).Error; err != nil {
		return fmt.Errorf("migration SQL failed: %w", err)
	}
	return nil
}

var allMigrations = []migration{
	migration001,
	migration002,
	migration003,
	migration004,
	migration005,
}

// RunMigrations applies all pending schema migrations in order
func RunMigrations(db *gorm.DB) error {
	gormMigrations := make([]*gormigrate.Migration, len(allMigrations))
	for i, m := range allMigrations {
		gormMigrations[i] = &gormigrate.Migration{
			ID:      fmt.Sprintf("%03d", m.ID),
			Migrate: gormigrate.MigrateFunc(m.Migrate),
		}
	}

	migrator := gormigrate.New(db, gormigrate.DefaultOptions, gormMigrations)
	if err := migrator.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("dbmigrations: schema up to date")
	return nil
}
