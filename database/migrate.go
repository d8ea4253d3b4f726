/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
)

// Migrate creates the table of every registered model that does not exist
// yet, in priority order, inside one transaction. It never alters existing
// tables.
func (p *Pool) Migrate(ctx context.Context) error {
	db, err := p.Acquire()
	if err != nil {
		return err
	}
	return CreateTables(ctx, db, p.logger, RegisteredModels()...)
}

// CreateTables runs CREATE TABLE IF NOT EXISTS for each model.
func CreateTables(ctx context.Context, db *bun.DB, logger Logger, models ...interface{}) error {
	if logger == nil {
		logger = GetLogger()
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range models {
			if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return NewQueryError(fmt.Sprintf("create table for %s", modelName(model)), err)
			}
			logger.Debug("Table ensured", "model", modelName(model))
		}
		return nil
	})
}

func modelName(model interface{}) string {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
