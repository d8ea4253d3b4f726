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

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomoncle/userstore/database"
	"github.com/uptrace/bun"
)

// ErrNilTransaction is returned by writes that require a caller-owned
// transaction when none is given.
var ErrNilTransaction = errors.New("repository: transaction is required")

type baseRepositoryImpl[T any] struct {
	pool database.Acquirer
}

func newBaseRepository[T any](pool database.Acquirer) *baseRepositoryImpl[T] {
	return &baseRepositoryImpl[T]{pool: pool}
}

func (r *baseRepositoryImpl[T]) db() (*bun.DB, error) {
	if r.pool == nil {
		return nil, database.ErrPoolNotInitialized
	}
	return r.pool.Acquire()
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var entity T
	err = db.NewSelect().Model(&entity).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.NewQueryError("get one", err)
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	if err := db.NewSelect().Model(&entities).Order("id ASC").Scan(ctx); err != nil {
		return nil, database.NewQueryError("get all", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) (int64, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	res, err := db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	return rowsAffected("delete", res, err)
}

// UpdateColumn sets a single column on the row with the given id.
func (r *baseRepositoryImpl[T]) UpdateColumn(ctx context.Context, column string, value any, id any) (int64, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	res, err := db.NewUpdate().
		Model((*T)(nil)).
		Set("? = ?", bun.Ident(column), value).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected("update "+column, res, err)
}

// CreateWithTx inserts entity through tx. bun writes the generated primary
// key back into entity.
func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity *T) (int64, error) {
	if _, err := r.db(); err != nil {
		return 0, err
	}
	if tx == nil {
		return 0, ErrNilTransaction
	}
	res, err := tx.NewInsert().Model(entity).Exec(ctx)
	return rowsAffected("insert", res, err)
}

// Query runs stmt and scans every row into a fresh T by column name.
func (r *baseRepositoryImpl[T]) Query(ctx context.Context, stmt Statement) ([]*T, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	if err := db.NewRaw(stmt.Query, stmt.Args...).Scan(ctx, &entities); err != nil {
		return nil, database.NewQueryError("query", err)
	}
	return entities, nil
}

// Count runs a single-value count statement.
func (r *baseRepositoryImpl[T]) Count(ctx context.Context, stmt Statement) (int, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	var total int
	if err := db.NewRaw(stmt.Query, stmt.Args...).Scan(ctx, &total); err != nil {
		return 0, database.NewQueryError("count", err)
	}
	return total, nil
}

func rowsAffected(op string, res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, database.NewQueryError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, database.NewQueryError(op, err)
	}
	return n, nil
}
