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

	"github.com/tomoncle/userstore/database"
	"github.com/tomoncle/userstore/model"
	"github.com/uptrace/bun"
)

type userRepositoryImpl struct {
	*baseRepositoryImpl[model.User]
}

var (
	_ UserRepository                    = (*userRepositoryImpl)(nil)
	_ CrudRepository[model.User]        = (*userRepositoryImpl)(nil)
	_ TransactionRepository[model.User] = (*userRepositoryImpl)(nil)
)

// NewUserRepository returns a UserRepository that acquires its handle from
// pool on every call, so it may be built before the pool connects.
func NewUserRepository(pool database.Acquirer) UserRepository {
	return &userRepositoryImpl{baseRepositoryImpl: newBaseRepository[model.User](pool)}
}

func (r *userRepositoryImpl) Insert(ctx context.Context, tx *bun.Tx, user *model.User) (Result, error) {
	n, err := r.CreateWithTx(ctx, tx, user)
	if err != nil {
		return Result{}, err
	}
	return Result{RowsAffected: n, LastInsertID: user.ID}, nil
}

func (r *userRepositoryImpl) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return r.Delete(ctx, id)
}

func (r *userRepositoryImpl) UpdateUsernameByID(ctx context.Context, username string, id int64) (int64, error) {
	return r.UpdateColumn(ctx, model.ColumnUsername, username, id)
}

func (r *userRepositoryImpl) FindOneByID(ctx context.Context, id int64) (*model.User, error) {
	return r.GetOne(ctx, id)
}

func (r *userRepositoryImpl) FetchAll(ctx context.Context) ([]*model.User, error) {
	return r.GetAll(ctx)
}

func (r *userRepositoryImpl) FetchFiltered(ctx context.Context, req *model.PageRequest) ([]*model.User, error) {
	builder, err := r.builder()
	if err != nil {
		return nil, err
	}
	return r.Query(ctx, builder.Select(req))
}

func (r *userRepositoryImpl) CountFiltered(ctx context.Context, req *model.PageRequest) (int, error) {
	builder, err := r.builder()
	if err != nil {
		return 0, err
	}
	return r.Count(ctx, builder.Count(req))
}

func (r *userRepositoryImpl) builder() (*FilterBuilder, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	return NewFilterBuilder(db.Dialect().Name()), nil
}
