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

	"github.com/tomoncle/userstore/model"
	"github.com/uptrace/bun"
)

// Result is the outcome of a single-row insert.
type Result struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id"`
}

// CrudRepository defines the id-based operations shared by all entities.
// Lookups report absence as a nil entity, never as an error; writes report the
// number of affected rows, where zero is not an error.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	Delete(ctx context.Context, id any) (int64, error)
}

// TransactionRepository defines writes executed within a caller-owned
// transaction. Implementations never commit or roll back.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity *T) (int64, error)
}

// UserRepository is the data-access surface of the user table.
type UserRepository interface {
	// Insert adds user through tx and stores the generated id in user.ID.
	Insert(ctx context.Context, tx *bun.Tx, user *model.User) (Result, error)

	DeleteByID(ctx context.Context, id int64) (int64, error)

	UpdateUsernameByID(ctx context.Context, username string, id int64) (int64, error)

	// FindOneByID returns nil, nil when no row has the id.
	FindOneByID(ctx context.Context, id int64) (*model.User, error)

	// FetchAll returns the whole table ordered by id. Meant for small tables.
	FetchAll(ctx context.Context) ([]*model.User, error)

	// FetchFiltered returns one page of users matching req, newest id first.
	FetchFiltered(ctx context.Context, req *model.PageRequest) ([]*model.User, error)

	// CountFiltered counts the users matching the filters of req.
	CountFiltered(ctx context.Context, req *model.PageRequest) (int, error)
}
