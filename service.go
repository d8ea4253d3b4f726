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

package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomoncle/userstore/database"
	"github.com/tomoncle/userstore/model"
	"github.com/tomoncle/userstore/repository"
	"github.com/tomoncle/userstore/types"
	"github.com/uptrace/bun"
)

type UserService interface {
	// Get returns the user with the given id, or nil when there is none.
	Get(ctx context.Context, id int64) (*model.User, error)

	// All returns every user ordered by id.
	All(ctx context.Context) ([]*model.User, error)

	// Page returns one page of users matching req together with the total
	// number of matches.
	Page(ctx context.Context, req *model.PageRequest) (*types.Pagination[model.User], error)

	// Save inserts user in its own transaction and commits it.
	Save(ctx context.Context, user *model.User) (repository.Result, error)

	// SaveWithTx inserts user within an existing transaction.
	SaveWithTx(ctx context.Context, tx *bun.Tx, user *model.User) (repository.Result, error)

	// Rename changes the username of the user with the given id.
	Rename(ctx context.Context, id int64, username string) (int64, error)

	// Delete removes the user with the given id.
	Delete(ctx context.Context, id int64) (int64, error)
}

type userServiceImpl struct {
	pool *database.Pool
	repo repository.UserRepository
}

// NewUserService returns a UserService over pool. The pool may connect later.
func NewUserService(pool *database.Pool) UserService {
	return &userServiceImpl{pool: pool, repo: repository.NewUserRepository(pool)}
}

func (s *userServiceImpl) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.FindOneByID(ctx, id)
}

func (s *userServiceImpl) All(ctx context.Context) ([]*model.User, error) {
	return s.repo.FetchAll(ctx)
}

func (s *userServiceImpl) Page(ctx context.Context, req *model.PageRequest) (*types.Pagination[model.User], error) {
	pagination := types.NewDefaultPagination[model.User](req.Page(), req.Limit())
	total, err := s.repo.CountFiltered(ctx, req)
	if err != nil || total == 0 {
		return pagination, err
	}
	items, err := s.repo.FetchFiltered(ctx, req)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

func (s *userServiceImpl) Save(ctx context.Context, user *model.User) (repository.Result, error) {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return repository.Result{}, err
	}
	res, err := s.repo.Insert(ctx, tx, user)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return repository.Result{}, errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return repository.Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return repository.Result{}, database.NewQueryError("commit", err)
	}
	return res, nil
}

func (s *userServiceImpl) SaveWithTx(ctx context.Context, tx *bun.Tx, user *model.User) (repository.Result, error) {
	return s.repo.Insert(ctx, tx, user)
}

func (s *userServiceImpl) Rename(ctx context.Context, id int64, username string) (int64, error) {
	return s.repo.UpdateUsernameByID(ctx, username, id)
}

func (s *userServiceImpl) Delete(ctx context.Context, id int64) (int64, error) {
	return s.repo.DeleteByID(ctx, id)
}
