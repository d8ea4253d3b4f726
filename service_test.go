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
	"strings"
	"testing"

	"github.com/tomoncle/userstore/database"
	"github.com/tomoncle/userstore/model"
	"github.com/tomoncle/userstore/repository"
	"github.com/tomoncle/userstore/types"
)

func newTestService(t *testing.T) (UserService, *database.Pool) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	pool := database.NewPool(&database.ConnectionConfig{
		URL:          "sqlite://file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, database.NopLogger())

	ctx := context.Background()
	if err := pool.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = pool.Disconnect() })
	if err := pool.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewUserService(pool), pool
}

func newUser(name string, flag types.EnableFlag) *model.User {
	u := model.NewUser()
	u.Username = name
	u.Password = name + "-pw"
	u.Enable = flag.Int8()
	return u
}

func TestUserServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	u := newUser("alice", types.Enabled)
	res, err := svc.Save(ctx, u)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.RowsAffected != 1 || res.LastInsertID != u.ID || !u.Persisted() {
		t.Fatalf("save result %+v, id %d", res, u.ID)
	}

	got, err := svc.Get(ctx, u.ID)
	if err != nil || got == nil || got.Username != "alice" {
		t.Fatalf("get: %+v, %v", got, err)
	}

	if n, err := svc.Rename(ctx, u.ID, "alicia"); err != nil || n != 1 {
		t.Fatalf("rename: %d, %v", n, err)
	}
	got, _ = svc.Get(ctx, u.ID)
	if got.Username != "alicia" {
		t.Errorf("username = %q", got.Username)
	}

	if n, err := svc.Delete(ctx, u.ID); err != nil || n != 1 {
		t.Fatalf("delete: %d, %v", n, err)
	}
	if n, err := svc.Delete(ctx, u.ID); err != nil || n != 0 {
		t.Fatalf("second delete: %d, %v", n, err)
	}
	if got, err := svc.Get(ctx, u.ID); got != nil || err != nil {
		t.Fatalf("get after delete: %+v, %v", got, err)
	}
}

func TestUserServiceSaveWithTxRollback(t *testing.T) {
	ctx := context.Background()
	svc, pool := newTestService(t)

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SaveWithTx(ctx, tx, newUser("ghost", types.Enabled)); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	all, err := svc.All(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("rolled back insert visible: %d users, %v", len(all), err)
	}

	if _, err := svc.SaveWithTx(ctx, nil, newUser("ghost", types.Enabled)); !errors.Is(err, repository.ErrNilTransaction) {
		t.Errorf("nil tx: got %v", err)
	}
}

func TestUserServicePage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for i, name := range []string{"ann", "ben", "anya", "bert", "anders", "carl"} {
		flag := types.Enabled
		if i%2 == 1 {
			flag = types.Disabled
		}
		if _, err := svc.Save(ctx, newUser(name, flag)); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.Page(ctx, model.NewPageRequest(1, 2).WithUsername("an"))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.Page != 1 || page.PageSize != 2 || page.Pages() != 2 || !page.HasNext() {
		t.Fatalf("got page=%d size=%d total=%d", page.Page, page.PageSize, page.Total)
	}
	if len(page.Items) != 2 || page.Items[0].Username != "anders" || page.Items[1].Username != "anya" {
		t.Errorf("items = %+v", page.Items)
	}

	page, err = svc.Page(ctx, (&model.PageRequest{}).WithEnable(types.Disabled.Int8()))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Items) != 3 || page.PageSize != model.DefaultPageSize {
		t.Errorf("disabled page: total=%d items=%d", page.Total, len(page.Items))
	}

	page, err = svc.Page(ctx, (&model.PageRequest{}).WithUsername("zzz"))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 || page.Items == nil || len(page.Items) != 0 {
		t.Errorf("empty page: %+v", page)
	}
}

func TestUserServiceDisconnected(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(database.NewPool(&database.ConnectionConfig{URL: "sqlite://file::memory:"}, nil))

	if _, err := svc.Save(ctx, newUser("x", types.Enabled)); !errors.Is(err, database.ErrPoolNotInitialized) {
		t.Errorf("save: %v", err)
	}
	if _, err := svc.Page(ctx, nil); !errors.Is(err, database.ErrPoolNotInitialized) {
		t.Errorf("page: %v", err)
	}
	if _, err := svc.All(ctx); !errors.Is(err, database.ErrPoolNotInitialized) {
		t.Errorf("all: %v", err)
	}
}
