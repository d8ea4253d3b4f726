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
	"reflect"
	"strings"
	"testing"

	"github.com/tomoncle/userstore/model"
	"github.com/uptrace/bun/dialect"
)

func intPtr(v int) *int { return &v }

func TestFilterBuilderSelect(t *testing.T) {
	const pgColumns = `SELECT "id", "username", "password", "enable", "createTime", "updateTime" FROM "user"`

	tests := []struct {
		name      string
		dialect   dialect.Name
		req       *model.PageRequest
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "no filters",
			dialect:   dialect.PG,
			req:       &model.PageRequest{},
			wantQuery: pgColumns + ` ORDER BY "id" DESC LIMIT ? OFFSET ?`,
			wantArgs:  []interface{}{10, 0},
		},
		{
			name:      "nil request",
			dialect:   dialect.SQLite,
			req:       nil,
			wantQuery: pgColumns + ` ORDER BY "id" DESC LIMIT ? OFFSET ?`,
			wantArgs:  []interface{}{10, 0},
		},
		{
			name:      "enable only",
			dialect:   dialect.PG,
			req:       (&model.PageRequest{}).WithEnable(1),
			wantQuery: pgColumns + ` WHERE "enable" = ? ORDER BY "id" DESC LIMIT ? OFFSET ?`,
			wantArgs:  []interface{}{int8(1), 10, 0},
		},
		{
			name:      "username only",
			dialect:   dialect.PG,
			req:       (&model.PageRequest{}).WithUsername("al"),
			wantQuery: pgColumns + ` WHERE "username" LIKE ? ORDER BY "id" DESC LIMIT ? OFFSET ?`,
			wantArgs:  []interface{}{"%al%", 10, 0},
		},
		{
			name:    "both filters on mysql",
			dialect: dialect.MySQL,
			req:     model.NewPageRequest(3, 20).WithUsername("bob").WithEnable(0),
			wantQuery: "SELECT `id`, `username`, `password`, `enable`, `createTime`, `updateTime` FROM `user`" +
				" WHERE `enable` = ? AND `username` LIKE ? ORDER BY `id` DESC LIMIT ? OFFSET ?",
			wantArgs: []interface{}{int8(0), "%bob%", 20, 40},
		},
		{
			name:      "non-positive page values fall back to defaults",
			dialect:   dialect.PG,
			req:       &model.PageRequest{PageNo: intPtr(0), PageSize: intPtr(-5)},
			wantQuery: pgColumns + ` ORDER BY "id" DESC LIMIT ? OFFSET ?`,
			wantArgs:  []interface{}{10, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := NewFilterBuilder(tt.dialect).Select(tt.req)
			if stmt.Query != tt.wantQuery {
				t.Errorf("query:\n got %s\nwant %s", stmt.Query, tt.wantQuery)
			}
			if !reflect.DeepEqual(stmt.Args, tt.wantArgs) {
				t.Errorf("args: got %#v, want %#v", stmt.Args, tt.wantArgs)
			}
		})
	}
}

func TestFilterBuilderPlaceholdersMatchArgs(t *testing.T) {
	reqs := []*model.PageRequest{
		nil,
		{},
		model.NewPageRequest(2, 5),
		(&model.PageRequest{}).WithEnable(1),
		(&model.PageRequest{}).WithUsername("x"),
		model.NewPageRequest(7, 3).WithUsername("x").WithEnable(1),
	}
	b := NewFilterBuilder(dialect.PG)
	for _, req := range reqs {
		for _, stmt := range []Statement{b.Select(req), b.Count(req)} {
			if n := strings.Count(stmt.Query, "?"); n != len(stmt.Args) {
				t.Errorf("%q has %d placeholders but %d args", stmt.Query, n, len(stmt.Args))
			}
		}
	}
}

func TestFilterBuilderOffset(t *testing.T) {
	b := NewFilterBuilder(dialect.PG)
	for _, tc := range []struct{ page, size, offset int }{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
		{10, 1, 9},
	} {
		stmt := b.Select(model.NewPageRequest(tc.page, tc.size))
		args := stmt.Args
		if args[len(args)-2] != tc.size || args[len(args)-1] != tc.offset {
			t.Errorf("page %d size %d: got limit %v offset %v, want %d %d",
				tc.page, tc.size, args[len(args)-2], args[len(args)-1], tc.size, tc.offset)
		}
	}
}

func TestFilterBuilderKeepsValuesOutOfQuery(t *testing.T) {
	hostile := `x' OR '1'='1"; DROP TABLE "user"; --`
	req := model.NewPageRequest(1, 10).WithUsername(hostile)

	for _, name := range []dialect.Name{dialect.MySQL, dialect.PG, dialect.SQLite} {
		b := NewFilterBuilder(name)
		for _, stmt := range []Statement{b.Select(req), b.Count(req)} {
			if strings.Contains(stmt.Query, "DROP") || strings.Contains(stmt.Query, "OR '1'") {
				t.Errorf("%s: caller value leaked into query: %s", name, stmt.Query)
			}
			if stmt.Args[0] != "%"+hostile+"%" {
				t.Errorf("%s: username arg = %v", name, stmt.Args[0])
			}
		}
	}
}

func TestFilterBuilderCountSharesConditions(t *testing.T) {
	b := NewFilterBuilder(dialect.PG)
	req := model.NewPageRequest(4, 10).WithUsername("al").WithEnable(1)

	count := b.Count(req)
	want := `SELECT COUNT(*) FROM "user" WHERE "enable" = ? AND "username" LIKE ?`
	if count.Query != want {
		t.Errorf("count query:\n got %s\nwant %s", count.Query, want)
	}

	sel := b.Select(req)
	if !reflect.DeepEqual(count.Args, sel.Args[:len(sel.Args)-2]) {
		t.Errorf("count args %v differ from select filter args %v", count.Args, sel.Args)
	}
	if strings.Contains(count.Query, "LIMIT") || strings.Contains(count.Query, "ORDER BY") {
		t.Errorf("count query must not paginate: %s", count.Query)
	}

	if got := b.Count(nil); got.Query != `SELECT COUNT(*) FROM "user"` || len(got.Args) != 0 {
		t.Errorf("unfiltered count = %+v", got)
	}
}
