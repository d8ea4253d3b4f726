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

package model

import (
	"time"

	"github.com/tomoncle/userstore/database"
	"github.com/tomoncle/userstore/types"
	"github.com/uptrace/bun"
)

func init() {
	database.RegisterModel((*User)(nil), 1)
}

// Column names of the user table. They are used verbatim in generated SQL and
// when mapping result rows, so they must match the schema exactly.
const (
	TableName        = "user"
	ColumnID         = "id"
	ColumnUsername   = "username"
	ColumnPassword   = "password"
	ColumnEnable     = "enable"
	ColumnCreateTime = "createTime"
	ColumnUpdateTime = "updateTime"
)

// Columns lists the user table columns in select order.
var Columns = []string{
	ColumnID,
	ColumnUsername,
	ColumnPassword,
	ColumnEnable,
	ColumnCreateTime,
	ColumnUpdateTime,
}

// User is a row of the user table.
//
// Password is stored exactly as supplied; hashing is the caller's job.
type User struct {
	bun.BaseModel `bun:"table:user,alias:u"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Username   string    `bun:"username,notnull" json:"username"`
	Password   string    `bun:"password,notnull" json:"-"`
	Enable     int8      `bun:"enable,type:smallint,notnull" json:"enable"`
	CreateTime time.Time `bun:"createTime,notnull" json:"createTime"`
	UpdateTime time.Time `bun:"updateTime,notnull" json:"updateTime"`
}

// NewUser returns the zero user: no id, empty credentials, disabled, both
// timestamps set to the current UTC time.
func NewUser() *User {
	now := time.Now().UTC()
	return &User{
		Enable:     types.Disabled.Int8(),
		CreateTime: now,
		UpdateTime: now,
	}
}

// Flag returns the enable column as an EnableFlag.
func (u *User) Flag() types.EnableFlag {
	return types.EnableFlag(u.Enable)
}

// IsEnabled reports whether the enable flag is set.
func (u *User) IsEnabled() bool {
	return u.Flag() == types.Enabled
}

// Persisted reports whether the user has a server-assigned id.
func (u *User) Persisted() bool {
	return u.ID != 0
}
