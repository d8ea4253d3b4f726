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
	"strings"

	"github.com/tomoncle/userstore/model"
	"github.com/uptrace/bun/dialect"
)

// Statement is SQL text with "?" placeholders and the values bound to them,
// in placeholder order.
type Statement struct {
	Query string
	Args  []interface{}
}

// FilterBuilder assembles the dynamic user queries. It only writes constant
// identifiers and placeholders into the SQL text; request values go to Args.
type FilterBuilder struct {
	quote string
}

func NewFilterBuilder(name dialect.Name) *FilterBuilder {
	if name == dialect.MySQL {
		return &FilterBuilder{quote: "`"}
	}
	return &FilterBuilder{quote: `"`}
}

func (b *FilterBuilder) ident(name string) string {
	return b.quote + name + b.quote
}

// Select builds the page query: optional enable and username conditions,
// newest id first, then LIMIT and OFFSET. Args are ordered enable, username,
// limit, offset.
func (b *FilterBuilder) Select(req *model.PageRequest) Statement {
	columns := make([]string, len(model.Columns))
	for i, column := range model.Columns {
		columns[i] = b.ident(column)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.ident(model.TableName))

	where, args := b.where(req)
	sb.WriteString(where)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(b.ident(model.ColumnID))
	sb.WriteString(" DESC LIMIT ? OFFSET ?")

	args = append(args, req.Limit(), req.Offset())
	return Statement{Query: sb.String(), Args: args}
}

// Count builds a COUNT(*) over the same conditions as Select.
func (b *FilterBuilder) Count(req *model.PageRequest) Statement {
	where, args := b.where(req)
	return Statement{
		Query: "SELECT COUNT(*) FROM " + b.ident(model.TableName) + where,
		Args:  args,
	}
}

func (b *FilterBuilder) where(req *model.PageRequest) (string, []interface{}) {
	args := make([]interface{}, 0, 4)
	if !req.HasFilter() {
		return "", args
	}

	conditions := make([]string, 0, 2)
	if req.Enable != nil {
		conditions = append(conditions, b.ident(model.ColumnEnable)+" = ?")
		args = append(args, *req.Enable)
	}
	if req.Username != nil {
		conditions = append(conditions, b.ident(model.ColumnUsername)+" LIKE ?")
		args = append(args, "%"+*req.Username+"%")
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
