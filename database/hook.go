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
	"database/sql"
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/tomoncle/userstore/utils"
	"github.com/uptrace/bun"
)

var (
	failedQueryColor = color.New(color.BgRed, color.FgWhite)
	slowQueryColor   = color.New(color.FgYellow, color.Bold)
)

// QueryHook reports failed statements at error level and statements slower
// than slowTime at warn level. A zero slowTime disables slow query reports.
// sql.ErrNoRows and sql.ErrTxDone are not treated as failures.
type QueryHook struct {
	logger   Logger
	slowTime time.Duration
}

var _ bun.QueryHook = (*QueryHook)(nil)

func NewQueryHook(logger Logger, slowTime time.Duration) *QueryHook {
	if logger == nil {
		logger = GetLogger()
	}
	return &QueryHook{logger: logger, slowTime: slowTime}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	if event.Err != nil {
		if errors.Is(event.Err, sql.ErrNoRows) || errors.Is(event.Err, sql.ErrTxDone) {
			return
		}
		_, kind := IsSqlError(event.Err)
		h.logger.Error(failedQueryColor.Sprintf(" %s failed ", event.Operation()),
			"kind", kind,
			"duration", utils.FormatDuration(duration),
			"query", event.Query,
			"error", event.Err,
		)
		return
	}

	if h.slowTime > 0 && duration > h.slowTime {
		h.logger.Warn(slowQueryColor.Sprint("Database slow query detected"),
			"duration", utils.FormatDuration(duration),
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}
