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
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/extra/bundebug"
)

const defaultConnectTimeout = 30 * time.Second

// Acquirer hands out the shared bun handle. Pool implements it; repositories
// depend on this interface only.
type Acquirer interface {
	Acquire() (*bun.DB, error)
}

// Pool owns zero or one live connection pool.
//
// The mutex guards the handle swap only. Opening, pinging and closing happen
// outside of it, and queries run against the handle returned by Acquire
// without any locking from this type.
type Pool struct {
	config  ConnectionConfig
	logger  Logger
	mu      sync.RWMutex
	db      *bun.DB
	dialect dialect.Name
}

var _ Acquirer = (*Pool)(nil)

// NewPool returns a disconnected pool for cfg. A nil logger selects the
// package default.
func NewPool(cfg *ConnectionConfig, logger Logger) *Pool {
	if logger == nil {
		logger = GetLogger()
	}
	p := &Pool{logger: logger}
	if cfg != nil {
		p.config = *cfg
	}
	return p
}

// Connect opens a new pool and makes it current. A pool that was already
// connected is closed after the swap.
func (p *Pool) Connect(ctx context.Context) error {
	ds, err := ParseDataSource(&p.config)
	if err != nil {
		p.logger.Error("Invalid database configuration", "error", err)
		return err
	}

	sqlDB, db, err := ds.open()
	if err != nil {
		return &ConnectionError{Driver: ds.Driver, Err: err}
	}
	p.configureConnectionPool(sqlDB)
	p.installHooks(db)

	timeout := p.config.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		p.logger.Error("Database connection test failed", "driver", ds.Driver, "error", err)
		return &ConnectionError{Driver: ds.Driver, Err: err}
	}
	db.RegisterModel(RegisteredModels()...)

	p.mu.Lock()
	prev := p.db
	p.db = db
	p.dialect = ds.Dialect
	p.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			p.logger.Warn("Failed to close replaced database pool", "error", err)
		} else {
			p.logger.Info("Replaced database pool closed")
		}
	}
	p.logger.Info("Database connected successfully", "dialect", ds.Dialect)
	return nil
}

func (p *Pool) configureConnectionPool(sqlDB *sql.DB) {
	if p.config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(p.config.MaxOpenConns)
	}
	if p.config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(p.config.MaxIdleConns)
	}
	if p.config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(p.config.ConnMaxLifetime)
	}
	if p.config.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(p.config.ConnMaxIdleTime)
	}
}

func (p *Pool) installHooks(db *bun.DB) {
	if p.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	db.AddQueryHook(NewQueryHook(p.logger, p.config.SlowQueryTime))
}

// Acquire returns the current handle. The handle is shared; callers must not
// close it.
func (p *Pool) Acquire() (*bun.DB, error) {
	p.mu.RLock()
	db := p.db
	p.mu.RUnlock()
	if db == nil {
		return nil, ErrPoolNotInitialized
	}
	return db, nil
}

// Disconnect closes the current pool, waiting for checked-out connections to
// be returned. Calling it on a disconnected pool is a no-op.
func (p *Pool) Disconnect() error {
	p.mu.Lock()
	db := p.db
	p.db = nil
	p.mu.Unlock()

	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		p.logger.Error("Failed to close database connection", "error", err)
		return err
	}
	p.logger.Info("Database connection closed")
	return nil
}

// Connected reports whether a pool is currently held.
func (p *Pool) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.db != nil
}

// Dialect returns the dialect of the current pool.
func (p *Pool) Dialect() (dialect.Name, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return dialect.Invalid, ErrPoolNotInitialized
	}
	return p.dialect, nil
}

// BeginTx starts a transaction owned by the caller, who must commit or roll
// it back.
func (p *Pool) BeginTx(ctx context.Context, opts *sql.TxOptions) (*bun.Tx, error) {
	db, err := p.Acquire()
	if err != nil {
		return nil, err
	}
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, NewQueryError("begin transaction", err)
	}
	return &tx, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	db, err := p.Acquire()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (p *Pool) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{LastCheckTime: start}

	db, err := p.Acquire()
	if err != nil {
		status.LastError = err.Error()
		return status
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err = db.PingContext(ctxTimeout)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = err.Error()
	} else {
		status.Healthy = true
		status.Connected = true
	}

	stats := db.DB.Stats()
	status.ActiveConns = stats.InUse
	status.IdleConns = stats.Idle
	status.MaxOpenConns = stats.MaxOpenConnections
	return status
}

func (p *Pool) Stats() *DBStats {
	db, err := p.Acquire()
	if err != nil {
		return &DBStats{}
	}

	stats := db.DB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}
