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
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DataSource is a connection URL resolved into a database/sql driver name,
// the driver's own DSN format and the bun dialect to use with it.
type DataSource struct {
	Driver  string
	DSN     string
	Dialect dialect.Name
}

// ParseDataSource resolves cfg.URL. The URL itself never appears in the
// returned errors since it usually carries a password.
func ParseDataSource(cfg *ConnectionConfig) (*DataSource, error) {
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil, &ConfigurationError{Key: "url", Err: errors.New("connection string is empty")}
	}
	raw := strings.TrimSpace(cfg.URL)

	if strings.HasPrefix(raw, "file:") {
		return &DataSource{Driver: sqliteshim.ShimName, DSN: raw, Dialect: dialect.SQLite}, nil
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, &ConfigurationError{Key: "url", Err: errors.New("missing scheme, expected mysql://, postgres:// or sqlite://")}
	}

	switch strings.ToLower(scheme) {
	case "mysql":
		dsn, err := mysqlDSN(raw, cfg)
		if err != nil {
			return nil, &ConfigurationError{Key: "url", Err: err}
		}
		return &DataSource{Driver: "mysql", DSN: dsn, Dialect: dialect.MySQL}, nil
	case "postgres", "postgresql":
		dsn, err := postgresDSN(raw, cfg)
		if err != nil {
			return nil, &ConfigurationError{Key: "url", Err: err}
		}
		return &DataSource{Driver: "postgres", DSN: dsn, Dialect: dialect.PG}, nil
	case "sqlite", "sqlite3":
		if rest == "" {
			return nil, &ConfigurationError{Key: "url", Err: errors.New("sqlite path is empty")}
		}
		return &DataSource{Driver: sqliteshim.ShimName, DSN: rest, Dialect: dialect.SQLite}, nil
	default:
		return nil, &ConfigurationError{Key: "url", Err: fmt.Errorf("unsupported database type: %s", scheme)}
	}
}

func mysqlDSN(raw string, cfg *ConnectionConfig) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("malformed mysql url")
	}
	if u.Host == "" {
		return "", errors.New("mysql url has no host")
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = cfg.ConnectTimeout
	mc.ReadTimeout = cfg.ReadTimeout
	mc.WriteTimeout = cfg.WriteTimeout

	mc.Params = map[string]string{"charset": "utf8mb4"}

	q := u.Query()
	if v := q.Get("charset"); v != "" {
		mc.Params["charset"] = v
	}
	if v := q.Get("collation"); v != "" {
		mc.Collation = v
	}
	if v := q.Get("tls"); v != "" {
		mc.TLSConfig = v
	}
	return mc.FormatDSN(), nil
}

func postgresDSN(raw string, cfg *ConnectionConfig) (string, error) {
	if _, err := pq.ParseURL(raw); err != nil {
		return "", errors.New("malformed postgres url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("malformed postgres url")
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	if q.Get("connect_timeout") == "" && cfg.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (ds *DataSource) open() (*sql.DB, *bun.DB, error) {
	sqlDB, err := sql.Open(ds.Driver, ds.DSN)
	if err != nil {
		return nil, nil, err
	}

	var db *bun.DB
	switch ds.Dialect {
	case dialect.MySQL:
		db = bun.NewDB(sqlDB, mysqldialect.New())
	case dialect.PG:
		db = bun.NewDB(sqlDB, pgdialect.New())
	case dialect.SQLite:
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	default:
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("unsupported dialect: %s", ds.Dialect)
	}
	return sqlDB, db, nil
}
