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
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrPoolNotInitialized is returned when the pool is used before Connect or
// after Disconnect.
var ErrPoolNotInitialized = errors.New("database pool not initialized")

// ConfigurationError reports a missing or invalid connection setting.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid database configuration %q: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ConnectionError reports a failure to open or reach the database.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s database: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError wraps a failed statement. The driver error is kept as is and is
// reachable through errors.Is / errors.As.
type QueryError struct {
	Op   string
	Kind SQLError
	Err  error
}

func (e *QueryError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError classifies err and wraps it for op. It returns nil for a nil
// error and leaves pool errors untouched.
func NewQueryError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPoolNotInitialized) {
		return err
	}
	_, kind := IsSqlError(err)
	return &QueryError{Op: op, Kind: kind, Err: err}
}

// IsQueryError reports whether err is a QueryError of the given kind.
func IsQueryError(err error, kind SQLError) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == kind
}

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
	SyntaxErr
	ConnectionLostErr
)

func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "no_rows"
	case NoIndexErr:
		return "no_index"
	case NoColumnErr:
		return "no_column"
	case ExistIndexErr:
		return "exist_index"
	case ExistColumnErr:
		return "exist_column"
	case NoTableErr:
		return "no_table"
	case ExistTableErr:
		return "exist_table"
	case DuplicateKeyErr:
		return "duplicate_key"
	case NotNullViolationErr:
		return "not_null_violation"
	case ForeignKeyViolationErr:
		return "foreign_key_violation"
	case CheckConstraintViolationErr:
		return "check_constraint_violation"
	case DataTruncatedErr:
		return "data_truncated"
	case InvalidTypeCastErr:
		return "invalid_type_cast"
	case SyntaxErr:
		return "syntax"
	case ConnectionLostErr:
		return "connection_lost"
	default:
		return "unknown"
	}
}

func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true, ConnectionLostErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1091:
			return true, NoIndexErr
		case 1054:
			return true, NoColumnErr
		case 1061:
			return true, ExistIndexErr
		case 1060:
			return true, ExistColumnErr
		case 1146:
			return true, NoTableErr
		case 1050:
			return true, ExistTableErr
		case 1062:
			return true, DuplicateKeyErr
		case 1048:
			return true, NotNullViolationErr
		case 1216, 1217, 1451, 1452:
			return true, ForeignKeyViolationErr
		case 3819:
			return true, CheckConstraintViolationErr
		case 1265, 1406:
			return true, DataTruncatedErr
		case 1064:
			return true, SyntaxErr
		default:
			return true, UnknownErr
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "42703":
			return true, NoColumnErr
		case "42704":
			return true, NoIndexErr
		case "42P01":
			return true, NoTableErr
		case "42P07":
			return true, ExistTableErr
		case "42701":
			return true, ExistColumnErr
		case "23505":
			return true, DuplicateKeyErr
		case "23502":
			return true, NotNullViolationErr
		case "23503":
			return true, ForeignKeyViolationErr
		case "23514":
			return true, CheckConstraintViolationErr
		case "22001":
			return true, DataTruncatedErr
		case "42804":
			return true, InvalidTypeCastErr
		case "42601":
			return true, SyntaxErr
		}
		if pqErr.Code.Class() == "08" {
			return true, ConnectionLostErr
		}
		return true, UnknownErr
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "undefined column") ||
		strings.Contains(s, "no such column") {
		return true, NoColumnErr
	}
	if strings.Contains(s, "no such index") {
		return true, NoIndexErr
	}
	if strings.Contains(s, "undefined table") ||
		strings.Contains(s, "no such table") {
		return true, NoTableErr
	}
	if strings.Contains(s, "already exists") &&
		strings.Contains(s, "index") {
		return true, ExistIndexErr
	}
	if strings.Contains(s, "already exists") &&
		strings.Contains(s, "table") {
		return true, ExistTableErr
	}
	if strings.Contains(s, "unique constraint failed") {
		return true, DuplicateKeyErr
	}
	if strings.Contains(s, "not null constraint failed") {
		return true, NotNullViolationErr
	}
	if strings.Contains(s, "foreign key constraint failed") {
		return true, ForeignKeyViolationErr
	}
	if strings.Contains(s, "check constraint failed") {
		return true, CheckConstraintViolationErr
	}
	if strings.Contains(s, "syntax error") {
		return true, SyntaxErr
	}
	if strings.Contains(s, "database is closed") ||
		strings.Contains(s, "connection refused") {
		return true, ConnectionLostErr
	}
	return false, UnknownErr
}
