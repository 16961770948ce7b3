// Copyright 2026 The Tesseract Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

// SQLDB is a Backend that executes generated statements against a real
// database/sql connection pool. It is deliberately driver-agnostic: the
// driver name and DSN are supplied by the caller, so any database/sql
// driver registered via a blank import can back it. cmd/tesseractd wires
// it to a MySQL-compatible row-store; a column-store backend is expected
// to supply its own Backend rather than go through here.
type SQLDB struct {
	db *sql.DB
}

// OpenSQLDB opens a connection pool for driverName/dsn and wraps it as a
// Backend. The connection is not verified until the first ExecSQL call;
// callers that want a fail-fast startup should call Ping themselves.
func OpenSQLDB(driverName, dsn string) (*SQLDB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &SQLDB{db: db}, nil
}

// Ping verifies the connection is reachable.
func (s *SQLDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *SQLDB) Close() error {
	return s.db.Close()
}

// ExecSQL runs query and scans every column as a string, matching the
// text-valued Result contract the rest of the core relies on.
func (s *SQLDB) ExecSQL(ctx context.Context, query string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, ErrBackendError.New(err.Error())
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, ErrBackendError.New(err.Error())
	}

	res := &Result{Columns: cols}
	scanned := make([]sql.NullString, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range scanned {
		ptrs[i] = &scanned[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, ErrBackendError.New(err.Error())
		}
		row := make([]string, len(cols))
		for i, v := range scanned {
			if v.Valid {
				row[i] = v.String
			}
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrBackendError.New(err.Error())
	}
	return res, nil
}
