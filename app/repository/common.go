package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// namedRow holds one result row keyed by lower-cased column name. Stored
// procedures do not guarantee column order, so values are read by name.
type namedRow map[string]sql.NullString

func (r namedRow) value(column string) string {
	v, ok := r[column]
	if !ok || !v.Valid {
		return ""
	}
	return strings.TrimSpace(v.String)
}

func (r namedRow) optional(column string) *string {
	v := r.value(column)
	if v == "" {
		return nil
	}
	return &v
}

func scanNamedRow(rows *sql.Rows) (namedRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(namedRow, len(columns))
	for i, column := range columns {
		row[strings.ToLower(column)] = values[i]
	}
	return row, nil
}

// isMissingRoutineError reports MySQL error 1305, returned when the lookup
// procedure does not exist on the server.
func isMissingRoutineError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1305
}
