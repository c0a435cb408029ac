package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLDriver reads tables through database/sql. It backs both the MySQL and
// SQLite sources, which differ only in driver name and identifier quoting.
type SQLDriver struct {
	driverName  string
	quote       func(string) string
	placeholder func(int) string
	db          *sql.DB
}

func (sd *SQLDriver) Connect(dsn string) error {
	db, err := sql.Open(sd.driverName, dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}
	sd.db = db
	return nil
}

func (sd *SQLDriver) Close() error {
	if sd.db == nil {
		return nil
	}
	return sd.db.Close()
}

func (sd *SQLDriver) ReadTable(ctx context.Context, table string, columns []string) ([][]string, error) {
	rows, err := sd.db.QueryContext(ctx, sd.selectQuery(table, columns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{append([]string(nil), columns...)}
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		record := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (sd *SQLDriver) selectQuery(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = sd.quote(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), sd.quote(table))
}

func quoteBacktick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func quoteDouble(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (sd *SQLDriver) WriteTable(ctx context.Context, table, ddl string, records [][]string) error {
	if len(records) == 0 {
		return fmt.Errorf("no header for table %s", table)
	}

	tx, err := sd.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, sd.insertQuery(table, records[0]))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, record := range records[1:] {
		if _, err := stmt.ExecContext(ctx, nullable(record)...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func (sd *SQLDriver) insertQuery(table string, columns []string) string {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = sd.quote(c)
		params[i] = sd.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", sd.quote(table), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

func questionMark(int) string {
	return "?"
}
