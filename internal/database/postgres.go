package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type PostgresDriver struct {
	conn *pgx.Conn
}

func (pd *PostgresDriver) Connect(dsn string) error {
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return err
	}
	pd.conn = conn
	return nil
}

func (pd *PostgresDriver) Close() error {
	if pd.conn == nil {
		return nil
	}
	return pd.conn.Close(context.Background())
}

func (pd *PostgresDriver) ReadTable(ctx context.Context, table string, columns []string) ([][]string, error) {
	rows, err := pd.conn.Query(ctx, postgresSelect(table, columns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{append([]string(nil), columns...)}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = stringify(v)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (pd *PostgresDriver) WriteTable(ctx context.Context, table, ddl string, records [][]string) error {
	if len(records) == 0 {
		return fmt.Errorf("no header for table %s", table)
	}

	tx, err := pd.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	query := postgresInsert(table, records[0])
	batch := &pgx.Batch{}
	for _, record := range records[1:] {
		batch.Queue(query, nullable(record)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	return tx.Commit(ctx)
}

func postgresInsert(table string, columns []string) string {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		params[i] = "$" + strconv.Itoa(i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

// postgresSelect casts every column to text so numerics and timestamps come
// back in their canonical text form.
func postgresSelect(table string, columns []string) string {
	casts := make([]string, len(columns))
	for i, c := range columns {
		casts[i] = pgx.Identifier{c}.Sanitize() + "::text"
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(casts, ", "), pgx.Identifier{table}.Sanitize())
}
