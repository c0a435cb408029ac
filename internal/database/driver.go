package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"customer-analytics/internal/config"
)

// TableReader reads a whole table or collection as text records. The first
// record is the header; NULL values come back as empty strings.
type TableReader interface {
	Connect(dsn string) error
	Close() error
	ReadTable(ctx context.Context, table string, columns []string) ([][]string, error)
}

// TableWriter creates a dataset table and fills it from text records. The
// first record is the header; empty strings are stored as NULL.
type TableWriter interface {
	WriteTable(ctx context.Context, table, ddl string, records [][]string) error
}

type Driver interface {
	TableReader
	TableWriter
}

// New returns an unconnected driver for a database source.
func New(cfg config.Databases, source string) (Driver, error) {
	switch source {
	case config.SourcePostgres:
		return &PostgresDriver{}, nil
	case config.SourceMySQL:
		return NewMySQLDriver(), nil
	case config.SourceSQLite:
		return NewSQLiteDriver(), nil
	case config.SourceMongo:
		return &MongoDriver{Database: cfg.MongoDatabase}, nil
	}
	return nil, fmt.Errorf("no table reader for source %q", source)
}

// nullable maps empty cells to NULL.
func nullable(record []string) []interface{} {
	args := make([]interface{}, len(record))
	for i, v := range record {
		if v != "" {
			args[i] = v
		}
	}
	return args
}

const timestampLayout = "2006-01-02 15:04:05"

// stringify renders a scanned driver value the way the CSV exports spell it.
func stringify(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(timestampLayout)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
