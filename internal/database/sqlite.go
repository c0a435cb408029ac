package database

import (
	_ "modernc.org/sqlite"
)

// NewSQLiteDriver reads from a SQLite file; the DSN is the file path.
func NewSQLiteDriver() *SQLDriver {
	return &SQLDriver{driverName: "sqlite", quote: quoteDouble, placeholder: questionMark}
}
