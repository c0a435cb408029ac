package database

import (
	_ "github.com/go-sql-driver/mysql"
)

func NewMySQLDriver() *SQLDriver {
	return &SQLDriver{driverName: "mysql", quote: quoteBacktick, placeholder: questionMark}
}
