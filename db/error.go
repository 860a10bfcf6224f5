package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrDuplicateEntryCode = 1062
)

func MysqlErrCode(err error) int {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return 0
	}
	return int(mysqlErr.Number)
}

// IsDuplicateEntryErr reports a unique key violation on mysql or sqlite.
func IsDuplicateEntryErr(err error) bool {
	if err == nil {
		return false
	}
	return MysqlErrCode(err) == ErrDuplicateEntryCode || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
