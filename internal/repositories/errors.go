package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

func mysqlErrorNumber(err error) uint16 {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number
	}
	return 0
}

// isDuplicateEntry reports whether err is a MySQL unique key violation
func isDuplicateEntry(err error) bool {
	return mysqlErrorNumber(err) == mysqlDuplicateEntry
}

// isForeignKeyViolation reports whether err is caused by a missing or still referenced row
func isForeignKeyViolation(err error) bool {
	n := mysqlErrorNumber(err)
	return n == mysqlRowIsReferenced || n == mysqlNoReferencedRow
}
