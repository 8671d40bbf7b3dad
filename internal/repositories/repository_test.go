package repositories

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupMockDB creates a mock database and registers its cleanup
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db, mock
}

func duplicateEntryError() error {
	return &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"}
}

func foreignKeyError() error {
	return &mysql.MySQLError{Number: mysqlNoReferencedRow, Message: "Cannot add or update a child row"}
}

var nopLogger = zap.NewNop()
