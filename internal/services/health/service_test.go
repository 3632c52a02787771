package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWithoutDatabase(t *testing.T) {
	st := NewService(nil).Check(context.Background())
	assert.Equal(t, Status{OK: true, Database: "memory"}, st)
}

func TestCheckPingsDatabase(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	assert.Equal(t, Status{OK: true, Database: "up"}, NewService(sqlDB).Check(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Equal(t, Status{OK: false, Database: "unreachable"}, NewService(sqlDB).Check(context.Background()))

	require.NoError(t, mock.ExpectationsWereMet())
}
